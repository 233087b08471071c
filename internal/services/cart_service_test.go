package services

import (
	"context"
	"testing"

	"ecowear/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type CartServiceTestSuite struct {
	suite.Suite
	cartRepo    *MockCartItemRepository
	productRepo *MockProductRepository
	service     CartService
	userID      uuid.UUID
	productID   uuid.UUID
	context     context.Context
}

func (suite *CartServiceTestSuite) SetupTest() {
	suite.cartRepo = new(MockCartItemRepository)
	suite.productRepo = new(MockProductRepository)
	suite.service = NewCartService(suite.cartRepo, suite.productRepo)
	suite.userID = uuid.New()
	suite.productID = uuid.New()
	suite.context = context.Background()
}

func TestCartServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CartServiceTestSuite))
}

func (suite *CartServiceTestSuite) product(stock int) *models.Product {
	return &models.Product{
		ID:        suite.productID,
		Name:      "Organic Cotton Shirt",
		UnitPrice: decimal.RequireFromString("10.00"),
		Stock:     stock,
	}
}

func (suite *CartServiceTestSuite) TestAdd_NewLine() {
	suite.productRepo.On("GetByID", suite.context, suite.productID).Return(suite.product(5), nil)
	suite.cartRepo.On("GetByUserAndProduct", suite.context, suite.userID, suite.productID).Return(nil, nil)
	suite.cartRepo.On("Upsert", suite.context, mock.MatchedBy(func(item *models.CartItem) bool {
		return item.UserID == suite.userID && item.ProductID == suite.productID && item.Quantity == 2
	})).Return(nil)

	err := suite.service.Add(suite.context, suite.userID, suite.productID, 2)
	assert.NoError(suite.T(), err)
	suite.cartRepo.AssertExpectations(suite.T())
}

func (suite *CartServiceTestSuite) TestAdd_ZeroQuantity() {
	err := suite.service.Add(suite.context, suite.userID, suite.productID, 0)
	assert.ErrorIs(suite.T(), err, ErrInvalidQuantity)
	suite.productRepo.AssertNotCalled(suite.T(), "GetByID")
}

func (suite *CartServiceTestSuite) TestAdd_NegativeQuantity() {
	err := suite.service.Add(suite.context, suite.userID, suite.productID, -1)
	assert.ErrorIs(suite.T(), err, ErrInvalidQuantity)
}

func (suite *CartServiceTestSuite) TestAdd_UnknownProduct() {
	suite.productRepo.On("GetByID", suite.context, suite.productID).Return(nil, nil)

	err := suite.service.Add(suite.context, suite.userID, suite.productID, 1)
	assert.ErrorIs(suite.T(), err, ErrProductNotFound)
}

func (suite *CartServiceTestSuite) TestAdd_MergedQuantityExceedsStock() {
	// 3 already in the cart, stock is 4: adding 2 more must fail even
	// though the delta alone would fit.
	suite.productRepo.On("GetByID", suite.context, suite.productID).Return(suite.product(4), nil)
	suite.cartRepo.On("GetByUserAndProduct", suite.context, suite.userID, suite.productID).
		Return(&models.CartItem{UserID: suite.userID, ProductID: suite.productID, Quantity: 3}, nil)

	err := suite.service.Add(suite.context, suite.userID, suite.productID, 2)

	var stockErr *InsufficientStockError
	assert.ErrorAs(suite.T(), err, &stockErr)
	assert.Equal(suite.T(), 4, stockErr.Available)
	assert.Equal(suite.T(), 5, stockErr.Requested)
	suite.cartRepo.AssertNotCalled(suite.T(), "Upsert")
}

func (suite *CartServiceTestSuite) TestAdd_MergeWithinStock() {
	suite.productRepo.On("GetByID", suite.context, suite.productID).Return(suite.product(5), nil)
	suite.cartRepo.On("GetByUserAndProduct", suite.context, suite.userID, suite.productID).
		Return(&models.CartItem{UserID: suite.userID, ProductID: suite.productID, Quantity: 2}, nil)
	suite.cartRepo.On("Upsert", suite.context, mock.MatchedBy(func(item *models.CartItem) bool {
		return item.Quantity == 3 // the delta, merged by the upsert itself
	})).Return(nil)

	err := suite.service.Add(suite.context, suite.userID, suite.productID, 3)
	assert.NoError(suite.T(), err)
	suite.cartRepo.AssertExpectations(suite.T())
}

func (suite *CartServiceTestSuite) TestUpdateQuantity_SetsAbsoluteValue() {
	suite.productRepo.On("GetByID", suite.context, suite.productID).Return(suite.product(5), nil)
	suite.cartRepo.On("GetByUserAndProduct", suite.context, suite.userID, suite.productID).
		Return(&models.CartItem{UserID: suite.userID, ProductID: suite.productID, Quantity: 1}, nil)
	suite.cartRepo.On("SetQuantity", suite.context, suite.userID, suite.productID, 4).Return(nil)

	err := suite.service.UpdateQuantity(suite.context, suite.userID, suite.productID, 4)
	assert.NoError(suite.T(), err)
	suite.cartRepo.AssertExpectations(suite.T())
}

func (suite *CartServiceTestSuite) TestUpdateQuantity_ExceedsStock() {
	suite.productRepo.On("GetByID", suite.context, suite.productID).Return(suite.product(2), nil)

	err := suite.service.UpdateQuantity(suite.context, suite.userID, suite.productID, 3)

	var stockErr *InsufficientStockError
	assert.ErrorAs(suite.T(), err, &stockErr)
	assert.Equal(suite.T(), 2, stockErr.Available)
}

func (suite *CartServiceTestSuite) TestUpdateQuantity_MissingLineCreatesIt() {
	suite.productRepo.On("GetByID", suite.context, suite.productID).Return(suite.product(5), nil)
	suite.cartRepo.On("GetByUserAndProduct", suite.context, suite.userID, suite.productID).Return(nil, nil)
	suite.cartRepo.On("Upsert", suite.context, mock.MatchedBy(func(item *models.CartItem) bool {
		return item.Quantity == 2
	})).Return(nil)

	err := suite.service.UpdateQuantity(suite.context, suite.userID, suite.productID, 2)
	assert.NoError(suite.T(), err)
	suite.cartRepo.AssertExpectations(suite.T())
}

func (suite *CartServiceTestSuite) TestGet_ComputesTotals() {
	suite.cartRepo.On("ListLinesByUser", suite.context, suite.userID).Return([]*models.CartLine{
		{ProductID: uuid.New(), ProductName: "Organic Cotton Shirt", UnitPrice: decimal.RequireFromString("10.00"), Quantity: 2, Stock: 5},
		{ProductID: uuid.New(), ProductName: "Upcycled Silk Scarf", UnitPrice: decimal.RequireFromString("5.00"), Quantity: 1, Stock: 1},
	}, nil)

	cart, err := suite.service.Get(suite.context, suite.userID)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), cart.Lines, 2)
	assert.True(suite.T(), cart.Lines[0].Subtotal.Equal(decimal.RequireFromString("20.00")))
	assert.True(suite.T(), cart.Lines[1].Subtotal.Equal(decimal.RequireFromString("5.00")))
	assert.True(suite.T(), cart.Total.Equal(decimal.RequireFromString("25.00")))
}

func (suite *CartServiceTestSuite) TestGet_EmptyCart() {
	suite.cartRepo.On("ListLinesByUser", suite.context, suite.userID).Return([]*models.CartLine(nil), nil)

	cart, err := suite.service.Get(suite.context, suite.userID)
	assert.NoError(suite.T(), err)
	assert.Empty(suite.T(), cart.Lines)
	assert.True(suite.T(), cart.Total.IsZero())
}

func (suite *CartServiceTestSuite) TestClear() {
	suite.cartRepo.On("DeleteByUser", suite.context, suite.userID).Return(nil)

	err := suite.service.Clear(suite.context, suite.userID)
	assert.NoError(suite.T(), err)
	suite.cartRepo.AssertExpectations(suite.T())
}
