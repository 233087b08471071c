package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"ecowear/internal/common"
	"ecowear/internal/models"
	"ecowear/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockCheckoutService struct {
	mock.Mock
}

func (m *MockCheckoutService) Convert(ctx context.Context, userID uuid.UUID) (*services.Receipt, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Receipt), args.Error(1)
}

func (m *MockCheckoutService) MarkPaid(ctx context.Context, userID, orderID uuid.UUID) error {
	args := m.Called(ctx, userID, orderID)
	return args.Error(0)
}

func (m *MockCheckoutService) Cancel(ctx context.Context, userID, orderID uuid.UUID) error {
	args := m.Called(ctx, userID, orderID)
	return args.Error(0)
}

func (m *MockCheckoutService) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, userID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockCheckoutService) ListOrders(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Order, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]*models.Order), args.Error(1)
}

type OrderHandlersTestSuite struct {
	suite.Suite
	checkoutSvc *MockCheckoutService
	handlers    *OrderHandlers
	echo        *echo.Echo
	userID      uuid.UUID
}

func (suite *OrderHandlersTestSuite) SetupTest() {
	suite.checkoutSvc = new(MockCheckoutService)
	suite.handlers = NewOrderHandlers(suite.checkoutSvc)
	suite.echo = echo.New()
	suite.userID = uuid.New()
}

func TestOrderHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(OrderHandlersTestSuite))
}

// newContext builds an echo context carrying the authenticated user, the way
// the JWT middleware does for real requests.
func (suite *OrderHandlersTestSuite) newContext(method, target string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, nil)
	ctx := context.WithValue(req.Context(), common.UserIDKey, suite.userID)
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()
	return suite.echo.NewContext(req, rec), rec
}

func (suite *OrderHandlersTestSuite) errorCode(rec *httptest.ResponseRecorder) string {
	var resp common.ErrorResponse
	assert.NoError(suite.T(), json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Error.Code
}

func (suite *OrderHandlersTestSuite) TestCheckout_Success() {
	receipt := &services.Receipt{
		OrderID: uuid.New(),
		Total:   decimal.RequireFromString("25.00"),
	}
	suite.checkoutSvc.On("Convert", mock.Anything, suite.userID).Return(receipt, nil)

	c, rec := suite.newContext(http.MethodPost, "/v1/checkout")
	err := suite.handlers.Checkout(c)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), http.StatusCreated, rec.Code)

	var body map[string]interface{}
	assert.NoError(suite.T(), json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(suite.T(), receipt.OrderID.String(), body["order_id"])
	assert.Equal(suite.T(), "25", body["total"])
}

func (suite *OrderHandlersTestSuite) TestCheckout_EmptyCart() {
	suite.checkoutSvc.On("Convert", mock.Anything, suite.userID).Return(nil, services.ErrEmptyCart)

	c, rec := suite.newContext(http.MethodPost, "/v1/checkout")
	err := suite.handlers.Checkout(c)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
	assert.Equal(suite.T(), "EMPTY_CART", suite.errorCode(rec))
}

func (suite *OrderHandlersTestSuite) TestCheckout_InsufficientStock() {
	productID := uuid.New()
	suite.checkoutSvc.On("Convert", mock.Anything, suite.userID).Return(nil, &services.InsufficientStockError{
		ProductID:   productID,
		ProductName: "Upcycled Silk Scarf",
		Available:   1,
		Requested:   3,
	})

	c, rec := suite.newContext(http.MethodPost, "/v1/checkout")
	err := suite.handlers.Checkout(c)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)

	var resp common.ErrorResponse
	assert.NoError(suite.T(), json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(suite.T(), "INSUFFICIENT_STOCK", resp.Error.Code)
	assert.Equal(suite.T(), productID.String(), resp.Error.Details["product_id"])
	assert.Equal(suite.T(), "1", resp.Error.Details["available"])
	assert.Equal(suite.T(), "3", resp.Error.Details["requested"])
}

func (suite *OrderHandlersTestSuite) TestCheckout_ProductGone() {
	suite.checkoutSvc.On("Convert", mock.Anything, suite.userID).Return(nil, services.ErrProductNotFound)

	c, rec := suite.newContext(http.MethodPost, "/v1/checkout")
	err := suite.handlers.Checkout(c)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), http.StatusNotFound, rec.Code)
	assert.Equal(suite.T(), "NOT_FOUND", suite.errorCode(rec))
}

func (suite *OrderHandlersTestSuite) TestCheckout_InfrastructureErrorIsOpaque() {
	suite.checkoutSvc.On("Convert", mock.Anything, suite.userID).Return(nil, errors.New("pq: connection refused"))

	c, rec := suite.newContext(http.MethodPost, "/v1/checkout")
	err := suite.handlers.Checkout(c)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), http.StatusInternalServerError, rec.Code)
	assert.Equal(suite.T(), "SERVER_ERROR", suite.errorCode(rec))
	assert.NotContains(suite.T(), rec.Body.String(), "connection refused")
}

func (suite *OrderHandlersTestSuite) TestCheckout_Unauthenticated() {
	req := httptest.NewRequest(http.MethodPost, "/v1/checkout", nil)
	rec := httptest.NewRecorder()
	c := suite.echo.NewContext(req, rec)

	err := suite.handlers.Checkout(c)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), http.StatusUnauthorized, rec.Code)
}

func (suite *OrderHandlersTestSuite) TestPayOrder_Success() {
	orderID := uuid.New()
	suite.checkoutSvc.On("MarkPaid", mock.Anything, suite.userID, orderID).Return(nil)

	c, rec := suite.newContext(http.MethodPost, "/v1/orders/"+orderID.String()+"/pay")
	c.SetParamNames("id")
	c.SetParamValues(orderID.String())

	err := suite.handlers.PayOrder(c)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	suite.checkoutSvc.AssertExpectations(suite.T())
}

func (suite *OrderHandlersTestSuite) TestPayOrder_InvalidStatus() {
	orderID := uuid.New()
	suite.checkoutSvc.On("MarkPaid", mock.Anything, suite.userID, orderID).Return(services.ErrInvalidStatus)

	c, rec := suite.newContext(http.MethodPost, "/v1/orders/"+orderID.String()+"/pay")
	c.SetParamNames("id")
	c.SetParamValues(orderID.String())

	err := suite.handlers.PayOrder(c)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
}

func (suite *OrderHandlersTestSuite) TestCancelOrder_NotFound() {
	orderID := uuid.New()
	suite.checkoutSvc.On("Cancel", mock.Anything, suite.userID, orderID).Return(services.ErrOrderNotFound)

	c, rec := suite.newContext(http.MethodPost, "/v1/orders/"+orderID.String()+"/cancel")
	c.SetParamNames("id")
	c.SetParamValues(orderID.String())

	err := suite.handlers.CancelOrder(c)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), http.StatusNotFound, rec.Code)
}

func (suite *OrderHandlersTestSuite) TestGetOrder_BadID() {
	c, rec := suite.newContext(http.MethodGet, "/v1/orders/not-a-uuid")
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")

	err := suite.handlers.GetOrder(c)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
}
