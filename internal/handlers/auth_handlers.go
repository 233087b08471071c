package handlers

import (
	"errors"
	"net/http"
	"strings"

	"ecowear/internal/common"
	"ecowear/internal/models"
	"ecowear/internal/services"

	"github.com/labstack/echo/v4"
)

// AuthHandlers handles signup, login and the current-user endpoint.
type AuthHandlers struct {
	authService services.AuthService
}

func NewAuthHandlers(authService services.AuthService) *AuthHandlers {
	return &AuthHandlers{authService: authService}
}

// SignupRequest represents the signup request payload
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned from signup and login
type AuthResponse struct {
	services.TokenResponse
	User *models.User `json:"user"`
}

// Signup handles POST /auth/signup
func (h *AuthHandlers) Signup(c echo.Context) error {
	ctx := c.Request().Context()

	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Name == "" {
		return common.SendValidationError(c, "name", "Name is required")
	}
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return common.SendValidationError(c, "email", "A valid email is required")
	}
	if len(req.Password) < 6 {
		return common.SendValidationError(c, "password", "Password must be at least 6 characters")
	}

	user, token, err := h.authService.Signup(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			return common.SendValidationError(c, "email", "Email is already registered")
		}
		return common.SendServerError(c)
	}

	return c.JSON(http.StatusCreated, AuthResponse{TokenResponse: *token, User: user})
}

// Login handles POST /auth/login
func (h *AuthHandlers) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.Email == "" || req.Password == "" {
		return common.SendClientError(c, "Email and password are required")
	}

	user, token, err := h.authService.Login(ctx, strings.TrimSpace(strings.ToLower(req.Email)), req.Password)
	if err != nil {
		if errors.Is(err, services.ErrBadCredentials) {
			return common.SendUnauthorizedError(c)
		}
		return common.SendServerError(c)
	}

	return c.JSON(http.StatusOK, AuthResponse{TokenResponse: *token, User: user})
}

// Me handles GET /me
func (h *AuthHandlers) Me(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	user, err := h.authService.GetUser(ctx, userID)
	if err != nil {
		return common.SendServerError(c)
	}
	if user == nil {
		return common.SendNotFoundError(c, "User")
	}
	return c.JSON(http.StatusOK, user)
}
