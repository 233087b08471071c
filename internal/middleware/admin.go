package middleware

import (
	"ecowear/internal/common"

	"github.com/labstack/echo/v4"
)

// RequireAdmin gates a route group to users whose token carries the admin
// flag. Runs after the JWT middleware has populated the request context.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			if _, ok := common.GetUserIDFromContext(ctx); !ok {
				return common.SendUnauthorizedError(c)
			}
			if !common.GetIsAdminFromContext(ctx) {
				return common.SendForbiddenError(c)
			}
			return next(c)
		}
	}
}
