package middleware

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/moonchanyong/arom-server/internal/adapters/mongodb"
	"github.com/moonchanyong/arom-server/internal/domain"
	"github.com/moonchanyong/arom-server/internal/usecase"
	"github.com/moonchanyong/arom-server/pkg/httperr"
)

const callerContextKey = "caller"

type AuthMiddleware struct {
	tokens *usecase.JWTService
	users  mongodb.UserRepository
}

func NewAuthMiddleware(tokens *usecase.JWTService, users mongodb.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users}
}

// Authenticate resolves the caller from the Authorization header. The header
// value is the raw auth token; clients never send a Bearer prefix. Beyond
// signature and expiry, the token must byte-equal the session stored on the
// account, so issuing a new pair anywhere kills old tokens everywhere.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := c.Request().Header.Get(echo.HeaderAuthorization)
		if token == "" {
			return httperr.Unauthorized("Auth Token is not found. Try Again.")
		}

		userID, err := m.tokens.ValidateAuth(token)
		if err != nil {
			if errors.Is(err, usecase.ErrTokenExpired) {
				return httperr.Unauthorized("Auth Token was expired. Try Again for refresh token.")
			}
			return httperr.Unauthorized("Auth Token is invalid.")
		}

		user, err := m.users.FindByID(c.Request().Context(), userID)
		if err != nil {
			if errors.Is(err, mongodb.ErrNotFound) {
				return httperr.Unauthorized("This user does not exist.")
			}
			return err
		}
		if user.AuthToken == "" || user.AuthToken != token {
			return httperr.Unauthorized("Auth Token is invalid. Try Again.")
		}

		c.Set(callerContextKey, user)
		return next(c)
	}
}

// Caller returns the account resolved by Authenticate. Handlers must
// authorize from this, never from client-supplied ids.
func Caller(c echo.Context) *domain.User {
	user, _ := c.Get(callerContextKey).(*domain.User)
	return user
}

// SetCaller exists for handler tests that bypass Authenticate.
func SetCaller(c echo.Context, user *domain.User) {
	c.Set(callerContextKey, user)
}

// RequireDeviceOwner gates shadow access on ownership. It runs after
// Authenticate and before the handler body.
func RequireDeviceOwner(devices *usecase.DeviceService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			caller := Caller(c)
			if caller == nil {
				return httperr.Unauthorized("Auth Token is not found. Try Again.")
			}
			if err := devices.AuthorizeOwner(c.Request().Context(), caller, c.Param("device_id")); err != nil {
				return err
			}
			return next(c)
		}
	}
}
