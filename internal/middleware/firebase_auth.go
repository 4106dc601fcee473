package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/socialchat/gateway/internal/authprovider"
)

// ContextKeyUserID is where the authenticated account UID is stored on the
// request context.
const ContextKeyUserID = "userID"

// FirebaseAuth creates an Echo middleware that verifies provider ID tokens
// from the Authorization header and stores the account UID on the context.
func FirebaseAuth(provider authprovider.Provider) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header is missing")
			}

			tokenParts := strings.Split(authHeader, " ")
			if len(tokenParts) != 2 || !strings.EqualFold(tokenParts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header must be in Bearer format")
			}

			uid, err := provider.VerifyToken(c.Request().Context(), tokenParts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired ID token")
			}

			c.Set(ContextKeyUserID, uid)
			return next(c)
		}
	}
}

// UserID extracts the authenticated account UID set by FirebaseAuth.
func UserID(c echo.Context) string {
	uid, _ := c.Get(ContextKeyUserID).(string)
	return uid
}
