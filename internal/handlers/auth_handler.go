package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/socialchat/gateway/internal/authprovider"
	"github.com/socialchat/gateway/internal/debounce"
	"github.com/socialchat/gateway/internal/models"
	"github.com/socialchat/gateway/internal/repositories"
)

// AuthHandler handles account registration and session exchange.
type AuthHandler struct {
	provider authprovider.Provider
	profiles repositories.ProfileRepository
	registry *repositories.UsernameRegistry
	log      *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(provider authprovider.Provider, profiles repositories.ProfileRepository, registry *repositories.UsernameRegistry, log *zap.Logger) *AuthHandler {
	return &AuthHandler{provider: provider, profiles: profiles, registry: registry, log: log}
}

// Register creates the provider account, claims the username and writes the
// profile document. Later steps roll back the earlier ones on failure, so a
// half-registered account never survives.
func (h *AuthHandler) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	username := strings.ToLower(strings.TrimSpace(req.Username))
	if !debounce.ValidUsernameFormat(username) {
		return echo.NewHTTPError(http.StatusBadRequest, "username must be at least 3 characters of letters, digits or underscores")
	}

	ctx := c.Request().Context()

	account, err := h.provider.CreateAccount(ctx, req.Email, req.Password, req.Name)
	if err != nil {
		return httpError(err)
	}

	if err := h.registry.Claim(username, account.UID); err != nil {
		if delErr := h.provider.DeleteAccount(ctx, account.UID); delErr != nil {
			h.log.Error("rollback account delete failed", zap.String("uid", account.UID), zap.Error(delErr))
		}
		return httpError(err)
	}

	profile := models.NewProfile(account.UID, req.Name, username, req.Email)
	if err := h.profiles.Create(ctx, profile); err != nil {
		if relErr := h.registry.Release(username); relErr != nil {
			h.log.Error("rollback username release failed", zap.String("username", username), zap.Error(relErr))
		}
		if delErr := h.provider.DeleteAccount(ctx, account.UID); delErr != nil {
			h.log.Error("rollback account delete failed", zap.String("uid", account.UID), zap.Error(delErr))
		}
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, profile)
}

// SessionRequest is the token exchange body.
type SessionRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

// Session verifies a provider ID token and returns the caller's profile.
func (h *AuthHandler) Session(c echo.Context) error {
	var req SessionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	uid, err := h.provider.VerifyToken(ctx, req.IDToken)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired ID token")
	}

	profile, err := h.profiles.GetByID(ctx, uid)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, profile)
}

// UsernameAvailable is the advisory availability lookup behind the signup
// form. Registration still goes through the registry claim, so a stale
// "available" here can never produce a duplicate.
func (h *AuthHandler) UsernameAvailable(c echo.Context) error {
	username := strings.ToLower(strings.TrimSpace(c.QueryParam("username")))
	if !debounce.ValidUsernameFormat(username) {
		return c.JSON(http.StatusOK, echo.Map{"username": username, "status": string(debounce.StatusInvalid)})
	}

	taken, err := h.registry.Exists(username)
	if err != nil {
		return httpError(err)
	}
	status := debounce.StatusAvailable
	if taken {
		status = debounce.StatusTaken
	}
	return c.JSON(http.StatusOK, echo.Map{"username": username, "status": string(status)})
}
