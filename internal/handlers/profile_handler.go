package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/socialchat/gateway/internal/blob"
	"github.com/socialchat/gateway/internal/middleware"
	"github.com/socialchat/gateway/internal/models"
	"github.com/socialchat/gateway/internal/repositories"
)

const defaultSearchLimit = 20

// ProfileHandler handles profile reads and owner-side updates.
type ProfileHandler struct {
	profiles repositories.ProfileRepository
	media    *blob.Store
	log      *zap.Logger
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profiles repositories.ProfileRepository, media *blob.Store, log *zap.Logger) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, media: media, log: log}
}

// GetMe returns the caller's own profile.
func (h *ProfileHandler) GetMe(c echo.Context) error {
	profile, err := h.profiles.GetByID(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, profile)
}

// GetProfile returns a profile by account id.
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	profile, err := h.profiles.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, profile)
}

// GetByUsername returns a profile by its unique username.
func (h *ProfileHandler) GetByUsername(c echo.Context) error {
	username := strings.ToLower(strings.TrimSpace(c.Param("username")))
	profile, err := h.profiles.GetByUsername(c.Request().Context(), username)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, profile)
}

// Search finds profiles by username prefix.
func (h *ProfileHandler) Search(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query parameter q is required")
	}

	limit := int64(defaultSearchLimit)
	if raw := c.QueryParam("limit"); raw != "" {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	results, err := h.profiles.Search(c.Request().Context(), query, limit)
	if err != nil {
		return httpError(err)
	}

	compact := make([]models.ProfileCompact, 0, len(results))
	for _, p := range results {
		compact = append(compact, p.ToCompact())
	}
	return c.JSON(http.StatusOK, compact)
}

// UpdateMe applies partial profile updates, including the theme preference
// mirrored across the caller's devices.
func (h *ProfileHandler) UpdateMe(c echo.Context) error {
	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	updates := bson.M{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Avatar != "" {
		updates["avatar"] = req.Avatar
	}
	if req.ThemePreference != "" {
		updates["theme_preference"] = req.ThemePreference
	}
	if req.ColorTheme != "" {
		updates["color_theme"] = req.ColorTheme
	}
	if len(updates) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "no updatable fields provided")
	}

	uid := middleware.UserID(c)
	ctx := c.Request().Context()

	var staleAvatar string
	if req.Avatar != "" {
		if current, err := h.profiles.GetByID(ctx, uid); err == nil && current.Avatar != "" && current.Avatar != req.Avatar {
			staleAvatar = current.Avatar
		}
	}

	if err := h.profiles.Update(ctx, uid, updates); err != nil {
		return httpError(err)
	}

	// The replaced avatar object is unreachable once the profile points at
	// the new URL. Cleanup is best effort and never fails the update.
	if staleAvatar != "" && h.media != nil {
		if objectPath, ok := h.media.PathFromURL(staleAvatar); ok {
			if err := h.media.Delete(ctx, objectPath); err != nil {
				h.log.Warn("stale avatar cleanup failed", zap.String("object", objectPath), zap.Error(err))
			}
		}
	}

	profile, err := h.profiles.GetByID(ctx, uid)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, profile)
}

// RegisterPushToken saves the caller's device token for push delivery.
func (h *ProfileHandler) RegisterPushToken(c echo.Context) error {
	var req models.RegisterPushTokenRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.profiles.SetFCMToken(c.Request().Context(), middleware.UserID(c), req.Token); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
