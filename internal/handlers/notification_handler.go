package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/socialchat/gateway/internal/middleware"
	"github.com/socialchat/gateway/internal/repositories"
)

// NotificationHandler handles the caller's notification list. Deletion is a
// tombstone write, so listing and live views exclude deleted entries
// without needing delete-event propagation.
type NotificationHandler struct {
	notifications repositories.NotificationRepository
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notifications repositories.NotificationRepository) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// List returns the caller's notifications newest-first, tombstones excluded.
func (h *NotificationHandler) List(c echo.Context) error {
	items, err := h.notifications.ListActive(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, items)
}

// MarkRead marks one of the caller's notifications as read.
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	if err := h.notifications.MarkRead(c.Request().Context(), c.Param("id"), middleware.UserID(c)); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// MarkAllRead marks every active notification of the caller as read.
func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	if err := h.notifications.MarkAllRead(c.Request().Context(), middleware.UserID(c)); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete tombstones one of the caller's notifications.
func (h *NotificationHandler) Delete(c echo.Context) error {
	if err := h.notifications.SoftDelete(c.Request().Context(), c.Param("id"), middleware.UserID(c)); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
