package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"
)

// HealthHandler reports process and document-store liveness.
type HealthHandler struct {
	mongo *mongo.Client
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(client *mongo.Client) *HealthHandler {
	return &HealthHandler{mongo: client}
}

// Check pings the document store and reports status.
func (h *HealthHandler) Check(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	if err := h.mongo.Ping(ctx, nil); err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "degraded"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
