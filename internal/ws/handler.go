package ws

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"nhooyr.io/websocket"

	"github.com/socialchat/gateway/internal/authprovider"
	"github.com/socialchat/gateway/internal/debounce"
	"github.com/socialchat/gateway/internal/views"
)

// ServeWS returns the Echo handler that upgrades to WebSocket. Auth is a
// ?token=xxx query param carrying the provider ID token, since browsers
// cannot attach headers to a WebSocket dial. Dials are accepted only from
// origins matching the configured patterns.
func ServeWS(hub *Hub, mgr *views.Manager, provider authprovider.Provider, exists debounce.ExistsFunc, origins []string, log *zap.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		r := c.Request()

		tokenStr := r.URL.Query().Get("token")
		if tokenStr == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing token")
		}

		userID, err := provider.VerifyToken(r.Context(), tokenStr)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
		}

		conn, err := websocket.Accept(c.Response(), r, &websocket.AcceptOptions{
			OriginPatterns: origins,
		})
		if err != nil {
			log.Warn("websocket accept failed", zap.Error(err))
			return nil
		}

		client := NewClient(hub, conn, userID, mgr, exists, log)
		hub.Register(client)

		go client.WritePump()
		client.ReadPump()
		return nil
	}
}

// RegistryExists adapts a username-registry lookup to the debounce
// checker's predicate shape.
func RegistryExists(exists func(username string) (bool, error)) debounce.ExistsFunc {
	return func(_ context.Context, value string) (bool, error) {
		return exists(value)
	}
}
