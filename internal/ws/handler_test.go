package ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/socialchat/gateway/internal/authprovider"
)

// staticProvider accepts every token as belonging to uid.
type staticProvider struct {
	uid string
}

func (p *staticProvider) CreateAccount(ctx context.Context, email, password, displayName string) (*authprovider.Account, error) {
	return &authprovider.Account{UID: p.uid}, nil
}

func (p *staticProvider) GetAccount(ctx context.Context, uid string) (*authprovider.Account, error) {
	return &authprovider.Account{UID: uid}, nil
}

func (p *staticProvider) VerifyToken(ctx context.Context, idToken string) (string, error) {
	return p.uid, nil
}

func (p *staticProvider) DeleteAccount(ctx context.Context, uid string) error { return nil }

func upgradeRequest(target, origin string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.Header.Set("Connection", "Upgrade")
	req.Header.Set("Upgrade", "websocket")
	req.Header.Set("Sec-WebSocket-Version", "13")
	req.Header.Set("Sec-WebSocket-Key", "dGhlIHNhbXBsZSBub25jZQ==")
	req.Header.Set("Origin", origin)
	return req
}

func TestServeWSRejectsMissingToken(t *testing.T) {
	log := zap.NewNop()
	handler := ServeWS(NewHub(log), nil, &staticProvider{uid: "u1"}, nil, []string{"app.example.com"}, log)

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(upgradeRequest("/ws", "https://app.example.com"), rec)

	err := handler(c)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestServeWSRejectsForeignOrigin(t *testing.T) {
	log := zap.NewNop()
	hub := NewHub(log)
	handler := ServeWS(hub, nil, &staticProvider{uid: "u1"}, nil, []string{"app.example.com"}, log)

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(upgradeRequest("/ws?token=abc", "https://evil.example.com"), rec)

	require.NoError(t, handler(c))
	assert.Equal(t, http.StatusForbidden, rec.Code, "cross-origin dial must fail the upgrade")
	assert.Equal(t, 0, hub.Len(), "rejected dial never registers a client")
}
