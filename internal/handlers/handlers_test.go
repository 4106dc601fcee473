package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/socialchat/gateway/internal/errs"
	"github.com/socialchat/gateway/internal/models"
)

// fakeProfiles serves profile lookups from a map; missing ids fail.
type fakeProfiles struct {
	byID map[string]*models.Profile
}

func (f *fakeProfiles) Create(ctx context.Context, p *models.Profile) error { return nil }

func (f *fakeProfiles) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	if p, ok := f.byID[id]; ok {
		return p, nil
	}
	return nil, errs.ErrNotFound
}

func (f *fakeProfiles) GetByUsername(ctx context.Context, username string) (*models.Profile, error) {
	for _, p := range f.byID {
		if p.Username == username {
			return p, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (f *fakeProfiles) Update(ctx context.Context, id string, updates bson.M) error { return nil }
func (f *fakeProfiles) SetFCMToken(ctx context.Context, id, token string) error     { return nil }
func (f *fakeProfiles) Search(ctx context.Context, prefix string, limit int64) ([]models.Profile, error) {
	return nil, nil
}

func TestJoinAuthorsResolvesAndDegrades(t *testing.T) {
	profiles := &fakeProfiles{byID: map[string]*models.Profile{
		"u1": {ID: "u1", Name: "Alice", Username: "alice"},
	}}
	posts := []models.Post{
		{UserID: "u1", Content: "hello"},
		{UserID: "gone", Content: "orphan"},
	}

	enriched := joinAuthors(context.Background(), profiles, posts,
		func(p models.Post) string { return p.UserID },
		func(p models.Post, a models.ProfileCompact) models.EnrichedPost {
			return models.EnrichedPost{Post: p, Author: a}
		})

	require.Len(t, enriched, 2)
	assert.Equal(t, "Alice", enriched[0].Author.Name)
	assert.Equal(t, "Unknown", enriched[1].Author.Name, "failed lookup degrades to placeholder")
	assert.Equal(t, "gone", enriched[1].Author.ID)
	assert.Equal(t, "orphan", enriched[1].Content, "item with failed join is kept, not dropped")
}

func TestGetByUsernameLooksUpProfile(t *testing.T) {
	profiles := &fakeProfiles{byID: map[string]*models.Profile{
		"u1": {ID: "u1", Name: "Alice", Username: "alice"},
	}}
	h := NewProfileHandler(profiles, nil, zap.NewNop())
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("username")
	c.SetParamValues(" Alice ")

	require.NoError(t, h.GetByUsername(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":"u1"`, "lookup is trimmed and case-folded")

	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.SetParamNames("username")
	c.SetParamValues("nobody")

	err := h.GetByUsername(c)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.Code)
}

func TestHTTPErrorMapping(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{errs.ErrNotFound, http.StatusNotFound},
		{errs.ErrAlreadyExists, http.StatusConflict},
		{errs.ErrForbidden, http.StatusForbidden},
		{errs.ErrNotFriends, http.StatusForbidden},
		{errs.ErrInvalidInput, http.StatusBadRequest},
		{errs.ErrWeakCredential, http.StatusBadRequest},
		{errs.ErrRateLimited, http.StatusTooManyRequests},
		{errors.New("driver exploded"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.code, httpError(tt.err).Code, "for error %v", tt.err)
	}
}

func TestHTTPErrorUnwrapsWrappedSentinels(t *testing.T) {
	wrapped := errors.Join(errors.New("context"), errs.ErrAlreadyExists)
	assert.Equal(t, http.StatusConflict, httpError(wrapped).Code)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "0123456789...", truncate("0123456789abcdef", 10))
}
