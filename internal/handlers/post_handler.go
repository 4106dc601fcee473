package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/socialchat/gateway/internal/errs"
	"github.com/socialchat/gateway/internal/middleware"
	"github.com/socialchat/gateway/internal/models"
	"github.com/socialchat/gateway/internal/repositories"
)

const defaultPostLimit = 50

// PostHandler handles post CRUD. Reads join in author profiles the same way
// the live feed view does, so HTTP and WebSocket snapshots agree.
type PostHandler struct {
	posts    repositories.PostRepository
	profiles repositories.ProfileRepository
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(posts repositories.PostRepository, profiles repositories.ProfileRepository) *PostHandler {
	return &PostHandler{posts: posts, profiles: profiles}
}

// Create inserts a new post authored by the caller.
func (h *PostHandler) Create(c echo.Context) error {
	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post := &models.Post{
		UserID:   middleware.UserID(c),
		Content:  req.Content,
		ImageURL: req.ImageURL,
	}
	if err := h.posts.Create(c.Request().Context(), post); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, post)
}

// Get returns one post with its author resolved.
func (h *PostHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()
	post, err := h.posts.GetByID(ctx, c.Param("id"))
	if err != nil {
		return httpError(err)
	}

	enriched := joinAuthors(ctx, h.profiles, []models.Post{*post},
		func(p models.Post) string { return p.UserID },
		func(p models.Post, a models.ProfileCompact) models.EnrichedPost {
			return models.EnrichedPost{Post: p, Author: a}
		})
	return c.JSON(http.StatusOK, enriched[0])
}

// List returns the feed page newest-first with authors resolved.
func (h *PostHandler) List(c echo.Context) error {
	skip, limit := pagination(c)
	ctx := c.Request().Context()

	posts, err := h.posts.List(ctx, skip, limit)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, h.enrich(c, posts))
}

// ListByUser returns one author's posts newest-first.
func (h *PostHandler) ListByUser(c echo.Context) error {
	skip, limit := pagination(c)
	ctx := c.Request().Context()

	posts, err := h.posts.ListByUser(ctx, c.Param("id"), skip, limit)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, h.enrich(c, posts))
}

// Update applies partial edits to the caller's own post.
func (h *PostHandler) Update(c echo.Context) error {
	var req models.UpdatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	updates := bson.M{}
	if req.Content != "" {
		updates["content"] = req.Content
	}
	if req.ImageURL != "" {
		updates["image_url"] = req.ImageURL
	}
	if len(updates) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "no updatable fields provided")
	}

	ctx := c.Request().Context()
	id := c.Param("id")
	if err := h.requireOwner(c, id); err != nil {
		return err
	}
	if err := h.posts.Update(ctx, id, updates); err != nil {
		return httpError(err)
	}

	post, err := h.posts.GetByID(ctx, id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, post)
}

// Delete removes the caller's own post along with its comments and likes.
func (h *PostHandler) Delete(c echo.Context) error {
	id := c.Param("id")
	if err := h.requireOwner(c, id); err != nil {
		return err
	}
	if err := h.posts.DeleteCascade(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *PostHandler) requireOwner(c echo.Context, postID string) error {
	post, err := h.posts.GetByID(c.Request().Context(), postID)
	if err != nil {
		return httpError(err)
	}
	if post.UserID != middleware.UserID(c) {
		return httpError(errs.ErrForbidden)
	}
	return nil
}

func (h *PostHandler) enrich(c echo.Context, posts []models.Post) []models.EnrichedPost {
	return joinAuthors(c.Request().Context(), h.profiles, posts,
		func(p models.Post) string { return p.UserID },
		func(p models.Post, a models.ProfileCompact) models.EnrichedPost {
			return models.EnrichedPost{Post: p, Author: a}
		})
}

func pagination(c echo.Context) (skip, limit int64) {
	limit = defaultPostLimit
	if raw := c.QueryParam("limit"); raw != "" {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	if raw := c.QueryParam("skip"); raw != "" {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil && n >= 0 {
			skip = n
		}
	}
	return skip, limit
}
