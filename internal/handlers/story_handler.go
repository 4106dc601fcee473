package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/socialchat/gateway/internal/errs"
	"github.com/socialchat/gateway/internal/middleware"
	"github.com/socialchat/gateway/internal/models"
	"github.com/socialchat/gateway/internal/repositories"
)

// StoryHandler handles stories. A story's expiry is fixed at creation;
// lapsed stories read as absent even before the sweeper removes them.
type StoryHandler struct {
	stories  repositories.StoryRepository
	profiles repositories.ProfileRepository
}

// NewStoryHandler creates a new StoryHandler.
func NewStoryHandler(stories repositories.StoryRepository, profiles repositories.ProfileRepository) *StoryHandler {
	return &StoryHandler{stories: stories, profiles: profiles}
}

// Create publishes a story for the caller.
func (h *StoryHandler) Create(c echo.Context) error {
	var req models.CreateStoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	now := time.Now()
	images := make([]models.StoryImage, 0, len(req.Images))
	for _, img := range req.Images {
		images = append(images, models.StoryImage{
			URL:     img.URL,
			Caption: img.Caption,
			AddedAt: now,
		})
	}

	story := &models.Story{
		UserID: middleware.UserID(c),
		Images: images,
	}
	if err := h.stories.Create(c.Request().Context(), story); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, story)
}

// ListActive returns the unexpired stories newest-first with authors
// resolved.
func (h *StoryHandler) ListActive(c echo.Context) error {
	ctx := c.Request().Context()
	stories, err := h.stories.ListActive(ctx, time.Now())
	if err != nil {
		return httpError(err)
	}

	enriched := joinAuthors(ctx, h.profiles, stories,
		func(s models.Story) string { return s.UserID },
		func(s models.Story, a models.ProfileCompact) models.EnrichedStory {
			return models.EnrichedStory{Story: s, Author: a}
		})
	return c.JSON(http.StatusOK, enriched)
}

// Get returns one active story with its author resolved.
func (h *StoryHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()
	story, err := h.stories.GetByID(ctx, c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	if !story.Active(time.Now()) {
		return httpError(errs.ErrNotFound)
	}

	enriched := joinAuthors(ctx, h.profiles, []models.Story{*story},
		func(s models.Story) string { return s.UserID },
		func(s models.Story, a models.ProfileCompact) models.EnrichedStory {
			return models.EnrichedStory{Story: s, Author: a}
		})
	return c.JSON(http.StatusOK, enriched[0])
}

// View bumps an active story's view counter.
func (h *StoryHandler) View(c echo.Context) error {
	ctx := c.Request().Context()
	story, err := h.stories.GetByID(ctx, c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	if !story.Active(time.Now()) {
		return httpError(errs.ErrNotFound)
	}

	if err := h.stories.IncrementViews(ctx, story.ID.Hex()); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
