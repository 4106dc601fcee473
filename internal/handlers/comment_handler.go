package handlers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/socialchat/gateway/internal/middleware"
	"github.com/socialchat/gateway/internal/models"
	"github.com/socialchat/gateway/internal/repositories"
	"github.com/socialchat/gateway/internal/store"
)

// CommentHandler handles comment creation and listing. A new comment, the
// parent post's counter bump and the author's notification commit together
// or not at all.
type CommentHandler struct {
	client   *mongo.Client
	posts    repositories.PostRepository
	comments repositories.CommentRepository
	profiles repositories.ProfileRepository
	notifier *Notifier
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(client *mongo.Client, posts repositories.PostRepository, comments repositories.CommentRepository, profiles repositories.ProfileRepository, notifier *Notifier) *CommentHandler {
	return &CommentHandler{client: client, posts: posts, comments: comments, profiles: profiles, notifier: notifier}
}

// Create adds a comment to a post.
func (h *CommentHandler) Create(c echo.Context) error {
	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	postID := c.Param("id")
	uid := middleware.UserID(c)

	post, err := h.posts.GetByID(ctx, postID)
	if err != nil {
		return httpError(err)
	}

	comment := &models.Comment{
		PostID:  postID,
		UserID:  uid,
		Content: req.Content,
	}

	var notification *models.Notification
	err = store.WithTransaction(ctx, h.client, func(sc mongo.SessionContext) error {
		if err := h.comments.Create(sc, comment); err != nil {
			return err
		}
		if err := h.posts.AdjustCommentsCount(sc, postID, 1); err != nil {
			return err
		}
		if post.UserID != uid {
			var recErr error
			notification, recErr = h.notifier.Record(sc, post.UserID, models.NotificationComment,
				fmt.Sprintf("New comment on your post: %s", truncate(req.Content, 80)), postID)
			return recErr
		}
		return nil
	})
	if err != nil {
		return httpError(err)
	}

	if notification != nil {
		h.notifier.Push(ctx, notification)
	}
	return c.JSON(http.StatusCreated, comment)
}

// List returns a post's comments oldest-first with authors resolved.
func (h *CommentHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	comments, err := h.comments.ListByPost(ctx, c.Param("id"))
	if err != nil {
		return httpError(err)
	}

	enriched := joinAuthors(ctx, h.profiles, comments,
		func(cm models.Comment) string { return cm.UserID },
		func(cm models.Comment, a models.ProfileCompact) models.EnrichedComment {
			return models.EnrichedComment{Comment: cm, Author: a}
		})
	return c.JSON(http.StatusOK, enriched)
}
