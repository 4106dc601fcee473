package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/socialchat/gateway/internal/middleware"
	"github.com/socialchat/gateway/internal/models"
	"github.com/socialchat/gateway/internal/repositories"
	"github.com/socialchat/gateway/internal/store"
)

// LikeHandler handles likes. The like document and the post's counter move
// in one transaction, so a duplicate like aborts before the counter is
// touched and the count can never drift from the documents.
type LikeHandler struct {
	client   *mongo.Client
	posts    repositories.PostRepository
	likes    repositories.LikeRepository
	notifier *Notifier
}

// NewLikeHandler creates a new LikeHandler.
func NewLikeHandler(client *mongo.Client, posts repositories.PostRepository, likes repositories.LikeRepository, notifier *Notifier) *LikeHandler {
	return &LikeHandler{client: client, posts: posts, likes: likes, notifier: notifier}
}

// Like records the caller's like on a post. Liking twice returns 409.
func (h *LikeHandler) Like(c echo.Context) error {
	ctx := c.Request().Context()
	postID := c.Param("id")
	uid := middleware.UserID(c)

	post, err := h.posts.GetByID(ctx, postID)
	if err != nil {
		return httpError(err)
	}

	var notification *models.Notification
	err = store.WithTransaction(ctx, h.client, func(sc mongo.SessionContext) error {
		if err := h.likes.Create(sc, postID, uid); err != nil {
			return err
		}
		if err := h.posts.AdjustLikesCount(sc, postID, 1); err != nil {
			return err
		}
		if post.UserID != uid {
			var recErr error
			notification, recErr = h.notifier.Record(sc, post.UserID, models.NotificationLike,
				"Someone liked your post", postID)
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
	return c.NoContent(http.StatusNoContent)
}

// Unlike removes the caller's like. Unliking a post that was never liked
// returns 404 and leaves the counter alone.
func (h *LikeHandler) Unlike(c echo.Context) error {
	ctx := c.Request().Context()
	postID := c.Param("id")
	uid := middleware.UserID(c)

	err := store.WithTransaction(ctx, h.client, func(sc mongo.SessionContext) error {
		if err := h.likes.Delete(sc, postID, uid); err != nil {
			return err
		}
		return h.posts.AdjustLikesCount(sc, postID, -1)
	})
	if err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
