package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/socialchat/gateway/internal/errs"
	"github.com/socialchat/gateway/internal/middleware"
	"github.com/socialchat/gateway/internal/models"
	"github.com/socialchat/gateway/internal/repositories"
	"github.com/socialchat/gateway/internal/store"
	"github.com/socialchat/gateway/internal/timeline"
)

// MessageHandler handles direct messages. Sending requires an accepted
// friendship between the two parties.
type MessageHandler struct {
	client      *mongo.Client
	messages    repositories.MessageRepository
	friendships repositories.FriendshipRepository
	profiles    repositories.ProfileRepository
	notifier    *Notifier
}

// NewMessageHandler creates a new MessageHandler.
func NewMessageHandler(client *mongo.Client, messages repositories.MessageRepository, friendships repositories.FriendshipRepository, profiles repositories.ProfileRepository, notifier *Notifier) *MessageHandler {
	return &MessageHandler{client: client, messages: messages, friendships: friendships, profiles: profiles, notifier: notifier}
}

// Send delivers a message to a friend.
func (h *MessageHandler) Send(c echo.Context) error {
	var req models.SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	uid := middleware.UserID(c)
	if req.ReceiverID == uid {
		return echo.NewHTTPError(http.StatusBadRequest, "cannot message yourself")
	}

	friends, err := h.friendships.AreFriends(ctx, uid, req.ReceiverID)
	if err != nil {
		return httpError(err)
	}
	if !friends {
		return httpError(errs.ErrNotFriends)
	}

	sender, err := h.profiles.GetByID(ctx, uid)
	if err != nil {
		return httpError(err)
	}

	message := &models.Message{
		SenderID:   uid,
		ReceiverID: req.ReceiverID,
		Content:    req.Content,
	}

	var notification *models.Notification
	err = store.WithTransaction(ctx, h.client, func(sc mongo.SessionContext) error {
		if err := h.messages.Create(sc, message); err != nil {
			return err
		}
		var recErr error
		notification, recErr = h.notifier.Record(sc, req.ReceiverID, models.NotificationMessage,
			fmt.Sprintf("%s: %s", sender.Name, truncate(req.Content, 80)), message.ID.Hex())
		return recErr
	})
	if err != nil {
		return httpError(err)
	}

	h.notifier.Push(ctx, notification)
	return c.JSON(http.StatusCreated, message)
}

// Conversation returns the full two-party thread with sender profiles
// resolved, bucketed into calendar-day groups for display.
func (h *MessageHandler) Conversation(c echo.Context) error {
	ctx := c.Request().Context()
	uid := middleware.UserID(c)

	msgs, err := h.messages.Conversation(ctx, uid, c.Param("id"))
	if err != nil {
		return httpError(err)
	}

	enriched := joinAuthors(ctx, h.profiles, msgs,
		func(m models.Message) string { return m.SenderID },
		func(m models.Message, s models.ProfileCompact) models.EnrichedMessage {
			return models.EnrichedMessage{Message: m, Sender: s}
		})

	groups := timeline.GroupByDay(enriched,
		func(m models.EnrichedMessage) time.Time { return m.CreatedAt },
		time.Now())
	return c.JSON(http.StatusOK, groups)
}

// MarkRead flips the read flag on a message addressed to the caller.
func (h *MessageHandler) MarkRead(c echo.Context) error {
	if err := h.messages.MarkRead(c.Request().Context(), c.Param("id"), middleware.UserID(c)); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// UnreadCount returns how many messages addressed to the caller are unread.
func (h *MessageHandler) UnreadCount(c echo.Context) error {
	count, err := h.messages.UnreadCount(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"count": count})
}
