package handlers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/socialchat/gateway/internal/errs"
	"github.com/socialchat/gateway/internal/middleware"
	"github.com/socialchat/gateway/internal/models"
	"github.com/socialchat/gateway/internal/repositories"
	"github.com/socialchat/gateway/internal/store"
)

// FriendshipHandler handles the friend request lifecycle. Rejecting a
// request deletes the document outright, so a rejected sender may ask
// again later.
type FriendshipHandler struct {
	client      *mongo.Client
	friendships repositories.FriendshipRepository
	profiles    repositories.ProfileRepository
	notifier    *Notifier
}

// NewFriendshipHandler creates a new FriendshipHandler.
func NewFriendshipHandler(client *mongo.Client, friendships repositories.FriendshipRepository, profiles repositories.ProfileRepository, notifier *Notifier) *FriendshipHandler {
	return &FriendshipHandler{client: client, friendships: friendships, profiles: profiles, notifier: notifier}
}

// Send creates a pending friend request. Duplicate requests in either
// direction, including to an existing friend, return 409.
func (h *FriendshipHandler) Send(c echo.Context) error {
	var req models.CreateFriendRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	uid := middleware.UserID(c)
	if req.ReceiverID == uid {
		return echo.NewHTTPError(http.StatusBadRequest, "cannot send a friend request to yourself")
	}

	sender, err := h.profiles.GetByID(ctx, uid)
	if err != nil {
		return httpError(err)
	}
	if _, err := h.profiles.GetByID(ctx, req.ReceiverID); err != nil {
		return httpError(err)
	}

	var (
		friendship   *models.Friendship
		notification *models.Notification
	)
	err = store.WithTransaction(ctx, h.client, func(sc mongo.SessionContext) error {
		var txErr error
		friendship, txErr = h.friendships.Create(sc, uid, req.ReceiverID)
		if txErr != nil {
			return txErr
		}
		notification, txErr = h.notifier.Record(sc, req.ReceiverID, models.NotificationFriendRequest,
			fmt.Sprintf("%s sent you a friend request", sender.Name), friendship.ID.Hex())
		return txErr
	})
	if err != nil {
		return httpError(err)
	}

	h.notifier.Push(ctx, notification)
	return c.JSON(http.StatusCreated, friendship)
}

// Accept moves a pending request addressed to the caller into the accepted
// state.
func (h *FriendshipHandler) Accept(c echo.Context) error {
	ctx := c.Request().Context()
	uid := middleware.UserID(c)

	friendship, err := h.friendships.GetByID(ctx, c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	if friendship.ReceiverID != uid {
		return httpError(errs.ErrForbidden)
	}

	receiver, err := h.profiles.GetByID(ctx, uid)
	if err != nil {
		return httpError(err)
	}

	var notification *models.Notification
	err = store.WithTransaction(ctx, h.client, func(sc mongo.SessionContext) error {
		if err := h.friendships.Accept(sc, friendship.ID.Hex()); err != nil {
			return err
		}
		var recErr error
		notification, recErr = h.notifier.Record(sc, friendship.SenderID, models.NotificationFriendAccepted,
			fmt.Sprintf("%s accepted your friend request", receiver.Name), friendship.ID.Hex())
		return recErr
	})
	if err != nil {
		return httpError(err)
	}

	h.notifier.Push(ctx, notification)
	return c.NoContent(http.StatusNoContent)
}

// Reject deletes a pending request addressed to the caller. Afterwards the
// pair has no friendship document at all.
func (h *FriendshipHandler) Reject(c echo.Context) error {
	ctx := c.Request().Context()
	uid := middleware.UserID(c)

	friendship, err := h.friendships.GetByID(ctx, c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	if friendship.ReceiverID != uid {
		return httpError(errs.ErrForbidden)
	}

	receiver, err := h.profiles.GetByID(ctx, uid)
	if err != nil {
		return httpError(err)
	}

	var notification *models.Notification
	err = store.WithTransaction(ctx, h.client, func(sc mongo.SessionContext) error {
		if err := h.friendships.Delete(sc, friendship.ID.Hex()); err != nil {
			return err
		}
		var recErr error
		notification, recErr = h.notifier.Record(sc, friendship.SenderID, models.NotificationFriendRejected,
			fmt.Sprintf("%s declined your friend request", receiver.Name), "")
		return recErr
	})
	if err != nil {
		return httpError(err)
	}

	h.notifier.Push(ctx, notification)
	return c.NoContent(http.StatusNoContent)
}

// ListRequests returns the caller's pending inbox with sender profiles
// resolved.
func (h *FriendshipHandler) ListRequests(c echo.Context) error {
	ctx := c.Request().Context()
	uid := middleware.UserID(c)

	pending, err := h.friendships.ListPendingFor(ctx, uid)
	if err != nil {
		return httpError(err)
	}

	enriched := joinAuthors(ctx, h.profiles, pending,
		func(f models.Friendship) string { return f.SenderID },
		func(f models.Friendship, p models.ProfileCompact) models.EnrichedFriend {
			return models.EnrichedFriend{Friendship: f, Friend: p}
		})
	return c.JSON(http.StatusOK, enriched)
}

// ListFriends returns the caller's accepted friendships with the other
// participant's profile resolved.
func (h *FriendshipHandler) ListFriends(c echo.Context) error {
	ctx := c.Request().Context()
	uid := middleware.UserID(c)

	accepted, err := h.friendships.ListAcceptedFor(ctx, uid)
	if err != nil {
		return httpError(err)
	}

	enriched := joinAuthors(ctx, h.profiles, accepted,
		func(f models.Friendship) string { return f.OtherUser(uid) },
		func(f models.Friendship, p models.ProfileCompact) models.EnrichedFriend {
			return models.EnrichedFriend{Friendship: f, Friend: p}
		})
	return c.JSON(http.StatusOK, enriched)
}

// Unfriend removes an accepted friendship the caller participates in.
func (h *FriendshipHandler) Unfriend(c echo.Context) error {
	ctx := c.Request().Context()
	uid := middleware.UserID(c)

	friendship, err := h.friendships.GetByID(ctx, c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	if friendship.SenderID != uid && friendship.ReceiverID != uid {
		return httpError(errs.ErrForbidden)
	}

	if err := h.friendships.Delete(ctx, friendship.ID.Hex()); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
