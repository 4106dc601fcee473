package handlers

import (
	"context"

	"github.com/socialchat/gateway/internal/models"
	"github.com/socialchat/gateway/internal/push"
	"github.com/socialchat/gateway/internal/repositories"
)

// Notifier creates notification documents and mirrors them to the push
// provider. Record participates in the caller's transaction through its
// context; Push runs after commit so an aborted write never pushes.
type Notifier struct {
	notifications repositories.NotificationRepository
	profiles      repositories.ProfileRepository
	sender        *push.Sender
}

// NewNotifier creates a Notifier.
func NewNotifier(notifications repositories.NotificationRepository, profiles repositories.ProfileRepository, sender *push.Sender) *Notifier {
	return &Notifier{notifications: notifications, profiles: profiles, sender: sender}
}

// Record inserts a notification document for ownerID. Pass a session
// context to make it part of an all-or-nothing commit.
func (n *Notifier) Record(ctx context.Context, ownerID string, t models.NotificationType, content, referenceID string) (*models.Notification, error) {
	notification := &models.Notification{
		UserID:      ownerID,
		Type:        t,
		Content:     content,
		ReferenceID: referenceID,
	}
	if err := n.notifications.Create(ctx, notification); err != nil {
		return nil, err
	}
	return notification, nil
}

// Push mirrors a committed notification to the owner's device. A missing
// profile or token drops the push silently; the in-app notification list is
// the durable copy.
func (n *Notifier) Push(ctx context.Context, notification *models.Notification) {
	profile, err := n.profiles.GetByID(ctx, notification.UserID)
	if err != nil {
		return
	}
	n.sender.Notify(ctx, profile.FCMToken, notification)
}
