// Package push mirrors freshly created notification documents to the
// push-messaging provider. Delivery is display-only; failures never
// propagate into the write path.
package push

import (
	"context"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"

	"github.com/socialchat/gateway/internal/models"
)

// Sender delivers one push message per created notification.
type Sender struct {
	client *messaging.Client
	log    *zap.Logger
}

// NewSender creates a Sender. A nil client disables push delivery.
func NewSender(client *messaging.Client, log *zap.Logger) *Sender {
	return &Sender{client: client, log: log}
}

// Notify sends the notification to the owner's registered device token.
// Missing tokens and send failures are logged and swallowed.
func (s *Sender) Notify(ctx context.Context, token string, n *models.Notification) {
	if s.client == nil || token == "" {
		return
	}

	msg := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: titleFor(n.Type),
			Body:  n.Content,
		},
		Data: map[string]string{
			"type":         string(n.Type),
			"reference_id": n.ReferenceID,
		},
	}

	if _, err := s.client.Send(ctx, msg); err != nil {
		s.log.Warn("push send failed",
			zap.String("type", string(n.Type)),
			zap.Error(err))
	}
}

// titleFor matches exhaustively over the closed notification type set.
func titleFor(t models.NotificationType) string {
	switch t {
	case models.NotificationFriendRequest:
		return "New friend request"
	case models.NotificationFriendAccepted:
		return "Friend request accepted"
	case models.NotificationFriendRejected:
		return "Friend request declined"
	case models.NotificationMessage:
		return "New message"
	case models.NotificationLike:
		return "New like"
	case models.NotificationComment:
		return "New comment"
	}
	return "Notification"
}
