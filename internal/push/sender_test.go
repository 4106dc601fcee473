package push

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/socialchat/gateway/internal/models"
)

func TestTitleForCoversAllTypes(t *testing.T) {
	types := []models.NotificationType{
		models.NotificationFriendRequest,
		models.NotificationFriendAccepted,
		models.NotificationFriendRejected,
		models.NotificationMessage,
		models.NotificationLike,
		models.NotificationComment,
	}
	for _, typ := range types {
		assert.NotEqual(t, "Notification", titleFor(typ), "type %s should have a dedicated title", typ)
	}
}

func TestNotifyWithoutClientIsNoop(t *testing.T) {
	s := NewSender(nil, zap.NewNop())
	n := &models.Notification{Type: models.NotificationLike, Content: "x"}

	// Must not panic and must not attempt delivery.
	s.Notify(context.Background(), "some-token", n)
	s.Notify(context.Background(), "", n)
}
