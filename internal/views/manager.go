// Package views assembles the gateway's live views: each one pairs a
// collection watcher with a snapshot fetch that re-reads the full result
// set, joins in author profiles, and publishes wholesale replacements.
package views

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/socialchat/gateway/internal/livequery"
	"github.com/socialchat/gateway/internal/models"
	"github.com/socialchat/gateway/internal/repositories"
	"github.com/socialchat/gateway/internal/store"
	"github.com/socialchat/gateway/internal/timeline"
)

// feedLimit caps how many posts one feed snapshot carries.
const feedLimit = 100

// Manager opens live views over the document store.
type Manager struct {
	db            *mongo.Database
	log           *zap.Logger
	profiles      repositories.ProfileRepository
	posts         repositories.PostRepository
	comments      repositories.CommentRepository
	friendships   repositories.FriendshipRepository
	messages      repositories.MessageRepository
	notifications repositories.NotificationRepository
	stories       repositories.StoryRepository
}

// NewManager creates a view manager over the given repositories.
func NewManager(
	db *mongo.Database,
	log *zap.Logger,
	profiles repositories.ProfileRepository,
	posts repositories.PostRepository,
	comments repositories.CommentRepository,
	friendships repositories.FriendshipRepository,
	messages repositories.MessageRepository,
	notifications repositories.NotificationRepository,
	stories repositories.StoryRepository,
) *Manager {
	return &Manager{
		db:            db,
		log:           log,
		profiles:      profiles,
		posts:         posts,
		comments:      comments,
		friendships:   friendships,
		messages:      messages,
		notifications: notifications,
		stories:       stories,
	}
}

func (m *Manager) watcher(collection string) livequery.Watcher {
	return store.NewWatcher(m.db, collection, m.log)
}

// resolveProfile adapts the profile repository to the join's resolver shape.
func (m *Manager) resolveProfile(ctx context.Context, id string) (models.ProfileCompact, error) {
	p, err := m.profiles.GetByID(ctx, id)
	if err != nil {
		return models.ProfileCompact{}, err
	}
	return p.ToCompact(), nil
}

// joinAuthors resolves the referenced profile for every item in a snapshot.
func joinAuthors[P, M any](
	ctx context.Context,
	m *Manager,
	items []P,
	key func(P) string,
	merge func(P, models.ProfileCompact) M,
) []M {
	return livequery.JoinBatch(ctx, items, key, m.resolveProfile, models.PlaceholderProfile, merge, 0)
}

// OpenFeed opens the community feed view: all posts newest-first, each with
// its author profile joined in.
func (m *Manager) OpenFeed(ctx context.Context, deliver func([]models.EnrichedPost)) (*livequery.Subscription, error) {
	fetch := func(ctx context.Context) ([]models.EnrichedPost, error) {
		posts, err := m.posts.List(ctx, 0, feedLimit)
		if err != nil {
			return nil, err
		}
		return joinAuthors(ctx, m, posts,
			func(p models.Post) string { return p.UserID },
			func(p models.Post, a models.ProfileCompact) models.EnrichedPost {
				return models.EnrichedPost{Post: p, Author: a}
			}), nil
	}
	return livequery.Subscribe(ctx, m.watcher("posts"), fetch, deliver, m.log)
}

// OpenComments opens the comment thread view for one post, oldest-first.
func (m *Manager) OpenComments(ctx context.Context, postID string, deliver func([]models.EnrichedComment)) (*livequery.Subscription, error) {
	fetch := func(ctx context.Context) ([]models.EnrichedComment, error) {
		comments, err := m.comments.ListByPost(ctx, postID)
		if err != nil {
			return nil, err
		}
		return joinAuthors(ctx, m, comments,
			func(c models.Comment) string { return c.UserID },
			func(c models.Comment, a models.ProfileCompact) models.EnrichedComment {
				return models.EnrichedComment{Comment: c, Author: a}
			}), nil
	}
	return livequery.Subscribe(ctx, m.watcher("comments"), fetch, deliver, m.log)
}

// OpenNotifications opens the owner's notification list, tombstones
// excluded, newest-first.
func (m *Manager) OpenNotifications(ctx context.Context, ownerID string, deliver func([]models.Notification)) (*livequery.Subscription, error) {
	fetch := func(ctx context.Context) ([]models.Notification, error) {
		return m.notifications.ListActive(ctx, ownerID)
	}
	return livequery.Subscribe(ctx, m.watcher("notifications"), fetch, deliver, m.log)
}

// OpenThread opens the two-party conversation view between userID and
// friendID: sender profiles joined, messages bucketed by calendar day.
func (m *Manager) OpenThread(ctx context.Context, userID, friendID string, deliver func([]timeline.Group[models.EnrichedMessage])) (*livequery.Subscription, error) {
	fetch := func(ctx context.Context) ([]timeline.Group[models.EnrichedMessage], error) {
		msgs, err := m.messages.Conversation(ctx, userID, friendID)
		if err != nil {
			return nil, err
		}
		enriched := joinAuthors(ctx, m, msgs,
			func(msg models.Message) string { return msg.SenderID },
			func(msg models.Message, s models.ProfileCompact) models.EnrichedMessage {
				return models.EnrichedMessage{Message: msg, Sender: s}
			})
		groups := timeline.GroupByDay(enriched,
			func(msg models.EnrichedMessage) time.Time { return msg.CreatedAt },
			time.Now())
		return groups, nil
	}
	return livequery.Subscribe(ctx, m.watcher("messages"), fetch, deliver, m.log)
}

// OpenStories opens the active-story view: unexpired stories newest-first
// with author profiles joined in. Expiry filtering happens at fetch time, so
// a story that lapses is dropped on the next change signal.
func (m *Manager) OpenStories(ctx context.Context, deliver func([]models.EnrichedStory)) (*livequery.Subscription, error) {
	fetch := func(ctx context.Context) ([]models.EnrichedStory, error) {
		stories, err := m.stories.ListActive(ctx, time.Now())
		if err != nil {
			return nil, err
		}
		return joinAuthors(ctx, m, stories,
			func(s models.Story) string { return s.UserID },
			func(s models.Story, a models.ProfileCompact) models.EnrichedStory {
				return models.EnrichedStory{Story: s, Author: a}
			}), nil
	}
	return livequery.Subscribe(ctx, m.watcher("stories"), fetch, deliver, m.log)
}

// OpenFriends opens the accepted-friend view for userID with the other
// participant's profile joined in.
func (m *Manager) OpenFriends(ctx context.Context, userID string, deliver func([]models.EnrichedFriend)) (*livequery.Subscription, error) {
	fetch := func(ctx context.Context) ([]models.EnrichedFriend, error) {
		friendships, err := m.friendships.ListAcceptedFor(ctx, userID)
		if err != nil {
			return nil, err
		}
		return joinAuthors(ctx, m, friendships,
			func(f models.Friendship) string { return f.OtherUser(userID) },
			func(f models.Friendship, p models.ProfileCompact) models.EnrichedFriend {
				return models.EnrichedFriend{Friendship: f, Friend: p}
			}), nil
	}
	return livequery.Subscribe(ctx, m.watcher("friends"), fetch, deliver, m.log)
}

// OpenFriendRequests opens the pending-request inbox view for userID with
// sender profiles joined in.
func (m *Manager) OpenFriendRequests(ctx context.Context, userID string, deliver func([]models.EnrichedFriend)) (*livequery.Subscription, error) {
	fetch := func(ctx context.Context) ([]models.EnrichedFriend, error) {
		pending, err := m.friendships.ListPendingFor(ctx, userID)
		if err != nil {
			return nil, err
		}
		return joinAuthors(ctx, m, pending,
			func(f models.Friendship) string { return f.SenderID },
			func(f models.Friendship, p models.ProfileCompact) models.EnrichedFriend {
				return models.EnrichedFriend{Friendship: f, Friend: p}
			}), nil
	}
	return livequery.Subscribe(ctx, m.watcher("friends"), fetch, deliver, m.log)
}
