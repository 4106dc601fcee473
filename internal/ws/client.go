package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/socialchat/gateway/internal/debounce"
	"github.com/socialchat/gateway/internal/livequery"
	"github.com/socialchat/gateway/internal/models"
	"github.com/socialchat/gateway/internal/timeline"
	"github.com/socialchat/gateway/internal/views"
)

const (
	writeWait    = 10 * time.Second
	pingInterval = 30 * time.Second
	sendBufSize  = 256
)

// Client represents a single authenticated WebSocket connection. Each open
// view holds one live subscription; all of them are torn down exactly once
// when the connection drops, whichever exit path runs first.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID string
	mgr    *views.Manager
	log    *zap.Logger

	// ctx scopes every subscription opened by this connection, so a dying
	// connection cancels its server-side watches even if explicit cleanup
	// is never reached.
	ctx    context.Context
	cancel context.CancelFunc

	checker *debounce.Checker

	mu     sync.Mutex
	subs   map[string]*livequery.Subscription
	closed bool

	send chan []byte
	done chan struct{}
}

// NewClient wires a connection to the hub and view manager. exists is the
// remote predicate behind the debounced username checker.
func NewClient(hub *Hub, conn *websocket.Conn, userID string, mgr *views.Manager, exists debounce.ExistsFunc, log *zap.Logger) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Client{
		hub:    hub,
		conn:   conn,
		userID: userID,
		mgr:    mgr,
		log:    log.With(zap.String("user_id", userID)),
		ctx:    ctx,
		cancel: cancel,
		subs:   make(map[string]*livequery.Subscription),
		send:   make(chan []byte, sendBufSize),
		done:   make(chan struct{}),
	}
	c.checker = debounce.NewChecker(0, exists, c.sendUsernameStatus)
	return c
}

// ReadPump reads events from the WebSocket and routes them.
func (c *Client) ReadPump() {
	defer func() {
		c.teardown()
		c.hub.Unregister(c)
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		var event Event
		err := wsjson.Read(c.ctx, c.conn, &event)
		if err != nil {
			if websocket.CloseStatus(err) != -1 {
				c.log.Debug("client disconnected")
			} else if c.ctx.Err() == nil {
				c.log.Warn("read error", zap.Error(err))
			}
			return
		}
		c.handleEvent(&event)
	}
}

// WritePump writes queued events to the WebSocket and keeps the
// connection alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				return
			}
			ctx, cancel := context.WithTimeout(c.ctx, writeWait)
			err := c.conn.Write(ctx, websocket.MessageText, message)
			cancel()
			if err != nil {
				return
			}

		case <-ticker.C:
			ctx, cancel := context.WithTimeout(c.ctx, writeWait)
			err := c.conn.Ping(ctx)
			cancel()
			if err != nil {
				return
			}

		case <-c.done:
			return
		}
	}
}

// handleEvent routes an incoming client event.
func (c *Client) handleEvent(event *Event) {
	switch event.Type {
	case EventTypeViewSubscribe:
		var p ViewPayload
		if err := json.Unmarshal(event.Payload, &p); err != nil {
			c.sendError("INVALID_PAYLOAD", "invalid view.subscribe payload")
			return
		}
		c.subscribeView(p)

	case EventTypeViewUnsubscribe:
		var p ViewPayload
		if err := json.Unmarshal(event.Payload, &p); err != nil {
			c.sendError("INVALID_PAYLOAD", "invalid view.unsubscribe payload")
			return
		}
		c.unsubscribeView(p.Key())

	case EventTypeUsernameCheck:
		var p UsernameCheckPayload
		if err := json.Unmarshal(event.Payload, &p); err != nil {
			c.sendError("INVALID_PAYLOAD", "invalid username.check payload")
			return
		}
		c.checker.Input(c.ctx, p.Value)

	case EventTypePing:
		c.queue(&Event{Type: EventTypePong})

	default:
		c.sendError("UNKNOWN_EVENT", "unknown event type: "+event.Type)
	}
}

// subscribeView opens the requested live view. Duplicate subscriptions to
// the same key are ignored.
func (c *Client) subscribeView(p ViewPayload) {
	key := p.Key()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if _, ok := c.subs[key]; ok {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	sub, err := c.openView(p, key)
	if err != nil {
		// An empty snapshot has already been delivered; the client can
		// retry with a fresh subscribe.
		c.log.Warn("view subscribe failed", zap.String("view", key), zap.Error(err))
		c.sendError("SUBSCRIBE_FAILED", "could not open view "+key)
		return
	}
	if sub == nil {
		return
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		sub.Cancel()
		return
	}
	c.subs[key] = sub
	c.mu.Unlock()

	c.log.Debug("view opened", zap.String("view", key))
}

// openView builds the key's reconciler and opens its subscription. Every
// snapshot replaces the view's whole state before being published, so
// redelivery of an identical snapshot is harmless.
func (c *Client) openView(p ViewPayload, key string) (*livequery.Subscription, error) {
	switch p.View {
	case ViewFeed:
		return c.mgr.OpenFeed(c.ctx, publishTo[models.EnrichedPost](c, key))
	case ViewNotifications:
		return c.mgr.OpenNotifications(c.ctx, c.userID, publishTo[models.Notification](c, key))
	case ViewStories:
		return c.mgr.OpenStories(c.ctx, publishTo[models.EnrichedStory](c, key))
	case ViewFriends:
		return c.mgr.OpenFriends(c.ctx, c.userID, publishTo[models.EnrichedFriend](c, key))
	case ViewFriendRequests:
		return c.mgr.OpenFriendRequests(c.ctx, c.userID, publishTo[models.EnrichedFriend](c, key))
	case ViewThread:
		if p.FriendID == "" {
			c.sendError("INVALID_PAYLOAD", "thread view requires friend_id")
			return nil, nil
		}
		return c.mgr.OpenThread(c.ctx, c.userID, p.FriendID, publishTo[timeline.Group[models.EnrichedMessage]](c, key))
	case ViewComments:
		if p.PostID == "" {
			c.sendError("INVALID_PAYLOAD", "comments view requires post_id")
			return nil, nil
		}
		return c.mgr.OpenComments(c.ctx, p.PostID, publishTo[models.EnrichedComment](c, key))
	default:
		c.sendError("UNKNOWN_VIEW", "unknown view: "+p.View)
		return nil, nil
	}
}

// publishTo returns a delivery func that routes snapshots through a
// full-replacement view before sending them down the socket.
func publishTo[T any](c *Client, key string) func([]T) {
	view := livequery.NewView(func(items []T) {
		c.sendSnapshot(key, items)
	})
	return view.Replace
}

// unsubscribeView cancels one live view. Unknown keys are a no-op.
func (c *Client) unsubscribeView(key string) {
	c.mu.Lock()
	sub, ok := c.subs[key]
	delete(c.subs, key)
	c.mu.Unlock()

	if ok {
		sub.Cancel()
		c.log.Debug("view closed", zap.String("view", key))
	}
}

// teardown releases every server-side resource the connection holds. Runs
// once; Cancel on each subscription is itself idempotent.
func (c *Client) teardown() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	subs := make([]*livequery.Subscription, 0, len(c.subs))
	for _, s := range c.subs {
		subs = append(subs, s)
	}
	c.subs = nil
	c.mu.Unlock()

	for _, s := range subs {
		s.Cancel()
	}
	c.checker.Close()
	c.cancel()
}

func (c *Client) sendSnapshot(key string, items any) {
	evt, err := NewEvent(EventTypeViewSnapshot, SnapshotPayload{View: key, Items: items})
	if err != nil {
		c.log.Warn("snapshot marshal failed", zap.String("view", key), zap.Error(err))
		return
	}
	c.queue(evt)
}

func (c *Client) sendUsernameStatus(value string, status debounce.Status) {
	evt, err := NewEvent(EventTypeUsernameStatus, UsernameStatusPayload{
		Value:  value,
		Status: string(status),
	})
	if err != nil {
		return
	}
	c.queue(evt)
}

func (c *Client) sendError(code, message string) {
	evt, err := NewEvent(EventTypeError, ErrorPayload{Code: code, Message: message})
	if err != nil {
		return
	}
	c.queue(evt)
}

// queue marshals and enqueues an event, dropping it if the client's send
// buffer is full. Snapshots are full replacements, so a dropped one is
// recovered by the next change signal.
func (c *Client) queue(evt *Event) {
	data, err := json.Marshal(evt)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}
