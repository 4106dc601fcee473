// Package store adapts MongoDB to the document-store contract the live
// views consume: change-stream push signals and all-or-nothing multi-op
// commits.
package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Watcher opens a change stream on one collection and coalesces its events
// into a change signal consumed by livequery subscriptions.
type Watcher struct {
	coll *mongo.Collection
	log  *zap.Logger
}

// NewWatcher creates a Watcher for the named collection.
func NewWatcher(db *mongo.Database, collection string, log *zap.Logger) *Watcher {
	return &Watcher{
		coll: db.Collection(collection),
		log:  log.With(zap.String("collection", collection)),
	}
}

// Watch starts the change stream. The returned channel receives one signal
// per burst of changes and is closed when ctx is cancelled or the stream
// dies. Establishment failure is returned to the caller, never panicked.
func (w *Watcher) Watch(ctx context.Context) (<-chan struct{}, error) {
	stream, err := w.coll.Watch(ctx, mongo.Pipeline{})
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", w.coll.Name(), err)
	}

	ch := make(chan struct{}, 1)
	go func() {
		defer close(ch)
		defer func() {
			_ = stream.Close(context.Background())
		}()
		for stream.Next(ctx) {
			select {
			case ch <- struct{}{}:
			default: // a signal is already pending, coalesce
			}
		}
		if err := stream.Err(); err != nil && ctx.Err() == nil {
			w.log.Warn("change stream closed", zap.Error(err))
		}
	}()
	return ch, nil
}
