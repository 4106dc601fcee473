package livequery

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

const defaultJoinParallelism = 8

// ResolveFunc resolves one secondary document by id.
type ResolveFunc[S any] func(ctx context.Context, id string) (S, error)

// JoinBatch resolves the secondary document referenced by every primary and
// merges the pair. The whole batch resolves before anything is returned, so
// callers never publish a partially joined list. Guarantees: the output has
// exactly len(primaries) entries in snapshot order, and a failed lookup
// merges placeholder(id) instead of dropping the item or failing the batch.
func JoinBatch[P, S, M any](
	ctx context.Context,
	primaries []P,
	key func(P) string,
	resolve ResolveFunc[S],
	placeholder func(id string) S,
	merge func(P, S) M,
	maxParallel int,
) []M {
	if maxParallel <= 0 {
		maxParallel = defaultJoinParallelism
	}

	ids := make([]string, 0, len(primaries))
	seen := make(map[string]struct{}, len(primaries))
	for _, p := range primaries {
		id := key(p)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	var mu sync.Mutex
	resolved := make(map[string]S, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallel)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			s, err := resolve(gctx, id)
			if err != nil {
				s = placeholder(id)
			}
			mu.Lock()
			resolved[id] = s
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() // workers degrade to placeholders, they never error out

	out := make([]M, 0, len(primaries))
	for _, p := range primaries {
		out = append(out, merge(p, resolved[key(p)]))
	}
	return out
}
