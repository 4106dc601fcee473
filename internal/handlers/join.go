package handlers

import (
	"context"

	"github.com/socialchat/gateway/internal/livequery"
	"github.com/socialchat/gateway/internal/models"
	"github.com/socialchat/gateway/internal/repositories"
)

// joinAuthors resolves the referenced author profile for every item in a
// result set, degrading failed lookups to a placeholder.
func joinAuthors[P, M any](
	ctx context.Context,
	profiles repositories.ProfileRepository,
	items []P,
	key func(P) string,
	merge func(P, models.ProfileCompact) M,
) []M {
	resolve := func(ctx context.Context, id string) (models.ProfileCompact, error) {
		p, err := profiles.GetByID(ctx, id)
		if err != nil {
			return models.ProfileCompact{}, err
		}
		return p.ToCompact(), nil
	}
	return livequery.JoinBatch(ctx, items, key, resolve, models.PlaceholderProfile, merge, 0)
}

// truncate shortens s for notification bodies.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
