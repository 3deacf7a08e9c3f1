// Package cache holds the ephemeral track lookup store. Entries live only
// long enough to bridge a search response and the follow-up analysis
// request; nothing here is durable.
package cache

import (
	"context"

	"github.com/spacesedan/tunecast/internal/models"
)

// TrackCache is the capability the engine receives instead of touching
// process-wide state directly. Implementations must be safe for concurrent
// use; no ordering is guaranteed across distinct ids.
type TrackCache interface {
	Get(ctx context.Context, id string) (*models.Track, bool)
	Put(ctx context.Context, id string, track models.Track)
}
