package repository

import (
	"context"

	"contagion/internal/domain"
)

// CachedNetwork is a contact network together with its computed home
// layout, stored so repeated runs against the same dataset skip the
// force-directed layout pass.
type CachedNetwork struct {
	Key       string
	NodeCount int
	Edges     [][2]int64
	Layout    map[int64]domain.Point
}

// Repository defines persistence for prepared contact networks
type Repository interface {
	// GetNetwork returns the cached network for a dataset key, or nil
	// when the key has never been stored.
	GetNetwork(ctx context.Context, key string) (*CachedNetwork, error)

	// SaveNetwork inserts or replaces the cached network for its key
	SaveNetwork(ctx context.Context, network *CachedNetwork) error

	// DeleteNetwork removes a cached network; missing keys are not an error
	DeleteNetwork(ctx context.Context, key string) error

	// Keys lists all cached dataset keys
	Keys(ctx context.Context) ([]string, error)

	// Close releases resources
	Close() error
}
