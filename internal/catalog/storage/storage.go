// Package storage defines the persistence contract for catalog data.
package storage

import (
	"context"
	"errors"

	"github.com/anoikis-dev/rollwatch/internal/catalog"
)

// ErrNotFound indicates the requested entry does not exist.
var ErrNotFound = errors.New("catalog entry not found")

// Store persists catalog reference data.
type Store interface {
	// PutShip inserts or replaces one ship entry.
	PutShip(ctx context.Context, ship catalog.Ship) error
	// PutWormhole inserts or replaces one wormhole entry.
	PutWormhole(ctx context.Context, wormhole catalog.Wormhole) error
	// GetShip returns one ship by key.
	GetShip(ctx context.Context, key string) (catalog.Ship, error)
	// GetWormhole returns one wormhole by code.
	GetWormhole(ctx context.Context, code string) (catalog.Wormhole, error)
	// ListShips returns all ships ordered by size class, then key.
	ListShips(ctx context.Context) ([]catalog.Ship, error)
	// ListWormholes returns all wormholes ordered by capacity, then code.
	ListWormholes(ctx context.Context) ([]catalog.Wormhole, error)
	// Close releases the underlying handle.
	Close() error
}

// Load assembles a validated catalog from everything in the store.
func Load(ctx context.Context, store Store) (*catalog.Catalog, error) {
	ships, err := store.ListShips(ctx)
	if err != nil {
		return nil, err
	}
	wormholes, err := store.ListWormholes(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.New(ships, wormholes)
}
