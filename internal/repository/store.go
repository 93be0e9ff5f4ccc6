package repository

import (
	"context"

	"kickabout/internal/models"
)

// LocationStore is the keyed storage for ActiveLocation records. The only
// query capability the discovery engine needs beyond point lookup is a
// range scan over the geohash index; any ordered-key store satisfies the
// contract.
type LocationStore interface {
	// Upsert overwrites the record for record.EntityID. Callers supply the
	// full record including the recomputed geohash; there is no partial
	// update path.
	Upsert(ctx context.Context, record *models.ActiveLocation) error
	// ScanRange returns all records whose geohash falls lexicographically
	// within [start, end], both bounds inclusive. Implementations must use
	// an index range scan, not a full collection scan: the engine issues
	// one call per query bound.
	ScanRange(ctx context.Context, start, end string) ([]models.ActiveLocation, error)
	// GetByEntityID returns the record for an entity, or (nil, nil) when
	// the entity has never reported a location.
	GetByEntityID(ctx context.Context, entityID string) (*models.ActiveLocation, error)
}
