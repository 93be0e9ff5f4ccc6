package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"kickabout/internal/models"
	"kickabout/internal/privacy"
	"kickabout/internal/repository"
	"kickabout/pkg/geo"
)

var (
	// ErrInvalidQuery marks malformed input: out-of-range center,
	// non-positive radius, unknown sharing mode.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrUnavailable marks a store failure or timeout. Callers get this
	// instead of partial results; zero matches and "store down" must stay
	// distinguishable.
	ErrUnavailable = errors.New("discovery unavailable")
)

// Result is one discovery hit. DistanceM is computed from the true
// coordinates before obfuscation, so ranking can never be scrambled by the
// jitter; Latitude/Longitude are what is safe to disclose.
type Result struct {
	EntityID  string
	DistanceM float64
	Latitude  float64
	Longitude float64
}

// Engine runs the two-phase proximity query: a coarse geohash-range scan
// against the store, then exact haversine filtering with visibility and
// staleness gates, obfuscation, and distance ranking. It holds no mutable
// state across calls; any number of queries may run concurrently.
type Engine struct {
	store        repository.LocationStore
	obfuscator   *privacy.Obfuscator
	staleAfter   time.Duration
	storeTimeout time.Duration
	now          func() time.Time
}

func NewEngine(store repository.LocationStore, obfuscator *privacy.Obfuscator, staleAfter, storeTimeout time.Duration) *Engine {
	return &Engine{
		store:        store,
		obfuscator:   obfuscator,
		staleAfter:   staleAfter,
		storeTimeout: storeTimeout,
		now:          time.Now,
	}
}

// WithClock overrides the engine's time source. Test hook.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// UpdateLocation upserts an entity's location. The geohash is recomputed
// here, in the same step as the coordinates, so the two can never drift
// apart; callers are not allowed to write the store directly.
func (e *Engine) UpdateLocation(ctx context.Context, entityID string, lat, lng float64, mode models.SharingMode, visible bool) (*models.ActiveLocation, error) {
	if entityID == "" {
		return nil, fmt.Errorf("%w: missing entity id", ErrInvalidQuery)
	}
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: unknown sharing mode %q", ErrInvalidQuery, mode)
	}
	hash, err := geo.Encode(lat, lng, geo.RecordPrecision)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}

	record := &models.ActiveLocation{
		EntityID:      entityID,
		Geohash:       hash,
		Latitude:      lat,
		Longitude:     lng,
		Mode:          mode,
		IsVisible:     visible,
		LastUpdatedAt: e.now(),
	}

	ctx, cancel := context.WithTimeout(ctx, e.storeTimeout)
	defer cancel()
	if err := e.store.Upsert(ctx, record); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return record, nil
}

// GetLocation returns an entity's own raw record, or nil when none exists.
func (e *Engine) GetLocation(ctx context.Context, entityID string) (*models.ActiveLocation, error) {
	ctx, cancel := context.WithTimeout(ctx, e.storeTimeout)
	defer cancel()
	record, err := e.store.GetByEntityID(ctx, entityID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return record, nil
}

// Obfuscate exposes the engine's disclosure policy for collaborators that
// publish coordinates themselves (the live map hub).
func (e *Engine) Obfuscate(lat, lng float64, mode models.SharingMode) (float64, float64) {
	return e.obfuscator.Obfuscate(lat, lng, mode)
}

// Nearby returns visible, fresh entities within radiusM meters of the
// center, sorted ascending by true distance, coordinates obfuscated per
// sharing mode.
func (e *Engine) Nearby(ctx context.Context, lat, lng, radiusM float64) ([]Result, error) {
	if radiusM <= 0 {
		return nil, fmt.Errorf("%w: radius must be positive", ErrInvalidQuery)
	}

	bounds, err := geo.QueryBounds(lat, lng, radiusM)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}

	// Coarse phase: one range scan per bound, under a single deadline so a
	// stalled store turns into ErrUnavailable instead of a hung request.
	// Candidates are deduped by entity in case merged bounds still overlap.
	scanCtx, cancel := context.WithTimeout(ctx, e.storeTimeout)
	defer cancel()

	candidates := make(map[string]models.ActiveLocation)
	for _, b := range bounds {
		records, err := e.store.ScanRange(scanCtx, b.Start, b.End)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		for _, r := range records {
			candidates[r.EntityID] = r
		}
	}

	// Fine phase. Order matters: the visibility gate runs before anything
	// from the record is used, and distance is taken on the true
	// coordinates before the jitter is applied to the returned ones.
	now := e.now()
	results := make([]Result, 0, len(candidates))
	for _, record := range candidates {
		if !record.IsVisible {
			continue
		}
		if now.Sub(record.LastUpdatedAt) > e.staleAfter {
			continue
		}
		distanceM := geo.HaversineM(lat, lng, record.Latitude, record.Longitude)
		if distanceM > radiusM {
			continue
		}
		safeLat, safeLng := e.obfuscator.Obfuscate(record.Latitude, record.Longitude, record.Mode)
		results = append(results, Result{
			EntityID:  record.EntityID,
			DistanceM: distanceM,
			Latitude:  safeLat,
			Longitude: safeLng,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].DistanceM < results[j].DistanceM
	})
	return results, nil
}
