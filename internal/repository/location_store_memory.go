package repository

import (
	"context"
	"sort"
	"sync"

	"kickabout/internal/models"
)

type memoryKey struct {
	geohash  string
	entityID string
}

// MemoryLocationStore is an in-memory LocationStore for tests and
// ephemeral deployments. It keeps the records in a map keyed by entity and
// a sorted (geohash, entity) index, so ScanRange is a binary search plus a
// walk over the matching window rather than a scan of every record.
type MemoryLocationStore struct {
	mu      sync.RWMutex
	records map[string]*models.ActiveLocation
	index   []memoryKey
}

func NewMemoryLocationStore() *MemoryLocationStore {
	return &MemoryLocationStore{
		records: make(map[string]*models.ActiveLocation),
	}
}

func (k memoryKey) less(o memoryKey) bool {
	if k.geohash != o.geohash {
		return k.geohash < o.geohash
	}
	return k.entityID < o.entityID
}

func (s *MemoryLocationStore) Upsert(ctx context.Context, record *models.ActiveLocation) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if old, exists := s.records[record.EntityID]; exists {
		s.removeKey(memoryKey{geohash: old.Geohash, entityID: old.EntityID})
	}

	clone := *record
	s.records[clone.EntityID] = &clone
	s.insertKey(memoryKey{geohash: clone.Geohash, entityID: clone.EntityID})
	return nil
}

func (s *MemoryLocationStore) ScanRange(ctx context.Context, start, end string) ([]models.ActiveLocation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	lo := sort.Search(len(s.index), func(i int) bool { return s.index[i].geohash >= start })
	hi := sort.Search(len(s.index), func(i int) bool { return s.index[i].geohash > end })

	out := make([]models.ActiveLocation, 0, hi-lo)
	for i := lo; i < hi; i++ {
		out = append(out, *s.records[s.index[i].entityID])
	}
	return out, nil
}

func (s *MemoryLocationStore) GetByEntityID(ctx context.Context, entityID string) (*models.ActiveLocation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	record, exists := s.records[entityID]
	if !exists {
		return nil, nil
	}
	clone := *record
	return &clone, nil
}

// Count returns the number of stored records.
func (s *MemoryLocationStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// insertKey and removeKey keep the index sorted; both assume the write
// lock is held.
func (s *MemoryLocationStore) insertKey(k memoryKey) {
	i := sort.Search(len(s.index), func(i int) bool { return !s.index[i].less(k) })
	s.index = append(s.index, memoryKey{})
	copy(s.index[i+1:], s.index[i:])
	s.index[i] = k
}

func (s *MemoryLocationStore) removeKey(k memoryKey) {
	i := sort.Search(len(s.index), func(i int) bool { return !s.index[i].less(k) })
	if i < len(s.index) && s.index[i] == k {
		s.index = append(s.index[:i], s.index[i+1:]...)
	}
}
