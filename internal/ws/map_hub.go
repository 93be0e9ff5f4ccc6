package ws

import (
	"sync"
	"time"
)

// MapMarker is one entity's position on the live map. Coordinates are
// already obfuscated by the discovery engine before they reach the hub;
// raw telemetry never enters this package.
type MapMarker struct {
	EntityID  string  `json:"entity_id"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Mode      string  `json:"mode"`
	UpdatedAt int64   `json:"updated_at"`
}

type mapEvent struct {
	Type   string     `json:"type"`
	Marker *MapMarker `json:"marker,omitempty"`
}

// MapHub streams disclosure-safe markers to connected map viewers and
// keeps the latest marker per entity for the initial snapshot on connect.
type MapHub struct {
	*Hub
	mu      sync.RWMutex
	markers map[string]MapMarker
}

func NewMapHub() *MapHub {
	return &MapHub{
		Hub:     NewHub(),
		markers: make(map[string]MapMarker),
	}
}

// UpdateMarker is called after a visible entity's location update, with
// coordinates the engine has already run through the obfuscation policy.
func (m *MapHub) UpdateMarker(entityID string, lat, lng float64, mode string) {
	marker := MapMarker{
		EntityID:  entityID,
		Lat:       lat,
		Lng:       lng,
		Mode:      mode,
		UpdatedAt: time.Now().Unix(),
	}
	m.mu.Lock()
	m.markers[entityID] = marker
	m.mu.Unlock()
	m.BroadcastAll(mapEvent{Type: "marker", Marker: &marker})
}

// RemoveMarker retracts an entity from the map, e.g. when it toggles
// visibility off.
func (m *MapHub) RemoveMarker(entityID string) {
	m.mu.Lock()
	_, existed := m.markers[entityID]
	delete(m.markers, entityID)
	m.mu.Unlock()
	if existed {
		m.BroadcastAll(mapEvent{Type: "remove", Marker: &MapMarker{EntityID: entityID}})
	}
}

// Markers returns the current marker snapshot for initial map load.
func (m *MapHub) Markers() []MapMarker {
	m.mu.RLock()
	defer m.mu.RUnlock()
	list := make([]MapMarker, 0, len(m.markers))
	for _, v := range m.markers {
		list = append(list, v)
	}
	return list
}
