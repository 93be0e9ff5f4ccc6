package models

import (
	"time"
)

// SharingMode controls how an entity's coordinates may be disclosed.
type SharingMode string

const (
	// SharingLive means the entity consents to precise-position disclosure,
	// e.g. checked in at a public venue.
	SharingLive SharingMode = "live"
	// SharingStatic marks a resting/home-like position that must be
	// jittered before it leaves the service.
	SharingStatic SharingMode = "static"
)

// Valid reports whether m is one of the known sharing modes.
func (m SharingMode) Valid() bool {
	return m == SharingLive || m == SharingStatic
}

// ActiveLocation is the authoritative "where is this entity right now"
// record, one per active player or game session, overwritten whole on every
// client location update. The geohash is derived from the coordinates and
// the two are only ever written together. Raw coordinates never serialize
// to JSON; anything leaving the service carries obfuscated copies built by
// the discovery engine.
type ActiveLocation struct {
	ID            uint        `gorm:"primaryKey" json:"-"`
	EntityID      string      `gorm:"size:64;uniqueIndex;not null" json:"entity_id"`
	Geohash       string      `gorm:"size:12;not null;index" json:"-"`
	Latitude      float64     `gorm:"type:decimal(10,8);not null" json:"-"`
	Longitude     float64     `gorm:"type:decimal(11,8);not null" json:"-"`
	Mode          SharingMode `gorm:"size:10;not null;default:static" json:"mode"`
	IsVisible     bool        `gorm:"default:true" json:"is_visible"`
	LastUpdatedAt time.Time   `gorm:"not null;index" json:"last_updated_at"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// TableName allows custom table name.
func (ActiveLocation) TableName() string {
	return "active_locations"
}
