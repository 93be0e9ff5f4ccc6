// Package privacy transforms true coordinates into disclosure-safe ones
// before they cross the service boundary.
package privacy

import (
	"math"
	"math/rand"

	"kickabout/internal/models"
)

// metersPerDegLat approximates one degree of latitude. Longitude is
// corrected by cos(lat) at the point of use.
const metersPerDegLat = 111000.0

// minCosLat floors the longitude correction divisor. Past ~89.4 degrees
// the correction saturates instead of diverging: the east-west component
// shrinks toward the pole but can never overshoot the configured band.
const minCosLat = 0.01

// Obfuscator applies a randomized radial offset to static-mode coordinates.
// Live mode passes through untouched: that mode means the entity wants its
// precise position known.
//
// The jitter is re-rolled on every call rather than fixed per entity, so a
// single leaked response never pins the true position. The flip side is
// that an attacker issuing many queries can average the jitter out over
// time; deriving the offset from (entity, time-bucket) would close that
// hole at the cost of a stable per-window displacement. Kept as-is, the
// tradeoff is the system owner's call.
type Obfuscator struct {
	MinMeters float64
	MaxMeters float64
	rnd       func() float64
}

// NewObfuscator returns an Obfuscator jittering static coordinates by a
// uniform radial offset in [minMeters, maxMeters].
func NewObfuscator(minMeters, maxMeters float64) *Obfuscator {
	return &Obfuscator{MinMeters: minMeters, MaxMeters: maxMeters, rnd: rand.Float64}
}

// NewObfuscatorWithSource is NewObfuscator with an injectable uniform
// [0,1) source, for deterministic tests.
func NewObfuscatorWithSource(minMeters, maxMeters float64, rnd func() float64) *Obfuscator {
	return &Obfuscator{MinMeters: minMeters, MaxMeters: maxMeters, rnd: rnd}
}

// Obfuscate returns coordinates safe to disclose for the given sharing
// mode. It never touches anything but the coordinates; distance ranking
// stays on the true position.
func (o *Obfuscator) Obfuscate(lat, lng float64, mode models.SharingMode) (float64, float64) {
	if mode == models.SharingLive {
		return lat, lng
	}

	offsetM := o.MinMeters + o.rnd()*(o.MaxMeters-o.MinMeters)
	theta := o.rnd() * 2 * math.Pi

	r := offsetM / metersPerDegLat
	dLat := r * math.Cos(theta)
	// Degrees of longitude shrink toward the poles; divide by cos(lat),
	// floored at minCosLat, so the metric offset stays inside the configured
	// band at any latitude.
	cosLat := math.Cos(lat * math.Pi / 180)
	if cosLat < minCosLat {
		cosLat = minCosLat
	}
	dLng := r * math.Sin(theta) / cosLat

	return clampLat(lat + dLat), wrapLng(lng + dLng)
}

func clampLat(lat float64) float64 {
	return math.Min(math.Max(lat, -90), 90)
}

func wrapLng(lng float64) float64 {
	lng = math.Mod(lng+180, 360)
	if lng < 0 {
		lng += 360
	}
	return lng - 180
}
