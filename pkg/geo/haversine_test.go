package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineKnownDistances(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lng1, lat2, lng2 float64
		wantKm                 float64
		delta                  float64
	}{
		{name: "paris to london", lat1: 48.8566, lng1: 2.3522, lat2: 51.5074, lng2: -0.1278, wantKm: 344, delta: 2},
		{name: "san francisco to new york", lat1: 37.7749, lng1: -122.4194, lat2: 40.7128, lng2: -74.0060, wantKm: 4130, delta: 15},
		{name: "across a city block", lat1: 16.4322, lng1: 102.8236, lat2: 16.4330, lng2: 102.8240, wantKm: 0.0987, delta: 0.002},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.wantKm, HaversineKm(tt.lat1, tt.lng1, tt.lat2, tt.lng2), tt.delta)
		})
	}
}

func TestHaversineSymmetry(t *testing.T) {
	pairs := [][4]float64{
		{16.4322, 102.8236, 16.5, 102.9},
		{-33.8688, 151.2093, 51.5074, -0.1278},
		{89.9, 0, -89.9, 180},
	}
	for _, p := range pairs {
		assert.InDelta(t, HaversineKm(p[0], p[1], p[2], p[3]), HaversineKm(p[2], p[3], p[0], p[1]), 1e-9)
	}
}

func TestHaversineZeroForIdenticalPoints(t *testing.T) {
	assert.Zero(t, HaversineKm(16.4322, 102.8236, 16.4322, 102.8236))
	assert.Zero(t, HaversineKm(0, 0, 0, 0))
}

func TestHaversineStableAtExtremes(t *testing.T) {
	// Antipodal points: the radicand lands on 1; rounding must not push it
	// over and produce NaN.
	d := HaversineKm(0, 0, 0, 180)
	assert.False(t, d != d, "NaN for antipodal points")
	assert.InDelta(t, 20015, d, 5)

	// Nearly identical points must not go negative or NaN either.
	d = HaversineKm(16.4322, 102.8236, 16.4322, 102.82360000000001)
	assert.GreaterOrEqual(t, d, 0.0)
	assert.False(t, d != d)
}

func TestHaversineM(t *testing.T) {
	assert.InDelta(t, 98.7, HaversineM(16.4322, 102.8236, 16.4330, 102.8240), 2)
}

func TestFormatDistance(t *testing.T) {
	tests := []struct {
		km   float64
		want string
	}{
		{0.0, "0 m"},
		{0.432, "432 m"},
		{0.95, "950 m"},
		{1.0, "1.0 km"},
		{3.44, "3.4 km"},
		{12.0, "12.0 km"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDistance(tt.km))
	}
}
