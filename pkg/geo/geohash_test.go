package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name      string
		lat       float64
		lng       float64
		precision int
		want      string
	}{
		{name: "san francisco", lat: 37.7749, lng: -122.4194, precision: 6, want: "9q8yyk"},
		{name: "new york", lat: 40.7128, lng: -74.0060, precision: 6, want: "dr5reg"},
		{name: "london", lat: 51.5074, lng: -0.1278, precision: 6, want: "gcpvj0"},
		{name: "classic ezs42", lat: 42.605, lng: -5.603, precision: 5, want: "ezs42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(tt.lat, tt.lng, tt.precision)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeRejectsOutOfRange(t *testing.T) {
	cases := [][2]float64{
		{91, 0},
		{-90.001, 0},
		{0, 181},
		{0, -180.5},
		{math.NaN(), 0},
	}
	for _, c := range cases {
		_, err := Encode(c[0], c[1], 6)
		assert.ErrorIs(t, err, ErrOutOfRange, "(%v, %v)", c[0], c[1])
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	points := [][2]float64{
		{16.4322, 102.8236},
		{-33.8688, 151.2093},
		{64.1466, -21.9426},
		{0, 0},
	}
	for _, p := range points {
		hash, err := Encode(p[0], p[1], RecordPrecision)
		require.NoError(t, err)
		require.Len(t, hash, RecordPrecision)

		lat, lng, err := Decode(hash)
		require.NoError(t, err)
		assert.InDelta(t, p[0], lat, 0.0001)
		assert.InDelta(t, p[1], lng, 0.0001)
	}
}

func TestDecodeRejectsInvalidCharacters(t *testing.T) {
	// 'a', 'i', 'l', 'o' are not in the geohash alphabet.
	for _, hash := range []string{"a", "9q8yyi", "w6cj l", "W6CJ"} {
		_, _, err := Decode(hash)
		assert.Error(t, err, "hash %q", hash)
	}
}

func TestNeighbor(t *testing.T) {
	// Hand-checked adjacencies.
	assert.Equal(t, "u", Neighbor("s", "n"))
	assert.Equal(t, "s1", Neighbor("s0", "n"))

	// Each neighbor's cell center must sit exactly one cell step away.
	hash, err := Encode(37.7749, -122.4194, 6)
	require.NoError(t, err)
	cellLat, cellLng := cellSizeDeg(6)
	lat, lng, err := Decode(hash)
	require.NoError(t, err)

	nLat, nLng, err := Decode(Neighbor(hash, "n"))
	require.NoError(t, err)
	assert.InDelta(t, lat+cellLat, nLat, 1e-9)
	assert.InDelta(t, lng, nLng, 1e-9)

	sLat, _, err := Decode(Neighbor(hash, "s"))
	require.NoError(t, err)
	assert.InDelta(t, lat-cellLat, sLat, 1e-9)

	_, eLng, err := Decode(Neighbor(hash, "e"))
	require.NoError(t, err)
	assert.InDelta(t, lng+cellLng, eLng, 1e-9)

	_, wLng, err := Decode(Neighbor(hash, "w"))
	require.NoError(t, err)
	assert.InDelta(t, lng-cellLng, wLng, 1e-9)
}

func TestNeighborsReturnsDistinctGrid(t *testing.T) {
	hash, err := Encode(16.4322, 102.8236, 6)
	require.NoError(t, err)

	grid := Neighbors(hash)
	require.Len(t, grid, 9)
	seen := make(map[string]struct{})
	for _, cell := range grid {
		seen[cell] = struct{}{}
	}
	assert.Len(t, seen, 9)
}

func TestQueryBoundsCoversDisc(t *testing.T) {
	// Every point within the radius must fall inside some bound: the coarse
	// phase may over-select, but a false negative is a correctness bug.
	centers := [][2]float64{
		{16.4322, 102.8236},
		{37.7749, -122.4194},
		{68.9585, 33.0827}, // high latitude, narrow cells
	}
	radii := []float64{250, 1000, 5000, 25000}

	for _, center := range centers {
		for _, radiusM := range radii {
			bounds, err := QueryBounds(center[0], center[1], radiusM)
			require.NoError(t, err)
			require.NotEmpty(t, bounds)

			for bearing := 0.0; bearing < 360; bearing += 30 {
				for _, frac := range []float64{0.2, 0.7, 0.999} {
					lat, lng := offsetPoint(center[0], center[1], radiusM*frac, bearing)
					hash, err := Encode(lat, lng, RecordPrecision)
					require.NoError(t, err)

					covered := false
					for _, b := range bounds {
						if hash >= b.Start && hash <= b.End {
							covered = true
							break
						}
					}
					assert.True(t, covered,
						"point at %.0fm bearing %.0f from (%v,%v) radius %.0fm not covered",
						radiusM*frac, bearing, center[0], center[1], radiusM)
				}
			}
		}
	}
}

func TestQueryBoundsAdaptsPrecision(t *testing.T) {
	small, err := QueryBounds(16.4322, 102.8236, 200)
	require.NoError(t, err)
	large, err := QueryBounds(16.4322, 102.8236, 20000)
	require.NoError(t, err)

	assert.Greater(t, len(small[0].Start), len(large[0].Start),
		"smaller radius should plan over finer cells")
}

func TestQueryBoundsMergesAndSorts(t *testing.T) {
	bounds, err := QueryBounds(16.4322, 102.8236, 1000)
	require.NoError(t, err)

	// The 3x3 grid here contains runs of consecutive sibling cells
	// (w6cj4..w6cj7, w6cjd..w6cje), so fewer than 9 scans must come out.
	assert.Less(t, len(bounds), 9, "adjacent sibling cells must coalesce into one scan")
	assert.Len(t, bounds, 5)
	assert.Equal(t, Bound{Start: "w6cj4", End: "w6cj7~"}, bounds[0])

	for i, b := range bounds {
		assert.Less(t, b.Start, b.End)
		if i > 0 {
			assert.Greater(t, b.Start, bounds[i-1].End, "bounds must be disjoint and ordered")
		}
	}
}

func TestConsecutiveCells(t *testing.T) {
	assert.True(t, consecutiveCells("s0", "s1"))
	assert.True(t, consecutiveCells("w6cj9", "w6cjb"), "alphabet skips a, not 9->b")
	assert.False(t, consecutiveCells("s0", "s2"))
	assert.False(t, consecutiveCells("s0", "t0"), "different parents")
	assert.False(t, consecutiveCells("s", "s1"), "mixed precision")
	assert.False(t, consecutiveCells("", ""))
}

func TestQueryBoundsRejectsBadInput(t *testing.T) {
	_, err := QueryBounds(91, 0, 1000)
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, err = QueryBounds(16.4322, 102.8236, 0)
	assert.Error(t, err)

	_, err = QueryBounds(16.4322, 102.8236, -5)
	assert.Error(t, err)
}

// offsetPoint displaces a coordinate by distanceM meters along a compass
// bearing using the local flat-earth approximation, accurate well under a
// cell width at these distances.
func offsetPoint(lat, lng, distanceM, bearingDeg float64) (float64, float64) {
	const metersPerDegLat = 111194.9
	rad := bearingDeg * math.Pi / 180
	dLat := distanceM * math.Cos(rad) / metersPerDegLat
	dLng := distanceM * math.Sin(rad) / (metersPerDegLat * math.Cos(lat*math.Pi/180))
	return lat + dLat, lng + dLng
}
