// Package geo provides the geospatial primitives for proximity discovery:
// geohash encoding with radius query planning, and great-circle distance.
package geo

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

// base32 is the geohash alphabet ('a', 'i', 'l', 'o' excluded).
const base32 = "0123456789bcdefghjkmnpqrstuvwxyz"

// RecordPrecision is the geohash length stored on location records.
// 10 characters resolves to roughly a metre, fine enough that the stored
// hash never limits query accuracy.
const RecordPrecision = 10

// rangeSuffix terminates a cell-prefix range. '~' sorts after every
// base32 character, so [prefix, prefix+"~"] covers all hashes in the cell.
const rangeSuffix = "~"

var ErrOutOfRange = errors.New("geo: coordinate out of range")

// Lookup tables for neighbor calculation. Keys 'e'/'o' select by even/odd
// hash length because the bit interleaving alternates lng/lat.
var (
	neighborTable = map[string]map[byte]string{
		"n": {'e': "p0r21436x8zb9dcf5h7kjnmqesgutwvy", 'o': "bc01fg45238967deuvhjyznpkmstqrwx"},
		"s": {'e': "14365h7k9dcfesgujnmqp0r2twvyx8zb", 'o': "238967debc01fg45kmstqrwxuvhjyznp"},
		"e": {'e': "bc01fg45238967deuvhjyznpkmstqrwx", 'o': "p0r21436x8zb9dcf5h7kjnmqesgutwvy"},
		"w": {'e': "238967debc01fg45kmstqrwxuvhjyznp", 'o': "14365h7k9dcfesgujnmqp0r2twvyx8zb"},
	}
	borderTable = map[string]map[byte]string{
		"n": {'e': "prxz", 'o': "bcfguvyz"},
		"s": {'e': "028b", 'o': "0145hjnp"},
		"e": {'e': "bcfguvyz", 'o': "prxz"},
		"w": {'e': "0145hjnp", 'o': "028b"},
	}
	base32Index = map[byte]int{}
)

func init() {
	for i := 0; i < len(base32); i++ {
		base32Index[base32[i]] = i
	}
}

func validCoords(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180 &&
		!math.IsNaN(lat) && !math.IsNaN(lng)
}

// Encode converts a WGS84 coordinate to a geohash of the given length by
// alternately bisecting the longitude and latitude ranges, packing 5 bits
// per output character. Coordinates outside the physical range are rejected
// rather than clamped: a silently misplaced hash would corrupt the spatial
// index.
func Encode(lat, lng float64, precision int) (string, error) {
	if !validCoords(lat, lng) {
		return "", fmt.Errorf("%w: (%v, %v)", ErrOutOfRange, lat, lng)
	}
	if precision <= 0 || precision > 12 {
		precision = RecordPrecision
	}

	minLat, maxLat := -90.0, 90.0
	minLng, maxLng := -180.0, 180.0

	var hash strings.Builder
	isEven := true
	bit := 0
	ch := 0

	for hash.Len() < precision {
		if isEven {
			mid := (minLng + maxLng) / 2
			if lng >= mid {
				ch |= 1 << (4 - bit)
				minLng = mid
			} else {
				maxLng = mid
			}
		} else {
			mid := (minLat + maxLat) / 2
			if lat >= mid {
				ch |= 1 << (4 - bit)
				minLat = mid
			} else {
				maxLat = mid
			}
		}
		isEven = !isEven
		bit++
		if bit == 5 {
			hash.WriteByte(base32[ch])
			bit = 0
			ch = 0
		}
	}

	return hash.String(), nil
}

// Decode returns the center of the cell a geohash denotes. Inverse of
// Encode up to half a cell in each axis. Characters outside the base32
// alphabet are rejected rather than skipped: a partially decoded hash
// would yield a silently misplaced cell center.
func Decode(hash string) (lat, lng float64, err error) {
	minLat, maxLat := -90.0, 90.0
	minLng, maxLng := -180.0, 180.0
	isEven := true

	for i := 0; i < len(hash); i++ {
		cd, ok := base32Index[hash[i]]
		if !ok {
			return 0, 0, fmt.Errorf("geo: invalid geohash character %q in %q", hash[i], hash)
		}
		for j := 4; j >= 0; j-- {
			bit := (cd >> j) & 1
			if isEven {
				mid := (minLng + maxLng) / 2
				if bit == 1 {
					minLng = mid
				} else {
					maxLng = mid
				}
			} else {
				mid := (minLat + maxLat) / 2
				if bit == 1 {
					minLat = mid
				} else {
					maxLat = mid
				}
			}
			isEven = !isEven
		}
	}

	return (minLat + maxLat) / 2, (minLng + maxLng) / 2, nil
}

// Neighbor returns the geohash of the adjacent cell in direction "n", "s",
// "e" or "w", recursing into the parent when the last character sits on the
// parent cell's border.
func Neighbor(hash, direction string) string {
	if len(hash) == 0 {
		return ""
	}

	last := hash[len(hash)-1]
	parent := hash[:len(hash)-1]

	var t byte = 'e'
	if len(hash)%2 == 1 {
		t = 'o'
	}

	if strings.IndexByte(borderTable[direction][t], last) >= 0 && len(parent) > 0 {
		parent = Neighbor(parent, direction)
	}

	idx := strings.IndexByte(neighborTable[direction][t], last)
	if idx < 0 {
		return hash
	}
	return parent + string(base32[idx])
}

// Neighbors returns the center cell plus its 8 adjacent cells, the 3x3
// grid used for coarse proximity filtering.
func Neighbors(hash string) []string {
	n := Neighbor(hash, "n")
	s := Neighbor(hash, "s")
	return []string{
		hash,
		n,
		s,
		Neighbor(hash, "e"),
		Neighbor(hash, "w"),
		Neighbor(n, "e"),
		Neighbor(n, "w"),
		Neighbor(s, "e"),
		Neighbor(s, "w"),
	}
}

// Bound is a lexicographic geohash range, inclusive on both ends, suitable
// for an index range scan.
type Bound struct {
	Start string
	End   string
}

// cellSizeDeg returns the angular extent of a geohash cell at the given
// precision. Longitude gets the extra bit at odd precisions.
func cellSizeDeg(precision int) (latDeg, lngDeg float64) {
	totalBits := 5 * precision
	lngBits := (totalBits + 1) / 2
	latBits := totalBits / 2
	return 180 / math.Pow(2, float64(latBits)), 360 / math.Pow(2, float64(lngBits))
}

// precisionForRadius picks the longest geohash prefix whose cell is still at
// least as large as the search radius in both axes, so that the 3x3
// neighborhood of the center cell is guaranteed to cover the disc. Fixed
// precision fails in both directions: too coarse wastes scans on small radii,
// too fine under-covers large ones.
func precisionForRadius(lat float64, radiusM float64) int {
	const metersPerDegLat = 110574.0
	latDelta := radiusM / metersPerDegLat
	lngDelta := latDelta / math.Max(math.Cos(lat*math.Pi/180), 1e-9)

	for p := RecordPrecision; p > 1; p-- {
		cellLat, cellLng := cellSizeDeg(p)
		if cellLat >= latDelta && cellLng >= lngDelta {
			return p
		}
	}
	return 1
}

// QueryBounds computes geohash ranges whose union covers the disc of
// radiusM meters around the center. The coverage intentionally over-selects
// (whole cells, not the disc itself); the caller corrects with an exact
// distance check. Adjacent and overlapping ranges are merged to minimise
// the number of range scans. Never empty for valid input.
func QueryBounds(lat, lng, radiusM float64) ([]Bound, error) {
	if !validCoords(lat, lng) {
		return nil, fmt.Errorf("%w: (%v, %v)", ErrOutOfRange, lat, lng)
	}
	if radiusM <= 0 {
		return nil, fmt.Errorf("geo: radius must be positive, got %v", radiusM)
	}

	precision := precisionForRadius(lat, radiusM)
	center, err := Encode(lat, lng, precision)
	if err != nil {
		return nil, err
	}

	// Border cells can alias (e.g. at the poles), so dedupe before building
	// ranges.
	seen := make(map[string]struct{})
	cells := make([]string, 0, 9)
	for _, cell := range Neighbors(center) {
		if _, dup := seen[cell]; dup {
			continue
		}
		seen[cell] = struct{}{}
		cells = append(cells, cell)
	}
	sort.Strings(cells)

	bounds := make([]Bound, 0, len(cells))
	for i, cell := range cells {
		if i > 0 && consecutiveCells(cells[i-1], cell) {
			bounds[len(bounds)-1].End = cell + rangeSuffix
			continue
		}
		bounds = append(bounds, Bound{Start: cell, End: cell + rangeSuffix})
	}

	return bounds, nil
}

// consecutiveCells reports whether b is the next sibling of a: same parent
// cell, immediately following base32 symbol. No geohash sorts between
// a+"~" and b, so the ranges [a, a~] and [b, b~] coalesce into one scan.
func consecutiveCells(a, b string) bool {
	if len(a) == 0 || len(a) != len(b) || a[:len(a)-1] != b[:len(b)-1] {
		return false
	}
	return base32Index[b[len(b)-1]] == base32Index[a[len(a)-1]]+1
}
