package geo

import (
	"fmt"
	"math"
)

// EarthRadiusKm is the Earth radius used by the haversine formula.
const EarthRadiusKm = 6371.0

// HaversineKm returns the great-circle distance in kilometers between two
// points given in WGS84 degrees. The radicand is clamped to [0,1] so that
// floating rounding near antipodal or identical points can never push the
// argument of Asin out of domain.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	rad := func(d float64) float64 { return d * math.Pi / 180 }
	dLat := rad(lat2 - lat1)
	dLng := rad(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	if a < 0 {
		a = 0
	} else if a > 1 {
		a = 1
	}
	return EarthRadiusKm * 2 * math.Asin(math.Sqrt(a))
}

// HaversineM returns the same distance in meters.
func HaversineM(lat1, lng1, lat2, lng2 float64) float64 {
	return HaversineKm(lat1, lng1, lat2, lng2) * 1000
}

// FormatDistance renders a distance for display: sub-kilometer distances in
// whole meters ("432 m"), everything else in kilometers to one decimal
// ("3.4 km").
func FormatDistance(km float64) string {
	if km < 1 {
		return fmt.Sprintf("%d m", int(math.Round(km*1000)))
	}
	return fmt.Sprintf("%.1f km", km)
}
