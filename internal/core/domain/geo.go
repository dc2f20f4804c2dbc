package domain

import (
	"fmt"
	"math"
)

// Coordinates is a latitude/longitude pair in degrees
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// EarthRadiusKm is the mean Earth radius used for great-circle distances
const EarthRadiusKm = 6371.0

// Distance returns the haversine great-circle distance in kilometers
// between two points. If either point is missing or carries a NaN
// coordinate it returns +Inf, so that sorting by distance pushes
// unknown-distance entries to the end rather than conflating them with
// zero distance.
func Distance(from, to *Coordinates) float64 {
	if from == nil || to == nil {
		return math.Inf(1)
	}
	if math.IsNaN(from.Latitude) || math.IsNaN(from.Longitude) ||
		math.IsNaN(to.Latitude) || math.IsNaN(to.Longitude) {
		return math.Inf(1)
	}

	lat1 := from.Latitude * math.Pi / 180
	lat2 := to.Latitude * math.Pi / 180
	dLat := (to.Latitude - from.Latitude) * math.Pi / 180
	dLng := (to.Longitude - from.Longitude) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// FormatDistance renders a distance for display: meters under 1 km,
// kilometers to two decimals otherwise. An unknown (infinite) distance
// formats as "Unknown", never as a number.
func FormatDistance(km float64) string {
	if math.IsInf(km, 0) || math.IsNaN(km) {
		return "Unknown"
	}
	if km < 1 {
		return fmt.Sprintf("%d m", int(math.Round(km*1000)))
	}
	return fmt.Sprintf("%.2f km", km)
}
