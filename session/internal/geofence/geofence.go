// Package geofence measures great-circle distance against a library radius.
package geofence

import (
	"math"

	"github.com/Astemirdum/study-seats/session/internal/model"
)

const EarthRadiusMeters = 6_371_000.0

// DistanceMeters is the haversine distance between a and b.
func DistanceMeters(a, b model.Coordinate) float64 {
	lat1 := radians(a.Lat)
	lat2 := radians(b.Lat)
	dLat := lat2 - lat1
	dLon := radians(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	// rounding can push h just outside [0,1] for identical or antipodal points
	h = math.Min(1, math.Max(0, h))
	return 2 * EarthRadiusMeters * math.Asin(math.Sqrt(h))
}

// IsWithinRadius is inclusive: a point on the boundary is in range.
func IsWithinRadius(distance, radius float64) bool {
	return distance <= radius
}

// Evaluate returns the distance from pos to the library center and whether it is in range.
func Evaluate(pos model.Coordinate, lib model.Library) (float64, model.LocationStatus) {
	d := DistanceMeters(pos, lib.Center)
	if IsWithinRadius(d, lib.RadiusMeters) {
		return d, model.LocationInRange
	}
	return d, model.LocationOutOfRange
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
