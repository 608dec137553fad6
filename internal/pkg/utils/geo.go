package utils

import "math"

// EarthRadiusMeters is the mean Earth radius used by the haversine formula.
const EarthRadiusMeters = 6371000

// DistanceMeters returns the great-circle distance between two coordinates in meters.
func DistanceMeters(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * (math.Pi / 180.0)
	dLon := (lon2 - lon1) * (math.Pi / 180.0)

	lat1Rad := lat1 * (math.Pi / 180.0)
	lat2Rad := lat2 * (math.Pi / 180.0)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMeters * c
}

// IsWithinRadius reports whether the user point lies inside the circle around the store.
// The boundary counts as inside.
func IsWithinRadius(userLat, userLon, storeLat, storeLon, radiusMeters float64) bool {
	return DistanceMeters(userLat, userLon, storeLat, storeLon) <= radiusMeters
}

// HasCoordinate reports whether a coordinate was configured. An unset store location is stored
// as (0, 0) and means no geofence is enforced.
func HasCoordinate(lat, lon float64) bool {
	return lat != 0 || lon != 0
}
