// Package geo provides great-circle math for track replay queries.
package geo

import "math"

// EarthRadiusNm is the mean Earth radius in nautical miles.
const EarthRadiusNm = 3440.065

// DistanceNm returns the haversine distance between two coordinates in
// nautical miles, rounded to 2 decimal places.
func DistanceNm(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return round2(EarthRadiusNm * c)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
