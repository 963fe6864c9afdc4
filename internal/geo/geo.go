// Package geo answers "is this point near that one" for the shopping-zone
// alert.
package geo

import "math"

// EarthRadius is the mean Earth radius in metres.
const EarthRadius = 6371008.8

type Point struct {
	Lat float64
	Lon float64
}

func (p Point) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

// Distance is the great-circle distance between a and b in metres
// (haversine).
func Distance(a, b Point) float64 {
	lat1, lat2 := rad(a.Lat), rad(b.Lat)
	dLat := lat2 - lat1
	dLon := rad(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * EarthRadius * math.Asin(math.Min(1, math.Sqrt(h)))
}

// Within reports whether p lies inside the circle of radius metres around
// center. The boundary counts as inside.
func Within(p, center Point, radius float64) bool {
	return Distance(p, center) <= radius
}

func rad(deg float64) float64 { return deg * math.Pi / 180 }
