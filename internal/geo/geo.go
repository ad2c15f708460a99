// Package geo provides great-circle geometry on the WGS-84 sphere approximation.
package geo

import "math"

// EarthRadiusKm is the Earth mean radius used for all great-circle math.
const EarthRadiusKm = 6371.0

// Point is a geographic coordinate in decimal degrees.
// Latitude is north-positive, longitude east-positive.
type Point struct {
	Lat float64
	Lon float64
}

// Destination returns the point reached by travelling distanceKm from origin
// along the given initial bearing (degrees clockwise from true north).
// Uses the spherical direct geodesic formula; the asin argument is clamped
// to [-1,1] to absorb floating point error at extreme inputs.
func Destination(origin Point, bearingDeg, distanceKm float64) Point {
	lat := degToRad(origin.Lat)
	lon := degToRad(origin.Lon)
	bearing := degToRad(bearingDeg)
	ang := distanceKm / EarthRadiusKm

	sinLat := math.Sin(lat)*math.Cos(ang) + math.Cos(lat)*math.Sin(ang)*math.Cos(bearing)
	sinLat = clamp(sinLat, -1, 1)
	newLat := math.Asin(sinLat)

	newLon := lon + math.Atan2(
		math.Sin(bearing)*math.Sin(ang)*math.Cos(lat),
		math.Cos(ang)-math.Sin(lat)*math.Sin(newLat),
	)

	return Point{
		Lat: radToDeg(newLat),
		Lon: normalizeLon(radToDeg(newLon)),
	}
}

// Site is a fixed observation site: a point plus its ground elevation.
// The elevation is resolved once per run and reused for every angle calculation.
type Site struct {
	Point
	ElevationM float64
}

// Haversine returns the great-circle distance between two points in kilometers.
func Haversine(a, b Point) float64 {
	lat1 := degToRad(a.Lat)
	lat2 := degToRad(b.Lat)
	dLat := degToRad(b.Lat - a.Lat)
	dLon := degToRad(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	if h > 1 {
		h = 1
	}

	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(h))
}

// ValidLat reports whether lat is a legal latitude in degrees.
func ValidLat(lat float64) bool {
	return lat >= -90 && lat <= 90
}

// ValidLon reports whether lon is a legal longitude in degrees.
func ValidLon(lon float64) bool {
	return lon >= -180 && lon <= 180
}

// normalizeLon wraps a longitude into (-180, 180].
func normalizeLon(lon float64) float64 {
	for lon > 180 {
		lon -= 360
	}
	for lon <= -180 {
		lon += 360
	}
	return lon
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

func radToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}
