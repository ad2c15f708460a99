package geo

import (
	"math"
	"testing"
)

func TestDestination_ZeroDistance(t *testing.T) {
	origins := []Point{
		{Lat: 0, Lon: 0},
		{Lat: 36.238, Lon: 137.964},
		{Lat: -35.4014, Lon: 148.9817},
		{Lat: 89.0, Lon: 0},
		{Lat: -89.0, Lon: -179.5},
	}
	bearings := []float64{0, 45, 90, 180, 250, 359.9}

	for _, origin := range origins {
		for _, bearing := range bearings {
			got := Destination(origin, bearing, 0)
			if math.Abs(got.Lat-origin.Lat) > 1e-9 || math.Abs(got.Lon-origin.Lon) > 1e-9 {
				t.Errorf("Destination(%v, %.1f, 0) = %v, want origin", origin, bearing, got)
			}
		}
	}
}

func TestDestination_CardinalBearings(t *testing.T) {
	// 1 degree of latitude along a meridian is ~111.19 km on the mean sphere.
	const degKm = math.Pi * EarthRadiusKm / 180

	tests := []struct {
		name    string
		origin  Point
		bearing float64
		distKm  float64
		want    Point
		tol     float64
	}{
		{
			name:    "due north one degree",
			origin:  Point{Lat: 36.0, Lon: 138.0},
			bearing: 0,
			distKm:  degKm,
			want:    Point{Lat: 37.0, Lon: 138.0},
			tol:     0.001,
		},
		{
			name:    "due south one degree",
			origin:  Point{Lat: 36.0, Lon: 138.0},
			bearing: 180,
			distKm:  degKm,
			want:    Point{Lat: 35.0, Lon: 138.0},
			tol:     0.001,
		},
		{
			name:    "due east on the equator",
			origin:  Point{Lat: 0, Lon: 10.0},
			bearing: 90,
			distKm:  degKm,
			want:    Point{Lat: 0, Lon: 11.0},
			tol:     0.001,
		},
		{
			name:    "due west across the antimeridian",
			origin:  Point{Lat: 0, Lon: -179.5},
			bearing: 270,
			distKm:  degKm,
			want:    Point{Lat: 0, Lon: 179.5},
			tol:     0.001,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Destination(tt.origin, tt.bearing, tt.distKm)
			if math.Abs(got.Lat-tt.want.Lat) > tt.tol || math.Abs(got.Lon-tt.want.Lon) > tt.tol {
				t.Errorf("Destination() = %+v, want %+v (±%g)", got, tt.want, tt.tol)
			}
		})
	}
}

func TestDestination_RoundTripDistance(t *testing.T) {
	// Projecting out and measuring back must reproduce the distance.
	origin := Point{Lat: 36.238, Lon: 137.964}
	for _, bearing := range []float64{0, 37, 90, 133, 250, 311} {
		for _, dist := range []float64{1, 5, 20, 50} {
			dest := Destination(origin, bearing, dist)
			got := Haversine(origin, dest)
			if math.Abs(got-dist) > 0.01 {
				t.Errorf("Haversine(origin, Destination(%.0f°, %.0fkm)) = %.4f km", bearing, dist, got)
			}
		}
	}
}

func TestHaversine_Zero(t *testing.T) {
	p := Point{Lat: 45.5, Lon: -122.6}
	if d := Haversine(p, p); d != 0 {
		t.Errorf("Haversine(p, p) = %g, want 0", d)
	}
}

func TestValidLatLon(t *testing.T) {
	if !ValidLat(90) || !ValidLat(-90) || ValidLat(90.1) || ValidLat(-91) {
		t.Error("ValidLat boundary check failed")
	}
	if !ValidLon(180) || !ValidLon(-180) || ValidLon(180.5) || ValidLon(-181) {
		t.Error("ValidLon boundary check failed")
	}
}
