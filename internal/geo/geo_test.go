package geo

import (
	"math"
	"testing"
)

// TestDistanceIdentity verifies distance(a, a) == 0 for a spread of coordinates.
func TestDistanceIdentity(t *testing.T) {
	coords := []Coordinate{
		{Lat: 0, Lng: 0},
		{Lat: 22.470493, Lng: 88.307407},
		{Lat: -90, Lng: 0},
		{Lat: 90, Lng: 180},
		{Lat: 51.64, Lng: -122.33},
	}
	for _, c := range coords {
		if d := Distance(c, c); d != 0 {
			t.Errorf("Distance(%v, %v) = %v, want 0", c, c, d)
		}
	}
}

// TestDistanceSymmetric verifies distance(a, b) == distance(b, a).
func TestDistanceSymmetric(t *testing.T) {
	a := Coordinate{Lat: 22.470493, Lng: 88.307407}
	b := Coordinate{Lat: -33.8688, Lng: 151.2093}
	ab := Distance(a, b)
	ba := Distance(b, a)
	if math.Abs(ab-ba) > 1e-9 {
		t.Errorf("asymmetric: Distance(a,b)=%v Distance(b,a)=%v", ab, ba)
	}
}

// TestDistanceAntipodal verifies antipodal points are half the Earth's
// circumference apart (pi * R ~ 20015 km).
func TestDistanceAntipodal(t *testing.T) {
	a := Coordinate{Lat: 0, Lng: 0}
	b := Coordinate{Lat: 0, Lng: 180}
	want := math.Pi * EarthRadiusKm
	if d := Distance(a, b); math.Abs(d-want) > 1.0 {
		t.Errorf("Distance = %.2f km, want ~%.2f km", d, want)
	}
}

// TestDistanceKnown checks a 10-degree meridian arc (~1111.95 km).
func TestDistanceKnown(t *testing.T) {
	a := Coordinate{Lat: 0, Lng: 0}
	b := Coordinate{Lat: 10, Lng: 0}
	want := EarthRadiusKm * 10 * math.Pi / 180
	if d := Distance(a, b); math.Abs(d-want) > 1.0 {
		t.Errorf("Distance = %.2f km, want ~%.2f km", d, want)
	}
	if d := Distance(a, b); d <= 500 {
		t.Errorf("10 degrees of latitude should be well outside a 500 km threshold, got %.2f km", d)
	}
}
