package geo

import (
	"math"
	"testing"
)

func TestNormalizeLongitude(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"in range", 45.5, 45.5},
		{"antimeridian east", 180, 180},
		{"antimeridian west", -180, 180},
		{"just past east", 181, -179},
		{"0-360 convention", 270, -90},
		{"full turn", 360, 0},
		{"negative wrap", -190, 170},
		{"two turns", 540, 180},
		{"far east", 1000, -80},
		{"far west", -1000, 80},
		{"nan", math.NaN(), 0},
		{"inf", math.Inf(1), 0},
		{"neg inf", math.Inf(-1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeLongitude(tt.in)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("NormalizeLongitude(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeLongitudeProperties(t *testing.T) {
	for x := -5000.0; x <= 5000.0; x += 7.25 {
		once := NormalizeLongitude(x)
		if once <= -180 || once > 180 {
			t.Fatalf("NormalizeLongitude(%v) = %v, outside (-180, 180]", x, once)
		}
		if twice := NormalizeLongitude(once); twice != once {
			t.Fatalf("not idempotent for %v: %v then %v", x, once, twice)
		}
	}
}

func TestIsWGS84Plausible(t *testing.T) {
	tests := []struct {
		name     string
		lon, lat float64
		want     bool
	}{
		{"regular", 2.35, 48.85, true},
		{"unwrapped longitude", 270, 10, true},
		{"longitude beyond 360", 361, 10, false},
		{"latitude too high", 10, 91, false},
		{"utm meters", 500000, 5700000, false},
		{"null island", 0, 0, false},
		{"near null island", 0.000001, -0.000001, false},
		{"off null island on one axis", 0, 0.001, true},
		{"nan", math.NaN(), 10, false},
		{"inf", 10, math.Inf(1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsWGS84Plausible(tt.lon, tt.lat); got != tt.want {
				t.Errorf("IsWGS84Plausible(%v, %v) = %v, want %v", tt.lon, tt.lat, got, tt.want)
			}
		})
	}
}
