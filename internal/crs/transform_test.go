package crs

import (
	"errors"
	"math"
	"testing"
)

func TestNewTransformer(t *testing.T) {
	reg, err := NewRegistry(nil)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		def      Definition
		x, y     float64
		lon, lat float64
		tol      float64
	}{
		// central meridian of zone 31 is 3E; northing of 45N is k0 * meridian arc
		{"utm north central meridian", "EPSG:32631", 500000, 4982950.4, 3, 45, 1e-3},
		{"utm north equator", "EPSG:32631", 500000, 0, 3, 0, 1e-6},
		{"utm south", "EPSG:32733", 500000, 10000000, 15, 0, 1e-6},
		{"web mercator origin", "EPSG:3857", 0, 0, 0, 0, 1e-9},
		{"web mercator east edge", "EPSG:3857", 20037508.342789244, 0, 180, 0, 1e-6},
		{"proj string", "+proj=utm +zone=31 +datum=WGS84 +units=m +no_defs", 500000, 0, 3, 0, 1e-6},
		{"identity", WGS84, 12.5, -33.25, 12.5, -33.25, 1e-9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := reg.NewTransformer(tt.def)
			if err != nil {
				t.Fatalf("NewTransformer(%q): %v", tt.def, err)
			}
			lon, lat, err := tr(tt.x, tt.y)
			if err != nil {
				t.Fatalf("transform: %v", err)
			}
			if math.Abs(lon-tt.lon) > tt.tol || math.Abs(lat-tt.lat) > tt.tol {
				t.Errorf("transform(%v, %v) = (%v, %v), want (%v, %v)", tt.x, tt.y, lon, lat, tt.lon, tt.lat)
			}
		})
	}
}

func TestNewTransformerUnknown(t *testing.T) {
	reg, err := NewRegistry(nil)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := reg.NewTransformer("EPSG:999999"); !errors.Is(err, ErrUnknownCRS) {
		t.Errorf("expected ErrUnknownCRS, got %v", err)
	}
	if _, err := reg.NewTransformer("this is not a projection"); err == nil {
		t.Error("expected an error for garbage definition")
	}
}

func TestRegistryExtra(t *testing.T) {
	reg, err := NewRegistry(map[string]string{
		"EPSG:999999": "+proj=utm +zone=31 +datum=WGS84 +units=m +no_defs",
		"32631":       "+proj=utm +zone=32 +datum=WGS84 +units=m +no_defs",
	})
	if err != nil {
		t.Fatal(err)
	}
	if reg.Len() != 2 {
		t.Errorf("Len = %d, want 2", reg.Len())
	}

	tr, err := reg.NewTransformer("EPSG:999999")
	if err != nil {
		t.Fatalf("configured code should resolve: %v", err)
	}
	if lon, _, _ := tr(500000, 0); math.Abs(lon-3) > 1e-6 {
		t.Errorf("lon = %v, want 3", lon)
	}

	if def, _ := reg.Lookup(32631); def != "+proj=utm +zone=32 +datum=WGS84 +units=m +no_defs" {
		t.Errorf("configured definition should override built-in, got %q", def)
	}
}

func TestRegistryInvalid(t *testing.T) {
	for _, extra := range []map[string]string{
		{"ESRI:102100": "+proj=merc"},
		{"EPSG:0": "+proj=merc"},
		{"EPSG:2056": " "},
	} {
		if _, err := NewRegistry(extra); err == nil {
			t.Errorf("NewRegistry(%v) should fail", extra)
		}
	}
}

func TestWKTAuthorityFallback(t *testing.T) {
	reg, err := NewRegistry(nil)
	if err != nil {
		t.Fatal(err)
	}

	// projection name the parser does not know, but the root authority is a UTM zone
	def := Definition(`PROJCS["Custom",GEOGCS["WGS 84",DATUM["WGS_1984",SPHEROID["WGS 84",6378137,298.257223563,AUTHORITY["EPSG","7030"]],AUTHORITY["EPSG","6326"]],PRIMEM["Greenwich",0],UNIT["degree",0.0174532925199433],AUTHORITY["EPSG","4326"]],PROJECTION["Not_A_Real_Projection"],UNIT["metre",1],AUTHORITY["EPSG","32631"]]`)

	tr, err := reg.NewTransformer(def)
	if err != nil {
		t.Fatalf("NewTransformer: %v", err)
	}
	if lon, lat, err := tr(500000, 0); err != nil || math.Abs(lon-3) > 1e-6 || math.Abs(lat) > 1e-6 {
		t.Errorf("transform = (%v, %v, %v), want (3, 0)", lon, lat, err)
	}
}
