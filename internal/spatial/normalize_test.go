package spatial

import (
	"math"
	"strings"
	"testing"

	"github.com/Abhishekkumar2021/SynqX-sub006/internal/crs"
	"github.com/Abhishekkumar2021/SynqX-sub006/internal/geo"
)

func TestNormalizeInvalidLeaf(t *testing.T) {
	var warnings []string
	in := &geo.GeoJSONGeometry{Type: "Point", Coordinates: geo.Pair{Lon: math.NaN(), Lat: 12, Rest: []any{7.0}}}

	out := Normalize(in, "", nil, &warnings).(*geo.GeoJSONGeometry)

	p, ok := out.Coordinates.(geo.Pair)
	if !ok {
		t.Fatalf("expected a pair, got %#v", out.Coordinates)
	}
	if p.Lon != 0 || p.Lat != 0 || len(p.Rest) != 1 || p.Rest[0] != 7.0 {
		t.Errorf("pair = %#v, want (0, 0, 7)", p)
	}
	if len(warnings) != 1 {
		t.Errorf("warnings = %v, want exactly one", warnings)
	}
}

func TestNormalizeWGS84IsNoOp(t *testing.T) {
	in := &geo.GeoJSONGeometry{Type: "LineString", Coordinates: geo.Nested{
		geo.Pair{Lon: 2.25, Lat: 51.5},
		geo.Pair{Lon: 190, Lat: -10.125, Rest: []any{100.0}},
	}}

	for _, def := range []crs.Definition{"", crs.WGS84} {
		var warnings []string
		out := Normalize(in, def, nil, &warnings).(*geo.GeoJSONGeometry)

		var got []geo.Coordinate
		geo.WalkGeometry(out, func(p geo.Pair) { got = append(got, p.Coordinate()) })

		want := []geo.Coordinate{{Lon: 2.25, Lat: 51.5}, {Lon: -170, Lat: -10.125}}
		if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
			t.Errorf("def %q: got %v, want %v", def, got, want)
		}
		if len(warnings) != 0 {
			t.Errorf("def %q: unexpected warnings %v", def, warnings)
		}
	}
}

func TestNormalizeReprojects(t *testing.T) {
	var warnings []string
	in := &geo.GeoJSONFeature{
		Type:       "AnyCrsFeature",
		Properties: map[string]any{"name": "A"},
		Geometry: &geo.GeoJSONGeometry{Type: "AnyCrsPoint", Coordinates: geo.Pair{Lon: 500000, Lat: 0}},
	}

	out := Normalize(in, "EPSG:32631", nil, &warnings).(*geo.GeoJSONFeature)

	if out.Type != "Feature" || out.Geometry.Type != "Point" {
		t.Errorf("types not sanitized: %q / %q", out.Type, out.Geometry.Type)
	}
	p := out.Geometry.Coordinates.(geo.Pair)
	if math.Abs(p.Lon-3) > 1e-6 || math.Abs(p.Lat) > 1e-6 {
		t.Errorf("pair = %v, want (3, 0)", p)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings %v", warnings)
	}

	in.Properties["name"] = "B"
	if out.Properties["name"] != "A" {
		t.Error("output aliases input properties")
	}
}

func TestNormalizeReprojectionFailureShortCircuits(t *testing.T) {
	var warnings []string
	in := &geo.GeoJSONFeatureCollection{Type: "AnyCrsFeatureCollection", Features: []geo.GeoJSONFeature{
		{Type: "Feature", Geometry: &geo.GeoJSONGeometry{Type: "Polygon", Coordinates: geo.Nested{geo.Nested{
			geo.Pair{Lon: 370, Lat: 1},
			geo.Pair{Lon: 20, Lat: 2},
			geo.Pair{Lon: 30, Lat: 3},
		}}}},
		{Type: "Feature", Geometry: &geo.GeoJSONGeometry{Type: "Point", Coordinates: geo.Pair{Lon: 40, Lat: 4}}},
	}}

	out := Normalize(in, "EPSG:999999", nil, &warnings).(*geo.GeoJSONFeatureCollection)

	if len(warnings) != 1 || !strings.Contains(warnings[0], "EPSG:999999") {
		t.Fatalf("warnings = %v, want one reprojection warning", warnings)
	}
	if out.Type != "FeatureCollection" {
		t.Errorf("type = %q", out.Type)
	}

	first, _ := geo.FirstGeometryPair(out.Features[0].Geometry)
	if first.Lon != 10 || first.Lat != 1 {
		t.Errorf("fallback should keep source values with longitude wrapped, got %v", first)
	}
}

func TestNormalizeKeepsRawValues(t *testing.T) {
	var warnings []string
	in := &geo.GeoJSONGeometry{Type: "LineString", Coordinates: geo.Nested{
		geo.Pair{Lon: 1, Lat: 2},
		geo.Raw{Value: "gap"},
	}}

	out := Normalize(in, "", nil, &warnings).(*geo.GeoJSONGeometry)
	nested := out.Coordinates.(geo.Nested)
	if r, ok := nested[1].(geo.Raw); !ok || r.Value != "gap" {
		t.Errorf("raw value not preserved: %#v", nested[1])
	}
}

func TestNormalizeGeometryCollection(t *testing.T) {
	var warnings []string
	in := &geo.GeoJSONGeometry{Type: "GeometryCollection", Geometries: []*geo.GeoJSONGeometry{
		{Type: "PointAnyCrs", Coordinates: geo.Pair{Lon: 200, Lat: 5}},
		nil,
	}}

	out := Normalize(in, "", nil, &warnings).(*geo.GeoJSONGeometry)
	if out.Geometries[0].Type != "Point" || out.Geometries[1] != nil {
		t.Errorf("unexpected members %#v", out.Geometries)
	}
	if p := out.Geometries[0].Coordinates.(geo.Pair); p.Lon != -160 {
		t.Errorf("lon = %v, want -160", p.Lon)
	}
}

func TestNormalizeNilSink(t *testing.T) {
	in := &geo.GeoJSONGeometry{Type: "Point", Coordinates: geo.Pair{Lon: math.Inf(1), Lat: 1}}
	if out := Normalize(in, "", nil, nil); out == nil {
		t.Error("expected a result without a warnings sink")
	}
}
