package spatial

import (
	"strings"
	"testing"
)

func point(lon, lat float64) map[string]any {
	return map[string]any{"type": "Point", "coordinates": []any{lon, lat}}
}

// nest wraps v under n levels of {"level": ...}.
func nest(v any, n int) any {
	for k := 0; k < n; k++ {
		v = map[string]any{"level": v}
	}
	return v
}

func TestLocatePriority(t *testing.T) {
	loc := Locator{Paths: DefaultPaths, MaxDepth: DefaultMaxDepth}
	hint := map[string]any{"authCode": map[string]any{"auth": "EPSG", "code": "32631"}}

	tests := []struct {
		name      string
		record    any
		wantLabel string
		wantHint  bool
	}{
		{
			name: "wgs84 location under data",
			record: map[string]any{"data": map[string]any{
				"SpatialLocation": map[string]any{"Wgs84Coordinates": point(1, 2)},
			}},
			wantLabel: "SpatialLocation.Wgs84Coordinates",
		},
		{
			name: "location wins over area",
			record: map[string]any{"data": map[string]any{
				"SpatialArea":     map[string]any{"Wgs84Coordinates": point(5, 6)},
				"SpatialLocation": map[string]any{"Wgs84Coordinates": point(1, 2)},
			}},
			wantLabel: "SpatialLocation.Wgs84Coordinates",
		},
		{
			name: "wgs84 wins over as ingested",
			record: map[string]any{"data": map[string]any{
				"SpatialLocation": map[string]any{
					"AsIngestedCoordinates": point(500000, 0),
					"Wgs84Coordinates":      point(3, 0),
				},
			}},
			wantLabel: "SpatialLocation.Wgs84Coordinates",
		},
		{
			name: "as ingested with hint",
			record: map[string]any{"data": map[string]any{
				"SpatialArea": map[string]any{"AsIngestedCoordinates": map[string]any{
					"type":                    "AnyCrsFeatureCollection",
					"features":                []any{},
					"persistableReferenceCrs": hint,
				}},
			}},
			wantLabel: "SpatialArea.AsIngestedCoordinates",
			wantHint:  true,
		},
		{
			name:      "root level path",
			record:    map[string]any{"GeoLocation": point(1, 2)},
			wantLabel: "GeoLocation",
		},
		{
			name: "null value is not present",
			record: map[string]any{"data": map[string]any{
				"SpatialLocation": map[string]any{"Wgs84Coordinates": nil},
				"SpatialArea":     map[string]any{"Wgs84Coordinates": point(1, 2)},
			}},
			wantLabel: "SpatialArea.Wgs84Coordinates",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := loc.Locate(tt.record)
			if !ok {
				t.Fatal("expected a match")
			}
			if m.Label != tt.wantLabel {
				t.Errorf("label = %q, want %q", m.Label, tt.wantLabel)
			}
			if (m.Hint != nil) != tt.wantHint {
				t.Errorf("hint = %v, want present=%v", m.Hint, tt.wantHint)
			}
		})
	}
}

func TestLocateDeepSearch(t *testing.T) {
	loc := Locator{Paths: DefaultPaths, MaxDepth: DefaultMaxDepth}

	shallow := map[string]any{"meta": nest(map[string]any{"geometry": point(1, 2)}, 2)}
	m, ok := loc.Locate(shallow)
	if !ok {
		t.Fatal("spatial key 3 levels deep should be found")
	}
	if m.Label != "Deep search: meta.level.level.geometry" {
		t.Errorf("label = %q", m.Label)
	}

	deep := map[string]any{"meta": nest(map[string]any{"geometry": point(1, 2)}, 9)}
	if m, ok := loc.Locate(deep); ok {
		t.Errorf("spatial key 10 levels deep should not be found, got %q", m.Label)
	}
}

func TestLocateDeepSearchRules(t *testing.T) {
	loc := Locator{Paths: DefaultPaths, MaxDepth: DefaultMaxDepth}

	tests := []struct {
		name      string
		record    any
		wantLabel string
	}{
		{
			name: "case insensitive key",
			record: map[string]any{"payload": map[string]any{
				"GeoJSON": map[string]any{"type": "FeatureCollection", "features": []any{}},
			}},
			wantLabel: "Deep search: payload.GeoJSON",
		},
		{
			name: "keys visited in sorted order",
			record: map[string]any{
				"b": map[string]any{"location": point(3, 4)},
				"a": map[string]any{"wgs84": point(1, 2)},
			},
			wantLabel: "Deep search: a.wgs84",
		},
		{
			name: "arrays are traversed",
			record: map[string]any{"items": []any{
				"skip",
				map[string]any{"spatial": map[string]any{"coordinates": []any{1.0, 2.0}}},
			}},
			wantLabel: "Deep search: items[1].spatial",
		},
		{
			name: "spatial key without geometry shape is skipped",
			record: map[string]any{
				"location": "Aberdeen",
				"z":        map[string]any{"geometry": point(1, 2)},
			},
			wantLabel: "Deep search: z.geometry",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := loc.Locate(tt.record)
			if !ok {
				t.Fatal("expected a match")
			}
			if m.Label != tt.wantLabel {
				t.Errorf("label = %q, want %q", m.Label, tt.wantLabel)
			}
		})
	}
}

func TestLocateNothing(t *testing.T) {
	loc := Locator{Paths: DefaultPaths, MaxDepth: DefaultMaxDepth}

	for _, record := range []any{
		nil,
		"text",
		map[string]any{"id": "w-1", "data": map[string]any{"Name": "Well 1", "Depth": 1200.0}},
	} {
		if m, ok := loc.Locate(record); ok {
			t.Errorf("Locate(%v) matched %q", record, m.Label)
		}
	}
}

func TestNewPath(t *testing.T) {
	p := NewPath("data.Custom.Shape", "", []string{"meta.crs"})
	if p.Label != "data.Custom.Shape" || len(p.Keys) != 3 || strings.Join(p.CRS[0], ".") != "meta.crs" {
		t.Errorf("unexpected path %+v", p)
	}

	loc := Locator{Paths: []Path{p}}
	record := map[string]any{"data": map[string]any{"Custom": map[string]any{"Shape": map[string]any{
		"type":        "Point",
		"coordinates": []any{1.0, 2.0},
		"meta":        map[string]any{"crs": "EPSG:4326"},
	}}}}

	m, ok := loc.Locate(record)
	if !ok || m.Label != "data.Custom.Shape" || m.Hint != "EPSG:4326" {
		t.Errorf("unexpected match %+v ok=%v", m, ok)
	}
}
