// Package geo handles geographic data structures and coordinate conversions.
package geo

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// GeoJSON type members.
const (
	TypeFeatureCollection  = "FeatureCollection"
	TypeFeature            = "Feature"
	TypeGeometryCollection = "GeometryCollection"
)

// ErrNotGeoJSON is returned when a value has none of the GeoJSON object shapes.
var ErrNotGeoJSON = errors.New("not a GeoJSON object")

// anyCrsToken marks "coordinates in any CRS" types in some subsurface schemas
// (AnyCrsPoint, PointAnyCrs, AnyCrsFeatureCollection).
var anyCrsToken = regexp.MustCompile(`(?i)anycrs`)

// Object is a GeoJSON value: a feature collection, a feature or a bare geometry.
type Object interface {
	GeoType() string
}

// GeoJSONFeatureCollection represents a collection of geographic features.
// It follows the standard GeoJSON structure.
type GeoJSONFeatureCollection struct {
	Type     string           `json:"type" yaml:"type"`
	Features []GeoJSONFeature `json:"features" yaml:"features"`
	BBox     []float64        `json:"bbox,omitempty" yaml:"bbox,omitempty"`
}

// GeoJSONFeature represents a single geographic feature with geometry and properties.
type GeoJSONFeature struct {
	ID         any                    `json:"id,omitempty" yaml:"id,omitempty"`
	Properties map[string]interface{} `json:"properties" yaml:"properties"`
	Type       string                 `json:"type" yaml:"type"`
	Geometry   *GeoJSONGeometry       `json:"geometry" yaml:"geometry"`
}

// GeoJSONGeometry represents the geometry of a feature (Point, Polygon, etc.).
// Coordinates keep whatever nesting the source had; Geometries is only set
// for geometry collections.
type GeoJSONGeometry struct {
	Type        string             `json:"type" yaml:"type"`
	Coordinates Node               `json:"coordinates,omitempty" yaml:"coordinates,omitempty"`
	Geometries  []*GeoJSONGeometry `json:"geometries,omitempty" yaml:"geometries,omitempty"`
}

// GeoType implements Object.
func (fc *GeoJSONFeatureCollection) GeoType() string { return fc.Type }

// GeoType implements Object.
func (f *GeoJSONFeature) GeoType() string { return f.Type }

// GeoType implements Object.
func (g *GeoJSONGeometry) GeoType() string { return g.Type }

// SanitizeType strips the "any CRS" marker from a type name.
func SanitizeType(t string) string {
	return strings.TrimSpace(anyCrsToken.ReplaceAllString(t, ""))
}

// Unmarshal decodes GeoJSON text into a fresh Object.
func Unmarshal(data []byte) (Object, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return Decode(v)
}

// Decode builds an Object from a loosely typed value such as a decoded JSON
// record. Only the top level has to be recognisable; inner surprises degrade
// to empty geometries instead of failing.
func Decode(v any) (Object, error) {
	m, ok := AsMap(v)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrNotGeoJSON, v)
	}

	typ, _ := m["type"].(string)
	switch clean := SanitizeType(typ); {
	case strings.EqualFold(clean, TypeFeatureCollection), hasKey(m, "features"):
		raw, ok := AsSlice(m["features"])
		if !ok {
			return nil, fmt.Errorf("%w: features is %T, not an array", ErrNotGeoJSON, m["features"])
		}
		fc := &GeoJSONFeatureCollection{Type: typ, Features: make([]GeoJSONFeature, 0, len(raw))}
		if fc.Type == "" {
			fc.Type = TypeFeatureCollection
		}
		for _, item := range raw {
			fc.Features = append(fc.Features, decodeFeature(item))
		}
		return fc, nil

	case strings.EqualFold(clean, TypeFeature), hasKey(m, "geometry"):
		f := decodeFeature(m)
		return &f, nil

	case hasKey(m, "coordinates"), hasKey(m, "geometries"):
		return decodeGeometry(m), nil
	}

	return nil, fmt.Errorf("%w: no features, geometry or coordinates member", ErrNotGeoJSON)
}

func decodeFeature(v any) GeoJSONFeature {
	f := GeoJSONFeature{Type: TypeFeature}
	m, ok := AsMap(v)
	if !ok {
		return f
	}

	if t, ok := m["type"].(string); ok && t != "" {
		f.Type = t
	}
	if id, ok := m["id"]; ok {
		f.ID = Clone(id)
	}
	if props, ok := AsMap(m["properties"]); ok {
		f.Properties = Clone(props).(map[string]any)
	}
	if g, ok := AsMap(m["geometry"]); ok {
		f.Geometry = decodeGeometry(g)
	}
	return f
}

func decodeGeometry(m map[string]any) *GeoJSONGeometry {
	g := &GeoJSONGeometry{}
	g.Type, _ = m["type"].(string)

	if c, ok := m["coordinates"]; ok && c != nil {
		g.Coordinates = ParseNode(c)
	}

	if members, ok := AsSlice(m["geometries"]); ok {
		g.Geometries = make([]*GeoJSONGeometry, 0, len(members))
		for _, member := range members {
			if mm, ok := AsMap(member); ok {
				g.Geometries = append(g.Geometries, decodeGeometry(mm))
			}
		}
	}

	return g
}

func hasKey(m map[string]any, k string) bool {
	_, ok := m[k]
	return ok
}

// Geometries returns one geometry per feature of obj: every feature of a
// collection, the geometry of a single feature, or a bare geometry itself.
// Entries are nil for features without geometry.
func Geometries(obj Object) []*GeoJSONGeometry {
	switch t := obj.(type) {
	case *GeoJSONFeatureCollection:
		if t == nil {
			return nil
		}
		out := make([]*GeoJSONGeometry, len(t.Features))
		for i := range t.Features {
			out[i] = t.Features[i].Geometry
		}
		return out
	case *GeoJSONFeature:
		if t == nil {
			return nil
		}
		return []*GeoJSONGeometry{t.Geometry}
	case *GeoJSONGeometry:
		if t == nil {
			return nil
		}
		return []*GeoJSONGeometry{t}
	}
	return nil
}

// WalkGeometry calls fn for every leaf pair of g, collection members included.
func WalkGeometry(g *GeoJSONGeometry, fn func(Pair)) {
	if g == nil {
		return
	}
	WalkPairs(g.Coordinates, fn)
	for _, member := range g.Geometries {
		WalkGeometry(member, fn)
	}
}

// FirstGeometryPair returns the first leaf pair of g, collection members included.
func FirstGeometryPair(g *GeoJSONGeometry) (Pair, bool) {
	if g == nil {
		return Pair{}, false
	}
	if p, ok := FirstPair(g.Coordinates); ok {
		return p, true
	}
	for _, member := range g.Geometries {
		if p, ok := FirstGeometryPair(member); ok {
			return p, true
		}
	}
	return Pair{}, false
}
