package spatial

import (
	"fmt"
	"math"

	"github.com/Abhishekkumar2021/SynqX-sub006/internal/crs"
	"github.com/Abhishekkumar2021/SynqX-sub006/internal/geo"
)

// normalizer carries the per-call state of one normalization pass.
type normalizer struct {
	def       crs.Definition
	registry  *crs.Registry
	reproject bool
	transform crs.Transformer
	failed    bool
	warnings  *[]string
}

// Normalize returns a copy of obj with every position reprojected from def to
// WGS84 (unless def already is WGS84) and its longitude wrapped, and with the
// "any CRS" marker stripped from type names.
//
// Problems are appended to warnings and never abort the pass: non-finite
// positions become (0, 0), and after the first failed reprojection the
// remaining positions keep their source values. If the pass breaks down
// entirely obj is returned as is.
func Normalize(obj geo.Object, def crs.Definition, registry *crs.Registry, warnings *[]string) (out geo.Object) {
	if warnings == nil {
		warnings = new([]string)
	}

	n := &normalizer{
		def:       def,
		registry:  registry,
		reproject: !def.IsWGS84(),
		warnings:  warnings,
	}

	defer func() {
		if rec := recover(); rec != nil {
			n.warn("Normalization aborted, returning source geometry: %v", rec)
			out = obj
		}
	}()

	return n.object(obj)
}

func (n *normalizer) warn(format string, args ...any) {
	*n.warnings = append(*n.warnings, fmt.Sprintf(format, args...))
}

func (n *normalizer) object(obj geo.Object) geo.Object {
	switch t := obj.(type) {
	case *geo.GeoJSONFeatureCollection:
		if t == nil {
			return obj
		}
		fc := &geo.GeoJSONFeatureCollection{
			Type:     geo.SanitizeType(t.Type),
			Features: make([]geo.GeoJSONFeature, len(t.Features)),
		}
		for i := range t.Features {
			fc.Features[i] = n.feature(t.Features[i])
		}
		return fc

	case *geo.GeoJSONFeature:
		if t == nil {
			return obj
		}
		f := n.feature(*t)
		return &f

	case *geo.GeoJSONGeometry:
		if t == nil {
			return obj
		}
		return n.geometry(t)
	}

	n.warn("Unsupported GeoJSON object %T left untouched", obj)
	return obj
}

func (n *normalizer) feature(f geo.GeoJSONFeature) geo.GeoJSONFeature {
	out := geo.GeoJSONFeature{
		ID:       geo.Clone(f.ID),
		Type:     geo.SanitizeType(f.Type),
		Geometry: n.geometry(f.Geometry),
	}
	if f.Properties != nil {
		out.Properties = geo.Clone(f.Properties).(map[string]any)
	}
	return out
}

func (n *normalizer) geometry(g *geo.GeoJSONGeometry) *geo.GeoJSONGeometry {
	if g == nil {
		return nil
	}

	out := &geo.GeoJSONGeometry{Type: geo.SanitizeType(g.Type)}
	if g.Coordinates != nil {
		out.Coordinates = n.node(g.Coordinates)
	}
	if g.Geometries != nil {
		out.Geometries = make([]*geo.GeoJSONGeometry, len(g.Geometries))
		for i, member := range g.Geometries {
			out.Geometries[i] = n.geometry(member)
		}
	}
	return out
}

func (n *normalizer) node(node geo.Node) geo.Node {
	switch t := node.(type) {
	case geo.Pair:
		return n.pair(t)
	case geo.Nested:
		out := make(geo.Nested, len(t))
		for i, c := range t {
			out[i] = n.node(c)
		}
		return out
	case geo.Raw:
		return geo.Raw{Value: geo.Clone(t.Value)}
	}
	return node
}

func (n *normalizer) pair(p geo.Pair) geo.Pair {
	var rest []any
	if p.Rest != nil {
		rest = geo.Clone(p.Rest).([]any)
	}

	if !finite(p.Lon) || !finite(p.Lat) {
		n.warn("Invalid coordinate (%v, %v) replaced with (0, 0)", p.Lon, p.Lat)
		return geo.Pair{Lon: 0, Lat: 0, Rest: rest}
	}

	lon, lat := p.Lon, p.Lat
	if n.reproject && !n.failed {
		x, y, err := n.project(lon, lat)
		if err != nil {
			n.failed = true
			n.warn("Reprojection from %s failed, keeping source coordinates: %v", n.def.Label(), err)
		} else {
			lon, lat = x, y
		}
	}

	return geo.Pair{Lon: geo.NormalizeLongitude(lon), Lat: lat, Rest: rest}
}

func (n *normalizer) project(x, y float64) (float64, float64, error) {
	if n.transform == nil {
		t, err := n.registry.NewTransformer(n.def)
		if err != nil {
			return 0, 0, err
		}
		n.transform = t
	}
	return n.transform(x, y)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
