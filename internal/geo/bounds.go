package geo

import (
	"github.com/paulmach/orb"
)

// shapeExtent is the minimum span, in degrees, on either axis for an extent
// to count as a shape rather than a single position.
const shapeExtent = 1e-4

// BoundingContext is the map viewport derived from a normalized GeoJSON object.
type BoundingContext struct {
	Center   Coordinate `json:"center" yaml:"center"`
	Bounds   [4]float64 `json:"bounds" yaml:"bounds"` // [minLon, minLat, maxLon, maxLat]
	HasShape bool       `json:"has_shape" yaml:"has_shape"`
}

// Bound returns the extent as an orb bound.
func (c BoundingContext) Bound() orb.Bound {
	return orb.Bound{
		Min: orb.Point{c.Bounds[0], c.Bounds[1]},
		Max: orb.Point{c.Bounds[2], c.Bounds[3]},
	}
}

// CalculateGeoContext computes the extent, center and shape flag of an already
// normalized object. Non-finite positions are skipped. It reports false when
// no usable position exists.
func CalculateGeoContext(obj Object) (BoundingContext, bool) {
	var (
		bound orb.Bound
		found bool
	)

	for _, g := range Geometries(obj) {
		WalkGeometry(g, func(p Pair) {
			if !isFinite(p.Lon) || !isFinite(p.Lat) {
				return
			}
			pt := orb.Point{p.Lon, p.Lat}
			if !found {
				bound = orb.Bound{Min: pt, Max: pt}
				found = true
				return
			}
			bound = bound.Extend(pt)
		})
	}

	if !found {
		return BoundingContext{}, false
	}

	center := bound.Center()
	return BoundingContext{
		Center:   Coordinate{Lon: center.Lon(), Lat: center.Lat()},
		Bounds:   [4]float64{bound.Left(), bound.Bottom(), bound.Right(), bound.Top()},
		HasShape: bound.Top()-bound.Bottom() > shapeExtent || bound.Right()-bound.Left() > shapeExtent,
	}, true
}
