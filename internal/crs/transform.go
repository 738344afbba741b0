package crs

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"

	"github.com/ctessum/geom/proj"
)

// ErrUnknownCRS is returned for EPSG codes the registry cannot define.
var ErrUnknownCRS = errors.New("unknown CRS")

var wktAuthority = regexp.MustCompile(`AUTHORITY\[\s*"EPSG"\s*,\s*"?(\d+)"?\s*\]`)

// Transformer converts a source position into WGS84 longitude/latitude.
type Transformer func(x, y float64) (lon, lat float64, err error)

// NewTransformer compiles def into a transformation to WGS84. WKT the
// projection library cannot handle falls back to its root EPSG authority.
func (r *Registry) NewTransformer(def Definition) (Transformer, error) {
	var (
		ct  proj.Transformer
		err error
	)

	if code, ok := def.EPSGCode(); ok {
		s, ok := r.Lookup(code)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownCRS, def)
		}
		ct, err = compile(s)
	} else {
		ct, err = compile(string(def))
		if err != nil && def.IsWKT() {
			if code, ok := rootAuthority(def); ok {
				if s, ok := r.Lookup(code); ok {
					ct, err = compile(s)
				}
			}
		}
	}
	if err != nil {
		return nil, fmt.Errorf("CRS %s: %w", def.Label(), err)
	}

	return func(x, y float64) (lon, lat float64, err error) {
		defer func() {
			if rec := recover(); rec != nil {
				err = fmt.Errorf("transform of (%g, %g) failed: %v", x, y, rec)
			}
		}()

		lon, lat, err = ct(x, y)
		if err != nil {
			return 0, 0, err
		}
		if math.IsNaN(lon) || math.IsNaN(lat) || math.IsInf(lon, 0) || math.IsInf(lat, 0) {
			return 0, 0, fmt.Errorf("transform of (%g, %g) produced a non-finite result", x, y)
		}
		return lon, lat, nil
	}, nil
}

// compile parses a WKT or proj string and builds the transformation to WGS84.
func compile(def string) (ct proj.Transformer, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			ct, err = nil, fmt.Errorf("invalid projection definition: %v", rec)
		}
	}()

	src, err := proj.Parse(def)
	if err != nil {
		return nil, err
	}
	dst, err := proj.Parse(projWGS84)
	if err != nil {
		return nil, fmt.Errorf("parse WGS84: %w", err)
	}
	return src.NewTransform(dst)
}

// rootAuthority returns the EPSG code of the outermost WKT element, which
// WKT1 writes last.
func rootAuthority(def Definition) (int, bool) {
	m := wktAuthority.FindAllStringSubmatch(string(def), -1)
	if len(m) == 0 {
		return 0, false
	}
	code, err := strconv.Atoi(m[len(m)-1][1])
	return code, err == nil
}
