package crs

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	projWGS84    = "+proj=longlat +datum=WGS84 +no_defs"
	projNAD83    = "+proj=longlat +ellps=GRS80 +towgs84=0,0,0,0,0,0,0 +no_defs"
	projMercator = "+proj=merc +a=6378137 +b=6378137 +lat_ts=0 +lon_0=0 +x_0=0 +y_0=0 +k=1 +units=m +no_defs"
)

// Registry maps EPSG codes to proj strings. It only knows WGS84, a few
// geographic/web systems and the WGS84 UTM zones, whose definitions follow
// from the code itself; everything else must be supplied by the caller.
//
// A Registry is read-only after construction and safe for concurrent use.
type Registry struct {
	extra map[int]string
}

// NewRegistry builds a registry extended with operator-supplied definitions,
// keyed "EPSG:<code>" or "<code>". Supplied definitions take precedence.
func NewRegistry(extra map[string]string) (*Registry, error) {
	r := &Registry{extra: make(map[int]string, len(extra))}
	for key, def := range extra {
		k := strings.TrimSpace(key)
		if code, ok := Definition(k).EPSGCode(); ok {
			k = strconv.Itoa(code)
		}
		code, err := strconv.Atoi(k)
		if err != nil || code <= 0 {
			return nil, fmt.Errorf("invalid CRS key %q: expected EPSG:<code>", key)
		}
		if strings.TrimSpace(def) == "" {
			return nil, fmt.Errorf("empty definition for CRS %q", key)
		}
		r.extra[code] = strings.TrimSpace(def)
	}
	return r, nil
}

// Lookup returns the proj string for an EPSG code.
func (r *Registry) Lookup(code int) (string, bool) {
	if r != nil {
		if def, ok := r.extra[code]; ok {
			return def, true
		}
	}

	switch {
	case code == 4326:
		return projWGS84, true
	case code == 4269:
		return projNAD83, true
	case code == 3857 || code == 900913 || code == 3785:
		return projMercator, true
	case code > 32600 && code <= 32660:
		return fmt.Sprintf("+proj=utm +zone=%d +datum=WGS84 +units=m +no_defs", code-32600), true
	case code > 32700 && code <= 32760:
		return fmt.Sprintf("+proj=utm +zone=%d +south +datum=WGS84 +units=m +no_defs", code-32700), true
	}
	return "", false
}

// Len returns the number of operator-supplied definitions.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.extra)
}
