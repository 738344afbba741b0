package crs

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/Abhishekkumar2021/SynqX-sub006/internal/geo"
)

// Shape identifies which descriptor layout a hint was resolved from.
type Shape int

// Recognised descriptor shapes, in resolution order.
const (
	ShapeNone Shape = iota
	ShapeWKT
	ShapeAuthority
	ShapeName
	ShapeString
	ShapeReference
)

var shapeNames = map[Shape]string{
	ShapeNone:      "none",
	ShapeWKT:       "wkt",
	ShapeAuthority: "authority",
	ShapeName:      "name",
	ShapeString:    "string",
	ShapeReference: "reference",
}

func (s Shape) String() string {
	if n, ok := shapeNames[s]; ok {
		return n
	}
	return "shape(" + strconv.Itoa(int(s)) + ")"
}

var (
	wktPaths = [][]string{
		{"wkt"},
		{"lateBoundCRS", "wkt"},
		{"singleCT", "wkt"},
		{"projectedCRS", "wkt"},
		{"geographicCRS", "wkt"},
	}

	authorityPaths = [][]string{
		{"authCode"},
		{"lateBoundCRS", "authCode"},
		{"projectedCRS", "authCode"},
		{"geographicCRS", "authCode"},
		{"authority"},
	}

	// EPSG::32631 inside OSDU reference ids and OGC URNs
	epsgReference = regexp.MustCompile(`(?i)(?:^|[:/])EPSG::?(\d+):?$`)
	crs84         = regexp.MustCompile(`(?i)(?:^|[:/])CRS:?84$`)
	digits        = regexp.MustCompile(`^\d+$`)
)

// objectShape parses one descriptor layout out of a CRS object.
type objectShape struct {
	shape Shape
	parse func(map[string]any) (Definition, bool)
}

var objectShapes = []objectShape{
	{ShapeWKT, parseWKT},
	{ShapeAuthority, parseAuthority},
	{ShapeName, parseName},
}

// Resolve turns a CRS hint found in a record into a Definition.
//
// The hint may be a descriptor object, a JSON string holding one, or a plain
// string. Layouts are tried in a fixed order and the first match wins. An
// unexpected layout is never an error; Resolve just reports false.
func Resolve(hint any) (Definition, Shape, bool) {
	if s, ok := hint.(string); ok {
		s = strings.TrimSpace(s)
		if s == "" {
			return "", ShapeNone, false
		}
		if strings.HasPrefix(s, "{") {
			var obj map[string]any
			if err := json.Unmarshal([]byte(s), &obj); err == nil {
				return resolveObject(obj)
			}
		}
		return resolveString(s)
	}

	if obj, ok := geo.AsMap(hint); ok {
		return resolveObject(obj)
	}

	return "", ShapeNone, false
}

func resolveObject(obj map[string]any) (Definition, Shape, bool) {
	for _, s := range objectShapes {
		if def, ok := s.parse(obj); ok {
			return def, s.shape, true
		}
	}
	return "", ShapeNone, false
}

func resolveString(s string) (Definition, Shape, bool) {
	if strings.HasPrefix(s, "PROJCS") || strings.HasPrefix(s, "GEOGCS") || strings.HasPrefix(s, "+proj=") {
		return Definition(s), ShapeString, true
	}
	if epsgPattern.MatchString(s) {
		return Definition(s), ShapeString, true
	}
	if def, ok := parseReference(s); ok {
		return def, ShapeReference, true
	}
	return "", ShapeNone, false
}

func parseWKT(obj map[string]any) (Definition, bool) {
	for _, path := range wktPaths {
		v, _ := geo.Lookup(obj, path...)
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			return Definition(s), true
		}
	}
	return "", false
}

func parseAuthority(obj map[string]any) (Definition, bool) {
	for _, path := range authorityPaths {
		v, _ := geo.Lookup(obj, path...)
		ac, ok := geo.AsMap(v)
		if !ok {
			continue
		}

		auth := firstString(ac, "auth", "authority", "name")
		if !strings.EqualFold(strings.TrimSpace(auth), "EPSG") {
			continue
		}
		if code, ok := codeString(ac["code"]); ok {
			return Definition("EPSG:" + code), true
		}
	}
	return "", false
}

func parseName(obj map[string]any) (Definition, bool) {
	name, ok := obj["name"].(string)
	if !ok {
		v, _ := geo.Lookup(obj, "properties", "name")
		name, ok = v.(string)
	}
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", false
	}

	switch {
	case epsgPattern.MatchString(name):
		return Definition(name), true
	case wgs84Name.MatchString(name):
		return WGS84, true
	}
	return parseReference(name)
}

func parseReference(s string) (Definition, bool) {
	if m := epsgReference.FindStringSubmatch(s); m != nil {
		return Definition("EPSG:" + m[1]), true
	}
	if crs84.MatchString(s) {
		return WGS84, true
	}
	return "", false
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok {
			return s
		}
	}
	return ""
}

// codeString accepts "32631" or 32631 and rejects anything non-integral.
func codeString(v any) (string, bool) {
	if s, ok := v.(string); ok {
		s = strings.TrimSpace(s)
		return s, digits.MatchString(s)
	}
	f, ok := geo.Number(v)
	if !ok || f < 0 || f != float64(int64(f)) {
		return "", false
	}
	return strconv.FormatInt(int64(f), 10), true
}
