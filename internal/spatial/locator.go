// Package spatial extracts, reprojects and summarises the spatial part of
// loosely shaped subsurface-data records.
package spatial

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Abhishekkumar2021/SynqX-sub006/internal/geo"
)

// DefaultMaxDepth bounds the fallback deep search.
const DefaultMaxDepth = 5

// Path is a well-known location of spatial data inside a record, with the
// places to look for its CRS hint relative to the block.
type Path struct {
	Label string
	Keys  []string
	CRS   [][]string
}

var (
	wgs84Hint     = [][]string{{"persistableReferenceCrs"}}
	ingestedHint  = [][]string{{"persistableReferenceCrs"}, {"CoordinateReferenceSystemID"}}
	geoJSONHint   = [][]string{{"crs"}, {"persistableReferenceCrs"}}
	deepHintPaths = [][]string{{"persistableReferenceCrs"}, {"crs"}, {"CoordinateReferenceSystemID"}}
)

// DefaultPaths lists the schema locations tried before the deep search, in order.
var DefaultPaths = []Path{
	newPath("SpatialLocation.Wgs84Coordinates", wgs84Hint),
	newPath("SpatialArea.Wgs84Coordinates", wgs84Hint),
	newPath("SpatialPoint.Wgs84Coordinates", wgs84Hint),
	newPath("SpatialLocation.AsIngestedCoordinates", ingestedHint),
	newPath("SpatialArea.AsIngestedCoordinates", ingestedHint),
	newPath("SpatialPoint.AsIngestedCoordinates", ingestedHint),
	newPath("ProjectedBottomHoleLocation.Wgs84Coordinates", wgs84Hint),
	newPath("ProjectedBottomHoleLocation.AsIngestedCoordinates", ingestedHint),
	newPath("GeographicBottomHoleLocation.Wgs84Coordinates", wgs84Hint),
	newPath("GeographicBottomHoleLocation.AsIngestedCoordinates", ingestedHint),
	newPath("GeoLocation", geoJSONHint),
	newPath("Geometry", geoJSONHint),
}

// deep search keys, compared lower-cased
var spatialKeys = map[string]bool{
	"spatial":     true,
	"geometry":    true,
	"coordinates": true,
	"location":    true,
	"wgs84":       true,
	"geojson":     true,
}

func newPath(dotted string, hints [][]string) Path {
	return Path{Label: dotted, Keys: strings.Split(dotted, "."), CRS: hints}
}

// NewPath builds a priority path from a dotted key path and dotted CRS hint
// paths. An empty label defaults to the dotted path.
func NewPath(dotted, label string, crs []string) Path {
	p := Path{Label: label, Keys: strings.Split(dotted, ".")}
	if p.Label == "" {
		p.Label = dotted
	}
	for _, h := range crs {
		p.CRS = append(p.CRS, strings.Split(h, "."))
	}
	return p
}

// Match is the spatial block found in a record.
type Match struct {
	Block any
	Label string
	Hint  any
}

// Locator finds spatial blocks in records.
type Locator struct {
	Paths    []Path
	MaxDepth int
}

// Locate tries the priority paths, each under the record's "data" member
// first and then at the root, and falls back to a bounded deep search.
func (l Locator) Locate(record any) (Match, bool) {
	roots := []any{record}
	if data, ok := geo.Lookup(record, "data"); ok {
		if _, isMap := geo.AsMap(data); isMap {
			roots = []any{data, record}
		}
	}

	for _, p := range l.Paths {
		for _, root := range roots {
			block, ok := geo.Lookup(root, p.Keys...)
			if !ok || !isContainer(block) {
				continue
			}
			return Match{Block: block, Label: p.Label, Hint: firstHint(block, p.CRS)}, true
		}
	}

	depth := l.MaxDepth
	if depth <= 0 {
		depth = DefaultMaxDepth
	}
	return deepSearch(record, "", 0, depth)
}

func deepSearch(v any, path string, depth, maxDepth int) (Match, bool) {
	if depth > maxDepth {
		return Match{}, false
	}

	if m, ok := geo.AsMap(v); ok {
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			child := m[k]
			childPath := k
			if path != "" {
				childPath = path + "." + k
			}

			if spatialKeys[strings.ToLower(k)] && looksLikeGeometry(child) {
				return Match{Block: child, Label: "Deep search: " + childPath, Hint: firstHint(child, deepHintPaths)}, true
			}
			if match, ok := deepSearch(child, childPath, depth+1, maxDepth); ok {
				return match, true
			}
		}
		return Match{}, false
	}

	if s, ok := v.([]any); ok {
		for i, e := range s {
			if match, ok := deepSearch(e, fmt.Sprintf("%s[%d]", path, i), depth+1, maxDepth); ok {
				return match, true
			}
		}
	}
	return Match{}, false
}

func looksLikeGeometry(v any) bool {
	m, ok := geo.AsMap(v)
	if !ok {
		return false
	}
	for _, k := range []string{"coordinates", "features", "type"} {
		if _, ok := m[k]; ok {
			return true
		}
	}
	return false
}

func isContainer(v any) bool {
	if _, ok := geo.AsMap(v); ok {
		return true
	}
	_, ok := v.([]any)
	return ok
}

func firstHint(block any, paths [][]string) any {
	for _, p := range paths {
		h, ok := geo.Lookup(block, p...)
		if !ok || h == nil {
			continue
		}
		if s, isString := h.(string); isString && strings.TrimSpace(s) == "" {
			continue
		}
		return h
	}
	return nil
}
