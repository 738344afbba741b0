package spatial

import (
	"fmt"
	"strings"

	"github.com/Abhishekkumar2021/SynqX-sub006/internal/crs"
	"github.com/Abhishekkumar2021/SynqX-sub006/internal/geo"

	"github.com/rs/zerolog/log"
)

var shapeTypes = map[string]bool{
	"Polygon":         true,
	"MultiPolygon":    true,
	"LineString":      true,
	"MultiLineString": true,
}

// Result is the summary of the spatial data found in one record.
type Result struct {
	GeoJSON      geo.Object     `json:"geo_json" yaml:"geo_json"`
	Point        geo.Coordinate `json:"representative_point" yaml:"representative_point"`
	IsShape      bool           `json:"is_shape" yaml:"is_shape"`
	Source       string         `json:"source_label" yaml:"source_label"`
	GeometryType string         `json:"geometry_type_label" yaml:"geometry_type_label"`
	// NodeCount is approximate: trailing members such as elevation make it fractional.
	NodeCount float64        `json:"node_count" yaml:"node_count"`
	CRS       crs.Definition `json:"crs,omitempty" yaml:"crs,omitempty"`
	Warnings  []string       `json:"warnings" yaml:"warnings"`
}

// Options configure an Extractor. Zero values select the defaults.
type Options struct {
	// Paths replaces DefaultPaths when set.
	Paths []Path
	// ExtraPaths are tried after the priority paths.
	ExtraPaths []Path
	MaxDepth   int
	Registry   *crs.Registry
}

// Extractor runs extractions with a fixed configuration. It holds no mutable
// state and may be shared between goroutines.
type Extractor struct {
	locator  Locator
	registry *crs.Registry
}

// New builds an Extractor.
func New(opts Options) *Extractor {
	paths := opts.Paths
	if len(paths) == 0 {
		paths = DefaultPaths
	}
	all := make([]Path, 0, len(paths)+len(opts.ExtraPaths))
	all = append(all, paths...)
	all = append(all, opts.ExtraPaths...)

	depth := opts.MaxDepth
	if depth <= 0 {
		depth = DefaultMaxDepth
	}

	return &Extractor{
		locator:  Locator{Paths: all, MaxDepth: depth},
		registry: opts.Registry,
	}
}

var defaultExtractor = New(Options{})

// Extract runs an extraction with the default configuration.
func Extract(record any) (Result, bool) {
	return defaultExtractor.Extract(record)
}

// Extract locates the spatial block of a record, resolves its CRS,
// normalizes it to WGS84 and summarises it. It reports false when the record
// has no spatial data or when the normalized data cannot be trusted.
func (e *Extractor) Extract(record any) (Result, bool) {
	warnings := []string{}

	match, ok := e.locator.Locate(record)
	if !ok {
		log.Debug().Msg("No spatial data found in record")
		return Result{}, false
	}

	def, shape, resolved := crs.Resolve(match.Hint)
	if match.Hint != nil && !resolved {
		warnings = append(warnings, "CRS hint not recognised, assuming WGS84")
	}
	if resolved {
		log.Trace().
			Str("source", match.Label).
			Str("crs", def.Label()).
			Stringer("shape", shape).
			Msg("CRS resolved")
	}

	obj, err := blockObject(match.Block)
	if err != nil {
		log.Debug().Err(err).Str("source", match.Label).Msg("Spatial block is not GeoJSON")
		return Result{}, false
	}

	obj = Normalize(obj, def, e.registry, &warnings)
	geoms := geo.Geometries(obj)

	var first *geo.GeoJSONGeometry
	if len(geoms) > 0 {
		first = geoms[0]
	}
	p, ok := geo.FirstGeometryPair(first)
	if !ok || !geo.IsWGS84Plausible(p.Lon, p.Lat) {
		log.Debug().
			Str("source", match.Label).
			Bool("has_position", ok).
			Strs("warnings", warnings).
			Msg("Spatial data rejected after normalization")
		return Result{}, false
	}

	source := match.Label
	if !def.IsWGS84() {
		source = fmt.Sprintf("%s (Reprojected from %s)", source, def.Label())
	} else {
		def = ""
	}

	res := Result{
		GeoJSON:      obj,
		Point:        p.Coordinate(),
		IsShape:      isShape(geoms),
		Source:       source,
		GeometryType: geometryTypeLabel(geoms),
		NodeCount:    countNodes(geoms, &warnings),
		CRS:          def,
		Warnings:     warnings,
	}

	log.Debug().
		Str("source", res.Source).
		Str("geometry", res.GeometryType).
		Float64("nodes", res.NodeCount).
		Int("warnings", len(res.Warnings)).
		Msg("Spatial data extracted")

	return res, true
}

// blockObject decodes a located block. A bare coordinate array is accepted
// as a geometry whose type follows from its nesting depth.
func blockObject(block any) (geo.Object, error) {
	if _, ok := block.([]any); !ok {
		return geo.Decode(block)
	}

	node := geo.ParseNode(block)
	return &geo.GeoJSONGeometry{Type: typeForDepth(node), Coordinates: node}, nil
}

func typeForDepth(n geo.Node) string {
	depth := 0
	for {
		nested, ok := n.(geo.Nested)
		if !ok || len(nested) == 0 {
			break
		}
		depth++
		n = nested[0]
	}

	switch depth {
	case 0:
		return "Point"
	case 1:
		return "LineString"
	case 2:
		return "Polygon"
	}
	return "MultiPolygon"
}

func isShape(geoms []*geo.GeoJSONGeometry) bool {
	for _, g := range geoms {
		if g == nil {
			continue
		}
		if shapeTypes[g.Type] || isShape(g.Geometries) {
			return true
		}
	}
	return false
}

func geometryTypeLabel(geoms []*geo.GeoJSONGeometry) string {
	var types []string
	seen := make(map[string]bool)
	for _, g := range geoms {
		if g == nil || g.Type == "" || seen[g.Type] {
			continue
		}
		seen[g.Type] = true
		types = append(types, g.Type)
	}

	if len(types) == 0 {
		return "Unknown"
	}

	label := strings.Join(types, ", ")
	if len(geoms) > 1 {
		label = fmt.Sprintf("%s (%d features)", label, len(geoms))
	}
	return label
}

// countNodes sums positions over all features: a single pair counts once,
// anything deeper counts its flattened numbers halved.
func countNodes(geoms []*geo.GeoJSONGeometry, warnings *[]string) float64 {
	var total float64
	for i, g := range geoms {
		if g == nil {
			continue
		}
		if g.Geometries != nil {
			total += countNodes(g.Geometries, warnings)
		}

		switch c := g.Coordinates.(type) {
		case nil:
			if g.Geometries == nil {
				*warnings = append(*warnings, fmt.Sprintf("Feature %d has no coordinates, skipped in node count", i))
			}
		case geo.Pair:
			total++
		case geo.Nested:
			total += float64(geo.CountNumbers(c)) / 2
		default:
			*warnings = append(*warnings, fmt.Sprintf("Feature %d has malformed coordinates, skipped in node count", i))
		}
	}
	return total
}
