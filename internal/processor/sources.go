package processor

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/Abhishekkumar2021/SynqX-sub006/internal/config"
	"github.com/Abhishekkumar2021/SynqX-sub006/internal/geo"
	"github.com/Abhishekkumar2021/SynqX-sub006/internal/spatial"

	"github.com/rs/zerolog/log"
)

// OutputFile is the name of the GeoJSON written for every source.
const OutputFile = "spatial.geojson"

// OutputPath returns where the collection of a source is stored.
func OutputPath(outDir, name string) string {
	return filepath.Join(outDir, name, OutputFile)
}

// ProcessSource loads the records of a source, extracts their spatial data
// and writes one GeoJSON feature collection for the whole source.
func ProcessSource(client *http.Client, ex *spatial.Extractor, src config.Source, outDir string, concurrency int, force bool) error {
	destDir := filepath.Join(outDir, src.Name)
	destFile := OutputPath(outDir, src.Name)

	// Check if file exists
	if _, err := os.Stat(destFile); err == nil {
		if !force {
			log.Debug().Str("source", src.Name).Msg("Output file exists, skipping")
			return nil
		}
	}

	log.Info().
		Str("source", src.Name).
		Str("path", src.Path).
		Msg("Processing records")

	records, err := LoadRecords(client, src.Path)
	if err != nil {
		return fmt.Errorf("load %s: %w", src.Path, err)
	}

	results := ExtractAll(ex, records, concurrency)
	fc := BuildCollection(records, results)

	log.Info().
		Str("source", src.Name).
		Int("records", len(records)).
		Int("features", len(fc.Features)).
		Msg("Extraction finished")

	return saveGeoJSON(destDir, destFile, fc)
}

// BuildCollection turns extraction results into one feature per usable
// record. The bbox covers all features.
func BuildCollection(records []any, results []*spatial.Result) geo.GeoJSONFeatureCollection {
	fc := geo.GeoJSONFeatureCollection{Type: geo.TypeFeatureCollection, Features: []geo.GeoJSONFeature{}}

	for i, res := range results {
		if res == nil {
			continue
		}

		geom := representativeGeometry(res.GeoJSON)
		if geom == nil {
			continue
		}

		var id any
		if i < len(records) {
			id, _ = geo.Lookup(records[i], "id")
		}

		props := map[string]interface{}{
			"source":        res.Source,
			"geometry_type": res.GeometryType,
			"node_count":    res.NodeCount,
			"is_shape":      res.IsShape,
		}
		if id != nil {
			props["id"] = id
		}
		if res.CRS != "" {
			props["crs"] = res.CRS.Label()
		}
		if len(res.Warnings) > 0 {
			props["warnings"] = res.Warnings
		}

		fc.Features = append(fc.Features, geo.GeoJSONFeature{
			ID:         id,
			Type:       geo.TypeFeature,
			Properties: props,
			Geometry:   geom,
		})
	}

	if ctx, ok := geo.CalculateGeoContext(&fc); ok {
		b := ctx.Bound()
		fc.BBox = []float64{b.Left(), b.Bottom(), b.Right(), b.Top()}
	}

	return fc
}

// representativeGeometry returns the single geometry of a result, or a
// geometry collection when the result holds several.
func representativeGeometry(obj geo.Object) *geo.GeoJSONGeometry {
	var geoms []*geo.GeoJSONGeometry
	for _, g := range geo.Geometries(obj) {
		if g != nil {
			geoms = append(geoms, g)
		}
	}

	switch len(geoms) {
	case 0:
		return nil
	case 1:
		return geoms[0]
	}
	return &geo.GeoJSONGeometry{Type: geo.TypeGeometryCollection, Geometries: geoms}
}

// saveGeoJSON marshals the feature collection and writes it to disk.
func saveGeoJSON(dir, path string, fc geo.GeoJSONFeatureCollection) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	// We care about write errors on close
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Error().Err(closeErr).Str("path", path).Msg("Failed to close file")
		}
	}()

	return json.NewEncoder(f).Encode(fc)
}
