// Package server handles HTTP requests and middleware.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/Abhishekkumar2021/SynqX-sub006/internal/geo"
	"github.com/Abhishekkumar2021/SynqX-sub006/internal/processor"
	"github.com/Abhishekkumar2021/SynqX-sub006/internal/spatial"

	"github.com/rs/zerolog/log"
)

const etagCap = 64

type errorResponse struct {
	Error string `json:"error"`
}

// HandleSourcesList serves the JSON list of configured sources.
func (s *ServerContext) HandleSourcesList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	writeJSON(w, http.StatusOK, s.Config.Sources)
}

// HandleExtract runs an extraction on the record in the request body.
// It answers 204 when the record has no usable spatial data.
func (s *ServerContext) HandleExtract(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var record any
	if err := decodeBody(w, r, &record); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	res, ok := s.Extractor.Extract(record)
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// HandleContext computes the bounding context of the GeoJSON in the request
// body. Positions are wrapped to WGS84 longitudes first.
func (s *ServerContext) HandleContext(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var body any
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	obj, err := geo.Decode(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	ctx, ok := geo.CalculateGeoContext(spatial.Normalize(obj, "", nil, nil))
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	writeJSON(w, http.StatusOK, ctx)
}

// HandleSourceFile serves the loader output of a source.
func (s *ServerContext) HandleSourceFile(w http.ResponseWriter, r *http.Request) {
	// Path: /sources/{name}/spatial.geojson
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")

	if len(parts) != 3 || parts[2] != processor.OutputFile {
		http.NotFound(w, r)
		return
	}

	name, ok := s.SourceResolver[parts[1]]
	if !ok {
		http.NotFound(w, r)
		return
	}

	if !s.serveFile(w, r, processor.OutputPath(s.OutputDir, name), "application/geo+json") {
		http.NotFound(w, r)
	}
}

// serveFile tries to serve a file from disk with ETag generation.
// It returns true if the file was found and served (or 304).
func (s *ServerContext) serveFile(w http.ResponseWriter, r *http.Request, path string, contentType string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	if info.IsDir() {
		return false
	}

	buf := make([]byte, 0, etagCap)
	buf = append(buf, '"')
	buf = strconv.AppendInt(buf, info.Size(), 16)
	buf = append(buf, '-')
	buf = strconv.AppendInt(buf, info.ModTime().UnixNano(), 16)
	buf = append(buf, '"')
	etag := string(buf)

	// check If-None-Match (client sent ETag)
	if match := r.Header.Get("If-None-Match"); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return true
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, no-cache")

	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}

	http.ServeFile(w, r, path)
	return true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("request body must hold a single JSON value")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Trace().Err(err).Msg("Failed to write response")
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func methodNotAllowed(w http.ResponseWriter, allow string) {
	w.Header().Set("Allow", allow)
	writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
}
