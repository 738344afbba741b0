// Package crs resolves coordinate reference system hints and builds
// transformations into WGS84.
package crs

import (
	"regexp"
	"strconv"
	"strings"
)

// WGS84 is the canonical geographic system every output is expressed in.
const WGS84 Definition = "EPSG:4326"

// labelLimit caps provenance labels built from definitions without a name.
const labelLimit = 48

var (
	epsgPattern  = regexp.MustCompile(`(?i)^EPSG:(\d+)$`)
	wktRootName  = regexp.MustCompile(`^\s*(PROJCS|GEOGCS)\[\s*"([^"]*)"`)
	wgs84Name    = regexp.MustCompile(`(?i)^\s*(GCS[ _])?WGS[ _-]?(19)?84\s*$`)
	projLongLat  = regexp.MustCompile(`\+proj=(longlat|latlong|lonlat|latlon)\b`)
	projDatumWGS = regexp.MustCompile(`(?i)\+(datum|ellps)=WGS84\b`)
)

// Definition is a CRS usable by the transformer: an "EPSG:<code>" identifier,
// a WKT string or a proj string.
type Definition string

// EPSGCode returns the numeric code of an "EPSG:<code>" definition.
func (d Definition) EPSGCode() (int, bool) {
	m := epsgPattern.FindStringSubmatch(strings.TrimSpace(string(d)))
	if m == nil {
		return 0, false
	}
	code, err := strconv.Atoi(m[1])
	return code, err == nil
}

// IsWKT reports whether d is a WKT1 projected or geographic definition.
func (d Definition) IsWKT() bool {
	s := strings.TrimSpace(string(d))
	return strings.HasPrefix(s, "PROJCS") || strings.HasPrefix(s, "GEOGCS")
}

// IsProj reports whether d is a proj string.
func (d Definition) IsProj() bool {
	return strings.HasPrefix(strings.TrimSpace(string(d)), "+proj=")
}

// IsWGS84 reports whether coordinates in d are already WGS84 longitude/latitude.
// An empty definition means nothing was resolved and counts as WGS84.
func (d Definition) IsWGS84() bool {
	switch {
	case strings.TrimSpace(string(d)) == "":
		return true
	case d.IsWKT():
		m := wktRootName.FindStringSubmatch(string(d))
		return m != nil && m[1] == "GEOGCS" && wgs84Name.MatchString(m[2])
	case d.IsProj():
		s := string(d)
		return projLongLat.MatchString(s) && projDatumWGS.MatchString(s) && !strings.Contains(s, "+towgs84=")
	}

	code, ok := d.EPSGCode()
	return ok && code == 4326
}

// Label returns a short human readable name for provenance strings.
func (d Definition) Label() string {
	s := strings.TrimSpace(string(d))
	if m := wktRootName.FindStringSubmatch(s); m != nil && m[2] != "" {
		return m[2]
	}
	if len(s) > labelLimit {
		return s[:labelLimit] + "..."
	}
	return s
}
