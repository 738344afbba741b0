// Package processor handles the loading and batch processing of record sources.
package processor

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
)

// ErrNoRecords is returned when an input holds no JSON value at all.
var ErrNoRecords = errors.New("no records in input")

// LoadRecords reads the records of a source, either a local file or an
// http(s) URL.
func LoadRecords(client *http.Client, source string) ([]any, error) {
	var (
		data []byte
		err  error
	)

	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		log.Info().Str("url", source).Msg("Downloading records...")
		data, err = download(client, source)
	} else {
		data, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, err
	}

	return DecodeRecords(data)
}

func download(client *http.Client, url string) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Get(url)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download failed: %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// DecodeRecords accepts a single record, an array of records, a search
// response envelope ({"results": [...]}) or newline-delimited records.
func DecodeRecords(data []byte) ([]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	var values []any
	for {
		var v any
		err := dec.Decode(&v)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", len(values), err)
		}
		values = append(values, v)
	}

	switch len(values) {
	case 0:
		return nil, ErrNoRecords
	case 1:
		return unwrap(values[0]), nil
	}
	return values, nil
}

func unwrap(v any) []any {
	switch t := v.(type) {
	case []any:
		return t
	case map[string]any:
		if results, ok := t["results"].([]any); ok {
			return results
		}
	}
	return []any{v}
}
