package publish

import (
	"bytes"
	"encoding/json"
	"fmt"

	"istoki/internal/catalog"
)

const jsonIndent = "  "

// encodeJSON renders v with two-space indentation, without HTML escaping and
// without a trailing newline.
func encodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", jsonIndent)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// RenderSongs renders the songs.json document.
func RenderSongs(songs []catalog.Song) ([]byte, error) {
	if songs == nil {
		songs = []catalog.Song{}
	}
	data, err := encodeJSON(songs)
	if err != nil {
		return nil, fmt.Errorf("render songs: %w", err)
	}
	return data, nil
}

// RenderManifest renders the latest.json document.
func RenderManifest(m Manifest) ([]byte, error) {
	data, err := encodeJSON(m)
	if err != nil {
		return nil, fmt.Errorf("render manifest: %w", err)
	}
	return data, nil
}

// canonicalJSON re-encodes a JSON document so formatting, key order and line
// endings do not affect comparisons.
func canonicalJSON(data []byte) ([]byte, error) {
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, err
	}
	return encodeJSON(value)
}
