package publish

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

// Manifest is the latest.json document clients poll to discover updates.
type Manifest struct {
	CatalogVersion int    `json:"catalogVersion"`
	PublishedAt    string `json:"publishedAt"`
	SongsURL       string `json:"songsUrl"`
	BaseMediaURL   string `json:"baseMediaUrl"`
}

// PublishedTime parses PublishedAt, returning zero when it is unset or malformed.
func (m Manifest) PublishedTime() time.Time {
	t, err := time.Parse(time.RFC3339, m.PublishedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}

// FormatTimestamp renders a manifest timestamp: UTC, whole seconds, "Z" suffix.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(time.RFC3339)
}

// ReadManifest loads a manifest from path. A missing file returns nil, nil.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	return &m, nil
}
