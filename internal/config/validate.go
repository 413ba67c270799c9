package config

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validatePublish(); err != nil {
		return err
	}
	if err := c.validateCatalog(); err != nil {
		return err
	}
	return c.validateNotifications()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.Input) == "" {
		return errors.New("paths.input must be set")
	}
	if c.Paths.DistDir == c.Paths.DocsDir {
		return errors.New("paths.dist_dir and paths.docs_dir must differ")
	}
	return nil
}

func (c *Config) validatePublish() error {
	parsed, err := url.Parse(c.Publish.PagesBase)
	if err != nil {
		return fmt.Errorf("publish.pages_base: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("publish.pages_base must be an http(s) URL, got %q", c.Publish.PagesBase)
	}
	for key, name := range map[string]string{
		"publish.songs_file":    c.Publish.SongsFile,
		"publish.manifest_file": c.Publish.ManifestFile,
		"publish.index_file":    c.Publish.IndexFile,
	} {
		if filepath.Base(name) != name {
			return fmt.Errorf("%s must be a plain file name, got %q", key, name)
		}
	}
	if c.Publish.SongsFile == c.Publish.ManifestFile {
		return errors.New("publish.songs_file and publish.manifest_file must differ")
	}
	return nil
}

func (c *Config) validateCatalog() error {
	switch c.Catalog.SongOrder {
	case SongOrderSource, SongOrderID:
		return nil
	default:
		return fmt.Errorf("catalog.song_order must be %q or %q, got %q", SongOrderSource, SongOrderID, c.Catalog.SongOrder)
	}
}

func (c *Config) validateNotifications() error {
	if c.Notifications.NtfyTopic == "" {
		return nil
	}
	parsed, err := url.Parse(c.Notifications.NtfyTopic)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return fmt.Errorf("notifications.ntfy_topic must be a full topic URL, got %q", c.Notifications.NtfyTopic)
	}
	return nil
}
