package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizePublish()
	c.normalizeCatalog()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.Input) == "" {
		c.Paths.Input = defaultInputPath
	}
	if c.Paths.Input, err = expandPath(strings.TrimSpace(c.Paths.Input)); err != nil {
		return fmt.Errorf("paths.input: %w", err)
	}
	if strings.TrimSpace(c.Paths.DistDir) == "" {
		c.Paths.DistDir = defaultDistDir
	}
	if c.Paths.DistDir, err = expandPath(c.Paths.DistDir); err != nil {
		return fmt.Errorf("paths.dist_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.DocsDir) == "" {
		c.Paths.DocsDir = defaultDocsDir
	}
	if c.Paths.DocsDir, err = expandPath(c.Paths.DocsDir); err != nil {
		return fmt.Errorf("paths.docs_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizePublish() {
	c.Publish.PagesBase = strings.TrimSpace(c.Publish.PagesBase)
	if c.Publish.PagesBase == "" {
		c.Publish.PagesBase = defaultPagesBase
	}
	c.Publish.SongsFile = strings.TrimSpace(c.Publish.SongsFile)
	if c.Publish.SongsFile == "" {
		c.Publish.SongsFile = defaultSongsFile
	}
	c.Publish.ManifestFile = strings.TrimSpace(c.Publish.ManifestFile)
	if c.Publish.ManifestFile == "" {
		c.Publish.ManifestFile = defaultManifestFile
	}
	c.Publish.IndexFile = strings.TrimSpace(c.Publish.IndexFile)
	if c.Publish.IndexFile == "" {
		c.Publish.IndexFile = defaultIndexFile
	}
	if value, ok := os.LookupEnv(strictVersioningEnv); ok {
		if parseFlag(value) {
			c.Publish.StrictVersioning = true
		}
	}
}

func (c *Config) normalizeCatalog() {
	c.Catalog.SongOrder = strings.ToLower(strings.TrimSpace(c.Catalog.SongOrder))
	if c.Catalog.SongOrder == "" {
		c.Catalog.SongOrder = defaultSongOrder
	}
	c.Catalog.DefaultLanguage = strings.TrimSpace(c.Catalog.DefaultLanguage)
	if c.Catalog.DefaultLanguage == "" {
		c.Catalog.DefaultLanguage = defaultLanguage
	}
	c.Catalog.DefaultRightsStatus = strings.TrimSpace(c.Catalog.DefaultRightsStatus)
	if c.Catalog.DefaultRightsStatus == "" {
		c.Catalog.DefaultRightsStatus = defaultRightsStatus
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNtfyTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func parseFlag(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
