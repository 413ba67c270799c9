// Package config loads, normalizes, and validates istoki configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, loads a project-local .env file, and honours
// environment fallbacks such as STRICT_VERSIONING. The Config type centralizes
// every knob the catalog build needs: where the source workbook lives, where
// artifacts are written, and how the published manifest is addressed.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
