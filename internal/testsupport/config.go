package testsupport

import (
	"path/filepath"
	"testing"

	"istoki/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Input points at <base>/input/istoki.xlsx, which the caller is expected to
// create (see WriteXLSX).
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.Input = filepath.Join(base, "input", "istoki.xlsx")
	cfgVal.Paths.DistDir = filepath.Join(base, "dist")
	cfgVal.Paths.DocsDir = filepath.Join(base, "docs")
	cfgVal.Paths.StateDir = filepath.Join(base, "state")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return builder.cfg
}

// WithStrictVersioning enables the catalogVersion bump gate.
func WithStrictVersioning() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Publish.StrictVersioning = true
	}
}

// WithSongOrder overrides the song ordering mode.
func WithSongOrder(order string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Catalog.SongOrder = order
	}
}

// WithoutHistory disables the publish history database.
func WithoutHistory() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Publish.History = false
	}
}
