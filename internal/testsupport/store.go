package testsupport

import (
	"testing"

	"istoki/internal/config"
	"istoki/internal/history"
)

// MustOpenStore opens the history store for cfg and closes it on cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *history.Store {
	t.Helper()
	store, err := history.Open(cfg)
	if err != nil {
		t.Fatalf("open history store: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
