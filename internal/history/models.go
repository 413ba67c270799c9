package history

import (
	"time"

	"istoki/internal/stage"
)

// Entry is one recorded build.
type Entry struct {
	ID             int64
	BuildID        string
	Status         stage.Status
	InputPath      string
	CatalogVersion int
	SongCount      int
	WarningCount   int
	FailureCount   int
	SongsSHA256    string
	BaseMediaURL   string
	// PublishedAt is the manifest timestamp; zero when nothing was published.
	PublishedAt time.Time
	StartedAt   time.Time
	FinishedAt  time.Time
	Message     string
}

// Duration returns how long the build ran.
func (e Entry) Duration() time.Duration {
	if e.StartedAt.IsZero() || e.FinishedAt.IsZero() {
		return 0
	}
	return e.FinishedAt.Sub(e.StartedAt)
}
