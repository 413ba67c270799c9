package stage

import (
	"errors"
	"fmt"
	"strings"

	"istoki/internal/catalog"
)

var (
	ErrConfiguration    = errors.New("configuration error")
	ErrVersionNotBumped = errors.New("catalog version not bumped")
	ErrLocked           = errors.New("output directory locked")
	ErrTransient        = errors.New("transient failure")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above or catalog.ErrValidation.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Status is the recorded outcome of one build.
type Status string

const (
	StatusPublished Status = "published"
	StatusUnchanged Status = "unchanged"
	StatusDryRun    Status = "dry_run"
	StatusRejected  Status = "rejected"
	StatusFailed    Status = "failed"
)

// FailureStatus maps a build error to the status recorded in history.
// Content problems the editor must fix are rejections; everything else is a
// failure.
func FailureStatus(err error) Status {
	switch {
	case errors.Is(err, catalog.ErrValidation), errors.Is(err, ErrVersionNotBumped):
		return StatusRejected
	default:
		return StatusFailed
	}
}

// Hint returns the operator hint for a classified error.
func Hint(err error) string {
	switch {
	case errors.Is(err, catalog.ErrValidation):
		return "fix the listed rows in the workbook and rebuild"
	case errors.Is(err, ErrVersionNotBumped):
		return "increase catalogVersion in the meta sheet"
	case errors.Is(err, ErrLocked):
		return "another publish is running; retry when it finishes"
	case errors.Is(err, ErrConfiguration):
		return "run istoki config validate"
	default:
		return "check logs for details"
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "stage failure"
	}
	return strings.Join(parts, ": ")
}
