package stage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"istoki/internal/logging"
)

// Func is one unit of pipeline work.
type Func func(context.Context) error

// Run executes fn as the named stage. The context passed to fn carries the
// stage name so component loggers derived from it are tagged.
func Run(ctx context.Context, logger *slog.Logger, name string, fn Func) error {
	if fn == nil {
		return fmt.Errorf("stage handler unavailable: %s", name)
	}
	stageCtx := logging.WithStage(ctx, name)
	stageLogger := logging.WithContext(stageCtx, logger)

	started := time.Now()
	stageLogger.Debug("stage started", logging.String(logging.FieldEventType, "stage_start"))

	if err := fn(stageCtx); err != nil {
		status := FailureStatus(err)
		logging.ErrorWithContext(stageLogger, "stage failed", "stage_failure",
			logging.String("resolved_status", string(status)),
			logging.String(logging.FieldErrorHint, Hint(err)),
			logging.Error(err),
		)
		return err
	}

	stageLogger.Debug("stage completed",
		logging.String(logging.FieldEventType, "stage_complete"),
		logging.String("duration", time.Since(started).Round(time.Millisecond).String()),
	)
	return nil
}
