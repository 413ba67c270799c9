package pipeline

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"istoki/internal/catalog"
	"istoki/internal/config"
	"istoki/internal/history"
	"istoki/internal/logging"
	"istoki/internal/notifications"
	"istoki/internal/publish"
	"istoki/internal/stage"
	"istoki/internal/workbook"
)

// Stage names, in execution order.
const (
	StageLoad     = "load"
	StageValidate = "validate"
	StagePublish  = "publish"
	StageRecord   = "record"
)

// Recorder persists build outcomes. *history.Store satisfies it.
type Recorder interface {
	Record(ctx context.Context, entry history.Entry) (*history.Entry, error)
}

// Notifier announces build outcomes. notifications.Service satisfies it.
type Notifier interface {
	Publish(ctx context.Context, event notifications.Event, payload notifications.Payload) error
}

// Options adjust a single run.
type Options struct {
	// Input overrides cfg.Paths.Input when set.
	Input string
	// Strict forces the catalogVersion bump gate on.
	Strict bool
	DryRun bool
}

// Summary describes a finished run.
type Summary struct {
	BuildID string
	Input   string
	Status  stage.Status
	// FailedStage names the stage that returned the run's error.
	FailedStage string
	Catalog     *catalog.Catalog
	Warnings    []catalog.Warning
	// Publish is nil for validate-only runs.
	Publish *publish.Result
}

// Runner executes pipeline runs for one configuration.
type Runner struct {
	cfg      *config.Config
	logger   *slog.Logger
	recorder Recorder
	notifier Notifier
	clock    func() time.Time
	newID    func() string
}

// Option customizes a Runner.
type Option func(*Runner)

// WithRecorder stores build outcomes in rec.
func WithRecorder(rec Recorder) Option {
	return func(r *Runner) { r.recorder = rec }
}

// WithNotifier announces published, rejected and failed builds via n.
func WithNotifier(n Notifier) Option {
	return func(r *Runner) { r.notifier = n }
}

// WithClock overrides the time source used for timestamps.
func WithClock(clock func() time.Time) Option {
	return func(r *Runner) {
		if clock != nil {
			r.clock = clock
		}
	}
}

// WithIDGenerator overrides build id generation.
func WithIDGenerator(fn func() string) Option {
	return func(r *Runner) {
		if fn != nil {
			r.newID = fn
		}
	}
}

// New constructs a Runner.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	r := &Runner{
		cfg:    cfg,
		logger: logger,
		clock:  time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Validate loads and checks the workbook without publishing.
func (r *Runner) Validate(ctx context.Context, opts Options) (*Summary, error) {
	summary, ctx := r.begin(ctx, opts)
	if err := r.assemble(ctx, summary); err != nil {
		return summary, err
	}
	return summary, nil
}

// Build runs the full pipeline and records the outcome.
func (r *Runner) Build(ctx context.Context, opts Options) (*Summary, error) {
	summary, ctx := r.begin(ctx, opts)
	started := r.clock()

	err := r.assemble(ctx, summary)
	if err == nil {
		err = r.runStage(ctx, summary, StagePublish, func(ctx context.Context) error {
			pubOpts := publish.OptionsFromConfig(r.cfg)
			pubOpts.StrictVersioning = pubOpts.StrictVersioning || opts.Strict
			pubOpts.DryRun = opts.DryRun
			pubOpts.Clock = r.clock
			pubOpts.Logger = r.logger
			result, err := publish.New(pubOpts).Publish(ctx, summary.Catalog)
			if err != nil {
				return err
			}
			summary.Publish = result
			return nil
		})
	}

	switch {
	case err != nil:
		summary.Status = stage.FailureStatus(err)
	case opts.DryRun:
		summary.Status = stage.StatusDryRun
	case summary.Publish.Unchanged:
		summary.Status = stage.StatusUnchanged
	default:
		summary.Status = stage.StatusPublished
	}
	r.record(ctx, summary, started, err)
	r.notify(ctx, summary, err)
	return summary, err
}

func (r *Runner) runStage(ctx context.Context, summary *Summary, name string, fn stage.Func) error {
	err := stage.Run(ctx, r.logger, name, fn)
	if err != nil && summary.FailedStage == "" {
		summary.FailedStage = name
	}
	return err
}

func (r *Runner) begin(ctx context.Context, opts Options) (*Summary, context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	input := strings.TrimSpace(opts.Input)
	if input == "" {
		input = r.cfg.Paths.Input
	}
	summary := &Summary{BuildID: r.newID(), Input: input}
	return summary, logging.WithBuildID(ctx, summary.BuildID)
}

func (r *Runner) assemble(ctx context.Context, summary *Summary) error {
	var book *workbook.Book
	err := r.runStage(ctx, summary, StageLoad, func(ctx context.Context) error {
		loaded, err := workbook.Load(ctx, summary.Input)
		if err != nil {
			return err
		}
		book = loaded
		return nil
	})
	if err != nil {
		return err
	}

	return r.runStage(ctx, summary, StageValidate, func(ctx context.Context) error {
		result, err := catalog.Build(ctx, book, catalog.Options{
			SongOrder:           r.cfg.Catalog.SongOrder,
			DefaultLanguage:     r.cfg.Catalog.DefaultLanguage,
			DefaultRightsStatus: r.cfg.Catalog.DefaultRightsStatus,
			Logger:              r.logger,
		})
		if err != nil {
			return err
		}
		summary.Catalog = result.Catalog
		summary.Warnings = result.Warnings
		return nil
	})
}

func (r *Runner) record(ctx context.Context, summary *Summary, started time.Time, buildErr error) {
	if r.recorder == nil {
		return
	}
	entry := history.Entry{
		BuildID:      summary.BuildID,
		Status:       summary.Status,
		InputPath:    summary.Input,
		WarningCount: len(summary.Warnings),
		StartedAt:    started,
		FinishedAt:   r.clock(),
	}
	if summary.Catalog != nil {
		entry.CatalogVersion = summary.Catalog.Meta.CatalogVersion
		entry.SongCount = summary.Catalog.SongCount()
		entry.BaseMediaURL = summary.Catalog.Meta.BaseMediaURL
	}
	if summary.Publish != nil {
		entry.SongsSHA256 = summary.Publish.SongsSHA256
		if !summary.Publish.DryRun {
			entry.PublishedAt = summary.Publish.Manifest.PublishedTime()
		}
	}
	if buildErr != nil {
		entry.Message = buildErr.Error()
		if failures, ok := catalog.AsFailures(buildErr); ok {
			entry.FailureCount = len(failures)
		}
	}

	// A cancelled build is still worth recording.
	recordCtx := context.WithoutCancel(ctx)
	// stage.Run logs the failure; history is best effort.
	_ = stage.Run(recordCtx, r.logger, StageRecord, func(ctx context.Context) error {
		_, err := r.recorder.Record(ctx, entry)
		return err
	})
}

func (r *Runner) notify(ctx context.Context, summary *Summary, buildErr error) {
	if r.notifier == nil {
		return
	}
	var (
		event   notifications.Event
		payload notifications.Payload
	)
	switch summary.Status {
	case stage.StatusPublished:
		event = notifications.EventCatalogPublished
		payload = notifications.Payload{
			"catalogVersion": summary.Catalog.Meta.CatalogVersion,
			"songCount":      summary.Catalog.SongCount(),
			"songsUrl":       summary.Publish.Manifest.SongsURL,
		}
	case stage.StatusRejected:
		event = notifications.EventBuildRejected
		payload = notifications.Payload{"error": buildErr}
	case stage.StatusFailed:
		event = notifications.EventBuildFailed
		payload = notifications.Payload{"stage": summary.FailedStage, "error": buildErr}
	case stage.StatusUnchanged:
		event = notifications.EventBuildUnchanged
	default:
		return
	}
	if err := r.notifier.Publish(context.WithoutCancel(ctx), event, payload); err != nil {
		logging.WarnWithContext(r.logger, "build notification failed", "notification_failed",
			logging.String("event", string(event)),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check notifications.ntfy_topic"),
		)
	}
}
