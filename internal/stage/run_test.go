package stage_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"istoki/internal/logging"
	"istoki/internal/stage"
)

func TestRunTagsContextWithStage(t *testing.T) {
	var seen string
	err := stage.Run(context.Background(), logging.NewNop(), "load", func(ctx context.Context) error {
		seen, _ = logging.StageFromContext(ctx)
		return nil
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if seen != "load" {
		t.Fatalf("expected stage on context, got %q", seen)
	}
}

func TestRunLogsFailure(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	boom := errors.New("boom")
	if err := stage.Run(context.Background(), logger, "publish", func(context.Context) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("expected stage error returned, got %v", err)
	}
	out := buf.String()
	for _, fragment := range []string{`"stage failed"`, `"stage":"publish"`, `"resolved_status":"failed"`} {
		if !strings.Contains(out, fragment) {
			t.Fatalf("expected %s in %s", fragment, out)
		}
	}
}

func TestRunRejectsNilFunc(t *testing.T) {
	if err := stage.Run(context.Background(), nil, "x", nil); err == nil {
		t.Fatal("expected error for nil stage func")
	}
}
