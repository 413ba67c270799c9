package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"istoki/internal/config"
	"istoki/internal/logging"
)

func TestNewFromConfigConsole(t *testing.T) {
	cfg := config.Default()
	var buf bytes.Buffer

	logger, err := logging.NewFromConfig(&cfg, &buf)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Debug("debug message")
	logger.Info("info message")

	out := buf.String()
	if strings.Contains(out, "debug message") {
		t.Fatalf("expected debug to be filtered at info level, got %q", out)
	}
	if !strings.Contains(out, "INFO – info message") {
		t.Fatalf("expected info line, got %q", out)
	}
}

func TestConsoleLoggerShowsStageWithBuild(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := logging.WithStage(logging.WithBuildID(context.Background(), "3f2a9c1e-0000-4000-8000-000000000000"), "publish")
	logging.WithContext(ctx, logger).Info("catalog published")

	if out := buf.String(); !strings.Contains(out, "build 3f2a9c1e/publish – catalog published") {
		t.Fatalf("expected build and stage in header, got %q", out)
	}
}

func TestConsoleLoggerFoldsSubjectIntoHeader(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := logging.WithBuildID(context.Background(), "3f2a9c1e-0000-4000-8000-000000000000")
	component := logging.NewComponentLogger(logging.WithContext(ctx, logger), "validator")
	component.Info("row rejected",
		logging.String(logging.FieldTable, "songs"),
		logging.Int(logging.FieldRow, 7),
		logging.String("rule", "missing title"),
	)

	out := buf.String()
	for _, fragment := range []string{"[validator]", "build 3f2a9c1e · songs row 7", "– row rejected", "    - rule: \"missing title\""} {
		if !strings.Contains(out, fragment) {
			t.Fatalf("expected %q in %q", fragment, out)
		}
	}
	if strings.Contains(out, "- table:") {
		t.Fatalf("expected table folded into header, got %q", out)
	}
	if strings.Contains(out, ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", out)
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "debug", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("with caller")
	if !strings.Contains(buf.String(), "logger_test.go:") {
		t.Fatalf("expected caller in debug output, got %q", buf.String())
	}
}

func TestJSONLoggerWritesToFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "logs", "istoki.log")
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logging.WarnWithContext(logger, "conflicting definitions", "glossary_conflict", logging.String("term", "атаман"))

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(content), &entry); err != nil {
		t.Fatalf("decode json log: %v (%s)", err, content)
	}
	if entry["level"] != "warn" {
		t.Fatalf("unexpected level: %v", entry["level"])
	}
	if entry["msg"] != "conflicting definitions" {
		t.Fatalf("unexpected msg: %v", entry["msg"])
	}
	if entry["event_type"] != "glossary_conflict" {
		t.Fatalf("unexpected event_type: %v", entry["event_type"])
	}
	if _, ok := entry["impact"]; !ok {
		t.Fatal("expected default impact field")
	}
	if _, ok := entry["ts"]; !ok {
		t.Fatal("expected ts key")
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml", Writer: &bytes.Buffer{}}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := logging.NewNop()
	if logger.Enabled(context.Background(), 12) {
		t.Fatal("nop logger should never be enabled")
	}
}

func TestContextFieldsCarryStage(t *testing.T) {
	ctx := logging.WithStage(logging.WithBuildID(context.Background(), "b1"), "publish")
	fields := logging.ContextFields(ctx)
	if len(fields) != 2 {
		t.Fatalf("expected build id and stage, got %v", fields)
	}
	if fields[1].Key != logging.FieldStage || fields[1].Value.String() != "publish" {
		t.Fatalf("unexpected stage attr %v", fields[1])
	}
	if _, ok := logging.StageFromContext(logging.WithStage(context.Background(), "  ")); ok {
		t.Fatal("blank stage should not be stored")
	}
}
