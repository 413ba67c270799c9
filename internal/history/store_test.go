package history_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"istoki/internal/history"
	"istoki/internal/stage"
	"istoki/internal/testsupport"
)

func TestRecordAndList(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	published, err := store.Record(ctx, history.Entry{
		BuildID:        "b-1",
		Status:         stage.StatusPublished,
		InputPath:      "input/istoki.xlsx",
		CatalogVersion: 3,
		SongCount:      2,
		SongsSHA256:    "abc",
		BaseMediaURL:   "https://media.example.com/",
		PublishedAt:    started.Add(time.Second),
		StartedAt:      started,
		FinishedAt:     started.Add(2 * time.Second),
	})
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if published.ID == 0 {
		t.Fatal("expected row id to be assigned")
	}
	if _, err := store.Record(ctx, history.Entry{
		BuildID:      "b-2",
		Status:       stage.StatusRejected,
		InputPath:    "input/istoki.xlsx",
		FailureCount: 4,
		StartedAt:    started.Add(time.Minute),
		FinishedAt:   started.Add(time.Minute),
		Message:      "catalog validation failed",
	}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	entries, err := store.List(ctx, 10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].BuildID != "b-2" || entries[0].Status != stage.StatusRejected || entries[0].FailureCount != 4 {
		t.Fatalf("unexpected newest entry %+v", entries[0])
	}
	if entries[0].CatalogVersion != 0 || !entries[0].PublishedAt.IsZero() {
		t.Fatalf("rejected build should have no version or publish time: %+v", entries[0])
	}
	got := entries[1]
	if got.CatalogVersion != 3 || got.SongsSHA256 != "abc" || !got.PublishedAt.Equal(started.Add(time.Second)) {
		t.Fatalf("unexpected published entry %+v", got)
	}
	if got.Duration() != 2*time.Second {
		t.Fatalf("unexpected duration %s", got.Duration())
	}

	limited, err := store.List(ctx, 1)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("expected limit to apply, got %d", len(limited))
	}
}

func TestLastPublished(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	last, err := store.LastPublished(ctx)
	if err != nil {
		t.Fatalf("LastPublished failed: %v", err)
	}
	if last != nil {
		t.Fatalf("expected no published build, got %+v", last)
	}

	for i, status := range []stage.Status{stage.StatusPublished, stage.StatusFailed} {
		if _, err := store.Record(ctx, history.Entry{
			BuildID:   string(rune('a' + i)),
			Status:    status,
			InputPath: "in",
		}); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}
	last, err = store.LastPublished(ctx)
	if err != nil {
		t.Fatalf("LastPublished failed: %v", err)
	}
	if last == nil || last.BuildID != "a" {
		t.Fatalf("expected build a, got %+v", last)
	}
}

func TestRecordRequiresBuildIDAndStatus(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if _, err := store.Record(ctx, history.Entry{Status: stage.StatusFailed}); err == nil {
		t.Fatal("expected error without build id")
	}
	if _, err := store.Record(ctx, history.Entry{BuildID: "x"}); err == nil {
		t.Fatal("expected error without status")
	}
}

func TestRecordRejectsDuplicateBuildID(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	entry := history.Entry{BuildID: "dup", Status: stage.StatusPublished, InputPath: "in"}
	if _, err := store.Record(ctx, entry); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if _, err := store.Record(ctx, entry); err == nil {
		t.Fatal("expected unique constraint violation")
	}
}

func TestOpenRejectsSchemaMismatch(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	db, err := sql.Open("sqlite", cfg.HistoryPath())
	if err != nil {
		t.Fatalf("open raw db: %v", err)
	}
	if _, err := db.Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	_ = db.Close()

	if _, err := history.Open(cfg); !errors.Is(err, history.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}
