package publish_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofrs/flock"

	"istoki/internal/catalog"
	"istoki/internal/config"
	"istoki/internal/publish"
	"istoki/internal/stage"
	"istoki/internal/testsupport"
	"istoki/internal/workbook"
)

var firstPublish = time.Date(2026, 3, 1, 10, 0, 0, 500, time.UTC)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func buildCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "source")
	testsupport.WriteCSVDir(t, dir, testsupport.NewFixture())
	book, err := workbook.Load(context.Background(), dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	result, err := catalog.Build(context.Background(), book, catalog.Options{
		SongOrder:           catalog.SongOrderSource,
		DefaultLanguage:     "русский",
		DefaultRightsStatus: "NONE",
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return result.Catalog
}

func newPublisher(cfg *config.Config, now time.Time, mutate ...func(*publish.Options)) *publish.Publisher {
	opts := publish.OptionsFromConfig(cfg)
	opts.Clock = fixedClock(now)
	for _, m := range mutate {
		m(&opts)
	}
	return publish.New(opts)
}

func mustPublish(t *testing.T, p *publish.Publisher, cat *catalog.Catalog) *publish.Result {
	t.Helper()
	result, err := p.Publish(context.Background(), cat)
	if err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	return result
}

func snapshot(t *testing.T, dir string) map[string]string {
	t.Helper()
	out := make(map[string]string)
	for _, name := range []string{"songs.json", "latest.json", "index.html"} {
		out[name] = testsupport.ReadFile(t, filepath.Join(dir, name))
	}
	return out
}

func TestPublishWritesArtifactsToDistAndDocs(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	result := mustPublish(t, newPublisher(cfg, firstPublish), buildCatalog(t))

	if len(result.Artifacts) != 3 {
		t.Fatalf("expected 3 artifacts, got %d", len(result.Artifacts))
	}
	dist := snapshot(t, cfg.Paths.DistDir)
	docs := snapshot(t, cfg.Paths.DocsDir)
	for name, content := range dist {
		if docs[name] != content {
			t.Fatalf("%s differs between dist and docs", name)
		}
	}

	songs := docs["songs.json"]
	if !strings.HasPrefix(songs, "[\n  {\n    \"id\": \"s1\",\n    \"title\": \"Ой, то не вечер\",\n    \"altTitles\"") {
		t.Fatalf("unexpected songs.json prefix:\n%s", songs[:min(len(songs), 200)])
	}
	if !strings.Contains(songs, `"lyrics": "Ой, то не вечер,\nто не вечер…"`) {
		t.Fatal("expected lyrics with escaped newline and unescaped cyrillic")
	}
	if strings.HasSuffix(songs, "\n") {
		t.Fatal("songs.json should not end with a newline")
	}

	var manifest map[string]any
	if err := json.Unmarshal([]byte(docs["latest.json"]), &manifest); err != nil {
		t.Fatalf("parse manifest: %v", err)
	}
	want := map[string]any{
		"catalogVersion": float64(3),
		"publishedAt":    "2026-03-01T10:00:00Z",
		"songsUrl":       "https://aleyakim.github.io/istoki-catalog/songs.json",
		"baseMediaUrl":   "https://media.example.com/",
	}
	for key, value := range want {
		if manifest[key] != value {
			t.Fatalf("manifest %s: got %v want %v", key, manifest[key], value)
		}
	}
	if !strings.HasPrefix(docs["latest.json"], "{\n  \"catalogVersion\": 3,\n  \"publishedAt\"") {
		t.Fatalf("unexpected manifest layout:\n%s", docs["latest.json"])
	}
	if result.SongsSHA256 == "" || result.Unchanged {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestPublishIsIdempotent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cat := buildCatalog(t)

	mustPublish(t, newPublisher(cfg, firstPublish), cat)
	before := snapshot(t, cfg.Paths.DocsDir)

	result := mustPublish(t, newPublisher(cfg, firstPublish.Add(24*time.Hour)), cat)
	if !result.Unchanged {
		t.Fatal("expected unchanged publish")
	}
	after := snapshot(t, cfg.Paths.DocsDir)
	for name := range before {
		if before[name] != after[name] {
			t.Fatalf("%s changed on rebuild", name)
		}
	}
}

func TestPublishIgnoresFormattingOfPreviousSongs(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cat := buildCatalog(t)
	mustPublish(t, newPublisher(cfg, firstPublish), cat)

	songsPath := filepath.Join(cfg.Paths.DocsDir, "songs.json")
	crlf := strings.ReplaceAll(testsupport.ReadFile(t, songsPath), "\n", "\r\n")
	testsupport.WriteFile(t, songsPath, crlf)

	result := mustPublish(t, newPublisher(cfg, firstPublish.Add(time.Hour)), cat)
	if !result.Unchanged {
		t.Fatal("line ending differences should not count as a change")
	}
	if result.Manifest.PublishedAt != "2026-03-01T10:00:00Z" {
		t.Fatalf("expected previous timestamp, got %s", result.Manifest.PublishedAt)
	}
}

func TestPublishRefreshesTimestampOnChange(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cat := buildCatalog(t)
	mustPublish(t, newPublisher(cfg, firstPublish), cat)

	cat.Songs[0].Title = "Ой, да не вечер"
	result := mustPublish(t, newPublisher(cfg, firstPublish.Add(time.Hour)), cat)
	if result.Unchanged {
		t.Fatal("expected changed publish")
	}
	if result.Manifest.PublishedAt != "2026-03-01T11:00:00Z" {
		t.Fatalf("unexpected timestamp %s", result.Manifest.PublishedAt)
	}
}

func TestPublishLeavesDocsUntouchedWhenStagingFails(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cat := buildCatalog(t)
	mustPublish(t, newPublisher(cfg, firstPublish), cat)
	before := snapshot(t, cfg.Paths.DocsDir)

	blocked := filepath.Join(cfg.Paths.DistDir, "index.html")
	if err := os.Remove(blocked); err != nil {
		t.Fatalf("remove index: %v", err)
	}
	testsupport.WriteFile(t, filepath.Join(blocked, "keep"), "x")

	cat.Songs[0].Title = "Ой, да не вечер"
	cat.Meta.CatalogVersion = 4
	if _, err := newPublisher(cfg, firstPublish.Add(time.Hour)).Publish(context.Background(), cat); err == nil {
		t.Fatal("expected publish to fail when index.html cannot be staged")
	}

	after := snapshot(t, cfg.Paths.DocsDir)
	for name, content := range before {
		if after[name] != content {
			t.Fatalf("%s in docs changed after failed publish", name)
		}
	}
}

func TestStrictVersioning(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*catalog.Catalog)
		wantErr bool
	}{
		{"unchanged without bump", func(*catalog.Catalog) {}, false},
		{"content change without bump", func(c *catalog.Catalog) { c.Songs[1].Lyrics += "!" }, true},
		{"base media change without bump", func(c *catalog.Catalog) { c.Meta.BaseMediaURL = "https://cdn.example.com/" }, true},
		{"content change with bump", func(c *catalog.Catalog) {
			c.Songs[1].Lyrics += "!"
			c.Meta.CatalogVersion++
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testsupport.NewConfig(t, testsupport.WithStrictVersioning())
			cat := buildCatalog(t)
			mustPublish(t, newPublisher(cfg, firstPublish), cat)
			before := snapshot(t, cfg.Paths.DocsDir)

			tt.mutate(cat)
			_, err := newPublisher(cfg, firstPublish.Add(time.Hour)).Publish(context.Background(), cat)
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, stage.ErrVersionNotBumped) {
				t.Fatalf("expected ErrVersionNotBumped, got %v", err)
			}
			after := snapshot(t, cfg.Paths.DocsDir)
			for name := range before {
				if before[name] != after[name] {
					t.Fatalf("%s was rewritten by a rejected publish", name)
				}
			}
		})
	}
}

func TestStrictVersioningRejectsCorruptManifest(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStrictVersioning())
	testsupport.WriteFile(t, filepath.Join(cfg.Paths.DocsDir, "latest.json"), "{not json")

	if _, err := newPublisher(cfg, firstPublish).Publish(context.Background(), buildCatalog(t)); err == nil {
		t.Fatal("expected error for unreadable previous manifest")
	}
}

func TestPublishDryRunWritesNothing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	result := mustPublish(t, newPublisher(cfg, firstPublish, func(o *publish.Options) { o.DryRun = true }), buildCatalog(t))
	if !result.DryRun || len(result.Artifacts) != 3 {
		t.Fatalf("unexpected dry run result %+v", result)
	}
	for _, artifact := range result.Artifacts {
		if _, err := os.Stat(artifact.DocsPath); !os.IsNotExist(err) {
			t.Fatalf("dry run wrote %s", artifact.DocsPath)
		}
	}
}

func TestPublishFailsWhenLocked(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := os.MkdirAll(cfg.Paths.DistDir, 0o755); err != nil {
		t.Fatal(err)
	}
	held := flock.New(filepath.Join(cfg.Paths.DistDir, publish.LockFileName))
	ok, err := held.TryLock()
	if err != nil || !ok {
		t.Fatalf("acquire test lock: ok=%v err=%v", ok, err)
	}
	defer func() { _ = held.Unlock() }()

	_, err = newPublisher(cfg, firstPublish).Publish(context.Background(), buildCatalog(t))
	if !errors.Is(err, stage.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
}
