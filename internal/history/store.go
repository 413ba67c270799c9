package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"istoki/internal/config"
	"istoki/internal/stage"
)

const entryColumns = "id, build_id, status, input_path, catalog_version, song_count, warning_count, failure_count, songs_sha256, base_media_url, published_at, started_at, finished_at, message"

// DefaultLimit caps List when no limit is given.
const DefaultLimit = 20

// Store persists build history backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database.
func Open(cfg *config.Config) (*Store, error) {
	if cfg == nil {
		return nil, errors.New("history: config is required")
	}
	dbPath := cfg.HistoryPath()
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("ensure state directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record inserts a finished build and returns it with its row id.
func (s *Store) Record(ctx context.Context, entry Entry) (*Entry, error) {
	if strings.TrimSpace(entry.BuildID) == "" {
		return nil, errors.New("record build: build id is required")
	}
	if entry.Status == "" {
		return nil, errors.New("record build: status is required")
	}
	if entry.FinishedAt.IsZero() {
		entry.FinishedAt = time.Now().UTC()
	}
	if entry.StartedAt.IsZero() {
		entry.StartedAt = entry.FinishedAt
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO builds (
            build_id, status, input_path, catalog_version, song_count, warning_count,
            failure_count, songs_sha256, base_media_url, published_at, started_at,
            finished_at, message
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.BuildID,
		string(entry.Status),
		entry.InputPath,
		nullableInt(entry.CatalogVersion),
		entry.SongCount,
		entry.WarningCount,
		entry.FailureCount,
		nullableString(entry.SongsSHA256),
		nullableString(entry.BaseMediaURL),
		nullableTime(entry.PublishedAt),
		entry.StartedAt.UTC().Format(time.RFC3339Nano),
		entry.FinishedAt.UTC().Format(time.RFC3339Nano),
		nullableString(entry.Message),
	)
	if err != nil {
		return nil, fmt.Errorf("insert build: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	entry.ID = id
	return &entry, nil
}

// List returns the most recent builds, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+entryColumns+` FROM builds ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query builds: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// LastPublished returns the newest build that wrote artifacts, or nil.
func (s *Store) LastPublished(ctx context.Context) (*Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM builds WHERE status = ? ORDER BY id DESC LIMIT 1`,
		string(stage.StatusPublished))
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("last published build: %w", err)
	}
	return &entry, nil
}

func scanEntry(scanner interface{ Scan(dest ...any) error }) (Entry, error) {
	var (
		entry          Entry
		status         string
		catalogVersion sql.NullInt64
		songsSHA       sql.NullString
		baseMediaURL   sql.NullString
		publishedRaw   sql.NullString
		startedRaw     string
		finishedRaw    string
		message        sql.NullString
	)
	if err := scanner.Scan(
		&entry.ID,
		&entry.BuildID,
		&status,
		&entry.InputPath,
		&catalogVersion,
		&entry.SongCount,
		&entry.WarningCount,
		&entry.FailureCount,
		&songsSHA,
		&baseMediaURL,
		&publishedRaw,
		&startedRaw,
		&finishedRaw,
		&message,
	); err != nil {
		return Entry{}, err
	}
	entry.Status = stage.Status(status)
	entry.CatalogVersion = int(catalogVersion.Int64)
	entry.SongsSHA256 = songsSHA.String
	entry.BaseMediaURL = baseMediaURL.String
	entry.Message = message.String
	entry.PublishedAt = parseTime(publishedRaw.String)
	entry.StartedAt = parseTime(startedRaw)
	entry.FinishedAt = parseTime(finishedRaw)
	return entry, nil
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

func nullableInt(value int) any {
	if value == 0 {
		return nil
	}
	return value
}

func nullableTime(value time.Time) any {
	if value.IsZero() {
		return nil
	}
	return value.UTC().Format(time.RFC3339Nano)
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}
