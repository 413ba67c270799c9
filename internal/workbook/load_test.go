package workbook_test

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"istoki/internal/testsupport"
	"istoki/internal/workbook"
)

func TestLoadXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "istoki.xlsx")
	fixture := testsupport.NewFixture()
	fixture.Songs = append(fixture.Songs, []string{"", " ", ""}, []string{"  s3  ", "Title", "Hub", "  line one\nline two  "})
	testsupport.WriteXLSX(t, path, fixture)

	book, err := workbook.Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	assertBook(t, book)
	if book.Source != path {
		t.Fatalf("unexpected source %q", book.Source)
	}

	last := book.Songs.Rows[len(book.Songs.Rows)-1]
	if last.Number != 5 {
		t.Fatalf("expected blank row skipped with sheet numbering kept, got row %d", last.Number)
	}
	if last.Cells[0] != "s3" {
		t.Fatalf("expected trimmed id, got %q", last.Cells[0])
	}
	if last.Cells[3] != "line one\nline two" {
		t.Fatalf("expected outer whitespace trimmed and inner line break kept, got %q", last.Cells[3])
	}
	if last.Cells[6] != "" {
		t.Fatalf("expected short row padded to header width, got %q", last.Cells[6])
	}
}

func TestLoadCSVDirectory(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteCSVDir(t, dir, testsupport.NewFixture())

	book, err := workbook.Load(context.Background(), dir)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	assertBook(t, book)
}

func TestLoadCSVKeepsQuotedCRLF(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteCSVDir(t, dir, testsupport.NewFixture())
	songs := "id,title,hub,lyrics\r\n" +
		"s1,T,H,\"line one\r\nline two\"\r\n" +
		"s2,\"Say \"\"hi\"\"\",H,\"a\nb\"\r\n"
	testsupport.WriteFile(t, filepath.Join(dir, "songs.csv"), songs)

	book, err := workbook.Load(context.Background(), dir)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(book.Songs.Rows) != 2 {
		t.Fatalf("expected 2 song rows, got %d", len(book.Songs.Rows))
	}
	if got := book.Songs.Rows[0].Cells[3]; got != "line one\r\nline two" {
		t.Fatalf("expected CRLF kept in quoted cell, got %q", got)
	}
	second := book.Songs.Rows[1]
	if second.Cells[1] != `Say "hi"` || second.Cells[3] != "a\nb" {
		t.Fatalf("unexpected second row %q", second.Cells)
	}
	if book.Songs.Headers[3] != "lyrics" {
		t.Fatalf("record terminators must not leak into headers: %q", book.Songs.Headers)
	}
}

func assertBook(t *testing.T, book *workbook.Book) {
	t.Helper()

	version, ok := book.MetaValue("catalogVersion")
	if !ok || version != "3" {
		t.Fatalf("unexpected catalogVersion %q (found=%v)", version, ok)
	}
	if !reflect.DeepEqual(book.Songs.Headers, testsupport.SongHeaders) {
		t.Fatalf("unexpected song headers %v", book.Songs.Headers)
	}
	first := book.Songs.Rows[0]
	if first.Number != 2 {
		t.Fatalf("expected first data row to be sheet row 2, got %d", first.Number)
	}
	if first.Cells[3] != "Ой, то не вечер,\nто не вечер…" {
		t.Fatalf("unexpected lyrics %q", first.Cells[3])
	}
	if len(book.Versions.Rows) != 3 {
		t.Fatalf("expected 3 version rows, got %d", len(book.Versions.Rows))
	}
	if headers := book.Versions.Headers; len(headers) != 5 || headers[4] != "performer" {
		t.Fatalf("expected performer as fifth versions column, got %v", headers)
	}
	if len(book.Glossary.Rows) != 1 {
		t.Fatalf("expected 1 glossary row, got %d", len(book.Glossary.Rows))
	}
}

func TestLoadMissingSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "istoki.xlsx")
	fixture := testsupport.NewFixture()
	fixture.Skip = []string{workbook.SheetGlossary}
	testsupport.WriteXLSX(t, path, fixture)

	_, err := workbook.Load(context.Background(), path)
	if !errors.Is(err, workbook.ErrMissingSheet) {
		t.Fatalf("expected ErrMissingSheet, got %v", err)
	}
}

func TestLoadMissingCSVFile(t *testing.T) {
	dir := t.TempDir()
	fixture := testsupport.NewFixture()
	fixture.Skip = []string{workbook.SheetMeta}
	testsupport.WriteCSVDir(t, dir, fixture)

	_, err := workbook.Load(context.Background(), dir)
	if !errors.Is(err, workbook.ErrMissingSheet) {
		t.Fatalf("expected ErrMissingSheet, got %v", err)
	}
}

func TestLoadRejectsUnsupportedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "istoki.ods")
	testsupport.WriteFile(t, path, "not a workbook")
	if _, err := workbook.Load(context.Background(), path); err == nil {
		t.Fatal("expected error for unsupported extension")
	}
}

func TestLoadHonoursCancellation(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteCSVDir(t, dir, testsupport.NewFixture())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := workbook.Load(ctx, dir); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
