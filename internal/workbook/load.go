package workbook

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Load reads a workbook file or CSV directory.
func Load(ctx context.Context, path string) (*Book, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("open source %s: %w", path, err)
	}
	var reader sheetReader
	if info.IsDir() {
		reader = csvDir(path)
	} else {
		switch ext := strings.ToLower(filepath.Ext(path)); ext {
		case ".xlsx", ".xlsm":
			file, err := excelize.OpenFile(path)
			if err != nil {
				return nil, fmt.Errorf("open workbook %s: %w", path, err)
			}
			defer file.Close()
			reader = xlsxBook{file: file}
		default:
			return nil, fmt.Errorf("open source %s: unsupported file type %q", path, ext)
		}
	}
	return read(ctx, path, reader)
}

type sheetReader interface {
	// rows returns every row of the named sheet, or ErrMissingSheet.
	rows(name string) ([][]string, error)
}

func read(ctx context.Context, source string, reader sheetReader) (*Book, error) {
	book := &Book{Source: source}
	for _, name := range RequiredSheets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		raw, err := reader.rows(name)
		if err != nil {
			if errors.Is(err, ErrMissingSheet) {
				return nil, fmt.Errorf("%w %q in %s", ErrMissingSheet, name, source)
			}
			return nil, fmt.Errorf("read sheet %q: %w", name, err)
		}
		switch name {
		case SheetMeta:
			book.Meta = newMeta(raw)
		case SheetSongs:
			book.Songs = newTable(name, raw)
		case SheetVersions:
			book.Versions = newTable(name, raw)
		case SheetGlossary:
			book.Glossary = newTable(name, raw)
		}
	}
	return book, nil
}

type xlsxBook struct {
	file *excelize.File
}

func (b xlsxBook) rows(name string) ([][]string, error) {
	if !slices.Contains(b.file.GetSheetList(), name) {
		return nil, ErrMissingSheet
	}
	// GetRows returns cached formula results, never the formula text.
	return b.file.GetRows(name)
}

type csvDir string

func (d csvDir) rows(name string) ([][]string, error) {
	data, err := os.ReadFile(filepath.Join(string(d), name+".csv"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrMissingSheet
		}
		return nil, err
	}
	return parseCSV(data)
}
