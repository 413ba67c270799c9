package workbook

import (
	"errors"
	"strings"
)

// Sheet names. CSV sources use the same names with a .csv extension.
const (
	SheetMeta     = "meta"
	SheetSongs    = "songs"
	SheetVersions = "versions"
	SheetGlossary = "glossary"
)

// RequiredSheets lists the sheets every source must provide, in load order.
var RequiredSheets = []string{SheetMeta, SheetSongs, SheetVersions, SheetGlossary}

// ErrMissingSheet reports a source without one of the required sheets.
var ErrMissingSheet = errors.New("missing sheet")

// Row is one non-blank data row.
type Row struct {
	// Number is the 1-based row number in the sheet, header included.
	Number int
	// Cells holds one trimmed value per header column.
	Cells []string
}

// Table is a header row plus the data rows beneath it.
type Table struct {
	Name    string
	Headers []string
	Rows    []Row
}

// MetaEntry is one key/value line from the meta sheet.
type MetaEntry struct {
	Key    string
	Value  string
	Number int
}

// Book is a fully loaded source.
type Book struct {
	// Source is the path the book was read from.
	Source   string
	Meta     []MetaEntry
	Songs    *Table
	Versions *Table
	Glossary *Table
}

// MetaValue returns the value of the last meta entry with the given key.
func (b *Book) MetaValue(key string) (string, bool) {
	if b == nil {
		return "", false
	}
	value, found := "", false
	for _, entry := range b.Meta {
		if entry.Key == key {
			value, found = entry.Value, true
		}
	}
	return value, found
}

const utf8BOM = "\ufeff"

func cleanCell(value string) string {
	return strings.TrimSpace(value)
}

func blank(cells []string) bool {
	for _, cell := range cells {
		if cleanCell(cell) != "" {
			return false
		}
	}
	return true
}

// newTable builds a table from raw sheet rows. raw[0] is the header row; an
// empty sheet produces a table without headers or rows.
func newTable(name string, raw [][]string) *Table {
	table := &Table{Name: name}
	if len(raw) == 0 {
		return table
	}
	table.Headers = make([]string, len(raw[0]))
	for i, header := range raw[0] {
		table.Headers[i] = cleanCell(strings.TrimPrefix(header, utf8BOM))
	}
	for idx, cells := range raw[1:] {
		if blank(cells) {
			continue
		}
		row := Row{Number: idx + 2, Cells: make([]string, len(table.Headers))}
		for col := range table.Headers {
			if col < len(cells) {
				row.Cells[col] = cleanCell(cells[col])
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

// newMeta reads column A as key and column B as value, starting at row 1.
func newMeta(raw [][]string) []MetaEntry {
	entries := make([]MetaEntry, 0, len(raw))
	for idx, cells := range raw {
		if len(cells) == 0 {
			continue
		}
		key := cleanCell(strings.TrimPrefix(cells[0], utf8BOM))
		if key == "" {
			continue
		}
		value := ""
		if len(cells) > 1 {
			value = cleanCell(cells[1])
		}
		entries = append(entries, MetaEntry{Key: key, Value: value, Number: idx + 1})
	}
	return entries
}
