package testsupport

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

// Fixture describes workbook content. Songs, Versions and Glossary include
// their header row as the first element.
type Fixture struct {
	Meta     [][]string
	Songs    [][]string
	Versions [][]string
	Glossary [][]string
	// Skip names sheets to leave out of the written source.
	Skip []string
}

// SongHeaders is the column set of the songs sheet used by NewFixture.
var SongHeaders = []string{"id", "title", "hub", "lyrics", "themes", "externalLinks", "altTitles"}

// NewFixture returns a small valid catalog: two songs, three versions and
// one glossary entry.
func NewFixture() Fixture {
	return Fixture{
		Meta: [][]string{
			{"catalogVersion", "3"},
			{"baseMediaUrl", "https://media.example.com/"},
		},
		Songs: [][]string{
			SongHeaders,
			{"s1", "Ой, то не вечер", "Дон", "Ой, то не вечер,\nто не вечер…", "служба; дорога; товарищество", "https://a.example; https://b.example", "То не вечер"},
			{"s2", "Конь боевой", "Кубань", "Конь боевой с походным вьюком", "", "", ""},
		},
		Versions: [][]string{
			{"songId", "id", "title", "audioUrl", "performer"},
			{"s1", "v1", "", "s1-v1.mp3", ""},
			{"s2", "v1", "Полная", "", "Хор"},
			{"s1", "short", "Короткая", "", ""},
		},
		Glossary: [][]string{
			{"songId", "term", "definition"},
			{"s1", "Атаман", "Выборный предводитель казаков"},
		},
	}
}

func (f Fixture) sheets() []struct {
	name string
	rows [][]string
} {
	all := []struct {
		name string
		rows [][]string
	}{
		{"meta", f.Meta},
		{"songs", f.Songs},
		{"versions", f.Versions},
		{"glossary", f.Glossary},
	}
	out := all[:0]
	for _, sheet := range all {
		skipped := false
		for _, name := range f.Skip {
			if name == sheet.name {
				skipped = true
			}
		}
		if !skipped {
			out = append(out, sheet)
		}
	}
	return out
}

// WriteXLSX saves the fixture as an .xlsx workbook at path.
func WriteXLSX(t testing.TB, path string, fixture Fixture) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	file := excelize.NewFile()
	defer file.Close()

	const defaultSheet = "Sheet1"
	for _, sheet := range fixture.sheets() {
		if _, err := file.NewSheet(sheet.name); err != nil {
			t.Fatalf("new sheet %s: %v", sheet.name, err)
		}
		for r, row := range sheet.rows {
			for c, value := range row {
				cell, err := excelize.CoordinatesToCellName(c+1, r+1)
				if err != nil {
					t.Fatalf("cell name: %v", err)
				}
				if err := file.SetCellStr(sheet.name, cell, value); err != nil {
					t.Fatalf("set %s!%s: %v", sheet.name, cell, err)
				}
			}
		}
	}
	if err := file.DeleteSheet(defaultSheet); err != nil {
		t.Fatalf("delete default sheet: %v", err)
	}
	if err := file.SaveAs(path); err != nil {
		t.Fatalf("save workbook %s: %v", path, err)
	}
}

// WriteCSVDir writes one <sheet>.csv file per fixture sheet into dir.
func WriteCSVDir(t testing.TB, dir string, fixture Fixture) {
	t.Helper()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	for _, sheet := range fixture.sheets() {
		file, err := os.Create(filepath.Join(dir, sheet.name+".csv"))
		if err != nil {
			t.Fatalf("create %s.csv: %v", sheet.name, err)
		}
		writer := csv.NewWriter(file)
		if err := writer.WriteAll(sheet.rows); err != nil {
			file.Close()
			t.Fatalf("write %s.csv: %v", sheet.name, err)
		}
		if err := file.Close(); err != nil {
			t.Fatalf("close %s.csv: %v", sheet.name, err)
		}
	}
}
