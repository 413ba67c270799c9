package catalog

import (
	"fmt"

	"istoki/internal/workbook"
)

// column maps one header name onto a field of the row record T.
type column[T any] struct {
	name     string
	required bool
	set      func(*T, string)
}

// schema is the fixed column set of one table. An open schema passes unknown
// columns through as extra fields instead of rejecting them.
type schema[T any] struct {
	table   string
	columns []column[T]
	open    bool
}

type extraColumn struct {
	name  string
	index int
}

// binding is a schema resolved against a concrete header row.
type binding[T any] struct {
	schema *schema[T]
	// index holds the header position of each schema column, -1 if absent.
	index []int
	extra []extraColumn
}

// bind resolves header positions and reports missing, unknown and duplicate
// columns. fatal is true when a required column is missing, in which case
// rows of this table cannot be decoded meaningfully.
func (s *schema[T]) bind(table *workbook.Table) (b *binding[T], failures []Failure, fatal bool) {
	b = &binding[T]{schema: s, index: make([]int, len(s.columns))}
	known := make(map[string]int, len(s.columns))
	for i, col := range s.columns {
		known[col.name] = i
		b.index[i] = -1
	}

	seen := make(map[string]bool)
	for pos, header := range table.Headers {
		if header == "" {
			continue
		}
		if seen[header] {
			failures = append(failures, Failure{
				Kind:  DuplicateColumn,
				Table: s.table,
				Row:   1,
				Key:   header,
				Rule:  fmt.Sprintf("column %q appears more than once", header),
			})
			continue
		}
		seen[header] = true
		if i, ok := known[header]; ok {
			b.index[i] = pos
			continue
		}
		if s.open {
			b.extra = append(b.extra, extraColumn{name: header, index: pos})
			continue
		}
		failures = append(failures, Failure{
			Kind:  UnknownColumn,
			Table: s.table,
			Row:   1,
			Key:   header,
			Rule:  fmt.Sprintf("column %q is not part of the %s table", header, s.table),
		})
	}

	for i, col := range s.columns {
		if col.required && b.index[i] < 0 {
			failures = append(failures, Failure{
				Kind:  MissingColumn,
				Table: s.table,
				Row:   1,
				Key:   col.name,
				Rule:  fmt.Sprintf("required column %q is missing", col.name),
			})
			fatal = true
		}
	}
	return b, failures, fatal
}

// decode fills a record from a row and returns the open-schema extras.
func (b *binding[T]) decode(row workbook.Row) (T, []Field) {
	var record T
	for i, col := range b.schema.columns {
		if pos := b.index[i]; pos >= 0 && pos < len(row.Cells) {
			col.set(&record, row.Cells[pos])
		}
	}
	var extra []Field
	for _, ec := range b.extra {
		if ec.index < len(row.Cells) {
			extra = append(extra, Field{Name: ec.name, Value: row.Cells[ec.index]})
		}
	}
	return record, extra
}

type songRow struct {
	ID, Title, Hub, Lyrics                        string
	Themes, ExternalLinks, AltTitles              string
	RegionDetail, Genre, CossackHost, LanguageTag string
	ContextShort, SourceNote                      string
	AudioURL, MinusURL, VideoURL, RightsStatus    string
}

type versionRow struct {
	SongID, ID                   string
	Title, Lyrics, SourceNote    string
	AudioURL, MinusURL, VideoURL string
	Extra                        []Field
}

type glossaryRow struct {
	SongID, Term, Definition string
}

var songSchema = &schema[songRow]{
	table: workbook.SheetSongs,
	columns: []column[songRow]{
		{"id", true, func(r *songRow, v string) { r.ID = v }},
		{"title", true, func(r *songRow, v string) { r.Title = v }},
		{"hub", true, func(r *songRow, v string) { r.Hub = v }},
		{"lyrics", true, func(r *songRow, v string) { r.Lyrics = v }},
		{"themes", false, func(r *songRow, v string) { r.Themes = v }},
		{"externalLinks", false, func(r *songRow, v string) { r.ExternalLinks = v }},
		{"altTitles", false, func(r *songRow, v string) { r.AltTitles = v }},
		{"regionDetail", false, func(r *songRow, v string) { r.RegionDetail = v }},
		{"genre", false, func(r *songRow, v string) { r.Genre = v }},
		{"cossackHost", false, func(r *songRow, v string) { r.CossackHost = v }},
		{"languageTag", false, func(r *songRow, v string) { r.LanguageTag = v }},
		{"contextShort", false, func(r *songRow, v string) { r.ContextShort = v }},
		{"sourceNote", false, func(r *songRow, v string) { r.SourceNote = v }},
		{"audioUrl", false, func(r *songRow, v string) { r.AudioURL = v }},
		{"minusUrl", false, func(r *songRow, v string) { r.MinusURL = v }},
		{"videoUrl", false, func(r *songRow, v string) { r.VideoURL = v }},
		{"rightsStatus", false, func(r *songRow, v string) { r.RightsStatus = v }},
	},
}

var versionSchema = &schema[versionRow]{
	table: workbook.SheetVersions,
	open:  true,
	columns: []column[versionRow]{
		{"songId", true, func(r *versionRow, v string) { r.SongID = v }},
		{"id", true, func(r *versionRow, v string) { r.ID = v }},
		{"title", false, func(r *versionRow, v string) { r.Title = v }},
		{"lyrics", false, func(r *versionRow, v string) { r.Lyrics = v }},
		{"sourceNote", false, func(r *versionRow, v string) { r.SourceNote = v }},
		{"audioUrl", false, func(r *versionRow, v string) { r.AudioURL = v }},
		{"minusUrl", false, func(r *versionRow, v string) { r.MinusURL = v }},
		{"videoUrl", false, func(r *versionRow, v string) { r.VideoURL = v }},
	},
}

var glossarySchema = &schema[glossaryRow]{
	table: workbook.SheetGlossary,
	columns: []column[glossaryRow]{
		{"songId", true, func(r *glossaryRow, v string) { r.SongID = v }},
		{"term", true, func(r *glossaryRow, v string) { r.Term = v }},
		{"definition", true, func(r *glossaryRow, v string) { r.Definition = v }},
	},
}
