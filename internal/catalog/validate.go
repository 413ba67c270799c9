package catalog

import (
	"fmt"
	"log/slog"
	"strconv"

	"istoki/internal/logging"
	"istoki/internal/workbook"
)

// validator checks rows and accumulates failures. Songs must be validated
// before versions and glossary rows so the song id index is complete.
type validator struct {
	logger   *slog.Logger
	failures Failures

	// seenSongs holds every song id encountered, valid or not.
	seenSongs map[string]bool
	// songIndex maps validated song ids to their position.
	songIndex map[string]int
	// versionIDs and terms track per-song uniqueness.
	versionIDs map[string]map[string]bool
	terms      map[string]map[string]bool
}

func newValidator(logger *slog.Logger) *validator {
	return &validator{
		logger:     logger,
		seenSongs:  make(map[string]bool),
		songIndex:  make(map[string]int),
		versionIDs: make(map[string]map[string]bool),
		terms:      make(map[string]map[string]bool),
	}
}

func (v *validator) fail(f Failure) {
	v.failures = append(v.failures, f)
	v.logger.Debug("row rejected",
		logging.String(logging.FieldTable, f.Table),
		logging.Int(logging.FieldRow, f.Row),
		logging.String("kind", string(f.Kind)),
		logging.String("rule", f.Rule),
	)
}

func (v *validator) failAll(fs []Failure) {
	for _, f := range fs {
		v.fail(f)
	}
}

func (v *validator) missing(table string, row workbook.Row, field, key string) {
	v.fail(Failure{
		Kind:  MissingField,
		Table: table,
		Row:   row.Number,
		Key:   key,
		Field: field,
		Rule:  fmt.Sprintf("%s must not be empty", field),
	})
}

// validateMeta reads catalogVersion and baseMediaUrl from the meta sheet.
func (v *validator) validateMeta(book *workbook.Book) Meta {
	var meta Meta
	meta.BaseMediaURL, _ = book.MetaValue("baseMediaUrl")

	raw, ok := book.MetaValue("catalogVersion")
	if !ok {
		v.fail(Failure{
			Kind:  InvalidMeta,
			Table: workbook.SheetMeta,
			Key:   "catalogVersion",
			Rule:  "catalogVersion is missing",
		})
		return meta
	}
	version, err := strconv.Atoi(raw)
	if err != nil {
		v.fail(Failure{
			Kind:  InvalidMeta,
			Table: workbook.SheetMeta,
			Key:   "catalogVersion",
			Rule:  fmt.Sprintf("catalogVersion is not an integer: %q", raw),
		})
		return meta
	}
	meta.CatalogVersion = version
	return meta
}

// validateSong returns true when the row is a valid song. The id is indexed
// by the caller once the song has been accepted.
func (v *validator) validateSong(row workbook.Row, rec songRow) bool {
	table := workbook.SheetSongs
	ok := true
	for _, required := range []struct{ name, value string }{
		{"id", rec.ID},
		{"title", rec.Title},
		{"hub", rec.Hub},
		{"lyrics", rec.Lyrics},
	} {
		if required.value == "" {
			v.missing(table, row, required.name, rec.ID)
			ok = false
		}
	}
	if rec.ID == "" {
		return false
	}
	if v.seenSongs[rec.ID] {
		v.fail(Failure{
			Kind:  DuplicateID,
			Table: table,
			Row:   row.Number,
			Key:   rec.ID,
			Field: "id",
			Rule:  fmt.Sprintf("song id %q is already used", rec.ID),
		})
		return false
	}
	v.seenSongs[rec.ID] = true
	return ok
}

func (v *validator) indexSong(id string, position int) {
	v.songIndex[id] = position
}

func (v *validator) songKnown(id string) bool {
	_, ok := v.songIndex[id]
	return ok
}

func (v *validator) dangling(table string, row workbook.Row, songID string) {
	v.fail(Failure{
		Kind:  DanglingReference,
		Table: table,
		Row:   row.Number,
		Key:   songID,
		Field: "songId",
		Rule:  fmt.Sprintf("songId %q does not match any valid song", songID),
	})
}

func (v *validator) validateVersion(row workbook.Row, rec versionRow) bool {
	table := workbook.SheetVersions
	ok := true
	if rec.SongID == "" {
		v.missing(table, row, "songId", rec.ID)
		ok = false
	}
	if rec.ID == "" {
		v.missing(table, row, "id", rec.SongID)
		ok = false
	}
	if rec.SongID == "" {
		return false
	}
	if !v.songKnown(rec.SongID) {
		v.dangling(table, row, rec.SongID)
		return false
	}
	if rec.ID == "" {
		return false
	}
	ids := v.versionIDs[rec.SongID]
	if ids == nil {
		ids = make(map[string]bool)
		v.versionIDs[rec.SongID] = ids
	}
	if ids[rec.ID] {
		v.fail(Failure{
			Kind:  DuplicateID,
			Table: table,
			Row:   row.Number,
			Key:   rec.SongID + "/" + rec.ID,
			Field: "id",
			Rule:  fmt.Sprintf("version id %q is already used by song %q", rec.ID, rec.SongID),
		})
		return false
	}
	ids[rec.ID] = true
	return ok
}

func (v *validator) validateGlossary(row workbook.Row, rec glossaryRow) bool {
	table := workbook.SheetGlossary
	ok := true
	for _, required := range []struct{ name, value string }{
		{"songId", rec.SongID},
		{"term", rec.Term},
		{"definition", rec.Definition},
	} {
		if required.value == "" {
			key := rec.SongID
			if required.name == "songId" {
				key = rec.Term
			}
			v.missing(table, row, required.name, key)
			ok = false
		}
	}
	if rec.SongID == "" {
		return false
	}
	if !v.songKnown(rec.SongID) {
		v.dangling(table, row, rec.SongID)
		return false
	}
	if rec.Term == "" {
		return false
	}
	folded := FoldTerm(rec.Term)
	terms := v.terms[rec.SongID]
	if terms == nil {
		terms = make(map[string]bool)
		v.terms[rec.SongID] = terms
	}
	if terms[folded] {
		v.fail(Failure{
			Kind:  DuplicateTerm,
			Table: table,
			Row:   row.Number,
			Key:   rec.SongID,
			Field: "term",
			Rule:  fmt.Sprintf("term %q is already defined for song %q", rec.Term, rec.SongID),
		})
		return false
	}
	terms[folded] = true
	return ok
}
