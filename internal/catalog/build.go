package catalog

import (
	"context"
	"errors"
	"log/slog"

	"istoki/internal/logging"
	"istoki/internal/workbook"
)

// Song ordering modes; mirror config.SongOrderSource and config.SongOrderID.
const (
	SongOrderSource = "source"
	SongOrderID     = "id"
)

// Options controls defaults applied while normalizing songs.
type Options struct {
	SongOrder           string
	DefaultLanguage     string
	DefaultRightsStatus string
	Logger              *slog.Logger
}

// Result is a successful build.
type Result struct {
	Catalog  *Catalog
	Warnings []Warning
}

// Build validates, normalizes and assembles a loaded book. When any row
// breaks a rule the returned error is a Failures value listing all of them
// and no catalog is returned.
func Build(ctx context.Context, book *workbook.Book, opts Options) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if book == nil {
		return nil, errors.New("build catalog: no source book")
	}
	logger := logging.NewComponentLogger(logging.WithContext(ctx, opts.Logger), "catalog")
	v := newValidator(logger)

	meta := v.validateMeta(book)

	songsTable := tableOrEmpty(book.Songs, workbook.SheetSongs)
	versionsTable := tableOrEmpty(book.Versions, workbook.SheetVersions)
	glossaryTable := tableOrEmpty(book.Glossary, workbook.SheetGlossary)

	songBinding, failures, songsFatal := songSchema.bind(songsTable)
	v.failAll(failures)
	versionBinding, failures, versionsFatal := versionSchema.bind(versionsTable)
	v.failAll(failures)
	glossaryBinding, failures, glossaryFatal := glossarySchema.bind(glossaryTable)
	v.failAll(failures)
	// Versions and glossary reference songs, so a songs table that cannot be
	// read ends the build. Other tables with a missing column only skip their
	// own rows.
	if songsFatal {
		return nil, v.failures
	}

	if len(songsTable.Rows) == 0 {
		v.fail(Failure{Kind: EmptyTable, Table: workbook.SheetSongs, Rule: "no songs found"})
	}

	songs := make([]Song, 0, len(songsTable.Rows))
	for _, row := range songsTable.Rows {
		rec, _ := songBinding.decode(row)
		if !v.validateSong(row, rec) {
			continue
		}
		v.indexSong(rec.ID, len(songs))
		songs = append(songs, normalizeSong(rec, opts))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	versions := make([]versionRef, 0, len(versionsTable.Rows))
	for _, row := range rowsUnless(versionsTable, versionsFatal) {
		rec, extra := versionBinding.decode(row)
		rec.Extra = extra
		if !v.validateVersion(row, rec) {
			continue
		}
		versions = append(versions, versionRef{songID: rec.SongID, version: normalizeVersion(rec)})
	}

	glossary := make([]glossaryRef, 0, len(glossaryTable.Rows))
	for _, row := range rowsUnless(glossaryTable, glossaryFatal) {
		rec, _ := glossaryBinding.decode(row)
		if !v.validateGlossary(row, rec) {
			continue
		}
		glossary = append(glossary, glossaryRef{
			songID: rec.SongID,
			entry:  GlossaryEntry{Term: rec.Term, Definition: rec.Definition},
		})
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if len(v.failures) > 0 {
		logger.Info("catalog rejected", logging.Int("failures", len(v.failures)))
		return nil, v.failures
	}

	result := &Result{
		Catalog: &Catalog{
			Meta:  meta,
			Songs: assemble(songs, versions, glossary, opts.SongOrder),
		},
		Warnings: append(conflictingDefinitions(glossary), similarLyrics(songs)...),
	}
	for _, w := range result.Warnings {
		switch w.Kind {
		case WarnConflictingDefinition:
			logging.WarnWithContext(logger, "glossary term has conflicting definitions", "glossary_conflict",
				logging.String("term", w.Key),
				logging.String("detail", w.Detail),
				logging.String(logging.FieldErrorHint, "align the definitions or confirm the difference is intended"),
			)
		case WarnSimilarLyrics:
			logging.WarnWithContext(logger, "songs have nearly identical lyrics", "similar_lyrics",
				logging.String("songs", w.Key),
				logging.String("detail", w.Detail),
				logging.String(logging.FieldErrorHint, "merge the entries or make one a version of the other"),
			)
		}
	}
	logger.Info("catalog assembled",
		logging.Int("songs", len(songs)),
		logging.Int("versions", len(versions)),
		logging.Int("glossary_entries", len(glossary)),
		logging.Int("catalog_version", meta.CatalogVersion),
	)
	return result, nil
}

func tableOrEmpty(table *workbook.Table, name string) *workbook.Table {
	if table == nil {
		return &workbook.Table{Name: name}
	}
	return table
}

func rowsUnless(table *workbook.Table, skip bool) []workbook.Row {
	if skip {
		return nil
	}
	return table.Rows
}
