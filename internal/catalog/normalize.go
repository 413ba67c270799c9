package catalog

import (
	"strings"

	"golang.org/x/text/cases"
)

// ListSeparator separates items in themes and externalLinks cells.
const ListSeparator = ";"

// SplitList parses a list cell: items are split on ';', trimmed, and empty
// items dropped. Order is preserved and the result is never nil.
func SplitList(raw string) []string {
	items := []string{}
	for _, part := range strings.Split(raw, ListSeparator) {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}

// FoldTerm returns the comparison key for a glossary term: trimmed and
// Unicode case-folded, so "Атаман" and "атаман" collide.
func FoldTerm(term string) string {
	// Casers carry state, so each call gets its own.
	return cases.Fold().String(strings.TrimSpace(term))
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// normalizeSong maps a validated row onto the published Song. Scalar fields
// are copied verbatim.
func normalizeSong(row songRow, opts Options) Song {
	return Song{
		ID:            row.ID,
		Title:         row.Title,
		AltTitles:     row.AltTitles,
		Hub:           row.Hub,
		RegionDetail:  row.RegionDetail,
		Genre:         row.Genre,
		Themes:        SplitList(row.Themes),
		CossackHost:   row.CossackHost,
		LanguageTag:   orDefault(row.LanguageTag, opts.DefaultLanguage),
		ContextShort:  row.ContextShort,
		Lyrics:        row.Lyrics,
		Glossary:      []GlossaryEntry{},
		SourceNote:    row.SourceNote,
		AudioURL:      row.AudioURL,
		MinusURL:      row.MinusURL,
		VideoURL:      row.VideoURL,
		RightsStatus:  orDefault(row.RightsStatus, opts.DefaultRightsStatus),
		ExternalLinks: SplitList(row.ExternalLinks),
		Versions:      []Version{},
	}
}

func normalizeVersion(row versionRow) Version {
	return Version{
		ID:         row.ID,
		Title:      row.Title,
		Lyrics:     row.Lyrics,
		SourceNote: row.SourceNote,
		AudioURL:   row.AudioURL,
		MinusURL:   row.MinusURL,
		VideoURL:   row.VideoURL,
		Extra:      row.Extra,
	}
}
