package catalog

import (
	"fmt"
	"slices"
	"strings"
)

type versionRef struct {
	songID  string
	version Version
}

type glossaryRef struct {
	songID string
	entry  GlossaryEntry
}

// assemble nests versions and glossary entries under their songs. Grouping is
// stable: children keep their relative input order. Every songID must name a
// song in songs; unmatched children are dropped.
func assemble(songs []Song, versions []versionRef, glossary []glossaryRef, order string) []Song {
	out := make([]Song, len(songs))
	index := make(map[string]int, len(songs))
	for i, song := range songs {
		song.Versions = []Version{}
		song.Glossary = []GlossaryEntry{}
		out[i] = song
		index[song.ID] = i
	}
	for _, ref := range versions {
		if i, ok := index[ref.songID]; ok {
			out[i].Versions = append(out[i].Versions, ref.version)
		}
	}
	for _, ref := range glossary {
		if i, ok := index[ref.songID]; ok {
			out[i].Glossary = append(out[i].Glossary, ref.entry)
		}
	}
	if order == SongOrderID {
		slices.SortStableFunc(out, func(a, b Song) int {
			return strings.Compare(a.ID, b.ID)
		})
	}
	return out
}

// conflictingDefinitions warns when one folded term carries different
// definitions in different songs. Output order follows first appearance.
func conflictingDefinitions(glossary []glossaryRef) []Warning {
	type usage struct {
		definitions []string
		songs       map[string][]string
	}
	var order []string
	usages := make(map[string]*usage)
	for _, ref := range glossary {
		term := FoldTerm(ref.entry.Term)
		u, ok := usages[term]
		if !ok {
			u = &usage{songs: make(map[string][]string)}
			usages[term] = u
			order = append(order, term)
		}
		def := strings.TrimSpace(ref.entry.Definition)
		if _, ok := u.songs[def]; !ok {
			u.definitions = append(u.definitions, def)
		}
		if !slices.Contains(u.songs[def], ref.songID) {
			u.songs[def] = append(u.songs[def], ref.songID)
		}
	}

	var warnings []Warning
	for _, term := range order {
		u := usages[term]
		if len(u.definitions) < 2 {
			continue
		}
		parts := make([]string, 0, len(u.definitions))
		for _, def := range u.definitions {
			ids := slices.Clone(u.songs[def])
			slices.Sort(ids)
			parts = append(parts, fmt.Sprintf("%v: %s", ids, preview(def)))
		}
		warnings = append(warnings, Warning{
			Kind:   WarnConflictingDefinition,
			Key:    term,
			Detail: fmt.Sprintf("%d different definitions across songs; %s", len(u.definitions), strings.Join(parts, "; ")),
		})
	}
	return warnings
}

const previewRunes = 120

func preview(text string) string {
	flat := []rune(strings.ReplaceAll(text, "\n", " "))
	if len(flat) > previewRunes {
		return string(flat[:previewRunes]) + "…"
	}
	return string(flat)
}
