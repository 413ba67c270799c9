package catalog

import (
	"fmt"

	"istoki/internal/textutil"
)

const (
	similarLyricsThreshold = 0.9
	// Short texts match too easily to be meaningful.
	similarLyricsMinTokens = 8
)

// similarLyrics compares every pair of songs and warns about near duplicates.
func similarLyrics(songs []Song) []Warning {
	prints := make([]*textutil.Fingerprint, len(songs))
	for i, song := range songs {
		prints[i] = textutil.NewFingerprint(song.Lyrics)
	}

	var warnings []Warning
	for i := range songs {
		for j := i + 1; j < len(songs); j++ {
			score, ok := textutil.Similar(prints[i], prints[j], similarLyricsMinTokens, similarLyricsThreshold)
			if !ok {
				continue
			}
			warnings = append(warnings, Warning{
				Kind:   WarnSimilarLyrics,
				Key:    songs[i].ID + "/" + songs[j].ID,
				Detail: fmt.Sprintf("lyrics are %.0f%% similar; check for a duplicate entry", score*100),
			})
		}
	}
	return warnings
}
