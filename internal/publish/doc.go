// Package publish turns an assembled catalog into the static site artifacts:
// songs.json, the latest.json manifest and an index.html listing.
//
// Artifacts are rendered in memory, written atomically to the dist directory
// and then copied into the docs directory served by GitHub Pages. The
// previous docs/latest.json drives two decisions: the optional strict
// versioning gate, and reuse of publishedAt when nothing changed so a rebuild
// of the same workbook is byte-identical. An advisory lock in the dist
// directory keeps two publishers from interleaving writes.
package publish
