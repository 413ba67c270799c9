// Package workbook reads the catalog source tables into ordered rows.
//
// A source is either an .xlsx workbook with the sheets meta, songs, versions
// and glossary, or a directory holding meta.csv, songs.csv, versions.csv and
// glossary.csv exported from the same workbook. Every cell is trimmed of
// surrounding whitespace; nothing else about its content changes, so
// multi-line lyrics keep their internal line breaks. Rows whose cells are all
// blank are dropped, and every kept row remembers its 1-based sheet row number
// for error reporting.
//
// The package knows nothing about songs: column meaning is assigned by the
// catalog package.
package workbook
