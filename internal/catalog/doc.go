// Package catalog turns the loaded source tables into the published song
// catalog.
//
// Build runs the whole pipeline over a workbook.Book: each table is bound to a
// fixed column schema, every row is validated (songs first, so versions and
// glossary rows can be checked against the set of valid song ids), list
// fields are normalized, and versions and glossary entries are grouped under
// their song in sheet order.
//
// Validation never stops at the first problem. Every failure across every
// table is collected into a Failures value so a content editor can fix the
// whole workbook in one pass; Build returns no catalog when any failure was
// recorded. Failures satisfy errors.Is(err, ErrValidation).
package catalog
