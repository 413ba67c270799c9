package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// ErrValidation marks errors caused by workbook content rather than I/O.
var ErrValidation = errors.New("catalog validation failed")

// Kind classifies a validation failure.
type Kind string

const (
	// MissingField: a required cell is empty.
	MissingField Kind = "MissingField"
	// DuplicateID: a song id repeats, or a version id repeats within its song.
	DuplicateID Kind = "DuplicateId"
	// DanglingReference: a songId matches no valid song.
	DanglingReference Kind = "DanglingReference"
	// DuplicateTerm: a glossary term repeats within its song (case-insensitive).
	DuplicateTerm Kind = "DuplicateTerm"
	// MissingColumn: a required header is absent.
	MissingColumn Kind = "MissingColumn"
	// UnknownColumn: a closed-schema table has a header it does not recognise.
	UnknownColumn Kind = "UnknownColumn"
	// DuplicateColumn: the same header appears twice in one table.
	DuplicateColumn Kind = "DuplicateColumn"
	// InvalidMeta: the meta sheet lacks catalogVersion or it is not an integer.
	InvalidMeta Kind = "InvalidMeta"
	// EmptyTable: the songs table has no data rows.
	EmptyTable Kind = "EmptyTable"
)

// Failure is one broken rule in one row.
type Failure struct {
	Kind  Kind
	Table string
	// Row is the 1-based sheet row, 0 when the failure is not tied to a row.
	Row int
	// Key identifies the record (song id, songId/versionId, term or column).
	Key   string
	Field string
	Rule  string
}

// Location renders "songs row 4" or just the table name.
func (f Failure) Location() string {
	if f.Row > 0 {
		return fmt.Sprintf("%s row %d", f.Table, f.Row)
	}
	return f.Table
}

func (f Failure) Error() string {
	var b strings.Builder
	b.WriteString(f.Location())
	b.WriteString(": ")
	b.WriteString(string(f.Kind))
	if f.Field != "" {
		b.WriteString(" ")
		b.WriteString(f.Field)
	}
	b.WriteString(": ")
	b.WriteString(f.Rule)
	if f.Key != "" {
		b.WriteString(" (")
		b.WriteString(f.Key)
		b.WriteString(")")
	}
	return b.String()
}

// Failures is the accumulated failure report of one build.
type Failures []Failure

// Error returns a compact summary of the failures.
func (fs Failures) Error() string {
	switch len(fs) {
	case 0:
		return "no validation failures"
	case 1:
		return fs[0].Error()
	default:
		return fmt.Sprintf("%s (and %d more)", fs[0].Error(), len(fs)-1)
	}
}

// Is reports ErrValidation so callers can classify the error without a type
// assertion.
func (fs Failures) Is(target error) bool {
	return target == ErrValidation
}

// Count returns how many failures have the given kind.
func (fs Failures) Count(kind Kind) int {
	n := 0
	for _, f := range fs {
		if f.Kind == kind {
			n++
		}
	}
	return n
}

// AsFailures extracts the failure list from an error returned by Build.
func AsFailures(err error) (Failures, bool) {
	if err == nil {
		return nil, false
	}
	var list Failures
	if errors.As(err, &list) {
		return list, true
	}
	return nil, false
}

// Warning is a non-fatal content issue.
type Warning struct {
	Kind   string
	Key    string
	Detail string
}

// WarnConflictingDefinition: one term has different definitions across songs.
const WarnConflictingDefinition = "ConflictingDefinition"

// WarnSimilarLyrics: two songs have nearly the same lyrics, usually one song
// entered twice under different ids.
const WarnSimilarLyrics = "SimilarLyrics"

func (w Warning) String() string {
	return fmt.Sprintf("%s %q: %s", w.Kind, w.Key, w.Detail)
}
