package workbook

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// encoding/csv folds "\r\n" inside quoted fields to "\n". Cells keep their
// line endings, so embedded CRLF pairs are swapped for a marker absent from
// the data before parsing and restored afterwards.
var crlfMarkers = []string{"\uFDD0", "\uFDD1", "\uFDD2", "\uFDD3"}

func parseCSV(data []byte) ([][]string, error) {
	marker, err := pickMarker(data)
	if err != nil {
		return nil, err
	}
	reader := csv.NewReader(bytes.NewReader(protectQuotedCRLF(data, marker)))
	reader.FieldsPerRecord = -1

	var out [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		for i, cell := range record {
			record[i] = strings.ReplaceAll(cell, marker, "\r\n")
		}
		out = append(out, record)
	}
}

func pickMarker(data []byte) (string, error) {
	for _, m := range crlfMarkers {
		if !bytes.Contains(data, []byte(m)) {
			return m, nil
		}
	}
	return "", fmt.Errorf("csv contains every reserved line-break marker")
}

// protectQuotedCRLF replaces CRLF pairs that sit inside quoted fields. Escaped
// quotes ("") toggle the state twice and leave it unchanged.
func protectQuotedCRLF(data []byte, marker string) []byte {
	if !bytes.Contains(data, []byte("\r\n")) {
		return data
	}
	var buf bytes.Buffer
	buf.Grow(len(data))
	quoted := false
	for i := 0; i < len(data); i++ {
		c := data[i]
		switch {
		case c == '"':
			quoted = !quoted
		case quoted && c == '\r' && i+1 < len(data) && data[i+1] == '\n':
			buf.WriteString(marker)
			i++
			continue
		}
		buf.WriteByte(c)
	}
	return buf.Bytes()
}
