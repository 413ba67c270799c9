package catalog

import (
	"bytes"
	"encoding/json"
)

// Song is one published catalog entry. Field order is the key order of
// songs.json.
type Song struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	AltTitles     string          `json:"altTitles"`
	Hub           string          `json:"hub"`
	RegionDetail  string          `json:"regionDetail"`
	Genre         string          `json:"genre"`
	Themes        []string        `json:"themes"`
	CossackHost   string          `json:"cossackHost"`
	LanguageTag   string          `json:"languageTag"`
	ContextShort  string          `json:"contextShort"`
	Lyrics        string          `json:"lyrics"`
	Glossary      []GlossaryEntry `json:"glossary"`
	SourceNote    string          `json:"sourceNote"`
	AudioURL      string          `json:"audioUrl"`
	MinusURL      string          `json:"minusUrl"`
	VideoURL      string          `json:"videoUrl"`
	RightsStatus  string          `json:"rightsStatus"`
	ExternalLinks []string        `json:"externalLinks"`
	Versions      []Version       `json:"versions"`
}

// Version is an alternate rendition of a song. Empty fields are omitted from
// the published JSON.
type Version struct {
	ID         string
	Title      string
	Lyrics     string
	SourceNote string
	AudioURL   string
	MinusURL   string
	VideoURL   string
	// Extra carries versions columns outside the known set, in sheet order.
	Extra []Field
}

// Field is a named value from an open-schema column.
type Field struct {
	Name  string
	Value string
}

// MarshalJSON writes id, the known fields, then Extra, skipping empty values.
func (v Version) MarshalJSON() ([]byte, error) {
	fields := []Field{
		{"id", v.ID},
		{"title", v.Title},
		{"lyrics", v.Lyrics},
		{"sourceNote", v.SourceNote},
		{"audioUrl", v.AudioURL},
		{"minusUrl", v.MinusURL},
		{"videoUrl", v.VideoURL},
	}
	fields = append(fields, v.Extra...)

	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for i, field := range fields {
		if field.Value == "" && i > 0 {
			continue
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		if err := writeJSONString(&buf, field.Name); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := writeJSONString(&buf, field.Value); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeJSONString(buf *bytes.Buffer, value string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(value); err != nil {
		return err
	}
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
	return nil
}

// GlossaryEntry explains one term used in a song's lyrics.
type GlossaryEntry struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
}

// Meta holds the workbook-level settings from the meta sheet.
type Meta struct {
	CatalogVersion int
	BaseMediaURL   string
}

// Catalog is the assembled, fully validated build output.
type Catalog struct {
	Meta  Meta
	Songs []Song
}

// SongCount returns the number of songs in the catalog.
func (c *Catalog) SongCount() int {
	if c == nil {
		return 0
	}
	return len(c.Songs)
}
