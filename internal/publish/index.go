package publish

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"strings"

	"istoki/internal/catalog"
)

//go:embed index.html.tmpl
var indexTemplateText string

var indexTemplate = template.Must(template.New("index").Funcs(template.FuncMap{
	"join": strings.Join,
}).Parse(indexTemplateText))

// HubGroup is one section of the index page.
type HubGroup struct {
	Name  string
	Songs []catalog.Song
}

type indexPage struct {
	Manifest     Manifest
	SongCount    int
	SongsFile    string
	ManifestFile string
	Hubs         []HubGroup
}

// GroupByHub groups songs by hub. Hubs appear in order of their first song;
// songs keep catalog order within a hub.
func GroupByHub(songs []catalog.Song) []HubGroup {
	var groups []HubGroup
	index := make(map[string]int)
	for _, song := range songs {
		i, ok := index[song.Hub]
		if !ok {
			i = len(groups)
			index[song.Hub] = i
			groups = append(groups, HubGroup{Name: song.Hub})
		}
		groups[i].Songs = append(groups[i].Songs, song)
	}
	return groups
}

// RenderIndex renders the static index.html listing.
func RenderIndex(cat *catalog.Catalog, m Manifest, songsFile, manifestFile string) ([]byte, error) {
	if cat == nil {
		return nil, fmt.Errorf("render index: catalog is nil")
	}
	page := indexPage{
		Manifest:     m,
		SongCount:    cat.SongCount(),
		SongsFile:    songsFile,
		ManifestFile: manifestFile,
		Hubs:         GroupByHub(cat.Songs),
	}
	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, page); err != nil {
		return nil, fmt.Errorf("render index: %w", err)
	}
	return buf.Bytes(), nil
}
