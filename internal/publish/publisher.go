package publish

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"istoki/internal/catalog"
	"istoki/internal/config"
	"istoki/internal/fileutil"
	"istoki/internal/logging"
	"istoki/internal/stage"
)

// LockFileName is the advisory lock held in the dist directory while publishing.
const LockFileName = ".istoki.lock"

// Options configures a Publisher.
type Options struct {
	DistDir      string
	DocsDir      string
	SongsFile    string
	ManifestFile string
	IndexFile    string
	SongsURL     string
	// StrictVersioning fails the publish when content changed but
	// catalogVersion did not increase.
	StrictVersioning bool
	// DryRun renders and checks everything but writes nothing.
	DryRun bool
	Clock  func() time.Time
	Logger *slog.Logger
}

// OptionsFromConfig maps the loaded configuration onto publisher options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		DistDir:          cfg.Paths.DistDir,
		DocsDir:          cfg.Paths.DocsDir,
		SongsFile:        cfg.Publish.SongsFile,
		ManifestFile:     cfg.Publish.ManifestFile,
		IndexFile:        cfg.Publish.IndexFile,
		SongsURL:         cfg.SongsURL(),
		StrictVersioning: cfg.Publish.StrictVersioning,
	}
}

// Artifact is one rendered output file.
type Artifact struct {
	Name     string
	Size     int
	DistPath string
	DocsPath string
}

// Result describes a finished publish.
type Result struct {
	Manifest    Manifest
	SongsSHA256 string
	Artifacts   []Artifact
	// Unchanged is true when the catalog matches what docs already serves;
	// the previous publishedAt is kept.
	Unchanged bool
	DryRun    bool
}

// Publisher writes catalog artifacts.
type Publisher struct {
	opts Options
}

// New constructs a Publisher.
func New(opts Options) *Publisher {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &Publisher{opts: opts}
}

type previousState struct {
	manifest *Manifest
	songs    []byte
}

type artifactData struct {
	name string
	data []byte
}

// Publish renders and writes the artifacts for cat.
func (p *Publisher) Publish(ctx context.Context, cat *catalog.Catalog) (*Result, error) {
	if cat == nil {
		return nil, errors.New("publish: catalog is nil")
	}
	logger := logging.NewComponentLogger(logging.WithContext(ctx, p.opts.Logger), "publisher")

	songsData, err := RenderSongs(cat.Songs)
	if err != nil {
		return nil, err
	}

	if !p.opts.DryRun {
		unlock, err := p.lock()
		if err != nil {
			return nil, err
		}
		defer unlock()
	}

	prev, err := p.readPrevious()
	if err != nil {
		return nil, err
	}
	songsChanged, err := p.songsChanged(prev, songsData)
	if err != nil {
		return nil, err
	}
	baseMediaURL := strings.TrimSpace(cat.Meta.BaseMediaURL)
	baseChanged := prev.manifest == nil || strings.TrimSpace(prev.manifest.BaseMediaURL) != baseMediaURL

	if p.opts.StrictVersioning && prev.manifest != nil {
		if err := checkVersionBump(prev.manifest, cat.Meta.CatalogVersion, songsChanged, baseChanged, baseMediaURL); err != nil {
			return nil, err
		}
	}

	manifest := Manifest{
		CatalogVersion: cat.Meta.CatalogVersion,
		SongsURL:       p.opts.SongsURL,
		BaseMediaURL:   cat.Meta.BaseMediaURL,
	}
	unchanged := prev.manifest != nil && prev.songs != nil && !songsChanged && !baseChanged &&
		prev.manifest.CatalogVersion == manifest.CatalogVersion &&
		prev.manifest.SongsURL == manifest.SongsURL &&
		prev.manifest.PublishedAt != ""
	if unchanged {
		manifest.PublishedAt = prev.manifest.PublishedAt
	} else {
		manifest.PublishedAt = FormatTimestamp(p.opts.Clock())
	}

	manifestData, err := RenderManifest(manifest)
	if err != nil {
		return nil, err
	}
	indexData, err := RenderIndex(cat, manifest, p.opts.SongsFile, p.opts.ManifestFile)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &Result{
		Manifest:    manifest,
		SongsSHA256: fileutil.SHA256Hex(songsData),
		Unchanged:   unchanged,
		DryRun:      p.opts.DryRun,
	}
	staged := []artifactData{
		{p.opts.SongsFile, songsData},
		{p.opts.ManifestFile, manifestData},
		{p.opts.IndexFile, indexData},
	}
	for _, a := range staged {
		result.Artifacts = append(result.Artifacts, Artifact{
			Name:     a.name,
			Size:     len(a.data),
			DistPath: filepath.Join(p.opts.DistDir, a.name),
			DocsPath: filepath.Join(p.opts.DocsDir, a.name),
		})
	}
	if !p.opts.DryRun {
		if err := p.write(result.Artifacts, staged); err != nil {
			return nil, err
		}
	}

	if baseMediaURL == "" {
		logging.WarnWithContext(logger, "baseMediaUrl is empty in meta sheet", "base_media_url_empty",
			logging.String(logging.FieldErrorHint, "set baseMediaUrl in the meta sheet"),
			logging.String(logging.FieldImpact, "relative media links cannot be resolved by clients"),
		)
	}
	logger.Info("catalog published",
		logging.Int("catalog_version", manifest.CatalogVersion),
		logging.Int("songs", cat.SongCount()),
		logging.String("published_at", manifest.PublishedAt),
		logging.Bool("unchanged", unchanged),
		logging.Bool("dry_run", p.opts.DryRun),
	)
	return result, nil
}

func (p *Publisher) lock() (func(), error) {
	if err := os.MkdirAll(p.opts.DistDir, 0o755); err != nil {
		return nil, fmt.Errorf("create dist dir: %w", err)
	}
	lockPath := filepath.Join(p.opts.DistDir, LockFileName)
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, stage.Wrap(stage.ErrLocked, "publish", "lock", lockPath, err)
	}
	if !ok {
		return nil, stage.Wrap(stage.ErrLocked, "publish", "lock", "another publish holds "+lockPath, nil)
	}
	return func() { _ = lock.Unlock() }, nil
}

func (p *Publisher) readPrevious() (previousState, error) {
	var prev previousState
	manifestPath := filepath.Join(p.opts.DocsDir, p.opts.ManifestFile)
	manifest, err := ReadManifest(manifestPath)
	if err != nil {
		if p.opts.StrictVersioning {
			return prev, fmt.Errorf("strict versioning: cannot compare against the published catalog: %w", err)
		}
		// Without the gate a broken manifest only means a fresh publishedAt.
		manifest = nil
	}
	prev.manifest = manifest

	songs, err := os.ReadFile(filepath.Join(p.opts.DocsDir, p.opts.SongsFile))
	switch {
	case err == nil:
		prev.songs = songs
	case !errors.Is(err, os.ErrNotExist):
		return prev, fmt.Errorf("read previous songs: %w", err)
	}
	return prev, nil
}

// songsChanged compares canonical forms of the previous and new songs.json.
// A missing previous file counts as unchanged for the versioning gate.
func (p *Publisher) songsChanged(prev previousState, songsData []byte) (bool, error) {
	if prev.songs == nil {
		return false, nil
	}
	if bytes.Equal(prev.songs, songsData) {
		return false, nil
	}
	oldCanonical, err := canonicalJSON(prev.songs)
	if err != nil {
		if p.opts.StrictVersioning {
			return false, fmt.Errorf("strict versioning: cannot parse previous songs: %w", err)
		}
		return true, nil
	}
	newCanonical, err := canonicalJSON(songsData)
	if err != nil {
		return false, fmt.Errorf("canonicalize songs: %w", err)
	}
	return !bytes.Equal(oldCanonical, newCanonical), nil
}

func checkVersionBump(prev *Manifest, version int, songsChanged, baseChanged bool, baseMediaURL string) error {
	if !songsChanged && !baseChanged {
		return nil
	}
	if version > prev.CatalogVersion {
		return nil
	}
	var details []string
	if songsChanged {
		details = append(details, "songs changed")
	}
	if baseChanged {
		details = append(details, fmt.Sprintf("baseMediaUrl changed (%q -> %q)", strings.TrimSpace(prev.BaseMediaURL), baseMediaURL))
	}
	return stage.Wrap(stage.ErrVersionNotBumped, "publish", "strict versioning",
		fmt.Sprintf("content changed but catalogVersion was not bumped: old=%d, new=%d (%s)",
			prev.CatalogVersion, version, strings.Join(details, ", ")), nil)
}

// write stages every artifact in dist before touching docs. The manifest is
// copied to docs last.
func (p *Publisher) write(artifacts []Artifact, staged []artifactData) error {
	for i, artifact := range artifacts {
		if err := fileutil.WriteFileAtomic(artifact.DistPath, staged[i].data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", artifact.DistPath, err)
		}
	}
	for _, manifestPass := range []bool{false, true} {
		for _, artifact := range artifacts {
			if (artifact.Name == p.opts.ManifestFile) != manifestPass {
				continue
			}
			if err := fileutil.CopyFileVerified(artifact.DistPath, artifact.DocsPath); err != nil {
				return fmt.Errorf("copy %s to docs: %w", artifact.Name, err)
			}
		}
	}
	return nil
}
