package config

const (
	defaultInputPath          = "input/istoki.xlsx"
	defaultDistDir            = "dist"
	defaultDocsDir            = "docs"
	defaultStateDir           = "~/.local/share/istoki"
	defaultPagesBase          = "https://aleyakim.github.io/istoki-catalog/"
	defaultSongsFile          = "songs.json"
	defaultManifestFile       = "latest.json"
	defaultIndexFile          = "index.html"
	defaultSongOrder          = SongOrderSource
	defaultLanguage           = "русский"
	defaultRightsStatus       = "NONE"
	defaultNtfyTimeout        = 10
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultDotEnvFile         = ".env"
	strictVersioningEnv       = "STRICT_VERSIONING"
	defaultConfigPathTemplate = "~/.config/istoki/config.toml"
	defaultProjectConfigFile  = "istoki.toml"
)

// Song ordering modes for the published catalog.
const (
	SongOrderSource = "source"
	SongOrderID     = "id"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			Input:    defaultInputPath,
			DistDir:  defaultDistDir,
			DocsDir:  defaultDocsDir,
			StateDir: defaultStateDir,
		},
		Publish: Publish{
			PagesBase:    defaultPagesBase,
			SongsFile:    defaultSongsFile,
			ManifestFile: defaultManifestFile,
			IndexFile:    defaultIndexFile,
			History:      true,
		},
		Catalog: Catalog{
			SongOrder:           defaultSongOrder,
			DefaultLanguage:     defaultLanguage,
			DefaultRightsStatus: defaultRightsStatus,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNtfyTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
