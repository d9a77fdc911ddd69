package cli

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/ifuentes/raceway/pkg/errors"
	"github.com/ifuentes/raceway/pkg/plan"
)

// DefaultConfigFile is the workspace config looked up in the working
// directory when --config is not given.
const DefaultConfigFile = "raceway.toml"

// Cache backends selectable in the workspace config.
const (
	CacheBackendFile  = "file"
	CacheBackendRedis = "redis"
	CacheBackendMongo = "mongo"
	CacheBackendNone  = "none"
)

// Config is the workspace configuration document.
//
// A minimal workspace:
//
//	project = "project.json"
//	preset = "CL_RIC"
//
//	[[libraries]]
//	path = "materials.lib.json"
//	priority = 10
//	enabled = true
type Config struct {
	// Project is the project document path, relative to the config file.
	Project string `toml:"project"`

	// Preset selects the fill-rule preset; empty falls back to the preset
	// document's active default.
	Preset string `toml:"preset"`

	// PresetsFile is the fill-rule preset document. Created with built-in
	// defaults when missing.
	PresetsFile string `toml:"presets_file"`

	// Libraries lists the material library documents to merge, lowest
	// priority first.
	Libraries []plan.LibraryRef `toml:"libraries"`

	Cache  CacheConfig  `toml:"cache"`
	Render RenderConfig `toml:"render"`

	// baseDir resolves relative paths; set by LoadConfig.
	baseDir string `toml:"-"`
}

// CacheConfig selects and parameterizes the result-cache backend.
type CacheConfig struct {
	Backend         string `toml:"backend"`
	Dir             string `toml:"dir"`
	RedisURL        string `toml:"redis_url"`
	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// RenderConfig parameterizes drawing output.
type RenderConfig struct {
	// SpacingMM is the cable clearance used in cross-section packing.
	SpacingMM float64 `toml:"spacing_mm"`
}

// DefaultConfig returns the configuration used when no workspace file
// exists: a project.json next to the working directory and a file cache.
func DefaultConfig() *Config {
	return &Config{
		Project:     "project.json",
		PresetsFile: "fill_rules.json",
		Cache:       CacheConfig{Backend: CacheBackendFile},
		Render:      RenderConfig{SpacingMM: 1.0},
	}
}

// LoadConfig reads the workspace config. An empty path tries
// DefaultConfigFile and falls back to defaults when it does not exist; an
// explicit path must exist.
func LoadConfig(path string) (*Config, error) {
	explicit := path != ""
	if path == "" {
		path = DefaultConfigFile
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if explicit {
			return nil, errors.New(errors.ErrCodeFileNotFound, "config not found: %s", path)
		}
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	cfg.baseDir = filepath.Dir(path)
	if cfg.Render.SpacingMM <= 0 {
		cfg.Render.SpacingMM = 1.0
	}
	return cfg, nil
}

// ResolvePath resolves a config-relative path.
func (c *Config) ResolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) || c.baseDir == "" {
		return p
	}
	return filepath.Join(c.baseDir, p)
}

// EnabledLibraries returns the enabled library refs sorted by ascending
// priority, so higher-priority documents merge later and win collisions.
func (c *Config) EnabledLibraries() []plan.LibraryRef {
	var refs []plan.LibraryRef
	for _, ref := range c.Libraries {
		if ref.Enabled {
			refs = append(refs, ref)
		}
	}
	sort.SliceStable(refs, func(i, j int) bool {
		return refs[i].Priority < refs[j].Priority
	})
	return refs
}
