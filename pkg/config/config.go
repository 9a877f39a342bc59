// Package config loads run settings from a TOML file, a .env file and the
// process environment.
//
// Precedence, lowest first: built-in defaults, the TOML file, environment
// variables. Command-line flags are applied on top by the caller.
//
//	[output]
//	dir = "project"
//	create_meta = true
//	prettify = true
//
//	[assets]
//	extract_textures = true
//	extract_audio = true
//	extract_animations = true
//
//	[advanced]
//	max_parallel = 4
//	image_cache_size = 512
package config

import (
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/matzehuels/ccreverse/pkg/errors"
)

// DefaultFile is the config file looked up in the working directory.
const DefaultFile = "ccreverse.toml"

// Environment variables read by ApplyEnv.
const (
	EnvSource       = "CCREVERSE_SOURCE"
	EnvSourceLegacy = "CC_SOURCE_PATH"
	EnvOutput       = "CCREVERSE_OUTPUT"
)

// Config is the full run configuration.
type Config struct {
	Source   string   `toml:"source"`
	Output   Output   `toml:"output"`
	Assets   Assets   `toml:"assets"`
	Advanced Advanced `toml:"advanced"`
}

// Output controls what is written.
type Output struct {
	Dir        string `toml:"dir"`
	CreateMeta bool   `toml:"create_meta"`
	Prettify   bool   `toml:"prettify"`
}

// Assets selects the asset families to extract.
type Assets struct {
	ExtractTextures   bool `toml:"extract_textures"`
	ExtractAudio      bool `toml:"extract_audio"`
	ExtractAnimations bool `toml:"extract_animations"`
}

// Advanced holds tuning knobs.
type Advanced struct {
	MaxParallel    int `toml:"max_parallel"`
	ImageCacheSize int `toml:"image_cache_size"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Output: Output{
			Dir:        "project",
			CreateMeta: true,
			Prettify:   true,
		},
		Assets: Assets{
			ExtractTextures:   true,
			ExtractAudio:      true,
			ExtractAnimations: true,
		},
		Advanced: Advanced{
			MaxParallel:    4,
			ImageCacheSize: 512,
		},
	}
}

// Load returns the defaults overlaid with the TOML file at path. An empty
// path means DefaultFile, which may be absent; an explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		if os.IsNotExist(err) {
			return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file not found").WithPath(path)
		}
		return cfg, errors.Wrap(errors.ErrCodeIO, err, "stat config").WithPath(path)
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config").WithPath(path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, errors.New(errors.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(keys, ", ")).WithPath(path)
	}
	return cfg, cfg.Validate()
}

// LoadEnv loads variables from .env files into the process environment.
// Missing files are ignored; variables already set are kept.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "load %s", f)
		}
	}
	return nil
}

// ApplyEnv overlays environment variables on c. lookup is usually
// os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvSource); ok && strings.TrimSpace(v) != "" {
		c.Source = strings.TrimSpace(v)
	} else if v, ok := lookup(EnvSourceLegacy); ok && strings.TrimSpace(v) != "" {
		c.Source = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvOutput); ok && strings.TrimSpace(v) != "" {
		c.Output.Dir = strings.TrimSpace(v)
	}
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.Advanced.MaxParallel < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "advanced.max_parallel must be at least 1, got %d", c.Advanced.MaxParallel)
	}
	if c.Advanced.ImageCacheSize < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "advanced.image_cache_size must not be negative, got %d", c.Advanced.ImageCacheSize)
	}
	return nil
}
