package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/json2ansi/pkg/errors"
	"github.com/arthur-debert/json2ansi/pkg/logging"
	"github.com/arthur-debert/json2ansi/pkg/render"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	gotoml "github.com/pelletier/go-toml/v2"
)

const (
	// EnvPrefix prefixes every environment variable read as configuration.
	EnvPrefix = "JSON2ANSI_"

	userConfigFile = "json2ansi/config.toml"
)

// Config is the effective json2ansi configuration.
type Config struct {
	Width int       `koanf:"width" toml:"width"`
	Color string    `koanf:"color" toml:"color"`
	Log   LogConfig `koanf:"log" toml:"log"`
}

// LogConfig controls logging outside of the verbosity flag.
type LogConfig struct {
	File bool `koanf:"file" toml:"file"`
}

// ColorMode returns the parsed color setting.
func (c *Config) ColorMode() render.ColorMode {
	mode, _ := render.ParseColorMode(c.Color)
	return mode
}

// Validate checks values that the decoder cannot.
func (c *Config) Validate() error {
	if c.Width < 1 {
		return errors.Newf(errors.ErrConfigValid, "width must be at least 1, got %d", c.Width).
			WithDetail("key", "width")
	}
	if _, err := render.ParseColorMode(c.Color); err != nil {
		return errors.Wrapf(err, errors.ErrConfigValid, "invalid color setting %q", c.Color).
			WithDetail("key", "color")
	}
	return nil
}

// TOML renders the configuration as a TOML document.
func (c *Config) TOML() (string, error) {
	out, err := gotoml.Marshal(c)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "failed to encode configuration")
	}
	return string(out), nil
}

// LoadOptions are the caller-supplied layers.
type LoadOptions struct {
	// File is an explicit config file; it must exist when set.
	File string
	// Overrides are applied last, keyed by dotted path ("log.file").
	Overrides map[string]interface{}
}

// UserConfigPath is where the per-user config file is looked up. It
// respects XDG_CONFIG_HOME.
func UserConfigPath() string {
	return filepath.Join(xdg.ConfigHome, userConfigFile)
}

// Load merges, in order: embedded defaults, the user config file, the
// explicit config file, JSON2ANSI_* environment variables and overrides.
func Load(opts LoadOptions) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}

	// 2. User config, if present
	userPath := UserConfigPath()
	if _, err := os.Stat(userPath); err == nil {
		if err := k.Load(file.Provider(userPath), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to load %s", userPath).
				WithDetail("file", userPath)
		}
		logger.Debug().Str("path", userPath).Msg("Loaded user config")
	}

	// 3. Explicit config file
	if opts.File != "" {
		if _, err := os.Stat(opts.File); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "config file %s not found", opts.File).
				WithDetail("file", opts.File)
		}
		if err := k.Load(file.Provider(opts.File), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to load %s", opts.File).
				WithDetail("file", opts.File)
		}
		logger.Debug().Str("path", opts.File).Msg("Loaded config file")
	}

	// 4. Environment
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".")
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load env vars")
	}

	// 5. Flags
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load overrides")
		}
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigValid, "failed to decode configuration")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Debug().
		Int("width", cfg.Width).
		Str("color", cfg.Color).
		Bool("logFile", cfg.Log.File).
		Msg("Configuration loaded")
	return &cfg, nil
}
