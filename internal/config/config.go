package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dshills/glance/internal/config/loader"
	"github.com/dshills/glance/internal/renderer/core"
)

// Default values.
const (
	DefaultLogLevel = "info"
	DefaultMarker   = "~"
)

// LoggingSettings configures the session log.
type LoggingSettings struct {
	// Level is the minimum level written: debug, info, warn or error.
	Level string
	// File receives log lines. Empty discards them.
	File string
}

// ViewSettings configures how a file is drawn.
type ViewSettings struct {
	// Marker fills rows below the last line of the file.
	Marker string
}

// Settings is the resolved configuration.
type Settings struct {
	Logging LoggingSettings
	View    ViewSettings
}

// DefaultSettings returns the built-in defaults.
func DefaultSettings() Settings {
	return Settings{
		Logging: LoggingSettings{Level: DefaultLogLevel},
		View:    ViewSettings{Marker: DefaultMarker},
	}
}

// setting binds a dotted path to the field it fills.
type setting struct {
	path  string
	field func(*Settings) *string
}

var knownSettings = []setting{
	{"logging.level", func(s *Settings) *string { return &s.Logging.Level }},
	{"logging.file", func(s *Settings) *string { return &s.Logging.File }},
	{"view.marker", func(s *Settings) *string { return &s.View.Marker }},
}

func lookupSetting(path string) (setting, bool) {
	for _, s := range knownSettings {
		if s.path == path {
			return s, true
		}
	}
	return setting{}, false
}

// Config loads and holds glance settings.
type Config struct {
	settings Settings

	fs            loader.FileSystem
	path          string // explicit -config path
	userConfigDir string
	env           *loader.EnvLoader

	source  string
	unknown []*ValidationError
}

// Option configures a Config instance.
type Option func(*Config)

// WithPath sets an explicit config file. Unlike the default location, a
// missing explicit file is an error.
func WithPath(path string) Option {
	return func(c *Config) {
		c.path = path
	}
}

// WithUserConfigDir sets the directory searched for glance/config.toml.
func WithUserConfigDir(dir string) Option {
	return func(c *Config) {
		c.userConfigDir = dir
	}
}

// WithFileSystem sets the file system config files are read from.
func WithFileSystem(fsys loader.FileSystem) Option {
	return func(c *Config) {
		c.fs = fsys
	}
}

// WithEnvLookup sets the function used to read environment variables.
func WithEnvLookup(lookup func(string) (string, bool)) Option {
	return func(c *Config) {
		c.env.SetLookup(lookup)
	}
}

// New creates a new Config instance with the given options.
// Settings hold the defaults until Load is called.
func New(opts ...Option) *Config {
	c := &Config{
		settings: DefaultSettings(),
		fs:       loader.DefaultFS(),
		env:      loader.NewEnvLoader(loader.EnvPrefix),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.userConfigDir == "" {
		c.userConfigDir = defaultUserConfigDir()
	}

	return c
}

// defaultUserConfigDir returns the platform config directory, or "" when
// there is none.
func defaultUserConfigDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return dir
}

// FilePath returns the config file Load reads: the explicit path if set,
// otherwise glance/config.toml under the user config directory.
func (c *Config) FilePath() string {
	if c.path != "" {
		return c.path
	}
	if c.userConfigDir == "" {
		return ""
	}
	return filepath.Join(c.userConfigDir, "glance", "config.toml")
}

// Load resolves settings from defaults, the config file and the
// environment, then validates the result.
func (c *Config) Load(_ context.Context) error {
	settings := DefaultSettings()
	c.source = ""
	c.unknown = nil

	if err := c.loadFile(&settings); err != nil {
		return err
	}

	envMap, err := c.env.Load()
	if err != nil {
		return fmt.Errorf("loading environment: %w", err)
	}
	if err := c.apply(&settings, "environment", envMap); err != nil {
		return err
	}

	if err := Validate(settings); err != nil {
		return err
	}
	c.settings = settings
	return nil
}

func (c *Config) loadFile(settings *Settings) error {
	path := c.FilePath()
	if path == "" {
		return nil
	}

	if c.path != "" {
		if _, err := c.fs.Stat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("%w: %s", ErrFileNotFound, path)
			}
			return fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	data, err := loader.NewTOMLLoaderWithFS(c.fs, path).Load()
	if err != nil {
		return err
	}
	if data == nil {
		return nil
	}
	c.source = path
	return c.apply(settings, path, data)
}

// apply copies the known settings found in data into settings.
// Unknown paths are recorded, not rejected.
func (c *Config) apply(settings *Settings, source string, data map[string]any) error {
	flat := make(map[string]any)
	flatten("", data, flat)

	paths := make([]string, 0, len(flat))
	for p := range flat {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, p := range paths {
		value := flat[p]
		s, ok := lookupSetting(p)
		if !ok {
			c.unknown = append(c.unknown, &ValidationError{
				Path:    p,
				Message: "unknown setting",
				Value:   value,
				Code:    ErrCodeUnknownSetting,
				Source:  source,
			})
			continue
		}
		str, ok := value.(string)
		if !ok {
			return &ValidationError{
				Path:    p,
				Message: fmt.Sprintf("expected string, got %T", value),
				Value:   value,
				Code:    ErrCodeTypeMismatch,
				Source:  source,
			}
		}
		*s.field(settings) = str
	}
	return nil
}

// flatten turns nested maps into dotted paths.
func flatten(prefix string, data map[string]any, out map[string]any) {
	for k, v := range data {
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}
		if m, ok := v.(map[string]any); ok {
			flatten(path, m, out)
			continue
		}
		out[path] = v
	}
}

// Overrides are command-line values. Empty fields are left alone.
type Overrides struct {
	LogLevel string
	LogFile  string
}

// ApplyOverrides layers command-line values over the loaded settings.
func (c *Config) ApplyOverrides(o Overrides) error {
	settings := c.settings
	if o.LogLevel != "" {
		settings.Logging.Level = o.LogLevel
	}
	if o.LogFile != "" {
		settings.Logging.File = o.LogFile
	}
	if err := Validate(settings); err != nil {
		if verr, ok := err.(*ValidationError); ok {
			verr.Source = "command line"
		}
		return err
	}
	c.settings = settings
	return nil
}

// Settings returns the resolved settings.
func (c *Config) Settings() Settings {
	return c.settings
}

// Source returns the config file that contributed to the settings, or ""
// when none was read.
func (c *Config) Source() string {
	return c.source
}

// Unknown returns the settings that were present but not recognized.
func (c *Config) Unknown() []*ValidationError {
	return c.unknown
}

// Validate checks that settings are usable.
func Validate(s Settings) error {
	switch strings.ToLower(s.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return &ValidationError{
			Path:    "logging.level",
			Message: "must be debug, info, warn or error",
			Value:   s.Logging.Level,
			Code:    ErrCodeInvalidEnum,
		}
	}

	if s.View.Marker == "" {
		return &ValidationError{
			Path:    "view.marker",
			Message: "must not be empty",
			Value:   s.View.Marker,
			Code:    ErrCodeRequiredMissing,
		}
	}
	if w := core.StringWidth(s.View.Marker); w != 1 {
		return &ValidationError{
			Path:    "view.marker",
			Message: fmt.Sprintf("must be one cell wide, is %d", w),
			Value:   s.View.Marker,
			Code:    ErrCodeOutOfRange,
		}
	}
	return nil
}
