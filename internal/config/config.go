// Package config loads the promptguide YAML configuration.
//
// Order: defaults -> config file -> ApplyDefaults -> ResolvePaths -> Validate.
// Command-line flags are applied by the caller after Load.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

const (
	appDir       = "promptguide"
	fileName     = "config.yaml"
	databaseName = "promptguide.db"
)

// Config holds the application configuration.
type Config struct {
	// Database is the SQLite file backing favorites and the theme.
	Database string `yaml:"database" validate:"required"`

	// Catalog is an optional CUE file replacing the embedded catalog.
	Catalog string `yaml:"catalog,omitempty"`

	// DefaultCategory is the category shown at startup.
	DefaultCategory string `yaml:"default_category,omitempty" validate:"omitempty,max=64,slug"`

	LogLevel string `yaml:"log_level" validate:"oneof=debug info warn error"`

	// LogFile receives logs while the TUI owns the terminal.
	LogFile string `yaml:"log_file,omitempty"`

	// Seed fixes the quiz randomness. 0 means time-based.
	Seed uint64 `yaml:"seed,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Database: DefaultDatabasePath(),
		LogLevel: "info",
	}
}

// configHome returns $XDG_CONFIG_HOME, falling back to the OS config dir.
func configHome() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return dir
	}
	return "."
}

// DefaultPath is where Load looks when no path is given.
func DefaultPath() string {
	return filepath.Join(configHome(), appDir, fileName)
}

// DefaultDatabasePath is the database location when none is configured.
func DefaultDatabasePath() string {
	return filepath.Join(configHome(), appDir, databaseName)
}

// Load reads the configuration at path. An empty path means DefaultPath,
// which may be absent; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			cfg.ApplyDefaults()
			return cfg, cfg.Validate()
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := decode(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.ApplyDefaults()
	cfg.ResolvePaths(filepath.Dir(path))
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// decode parses YAML into cfg, rejecting unknown fields. An empty
// document leaves cfg unchanged.
func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// ApplyDefaults fills in missing values.
func (c *Config) ApplyDefaults() {
	if c.Database == "" {
		c.Database = DefaultDatabasePath()
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	c.LogLevel = strings.ToLower(c.LogLevel)
}

// ResolvePaths makes relative file paths relative to baseDir.
func (c *Config) ResolvePaths(baseDir string) {
	for _, p := range []*string{&c.Database, &c.Catalog, &c.LogFile} {
		if *p == "" || *p == ":memory:" || filepath.IsAbs(*p) {
			continue
		}
		*p = filepath.Join(baseDir, *p)
	}
}

var slugRegex = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugRegex.MatchString(fl.Field().String())
	})
	return v
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	name := yamlName(fe.StructField())
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", name, fe.Param(), fe.Value())
	case "slug":
		return fmt.Sprintf("%s must be a lowercase slug, got %q", name, fe.Value())
	default:
		return fmt.Sprintf("%s failed %s", name, fe.Tag())
	}
}

var yamlNames = map[string]string{
	"Database":        "database",
	"Catalog":         "catalog",
	"DefaultCategory": "default_category",
	"LogLevel":        "log_level",
	"LogFile":         "log_file",
	"Seed":            "seed",
}

func yamlName(field string) string {
	if n, ok := yamlNames[field]; ok {
		return n
	}
	return field
}

// Level returns the zap level for LogLevel.
func (c *Config) Level() zapcore.Level {
	lvl, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}
