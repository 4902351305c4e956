// Package config loads aam.yml and AAM_* environment variables into one
// Config and converts it into the settings each subsystem takes.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/koustreak/aam/internal/annotation"
	"github.com/koustreak/aam/internal/database"
	"github.com/koustreak/aam/internal/filestore"
	"github.com/koustreak/aam/internal/logger"
	"github.com/koustreak/aam/internal/schemainfo"
	"github.com/koustreak/aam/internal/textable"
)

// EnvPrefix is prepended to every environment variable: database.dsn is
// read from AAM_DATABASE_DSN.
const EnvPrefix = "AAM"

// Config represents the aam configuration
type Config struct {
	RootDir      string         `mapstructure:"root_dir"`
	Manifest     string         `mapstructure:"manifest"`
	Translations string         `mapstructure:"translations"`
	Models       string         `mapstructure:"models"`
	DryRun       bool           `mapstructure:"dry_run"`
	Debug        bool           `mapstructure:"debug"`
	Concurrency  int            `mapstructure:"concurrency"`
	Log          LogConfig      `mapstructure:"log"`
	Database     DatabaseConfig `mapstructure:"database"`
	Export       ExportConfig   `mapstructure:"export"`
	Server       ServerConfig   `mapstructure:"server"`
	Style        StyleConfig    `mapstructure:"style"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DatabaseConfig selects live introspection. An empty driver means the
// manifest alone describes every table.
type DatabaseConfig struct {
	Driver         string        `mapstructure:"driver"`
	DSN            string        `mapstructure:"dsn"`
	Schema         string        `mapstructure:"schema"`
	MaxConns       int32         `mapstructure:"max_conns"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

// ExportConfig selects where schema_info.txt goes.
type ExportConfig struct {
	Target    string `mapstructure:"target"`
	Path      string `mapstructure:"path"`
	Key       string `mapstructure:"key"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Region    string `mapstructure:"region"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

// ServerConfig represents preview server configuration
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// StyleConfig starts from a preset; every set field overrides it.
type StyleConfig struct {
	Preset          string   `mapstructure:"preset"`
	Marker          string   `mapstructure:"marker"`
	SortDiagnostics *bool    `mapstructure:"sort_diagnostics"`
	RelationNotes   *bool    `mapstructure:"relation_notes"`
	Language        string   `mapstructure:"language"`
	Border          string   `mapstructure:"border"`
	BooleanStyle    string   `mapstructure:"boolean_style"`
	SkipColumns     []string `mapstructure:"skip_columns"`
}

// defaults are the values used when neither the file nor the environment
// sets a key.
var defaults = map[string]any{
	"root_dir":      ".",
	"manifest":      "db/aam.yml",
	"concurrency":   4,
	"log.level":     "info",
	"log.format":    "console",
	"export.target": "local",
	"export.path":   ".",
	"export.key":    annotation.SchemaInfoKey,
	"server.addr":   ":8080",
	"style.preset":  "generator",
}

// unsetKeys have no default but can still come from the environment.
var unsetKeys = []string{
	"translations", "models", "dry_run", "debug",
	"database.driver", "database.dsn", "database.schema", "database.max_conns", "database.connect_timeout",
	"export.bucket", "export.endpoint", "export.access_key", "export.secret_key", "export.region", "export.use_ssl",
	"style.marker", "style.sort_diagnostics", "style.relation_notes", "style.language",
	"style.border", "style.boolean_style", "style.skip_columns",
}

// Options controls where Load looks.
type Options struct {
	// File is an explicit config file. Empty means aam.yml or aam.yaml in
	// Dir, if present.
	File string

	// Dir is searched when File is empty. Empty means the working directory.
	Dir string

	// Overrides win over the file and the environment. Keys use the
	// dotted form, e.g. "style.preset".
	Overrides map[string]any
}

// Load reads the configuration. A missing aam.yml is not an error; an
// explicit File that cannot be read is.
func Load(opts Options) (*Config, error) {
	v := viper.New()

	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, k := range unsetKeys {
		if err := v.BindEnv(k); err != nil {
			return nil, err
		}
	}

	if opts.File != "" {
		v.SetConfigFile(opts.File)
	} else {
		dir := opts.Dir
		if dir == "" {
			dir = "."
		}
		v.SetConfigName("aam")
		v.SetConfigType("yaml")
		v.AddConfigPath(dir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.File != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	for k, val := range opts.Overrides {
		v.Set(k, val)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if used := v.ConfigFileUsed(); used != "" {
		cfg.resolvePaths(filepath.Dir(used))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// resolvePaths makes relative paths from the file relative to the file's
// directory.
func (c *Config) resolvePaths(base string) {
	for _, p := range []*string{&c.RootDir, &c.Manifest, &c.Translations, &c.Export.Path} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	if c.Concurrency < 0 {
		return fmt.Errorf("concurrency must not be negative, got: %d", c.Concurrency)
	}
	switch c.Style.Preset {
	case "generator", "legacy":
	default:
		return fmt.Errorf("style.preset must be generator or legacy, got: %s", c.Style.Preset)
	}
	switch c.Style.Border {
	case "", "box", "org":
	default:
		return fmt.Errorf("style.border must be box or org, got: %s", c.Style.Border)
	}
	switch c.Style.BooleanStyle {
	case "", "letter", "digit":
	default:
		return fmt.Errorf("style.boolean_style must be letter or digit, got: %s", c.Style.BooleanStyle)
	}
	switch c.Style.Language {
	case "", "en", "ja":
	default:
		return fmt.Errorf("style.language must be en or ja, got: %s", c.Style.Language)
	}
	if c.Database.Driver != "" {
		if _, err := c.DatabaseConfig(); err != nil {
			return err
		}
	}
	if _, err := filestore.ParseProvider(c.Export.Target); err != nil {
		return err
	}
	return nil
}

// StyleOptions returns the generator options: the preset with every set
// style field applied.
func (c *Config) StyleOptions() schemainfo.Options {
	s := c.Style
	opts := schemainfo.Preset(s.Preset)
	if s.Marker != "" {
		opts.Marker = s.Marker
	}
	if s.Language != "" {
		opts.Language = schemainfo.ParseLanguage(s.Language)
	}
	switch s.Border {
	case "box":
		opts.Border = textable.BorderBox
	case "org":
		opts.Border = textable.BorderOrg
	}
	if s.BooleanStyle != "" {
		opts.BooleanStyle = schemainfo.ParseBooleanStyle(s.BooleanStyle)
	}
	if s.SortDiagnostics != nil {
		opts.SortDiagnostics = *s.SortDiagnostics
	}
	if s.RelationNotes != nil {
		opts.RelationNotes = *s.RelationNotes
	}
	opts.SkipColumns = s.SkipColumns
	opts.Debug = c.Debug
	return opts
}

// RunOptions returns the annotation runner options.
func (c *Config) RunOptions() annotation.Options {
	return annotation.Options{
		RootDir:     c.RootDir,
		Models:      c.Models,
		DryRun:      c.DryRun,
		Concurrency: c.Concurrency,
	}
}

// DatabaseConfig returns the connection settings. It fails when no driver
// is configured.
func (c *Config) DatabaseConfig() (*database.Config, error) {
	driver, err := database.ParseDriver(c.Database.Driver)
	if err != nil {
		return nil, err
	}
	dc := database.DefaultConfig(driver, c.Database.DSN)
	dc.Schema = c.Database.Schema
	if c.Database.MaxConns > 0 {
		dc.MaxConns = c.Database.MaxConns
	}
	if c.Database.ConnectTimeout > 0 {
		dc.ConnectTimeout = c.Database.ConnectTimeout
	}
	if err := dc.Validate(); err != nil {
		return nil, err
	}
	return dc, nil
}

// ExportConfig returns the export sink settings.
func (c *Config) ExportConfig() (*filestore.Config, error) {
	provider, err := filestore.ParseProvider(c.Export.Target)
	if err != nil {
		return nil, err
	}
	fc := &filestore.Config{
		Provider:  provider,
		Path:      c.Export.Path,
		Endpoint:  c.Export.Endpoint,
		AccessKey: c.Export.AccessKey,
		SecretKey: c.Export.SecretKey,
		UseSSL:    c.Export.UseSSL,
		Region:    c.Export.Region,
		Bucket:    c.Export.Bucket,
	}
	if err := fc.Validate(); err != nil {
		return nil, err
	}
	return fc, nil
}

// LoggerConfig returns the logger settings. Debug forces debug level.
func (c *Config) LoggerConfig() *logger.Config {
	lc := logger.DefaultConfig()
	if c.Log.Level != "" {
		lc.Level = c.Log.Level
	}
	if c.Log.Format != "" {
		lc.Format = c.Log.Format
	}
	if c.Debug {
		lc.Level = "debug"
	}
	return lc
}
