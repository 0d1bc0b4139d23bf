// Package config loads wastechart settings from a TOML file and the
// environment.
//
// Every field has a default, so an absent file is not an error. Values are
// applied in order: defaults, the TOML file, then environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	errs "github.com/c112110130-dot/waste-system-django-sub002/pkg/errors"
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/theme"
)

// Environment overrides.
const (
	EnvRedisAddr = "WASTECHART_REDIS_ADDR"
	EnvFont      = "WASTECHART_FONT"
	EnvAddr      = "WASTECHART_ADDR"
	EnvCacheDir  = "WASTECHART_CACHE_DIR"
)

// Cache backends.
const (
	CacheNone  = "none"
	CacheFile  = "file"
	CacheRedis = "redis"
)

// Config is the full settings tree.
type Config struct {
	Chart  Chart                  `toml:"chart"`
	Export Export                 `toml:"export"`
	Theme  map[string]theme.Theme `toml:"theme"`
	Cache  Cache                  `toml:"cache"`
	Server Server                 `toml:"server"`
	Log    Log                    `toml:"log"`
}

// Chart holds render defaults.
type Chart struct {
	Width           int    `toml:"width"`
	Height          int    `toml:"height"`
	TickCount       int    `toml:"tick_count"`
	FineGrid        bool   `toml:"fine_grid"`
	CategoryCaption string `toml:"category_caption"`
}

// Export holds export defaults.
type Export struct {
	Font          string  `toml:"font"`
	SheetType     string  `toml:"sheet_type"`
	SeparateUnits bool    `toml:"separate_units"`
	RasterScale   float64 `toml:"raster_scale"`
	ScratchDir    string  `toml:"scratch_dir"`
	PrintCommand  string  `toml:"print_command"`
	PrintQueue    string  `toml:"print_queue"`
}

// Cache selects and configures the artifact cache.
type Cache struct {
	Backend   string   `toml:"backend"`
	Dir       string   `toml:"dir"`
	RedisAddr string   `toml:"redis_addr"`
	RedisDB   int      `toml:"redis_db"`
	TTL       Duration `toml:"ttl"`
}

// Server configures the HTTP service.
type Server struct {
	Addr       string   `toml:"addr"`
	SessionTTL Duration `toml:"session_ttl"`
}

// Log configures log output.
type Log struct {
	File       string `toml:"file"`
	Level      string `toml:"level"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
}

// Duration is a time.Duration written as "90s" or "24h" in TOML.
type Duration struct{ time.Duration }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Chart: Chart{
			Width:     800,
			Height:    450,
			TickCount: 5,
		},
		Export: Export{
			RasterScale: 2,
		},
		Theme: theme.Defaults(),
		Cache: Cache{
			Backend: CacheFile,
			Dir:     DefaultCacheDir(),
			TTL:     Duration{24 * time.Hour},
		},
		Server: Server{
			Addr:       ":8080",
			SessionTTL: Duration{time.Hour},
		},
		Log: Log{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// DefaultCacheDir is ~/.cache/wastechart, or a temp directory when the
// user cache directory is unknown.
func DefaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "wastechart-cache")
	}
	return filepath.Join(dir, "wastechart")
}

// DefaultPath is the config file read when none is given.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "wastechart", "config.toml")
}

// Load reads path over the defaults and applies environment overrides.
// A missing file at the default path is ignored; a missing file that was
// asked for explicitly is an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		if err := cfg.decodeFile(path); err != nil {
			if explicit || !errors.Is(err, fs.ErrNotExist) {
				return nil, err
			}
		}
	}
	cfg.applyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes TOML text over the defaults without reading the
// environment.
func Parse(data string) (*Config, error) {
	cfg := Default()
	file := Default()
	file.Theme = nil
	if _, err := toml.Decode(data, file); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "parse config")
	}
	cfg.merge(file)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decodeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	parsed, err := Parse(string(data))
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	*c = *parsed
	return nil
}

// merge copies f over c. Themes are merged per field so a file may set
// only the colours it changes.
func (c *Config) merge(f *Config) {
	themes := theme.Set(c.Theme).Merge(f.Theme)
	*c = *f
	c.Theme = themes
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv(EnvRedisAddr); v != "" {
		c.Cache.RedisAddr = v
		c.Cache.Backend = CacheRedis
	}
	if v := getenv(EnvFont); v != "" {
		c.Export.Font = v
	}
	if v := getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
	if v := getenv(EnvCacheDir); v != "" {
		c.Cache.Dir = v
	}
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	bad := func(field string, v any) error {
		return errs.New(errs.ErrCodeInvalidConfig, "invalid %s: %v", field, v)
	}
	if c.Chart.Width <= 0 || c.Chart.Height <= 0 {
		return bad("chart size", strconv.Itoa(c.Chart.Width)+"x"+strconv.Itoa(c.Chart.Height))
	}
	if c.Chart.TickCount != 5 && c.Chart.TickCount != 10 {
		return bad("chart.tick_count", c.Chart.TickCount)
	}
	if c.Export.RasterScale <= 0 {
		return bad("export.raster_scale", c.Export.RasterScale)
	}
	switch c.Cache.Backend {
	case CacheNone, CacheFile:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return bad("cache.redis_addr", `""`)
		}
	default:
		return bad("cache.backend", c.Cache.Backend)
	}
	for name, t := range c.Theme {
		for _, hex := range []string{t.Background, t.Text, t.Grid, t.Header} {
			if err := errs.ValidateHexColor(hex); err != nil {
				return bad("theme."+name, hex)
			}
		}
	}
	return nil
}

// Themes returns the configured theme set.
func (c *Config) Themes() theme.Set { return theme.Set(c.Theme) }
