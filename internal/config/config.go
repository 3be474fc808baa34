package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/sandeepkv93/lifecal/internal/calendar"
	"github.com/sandeepkv93/lifecal/internal/diary"
	applog "github.com/sandeepkv93/lifecal/internal/log"
	"github.com/sandeepkv93/lifecal/internal/storage"
)

// EnvPrefix maps LIFECAL_STORAGE_BACKEND to storage.backend and so on.
const EnvPrefix = "LIFECAL"

const (
	DensityComfortable = "comfortable"
	DensityCompact     = "compact"
)

type StorageConfig struct {
	Backend string `mapstructure:"backend"`
	Path    string `mapstructure:"path"`
}

type CalendarConfig struct {
	WeekStart string `mapstructure:"week_start"`
	EventsKey string `mapstructure:"events_key"`
}

type DiaryConfig struct {
	Key string `mapstructure:"key"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

type UIConfig struct {
	Density string `mapstructure:"density"`
}

// Config holds all runtime configuration. Values come from .lifecal.yaml,
// LIFECAL_* env vars and CLI flags, in viper's usual precedence.
type Config struct {
	Storage  StorageConfig  `mapstructure:"storage"`
	Calendar CalendarConfig `mapstructure:"calendar"`
	Diary    DiaryConfig    `mapstructure:"diary"`
	Log      LogConfig      `mapstructure:"log"`
	UI       UIConfig       `mapstructure:"ui"`
	Verbose  bool           `mapstructure:"verbose"`
}

// UseEnv binds LIFECAL_* variables, with nested keys joined by underscores.
func UseEnv() {
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() (Config, error) {
	viper.SetDefault("storage.backend", storage.BackendSQLite)
	viper.SetDefault("storage.path", "")
	viper.SetDefault("calendar.week_start", "sunday")
	viper.SetDefault("calendar.events_key", calendar.DefaultKey)
	viper.SetDefault("diary.key", diary.DefaultKey)
	viper.SetDefault("log.level", string(applog.LevelInfo))
	viper.SetDefault("log.file", "")
	viper.SetDefault("ui.density", DensityComfortable)
	viper.SetDefault("verbose", false)

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Normalize(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Normalize fills derived paths and rejects values nothing downstream can use.
func (c *Config) Normalize() error {
	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	if c.Storage.Backend == "" {
		c.Storage.Backend = storage.BackendSQLite
	}
	switch c.Storage.Backend {
	case storage.BackendSQLite, storage.BackendFile, storage.BackendMemory:
	default:
		return fmt.Errorf("config: storage.backend must be sqlite, file or memory, got %q", c.Storage.Backend)
	}

	if strings.TrimSpace(c.Storage.Path) == "" {
		dir := DataDir()
		if c.Storage.Backend == storage.BackendSQLite {
			c.Storage.Path = filepath.Join(dir, "lifecal.db")
		} else {
			c.Storage.Path = dir
		}
	}
	if strings.TrimSpace(c.Log.File) == "" {
		dir := c.Storage.Path
		if c.Storage.Backend == storage.BackendSQLite {
			dir = filepath.Dir(dir)
		}
		if c.Storage.Backend == storage.BackendMemory {
			dir = DataDir()
		}
		c.Log.File = filepath.Join(dir, "lifecal.log")
	}

	c.Calendar.WeekStart = strings.ToLower(strings.TrimSpace(c.Calendar.WeekStart))
	if c.Calendar.WeekStart != "monday" {
		c.Calendar.WeekStart = "sunday"
	}
	if c.Calendar.EventsKey == "" {
		c.Calendar.EventsKey = calendar.DefaultKey
	}
	if c.Diary.Key == "" {
		c.Diary.Key = diary.DefaultKey
	}
	if c.Calendar.EventsKey == c.Diary.Key {
		return fmt.Errorf("config: calendar.events_key and diary.key must differ, both are %q", c.Diary.Key)
	}

	if c.Verbose {
		c.Log.Level = string(applog.LevelDebug)
	}
	c.Log.Level = string(applog.ParseLevel(c.Log.Level))

	if c.UI.Density != DensityCompact {
		c.UI.Density = DensityComfortable
	}
	return nil
}

// DataDir is the per-user directory for snapshots and logs, falling back to
// the working directory when no config dir is known.
func DataDir() string {
	base, err := os.UserConfigDir()
	if err != nil || base == "" {
		return ".lifecal"
	}
	return filepath.Join(base, "lifecal")
}
