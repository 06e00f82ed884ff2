// Package config loads tabkeep settings from a YAML file and TABKEEP_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/Mr-Dark-debug/tabkeep/internal/tabs"
)

// EnvPrefix prefixes every environment override, e.g. TABKEEP_LOG_LEVEL.
const EnvPrefix = "TABKEEP"

// Config holds application configuration.
type Config struct {
	Style   StyleConfig   `mapstructure:"style" yaml:"style"`
	Tabs    []TabConfig   `mapstructure:"tabs" yaml:"tabs"`
	Journal JournalConfig `mapstructure:"journal" yaml:"journal"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
}

// StyleConfig is applied to every tab pane.
type StyleConfig struct {
	Style map[string]string `mapstructure:"style" yaml:"style"`
	Class string            `mapstructure:"class" yaml:"class"`
}

// TabConfig declares a tab opened at startup. Kind picks the component.
type TabConfig struct {
	Key   string         `mapstructure:"key" yaml:"key"`
	Kind  string         `mapstructure:"kind" yaml:"kind"`
	Title string         `mapstructure:"title" yaml:"title"`
	Data  map[string]any `mapstructure:"data" yaml:"data,omitempty"`
}

// JournalConfig holds lifecycle journal settings. An empty path disables it.
type JournalConfig struct {
	Path          string        `mapstructure:"path" yaml:"path"`
	BatchSize     int           `mapstructure:"batch_size" yaml:"batch_size"`
	FlushInterval time.Duration `mapstructure:"flush_interval" yaml:"flush_interval"`
}

// LogConfig holds logging settings. The TUI always logs to File; an empty
// File there falls back to the default path.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	File  string `mapstructure:"file" yaml:"file"`
}

// TabStyle converts the style section for the tab manager.
func (c Config) TabStyle() tabs.StyleConfig {
	return tabs.StyleConfig{Style: c.Style.Style, Class: c.Style.Class}
}

// ParseLevel returns the configured level, defaulting to info.
func (c LogConfig) ParseLevel() log.Level {
	lvl, err := log.ParseLevel(c.Level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// DataDir is where the journal and log live by default.
func DataDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "tabkeep")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("style.style", map[string]string{
		"padding": "1 2",
	})
	v.SetDefault("style.class", "tab")
	v.SetDefault("tabs", []map[string]any{
		{"key": "notes", "kind": "note", "title": "Notes"},
		{"key": "counter", "kind": "counter", "title": "Counter"},
		{"key": "inbox", "kind": "inbox", "title": "Inbox"},
	})
	v.SetDefault("journal.path", filepath.Join(DataDir(), "journal.db"))
	v.SetDefault("journal.batch_size", 100)
	v.SetDefault("journal.flush_interval", "500ms")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", filepath.Join(DataDir(), "tabkeep.log"))
}

// newViper prepares a viper instance for path. An empty path uses
// $TABKEEP_CONFIG, then ~/.config/tabkeep/config.yaml.
func newViper(path string) *viper.Viper {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("yaml")
	if path == "" {
		path = os.Getenv(EnvPrefix + "_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		home, _ := os.UserHomeDir()
		v.AddConfigPath(filepath.Join(home, ".config", "tabkeep"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

// read loads the config file. A missing file is only an error when it was
// named explicitly.
func read(v *viper.Viper, explicit bool) error {
	err := v.ReadInConfig()
	if err == nil {
		return nil
	}
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		return nil
	}
	if !explicit && errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("read config: %w", err)
}

func decode(v *viper.Viper) (Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Load reads configuration from path (see newViper for the lookup when
// empty) and the environment.
func Load(path string) (Config, error) {
	explicit := path != ""
	v := newViper(path)
	if err := read(v, explicit); err != nil {
		return Config{}, err
	}
	return decode(v)
}

// Watch loads path and calls fn with the re-decoded config every time the
// file is written. It returns the initial config. The watch lasts for the
// life of the process.
func Watch(path string, fn func(Config, error)) (Config, error) {
	v := newViper(path)
	if err := read(v, path != ""); err != nil {
		return Config{}, err
	}
	cfg, err := decode(v)
	if err != nil {
		return Config{}, err
	}
	if v.ConfigFileUsed() == "" {
		return cfg, fmt.Errorf("watch config: no config file found")
	}
	if _, err := os.Stat(v.ConfigFileUsed()); err != nil {
		return cfg, fmt.Errorf("watch config: %w", err)
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		fn(decode(v))
	})
	v.WatchConfig()
	return cfg, nil
}
