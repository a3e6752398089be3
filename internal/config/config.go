package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// AppName names the config and data directories.
const AppName = "postforge"

// Store backends.
const (
	BackendBadger = "badger"
	BackendMemory = "memory"
)

// Log formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config is the complete application configuration.
type Config struct {
	Autosave AutosaveConfig `toml:"autosave"`
	Presets  PresetsConfig  `toml:"presets"`
	Store    StoreConfig    `toml:"store"`
	History  HistoryConfig  `toml:"history"`
	Export   ExportConfig   `toml:"export"`
	Logging  LoggingConfig  `toml:"logging"`
	Prompt   PromptConfig   `toml:"prompt"`
}

// AutosaveConfig controls the debounced session save.
type AutosaveConfig struct {
	Enabled bool     `toml:"enabled"`
	Delay   Duration `toml:"delay"`
	Key     string   `toml:"key"`
}

// PresetsConfig controls preset storage.
type PresetsConfig struct {
	Key string `toml:"key"`
}

// StoreConfig selects the key-value backend.
type StoreConfig struct {
	Backend string `toml:"backend"`
	Path    string `toml:"path"`
}

// HistoryConfig bounds undo history. Zero MaxEntries keeps everything.
type HistoryConfig struct {
	MaxEntries int `toml:"max_entries"`
}

// ExportConfig controls PNG export.
type ExportConfig struct {
	Dir        string  `toml:"dir"`
	PixelRatio float64 `toml:"pixel_ratio"`
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// PromptConfig controls terminal prompts.
type PromptConfig struct {
	Accessible bool `toml:"accessible"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Autosave: AutosaveConfig{
			Enabled: true,
			Delay:   Duration(1500 * time.Millisecond),
			Key:     "social-post-auto-save",
		},
		Presets: PresetsConfig{
			Key: "customSocialPresets",
		},
		Store: StoreConfig{
			Backend: BackendBadger,
			Path:    filepath.Join(DataDir(), "db"),
		},
		Export: ExportConfig{
			Dir:        ".",
			PixelRatio: 2,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: FormatText,
		},
	}
}

// Clone returns a copy of c.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// TOML renders c in file format.
func (c *Config) TOML() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return data, nil
}

// Duration is a time.Duration written as a Go duration string.
type Duration time.Duration

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// String implements fmt.Stringer.
func (d Duration) String() string {
	return time.Duration(d).String()
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		if d, err := os.UserConfigDir(); err == nil {
			dir = d
		} else {
			dir = "."
		}
	}
	return filepath.Join(dir, AppName, "config.toml")
}

// DataDir returns the directory for persistent data.
func DataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, AppName)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", AppName)
	}
	return filepath.Join(".", "."+AppName)
}
