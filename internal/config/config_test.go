package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnv() []string { return nil }

func envOf(kv ...string) func() []string {
	return func() []string { return kv }
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.True(t, cfg.Autosave.Enabled)
	assert.Equal(t, 1500*time.Millisecond, cfg.Autosave.Delay.Std())
	assert.Equal(t, "social-post-auto-save", cfg.Autosave.Key)
	assert.Equal(t, "customSocialPresets", cfg.Presets.Key)
	assert.Equal(t, BackendBadger, cfg.Store.Backend)
	assert.Equal(t, 0, cfg.History.MaxEntries)
	assert.Equal(t, 2.0, cfg.Export.PixelRatio)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoader_MissingFile(t *testing.T) {
	l := NewLoader(WithFS(fstest.MapFS{}), WithEnviron(noEnv))
	cfg, err := l.Load("config.toml")
	require.NoError(t, err)

	want := Default()
	assert.Equal(t, want, cfg)
}

func TestLoader_File(t *testing.T) {
	fsys := fstest.MapFS{
		"config.toml": {Data: []byte(`
[autosave]
delay = "3s"

[store]
backend = "memory"

[history]
max_entries = 50

[logging]
level = "debug"
format = "json"
`)},
	}

	cfg, err := NewLoader(WithFS(fsys), WithEnviron(noEnv)).Load("config.toml")
	require.NoError(t, err)

	assert.Equal(t, 3*time.Second, cfg.Autosave.Delay.Std())
	assert.True(t, cfg.Autosave.Enabled, "unset keys keep defaults")
	assert.Equal(t, BackendMemory, cfg.Store.Backend)
	assert.Equal(t, 50, cfg.History.MaxEntries)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, FormatJSON, cfg.Logging.Format)
	assert.Equal(t, "customSocialPresets", cfg.Presets.Key)
}

func TestLoader_ParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		line int
		msg  string
	}{
		{"syntax", "[autosave\nenabled = true\n", 1, ""},
		{"unknown key", "[autosave]\ndelay = \"1s\"\nspeed = 3\n", 3, "unknown key autosave.speed"},
		{"bad duration", "[autosave]\ndelay = \"soon\"\n", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := fstest.MapFS{"c.toml": {Data: []byte(tt.data)}}
			_, err := NewLoader(WithFS(fsys), WithEnviron(noEnv)).Load("c.toml")

			var perr *ParseError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, "c.toml", perr.Path)
			if tt.line > 0 {
				assert.Equal(t, tt.line, perr.Line)
			}
			if tt.msg != "" {
				assert.Equal(t, tt.msg, perr.Message)
			}
		})
	}
}

func TestLoader_Env(t *testing.T) {
	fsys := fstest.MapFS{"c.toml": {Data: []byte("[autosave]\ndelay = \"3s\"\n")}}
	env := envOf(
		"POSTFORGE_AUTOSAVE_DELAY=250",
		"POSTFORGE_AUTOSAVE_ENABLED=off",
		"POSTFORGE_HISTORY_MAX_ENTRIES=10",
		"POSTFORGE_EXPORT_PIXEL_RATIO=1.5",
		"POSTFORGE_LOG_LEVEL=WARN",
		"POSTFORGE_STORE_BACKEND=memory",
		"POSTFORGE_PROMPT_ACCESSIBLE=yes",
		"POSTFORGE_UNKNOWN_THING=1",
		"OTHER_VAR=1",
	)

	cfg, err := NewLoader(WithFS(fsys), WithEnviron(env)).Load("c.toml")
	require.NoError(t, err)

	assert.Equal(t, 250*time.Millisecond, cfg.Autosave.Delay.Std(), "env overrides file")
	assert.False(t, cfg.Autosave.Enabled)
	assert.Equal(t, 10, cfg.History.MaxEntries)
	assert.Equal(t, 1.5, cfg.Export.PixelRatio)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, BackendMemory, cfg.Store.Backend)
	assert.True(t, cfg.Prompt.Accessible)
}

func TestLoader_EnvErrors(t *testing.T) {
	env := envOf("POSTFORGE_HISTORY_MAX_ENTRIES=lots", "POSTFORGE_AUTOSAVE_ENABLED=maybe")
	_, err := NewLoader(WithFS(fstest.MapFS{}), WithEnviron(env)).Load("c.toml")

	require.ErrorIs(t, err, ErrValidationFailed)
	assert.Contains(t, err.Error(), "history.max_entries")
	assert.Contains(t, err.Error(), "autosave.enabled")
}

func TestEnvToPath(t *testing.T) {
	l := NewLoader()
	tests := map[string]string{
		"POSTFORGE_HISTORY_MAX_ENTRIES": "history.max_entries",
		"POSTFORGE_AUTOSAVE_DELAY":      "autosave.delay",
		"POSTFORGE_LOG_LEVEL":           "logging.level",
		"POSTFORGE_LOG_FORMAT":          "logging.format",
		"POSTFORGE_CONFIG":              "config",
	}
	for env, want := range tests {
		assert.Equal(t, want, l.envToPath(env), env)
	}
}

func TestEnvVars(t *testing.T) {
	vars := EnvVars()
	assert.Contains(t, vars, "POSTFORGE_AUTOSAVE_DELAY")
	assert.Contains(t, vars, "POSTFORGE_LOG_LEVEL")
	assert.Contains(t, vars, "POSTFORGE_HISTORY_MAX_ENTRIES")
	for _, v := range vars {
		path := NewLoader().envToPath(v)
		_, ok := envSetters[path]
		assert.True(t, ok, v)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		path   string
	}{
		{"negative delay", func(c *Config) { c.Autosave.Delay = -1 }, "autosave.delay"},
		{"empty autosave key", func(c *Config) { c.Autosave.Key = "" }, "autosave.key"},
		{"shared key", func(c *Config) { c.Presets.Key = c.Autosave.Key }, "presets.key"},
		{"bad backend", func(c *Config) { c.Store.Backend = "redis" }, "store.backend"},
		{"badger without path", func(c *Config) { c.Store.Path = "" }, "store.path"},
		{"negative history", func(c *Config) { c.History.MaxEntries = -1 }, "history.max_entries"},
		{"zero ratio", func(c *Config) { c.Export.PixelRatio = 0 }, "export.pixel_ratio"},
		{"huge ratio", func(c *Config) { c.Export.PixelRatio = 20 }, "export.pixel_ratio"},
		{"empty dir", func(c *Config) { c.Export.Dir = "" }, "export.dir"},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.ErrorIs(t, err, ErrValidationFailed)
			assert.True(t, strings.HasPrefix(err.Error(), tt.path+":"), err.Error())
		})
	}

	mem := Default()
	mem.Store.Backend = BackendMemory
	mem.Store.Path = ""
	assert.NoError(t, mem.Validate(), "memory backend needs no path")
}

func TestTOML_RoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Autosave.Delay = Duration(2 * time.Second)
	cfg.History.MaxEntries = 99

	data, err := cfg.TOML()
	require.NoError(t, err)
	assert.Contains(t, string(data), "[autosave]")
	assert.Contains(t, string(data), "2s")

	got := Default()
	require.NoError(t, Parse(got, "roundtrip", data))
	assert.Equal(t, cfg, got)
}

func TestLoad_ExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	fsys := fstest.MapFS{"c.toml": {Data: []byte("[export]\ndir = \"~/Pictures\"\n")}}
	cfg, err := NewLoader(WithFS(fsys), WithEnviron(noEnv)).Load("c.toml")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "Pictures"), cfg.Export.Dir)
}

func TestClone(t *testing.T) {
	cfg := Default()
	cp := cfg.Clone()
	cp.Logging.Level = "debug"
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	assert.Equal(t, filepath.Join("/tmp/xdg", AppName, "config.toml"), DefaultPath())

	t.Setenv("XDG_DATA_HOME", "/tmp/data")
	assert.Equal(t, filepath.Join("/tmp/data", AppName), DataDir())
}
