package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "POSTFORGE_"

// FileSystem is the subset of file access the loader needs.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
}

// OSFS implements FileSystem using the real OS file system.
type OSFS struct{}

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Loader reads the file and environment layers.
type Loader struct {
	fs      FileSystem
	prefix  string
	environ func() []string
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithFS sets the file system used to read the config file.
func WithFS(fsys FileSystem) LoaderOption {
	return func(l *Loader) {
		l.fs = fsys
	}
}

// WithEnviron sets the environment source, in os.Environ form.
func WithEnviron(environ func() []string) LoaderOption {
	return func(l *Loader) {
		l.environ = environ
	}
}

// NewLoader creates a loader reading the OS file system and environment.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		fs:      OSFS{},
		prefix:  EnvPrefix,
		environ: os.Environ,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads path (DefaultPath when empty) over the defaults, applies the
// environment and validates the result.
func Load(path string) (*Config, error) {
	return NewLoader().Load(path)
}

// Load implements the package-level Load for this loader.
func (l *Loader) Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	cfg := Default()
	if err := l.loadFile(cfg, path); err != nil {
		return nil, err
	}
	if err := l.applyEnv(cfg); err != nil {
		return nil, err
	}
	cfg.Store.Path = expandHome(cfg.Store.Path)
	cfg.Export.Dir = expandHome(cfg.Export.Dir)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (l *Loader) loadFile(cfg *Config, path string) error {
	data, err := l.fs.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	return Parse(cfg, path, data)
}

// Parse decodes TOML data over cfg. Keys absent from data keep their
// current values.
func Parse(cfg *Config, source string, data []byte) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		perr := &ParseError{Path: source, Message: err.Error(), Err: err}

		var derr *toml.DecodeError
		var serr *toml.StrictMissingError
		switch {
		case errors.As(err, &derr):
			perr.Line, perr.Column = derr.Position()
		case errors.As(err, &serr) && len(serr.Errors) > 0:
			perr.Line, perr.Column = serr.Errors[0].Position()
			perr.Message = "unknown key " + strings.Join(serr.Errors[0].Key(), ".")
		}
		return perr
	}
	return nil
}

// envAliases maps variables that don't follow the section_key pattern.
var envAliases = map[string]string{
	"LOG_LEVEL":  "logging.level",
	"LOG_FORMAT": "logging.format",
}

// envSetters apply a string value to one setting path.
var envSetters = map[string]func(*Config, string) error{
	"autosave.enabled":    func(c *Config, v string) error { return setBool(&c.Autosave.Enabled, v) },
	"autosave.delay":      func(c *Config, v string) error { return setDuration(&c.Autosave.Delay, v) },
	"autosave.key":        func(c *Config, v string) error { c.Autosave.Key = v; return nil },
	"presets.key":         func(c *Config, v string) error { c.Presets.Key = v; return nil },
	"store.backend":       func(c *Config, v string) error { c.Store.Backend = strings.ToLower(v); return nil },
	"store.path":          func(c *Config, v string) error { c.Store.Path = os.ExpandEnv(v); return nil },
	"history.max_entries": func(c *Config, v string) error { return setInt(&c.History.MaxEntries, v) },
	"export.dir":          func(c *Config, v string) error { c.Export.Dir = os.ExpandEnv(v); return nil },
	"export.pixel_ratio":  func(c *Config, v string) error { return setFloat(&c.Export.PixelRatio, v) },
	"logging.level":       func(c *Config, v string) error { c.Logging.Level = strings.ToLower(v); return nil },
	"logging.format":      func(c *Config, v string) error { c.Logging.Format = strings.ToLower(v); return nil },
	"prompt.accessible":   func(c *Config, v string) error { return setBool(&c.Prompt.Accessible, v) },
}

// EnvVars lists the recognised environment variables, sorted.
func EnvVars() []string {
	vars := make([]string, 0, len(envSetters)+len(envAliases))
	for path := range envSetters {
		section, key, _ := strings.Cut(path, ".")
		vars = append(vars, EnvPrefix+strings.ToUpper(section+"_"+key))
	}
	for alias := range envAliases {
		vars = append(vars, EnvPrefix+alias)
	}
	sort.Strings(vars)
	return vars
}

// applyEnv overlays prefixed variables. Unrecognised names are ignored.
func (l *Loader) applyEnv(cfg *Config) error {
	var errs []error
	for _, kv := range l.environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, l.prefix) {
			continue
		}
		path := l.envToPath(name)
		set, ok := envSetters[path]
		if !ok {
			continue
		}
		if err := set(cfg, value); err != nil {
			errs = append(errs, &ValidationError{Path: path, Message: fmt.Sprintf("from %s: %v", name, err), Value: value})
		}
	}
	return errors.Join(errs...)
}

// envToPath converts POSTFORGE_HISTORY_MAX_ENTRIES to history.max_entries.
func (l *Loader) envToPath(env string) string {
	name := strings.TrimPrefix(env, l.prefix)
	if alias, ok := envAliases[name]; ok {
		return alias
	}
	section, key, ok := strings.Cut(strings.ToLower(name), "_")
	if !ok {
		return section
	}
	return section + "." + key
}

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

func setBool(dst *bool, s string) error {
	switch strings.ToLower(s) {
	case "true", "yes", "on", "1":
		*dst = true
	case "false", "no", "off", "0":
		*dst = false
	default:
		return fmt.Errorf("not a boolean")
	}
	return nil
}

func setInt(dst *int, s string) error {
	v, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("not an integer")
	}
	*dst = v
	return nil
}

func setFloat(dst *float64, s string) error {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("not a number")
	}
	*dst = v
	return nil
}

func setDuration(dst *Duration, s string) error {
	v, err := time.ParseDuration(s)
	if err != nil {
		// Bare integers are milliseconds.
		ms, ierr := strconv.Atoi(s)
		if ierr != nil {
			return fmt.Errorf("not a duration")
		}
		v = time.Duration(ms) * time.Millisecond
	}
	*dst = Duration(v)
	return nil
}
