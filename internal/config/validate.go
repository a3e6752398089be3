package config

import (
	"errors"
	"slices"
)

var logLevels = []string{"debug", "info", "warn", "warning", "error"}

// Validate checks every setting and joins all failures.
func (c *Config) Validate() error {
	var errs []error
	fail := func(path, msg string, v any) {
		errs = append(errs, &ValidationError{Path: path, Message: msg, Value: v})
	}

	if c.Autosave.Delay < 0 {
		fail("autosave.delay", "must not be negative", c.Autosave.Delay)
	}
	if c.Autosave.Key == "" {
		fail("autosave.key", "must not be empty", c.Autosave.Key)
	}
	if c.Presets.Key == "" {
		fail("presets.key", "must not be empty", c.Presets.Key)
	}
	if c.Presets.Key != "" && c.Presets.Key == c.Autosave.Key {
		fail("presets.key", "must differ from autosave.key", c.Presets.Key)
	}

	switch c.Store.Backend {
	case BackendBadger:
		if c.Store.Path == "" {
			fail("store.path", "required for the badger backend", c.Store.Path)
		}
	case BackendMemory:
	default:
		fail("store.backend", `must be "badger" or "memory"`, c.Store.Backend)
	}

	if c.History.MaxEntries < 0 {
		fail("history.max_entries", "must not be negative", c.History.MaxEntries)
	}

	if c.Export.Dir == "" {
		fail("export.dir", "must not be empty", c.Export.Dir)
	}
	if c.Export.PixelRatio <= 0 || c.Export.PixelRatio > 8 {
		fail("export.pixel_ratio", "must be in (0, 8]", c.Export.PixelRatio)
	}

	if !slices.Contains(logLevels, c.Logging.Level) {
		fail("logging.level", "must be one of debug, info, warn, error", c.Logging.Level)
	}
	if c.Logging.Format != FormatText && c.Logging.Format != FormatJSON {
		fail("logging.format", `must be "text" or "json"`, c.Logging.Format)
	}

	return errors.Join(errs...)
}
