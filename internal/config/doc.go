// Package config provides configuration for postforge.
//
// Configuration is layered, lowest priority first:
//
//  1. Built-in defaults (Default)
//  2. The TOML file, by default $XDG_CONFIG_HOME/postforge/config.toml
//  3. POSTFORGE_* environment variables
//
// A missing file is not an error. Unknown keys in the file are rejected so
// typos surface as a ParseError with a position.
//
// # File format
//
//	[autosave]
//	enabled = true
//	delay = "1500ms"
//	key = "social-post-auto-save"
//
//	[presets]
//	key = "customSocialPresets"
//
//	[store]
//	backend = "badger"   # or "memory"
//	path = "~/.local/share/postforge/db"
//
//	[history]
//	max_entries = 0      # 0 keeps every entry
//
//	[export]
//	dir = "."
//	pixel_ratio = 2
//
//	[logging]
//	level = "info"
//	format = "text"      # or "json"
//
//	[prompt]
//	accessible = false
//
// # Environment
//
// POSTFORGE_<SECTION>_<KEY> overrides [section] key, for example
// POSTFORGE_AUTOSAVE_DELAY=3s or POSTFORGE_HISTORY_MAX_ENTRIES=200.
// POSTFORGE_LOG_LEVEL and POSTFORGE_LOG_FORMAT are accepted as aliases for
// the logging section.
//
// # Live reload
//
// Watch observes the file with fsnotify and reloads it after writes settle.
package config
