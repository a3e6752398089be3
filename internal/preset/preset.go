// Package preset manages user-named style presets.
//
// Presets are kept as a JSON array of {name, state} objects under a single
// store.Store key. A preset's state is a post.StyleState: everything except
// the post text and username, so applying one never overwrites content.
package preset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/goccy/go-json"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dshills/postforge/internal/post"
	"github.com/dshills/postforge/internal/store"
)

// DefaultKey is the store key holding the preset list.
const DefaultKey = "customSocialPresets"

// NamePrompt is the question asked when saving the current style.
const NamePrompt = "Enter a name for your preset:"

var (
	// ErrEmptyName indicates a blank preset name.
	ErrEmptyName = errors.New("preset name is empty")

	// ErrNameTaken indicates a preset with the same name already exists.
	ErrNameTaken = errors.New("a preset with this name already exists")

	// ErrNotFound indicates no preset has the given name.
	ErrNotFound = errors.New("preset not found")
)

// contentFields are State keys that never belong in a preset.
var contentFields = []string{"postText", "username"}

// Preset is a named style.
type Preset struct {
	Name  string          `json:"name" yaml:"name"`
	State post.StyleState `json:"state" yaml:"state"`
}

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(message string) (bool, error)
}

// Option configures a Manager.
type Option func(*Manager)

// WithKey overrides the store key.
func WithKey(key string) Option {
	return func(m *Manager) {
		if key != "" {
			m.key = key
		}
	}
}

// Manager holds the preset list and writes it through to a store.
type Manager struct {
	store  store.Store
	logger *slog.Logger
	key    string

	mu      sync.RWMutex
	presets []Preset
}

// NewManager creates an empty manager. Call Load to read stored presets.
func NewManager(s store.Store, logger *slog.Logger, opts ...Option) *Manager {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	m := &Manager{
		store:  s,
		logger: logger,
		key:    DefaultKey,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Load replaces the in-memory list with the stored one.
//
// A missing key yields an empty list. Unreadable data is logged and
// treated as empty; individual invalid entries are logged and skipped.
// Only store errors are returned.
func (m *Manager) Load(ctx context.Context) error {
	data, found, err := m.store.Get(ctx, m.key)
	if err != nil {
		return fmt.Errorf("load presets: %w", err)
	}

	var presets []Preset
	if found {
		presets, err = m.decode(data)
		if err != nil {
			m.logger.Error("failed to load custom presets", "key", m.key, "error", err)
			presets = nil
		}
	}

	m.mu.Lock()
	m.presets = presets
	m.mu.Unlock()
	return nil
}

func (m *Manager) decode(data []byte) ([]Preset, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("not valid JSON")
	}
	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return nil, errors.New("expected an array")
	}

	var (
		presets []Preset
		seen    = make(map[string]bool)
	)
	for i, raw := range root.Array() {
		p, err := decodeEntry([]byte(raw.Raw))
		if err != nil {
			m.logger.Warn("skipping invalid preset", "index", i, "error", err)
			continue
		}
		if seen[p.Name] {
			m.logger.Warn("skipping duplicate preset", "index", i, "name", p.Name)
			continue
		}
		seen[p.Name] = true
		presets = append(presets, p)
	}
	return presets, nil
}

// decodeEntry decodes one {name, state} object. Entries saved with a full
// state have their content fields stripped first.
func decodeEntry(raw []byte) (Preset, error) {
	var err error
	for _, field := range contentFields {
		raw, err = sjson.DeleteBytes(raw, "state."+field)
		if err != nil {
			return Preset{}, err
		}
	}

	p := Preset{State: post.Default().StyleOnly()}
	if err := json.Unmarshal(raw, &p); err != nil {
		return Preset{}, err
	}
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return Preset{}, ErrEmptyName
	}
	if err := post.ValidateStyle(p.State); err != nil {
		return Preset{}, err
	}
	return p, nil
}

// List returns the presets in saved order.
func (m *Manager) List() []Preset {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Preset(nil), m.presets...)
}

// Names returns the preset names in saved order.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, len(m.presets))
	for i, p := range m.presets {
		names[i] = p.Name
	}
	return names
}

// Len returns the number of presets.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.presets)
}

// Get looks up a preset by name.
func (m *Manager) Get(name string) (Preset, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	i := m.indexLocked(name)
	if i < 0 {
		return Preset{}, false
	}
	return m.presets[i], true
}

// Save appends a preset. An existing name is rejected with ErrNameTaken
// and the stored list is left untouched.
func (m *Manager) Save(ctx context.Context, name string, st post.StyleState) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	if err := post.ValidateStyle(st); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.indexLocked(name) >= 0 {
		return fmt.Errorf("%w: %q", ErrNameTaken, name)
	}

	next := append(append([]Preset(nil), m.presets...), Preset{Name: name, State: st})
	if err := m.writeLocked(ctx, next); err != nil {
		return err
	}
	m.presets = next
	m.logger.Info("preset saved", "name", name)
	return nil
}

// Delete removes a preset after confirmation. It reports false, with no
// error, when the user declines.
func (m *Manager) Delete(ctx context.Context, name string, confirm Confirmer) (bool, error) {
	if _, ok := m.Get(name); !ok {
		return false, fmt.Errorf("%w: %q", ErrNotFound, name)
	}

	ok, err := confirm.Confirm(DeletePrompt(name))
	if err != nil {
		return false, fmt.Errorf("confirm delete: %w", err)
	}
	if !ok {
		return false, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexLocked(name)
	if i < 0 {
		return false, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	next := make([]Preset, 0, len(m.presets)-1)
	next = append(next, m.presets[:i]...)
	next = append(next, m.presets[i+1:]...)
	if err := m.writeLocked(ctx, next); err != nil {
		return false, err
	}
	m.presets = next
	m.logger.Info("preset deleted", "name", name)
	return true, nil
}

// DeletePrompt is the question asked before deleting name.
func DeletePrompt(name string) string {
	return fmt.Sprintf("Are you sure you want to delete the preset \"%s\"?", name)
}

// Apply returns a producer that lays the preset's style over the current
// state, keeping its text and username.
func (m *Manager) Apply(name string) (post.Producer, error) {
	p, ok := m.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return post.ApplyStyle(p.State), nil
}

func (m *Manager) indexLocked(name string) int {
	for i, p := range m.presets {
		if p.Name == name {
			return i
		}
	}
	return -1
}

func (m *Manager) writeLocked(ctx context.Context, presets []Preset) error {
	if presets == nil {
		presets = []Preset{}
	}
	data, err := json.Marshal(presets)
	if err != nil {
		return fmt.Errorf("encode presets: %w", err)
	}
	if err := m.store.Set(ctx, m.key, data); err != nil {
		return fmt.Errorf("store presets: %w", err)
	}
	return nil
}
