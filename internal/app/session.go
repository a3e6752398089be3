package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dshills/postforge/internal/config"
	"github.com/dshills/postforge/internal/engine/debounce"
	"github.com/dshills/postforge/internal/engine/history"
	"github.com/dshills/postforge/internal/export"
	"github.com/dshills/postforge/internal/export/raster"
	"github.com/dshills/postforge/internal/persist"
	"github.com/dshills/postforge/internal/post"
	"github.com/dshills/postforge/internal/preset"
	"github.com/dshills/postforge/internal/prompt"
	"github.com/dshills/postforge/internal/store"
)

// saveTimeout bounds a single autosave write.
const saveTimeout = 5 * time.Second

// autosaveItem is a state waiting for the autosave timer. seq orders it
// against other writes of the slot.
type autosaveItem struct {
	state post.State
	seq   uint64
}

// Deps are the collaborators a Session is built from.
type Deps struct {
	// Store holds the session and preset slots. Required.
	Store store.Store

	// Confirmer answers restore, preset name and delete questions.
	// Defaults to prompt.AutoDecline().
	Confirmer prompt.Confirmer

	// Capturer renders exports. Defaults to raster.NewPainter().
	Capturer export.Capturer

	// Logger defaults to NullLogger().
	Logger *Logger

	// AfterFunc replaces time.AfterFunc for the autosave timer.
	AfterFunc debounce.AfterFunc

	// Seed is the initial state. Zero means post.Default().
	Seed *post.State

	// Codec encodes saved sessions. Defaults to persist.NewCodec().
	Codec *persist.Codec

	// OnExportBusy is called when an export starts and finishes.
	OnExportBusy func(busy bool)
}

// Session is one editing session: the undo history plus everything that
// observes it.
//
// Control flow for an edit: Edit builds one commit from producers,
// the history notifies its observer, which marks the session unsaved and
// pushes the new state into the autosave debouncer. When edits pause for
// the configured delay the debouncer saves through the bridge.
type Session struct {
	logger  *Logger
	log     *slog.Logger
	confirm prompt.Confirmer

	history  *history.History[post.State]
	autosave *debounce.Debouncer[autosaveItem]
	bridge   *persist.Bridge
	presets  *preset.Manager
	exporter *export.Exporter

	unsubscribe func()

	// saveMu serializes writes of the session slot. savedSeq is the change
	// sequence of the newest state written; older writes are skipped.
	saveMu   sync.Mutex
	savedSeq uint64

	mu              sync.Mutex
	seq             uint64
	cfg             *config.Config
	autosaveEnabled bool
	started         bool
	closed          bool
}

// NewSession wires a session from cfg and deps. Call Start before editing.
func NewSession(cfg *config.Config, deps Deps) (*Session, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if deps.Store == nil {
		return nil, ErrNoStore
	}
	if deps.Confirmer == nil {
		deps.Confirmer = prompt.AutoDecline()
	}
	if deps.Capturer == nil {
		deps.Capturer = raster.NewPainter()
	}
	if deps.Logger == nil {
		deps.Logger = NullLogger()
	}

	seed := post.Default()
	if deps.Seed != nil {
		seed = *deps.Seed
	}
	if err := post.Validate(seed); err != nil {
		return nil, err
	}

	s := &Session{
		logger:          deps.Logger,
		log:             deps.Logger.WithComponent("session"),
		confirm:         deps.Confirmer,
		cfg:             cfg.Clone(),
		autosaveEnabled: cfg.Autosave.Enabled,
	}

	s.history = history.NewComparable(seed, history.WithMaxEntries[post.State](cfg.History.MaxEntries))
	s.bridge = persist.NewBridge(deps.Store, deps.Codec, deps.Confirmer,
		deps.Logger.WithComponent("persist"), persist.WithKey(cfg.Autosave.Key))
	s.presets = preset.NewManager(deps.Store,
		deps.Logger.WithComponent("preset"), preset.WithKey(cfg.Presets.Key))

	exportOpts := []export.Option{
		export.WithPixelRatio(cfg.Export.PixelRatio),
		export.WithLogger(deps.Logger.WithComponent("export")),
	}
	if deps.OnExportBusy != nil {
		exportOpts = append(exportOpts, export.OnBusy(deps.OnExportBusy))
	}
	s.exporter = export.New(deps.Capturer, cfg.Export.Dir, exportOpts...)

	var debounceOpts []debounce.Option
	if deps.AfterFunc != nil {
		debounceOpts = append(debounceOpts, debounce.WithAfterFunc(deps.AfterFunc))
	}
	s.autosave = debounce.New(cfg.Autosave.Delay.Std(), s.autosaveFired, debounceOpts...)

	s.unsubscribe = s.history.Subscribe(s.onChange)
	return s, nil
}

// Start loads presets and offers to restore a saved session. It reports
// whether a session was restored.
func (s *Session) Start(ctx context.Context) (bool, error) {
	s.mu.Lock()
	switch {
	case s.closed:
		s.mu.Unlock()
		return false, ErrClosed
	case s.started:
		s.mu.Unlock()
		return false, ErrAlreadyStarted
	}
	s.started = true
	s.mu.Unlock()

	if err := s.presets.Load(ctx); err != nil {
		return false, wrapOp("load presets", "", err)
	}

	restored, err := s.bridge.Restore(ctx, s.history)
	if err != nil {
		return false, wrapOp("restore session", s.bridge.Key(), err)
	}
	s.log.Info("session started", "restored", restored, "presets", s.presets.Len())
	return restored, nil
}

// onChange is the history observer.
func (s *Session) onChange(c history.Change[post.State]) {
	if c.Kind == history.ChangeReset {
		return
	}
	s.bridge.MarkDirty()

	s.mu.Lock()
	s.seq++
	item := autosaveItem{state: c.State, seq: s.seq}
	enabled := s.autosaveEnabled && !s.closed
	s.mu.Unlock()
	if enabled {
		s.autosave.Push(item)
	}
}

// autosaveFired is the debouncer's emit function. It runs on the timer
// goroutine.
func (s *Session) autosaveFired(item autosaveItem) {
	if s.isClosed() {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := s.save(ctx, item, false); err != nil {
		s.log.Warn("autosave failed", "error", err)
	}
}

// save writes item unless the slot already holds it or something newer.
// force writes even when item is the state last written.
func (s *Session) save(ctx context.Context, item autosaveItem, force bool) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	if item.seq < s.savedSeq || (!force && item.seq == s.savedSeq) {
		return nil
	}
	if err := s.bridge.Save(ctx, item.state); err != nil {
		return err
	}
	s.savedSeq = item.seq

	// An edit that landed during the write is still unsaved
	s.mu.Lock()
	newer := s.seq > item.seq
	s.mu.Unlock()
	if newer {
		s.bridge.MarkDirty()
	}
	return nil
}

// latest returns the current state and its change sequence.
func (s *Session) latest() autosaveItem {
	s.mu.Lock()
	seq := s.seq
	s.mu.Unlock()
	return autosaveItem{state: s.history.Current(), seq: seq}
}

// Edit applies producers as a single history entry and reports whether
// the state changed. A result that fails post.Validate is not committed
// and the error wraps post.ErrInvalidState.
func (s *Session) Edit(producers ...post.Producer) (bool, error) {
	if s.isClosed() {
		return false, ErrClosed
	}
	ps := make([]history.Producer[post.State], len(producers))
	for i, p := range producers {
		ps[i] = p
	}
	apply := history.Compose(ps...)

	var invalid error
	changed := s.history.Commit(func(cur post.State) post.State {
		next := apply(cur)
		if err := post.Validate(next); err != nil {
			invalid = err
			return cur
		}
		return next
	})
	return changed, invalid
}

// Undo steps back one entry.
func (s *Session) Undo() bool {
	if s.isClosed() {
		return false
	}
	return s.history.Undo()
}

// Redo steps forward one entry.
func (s *Session) Redo() bool {
	if s.isClosed() {
		return false
	}
	return s.history.Redo()
}

// State returns the current post state.
func (s *Session) State() post.State {
	return s.history.Current()
}

// CanUndo reports whether Undo would change the state.
func (s *Session) CanUndo() bool {
	return s.history.CanUndo()
}

// CanRedo reports whether Redo would change the state.
func (s *Session) CanRedo() bool {
	return s.history.CanRedo()
}

// History returns a summary of every history entry.
func (s *Session) History() (entries []history.Info, cursor int) {
	return s.history.Entries(), s.history.Cursor()
}

// Status returns the autosave status.
func (s *Session) Status() persist.SaveStatus {
	return s.bridge.Status()
}

// OnStatus registers an autosave status observer.
func (s *Session) OnStatus(fn func(persist.SaveStatus)) (unsubscribe func()) {
	return s.bridge.OnStatus(fn)
}

// SaveNow writes the current state immediately, cancelling any pending
// autosave.
func (s *Session) SaveNow(ctx context.Context) error {
	s.autosave.Cancel()
	return wrapOp("save session", s.bridge.Key(), s.save(ctx, s.latest(), true))
}

// ClearSaved removes the saved session slot.
func (s *Session) ClearSaved(ctx context.Context) error {
	s.autosave.Cancel()
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	if err := s.bridge.Clear(ctx); err != nil {
		return wrapOp("clear session", s.bridge.Key(), err)
	}
	// States edited before the clear must not bring the slot back
	s.mu.Lock()
	s.savedSeq = s.seq
	s.mu.Unlock()
	return nil
}

// Presets returns the saved presets.
func (s *Session) Presets() []preset.Preset {
	return s.presets.List()
}

// SavePreset asks for a name and saves the current style under it. It
// returns the name and whether a preset was saved; a cancelled prompt is
// not an error.
func (s *Session) SavePreset(ctx context.Context) (string, bool, error) {
	if err := s.requireStarted(); err != nil {
		return "", false, wrapOp("save preset", "", err)
	}
	name, ok, err := s.confirm.Prompt(preset.NamePrompt)
	if err != nil {
		return "", false, wrapOp("save preset", "", err)
	}
	if !ok {
		return "", false, nil
	}
	if err := s.SavePresetAs(ctx, name); err != nil {
		return name, false, err
	}
	return name, true, nil
}

// SavePresetAs saves the current style under name.
func (s *Session) SavePresetAs(ctx context.Context, name string) error {
	if err := s.requireStarted(); err != nil {
		return wrapOp("save preset", name, err)
	}
	return wrapOp("save preset", name, s.presets.Save(ctx, name, s.State().StyleOnly()))
}

// ApplyPreset lays a saved preset over the current state.
func (s *Session) ApplyPreset(name string) (bool, error) {
	producer, err := s.presets.Apply(name)
	if err != nil {
		return false, wrapOp("apply preset", name, err)
	}
	return s.Edit(producer)
}

// DeletePreset removes a preset after confirmation.
func (s *Session) DeletePreset(ctx context.Context, name string) (bool, error) {
	if err := s.requireStarted(); err != nil {
		return false, wrapOp("delete preset", name, err)
	}
	ok, err := s.presets.Delete(ctx, name, s.confirm)
	return ok, wrapOp("delete preset", name, err)
}

// ApplyTemplate applies a built-in template by name.
func (s *Session) ApplyTemplate(name string) (bool, error) {
	t, err := post.TemplateByName(name)
	if err != nil {
		return false, wrapOp("apply template", name, err)
	}
	return s.Edit(post.ApplyTemplate(t))
}

// Export renders the current state to a PNG and returns its path. It
// never changes the history.
func (s *Session) Export(ctx context.Context) (string, error) {
	path, err := s.exporter.Export(ctx, s.State())
	if err != nil {
		return "", wrapOp("export", s.exporter.Dir(), err)
	}
	return path, nil
}

// Config returns a copy of the active configuration.
func (s *Session) Config() *config.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.Clone()
}

// ApplyConfig applies the settings that can change while running:
// autosave enabled and delay, history size and log level. Store keys,
// backend and export settings need a new session.
func (s *Session) ApplyConfig(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	prev := s.cfg
	s.cfg = cfg.Clone()
	s.autosaveEnabled = cfg.Autosave.Enabled
	s.mu.Unlock()

	if !cfg.Autosave.Enabled {
		s.autosave.Cancel()
	}
	s.autosave.SetDelay(cfg.Autosave.Delay.Std())
	s.history.SetMaxEntries(cfg.History.MaxEntries)
	s.logger.SetLevel(ParseLogLevel(cfg.Logging.Level))

	if prev.Store != cfg.Store || prev.Autosave.Key != cfg.Autosave.Key ||
		prev.Presets.Key != cfg.Presets.Key || prev.Export != cfg.Export {
		s.log.Warn("some settings take effect on restart",
			"store", fmt.Sprint(cfg.Store), "export", fmt.Sprint(cfg.Export))
	}
	s.log.Info("config applied",
		"autosave", cfg.Autosave.Enabled,
		"delay", cfg.Autosave.Delay.String(),
		"max_entries", cfg.History.MaxEntries,
		"level", cfg.Logging.Level)
	return nil
}

// Close flushes a pending autosave and detaches from the history.
// The store is owned by the caller and stays open.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	enabled := s.autosaveEnabled
	s.mu.Unlock()

	s.unsubscribe()
	s.autosave.Cancel()
	s.autosave.Stop()

	// save waits for a write already running on the timer goroutine and
	// skips when that write was the latest state
	if !enabled {
		return nil
	}
	return wrapOp("save session", s.bridge.Key(), s.save(ctx, s.latest(), false))
}

// requireStarted guards preset writes, which replace the whole stored list.
func (s *Session) requireStarted() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.closed:
		return ErrClosed
	case !s.started:
		return ErrNotStarted
	}
	return nil
}

func (s *Session) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
