package app

import (
	"context"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/postforge/internal/config"
	"github.com/dshills/postforge/internal/engine/debounce"
	"github.com/dshills/postforge/internal/export"
	"github.com/dshills/postforge/internal/persist"
	"github.com/dshills/postforge/internal/post"
	"github.com/dshills/postforge/internal/preset"
	"github.com/dshills/postforge/internal/prompt"
	"github.com/dshills/postforge/internal/store"
)

// manualClock arms timers that only fire when told to.
type manualClock struct {
	mu     sync.Mutex
	fns    []func()
	delays []time.Duration
}

type manualTimer struct {
	clock *manualClock
	idx   int
}

func (t manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	stopped := t.clock.fns[t.idx] != nil
	t.clock.fns[t.idx] = nil
	return stopped
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) debounce.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fns = append(c.fns, f)
	c.delays = append(c.delays, d)
	return manualTimer{clock: c, idx: len(c.fns) - 1}
}

// fire runs every armed timer and reports how many ran.
func (c *manualClock) fire() int {
	c.mu.Lock()
	var armed []func()
	for i, f := range c.fns {
		if f != nil {
			armed = append(armed, f)
			c.fns[i] = nil
		}
	}
	c.mu.Unlock()
	for _, f := range armed {
		f()
	}
	return len(armed)
}

func (c *manualClock) lastDelay() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.delays) == 0 {
		return 0
	}
	return c.delays[len(c.delays)-1]
}

type solidCapturer struct{}

func (solidCapturer) Capture(_ context.Context, _ post.State, opts export.Options) (image.Image, error) {
	return image.NewRGBA(image.Rect(0, 0, 4, 4)), nil
}

type harness struct {
	session *Session
	store   *store.Memory
	confirm *prompt.Scripted
	clock   *manualClock
	cfg     *config.Config
}

func newHarness(t *testing.T, answers ...prompt.Answer) *harness {
	t.Helper()
	cfg := config.Default()
	cfg.Store.Backend = config.BackendMemory
	cfg.Store.Path = ""
	cfg.Export.Dir = t.TempDir()
	return newHarnessWith(t, cfg, store.NewMemory(), answers...)
}

func newHarnessWith(t *testing.T, cfg *config.Config, s *store.Memory, answers ...prompt.Answer) *harness {
	t.Helper()
	h := &harness{
		store:   s,
		confirm: prompt.NewScripted(answers...),
		clock:   &manualClock{},
		cfg:     cfg,
	}
	sess, err := NewSession(cfg, Deps{
		Store:     s,
		Confirmer: h.confirm,
		Capturer:  solidCapturer{},
		AfterFunc: h.clock.AfterFunc,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sess.Close(context.Background()) })
	h.session = sess
	return h
}

func (h *harness) saved(t *testing.T) (persist.Envelope, bool) {
	t.Helper()
	data, found, err := h.store.Get(context.Background(), persist.DefaultKey)
	require.NoError(t, err)
	if !found {
		return persist.Envelope{}, false
	}
	env, err := persist.NewCodec().Decode(data)
	require.NoError(t, err)
	return env, true
}

func TestNewSession_RequiresStore(t *testing.T) {
	_, err := NewSession(config.Default(), Deps{})
	assert.ErrorIs(t, err, ErrNoStore)
}

func TestNewSession_RejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Export.PixelRatio = -1
	_, err := NewSession(cfg, Deps{Store: store.NewMemory()})
	assert.ErrorIs(t, err, config.ErrValidationFailed)
}

func TestSession_StartTwice(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	restored, err := h.session.Start(ctx)
	require.NoError(t, err)
	assert.False(t, restored)
	assert.Empty(t, h.confirm.Asked(), "no saved session means no prompt")

	_, err = h.session.Start(ctx)
	assert.ErrorIs(t, err, ErrAlreadyStarted)
}

func TestSession_EditUndoRedo(t *testing.T) {
	h := newHarness(t)
	s := h.session

	assert.False(t, s.CanUndo())
	changed, err := s.Edit(post.SetText("hello"), post.SetFontSize(32))
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "hello", s.State().PostText)
	assert.Equal(t, 32, s.State().Style.FontSize)

	entries, cursor := s.History()
	assert.Len(t, entries, 2, "one transaction is one entry")
	assert.Equal(t, 1, cursor)

	require.True(t, s.Undo())
	assert.Equal(t, post.Default(), s.State())
	assert.False(t, s.Undo())

	require.True(t, s.Redo())
	assert.Equal(t, "hello", s.State().PostText)
	assert.False(t, s.CanRedo())
}

func TestSession_NoOpEditIsNotRecorded(t *testing.T) {
	h := newHarness(t)
	changed, err := h.session.Edit(post.SetText(post.Default().PostText))
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, persist.StatusIdle, h.session.Status())
	assert.Zero(t, h.clock.fire())
}

func TestSession_AutosaveAfterQuietPeriod(t *testing.T) {
	h := newHarness(t)
	s := h.session

	s.Edit(post.SetText("a"))
	s.Edit(post.SetText("ab"))
	s.Edit(post.SetText("abc"))
	assert.Equal(t, persist.StatusUnsaved, s.Status())
	assert.Equal(t, 1500*time.Millisecond, h.clock.lastDelay())

	_, found := h.saved(t)
	assert.False(t, found, "nothing is written before the delay elapses")

	assert.Equal(t, 1, h.clock.fire(), "only the last timer is armed")
	env, found := h.saved(t)
	require.True(t, found)
	assert.Equal(t, "abc", env.State.PostText)
	assert.Equal(t, persist.StatusSaved, s.Status())
}

func TestSession_UndoIsAutosaved(t *testing.T) {
	h := newHarness(t)
	s := h.session

	s.Edit(post.SetText("draft"))
	h.clock.fire()
	s.Undo()
	assert.Equal(t, persist.StatusUnsaved, s.Status())
	h.clock.fire()

	env, found := h.saved(t)
	require.True(t, found)
	assert.Equal(t, post.Default().PostText, env.State.PostText)
}

func TestSession_AutosaveDisabled(t *testing.T) {
	cfg := config.Default()
	cfg.Store.Backend = config.BackendMemory
	cfg.Store.Path = ""
	cfg.Autosave.Enabled = false
	h := newHarnessWith(t, cfg, store.NewMemory())

	h.session.Edit(post.SetText("x"))
	assert.Zero(t, h.clock.fire())
	assert.Equal(t, persist.StatusUnsaved, h.session.Status())

	require.NoError(t, h.session.SaveNow(context.Background()))
	env, found := h.saved(t)
	require.True(t, found)
	assert.Equal(t, "x", env.State.PostText)
}

func TestSession_RestoreAccepted(t *testing.T) {
	mem := store.NewMemory()
	prev := post.Default()
	prev.PostText = "from last time"
	data, err := persist.NewCodec().Encode(prev)
	require.NoError(t, err)
	require.NoError(t, mem.Set(context.Background(), persist.DefaultKey, data))

	cfg := config.Default()
	cfg.Store.Backend = config.BackendMemory
	cfg.Store.Path = ""
	h := newHarnessWith(t, cfg, mem, prompt.Yes())

	restored, err := h.session.Start(context.Background())
	require.NoError(t, err)
	assert.True(t, restored)
	assert.Equal(t, []string{persist.RestorePrompt}, h.confirm.Asked())
	assert.Equal(t, "from last time", h.session.State().PostText)
	assert.False(t, h.session.CanUndo(), "restore starts a fresh history")
	assert.Equal(t, persist.StatusSaved, h.session.Status())
	assert.Zero(t, h.clock.fire(), "restore does not schedule a save")
}

func TestSession_RestoreDeclined(t *testing.T) {
	mem := store.NewMemory()
	data, err := persist.NewCodec().Encode(post.Default())
	require.NoError(t, err)
	require.NoError(t, mem.Set(context.Background(), persist.DefaultKey, data))

	cfg := config.Default()
	cfg.Store.Backend = config.BackendMemory
	cfg.Store.Path = ""
	h := newHarnessWith(t, cfg, mem, prompt.No())

	restored, err := h.session.Start(context.Background())
	require.NoError(t, err)
	assert.False(t, restored)
	_, found := h.saved(t)
	assert.False(t, found, "declining discards the saved session")
}

func TestSession_Presets(t *testing.T) {
	h := newHarness(t, prompt.Text("  Sunset  "))
	s := h.session
	ctx := context.Background()
	_, err := s.Start(ctx)
	require.NoError(t, err)

	s.Edit(post.SetText("keep me"), post.SetTextColor("#ff0000"))
	name, ok, err := s.SavePreset(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "  Sunset  ", name)
	require.Len(t, s.Presets(), 1)
	assert.Equal(t, "Sunset", s.Presets()[0].Name)

	err = s.SavePresetAs(ctx, "Sunset")
	assert.ErrorIs(t, err, preset.ErrNameTaken)

	s.Edit(post.SetTextColor("#00ff00"), post.SetText("new text"))
	changed, err := s.ApplyPreset("Sunset")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "#ff0000", s.State().Style.TextColor)
	assert.Equal(t, "new text", s.State().PostText, "presets never carry content")

	require.True(t, s.Undo())
	assert.Equal(t, "#00ff00", s.State().Style.TextColor)

	_, err = s.ApplyPreset("missing")
	assert.ErrorIs(t, err, preset.ErrNotFound)
}

func TestSession_SavePresetCancelled(t *testing.T) {
	h := newHarness(t, prompt.No())
	_, err := h.session.Start(context.Background())
	require.NoError(t, err)
	_, ok, err := h.session.SavePreset(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, h.session.Presets())
}

func TestSession_DeletePreset(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	require.ErrorIs(t, h.session.SavePresetAs(ctx, "Mono"), ErrNotStarted)
	_, err := h.session.Start(ctx)
	require.NoError(t, err)
	require.NoError(t, h.session.SavePresetAs(ctx, "Mono"))

	h.confirm.Queue(prompt.No())
	ok, err := h.session.DeletePreset(ctx, "Mono")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Len(t, h.session.Presets(), 1)

	h.confirm.Queue(prompt.Yes())
	ok, err = h.session.DeletePreset(ctx, "Mono")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, h.session.Presets())
}

func TestSession_ApplyTemplate(t *testing.T) {
	h := newHarness(t)
	tmpl := post.Templates()[0]

	changed, err := h.session.ApplyTemplate(tmpl.Name)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.True(t, h.session.CanUndo())

	_, err = h.session.ApplyTemplate("no such template")
	assert.ErrorIs(t, err, post.ErrUnknownTemplate)

	var opErr *OperationError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "apply template", opErr.Op)
}

func TestSession_ExportLeavesHistoryAlone(t *testing.T) {
	h := newHarness(t)
	s := h.session
	s.Edit(post.SetText("export me"))
	before, cursor := s.History()

	path, err := s.Export(context.Background())
	require.NoError(t, err)
	assert.Equal(t, h.cfg.Export.Dir, filepath.Dir(path))
	_, err = os.Stat(path)
	assert.NoError(t, err)

	after, afterCursor := s.History()
	assert.Len(t, after, len(before))
	assert.Equal(t, cursor, afterCursor)
}

func TestSession_ApplyConfig(t *testing.T) {
	h := newHarness(t)
	s := h.session

	next := h.cfg.Clone()
	next.Autosave.Delay = config.Duration(3 * time.Second)
	next.History.MaxEntries = 2
	next.Logging.Level = "debug"
	require.NoError(t, s.ApplyConfig(next))

	for _, text := range []string{"a", "b", "c", "d"} {
		s.Edit(post.SetText(text))
	}
	entries, _ := s.History()
	assert.Len(t, entries, 2)
	assert.Equal(t, 3*time.Second, h.clock.lastDelay())
	assert.Equal(t, LogLevelDebug, s.logger.Level())

	next = next.Clone()
	next.Autosave.Enabled = false
	require.NoError(t, s.ApplyConfig(next))
	assert.Zero(t, h.clock.fire(), "disabling autosave drops the pending save")

	bad := next.Clone()
	bad.Logging.Format = "xml"
	assert.ErrorIs(t, s.ApplyConfig(bad), config.ErrValidationFailed)
	assert.Equal(t, next.Logging.Format, s.Config().Logging.Format)
}

func TestSession_CloseFlushesPendingSave(t *testing.T) {
	h := newHarness(t)
	s := h.session

	s.Edit(post.SetText("last words"))
	require.NoError(t, s.Close(context.Background()))

	env, found := h.saved(t)
	require.True(t, found)
	assert.Equal(t, "last words", env.State.PostText)

	changed, err := s.Edit(post.SetText("too late"))
	assert.ErrorIs(t, err, ErrClosed)
	assert.False(t, changed)
	assert.NoError(t, s.Close(context.Background()))

	_, err = s.Start(context.Background())
	assert.ErrorIs(t, err, ErrClosed)
}

func TestSession_ClearSaved(t *testing.T) {
	h := newHarness(t)
	s := h.session
	s.Edit(post.SetText("x"))
	h.clock.fire()

	require.NoError(t, s.ClearSaved(context.Background()))
	_, found := h.saved(t)
	assert.False(t, found)
	assert.Equal(t, persist.StatusIdle, s.Status())
}

func TestSession_EditRejectsInvalidState(t *testing.T) {
	h := newHarness(t)
	s := h.session

	changed, err := s.Edit(post.SetText("kept"), post.SetFontSize(0))
	assert.ErrorIs(t, err, post.ErrInvalidState)
	assert.False(t, changed)
	assert.Equal(t, post.Default(), s.State(), "a rejected edit commits nothing")
	assert.False(t, s.CanUndo())
	assert.Equal(t, persist.StatusIdle, s.Status())
	assert.Zero(t, h.clock.fire(), "a rejected edit schedules no save")
}

func TestNewSession_RejectsInvalidSeed(t *testing.T) {
	seed := post.Default()
	seed.Style.FontSize = 0
	_, err := NewSession(config.Default(), Deps{Store: store.NewMemory(), Seed: &seed})
	assert.ErrorIs(t, err, post.ErrInvalidState)
}

func TestSession_EdgeStateSurvivesRestart(t *testing.T) {
	const png = "data:image/png;base64,iVBORw0KGgo="
	cfg := config.Default()
	cfg.Store.Backend = config.BackendMemory
	cfg.Store.Path = ""
	cfg.Export.Dir = t.TempDir()
	mem := store.NewMemory()

	first := newHarnessWith(t, cfg, mem)
	_, err := first.session.Start(context.Background())
	require.NoError(t, err)
	changed, err := first.session.Edit(
		post.SetText(strings.Repeat("é", 65536)),
		post.SetUsername(strings.Repeat("u", 256)),
		post.SetFontSize(512),
		post.SetPadding(1024),
		post.SetImage(post.SlotBackground, png),
		post.SetImage(post.SlotProfile, png),
		post.SetImage(post.SlotContent, png),
		post.SetFilter(post.FilterGrayscale, 100),
		post.SetFilter(post.FilterSepia, 100),
		post.SetFilter(post.FilterInvert, 100),
		post.SetFilter(post.FilterBrightness, 200),
		post.SetFilter(post.FilterContrast, 200),
	)
	require.NoError(t, err)
	require.True(t, changed)
	want := first.session.State()
	require.NoError(t, first.session.Close(context.Background()))

	second := newHarnessWith(t, cfg, mem, prompt.Yes())
	restored, err := second.session.Start(context.Background())
	require.NoError(t, err)
	require.True(t, restored)
	assert.Equal(t, want, second.session.State())
	_, found := second.saved(t)
	assert.True(t, found, "a restorable slot is kept")
}

// gatedStore holds the first Set until release is closed.
type gatedStore struct {
	*store.Memory
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func newGatedStore() *gatedStore {
	return &gatedStore{
		Memory:  store.NewMemory(),
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (g *gatedStore) Set(ctx context.Context, key string, value []byte) error {
	first := false
	g.once.Do(func() { first = true })
	if first {
		close(g.entered)
		<-g.release
	}
	return g.Memory.Set(ctx, key, value)
}

func newGatedSession(t *testing.T, g *gatedStore) (*Session, *manualClock) {
	t.Helper()
	cfg := config.Default()
	cfg.Store.Backend = config.BackendMemory
	cfg.Store.Path = ""
	clock := &manualClock{}
	sess, err := NewSession(cfg, Deps{Store: g, AfterFunc: clock.AfterFunc})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sess.Close(context.Background()) })
	return sess, clock
}

func savedText(t *testing.T, st store.Store) string {
	t.Helper()
	data, found, err := st.Get(context.Background(), persist.DefaultKey)
	require.NoError(t, err)
	require.True(t, found)
	env, err := persist.NewCodec().Decode(data)
	require.NoError(t, err)
	return env.State.PostText
}

func TestSession_CloseWaitsForRunningAutosave(t *testing.T) {
	g := newGatedStore()
	s, clock := newGatedSession(t, g)

	_, err := s.Edit(post.SetText("first"))
	require.NoError(t, err)
	fired := make(chan struct{})
	go func() {
		defer close(fired)
		clock.fire()
	}()
	<-g.entered

	_, err = s.Edit(post.SetText("second"))
	require.NoError(t, err)
	closed := make(chan error, 1)
	go func() { closed <- s.Close(context.Background()) }()
	close(g.release)

	require.NoError(t, <-closed)
	<-fired
	assert.Equal(t, "second", savedText(t, g))
}

func TestSession_StaleAutosaveLeavesStatusUnsaved(t *testing.T) {
	g := newGatedStore()
	s, clock := newGatedSession(t, g)

	_, err := s.Edit(post.SetText("first"))
	require.NoError(t, err)
	fired := make(chan struct{})
	go func() {
		defer close(fired)
		clock.fire()
	}()
	<-g.entered

	_, err = s.Edit(post.SetText("second"))
	require.NoError(t, err)
	close(g.release)
	<-fired

	assert.Equal(t, "first", savedText(t, g))
	assert.Equal(t, persist.StatusUnsaved, s.Status(), "the newer edit is still unsaved")

	assert.Equal(t, 1, clock.fire())
	assert.Equal(t, "second", savedText(t, g))
	assert.Equal(t, persist.StatusSaved, s.Status())
}

func TestSession_SaveNowIsNotOverwrittenByOlderAutosave(t *testing.T) {
	h := newHarness(t)
	s := h.session

	_, err := s.Edit(post.SetText("older"))
	require.NoError(t, err)
	older := s.State()
	_, err = s.Edit(post.SetText("newer"))
	require.NoError(t, err)
	require.NoError(t, s.SaveNow(context.Background()))

	// a timer that fired before SaveNow cancelled it
	s.autosaveFired(autosaveItem{state: older, seq: 1})

	env, found := h.saved(t)
	require.True(t, found)
	assert.Equal(t, "newer", env.State.PostText)
	assert.Equal(t, persist.StatusSaved, s.Status())
	assert.Zero(t, h.clock.fire())
}

func TestOpenStore(t *testing.T) {
	s, err := OpenStore(config.StoreConfig{Backend: config.BackendMemory}, false, nil)
	require.NoError(t, err)
	assert.IsType(t, &store.Memory{}, s)

	s, err = OpenStore(config.StoreConfig{Backend: config.BackendBadger, Path: "/nonexistent"}, true, nil)
	require.NoError(t, err)
	assert.IsType(t, &store.Memory{}, s, "ephemeral wins over the configured backend")

	dir := t.TempDir()
	s, err = OpenStore(config.StoreConfig{Backend: config.BackendBadger, Path: filepath.Join(dir, "db")}, false, nil)
	require.NoError(t, err)
	defer s.Close()
	assert.IsType(t, &store.Badger{}, s)
}
