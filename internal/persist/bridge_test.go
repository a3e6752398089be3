package persist

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/postforge/internal/engine/history"
	"github.com/dshills/postforge/internal/post"
	"github.com/dshills/postforge/internal/prompt"
	"github.com/dshills/postforge/internal/store"
)

var errDisk = errors.New("disk full")

// failingStore wraps a Memory store and fails selected operations.
type failingStore struct {
	*store.Memory
	failGet bool
	failSet bool
}

func (f *failingStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if f.failGet {
		return nil, false, errDisk
	}
	return f.Memory.Get(ctx, key)
}

func (f *failingStore) Set(ctx context.Context, key string, value []byte) error {
	if f.failSet {
		return errDisk
	}
	return f.Memory.Set(ctx, key, value)
}

type statusLog struct {
	mu  sync.Mutex
	got []SaveStatus
}

func (l *statusLog) record(s SaveStatus) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.got = append(l.got, s)
}

func (l *statusLog) all() []SaveStatus {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]SaveStatus(nil), l.got...)
}

func newHistory() *history.History[post.State] {
	return history.NewComparable(post.Default())
}

func seedSlot(t *testing.T, s store.Store, state post.State) {
	t.Helper()
	data, err := testCodec().Encode(state)
	require.NoError(t, err)
	require.NoError(t, s.Set(context.Background(), DefaultKey, data))
}

func slotExists(t *testing.T, s store.Store) bool {
	t.Helper()
	_, found, err := s.Get(context.Background(), DefaultKey)
	require.NoError(t, err)
	return found
}

func TestBridge_RestoreNoSession(t *testing.T) {
	confirm := prompt.NewScripted()
	b := NewBridge(store.NewMemory(), testCodec(), confirm, nil)

	ok, err := b.Restore(context.Background(), newHistory())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, confirm.Asked(), "no prompt without a saved session")
	assert.Equal(t, StatusIdle, b.Status())
}

func TestBridge_RestoreAccepted(t *testing.T) {
	mem := store.NewMemory()
	saved := editedState()
	seedSlot(t, mem, saved)

	h := newHistory()
	h.Commit(post.SetText("pre-restore edit"))
	require.True(t, h.CanUndo())

	confirm := prompt.NewScripted(prompt.Yes())
	b := NewBridge(mem, testCodec(), confirm, nil)

	ok, err := b.Restore(context.Background(), h)
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Equal(t, []string{RestorePrompt}, confirm.Asked())
	assert.Equal(t, saved, h.Current())
	assert.False(t, h.CanUndo())
	assert.False(t, h.CanRedo())
	assert.Equal(t, StatusSaved, b.Status())
	assert.True(t, slotExists(t, mem))
}

func TestBridge_RestoreDeclined(t *testing.T) {
	mem := store.NewMemory()
	seedSlot(t, mem, editedState())

	h := newHistory()
	b := NewBridge(mem, testCodec(), prompt.NewScripted(prompt.No()), nil)

	ok, err := b.Restore(context.Background(), h)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, slotExists(t, mem), "declined session is cleared")
	assert.Equal(t, post.Default(), h.Current())
}

func TestBridge_RestoreCorrupt(t *testing.T) {
	mem := store.NewMemory()
	require.NoError(t, mem.Set(context.Background(), DefaultKey, []byte("{garbage")))

	h := newHistory()
	b := NewBridge(mem, testCodec(), prompt.NewScripted(prompt.Yes()), nil)

	ok, err := b.Restore(context.Background(), h)
	require.NoError(t, err, "corrupt data is not surfaced as an error")
	assert.False(t, ok)
	assert.False(t, slotExists(t, mem), "corrupt session is cleared")
	assert.Equal(t, post.Default(), h.Current())
	assert.Equal(t, StatusIdle, b.Status())
}

func TestBridge_RestoreErrors(t *testing.T) {
	t.Run("store", func(t *testing.T) {
		fs := &failingStore{Memory: store.NewMemory(), failGet: true}
		b := NewBridge(fs, testCodec(), prompt.NewScripted(), nil)

		_, err := b.Restore(context.Background(), newHistory())
		assert.ErrorIs(t, err, errDisk)
	})

	t.Run("confirmer", func(t *testing.T) {
		mem := store.NewMemory()
		seedSlot(t, mem, editedState())
		b := NewBridge(mem, testCodec(), prompt.NewScripted(), nil)

		_, err := b.Restore(context.Background(), newHistory())
		assert.ErrorIs(t, err, prompt.ErrNoAnswer)
		assert.True(t, slotExists(t, mem), "slot kept when the question was never answered")
	})
}

func TestBridge_RestoreDoesNotMarkDirty(t *testing.T) {
	mem := store.NewMemory()
	seedSlot(t, mem, editedState())

	h := newHistory()
	b := NewBridge(mem, testCodec(), prompt.NewScripted(prompt.Yes()), nil)
	h.Subscribe(func(history.Change[post.State]) { b.MarkDirty() })

	log := &statusLog{}
	b.OnStatus(log.record)

	_, err := b.Restore(context.Background(), h)
	require.NoError(t, err)
	assert.Equal(t, []SaveStatus{StatusSaved}, log.all())

	h.Commit(post.SetText("after restore"))
	assert.Equal(t, StatusUnsaved, b.Status())
}

func TestBridge_Save(t *testing.T) {
	mem := store.NewMemory()
	b := NewBridge(mem, testCodec(), prompt.NewScripted(), nil)
	log := &statusLog{}
	b.OnStatus(log.record)

	b.MarkDirty()
	b.MarkDirty()
	state := editedState()
	require.NoError(t, b.Save(context.Background(), state))

	assert.Equal(t, []SaveStatus{StatusUnsaved, StatusSaving, StatusSaved}, log.all())

	env, found, err := b.Peek(context.Background())
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, state, env.State)
}

func TestBridge_SaveFailure(t *testing.T) {
	fs := &failingStore{Memory: store.NewMemory(), failSet: true}
	b := NewBridge(fs, testCodec(), prompt.NewScripted(), nil)
	log := &statusLog{}
	b.OnStatus(log.record)

	b.MarkDirty()
	err := b.Save(context.Background(), editedState())
	assert.ErrorIs(t, err, errDisk)
	assert.Equal(t, StatusUnsaved, b.Status())
	assert.Equal(t, []SaveStatus{StatusUnsaved, StatusSaving, StatusUnsaved}, log.all())

	fs.failSet = false
	require.NoError(t, b.Save(context.Background(), editedState()))
	assert.Equal(t, StatusSaved, b.Status())
}

func TestBridge_SaveInvalidStateKeepsSlot(t *testing.T) {
	mem := store.NewMemory()
	b := NewBridge(mem, testCodec(), prompt.NewScripted(), nil)
	require.NoError(t, b.Save(context.Background(), editedState()))
	before, _, err := mem.Get(context.Background(), DefaultKey)
	require.NoError(t, err)

	b.MarkDirty()
	err = b.Save(context.Background(), post.SetFontSize(0)(editedState()))
	assert.ErrorIs(t, err, post.ErrInvalidState)
	assert.Equal(t, StatusUnsaved, b.Status())

	after, _, err := mem.Get(context.Background(), DefaultKey)
	require.NoError(t, err)
	assert.Equal(t, before, after, "a rejected save must not touch the slot")
}

func TestBridge_Clear(t *testing.T) {
	mem := store.NewMemory()
	b := NewBridge(mem, testCodec(), prompt.NewScripted(), nil)
	require.NoError(t, b.Save(context.Background(), post.Default()))
	require.True(t, slotExists(t, mem))

	require.NoError(t, b.Clear(context.Background()))
	assert.False(t, slotExists(t, mem))
	assert.Equal(t, StatusIdle, b.Status())

	_, found, err := b.Peek(context.Background())
	require.NoError(t, err)
	assert.False(t, found)
}

func TestBridge_WithKey(t *testing.T) {
	mem := store.NewMemory()
	b := NewBridge(mem, testCodec(), prompt.NewScripted(), nil, WithKey("other"))
	assert.Equal(t, "other", b.Key())

	require.NoError(t, b.Save(context.Background(), post.Default()))
	assert.Equal(t, []string{"other"}, mem.Keys())
}

func TestBridge_OnStatusUnsubscribe(t *testing.T) {
	b := NewBridge(store.NewMemory(), testCodec(), prompt.NewScripted(), nil)
	log := &statusLog{}
	unsubscribe := b.OnStatus(log.record)

	b.MarkDirty()
	unsubscribe()
	unsubscribe()
	require.NoError(t, b.Save(context.Background(), post.Default()))

	assert.Equal(t, []SaveStatus{StatusUnsaved}, log.all())
	assert.NotPanics(t, func() { b.OnStatus(nil)() })
}

func TestSaveStatus_Label(t *testing.T) {
	assert.Equal(t, "", StatusIdle.Label())
	assert.Equal(t, "Unsaved changes...", StatusUnsaved.Label())
	assert.Equal(t, "Saving...", StatusSaving.Label())
	assert.Equal(t, "Saved", StatusSaved.Label())
	assert.Equal(t, "saving", StatusSaving.String())
}
