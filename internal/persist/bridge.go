package persist

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dshills/postforge/internal/post"
	"github.com/dshills/postforge/internal/store"
)

// DefaultKey is the slot the session is saved under.
const DefaultKey = "social-post-auto-save"

// RestorePrompt is the question asked when a saved session is found.
const RestorePrompt = "You have an unsaved session. Would you like to restore it?"

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(message string) (bool, error)
}

// Resetter replaces an editing history with a single seed state.
// *history.History[post.State] satisfies it.
type Resetter interface {
	Reset(seed post.State)
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithKey overrides the slot key.
func WithKey(key string) Option {
	return func(b *Bridge) {
		if key != "" {
			b.key = key
		}
	}
}

// Bridge connects an editing history to a store slot.
type Bridge struct {
	store   store.Store
	codec   *Codec
	confirm Confirmer
	logger  *slog.Logger
	key     string

	mu        sync.Mutex
	status    SaveStatus
	restoring bool
	observers map[int]func(SaveStatus)
	nextID    int
}

// NewBridge creates a bridge. A nil codec gets NewCodec(); a nil logger
// discards output.
func NewBridge(s store.Store, codec *Codec, confirm Confirmer, logger *slog.Logger, opts ...Option) *Bridge {
	if codec == nil {
		codec = NewCodec()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	b := &Bridge{
		store:     s,
		codec:     codec,
		confirm:   confirm,
		logger:    logger,
		key:       DefaultKey,
		status:    StatusIdle,
		observers: make(map[int]func(SaveStatus)),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Key returns the slot key.
func (b *Bridge) Key() string {
	return b.key
}

// Restore offers a saved session to the user.
//
// It returns true when a session was found, accepted, decoded and passed to
// target.Reset. A declined session is removed. A session that fails to
// decode is logged and removed, and Restore returns false without error.
// Store and confirmer errors are returned.
func (b *Bridge) Restore(ctx context.Context, target Resetter) (bool, error) {
	data, found, err := b.store.Get(ctx, b.key)
	if err != nil {
		return false, fmt.Errorf("read saved session: %w", err)
	}
	if !found {
		return false, nil
	}

	ok, err := b.confirm.Confirm(RestorePrompt)
	if err != nil {
		return false, fmt.Errorf("confirm restore: %w", err)
	}
	if !ok {
		b.logger.Info("saved session discarded", "key", b.key)
		return false, b.remove(ctx)
	}

	env, err := b.codec.Decode(data)
	if err != nil {
		b.logger.Error("failed to load saved session", "key", b.key, "error", err)
		return false, b.remove(ctx)
	}

	b.mu.Lock()
	b.restoring = true
	b.mu.Unlock()

	target.Reset(env.State)

	b.mu.Lock()
	b.restoring = false
	b.mu.Unlock()

	b.setStatus(StatusSaved)
	b.logger.Info("session restored", "key", b.key, "session", env.Session, "saved_at", env.SavedAt)
	return true, nil
}

// Peek decodes the saved session without prompting or touching history.
func (b *Bridge) Peek(ctx context.Context) (Envelope, bool, error) {
	data, found, err := b.store.Get(ctx, b.key)
	if err != nil {
		return Envelope{}, false, fmt.Errorf("read saved session: %w", err)
	}
	if !found {
		return Envelope{}, false, nil
	}
	env, err := b.codec.Decode(data)
	if err != nil {
		return Envelope{}, true, err
	}
	return env, true, nil
}

// MarkDirty records a committed edit. It is ignored while a restore is
// resetting the history.
func (b *Bridge) MarkDirty() {
	b.mu.Lock()
	if b.restoring {
		b.mu.Unlock()
		return
	}
	b.mu.Unlock()
	b.setStatus(StatusUnsaved)
}

// Save writes s to the slot. On failure the status returns to unsaved so
// the next edit retries.
func (b *Bridge) Save(ctx context.Context, s post.State) error {
	b.setStatus(StatusSaving)

	data, err := b.codec.Encode(s)
	if err == nil {
		err = b.store.Set(ctx, b.key, data)
	}
	if err != nil {
		b.logger.Error("failed to auto-save session", "key", b.key, "error", err)
		b.setStatus(StatusUnsaved)
		return fmt.Errorf("save session: %w", err)
	}

	b.setStatus(StatusSaved)
	b.logger.Debug("session saved", "key", b.key, "bytes", len(data))
	return nil
}

// Clear removes the slot and resets the status to idle.
func (b *Bridge) Clear(ctx context.Context) error {
	if err := b.remove(ctx); err != nil {
		return err
	}
	b.setStatus(StatusIdle)
	return nil
}

// Status returns the current save status.
func (b *Bridge) Status() SaveStatus {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.status
}

// OnStatus registers fn to be called on every status change.
// The returned function unsubscribes.
func (b *Bridge) OnStatus(fn func(SaveStatus)) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.observers[id] = fn
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.observers, id)
			b.mu.Unlock()
		})
	}
}

func (b *Bridge) remove(ctx context.Context) error {
	if err := b.store.Remove(ctx, b.key); err != nil {
		return fmt.Errorf("remove saved session: %w", err)
	}
	return nil
}

func (b *Bridge) setStatus(s SaveStatus) {
	b.mu.Lock()
	if b.status == s {
		b.mu.Unlock()
		return
	}
	b.status = s
	fns := make([]func(SaveStatus), 0, len(b.observers))
	for id := 0; id < b.nextID; id++ {
		if fn, ok := b.observers[id]; ok {
			fns = append(fns, fn)
		}
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn(s)
	}
}
