package history

import (
	"reflect"
	"sync"
	"time"
)

// Producer computes the next snapshot from the current one.
type Producer[T any] func(current T) T

// entry wraps a snapshot with metadata.
type entry[T any] struct {
	state     T
	timestamp time.Time
}

// History manages a linear undo/redo sequence of snapshots.
type History[T any] struct {
	mu sync.Mutex

	entries []entry[T]
	cursor  int

	// Configuration
	equal      func(a, b T) bool
	maxEntries int

	observers observers[T]
}

// Option configures a History.
type Option[T any] func(*History[T])

// WithEqual sets the equality used to drop no-op commits.
// The default is reflect.DeepEqual.
func WithEqual[T any](eq func(a, b T) bool) Option[T] {
	return func(h *History[T]) {
		if eq != nil {
			h.equal = eq
		}
	}
}

// WithMaxEntries bounds the number of retained snapshots.
// Zero or a negative value means unbounded.
func WithMaxEntries[T any](n int) Option[T] {
	return func(h *History[T]) {
		if n < 0 {
			n = 0
		}
		h.maxEntries = n
	}
}

// New creates a history seeded with a single snapshot.
func New[T any](seed T, opts ...Option[T]) *History[T] {
	h := &History[T]{
		entries: []entry[T]{{state: seed, timestamp: time.Now()}},
		equal: func(a, b T) bool {
			return reflect.DeepEqual(a, b)
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// NewComparable creates a history for a comparable snapshot type,
// using == for the no-op check.
func NewComparable[T comparable](seed T, opts ...Option[T]) *History[T] {
	all := make([]Option[T], 0, len(opts)+1)
	all = append(all, WithEqual(func(a, b T) bool { return a == b }))
	all = append(all, opts...)
	return New(seed, all...)
}

// Current returns the snapshot at the cursor.
func (h *History[T]) Current() T {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[h.cursor].state
}

// Commit records producer(Current()) as the new current snapshot.
// Snapshots after the cursor are discarded. If the result equals the
// current snapshot nothing changes and Commit returns false.
// The producer runs under the history lock and must not call back into it.
func (h *History[T]) Commit(producer Producer[T]) bool {
	if producer == nil {
		return false
	}

	change, ok := h.commit(producer)
	if !ok {
		return false
	}
	h.observers.notify(change)
	return true
}

// commit applies producer under the lock. A panicking producer leaves the
// history unchanged and unlocked.
func (h *History[T]) commit(producer Producer[T]) (Change[T], bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	next := producer(h.entries[h.cursor].state)
	if h.equal(next, h.entries[h.cursor].state) {
		return Change[T]{}, false
	}
	h.pushLocked(next)
	return h.changeLocked(ChangeCommit), true
}

// pushLocked truncates the redo branch and appends a snapshot.
func (h *History[T]) pushLocked(next T) {
	// Clear redo entries; clip capacity so the old tail is not reused
	n := h.cursor + 1
	h.entries = h.entries[:n:n]
	h.entries = append(h.entries, entry[T]{state: next, timestamp: time.Now()})
	h.cursor = len(h.entries) - 1

	// Enforce max entries
	if h.maxEntries > 0 && len(h.entries) > h.maxEntries {
		excess := len(h.entries) - h.maxEntries
		h.entries = h.entries[excess:]
		h.cursor -= excess
	}
}

// Undo moves the cursor back one step. Returns false at the start.
func (h *History[T]) Undo() bool {
	h.mu.Lock()
	if h.cursor == 0 {
		h.mu.Unlock()
		return false
	}
	h.cursor--
	change := h.changeLocked(ChangeUndo)
	h.mu.Unlock()

	h.observers.notify(change)
	return true
}

// Redo moves the cursor forward one step. Returns false at the end.
func (h *History[T]) Redo() bool {
	h.mu.Lock()
	if h.cursor >= len(h.entries)-1 {
		h.mu.Unlock()
		return false
	}
	h.cursor++
	change := h.changeLocked(ChangeRedo)
	h.mu.Unlock()

	h.observers.notify(change)
	return true
}

// Reset replaces the whole history with a single snapshot.
func (h *History[T]) Reset(seed T) {
	h.mu.Lock()
	h.entries = []entry[T]{{state: seed, timestamp: time.Now()}}
	h.cursor = 0
	change := h.changeLocked(ChangeReset)
	h.mu.Unlock()

	h.observers.notify(change)
}

// CanUndo returns true if undo is available.
func (h *History[T]) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cursor > 0
}

// CanRedo returns true if redo is available.
func (h *History[T]) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cursor < len(h.entries)-1
}

// Len returns the number of retained snapshots.
func (h *History[T]) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// Cursor returns the index of the current snapshot.
func (h *History[T]) Cursor() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cursor
}

// MaxEntries returns the retention bound, 0 if unbounded.
func (h *History[T]) MaxEntries() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.maxEntries
}

// SetMaxEntries changes the retention bound.
// If more snapshots are retained, the oldest are dropped, but never the current one.
func (h *History[T]) SetMaxEntries(max int) {
	if max < 0 {
		max = 0
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.maxEntries = max
	if max == 0 || len(h.entries) <= max {
		return
	}

	excess := len(h.entries) - max
	if excess > h.cursor {
		excess = h.cursor
	}
	h.entries = h.entries[excess:]
	h.cursor -= excess
	if len(h.entries) > max {
		// The redo tail is what remains over the bound
		h.entries = h.entries[:max]
	}
}

// Info describes one retained snapshot.
type Info struct {
	Index     int
	Current   bool
	Timestamp time.Time
}

// Entries returns metadata for every retained snapshot, oldest first.
func (h *History[T]) Entries() []Info {
	h.mu.Lock()
	defer h.mu.Unlock()

	result := make([]Info, len(h.entries))
	for i, e := range h.entries {
		result[i] = Info{
			Index:     i,
			Current:   i == h.cursor,
			Timestamp: e.timestamp,
		}
	}
	return result
}

func (h *History[T]) changeLocked(kind ChangeKind) Change[T] {
	return Change[T]{
		Kind:    kind,
		State:   h.entries[h.cursor].state,
		Cursor:  h.cursor,
		Len:     len(h.entries),
		CanUndo: h.cursor > 0,
		CanRedo: h.cursor < len(h.entries)-1,
	}
}
