package history

import "sync"

// ChangeKind identifies the transition that produced a Change.
type ChangeKind int

const (
	// ChangeCommit indicates a new snapshot was recorded.
	ChangeCommit ChangeKind = iota

	// ChangeUndo indicates the cursor moved back.
	ChangeUndo

	// ChangeRedo indicates the cursor moved forward.
	ChangeRedo

	// ChangeReset indicates the history was replaced.
	ChangeReset
)

// String returns the change kind name.
func (k ChangeKind) String() string {
	switch k {
	case ChangeCommit:
		return "commit"
	case ChangeUndo:
		return "undo"
	case ChangeRedo:
		return "redo"
	case ChangeReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Change describes the history right after a transition.
type Change[T any] struct {
	Kind    ChangeKind
	State   T
	Cursor  int
	Len     int
	CanUndo bool
	CanRedo bool
}

// Observer is called after a transition.
type Observer[T any] func(change Change[T])

type observers[T any] struct {
	mu     sync.RWMutex
	byID   map[uint64]Observer[T]
	order  []uint64
	nextID uint64
}

// Subscribe registers an observer. The returned function removes it.
// Observers run synchronously, in registration order, after the history
// lock is released, so they may call back into the history.
func (h *History[T]) Subscribe(fn Observer[T]) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	id := h.observers.add(fn)
	var once sync.Once
	return func() {
		once.Do(func() { h.observers.remove(id) })
	}
}

func (o *observers[T]) add(fn Observer[T]) uint64 {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.byID == nil {
		o.byID = make(map[uint64]Observer[T])
	}
	o.nextID++
	o.byID[o.nextID] = fn
	o.order = append(o.order, o.nextID)
	return o.nextID
}

func (o *observers[T]) remove(id uint64) {
	o.mu.Lock()
	defer o.mu.Unlock()

	delete(o.byID, id)
	for i, v := range o.order {
		if v == id {
			o.order = append(o.order[:i:i], o.order[i+1:]...)
			break
		}
	}
}

func (o *observers[T]) notify(change Change[T]) {
	o.mu.RLock()
	fns := make([]Observer[T], 0, len(o.order))
	for _, id := range o.order {
		fns = append(fns, o.byID[id])
	}
	o.mu.RUnlock()

	for _, fn := range fns {
		fn(change)
	}
}
