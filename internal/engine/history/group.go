package history

// Compose folds producers left to right into a single producer.
// Nil producers are skipped.
func Compose[T any](producers ...Producer[T]) Producer[T] {
	return func(current T) T {
		for _, p := range producers {
			if p != nil {
				current = p(current)
			}
		}
		return current
	}
}

// Transaction applies several producers as one undo unit.
// Intermediate results are never recorded; only the final snapshot is
// compared against the current one.
func (h *History[T]) Transaction(producers ...Producer[T]) bool {
	if len(producers) == 0 {
		return false
	}
	if len(producers) == 1 {
		return h.Commit(producers[0])
	}
	return h.Commit(Compose(producers...))
}

// Checkpoint marks a cursor position that can be returned to with UndoTo.
type Checkpoint struct {
	cursor int
}

// CreateCheckpoint records the current cursor position.
func (h *History[T]) CreateCheckpoint() Checkpoint {
	h.mu.Lock()
	defer h.mu.Unlock()
	return Checkpoint{cursor: h.cursor}
}

// UndoTo undoes until the cursor is at or before the checkpoint.
// Returns the number of steps taken.
func (h *History[T]) UndoTo(cp Checkpoint) int {
	steps := 0
	for h.Cursor() > cp.cursor && h.Undo() {
		steps++
	}
	return steps
}
