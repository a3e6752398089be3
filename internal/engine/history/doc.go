// Package history provides linear undo/redo over immutable state snapshots.
//
// A History owns an ordered sequence of snapshots and a cursor pointing at the
// current one. Callers never touch the sequence directly; they describe an edit
// as a pure function from the current snapshot to the next one:
//
//	h := history.New(initial)
//
//	h.Commit(func(s State) State {
//	    s.Text = "hello"
//	    return s
//	})
//
//	h.Undo()
//	h.Redo()
//
// # Commit
//
// Commit computes the next snapshot and records it after the cursor, dropping
// any snapshots that were reachable by redo. A producer that returns a snapshot
// equal to the current one is ignored, so re-applying the same value never
// creates an undo step. Equality is deep and structural; see WithEqual.
//
// # Boundaries
//
// Undo, Redo and Commit never fail. At the start or end of the sequence they
// simply do nothing and report false.
//
// # Reset
//
// Reset replaces the whole sequence with a single snapshot. It is used when a
// session is restored from storage and makes everything before it unreachable.
//
// # Grouping
//
// Transaction folds several producers into a single commit so a multi-field
// edit undoes with one step:
//
//	h.Transaction(setFont, setSize, setColor)
//
// # Observers
//
// Subscribe registers a callback that runs after every transition that changed
// the current snapshot. No-op commits and boundary undo/redo do not notify.
package history
