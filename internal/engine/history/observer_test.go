package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribeReceivesTransitions(t *testing.T) {
	h := New(doc{})
	var got []ChangeKind
	h.Subscribe(func(c Change[doc]) {
		got = append(got, c.Kind)
	})

	h.Commit(withText("a"))
	h.Commit(withText("a")) // no-op
	h.Undo()
	h.Undo() // boundary
	h.Redo()
	h.Redo() // boundary
	h.Reset(doc{Text: "r"})

	assert.Equal(t, []ChangeKind{ChangeCommit, ChangeUndo, ChangeRedo, ChangeReset}, got)
}

func TestChangeCarriesState(t *testing.T) {
	h := New(doc{})
	var last Change[doc]
	h.Subscribe(func(c Change[doc]) { last = c })

	h.Commit(withText("a"))
	assert.Equal(t, "a", last.State.Text)
	assert.Equal(t, 1, last.Cursor)
	assert.Equal(t, 2, last.Len)
	assert.True(t, last.CanUndo)
	assert.False(t, last.CanRedo)

	h.Undo()
	assert.Equal(t, "", last.State.Text)
	assert.True(t, last.CanRedo)
}

func TestObserverMayReadHistory(t *testing.T) {
	h := New(doc{})
	var seen string
	h.Subscribe(func(Change[doc]) {
		seen = h.Current().Text
	})

	h.Commit(withText("a"))
	assert.Equal(t, "a", seen)
}

func TestUnsubscribe(t *testing.T) {
	h := New(doc{})
	calls := 0
	unsubscribe := h.Subscribe(func(Change[doc]) { calls++ })

	h.Commit(withText("a"))
	unsubscribe()
	unsubscribe()
	h.Commit(withText("b"))

	require.Equal(t, 1, calls)
}

func TestSubscribeOrder(t *testing.T) {
	h := New(doc{})
	var order []int
	h.Subscribe(func(Change[doc]) { order = append(order, 1) })
	h.Subscribe(func(Change[doc]) { order = append(order, 2) })
	h.Subscribe(nil)

	h.Commit(withText("a"))
	assert.Equal(t, []int{1, 2}, order)
}

func TestChangeKindString(t *testing.T) {
	assert.Equal(t, "commit", ChangeCommit.String())
	assert.Equal(t, "reset", ChangeReset.String())
	assert.Equal(t, "unknown", ChangeKind(99).String())
}
