package debounce

import (
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock fires timers only when advanced.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Duration
	fn      func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now + d, fn: f}
	c.timers = append(c.timers, t)
	return t
}

// AdvanceTo moves the clock forward, firing due timers in deadline order.
func (c *fakeClock) AdvanceTo(at time.Duration) {
	for {
		c.mu.Lock()
		var due []*fakeTimer
		for _, t := range c.timers {
			if !t.stopped && !t.fired && t.at <= at {
				due = append(due, t)
			}
		}
		if len(due) == 0 {
			c.now = at
			c.mu.Unlock()
			return
		}
		sort.Slice(due, func(i, j int) bool { return due[i].at < due[j].at })
		next := due[0]
		next.fired = true
		c.now = next.at
		c.mu.Unlock()

		next.fn()
	}
}

type recorder[T any] struct {
	mu     sync.Mutex
	values []T
	times  []time.Duration
	clock  *fakeClock
}

func (r *recorder[T]) emit(v T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = append(r.values, v)
	if r.clock != nil {
		r.times = append(r.times, r.clock.now)
	}
}

func (r *recorder[T]) got() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]T(nil), r.values...)
}

func newFake[T any](delay time.Duration) (*Debouncer[T], *fakeClock, *recorder[T]) {
	clock := &fakeClock{}
	rec := &recorder[T]{clock: clock}
	d := New(delay, rec.emit, WithAfterFunc(clock.AfterFunc))
	return d, clock, rec
}

func TestDebounceRapidInputsEmitLastOnly(t *testing.T) {
	d, clock, rec := newFake[string](150 * time.Millisecond)

	d.Push("t0")
	clock.AdvanceTo(50 * time.Millisecond)
	d.Push("t50")
	clock.AdvanceTo(100 * time.Millisecond)
	d.Push("t100")

	clock.AdvanceTo(249 * time.Millisecond)
	assert.Empty(t, rec.got(), "nothing may settle before t=250ms")
	assert.True(t, d.Pending())

	clock.AdvanceTo(250 * time.Millisecond)
	require.Equal(t, []string{"t100"}, rec.got())
	assert.Equal(t, 250*time.Millisecond, rec.times[0])
	assert.False(t, d.Pending())

	clock.AdvanceTo(time.Second)
	assert.Len(t, rec.got(), 1)
}

func TestDebounceSeparatedInputsEmitEach(t *testing.T) {
	d, clock, rec := newFake[int](100 * time.Millisecond)

	d.Push(1)
	clock.AdvanceTo(100 * time.Millisecond)
	d.Push(2)
	clock.AdvanceTo(250 * time.Millisecond)

	assert.Equal(t, []int{1, 2}, rec.got())
}

func TestDebounceStaleTimerIgnored(t *testing.T) {
	clock := &fakeClock{}
	rec := &recorder[string]{}
	var armed []func()
	capture := func(d time.Duration, f func()) Timer {
		armed = append(armed, f)
		return clock.AfterFunc(d, func() {})
	}
	d := New(time.Second, rec.emit, WithAfterFunc(capture))

	d.Push("old")
	d.Push("new")
	require.Len(t, armed, 2)

	// The superseded callback races in after Stop lost.
	armed[0]()
	assert.Empty(t, rec.got())

	armed[1]()
	assert.Equal(t, []string{"new"}, rec.got())
}

func TestFlush(t *testing.T) {
	d, clock, rec := newFake[string](time.Second)

	assert.False(t, d.Flush())

	d.Push("a")
	assert.True(t, d.Flush())
	assert.Equal(t, []string{"a"}, rec.got())

	clock.AdvanceTo(2 * time.Second)
	assert.Len(t, rec.got(), 1, "flushed value must not fire again")
}

func TestCancel(t *testing.T) {
	d, clock, rec := newFake[string](time.Second)

	d.Push("a")
	d.Cancel()
	clock.AdvanceTo(2 * time.Second)

	assert.Empty(t, rec.got())
	assert.False(t, d.Pending())
}

func TestStop(t *testing.T) {
	d, clock, rec := newFake[string](time.Second)

	d.Push("a")
	d.Stop()
	assert.False(t, d.Push("b"))
	clock.AdvanceTo(5 * time.Second)

	assert.Empty(t, rec.got())
}

func TestSetDelay(t *testing.T) {
	d, clock, rec := newFake[string](time.Second)

	d.SetDelay(200 * time.Millisecond)
	assert.Equal(t, 200*time.Millisecond, d.Delay())

	d.Push("a")
	clock.AdvanceTo(200 * time.Millisecond)
	assert.Equal(t, []string{"a"}, rec.got())

	d.SetDelay(0)
	assert.Equal(t, DefaultDelay, d.Delay())
}

func TestDefaultDelay(t *testing.T) {
	d := New(0, func(int) {})
	assert.Equal(t, DefaultDelay, d.Delay())
}

func TestRealTimer(t *testing.T) {
	out := make(chan string, 4)
	d := New(20*time.Millisecond, func(v string) { out <- v })
	defer d.Stop()

	d.Push("a")
	d.Push("b")

	select {
	case v := <-out:
		assert.Equal(t, "b", v)
	case <-time.After(2 * time.Second):
		t.Fatal("debounced value never emitted")
	}

	select {
	case v := <-out:
		t.Fatalf("unexpected second emit %q", v)
	case <-time.After(60 * time.Millisecond):
	}
}
