// Package debounce delays propagation of a rapidly changing value until it
// has been stable for a fixed duration.
//
// Every Push cancels the pending timer and arms a new one. The emit callback
// only ever sees the value of the last Push before the input went quiet, so
// values pushed faster than the delay are never emitted.
package debounce

import (
	"sync"
	"time"
)

// DefaultDelay is used when a non-positive delay is supplied.
const DefaultDelay = 100 * time.Millisecond

// Timer is the subset of *time.Timer the debouncer needs.
type Timer interface {
	Stop() bool
}

// AfterFunc arms a timer that calls f after d.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Option configures a Debouncer.
type Option func(*options)

type options struct {
	afterFunc AfterFunc
}

// WithAfterFunc replaces the timer source. Used by tests to drive a fake clock.
func WithAfterFunc(fn AfterFunc) Option {
	return func(o *options) {
		if fn != nil {
			o.afterFunc = fn
		}
	}
}

// Debouncer emits the latest pushed value once input has been quiet for the delay.
type Debouncer[T any] struct {
	mu        sync.Mutex
	delay     time.Duration
	emit      func(T)
	afterFunc AfterFunc

	timer   Timer
	value   T
	pending bool
	// gen invalidates timers that fired after being superseded.
	gen     uint64
	stopped bool
}

// New creates a debouncer that calls emit with the settled value.
// emit runs on the timer goroutine.
func New[T any](delay time.Duration, emit func(T), opts ...Option) *Debouncer[T] {
	if delay <= 0 {
		delay = DefaultDelay
	}
	o := options{afterFunc: realAfterFunc}
	for _, opt := range opts {
		opt(&o)
	}
	return &Debouncer[T]{
		delay:     delay,
		emit:      emit,
		afterFunc: o.afterFunc,
	}
}

// Push records v and restarts the delay. Returns false after Stop.
func (d *Debouncer[T]) Push(v T) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return false
	}

	d.stopTimerLocked()
	d.gen++
	d.value = v
	d.pending = true

	gen := d.gen
	d.timer = d.afterFunc(d.delay, func() {
		d.fire(gen)
	})
	return true
}

// fire emits the pending value if the timer that armed it is still current.
func (d *Debouncer[T]) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || !d.pending {
		d.mu.Unlock()
		return
	}
	v := d.takeLocked()
	d.mu.Unlock()

	d.emit(v)
}

// Flush immediately emits the pending value, if any.
// Returns true if a value was emitted.
func (d *Debouncer[T]) Flush() bool {
	d.mu.Lock()
	if !d.pending {
		d.mu.Unlock()
		return false
	}
	d.stopTimerLocked()
	d.gen++
	v := d.takeLocked()
	d.mu.Unlock()

	d.emit(v)
	return true
}

// Cancel drops the pending value without emitting it.
func (d *Debouncer[T]) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
}

// Stop cancels any pending value and rejects further pushes.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
	d.stopped = true
}

// Pending reports whether a value is waiting for its timer.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// Delay returns the current delay.
func (d *Debouncer[T]) Delay() time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.delay
}

// SetDelay updates the delay. A timer that is already armed keeps its deadline.
func (d *Debouncer[T]) SetDelay(delay time.Duration) {
	if delay <= 0 {
		delay = DefaultDelay
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.delay = delay
}

func (d *Debouncer[T]) cancelLocked() {
	d.stopTimerLocked()
	d.gen++
	if d.pending {
		d.takeLocked()
	}
}

func (d *Debouncer[T]) stopTimerLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// takeLocked clears the pending slot and returns its value.
func (d *Debouncer[T]) takeLocked() T {
	v := d.value
	var zero T
	d.value = zero
	d.pending = false
	d.timer = nil
	return v
}
