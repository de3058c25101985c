package debounce

import "time"

// DefaultInterval is the quiet interval used when none is configured.
const DefaultInterval = 200 * time.Millisecond

// Timer is a scheduled one-shot callback.
type Timer interface {
	// Stop cancels the callback. It returns false if the callback has
	// already run or was already stopped.
	Stop() bool
}

// Scheduler arms one-shot timers. Callbacks must run on the same logical
// thread that calls Debouncer methods.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// Debouncer schedules a single deferred action per quiet interval.
//
// Trigger with a value different from the pending one cancels the pending
// action and schedules a new one. Trigger with the value that is already
// pending is a no-op. Once the action has fired, the next Trigger schedules
// again even when it repeats the value.
//
// A Debouncer is not safe for concurrent use; it belongs to one thread.
type Debouncer[T comparable] struct {
	scheduler Scheduler
	interval  time.Duration
	action    func(T)

	timer   Timer
	pending T
	armed   bool
	// generation invalidates callbacks of cancelled timers that a scheduler
	// may already have queued.
	generation uint64
}

// New creates a Debouncer that runs action with the last triggered value
// after interval of quiet. A non-positive interval uses DefaultInterval.
func New[T comparable](s Scheduler, interval time.Duration, action func(T)) *Debouncer[T] {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Debouncer[T]{scheduler: s, interval: interval, action: action}
}

// Trigger records a change to v.
func (d *Debouncer[T]) Trigger(v T) {
	if d.armed && d.pending == v {
		return
	}
	d.Cancel()

	d.generation++
	gen := d.generation
	d.pending = v
	d.armed = true
	d.timer = d.scheduler.AfterFunc(d.interval, func() {
		if !d.armed || d.generation != gen {
			return
		}
		value := d.pending
		d.armed = false
		d.timer = nil
		d.action(value)
	})
}

// Cancel drops the pending action, if any.
func (d *Debouncer[T]) Cancel() {
	if !d.armed {
		return
	}
	d.timer.Stop()
	d.timer = nil
	d.armed = false
	d.generation++
	var zero T
	d.pending = zero
}

// Pending returns the value waiting to be delivered and whether one is waiting.
func (d *Debouncer[T]) Pending() (T, bool) {
	return d.pending, d.armed
}

// Interval returns the quiet interval.
func (d *Debouncer[T]) Interval() time.Duration {
	return d.interval
}
