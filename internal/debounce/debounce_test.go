package debounce

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type recorder[T any] struct {
	values []T
	times  []time.Duration
}

func newRecorded[T comparable](s *ManualScheduler, interval time.Duration) (*Debouncer[T], *recorder[T]) {
	rec := &recorder[T]{}
	d := New(s, interval, func(v T) {
		rec.values = append(rec.values, v)
		rec.times = append(rec.times, s.Now())
	})
	return d, rec
}

// TestDebouncer_CoalescesWithinWindow verifies that [a, a, b] inside the
// quiet interval fires exactly once, carrying b.
func TestDebouncer_CoalescesWithinWindow(t *testing.T) {
	s := NewManualScheduler()
	d, rec := newRecorded[string](s, 200*time.Millisecond)

	d.Trigger("a")
	s.Advance(50 * time.Millisecond)
	d.Trigger("a")
	s.Advance(50 * time.Millisecond)
	d.Trigger("b")
	s.Advance(time.Second)

	assert.Equal(t, []string{"b"}, rec.values)
	// The window restarts at the last different value (t=100ms).
	assert.Equal(t, []time.Duration{300 * time.Millisecond}, rec.times)
}

// TestDebouncer_RepeatDoesNotReschedule verifies that repeating the pending
// value neither cancels nor restarts the window.
func TestDebouncer_RepeatDoesNotReschedule(t *testing.T) {
	s := NewManualScheduler()
	d, rec := newRecorded[int](s, 200*time.Millisecond)

	d.Trigger(5)
	s.Advance(150 * time.Millisecond)
	d.Trigger(5)
	s.Advance(50 * time.Millisecond)

	assert.Equal(t, []int{5}, rec.values)
	assert.Equal(t, []time.Duration{200 * time.Millisecond}, rec.times)
}

// TestDebouncer_SeparateWindows verifies that the same value in two separate
// windows fires twice.
func TestDebouncer_SeparateWindows(t *testing.T) {
	s := NewManualScheduler()
	d, rec := newRecorded[string](s, 200*time.Millisecond)

	d.Trigger("a")
	s.Advance(250 * time.Millisecond)
	d.Trigger("a")
	s.Advance(250 * time.Millisecond)

	assert.Equal(t, []string{"a", "a"}, rec.values)
}

// TestDebouncer_AtMostOnePending verifies that changing values cancels the
// previous timer so only one timer is ever armed.
func TestDebouncer_AtMostOnePending(t *testing.T) {
	s := NewManualScheduler()
	d, rec := newRecorded[int](s, 200*time.Millisecond)

	for i := 0; i < 10; i++ {
		d.Trigger(i)
		assert.Equal(t, 1, s.Pending())
		s.Advance(10 * time.Millisecond)
	}

	v, ok := d.Pending()
	assert.True(t, ok)
	assert.Equal(t, 9, v)

	s.Advance(time.Second)
	assert.Equal(t, []int{9}, rec.values)
	assert.Equal(t, 0, s.Pending())
}

// TestDebouncer_Cancel verifies a cancelled action never fires.
func TestDebouncer_Cancel(t *testing.T) {
	s := NewManualScheduler()
	d, rec := newRecorded[int](s, 200*time.Millisecond)

	d.Trigger(1)
	d.Cancel()
	s.Advance(time.Second)

	assert.Empty(t, rec.values)
	_, ok := d.Pending()
	assert.False(t, ok)

	// Cancel without a pending action is harmless.
	d.Cancel()
}

// TestDebouncer_StaleCallbackIgnored simulates a scheduler that runs the
// callback of a timer stopped too late: the stale callback must not fire.
func TestDebouncer_StaleCallbackIgnored(t *testing.T) {
	ls := &leakyScheduler{}
	var got []int
	d := New(ls, time.Millisecond, func(v int) { got = append(got, v) })

	d.Trigger(1)
	d.Trigger(2)
	// Both callbacks were captured; run them in order as a racing loop would.
	for _, f := range ls.callbacks {
		f()
	}
	assert.Equal(t, []int{2}, got)
}

// TestDebouncer_DefaultInterval verifies a non-positive interval falls back
// to the default.
func TestDebouncer_DefaultInterval(t *testing.T) {
	d := New(NewManualScheduler(), 0, func(int) {})
	assert.Equal(t, DefaultInterval, d.Interval())
}

// TestDebouncer_IndependentFields verifies debouncers do not cancel each other.
func TestDebouncer_IndependentFields(t *testing.T) {
	s := NewManualScheduler()
	w, wr := newRecorded[int](s, 200*time.Millisecond)
	h, hr := newRecorded[int](s, 200*time.Millisecond)

	w.Trigger(800)
	s.Advance(100 * time.Millisecond)
	h.Trigger(600)
	s.Advance(100 * time.Millisecond)
	assert.Equal(t, []int{800}, wr.values)
	assert.Empty(t, hr.values)

	s.Advance(100 * time.Millisecond)
	assert.Equal(t, []int{600}, hr.values)
}

// leakyScheduler records callbacks and ignores Stop, like a real-time timer
// whose callback was already queued when it was stopped.
type leakyScheduler struct {
	callbacks []func()
}

type leakyTimer struct{}

func (leakyTimer) Stop() bool { return false }

func (l *leakyScheduler) AfterFunc(_ time.Duration, f func()) Timer {
	l.callbacks = append(l.callbacks, f)
	return leakyTimer{}
}
