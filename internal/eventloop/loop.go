package eventloop

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shinji-kodama/render-tools/internal/debounce"
)

// ErrClosed is returned by Run after Close.
var ErrClosed = errors.New("event loop closed")

// task is a queued callback and the number of outstanding counts released
// when it leaves the queue, whether it runs or is dropped by Close.
type task struct {
	run   func()
	holds int
}

// Loop is a FIFO task queue drained by a single goroutine.
type Loop struct {
	mu     sync.Mutex
	queue  []task
	notify chan struct{}
	done   chan struct{}
	closed bool

	// outstanding counts queued tasks plus armed timers; Wait returns when
	// it drops to zero.
	outstanding sync.WaitGroup
}

// New creates an idle Loop. Call Run to start draining it.
func New() *Loop {
	return &Loop{
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// Post queues f to run on the loop thread. Posting after Close is ignored.
func (l *Loop) Post(f func()) {
	l.post(f, 0)
}

// post queues f. inherited is the number of counts the caller already added
// that the task takes over.
func (l *Loop) post(f func(), inherited int) bool {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return false
	}
	l.outstanding.Add(1)
	l.queue = append(l.queue, task{run: f, holds: 1 + inherited})
	l.mu.Unlock()

	select {
	case l.notify <- struct{}{}:
	default:
	}
	return true
}

// Run drains the queue until ctx is cancelled or Close is called.
func (l *Loop) Run(ctx context.Context) error {
	for {
		for {
			t, ok := l.pop()
			if !ok {
				break
			}
			l.runTask(t)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.done:
			return ErrClosed
		case <-l.notify:
		}
	}
}

func (l *Loop) pop() (task, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.queue) == 0 {
		return task{}, false
	}
	t := l.queue[0]
	l.queue[0] = task{}
	l.queue = l.queue[1:]
	return t, true
}

func (l *Loop) runTask(t task) {
	defer l.release(t.holds)
	t.run()
}

func (l *Loop) release(n int) {
	for range n {
		l.outstanding.Done()
	}
}

// Wait blocks until no task is queued or running and no timer is armed.
// It must not be called from the loop thread.
func (l *Loop) Wait() {
	l.outstanding.Wait()
}

// Close stops Run. Queued tasks that have not started are dropped.
func (l *Loop) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.closed = true
	for _, t := range l.queue {
		l.release(t.holds)
	}
	l.queue = nil
	close(l.done)
}

// timer is a real-time timer whose callback runs on the loop thread.
// stopped and fired are only touched on the loop thread.
type timer struct {
	loop    *Loop
	t       *time.Timer
	stopped bool
	fired   bool
}

// AfterFunc arms a one-shot timer. After d the callback is posted to the
// loop; Stop called on the loop thread guarantees f never runs, even when
// the timer already expired and its callback is waiting in the queue.
func (l *Loop) AfterFunc(d time.Duration, f func()) debounce.Timer {
	tm := &timer{loop: l}
	l.outstanding.Add(1)
	tm.t = time.AfterFunc(d, func() {
		// The queued task takes over the timer's count, so Close can
		// release it without running the callback.
		posted := l.post(func() {
			if tm.stopped {
				return
			}
			tm.fired = true
			f()
		}, 1)
		if !posted {
			l.outstanding.Done()
		}
	})
	return tm
}

// Stop satisfies debounce.Timer.
func (tm *timer) Stop() bool {
	if tm.stopped || tm.fired {
		return false
	}
	tm.stopped = true
	if tm.t.Stop() {
		// The callback will never be posted; release its hold on Wait.
		tm.loop.outstanding.Done()
	}
	return true
}
