// Package eventloop provides the single logical thread the interactive
// engines run on.
//
// Tasks posted to a Loop run one at a time, in posting order, on the
// goroutine that called Run. Timers armed with AfterFunc wait in real time
// and then post their callback to the loop, so every callback observes the
// same thread as the edits that scheduled it. Loop satisfies
// debounce.Scheduler.
package eventloop
