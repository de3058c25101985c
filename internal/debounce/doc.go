// Package debounce coalesces rapid repeated inputs into a single deferred
// action.
//
// Timers come from a Scheduler so the package does not depend on any
// particular event loop: the eventloop package supplies a real-time
// scheduler whose callbacks run on the loop thread, and ManualScheduler
// supplies a deterministic one for tests.
package debounce
