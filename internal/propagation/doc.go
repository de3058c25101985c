// Package propagation keeps the width, height and aspect ratio fields of the
// camera dialog consistent with each other and with the host camera.
//
// Each field is debounced independently. A change repeating the pending
// value is absorbed; a change after the quiet interval fires again even when
// it repeats the last applied value. Values the controller writes back to
// the view never re-enter its own handlers.
package propagation
