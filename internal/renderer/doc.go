// Package renderer loads the external renderer on request and remembers a
// successful load so it is not repeated.
package renderer
