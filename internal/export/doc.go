// Package export builds image export requests and hands them to the host's
// image-capture primitive.
package export
