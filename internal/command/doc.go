// Package command runs the external programs the host delegates to: the
// image-capture command and the renderer loader.
package command
