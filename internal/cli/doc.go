// Package cli implements the cobra-based CLI commands for render-tools.
//
// Each subcommand (purge, scan, camera, export, load-renderer, signatures)
// is defined in its own file within this package. This file defines the
// root command that serves as the parent for all subcommands, handles
// global flags and sets up the configuration and logger every subcommand
// shares.
package cli
