// Package model defines the domain types and value objects for the
// render-tools CLI.
//
// This package contains pure data structures with no external dependencies.
// Camera projection state, export requests and purge scopes/results are all
// transient: persisted state lives in the host document and is reconstructed
// from it at runtime.
//
// The package also defines exit codes (ExitCode), the error type returned for
// out-of-domain numeric input (DomainError) and a custom error type (CLIError)
// that carries exit codes for proper OS process exit handling.
package model
