package model

import "fmt"

// DomainError reports numeric input outside the domain of an operation:
// an invalid field of view, non-positive viewport dimensions, a negative or
// non-finite ratio, or text that is not a number.
//
// Domain errors are recovered locally by the caller: the triggering edit is
// rejected and nothing is propagated.
type DomainError struct {
	// Op names the operation that rejected the input.
	Op string

	// Msg describes the violation.
	Msg string
}

// Error satisfies the error interface.
func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Msg)
}

// NewDomainError creates a DomainError for the given operation.
func NewDomainError(op, msg string) *DomainError {
	return &DomainError{Op: op, Msg: msg}
}

// ExitCode defines the CLI exit codes. These codes allow scripts to
// programmatically determine the outcome of a command.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitDocumentNotFound indicates the scene document could not be found.
	ExitDocumentNotFound ExitCode = 2

	// ExitInvalidInput indicates a domain error in user supplied values.
	ExitInvalidInput ExitCode = 3

	// ExitPurgeFailed indicates the purge transaction was aborted and
	// the document left unchanged.
	ExitPurgeFailed ExitCode = 4

	// ExitRendererMissing indicates the external renderer is not installed.
	ExitRendererMissing ExitCode = 5

	// ExitCaptureFailed indicates the image-capture primitive is missing
	// or reported a failure.
	ExitCaptureFailed ExitCode = 6
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
