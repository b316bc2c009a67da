package main

import "fmt"

// Exit codes for the julesmcp CLI.
const (
	ExitOK          = 0 // Request succeeded.
	ExitInvalidArgs = 1 // Invalid arguments or missing configuration.
	ExitAPIError    = 2 // Upstream API rejected the request.
	ExitTransport   = 3 // Network or timeout failure before a response.
)

// exitCodeError carries a non-zero exit code through cobra's error handling.
type exitCodeError struct {
	code int
	msg  string
}

// Error implements the error interface.
func (e *exitCodeError) Error() string { return e.msg }

// ExitCode returns the process exit code for this error.
func (e *exitCodeError) ExitCode() int { return e.code }

// exitError creates an exitCodeError with a formatted message.
func exitError(code int, format string, args ...any) *exitCodeError {
	return &exitCodeError{code: code, msg: fmt.Sprintf(format, args...)}
}
