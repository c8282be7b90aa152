package main

import "fmt"

// UserError reports a rejected player or staff command. The message is
// surfaced verbatim to the caller and the command is never retried.
type UserError struct {
	Reason string
}

func (e *UserError) Error() string { return e.Reason }

func userErrorf(format string, args ...any) *UserError {
	return &UserError{Reason: fmt.Sprintf(format, args...)}
}

// ConfigurationError blocks a game from starting and is reported to whoever
// tried to start it.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string { return e.Reason }

// InvariantViolation is fatal to the game instance that detected it; no
// correct state is derivable, so the engine forces the game to end.
type InvariantViolation struct {
	Reason string
}

func (e *InvariantViolation) Error() string { return e.Reason }
