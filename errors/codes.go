// Package errors provides the coded error taxonomy shared by every layer of
// the engine.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Request errors
	CodeValidation          Code = "VALIDATION"
	CodeUnsupportedGameType Code = "UNSUPPORTED_GAME_TYPE"

	// Session errors
	CodeNotFound            Code = "NOT_FOUND"
	CodeConflict            Code = "CONFLICT"
	CodeActiveSessionExists Code = "ACTIVE_SESSION_EXISTS"
	CodeSessionTerminal     Code = "SESSION_TERMINAL"

	// Deck invariants
	CodeInsufficientCards  Code = "INSUFFICIENT_CARDS"
	CodeInvariantViolation Code = "INVARIANT_VIOLATION"
)

// Class returns the broad code c belongs to. Terminal sessions and duplicate
// active sessions are conflicts.
func (c Code) Class() Code {
	switch c {
	case CodeSessionTerminal, CodeActiveSessionExists:
		return CodeConflict
	default:
		return c
	}
}

// GRPCCode maps the domain code to the closest gRPC status code.
func (c Code) GRPCCode() codes.Code {
	switch c {
	case CodeValidation:
		return codes.InvalidArgument
	case CodeUnsupportedGameType:
		return codes.Unimplemented
	case CodeNotFound:
		return codes.NotFound
	case CodeActiveSessionExists:
		return codes.AlreadyExists
	case CodeConflict, CodeSessionTerminal:
		return codes.FailedPrecondition
	case CodeInsufficientCards, CodeInvariantViolation:
		return codes.Internal
	default:
		return codes.Unknown
	}
}

// Fatal reports whether the code signals a broken session invariant. Sessions
// hitting a fatal error are forfeited.
func (c Code) Fatal() bool {
	return c == CodeInsufficientCards || c == CodeInvariantViolation
}
