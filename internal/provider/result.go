// Package provider adapts the remote data providers to the contracts the
// enrichment pipeline consumes. Every call returns a tagged Result instead of
// an error, so a failing provider degrades to "no data" for that lead only.
package provider

import "fmt"

// Status tags the outcome of a provider call.
type Status int

const (
	// StatusOK means the provider returned a usable record.
	StatusOK Status = iota
	// StatusNotFound means the provider answered but had no match, or the
	// call was skipped because its input was incomplete.
	StatusNotFound
	// StatusError means the call failed: transport, non-2xx, malformed
	// payload, timeout, open circuit or panic.
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNotFound:
		return "not_found"
	case StatusError:
		return "error"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Result is the outcome of one provider call. Value is set only for StatusOK
// and Err only for StatusError.
type Result[T any] struct {
	Status Status
	Value  T
	Err    error
}

// OK wraps a successful value.
func OK[T any](v T) Result[T] {
	return Result[T]{Status: StatusOK, Value: v}
}

// NotFound is the empty result.
func NotFound[T any]() Result[T] {
	return Result[T]{Status: StatusNotFound}
}

// Failed wraps a provider failure.
func Failed[T any](err error) Result[T] {
	return Result[T]{Status: StatusError, Err: err}
}

// Error is a failure attributed to a single provider.
type Error struct {
	Provider string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
