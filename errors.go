// Package goscatter computes neutron/X-ray scattering intensities I(q,t)
// and related correlation functions from molecular-dynamics trajectories.
//
// This file defines the error taxonomy shared by every subpackage: a
// Kind enum and an Error type that is decorated with calling function
// names as it propagates up the stack, the same shape gochem
// used for its Traj/LastFrameError pair.
package goscatter

import "fmt"

// Kind classifies an Error into one of a small number of buckets that the
// orchestrator and the caller can act on without parsing error strings.
type Kind int

const (
	// ConfigInvalid marks a configuration value that cannot be acted on.
	ConfigInvalid Kind = iota
	// ResourceExhausted marks a RAM-cap violation, including a
	// coordinate-set cache too small to hold a single frame.
	ResourceExhausted
	// NumericOverflow marks a non-finite amplitude detected after a
	// kernel has run.
	NumericOverflow
	// TransportFailure marks a failed collective.
	TransportFailure
	// IOFailure marks a writer client refusal.
	IOFailure
	// Fatal marks an unclassified worker panic.
	Fatal
)

func (k Kind) String() string {
	switch k {
	case ConfigInvalid:
		return "ConfigInvalid"
	case ResourceExhausted:
		return "ResourceExhausted"
	case NumericOverflow:
		return "NumericOverflow"
	case TransportFailure:
		return "TransportFailure"
	case IOFailure:
		return "IOFailure"
	case Fatal:
		return "Fatal"
	default:
		return "Unknown"
	}
}

// Error is the error type used throughout goscatter. It carries a Kind
// so callers can branch on the taxonomy of §7 without string matching,
// and a decoration trail recording the call chain that touched it.
type Error struct {
	kind    Kind
	message string
	deco    []string
}

// NewError builds an Error of the given kind.
func NewError(kind Kind, message string) Error {
	return Error{kind: kind, message: message}
}

func (e Error) Error() string {
	if len(e.deco) == 0 {
		return fmt.Sprintf("goscatter: %s: %s", e.kind, e.message)
	}
	return fmt.Sprintf("goscatter: %s: %s (via %v)", e.kind, e.message, e.deco)
}

// Kind returns the error's taxonomy bucket.
func (e Error) Kind() Kind { return e.kind }

// Decorate returns the error's decoration trail with the name of the
// calling function appended. The receiver is a value, so e itself is
// left unchanged; Decorated returns a decorated copy. It never changes
// the error's kind or wraps it in another type.
func (e Error) Decorate(caller string) []string {
	e.deco = append(e.deco, caller)
	return e.deco
}

// Decorated returns a copy of e with caller appended to its trail, for
// callers that want to keep propagating the same concrete Error value.
func Decorated(err error, caller string) error {
	if e, ok := err.(Error); ok {
		e.deco = append(append([]string{}, e.deco...), caller)
		return e
	}
	return err
}

// KindOf extracts the Kind of err, defaulting to Fatal for errors that
// did not originate in this package.
func KindOf(err error) Kind {
	if e, ok := err.(Error); ok {
		return e.kind
	}
	return Fatal
}
