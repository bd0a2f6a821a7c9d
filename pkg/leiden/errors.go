package leiden

import (
	"errors"
	"fmt"
)

// Kind classifies an Error the way callers need to distinguish them
// (spec.md §4.9/§6 "Error kinds surfaced to callers"), rather than
// leaving them as opaque wrapped strings the way the internal pkg/graph,
// pkg/cluster etc. packages do.
type Kind int

const (
	// InvalidParameter means a driver parameter was out of its valid
	// range (resolution <= 0, randomness <= 0, iterations < 0, trials < 1,
	// max_cluster_size < 2).
	InvalidParameter Kind = iota
	// InvalidEdge means an edge weight was non-positive or non-finite.
	InvalidEdge
	// UnknownLabel means starting_communities referenced a label absent
	// from the edge list.
	UnknownLabel
	// EmptyGraph means the edge list contained no edges.
	EmptyGraph
	// InternalInvariant means an assertion the engine depends on for
	// correctness did not hold; this should never happen and indicates a
	// bug rather than bad input.
	InternalInvariant
)

func (k Kind) String() string {
	switch k {
	case InvalidParameter:
		return "InvalidParameter"
	case InvalidEdge:
		return "InvalidEdge"
	case UnknownLabel:
		return "UnknownLabel"
	case EmptyGraph:
		return "EmptyGraph"
	case InternalInvariant:
		return "InternalInvariant"
	default:
		return "Unknown"
	}
}

// Error is the typed error returned across the pkg/leiden boundary,
// classifying lower-level wrapped errors into a Kind so callers can branch
// on failure category via errors.As instead of string matching.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("leiden: %s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("leiden: %s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is supports errors.Is(err, SomeKindSentinel)-style matching against
// another *Error by Kind alone, so callers can write
// errors.Is(err, &Error{Kind: leiden.InvalidParameter}) without caring
// about Message/Cause.
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return e.Kind == other.Kind
	}
	return false
}

func newError(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}
