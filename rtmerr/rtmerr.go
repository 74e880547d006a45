// Package rtmerr defines the error kinds a solver invocation can fail
// with. All of them are fatal to the current invocation; none is meant
// to be retried.
package rtmerr

import "fmt"

// Kind is one of the four error categories a run can fail with.
type Kind uint8

const (
	// ConfigInvalid marks a parameter out of range, an undefined inlet,
	// or an n_pics value that cannot be coerced into [4,100].
	ConfigInvalid Kind = iota
	// MeshDegenerate marks a missing node reference, a zero-area
	// triangle, an edge shared by three or more triangles, or a cell
	// with more than ten neighbors.
	MeshDegenerate
	// MeshMissing marks a mesh or restart file that could not be found.
	MeshMissing
	// NumericalInstability marks a non-finite density, velocity,
	// pressure, or fill fraction produced by an update.
	NumericalInstability
)

func (k Kind) String() string {
	switch k {
	case ConfigInvalid:
		return "ConfigInvalid"
	case MeshDegenerate:
		return "MeshDegenerate"
	case MeshMissing:
		return "MeshMissing"
	case NumericalInstability:
		return "NumericalInstability"
	default:
		return "Unknown"
	}
}

// Error is the concrete error type surfaced by every core package. Field
// carries the offending field or quantity name where one applies (e.g.
// "p_a" for a ConfigInvalid, "" when not applicable).
type Error struct {
	Kind  Kind
	Field string
	Msg   string
	Err   error // wrapped cause, if any
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Msg, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Is allows errors.Is(err, rtmerr.Sentinel(rtmerr.ConfigInvalid)) style
// matching on Kind alone, ignoring Field, Msg and the wrapped cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func New(kind Kind, field, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Field: field, Msg: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, field string, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Field: field, Msg: fmt.Sprintf(format, args...), Err: err}
}

// Sentinel returns a zero-value *Error of the given kind, useful as the
// target of errors.Is.
func Sentinel(kind Kind) *Error { return &Error{Kind: kind} }
