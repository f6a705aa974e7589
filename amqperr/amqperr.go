// Package amqperr defines a closed set of error kinds (underflow, overflow,
// argument error, generic error) as negative integer sentinels attached to
// a single error type so callers can branch on the Kind returned by Of
// instead of string-matching. Used by wire, atomcodec, and valuetree.
package amqperr

import "github.com/pkg/errors"

// Kind is one of the four closed error kinds.
type Kind int

const (
	Underflow     Kind = -1 // input exhausted
	Overflow      Kind = -2 // output capacity exhausted
	ArgumentError Kind = -3 // unknown type code, structural mismatch, unrecognized format char
	GenericError  Kind = -4 // exit from empty stack, etc.
)

func (k Kind) String() string {
	switch k {
	case Underflow:
		return "underflow"
	case Overflow:
		return "overflow"
	case ArgumentError:
		return "argument error"
	case GenericError:
		return "generic error"
	default:
		return "unknown error"
	}
}

// Error is a codec/tree/format failure tagged with its Kind.
type Error struct {
	Kind Kind
	msg  string
}

func (e *Error) Error() string { return e.Kind.String() + ": " + e.msg }

// New constructs an Error of the given kind.
func New(k Kind, msg string) error {
	return &Error{Kind: k, msg: msg}
}

// Newf constructs an Error of the given kind with a formatted message.
func Newf(k Kind, format string, args ...interface{}) error {
	return &Error{Kind: k, msg: errors.Errorf(format, args...).Error()}
}

// Of returns the Kind carried by err, or 0 if err (or anything it wraps)
// does not carry one.
func Of(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// Wrap attaches call-site context to err without losing its Kind.
func Wrap(err error, context string) error {
	if err == nil {
		return nil
	}
	return errors.WithMessage(err, context)
}
