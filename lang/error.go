package lang

import (
	"errors"
	"log/slog"
	"strings"
)

// Predefined errors (sentinel values).
//
// Errors returned by this package are derived from these sentinels with
// [Error.With], [Error.WithPosition], or [Error.Wrap], and each derived error
// still matches its sentinel with [errors.Is].
var (
	ErrLex                 = NewError("lexical error")
	ErrSyntax              = NewError("syntax error")
	ErrUndefinedVariable   = NewError("undefined variable")
	ErrType                = NewError("type error")
	ErrDivisionByZero      = NewError("division by zero")
	ErrStackUnderflow      = NewError("stack underflow")
	ErrMalformedExpression = NewError("malformed expression")
	ErrReadInput           = NewError("failed to read input")
	ErrGenerate            = NewError("XML generation failed")
	ErrQuery               = NewError("query failed")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	pos   Position    // Source location, if known
	attrs []slog.Attr // Attributes for structured logging
	base  *Error      // Sentinel this error was derived from
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
//
// The message has the form "<msg> at <line>:<col>: <k>=<v>, ...: <err>",
// where each part is omitted when unset.
func (e *Error) Error() string {
	var sb strings.Builder

	sb.WriteString(e.msg)

	if e.pos.IsValid() {
		if sb.Len() > 0 {
			sb.WriteString(" ")
		}

		sb.WriteString("at ")
		sb.WriteString(e.pos.String())
	}

	for i, a := range e.attrs {
		if i == 0 {
			if sb.Len() > 0 {
				sb.WriteString(": ")
			}
		} else {
			sb.WriteString(", ")
		}

		sb.WriteString(a.Key)
		sb.WriteString("=")
		sb.WriteString(a.Value.String())
	}

	if e.err != nil {
		if sb.Len() > 0 {
			sb.WriteString(": ")
		}

		sb.WriteString(e.err.Error())
	}

	return sb.String()
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return e.root() == t.root()
}

func (e *Error) root() *Error {
	if e.base != nil {
		return e.base
	}

	return e
}

// Position returns the source location attached to the error, if any.
func (e *Error) Position() (Position, bool) {
	return e.pos, e.pos.IsValid()
}

// Attr returns the value of the attribute with the given key.
func (e *Error) Attr(key string) (slog.Value, bool) {
	for _, a := range e.attrs {
		if a.Key == key {
			return a.Value, true
		}
	}

	return slog.Value{}, false
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+4)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.pos.IsValid() {
		attrs = append(attrs,
			slog.Int("line", e.pos.Line),
			slog.Int("column", e.pos.Column),
		)
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		pos:   e.pos,
		attrs: e.attrs, // Share attrs
		base:  e.root(),
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		pos:   e.pos,
		attrs: newAttrs,
		base:  e.root(),
	}
}

// WithPosition returns a copy of the error located at pos.
func (e *Error) WithPosition(pos Position) *Error {
	return &Error{
		msg:   e.msg,
		err:   e.err,
		pos:   pos,
		attrs: e.attrs,
		base:  e.root(),
	}
}
