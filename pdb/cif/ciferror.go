// Errors for reading and writing cif text.
// There are two kinds of error which name the category or block that
// broke, DeserializationError and SerializationError. They always keep
// the error underneath, so one can get at it with errors.Is / errors.As.
// Everything else is a sentinel which wraps one of two classes, ErrValue
// (something was the wrong size or content) or ErrType (something was
// the wrong kind of thing or not text at all).
package cif

import (
	"errors"
	"fmt"
	"strconv"
	"unicode/utf8"
)

// The two classes. Use errors.Is(err, ErrValue) to ask which one you have.
var (
	ErrValue = errors.New("cif: bad value")
	ErrType  = errors.New("cif: wrong type")
)

var (
	ErrEmptyData       = fmt.Errorf("%w: data must contain at least one element", ErrValue)
	ErrUnsupportedType = fmt.Errorf("%w: unsupported element type", ErrValue)
	ErrMaskLength      = fmt.Errorf("%w: mask and data differ in length", ErrValue)
	ErrMaskCode        = fmt.Errorf("%w: mask code is not present, inapplicable or missing", ErrValue)
	ErrNotSingle       = fmt.Errorf("%w: column does not have exactly one element", ErrValue)
	ErrLastColumn      = fmt.Errorf("%w: at least one column must remain", ErrValue)
	ErrNotOneBlock     = fmt.Errorf("%w: file does not contain exactly one block", ErrValue)
	ErrNoName          = fmt.Errorf("%w: category name is required", ErrValue)
	ErrNoColumns       = fmt.Errorf("%w: at least one column is required", ErrValue)
	ErrNoRows          = fmt.Errorf("%w: at least one row is required", ErrValue)
	ErrRowCount        = fmt.Errorf("%w: columns differ in length", ErrValue)
	ErrConvert         = fmt.Errorf("%w: cannot convert value", ErrValue)

	ErrNilCategory = fmt.Errorf("%w: expected a category, got nil", ErrType)
	ErrNilBlock    = fmt.Errorf("%w: expected a block, got nil", ErrType)
	ErrNilColumn   = fmt.Errorf("%w: expected a column, got nil", ErrType)
	ErrNotText     = fmt.Errorf("%w: input is not text", ErrType)

	ErrNoKey = errors.New("cif: no such key")
)

// DeserializationError says which category, block or file could not be
// parsed. Err is what actually went wrong.
type DeserializationError struct {
	Kind string // "category", "block" or "file"
	Name string
	Err  error
}

func (e *DeserializationError) Error() string {
	return "cif: deserializing " + e.Kind + " " + strconv.Quote(e.Name) + ": " + e.Err.Error()
}

func (e *DeserializationError) Unwrap() error { return e.Err }

// SerializationError is the writing twin of DeserializationError.
type SerializationError struct {
	Kind string
	Name string
	Err  error
}

func (e *SerializationError) Error() string {
	return "cif: serializing " + e.Kind + " " + strconv.Quote(e.Name) + ": " + e.Err.Error()
}

func (e *SerializationError) Unwrap() error { return e.Err }

const maxMsgLen = 70

// lineError saves the line number and the line we were trying to read.
// Line numbers count from 1 within the text that was handed to the parser,
// so for a category they are relative to the start of the category.
type lineError struct {
	n      int    // line number
	inline string // The line that provoked the error
	desc   string // Description of error
	err    error  // anything underneath, may be nil
}

func newLineError(n int, inline, desc string) *lineError {
	return &lineError{n: n, inline: inline, desc: desc}
}

// firstPart is the start of s, cut at a rune boundary.
func firstPart(s string) string {
	if len(s) <= maxMsgLen {
		return s
	}
	l := maxMsgLen
	for l > 0 && !utf8.RuneStart(s[l]) {
		l--
	}
	return s[:l]
}

// Error puts together the line number, the description and the
// start of the offending line.
func (e *lineError) Error() string {
	var errmsg string
	if e.n != 0 {
		errmsg = "line " + strconv.Itoa(e.n) + ": "
	}
	errmsg += e.desc
	if e.err != nil {
		errmsg += ": " + e.err.Error()
	}
	if e.inline != "" {
		errmsg += ", line starting with " + strconv.Quote(firstPart(e.inline))
	}
	return errmsg
}

func (e *lineError) Unwrap() error { return e.err }
