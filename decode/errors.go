// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package decode

import (
	"errors"
	"fmt"
	"strings"

	"github.com/creachadair/jhal"
	"github.com/creachadair/jhal/token"
)

// ErrorKind classifies the errors reported by a decoder.
type ErrorKind byte

// Constants defining the valid ErrorKind values.
const (
	Malformed   ErrorKind = iota + 1 // token sequence violates the grammar
	NumberRange                      // number not representable as a finite float64
	TooDeep                          // nesting exceeds Options.MaxDepth
)

var kindStr = [...]string{
	Malformed:   "malformed input",
	NumberRange: "number out of range",
	TooDeep:     "nesting too deep",
}

func (k ErrorKind) String() string {
	if k == 0 || int(k) >= len(kindStr) {
		return "unknown error"
	}
	return kindStr[k]
}

// Sentinel errors for use with errors.Is. An *Error matches the sentinel for
// its Kind regardless of its other fields.
var (
	ErrMalformed   = &Error{Kind: Malformed}
	ErrNumberRange = &Error{Kind: NumberRange}
	ErrTooDeep     = &Error{Kind: TooDeep}

	// ErrEmpty is reported by Source when the source has no tokens.
	ErrEmpty = errors.New("no input tokens")
)

// Error is the concrete type of errors reported by the decoder.
type Error struct {
	Kind ErrorKind
	Pos  token.Pos // position of the offending token, if known

	Expected string // what the decoder required, if applicable
	Found    string // what the decoder found instead, if applicable
	Err      error  // the underlying cause, if any
}

// Error satisfies the error interface.
func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString("decode")
	if e.Pos.IsValid() {
		fmt.Fprintf(&sb, " at %s", e.Pos)
	}
	fmt.Fprintf(&sb, ": %s", e.Kind)
	if e.Expected != "" {
		fmt.Fprintf(&sb, ": expected %s", e.Expected)
		if e.Found != "" {
			fmt.Fprintf(&sb, ", found %s", e.Found)
		}
	} else if e.Found != "" {
		fmt.Fprintf(&sb, ": unexpected %s", e.Found)
	}
	var serr *jhal.SyntaxError
	if errors.As(e.Err, &serr) && e.Pos.IsValid() {
		fmt.Fprintf(&sb, ": %s", serr.Message) // the position is already shown
	} else if e.Err != nil {
		fmt.Fprintf(&sb, ": %v", e.Err)
	}
	return sb.String()
}

// Unwrap supports error wrapping.
func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error with the same Kind as e.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}
