// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package token defines the structural tokens of a JSON value and the
// forward-only Source interface that delivers them.
//
// Unlike the lexical tokens reported by a jhal.Scanner, structural tokens
// carry no punctuation: commas and colons are consumed by the producer, and
// object keys are reported as Name tokens distinct from String values.
// A consumer reads a Source one token at a time and cannot look ahead.
package token

import (
	"fmt"
	"io"
)

// Kind is the kind of a structural token.
type Kind byte

// Constants defining the valid Kind values.
const (
	Invalid     Kind = iota // invalid token
	BeginObject             // start of an object "{"
	EndObject               // end of an object "}"
	BeginArray              // start of an array "["
	EndArray                // end of an array "]"
	Name                    // object member name
	String                  // string value
	Number                  // number value
	True                    // constant: true
	False                   // constant: false
	Null                    // constant: null
)

var kindStr = [...]string{
	Invalid:     "invalid token",
	BeginObject: "start of object",
	EndObject:   "end of object",
	BeginArray:  "start of array",
	EndArray:    "end of array",
	Name:        "name",
	String:      "string",
	Number:      "number",
	True:        "true",
	False:       "false",
	Null:        "null",
}

func (k Kind) String() string {
	if int(k) >= len(kindStr) {
		return kindStr[Invalid]
	}
	return kindStr[k]
}

// IsValue reports whether k begins a value: a scalar, or the start of an
// object or array.
func (k Kind) IsValue() bool {
	switch k {
	case BeginObject, BeginArray, String, Number, True, False, Null:
		return true
	}
	return false
}

// Pos is the position of a token in its source text. The zero Pos means the
// position is unknown.
type Pos struct {
	Line   int // 1-based
	Column int // byte offset in line, 0-based
}

// IsValid reports whether p denotes a known position.
func (p Pos) IsValid() bool { return p.Line > 0 }

func (p Pos) String() string {
	if !p.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// A Token is a single structural token.
type Token struct {
	Kind Kind

	// Text is the payload of the token. For Name and String tokens it is the
	// decoded (unquoted) string; for Number tokens it is the numeric text as
	// written in the source. It is empty for other kinds.
	Text string

	Pos Pos
}

func (t Token) String() string {
	switch t.Kind {
	case Name, String:
		return fmt.Sprintf("%v %q", t.Kind, t.Text)
	case Number:
		return fmt.Sprintf("%v %s", t.Kind, t.Text)
	default:
		return t.Kind.String()
	}
}

// A Source is a forward-only cursor over a sequence of tokens.
type Source interface {
	// Next returns the next token from the sequence and advances past it.
	// At the end of the sequence it returns io.EOF. Any other error is fatal
	// to the sequence.
	Next() (Token, error)
}

// Slice is a Source that delivers a fixed sequence of tokens.
// Each call to Next consumes one element of the slice.
type Slice []Token

// Next implements the Source interface.
func (s *Slice) Next() (Token, error) {
	if len(*s) == 0 {
		return Token{}, io.EOF
	}
	next := (*s)[0]
	*s = (*s)[1:]
	return next, nil
}

// Trace returns a Source that delivers the tokens of src unmodified, calling
// logf to report each token or error as it is read.
func Trace(src Source, logf func(string, ...any)) Source {
	return traceSource{src: src, logf: logf}
}

type traceSource struct {
	src  Source
	logf func(string, ...any)
}

func (t traceSource) Next() (Token, error) {
	tok, err := t.src.Next()
	if err == io.EOF {
		t.logf("token: end of input")
	} else if err != nil {
		t.logf("token: error: %v", err)
	} else {
		t.logf("token: %v at %v", tok, tok.Pos)
	}
	return tok, err
}
