// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jhal

import (
	"errors"
	"io"
	"iter"

	"github.com/creachadair/jhal/token"
)

// Tokens returns an iterator over the structural tokens of the JSON values
// read from r. The input is checked against the JSON grammar as it is read;
// if the input is invalid, the iterator yields a *SyntaxError as its final
// element.
func Tokens(r io.Reader) iter.Seq2[token.Token, error] {
	return func(yield func(token.Token, error) bool) {
		th := &tokenHandler{yield: yield}
		err := NewStream(r).Parse(th)
		if err != nil && !errors.Is(err, errStopped) {
			yield(token.Token{}, err)
		}
	}
}

// Source is a token.Source that reads structural tokens from JSON text.
// The caller must call Close when finished with the source.
type Source struct {
	next func() (token.Token, error, bool)
	stop func()
}

// NewSource constructs a Source that consumes JSON text from r.
func NewSource(r io.Reader) *Source {
	next, stop := iter.Pull2(Tokens(r))
	return &Source{next: next, stop: stop}
}

// Next implements the token.Source interface. At the end of the input, or
// after Close, Next returns io.EOF.
func (s *Source) Next() (token.Token, error) {
	tok, err, ok := s.next()
	if !ok {
		return token.Token{}, io.EOF
	}
	return tok, err
}

// Close releases the resources held by s. It always returns nil.
func (s *Source) Close() error { s.stop(); return nil }

// errStopped is reported by a tokenHandler when its consumer stops reading.
var errStopped = errors.New("token consumer stopped")

// A tokenHandler implements the Handler interface to translate parser events
// into structural tokens.
type tokenHandler struct {
	yield func(token.Token, error) bool
}

func (h *tokenHandler) emit(loc Anchor, kind token.Kind, text string) error {
	lc := loc.Location().First
	if !h.yield(token.Token{
		Kind: kind,
		Text: text,
		Pos:  token.Pos{Line: lc.Line, Column: lc.Column},
	}, nil) {
		return errStopped
	}
	return nil
}

func (h *tokenHandler) BeginObject(loc Anchor) error { return h.emit(loc, token.BeginObject, "") }
func (h *tokenHandler) EndObject(loc Anchor) error   { return h.emit(loc, token.EndObject, "") }
func (h *tokenHandler) BeginArray(loc Anchor) error  { return h.emit(loc, token.BeginArray, "") }
func (h *tokenHandler) EndArray(loc Anchor) error    { return h.emit(loc, token.EndArray, "") }
func (h *tokenHandler) EndMember(loc Anchor) error   { return nil }
func (h *tokenHandler) EndOfInput(loc Anchor)        {}

func (h *tokenHandler) BeginMember(loc Anchor) error {
	key, err := Unquote(string(loc.Text()))
	if err != nil {
		return err
	}
	return h.emit(loc, token.Name, key)
}

func (h *tokenHandler) Value(loc Anchor) error {
	switch loc.Token() {
	case String:
		s, err := Unquote(string(loc.Text()))
		if err != nil {
			return err
		}
		return h.emit(loc, token.String, s)
	case Integer, Number:
		return h.emit(loc, token.Number, string(loc.Text()))
	case True:
		return h.emit(loc, token.True, "")
	case False:
		return h.emit(loc, token.False, "")
	case Null:
		return h.emit(loc, token.Null, "")
	}
	return &SyntaxError{Location: loc.Location().First, Message: "unexpected " + loc.Token().String()}
}
