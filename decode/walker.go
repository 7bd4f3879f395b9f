// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package decode

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/creachadair/jhal"
	"github.com/creachadair/jhal/token"
	"github.com/creachadair/jhal/value"
)

// A walker consumes a token source to build a value graph. A walker is used
// for a single decode; its scope tracker is not shared.
type walker struct {
	src    token.Source
	infer  value.Inferrer
	scopes tracker
	last   token.Token // the most recent token read
}

func newWalker(src token.Source, opts *Options) *walker {
	return &walker{
		src:    src,
		infer:  opts.inferrer(),
		scopes: tracker{maxDepth: opts.maxDepth()},
	}
}

// recoverError recovers a decoding error panicked by the walker and stores
// it in *errp. Other panics are propagated.
func (w *walker) recoverError(errp *error) {
	if v := recover(); v != nil {
		switch err := v.(type) {
		case *Error:
			*errp = err
		case sourceError:
			*errp = err.error
		default:
			panic(v)
		}
	}
}

// root decodes the top-level object beginning at tok into dst, and checks
// that no tokens follow it.
func (w *walker) root(tok token.Token, dst *value.Object) {
	if tok.Kind != token.BeginObject {
		w.failf(Malformed, tok, "start of object", "%v", tok)
	}
	w.object(tok, dst)

	next, err := w.src.Next()
	if err == io.EOF {
		return
	} else if err != nil {
		w.sourceFail(err)
	}
	w.failf(Malformed, next, "end of input", "%v", next)
}

// object decodes the members of an object whose BeginObject token is begin,
// adding them to dst.
func (w *walker) object(begin token.Token, dst *value.Object) {
	id := w.open(begin)

	seen := make(map[string]struct{}, len(dst.Members))
	for _, m := range dst.Members {
		seen[m.Key] = struct{}{}
	}
	var key string
	var haveKey bool
	for w.scopes.active(id) {
		tok := w.next()
		switch tok.Kind {
		case token.Name:
			if haveKey {
				w.failf(Malformed, tok, fmt.Sprintf("value for %q", key), "%v", tok)
			} else if _, ok := seen[tok.Text]; ok {
				w.failf(Malformed, tok, "", "duplicate key %q", tok.Text)
			}
			seen[tok.Text] = struct{}{}
			key, haveKey = tok.Text, true

		case token.EndObject, token.EndArray:
			if haveKey {
				w.failf(Malformed, tok, fmt.Sprintf("value for %q", key), "%v", tok)
			}
			w.end(id, tok)

		default:
			if !haveKey {
				w.failf(Malformed, tok, "name or end of object", "%v", tok)
			}
			dst.Add(key, w.value(tok))
			haveKey = false
		}
	}
	w.scopes.release(id)
}

// array decodes the elements of an array whose BeginArray token is begin.
func (w *walker) array(begin token.Token) value.Array {
	id := w.open(begin)

	out := value.Array{}
	for w.scopes.active(id) {
		tok := w.next()
		switch tok.Kind {
		case token.EndObject, token.EndArray:
			w.end(id, tok)
		case token.Name:
			w.failf(Malformed, tok, "value or end of array", "%v", tok)
		default:
			out = append(out, w.value(tok))
		}
	}
	w.scopes.release(id)
	return out
}

// value decodes the single value beginning at tok.
func (w *walker) value(tok token.Token) value.Value {
	switch tok.Kind {
	case token.BeginObject:
		obj := new(value.Object)
		w.object(tok, obj)
		return obj
	case token.BeginArray:
		return w.array(tok)
	case token.String:
		return w.infer.Infer(tok.Text)
	case token.Number:
		n, err := value.ParseNumber(tok.Text)
		if errors.Is(err, strconv.ErrRange) {
			panic(&Error{Kind: NumberRange, Pos: tok.Pos, Found: tok.Text, Err: err})
		} else if err != nil {
			panic(&Error{Kind: Malformed, Pos: tok.Pos, Expected: "number", Found: strconv.Quote(tok.Text), Err: err})
		}
		return n
	case token.True:
		return value.Bool(true)
	case token.False:
		return value.Bool(false)
	case token.Null:
		return value.Null{}
	}
	w.failf(Malformed, tok, "value", "%v", tok)
	panic("unreachable")
}

// open opens a new scope for the container begun by tok.
func (w *walker) open(tok token.Token) int {
	id, err := w.scopes.open(tok.Kind)
	if err != nil {
		panic(&Error{Kind: TooDeep, Pos: tok.Pos, Err: err})
	}
	return id
}

// end closes scope id, which must match the kind of end token tok.
func (w *walker) end(id int, tok token.Token) {
	want := token.EndObject
	if w.scopes.kind() == token.BeginArray {
		want = token.EndArray
	}
	if tok.Kind != want {
		w.failf(Malformed, tok, want.String(), "%v", tok)
	}
	w.scopes.close(id)
}

// next reads the next token from the source. Reaching the end of the input
// while a scope is open is an error.
func (w *walker) next() token.Token {
	tok, err := w.src.Next()
	if err == io.EOF {
		panic(&Error{Kind: Malformed, Pos: w.last.Pos, Expected: "more input", Found: "end of input"})
	} else if err != nil {
		w.sourceFail(err)
	}
	w.last = tok
	return tok
}

// sourceFail reports an error from the token source. Syntax errors in the
// JSON text are malformed input; other errors are reported unchanged.
func (w *walker) sourceFail(err error) {
	var serr *jhal.SyntaxError
	if errors.As(err, &serr) {
		panic(&Error{Kind: Malformed, Pos: token.Pos{
			Line:   serr.Location.Line,
			Column: serr.Location.Column,
		}, Err: err})
	}
	panic(sourceError{err})
}

func (w *walker) failf(kind ErrorKind, tok token.Token, expected, msg string, args ...any) {
	panic(&Error{
		Kind:     kind,
		Pos:      tok.Pos,
		Expected: expected,
		Found:    fmt.Sprintf(msg, args...),
	})
}

// sourceError wraps an error reported by the token source, so that it can be
// distinguished from a walker panic.
type sourceError struct{ error }

func (s sourceError) Unwrap() error { return s.error }
