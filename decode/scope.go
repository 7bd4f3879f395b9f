// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package decode

import (
	"fmt"

	"github.com/creachadair/jhal/token"
)

// A scope records an object or array that has been opened and whose closing
// token may or may not have been read.
type scope struct {
	id     int
	kind   token.Kind // BeginObject or BeginArray
	closed bool
}

// A tracker records the scopes opened during a single decode. Scopes nest:
// only the innermost scope may be closed or released. The zero value has no
// depth limit.
type tracker struct {
	maxDepth int     // if positive, the maximum number of scopes
	lastID   int     // the most recently assigned scope ID
	stack    []scope // innermost last
}

// open creates a new innermost scope of the given kind and returns its ID.
// It reports an error if the new scope would exceed the depth limit.
func (t *tracker) open(kind token.Kind) (int, error) {
	if t.maxDepth > 0 && len(t.stack) >= t.maxDepth {
		return 0, fmt.Errorf("depth limit %d exceeded", t.maxDepth)
	}
	t.lastID++
	t.stack = append(t.stack, scope{id: t.lastID, kind: kind})
	return t.lastID, nil
}

// active reports whether id is an open scope whose closing token has not
// been observed.
func (t *tracker) active(id int) bool {
	for i := len(t.stack) - 1; i >= 0; i-- {
		if t.stack[i].id == id {
			return !t.stack[i].closed
		}
	}
	return false
}

// kind reports the kind of the innermost scope, or token.Invalid if there
// is none.
func (t *tracker) kind() token.Kind {
	if len(t.stack) == 0 {
		return token.Invalid
	}
	return t.stack[len(t.stack)-1].kind
}

// close marks scope id as closed. It panics if id is not the innermost open
// scope.
func (t *tracker) close(id int) {
	top := t.top(id, "close")
	if top.closed {
		panic(fmt.Sprintf("close of closed scope %d", id))
	}
	top.closed = true
}

// release discards the innermost scope, which must be id.
func (t *tracker) release(id int) {
	t.top(id, "release")
	t.stack = t.stack[:len(t.stack)-1]
}

// depth reports the number of scopes currently held by t.
func (t *tracker) depth() int { return len(t.stack) }

func (t *tracker) top(id int, op string) *scope {
	if len(t.stack) == 0 {
		panic(fmt.Sprintf("%s of scope %d with no open scopes", op, id))
	}
	top := &t.stack[len(t.stack)-1]
	if top.id != id {
		panic(fmt.Sprintf("%s of scope %d, innermost scope is %d", op, id, top.id))
	}
	return top
}
