// Package query implements structural queries over decoded values.
//
// A query describes a substructure of a value graph, such as an object
// member, array element, or a path through the graph. Evaluating a query
// against a concrete value traverses the structure described by the query
// and returns the resulting value.
//
// The simplest query is for a "path", a sequence of object keys and/or array
// indices that describes a path from the root of a value. For example, given
// the value decoded from:
//
//	{"orders": [{"a": 1, "b": 2}, {"c": {"d": true}, "e": false}]}
//
// the query
//
//	query.Path("orders", 1, "c", "d")
//
// yields the value true.
//
// Queries can also be compiled from JSONPath expressions (see ParsePath).
package query

import (
	"errors"
	"fmt"
	"iter"
	"maps"
	"slices"

	"github.com/creachadair/jhal/value"
)

// Eval evaluates the given query beginning from root, returning the resulting
// value or an error.
func Eval(root value.Value, q Query) (value.Value, error) {
	return q.eval(root)
}

// A Query describes a traversal of a value.
type Query interface {
	eval(value.Value) (value.Value, error)
}

// Path traverses a sequence of nested object keys or array indices from the
// root.  If no keys are specified, the root is returned. Each key must be a
// string, an int, or a Query.
func Path(keys ...any) Query {
	if len(keys) == 1 {
		return pathElem(keys[0])
	}
	pq := make(Seq, 0, len(keys))
	for _, key := range keys {
		q := pathElem(key)
		if sq, ok := q.(Seq); ok {
			pq = append(pq, sq...)
		} else {
			pq = append(pq, q)
		}
	}
	return pq
}

func pathElem(key any) Query {
	switch t := key.(type) {
	case string:
		return objKey(t)
	case int:
		return nthQuery(t)
	case Query:
		return t
	default:
		panic("invalid path element")
	}
}

// Key selects the value of the member of an object with the given key.
func Key(key string) Query { return objKey(key) }

type objKey string

func (o objKey) eval(v value.Value) (value.Value, error) {
	obj, ok := v.(*value.Object)
	if !ok {
		return nil, fmt.Errorf("got %T, want object", v)
	}
	mem := obj.Find(string(o))
	if mem == nil {
		return nil, fmt.Errorf("key %q not found", o)
	}
	return mem.Value, nil
}

// Index selects the element of an array at offset i. A negative offset
// selects from the end of the array.
func Index(i int) Query { return nthQuery(i) }

type nthQuery int

func (nq nthQuery) eval(v value.Value) (value.Value, error) {
	arr, ok := v.(value.Array)
	if !ok {
		return nil, fmt.Errorf("got %T, want array", v)
	}
	idx := int(nq)
	if idx < 0 {
		idx += len(arr)
	}
	if idx < 0 || idx >= len(arr) {
		return nil, fmt.Errorf("index %d out of range (0..%d)", nq, len(arr))
	}
	return arr[idx], nil
}

// Selection constructs an array of the elements of its input array, for which
// the specified function returns true.
type Selection func(value.Value) bool

func (q Selection) eval(v value.Value) (value.Value, error) {
	a, ok := v.(value.Array)
	if !ok {
		return nil, fmt.Errorf("got %T, want array", v)
	}
	out := value.Array{}
	for _, elt := range a {
		if q(elt) {
			out = append(out, elt)
		}
	}
	return out, nil
}

// Mapping constructs an array in which each value is replaced by the result of
// calling the specified function on the corresponding input value.
type Mapping func(value.Value) value.Value

func (q Mapping) eval(v value.Value) (value.Value, error) {
	a, ok := v.(value.Array)
	if !ok {
		return nil, fmt.Errorf("got %T, want array", v)
	}
	out := make(value.Array, len(a))
	for i, elt := range a {
		out[i] = q(elt)
	}
	return out, nil
}

// Slice selects a slice of an array from offsets lo to hi.  The range includes
// lo but excludes hi. Negative offsets select from the end of the array.
// If hi == 0, the length of the array is used.
func Slice(lo, hi int) Query { return sliceQuery{lo, hi} }

type sliceQuery struct{ lo, hi int }

func (q sliceQuery) eval(v value.Value) (value.Value, error) {
	arr, ok := v.(value.Array)
	if !ok {
		return nil, fmt.Errorf("got %T, want array", v)
	}
	lox := q.lo
	if lox < 0 {
		lox += len(arr)
	}
	hix := q.hi
	if hix <= 0 {
		hix += len(arr)
	}
	if lox < 0 || lox >= len(arr) {
		return nil, fmt.Errorf("index %d out of range (0..%d)", q.lo, len(arr))
	} else if hix < 0 || hix > len(arr) {
		return nil, fmt.Errorf("index %d out of range (0..%d)", q.hi, len(arr))
	} else if lox > hix {
		return nil, fmt.Errorf("index start %d > end %d", q.lo, q.hi)
	}
	return arr[lox:hix], nil
}

// Pick constructs an array by picking the designated offsets from an array.
// Negative offsets select from the end of the input array.
func Pick(offsets ...int) Query { return pickQuery(offsets) }

type pickQuery []int

func (q pickQuery) eval(v value.Value) (value.Value, error) {
	arr, ok := v.(value.Array)
	if !ok {
		return nil, fmt.Errorf("got %T, want array", v)
	}
	out := value.Array{}
	for _, off := range q {
		if off < 0 {
			off += len(arr)
		}
		if off < 0 || off >= len(arr) {
			return nil, fmt.Errorf("index %d out of range (0..%d)", off, len(arr))
		}
		out = append(out, arr[off])
	}
	return out, nil
}

// Len returns a number representing the length of the root.
//
// For an object, the length is the number of members.
// For an array, the length is the number of elements.
// For a string, the length is the length of the string in bytes.
// For null, the length is zero.
func Len() Query { return lenQuery{} }

type lenQuery struct{}

func (lenQuery) eval(v value.Value) (value.Value, error) {
	switch t := v.(type) {
	case *value.Object:
		return value.Number(t.Len()), nil
	case value.Array:
		return value.Number(len(t)), nil
	case value.String:
		return value.Number(len(t)), nil
	case value.Null:
		return value.Number(0), nil
	}
	return nil, fmt.Errorf("cannot take length of %T", v)
}

// Seq is a sequential composition of queries. An empty sequence selects the
// root; otherwise, each query is applied to the result selected by the
// previous query in the sequence.
type Seq []Query

func (q Seq) eval(v value.Value) (value.Value, error) {
	cur := v
	for _, sq := range q {
		next, err := sq.eval(cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

// Alt is a query that selects among a sequence of alternatives.  The result of
// the first alternative that does not report an error is returned. If there
// are no alternatives, the query fails on all inputs.
type Alt []Query

func (q Alt) eval(v value.Value) (value.Value, error) {
	for _, alt := range q {
		if w, err := alt.eval(v); err == nil {
			return w, nil
		}
	}
	return nil, errors.New("no matching alternatives")
}

// Recur applies a query to each recursive descendant of its input and returns
// an array of the resulting values. The arguments have the same constraints as
// Path.
func Recur(keys ...any) Query { return recQuery{Path(keys...)} }

type recQuery struct{ Query }

func (q recQuery) eval(v value.Value) (value.Value, error) {
	var out value.Array
	for next := range descendants(v) {
		if r, err := q.Query.eval(next); err == nil {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return nil, errors.New("no matches")
	}
	return out, nil
}

// descendants returns an iterator over v and all its recursive descendants,
// in lexical order.
func descendants(v value.Value) iter.Seq[value.Value] {
	return func(yield func(value.Value) bool) {
		stk := []value.Value{v}
		for len(stk) != 0 {
			next := stk[len(stk)-1]
			stk = stk[:len(stk)-1]
			if !yield(next) {
				return
			}

			// N.B. Push in reverse order, so we visit in lexical order.
			switch t := next.(type) {
			case *value.Object:
				for i := len(t.Members) - 1; i >= 0; i-- {
					stk = append(stk, t.Members[i].Value)
				}
			case value.Array:
				for i := len(t) - 1; i >= 0; i-- {
					stk = append(stk, t[i])
				}
			}
		}
	}
}

// Each applies a query to each element of an array and returns an array of the
// resulting values. It fails if the input is not an array.  The arguments have
// the same constraints as Path.
func Each(keys ...any) Query { return eachQuery{Path(keys...)} }

type eachQuery struct{ Query }

func (q eachQuery) eval(v value.Value) (value.Value, error) {
	arr, ok := v.(value.Array)
	if !ok {
		return nil, fmt.Errorf("got %T, want array", v)
	}
	out := value.Array{}
	for i, elt := range arr {
		v, err := q.Query.eval(elt)
		if err != nil {
			return nil, fmt.Errorf("index %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// Collect applies a query to each element of an array and returns an array of
// the values for which the query succeeds. Unlike Each, elements for which
// the query fails are skipped. It fails if the input is not an array. The
// arguments have the same constraints as Path.
func Collect(keys ...any) Query { return collectQuery{Path(keys...)} }

type collectQuery struct{ Query }

func (q collectQuery) eval(v value.Value) (value.Value, error) {
	arr, ok := v.(value.Array)
	if !ok {
		return nil, fmt.Errorf("got %T, want array", v)
	}
	out := value.Array{}
	for _, elt := range arr {
		if v, err := q.Query.eval(elt); err == nil {
			out = append(out, v)
		}
	}
	return out, nil
}

// Object constructs an object with the given keys mapped to the results of
// matching the query values against its input. The members of the result are
// in order by key.
type Object map[string]Query

func (o Object) eval(v value.Value) (value.Value, error) {
	out := new(value.Object)
	for _, key := range slices.Sorted(maps.Keys(o)) {
		val, err := o[key].eval(v)
		if err != nil {
			return nil, fmt.Errorf("match %q: %w", key, err)
		}
		out.Add(key, val)
	}
	return out, nil
}

// Array constructs an array with the values produced by matching the given
// queries against its input.
type Array []Query

func (a Array) eval(v value.Value) (value.Value, error) {
	out := make(value.Array, len(a))
	for i, q := range a {
		val, err := q.eval(v)
		if err != nil {
			return nil, fmt.Errorf("index %d: %w", i, err)
		}
		out[i] = val
	}
	return out, nil
}

// A String query ignores its input and returns the given string.
func String(s string) Query { return Value(value.String(s)) }

// A Float query ignores its input and returns the given number.
func Float(n float64) Query { return Value(value.Number(n)) }

// An Int query ignores its input and returns the given integer as a number.
func Int(z int64) Query { return Value(value.Number(z)) }

// A Bool query ignores its input and returns the given bool.
func Bool(b bool) Query { return Value(value.Bool(b)) }

// A Null query ignores its input and returns a null value.
func Null() Query { return Value(value.Null{}) }

// A Value query ignores its input and returns the given value.
func Value(v value.Value) Query { return constQuery{v} }

type constQuery struct{ value.Value }

func (c constQuery) eval(_ value.Value) (value.Value, error) { return c.Value, nil }

// A Glob query returns an array of all its inputs.
func Glob() Query { return globQuery{} }

type globQuery struct{}

func (globQuery) eval(v value.Value) (value.Value, error) {
	switch t := v.(type) {
	case *value.Object:
		out := make(value.Array, len(t.Members))
		for i, m := range t.Members {
			out[i] = m.Value
		}
		return out, nil
	case value.Array:
		return t, nil
	default:
		return nil, errors.New("no matching values")
	}
}
