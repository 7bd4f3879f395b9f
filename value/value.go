// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package value defines the dynamically-typed values produced by decoding a
// JSON object graph.
//
// A Value is one of the concrete types Null, Bool, Number, String, Time, UUID,
// Array, or *Object. No other types implement Value. String values found in
// the input are reinterpreted as a Time or a UUID where possible (see Infer),
// and all numbers are represented as float64.
//
// Values can be inspected and navigated, but not encoded: the MarshalJSON
// method of every value type reports an error.
package value

import (
	"errors"
	"fmt"
	"iter"
	"strconv"
	"time"

	"github.com/creachadair/jhal"
	"github.com/google/uuid"
)

// A Value is an arbitrary decoded value.
type Value interface {
	String() string

	isValue()
}

// Null is the null constant.
type Null struct{}

func (Null) isValue()       {}
func (Null) String() string { return "null" }

// A Bool is a Boolean constant, true or false.
type Bool bool

func (Bool) isValue()         {}
func (b Bool) String() string { return strconv.FormatBool(bool(b)) }

// A Number is a numeric value. All JSON numbers, including integers, are
// represented as float64.
type Number float64

func (Number) isValue() {}

func (n Number) String() string {
	return strconv.FormatFloat(float64(n), 'g', -1, 64)
}

// A String is a string value that was not recognized as a more specific type.
type String string

func (String) isValue()         {}
func (s String) String() string { return jhal.Quote(string(s)) }

// A Time is a timestamp recognized from a string value.
type Time struct {
	time.Time

	raw string
}

// NewTime constructs a Time with the given value and source text.
func NewTime(t time.Time, raw string) Time { return Time{Time: t, raw: raw} }

func (Time) isValue() {}

// Raw returns the source text of t. If t was not constructed from text, Raw
// returns the RFC 3339 format of t.
func (t Time) Raw() string {
	if t.raw == "" {
		return t.Time.Format(time.RFC3339Nano)
	}
	return t.raw
}

// Equal reports whether t and u denote the same instant.
func (t Time) Equal(u Time) bool { return t.Time.Equal(u.Time) }

func (t Time) String() string { return t.Time.Format(time.RFC3339Nano) }

// A UUID is a unique identifier recognized from a string value.
type UUID struct {
	uuid.UUID

	raw string
}

// NewUUID constructs a UUID with the given value and source text.
func NewUUID(u uuid.UUID, raw string) UUID { return UUID{UUID: u, raw: raw} }

func (UUID) isValue() {}

// Raw returns the source text of u. If u was not constructed from text, Raw
// returns the canonical format of u.
func (u UUID) Raw() string {
	if u.raw == "" {
		return u.UUID.String()
	}
	return u.raw
}

// Equal reports whether u and v denote the same identifier.
func (u UUID) Equal(v UUID) bool { return u.UUID == v.UUID }

func (u UUID) String() string { return u.UUID.String() }

// An Array is an ordered sequence of values.
type Array []Value

func (Array) isValue() {}

// Len reports the number of elements in a.
func (a Array) Len() int { return len(a) }

func (a Array) String() string { return fmt.Sprintf("Array(len=%d)", len(a)) }

// MarshalJSON implements json.Marshaler. It always reports an error, since
// encoding is not supported.
func (a Array) MarshalJSON() ([]byte, error) { return nil, errEncode }

// An Object is an ordered collection of key-value members. The zero value is
// ready for use as an empty object.
type Object struct {
	Members []*Member
}

// A Member is a single key-value pair belonging to an Object.
type Member struct {
	Key   string
	Value Value
}

func (*Object) isValue() {}

// Len reports the number of members in o.
func (o *Object) Len() int { return len(o.Members) }

func (o *Object) String() string { return fmt.Sprintf("Object(len=%d)", len(o.Members)) }

// Find returns the first member of o with the given key, or nil.
func (o *Object) Find(key string) *Member {
	for _, m := range o.Members {
		if m.Key == key {
			return m
		}
	}
	return nil
}

// Get returns the value of the first member of o with the given key, or nil
// if there is no such member.
func (o *Object) Get(key string) Value {
	if m := o.Find(key); m != nil {
		return m.Value
	}
	return nil
}

// Add appends a member with the given key and value to o. It does not check
// whether o already contains the key.
func (o *Object) Add(key string, v Value) {
	o.Members = append(o.Members, &Member{Key: key, Value: v})
}

// Keys returns the keys of o in order.
func (o *Object) Keys() []string {
	keys := make([]string, len(o.Members))
	for i, m := range o.Members {
		keys[i] = m.Key
	}
	return keys
}

// All returns an iterator over the members of o in order.
func (o *Object) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for _, m := range o.Members {
			if !yield(m.Key, m.Value) {
				return
			}
		}
	}
}

// MarshalJSON implements json.Marshaler. It always reports an error, since
// encoding is not supported.
func (o *Object) MarshalJSON() ([]byte, error) { return nil, errEncode }

// MarshalJSON for the scalar types also reports errEncode. Time and UUID
// would otherwise promote the methods of their embedded fields.

func (Null) MarshalJSON() ([]byte, error)   { return nil, errEncode }
func (Bool) MarshalJSON() ([]byte, error)   { return nil, errEncode }
func (Number) MarshalJSON() ([]byte, error) { return nil, errEncode }
func (String) MarshalJSON() ([]byte, error) { return nil, errEncode }
func (Time) MarshalJSON() ([]byte, error)   { return nil, errEncode }
func (UUID) MarshalJSON() ([]byte, error)   { return nil, errEncode }

var errEncode = fmt.Errorf("value: encoding is not supported: %w", errors.ErrUnsupported)

// Native converts v into a plain Go value: nil for Null, and bool, float64,
// string, time.Time, or uuid.UUID for the scalar types. An Array becomes an
// []any and an Object becomes a map[string]any, converted recursively.
func Native(v Value) any {
	switch t := v.(type) {
	case Null:
		return nil
	case Bool:
		return bool(t)
	case Number:
		return float64(t)
	case String:
		return string(t)
	case Time:
		return t.Time
	case UUID:
		return t.UUID
	case Array:
		out := make([]any, len(t))
		for i, elt := range t {
			out[i] = Native(elt)
		}
		return out
	case *Object:
		out := make(map[string]any, len(t.Members))
		for _, m := range t.Members {
			out[m.Key] = Native(m.Value)
		}
		return out
	}
	return nil
}
