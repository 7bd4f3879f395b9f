// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package decode builds value graphs from streams of JSON tokens.
//
// The decoder reads a token.Source exactly once, from front to back, without
// looking ahead. The input must consist of a single JSON object; its members
// are decoded into a *value.Object in the order they occur. String values are
// converted to the most specific type they represent (see value.Infer), and
// numbers are converted to float64.
//
// The Reader, Bytes, and String functions decode JSON text. An input that is
// empty or contains only whitespace decodes to an empty object.
//
//	obj, err := decode.String(`{"name": "x", "when": "2020-07-09"}`, nil)
//	if err != nil {
//	   log.Fatalf("Decode: %v", err)
//	}
//	log.Printf("when: %v", obj.Get("when")) // a value.Time
//
// Errors reported by the decoder have concrete type *Error, and may be
// classified using errors.Is with ErrMalformed, ErrNumberRange, or ErrTooDeep.
package decode

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/creachadair/jhal"
	"github.com/creachadair/jhal/token"
	"github.com/creachadair/jhal/value"
	"github.com/tailscale/hujson"
)

// DefaultMaxDepth is the nesting limit used when Options.MaxDepth is zero.
const DefaultMaxDepth = 10000

// Options control the behavior of the decoder. A nil *Options is ready for
// use and provides default values as described.
type Options struct {
	// The maximum nesting depth of objects and arrays, counting the top-level
	// object. If zero, DefaultMaxDepth is used; if negative, there is no limit.
	MaxDepth int

	// Infer is used to convert string values.
	Infer value.Inferrer

	// If true, the text loaders accept JSON with comments and trailing commas
	// (JWCC). This does not affect Source or Into.
	JWCC bool

	// If non-nil, each token read from the source is logged via Logf.
	Logf func(string, ...any)
}

func (o *Options) maxDepth() int {
	if o == nil || o.MaxDepth == 0 {
		return DefaultMaxDepth
	} else if o.MaxDepth < 0 {
		return 0
	}
	return o.MaxDepth
}

func (o *Options) inferrer() value.Inferrer {
	if o == nil {
		return value.Inferrer{}
	}
	return o.Infer
}

func (o *Options) jwcc() bool { return o != nil && o.JWCC }

func (o *Options) source(src token.Source) token.Source {
	if o == nil || o.Logf == nil {
		return src
	}
	return token.Trace(src, o.Logf)
}

// Source decodes a single JSON object from src. If src has no tokens at all,
// Source reports ErrEmpty.
func Source(src token.Source, opts *Options) (*value.Object, error) {
	obj := new(value.Object)
	if err := Into(src, obj, opts); err != nil {
		return nil, err
	}
	return obj, nil
}

// Into decodes a single JSON object from src, adding its members to dst.
// If src has no tokens at all, Into reports ErrEmpty. In case of error, the
// contents of dst are unspecified.
func Into(src token.Source, dst *value.Object, opts *Options) (err error) {
	w := newWalker(opts.source(src), opts)
	defer w.recoverError(&err)

	first, err := w.src.Next()
	if err == io.EOF {
		return ErrEmpty
	} else if err != nil {
		w.sourceFail(err)
	}
	w.last = first
	w.root(first, dst)
	return nil
}

// Reader decodes a single JSON object from the text of r. If r is empty or
// contains only whitespace, Reader returns an empty object.
func Reader(r io.Reader, opts *Options) (*value.Object, error) {
	if r == nil {
		return nil, errors.New("decode: nil reader")
	}
	if opts.jwcc() {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		return Bytes(data, opts)
	}
	src := jhal.NewSource(r)
	defer src.Close()

	obj, err := Source(src, opts)
	if errors.Is(err, ErrEmpty) {
		return new(value.Object), nil
	}
	return obj, err
}

// Bytes decodes a single JSON object from data. If data is empty or contains
// only whitespace, Bytes returns an empty object.
func Bytes(data []byte, opts *Options) (*value.Object, error) {
	if opts.jwcc() {
		if len(bytes.TrimSpace(data)) != 0 {
			std, err := hujson.Standardize(bytes.Clone(data))
			if err != nil {
				return nil, fmt.Errorf("decode: invalid JWCC: %w", err)
			}
			data = std
		}
		opts = &Options{MaxDepth: opts.MaxDepth, Infer: opts.Infer, Logf: opts.Logf}
	}
	return Reader(bytes.NewReader(data), opts)
}

// String decodes a single JSON object from s. If s is empty or contains only
// whitespace, String returns an empty object.
func String(s string, opts *Options) (*value.Object, error) {
	if opts.jwcc() {
		return Bytes([]byte(s), opts)
	}
	return Reader(strings.NewReader(s), opts)
}
