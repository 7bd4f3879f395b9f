// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package dump renders value graphs and HAL documents as indented text for
// human readers. The output is not JSON.
package dump

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/creachadair/jhal"
	"github.com/creachadair/jhal/hal"
	"github.com/creachadair/jhal/value"
)

// Options control the rendering. A nil *Options provides defaults.
type Options struct {
	// The text used for each level of indentation. If empty, two spaces.
	Indent string

	// If true, times and UUIDs are rendered using their input text, as if
	// they were plain strings.
	PlainStrings bool
}

func (o *Options) indent() string {
	if o == nil || o.Indent == "" {
		return "  "
	}
	return o.Indent
}

func (o *Options) plainStrings() bool { return o != nil && o.PlainStrings }

type printer struct {
	w      *bufio.Writer
	indent string
	plain  bool
}

func newPrinter(w io.Writer, opts *Options) *printer {
	return &printer{w: bufio.NewWriter(w), indent: opts.indent(), plain: opts.plainStrings()}
}

func (p *printer) line(depth int, parts ...string) {
	p.w.WriteString(strings.Repeat(p.indent, depth))
	for _, s := range parts {
		p.w.WriteString(s)
	}
	p.w.WriteByte('\n')
}

// Value writes a rendering of v to w. Each member of an object is written on
// its own line as "key: value", and each element of an array as "[i]: value".
// Nested objects and arrays are indented below their key.
func Value(w io.Writer, v value.Value, opts *Options) error {
	p := newPrinter(w, opts)
	switch t := v.(type) {
	case *value.Object:
		if t.Len() == 0 {
			p.line(0, "{}")
		}
		p.members(0, t)
	case value.Array:
		if len(t) == 0 {
			p.line(0, "[]")
		}
		p.elements(0, t)
	default:
		p.line(0, p.scalar(v))
	}
	return p.w.Flush()
}

// Document writes a rendering of d to w. The links and embedded resources
// are written in order by relation, and the properties in input order.
func Document(w io.Writer, d *hal.Document, opts *Options) error {
	p := newPrinter(w, opts)
	p.document(0, d)
	return p.w.Flush()
}

func (p *printer) document(depth int, d *hal.Document) {
	if len(d.Links) != 0 {
		p.line(depth, "links:")
		for _, rel := range d.Rels() {
			for _, link := range d.Links[rel] {
				p.line(depth+1, Quote(rel), ": ", p.link(link))
			}
		}
	}
	if d.Properties != nil && d.Properties.Len() != 0 {
		p.line(depth, "properties:")
		p.members(depth+1, d.Properties)
	}
	if len(d.Embedded) != 0 {
		p.line(depth, "embedded:")
		for _, rel := range d.EmbeddedRels() {
			for i, doc := range d.Embedded[rel] {
				p.line(depth+1, Quote(rel), "[", strconv.Itoa(i), "]:")
				p.document(depth+2, doc)
			}
		}
	}
}

func (p *printer) link(l hal.Link) string {
	var sb strings.Builder
	sb.WriteString(l.Href)
	if l.Title != "" {
		sb.WriteString(" ")
		sb.WriteString(jhal.Quote(l.Title))
	}
	if l.Attrs != nil {
		sb.WriteString(" (")
		for i, m := range l.Attrs.Members {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(Quote(m.Key))
			sb.WriteString("=")
			sb.WriteString(p.inline(m.Value))
		}
		sb.WriteString(")")
	}
	return sb.String()
}

func (p *printer) members(depth int, obj *value.Object) {
	for _, m := range obj.Members {
		p.entry(depth, Quote(m.Key), m.Value)
	}
}

func (p *printer) elements(depth int, arr value.Array) {
	for i, elt := range arr {
		p.entry(depth, "["+strconv.Itoa(i)+"]", elt)
	}
}

func (p *printer) entry(depth int, label string, v value.Value) {
	switch t := v.(type) {
	case *value.Object:
		if t.Len() == 0 {
			p.line(depth, label, ": {}")
			return
		}
		p.line(depth, label, ":")
		p.members(depth+1, t)
	case value.Array:
		if len(t) == 0 {
			p.line(depth, label, ": []")
			return
		}
		p.line(depth, label, ":")
		p.elements(depth+1, t)
	default:
		p.line(depth, label, ": ", p.scalar(v))
	}
}

// inline renders v on a single line. Objects and arrays are summarized.
func (p *printer) inline(v value.Value) string {
	switch v.(type) {
	case *value.Object, value.Array:
		return v.String()
	}
	return p.scalar(v)
}

func (p *printer) scalar(v value.Value) string {
	switch t := v.(type) {
	case value.Time:
		if p.plain {
			return jhal.Quote(t.Raw())
		}
		return "time " + t.Raw()
	case value.UUID:
		if p.plain {
			return jhal.Quote(t.Raw())
		}
		return "uuid " + t.Raw()
	}
	return v.String()
}

// Quote returns key unchanged if it consists only of letters, digits, and
// the punctuation "_", "-", ":", and "."; otherwise it returns key quoted.
func Quote(key string) string {
	if key == "" {
		return `""`
	}
	for _, c := range key {
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		case c == '_' || c == '-' || c == ':' || c == '.':
		default:
			return jhal.Quote(key)
		}
	}
	return key
}
