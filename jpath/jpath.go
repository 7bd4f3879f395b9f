// Package jpath implements a minimal JSONPath expression parser.
//
// The syntax follows https://goessner.net/articles/JsonPath/, except that
// the text of filter and script expressions is not interpreted here.
package jpath

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

/*
Grammar:

  expr = root steps
  root = "$"
 steps = step [steps]
  step = "." name
  step = ".." name
  step = "[" value "]"
  step = "[" slice "]"
  name = WORD
  name = "'" QTEXT "'"
  name = "*"
 value = name
 value = INDEX ["," INDEX ...]
 value = script
 value = filter
 slice = [INDEX] ":" [INDEX]
script = "(" TEXT ")"
filter = "?(" TEXT ")"

  WORD = RE `\w+`
 QTEXT = RE `([^'\\]|\\.)*`
 INDEX = RE `-?\d+`
  TEXT = { all text with nested parentheses }
*/

// An Expr is a parsed JSONPath expression.
type Expr []Step

// Parse parses s as a JSONPath expression. If s is not valid, the error has
// concrete type *ParseError.
func Parse(s string) (Expr, error) {
	t, ok := strings.CutPrefix(s, "$")
	if !ok {
		return nil, &ParseError{Offset: 0, Err: errors.New("missing root marker")}
	}
	var e Expr
	for t != "" {
		step, rest, err := parseStep(t)
		if err != nil {
			return nil, &ParseError{Offset: len(s) - len(t), Err: err}
		}
		e = append(e, step)
		t = rest
	}
	return e, nil
}

// Definite reports whether e selects at most one value from any input, that
// is, whether each step of e is a single member name or array index.
func (e Expr) Definite() bool {
	for _, s := range e {
		switch s.Op {
		case Member, Name, QName:
			if s.IsWildcard() {
				return false
			}
		case Index:
			if strings.Contains(s.Arg1, ",") {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func (e Expr) String() string {
	var buf strings.Builder
	buf.WriteString("$")
	for _, s := range e {
		buf.WriteString(s.String())
	}
	return buf.String()
}

// A ParseError reports a syntax error in a JSONPath expression.
type ParseError struct {
	Offset int // byte offset of the step containing the error
	Err    error
}

func (p *ParseError) Error() string { return fmt.Sprintf("offset %d: %v", p.Offset, p.Err) }

func (p *ParseError) Unwrap() error { return p.Err }

func parseStep(s string) (_ Step, rest string, _ error) {
	if t, ok := strings.CutPrefix(s, ".."); ok {
		kind, name, u, err := parseName(t)
		if err != nil {
			return Step{}, s, fmt.Errorf("invalid ..name: %w", err)
		}
		return Step{Op: Recur, Arg1: name, Arg2: kind.String()}, u, nil
	}
	if t, ok := strings.CutPrefix(s, "."); ok {
		kind, name, u, err := parseName(t)
		if err != nil {
			return Step{}, s, fmt.Errorf("invalid .name: %w", err)
		}
		return Step{Op: Member, Arg1: name, Arg2: kind.String()}, u, nil
	}
	t, ok := strings.CutPrefix(s, "[")
	if !ok {
		return Step{}, s, errors.New("invalid path step")
	}

	kind, val, u, err := parseValue(t)
	if err != nil {
		return Step{}, t, err
	}
	out := Step{Op: kind, Arg1: val}
	if out.Op == Slice {
		if hi, rest, err := parseIndex(u); err == nil {
			out.Arg2, u = hi, rest
		} else if out.Arg1 == "" {
			return Step{}, u, errors.New("invalid slice")
		}
	}
	u, ok = strings.CutPrefix(u, "]")
	if !ok {
		return Step{}, u, errors.New("missing close bracket")
	}
	return out, u, nil
}

func parseName(s string) (kind Op, name, rest string, _ error) {
	if t, ok := strings.CutPrefix(s, "*"); ok {
		return Wildcard, "*", t, nil
	}
	if m := wordRE.FindStringSubmatch(s); m != nil {
		return Name, m[1], s[len(m[0]):], nil
	}
	if m := quoteRE.FindStringSubmatch(s); m != nil {
		return QName, unquoteName(m[1]), s[len(m[0]):], nil
	}
	return Invalid, "", s, errors.New("invalid name")
}

func parseIndex(s string) (text, rest string, _ error) {
	if m := indexRE.FindStringSubmatch(s); m != nil {
		return m[1], s[len(m[0]):], nil
	}
	return "", "", errors.New("invalid index")
}

func parseValue(s string) (kind Op, value, rest string, _ error) {
	if t, ok := strings.CutPrefix(s, "?("); ok {
		text, rest, err := parseScript(t)
		return Filter, text, rest, err
	}
	if t, ok := strings.CutPrefix(s, "("); ok {
		text, rest, err := parseScript(t)
		return Script, text, rest, err
	}
	if text, rest, err := parseIndex(s); err == nil {
		if u, ok := strings.CutPrefix(rest, ":"); ok {
			if strings.Contains(text, ",") {
				return Invalid, "", s, errors.New("invalid slice")
			}
			return Slice, text, u, nil
		}
		return Index, text, rest, nil
	}
	if u, ok := strings.CutPrefix(s, ":"); ok {
		return Slice, "", u, nil
	}
	if kind, text, rest, err := parseName(s); err == nil {
		return kind, text, rest, nil
	}
	return Invalid, "", s, fmt.Errorf("invalid value: %q", s)
}

// parseScript scans s for the close parenthesis matching an open parenthesis
// just before it. Parentheses inside quoted strings are not counted.
func parseScript(s string) (text, rest string, _ error) {
	np := 1
	var quote byte
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '(':
			np++
		case c == ')':
			np--
			if np == 0 {
				return s[:i], s[i+1:], nil
			}
		}
	}
	return "", s, errors.New("unbalanced parentheses")
}

var (
	wordRE  = regexp.MustCompile(`^(\w+)`)
	indexRE = regexp.MustCompile(`^(-?\d+(?:,-?\d+)*)`)
	quoteRE = regexp.MustCompile(`^'((?:[^'\\]|\\.)*)'`)
)

var nameEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// unquoteName removes backslash escapes from the text of a quoted name.
func unquoteName(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}

// An Op is a path operator.
type Op byte

const (
	Invalid  Op = iota // invalid operator
	Member             // member lookup (.)
	Index              // array index lookup
	Slice              // array slice
	Wildcard           // wildcard expansion (*)
	Name               // unquoted name expansion
	QName              // quoted name expansion
	Recur              // recur operator
	Filter             // filter operator
	Script             // script operator
)

var opText = [...]string{
	Invalid:  "invalid",
	Member:   ".",
	Index:    "index",
	Slice:    "slice",
	Wildcard: "*",
	Name:     "name",
	QName:    "qname",
	Recur:    "..",
	Filter:   "?(...)",
	Script:   "(...)",
}

func (o Op) String() string {
	if int(o) < len(opText) {
		return opText[o]
	}
	return opText[Invalid]
}

// A Step is a single step of a JSONPath expression.
//
// For Member and Recur steps, Arg1 is the name and Arg2 is the kind of name
// ("name", "qname", or "*"). For Slice steps, Arg1 and Arg2 are the bounds,
// either of which may be empty. For other steps, Arg1 is the text inside
// the brackets.
type Step struct {
	Op   Op
	Arg1 string
	Arg2 string
}

// IsWildcard reports whether s selects all the members or elements of its
// input, as ".*", "..*", or "[*]" does.
func (s Step) IsWildcard() bool {
	switch s.Op {
	case Wildcard:
		return true
	case Member, Recur:
		return s.Arg2 == Wildcard.String()
	}
	return false
}

// String renders s in the syntax accepted by Parse.
func (s Step) String() string {
	switch s.Op {
	case Member, Recur:
		if s.Arg2 == QName.String() {
			return s.Op.String() + "'" + nameEscaper.Replace(s.Arg1) + "'"
		}
		return s.Op.String() + s.Arg1
	case Slice:
		return "[" + s.Arg1 + ":" + s.Arg2 + "]"
	case Script:
		return "[(" + s.Arg1 + ")]"
	case Filter:
		return "[?(" + s.Arg1 + ")]"
	case QName:
		return "['" + nameEscaper.Replace(s.Arg1) + "']"
	}
	return "[" + s.Arg1 + "]"
}
