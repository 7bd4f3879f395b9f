package query

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/creachadair/jhal/jpath"
	"github.com/creachadair/jhal/value"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// ParsePath compiles a JSONPath expression into a query.
//
// If the expression selects at most one value (that is, it uses only member
// names and single indices), the query yields that value, and fails if it is
// not present. Otherwise the query yields an array of all the values selected,
// and fails if there are none.
//
// Filter expressions "[?(...)]" are compiled by Match. Script expressions
// "[(...)]" are not supported.
func ParsePath(s string) (Query, error) {
	e, err := jpath.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("invalid path %q: %w", s, err)
	}
	pq := pathQuery{expr: e, definite: e.Definite()}
	for _, step := range e {
		ps, err := compileStep(step)
		if err != nil {
			return nil, fmt.Errorf("invalid path %q: step %s: %w", s, step, err)
		}
		pq.steps = append(pq.steps, ps)
	}
	return pq, nil
}

// A pathStep maps each of a list of input values to zero or more outputs.
type pathStep func([]value.Value) []value.Value

type pathQuery struct {
	expr     jpath.Expr
	steps    []pathStep
	definite bool
}

func (q pathQuery) eval(v value.Value) (value.Value, error) {
	cur := []value.Value{v}
	for i, step := range q.steps {
		cur = step(cur)
		if len(cur) == 0 {
			return nil, fmt.Errorf("no match for %s", q.expr[:i+1])
		}
	}
	if q.definite {
		return cur[0], nil
	}
	return value.Array(cur), nil
}

func compileStep(step jpath.Step) (pathStep, error) {
	switch step.Op {
	case jpath.Member, jpath.Name, jpath.QName, jpath.Wildcard:
		if step.IsWildcard() {
			return children, nil
		}
		return memberStep(step.Arg1), nil

	case jpath.Recur:
		next := children
		if !step.IsWildcard() {
			next = memberStep(step.Arg1)
		}
		return func(in []value.Value) []value.Value {
			return next(recurStep(in))
		}, nil

	case jpath.Index:
		var idx []int
		for s := range strings.SplitSeq(step.Arg1, ",") {
			n, err := strconv.Atoi(s)
			if err != nil {
				return nil, fmt.Errorf("invalid index %q", s)
			}
			idx = append(idx, n)
		}
		return indexStep(idx), nil

	case jpath.Slice:
		lo, hi, err := parseBounds(step.Arg1, step.Arg2)
		if err != nil {
			return nil, err
		}
		return sliceStep(lo, hi), nil

	case jpath.Filter:
		sel, err := Match(step.Arg1)
		if err != nil {
			return nil, err
		}
		return filterStep(sel), nil

	case jpath.Script:
		return nil, errors.New("script expressions are not supported")
	}
	return nil, fmt.Errorf("unknown operator %v", step.Op)
}

func memberStep(name string) pathStep {
	return func(in []value.Value) []value.Value {
		var out []value.Value
		for _, v := range in {
			if obj, ok := v.(*value.Object); ok {
				if m := obj.Find(name); m != nil {
					out = append(out, m.Value)
				}
			}
		}
		return out
	}
}

// children selects the member values of objects and the elements of arrays.
func children(in []value.Value) []value.Value {
	var out []value.Value
	for _, v := range in {
		switch t := v.(type) {
		case *value.Object:
			for _, m := range t.Members {
				out = append(out, m.Value)
			}
		case value.Array:
			out = append(out, t...)
		}
	}
	return out
}

// recurStep selects each input and all its descendants.
func recurStep(in []value.Value) []value.Value {
	var out []value.Value
	for _, v := range in {
		for d := range descendants(v) {
			out = append(out, d)
		}
	}
	return out
}

func indexStep(idx []int) pathStep {
	return func(in []value.Value) []value.Value {
		var out []value.Value
		for _, v := range in {
			arr, ok := v.(value.Array)
			if !ok {
				continue
			}
			for _, i := range idx {
				if i < 0 {
					i += len(arr)
				}
				if i >= 0 && i < len(arr) {
					out = append(out, arr[i])
				}
			}
		}
		return out
	}
}

// parseBounds parses the bounds of a slice. An omitted bound is reported as
// nil.
func parseBounds(lo, hi string) (_, _ *int, _ error) {
	parse := func(s string) (*int, error) {
		if s == "" {
			return nil, nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("invalid slice bound %q", s)
		}
		return &n, nil
	}
	lp, err := parse(lo)
	if err != nil {
		return nil, nil, err
	}
	hp, err := parse(hi)
	if err != nil {
		return nil, nil, err
	}
	return lp, hp, nil
}

func sliceStep(lo, hi *int) pathStep {
	// bound resolves an optional bound against an array of length n, clamped
	// to the range 0..n.
	bound := func(p *int, n, def int) int {
		if p == nil {
			return def
		}
		b := *p
		if b < 0 {
			b += n
		}
		return max(0, min(b, n))
	}
	return func(in []value.Value) []value.Value {
		var out []value.Value
		for _, v := range in {
			arr, ok := v.(value.Array)
			if !ok {
				continue
			}
			lox, hix := bound(lo, len(arr), 0), bound(hi, len(arr), len(arr))
			if lox < hix {
				out = append(out, arr[lox:hix]...)
			}
		}
		return out
	}
}

func filterStep(sel Selection) pathStep {
	return func(in []value.Value) []value.Value {
		var out []value.Value
		for _, v := range children(in) {
			if sel(v) {
				out = append(out, v)
			}
		}
		return out
	}
}

// Match compiles a predicate expression into a selection. The expression is
// written in the expr language (github.com/expr-lang/expr), in which the
// value being tested is named "it" or "@". Within the expression, values
// have the types reported by value.Native.
//
// A value is selected if the expression evaluates to true, or to any value
// other than false or nil. Values for which evaluation fails are not
// selected. For example:
//
//	@.price < 10 && @.currency == "USD"
func Match(src string) (Selection, error) {
	prog, err := expr.Compile(bindCurrent(src), expr.AllowUndefinedVariables())
	if err != nil {
		return nil, fmt.Errorf("invalid filter: %w", err)
	}
	return func(v value.Value) bool { return runFilter(prog, v) }, nil
}

func runFilter(prog *vm.Program, v value.Value) bool {
	out, err := expr.Run(prog, map[string]any{"it": value.Native(v)})
	if err != nil {
		return false
	}
	switch t := out.(type) {
	case bool:
		return t
	case nil:
		return false
	}
	return true
}

// bindCurrent rewrites references to the current value "@" in src as
// references to the variable "it". Quoted text is not modified.
func bindCurrent(src string) string {
	var sb strings.Builder
	var quote byte
	for i := 0; i < len(src); i++ {
		c := src[i]
		switch {
		case quote != 0:
			sb.WriteByte(c)
			if c == '\\' && i+1 < len(src) {
				i++
				sb.WriteByte(src[i])
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'' || c == '`':
			quote = c
			sb.WriteByte(c)
		case c == '@':
			sb.WriteString("it")
			if i+1 < len(src) && isNameStart(src[i+1]) {
				sb.WriteByte('.')
			}
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

func isNameStart(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}
