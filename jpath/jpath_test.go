package jpath_test

import (
	"errors"
	"testing"

	"github.com/creachadair/jhal/jpath"
	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input string
	}{
		{"$"},
		{"$.store.book[*]..author"},
		{"$..author"},
		{"$.store.*"},
		{"$.store..price"},
		{"$..book[2]"},
		{"$..book[(@.length-1)]"},
		{"$..book[-1:]"},
		{"$..book[0,1]"},
		{"$..book[:2]"},
		{"$..book[?(@.isbn)]"},
		{"$..book[?(@price<10)]"},
		{"$..book[?(@.title == ')')]"},
		{"$..*"},
		{"$['apple sauce'].pearPlum..'cherry apple'"},
		{`$['it\'s'].'back\\slash'`},
		{"$[a][1:3][b]['c d e']"},
		{"$._embedded['ea:order'][0]._links.self.href"},
	}
	for _, test := range tests {
		e, err := jpath.Parse(test.input)
		if err != nil {
			t.Errorf("Parse %q: %v", test.input, err)
			continue
		}

		want := test.input
		if got := e.String(); got != want {
			t.Errorf("Parse %q:\n got %q\nwant %q", test.input, got, want)
		}
	}
}

func TestSteps(t *testing.T) {
	tests := []struct {
		input string
		want  jpath.Expr
	}{
		{"$", nil},
		{"$.a..b", jpath.Expr{
			{Op: jpath.Member, Arg1: "a", Arg2: "name"},
			{Op: jpath.Recur, Arg1: "b", Arg2: "name"},
		}},
		{"$['ea:order'][*][1:]", jpath.Expr{
			{Op: jpath.QName, Arg1: "ea:order"},
			{Op: jpath.Wildcard, Arg1: "*"},
			{Op: jpath.Slice, Arg1: "1"},
		}},
		{`$.'it\'s'[?(f("(") > 1)]`, jpath.Expr{
			{Op: jpath.Member, Arg1: "it's", Arg2: "qname"},
			{Op: jpath.Filter, Arg1: `f("(") > 1`},
		}},
	}
	for _, tc := range tests {
		got, err := jpath.Parse(tc.input)
		if err != nil {
			t.Errorf("Parse %q: %v", tc.input, err)
			continue
		}
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Errorf("Parse %q: (-want, +got)\n%s", tc.input, diff)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input  string
		offset int
	}{
		{"", 0},
		{"a.b", 0},
		{"$.", 1},
		{"$.a[0", 3},
		{"$.a..", 3},
		{"$.a[?(@.x]", 3},
		{"$[1,2:3]", 1},
		{"$.a b", 3},
	}
	for _, tc := range tests {
		e, err := jpath.Parse(tc.input)
		if err == nil {
			t.Errorf("Parse %q: got %v, want error", tc.input, e)
			continue
		}
		var perr *jpath.ParseError
		if !errors.As(err, &perr) {
			t.Errorf("Parse %q: got %T, want *ParseError", tc.input, err)
		} else if perr.Offset != tc.offset {
			t.Errorf("Parse %q: got offset %d, want %d (%v)", tc.input, perr.Offset, tc.offset, err)
		}
	}
}

func TestDefinite(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"$", true},
		{"$.a.b", true},
		{"$['a'][0][b]", true},
		{"$.a[-1]", true},
		{"$.a.*", false},
		{"$.a[*]", false},
		{"$..a", false},
		{"$.a[0,1]", false},
		{"$.a[0:1]", false},
		{"$.a[?(@.b)]", false},
	}
	for _, tc := range tests {
		e, err := jpath.Parse(tc.input)
		if err != nil {
			t.Fatalf("Parse %q: %v", tc.input, err)
		}
		if got := e.Definite(); got != tc.want {
			t.Errorf("Definite(%q): got %v, want %v", tc.input, got, tc.want)
		}
	}
}
