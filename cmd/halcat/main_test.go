// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/alecthomas/kong"
	"github.com/creachadair/jhal/decode"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setup moves the test into an empty working directory, so that no config
// file is found unless the test provides one, and returns the absolute path
// of the orders fixture.
func setup(t *testing.T) string {
	t.Helper()
	input, err := filepath.Abs("../../testdata/orders.json")
	require.NoError(t, err)
	t.Chdir(t.TempDir())
	return input
}

func parseArgs(t *testing.T, args ...string) *CLI {
	t.Helper()
	var cli CLI
	p, err := kong.New(&cli, kong.Name("halcat"))
	require.NoError(t, err)
	_, err = p.Parse(args)
	require.NoError(t, err)
	return &cli
}

func runCLI(t *testing.T, stdin io.Reader, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	if stdin == nil {
		stdin = strings.NewReader("")
	}
	var out, errOut bytes.Buffer
	err = parseArgs(t, args...).run(stdin, &out, &errOut)
	return out.String(), errOut.String(), err
}

func TestParseArgs(t *testing.T) {
	cli := parseArgs(t, "--config", "x.yaml", "--jwcc", "-r", "--path", "$.a",
		"--plain-strings", "--max-depth", "5", "-d", "in.json")
	assert.Equal(t, "in.json", cli.Input)
	assert.True(t, filepath.IsAbs(cli.Config))
	assert.Equal(t, "x.yaml", filepath.Base(cli.Config))
	assert.True(t, cli.JWCC)
	assert.True(t, cli.Raw)
	assert.Equal(t, "$.a", cli.Path)
	assert.True(t, cli.PlainStrings)
	assert.Equal(t, 5, cli.MaxDepth)
	assert.True(t, cli.Debug)

	empty := parseArgs(t)
	assert.Equal(t, CLI{}, *empty)
}

func TestRun_Document(t *testing.T) {
	input := setup(t)

	out, errOut, err := runCLI(t, nil, input)
	require.NoError(t, err)
	assert.Empty(t, errOut)

	assert.True(t, strings.HasPrefix(out, "links:\n  curies: http://example.com/docs/rels/{rel} (name=\"ea\", templated=true)\n"), out)
	assert.Contains(t, out, "  find: /orders{?id} (templated=true)\n")
	assert.Contains(t, out, "properties:\n  currentlyProcessing: 14\n  shippedToday: 20\n  updated: time 2020-07-09T10:51:12Z\n")
	assert.Contains(t, out, "  ea:order[1]:\n")
	assert.Contains(t, out, "      self: /orders/124 \"Order 124\"\n")
	assert.Contains(t, out, "      id: uuid a2e965e6-c2fb-42e9-8d33-c3f5cf64cd60\n")
	assert.Contains(t, out, "          name: \"Inigo Montoya\"\n")
}

func TestRun_Raw(t *testing.T) {
	input := setup(t)

	out, _, err := runCLI(t, nil, "--raw", "--plain-strings", input)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "_links:\n  self:\n    href: \"/orders\"\n"), out)
	assert.Contains(t, out, "updated: \"2020-07-09T10:51:12Z\"\n")
	assert.Contains(t, out, "_embedded:\n  ea:order:\n    [0]:\n")
}

func TestRun_Path(t *testing.T) {
	input := setup(t)

	tests := []struct {
		path, want string
	}{
		{"$..sku", "[0]: \"A-100\"\n[1]: \"B-220\"\n[2]: \"C-310\"\n"},
		{"$.shippedToday", "20\n"},
		{"$._embedded['ea:order'][?(@.total > 25)].status", "[0]: \"shipped\"\n"},
		{"$._embedded['ea:order'][1]._embedded", "ea:customer:\n  _links:\n    self:\n" +
			"      href: \"/customers/12369\"\n  name: \"Inigo Montoya\"\n  vip: false\n  notes: null\n"},
	}
	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			out, _, err := runCLI(t, nil, "--path", tc.path, input)
			require.NoError(t, err)
			assert.Equal(t, tc.want, out)
		})
	}
}

func TestRun_Stdin(t *testing.T) {
	setup(t)

	for _, args := range [][]string{nil, {"-"}} {
		out, _, err := runCLI(t, strings.NewReader(`{"_links":{"self":{"href":"/x"}},"a":1}`), args...)
		require.NoError(t, err)
		assert.Equal(t, "links:\n  self: /x\nproperties:\n  a: 1\n", out)
	}

	out, _, err := runCLI(t, strings.NewReader("  \n"))
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestRun_Compressed(t *testing.T) {
	input := setup(t)
	data, err := os.ReadFile(input)
	require.NoError(t, err)

	want, _, err := runCLI(t, nil, input)
	require.NoError(t, err)

	compressors := map[string]func(io.Writer) io.WriteCloser{
		"gzip": func(w io.Writer) io.WriteCloser { return gzip.NewWriter(w) },
		"zstd": func(w io.Writer) io.WriteCloser {
			zw, err := zstd.NewWriter(w)
			require.NoError(t, err)
			return zw
		},
		"lz4": func(w io.Writer) io.WriteCloser { return lz4.NewWriter(w) },
	}
	for name, newWriter := range compressors {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			w := newWriter(&buf)
			_, err := w.Write(data)
			require.NoError(t, err)
			require.NoError(t, w.Close())

			path := filepath.Join(t.TempDir(), "orders.json."+name)
			require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

			got, errOut, err := runCLI(t, nil, "--debug", path)
			require.NoError(t, err)
			assert.Equal(t, want, got)
			assert.Contains(t, errOut, "compressed)")

			// The format is recognized on stdin as well.
			got, _, err = runCLI(t, bytes.NewReader(buf.Bytes()))
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestRun_JWCC(t *testing.T) {
	setup(t)
	const input = `{
  // The only link.
  "_links": {"self": {"href": "/x",},},
  "a": 1, /* trailing comma */
}`
	_, _, err := runCLI(t, strings.NewReader(input))
	require.Error(t, err)
	assert.ErrorIs(t, err, decode.ErrMalformed)

	out, _, err := runCLI(t, strings.NewReader(input), "--jwcc")
	require.NoError(t, err)
	assert.Equal(t, "links:\n  self: /x\nproperties:\n  a: 1\n", out)
}

func TestRun_Config(t *testing.T) {
	input := setup(t)
	require.NoError(t, os.WriteFile(".halcat.yaml", []byte(`
decode:
  no_times: true
output:
  raw: true
  indent: "\t"
`), 0o644))

	t.Run("Found", func(t *testing.T) {
		out, _, err := runCLI(t, nil, "--path", "$._embedded['ea:order'][0]._links", input)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(out, "self:\n\thref: \"/orders/123\"\n"), out)

		out, _, err = runCLI(t, nil, "--path", "$.updated", input)
		require.NoError(t, err)
		assert.Equal(t, "\"2020-07-09T10:51:12Z\"\n", out)
	})

	t.Run("Explicit", func(t *testing.T) {
		other := filepath.Join(t.TempDir(), "other.yaml")
		require.NoError(t, os.WriteFile(other, []byte("debug: true\n"), 0o644))

		out, errOut, err := runCLI(t, nil, "--config", other, input)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(out, "links:\n"), out)
		assert.Contains(t, errOut, "[halcat] loaded config from "+other)
		assert.Contains(t, errOut, "[halcat] token: start of object at 1:0")
		assert.Contains(t, errOut, "[halcat] decoded 5 members")
	})

	t.Run("Invalid", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(bad, []byte("nonesuch: 1\n"), 0o644))

		_, _, err := runCLI(t, nil, "--config", bad, input)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config file")
	})
}

func TestRun_MaxDepth(t *testing.T) {
	setup(t)
	const input = `{"a": {"b": {"c": [1]}}}`

	_, _, err := runCLI(t, strings.NewReader(input), "--max-depth", "3")
	require.Error(t, err)
	assert.ErrorIs(t, err, decode.ErrTooDeep)

	out, _, err := runCLI(t, strings.NewReader(input), "--max-depth", "4", "--path", "$.a.b.c[0]")
	require.NoError(t, err)
	assert.Equal(t, "1\n", out)
}

func TestRun_Errors(t *testing.T) {
	input := setup(t)

	tests := []struct {
		name  string
		stdin string
		args  []string
		want  string
	}{
		{"MissingFile", "", []string{"nonesuch.json"}, "nonesuch.json"},
		{"BadPath", "", []string{"--path", "_links", input}, "missing root marker"},
		{"NoMatch", "", []string{"--path", "$.nonesuch", input}, "no match for $.nonesuch"},
		{"NotObject", "[1, 2]", nil, "decode stdin"},
		{"BadShape", `{"_links": []}`, nil, "_links"},
		{"BadGzip", "\x1f\x8bxx", nil, "gzip"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, _, err := runCLI(t, strings.NewReader(tc.stdin), tc.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
			assert.Empty(t, out)
		})
	}
}

func TestDecompress(t *testing.T) {
	t.Run("Short", func(t *testing.T) {
		rc, format, err := decompress(strings.NewReader("{}"))
		require.NoError(t, err)
		assert.Empty(t, format)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, "{}", string(data))
	})

	t.Run("Empty", func(t *testing.T) {
		_, format, err := decompress(strings.NewReader(""))
		require.NoError(t, err)
		assert.Empty(t, format)
	})

	t.Run("ReadError", func(t *testing.T) {
		errBroken := errors.New("broken pipe")
		_, _, err := decompress(iotest.ErrReader(errBroken))
		assert.ErrorIs(t, err, errBroken)

		setup(t)
		_, _, err = runCLI(t, iotest.ErrReader(errBroken))
		assert.ErrorIs(t, err, errBroken)
		assert.Contains(t, err.Error(), "read stdin")
	})
}
