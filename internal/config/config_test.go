// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/creachadair/jhal/decode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestConfig_DefaultValues(t *testing.T) {
	cfg := NewConfig()

	assert.False(t, cfg.Decode.JWCC)
	assert.Equal(t, decode.DefaultMaxDepth, cfg.Decode.MaxDepth)
	assert.Empty(t, cfg.Decode.TimeLayouts)
	assert.False(t, cfg.Output.Raw)
	assert.Equal(t, "  ", cfg.Output.Indent)
	assert.False(t, cfg.Debug)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_LoadFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".halcat.yaml")
	writeFile(t, path, `
decode:
  jwcc: true
  max_depth: 50
  time_layouts:
    - "2006-01-02"
    - "02 Jan 2006"
  no_uuids: true
output:
  indent: "\t"
  plain_strings: true
debug: true
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.True(t, cfg.Decode.JWCC)
	assert.Equal(t, 50, cfg.Decode.MaxDepth)
	assert.Equal(t, []string{"2006-01-02", "02 Jan 2006"}, cfg.Decode.TimeLayouts)
	assert.False(t, cfg.Decode.NoTimes)
	assert.True(t, cfg.Decode.NoUUIDs)
	assert.False(t, cfg.Output.Raw)
	assert.Equal(t, "\t", cfg.Output.Indent)
	assert.True(t, cfg.Output.PlainStrings)
	assert.True(t, cfg.Debug)

	opts := cfg.DecodeOptions()
	assert.Equal(t, 50, opts.MaxDepth)
	assert.True(t, opts.JWCC)
	assert.Equal(t, cfg.Decode.TimeLayouts, opts.Infer.TimeLayouts)
	assert.True(t, opts.Infer.NoUUIDs)

	dopts := cfg.DumpOptions()
	assert.Equal(t, "\t", dopts.Indent)
	assert.True(t, dopts.PlainStrings)
}

func TestConfig_LoadPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	writeFile(t, path, "output:\n  raw: true\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.True(t, cfg.Output.Raw)
	assert.Equal(t, "  ", cfg.Output.Indent)
	assert.Equal(t, decode.DefaultMaxDepth, cfg.Decode.MaxDepth)
}

func TestConfig_LoadEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	writeFile(t, path, "")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, NewConfig(), cfg)
}

func TestConfig_LoadNonExistentFile(t *testing.T) {
	_, err := LoadConfig("/non/existent/config.yaml")
	assert.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestConfig_LoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"Syntax", "decode: [unclosed array\n", "failed to parse config file"},
		{"UnknownField", "decode:\n  jwcc: true\n  colour: red\n", "failed to parse config file"},
		{"WrongType", "decode:\n  max_depth: deep\n", "failed to parse config file"},
		{"EmptyLayout", "decode:\n  time_layouts: [\"\"]\n", "time layout 1 is empty"},
		{"BadIndent", "output:\n  indent: \">>\"\n", "must contain only spaces and tabs"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			writeFile(t, path, tc.content)

			_, err := LoadConfig(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestConfig_FindConfigFile(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	t.Run("NotFound", func(t *testing.T) {
		t.Chdir(sub)
		if got := FindConfigFile(); got != "" {
			// A config file in an ancestor of the temp directory is outside
			// the test's control.
			t.Skipf("found unrelated config file %q", got)
		}
	})

	cfgPath := filepath.Join(root, "a", ".halcat.yml")
	writeFile(t, cfgPath, "debug: true\n")

	t.Run("Parent", func(t *testing.T) {
		t.Chdir(sub)
		got, err := filepath.EvalSymlinks(FindConfigFile())
		require.NoError(t, err)
		want, err := filepath.EvalSymlinks(cfgPath)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("Preferred", func(t *testing.T) {
		preferred := filepath.Join(sub, ".halcat.yaml")
		writeFile(t, preferred, "debug: false\n")
		t.Chdir(sub)

		got, err := filepath.EvalSymlinks(FindConfigFile())
		require.NoError(t, err)
		want, err := filepath.EvalSymlinks(preferred)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("IgnoresDirectory", func(t *testing.T) {
		dir := filepath.Join(root, "c")
		require.NoError(t, os.MkdirAll(filepath.Join(dir, ".halcat.yaml"), 0o755))
		writeFile(t, filepath.Join(dir, "halcat.yml"), "")
		t.Chdir(dir)

		got, err := filepath.EvalSymlinks(FindConfigFile())
		require.NoError(t, err)
		assert.Equal(t, "halcat.yml", filepath.Base(got))
	})
}
