// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Program halcat decodes a HAL document and prints it as indented text.
//
// Usage:
//
//	halcat [flags] [input]
//
// The input is read from the named file, or from stdin if it is omitted or
// "-". Input compressed with gzip, zstd, or lz4 (frame format) is recognized
// by its header and decompressed.
//
// By default the input is shaped as a HAL document and its links, properties,
// and embedded resources are printed. With --raw, the decoded value graph is
// printed instead. With --path, the given JSONPath expression is evaluated
// against the value graph and the result is printed.
//
// Settings are read from a YAML file named by --config, or else from the
// first .halcat.yaml (or .halcat.yml, halcat.yaml, halcat.yml) found in the
// working directory or its parents. Flags override the config file.
package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/creachadair/jhal/decode"
	"github.com/creachadair/jhal/hal"
	"github.com/creachadair/jhal/internal/config"
	"github.com/creachadair/jhal/internal/dump"
	"github.com/creachadair/jhal/query"
	"github.com/dustin/go-humanize"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// CLI defines the command-line interface.
type CLI struct {
	Input string `arg:"" optional:"" help:"Path of the input file (default stdin)."`

	Config       string `help:"Path to a YAML config file." short:"c" type:"path"`
	JWCC         bool   `help:"Accept JSON with comments and trailing commas." name:"jwcc"`
	Raw          bool   `help:"Print the decoded value graph instead of the HAL document." short:"r"`
	Path         string `help:"Print the result of this JSONPath expression." short:"p"`
	PlainStrings bool   `help:"Print inferred times and UUIDs as their input strings."`
	MaxDepth     int    `help:"Maximum nesting depth (0 uses the config, negative is unlimited)."`
	Debug        bool   `help:"Enable debug logging, including each token read." short:"d"`
}

func main() {
	var cli CLI
	kong.Parse(&cli,
		kong.Name("halcat"),
		kong.Description("Decode and print a HAL document."),
		kong.UsageOnError(),
	)
	if err := cli.run(os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "halcat: %v\n", err)
		os.Exit(1)
	}
}

func (c *CLI) run(stdin io.Reader, stdout, stderr io.Writer) error {
	logger := log.New(io.Discard, "[halcat] ", log.Lmsgprefix)

	cfg, cfgPath, err := c.loadConfig()
	if err != nil {
		return err
	}
	if cfg.Debug {
		logger.SetOutput(stderr)
	}
	if cfgPath != "" {
		logger.Printf("loaded config from %s", cfgPath)
	}

	in, name, err := c.openInput(stdin)
	if err != nil {
		return err
	}
	defer in.Close()

	raw := &countingReader{r: in}
	rc, format, err := decompress(raw)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	defer rc.Close()
	text := &countingReader{r: rc}

	opts := cfg.DecodeOptions()
	if cfg.Debug {
		opts.Logf = logger.Printf
	}
	start := time.Now()
	obj, err := decode.Reader(text, opts)
	if err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	if format != "" {
		logger.Printf("read %s from %s (%s compressed)", humanize.Bytes(text.n), name, humanize.Bytes(raw.n))
	} else {
		logger.Printf("read %s from %s", humanize.Bytes(text.n), name)
	}
	logger.Printf("decoded %d members in %v", obj.Len(), time.Since(start).Round(time.Microsecond))

	dopts := cfg.DumpOptions()
	switch {
	case c.Path != "":
		q, err := query.ParsePath(c.Path)
		if err != nil {
			return err
		}
		v, err := query.Eval(obj, q)
		if err != nil {
			return fmt.Errorf("query %s: %w", c.Path, err)
		}
		return dump.Value(stdout, v, dopts)

	case cfg.Output.Raw:
		return dump.Value(stdout, obj, dopts)

	default:
		doc, err := hal.FromObject(obj)
		if err != nil {
			return err
		}
		return dump.Document(stdout, doc, dopts)
	}
}

// loadConfig loads the config file, if any, and applies the flags to it.
// It returns the path of the file loaded, or "" if none.
func (c *CLI) loadConfig() (*config.Config, string, error) {
	path := c.Config
	if path == "" {
		path = config.FindConfigFile()
	}
	cfg := config.NewConfig()
	if path != "" {
		var err error
		cfg, err = config.LoadConfig(path)
		if err != nil {
			return nil, "", err
		}
	}

	if c.JWCC {
		cfg.Decode.JWCC = true
	}
	if c.Raw {
		cfg.Output.Raw = true
	}
	if c.PlainStrings {
		cfg.Output.PlainStrings = true
	}
	if c.MaxDepth != 0 {
		cfg.Decode.MaxDepth = c.MaxDepth
	}
	if c.Debug {
		cfg.Debug = true
	}
	return cfg, path, nil
}

func (c *CLI) openInput(stdin io.Reader) (io.ReadCloser, string, error) {
	if c.Input == "" || c.Input == "-" {
		return io.NopCloser(stdin), "stdin", nil
	}
	f, err := os.Open(c.Input)
	if err != nil {
		return nil, "", err
	}
	return f, c.Input, nil
}

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	lz4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
)

// decompress returns a reader for the decompressed contents of r, and the
// name of the compression format detected, or "" if r is not compressed.
func decompress(r io.Reader) (io.ReadCloser, string, error) {
	br := bufio.NewReader(r)
	magic, err := br.Peek(4)
	if err != nil && err != io.EOF { // a short input is not compressed
		return nil, "", err
	}

	switch {
	case bytes.HasPrefix(magic, gzipMagic):
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, "", fmt.Errorf("gzip: %w", err)
		}
		return zr, "gzip", nil

	case bytes.HasPrefix(magic, zstdMagic):
		zr, err := zstd.NewReader(br, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, "", fmt.Errorf("zstd: %w", err)
		}
		return zr.IOReadCloser(), "zstd", nil

	case bytes.HasPrefix(magic, lz4Magic):
		return io.NopCloser(lz4.NewReader(br)), "lz4", nil
	}
	return io.NopCloser(br), "", nil
}

type countingReader struct {
	r io.Reader
	n uint64
}

func (c *countingReader) Read(data []byte) (int, error) {
	nr, err := c.r.Read(data)
	c.n += uint64(nr)
	return nr, err
}
