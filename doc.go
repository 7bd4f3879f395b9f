// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package jhal implements a JSON scanner and stream parser that deliver the
// tokens of HAL (Hypertext Application Language) documents.
//
// The packages of this module form a pipeline:
//
//	JSON text -> jhal.Source -> decode -> *value.Object -> hal -> *hal.Document
//
// Package jhal handles the first stage. Package token defines the structural
// tokens and the Source interface; package decode walks a Source to build a
// generic value graph (package value); package hal recognizes the reserved
// "_links" and "_embedded" keys of a value graph to produce a document.
//
// # Scanning
//
// The Scanner type implements a lexical scanner for JSON.  Construct a scanner
// from an io.Reader and call its Next method to iterate over the stream. Next
// advances to the next input token and returns nil, or reports an error:
//
//	s := jhal.NewScanner(input)
//	for s.Next() == nil {
//	   log.Printf("Next token: %v", s.Token())
//	}
//
// Next returns io.EOF when the input has been fully consumed. Any other error
// indicates an I/O or lexical error in the input.
//
//	if s.Err() != io.EOF {
//	   log.Fatalf("Scanning failed: %v", err)
//	}
//
// # Streaming
//
// The Stream type implements an event-driven stream parser for JSON.  The
// parser works by calling methods on a Handler value to report the structure
// of the input. In case of error, parsing is terminated and an error of
// concrete type *jhal.SyntaxError is returned.
//
//	s := jhal.NewStream(input)
//	if err := s.Parse(handler); err != nil {
//	   log.Fatalf("Parse failed: %v", err)
//	}
//
// The parser ensures that corresponding Begin and End methods are correctly
// paired, or that a SyntaxError is reported.
//
// # Tokens
//
// The Tokens function and the Source type present the output of a Stream as
// a sequence of structural tokens (see package token). A Source is a
// forward-only cursor: each call to Next consumes one token.
//
//	src := jhal.NewSource(input)
//	defer src.Close()
//	for {
//	   tok, err := src.Next()
//	   if err == io.EOF {
//	      break
//	   } else if err != nil {
//	      log.Fatalf("Next: %v", err)
//	   }
//	   log.Printf("Token: %v", tok)
//	}
package jhal
