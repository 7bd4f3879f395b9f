// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package hal

import (
	"io"

	"github.com/creachadair/jhal/decode"
	"github.com/creachadair/jhal/value"
)

// Decode decodes the JSON text of r and shapes it as a HAL document. An
// empty input yields an empty document. A nil opts provides default options
// as described by decode.Options.
func Decode(r io.Reader, opts *decode.Options) (*Document, error) {
	return shapeResult(decode.Reader(r, opts))
}

// DecodeBytes decodes data and shapes it as a HAL document.
func DecodeBytes(data []byte, opts *decode.Options) (*Document, error) {
	return shapeResult(decode.Bytes(data, opts))
}

// DecodeString decodes s and shapes it as a HAL document.
func DecodeString(s string, opts *decode.Options) (*Document, error) {
	return shapeResult(decode.String(s, opts))
}

func shapeResult(obj *value.Object, err error) (*Document, error) {
	if err != nil {
		return nil, err
	}
	return FromObject(obj)
}
