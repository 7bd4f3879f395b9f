// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package escape handles quoting and unquoting of JSON strings.
//
// The functions in this package work on the contents of a string, without
// its enclosing double quotation marks.
package escape

import (
	"errors"
	"unicode/utf16"
	"unicode/utf8"

	"go4.org/mem"
)

// shortEsc maps control characters to their two-byte escapes. Control
// characters not listed use the six-byte hex form.
var shortEsc = [' ']byte{
	'\b': 'b',
	'\f': 'f',
	'\n': 'n',
	'\r': 'r',
	'\t': 't',
}

const hexDigit = "0123456789abcdef"

// Quote returns the JSON escaping of src.
func Quote(src mem.RO) []byte { return AppendQuote(make([]byte, 0, src.Len()), src) }

// AppendQuote appends the JSON escaping of src to dst and returns the
// extended slice.
//
// Quotation marks, backslashes, and control characters are escaped. So are
// U+2028 and U+2029, which JavaScript does not allow in string literals, and
// U+FFFD. Invalid UTF-8 sequences are encoded as U+FFFD.
func AppendQuote(dst []byte, src mem.RO) []byte {
	for src.Len() != 0 {
		r, n := mem.DecodeRune(src)
		src = src.SliceFrom(n)

		switch {
		case r == '"' || r == '\\':
			dst = append(dst, '\\', byte(r))
		case r < ' ':
			if b := shortEsc[r]; b != 0 {
				dst = append(dst, '\\', b)
			} else {
				dst = appendHex(dst, r)
			}
		case r < utf8.RuneSelf:
			dst = append(dst, byte(r))
		case r == utf8.RuneError, r == 0x2028, r == 0x2029:
			dst = appendHex(dst, r)
		default:
			dst = utf8.AppendRune(dst, r)
		}
	}
	return dst
}

// appendHex appends the six-byte escape for r, which must be in the BMP.
func appendHex(dst []byte, r rune) []byte {
	return append(dst, '\\', 'u',
		hexDigit[r>>12&15], hexDigit[r>>8&15], hexDigit[r>>4&15], hexDigit[r&15])
}

// Unquote decodes src, the contents of a JSON string.
//
// Escape sequences are replaced with their unescaped equivalents. Invalid
// escapes, and Unicode escapes for unpaired UTF-16 surrogates, are replaced
// by the Unicode replacement rune. Unquote reports an error for an incomplete
// escape sequence.
func Unquote(src mem.RO) ([]byte, error) {
	return AppendUnquote(make([]byte, 0, src.Len()), src)
}

// AppendUnquote appends the decoding of src to dst and returns the extended
// slice. See Unquote for details.
func AppendUnquote(dst []byte, src mem.RO) ([]byte, error) {
	for {
		i := mem.IndexByte(src, '\\')
		if i < 0 {
			return mem.Append(dst, src), nil
		}
		dst = mem.Append(dst, src.SliceTo(i))
		src = src.SliceFrom(i + 1)
		if src.Len() == 0 {
			return nil, errors.New("incomplete escape sequence")
		}

		r, n := mem.DecodeRune(src)
		if n == 0 {
			n = 1
		}
		src = src.SliceFrom(n)
		switch r {
		case '"', '\\', '/':
			dst = append(dst, byte(r))
		case 'b':
			dst = append(dst, '\b')
		case 'f':
			dst = append(dst, '\f')
		case 'n':
			dst = append(dst, '\n')
		case 'r':
			dst = append(dst, '\r')
		case 't':
			dst = append(dst, '\t')
		case 'u':
			var err error
			r, src, err = decodeHex(src)
			if err != nil {
				return nil, err
			}
			dst = utf8.AppendRune(dst, r)
		default:
			dst = utf8.AppendRune(dst, utf8.RuneError)
		}
	}
}

// decodeHex decodes the hex digits of a Unicode escape at the front of src,
// and returns the rune and the remainder of src. If the escape denotes the
// first half of a UTF-16 surrogate pair and the second half follows, both
// are consumed.
func decodeHex(src mem.RO) (rune, mem.RO, error) {
	if src.Len() < 4 {
		return 0, src, errors.New("incomplete Unicode escape")
	}
	r, ok := parseHex(src.SliceTo(4))
	src = src.SliceFrom(4)
	if !ok {
		return utf8.RuneError, src, nil
	} else if !utf16.IsSurrogate(r) {
		return r, src, nil
	}

	if src.Len() >= 6 && src.At(0) == '\\' && src.At(1) == 'u' {
		if lo, ok := parseHex(src.Slice(2, 6)); ok {
			if pr := utf16.DecodeRune(r, lo); pr != utf8.RuneError {
				return pr, src.SliceFrom(6), nil
			}
		}
	}
	return utf8.RuneError, src, nil
}

func parseHex(data mem.RO) (rune, bool) {
	var v rune
	for i := range data.Len() {
		b := data.At(i)
		v <<= 4
		switch {
		case '0' <= b && b <= '9':
			v += rune(b - '0')
		case 'a' <= b && b <= 'f':
			v += rune(b - 'a' + 10)
		case 'A' <= b && b <= 'F':
			v += rune(b - 'A' + 10)
		default:
			return 0, false
		}
	}
	return v, true
}
