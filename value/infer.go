// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package value

import (
	"strconv"
	"time"

	"github.com/creachadair/jhal"
	"github.com/google/uuid"
)

// DefaultTimeLayouts are the timestamp layouts recognized by Infer, in the
// order they are tried. Layouts without a zone are interpreted as UTC.
// Fractional seconds are accepted after the seconds field of any layout.
var DefaultTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// An Inferrer converts strings into the most specific Value they represent.
// The zero value is ready for use and recognizes the DefaultTimeLayouts.
type Inferrer struct {
	// If set, these layouts are tried instead of DefaultTimeLayouts.
	TimeLayouts []string

	NoTimes bool // if true, do not recognize timestamps
	NoUUIDs bool // if true, do not recognize UUIDs
}

// Infer reports the most specific Value represented by s using the default
// Inferrer.
func Infer(s string) Value { return Inferrer{}.Infer(s) }

// Infer reports the most specific Value represented by s. It returns a Time
// if s matches one of the timestamp layouts, otherwise a UUID if s is a UUID
// in canonical 8-4-4-4-12 form, otherwise s as a String.
func (in Inferrer) Infer(s string) Value {
	if !in.NoTimes {
		if t, ok := in.parseTime(s); ok {
			return Time{Time: t, raw: s}
		}
	}
	if !in.NoUUIDs && len(s) == 36 {
		if u, err := uuid.Parse(s); err == nil {
			return UUID{UUID: u, raw: s}
		}
	}
	return String(s)
}

func (in Inferrer) parseTime(s string) (time.Time, bool) {
	// Every layout begins with a 4-digit year followed by "-".
	if len(s) < 10 || s[4] != '-' || !isDigits(s[:4]) {
		return time.Time{}, false
	}
	layouts := in.TimeLayouts
	if layouts == nil {
		layouts = DefaultTimeLayouts
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func isDigits(s string) bool {
	for i := range len(s) {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// ParseNumber parses the text of a JSON number as a Number. It reports an
// error if text is not a number in the JSON grammar, or if its value is not
// representable as a finite float64. The error has concrete type
// *strconv.NumError, wrapping strconv.ErrSyntax or strconv.ErrRange.
func ParseNumber(text string) (Number, error) {
	if !jhal.IsNumber(text) {
		return 0, &strconv.NumError{Func: "ParseNumber", Num: text, Err: strconv.ErrSyntax}
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, err // ErrRange: the syntax is already checked
	}
	return Number(f), nil
}
