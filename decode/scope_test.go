// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package decode

import (
	"testing"

	"github.com/creachadair/jhal/token"
	"github.com/creachadair/mds/mtest"
)

func TestTracker(t *testing.T) {
	var tr tracker

	a, err := tr.open(token.BeginObject)
	if err != nil {
		t.Fatalf("open: unexpected error: %v", err)
	}
	b, err := tr.open(token.BeginArray)
	if err != nil {
		t.Fatalf("open: unexpected error: %v", err)
	}
	if a == b {
		t.Errorf("open: duplicate scope ID %d", a)
	}
	if !tr.active(a) || !tr.active(b) {
		t.Errorf("active(%d), active(%d): got %v, %v; want true, true", a, b, tr.active(a), tr.active(b))
	}
	if got := tr.kind(); got != token.BeginArray {
		t.Errorf("kind: got %v, want %v", got, token.BeginArray)
	}

	tr.close(b)
	if tr.active(b) {
		t.Errorf("active(%d) after close: got true, want false", b)
	}
	if !tr.active(a) {
		t.Errorf("active(%d): got false, want true", a)
	}
	tr.release(b)
	if got := tr.depth(); got != 1 {
		t.Errorf("depth after release: got %d, want 1", got)
	}

	// IDs are not reused after release.
	c, err := tr.open(token.BeginObject)
	if err != nil {
		t.Fatalf("open: unexpected error: %v", err)
	}
	if c == a || c == b {
		t.Errorf("open: reused scope ID %d", c)
	}
	tr.close(c)
	tr.release(c)
	tr.close(a)
	tr.release(a)

	if got := tr.depth(); got != 0 {
		t.Errorf("depth: got %d, want 0", got)
	}
	if tr.active(a) {
		t.Errorf("active(%d) after release: got true, want false", a)
	}
	if got := tr.kind(); got != token.Invalid {
		t.Errorf("kind of empty tracker: got %v, want %v", got, token.Invalid)
	}
}

func TestTrackerPanics(t *testing.T) {
	t.Run("CloseOuter", func(t *testing.T) {
		var tr tracker
		a, _ := tr.open(token.BeginObject)
		tr.open(token.BeginObject)
		mtest.MustPanic(t, func() { tr.close(a) })
	})
	t.Run("CloseTwice", func(t *testing.T) {
		var tr tracker
		a, _ := tr.open(token.BeginArray)
		tr.close(a)
		mtest.MustPanic(t, func() { tr.close(a) })
	})
	t.Run("CloseUnknown", func(t *testing.T) {
		var tr tracker
		mtest.MustPanic(t, func() { tr.close(1) })
	})
	t.Run("ReleaseOuter", func(t *testing.T) {
		var tr tracker
		a, _ := tr.open(token.BeginObject)
		tr.open(token.BeginArray)
		mtest.MustPanic(t, func() { tr.release(a) })
	})
	t.Run("ReleaseEmpty", func(t *testing.T) {
		var tr tracker
		mtest.MustPanic(t, func() { tr.release(1) })
	})
}

func TestTrackerDepth(t *testing.T) {
	tr := tracker{maxDepth: 3}
	for i := range 3 {
		if _, err := tr.open(token.BeginObject); err != nil {
			t.Fatalf("open %d: unexpected error: %v", i+1, err)
		}
	}
	if id, err := tr.open(token.BeginArray); err == nil {
		t.Errorf("open beyond limit: got %d, want error", id)
	}
	if got := tr.depth(); got != 3 {
		t.Errorf("depth: got %d, want 3", got)
	}
}
