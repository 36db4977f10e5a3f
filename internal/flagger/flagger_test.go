package flagger

import (
	"strings"
	"testing"

	"github.com/lemon-sec/scavenger/internal/model"
)

func TestPatternFlagger(t *testing.T) {
	t.Parallel()

	f := NewPatternFlagger()

	t.Run("matches email address", func(t *testing.T) {
		t.Parallel()

		comment, found := f.Flag("id", model.Raster{}, "contact me: a@b.co")
		if !found {
			t.Fatal("expected a match")
		}
		if !strings.Contains(comment, `"a@b.co"`) {
			t.Errorf("comment %q does not mention matched address", comment)
		}
	})

	t.Run("matches ipv4 address", func(t *testing.T) {
		t.Parallel()

		comment, found := f.Flag("id", model.Raster{}, "internal host 10.0.0.5 is down")
		if !found {
			t.Fatal("expected a match")
		}
		if !strings.Contains(comment, "10.0.0.5") {
			t.Errorf("comment %q does not mention matched ip", comment)
		}
	})

	t.Run("no match on plain text", func(t *testing.T) {
		t.Parallel()

		_, found := f.Flag("id", model.Raster{}, "no content")
		if found {
			t.Fatal("expected no match")
		}
	})
}

func TestKeywordFlagger(t *testing.T) {
	t.Parallel()

	f := NewKeywordFlagger()

	t.Run("matches case-insensitively", func(t *testing.T) {
		t.Parallel()

		comment, found := f.Flag("id", model.Raster{}, "my PASSWORD is hunter2")
		if !found {
			t.Fatal("expected a match")
		}
		if !strings.Contains(comment, "password") {
			t.Errorf("comment %q does not mention matched keyword", comment)
		}
	})

	t.Run("no match on unrelated text", func(t *testing.T) {
		t.Parallel()

		_, found := f.Flag("id", model.Raster{}, "no content")
		if found {
			t.Fatal("expected no match")
		}
	})
}

func TestSetEvaluateFirstMatchWins(t *testing.T) {
	t.Parallel()

	s := Set{NewPatternFlagger(), NewKeywordFlagger()}

	t.Run("keyword wins when pattern does not match", func(t *testing.T) {
		t.Parallel()

		author, comment, found := s.Evaluate("A", model.Raster{}, "my password is hunter2")
		if !found || author != "KEYWORD" {
			t.Fatalf("got author=%q found=%v, want KEYWORD/true", author, found)
		}
		if comment == "" {
			t.Error("expected non-empty comment")
		}
	})

	t.Run("pattern wins when listed first and both would match", func(t *testing.T) {
		t.Parallel()

		author, _, found := s.Evaluate("B", model.Raster{}, "contact me: a@b.co, my password is hunter2")
		if !found || author != "PATTERN" {
			t.Fatalf("got author=%q found=%v, want PATTERN/true", author, found)
		}
	})

	t.Run("no finding when nothing matches", func(t *testing.T) {
		t.Parallel()

		_, _, found := s.Evaluate("C", model.Raster{}, "no content")
		if found {
			t.Fatal("expected no finding")
		}
	})
}

func TestDisabledFlaggerAlwaysFlags(t *testing.T) {
	t.Parallel()

	var d Disabled
	comment, found := d.Flag("id", model.Raster{}, "")
	if !found {
		t.Fatal("expected disabled flagger to always flag")
	}
	if comment != DisabledComment {
		t.Errorf("comment = %q, want %q", comment, DisabledComment)
	}
	if d.ModuleName() != disabledModuleName {
		t.Errorf("ModuleName() = %q, want %q", d.ModuleName(), disabledModuleName)
	}
}

func TestDefaultFactoryOrder(t *testing.T) {
	t.Parallel()

	set := DefaultFactory{}.InitializedFlaggers()
	if len(set) != 3 {
		t.Fatalf("got %d flaggers, want 3", len(set))
	}
	if set[0].ModuleName() != "PATTERN" || set[1].ModuleName() != "KEYWORD" || set[2].ModuleName() != "EXIF" {
		t.Errorf("unexpected default flagger order: %v", []string{set[0].ModuleName(), set[1].ModuleName(), set[2].ModuleName()})
	}
}
