package termmap

import (
	"slices"
	"testing"
)

func TestIDSetAllocate(t *testing.T) {
	s := NewIDSet()
	first := s.Allocate("λx")
	second := s.Allocate("λx")
	third := s.Allocate("λx")

	if first != "λx" || second != "λx'" || third != "λx''" {
		t.Errorf("Allocate() = %q, %q, %q, want λx, λx', λx''", first, second, third)
	}
	if s.Len() != 3 {
		t.Errorf("Len() = %d, want 3", s.Len())
	}
}

func TestIDSetPrimedCandidate(t *testing.T) {
	s := NewIDSet()
	s.Allocate("x'")
	if got := s.Allocate("x"); got != "x" {
		t.Errorf("Allocate(x) = %q, want x", got)
	}
	if got := s.Allocate("x"); got != "x''" {
		t.Errorf("Allocate(x) = %q, want x''", got)
	}
}

func TestIDSetDeterministic(t *testing.T) {
	calls := []string{"a", "b", "a", "a'", "b", "a"}
	run := func() []string {
		s := NewIDSet()
		for _, c := range calls {
			s.Allocate(c)
		}
		return s.IDs()
	}

	first, second := run(), run()
	if !slices.Equal(first, second) {
		t.Errorf("allocation not deterministic: %v vs %v", first, second)
	}
	want := []string{"a", "b", "a'", "a''", "b'", "a'''"}
	if !slices.Equal(first, want) {
		t.Errorf("IDs() = %v, want %v", first, want)
	}
}

func TestUnique(t *testing.T) {
	taken := map[string]bool{"n": true, "n'": true}
	if got := Unique("n", func(id string) bool { return taken[id] }); got != "n''" {
		t.Errorf("Unique(n) = %q, want n''", got)
	}
	if got := Unique("m", func(id string) bool { return taken[id] }); got != "m" {
		t.Errorf("Unique(m) = %q, want m", got)
	}
}
