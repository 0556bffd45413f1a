package highlight

import "testing"

func TestStateOverlappingColours(t *testing.T) {
	s := NewState()
	s.Apply(Event{Redex: "beta-0", Elements: []string{"x", "y"}, Colour: Red, Active: true})
	s.Apply(Event{Redex: "beta-1", Elements: []string{"y"}, Colour: Blue, Active: true})

	if c, _ := s.Colour("y"); c != Blue {
		t.Errorf("y = %s, want blue on top", c)
	}
	s.Apply(Event{Redex: "beta-1", Elements: []string{"y"}, Colour: Blue})
	if c, _ := s.Colour("y"); c != Red {
		t.Errorf("y = %s, want red after clearing blue", c)
	}
	if got := s.Active(); got != "" {
		t.Errorf("Active() = %q, want none after clearing beta-1", got)
	}

	s.Apply(Event{Redex: "beta-0", Elements: []string{"x", "y"}, Colour: Red})
	if n := s.Highlighted(); n != 0 {
		t.Errorf("Highlighted() = %d, want 0", n)
	}
}
