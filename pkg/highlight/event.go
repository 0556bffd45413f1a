package highlight

import (
	"slices"
	"sync"
)

// Colour names a highlight colour.
type Colour string

// Palette colours, assigned to redexes in the order they are first
// highlighted.
const (
	Red    Colour = "red"
	Blue   Colour = "blue"
	Green  Colour = "green"
	Orange Colour = "orange"
	Violet Colour = "violet"
)

// DefaultPalette lists the colours cycled through per redex.
var DefaultPalette = []Colour{Red, Blue, Green, Orange, Violet}

// Class returns the element class carrying the colour, e.g.
// "highlighted-red".
func (c Colour) Class() string { return "highlighted-" + string(c) }

// Event is one applied change.
type Event struct {
	Redex    string   `json:"redex"`
	Elements []string `json:"elements"`
	Colour   Colour   `json:"colour"`
	Active   bool     `json:"active"`
}

// Source resolves a redex id to the ids of the elements it covers.
type Source interface {
	ElementsOf(redex string) []string
}

// Sink receives applied changes in order.
type Sink interface {
	Apply(Event)
}

// SinkFunc adapts a function to [Sink].
type SinkFunc func(Event)

// Apply calls f(e).
func (f SinkFunc) Apply(e Event) { f(e) }

// State is a Sink that tracks the colour classes currently on each element.
// It is safe for concurrent use.
type State struct {
	mu       sync.RWMutex
	elements map[string][]Colour
	active   string
}

// NewState returns an empty state.
func NewState() *State {
	return &State{elements: make(map[string][]Colour)}
}

// Apply records e.
func (s *State) Apply(e Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range e.Elements {
		cs := s.elements[id]
		if e.Active {
			if !slices.Contains(cs, e.Colour) {
				s.elements[id] = append(cs, e.Colour)
			}
			continue
		}
		cs = slices.DeleteFunc(cs, func(c Colour) bool { return c == e.Colour })
		if len(cs) == 0 {
			delete(s.elements, id)
		} else {
			s.elements[id] = cs
		}
	}
	switch {
	case e.Active:
		s.active = e.Redex
	case s.active == e.Redex:
		s.active = ""
	}
}

// Colour returns the most recently applied colour of element id.
func (s *State) Colour(id string) (Colour, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cs := s.elements[id]
	if len(cs) == 0 {
		return "", false
	}
	return cs[len(cs)-1], true
}

// Active returns the highlighted redex, or "".
func (s *State) Active() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// Highlighted returns the number of elements carrying any colour.
func (s *State) Highlighted() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.elements)
}
