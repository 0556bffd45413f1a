package termmap

// IDSet allocates identifiers that are unique within one map. Nodes and
// edges use separate sets.
//
// The zero value is not usable; use [NewIDSet].
type IDSet struct {
	taken map[string]struct{}
	order []string
}

// NewIDSet returns an empty set.
func NewIDSet() *IDSet {
	return &IDSet{taken: make(map[string]struct{})}
}

// Allocate returns candidate made unique by [Unique] and records it.
// Allocating the same candidate twice yields two different ids, and the same
// sequence of calls always yields the same ids.
func (s *IDSet) Allocate(candidate string) string {
	id := Unique(candidate, s.Contains)
	s.taken[id] = struct{}{}
	s.order = append(s.order, id)
	return id
}

// Contains reports whether id has been allocated.
func (s *IDSet) Contains(id string) bool {
	_, ok := s.taken[id]
	return ok
}

// Len returns the number of allocated ids.
func (s *IDSet) Len() int { return len(s.order) }

// IDs returns the allocated ids in allocation order.
func (s *IDSet) IDs() []string { return append([]string(nil), s.order...) }

// Unique appends [Prime] to candidate while exists reports it as taken.
// It terminates because every retry lengthens the string.
func Unique(candidate string, exists func(string) bool) string {
	for exists(candidate) {
		candidate += Prime
	}
	return candidate
}
