package termmap

import "strconv"

// ClassPrefix prefixes the class of every redex.
const ClassPrefix = "beta-"

// Redex records one beta-redex occurrence of a map. Redexes are identified by
// position: two structurally identical redexes at different applications are
// distinct.
type Redex struct {
	ID          string   // Class label, "beta-N"
	Index       int      // Discovery order
	Application string   // Application node id
	Abstraction string   // Abstraction node id applied by the redex
	Edge        string   // Edge from the abstraction to the application
	Elements    []string // Node and edge ids highlighted together, in creation order
}

// Tracker accumulates redex membership during one map build.
type Tracker struct {
	redexes []*Redex
	seen    []map[string]struct{}
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker { return &Tracker{} }

// Open starts a new redex and returns its index.
func (t *Tracker) Open() int {
	i := len(t.redexes)
	t.redexes = append(t.redexes, &Redex{ID: ClassPrefix + strconv.Itoa(i), Index: i})
	t.seen = append(t.seen, map[string]struct{}{})
	return i
}

// ClassesFor returns one class per open redex, outermost first.
func (t *Tracker) ClassesFor(open []int) []string {
	if len(open) == 0 {
		return nil
	}
	out := make([]string, len(open))
	for i, r := range open {
		out[i] = t.redexes[r].ID
	}
	return out
}

// Record adds id to the elements of every open redex.
func (t *Tracker) Record(open []int, id string) {
	for _, r := range open {
		t.add(r, id)
	}
}

// RecordClass adds id to the elements of the redex with the given class.
func (t *Tracker) RecordClass(class, id string) {
	for i, r := range t.redexes {
		if r.ID == class {
			t.add(i, id)
			return
		}
	}
}

func (t *Tracker) add(r int, id string) {
	if _, ok := t.seen[r][id]; ok {
		return
	}
	t.seen[r][id] = struct{}{}
	t.redexes[r].Elements = append(t.redexes[r].Elements, id)
}

// SetApplication records the application node of redex r.
func (t *Tracker) SetApplication(r int, id string) { t.redexes[r].Application = id }

// SetAbstraction records the abstraction node of redex r.
func (t *Tracker) SetAbstraction(r int, id string) { t.redexes[r].Abstraction = id }

// SetEdge records the redex edge of redex r.
func (t *Tracker) SetEdge(r int, id string) { t.redexes[r].Edge = id }

// Len returns the number of redexes discovered.
func (t *Tracker) Len() int { return len(t.redexes) }

// Redexes returns copies of the redex records in discovery order.
func (t *Tracker) Redexes() []Redex {
	out := make([]Redex, len(t.redexes))
	for i, r := range t.redexes {
		out[i] = *r
		out[i].Elements = append([]string(nil), r.Elements...)
	}
	return out
}
