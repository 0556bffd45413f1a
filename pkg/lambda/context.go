package lambda

import "strings"

// Binding is one entry of a [Context].
type Binding struct {
	ID    string // Stable identifier of the binder (graph builders use the binder's node id)
	Label string // Display name
	Free  bool   // True for entries seeded as free variables of the whole term
}

// Context is the free-variable naming context of a term. Entries are ordered
// bottom to top: the seeded free variables come first, binders pushed while
// descending into abstractions come last. De Bruijn index 0 resolves to the
// top entry.
//
// A Context is owned by one traversal; use [Context.Clone] before handing it
// to another.
type Context struct {
	entries []Binding
}

// NewContext returns a context seeded with the given free-variable names, in
// placement order. The last name resolves to index 0 at depth zero.
func NewContext(free ...string) *Context {
	c := &Context{entries: make([]Binding, 0, len(free))}
	for _, name := range free {
		c.entries = append(c.entries, Binding{ID: name, Label: name, Free: true})
	}
	return c
}

// Push adds a binder on top of the context.
func (c *Context) Push(b Binding) {
	c.entries = append(c.entries, b)
}

// Pop removes and returns the top binder. Pop on an empty context returns the
// zero Binding.
func (c *Context) Pop() Binding {
	if len(c.entries) == 0 {
		return Binding{}
	}
	b := c.entries[len(c.entries)-1]
	c.entries = c.entries[:len(c.entries)-1]
	return b
}

// Len returns the number of entries.
func (c *Context) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// Lookup resolves a de Bruijn index against the context. Position is the
// entry's offset from the bottom, which for free entries is also their
// placement rank.
func (c *Context) Lookup(index int) (b Binding, position int, ok bool) {
	if c == nil || index < 0 || index >= len(c.entries) {
		return Binding{}, -1, false
	}
	position = len(c.entries) - 1 - index
	return c.entries[position], position, true
}

// At returns the entry at position (offset from the bottom).
func (c *Context) At(position int) Binding {
	return c.entries[position]
}

// Free returns the seeded free-variable entries in placement order.
func (c *Context) Free() []Binding {
	if c == nil {
		return nil
	}
	var out []Binding
	for _, b := range c.entries {
		if b.Free {
			out = append(out, b)
		}
	}
	return out
}

// Entries returns a copy of the entries, bottom first.
func (c *Context) Entries() []Binding {
	if c == nil {
		return nil
	}
	return append([]Binding(nil), c.entries...)
}

// Clone returns an independent copy of the context.
func (c *Context) Clone() *Context {
	return &Context{entries: c.Entries()}
}

// Fresh returns label, primed until it no longer collides with any label in
// the context. An empty label defaults to "x".
func (c *Context) Fresh(label string) string {
	if label == "" {
		label = "x"
	}
	for c.hasLabel(label) {
		label += "'"
	}
	return label
}

func (c *Context) hasLabel(label string) bool {
	if c == nil {
		return false
	}
	for _, b := range c.entries {
		if b.Label == label {
			return true
		}
	}
	return false
}

// String renders the context as a bracketed list of labels, bottom first.
func (c *Context) String() string {
	labels := make([]string, 0, c.Len())
	for _, b := range c.Entries() {
		labels = append(labels, b.Label)
	}
	return "[" + strings.Join(labels, ", ") + "]"
}
