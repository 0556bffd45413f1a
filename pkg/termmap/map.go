package termmap

import (
	"math"

	"github.com/matzehuels/termmap/pkg/lambda"
)

// Map is a finished term map: positioned nodes and edges in creation order
// plus the redexes found while building it. A Map is not modified after
// [Build] returns and is safe for concurrent reads.
type Map struct {
	Term    lambda.Term
	Context *lambda.Context
	Nodes   []Node
	Edges   []Edge
	Redexes []Redex
	Width   float64 // Horizontal extent of the non-auxiliary nodes

	nodeIndex map[string]int
	edgeIndex map[string]int
	redexes   map[string]int
}

func (b *builder) result(t lambda.Term, ctx *lambda.Context) *Map {
	m := &Map{
		Term:      t,
		Context:   ctx.Clone(),
		Nodes:     b.nodes,
		Edges:     b.edges,
		Redexes:   b.tracker.Redexes(),
		nodeIndex: b.nodeIndex,
		edgeIndex: b.edgeIndex,
		redexes:   make(map[string]int, b.tracker.Len()),
	}
	for i, r := range m.Redexes {
		m.redexes[r.ID] = i
	}
	lo, hi, _, _ := m.Bounds()
	m.Width = hi - lo
	return m
}

// Node returns the node with the given id.
func (m *Map) Node(id string) (Node, bool) {
	i, ok := m.nodeIndex[id]
	if !ok {
		return Node{}, false
	}
	return m.Nodes[i], true
}

// Edge returns the edge with the given id.
func (m *Map) Edge(id string) (Edge, bool) {
	i, ok := m.edgeIndex[id]
	if !ok {
		return Edge{}, false
	}
	return m.Edges[i], true
}

// Redex returns the redex with the given class id ("beta-N").
func (m *Map) Redex(id string) (Redex, bool) {
	i, ok := m.redexes[id]
	if !ok {
		return Redex{}, false
	}
	return m.Redexes[i], true
}

// ElementsOf returns the node and edge ids highlighted together with the
// redex id, or nil when the map has no such redex.
func (m *Map) ElementsOf(id string) []string {
	r, ok := m.Redex(id)
	if !ok {
		return nil
	}
	return r.Elements
}

// NodesOfKind returns the nodes of one kind in creation order.
func (m *Map) NodesOfKind(kind NodeKind) []Node {
	var out []Node
	for _, n := range m.Nodes {
		if n.Kind == kind {
			out = append(out, n)
		}
	}
	return out
}

// Occurrences returns the variable occurrence nodes in creation order.
func (m *Map) Occurrences() []Node {
	var out []Node
	for _, n := range m.Nodes {
		if n.Occurrence {
			out = append(out, n)
		}
	}
	return out
}

// Bounds returns the bounding box of the non-auxiliary nodes.
func (m *Map) Bounds() (minX, maxX, minY, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, n := range m.Nodes {
		if n.IsAuxiliary() {
			continue
		}
		minX, maxX = min(minX, n.Position.X), max(maxX, n.Position.X)
		minY, maxY = min(minY, n.Position.Y), max(maxY, n.Position.Y)
	}
	return minX, maxX, minY, maxY
}

// Stats returns the structural counts of the mapped term.
func (m *Map) Stats() lambda.Stats {
	return lambda.Measure(m.Term)
}
