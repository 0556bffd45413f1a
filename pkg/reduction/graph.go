package reduction

import (
	"errors"

	"github.com/matzehuels/termmap/pkg/lambda"
	"github.com/matzehuels/termmap/pkg/termmap"
)

// ErrBudgetExhausted is wrapped by the RESOURCE_EXHAUSTED errors [Build]
// returns when exploration hits a budget or is cancelled.
var ErrBudgetExhausted = errors.New("reduction budget exhausted")

// EdgeSeparator joins the parts of an edge id: source, descriptor, target.
const EdgeSeparator = "-b->"

// Vertex is one distinct term reachable from the root.
type Vertex struct {
	Key      string // Structural identity, see [lambda.Key]
	Term     lambda.Term
	Label    string // Term printed with the graph's context
	Level    int    // Reduction steps from the root along a shortest path
	Redexes  int    // Number of redexes in Term
	Expanded bool   // Successors have been enumerated
	Position termmap.Point
}

// Normal reports whether the vertex term is in normal form.
func (v *Vertex) Normal() bool { return v.Redexes == 0 }

// Edge is one beta step between two vertices.
type Edge struct {
	ID     string // source + "-b->" + descriptor + "-b->" + target
	Source string // Source vertex key
	Target string // Target vertex key
	Redex  string // Descriptor of the contracted redex, e.g. "@LR"
	Label  string // Contracted redex printed with names
}

type edgeKey struct{ source, redex, target string }

// Graph is a reduction graph: one vertex per distinct term, one edge per
// distinct (source, redex, target) triple. Vertices and edges are kept in
// discovery order.
type Graph struct {
	Root      string
	Context   *lambda.Context
	Vertices  []*Vertex
	Edges     []Edge
	Truncated bool // Exploration stopped at a budget

	index map[string]int
	out   map[string][]int
	edges map[edgeKey]struct{}
}

func newGraph(ctx *lambda.Context) *Graph {
	return &Graph{
		Context: ctx.Clone(),
		index:   make(map[string]int),
		out:     make(map[string][]int),
		edges:   make(map[edgeKey]struct{}),
	}
}

// Vertex returns the vertex with the given key.
func (g *Graph) Vertex(key string) (*Vertex, bool) {
	i, ok := g.index[key]
	if !ok {
		return nil, false
	}
	return g.Vertices[i], true
}

// RootVertex returns the level-0 vertex.
func (g *Graph) RootVertex() *Vertex {
	v, _ := g.Vertex(g.Root)
	return v
}

// Out returns the edges leaving key in discovery order.
func (g *Graph) Out(key string) []Edge {
	idx := g.out[key]
	out := make([]Edge, len(idx))
	for i, e := range idx {
		out[i] = g.Edges[e]
	}
	return out
}

// Sinks returns the expanded vertices without outgoing edges. Vertices left
// unexpanded by a budget are never sinks.
func (g *Graph) Sinks() []*Vertex {
	var out []*Vertex
	for _, v := range g.Vertices {
		if v.Expanded && len(g.out[v.Key]) == 0 {
			out = append(out, v)
		}
	}
	return out
}

// HighestLevel returns the largest vertex level.
func (g *Graph) HighestLevel() int {
	h := 0
	for _, v := range g.Vertices {
		h = max(h, v.Level)
	}
	return h
}

// Levels groups vertices by level, each level in discovery order.
func (g *Graph) Levels() [][]*Vertex {
	levels := make([][]*Vertex, g.HighestLevel()+1)
	for _, v := range g.Vertices {
		levels[v.Level] = append(levels[v.Level], v)
	}
	return levels
}

func (g *Graph) addVertex(t lambda.Term, level int) *Vertex {
	v := &Vertex{
		Key:     lambda.Key(t),
		Term:    t,
		Label:   lambda.Print(t, g.Context),
		Level:   level,
		Redexes: len(lambda.Redexes(t)),
	}
	g.index[v.Key] = len(g.Vertices)
	g.Vertices = append(g.Vertices, v)
	if level == 0 {
		g.Root = v.Key
	}
	return v
}

// addEdge adds the edge unless an identical triple exists. It reports
// whether the edge was added.
func (g *Graph) addEdge(e Edge) bool {
	k := edgeKey{e.Source, e.Redex, e.Target}
	if _, ok := g.edges[k]; ok {
		return false
	}
	g.edges[k] = struct{}{}
	e.ID = e.Source + EdgeSeparator + e.Redex + EdgeSeparator + e.Target
	g.out[e.Source] = append(g.out[e.Source], len(g.Edges))
	g.Edges = append(g.Edges, e)
	return true
}
