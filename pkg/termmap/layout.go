package termmap

import (
	"cmp"
	"math"
	"slices"
	"strconv"
	"strings"
)

// movable reports whether a node takes part in extent measurement and
// shifting. Midpoints are placed after layout and anchors are placed to the
// right of the finished map.
func movable(n Node) bool {
	return n.IsTerm() && !n.IsAuxiliary()
}

// extent returns the horizontal range of the movable nodes in nodes[from:to].
func (b *builder) extent(from, to int) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for i := from; i < to; i++ {
		if !movable(b.nodes[i]) {
			continue
		}
		x := b.nodes[i].Position.X
		lo, hi, ok = min(lo, x), max(hi, x), true
	}
	return lo, hi, ok
}

func (b *builder) shift(from, to int, dx float64) {
	for i := from; i < to; i++ {
		if movable(b.nodes[i]) {
			b.nodes[i].Position.X += dx
		}
	}
}

// keepLeft moves the subtree in nodes[from:to] so that it lies strictly left
// of x.
func (b *builder) keepLeft(from, to int, x float64) {
	if _, hi, ok := b.extent(from, to); ok && hi >= x {
		b.shift(from, to, -(hi-x)-b.opts.DistanceX)
	}
}

// keepRight moves the subtree in nodes[from:to] so that it lies strictly
// right of x.
func (b *builder) keepRight(from, to int, x float64) {
	if lo, _, ok := b.extent(from, to); ok && lo <= x {
		b.shift(from, to, (x-lo)+b.opts.DistanceX)
	}
}

// finish places free anchors, aligns top nodes, propagates redex classes to
// binder channels and positions midpoints.
func (b *builder) finish() {
	dx, dy := b.opts.DistanceX, b.opts.DistanceY

	highest, rightmost := 0.0, 0.0
	for _, n := range b.nodes {
		if n.Free {
			continue
		}
		highest = min(highest, n.Position.Y)
		if !n.IsAuxiliary() {
			rightmost = max(rightmost, n.Position.X)
		}
	}

	// Anchors are placed right of the map in context order, the first entry
	// farthest out.
	positions := make([]int, 0, len(b.anchors))
	for p := range b.anchors {
		positions = append(positions, p)
	}
	slices.Sort(positions)
	for j, p := range positions {
		bd := b.anchors[p]
		x := rightmost + float64(len(positions)-j)*2*dx - dx
		b.node(bd.node).Position = Point{X: x, Y: 0}
		b.node(bd.right).Position = Point{X: x + dx, Y: -dy}
		b.node(bd.top).Position.X = x + dx
	}

	for i := range b.nodes {
		if b.nodes[i].Kind == KindVariableTop {
			b.nodes[i].Position.Y = highest - dy/2
		}
	}

	for _, m := range b.marks {
		b.tag(m.binder.top, m.classes)
		if m.binder.free {
			continue
		}
		for _, id := range m.binder.chain {
			b.tag(id, m.classes)
		}
	}

	for _, mp := range b.midpoints {
		a, c := b.node(mp.a).Position, b.node(mp.b).Position
		b.node(mp.id).Position = Point{X: (a.X + c.X) / 2, Y: (a.Y + c.Y) / 2}
	}
}

func (b *builder) node(id string) *Node {
	return &b.nodes[b.nodeIndex[id]]
}

// tag adds classes to the node or edge with the given id and records it
// against the corresponding redexes.
func (b *builder) tag(id string, classes []string) {
	var target *[]string
	if i, ok := b.nodeIndex[id]; ok {
		target = &b.nodes[i].Classes
	} else if i, ok := b.edgeIndex[id]; ok {
		target = &b.edges[i].Classes
	} else {
		return
	}
	for _, c := range classes {
		if !hasClass(*target, c) {
			*target = append(*target, c)
		}
		b.tracker.RecordClass(c, id)
	}
	slices.SortFunc(*target, compareClasses)
}

// compareClasses orders redex classes by discovery index.
func compareClasses(a, c string) int {
	ai, aerr := strconv.Atoi(strings.TrimPrefix(a, ClassPrefix))
	ci, cerr := strconv.Atoi(strings.TrimPrefix(c, ClassPrefix))
	if aerr != nil || cerr != nil {
		return strings.Compare(a, c)
	}
	return cmp.Compare(ai, ci)
}
