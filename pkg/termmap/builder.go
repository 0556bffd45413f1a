package termmap

import (
	"slices"
	"strings"

	terrors "github.com/matzehuels/termmap/pkg/errors"
	"github.com/matzehuels/termmap/pkg/lambda"
)

const lambdaSign = "λ"

type side int

const (
	sideRoot side = iota
	sideLeft
	sideRight
)

// binder is the visual channel of a bound or free variable: the support
// nodes routing it from its abstraction to the top of the map.
type binder struct {
	node  string
	right string
	top   string
	chain []string // right support, its midpoint and edges, edge to top
	free  bool
}

// mark defers tagging a binder's channel with the classes of the redexes
// an occurrence sits in.
type mark struct {
	binder  *binder
	classes []string
}

type midpoint struct{ id, a, b string }

type builder struct {
	opts Options
	ctx  *lambda.Context
	base int // Context entries supplied by the caller; all are free

	nodes     []Node
	edges     []Edge
	nodeIndex map[string]int
	edgeIndex map[string]int
	nodeIDs   *IDSet
	edgeIDs   *IDSet

	tracker   *Tracker
	binders   map[string]*binder // Bound binders by context binding id
	anchors   map[int]*binder    // Free anchors by context position
	midpoints []midpoint
	marks     []mark
}

// Build compiles t into a positioned term map. Variables beyond the binder
// depth resolve against ctx, whose entries are all treated as free
// variables; ctx may be nil for closed terms and is never modified.
//
// Build is deterministic: the same term and context always produce the same
// ids, positions and redex records.
func Build(t lambda.Term, ctx *lambda.Context, opts Options) (*Map, error) {
	if t == nil {
		return nil, ErrNilTerm
	}
	opts.SetDefaults()

	b := &builder{
		opts:      opts,
		ctx:       ctx.Clone(),
		base:      ctx.Len(),
		nodeIndex: make(map[string]int),
		edgeIndex: make(map[string]int),
		nodeIDs:   NewIDSet(),
		edgeIDs:   NewIDSet(),
		tracker:   NewTracker(),
		binders:   make(map[string]*binder),
		anchors:   make(map[int]*binder),
	}

	root := b.addNode(Node{ID: b.nodeIDs.Allocate(RootID), Kind: KindRoot}, nil)
	if err := b.generate(t, root, Point{}, sideRoot, nil, -1, ""); err != nil {
		return nil, err
	}
	b.finish()
	return b.result(t, ctx), nil
}

// generate lays out t below parent. open lists the redexes enclosing t,
// outermost first; redexOf is the redex whose function t is, or -1.
func (b *builder) generate(t lambda.Term, parent string, at Point, s side, open []int, redexOf int, path lambda.Path) error {
	pos := b.childPosition(at, s)
	classes := b.tracker.ClassesFor(open)

	var (
		nodeID    string
		edgeID    string
		edgeLabel string
		midLabel  string
		kind      EdgeKind
	)

	switch t := t.(type) {
	case lambda.Abs:
		label := b.ctx.Fresh(t.Label)
		nodeID = b.nodeIDs.Allocate(lambdaSign + label)
		if redexOf >= 0 {
			b.tracker.SetAbstraction(redexOf, nodeID)
		}
		nodeLabel := lambdaSign + label + "."
		binding := lambda.Binding{ID: strings.TrimPrefix(nodeID, lambdaSign), Label: label}
		b.ctx.Push(binding)

		b.addNode(Node{ID: nodeID, Kind: KindAbstraction, Position: pos, Label: nodeLabel, Classes: classes, Path: path}, open)

		body := lambda.Print(t.Body, b.ctx)
		edgeID = b.edgeIDs.Allocate(nodeID + " " + body)
		kind = AbstractionEdge
		edgeLabel = nodeLabel + " " + body
		midLabel = edgeLabel

		b.binders[binding.ID] = b.addSupports(nodeID, pos, classes, open, path, false)

		start := len(b.nodes)
		if err := b.generate(t.Body, nodeID, pos, sideLeft, open, -1, path.Child(lambda.StepBody)); err != nil {
			return err
		}
		b.ctx.Pop()
		b.keepLeft(start, len(b.nodes), pos.X)

	case lambda.App:
		r := -1
		inner := open
		if lambda.IsRedex(t) {
			r = b.tracker.Open()
			inner = append(slices.Clone(open), r)
		}
		innerClasses := b.tracker.ClassesFor(inner)

		nodeID = b.nodeIDs.Allocate("[" + lambda.Print(t.Left, b.ctx) + " @ " + lambda.Print(t.Right, b.ctx) + "]")
		b.addNode(Node{ID: nodeID, Kind: KindApplication, Position: pos, Classes: innerClasses, Path: path}, inner)
		if r >= 0 {
			b.tracker.SetApplication(r, nodeID)
		}

		edgeID = b.edgeIDs.Allocate("(" + nodeID + ")")
		kind = ApplicationEdge
		midLabel = lambda.Print(t, b.ctx)

		lhs := len(b.nodes)
		if err := b.generate(t.Left, nodeID, pos, sideLeft, inner, r, path.Child(lambda.StepLeft)); err != nil {
			return err
		}
		rhs := len(b.nodes)
		if err := b.generate(t.Right, nodeID, pos, sideRight, inner, -1, path.Child(lambda.StepRight)); err != nil {
			return err
		}
		b.keepLeft(lhs, rhs, pos.X)
		b.keepRight(rhs, len(b.nodes), pos.X)

	case lambda.Var:
		binding, position, ok := b.ctx.Lookup(t.Index)
		if !ok {
			return terrors.Wrap(terrors.ErrCodeUnresolvedVariable, ErrUnresolvedVariable,
				"index %d at %s exceeds the %d names in scope", t.Index, path.Descriptor(), b.ctx.Len())
		}
		varID := binding.ID

		nodeID = b.nodeIDs.Allocate(varID + "_variable_node")
		b.addNode(Node{ID: nodeID, Kind: KindVariableSupport, Position: pos, Classes: classes, Path: path, Occurrence: true}, open)

		edgeID = b.edgeIDs.Allocate(varID + " in " + parent + "_edge_from_parent_to_variable")
		kind = VariableEdge

		top := b.addNode(Node{
			ID:       b.nodeIDs.Allocate(varID + "_variable_node_top"),
			Kind:     KindVariableTop,
			Position: Point{X: pos.X, Y: pos.Y - b.opts.DistanceY},
			Classes:  classes,
			Path:     path,
		}, open)
		b.addEdge(Edge{
			ID:      b.edgeIDs.Allocate(varID + " in " + parent + "_edge_from_top_to_variable"),
			Kind:    VariableEdge,
			Source:  top,
			Target:  nodeID,
			Classes: classes,
		}, open)

		var bd *binder
		if position < b.base {
			bd = b.anchor(position, binding)
		} else {
			bd = b.binders[binding.ID]
		}
		b.addEdge(Edge{
			ID:      b.edgeIDs.Allocate(varID + " in " + parent + "_curved_edge_from_abstraction_to_variable"),
			Kind:    VariableLabelEdge,
			Source:  bd.top,
			Target:  top,
			Label:   binding.Label,
			Classes: classes,
		}, open)

		if len(open) > 0 {
			b.marks = append(b.marks, mark{binder: bd, classes: classes})
		}

	default:
		return terrors.New(terrors.ErrCodeInvalidTerm, "unknown term variant %T at %s", t, path.Descriptor())
	}

	if redexOf >= 0 {
		b.tracker.SetEdge(redexOf, edgeID)
	}

	// Split the edge to the parent with a midpoint placed once layout is done.
	mid := b.addNode(Node{
		ID:      b.nodeIDs.Allocate(nodeID + "_midpoint_" + parent),
		Kind:    KindMidpoint,
		Carries: kind,
		Label:   midLabel,
		Classes: classes,
		Path:    path,
	}, open)
	b.addEdge(Edge{
		ID:      b.edgeIDs.Allocate(edgeID + "_midpoint"),
		Kind:    kind,
		Source:  nodeID,
		Target:  mid,
		Classes: classes,
		NoArrow: true,
	}, open)
	b.addEdge(Edge{ID: edgeID, Kind: kind, Source: mid, Target: parent, Label: edgeLabel, Classes: classes}, open)
	b.midpoints = append(b.midpoints, midpoint{id: mid, a: nodeID, b: parent})
	return nil
}

func (b *builder) childPosition(at Point, s side) Point {
	p := Point{X: at.X, Y: at.Y - b.opts.DistanceY}
	switch s {
	case sideLeft:
		p.X -= b.opts.DistanceX
	case sideRight:
		p.X += b.opts.DistanceX
	}
	return p
}

// addSupports creates the right and top support nodes of an abstraction.
// Free anchors have no midpoint; their positions are assigned in finish.
func (b *builder) addSupports(owner string, pos Point, classes []string, open []int, path lambda.Path, free bool) *binder {
	dx, dy := b.opts.DistanceX, b.opts.DistanceY
	bd := &binder{node: owner, free: free}

	bd.right = b.addNode(Node{
		ID:       b.nodeIDs.Allocate(owner + "._abstraction_node_right"),
		Kind:     KindVariableSupport,
		Position: Point{X: pos.X + dx, Y: pos.Y - dy},
		Classes:  classes,
		Path:     path,
		Free:     free,
	}, open)

	if free {
		e := b.addEdge(Edge{
			ID:     b.edgeIDs.Allocate(owner + "._node_from_abstraction_to_right"),
			Kind:   VariableEdge,
			Source: owner,
			Target: bd.right,
		}, open)
		bd.chain = append(bd.chain, bd.right, e)
	} else {
		mid := b.addNode(Node{
			ID:      b.nodeIDs.Allocate(owner + "_midpoint_" + bd.right),
			Kind:    KindMidpoint,
			Carries: AbstractionEdge,
			Classes: classes,
			Path:    path,
		}, open)
		toMid := b.addEdge(Edge{
			ID:      b.edgeIDs.Allocate(owner + "._node_from_abstraction_to_right"),
			Kind:    VariableEdge,
			Source:  owner,
			Target:  mid,
			Classes: classes,
			NoArrow: true,
		}, open)
		fromMid := b.addEdge(Edge{
			ID:      b.edgeIDs.Allocate(owner + "._node_from_abstraction_to_right_midpoint"),
			Kind:    VariableEdge,
			Source:  mid,
			Target:  bd.right,
			Classes: classes,
		}, open)
		b.midpoints = append(b.midpoints, midpoint{id: mid, a: owner, b: bd.right})
		bd.chain = append(bd.chain, bd.right, fromMid, mid, toMid)
	}

	bd.top = b.addNode(Node{
		ID:       b.nodeIDs.Allocate(owner + "._abstraction_node_top"),
		Kind:     KindVariableTop,
		Position: Point{X: pos.X + dx, Y: pos.Y - 2*dy},
		Classes:  classes,
		Path:     path,
		Free:     free,
	}, open)
	toTop := b.addEdge(Edge{
		ID:      b.edgeIDs.Allocate(owner + "._edge_from_abstraction_to_top"),
		Kind:    VariableEdge,
		Source:  bd.right,
		Target:  bd.top,
		Classes: classes,
	}, open)
	bd.chain = append(bd.chain, toTop)
	return bd
}

// anchor returns the free-variable anchor for a context position, creating
// it on first use.
func (b *builder) anchor(position int, binding lambda.Binding) *binder {
	if bd, ok := b.anchors[position]; ok {
		return bd
	}
	id := b.addNode(Node{
		ID:    b.nodeIDs.Allocate(lambdaSign + binding.Label),
		Kind:  KindFreeAbstraction,
		Label: lambdaSign + binding.Label + ".",
		Free:  true,
	}, nil)
	bd := b.addSupports(id, Point{}, nil, nil, "", true)
	b.anchors[position] = bd
	return bd
}

func (b *builder) addNode(n Node, open []int) string {
	n.Classes = slices.Clone(n.Classes)
	b.nodeIndex[n.ID] = len(b.nodes)
	b.nodes = append(b.nodes, n)
	b.tracker.Record(open, n.ID)
	return n.ID
}

func (b *builder) addEdge(e Edge, open []int) string {
	e.Classes = slices.Clone(e.Classes)
	b.edgeIndex[e.ID] = len(b.edges)
	b.edges = append(b.edges, e)
	b.tracker.Record(open, e.ID)
	return e.ID
}
