package termmap

import (
	"errors"

	"github.com/matzehuels/termmap/pkg/lambda"
)

var (
	// ErrUnresolvedVariable is returned by [Build] when a variable index
	// resolves to neither an enclosing binder nor a context entry. No partial
	// map is returned.
	ErrUnresolvedVariable = errors.New("unresolved variable")

	// ErrNilTerm is returned by [Build] when the term is nil.
	ErrNilTerm = errors.New("nil term")
)

// Default spacing between adjacent nodes in map coordinates.
const (
	DefaultDistanceX = 30
	DefaultDistanceY = 30
)

// RootID is the candidate id of the root node every map hangs from.
const RootID = ">"

// Prime is the marker appended to a candidate id until it is unique.
const Prime = "'"

// NodeKind is the closed set of node kinds in a term map.
type NodeKind int

const (
	// KindAbstraction is the node of a λ binder.
	KindAbstraction NodeKind = iota
	// KindFreeAbstraction is the anchor a free variable hangs from.
	KindFreeAbstraction
	// KindApplication is the node of an application.
	KindApplication
	// KindVariableSupport routes a variable channel away from its parent.
	KindVariableSupport
	// KindVariableTop is where a variable channel reaches the top of the map.
	KindVariableTop
	// KindMidpoint sits halfway along a parent/child edge. Midpoints are
	// auxiliary: they never take part in extent measurement or shifting.
	KindMidpoint
	// KindRoot is the single node the whole term hangs from.
	KindRoot
)

// String returns the wire type name of the kind.
func (k NodeKind) String() string {
	switch k {
	case KindAbstraction:
		return "abs-node"
	case KindFreeAbstraction:
		return "abs-node-free"
	case KindApplication:
		return "app-node"
	case KindVariableSupport:
		return "var-node"
	case KindVariableTop:
		return "var-node-top"
	case KindMidpoint:
		return "midpoint"
	case KindRoot:
		return "root-node"
	default:
		return "unknown"
	}
}

// EdgeKind is the closed set of edge kinds in a term map.
type EdgeKind int

const (
	// AbstractionEdge carries an abstraction to its parent.
	AbstractionEdge EdgeKind = iota
	// ApplicationEdge carries an application to its parent.
	ApplicationEdge
	// VariableEdge carries a variable channel.
	VariableEdge
	// VariableLabelEdge is the curved edge from a binder's top node to an
	// occurrence's top node, labelled with the variable name.
	VariableLabelEdge
)

// String returns the wire type name of the kind.
func (k EdgeKind) String() string {
	switch k {
	case AbstractionEdge:
		return "abs-edge"
	case ApplicationEdge:
		return "app-edge"
	case VariableEdge:
		return "var-edge"
	case VariableLabelEdge:
		return "var-label-edge"
	default:
		return "unknown"
	}
}

// midpointType names a midpoint after the edge it splits.
func midpointType(k EdgeKind) string {
	switch k {
	case AbstractionEdge:
		return "abs-midpoint"
	case ApplicationEdge:
		return "app-midpoint"
	default:
		return "var-midpoint"
	}
}

// Point is a position in map coordinates. Y decreases upward: deeper
// subterms have smaller y.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is a positioned vertex of a term map.
type Node struct {
	ID       string
	Kind     NodeKind
	Position Point
	Label    string
	Classes  []string // Redex classes ("beta-N"), in discovery order

	// Path locates the subterm that produced the node. It is meaningful only
	// for term nodes: the root node and free-variable anchors have none.
	Path lambda.Path
	// Carries is the channel a midpoint sits on. The midpoint between an
	// abstraction and its right support carries the abstraction.
	Carries EdgeKind
	// Free marks the nodes of a free-variable anchor.
	Free bool
	// Occurrence marks the node of a variable occurrence.
	Occurrence bool
}

// Type returns the wire type name of the node, distinguishing midpoints by
// the edge they split.
func (n Node) Type() string {
	if n.Kind == KindMidpoint {
		return midpointType(n.Carries)
	}
	return n.Kind.String()
}

// IsAuxiliary reports whether the node is a midpoint.
func (n Node) IsAuxiliary() bool { return n.Kind == KindMidpoint }

// IsTerm reports whether the node belongs to the layout of a subterm, as
// opposed to the root node or a free-variable anchor.
func (n Node) IsTerm() bool { return n.Kind != KindRoot && !n.Free }

// HasClass reports whether the node is tagged with class.
func (n Node) HasClass(class string) bool { return hasClass(n.Classes, class) }

// Edge is a typed connection between two nodes. Edges point from child to
// parent.
type Edge struct {
	ID      string
	Kind    EdgeKind
	Source  string
	Target  string
	Label   string
	Classes []string

	// NoArrow marks the child-to-midpoint half of a split edge, which the
	// rendering collaborator draws without an arrow head.
	NoArrow bool
}

// HasClass reports whether the edge is tagged with class.
func (e Edge) HasClass(class string) bool { return hasClass(e.Classes, class) }

func hasClass(classes []string, class string) bool {
	for _, c := range classes {
		if c == class {
			return true
		}
	}
	return false
}

// Options configures map generation. The zero value selects the defaults.
type Options struct {
	// DistanceX is the horizontal unit between a node and its children.
	DistanceX float64
	// DistanceY is the vertical unit between a node and its children.
	DistanceY float64
}

// SetDefaults fills in zero-valued fields.
func (o *Options) SetDefaults() {
	if o.DistanceX <= 0 {
		o.DistanceX = DefaultDistanceX
	}
	if o.DistanceY <= 0 {
		o.DistanceY = DefaultDistanceY
	}
}
