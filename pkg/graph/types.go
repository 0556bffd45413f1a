package graph

import (
	"strings"

	"github.com/matzehuels/termmap/pkg/lambda"
	"github.com/matzehuels/termmap/pkg/reduction"
)

// =============================================================================
// Constants
// =============================================================================

// Document kinds.
const (
	KindMap       = "map"
	KindReduction = "reduction"
)

// Element groups.
const (
	GroupNodes = "nodes"
	GroupEdges = "edges"
)

// Wire types of reduction graph elements.
const (
	TypeVertex       = "term-node"
	TypeNormalVertex = "normal-node"
	TypeStep         = "beta-edge"
)

// =============================================================================
// Layout - Rendering Document
// =============================================================================

// Layout is the document handed to the rendering collaborator: a flat list of
// positioned elements plus the data needed to highlight and describe them.
//
// Kind selects which optional fields are populated:
//
//	Map ("map"):
//	  - Redexes: highlightable redexes with their element ids
//	  - MapStats: term measurements
//
//	Reduction ("reduction"):
//	  - ReductionStats: path statistics and sizes
//	  - Truncated: exploration stopped at a budget
type Layout struct {
	Kind     string    `json:"kind" bson:"kind"`
	Term     string    `json:"term" bson:"term"`
	Context  []string  `json:"context,omitempty" bson:"context,omitempty"`
	Width    float64   `json:"width" bson:"width"`
	Elements []Element `json:"elements" bson:"elements"`

	Redexes  []Redex       `json:"redexes,omitempty" bson:"redexes,omitempty"`
	MapStats *lambda.Stats `json:"map_stats,omitempty" bson:"map_stats,omitempty"`

	ReductionStats *reduction.Stats `json:"reduction_stats,omitempty" bson:"reduction_stats,omitempty"`
	Truncated      bool             `json:"truncated,omitempty" bson:"truncated,omitempty"`
}

// Nodes returns the node elements in document order.
func (l *Layout) Nodes() []Element { return l.group(GroupNodes) }

// Edges returns the edge elements in document order.
func (l *Layout) Edges() []Element { return l.group(GroupEdges) }

func (l *Layout) group(g string) []Element {
	var out []Element
	for _, e := range l.Elements {
		if e.Group == g {
			out = append(out, e)
		}
	}
	return out
}

// Element returns the element with the given id.
func (l *Layout) Element(id string) (Element, bool) {
	for _, e := range l.Elements {
		if e.Data.ID == id {
			return e, true
		}
	}
	return Element{}, false
}

// ElementsOf returns the element ids of redex id, so a Layout read back from
// disk can drive a highlight queue.
func (l *Layout) ElementsOf(id string) []string {
	for _, r := range l.Redexes {
		if r.ID == id {
			return r.Elements
		}
	}
	return nil
}

// =============================================================================
// Element
// =============================================================================

// Element is one node or edge.
type Element struct {
	Group    string    `json:"group" bson:"group"`
	Data     Data      `json:"data" bson:"data"`
	Position *Position `json:"position,omitempty" bson:"position,omitempty"`
	Classes  string    `json:"classes,omitempty" bson:"classes,omitempty"` // Space separated
}

// IsNode reports whether the element is a node.
func (e Element) IsNode() bool { return e.Group == GroupNodes }

// HasClass reports whether class is among the element classes.
func (e Element) HasClass(class string) bool {
	for _, c := range strings.Fields(e.Classes) {
		if c == class {
			return true
		}
	}
	return false
}

// Data holds the element attributes. Source and Target are set on edges
// only; Level and Term on reduction vertices only.
type Data struct {
	ID      string `json:"id" bson:"id"`
	Type    string `json:"type" bson:"type"`
	Label   string `json:"label,omitempty" bson:"label,omitempty"`
	Source  string `json:"source,omitempty" bson:"source,omitempty"`
	Target  string `json:"target,omitempty" bson:"target,omitempty"`
	Level   *int   `json:"level,omitempty" bson:"level,omitempty"`
	Term    string `json:"term,omitempty" bson:"term,omitempty"`
	Redex   string `json:"redex,omitempty" bson:"redex,omitempty"`
	Free    bool   `json:"free,omitempty" bson:"free,omitempty"`
	NoArrow bool   `json:"no_arrow,omitempty" bson:"no_arrow,omitempty"`
}

// Position is an element position in document coordinates.
type Position struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Redex describes one highlightable redex of a map document.
type Redex struct {
	ID          string   `json:"id" bson:"id"`
	Label       string   `json:"label,omitempty" bson:"label,omitempty"`
	Application string   `json:"application" bson:"application"`
	Abstraction string   `json:"abstraction,omitempty" bson:"abstraction,omitempty"`
	Elements    []string `json:"elements" bson:"elements"`
}
