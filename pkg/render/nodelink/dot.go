package nodelink

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/termmap/pkg/graph"
	"github.com/matzehuels/termmap/pkg/highlight"
)

// Graphviz layout engines.
const (
	// EngineNeato honours the pinned positions of a term map.
	EngineNeato = "neato"
	// EngineDot ranks reduction graphs by level.
	EngineDot = "dot"
)

// Options configures DOT generation.
type Options struct {
	// Scale converts document units to inches. 0 selects 1/30, so one
	// default layout step is one inch.
	Scale float64

	// Highlight colours the elements of these redexes, cycling through
	// the highlight palette in order.
	Highlight []string

	// Detailed labels reduction vertices with their level and edges with
	// the contracted redex.
	Detailed bool
}

func (o Options) scale() float64 {
	if o.Scale <= 0 {
		return 1.0 / 30
	}
	return o.Scale
}

// Colours of the highlight palette in Graphviz names.
var paletteDOT = map[highlight.Colour]string{
	highlight.Red:    "red",
	highlight.Blue:   "blue",
	highlight.Green:  "forestgreen",
	highlight.Orange: "orange",
	highlight.Violet: "violet",
}

// MapToDOT converts a map document to DOT for the neato engine. Every node
// is pinned at its document position; y is flipped since Graphviz grows
// upward. Midpoints are drawn as points so split edges read as one line.
func MapToDOT(l graph.Layout, opts Options) string {
	colours := highlightColours(l, opts.Highlight)
	s := opts.scale()

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  splines=true;\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=10, width=0.3, fixedsize=true];\n")
	buf.WriteString("  edge [arrowsize=0.5];\n")
	buf.WriteString("\n")

	for _, e := range l.Nodes() {
		attrs := []string{fmt.Sprintf("label=%q", nodeLabel(e))}
		if e.Position != nil {
			attrs = append(attrs, fmt.Sprintf("pos=\"%.3f,%.3f!\"", e.Position.X*s, -e.Position.Y*s))
		}
		attrs = append(attrs, nodeShape(e.Data.Type)...)
		if c, ok := colours[e.Data.ID]; ok {
			attrs = append(attrs, fmt.Sprintf("color=%s", c), "penwidth=2")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", e.Data.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range l.Edges() {
		var attrs []string
		if e.Data.Label != "" {
			attrs = append(attrs, fmt.Sprintf("label=%q", e.Data.Label), "fontsize=9")
		}
		if e.Data.NoArrow {
			attrs = append(attrs, "arrowhead=none")
		}
		switch e.Data.Type {
		case "var-label-edge":
			attrs = append(attrs, "style=dashed", "constraint=false")
		case "var-edge":
			attrs = append(attrs, "color=grey40")
		}
		if c, ok := colours[e.Data.ID]; ok {
			attrs = append(attrs, fmt.Sprintf("color=%s", c), "penwidth=2")
		}
		fmt.Fprintf(&buf, "  %q -> %q%s;\n", e.Data.Source, e.Data.Target, fmtAttrs(attrs))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// ReductionToDOT converts a reduction document to DOT for the dot engine.
// Vertices of one level share a rank; normal forms are drawn doubled.
func ReductionToDOT(l graph.Layout, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	var levels [][]string
	for _, e := range l.Nodes() {
		label := e.Data.Label
		level := 0
		if e.Data.Level != nil {
			level = *e.Data.Level
		}
		if opts.Detailed {
			label = fmt.Sprintf("%s\nlevel: %d", label, level)
		}
		attrs := []string{fmt.Sprintf("label=%q", label)}
		if e.Data.Type == graph.TypeNormalVertex {
			attrs = append(attrs, "peripheries=2")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", e.Data.ID, strings.Join(attrs, ", "))

		for len(levels) <= level {
			levels = append(levels, nil)
		}
		levels[level] = append(levels[level], e.Data.ID)
	}

	buf.WriteString("\n")
	for _, ids := range levels {
		if len(ids) < 2 {
			continue
		}
		quoted := make([]string, len(ids))
		for i, id := range ids {
			quoted[i] = fmt.Sprintf("%q", id)
		}
		fmt.Fprintf(&buf, "  { rank=same; %s; }\n", strings.Join(quoted, "; "))
	}

	buf.WriteString("\n")
	for _, e := range l.Edges() {
		var attrs []string
		if opts.Detailed {
			attrs = append(attrs, fmt.Sprintf("label=%q", e.Data.Redex))
		}
		fmt.Fprintf(&buf, "  %q -> %q%s;\n", e.Data.Source, e.Data.Target, fmtAttrs(attrs))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeLabel(e graph.Element) string {
	switch e.Data.Type {
	case "abs-node", "abs-node-free":
		return e.Data.Label
	case "app-node":
		return "@"
	default:
		return ""
	}
}

func nodeShape(typ string) []string {
	switch typ {
	case "abs-node", "app-node":
		return nil
	case "abs-node-free":
		return []string{"style=\"filled,dashed\"", "fillcolor=lightgrey"}
	case "root-node":
		return []string{"shape=triangle", "width=0.2"}
	default:
		return []string{"shape=point", "width=0.05"}
	}
}

// highlightColours maps element ids to the Graphviz colour of the first
// listed redex covering them.
func highlightColours(l graph.Layout, redexes []string) map[string]string {
	out := make(map[string]string)
	for i, id := range redexes {
		c := paletteDOT[highlight.DefaultPalette[i%len(highlight.DefaultPalette)]]
		for _, el := range l.ElementsOf(id) {
			if _, ok := out[el]; !ok {
				out[el] = c
			}
		}
	}
	return out
}

func fmtAttrs(attrs []string) string {
	if len(attrs) == 0 {
		return ""
	}
	return " [" + strings.Join(attrs, ", ") + "]"
}
