package graph

import (
	"strings"

	"github.com/matzehuels/termmap/pkg/lambda"
	"github.com/matzehuels/termmap/pkg/reduction"
	"github.com/matzehuels/termmap/pkg/termmap"
)

// FromMap converts a term map to a document. Elements keep the map's
// creation order, nodes first.
func FromMap(m *termmap.Map) Layout {
	stats := m.Stats()
	out := Layout{
		Kind:     KindMap,
		Term:     lambda.Print(m.Term, m.Context),
		Context:  contextNames(m.Context),
		Width:    m.Width,
		Elements: make([]Element, 0, len(m.Nodes)+len(m.Edges)),
		MapStats: &stats,
	}

	for _, n := range m.Nodes {
		out.Elements = append(out.Elements, Element{
			Group:    GroupNodes,
			Data:     Data{ID: n.ID, Type: n.Type(), Label: n.Label, Free: n.Free},
			Position: &Position{X: n.Position.X, Y: n.Position.Y},
			Classes:  strings.Join(n.Classes, " "),
		})
	}
	for _, e := range m.Edges {
		out.Elements = append(out.Elements, Element{
			Group: GroupEdges,
			Data: Data{
				ID:      e.ID,
				Type:    e.Kind.String(),
				Label:   e.Label,
				Source:  e.Source,
				Target:  e.Target,
				NoArrow: e.NoArrow,
			},
			Classes: strings.Join(e.Classes, " "),
		})
	}

	for _, r := range m.Redexes {
		wr := Redex{
			ID:          r.ID,
			Application: r.Application,
			Abstraction: r.Abstraction,
			Elements:    r.Elements,
		}
		if app, ok := m.Node(r.Application); ok && app.Label != "" {
			wr.Label = app.Label
		} else {
			wr.Label = r.Application
		}
		out.Redexes = append(out.Redexes, wr)
	}
	return out
}

// FromReduction places g with opts and converts it to a document carrying
// its path statistics. maxPaths bounds the statistics as in
// [reduction.Summarize].
func FromReduction(g *reduction.Graph, opts reduction.LayoutOptions, maxPaths int) Layout {
	width := reduction.Place(g, opts)
	stats := reduction.Summarize(g, maxPaths)

	out := Layout{
		Kind:           KindReduction,
		Context:        contextNames(g.Context),
		Width:          width,
		Elements:       make([]Element, 0, len(g.Vertices)+len(g.Edges)),
		ReductionStats: &stats,
		Truncated:      g.Truncated,
	}
	if root := g.RootVertex(); root != nil {
		out.Term = root.Label
	}

	for _, v := range g.Vertices {
		level := v.Level
		typ := TypeVertex
		if v.Normal() {
			typ = TypeNormalVertex
		}
		out.Elements = append(out.Elements, Element{
			Group:    GroupNodes,
			Data:     Data{ID: v.Key, Type: typ, Label: v.Label, Level: &level, Term: v.Key},
			Position: &Position{X: v.Position.X, Y: v.Position.Y},
		})
	}
	for _, e := range g.Edges {
		out.Elements = append(out.Elements, Element{
			Group: GroupEdges,
			Data: Data{
				ID:     e.ID,
				Type:   TypeStep,
				Label:  e.Label,
				Source: e.Source,
				Target: e.Target,
				Redex:  e.Redex,
			},
		})
	}
	return out
}

func contextNames(ctx *lambda.Context) []string {
	free := ctx.Free()
	if len(free) == 0 {
		return nil
	}
	names := make([]string, len(free))
	for i, b := range free {
		names[i] = b.Label
	}
	return names
}
