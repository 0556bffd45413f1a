// Package nodelink renders term maps and reduction graphs as Graphviz
// diagrams.
//
// # Usage
//
// Convert a document to DOT, then render it with the matching engine:
//
//	dot := nodelink.MapToDOT(layout, nodelink.Options{Highlight: []string{"beta-0"}})
//	svg, err := nodelink.RenderSVG(ctx, dot, nodelink.EngineNeato)
//
//	dot = nodelink.ReductionToDOT(rlayout, nodelink.Options{Detailed: true})
//	svg, err = nodelink.RenderSVG(ctx, dot, nodelink.EngineDot)
//
// Term maps are already positioned, so [MapToDOT] pins every node and the
// neato engine only routes edges. Reduction graphs use the dot engine with
// one rank per level.
//
// # Highlighting
//
// Options.Highlight lists redex ids to colour in a static render; the colours
// follow the highlight palette (red, blue, green, orange, violet).
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG and
// fallback PNG rendering. Scaled PNG and PDF conversion use librsvg.
package nodelink
