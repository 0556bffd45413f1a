// Package render converts rendered SVG documents to raster and print
// formats with the external rsvg-convert tool from librsvg.
//
// The [nodelink] subpackage produces the DOT and SVG of term maps and
// reduction graphs. PNG output falls back to Graphviz's own encoder when
// rsvg-convert is not installed; PDF output requires it and fails with
// [ErrNoConverter] otherwise.
//
//	svg, err := nodelink.RenderSVG(ctx, dot, nodelink.EngineNeato)
//	pdf, err := render.ToPDF(ctx, svg)
//
// [nodelink]: github.com/matzehuels/termmap/pkg/render/nodelink
package render
