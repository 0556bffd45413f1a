package nodelink

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/termmap/pkg/render"
)

func layoutFor(engine string) (graphviz.Layout, error) {
	switch engine {
	case EngineNeato:
		return graphviz.NEATO, nil
	case "", EngineDot:
		return graphviz.DOT, nil
	}
	return "", fmt.Errorf("unknown layout engine %q", engine)
}

// renderDOT lays out dot with engine and encodes the result as format.
func renderDOT(ctx context.Context, dot, engine string, format graphviz.Format) ([]byte, error) {
	layout, err := layoutFor(engine)
	if err != nil {
		return nil, err
	}
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(layout)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

// RenderSVG lays out dot with engine ("" selects [EngineDot]) and returns
// the SVG with a zero-origin viewBox.
func RenderSVG(ctx context.Context, dot, engine string) ([]byte, error) {
	svg, err := renderDOT(ctx, dot, engine, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(svg), nil
}

// RenderPNG rasterises the SVG at scale with rsvg-convert. Without the
// converter it falls back to Graphviz's own PNG output at scale 1.
func RenderPNG(ctx context.Context, dot, engine string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot, engine)
	if err != nil {
		return nil, err
	}
	png, err := render.ToPNG(ctx, svg, scale)
	if errors.Is(err, render.ErrNoConverter) {
		return renderDOT(ctx, dot, engine, graphviz.PNG)
	}
	return png, err
}

// RenderPDF converts the SVG with rsvg-convert, which must be installed.
func RenderPDF(ctx context.Context, dot, engine string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot, engine)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

var (
	svgOpenRe = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="(-?[0-9.]+)\s+(-?[0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the root svg tag with one whose viewBox starts
// at the origin and whose width and height match it.
func normalizeViewBox(svg []byte) []byte {
	m := viewBoxRe.FindSubmatch(svg)
	if m == nil {
		return svg
	}
	w, errW := strconv.ParseFloat(string(m[3]), 64)
	h, errH := strconv.ParseFloat(string(m[4]), 64)
	if errW != nil || errH != nil || w == 0 || h == 0 {
		return svg
	}
	open := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	loc := svgOpenRe.FindIndex(svg)
	if loc == nil {
		return svg
	}
	out := make([]byte, 0, len(svg)+len(open))
	out = append(out, svg[:loc[0]]...)
	out = append(out, open...)
	return append(out, svg[loc[1]:]...)
}
