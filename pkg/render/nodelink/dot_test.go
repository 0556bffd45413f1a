package nodelink

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/matzehuels/termmap/pkg/graph"
	"github.com/matzehuels/termmap/pkg/lambda"
	"github.com/matzehuels/termmap/pkg/reduction"
	"github.com/matzehuels/termmap/pkg/render"
	"github.com/matzehuels/termmap/pkg/termmap"
)

func mapLayout(t *testing.T, src string) graph.Layout {
	t.Helper()
	term, ctx, err := lambda.Parse(src)
	if err != nil {
		t.Fatal(err)
	}
	m, err := termmap.Build(term, ctx, termmap.Options{})
	if err != nil {
		t.Fatal(err)
	}
	return graph.FromMap(m)
}

func TestMapToDOT(t *testing.T) {
	l := mapLayout(t, `(\x. x) y`)
	dot := MapToDOT(l, Options{})

	if !strings.HasPrefix(dot, "digraph G {") || !strings.HasSuffix(dot, "}\n") {
		t.Errorf("not a digraph:\n%s", dot)
	}
	// λx sits at (-60, -60): two inches left, two up.
	var line string
	for _, l := range strings.Split(dot, "\n") {
		if strings.HasPrefix(l, `  "λx" [`) {
			line = l
		}
	}
	if !strings.Contains(line, `pos="-2.000,2.000!"`) {
		t.Errorf("λx not pinned: %q", line)
	}
	if got := strings.Count(dot, " -> "); got != len(l.Edges()) {
		t.Errorf("got %d edges, want %d", got, len(l.Edges()))
	}
	if strings.Contains(dot, "penwidth") {
		t.Error("unexpected highlight without Options.Highlight")
	}
}

func TestMapToDOTHighlight(t *testing.T) {
	l := mapLayout(t, `(\x. x) y`)
	dot := MapToDOT(l, Options{Highlight: []string{"beta-0"}})

	want := len(l.ElementsOf("beta-0"))
	if got := strings.Count(dot, "color=red"); got != want {
		t.Errorf("%d red elements, want %d", got, want)
	}
}

func TestReductionToDOT(t *testing.T) {
	term, ctx, err := lambda.Parse(`(\x. x) a ((\y. y) b)`)
	if err != nil {
		t.Fatal(err)
	}
	g, err := reduction.Build(context.Background(), term, ctx, reduction.Options{})
	if err != nil {
		t.Fatal(err)
	}
	l := graph.FromReduction(g, reduction.LayoutOptions{}, 0)
	dot := ReductionToDOT(l, Options{Detailed: true})

	if got := strings.Count(dot, "rank=same"); got != 1 {
		t.Errorf("%d rank groups, want 1 (level 1)", got)
	}
	if got := strings.Count(dot, "peripheries=2"); got != 1 {
		t.Errorf("%d normal forms, want 1", got)
	}
	if !strings.Contains(dot, `label="@L"`) || !strings.Contains(dot, `label="@R"`) {
		t.Errorf("missing redex labels:\n%s", dot)
	}
	if got := strings.Count(dot, " -> "); got != 4 {
		t.Errorf("%d edges, want 4", got)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 100.00 50.00" width="100" height="50"`) {
		t.Errorf("normalizeViewBox = %s", out)
	}
	prolog := `<?xml version="1.0"?>` + "\n"
	withProlog := string(normalizeViewBox(append([]byte(prolog), in...)))
	if !strings.HasPrefix(withProlog, prolog+"<svg ") {
		t.Errorf("prolog not preserved: %s", withProlog)
	}
	if same := normalizeViewBox([]byte("<svg><g/></svg>")); string(same) != "<svg><g/></svg>" {
		t.Error("svg without viewBox should be unchanged")
	}
}

func TestRenderSVGUnknownEngine(t *testing.T) {
	if _, err := RenderSVG(context.Background(), "digraph G {}", "circo"); err == nil {
		t.Error("want error for unknown engine")
	}
}

func TestRenderPNGWithoutConverter(t *testing.T) {
	orig := render.Converter
	render.Converter = "termmap-no-such-converter"
	defer func() { render.Converter = orig }()

	png, err := RenderPNG(context.Background(), "digraph G { a -> b }", EngineDot, 2)
	if err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	if len(png) < 4 || string(png[1:4]) != "PNG" {
		t.Error("fallback output is not a PNG")
	}
	if _, err := RenderPDF(context.Background(), "digraph G { a }", EngineDot); !errors.Is(err, render.ErrNoConverter) {
		t.Errorf("RenderPDF error = %v, want ErrNoConverter", err)
	}
}
