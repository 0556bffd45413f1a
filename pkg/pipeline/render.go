package pipeline

import (
	"context"
	"errors"
	"time"

	terrors "github.com/matzehuels/termmap/pkg/errors"
	"github.com/matzehuels/termmap/pkg/graph"
	"github.com/matzehuels/termmap/pkg/observability"
	"github.com/matzehuels/termmap/pkg/render"
	"github.com/matzehuels/termmap/pkg/render/nodelink"
)

// ToDOT converts a layout to DOT with the engine that renders it.
func ToDOT(l graph.Layout, opts Options) (dot, engine string) {
	nopts := nodelink.Options{Highlight: opts.Highlight, Detailed: opts.Detailed}
	if l.Kind == graph.KindReduction {
		return nodelink.ReductionToDOT(l, nopts), nodelink.EngineDot
	}
	return nodelink.MapToDOT(l, nopts), nodelink.EngineNeato
}

// Render generates output artifacts in the requested formats.
func Render(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, error) {
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	artifacts, err := renderFormats(ctx, l, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	return artifacts, err
}

func renderFormats(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	var dot, engine string
	if needsDOT(opts.Formats) {
		dot, engine = ToDOT(l, opts)
	}

	for _, format := range opts.Formats {
		var (
			data []byte
			err  error
		)
		switch format {
		case FormatJSON:
			data, err = graph.Marshal(l)
		case FormatDOT:
			data = []byte(dot)
		case FormatSVG:
			data, err = nodelink.RenderSVG(ctx, dot, engine)
		case FormatPNG:
			data, err = nodelink.RenderPNG(ctx, dot, engine, DefaultPNGScale)
		case FormatPDF:
			data, err = nodelink.RenderPDF(ctx, dot, engine)
		default:
			return nil, terrors.New(terrors.ErrCodeUnsupported, "unsupported format: %s", format)
		}
		if errors.Is(err, render.ErrNoConverter) {
			return nil, terrors.Wrap(terrors.ErrCodeUnsupported, err, "render %s", format)
		}
		if err != nil {
			return nil, terrors.Wrap(terrors.ErrCodeInternal, err, "render %s", format)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func needsDOT(formats []string) bool {
	for _, f := range formats {
		if f != FormatJSON {
			return true
		}
	}
	return false
}
