package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/matzehuels/termmap/pkg/graph"
	"github.com/matzehuels/termmap/pkg/lambda"
	"github.com/matzehuels/termmap/pkg/observability"
	"github.com/matzehuels/termmap/pkg/reduction"
	"github.com/matzehuels/termmap/pkg/termmap"
)

// BuildMap compiles term into a term map.
func BuildMap(ctx context.Context, term lambda.Term, lctx *lambda.Context, opts Options) (*termmap.Map, error) {
	hooks := observability.Map()
	hooks.OnMapStart(ctx, lambda.Size(term))
	start := time.Now()

	m, err := termmap.Build(term, lctx, opts.MapOptions())

	var nodes, edges, redexes int
	if m != nil {
		nodes, edges, redexes = len(m.Nodes), len(m.Edges), len(m.Redexes)
	}
	hooks.OnMapComplete(ctx, nodes, edges, redexes, time.Since(start), err)
	return m, err
}

// BuildReduction explores the reduction graph of term. A budget error comes
// back together with the partial graph.
func BuildReduction(ctx context.Context, term lambda.Term, lctx *lambda.Context, memo reduction.Memo, opts Options) (*reduction.Graph, error) {
	return reduction.Build(ctx, term, lctx, opts.ReductionOptions(memo))
}

// GenerateLayout runs the build stage for opts.VizType. For reduction runs a
// budget hit yields the truncated layout and a nil error; cancellation of
// ctx is still returned.
func GenerateLayout(ctx context.Context, term lambda.Term, lctx *lambda.Context, memo reduction.Memo, opts Options) (graph.Layout, *termmap.Map, *reduction.Graph, error) {
	if !opts.IsReduction() {
		m, err := BuildMap(ctx, term, lctx, opts)
		if err != nil {
			return graph.Layout{}, nil, nil, err
		}
		return graph.FromMap(m), m, nil, nil
	}

	g, err := BuildReduction(ctx, term, lctx, memo, opts)
	if err != nil && (g == nil || ctx.Err() != nil || !errors.Is(err, reduction.ErrBudgetExhausted)) {
		return graph.Layout{}, nil, g, err
	}
	if err != nil {
		opts.Logger.Warn("reduction graph truncated", "err", err)
	}
	layout := graph.FromReduction(g, reduction.LayoutOptions{}, opts.MaxPaths)
	return layout, nil, g, nil
}
