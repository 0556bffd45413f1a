package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/termmap/pkg/lambda"
	"github.com/matzehuels/termmap/pkg/observability"
)

// Parse reads the term source of opts, naming free variables from opts.Free
// and expanding opts.Macros.
func Parse(ctx context.Context, opts Options) (lambda.Term, *lambda.Context, error) {
	hooks := observability.Pipeline()
	hooks.OnParseStart(ctx, len(opts.Source))
	start := time.Now()

	var popts []lambda.ParseOption
	if len(opts.Free) > 0 {
		popts = append(popts, lambda.WithFree(opts.Free...))
	}
	if opts.Macros != nil {
		popts = append(popts, lambda.WithMacros(opts.Macros))
	}
	term, lctx, err := lambda.Parse(opts.Source, popts...)

	size := 0
	if term != nil {
		size = lambda.Size(term)
	}
	hooks.OnParseComplete(ctx, size, time.Since(start), err)
	return term, lctx, err
}
