package reduction

import (
	"context"
	"fmt"
	"time"

	terrors "github.com/matzehuels/termmap/pkg/errors"
	"github.com/matzehuels/termmap/pkg/lambda"
	"github.com/matzehuels/termmap/pkg/observability"
)

// Default exploration budgets.
const (
	DefaultMaxVertices = 1000
	DefaultMaxEdges    = 5000
)

// Successor is one beta step out of a term.
type Successor struct {
	Redex lambda.Redex
	Term  lambda.Term
}

// Memo caches the successors of a term by its [lambda.NamedKey].
// Implementations must be safe for use by one action; pkg/cache provides an
// LRU.
type Memo interface {
	Get(key string) ([]Successor, bool)
	Add(key string, value []Successor)
}

// Options bounds and configures exploration. The zero value selects the
// default budgets and no level cap.
type Options struct {
	MaxVertices int // Vertices kept before exploration stops
	MaxEdges    int // Edges kept before exploration stops
	MaxLevel    int // Deepest level expanded; 0 means unbounded

	// Memo, when set, is consulted before enumerating a term's redexes.
	Memo Memo
}

// SetDefaults fills in zero-valued budgets.
func (o *Options) SetDefaults() {
	if o.MaxVertices <= 0 {
		o.MaxVertices = DefaultMaxVertices
	}
	if o.MaxEdges <= 0 {
		o.MaxEdges = DefaultMaxEdges
	}
	if o.MaxLevel < 0 {
		o.MaxLevel = 0
	}
}

// walker holds the mutable state of one breadth-first exploration.
type walker struct {
	ctx   context.Context
	opts  Options
	graph *Graph
	queue []*Vertex
}

// Build explores every beta reduction reachable from t, breadth first, and
// returns the reduction graph. fctx names the free variables of t and may be
// nil for closed terms.
//
// Redexes are contracted in the fixed pre-order of [lambda.Redexes]. A vertex
// is expanded at most once, so shared subgraphs are explored once and cycles
// (as in Ω) terminate. When a budget is hit or ctx is cancelled Build returns
// the partial graph, marked Truncated, together with a RESOURCE_EXHAUSTED
// error wrapping [ErrBudgetExhausted].
func Build(ctx context.Context, t lambda.Term, fctx *lambda.Context, opts Options) (*Graph, error) {
	if t == nil {
		return nil, terrors.New(terrors.ErrCodeInvalidTerm, "nil term")
	}
	opts.SetDefaults()

	start := time.Now()
	hooks := observability.Reduction()
	hooks.OnReductionStart(ctx, lambda.Size(t))

	w := &walker{ctx: ctx, opts: opts, graph: newGraph(fctx)}
	w.queue = append(w.queue, w.graph.addVertex(t, 0))
	err := w.loop()

	hooks.OnReductionComplete(ctx, len(w.graph.Vertices), len(w.graph.Edges), time.Since(start), err)
	return w.graph, err
}

func (w *walker) loop() error {
	for len(w.queue) > 0 {
		select {
		case <-w.ctx.Done():
			return w.exhausted(w.ctx.Err(), "exploration cancelled after %d vertices", len(w.graph.Vertices))
		default:
		}

		v := w.queue[0]
		w.queue = w.queue[1:]

		if w.opts.MaxLevel > 0 && v.Level >= w.opts.MaxLevel {
			if v.Normal() {
				v.Expanded = true
			} else {
				w.graph.Truncated = true
			}
			continue
		}
		if err := w.expand(v); err != nil {
			return err
		}
	}
	if w.graph.Truncated {
		return w.exhausted(nil, "level cap %d reached", w.opts.MaxLevel)
	}
	return nil
}

// expand adds the successors of v. A vertex is only marked expanded once
// all of its edges are in the graph.
func (w *walker) expand(v *Vertex) error {
	succ, err := w.successors(v)
	if err != nil {
		return err
	}
	for _, s := range succ {
		key := lambda.Key(s.Term)
		next, ok := w.graph.Vertex(key)
		if !ok {
			if len(w.graph.Vertices) >= w.opts.MaxVertices {
				return w.exhausted(nil, "vertex budget %d reached", w.opts.MaxVertices)
			}
			next = w.graph.addVertex(s.Term, v.Level+1)
			w.queue = append(w.queue, next)
		}

		e := Edge{
			Source: v.Key,
			Target: next.Key,
			Redex:  s.Redex.Descriptor(),
			Label:  s.Redex.Label(v.Term, w.graph.Context),
		}
		if _, dup := w.graph.edges[edgeKey{e.Source, e.Redex, e.Target}]; dup {
			continue
		}
		if len(w.graph.Edges) >= w.opts.MaxEdges {
			return w.exhausted(nil, "edge budget %d reached", w.opts.MaxEdges)
		}
		w.graph.addEdge(e)
	}
	v.Expanded = true
	return nil
}

func (w *walker) successors(v *Vertex) ([]Successor, error) {
	cacheHooks := observability.Cache()
	// Successors carry labels, so the memo is keyed on the named form.
	memoKey := lambda.NamedKey(v.Term)
	if w.opts.Memo != nil {
		if succ, ok := w.opts.Memo.Get(memoKey); ok {
			cacheHooks.OnCacheHit(w.ctx, "reduction")
			return succ, nil
		}
		cacheHooks.OnCacheMiss(w.ctx, "reduction")
	}

	redexes := lambda.Redexes(v.Term)
	succ := make([]Successor, 0, len(redexes))
	for _, r := range redexes {
		next, err := lambda.ReduceAt(v.Term, r.Path)
		if err != nil {
			return nil, terrors.Wrap(terrors.ErrCodeInternal, err, "reduce %s", r.Descriptor())
		}
		succ = append(succ, Successor{Redex: r, Term: next})
	}

	if w.opts.Memo != nil {
		w.opts.Memo.Add(memoKey, succ)
		cacheHooks.OnCacheSet(w.ctx, "reduction", len(succ))
	}
	return succ, nil
}

func (w *walker) exhausted(cause error, format string, args ...any) error {
	w.graph.Truncated = true
	if cause == nil {
		cause = ErrBudgetExhausted
	} else {
		cause = fmt.Errorf("%w: %w", ErrBudgetExhausted, cause)
	}
	return terrors.Wrap(terrors.ErrCodeResourceExhausted, cause, format, args...)
}
