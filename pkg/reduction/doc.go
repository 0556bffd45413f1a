// Package reduction builds reduction graphs and their path statistics.
//
// A reduction graph traces every way a term can be beta-reduced: vertices are
// the distinct terms reachable from the root (identified structurally by
// [lambda.Key]) and each edge contracts one redex. The level of a vertex is
// the least number of steps needed to reach it.
//
// # Exploration
//
//	t, ctx, _ := lambda.Parse(`(\x. x) ((\y. y) z)`)
//	g, err := reduction.Build(ctx0, t, ctx, reduction.Options{})
//
// [Build] is a breadth-first walk. Each vertex is expanded once; its redexes
// are contracted in the fixed pre-order of [lambda.Redexes], and an edge is
// added only if no identical (source, redex, target) triple exists. Edge ids
// follow "source-b->@path-b->target".
//
// Terms without a normal form, or with explosive redex growth, are contained
// by budgets: MaxVertices, MaxEdges, MaxLevel and context cancellation. When
// any of them stops exploration the partial graph is returned with Truncated
// set and a RESOURCE_EXHAUSTED error.
//
// An optional [Memo] caches successor lists by named term key for the
// duration of one action, such as stepping through levels in the explorer.
//
// # Statistics
//
// [PathLengths] enumerates the paths from the root to each sink (an expanded
// vertex with no outgoing edges) and [Summarize] reduces them to minimum,
// maximum, mean, median and mode. Ties for the mode go to the smallest
// length. With no paths the aggregates are undefined, reported through
// Stats.Defined rather than as an error.
//
// # Layout
//
// [Place] bands vertices by level for the rendering collaborator.
package reduction
