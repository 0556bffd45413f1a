// Package pkg provides the core libraries of termmap.
//
// # Overview
//
// termmap draws untyped lambda terms. A term map is a node-link drawing of
// one term in which every variable occurrence is wired to the abstraction
// that binds it and every beta-redex is a named group of elements that a
// viewer can highlight. A reduction graph has one vertex per distinct term
// reachable by beta-reduction and one edge per contraction.
//
// # Architecture
//
// The typical data flow:
//
//	term source
//	     ↓
//	[lambda] (parse, de Bruijn terms, redexes, reduction)
//	     ↓
//	[termmap] or [reduction] (map compiler / reduction explorer)
//	     ↓
//	[graph] (JSON layout document)
//	     ↓
//	[render/nodelink] (DOT, SVG, PNG, PDF)
//
// [pipeline] runs the whole flow with caching and is shared by the CLI and
// the API server.
//
// # Quick Start
//
//	term, ctx, err := lambda.Parse(`(\x. x x) (\y. y)`)
//	if err != nil {
//	    return err
//	}
//
//	m, _ := termmap.Build(term, ctx, termmap.Options{})
//	layout := graph.FromMap(m)
//	dot := nodelink.MapToDOT(layout, nodelink.Options{})
//	svg, _ := nodelink.RenderSVG(context.Background(), dot, nodelink.EngineNeato)
//
// # Main Packages
//
// ## Terms
//
// [lambda] - Terms with de Bruijn indices, naming contexts, the parser and
// printer, redex enumeration, contraction at a path and normal-order
// normalisation.
//
// [macro] - Named terms expanded by the parser. Builtins (I, K, S, Y,
// Church numerals and booleans) plus stores backed by memory, a TOML file,
// Redis or MongoDB.
//
// ## Drawings
//
// [termmap] - Compiles a term into nodes, edges and redex groups with
// positions.
//
// [reduction] - Breadth-first exploration of all reductions of a term under
// vertex, edge and level budgets, level-banded placement and path length
// statistics.
//
// [highlight] - Serialises highlight requests so that at most one redex is
// shown, unhighlights first.
//
// ## Serialization and Rendering
//
// [graph] - The layout document shared by every output format.
//
// [render/nodelink] - Graphviz DOT generation and SVG/PNG/PDF rendering.
//
// ## Infrastructure
//
// [pipeline] - Parse → build → render with layout and artifact caching.
//
// [cache] - Memory, file and null caches, and the reduction successor memo.
//
// [session] - Layouts held for highlight websocket clients.
//
// [httputil] - JSON and error helpers for the API server.
//
// [errors] - Code-tagged errors mapped to exit messages and HTTP statuses.
//
// [observability] - Hooks for pipeline, build, cache and HTTP events.
//
// # Testing
//
//	go test ./pkg/...
//	go test -run Example ./pkg/...
//
// [lambda]: https://pkg.go.dev/github.com/matzehuels/termmap/pkg/lambda
// [macro]: https://pkg.go.dev/github.com/matzehuels/termmap/pkg/macro
// [termmap]: https://pkg.go.dev/github.com/matzehuels/termmap/pkg/termmap
// [reduction]: https://pkg.go.dev/github.com/matzehuels/termmap/pkg/reduction
// [highlight]: https://pkg.go.dev/github.com/matzehuels/termmap/pkg/highlight
// [graph]: https://pkg.go.dev/github.com/matzehuels/termmap/pkg/graph
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/termmap/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/termmap/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/termmap/pkg/cache
// [session]: https://pkg.go.dev/github.com/matzehuels/termmap/pkg/session
// [httputil]: https://pkg.go.dev/github.com/matzehuels/termmap/pkg/httputil
// [errors]: https://pkg.go.dev/github.com/matzehuels/termmap/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/termmap/pkg/observability
package pkg
