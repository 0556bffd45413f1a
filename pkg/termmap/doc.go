// Package termmap compiles lambda terms into term maps.
//
// A term map is a directed graph in which abstractions, applications and
// variable occurrences become positioned nodes, connected by typed edges that
// make binding, scope and beta-redex structure visible. The package produces
// data only; painting it is left to a rendering collaborator (see
// pkg/render/nodelink and pkg/graph).
//
// # Building
//
//	term, ctx, _ := lambda.Parse(`(\x. x) y`)
//	m, err := termmap.Build(term, ctx, termmap.Options{})
//
// [Build] walks the term once. Each subterm gets a node one unit above its
// parent, one unit to the left for an abstraction body or an application's
// function and one unit to the right for an argument. After a child subtree
// is generated its horizontal extent is measured and the whole subtree is
// shifted if it reaches past its parent, so that:
//
//   - every node of an application's function lies strictly left of every
//     node of its argument
//   - sibling subtrees never overlap
//
// Midpoint nodes split every parent/child edge. They are auxiliary: they do
// not count towards extents and are placed halfway between their endpoints
// once layout is finished. Variable channels end in top nodes aligned just
// above the highest node of the map.
//
// # Free Variables
//
// Each free variable that occurs hangs from exactly one anchor
// ([KindFreeAbstraction]), created on first use. Anchors are placed to the
// right of the finished map in context order.
//
// # Identifiers
//
// Ids are derived from the term (for example "λx" or "[x @ y]") and made
// unique by [IDSet.Allocate], which appends primes until the id is free.
// Nodes are always allocated before the edges that reference them.
//
// # Redexes
//
// Every application whose function is an abstraction opens a redex
// "beta-N", numbered in discovery order. Every element created while a redex
// is open carries its class, and every occurrence inside it also tags the
// channel of its binder. [Map.ElementsOf] returns the ids to highlight for a
// redex; pkg/highlight schedules those highlights.
//
// # Errors
//
// A variable that resolves to neither a binder nor a context entry aborts the
// build with [ErrUnresolvedVariable] (code UNRESOLVED_VARIABLE). No partial
// map is returned. Layout itself never fails.
package termmap
