// Package lambda provides the untyped lambda-calculus term model used by termmap.
//
// Terms are kept in de Bruijn form: a [Var] carries the number of binders
// between the occurrence and the abstraction that binds it. Indices that reach
// past every enclosing binder refer to entries of a [Context], which names the
// variables free in the whole term.
//
// # Core Types
//
//   - [Term]: Closed sum type with the variants [Var], [Abs] and [App]
//   - [Context]: Ordered free-variable naming context (binder stack plus free names)
//   - [Redex]: A beta-redex occurrence located by its [Path]
//   - [Stats]: Structural counts of a term
//
// Terms are immutable values. Two terms with the same shape are equal under
// [Key] regardless of their display labels:
//
//	lambda.Key(lambda.Abs{Label: "x", Body: lambda.Var{}}) // "λ0"
//	lambda.Key(lambda.Abs{Label: "y", Body: lambda.Var{}}) // "λ0"
//
// # Parsing
//
// [Parse] reads the usual concrete syntax, with either a backslash or a
// lambda sign introducing a binder:
//
//	t, ctx, err := lambda.Parse(`(\x. x) y`)
//	// t   = App{Abs{"x", Var{0}}, Var{0}}
//	// ctx = [y]
//
// Identifiers that are not bound by an enclosing binder and are not macros
// become free variables, seeded into the returned context in order of first
// occurrence.
//
// # Reduction
//
// [Redexes] lists every beta-redex of a term in a fixed pre-order (the
// application itself, then its function, then its argument). [ReduceAt]
// contracts the redex at a path and [Beta] performs a single contraction with
// capture-avoiding substitution.
//
// # Printing
//
// [Print] renders a term with names taken from its labels and the context,
// priming labels that would otherwise shadow a visible name. [PrintIndices]
// renders the raw de Bruijn form.
package lambda
