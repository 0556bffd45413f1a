package lambda

import (
	"fmt"
	"strings"

	"github.com/matzehuels/termmap/pkg/errors"
)

// Step is one move in a [Path] from a term to one of its subterms.
type Step byte

const (
	StepLeft  Step = 'L' // Function of an application
	StepRight Step = 'R' // Argument of an application
	StepBody  Step = 'B' // Body of an abstraction
)

// Path locates a subterm. The empty path is the term itself.
type Path string

// Child returns p extended by s.
func (p Path) Child(s Step) Path { return p + Path(s) }

// Descriptor renders the path as a reduction descriptor, "@" followed by the
// steps (so the root redex is "@").
func (p Path) Descriptor() string { return "@" + string(p) }

// Depth returns the number of steps in p.
func (p Path) Depth() int { return len(p) }

// Redex is one beta-redex occurrence of a term.
type Redex struct {
	Path    Path // Location of the application
	Fn      Abs  // Function being applied
	Arg     Term // Argument
	Binders int  // Abstractions enclosing the redex
}

// Term returns the redex subterm.
func (r Redex) Term() Term { return App{Left: r.Fn, Right: r.Arg} }

// Descriptor identifies the redex within its term.
func (r Redex) Descriptor() string { return r.Path.Descriptor() }

// Redexes lists the beta-redexes of t in pre-order: an application is listed
// before the redexes of its function, which come before those of its
// argument. The order is stable for a given term.
func Redexes(t Term) []Redex {
	var out []Redex
	var walk func(t Term, p Path, binders int)
	walk = func(t Term, p Path, binders int) {
		switch t := t.(type) {
		case Abs:
			walk(t.Body, p.Child(StepBody), binders+1)
		case App:
			if fn, ok := t.Left.(Abs); ok {
				out = append(out, Redex{Path: p, Fn: fn, Arg: t.Right, Binders: binders})
			}
			walk(t.Left, p.Child(StepLeft), binders)
			walk(t.Right, p.Child(StepRight), binders)
		}
	}
	walk(t, "", 0)
	return out
}

// Subterm returns the subterm of t at path p.
func Subterm(t Term, p Path) (Term, error) {
	cur := t
	for i := 0; i < len(p); i++ {
		switch s := Step(p[i]); {
		case s == StepBody:
			abs, ok := cur.(Abs)
			if !ok {
				return nil, errors.New(errors.ErrCodeInvalidInput, "path %q: step %d is not an abstraction", p, i)
			}
			cur = abs.Body
		case s == StepLeft || s == StepRight:
			app, ok := cur.(App)
			if !ok {
				return nil, errors.New(errors.ErrCodeInvalidInput, "path %q: step %d is not an application", p, i)
			}
			if s == StepLeft {
				cur = app.Left
			} else {
				cur = app.Right
			}
		default:
			return nil, errors.New(errors.ErrCodeInvalidInput, "path %q: unknown step %q", p, p[i])
		}
	}
	return cur, nil
}

// ReduceAt contracts the redex at path p and returns the resulting term.
func ReduceAt(t Term, p Path) (Term, error) {
	sub, err := Subterm(t, p)
	if err != nil {
		return nil, err
	}
	app, ok := sub.(App)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no redex at %s", p.Descriptor())
	}
	fn, ok := app.Left.(Abs)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no redex at %s", p.Descriptor())
	}
	return replace(t, p, Beta(fn, app.Right)), nil
}

func replace(t Term, p Path, with Term) Term {
	if p == "" {
		return with
	}
	rest := p[1:]
	switch t := t.(type) {
	case Abs:
		return Abs{Label: t.Label, Body: replace(t.Body, rest, with)}
	case App:
		if Step(p[0]) == StepLeft {
			return App{Left: replace(t.Left, rest, with), Right: t.Right}
		}
		return App{Left: t.Left, Right: replace(t.Right, rest, with)}
	}
	return t
}

// DefaultStepLimit bounds [Normalize] when no explicit limit is given.
const DefaultStepLimit = 1000

// NormalStep contracts the leftmost-outermost redex of t. It reports false
// when t is already in normal form.
func NormalStep(t Term) (Term, bool) {
	rs := Redexes(t)
	if len(rs) == 0 {
		return t, false
	}
	next, err := ReduceAt(t, rs[0].Path)
	if err != nil {
		return t, false
	}
	return next, true
}

// Normalize reduces t in normal order until it reaches normal form or the
// step limit is exhausted. It returns the final term and the number of steps
// taken. Exceeding limit yields a RESOURCE_EXHAUSTED error together with the
// last term reached. A non-positive limit selects DefaultStepLimit.
func Normalize(t Term, limit int) (Term, int, error) {
	if limit <= 0 {
		limit = DefaultStepLimit
	}
	for steps := 0; ; steps++ {
		if steps == limit {
			if len(Redexes(t)) == 0 {
				return t, steps, nil
			}
			return t, steps, errors.New(errors.ErrCodeResourceExhausted, "no normal form within %d steps", limit)
		}
		next, ok := NormalStep(t)
		if !ok {
			return t, steps, nil
		}
		t = next
	}
}

// String renders the redex path and its term in de Bruijn form.
func (r Redex) String() string {
	return fmt.Sprintf("%s %s", r.Descriptor(), PrintIndices(r.Term()))
}

// Label renders the redex with names, resolving free variables against ctx.
// The binders enclosing the redex are named from the whole term t.
func (r Redex) Label(t Term, ctx *Context) string {
	inner := ctx.Clone()
	cur := t
	for i := 0; i < len(r.Path); i++ {
		switch c := cur.(type) {
		case Abs:
			label := inner.Fresh(c.Label)
			inner.Push(Binding{ID: label, Label: label})
			cur = c.Body
		case App:
			if Step(r.Path[i]) == StepLeft {
				cur = c.Left
			} else {
				cur = c.Right
			}
		}
	}
	return strings.TrimSpace(Print(r.Term(), inner))
}
