package lambda

import (
	"slices"
	"strconv"
	"strings"
)

// Term is a lambda term. The set of variants is closed: [Var], [Abs] and [App].
type Term interface {
	isTerm()
}

// Var is a variable occurrence identified by its de Bruijn index.
type Var struct {
	Index int // Binders between this occurrence and its binder (0 = innermost)
}

// Abs is an abstraction. Label is the display name of the bound variable and
// does not affect identity.
type Abs struct {
	Label string
	Body  Term
}

// App is an application of Left to Right.
type App struct {
	Left  Term
	Right Term
}

func (Var) isTerm() {}
func (Abs) isTerm() {}
func (App) isTerm() {}

// V returns the variable with de Bruijn index i.
func V(i int) Term { return Var{Index: i} }

// L returns an abstraction binding label over body.
func L(label string, body Term) Term { return Abs{Label: label, Body: body} }

// A returns the left-associated application of f to args.
func A(f Term, args ...Term) Term {
	for _, a := range args {
		f = App{Left: f, Right: a}
	}
	return f
}

// IsRedex reports whether t is a beta-redex: an application whose function
// position is an abstraction.
func IsRedex(t Term) bool {
	app, ok := t.(App)
	if !ok {
		return false
	}
	_, ok = app.Left.(Abs)
	return ok
}

// Key returns the structural identity of t. Labels are ignored, so alpha
// equivalent terms share a key.
func Key(t Term) string {
	var b strings.Builder
	writeKey(&b, t)
	return b.String()
}

func writeKey(b *strings.Builder, t Term) {
	switch t := t.(type) {
	case Var:
		b.WriteString(strconv.Itoa(t.Index))
	case Abs:
		b.WriteString("λ")
		writeKey(b, t.Body)
	case App:
		b.WriteByte('(')
		writeKey(b, t.Left)
		b.WriteByte(' ')
		writeKey(b, t.Right)
		b.WriteByte(')')
	}
}

// NamedKey is like [Key] but keeps binder labels, so alpha equivalent terms
// that display differently get different keys.
func NamedKey(t Term) string {
	var b strings.Builder
	writeNamedKey(&b, t)
	return b.String()
}

func writeNamedKey(b *strings.Builder, t Term) {
	switch t := t.(type) {
	case Var:
		b.WriteString(strconv.Itoa(t.Index))
	case Abs:
		b.WriteString("λ")
		b.WriteString(strconv.Quote(t.Label))
		b.WriteByte('.')
		writeNamedKey(b, t.Body)
	case App:
		b.WriteByte('(')
		writeNamedKey(b, t.Left)
		b.WriteByte(' ')
		writeNamedKey(b, t.Right)
		b.WriteByte(')')
	}
}

// Equal reports whether a and b are structurally identical.
func Equal(a, b Term) bool {
	switch a := a.(type) {
	case Var:
		bv, ok := b.(Var)
		return ok && a.Index == bv.Index
	case Abs:
		ba, ok := b.(Abs)
		return ok && Equal(a.Body, ba.Body)
	case App:
		bp, ok := b.(App)
		return ok && Equal(a.Left, bp.Left) && Equal(a.Right, bp.Right)
	}
	return false
}

// Size returns the number of subterms of t, including t itself.
func Size(t Term) int {
	switch t := t.(type) {
	case Abs:
		return 1 + Size(t.Body)
	case App:
		return 1 + Size(t.Left) + Size(t.Right)
	default:
		return 1
	}
}

// FreeIndices returns the sorted, distinct indices that escape t, expressed
// relative to the outside of t.
func FreeIndices(t Term) []int {
	seen := map[int]bool{}
	var out []int
	var walk func(t Term, depth int)
	walk = func(t Term, depth int) {
		switch t := t.(type) {
		case Var:
			if t.Index >= depth && !seen[t.Index-depth] {
				seen[t.Index-depth] = true
				out = append(out, t.Index-depth)
			}
		case Abs:
			walk(t.Body, depth+1)
		case App:
			walk(t.Left, depth)
			walk(t.Right, depth)
		}
	}
	walk(t, 0)
	slices.Sort(out)
	return out
}

// IsClosed reports whether t has no free variables.
func IsClosed(t Term) bool { return len(FreeIndices(t)) == 0 }
