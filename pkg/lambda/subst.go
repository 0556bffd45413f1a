package lambda

// Shift adds d to every variable index of t that is at least cutoff.
func Shift(d, cutoff int, t Term) Term {
	switch t := t.(type) {
	case Var:
		if t.Index >= cutoff {
			return Var{Index: t.Index + d}
		}
		return t
	case Abs:
		return Abs{Label: t.Label, Body: Shift(d, cutoff+1, t.Body)}
	case App:
		return App{Left: Shift(d, cutoff, t.Left), Right: Shift(d, cutoff, t.Right)}
	}
	return t
}

// Subst replaces the variable with index j in t by s, adjusting s for every
// binder crossed.
func Subst(j int, s, t Term) Term {
	switch t := t.(type) {
	case Var:
		if t.Index == j {
			return s
		}
		return t
	case Abs:
		return Abs{Label: t.Label, Body: Subst(j+1, Shift(1, 0, s), t.Body)}
	case App:
		return App{Left: Subst(j, s, t.Left), Right: Subst(j, s, t.Right)}
	}
	return t
}

// Beta contracts the redex (fn arg).
func Beta(fn Abs, arg Term) Term {
	return Shift(-1, 0, Subst(0, Shift(1, 0, arg), fn.Body))
}
