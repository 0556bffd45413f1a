package lambda

// Stats holds structural counts of a term.
type Stats struct {
	Abstractions  int `json:"abstractions"`
	Applications  int `json:"applications"`
	Variables     int `json:"variables"`      // Variable occurrences, bound and free
	FreeVariables int `json:"free_variables"` // Free variable occurrences
	DistinctFree  int `json:"distinct_free"`  // Distinct free variables
	BetaRedexes   int `json:"beta_redexes"`
	Depth         int `json:"depth"` // Longest root-to-leaf chain of subterms
}

// Measure computes the structural counts of t.
func Measure(t Term) Stats {
	var s Stats
	free := map[int]bool{}
	var walk func(t Term, binders, depth int)
	walk = func(t Term, binders, depth int) {
		s.Depth = max(s.Depth, depth)
		switch t := t.(type) {
		case Var:
			s.Variables++
			if t.Index >= binders {
				s.FreeVariables++
				free[t.Index-binders] = true
			}
		case Abs:
			s.Abstractions++
			walk(t.Body, binders+1, depth+1)
		case App:
			s.Applications++
			if IsRedex(t) {
				s.BetaRedexes++
			}
			walk(t.Left, binders, depth+1)
			walk(t.Right, binders, depth+1)
		}
	}
	walk(t, 0, 1)
	s.DistinctFree = len(free)
	return s
}
