package macro

import (
	"context"
	"slices"
	"strings"

	terrors "github.com/matzehuels/termmap/pkg/errors"
	"github.com/matzehuels/termmap/pkg/lambda"
)

// Macro is a named closed term.
type Macro struct {
	Name   string      `json:"name" toml:"name" bson:"_id"`
	Source string      `json:"source" toml:"source" bson:"source"`
	Term   lambda.Term `json:"-" toml:"-" bson:"-"`
}

// Store persists macro definitions. Implementations are safe for concurrent
// use.
type Store interface {
	// Get returns the macro named name or a MACRO_NOT_FOUND error.
	Get(ctx context.Context, name string) (Macro, error)
	// Put creates or replaces a macro.
	Put(ctx context.Context, m Macro) error
	// Delete removes a macro or returns a MACRO_NOT_FOUND error.
	Delete(ctx context.Context, name string) error
	// List returns all macros sorted by name.
	List(ctx context.Context) ([]Macro, error)
	Close() error
}

func notFound(name string) error {
	return terrors.New(terrors.ErrCodeMacroNotFound, "macro %q not found", name)
}

func sortByName(ms []Macro) {
	slices.SortFunc(ms, func(a, b Macro) int { return strings.Compare(a.Name, b.Name) })
}

// Define validates source against the macros already in s and the builtins,
// then stores it under name.
func Define(ctx context.Context, s Store, name, source string) (Macro, error) {
	if err := terrors.ValidateMacroName(name); err != nil {
		return Macro{}, err
	}
	if err := terrors.ValidateTermSource(source); err != nil {
		return Macro{}, err
	}

	existing, err := s.List(ctx)
	if err != nil {
		return Macro{}, err
	}
	existing = slices.DeleteFunc(existing, func(m Macro) bool { return m.Name == name })
	m := Macro{Name: name, Source: source}
	set, err := resolve(append(existing, m))
	if err != nil {
		return Macro{}, err
	}
	m.Term = set[name]

	if err := s.Put(ctx, Macro{Name: name, Source: source}); err != nil {
		return Macro{}, err
	}
	return m, nil
}

// Resolve lists s and expands every macro together with the builtins.
// Stored macros shadow builtins of the same name.
func Resolve(ctx context.Context, s Store) (lambda.MacroMap, error) {
	var ms []Macro
	if s != nil {
		var err error
		if ms, err = s.List(ctx); err != nil {
			return nil, err
		}
	}
	return resolve(ms)
}

func resolve(ms []Macro) (lambda.MacroMap, error) {
	r := &resolver{
		sources:  make(map[string]string, len(builtinSources)+len(ms)),
		done:     make(lambda.MacroMap, len(builtinSources)+len(ms)),
		visiting: make(map[string]bool),
	}
	for name, src := range builtinSources {
		r.sources[name] = src
	}
	for _, m := range ms {
		r.sources[m.Name] = m.Source
	}

	names := make([]string, 0, len(r.sources))
	for name := range r.sources {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		if _, err := r.expand(name); err != nil {
			return nil, err
		}
	}
	return r.done, nil
}

// resolver expands macro sources on demand so that definition order does
// not matter.
type resolver struct {
	sources  map[string]string
	done     lambda.MacroMap
	visiting map[string]bool
	err      error
}

func (r *resolver) expand(name string) (lambda.Term, error) {
	if t, ok := r.done[name]; ok {
		return t, nil
	}
	r.visiting[name] = true
	defer delete(r.visiting, name)

	t, lctx, err := lambda.Parse(r.sources[name], lambda.WithMacros(r))
	if r.err != nil {
		return nil, r.err
	}
	if err != nil {
		return nil, terrors.Wrap(terrors.GetCode(err), err, "macro %s", name)
	}
	if lctx.Len() > 0 {
		return nil, terrors.New(terrors.ErrCodeInvalidTerm, "macro %s has free variables: %s", name, lctx)
	}
	r.done[name] = t
	return t, nil
}

// Lookup implements [lambda.Macros] for nested references.
func (r *resolver) Lookup(name string) (lambda.Term, bool) {
	if t, ok := r.done[name]; ok {
		return t, true
	}
	if _, ok := r.sources[name]; !ok {
		return nil, false
	}
	if r.visiting[name] {
		if r.err == nil {
			r.err = terrors.New(terrors.ErrCodeInvalidMacro, "macro %s refers to itself", name)
		}
		return nil, false
	}
	t, err := r.expand(name)
	if err != nil {
		if r.err == nil {
			r.err = err
		}
		return nil, false
	}
	return t, true
}
