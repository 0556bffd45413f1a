package macro

import (
	"slices"

	"github.com/matzehuels/termmap/pkg/lambda"
)

var builtinSources = map[string]string{
	"I":     `\x. x`,
	"K":     `\x y. x`,
	"S":     `\x y z. x z (y z)`,
	"Omega": `(\x. x x) (\x. x x)`,
	"Y":     `\f. (\x. f (x x)) (\x. f (x x))`,
	"true":  `\t f. t`,
	"false": `\t f. f`,
	"c0":    `\f x. x`,
	"c1":    `\f x. f x`,
	"c2":    `\f x. f (f x)`,
	"c3":    `\f x. f (f (f x))`,
	"succ":  `\n f x. f (n f x)`,
	"plus":  `\m n f x. m f (n f x)`,
}

// Builtins returns the predefined combinators, booleans and Church numerals
// sorted by name.
func Builtins() []Macro {
	out := make([]Macro, 0, len(builtinSources))
	for name, src := range builtinSources {
		out = append(out, Macro{Name: name, Source: src, Term: lambda.MustParse(src)})
	}
	sortByName(out)
	return out
}

// IsBuiltin reports whether name is one of the [Builtins].
func IsBuiltin(name string) bool {
	_, ok := builtinSources[name]
	return ok
}

// BuiltinNames returns the builtin names in sorted order.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtinSources))
	for name := range builtinSources {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
