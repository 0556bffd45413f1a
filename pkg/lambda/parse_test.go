package lambda

import (
	"testing"

	"github.com/matzehuels/termmap/pkg/errors"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want Term
		free string
	}{
		{"identity", `\x. x`, L("x", V(0)), "[]"},
		{"lambda sign", `λx.x`, L("x", V(0)), "[]"},
		{"redex with free", `(\x. x) y`, A(L("x", V(0)), V(0)), "[y]"},
		{"free order", `\x. y x z`, L("x", A(V(2), V(0), V(1))), "[y, z]"},
		{"multi binder", `\x y. x`, L("x", L("y", V(1))), "[]"},
		{"trailing abstraction", `f \x. x`, A(V(0), L("x", V(0))), "[f]"},
		{"left assoc", `a b c`, A(V(2), V(1), V(0)), "[a, b, c]"},
		{"primed identifier", `\x'. x'`, L("x'", V(0)), "[]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ctx, err := Parse(tt.src)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.src, err)
			}
			if Key(got) != Key(tt.want) {
				t.Errorf("Parse(%q) = %s, want %s", tt.src, Key(got), Key(tt.want))
			}
			if ctx.String() != tt.free {
				t.Errorf("context = %s, want %s", ctx, tt.free)
			}
		})
	}
}

func TestParseLabels(t *testing.T) {
	got := MustParse(`\f. \x. f x`)
	abs, ok := got.(Abs)
	if !ok || abs.Label != "f" {
		t.Fatalf("outer = %#v, want abstraction labelled f", got)
	}
	if inner, ok := abs.Body.(Abs); !ok || inner.Label != "x" {
		t.Errorf("inner = %#v, want abstraction labelled x", abs.Body)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"empty", ""},
		{"missing binder", `\. x`},
		{"missing dot", `\x x`},
		{"unclosed paren", `(x`},
		{"stray paren", `x)`},
		{"bad character", `x $ y`},
		{"empty body", `\x.`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Parse(tt.src)
			if err == nil {
				t.Fatalf("Parse(%q) error = nil, want parse error", tt.src)
			}
			if !errors.Is(err, errors.ErrCodeParse) {
				t.Errorf("Parse(%q) code = %v, want %v", tt.src, errors.GetCode(err), errors.ErrCodeParse)
			}
		})
	}
}

func TestParseWithMacros(t *testing.T) {
	macros := MacroMap{
		"I": MustParse(`\x. x`),
		"K": MustParse(`\x y. x`),
	}

	got, ctx, err := Parse(`K I y`, WithMacros(macros))
	if err != nil {
		t.Fatal(err)
	}
	want := A(L("x", L("y", V(1))), L("x", V(0)), V(0))
	if !Equal(got, want) {
		t.Errorf("Parse() = %s, want %s", PrintIndices(got), PrintIndices(want))
	}
	if ctx.String() != "[y]" {
		t.Errorf("context = %s, want [y]", ctx)
	}

	shadowed, _, err := Parse(`\I. I`, WithMacros(macros))
	if err != nil {
		t.Fatal(err)
	}
	if Key(shadowed) != "λ0" {
		t.Errorf("bound name expanded as macro: %s", Key(shadowed))
	}
}

func TestParseOpenMacro(t *testing.T) {
	_, _, err := Parse(`B`, WithMacros(MacroMap{"B": V(0)}))
	if !errors.Is(err, errors.ErrCodeInvalidTerm) {
		t.Errorf("Parse() error = %v, want %v", err, errors.ErrCodeInvalidTerm)
	}
}

func TestParseWithFree(t *testing.T) {
	got, ctx, err := Parse(`y z`, WithFree("z"))
	if err != nil {
		t.Fatal(err)
	}
	if ctx.String() != "[z, y]" {
		t.Errorf("context = %s, want [z, y]", ctx)
	}
	if Print(got, ctx) != "y z" {
		t.Errorf("Print() = %q, want %q", Print(got, ctx), "y z")
	}
}
