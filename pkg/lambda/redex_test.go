package lambda

import (
	"testing"

	"github.com/matzehuels/termmap/pkg/errors"
)

func TestRedexes(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{"none", `\x. x`, nil},
		{"root", `(\x. x) y`, []string{"@"}},
		{"root then argument", `(\x. x) ((\y. y) z)`, []string{"@", "@R"}},
		{"under binder", `\z. (\x. x) z`, []string{"@B"}},
		{"function before argument", `((\x. x) a) ((\y. y) b)`, []string{"@L", "@R"}},
		{"inside function", `(\x. (\y. y) x) a`, []string{"@", "@LB"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			term := MustParse(tt.src)
			rs := Redexes(term)
			if len(rs) != len(tt.want) {
				t.Fatalf("Redexes() = %d redexes, want %d", len(rs), len(tt.want))
			}
			for i, r := range rs {
				if r.Descriptor() != tt.want[i] {
					t.Errorf("redex %d = %s, want %s", i, r.Descriptor(), tt.want[i])
				}
			}
		})
	}
}

func TestReduceAt(t *testing.T) {
	term := MustParse(`(\x. x) ((\y. y) z)`)

	root, err := ReduceAt(term, "")
	if err != nil {
		t.Fatal(err)
	}
	if got := PrintIndices(root); got != "(λ 0) 0" {
		t.Errorf("ReduceAt(@) = %q, want %q", got, "(λ 0) 0")
	}

	arg, err := ReduceAt(term, "R")
	if err != nil {
		t.Fatal(err)
	}
	if got := PrintIndices(arg); got != "(λ 0) 0" {
		t.Errorf("ReduceAt(@R) = %q, want %q", got, "(λ 0) 0")
	}

	if _, err := ReduceAt(term, "L"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("ReduceAt(@L) error = %v, want %v", err, errors.ErrCodeInvalidInput)
	}
	if _, err := ReduceAt(term, "X"); err == nil {
		t.Error("ReduceAt(@X) error = nil, want error")
	}
}

func TestBetaAvoidsCapture(t *testing.T) {
	term, ctx, err := Parse(`(\x. \y. x) y`)
	if err != nil {
		t.Fatal(err)
	}
	next, ok := NormalStep(term)
	if !ok {
		t.Fatal("NormalStep() reported normal form")
	}
	if got := Print(next, ctx); got != "λy'. y" {
		t.Errorf("Print() = %q, want %q", got, "λy'. y")
	}
}

func TestNormalize(t *testing.T) {
	term, ctx, err := Parse(`(\x. \y. x) a b`)
	if err != nil {
		t.Fatal(err)
	}
	nf, steps, err := Normalize(term, 10)
	if err != nil {
		t.Fatal(err)
	}
	if steps != 2 {
		t.Errorf("steps = %d, want 2", steps)
	}
	if got := Print(nf, ctx); got != "a" {
		t.Errorf("normal form = %q, want %q", got, "a")
	}
}

func TestNormalizeDiverges(t *testing.T) {
	omega := MustParse(`(\x. x x) (\x. x x)`)
	_, steps, err := Normalize(omega, 10)
	if !errors.Is(err, errors.ErrCodeResourceExhausted) {
		t.Fatalf("Normalize() error = %v, want %v", err, errors.ErrCodeResourceExhausted)
	}
	if steps != 10 {
		t.Errorf("steps = %d, want 10", steps)
	}
}

func TestRedexLabel(t *testing.T) {
	term, ctx, err := Parse(`\z. (\x. x) z`)
	if err != nil {
		t.Fatal(err)
	}
	rs := Redexes(term)
	if len(rs) != 1 {
		t.Fatalf("Redexes() = %d, want 1", len(rs))
	}
	if got := rs[0].Label(term, ctx); got != "(λx. x) z" {
		t.Errorf("Label() = %q, want %q", got, "(λx. x) z")
	}
	if rs[0].Binders != 1 {
		t.Errorf("Binders = %d, want 1", rs[0].Binders)
	}
}
