package lambda

import (
	"slices"
	"testing"
)

func TestKey(t *testing.T) {
	tests := []struct {
		name string
		term Term
		want string
	}{
		{"var", V(3), "3"},
		{"identity", L("x", V(0)), "λ0"},
		{"app", A(V(0), V(1)), "(0 1)"},
		{"nested", A(L("x", A(V(0), V(0))), L("y", V(0))), "(λ(0 0) λ0)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Key(tt.term); got != tt.want {
				t.Errorf("Key() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKeyIgnoresLabels(t *testing.T) {
	a := L("x", L("y", V(1)))
	b := L("p", L("q", V(1)))
	if Key(a) != Key(b) {
		t.Errorf("Key(%v) != Key(%v)", a, b)
	}
	if !Equal(a, b) {
		t.Error("Equal() = false, want true for alpha-equivalent terms")
	}
	if Equal(a, L("x", L("y", V(0)))) {
		t.Error("Equal() = true for distinct terms")
	}
}

func TestNamedKey(t *testing.T) {
	tests := []struct {
		name string
		term Term
		want string
	}{
		{"var", V(3), "3"},
		{"identity", L("x", V(0)), `λ"x".0`},
		{"nested", A(L("x", V(0)), L("y'", V(0))), `(λ"x".0 λ"y'".0)`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NamedKey(tt.term); got != tt.want {
				t.Errorf("NamedKey() = %q, want %q", got, tt.want)
			}
		})
	}

	if NamedKey(L("x", V(0))) == NamedKey(L("q", V(0))) {
		t.Error("NamedKey() should separate alpha-equivalent terms with different labels")
	}
}

func TestIsRedex(t *testing.T) {
	if !IsRedex(A(L("x", V(0)), V(0))) {
		t.Error("IsRedex((λx. x) y) = false, want true")
	}
	if IsRedex(A(V(0), L("x", V(0)))) {
		t.Error("IsRedex(y (λx. x)) = true, want false")
	}
	if IsRedex(L("x", V(0))) {
		t.Error("IsRedex(λx. x) = true, want false")
	}
}

func TestFreeIndices(t *testing.T) {
	term := L("x", A(V(0), V(2), V(1), V(2)))
	if got, want := FreeIndices(term), []int{0, 1}; !slices.Equal(got, want) {
		t.Errorf("FreeIndices() = %v, want %v", got, want)
	}
	if !IsClosed(L("x", L("y", V(1)))) {
		t.Error("IsClosed(K) = false, want true")
	}
}

func TestSize(t *testing.T) {
	if got := Size(A(L("x", V(0)), V(0))); got != 4 {
		t.Errorf("Size() = %d, want 4", got)
	}
}

func TestContextLookup(t *testing.T) {
	ctx := NewContext("y", "z")
	ctx.Push(Binding{ID: "x", Label: "x"})

	tests := []struct {
		index    int
		label    string
		position int
		free     bool
	}{
		{0, "x", 2, false},
		{1, "z", 1, true},
		{2, "y", 0, true},
	}
	for _, tt := range tests {
		b, pos, ok := ctx.Lookup(tt.index)
		if !ok {
			t.Fatalf("Lookup(%d) not found", tt.index)
		}
		if b.Label != tt.label || pos != tt.position || b.Free != tt.free {
			t.Errorf("Lookup(%d) = (%v, %d), want (%s, %d, free=%v)", tt.index, b, pos, tt.label, tt.position, tt.free)
		}
	}
	if _, _, ok := ctx.Lookup(3); ok {
		t.Error("Lookup(3) found an entry past the bottom")
	}

	if got := ctx.Pop(); got.Label != "x" {
		t.Errorf("Pop() = %v, want x", got)
	}
	if ctx.Len() != 2 {
		t.Errorf("Len() = %d, want 2", ctx.Len())
	}
}

func TestContextClone(t *testing.T) {
	ctx := NewContext("y")
	clone := ctx.Clone()
	clone.Push(Binding{ID: "x", Label: "x"})
	if ctx.Len() != 1 {
		t.Errorf("original Len() = %d after pushing onto clone, want 1", ctx.Len())
	}
	if got := clone.String(); got != "[y, x]" {
		t.Errorf("String() = %q, want %q", got, "[y, x]")
	}
}

func TestContextFresh(t *testing.T) {
	ctx := NewContext("x", "x'")
	if got := ctx.Fresh("x"); got != "x''" {
		t.Errorf("Fresh(x) = %q, want x''", got)
	}
	if got := ctx.Fresh(""); got != "x''" {
		t.Errorf("Fresh(\"\") = %q, want x''", got)
	}
	if got := ctx.Fresh("y"); got != "y" {
		t.Errorf("Fresh(y) = %q, want y", got)
	}
}

func TestMeasure(t *testing.T) {
	term, _, err := Parse(`(\x. x) y`)
	if err != nil {
		t.Fatal(err)
	}
	got := Measure(term)
	want := Stats{
		Abstractions:  1,
		Applications:  1,
		Variables:     2,
		FreeVariables: 1,
		DistinctFree:  1,
		BetaRedexes:   1,
		Depth:         3,
	}
	if got != want {
		t.Errorf("Measure() = %+v, want %+v", got, want)
	}
}
