package macro

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	terrors "github.com/matzehuels/termmap/pkg/errors"
	"github.com/matzehuels/termmap/pkg/lambda"
)

func TestBuiltinsAreClosed(t *testing.T) {
	for _, m := range Builtins() {
		if !lambda.IsClosed(m.Term) {
			t.Errorf("builtin %s is not closed", m.Name)
		}
	}
	if !IsBuiltin("Omega") || IsBuiltin("omega") {
		t.Error("IsBuiltin is case-sensitive")
	}
	names := BuiltinNames()
	if len(names) != len(Builtins()) || names[0] != "I" {
		t.Errorf("BuiltinNames() = %v", names)
	}
}

func TestBuiltinArithmetic(t *testing.T) {
	macros, err := Resolve(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		src  string
		want string
	}{
		{"plus c1 c2", "c3"},
		{"succ c2", "c3"},
		{"succ c0", "c1"},
		{"K I Omega", "I"},
		{"S K K c2", "c2"},
		{"true c1 c2", "c1"},
		{"false c1 c2", "c2"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			term, _, err := lambda.Parse(tt.src, lambda.WithMacros(macros))
			if err != nil {
				t.Fatal(err)
			}
			got, _, err := lambda.Normalize(term, 0)
			if err != nil {
				t.Fatal(err)
			}
			if !lambda.Equal(got, macros[tt.want]) {
				t.Errorf("%s = %s, want %s", tt.src, lambda.PrintIndices(got), tt.want)
			}
		})
	}
}

func TestDefine(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	twice, err := Define(ctx, s, "twice", `\f x. f (f x)`)
	if err != nil {
		t.Fatalf("Define(twice): %v", err)
	}
	macros, _ := Resolve(ctx, NewMemoryStore())
	if !lambda.Equal(twice.Term, macros["c2"]) {
		t.Error("twice should equal c2")
	}

	if _, err := Define(ctx, s, "four", "twice twice"); err != nil {
		t.Fatalf("Define(four): %v", err)
	}
	stored, err := s.List(ctx)
	if err != nil || len(stored) != 2 {
		t.Fatalf("List() = %v, %v", stored, err)
	}

	tests := []struct {
		name, src string
		code      terrors.Code
	}{
		{"1bad", "I", terrors.ErrCodeInvalidMacro},
		{"open", `\x. y`, terrors.ErrCodeInvalidTerm},
		{"broken", `\x x`, terrors.ErrCodeParse},
		{"empty", " ", terrors.ErrCodeInvalidInput},
		{"self", `\x. self x`, terrors.ErrCodeInvalidMacro},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Define(ctx, s, tt.name, tt.src)
			if !terrors.Is(err, tt.code) {
				t.Errorf("Define(%s) err = %v, want %s", tt.name, err, tt.code)
			}
			if _, err := s.Get(ctx, tt.name); !terrors.Is(err, terrors.ErrCodeMacroNotFound) {
				t.Error("rejected macro was stored")
			}
		})
	}
}

func TestResolveShadowsBuiltins(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(Macro{Name: "I", Source: `\a b. a`})
	macros, err := Resolve(ctx, s)
	if err != nil {
		t.Fatal(err)
	}
	if !lambda.Equal(macros["I"], macros["K"]) {
		t.Error("stored I should shadow the builtin")
	}
}

func TestResolveCycle(t *testing.T) {
	s := NewMemoryStore(
		Macro{Name: "A", Source: `\x. B x`},
		Macro{Name: "B", Source: `\x. A x`},
	)
	_, err := Resolve(context.Background(), s)
	if !terrors.Is(err, terrors.ErrCodeInvalidMacro) {
		t.Errorf("err = %v, want INVALID_MACRO", err)
	}
}

func testStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := s.Get(ctx, "I"); !terrors.Is(err, terrors.ErrCodeMacroNotFound) {
		t.Errorf("Get on empty store err = %v", err)
	}
	for _, m := range []Macro{{Name: "twice", Source: `\f x. f (f x)`}, {Name: "id", Source: `\x. x`}} {
		if err := s.Put(ctx, m); err != nil {
			t.Fatalf("Put(%s): %v", m.Name, err)
		}
	}
	if err := s.Put(ctx, Macro{Name: "id", Source: `λy. y`}); err != nil {
		t.Fatalf("replace: %v", err)
	}

	got, err := s.Get(ctx, "id")
	if err != nil || got.Source != `λy. y` {
		t.Errorf("Get(id) = %+v, %v", got, err)
	}
	list, err := s.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].Name != "id" || list[1].Name != "twice" {
		t.Errorf("List() = %+v, want [id twice]", list)
	}

	if err := s.Delete(ctx, "id"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ctx, "id"); !terrors.Is(err, terrors.ErrCodeMacroNotFound) {
		t.Errorf("second Delete err = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "macros.toml")
	s, err := NewFileStore(path)
	if err != nil {
		t.Fatal(err)
	}
	testStore(t, s)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "[[macro]]") || !strings.Contains(string(data), `name = "twice"`) {
		t.Errorf("file contents:\n%s", data)
	}

	reopened, _ := NewFileStore(path)
	m, err := reopened.Get(context.Background(), "twice")
	if err != nil || m.Source != `\f x. f (f x)` {
		t.Errorf("reopened Get = %+v, %v", m, err)
	}
}

func TestFileStoreCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "macros.toml")
	if err := os.WriteFile(path, []byte("[[macro]\nname ="), 0o644); err != nil {
		t.Fatal(err)
	}
	s, _ := NewFileStore(path)
	if _, err := s.List(context.Background()); !terrors.Is(err, terrors.ErrCodeStorage) {
		t.Errorf("err = %v, want STORAGE_ERROR", err)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"default", Config{}, false},
		{"memory", Config{Backend: BackendMemory}, false},
		{"file", Config{Backend: BackendFile, Path: filepath.Join(t.TempDir(), "m.toml")}, false},
		{"redis without url", Config{Backend: BackendRedis}, true},
		{"mongo without url", Config{Backend: BackendMongo}, true},
		{"unknown", Config{Backend: "etcd"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Open(ctx, tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Open() error = %v, wantErr %v", err, tt.wantErr)
			}
			if s != nil {
				s.Close()
			}
		})
	}
}
