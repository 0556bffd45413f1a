package macro

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"

	terrors "github.com/matzehuels/termmap/pkg/errors"
)

// FileStore keeps macros in a TOML file:
//
//	[[macro]]
//	name = "twice"
//	source = '\f x. f (f x)'
//
// The file is read on every call and replaced atomically on writes, so
// several processes may share it as long as they do not write concurrently.
type FileStore struct {
	mu   sync.Mutex
	path string
}

type fileDoc struct {
	Macros []Macro `toml:"macro"`
}

// NewFileStore returns a store backed by path. The file need not exist.
func NewFileStore(path string) (*FileStore, error) {
	if err := terrors.ValidatePath(path); err != nil {
		return nil, err
	}
	return &FileStore{path: path}, nil
}

// Path returns the backing file.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) load() (map[string]Macro, error) {
	out := make(map[string]Macro)
	var doc fileDoc
	if _, err := toml.DecodeFile(s.path, &doc); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return out, nil
		}
		return nil, terrors.Wrap(terrors.ErrCodeStorage, err, "read macros from %s", s.path)
	}
	for _, m := range doc.Macros {
		out[m.Name] = m
	}
	return out, nil
}

func (s *FileStore) save(macros map[string]Macro) error {
	doc := fileDoc{Macros: make([]Macro, 0, len(macros))}
	for _, m := range macros {
		doc.Macros = append(doc.Macros, Macro{Name: m.Name, Source: m.Source})
	}
	sortByName(doc.Macros)

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
		return terrors.Wrap(terrors.ErrCodeStorage, err, "encode macros")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return terrors.Wrap(terrors.ErrCodeStorage, err, "create %s", filepath.Dir(s.path))
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return terrors.Wrap(terrors.ErrCodeStorage, err, "write %s", tmp)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return terrors.Wrap(terrors.ErrCodeStorage, err, "replace %s", s.path)
	}
	return nil
}

func (s *FileStore) Get(_ context.Context, name string) (Macro, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	macros, err := s.load()
	if err != nil {
		return Macro{}, err
	}
	m, ok := macros[name]
	if !ok {
		return Macro{}, notFound(name)
	}
	return m, nil
}

func (s *FileStore) Put(_ context.Context, m Macro) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	macros, err := s.load()
	if err != nil {
		return err
	}
	macros[m.Name] = m
	return s.save(macros)
}

func (s *FileStore) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	macros, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := macros[name]; !ok {
		return notFound(name)
	}
	delete(macros, name)
	return s.save(macros)
}

func (s *FileStore) List(_ context.Context) ([]Macro, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	macros, err := s.load()
	if err != nil {
		return nil, err
	}
	out := make([]Macro, 0, len(macros))
	for _, m := range macros {
		out = append(out, m)
	}
	sortByName(out)
	return out, nil
}

func (s *FileStore) Close() error { return nil }
