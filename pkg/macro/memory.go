package macro

import (
	"context"
	"sync"
)

// MemoryStore keeps macros in a map.
type MemoryStore struct {
	mu     sync.RWMutex
	macros map[string]Macro
}

// NewMemoryStore returns a store holding ms.
func NewMemoryStore(ms ...Macro) *MemoryStore {
	s := &MemoryStore{macros: make(map[string]Macro, len(ms))}
	for _, m := range ms {
		s.macros[m.Name] = Macro{Name: m.Name, Source: m.Source}
	}
	return s
}

func (s *MemoryStore) Get(_ context.Context, name string) (Macro, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.macros[name]
	if !ok {
		return Macro{}, notFound(name)
	}
	return m, nil
}

func (s *MemoryStore) Put(_ context.Context, m Macro) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.macros[m.Name] = Macro{Name: m.Name, Source: m.Source}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.macros[name]; !ok {
		return notFound(name)
	}
	delete(s.macros, name)
	return nil
}

func (s *MemoryStore) List(_ context.Context) ([]Macro, error) {
	s.mu.RLock()
	out := make([]Macro, 0, len(s.macros))
	for _, m := range s.macros {
		out = append(out, m)
	}
	s.mu.RUnlock()
	sortByName(out)
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }
