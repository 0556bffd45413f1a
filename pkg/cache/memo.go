package cache

import lru "github.com/hashicorp/golang-lru/v2"

// DefaultMemoEntries bounds a [Memo] created with size 0.
const DefaultMemoEntries = 4096

// Memo is a typed LRU keyed by string. It is safe for concurrent use.
//
// A *Memo[[]reduction.Successor] satisfies reduction.Memo.
type Memo[V any] struct {
	entries *lru.Cache[string, V]
}

// NewMemo creates a memo of at most size entries.
func NewMemo[V any](size int) (*Memo[V], error) {
	if size <= 0 {
		size = DefaultMemoEntries
	}
	entries, err := lru.New[string, V](size)
	if err != nil {
		return nil, err
	}
	return &Memo[V]{entries: entries}, nil
}

// Get returns the value stored under key.
func (m *Memo[V]) Get(key string) (V, bool) { return m.entries.Get(key) }

// Add stores value under key, evicting the least recently used entry when
// the memo is full.
func (m *Memo[V]) Add(key string, value V) { m.entries.Add(key, value) }

// Len returns the number of entries.
func (m *Memo[V]) Len() int { return m.entries.Len() }

// Purge drops every entry.
func (m *Memo[V]) Purge() { m.entries.Purge() }
