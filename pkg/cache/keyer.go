package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Keyer derives cache keys for each kind of cached output.
type Keyer interface {
	// MapKey keys a compiled term map.
	MapKey(termKey string, opts MapKeyOpts) string

	// ReductionKey keys a reduction graph.
	ReductionKey(termKey string, opts ReductionKeyOpts) string

	// ArtifactKey keys a rendered artifact of a cached document.
	ArtifactKey(docHash string, opts ArtifactKeyOpts) string
}

// MapKeyOpts holds the options that change a term map.
type MapKeyOpts struct {
	Free      []string `json:"free,omitempty"`
	DistanceX float64  `json:"dx"`
	DistanceY float64  `json:"dy"`
}

// ReductionKeyOpts holds the options that change a reduction graph.
type ReductionKeyOpts struct {
	Free        []string `json:"free,omitempty"`
	MaxVertices int      `json:"max_vertices"`
	MaxEdges    int      `json:"max_edges"`
	MaxLevel    int      `json:"max_level"`
}

// ArtifactKeyOpts holds the options that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	Style  string `json:"style,omitempty"`
}

// DefaultKeyer hashes key components into "kind:sha256" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) MapKey(termKey string, opts MapKeyOpts) string {
	return hashKey("map", termKey, opts)
}

func (DefaultKeyer) ReductionKey(termKey string, opts ReductionKeyOpts) string {
	return hashKey("reduction", termKey, opts)
}

func (DefaultKeyer) ArtifactKey(docHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", docHash, opts)
}

// ScopedKeyer prefixes every key of an inner Keyer, giving separate
// namespaces to callers sharing one cache.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer selects
// the default.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) MapKey(termKey string, opts MapKeyOpts) string {
	return k.prefix + k.inner.MapKey(termKey, opts)
}

func (k *ScopedKeyer) ReductionKey(termKey string, opts ReductionKeyOpts) string {
	return k.prefix + k.inner.ReductionKey(termKey, opts)
}

func (k *ScopedKeyer) ArtifactKey(docHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(docHash, opts)
}

// Hash returns the hex SHA-256 digest of data. Layout documents are hashed
// with it so artifacts can be keyed by content.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey builds "kind:digest" from the JSON encoding of parts. The key
// option structs only hold plain fields, so encoding cannot fail.
func hashKey(kind string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return kind + ":" + Hash(data)
}
