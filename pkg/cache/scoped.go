package cache

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation.
// This is useful in server deployments where different projects or users
// need separate cache namespaces.
//
// Example usage:
//
//	// Project-specific keys
//	projectKeyer := NewScopedKeyer(NewDefaultKeyer(), "proj:sub-440kv:")
//
//	// Global keys
//	globalKeyer := NewDefaultKeyer()
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// ResultKey generates a prefixed key for recalculation result caching.
func (k *ScopedKeyer) ResultKey(inputHash string, opts ResultKeyOpts) string {
	return k.prefix + k.inner.ResultKey(inputHash, opts)
}

// SectionKey generates a prefixed key for cross-section layout caching.
func (k *ScopedKeyer) SectionKey(edgeHash string, opts SectionKeyOpts) string {
	return k.prefix + k.inner.SectionKey(edgeHash, opts)
}

// CatalogKey generates a prefixed key for merged catalog caching.
func (k *ScopedKeyer) CatalogKey(contentHash string, opts CatalogKeyOpts) string {
	return k.prefix + k.inner.CatalogKey(contentHash, opts)
}
