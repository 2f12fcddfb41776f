package cache

// ScopedKeyer wraps a Keyer with a prefix so separate contexts (per-tenant
// server deployments, test fixtures) get isolated cache namespaces.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer whose keys all carry the given prefix.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// FragmentKey generates a prefixed key for extraction results.
func (k *ScopedKeyer) FragmentKey(pageHash string, opts FragmentKeyOpts) string {
	return k.prefix + k.inner.FragmentKey(pageHash, opts)
}

// SectionKey generates a prefixed key for section layouts.
func (k *ScopedKeyer) SectionKey(boreholesHash string) string {
	return k.prefix + k.inner.SectionKey(boreholesHash)
}

// ArtifactKey generates a prefixed key for rendered artifacts.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}

var _ Keyer = (*ScopedKeyer)(nil)
