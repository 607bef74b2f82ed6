package cache

// ScopedKeyer prefixes every key of an inner Keyer, so several genposter
// servers can share one Redis without reading each other's artifacts.
//
//	keyer := NewScopedKeyer(nil, "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or the default keyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = DefaultKeyer{}
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) ArtifactKey(configHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(configHash, opts)
}

func (k *ScopedKeyer) PreviewKey(artifactHash string, width int) string {
	return k.prefix + k.inner.PreviewKey(artifactHash, width)
}
