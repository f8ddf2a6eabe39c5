package cache

// ScopedKeyer prefixes every key of an inner Keyer. The CLI scopes keys by
// release so an image rendered by one version is never served by another:
//
//	keyer := NewScopedKeyer(nil, buildinfo.CacheScope())
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer scopes inner (the DefaultKeyer when nil) under prefix. An
// empty prefix adds nothing, so inner is returned as is.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	if prefix == "" {
		return inner
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// ArtifactKey implements Keyer.
func (k *ScopedKeyer) ArtifactKey(opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(opts)
}
