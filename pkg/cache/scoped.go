package cache

// ScopedKeyer prefixes every key, giving each server session its own
// namespace in a shared backend:
//
//	k := NewScopedKeyer(NewDefaultKeyer(), "session:"+id+":")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or the default keyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// ChartKey implements Keyer.
func (k *ScopedKeyer) ChartKey(options any) string {
	return k.prefix + k.inner.ChartKey(options)
}

// ArtifactKey implements Keyer.
func (k *ScopedKeyer) ArtifactKey(chartKey string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(chartKey, opts)
}
