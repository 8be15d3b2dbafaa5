package loom

// CacheScope is the visibility of a cached GraphQL response.
type CacheScope string

// Cache scopes.
const (
	CacheScopePublic  CacheScope = "PUBLIC"
	CacheScopePrivate CacheScope = "PRIVATE"
)

// CacheHint describes how long a response may be cached.
type CacheHint struct {
	MaxAge int        `yaml:"maxAge" json:"maxAge"`
	Scope  CacheScope `yaml:"scope,omitempty" json:"scope,omitempty"`
}

// CacheHintArgs is passed to a CacheHintFunc when a model is resolved.
type CacheHintArgs struct {
	Results       any
	OperationName string
	Meta          bool
}

// CacheHintFunc computes a cache hint from the resolved results.
type CacheHintFunc func(CacheHintArgs) CacheHint

// StaticCacheHint wraps a constant hint in a CacheHintFunc.
func StaticCacheHint(h CacheHint) CacheHintFunc {
	return func(CacheHintArgs) CacheHint { return h }
}
