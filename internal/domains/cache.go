package domains

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"urlcanon/internal/normalizer"
)

// CachedParser memoizes successful breakdowns of another parser. Failures
// are not cached.
type CachedParser struct {
	next  normalizer.HostParser
	cache *lru.Cache[string, normalizer.HostBreakdown]
}

// NewCachedParser wraps next in an LRU cache holding up to size hosts.
func NewCachedParser(next normalizer.HostParser, size int) (*CachedParser, error) {
	cache, err := lru.New[string, normalizer.HostBreakdown](size)
	if err != nil {
		return nil, err
	}
	return &CachedParser{next: next, cache: cache}, nil
}

// ParseHost implements normalizer.HostParser.
func (c *CachedParser) ParseHost(host string) (normalizer.HostBreakdown, error) {
	if b, ok := c.cache.Get(host); ok {
		return b, nil
	}
	b, err := c.next.ParseHost(host)
	if err != nil {
		return b, err
	}
	c.cache.Add(host, b)
	return b, nil
}

// Len returns the number of cached hosts.
func (c *CachedParser) Len() int {
	return c.cache.Len()
}
