package metadata

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Search results are memoized for ten minutes, keyed by the normalized
// title-author pair. Expired entries are swept in the background.
const (
	cacheTTL           = 10 * time.Minute
	cacheSweepInterval = 10 * time.Minute
)

// resultCache memoizes full pipeline results so repeated identical queries
// skip all outbound fetches within the TTL.
type resultCache struct {
	store *gocache.Cache
}

func newResultCache() *resultCache {
	return &resultCache{store: gocache.New(cacheTTL, cacheSweepInterval)}
}

func (c *resultCache) get(key string) ([]BookMetadata, bool) {
	value, ok := c.store.Get(key)
	if !ok {
		return nil, false
	}
	return value.([]BookMetadata), true
}

func (c *resultCache) set(key string, matches []BookMetadata) {
	c.store.Set(key, matches, gocache.DefaultExpiration)
}
