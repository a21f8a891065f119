// Package pricing exposes the single entry point that turns an Evidence
// bundle into a Decision.
package pricing

import (
	"fmt"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/erikubingf-del/yudor-betting-system-sub000/internal/statmodel"
)

// ModelKey identifies one fitted model slice.
type ModelKey struct {
	League string
	Season string
	Cutoff string
}

// String returns the cache key representation.
func (k ModelKey) String() string {
	return fmt.Sprintf("%s:%s:%s", k.League, k.Season, k.Cutoff)
}

// ModelCache caches fitted models by (league, season, cutoff). Models are
// immutable; a cached model may be shared across concurrent Price calls.
type ModelCache struct {
	cache *cache.Cache
}

// NewModelCache creates a model cache with the given TTL.
func NewModelCache(ttl time.Duration) *ModelCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &ModelCache{cache: cache.New(ttl, ttl*2)}
}

// Get returns a cached model.
func (c *ModelCache) Get(key ModelKey) (*statmodel.Model, bool) {
	if v, found := c.cache.Get(key.String()); found {
		if model, ok := v.(*statmodel.Model); ok {
			return model, true
		}
	}
	return nil, false
}

// GetByLeague returns the cached model for a league under the lexically
// highest key. Keys embed the cutoff date in YYYY-MM-DD form, so when two
// slices of the same league overlap inside the TTL the newest fit wins and
// repeated calls always select the same model. Used when the caller does not
// track seasons.
func (c *ModelCache) GetByLeague(league string) (*statmodel.Model, bool) {
	var bestKey string
	var best *statmodel.Model
	for key, item := range c.cache.Items() {
		model, ok := item.Object.(*statmodel.Model)
		if !ok {
			continue
		}
		if model.League != league && keyLeague(key) != league {
			continue
		}
		if best == nil || key > bestKey {
			bestKey = key
			best = model
		}
	}
	return best, best != nil
}

// Set stores a fitted model.
func (c *ModelCache) Set(key ModelKey, model *statmodel.Model) {
	c.cache.Set(key.String(), model, cache.DefaultExpiration)
}

// Len returns the number of cached models.
func (c *ModelCache) Len() int {
	return c.cache.ItemCount()
}

// Keys returns the stored cache keys.
func (c *ModelCache) Keys() []string {
	items := c.cache.Items()
	keys := make([]string, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}
	return keys
}

func keyLeague(key string) string {
	for i := 0; i < len(key); i++ {
		if key[i] == ':' {
			return key[:i]
		}
	}
	return key
}
