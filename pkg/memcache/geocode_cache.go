// pkg/memcache/geocode_cache.go
package mem

import (
	"strings"
	"sync"
	"time"
)

// GeocodeStore remembers geocoding answers per location name, including
// "not found" answers, until their ttl runs out.
type GeocodeStore interface {
	Set(name string, lat, lng float64, found bool, ttl time.Duration)

	// Get returns the cached answer. ok is false when nothing (unexpired) is cached.
	Get(name string) (lat, lng float64, found, ok bool)

	Len() int
}

type geoEntry struct {
	lat       float64
	lng       float64
	found     bool
	expiresAt time.Time
}

type GeocodeCache struct {
	mu   sync.RWMutex
	data map[string]geoEntry
	now  func() time.Time
}

func NewGeocodeCache() *GeocodeCache {
	return &GeocodeCache{
		data: make(map[string]geoEntry),
		now:  time.Now,
	}
}

func cacheKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

func (c *GeocodeCache) Set(name string, lat, lng float64, found bool, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[cacheKey(name)] = geoEntry{
		lat:       lat,
		lng:       lng,
		found:     found,
		expiresAt: c.now().Add(ttl),
	}
}

func (c *GeocodeCache) Get(name string) (float64, float64, bool, bool) {
	key := cacheKey(name)

	c.mu.RLock()
	e, ok := c.data[key]
	c.mu.RUnlock()
	if !ok {
		return 0, 0, false, false
	}
	if c.now().After(e.expiresAt) {
		c.mu.Lock()
		delete(c.data, key) // cleanup expired
		c.mu.Unlock()
		return 0, 0, false, false
	}
	return e.lat, e.lng, e.found, true
}

func (c *GeocodeCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}
