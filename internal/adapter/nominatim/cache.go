package nominatim

import (
	"context"
	"fmt"
	"sync"

	"github.com/NikhilGolait/KisanMitra/internal/domain"
	"github.com/NikhilGolait/KisanMitra/internal/observability"
)

// CachedGeocoder wraps a Geocoder with an in-memory LRU cache.
type CachedGeocoder struct {
	inner   domain.Geocoder
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedGeocoder creates a cache decorator around a geocoder.
func NewCachedGeocoder(inner domain.Geocoder, maxEntries int, metrics *observability.Metrics) *CachedGeocoder {
	return &CachedGeocoder{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
	}
}

func (c *CachedGeocoder) ReverseGeocode(ctx context.Context, point domain.GeoPoint) (domain.PlaceCandidate, error) {
	key := fmt.Sprintf("rev:%.6f,%.6f", point.Latitude, point.Longitude)
	if candidate, ok := c.cache.get(key); ok {
		c.metrics.GeocodeCache.WithLabelValues("reverse", "hit").Inc()
		return candidate, nil
	}
	c.metrics.GeocodeCache.WithLabelValues("reverse", "miss").Inc()

	candidate, err := c.inner.ReverseGeocode(ctx, point)
	if err != nil {
		return candidate, err
	}
	// Only cache non-empty results so transient "not found" responses can be retried.
	if candidate.DisplayName != "" {
		c.cache.put(key, candidate)
	}
	return candidate, nil
}

func (c *CachedGeocoder) ForwardGeocode(ctx context.Context, query string) (domain.PlaceCandidate, error) {
	key := "fwd:" + query
	if candidate, ok := c.cache.get(key); ok {
		c.metrics.GeocodeCache.WithLabelValues("forward", "hit").Inc()
		return candidate, nil
	}
	c.metrics.GeocodeCache.WithLabelValues("forward", "miss").Inc()

	candidate, err := c.inner.ForwardGeocode(ctx, query)
	if err != nil {
		return candidate, err
	}
	if candidate.DisplayName != "" {
		c.cache.put(key, candidate)
	}
	return candidate, nil
}

// lruCache is a simple thread-safe LRU cache for place candidates.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   string
	value domain.PlaceCandidate
	prev  *entry
	next  *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) (domain.PlaceCandidate, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return domain.PlaceCandidate{}, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key string, value domain.PlaceCandidate) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
