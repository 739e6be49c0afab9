package nominatim

import (
	"context"
	"testing"

	"github.com/NikhilGolait/KisanMitra/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mock for cache tests ---

type countingGeocoder struct {
	reverseCalls int
	forwardCalls int
	candidate    domain.PlaceCandidate
}

func (m *countingGeocoder) ReverseGeocode(_ context.Context, _ domain.GeoPoint) (domain.PlaceCandidate, error) {
	m.reverseCalls++
	return m.candidate, nil
}

func (m *countingGeocoder) ForwardGeocode(_ context.Context, _ string) (domain.PlaceCandidate, error) {
	m.forwardCalls++
	return m.candidate, nil
}

// --- CachedGeocoder tests ---

func TestCachedGeocoder_ReverseCacheHit(t *testing.T) {
	inner := &countingGeocoder{
		candidate: domain.PlaceCandidate{DisplayName: "Wardha, Maharashtra"},
	}
	cached := NewCachedGeocoder(inner, 10, testMetrics())
	point := domain.GeoPoint{Latitude: 20.7453, Longitude: 78.6022}

	c1, err := cached.ReverseGeocode(context.Background(), point)
	require.NoError(t, err)
	assert.Equal(t, "Wardha, Maharashtra", c1.DisplayName)

	_, err = cached.ReverseGeocode(context.Background(), point)
	require.NoError(t, err)

	assert.Equal(t, 1, inner.reverseCalls, "should only call inner once")
}

func TestCachedGeocoder_ForwardCacheHit(t *testing.T) {
	inner := &countingGeocoder{
		candidate: domain.PlaceCandidate{DisplayName: "Wardha, Maharashtra"},
	}
	cached := NewCachedGeocoder(inner, 10, testMetrics())

	_, err := cached.ForwardGeocode(context.Background(), "Wardha")
	require.NoError(t, err)
	_, err = cached.ForwardGeocode(context.Background(), "Wardha")
	require.NoError(t, err)

	assert.Equal(t, 1, inner.forwardCalls, "should only call inner once")
}

func TestCachedGeocoder_EmptyResultNotCached(t *testing.T) {
	inner := &countingGeocoder{} // empty candidate
	cached := NewCachedGeocoder(inner, 10, testMetrics())

	_, _ = cached.ForwardGeocode(context.Background(), "nowhere")
	_, _ = cached.ForwardGeocode(context.Background(), "nowhere")

	assert.Equal(t, 2, inner.forwardCalls, "empty results should be retried")
}

func TestCachedGeocoder_DifferentKeysMiss(t *testing.T) {
	inner := &countingGeocoder{
		candidate: domain.PlaceCandidate{DisplayName: "Somewhere"},
	}
	cached := NewCachedGeocoder(inner, 10, testMetrics())

	_, _ = cached.ReverseGeocode(context.Background(), domain.GeoPoint{Latitude: 20, Longitude: 78})
	_, _ = cached.ReverseGeocode(context.Background(), domain.GeoPoint{Latitude: 21, Longitude: 78})

	assert.Equal(t, 2, inner.reverseCalls)
}

// --- LRU cache unit tests ---

func TestLRUCache_BasicGetPut(t *testing.T) {
	c := newLRUCache(3)

	c.put("a", domain.PlaceCandidate{DisplayName: "A"})
	c.put("b", domain.PlaceCandidate{DisplayName: "B"})

	candidate, ok := c.get("a")
	assert.True(t, ok)
	assert.Equal(t, "A", candidate.DisplayName)

	_, ok = c.get("missing")
	assert.False(t, ok)
}

func TestLRUCache_Eviction(t *testing.T) {
	c := newLRUCache(2)

	c.put("a", domain.PlaceCandidate{DisplayName: "A"})
	c.put("b", domain.PlaceCandidate{DisplayName: "B"})
	c.put("c", domain.PlaceCandidate{DisplayName: "C"}) // evicts "a"

	_, ok := c.get("a")
	assert.False(t, ok, "a should have been evicted")

	candidate, ok := c.get("b")
	assert.True(t, ok)
	assert.Equal(t, "B", candidate.DisplayName)
}

func TestLRUCache_AccessPromotesEntry(t *testing.T) {
	c := newLRUCache(2)

	c.put("a", domain.PlaceCandidate{DisplayName: "A"})
	c.put("b", domain.PlaceCandidate{DisplayName: "B"})

	// Access "a" to promote it
	c.get("a")

	// Insert "c", which should evict "b" (LRU), not "a"
	c.put("c", domain.PlaceCandidate{DisplayName: "C"})

	_, ok := c.get("a")
	assert.True(t, ok, "a was accessed recently, should not be evicted")

	_, ok = c.get("b")
	assert.False(t, ok, "b should have been evicted")
}

func TestLRUCache_UpdateExisting(t *testing.T) {
	c := newLRUCache(2)

	c.put("a", domain.PlaceCandidate{DisplayName: "A1"})
	c.put("a", domain.PlaceCandidate{DisplayName: "A2"})

	candidate, ok := c.get("a")
	assert.True(t, ok)
	assert.Equal(t, "A2", candidate.DisplayName)
}
