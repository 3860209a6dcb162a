package cache

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog/log"

	"github.com/chargemap/chargemap/backend-go/internal/config"
	"github.com/chargemap/chargemap/backend-go/internal/models"
)

// PlaceStore is a persistent cache layer behind the in-process LRU
type PlaceStore interface {
	GetPlace(ctx context.Context, query string) (*models.Place, error)
	SavePlace(ctx context.Context, place models.Place) error
}

// LRUCacheEntry wraps the cached data with metadata
type LRUCacheEntry struct {
	Data      models.Place
	ExpiresAt time.Time
}

// GeocodeCache provides a two-layer cache: an in-process LRU in front of an
// optional persistent store.
type GeocodeCache struct {
	lru          *lru.Cache[string, *LRUCacheEntry]
	store        PlaceStore
	ttl          time.Duration
	enableLRU    bool
	clock        clock
	lruHits      atomic.Uint64
	lruMisses    atomic.Uint64
	dynamoHits   atomic.Uint64
	dynamoMisses atomic.Uint64
}

// NewGeocodeCache builds the cache. store may be nil to run memory-only.
func NewGeocodeCache(cfg *config.CacheConfig, store PlaceStore) (*GeocodeCache, error) {
	if cfg == nil {
		cfg = config.GetCacheConfig()
	}

	size := cfg.GeocodeLRUSize
	if size <= 0 {
		size = 1
	}
	lruCache, err := lru.New[string, *LRUCacheEntry](size)
	if err != nil {
		return nil, fmt.Errorf("creating LRU cache: %w", err)
	}

	return &GeocodeCache{
		lru:       lruCache,
		store:     store,
		ttl:       cfg.GetGeocodeLRUTTL(),
		enableLRU: cfg.EnableLRUCache,
		clock:     systemClock{},
	}, nil
}

// NewGeocodeCacheFromEnv wires the DynamoDB layer when it is enabled.
func NewGeocodeCacheFromEnv(ctx context.Context, cfg *config.CacheConfig) (*GeocodeCache, error) {
	if cfg == nil {
		cfg = config.GetCacheConfig()
	}

	var store PlaceStore
	if cfg.EnableDynamoCache {
		dynamoClient, err := NewDynamoClient(ctx)
		if err != nil {
			return nil, fmt.Errorf("creating DynamoDB client: %w", err)
		}
		store = NewDynamoGeocodeCache(dynamoClient, cfg)
	}
	return NewGeocodeCache(cfg, store)
}

// GetPlace tries the LRU first, then the persistent store. A miss in both
// returns nil without an error.
func (c *GeocodeCache) GetPlace(ctx context.Context, query string) (*models.Place, error) {
	if c.enableLRU {
		if entry, ok := c.lru.Get(query); ok {
			if c.clock.Now().Before(entry.ExpiresAt) {
				c.lruHits.Add(1)
				place := entry.Data
				return &place, nil
			}
			c.lru.Remove(query)
		}
		c.lruMisses.Add(1)
	}

	if c.store == nil {
		return nil, nil
	}

	place, err := c.store.GetPlace(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("getting place from store: %w", err)
	}
	if place == nil {
		c.dynamoMisses.Add(1)
		return nil, nil
	}

	c.dynamoHits.Add(1)
	c.addToLRU(query, *place)
	return place, nil
}

// SavePlace writes to the LRU and the persistent store. A store failure is
// returned but the LRU entry stays.
func (c *GeocodeCache) SavePlace(ctx context.Context, place models.Place) error {
	c.addToLRU(place.Query, place)

	if c.store == nil {
		return nil
	}
	if err := c.store.SavePlace(ctx, place); err != nil {
		return fmt.Errorf("saving place to store: %w", err)
	}
	return nil
}

func (c *GeocodeCache) addToLRU(key string, place models.Place) {
	if !c.enableLRU {
		return
	}
	c.lru.Add(key, &LRUCacheEntry{
		Data:      place,
		ExpiresAt: c.clock.Now().Add(c.ttl),
	})
}

// Stats returns statistics about cache hits and misses
func (c *GeocodeCache) Stats() map[string]uint64 {
	return map[string]uint64{
		"lru_hits":      c.lruHits.Load(),
		"lru_misses":    c.lruMisses.Load(),
		"dynamo_hits":   c.dynamoHits.Load(),
		"dynamo_misses": c.dynamoMisses.Load(),
	}
}

// Clear removes all entries from the LRU cache
func (c *GeocodeCache) Clear() {
	c.lru.Purge()
	log.Debug().Msg("Cleared geocode LRU cache")
}
