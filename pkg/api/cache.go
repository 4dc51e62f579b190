package api

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/cameron-headspace/graphql-inspector/pkg/schema"
)

// SnapshotCache keeps parsed type maps keyed by the SHA-256 of their SDL.
// Type maps are never mutated after parsing, so one entry may serve many
// concurrent diffs.
type SnapshotCache struct {
	cache  *lru.Cache[string, *schema.TypeMap]
	hits   atomic.Int64
	misses atomic.Int64
}

// CacheStats reports cache effectiveness
type CacheStats struct {
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	ItemCount int   `json:"item_count"`
}

// NewSnapshotCache creates a cache holding at most size type maps
func NewSnapshotCache(size int) (*SnapshotCache, error) {
	cache, err := lru.New[string, *schema.TypeMap](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create snapshot cache: %w", err)
	}
	return &SnapshotCache{cache: cache}, nil
}

func cacheKey(body string) string {
	sum := sha256.Sum256([]byte(body))
	return hex.EncodeToString(sum[:])
}

// Parse returns the cached type map for src or parses and stores it.
// Parse errors are not cached.
func (c *SnapshotCache) Parse(src schema.Source) (*schema.TypeMap, error) {
	key := cacheKey(src.Body)
	if typeMap, ok := c.cache.Get(key); ok {
		c.hits.Add(1)
		return typeMap, nil
	}
	c.misses.Add(1)

	typeMap, err := schema.Parse(src)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, typeMap)
	return typeMap, nil
}

// Load parses both sides of pair through the cache
func (c *SnapshotCache) Load(pair schema.SourcePair) (schema.Snapshot, error) {
	oldMap, err := c.Parse(pair.Old)
	if err != nil {
		return schema.Snapshot{}, fmt.Errorf("old schema: %w", err)
	}
	newMap, err := c.Parse(pair.New)
	if err != nil {
		return schema.Snapshot{}, fmt.Errorf("new schema: %w", err)
	}
	return schema.Snapshot{Old: oldMap, New: newMap}, nil
}

// Stats returns cache statistics
func (c *SnapshotCache) Stats() CacheStats {
	return CacheStats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		ItemCount: c.cache.Len(),
	}
}
