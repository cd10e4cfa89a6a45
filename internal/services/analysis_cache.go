package services

import (
	"container/list"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nutrilog/nutrilog-backend/internal/dto"
)

var ErrAnalysisNotFound = errors.New("analysis result not found or expired")

// AnalysisCache holds AI nutrition guesses keyed by an opaque id until the
// user confirms or abandons them. It is bounded by capacity with LRU
// eviction and entries expire after a fixed TTL. Constructed at startup and
// injected into handlers.
type AnalysisCache struct {
	mu       sync.Mutex
	ttl      time.Duration
	capacity int
	entries  map[string]*list.Element
	order    *list.List

	now func() time.Time
}

type cacheEntry struct {
	id        string
	analysis  dto.FoodAnalysis
	expiresAt time.Time
}

func NewAnalysisCache(ttl time.Duration, capacity int) *AnalysisCache {
	return &AnalysisCache{
		ttl:      ttl,
		capacity: capacity,
		entries:  make(map[string]*list.Element),
		order:    list.New(),
		now:      time.Now,
	}
}

// Store caches an analysis under a fresh opaque id and returns the id,
// evicting the least recently used entry when at capacity.
func (c *AnalysisCache) Store(analysis dto.FoodAnalysis) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := uuid.New().String()
	if c.order.Len() >= c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.entries, oldest.Value.(*cacheEntry).id)
		}
	}
	elem := c.order.PushFront(&cacheEntry{
		id:        id,
		analysis:  analysis,
		expiresAt: c.now().Add(c.ttl),
	})
	c.entries[id] = elem
	return id
}

// Retrieve returns the cached analysis for id. The second return is false
// when the id is unknown or the entry has expired; it never fails.
func (c *AnalysisCache) Retrieve(id string) (dto.FoodAnalysis, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[id]
	if !ok {
		return dto.FoodAnalysis{}, false
	}
	entry := elem.Value.(*cacheEntry)
	if c.now().After(entry.expiresAt) {
		c.order.Remove(elem)
		delete(c.entries, id)
		return dto.FoodAnalysis{}, false
	}
	c.order.MoveToFront(elem)
	return entry.analysis, true
}

// Len reports the number of cached entries, expired or not.
func (c *AnalysisCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
