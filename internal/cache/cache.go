package cache

import (
	"container/list"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/MikeSquared-Agency/Worthit/internal/scoring"
)

// Cache stores computed decisions by input hash. A miss and a backend error
// both report false; callers recompute.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte) error
}

const keyPrefix = "worthit:decision:"

// DecisionKey hashes the normalized inputs. Inputs that score identically
// after normalization share a key.
func DecisionKey(in scoring.ItemInputs) (string, error) {
	data, err := json.Marshal(in.Normalize())
	if err != nil {
		return "", fmt.Errorf("encode inputs: %w", err)
	}
	return fmt.Sprintf("%s%016x", keyPrefix, xxhash.Sum64(data)), nil
}

type memoryItem struct {
	key     string
	value   []byte
	expires time.Time
}

// MemoryCache is an in-process Cache. Items are kept in write order, so with
// a fixed ttl the front of the list always expires first. Expired items are
// swept at most once per ttl on Set; when maxEntries is reached the oldest
// item is evicted. A zero ttl keeps items until evicted and a zero
// maxEntries disables the cap.
type MemoryCache struct {
	mu         sync.Mutex
	items      map[string]*list.Element
	order      *list.List
	ttl        time.Duration
	maxEntries int
	lastSweep  time.Time
	now        func() time.Time
}

var _ Cache = (*MemoryCache)(nil)

func NewMemoryCache(ttl time.Duration, maxEntries int) *MemoryCache {
	return &MemoryCache{
		items:      make(map[string]*list.Element),
		order:      list.New(),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return nil, false
	}
	item := el.Value.(*memoryItem)
	if c.expired(item, c.now()) {
		c.removeLocked(el)
		return nil, false
	}
	return item.value, true
}

func (c *MemoryCache) Set(_ context.Context, key string, value []byte) error {
	now := c.now()
	item := &memoryItem{key: key, value: append([]byte(nil), value...)}
	if c.ttl > 0 {
		item.expires = now.Add(c.ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ttl > 0 && now.Sub(c.lastSweep) >= c.ttl {
		c.sweepLocked(now)
	}
	if el, ok := c.items[key]; ok {
		c.removeLocked(el)
	}
	for c.maxEntries > 0 && len(c.items) >= c.maxEntries {
		c.removeLocked(c.order.Front())
	}
	c.items[key] = c.order.PushBack(item)
	return nil
}

// Len reports the number of items held, expired ones included until swept.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *MemoryCache) expired(item *memoryItem, now time.Time) bool {
	return !item.expires.IsZero() && now.After(item.expires)
}

func (c *MemoryCache) sweepLocked(now time.Time) {
	for el := c.order.Front(); el != nil; el = c.order.Front() {
		if !c.expired(el.Value.(*memoryItem), now) {
			break
		}
		c.removeLocked(el)
	}
	c.lastSweep = now
}

func (c *MemoryCache) removeLocked(el *list.Element) {
	item := c.order.Remove(el).(*memoryItem)
	delete(c.items, item.key)
}
