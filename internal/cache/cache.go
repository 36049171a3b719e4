package cache

import (
	"container/list"
	"sync"
	"time"

	"fitness-schedule-proxy/internal/models"
)

// Key identifies one cacheable schedule query. ClubID is the empty string
// when the request carried no club id; equality is exact string equality
// with no date normalization.
type Key struct {
	StartDate string
	EndDate   string
	ClubID    string
}

// NewKey builds a cache key from request parameters.
func NewKey(startDate, endDate, clubID string) Key {
	return Key{StartDate: startDate, EndDate: endDate, ClubID: clubID}
}

type entry struct {
	key       Key
	value     []models.SanitizedClass
	expiresAt time.Time
}

// Cache is a bounded TTL cache of sanitized result sets with
// least-recently-used eviction. Expiry is checked lazily on access; no
// background sweep runs. Concurrent misses for the same key are not
// coalesced: simultaneous identical requests may each fetch upstream.
type Cache struct {
	ttl        time.Duration
	maxEntries int

	mu      sync.Mutex
	entries map[Key]*list.Element
	order   *list.List // front = most recently used

	now func() time.Time
}

// New creates a cache holding at most maxEntries values for up to ttl each.
func New(ttl time.Duration, maxEntries int) *Cache {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &Cache{
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    make(map[Key]*list.Element),
		order:      list.New(),
		now:        time.Now,
	}
}

// Get returns the cached value for key, if present and not expired. A hit
// refreshes the key's recency; an expired entry is purged on access.
func (cache *Cache) Get(key Key) ([]models.SanitizedClass, bool) {
	cache.mu.Lock()
	defer cache.mu.Unlock()

	element, ok := cache.entries[key]
	if !ok {
		return nil, false
	}
	cached := element.Value.(*entry)
	if cache.now().After(cached.expiresAt) {
		cache.order.Remove(element)
		delete(cache.entries, key)
		return nil, false
	}
	cache.order.MoveToFront(element)
	return cached.value, true
}

// Put stores value under key, overwriting any existing entry and resetting
// its expiry clock. When the cache is full the least-recently-used entry is
// evicted first.
func (cache *Cache) Put(key Key, value []models.SanitizedClass) {
	cache.mu.Lock()
	defer cache.mu.Unlock()

	expiresAt := cache.now().Add(cache.ttl)

	if element, ok := cache.entries[key]; ok {
		cached := element.Value.(*entry)
		cached.value = value
		cached.expiresAt = expiresAt
		cache.order.MoveToFront(element)
		return
	}

	if cache.order.Len() >= cache.maxEntries {
		oldest := cache.order.Back()
		if oldest != nil {
			cache.order.Remove(oldest)
			delete(cache.entries, oldest.Value.(*entry).key)
		}
	}

	cache.entries[key] = cache.order.PushFront(&entry{
		key:       key,
		value:     value,
		expiresAt: expiresAt,
	})
}

// Len reports the number of entries currently held, including any not yet
// purged expired ones.
func (cache *Cache) Len() int {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	return cache.order.Len()
}
