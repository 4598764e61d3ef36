package books

import (
	"sync"
	"time"

	"github.com/next-chapter/api/models"
)

// SearchCache is a bounded TTL cache for search results. It replaces the
// unbounded per-process maps the web client used to keep: entries expire and
// the oldest entry is evicted once the size cap is hit.
type SearchCache struct {
	mu         sync.Mutex
	entries    map[string]cacheEntry
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

type cacheEntry struct {
	books    []models.Book
	storedAt time.Time
}

func NewSearchCache(ttl time.Duration, maxEntries int) *SearchCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if maxEntries <= 0 {
		maxEntries = 256
	}
	return &SearchCache{
		entries:    make(map[string]cacheEntry),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

func (sc *SearchCache) Get(key string) ([]models.Book, bool) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	entry, found := sc.entries[key]
	if !found {
		return nil, false
	}
	if sc.now().Sub(entry.storedAt) > sc.ttl {
		delete(sc.entries, key)
		return nil, false
	}
	return entry.books, true
}

func (sc *SearchCache) Put(key string, results []models.Book) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if _, exists := sc.entries[key]; !exists && len(sc.entries) >= sc.maxEntries {
		sc.evictOldest()
	}
	sc.entries[key] = cacheEntry{books: results, storedAt: sc.now()}
}

func (sc *SearchCache) Len() int {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return len(sc.entries)
}

// evictOldest drops the stalest entry; callers hold the lock
func (sc *SearchCache) evictOldest() {
	var oldestKey string
	var oldestAt time.Time
	for key, entry := range sc.entries {
		if oldestKey == "" || entry.storedAt.Before(oldestAt) {
			oldestKey = key
			oldestAt = entry.storedAt
		}
	}
	if oldestKey != "" {
		delete(sc.entries, oldestKey)
	}
}
