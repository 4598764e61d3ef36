package books

import (
	"fmt"
	"testing"
	"time"

	"github.com/next-chapter/api/models"
)

func TestSearchCacheHitAndMiss(t *testing.T) {
	cache := NewSearchCache(time.Minute, 10)
	results := []models.Book{{VolumeID: "v1", Title: "Dune"}}

	if _, found := cache.Get("dune|10"); found {
		t.Fatal("unexpected hit on empty cache")
	}

	cache.Put("dune|10", results)

	got, found := cache.Get("dune|10")
	if !found {
		t.Fatal("expected hit after Put")
	}
	if len(got) != 1 || got[0].VolumeID != "v1" {
		t.Errorf("got %+v, want cached results", got)
	}
}

func TestSearchCacheExpiry(t *testing.T) {
	cache := NewSearchCache(time.Minute, 10)
	current := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return current }

	cache.Put("dune|10", []models.Book{{VolumeID: "v1"}})

	current = current.Add(59 * time.Second)
	if _, found := cache.Get("dune|10"); !found {
		t.Error("entry expired before its TTL")
	}

	current = current.Add(2 * time.Second)
	if _, found := cache.Get("dune|10"); found {
		t.Error("entry survived past its TTL")
	}
	if cache.Len() != 0 {
		t.Errorf("expired entry not dropped, len = %d", cache.Len())
	}
}

func TestSearchCacheEvictsOldestAtCapacity(t *testing.T) {
	cache := NewSearchCache(time.Hour, 3)
	current := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return current }

	for i := 0; i < 3; i++ {
		cache.Put(fmt.Sprintf("key-%d", i), []models.Book{{VolumeID: fmt.Sprintf("v%d", i)}})
		current = current.Add(time.Second)
	}

	cache.Put("key-3", []models.Book{{VolumeID: "v3"}})

	if cache.Len() != 3 {
		t.Fatalf("len = %d, want 3", cache.Len())
	}
	if _, found := cache.Get("key-0"); found {
		t.Error("oldest entry should have been evicted")
	}
	if _, found := cache.Get("key-3"); !found {
		t.Error("newest entry missing")
	}
}

func TestSearchCacheOverwriteDoesNotEvict(t *testing.T) {
	cache := NewSearchCache(time.Hour, 2)

	cache.Put("a", nil)
	cache.Put("b", nil)
	cache.Put("a", []models.Book{{VolumeID: "v1"}})

	if cache.Len() != 2 {
		t.Fatalf("len = %d, want 2", cache.Len())
	}
	if _, found := cache.Get("b"); !found {
		t.Error("overwriting an existing key evicted an unrelated entry")
	}
}

func TestSearchCacheDefaults(t *testing.T) {
	cache := NewSearchCache(0, 0)

	if cache.ttl != 5*time.Minute {
		t.Errorf("ttl = %v, want 5m default", cache.ttl)
	}
	if cache.maxEntries != 256 {
		t.Errorf("maxEntries = %d, want 256 default", cache.maxEntries)
	}
}
