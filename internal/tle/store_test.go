package tle

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

// TestStoreRefreshAndCache verifies the store fetches once, serves the
// cached element set while fresh, and refetches only after maxAge.
func TestStoreRefreshAndCache(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(issTLE))
	}))
	defer server.Close()

	store := NewStore(NewFetcher(server.URL), 25544, time.Hour, testLogger)
	now := time.Date(2024, time.April, 10, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		entry, err := store.Current(context.Background())
		if err != nil {
			t.Fatalf("Current: %v", err)
		}
		if entry.NORADID != 25544 {
			t.Fatalf("NORAD ID = %d, want 25544", entry.NORADID)
		}
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("expected 1 fetch while fresh, got %d", got)
	}

	now = now.Add(2 * time.Hour)
	if _, err := store.Current(context.Background()); err != nil {
		t.Fatalf("Current after staleness: %v", err)
	}
	if got := hits.Load(); got != 2 {
		t.Errorf("expected refetch after maxAge, got %d fetches", got)
	}
}

// TestStoreStaleFallback verifies a failed refresh serves the stale entry
// instead of erroring, and that the very first failure does error.
func TestStoreStaleFallback(t *testing.T) {
	var failing atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if failing.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(issTLE))
	}))
	defer server.Close()

	store := NewStore(NewFetcher(server.URL), 25544, time.Hour, testLogger)
	now := time.Date(2024, time.April, 10, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	if _, err := store.Current(context.Background()); err != nil {
		t.Fatalf("initial load: %v", err)
	}

	failing.Store(true)
	now = now.Add(2 * time.Hour)
	entry, err := store.Current(context.Background())
	if err != nil {
		t.Fatalf("expected stale fallback, got error: %v", err)
	}
	if entry.NORADID != 25544 {
		t.Fatalf("NORAD ID = %d, want 25544", entry.NORADID)
	}
}

// TestStoreFirstFetchFailure verifies an error is returned when no element
// set has ever been loaded.
func TestStoreFirstFetchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	store := NewStore(NewFetcher(server.URL), 25544, time.Hour, testLogger)
	if _, err := store.Current(context.Background()); err == nil {
		t.Fatal("expected error on first failed fetch, got nil")
	}
}

// TestStoreWrongSatellite verifies a response without the requested NORAD
// ID is rejected.
func TestStoreWrongSatellite(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(issTLE))
	}))
	defer server.Close()

	store := NewStore(NewFetcher(server.URL), 44713, time.Hour, testLogger)
	if _, err := store.Current(context.Background()); err == nil {
		t.Fatal("expected error for missing NORAD ID, got nil")
	}
}
