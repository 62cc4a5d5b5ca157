package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func TestStoreGetOrLoadSharesConcurrentLoads(t *testing.T) {
	t.Parallel()

	store := NewStore[string](time.Minute)
	var calls atomic.Int32
	release := make(chan struct{})

	loader := func(context.Context) (string, error) {
		calls.Add(1)
		<-release
		return "leagues", nil
	}

	const workers = 16
	var wg sync.WaitGroup
	results := make(chan string, workers)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := store.GetOrLoad(context.Background(), "league:list", loader)
			if err != nil {
				t.Errorf("GetOrLoad: %v", err)
				return
			}
			results <- v
		}()
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()
	close(results)

	for v := range results {
		if v != "leagues" {
			t.Fatalf("unexpected value %q", v)
		}
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStoreExpiresEntries(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	store := NewStoreWithClock[int](time.Minute, clock)
	store.Set("k", 7)

	if v, ok := store.Get("k"); !ok || v != 7 {
		t.Fatalf("expected cached value, got %d %v", v, ok)
	}

	clock.Advance(time.Minute)
	if _, ok := store.Get("k"); ok {
		t.Fatalf("expected entry to expire")
	}
}

func TestStoreDoesNotCacheLoaderErrors(t *testing.T) {
	t.Parallel()

	store := NewStore[int](time.Minute)
	boom := errors.New("boom")
	if _, err := store.GetOrLoad(context.Background(), "k", func(context.Context) (int, error) { return 0, boom }); !errors.Is(err, boom) {
		t.Fatalf("expected loader error, got %v", err)
	}

	v, err := store.GetOrLoad(context.Background(), "k", func(context.Context) (int, error) { return 3, nil })
	if err != nil || v != 3 {
		t.Fatalf("expected reload after error, got %d %v", v, err)
	}
}

func TestStoreDeletePrefix(t *testing.T) {
	t.Parallel()

	store := NewStore[string](0)
	store.Set("league:id:1", "a")
	store.Set("league:key:epl", "b")
	store.Set("week:1", "c")

	store.DeletePrefix("league:")

	if _, ok := store.Get("league:id:1"); ok {
		t.Fatalf("expected league:id:1 to be evicted")
	}
	if _, ok := store.Get("week:1"); !ok {
		t.Fatalf("expected week:1 to remain")
	}
}
