package collection_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"taskdeck/internal/collection"
)

func TestSyncReplacesWholeCache(t *testing.T) {
	snapshots := [][]string{
		{"a", "b", "c"},
		{"d"},
	}
	i := 0
	store := collection.NewStore(func(ctx context.Context) ([]string, error) {
		items := snapshots[i]
		i++
		return items, nil
	})

	if store.Loaded() {
		t.Fatal("store must start unloaded")
	}

	if err := store.Sync(context.Background()); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if got := store.Items(); len(got) != 3 {
		t.Fatalf("expected 3 items, got %v", got)
	}

	if err := store.Sync(context.Background()); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	got := store.Items()
	if len(got) != 1 || got[0] != "d" {
		t.Errorf("expected full replace with [d], got %v", got)
	}
}

func TestFailedSyncKeepsPreviousCache(t *testing.T) {
	fail := false
	store := collection.NewStore(func(ctx context.Context) ([]string, error) {
		if fail {
			return nil, errors.New("boom")
		}
		return []string{"a"}, nil
	})

	if err := store.Sync(context.Background()); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	fail = true
	if err := store.Sync(context.Background()); err == nil {
		t.Fatal("expected sync error")
	}
	if got := store.Items(); len(got) != 1 || got[0] != "a" {
		t.Errorf("failed sync must leave the cache intact, got %v", got)
	}
	if !store.Loaded() {
		t.Error("store must remain loaded after a failed sync")
	}
}

func TestStaleSyncDoesNotOverwriteNewer(t *testing.T) {
	// The first sync's fetch is held open until after a second sync
	// completes; its snapshot must be discarded.
	firstStarted := make(chan struct{})
	releaseFirst := make(chan struct{})
	call := 0
	var mu sync.Mutex

	store := collection.NewStore(func(ctx context.Context) ([]string, error) {
		mu.Lock()
		call++
		n := call
		mu.Unlock()
		if n == 1 {
			close(firstStarted)
			<-releaseFirst
			return []string{"stale"}, nil
		}
		return []string{"fresh"}, nil
	})

	done := make(chan error, 1)
	go func() {
		done <- store.Sync(context.Background())
	}()
	<-firstStarted

	if err := store.Sync(context.Background()); err != nil {
		t.Fatalf("second Sync: %v", err)
	}

	close(releaseFirst)
	if err := <-done; err != nil {
		t.Fatalf("first Sync: %v", err)
	}

	got := store.Items()
	if len(got) != 1 || got[0] != "fresh" {
		t.Errorf("stale fetch overwrote newer cache: %v", got)
	}
}

func TestItemsReturnsCopy(t *testing.T) {
	store := collection.NewStore(func(ctx context.Context) ([]string, error) {
		return []string{"a", "b"}, nil
	})
	if err := store.Sync(context.Background()); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	items := store.Items()
	items[0] = "mutated"

	if got := store.Items(); got[0] != "a" {
		t.Errorf("cache must not observe caller mutation, got %v", got)
	}
}
