package genstore

import (
	"context"
	"sync"
	"testing"
)

func TestLocalMissingIsZeroAndBumpIncrements(t *testing.T) {
	ctx := context.Background()
	s := NewLocalGenStore()
	t.Cleanup(func() { _ = s.Close(ctx) })

	if g, _ := s.Snapshot(ctx, "k"); g != 0 {
		t.Fatalf("missing key: got %d want 0", g)
	}
	for want := uint64(1); want <= 3; want++ {
		g, err := s.Bump(ctx, "k")
		if err != nil {
			t.Fatal(err)
		}
		if g != want {
			t.Fatalf("bump: got %d want %d", g, want)
		}
	}
	if g, _ := s.Snapshot(ctx, "other"); g != 0 {
		t.Fatalf("keys must be independent, got %d", g)
	}
}

func TestLocalConcurrentBumps(t *testing.T) {
	ctx := context.Background()
	s := NewLocalGenStore()
	t.Cleanup(func() { _ = s.Close(ctx) })

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Bump(ctx, "k")
		}()
	}
	wg.Wait()
	if g, _ := s.Snapshot(ctx, "k"); g != 50 {
		t.Fatalf("got %d want 50", g)
	}
}

func TestLocalCloseKeepsCounters(t *testing.T) {
	ctx := context.Background()
	s := NewLocalGenStore()
	if _, err := s.Bump(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	_ = s.Close(ctx)
	_ = s.Close(ctx)
	if g, _ := s.Snapshot(ctx, "k"); g != 1 {
		t.Fatalf("got %d want 1", g)
	}
}
