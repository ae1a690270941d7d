package repo

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestBumpRateWindow_CountsWithinWindow(t *testing.T) {
	db := newTestDB(t)
	now := time.Now().UTC()

	for i := 1; i <= 3; i++ {
		count, err := BumpRateWindow(context.Background(), db, "u1", time.Minute, now)
		if err != nil {
			t.Fatalf("bump %d: %v", i, err)
		}
		if count != i {
			t.Fatalf("bump %d: count = %d; want %d", i, count, i)
		}
	}
}

func TestBumpRateWindow_ExpiredWindowRestarts(t *testing.T) {
	db := newTestDB(t)
	start := time.Now().UTC()

	if _, err := BumpRateWindow(context.Background(), db, "u1", time.Minute, start); err != nil {
		t.Fatalf("bump: %v", err)
	}
	if _, err := BumpRateWindow(context.Background(), db, "u1", time.Minute, start); err != nil {
		t.Fatalf("bump: %v", err)
	}

	// A request after the window elapsed starts a fresh count at 1.
	later := start.Add(2 * time.Minute)
	count, err := BumpRateWindow(context.Background(), db, "u1", time.Minute, later)
	if err != nil {
		t.Fatalf("bump after expiry: %v", err)
	}
	if count != 1 {
		t.Fatalf("count after expiry = %d; want 1", count)
	}

	// And the next one within the new window continues from there.
	count, err = BumpRateWindow(context.Background(), db, "u1", time.Minute, later.Add(time.Second))
	if err != nil {
		t.Fatalf("bump in new window: %v", err)
	}
	if count != 2 {
		t.Fatalf("count in new window = %d; want 2", count)
	}
}

func TestBumpRateWindow_UsersIsolated(t *testing.T) {
	db := newTestDB(t)
	now := time.Now().UTC()

	if _, err := BumpRateWindow(context.Background(), db, "u1", time.Minute, now); err != nil {
		t.Fatalf("bump u1: %v", err)
	}
	count, err := BumpRateWindow(context.Background(), db, "u2", time.Minute, now)
	if err != nil {
		t.Fatalf("bump u2: %v", err)
	}
	if count != 1 {
		t.Fatalf("u2 count = %d; want 1 (own window)", count)
	}
}

func TestBumpRateWindow_Concurrent(t *testing.T) {
	db := newTestDB(t)
	now := time.Now().UTC()

	// The single-upsert design hands every racing caller a distinct slot:
	// with a limit of max, exactly max of them see count <= max.
	const callers = 20
	counts := make(chan int, callers)
	errs := make(chan error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			count, err := BumpRateWindow(context.Background(), db, "u1", time.Minute, now)
			counts <- count
			errs <- err
		}()
	}
	wg.Wait()
	close(counts)
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent bump: %v", err)
		}
	}

	seen := make(map[int]bool, callers)
	for count := range counts {
		if count < 1 || count > callers {
			t.Fatalf("count %d out of range [1,%d]", count, callers)
		}
		if seen[count] {
			t.Fatalf("count %d handed out twice", count)
		}
		seen[count] = true
	}

	const max = 5
	admitted := 0
	for count := range seen {
		if count <= max {
			admitted++
		}
	}
	if admitted != max {
		t.Fatalf("admitted = %d; want exactly %d", admitted, max)
	}
}
