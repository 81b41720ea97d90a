package lockstore

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestLocalSerializesOneKey(t *testing.T) {
	ctx := context.Background()
	l := NewLocal()
	t.Cleanup(func() { _ = l.Close(ctx) })

	const n = 64
	counter := 0 // protected only by the locker

	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			release, err := l.Acquire(ctx, "k")
			if err != nil {
				t.Error(err)
				return
			}
			counter++
			release()
		}()
	}
	wg.Wait()

	if counter != n {
		t.Fatalf("counter=%d want %d", counter, n)
	}
}

func TestLocalIndependentKeys(t *testing.T) {
	ctx := context.Background()
	l := NewLocal()

	relA, err := l.Acquire(ctx, "a")
	if err != nil {
		t.Fatal(err)
	}
	defer relA()

	// holding "a" must not block "b"
	bctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	relB, err := l.Acquire(bctx, "b")
	if err != nil {
		t.Fatalf("Acquire(b) blocked by lock on a: %v", err)
	}
	relB()
}

func TestLocalAcquireHonorsContext(t *testing.T) {
	ctx := context.Background()
	l := NewLocal()

	release, err := l.Acquire(ctx, "k")
	if err != nil {
		t.Fatal(err)
	}

	cctx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	if _, err := l.Acquire(cctx, "k"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err=%v want DeadlineExceeded", err)
	}

	release()

	// lock must be acquirable again after the canceled waiter left
	rctx, rcancel := context.WithTimeout(ctx, time.Second)
	defer rcancel()
	rel2, err := l.Acquire(rctx, "k")
	if err != nil {
		t.Fatalf("reacquire after canceled waiter: %v", err)
	}
	rel2()
}

func TestLocalReleaseIdempotent(t *testing.T) {
	ctx := context.Background()
	l := NewLocal()

	release, err := l.Acquire(ctx, "k")
	if err != nil {
		t.Fatal(err)
	}
	release()
	release() // second call must be a no-op, not an unlock of someone else

	rel2, err := l.Acquire(ctx, "k")
	if err != nil {
		t.Fatal(err)
	}
	rel2()
}

func TestLocalDropsIdleLockRecords(t *testing.T) {
	ctx := context.Background()
	l := NewLocal()

	for _, k := range []string{"a", "b", "c"} {
		release, err := l.Acquire(ctx, k)
		if err != nil {
			t.Fatal(err)
		}
		release()
	}

	l.mu.Lock()
	n := len(l.locks)
	l.mu.Unlock()
	if n != 0 {
		t.Fatalf("lock map has %d idle records, want 0", n)
	}
}
