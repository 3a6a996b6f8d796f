package locks

import (
	"sync"
	"testing"
	"time"
)

func TestKeyed_SerializesSameKey(t *testing.T) {
	k := NewKeyed()

	var mu sync.Mutex
	active := 0
	maxActive := 0

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := k.Lock("alice")
			defer unlock()

			mu.Lock()
			active++
			if active > maxActive {
				maxActive = active
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			active--
			mu.Unlock()
		}()
	}
	wg.Wait()

	if maxActive != 1 {
		t.Fatalf("max concurrent holders for one key = %d, want 1", maxActive)
	}
}

func TestKeyed_IndependentKeysRunInParallel(t *testing.T) {
	k := NewKeyed()

	unlockA := k.Lock("alice")
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlockB := k.Lock("bob")
		unlockB()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("lock on a different key blocked")
	}
}

func TestKeyed_EntriesAreReleased(t *testing.T) {
	k := NewKeyed()

	unlock := k.Lock("alice")
	unlock()

	k.mu.Lock()
	n := len(k.entries)
	k.mu.Unlock()

	if n != 0 {
		t.Fatalf("entries not cleaned up: %d remaining", n)
	}
}
