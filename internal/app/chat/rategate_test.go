package chat

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestRateGate_Cooldown(t *testing.T) {
	t.Parallel()

	g := NewRateGate(2 * time.Second)
	t0 := time.Unix(1000, 0)

	if !g.Allow(t0) {
		t.Fatalf("first call should pass")
	}
	if g.Allow(t0.Add(1999 * time.Millisecond)) {
		t.Fatalf("call inside cooldown should be rejected")
	}
	if !g.Allow(t0.Add(2 * time.Second)) {
		t.Fatalf("call at cooldown boundary should pass")
	}
	if g.Allow(t0.Add(3 * time.Second)) {
		t.Fatalf("cooldown restarts from the last accepted call")
	}
}

func TestRateGate_ConcurrentCallsAdmitOne(t *testing.T) {
	t.Parallel()

	g := NewRateGate(time.Minute)
	now := time.Unix(1000, 0)

	var admitted atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if g.Allow(now) {
				admitted.Add(1)
			}
		}()
	}
	wg.Wait()
	if got := admitted.Load(); got != 1 {
		t.Fatalf("admitted=%d", got)
	}
}
