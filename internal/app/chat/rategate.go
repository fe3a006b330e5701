package chat

import (
	"sync"
	"time"
)

const DefaultCooldown = 2 * time.Second

// RateGate admits at most one call per cooldown, process wide.
type RateGate struct {
	mu       sync.Mutex
	cooldown time.Duration
	last     time.Time
}

func NewRateGate(cooldown time.Duration) *RateGate {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &RateGate{cooldown: cooldown}
}

// Allow records now as the last accepted call and returns true, or returns
// false when the previous accepted call is less than one cooldown old.
func (g *RateGate) Allow(now time.Time) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.last.IsZero() && now.Sub(g.last) < g.cooldown {
		return false
	}
	g.last = now
	return true
}
