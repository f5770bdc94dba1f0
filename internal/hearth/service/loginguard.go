package service

import (
	"sync"
	"time"
)

const (
	// MaxFailedLogins is the number of failed attempts per source address
	// before further logins are refused.
	MaxFailedLogins = 10

	// FailedLoginWindow is how far back failed attempts count.
	FailedLoginWindow = time.Hour
)

// LoginGuard tracks failed login attempts per source address in memory.
// State is intentionally ephemeral; a restart forgives everyone.
type LoginGuard struct {
	mu       sync.Mutex
	attempts map[string][]time.Time
	now      func() time.Time
}

func NewLoginGuard() *LoginGuard {
	return &LoginGuard{
		attempts: make(map[string][]time.Time),
		now:      time.Now,
	}
}

// Blocked reports whether the address has exhausted its attempts.
func (g *LoginGuard) Blocked(addr string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.prune(addr)) >= MaxFailedLogins
}

// RecordFailure notes one failed attempt for the address.
func (g *LoginGuard) RecordFailure(addr string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.attempts[addr] = append(g.prune(addr), g.now())
}

// RecordSuccess clears the address's failure history.
func (g *LoginGuard) RecordSuccess(addr string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.attempts, addr)
}

// prune drops attempts older than the window. Caller holds the lock.
func (g *LoginGuard) prune(addr string) []time.Time {
	cutoff := g.now().Add(-FailedLoginWindow)
	kept := g.attempts[addr][:0]
	for _, at := range g.attempts[addr] {
		if at.After(cutoff) {
			kept = append(kept, at)
		}
	}
	if len(kept) == 0 {
		delete(g.attempts, addr)
		return nil
	}
	g.attempts[addr] = kept
	return kept
}
