// Package ratelimit implements a per-client sliding-window limiter for the
// parse and import endpoints, which are the only expensive surfaces.
package ratelimit

import (
	"sync"
	"time"
)

// Config bounds one client's requests per window.
type Config struct {
	Limit  int
	Window time.Duration
}

// DefaultConfig allows 30 requests per minute per client.
func DefaultConfig() Config {
	return Config{Limit: 30, Window: time.Minute}
}

// Info reports the limiter state for response headers.
type Info struct {
	Limit     int
	Remaining int
	ResetTime time.Time
}

// Limiter tracks request timestamps per client id.
type Limiter struct {
	cfg     Config
	mu      sync.Mutex
	clients map[string][]time.Time
	done    chan struct{}
}

// NewLimiter builds a limiter and starts its background cleanup.
func NewLimiter(cfg Config) *Limiter {
	if cfg.Limit <= 0 {
		cfg = DefaultConfig()
	}
	l := &Limiter{
		cfg:     cfg,
		clients: make(map[string][]time.Time),
		done:    make(chan struct{}),
	}
	go l.cleanupLoop()
	return l
}

// Allow records a request for the client and reports whether it is within
// the limit.
func (l *Limiter) Allow(clientID string) (bool, Info) {
	now := time.Now()
	cutoff := now.Add(-l.cfg.Window)

	l.mu.Lock()
	defer l.mu.Unlock()

	stamps := l.clients[clientID]
	kept := stamps[:0]
	for _, ts := range stamps {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}

	info := Info{Limit: l.cfg.Limit, ResetTime: now.Add(l.cfg.Window)}
	if len(kept) >= l.cfg.Limit {
		l.clients[clientID] = kept
		info.Remaining = 0
		return false, info
	}

	kept = append(kept, now)
	l.clients[clientID] = kept
	info.Remaining = l.cfg.Limit - len(kept)
	return true, info
}

// Stop terminates the cleanup goroutine.
func (l *Limiter) Stop() {
	close(l.done)
}

func (l *Limiter) cleanupLoop() {
	ticker := time.NewTicker(l.cfg.Window)
	defer ticker.Stop()
	for {
		select {
		case <-l.done:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-l.cfg.Window)
			l.mu.Lock()
			for id, stamps := range l.clients {
				kept := stamps[:0]
				for _, ts := range stamps {
					if ts.After(cutoff) {
						kept = append(kept, ts)
					}
				}
				if len(kept) == 0 {
					delete(l.clients, id)
				} else {
					l.clients[id] = kept
				}
			}
			l.mu.Unlock()
		}
	}
}
