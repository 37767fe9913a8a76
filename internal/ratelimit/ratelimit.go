package ratelimit

import (
	"log"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Kind distinguishes the two rate-limited event classes.
type Kind string

const (
	// KindDraw covers draw frames: 50 per rolling 5-second window.
	KindDraw Kind = "draw"
	// KindChat covers chat and guess events: 10 per rolling minute.
	KindChat Kind = "chat"
)

// Token-bucket approximations of the rolling windows: the refill rate
// matches the window average and the burst matches the window cap.
var kindConfigs = map[Kind]struct {
	limit rate.Limit
	burst int
}{
	KindDraw: {limit: rate.Limit(50.0 / 5.0), burst: 50},
	KindChat: {limit: rate.Every(6 * time.Second), burst: 10},
}

type entry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// Limiter tracks per-socket buckets for each event kind.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*entry
}

// NewLimiter creates an empty limiter.
func NewLimiter() *Limiter {
	return &Limiter{buckets: make(map[string]*entry)}
}

// Allow consumes one token for the socket and kind. Returns false when
// the event must be dropped.
func (l *Limiter) Allow(socketID string, kind Kind) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := socketID + "/" + string(kind)
	e, ok := l.buckets[key]
	if !ok {
		cfg := kindConfigs[kind]
		e = &entry{lim: rate.NewLimiter(cfg.limit, cfg.burst)}
		l.buckets[key] = e
	}
	e.lastSeen = time.Now()
	return e.lim.Allow()
}

// Forget drops all buckets belonging to the socket. Called on
// disconnect and on room deletion.
func (l *Limiter) Forget(socketID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.buckets, socketID+"/"+string(KindDraw))
	delete(l.buckets, socketID+"/"+string(KindChat))
}

// GC removes buckets idle longer than maxIdle and returns the number
// removed.
func (l *Limiter) GC(maxIdle time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := time.Now().Add(-maxIdle)
	removed := 0
	for key, e := range l.buckets {
		if e.lastSeen.Before(cutoff) {
			delete(l.buckets, key)
			removed++
		}
	}
	return removed
}

// Size returns the number of live buckets.
func (l *Limiter) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// RunGC sweeps expired buckets on the given interval until stop closes.
func (l *Limiter) RunGC(interval, maxIdle time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := l.GC(maxIdle); n > 0 {
				log.Printf("Rate limiter: collected %d idle buckets", n)
			}
		case <-stop:
			return
		}
	}
}
