// Package dedupe tracks client-supplied request ids so retried recording
// calls stay at-most-once.
package dedupe

import (
	"context"
	"sync"
)

const defaultMaxSize = 10_000

// Guard records seen request ids.
type Guard interface {
	// SeenAndRecord atomically checks whether id was seen and records it
	// if not. Returns true when id was already seen.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord forgets an id, allowing a retry. Used when a recording was
	// marked seen but then failed validation.
	Unrecord(ctx context.Context, id string)

	// Size returns the number of ids currently tracked.
	Size(ctx context.Context) int
}

// Option applies a configuration option to the guard.
type Option func(*memoryGuard)

// WithMaxSize bounds the number of tracked ids; the oldest are evicted
// first once the bound is reached.
func WithMaxSize(n int) Option {
	return func(g *memoryGuard) {
		if n > 0 {
			g.maxSize = n
		}
	}
}

// memoryGuard is a bounded seen-set with FIFO eviction.
type memoryGuard struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	order   []string
	maxSize int
}

// New creates an in-memory guard.
func New(opts ...Option) Guard {
	g := &memoryGuard{
		seen:    make(map[string]struct{}),
		maxSize: defaultMaxSize,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *memoryGuard) SeenAndRecord(ctx context.Context, id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.seen[id]; ok {
		return true
	}
	for len(g.order) >= g.maxSize {
		oldest := g.order[0]
		g.order = g.order[1:]
		delete(g.seen, oldest)
	}
	g.seen[id] = struct{}{}
	g.order = append(g.order, id)
	return false
}

func (g *memoryGuard) Unrecord(ctx context.Context, id string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.seen[id]; !ok {
		return
	}
	delete(g.seen, id)
	for i, v := range g.order {
		if v == id {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
}

func (g *memoryGuard) Size(ctx context.Context) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.seen)
}
