package ratelimit

import (
	"context"
	"sync"
	"time"
)

const sweepInterval = 5 * time.Minute

type window struct {
	count int
	end   time.Time
}

// Memory is a process-local Limiter. Counters are lost on restart and are
// not shared between replicas.
type Memory struct {
	mu      sync.Mutex
	windows map[string]window
	now     func() time.Time
	stop    chan struct{}
	once    sync.Once
}

// MemoryOption customises a Memory limiter.
type MemoryOption func(*Memory)

// WithClock overrides the time source.
func WithClock(now func() time.Time) MemoryOption {
	return func(m *Memory) {
		if now != nil {
			m.now = now
		}
	}
}

// NewMemory starts a memory limiter with a background sweeper. Call Close to
// stop it.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		windows: make(map[string]window),
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	go m.sweepLoop()
	return m
}

// Allow counts the request, rejected ones included, and reports whether it
// fits the policy.
func (m *Memory) Allow(_ context.Context, key string, policy Policy) (Decision, error) {
	if !policy.Enabled() {
		return Decision{Allowed: true}, nil
	}
	now := m.now()
	bucket := policy.bucket(key)

	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.windows[bucket]
	if !ok || !now.Before(w.end) {
		w = window{end: now.Add(policy.window())}
	}
	w.count++
	m.windows[bucket] = w
	return decide(policy, w.count, w.end), nil
}

// Len reports the number of live buckets.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.windows)
}

func (m *Memory) sweepLoop() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			m.sweep()
		case <-m.stop:
			return
		}
	}
}

func (m *Memory) sweep() {
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()
	for bucket, w := range m.windows {
		if !now.Before(w.end) {
			delete(m.windows, bucket)
		}
	}
}

// Close stops the sweeper. It is safe to call more than once.
func (m *Memory) Close() error {
	m.once.Do(func() { close(m.stop) })
	return nil
}
