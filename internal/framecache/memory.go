package framecache

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/leapstack-labs/leapanim/pkg/rational"
	"github.com/leapstack-labs/leapanim/pkg/timerange"
	"github.com/leapstack-labs/leapanim/pkg/value"
)

// MemoryStore is a Store held in process memory. It is safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	samples map[string]map[rational.Rational]value.Value
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{samples: make(map[string]map[rational.Rational]value.Value)}
}

// Put implements Store.
func (m *MemoryStore) Put(_ context.Context, key string, s Sample) error {
	if s.Time.IsInf() {
		return fmt.Errorf("put %s at %s: %w", key, s.Time, ErrInfiniteTime)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	byTime, ok := m.samples[key]
	if !ok {
		byTime = make(map[rational.Rational]value.Value)
		m.samples[key] = byTime
	}
	byTime[s.Time] = s.Value
	return nil
}

// Get implements Store.
func (m *MemoryStore) Get(_ context.Context, key string, t rational.Rational) (value.Value, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.samples[key][t]
	return v, ok, nil
}

// Invalidate implements Store.
func (m *MemoryStore) Invalidate(_ context.Context, key string, r timerange.Range) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	byTime := m.samples[key]
	n := 0
	for t := range byTime {
		if r.Contains(t) {
			delete(byTime, t)
			n++
		}
	}
	if len(byTime) == 0 {
		delete(m.samples, key)
	}
	return n, nil
}

// Samples implements Store.
func (m *MemoryStore) Samples(_ context.Context, key string) ([]Sample, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Sample, 0, len(m.samples[key]))
	for t, v := range m.samples[key] {
		out = append(out, Sample{Time: t, Value: v})
	}
	slices.SortFunc(out, func(a, b Sample) int { return a.Time.Cmp(b.Time) })
	return out, nil
}

// Close implements Store.
func (m *MemoryStore) Close() error { return nil }
