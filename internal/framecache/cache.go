package framecache

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/leapstack-labs/leapanim/pkg/node"
	"github.com/leapstack-labs/leapanim/pkg/notify"
	"github.com/leapstack-labs/leapanim/pkg/rational"
	"github.com/leapstack-labs/leapanim/pkg/timerange"
	"github.com/leapstack-labs/leapanim/pkg/value"
)

// Config configures a Cache.
type Config struct {
	// Store holds the samples. Nil uses a fresh MemoryStore.
	Store Store
	// Key names the input in Store. Empty uses the input's String form.
	Key    string
	Logger *slog.Logger
}

// Stats counts cache traffic.
type Stats struct {
	Hits        int
	Misses      int
	Invalidated int
}

// Cache memoizes ValueAtTime for one input. It listens for ValueChanged
// and drops the cached samples inside the reported range, recording the
// range as dirty until MarkClean.
type Cache struct {
	input  *node.Input
	store  Store
	key    string
	logger *slog.Logger
	sub    notify.Subscription

	mu    sync.Mutex
	dirty timerange.List
	stats Stats
}

// New attaches a cache to in.
func New(in *node.Input, cfg Config) *Cache {
	if cfg.Store == nil {
		cfg.Store = NewMemoryStore()
	}
	if cfg.Key == "" {
		cfg.Key = in.String()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	c := &Cache{
		input:  in,
		store:  cfg.Store,
		key:    cfg.Key,
		logger: cfg.Logger.With("input", cfg.Key),
	}
	c.sub = in.Subscribe(c.onEvent)
	return c
}

// Close detaches the cache from its input. The store is left open.
func (c *Cache) Close() {
	c.input.Unsubscribe(c.sub)
}

// Key returns the store key of the input.
func (c *Cache) Key() string { return c.key }

// Value returns the input's value at t, evaluating and storing it on a miss.
func (c *Cache) Value(ctx context.Context, t rational.Rational) (value.Value, error) {
	v, ok, err := c.store.Get(ctx, c.key, t)
	if err != nil {
		return value.Value{}, fmt.Errorf("cache lookup %s at %s: %w", c.key, t, err)
	}
	c.mu.Lock()
	if ok {
		c.stats.Hits++
	} else {
		c.stats.Misses++
	}
	c.mu.Unlock()
	if ok {
		return v, nil
	}

	v = c.input.ValueAtTime(t)
	if t.IsInf() {
		return v, nil
	}
	if err := c.store.Put(ctx, c.key, Sample{Time: t, Value: v}); err != nil {
		return v, fmt.Errorf("cache store %s at %s: %w", c.key, t, err)
	}
	return v, nil
}

// Samples returns the cached samples in time order.
func (c *Cache) Samples(ctx context.Context) ([]Sample, error) {
	return c.store.Samples(ctx, c.key)
}

// Dirty returns the spans invalidated since they were last marked clean.
func (c *Cache) Dirty() []timerange.Range {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dirty.Ranges()
}

// IsDirty reports whether t lies in a dirty span.
func (c *Cache) IsDirty(t rational.Rational) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dirty.Contains(t)
}

// MarkClean removes r from the dirty spans.
func (c *Cache) MarkClean(r timerange.Range) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dirty.Remove(r)
}

// Stats returns the traffic counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

func (c *Cache) onEvent(e node.Event) {
	if e.Kind != node.ValueChanged {
		return
	}
	n, err := c.store.Invalidate(context.Background(), c.key, e.Range)
	if err != nil {
		c.logger.Error("failed to invalidate samples", "range", e.Range.String(), "error", err)
	}

	c.mu.Lock()
	c.dirty.Insert(e.Range)
	c.stats.Invalidated += n
	c.mu.Unlock()

	c.logger.Debug("invalidated samples", "range", e.Range.String(), "dropped", n)
}
