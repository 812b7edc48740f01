// Package framecache caches evaluated input samples and drops exactly the
// spans an input reports as changed.
package framecache

import (
	"context"
	"errors"

	"github.com/leapstack-labs/leapanim/pkg/rational"
	"github.com/leapstack-labs/leapanim/pkg/timerange"
	"github.com/leapstack-labs/leapanim/pkg/value"
)

// ErrInfiniteTime is returned when a sample is stored at an infinite time.
var ErrInfiniteTime = errors.New("sample time must be finite")

// Sample is one evaluated value of an input.
type Sample struct {
	Time  rational.Rational
	Value value.Value
}

// Store persists samples keyed by input and exact time.
type Store interface {
	// Put stores or replaces the sample of key at s.Time.
	Put(ctx context.Context, key string, s Sample) error
	// Get returns the sample of key at exactly t.
	Get(ctx context.Context, key string, t rational.Rational) (value.Value, bool, error)
	// Invalidate deletes every sample of key whose time lies in r and
	// returns how many were deleted.
	Invalidate(ctx context.Context, key string, r timerange.Range) (int, error)
	// Samples returns the samples of key in time order.
	Samples(ctx context.Context, key string) ([]Sample, error)
	// Close releases the store.
	Close() error
}
