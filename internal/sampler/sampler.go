// Package sampler evaluates an input at many times in parallel. It works on
// a detached snapshot so the live input can keep changing meanwhile.
package sampler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/leapanim/internal/framecache"
	"github.com/leapstack-labs/leapanim/pkg/node"
	"github.com/leapstack-labs/leapanim/pkg/rational"
	"github.com/leapstack-labs/leapanim/pkg/timerange"
)

// MaxSamples caps the number of times produced by Times.
const MaxSamples = 1 << 20

var (
	// ErrInvalidStep is returned for a step that is not positive and finite.
	ErrInvalidStep = errors.New("step must be positive and finite")
	// ErrOpenSpan is returned when a span to sample has an infinite bound.
	ErrOpenSpan = errors.New("span must be finite")
	// ErrTooManySamples is returned when a span and step exceed MaxSamples.
	ErrTooManySamples = errors.New("too many samples")
)

// Config configures a Sampler.
type Config struct {
	// Workers bounds concurrent evaluations. Values below 1 mean 1.
	Workers int
	// Store, when set, receives every sample under the input's key.
	Store  framecache.Store
	Logger *slog.Logger
}

// Sampler evaluates snapshots of inputs.
type Sampler struct {
	workers int
	store   framecache.Store
	logger  *slog.Logger
}

// New creates a Sampler.
func New(cfg Config) *Sampler {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	return &Sampler{workers: cfg.Workers, store: cfg.Store, logger: cfg.Logger}
}

// Snapshot returns a detached deep copy of in: same id, data type,
// standard value, keyframes and array elements, with no node and no
// connections.
func Snapshot(in *node.Input) (*node.Input, error) {
	newInput := node.NewInput
	if in.IsArray() {
		newInput = node.NewInputArray
	}
	snap, err := newInput(in.ID(), in.DataType(), in.StandardValue())
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", in, err)
	}
	snap.SetName(in.Name())
	snap.SetKeyframable(in.IsKeyframable())
	if err := node.CopyValues(in, snap, node.CopyOptions{}); err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", in, err)
	}
	return snap, nil
}

// Times returns span.In(), span.In()+step, ... up to and including
// span.Out() when it falls on the grid.
func Times(span timerange.Range, step rational.Rational) ([]rational.Rational, error) {
	if step.IsInf() || step.Sign() <= 0 {
		return nil, fmt.Errorf("sample every %s: %w", step, ErrInvalidStep)
	}
	if span.In().IsInf() || span.Out().IsInf() {
		return nil, fmt.Errorf("sample %s: %w", span, ErrOpenSpan)
	}
	if count := span.Length().Div(step).Float64(); count >= MaxSamples {
		return nil, fmt.Errorf("sample %s every %s: %w", span, step, ErrTooManySamples)
	}

	var out []rational.Rational
	for t := span.In(); t.Cmp(span.Out()) <= 0; t = t.Add(step) {
		out = append(out, t)
	}
	return out, nil
}

// Sample snapshots in and evaluates it at each time. Results are in the
// order of times.
func (s *Sampler) Sample(ctx context.Context, in *node.Input, times []rational.Rational) ([]framecache.Sample, error) {
	snap, err := Snapshot(in)
	if err != nil {
		return nil, err
	}
	key := in.String()
	start := time.Now()

	out := make([]framecache.Sample, len(times))
	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(s.workers)
	for i, t := range times {
		eg.Go(func() error {
			if err := egctx.Err(); err != nil {
				return err
			}
			out[i] = framecache.Sample{Time: t, Value: snap.ValueAtTime(t)}
			if s.store == nil || t.IsInf() {
				return nil
			}
			return s.store.Put(egctx, key, out[i])
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("sample %s: %w", key, err)
	}

	s.logger.Debug("sampled input",
		"input", key,
		"samples", len(out),
		"workers", s.workers,
		"duration", time.Since(start),
	)
	return out, nil
}

// SampleRange is Sample over Times(span, step).
func (s *Sampler) SampleRange(ctx context.Context, in *node.Input, span timerange.Range, step rational.Rational) ([]framecache.Sample, error) {
	times, err := Times(span, step)
	if err != nil {
		return nil, err
	}
	return s.Sample(ctx, in, times)
}
