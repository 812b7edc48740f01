package config

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/leapstack-labs/leapanim/pkg/node"
	"github.com/leapstack-labs/leapanim/pkg/rational"
)

// Validate checks that every option holds a supported value.
func (c *Config) Validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}
	if !slices.Contains([]string{"text", "json"}, strings.ToLower(c.LogFormat)) {
		return fmt.Errorf("invalid log_format %q: must be text or json", c.LogFormat)
	}
	if !slices.Contains([]string{OutputText, OutputJSON}, strings.ToLower(c.Output)) {
		return fmt.Errorf("invalid output %q: must be text or json", c.Output)
	}
	if _, err := c.KeyframeType(); err != nil {
		return fmt.Errorf("invalid default_keyframe_type: %w", err)
	}
	if c.Sample.Workers < 1 {
		return fmt.Errorf("invalid sample.workers %d: must be at least 1", c.Sample.Workers)
	}
	if _, err := c.Step(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}

// KeyframeType parses DefaultKeyframeType.
func (c *Config) KeyframeType() (node.KeyframeType, error) {
	return node.ParseKeyframeType(c.DefaultKeyframeType)
}

// Step parses Sample.Step. It must be a positive finite time.
func (c *Config) Step() (rational.Rational, error) {
	step, err := rational.Parse(c.Sample.Step)
	if err != nil {
		return rational.Zero, fmt.Errorf("invalid sample.step: %w", err)
	}
	if step.IsInf() || step.Sign() <= 0 {
		return rational.Zero, fmt.Errorf("invalid sample.step %q: must be positive and finite", c.Sample.Step)
	}
	return step, nil
}
