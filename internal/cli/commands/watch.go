package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapanim/internal/config"
	"github.com/leapstack-labs/leapanim/internal/framecache"
	"github.com/leapstack-labs/leapanim/pkg/rational"
	"github.com/leapstack-labs/leapanim/pkg/timerange"
)

const watchDebounce = 100 * time.Millisecond

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	opts := &sampleOptions{}
	cmd := &cobra.Command{
		Use:   "watch <sheet> <node.input>",
		Short: "Re-sample an input whenever its sheet changes",
		Long: `Sample an input like "sample", then watch the sheet file and print the
samples whose value changed after every save. Stop with Ctrl-C.`,
		Example: `  leapanim watch comp.yaml title.opacity --to 2 --step 1/4`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			span, err := parseSpan(opts.from, opts.to)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runWatch(ctx, cmd, args[0], args[1], span)
		},
	}

	cmd.Flags().StringVar(&opts.from, "from", "0", "First sample time")
	cmd.Flags().StringVar(&opts.to, "to", "1", "Last sample time")

	return cmd
}

func runWatch(ctx context.Context, cmd *cobra.Command, path, ref string, span timerange.Range) error {
	logger := config.GetLogger(ctx)
	w := cmd.OutOrStdout()

	resample := func() ([]framecache.Sample, error) {
		in, err := loadInput(cmd, path, ref)
		if err != nil {
			return nil, err
		}
		return runSample(ctx, in, span)
	}

	prev, err := resample()
	if err != nil {
		return err
	}
	if err := renderSamples(cmd, w, prev); err != nil {
		return err
	}

	return watchFile(ctx, path, watchDebounce, logger, func() {
		next, err := resample()
		if err != nil {
			logger.Error("resample failed", "sheet", path, "error", err)
			return
		}
		changes := diffSamples(prev, next)
		prev = next
		printChanges(w, changes)
	})
}

// watchFile calls onChange once writes to path settle for delay, until
// ctx is done. The parent directory is watched so editors that replace
// the file are still seen.
func watchFile(ctx context.Context, path string, delay time.Duration, logger *slog.Logger, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	target, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}
	logger.Debug("watching sheet", "path", target)

	var settle <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if name, err := filepath.Abs(event.Name); err != nil || name != target {
				continue
			}
			settle = time.After(delay)

		case <-settle:
			settle = nil
			logger.Debug("sheet changed", "path", target)
			onChange()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher error", "error", err)
		}
	}
}

type sampleChange struct {
	Time rational.Rational
	From string
	To   string
}

// diffSamples lists the times whose value differs between prev and next,
// including times present in only one of them.
func diffSamples(prev, next []framecache.Sample) []sampleChange {
	old := make(map[rational.Rational]framecache.Sample, len(prev))
	for _, s := range prev {
		old[s.Time] = s
	}

	var out []sampleChange
	for _, s := range next {
		o, ok := old[s.Time]
		delete(old, s.Time)
		switch {
		case !ok:
			out = append(out, sampleChange{Time: s.Time, From: "-", To: s.Value.String()})
		case !o.Value.Equal(s.Value):
			out = append(out, sampleChange{Time: s.Time, From: o.Value.String(), To: s.Value.String()})
		}
	}
	for _, s := range prev {
		if _, gone := old[s.Time]; gone {
			out = append(out, sampleChange{Time: s.Time, From: s.Value.String(), To: "-"})
		}
	}
	return out
}

func printChanges(w io.Writer, changes []sampleChange) {
	if len(changes) == 0 {
		_, _ = fmt.Fprintln(w, "no samples changed")
		return
	}
	_, _ = fmt.Fprintf(w, "%d samples changed\n", len(changes))
	for _, c := range changes {
		_, _ = fmt.Fprintf(w, "  %s: %s -> %s\n", c.Time, c.From, c.To)
	}
}
