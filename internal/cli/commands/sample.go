package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapanim/internal/config"
	"github.com/leapstack-labs/leapanim/internal/framecache"
	"github.com/leapstack-labs/leapanim/internal/sampler"
	"github.com/leapstack-labs/leapanim/pkg/node"
	"github.com/leapstack-labs/leapanim/pkg/timerange"
)

type sampleOptions struct {
	from string
	to   string
}

// NewSampleCommand creates the sample command.
func NewSampleCommand() *cobra.Command {
	opts := &sampleOptions{}
	cmd := &cobra.Command{
		Use:   "sample <sheet> <node.input>",
		Short: "Sample an input over a time span",
		Long: `Evaluate an input at every --step between --from and --to, inclusive.

Samples are computed in parallel (--workers) on a snapshot of the input.
With --cache set, every sample is also written to that SQLite database.`,
		Example: `  # One sample per frame over the first second at 24fps
  leapanim sample comp.yaml title.opacity --from 0 --to 1 --step 1/24

  # Persist the samples
  leapanim sample comp.yaml merge.offset --to 2 --cache samples.db`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := loadInput(cmd, args[0], args[1])
			if err != nil {
				return err
			}
			span, err := parseSpan(opts.from, opts.to)
			if err != nil {
				return err
			}
			samples, err := runSample(cmd.Context(), in, span)
			if err != nil {
				return err
			}
			return renderSamples(cmd, cmd.OutOrStdout(), samples)
		},
	}

	cmd.Flags().StringVar(&opts.from, "from", "0", "First sample time")
	cmd.Flags().StringVar(&opts.to, "to", "1", "Last sample time")

	return cmd
}

func runSample(ctx context.Context, in *node.Input, span timerange.Range) ([]framecache.Sample, error) {
	cfg := config.GetConfig(ctx)
	logger := config.GetLogger(ctx)

	step, err := cfg.Step()
	if err != nil {
		return nil, err
	}

	scfg := sampler.Config{Workers: cfg.Sample.Workers, Logger: logger}
	if cfg.Cache.Path != "" {
		store, err := framecache.OpenSQLite(ctx, cfg.Cache.Path)
		if err != nil {
			return nil, err
		}
		defer func() { _ = store.Close() }()
		scfg.Store = store
		logger.Debug("writing samples to cache", "path", cfg.Cache.Path)
	}

	return sampler.New(scfg).SampleRange(ctx, in, span, step)
}

type sampleRow struct {
	Time    string   `json:"time"`
	Seconds *float64 `json:"seconds,omitempty"`
	Value   any      `json:"value"`
}

func renderSamples(cmd *cobra.Command, w io.Writer, samples []framecache.Sample) error {
	if wantJSON(cmd) {
		rows := make([]sampleRow, len(samples))
		for i, s := range samples {
			rows[i] = sampleRow{Time: s.Time.String(), Seconds: finiteSeconds(s.Time), Value: s.Value}
		}
		return writeJSON(w, rows)
	}

	tbl := newTable(w, "Time", "Seconds", "Value")
	for _, s := range samples {
		tbl.AppendRow(table.Row{s.Time.String(), seconds(s.Time), s.Value.String()})
	}
	tbl.AppendFooter(table.Row{"", "Samples", fmt.Sprint(len(samples))})
	tbl.Render()
	return nil
}
