package commands

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapanim/pkg/value"
)

type evalResult struct {
	Time    string      `json:"time"`
	Seconds *float64    `json:"seconds,omitempty"`
	Value   value.Value `json:"value"`
}

// NewEvalCommand creates the eval command.
func NewEvalCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "eval <sheet> <node.input> <time>...",
		Short: "Evaluate an input at specific times",
		Long: `Evaluate an animated input from a sheet at one or more times.

Times are rationals: "2", "1/24", "0.5", "-inf" or "inf".`,
		Example: `  # Opacity of the title node at frame 12 of a 24fps timeline
  leapanim eval comp.yaml title.opacity 12/24

  # An array element, as JSON
  leapanim eval comp.yaml "merge.layers[1]" 0 1 2 -o json`,
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := loadInput(cmd, args[0], args[1])
			if err != nil {
				return err
			}
			times, err := parseTimes(args[2:])
			if err != nil {
				return err
			}

			results := make([]evalResult, len(times))
			for i, t := range times {
				results[i] = evalResult{Time: t.String(), Seconds: finiteSeconds(t), Value: in.ValueAtTime(t)}
			}

			w := cmd.OutOrStdout()
			if wantJSON(cmd) {
				return writeJSON(w, results)
			}
			tbl := newTable(w, "Time", "Seconds", "Value")
			for i, r := range results {
				tbl.AppendRow(table.Row{r.Time, seconds(times[i]), r.Value.String()})
			}
			tbl.Render()
			return nil
		},
	}
}
