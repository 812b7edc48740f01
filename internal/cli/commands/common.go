package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapanim/internal/config"
	"github.com/leapstack-labs/leapanim/internal/sheet"
	"github.com/leapstack-labs/leapanim/pkg/graph"
	"github.com/leapstack-labs/leapanim/pkg/node"
	"github.com/leapstack-labs/leapanim/pkg/rational"
	"github.com/leapstack-labs/leapanim/pkg/timerange"
)

// loadGraph reads the sheet at path and builds its graph.
func loadGraph(cmd *cobra.Command, path string) (*graph.Graph, error) {
	f, err := sheet.Load(path)
	if err != nil {
		return nil, err
	}
	return sheet.Builder{Logger: config.GetLogger(cmd.Context())}.Build(f)
}

// loadInput reads the sheet at path and resolves ref in it.
func loadInput(cmd *cobra.Command, path, ref string) (*node.Input, error) {
	g, err := loadGraph(cmd, path)
	if err != nil {
		return nil, err
	}
	return sheet.ResolveInput(g, ref)
}

func parseTimes(args []string) ([]rational.Rational, error) {
	out := make([]rational.Rational, 0, len(args))
	for _, a := range args {
		t, err := rational.Parse(a)
		if err != nil {
			return nil, fmt.Errorf("invalid time %q: %w", a, err)
		}
		out = append(out, t)
	}
	return out, nil
}

func parseSpan(from, to string) (timerange.Range, error) {
	in, err := rational.Parse(from)
	if err != nil {
		return timerange.Range{}, fmt.Errorf("invalid --from: %w", err)
	}
	out, err := rational.Parse(to)
	if err != nil {
		return timerange.Range{}, fmt.Errorf("invalid --to: %w", err)
	}
	return timerange.New(in, out), nil
}

func wantJSON(cmd *cobra.Command) bool {
	return strings.EqualFold(config.GetConfig(cmd.Context()).Output, config.OutputJSON)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer, header ...any) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row(header))
	return t
}

// seconds formats a finite time as decimal seconds.
func seconds(t rational.Rational) string {
	if t.IsInf() {
		return t.String()
	}
	return fmt.Sprintf("%.6g", t.Float64())
}

// finiteSeconds is t in seconds, or nil for the infinite sentinels.
func finiteSeconds(t rational.Rational) *float64 {
	if t.IsInf() {
		return nil
	}
	f := t.Float64()
	return &f
}
