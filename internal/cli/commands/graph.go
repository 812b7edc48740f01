package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapanim/pkg/graph"
	"github.com/leapstack-labs/leapanim/pkg/node"
)

type graphNode struct {
	Name     string   `json:"name"`
	ID       string   `json:"id"`
	Default  bool     `json:"default"`
	Inputs   []string `json:"inputs"`
	Outputs  []string `json:"outputs"`
	Contexts int      `json:"contexts"`
	Feeds    []string `json:"feeds"`
}

type graphPosition struct {
	Node string  `json:"node"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

type graphContext struct {
	Context   string          `json:"context"`
	Height    float64         `json:"height"`
	Positions []graphPosition `json:"positions"`
}

type graphReport struct {
	Nodes    []graphNode    `json:"nodes"`
	Contexts []graphContext `json:"contexts"`
	Levels   [][]string     `json:"levels"`
}

// NewGraphCommand creates the graph command.
func NewGraphCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "graph <sheet>",
		Short: "Show the nodes, contexts and evaluation order of a sheet",
		Long: `Show every node of a sheet with its parameters, the positions of nodes in
each context, each context's height, and the nodes grouped by dependency
level (upstream first).`,
		Example: `  leapanim graph comp.yaml
  leapanim graph comp.yaml -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGraph(cmd, args[0])
			if err != nil {
				return err
			}
			report, err := buildGraphReport(g)
			if err != nil {
				return err
			}
			if wantJSON(cmd) {
				return writeJSON(cmd.OutOrStdout(), report)
			}
			renderGraphReport(cmd.OutOrStdout(), report)
			return nil
		},
	}
}

func buildGraphReport(g *graph.Graph) (*graphReport, error) {
	defaults := make(map[*node.Node]bool)
	for _, n := range g.DefaultNodes() {
		defaults[n] = true
	}

	report := &graphReport{}
	for _, n := range g.Nodes() {
		gn := graphNode{
			Name:     n.Name(),
			ID:       n.ID().String(),
			Default:  defaults[n],
			Contexts: g.NumberOfContextsNodeIsIn(n),
			Inputs:   []string{},
			Outputs:  []string{},
			Feeds:    []string{},
		}
		for _, in := range n.Inputs() {
			label := in.ID() + ":" + in.DataType().String()
			if in.IsArray() {
				label += fmt.Sprintf("[%d]", in.ArraySize())
			}
			gn.Inputs = append(gn.Inputs, label)
		}
		for _, out := range n.Outputs() {
			gn.Outputs = append(gn.Outputs, out.ID())
		}
		for _, d := range g.Downstream(n) {
			gn.Feeds = append(gn.Feeds, d.Name())
		}
		report.Nodes = append(report.Nodes, gn)
	}

	for _, ctx := range g.Contexts() {
		gc := graphContext{Context: ctx.Name(), Height: g.NodeContextHeight(ctx)}
		for _, n := range g.Nodes() {
			if pos, ok := g.NodePosition(n, ctx); ok {
				gc.Positions = append(gc.Positions, graphPosition{Node: n.Name(), X: pos.X, Y: pos.Y})
			}
		}
		report.Contexts = append(report.Contexts, gc)
	}

	levels, err := g.Levels()
	if err != nil {
		return nil, fmt.Errorf("failed to order nodes: %w", err)
	}
	for _, level := range levels {
		names := make([]string, len(level))
		for i, n := range level {
			names[i] = n.Name()
		}
		report.Levels = append(report.Levels, names)
	}
	return report, nil
}

func renderGraphReport(w io.Writer, report *graphReport) {
	nodes := newTable(w, "Node", "Inputs", "Outputs", "Contexts", "Feeds")
	for _, n := range report.Nodes {
		name := n.Name
		if n.Default {
			name += " (default)"
		}
		nodes.AppendRow(table.Row{
			name,
			strings.Join(n.Inputs, ", "),
			strings.Join(n.Outputs, ", "),
			n.Contexts,
			strings.Join(n.Feeds, ", "),
		})
	}
	nodes.Render()

	for _, c := range report.Contexts {
		_, _ = fmt.Fprintf(w, "\nContext %s (height %g)\n", c.Context, c.Height)
		pos := newTable(w, "Node", "X", "Y")
		for _, p := range c.Positions {
			pos.AppendRow(table.Row{p.Node, p.X, p.Y})
		}
		pos.Render()
	}

	_, _ = fmt.Fprintln(w, "\nEvaluation order:")
	for i, level := range report.Levels {
		_, _ = fmt.Fprintf(w, "  %d: %s\n", i, strings.Join(level, ", "))
	}
}
