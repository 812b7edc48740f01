package commands

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapanim/internal/config"
	"github.com/leapstack-labs/leapanim/internal/testutil"
)

const testSheet = `
nodes:
  - name: title
    inputs:
      - id: opacity
        type: float
        value: 1
        keyframing: true
        keyframes:
          - {time: 0, value: 0}
          - {time: 1, value: 1, type: hold}
          - {time: 2, value: 0.5}
    outputs: [out]
  - name: blur
    height: 2
    inputs:
      - {id: source, type: none}
      - {id: radius, type: float, value: 4}
    outputs: [out]
  - name: group
    default: true
connections:
  - {from: title.out, to: blur.source}
contexts:
  - context: group
    positions:
      - {node: title, x: 0, y: 0}
      - {node: blur, x: 1, y: 3}
`

func testConfig() *config.Config {
	cfg := config.GetConfig(context.Background())
	cfg.Sample.Workers = 2
	return cfg
}

// execute runs cmd with args under cfg and returns its output.
func execute(t *testing.T, cmd *cobra.Command, cfg *config.Config, args ...string) (string, error) {
	t.Helper()
	ctx := config.WithConfig(context.Background(), cfg)
	ctx = config.WithLogger(ctx, testutil.NewTestLogger(t))

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	return buf.String(), err
}
