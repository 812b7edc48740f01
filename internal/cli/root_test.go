package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapanim/internal/testutil"
	"github.com/leapstack-labs/leapanim/pkg/node"
)

func TestNewRootCmd_Flags(t *testing.T) {
	cmd := NewRootCmd()
	for _, name := range []string{"config", "log-level", "log-format", "output", "workers", "step", "cache", "default-keyframe-type"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), "flag %q should exist", name)
	}

	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"version", "eval", "sample", "keys", "graph", "watch", "completion"})
}

func TestRoot_DefaultKeyframeType(t *testing.T) {
	t.Cleanup(func() { node.SetDefaultKeyframeType(node.KeyframeLinear) })
	cfg := testutil.WriteFile(t, "leapanim.yaml", "")

	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"version", "--config", cfg, "--default-keyframe-type", "hold"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, node.KeyframeHold, node.DefaultKeyframeType())
}

func TestRoot_BadLogLevel(t *testing.T) {
	cfg := testutil.WriteFile(t, "leapanim.yaml", "log_level: chatty\n")

	cmd := NewRootCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"version", "--config", cfg})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log_level")
}

func TestCompletion(t *testing.T) {
	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"completion", "bash"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "leapanim")
}
