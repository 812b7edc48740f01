package node

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapanim/pkg/value"
)

func TestNode_Params(t *testing.T) {
	n := New("transform")
	assert.NotEqual(t, New("transform").ID(), n.ID())

	pos, err := NewInput("position", TypeVec2, value.Vec2(0, 0))
	require.NoError(t, err)
	require.NoError(t, n.AddInput(pos))
	assert.Same(t, n, pos.Node())

	out, err := n.AddOutput("texture")
	require.NoError(t, err)
	assert.Same(t, n, out.Node())

	got, ok := n.Input("position")
	require.True(t, ok)
	assert.Same(t, pos, got)
	_, ok = n.Input("rotation")
	assert.False(t, ok)

	dup, err := NewInput("texture", TypeFloat, value.Float(0))
	require.NoError(t, err)
	require.ErrorIs(t, n.AddInput(dup), ErrDuplicateParam)
	_, err = n.AddOutput("position")
	require.ErrorIs(t, err, ErrDuplicateParam)

	require.ErrorIs(t, New("other").AddInput(pos), ErrInputOwned)

	assert.Len(t, n.Inputs(), 1)
	assert.Len(t, n.Outputs(), 1)
	assert.Equal(t, "transform.position", pos.String())
}

func TestNode_ForwardsInputEvents(t *testing.T) {
	n := New("blur")
	radius := newFloatInput(t, "radius")
	require.NoError(t, n.AddInput(radius))

	var order []string
	radius.Subscribe(func(Event) { order = append(order, "input") })
	n.Subscribe(func(e Event) {
		order = append(order, "node:"+e.Kind.String())
		assert.Same(t, radius, e.Input)
	})

	require.NoError(t, radius.SetStandardValue(value.Float(4)))
	assert.Equal(t, []string{"input", "node:value-changed"}, order)
}

func TestConnectEdge(t *testing.T) {
	up := New("footage")
	out, err := up.AddOutput("out")
	require.NoError(t, err)

	down := New("blur")
	in := newFloatInput(t, "texture")
	require.NoError(t, down.AddInput(in))

	var kinds []EventKind
	down.Subscribe(func(e Event) {
		kinds = append(kinds, e.Kind)
		assert.Same(t, out, e.Output)
	})

	_, ok := in.ConnectedNode()
	assert.False(t, ok)

	require.NoError(t, ConnectEdge(out, in))
	node, ok := in.ConnectedNode()
	require.True(t, ok)
	assert.Same(t, up, node)
	assert.Equal(t, []*Input{in}, out.Edges())
	assert.Equal(t, []*Input{in}, down.ConnectedInputs())

	other, _ := up.AddOutput("alpha")
	require.ErrorIs(t, ConnectEdge(other, in), ErrInputConnected)
	require.ErrorIs(t, DisconnectEdge(other, in), ErrNotConnected)

	require.NoError(t, DisconnectEdge(out, in))
	_, ok = in.ConnectedOutput()
	assert.False(t, ok)
	assert.Equal(t, []EventKind{InputConnected, InputDisconnected}, kinds)
}

func TestNode_DisconnectAll(t *testing.T) {
	a, b, c := New("a"), New("b"), New("c")
	aOut, _ := a.AddOutput("out")
	bOut, _ := b.AddOutput("out")
	bIn := newFloatInput(t, "in")
	cIn := newFloatInput(t, "in")
	require.NoError(t, b.AddInput(bIn))
	require.NoError(t, c.AddInput(cIn))
	require.NoError(t, ConnectEdge(aOut, bIn))
	require.NoError(t, ConnectEdge(bOut, cIn))

	b.DisconnectAll()

	assert.Empty(t, aOut.Edges())
	assert.Empty(t, bOut.Edges())
	_, ok := cIn.ConnectedOutput()
	assert.False(t, ok)
}

func TestNode_AttachDetach(t *testing.T) {
	n := New("x")
	g1, g2 := &struct{ id int }{1}, &struct{ id int }{2}

	require.NoError(t, n.Attach(g1, nil))
	require.NoError(t, n.Attach(g1, nil), "re-attach to the same owner")
	require.ErrorIs(t, n.Attach(g2, nil), ErrNodeOwned)

	assert.False(t, n.Detach(g2))
	assert.True(t, n.Detach(g1))
	assert.Nil(t, n.Owner())
	require.NoError(t, n.Attach(g2, nil))
}
