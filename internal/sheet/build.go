package sheet

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/leapanim/pkg/graph"
	"github.com/leapstack-labs/leapanim/pkg/node"
)

// ErrUnknownRef is returned when a reference names a missing node or param.
var ErrUnknownRef = errors.New("unknown reference")

// Load reads and decodes the sheet at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse decodes a sheet. Unknown fields are rejected.
func Parse(data []byte) (*File, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var f File
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to decode sheet: %w", err)
	}
	return &f, nil
}

// Builder turns a File into a graph.
type Builder struct {
	Logger *slog.Logger
	// Options are passed to graph.New after the sizer built from node heights.
	Options []graph.Option
}

// Build is Builder{}.Build(f).
func Build(f *File) (*graph.Graph, error) {
	return Builder{}.Build(f)
}

// Build creates every node, then the connections, then the positions.
func (b Builder) Build(f *File) (*graph.Graph, error) {
	logger := b.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	heights := make(map[*node.Node]float64)
	opts := append([]graph.Option{graph.WithSizer(graph.SizerFunc(func(n *node.Node) float64 {
		if h, ok := heights[n]; ok {
			return h
		}
		return 1
	}))}, b.Options...)
	g := graph.New(opts...)

	for _, ns := range f.Nodes {
		if ns.Name == "" {
			return nil, errors.New("node without a name")
		}
		if _, dup := g.NodeByName(ns.Name); dup {
			return nil, fmt.Errorf("node %q: %w", ns.Name, graph.ErrNodeExists)
		}
		n, err := buildNode(ns)
		if err != nil {
			return nil, err
		}
		if ns.Height > 0 {
			heights[n] = ns.Height
		}
		add := g.AddNode
		if ns.Default {
			add = g.AddDefaultNode
		}
		if err := add(n); err != nil {
			return nil, fmt.Errorf("node %q: %w", ns.Name, err)
		}
	}

	for _, cs := range f.Connections {
		out, err := ResolveOutput(g, cs.From)
		if err != nil {
			return nil, err
		}
		in, err := ResolveInput(g, cs.To)
		if err != nil {
			return nil, err
		}
		if err := g.Connect(out, in, false); err != nil {
			return nil, fmt.Errorf("connect %s -> %s: %w", cs.From, cs.To, err)
		}
	}

	for _, cs := range f.Contexts {
		context, ok := g.NodeByName(cs.Context)
		if !ok {
			return nil, fmt.Errorf("context %q: %w", cs.Context, ErrUnknownRef)
		}
		for _, p := range cs.Positions {
			n, ok := g.NodeByName(p.Node)
			if !ok {
				return nil, fmt.Errorf("position of %q in %q: %w", p.Node, cs.Context, ErrUnknownRef)
			}
			if err := g.SetNodePosition(n, context, graph.Point{X: p.X, Y: p.Y}); err != nil {
				return nil, err
			}
		}
	}

	logger.Debug("built sheet graph",
		"nodes", len(f.Nodes),
		"connections", len(f.Connections),
		"contexts", len(f.Contexts),
	)
	return g, nil
}

func buildNode(ns NodeSpec) (*node.Node, error) {
	n := node.New(ns.Name)
	for _, is := range ns.Inputs {
		in, err := buildInput(is)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", ns.Name, err)
		}
		if err := n.AddInput(in); err != nil {
			return nil, fmt.Errorf("node %q: %w", ns.Name, err)
		}
	}
	for _, id := range ns.Outputs {
		if _, err := n.AddOutput(id); err != nil {
			return nil, fmt.Errorf("node %q: %w", ns.Name, err)
		}
	}
	return n, nil
}

func buildInput(is InputSpec) (*node.Input, error) {
	dt, err := node.ParseDataType(is.Type)
	if err != nil {
		return nil, fmt.Errorf("input %q: %w", is.ID, err)
	}
	standard := zeroValue(dt)
	if isSet(&is.Value) {
		if standard, err = decodeValue(dt, &is.Value); err != nil {
			return nil, fmt.Errorf("input %q: %w", is.ID, err)
		}
	}

	newInput := node.NewInput
	if len(is.Elements) > 0 {
		newInput = node.NewInputArray
	}
	in, err := newInput(is.ID, dt, standard)
	if err != nil {
		return nil, fmt.Errorf("input %q: %w", is.ID, err)
	}
	if is.Name != "" {
		in.SetName(is.Name)
	}
	if err := applyInput(in, is); err != nil {
		return nil, fmt.Errorf("input %q: %w", is.ID, err)
	}

	if len(is.Elements) == 0 {
		return in, nil
	}
	if err := in.SetArraySize(len(is.Elements), false); err != nil {
		return nil, fmt.Errorf("input %q: %w", is.ID, err)
	}
	for i, es := range is.Elements {
		el, _ := in.ArrayAt(i)
		if isSet(&es.Value) {
			v, err := decodeValue(dt, &es.Value)
			if err != nil {
				return nil, fmt.Errorf("input %q element %d: %w", is.ID, i, err)
			}
			if err := el.SetStandardValue(v); err != nil {
				return nil, fmt.Errorf("input %q element %d: %w", is.ID, i, err)
			}
		}
		if err := applyInput(el, es); err != nil {
			return nil, fmt.Errorf("input %q element %d: %w", is.ID, i, err)
		}
	}
	return in, nil
}

// applyInput sets bounds, keyframes and flags. Keyframes are inserted
// before keyframing is switched on, so a non-keyframing input keeps them
// dormant.
func applyInput(in *node.Input, is InputSpec) error {
	dt := in.DataType()
	if isSet(&is.Min) {
		v, err := decodeValue(dt, &is.Min)
		if err != nil {
			return fmt.Errorf("min: %w", err)
		}
		if err := in.SetMinimum(v); err != nil {
			return err
		}
	}
	if isSet(&is.Max) {
		v, err := decodeValue(dt, &is.Max)
		if err != nil {
			return fmt.Errorf("max: %w", err)
		}
		if err := in.SetMaximum(v); err != nil {
			return err
		}
	}

	for _, ks := range is.Keyframes {
		k, err := buildKeyframe(dt, ks)
		if err != nil {
			return err
		}
		if _, err := in.InsertKeyframe(k); err != nil {
			return err
		}
	}
	if is.Keyframing {
		if err := in.SetKeyframing(true); err != nil {
			return err
		}
	}
	if is.Keyframable != nil {
		in.SetKeyframable(*is.Keyframable)
	}
	return nil
}

func buildKeyframe(dt node.DataType, ks KeyframeSpec) (node.Keyframe, error) {
	v, err := decodeValue(dt, &ks.Value)
	if err != nil {
		return node.Keyframe{}, fmt.Errorf("keyframe at %s: %w", ks.Time, err)
	}
	k := node.Keyframe{Time: ks.Time.Rational, Value: v, Type: node.DefaultKeyframeType()}
	if ks.Type != "" {
		if k.Type, err = node.ParseKeyframeType(ks.Type); err != nil {
			return node.Keyframe{}, fmt.Errorf("keyframe at %s: %w", ks.Time, err)
		}
	}
	if k.In, err = buildHandle(dt, ks.In); err != nil {
		return node.Keyframe{}, fmt.Errorf("keyframe at %s in handle: %w", ks.Time, err)
	}
	if k.Out, err = buildHandle(dt, ks.Out); err != nil {
		return node.Keyframe{}, fmt.Errorf("keyframe at %s out handle: %w", ks.Time, err)
	}
	return k, nil
}

func buildHandle(dt node.DataType, hs *HandleSpec) (node.Handle, error) {
	if hs == nil {
		return node.Handle{}, nil
	}
	h := node.Handle{Time: hs.Time}
	if isSet(&hs.Value) {
		v, err := decodeValue(dt, &hs.Value)
		if err != nil {
			return node.Handle{}, err
		}
		h.Value = v
	}
	return h, nil
}

// ResolveInput finds the input named by ref: "node.input" or "node.input[i]".
func ResolveInput(g *graph.Graph, ref string) (*node.Input, error) {
	n, param, err := splitRef(g, ref)
	if err != nil {
		return nil, err
	}
	index := -1
	if open := strings.IndexByte(param, '['); open >= 0 && strings.HasSuffix(param, "]") {
		if index, err = strconv.Atoi(param[open+1 : len(param)-1]); err != nil {
			return nil, fmt.Errorf("input %q: bad index: %w", ref, err)
		}
		param = param[:open]
	}
	in, ok := n.Input(param)
	if !ok {
		return nil, fmt.Errorf("input %q: %w", ref, ErrUnknownRef)
	}
	if index < 0 {
		return in, nil
	}
	el, ok := in.ArrayAt(index)
	if !ok {
		return nil, fmt.Errorf("input %q: %w", ref, ErrUnknownRef)
	}
	return el, nil
}

// ResolveOutput finds the output named by ref: "node.output".
func ResolveOutput(g *graph.Graph, ref string) (*node.Output, error) {
	n, param, err := splitRef(g, ref)
	if err != nil {
		return nil, err
	}
	out, ok := n.Output(param)
	if !ok {
		return nil, fmt.Errorf("output %q: %w", ref, ErrUnknownRef)
	}
	return out, nil
}

func splitRef(g *graph.Graph, ref string) (*node.Node, string, error) {
	name, param, ok := strings.Cut(ref, ".")
	if !ok || name == "" || param == "" {
		return nil, "", fmt.Errorf("reference %q must be node.param: %w", ref, ErrUnknownRef)
	}
	n, ok := g.NodeByName(name)
	if !ok {
		return nil, "", fmt.Errorf("node %q: %w", name, ErrUnknownRef)
	}
	return n, param, nil
}
