package node

import (
	"fmt"

	"github.com/leapstack-labs/leapanim/pkg/timerange"
)

// Connector wires an output into an input on behalf of CopyValues. A graph
// implements it to keep its own bookkeeping in step.
type Connector interface {
	Connect(out *Output, in *Input, lock bool) error
	Disconnect(out *Output, in *Input) error
}

// CopyOptions controls CopyValues.
type CopyOptions struct {
	// IncludeConnections connects dest to the output feeding source,
	// replacing any connection dest already has.
	IncludeConnections bool
	// LockConnections is passed to the Connector and array resizes.
	LockConnections bool
	// Connector makes the connection. Nil connects with ConnectEdge.
	Connector Connector
}

// CopyValues replaces dest's standard value, keyframes and keyframing flag
// with deep copies of source's. Array inputs are resized to match and
// copied element by element. dest always ends with an all-time
// ValueChanged.
func CopyValues(source, dest *Input, opts CopyOptions) error {
	if source.id != dest.id {
		return fmt.Errorf("copy %q into %q: %w", source.id, dest.id, ErrIDMismatch)
	}
	if source.isArray != dest.isArray {
		return fmt.Errorf("copy %q: %w", source.id, ErrArrayMismatch)
	}

	keys := make([]Keyframe, 0, len(source.keys))
	for _, id := range source.keys {
		k, _ := source.arena.get(id)
		keys = append(keys, *k)
	}

	// From here on dest has been written to, so it ends with an all-time
	// ValueChanged even when reconnecting or resizing fails.
	defer dest.emitRange(timerange.All())

	dest.standard = source.standard
	dest.keys = dest.keys[:0]
	dest.arena.reset()
	for _, k := range keys {
		dest.keys = append(dest.keys, dest.arena.alloc(k))
	}

	dest.keyframing = source.keyframing
	dest.emit(Event{Kind: KeyframingChanged, Keyframing: dest.keyframing})

	if opts.IncludeConnections && source.output != nil && dest.output != source.output {
		if err := reconnect(opts, source.output, dest); err != nil {
			return fmt.Errorf("copy %q connections: %w", source.id, err)
		}
	}

	if dest.isArray {
		if err := dest.SetArraySize(len(source.array), opts.LockConnections); err != nil {
			return err
		}
		for i, src := range source.array {
			if err := CopyValues(src, dest.array[i], opts); err != nil {
				return err
			}
		}
	}

	return nil
}

// reconnect moves in from its current output, if any, to out. If out
// refuses the edge the previous connection is restored.
func reconnect(opts CopyOptions, out *Output, in *Input) error {
	prev := in.output
	if prev != nil {
		if err := disconnect(opts, prev, in); err != nil {
			return err
		}
	}
	if err := connect(opts, out, in); err != nil {
		if prev != nil && in.output == nil {
			_ = ConnectEdge(prev, in)
		}
		return err
	}
	return nil
}

func connect(opts CopyOptions, out *Output, in *Input) error {
	if opts.Connector != nil {
		return opts.Connector.Connect(out, in, opts.LockConnections)
	}
	return ConnectEdge(out, in)
}

func disconnect(opts CopyOptions, out *Output, in *Input) error {
	if opts.Connector != nil {
		return opts.Connector.Disconnect(out, in)
	}
	return DisconnectEdge(out, in)
}
