package node

import (
	"fmt"

	"github.com/leapstack-labs/leapanim/pkg/timerange"
)

// ArraySize returns the number of elements of an array input, or 0 for
// scalars.
func (in *Input) ArraySize() int { return len(in.array) }

// ArrayAt returns the i-th element of an array input.
func (in *Input) ArrayAt(i int) (*Input, bool) {
	if i < 0 || i >= len(in.array) {
		return nil, false
	}
	return in.array[i], true
}

// SetArraySize grows or shrinks an array input. New elements copy the
// array's standard value and flags. Removed elements are disconnected
// first. With lock set, the owning node's lock is held for the resize.
func (in *Input) SetArraySize(n int, lock bool) error {
	if !in.isArray {
		return fmt.Errorf("resize %q: %w", in.id, ErrNotArray)
	}
	if n < 0 {
		return fmt.Errorf("resize %q to %d: negative size", in.id, n)
	}
	if n == len(in.array) {
		return nil
	}

	if lock {
		if node := in.Node(); node != nil && node.locker != nil {
			node.locker.Lock()
			defer node.locker.Unlock()
		}
	}

	for len(in.array) > n {
		last := in.array[len(in.array)-1]
		if last.output != nil {
			_ = DisconnectEdge(last.output, last)
		}
		in.array = in.array[:len(in.array)-1]
		last.parent = nil
	}
	for i := len(in.array); i < n; i++ {
		in.array = append(in.array, in.newElement(i))
	}

	in.emit(Event{Kind: ArraySizeChanged, Size: n})
	in.emitRange(timerange.All())
	return nil
}

func (in *Input) newElement(i int) *Input {
	return &Input{
		id:          fmt.Sprintf("%s[%d]", in.id, i),
		dataType:    in.dataType,
		parent:      in,
		index:       i,
		standard:    in.standard,
		keyframable: in.keyframable,
		min:         in.min,
		max:         in.max,
		hasMin:      in.hasMin,
		hasMax:      in.hasMax,
	}
}
