package node

import "github.com/leapstack-labs/leapanim/pkg/timerange"

// EventKind identifies what an Event reports.
type EventKind uint8

const (
	// ValueChanged reports that evaluated values inside Range are stale.
	ValueChanged EventKind = iota + 1
	KeyframeAdded
	KeyframeRemoved
	KeyframingChanged
	InputConnected
	InputDisconnected
	ArraySizeChanged
)

func (k EventKind) String() string {
	switch k {
	case ValueChanged:
		return "value-changed"
	case KeyframeAdded:
		return "keyframe-added"
	case KeyframeRemoved:
		return "keyframe-removed"
	case KeyframingChanged:
		return "keyframing-changed"
	case InputConnected:
		return "input-connected"
	case InputDisconnected:
		return "input-disconnected"
	case ArraySizeChanged:
		return "array-size-changed"
	}
	return "unknown"
}

// Event is a change notification emitted by an Input. Only the fields
// relevant to Kind are set.
type Event struct {
	Kind  EventKind
	Input *Input

	// Range is set for ValueChanged.
	Range timerange.Range
	// Keyframe and Key are set for KeyframeAdded and KeyframeRemoved. A
	// removed keyframe's id is already stale when the event is delivered,
	// so Key carries its last contents.
	Keyframe KeyframeID
	Key      Keyframe
	// Keyframing is set for KeyframingChanged.
	Keyframing bool
	// Output is set for InputConnected and InputDisconnected.
	Output *Output
	// Size is set for ArraySizeChanged.
	Size int
}
