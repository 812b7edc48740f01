package node

import "errors"

// Precondition violations. Operations that return one of these leave the
// input, node and keyframe state untouched.
var (
	ErrDuplicateKeyframeTime = errors.New("a keyframe already exists at this time")
	ErrNotKeyframable        = errors.New("input is not keyframable")
	ErrNotKeyframing         = errors.New("input is not keyframing")
	ErrKeyframing            = errors.New("input is keyframing")
	ErrLastKeyframe          = errors.New("cannot remove the last keyframe")
	ErrUnknownKeyframe       = errors.New("unknown keyframe")
	ErrValueType             = errors.New("value does not match input data type")
	ErrInputConnected        = errors.New("input is already connected")
	ErrNotConnected          = errors.New("input is not connected to this output")
	ErrIDMismatch            = errors.New("inputs do not share the same id")
	ErrArrayMismatch         = errors.New("inputs are not both arrays or both scalars")
	ErrNotArray              = errors.New("input is not an array")
	ErrNodeOwned             = errors.New("node belongs to another owner")
	ErrInputOwned            = errors.New("input already belongs to a node")
	ErrDuplicateParam        = errors.New("node already has a parameter with this id")
)
