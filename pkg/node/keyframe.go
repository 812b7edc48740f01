package node

import (
	"fmt"

	"github.com/leapstack-labs/leapanim/pkg/rational"
	"github.com/leapstack-labs/leapanim/pkg/value"
)

// Handle is a Bezier tangent handle relative to its keyframe. Time is an
// offset in seconds and Value a per-component offset; a zero Value leaves
// the control point level with the keyframe.
type Handle struct {
	Time  float64
	Value value.Value
}

// Keyframe is a timestamped value sample. Keyframes are stored by value in
// their input's arena and addressed by KeyframeID.
type Keyframe struct {
	Time  rational.Rational
	Value value.Value
	Type  KeyframeType
	In    Handle
	Out   Handle
}

func (k Keyframe) String() string {
	return fmt.Sprintf("%s@%s(%s)", k.Value, k.Time, k.Type)
}

// KeyframeID is a stable handle to a keyframe within one input. It stays
// valid across re-sorting and becomes stale once the keyframe is removed.
// The zero value never refers to a keyframe.
type KeyframeID struct {
	slot uint32
	gen  uint32
}

// IsZero reports whether id is the zero handle.
func (id KeyframeID) IsZero() bool { return id.gen == 0 }

func (id KeyframeID) String() string {
	if id.IsZero() {
		return "key(none)"
	}
	return fmt.Sprintf("key(%d.%d)", id.slot, id.gen)
}

type slot struct {
	gen  uint32
	live bool
	key  Keyframe
}

// arena is an index-stable keyframe store. Freed slots are reused with a
// bumped generation so stale ids never resolve.
type arena struct {
	slots []slot
	free  []uint32
}

func (a *arena) alloc(k Keyframe) KeyframeID {
	var i uint32
	if n := len(a.free); n > 0 {
		i = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		i = uint32(len(a.slots))
		a.slots = append(a.slots, slot{})
	}
	s := &a.slots[i]
	s.gen++
	s.live = true
	s.key = k
	return KeyframeID{slot: i, gen: s.gen}
}

func (a *arena) get(id KeyframeID) (*Keyframe, bool) {
	if id.IsZero() || int(id.slot) >= len(a.slots) {
		return nil, false
	}
	s := &a.slots[id.slot]
	if !s.live || s.gen != id.gen {
		return nil, false
	}
	return &s.key, true
}

func (a *arena) release(id KeyframeID) {
	if _, ok := a.get(id); !ok {
		return
	}
	s := &a.slots[id.slot]
	s.live = false
	s.key = Keyframe{}
	a.free = append(a.free, id.slot)
}

// reset frees every slot while keeping generations, so ids issued before
// the reset stay stale.
func (a *arena) reset() {
	a.free = a.free[:0]
	for i := range a.slots {
		a.slots[i].live = false
		a.slots[i].key = Keyframe{}
		a.free = append(a.free, uint32(len(a.slots)-1-i))
	}
}
