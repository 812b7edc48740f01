package node

import (
	"fmt"
	"slices"
	"sort"

	"github.com/leapstack-labs/leapanim/pkg/rational"
	"github.com/leapstack-labs/leapanim/pkg/timerange"
	"github.com/leapstack-labs/leapanim/pkg/value"
)

// Keyframes returns the keyframe ids in ascending time order.
func (in *Input) Keyframes() []KeyframeID {
	return slices.Clone(in.keys)
}

// KeyframeCount returns the number of keyframes.
func (in *Input) KeyframeCount() int { return len(in.keys) }

// Keyframe returns a copy of the keyframe addressed by id.
func (in *Input) Keyframe(id KeyframeID) (Keyframe, bool) {
	k, ok := in.arena.get(id)
	if !ok {
		return Keyframe{}, false
	}
	return *k, true
}

func (in *Input) keyAt(i int) *Keyframe {
	k, _ := in.arena.get(in.keys[i])
	return k
}

func (in *Input) timeAt(i int) rational.Rational {
	return in.keyAt(i).Time
}

func (in *Input) indexOf(id KeyframeID) int {
	return slices.Index(in.keys, id)
}

func (in *Input) lookup(id KeyframeID) (*Keyframe, int, error) {
	k, ok := in.arena.get(id)
	if !ok {
		return nil, -1, fmt.Errorf("%s on %q: %w", id, in.id, ErrUnknownKeyframe)
	}
	return k, in.indexOf(id), nil
}

// insertSorted places id before the first keyframe with a strictly
// greater time, or at the end. It returns the new index.
func (in *Input) insertSorted(id KeyframeID, t rational.Rational) int {
	i := sort.Search(len(in.keys), func(i int) bool { return t.Less(in.timeAt(i)) })
	in.keys = slices.Insert(in.keys, i, id)
	return i
}

func (in *Input) hasTime(t rational.Rational, except KeyframeID) bool {
	for _, id := range in.keys {
		if id == except {
			continue
		}
		if k, _ := in.arena.get(id); k.Time == t {
			return true
		}
	}
	return false
}

func (in *Input) checkValue(v value.Value) error {
	if !in.dataType.accepts(v) {
		return fmt.Errorf("%s value for %s input %q: %w", v.Kind(), in.dataType, in.id, ErrValueType)
	}
	return nil
}

func (in *Input) checkHandle(h Handle) error {
	if h.Value.IsNone() {
		return nil
	}
	return in.checkValue(h.Value)
}

// InsertKeyframe adds k in time order and returns its id. It emits
// KeyframeAdded followed by ValueChanged for the range the new keyframe
// affects.
func (in *Input) InsertKeyframe(k Keyframe) (KeyframeID, error) {
	if !in.keyframable && len(in.keys) > 0 {
		return KeyframeID{}, fmt.Errorf("insert keyframe on %q: %w", in.id, ErrNotKeyframable)
	}
	if err := in.checkValue(k.Value); err != nil {
		return KeyframeID{}, fmt.Errorf("insert keyframe: %w", err)
	}
	if err := in.checkHandle(k.In); err != nil {
		return KeyframeID{}, fmt.Errorf("insert keyframe in handle: %w", err)
	}
	if err := in.checkHandle(k.Out); err != nil {
		return KeyframeID{}, fmt.Errorf("insert keyframe out handle: %w", err)
	}
	if in.hasTime(k.Time, KeyframeID{}) {
		return KeyframeID{}, fmt.Errorf("insert keyframe on %q at %s: %w", in.id, k.Time, ErrDuplicateKeyframeTime)
	}

	id := in.arena.alloc(k)
	in.insertSorted(id, k.Time)

	in.emit(Event{Kind: KeyframeAdded, Keyframe: id, Key: k})
	r, _ := in.RangeAffectedByKeyframe(id)
	in.emitRange(r)
	return id, nil
}

// RemoveKeyframe deletes a keyframe. Keyframing must be enabled and at
// least one other keyframe must remain. The affected range is computed
// from the neighbors before removal.
func (in *Input) RemoveKeyframe(id KeyframeID) error {
	k, i, err := in.lookup(id)
	if err != nil {
		return fmt.Errorf("remove keyframe: %w", err)
	}
	if !in.keyframing {
		return fmt.Errorf("remove keyframe from %q: %w", in.id, ErrNotKeyframing)
	}
	if len(in.keys) <= 1 {
		return fmt.Errorf("remove keyframe from %q: %w", in.id, ErrLastKeyframe)
	}

	affected, _ := in.RangeAffectedByKeyframe(id)
	removed := *k
	in.keys = slices.Delete(in.keys, i, i+1)
	in.arena.release(id)

	in.emit(Event{Kind: KeyframeRemoved, Keyframe: id, Key: removed})
	in.emitRange(affected)
	return nil
}

// ClearKeyframes deletes every keyframe while keyframing is disabled,
// emitting KeyframeRemoved for each. Evaluation already returns the
// standard value, so no range is invalidated.
func (in *Input) ClearKeyframes() error {
	if in.keyframing {
		return fmt.Errorf("clear keyframes on %q: %w", in.id, ErrKeyframing)
	}
	keys := in.keys
	in.keys = nil
	for _, id := range keys {
		k, _ := in.arena.get(id)
		removed := *k
		in.arena.release(id)
		in.emit(Event{Kind: KeyframeRemoved, Keyframe: id, Key: removed})
	}
	return nil
}

// SetKeyframeTime moves a keyframe. If the move passes a neighbor the
// keyframe is re-sorted and ValueChanged is emitted first for its new
// neighborhood, then for its original one. Otherwise only the original
// neighborhood is invalidated.
func (in *Input) SetKeyframeTime(id KeyframeID, t rational.Rational) error {
	k, i, err := in.lookup(id)
	if err != nil {
		return fmt.Errorf("set keyframe time: %w", err)
	}
	if k.Time == t {
		return nil
	}
	if in.hasTime(t, id) {
		return fmt.Errorf("move keyframe on %q to %s: %w", in.id, t, ErrDuplicateKeyframeTime)
	}

	original := in.RangeAroundIndex(i)
	k.Time = t

	last := len(in.keys) - 1
	if (i > 0 && t.Less(in.timeAt(i-1))) || (i < last && in.timeAt(i+1).Less(t)) {
		in.keys = slices.Delete(in.keys, i, i+1)
		in.insertSorted(id, t)
		moved, _ := in.RangeAffectedByKeyframe(id)
		in.emitRange(moved)
	}
	in.emitRange(original)
	return nil
}

// SetKeyframeValue replaces a keyframe's value and invalidates the range
// that keyframe affects.
func (in *Input) SetKeyframeValue(id KeyframeID, v value.Value) error {
	k, _, err := in.lookup(id)
	if err != nil {
		return fmt.Errorf("set keyframe value: %w", err)
	}
	if err := in.checkValue(v); err != nil {
		return fmt.Errorf("set keyframe value: %w", err)
	}
	k.Value = v
	r, _ := in.RangeAffectedByKeyframe(id)
	in.emitRange(r)
	return nil
}

// SetKeyframeType changes a keyframe's interpolation. With fewer than two
// keyframes nothing can interpolate and no range is emitted.
func (in *Input) SetKeyframeType(id KeyframeID, typ KeyframeType) error {
	k, i, err := in.lookup(id)
	if err != nil {
		return fmt.Errorf("set keyframe type: %w", err)
	}
	k.Type = typ
	if len(in.keys) <= 1 {
		return nil
	}
	in.emitRange(in.RangeAroundIndex(i))
	return nil
}

// SetKeyframeHandles replaces a keyframe's Bezier handles.
func (in *Input) SetKeyframeHandles(id KeyframeID, inHandle, outHandle Handle) error {
	k, i, err := in.lookup(id)
	if err != nil {
		return fmt.Errorf("set keyframe handles: %w", err)
	}
	if err := in.checkHandle(inHandle); err != nil {
		return fmt.Errorf("set keyframe handles: %w", err)
	}
	if err := in.checkHandle(outHandle); err != nil {
		return fmt.Errorf("set keyframe handles: %w", err)
	}
	k.In, k.Out = inHandle, outHandle
	if len(in.keys) <= 1 {
		return nil
	}
	in.emitRange(in.RangeAroundIndex(i))
	return nil
}

// RangeAroundIndex returns the span between the neighbors of the keyframe
// at index i. Missing neighbors open the range to infinity, and with fewer
// than two keyframes it covers all time.
func (in *Input) RangeAroundIndex(i int) timerange.Range {
	begin, end := rational.Min, rational.Max
	if len(in.keys) > 1 {
		if i > 0 {
			begin = in.timeAt(i - 1)
		}
		if i < len(in.keys)-1 {
			end = in.timeAt(i + 1)
		}
	}
	return timerange.New(begin, end)
}

// RangeAffectedByKeyframe is RangeAroundIndex for the keyframe's index,
// except that a Hold keyframe before it limits the range to start at the
// keyframe's own time.
func (in *Input) RangeAffectedByKeyframe(id KeyframeID) (timerange.Range, bool) {
	k, ok := in.arena.get(id)
	if !ok {
		return timerange.Range{}, false
	}
	i := in.indexOf(id)
	r := in.RangeAroundIndex(i)
	if len(in.keys) > 1 && i > 0 && in.keyAt(i-1).Type == KeyframeHold {
		r = r.WithIn(k.Time)
	}
	return r, true
}

// KeyframeAtTime returns the keyframe exactly at t. There is none while the
// standard value is in use.
func (in *Input) KeyframeAtTime(t rational.Rational) (KeyframeID, bool) {
	if in.IsUsingStandardValue() {
		return KeyframeID{}, false
	}
	for _, id := range in.keys {
		if k, _ := in.arena.get(id); k.Time == t {
			return id, true
		}
	}
	return KeyframeID{}, false
}

// HasKeyframeAtTime reports whether KeyframeAtTime would find one.
func (in *Input) HasKeyframeAtTime(t rational.Rational) bool {
	_, ok := in.KeyframeAtTime(t)
	return ok
}

// ClosestKeyframeToTime returns the keyframe nearest to t. Times outside
// the keyframed span clamp to the first or last keyframe. Equal distances
// resolve to the earlier keyframe.
func (in *Input) ClosestKeyframeToTime(t rational.Rational) (KeyframeID, bool) {
	if in.IsUsingStandardValue() {
		return KeyframeID{}, false
	}
	last := len(in.keys) - 1
	if t.Cmp(in.timeAt(0)) <= 0 {
		return in.keys[0], true
	}
	if t.Cmp(in.timeAt(last)) >= 0 {
		return in.keys[last], true
	}

	next := sort.Search(len(in.keys), func(i int) bool { return t.Cmp(in.timeAt(i)) <= 0 })
	prev := next - 1
	prevDiff := t.Sub(in.timeAt(prev))
	nextDiff := in.timeAt(next).Sub(t)
	if nextDiff.Less(prevDiff) {
		return in.keys[next], true
	}
	return in.keys[prev], true
}

// BestKeyframeTypeForTime returns the type of the closest keyframe, or
// DefaultKeyframeType if there is none.
func (in *Input) BestKeyframeTypeForTime(t rational.Rational) KeyframeType {
	if id, ok := in.ClosestKeyframeToTime(t); ok {
		k, _ := in.arena.get(id)
		return k.Type
	}
	return DefaultKeyframeType()
}
