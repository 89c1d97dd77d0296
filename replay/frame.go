package replay

import (
	"errors"
	"fmt"

	"github.com/octane-rl/rlreplay/bitio"
	"github.com/octane-rl/rlreplay/wire"
)

// UpdatedAttribute pairs a decoded attribute value with the object id its
// resolved property entry named (the child object's property, not
// necessarily the actor's own object).
type UpdatedAttribute struct {
	ObjectID int32
	Value    Attribute
}

// NewActor is one actor-creation segment within a frame.
type NewActor struct {
	ActorID         int32
	ObjectID        int32
	NameID          int32 // -1 when ParseActorNameID is false and no name id was read
	InitialPosition *wire.Vector3i
	InitialRotation *wire.Rotation
}

// UpdatedActor is one actor's attribute updates within a frame, in the
// order their stream ids were encountered.
type UpdatedActor struct {
	ActorID    int32
	ObjectID   int32
	Attributes []UpdatedAttribute
}

// Frame is one decoded network-stream tick: an absolute time and delta
// since the previous frame, plus the new/updated/deleted actor segments in
// the order their actor ids were encountered in the gate loop.
type Frame struct {
	Time    float32
	Delta   float32
	New     []NewActor
	Updated []UpdatedActor
	Deleted []int32
}

// FrameSink receives frames as DecodeFrames produces them, so a caller
// under memory pressure can process and discard a frame without the
// decoder retaining frame history.
type FrameSink interface {
	OnFrame(Frame) error
}

// sliceFrameSink is the FrameSink backing the package-level DecodeFrames
// convenience function for small replays and tests.
type sliceFrameSink struct {
	frames []Frame
}

func (s *sliceFrameSink) OnFrame(f Frame) error {
	s.frames = append(s.frames, f)
	return nil
}

// Decoder drives the per-frame actor state machine: it owns the live
// ACTOR_ID -> OBJECT_ID map, the parent-object resolver cache, and a
// per-child-object dispatch-table cache that avoids re-resolving an
// actor's parent object on every update once its first update has been
// seen.
type Decoder struct {
	ctx      Context
	objects  []string
	objectID map[string]int32
	dispatch DispatchTable

	active             map[int32]int32
	parents            *parentResolver
	childDispatchCache map[int32]*objectDispatch

	frame int
}

// NewDecoder builds a Decoder over a resolved dispatch table and the
// footer's Objects list. The dispatch table and objects list are read-only
// for the lifetime of the Decoder; all mutable state lives on the
// returned value, so independent Decoders are safe to run on separate
// goroutines over separate replays.
func NewDecoder(ctx Context, objects []string, dispatch DispatchTable) *Decoder {
	objectID := make(map[string]int32, len(objects))
	for i, name := range objects {
		objectID[name] = int32(i)
	}
	return &Decoder{
		ctx:                ctx,
		objects:            objects,
		objectID:           objectID,
		dispatch:           dispatch,
		active:             make(map[int32]int32),
		parents:            newParentResolver(),
		childDispatchCache: make(map[int32]*objectDispatch),
	}
}

// ActiveActors returns a defensive copy of the live ActorID->ObjectID map
// as of the last frame decoded, letting a caller snapshot actor liveness
// between frames without re-deriving it from New/Deleted lists.
func (d *Decoder) ActiveActors() map[int32]int32 {
	out := make(map[int32]int32, len(d.active))
	for k, v := range d.active {
		out[k] = v
	}
	return out
}

// DecodeFrames decodes numFrames frames from r, emitting each to sink in
// order. After the last frame, at most 7 bits of byte-alignment padding
// may remain in r; any more is an Inconsistent error.
func (d *Decoder) DecodeFrames(r *bitio.Reader, numFrames uint32, sink FrameSink) error {
	for i := uint32(0); i < numFrames; i++ {
		d.frame = int(i)
		f, err := d.decodeFrame(r)
		if err != nil {
			return err
		}
		if err := sink.OnFrame(f); err != nil {
			return err
		}
	}
	if remaining := r.PaddingBitsRemaining(); remaining > 7 {
		return newDecodeError(ErrInconsistent, r.BitOffset(), d.frame,
			fmt.Errorf("replay: %d bits remain after decoding %d frames", remaining, numFrames))
	}
	return nil
}

// DecodeFrames decodes numFrames frames from r into a slice, for small
// replays and tests where streaming to a sink isn't needed.
func DecodeFrames(ctx Context, objects []string, dispatch DispatchTable, r *bitio.Reader, numFrames uint32) ([]Frame, error) {
	d := NewDecoder(ctx, objects, dispatch)
	sink := &sliceFrameSink{}
	if err := d.DecodeFrames(r, numFrames, sink); err != nil {
		return nil, err
	}
	return sink.frames, nil
}

func (d *Decoder) decodeFrame(r *bitio.Reader) (Frame, error) {
	time, err := r.ReadF32()
	if err != nil {
		return Frame{}, d.wrap(r, err)
	}
	delta, err := r.ReadF32()
	if err != nil {
		return Frame{}, d.wrap(r, err)
	}

	frame := Frame{Time: time, Delta: delta}

	for {
		gate, err := r.ReadBool()
		if err != nil {
			return Frame{}, d.wrap(r, err)
		}
		if !gate {
			break
		}

		actorID64, err := wire.BoundedMagnitudeCode(r, d.ctx.ActorIDSize, d.ctx.ActorIDMax)
		if err != nil {
			return Frame{}, d.wrap(r, err)
		}
		actorID := int32(actorID64)

		alive, err := r.ReadBool()
		if err != nil {
			return Frame{}, d.wrap(r, err)
		}
		if !alive {
			delete(d.active, actorID)
			frame.Deleted = append(frame.Deleted, actorID)
			continue
		}

		isNew, err := r.ReadBool()
		if err != nil {
			return Frame{}, d.wrap(r, err)
		}
		if isNew {
			na, err := d.decodeNewActor(r, actorID)
			if err != nil {
				return Frame{}, err
			}
			d.active[actorID] = na.ObjectID
			frame.New = append(frame.New, na)
			continue
		}

		objectID, ok := d.active[actorID]
		if !ok {
			return Frame{}, newDecodeError(ErrInconsistent, r.BitOffset(), d.frame,
				fmt.Errorf("replay: update segment for actor %d with no prior new segment", actorID))
		}
		ua, err := d.decodeUpdate(r, actorID, objectID)
		if err != nil {
			return Frame{}, err
		}
		frame.Updated = append(frame.Updated, ua)
	}

	return frame, nil
}

func (d *Decoder) decodeNewActor(r *bitio.Reader, actorID int32) (NewActor, error) {
	na := NewActor{ActorID: actorID, NameID: -1}

	if d.ctx.ParseActorNameID {
		nameID, err := r.ReadI32()
		if err != nil {
			return NewActor{}, d.wrap(r, err)
		}
		na.NameID = nameID
	}

	if _, err := r.ReadBool(); err != nil { // unknown bit
		return NewActor{}, d.wrap(r, err)
	}

	objectID, err := r.ReadI32()
	if err != nil {
		return NewActor{}, d.wrap(r, err)
	}
	na.ObjectID = objectID
	if objectID < 0 || int(objectID) >= len(d.objects) {
		return NewActor{}, newDecodeError(ErrUnknownObjectIndex, r.BitOffset(), d.frame, nil)
	}

	hasPos, hasRot := lookupSpawnTrajectory(d.objects[objectID])
	if hasPos {
		pos, err := wire.DecodeVector3i(r, d.ctx.NetVersion)
		if err != nil {
			return NewActor{}, d.wrap(r, err)
		}
		na.InitialPosition = &pos
	}
	if hasRot {
		rot, err := wire.DecodeRotation(r)
		if err != nil {
			return NewActor{}, d.wrap(r, err)
		}
		na.InitialRotation = &rot
	}

	return na, nil
}

func (d *Decoder) decodeUpdate(r *bitio.Reader, actorID, objectID int32) (UpdatedActor, error) {
	ua := UpdatedActor{ActorID: actorID, ObjectID: objectID}

	dispatch, err := d.resolveChildDispatch(r, objectID)
	if err != nil {
		return UpdatedActor{}, err
	}

	for {
		cont, err := r.ReadBool()
		if err != nil {
			return UpdatedActor{}, d.wrap(r, err)
		}
		if !cont {
			break
		}

		streamID64, err := wire.BoundedMagnitudeCode(r, dispatch.StreamIDWidth, uint64(dispatch.MaxStreamID))
		if err != nil {
			return UpdatedActor{}, d.wrap(r, err)
		}
		entry, ok := dispatch.lookup(uint32(streamID64))
		if !ok {
			return UpdatedActor{}, newDecodeError(ErrDispatchStreamIDOutOfRange, r.BitOffset(), d.frame, nil)
		}
		if entry.AttributeType == AttrUnknown {
			return UpdatedActor{}, newDecodeError(ErrUnknownAttributeType, r.BitOffset(), d.frame, nil)
		}

		value, err := DecodeAttribute(r, &d.ctx, entry.AttributeType)
		if err != nil {
			return UpdatedActor{}, d.wrap(r, err)
		}
		if p, isProduct := value.(ProductAttr); isProduct {
			kind := productUnknown
			if p.ObjectID >= 0 && int(p.ObjectID) < len(d.objects) {
				kind = productAttributeObjectKind[d.objects[p.ObjectID]]
			}
			pv, err := DecodeProductValue(r, kind, &d.ctx)
			if err != nil {
				return UpdatedActor{}, d.wrap(r, err)
			}
			pv.Flag, pv.ObjectID = p.Flag, p.ObjectID
			value = pv
		}
		ua.Attributes = append(ua.Attributes, UpdatedAttribute{ObjectID: entry.ObjectID, Value: value})
	}

	return ua, nil
}

// resolveChildDispatch returns the dispatch table for actorObjectID's
// parent object, resolving and caching it under actorObjectID on first
// use so later updates of the same object skip the parent-name lookup.
func (d *Decoder) resolveChildDispatch(r *bitio.Reader, actorObjectID int32) (*objectDispatch, error) {
	if cached, ok := d.childDispatchCache[actorObjectID]; ok {
		return cached, nil
	}
	if actorObjectID < 0 || int(actorObjectID) >= len(d.objects) {
		return nil, newDecodeError(ErrUnknownObjectIndex, r.BitOffset(), d.frame, nil)
	}

	objectName := d.objects[actorObjectID]
	parentName, ok := d.parents.resolve(objectName)
	if !ok {
		return nil, newDecodeError(ErrUnresolvedParentObject, r.BitOffset(), d.frame, nil)
	}
	parentObjectID, ok := d.objectID[parentName]
	if !ok {
		return nil, newDecodeError(ErrUnresolvedParentObject, r.BitOffset(), d.frame,
			fmt.Errorf("replay: parent object %q not found in Objects list", parentName))
	}
	dispatch, ok := d.dispatch[parentObjectID]
	if !ok {
		return nil, newDecodeError(ErrUnresolvedParentObject, r.BitOffset(), d.frame,
			fmt.Errorf("replay: no dispatch table for parent object %q", parentName))
	}

	d.childDispatchCache[actorObjectID] = dispatch
	return dispatch, nil
}

// wrap classifies a lower-level read error (bitio/wire) into the closed
// DecodeError kind set before surfacing it to the caller. An error that is
// already a DecodeError (e.g. UnknownSystemID from an attribute decoder)
// keeps its kind and gets the current frame index.
func (d *Decoder) wrap(r *bitio.Reader, err error) *DecodeError {
	var de *DecodeError
	if errors.As(err, &de) {
		de.Frame = d.frame
		return de
	}
	kind := ErrStringDecode
	if errors.Is(err, bitio.ErrEndOfStream) {
		kind = ErrEndOfStream
	}
	return newDecodeError(kind, r.BitOffset(), d.frame, err)
}
