package replay

import (
	"testing"

	"github.com/octane-rl/rlreplay/bitio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildSingleActorFrame returns the bytes for one frame that creates actor
// 2 (bound to a child object whose parent resolves via the
// ":GameReplicationInfoArchetype" substring rule), updates it with one
// boolean attribute, then deletes it, followed by a zero gate bit ending
// the frame. It also returns the objects list and dispatch table the
// frame's bits were built against.
func buildSingleActorFrame(t *testing.T) (data []byte, objects []string, dispatch DispatchTable) {
	t.Helper()

	objects = []string{
		"TAGame.Default__PRI_TA:GameReplicationInfoArchetype",
		"TAGame.GRI_TA",
	}
	dispatch = DispatchTable{
		1: buildObjectDispatch([]propertyEntry{{StreamID: 0, ObjectID: 99, AttributeType: AttrBoolean}}),
	}

	data = packBits(
		[2]uint64{0, 32}, // time
		[2]uint64{0, 32}, // delta

		// new actor 2, object 0
		[2]uint64{1, 1}, // gate
		[2]uint64{2, 3}, // actor id bmc: d
		[2]uint64{0, 1}, // actor id bmc: continuation
		[2]uint64{1, 1}, // alive
		[2]uint64{1, 1}, // new
		[2]uint64{0, 1}, // unknown bit
		[2]uint64{0, 32}, // object id

		// update actor 2: one boolean attribute (stream id 0)
		[2]uint64{1, 1}, // gate
		[2]uint64{2, 3}, // actor id bmc: d
		[2]uint64{0, 1}, // actor id bmc: continuation
		[2]uint64{1, 1}, // alive
		[2]uint64{0, 1}, // new=0 -> update
		[2]uint64{1, 1}, // update continuation=1
		[2]uint64{0, 1}, // stream id bmc extend bit (0-width d)
		[2]uint64{1, 1}, // boolean attribute value
		[2]uint64{0, 1}, // update continuation=0

		// delete actor 2
		[2]uint64{1, 1}, // gate
		[2]uint64{2, 3}, // actor id bmc: d
		[2]uint64{0, 1}, // actor id bmc: continuation
		[2]uint64{0, 1}, // alive=0 -> delete

		// end of frame
		[2]uint64{0, 1}, // gate=0
	)
	return data, objects, dispatch
}

func singleActorFrameContext() Context {
	return Context{
		ActorIDMax:  15,
		ActorIDSize: 3,
		NetVersion:  10,
	}
}

func TestDecodeFrames_NewUpdateDelete(t *testing.T) {
	data, objects, dispatch := buildSingleActorFrame(t)
	r := bitio.NewReader(data)

	frames, err := DecodeFrames(singleActorFrameContext(), objects, dispatch, r, 1)
	require.NoError(t, err)
	require.Len(t, frames, 1)

	f := frames[0]
	require.Len(t, f.New, 1)
	assert.EqualValues(t, 2, f.New[0].ActorID)
	assert.EqualValues(t, 0, f.New[0].ObjectID)

	require.Len(t, f.Updated, 1)
	assert.EqualValues(t, 2, f.Updated[0].ActorID)
	require.Len(t, f.Updated[0].Attributes, 1)
	assert.Equal(t, BooleanAttr{Value: true}, f.Updated[0].Attributes[0].Value)

	require.Len(t, f.Deleted, 1)
	assert.EqualValues(t, 2, f.Deleted[0])
}

// TestDecodeFrames_ActorLifecycle checks the actor-lifecycle property for
// the scenario above: the actor id appearing in the updated and deleted
// segments also appeared in a prior new segment, and is no longer live
// once deleted.
func TestDecodeFrames_ActorLifecycle(t *testing.T) {
	data, objects, dispatch := buildSingleActorFrame(t)
	r := bitio.NewReader(data)

	d := NewDecoder(singleActorFrameContext(), objects, dispatch)
	var seenNew []int32
	sink := frameSinkFunc(func(f Frame) error {
		for _, na := range f.New {
			seenNew = append(seenNew, na.ActorID)
		}
		for _, ua := range f.Updated {
			assert.Contains(t, seenNew, ua.ActorID)
		}
		for _, id := range f.Deleted {
			assert.Contains(t, seenNew, id)
		}
		return nil
	})

	require.NoError(t, d.DecodeFrames(r, 1, sink))
	assert.Empty(t, d.ActiveActors(), "actor 2 was deleted, so no actor should remain live")
}

// TestDecodeFrames_FrameCompleteness checks that after decoding the
// declared number of frames, the bit offset accounts for the entire
// network-stream byte length modulo at most 7 bits of byte-alignment
// padding.
func TestDecodeFrames_FrameCompleteness(t *testing.T) {
	data, objects, dispatch := buildSingleActorFrame(t)
	r := bitio.NewReader(data)

	d := NewDecoder(singleActorFrameContext(), objects, dispatch)
	require.NoError(t, d.DecodeFrames(r, 1, &sliceFrameSink{}))

	assert.LessOrEqual(t, r.PaddingBitsRemaining(), uint64(7))
	assert.Equal(t, uint64(len(data))*8, r.BitOffset()+r.PaddingBitsRemaining())
}

// TestDecodeFrames_UnresolvedParentIsFatal exercises the parent-resolver
// wiring: an update for an actor whose object name resolves to no parent
// at all (no static entry, no substring match) is a fatal
// UnresolvedParentObject error, not a silently skipped update.
func TestDecodeFrames_UnresolvedParentIsFatal(t *testing.T) {
	objects := []string{"SomethingEntirelyUnresolvable"}
	dispatch := DispatchTable{}

	data := packBits(
		[2]uint64{0, 32}, // time
		[2]uint64{0, 32}, // delta
		[2]uint64{1, 1},  // gate
		[2]uint64{2, 3},  // actor id d
		[2]uint64{0, 1},  // actor id continuation
		[2]uint64{1, 1},  // alive
		[2]uint64{1, 1},  // new
		[2]uint64{0, 1},  // unknown bit
		[2]uint64{0, 32}, // object id 0
		[2]uint64{1, 1},  // gate
		[2]uint64{2, 3},  // actor id d
		[2]uint64{0, 1},  // actor id continuation
		[2]uint64{1, 1},  // alive
		[2]uint64{0, 1},  // new=0 -> update
	)
	r := bitio.NewReader(data)

	_, err := DecodeFrames(singleActorFrameContext(), objects, dispatch, r, 1)
	require.Error(t, err)
	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, ErrUnresolvedParentObject, decodeErr.Kind)
}

// frameSinkFunc adapts a func(Frame) error to FrameSink.
type frameSinkFunc func(Frame) error

func (f frameSinkFunc) OnFrame(frame Frame) error { return f(frame) }
