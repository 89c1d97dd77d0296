package replay

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// replayBuilder assembles a synthetic, byte-aligned replay file matching
// the header/body/footer layout DecodeReplay expects, so an integration
// test can drive the whole pipeline from raw bytes without a real replay
// fixture on disk.
type replayBuilder struct {
	buf []byte
}

func (b *replayBuilder) u32(v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	b.buf = append(b.buf, tmp[:]...)
}

func (b *replayBuilder) i32(v int32) { b.u32(uint32(v)) }

func (b *replayBuilder) bytes(p []byte) { b.buf = append(b.buf, p...) }

// string8 writes a String8: an i32 length (including the trailing null)
// followed by that many bytes.
func (b *replayBuilder) string8(s string) {
	raw := append([]byte(s), 0)
	b.i32(int32(len(raw)))
	b.bytes(raw)
}

// string16Positive writes a String16 in its positive-length
// (Windows-1252) form: an i32 length followed by that many raw bytes.
func (b *replayBuilder) string16Positive(s string) {
	b.i32(int32(len(s)))
	b.bytes([]byte(s))
}

func (b *replayBuilder) listHeader(n uint32) { b.u32(n) }

func (b *replayBuilder) noneProperty() { b.string8("None") }

func (b *replayBuilder) intProperty(name string, v int32) {
	b.string8(name)
	b.string8(string(PropertyInt))
	b.u32(0)
	b.u32(0) // 8-byte filler
	b.i32(v)
}

func (b *replayBuilder) strProperty(name, v string) {
	b.string8(name)
	b.string8(string(PropertyStr))
	b.u32(0)
	b.u32(0) // 8-byte filler
	b.string16Positive(v)
}

// buildSyntheticReplay returns the raw bytes of a complete, minimal replay
// whose single network-stream frame creates, updates, and deletes one
// actor bound to an object whose parent resolves through the
// ":GameReplicationInfoArchetype" substring rule and whose one
// replicated property resolves to AttrBoolean through the static
// Object:AttributeType table.
func buildSyntheticReplay(t *testing.T) []byte {
	t.Helper()

	frameData, _, _ := buildSingleActorFrame(t)

	var b replayBuilder

	// header block
	b.u32(0) // header length (unused: CRC verification is out of scope)
	b.u32(0) // header CRC
	// engine 867 keeps ParseActorNameID false (it requires engine>=868)
	// while still satisfying the net-version presence gate (engine>=866
	// && licensee>=18), matching the fixed new-actor segment shape
	// buildSingleActorFrame encodes.
	b.u32(867) // engine version
	b.u32(18)  // licensee version
	b.u32(10)  // net version (engine>=866 && licensee>=18)
	b.string16Positive("")
	b.strProperty("BuildVersion", "221121.0.0")
	b.strProperty("MatchType", "Online")
	b.intProperty("MaxChannels", 15)
	b.intProperty("NumFrames", 1)
	b.noneProperty()

	// body block
	b.u32(0) // body+footer length (unused)
	b.u32(0) // body+footer CRC
	b.listHeader(0) // levels
	b.listHeader(0) // keyframes
	b.u32(uint32(len(frameData)))
	b.bytes(frameData)

	// footer block
	b.listHeader(0) // debug strings
	b.listHeader(0) // tick marks
	b.listHeader(0) // packages
	b.listHeader(3) // objects
	b.string16Positive("TAGame.Default__PRI_TA:GameReplicationInfoArchetype")
	b.string16Positive("TAGame.GRI_TA")
	b.string16Positive("TAGame.GameEvent_Soccar_TA:bBallHasBeenHit")
	b.listHeader(0) // names
	b.listHeader(0) // classes
	b.listHeader(1) // class net cache
	b.i32(1)        // object_id (the GRI_TA parent)
	b.i32(-1)       // parent_id
	b.i32(1)        // cache_id
	b.listHeader(1) // properties
	b.i32(2)        // property object_id (bBallHasBeenHit)
	b.u32(0)        // stream_id

	return b.buf
}

func TestDecodeReplay_EndToEnd(t *testing.T) {
	data := buildSyntheticReplay(t)

	replay, err := DecodeReplay(data)
	require.NoError(t, err)

	assert.True(t, replay.Context.IsRL223)
	assert.EqualValues(t, 15, replay.Context.ActorIDMax)
	require.Contains(t, replay.Dispatch, int32(1))

	require.Len(t, replay.Frames, 1)
	f := replay.Frames[0]

	require.Len(t, f.New, 1)
	assert.EqualValues(t, 2, f.New[0].ActorID)

	require.Len(t, f.Updated, 1)
	require.Len(t, f.Updated[0].Attributes, 1)
	assert.Equal(t, BooleanAttr{Value: true}, f.Updated[0].Attributes[0].Value)

	require.Len(t, f.Deleted, 1)
	assert.EqualValues(t, 2, f.Deleted[0])
}
