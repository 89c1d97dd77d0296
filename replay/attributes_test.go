package replay

import (
	"testing"

	"github.com/octane-rl/rlreplay/bitio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext() *Context {
	c := NewContext(HeaderProperties{EngineVersion: 868, LicenseeVersion: 20, NetVersion: 10})
	return &c
}

func packBits(fields ...[2]uint64) []byte {
	var bits []byte
	for _, f := range fields {
		val, n := f[0], f[1]
		for i := uint64(0); i < n; i++ {
			bits = append(bits, byte((val>>i)&1))
		}
	}
	out := make([]byte, (len(bits)+7)/8)
	for i, b := range bits {
		if b == 1 {
			out[i/8] |= 1 << uint(i%8)
		}
	}
	return out
}

func TestDecodeAttribute_Boolean(t *testing.T) {
	data := packBits([2]uint64{1, 1})
	r := bitio.NewReader(data)
	attr, err := DecodeAttribute(r, testContext(), AttrBoolean)
	require.NoError(t, err)
	assert.Equal(t, BooleanAttr{Value: true}, attr)
	assert.Equal(t, AttrBoolean, attr.AttributeType())
}

func TestDecodeAttribute_FlaggedInt(t *testing.T) {
	data := packBits([2]uint64{1, 1}, [2]uint64{42, 32})
	r := bitio.NewReader(data)
	attr, err := DecodeAttribute(r, testContext(), AttrFlaggedInt)
	require.NoError(t, err)
	assert.Equal(t, FlaggedIntAttr{Flag: true, Value: 42}, attr)
}

func TestDecodeAttribute_ActiveActor(t *testing.T) {
	ctx := testContext()
	data := packBits([2]uint64{1, 1}, [2]uint64{5, uint64(ctx.ActorIDSize)}, [2]uint64{0, 1})
	r := bitio.NewReader(data)
	attr, err := DecodeAttribute(r, ctx, AttrActiveActor)
	require.NoError(t, err)
	a := attr.(ActiveActorAttr)
	assert.True(t, a.Active)
	assert.EqualValues(t, 5, a.Actor)
}

func TestDecodeAttribute_RigidBody_Sleeping(t *testing.T) {
	ctx := testContext()
	// sleeping=true, then Vector3i (size=bmc(4,22)) x/y/z, then quaternion
	// pre-v7 branch would apply if netVersion<7; ctx.NetVersion=10 uses
	// smallest-three, so build: size bmc nibble + continue bit low, 3 axes,
	// then 2-bit largest + 3x18-bit components.
	var bits []byte
	push := func(v uint64, n int) {
		for i := 0; i < n; i++ {
			bits = append(bits, byte((v>>uint(i))&1))
		}
	}
	push(1, 1) // sleeping = true
	// Vector3f / Vector3i: size nibble = 0, extend bit = 0 -> size=0
	push(0, 4)
	push(0, 1)
	// axes: size+2 = 2 bits each
	push(0, 2)
	push(0, 2)
	push(0, 2)
	// quaternion smallest-three: largest=0, 3x18-bit zero components
	push(0, 2)
	push(0, 18)
	push(0, 18)
	push(0, 18)
	out := make([]byte, (len(bits)+7)/8)
	for i, b := range bits {
		if b == 1 {
			out[i/8] |= 1 << uint(i%8)
		}
	}
	r := bitio.NewReader(out)
	attr, err := DecodeAttribute(r, ctx, AttrRigidBody)
	require.NoError(t, err)
	rb := attr.(RigidBodyAttr)
	assert.True(t, rb.Sleeping)
	assert.Nil(t, rb.LinearVelocity)
	assert.Nil(t, rb.AngularVelocity)
}

func TestDecodeProductValue_UserColor(t *testing.T) {
	data := packBits([2]uint64{7, 32})
	r := bitio.NewReader(data)
	p, err := DecodeProductValue(r, productUserColor, testContext())
	require.NoError(t, err)
	require.NotNil(t, p.UserColor)
	assert.EqualValues(t, 7, *p.UserColor)
}

func TestDecodeProductValue_Unknown_ReadsNothing(t *testing.T) {
	r := bitio.NewReader(nil)
	p, err := DecodeProductValue(r, productUnknown, testContext())
	require.NoError(t, err)
	assert.Nil(t, p.UserColor)
	assert.Nil(t, p.Painted)
}

func TestDecodeUniqueID_SplitScreen(t *testing.T) {
	ctx := testContext()
	data := packBits([2]uint64{0, 8}, [2]uint64{9, 32}, [2]uint64{3, 8})
	r := bitio.NewReader(data)
	attr, err := DecodeAttribute(r, ctx, AttrUniqueID)
	require.NoError(t, err)
	u := attr.(UniqueIDAttr)
	assert.Equal(t, remoteIDSplitScreen, u.SystemID)
	assert.EqualValues(t, 9, u.SplitScreen)
	assert.EqualValues(t, 3, u.LocalID)
}

func TestDecodePartyLeader_ZeroSystemIDYieldsNilValue(t *testing.T) {
	ctx := testContext()
	data := packBits([2]uint64{0, 8})
	r := bitio.NewReader(data)
	attr, err := DecodeAttribute(r, ctx, AttrPartyLeader)
	require.NoError(t, err)
	pl := attr.(PartyLeaderAttr)
	assert.Nil(t, pl.Value)
}

func TestDecodeLoadout_VersionGatesTrailingFields(t *testing.T) {
	data := packBits(
		[2]uint64{5, 8}, // version 5: below every gate
		[2]uint64{1, 32}, [2]uint64{2, 32}, [2]uint64{3, 32}, [2]uint64{4, 32},
		[2]uint64{5, 32}, [2]uint64{6, 32}, [2]uint64{7, 32},
	)
	r := bitio.NewReader(data)
	l, err := decodeLoadout(r)
	require.NoError(t, err)
	assert.Nil(t, l.EngineAudio)
	assert.Nil(t, l.Trail)
	assert.Nil(t, l.Banner)
	assert.EqualValues(t, 1, l.Body)
	assert.EqualValues(t, 7, l.Unknown04)
}
