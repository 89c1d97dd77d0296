package replay

import (
	"testing"

	"github.com/octane-rl/rlreplay/bitio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDecodeLoadout_UnknownFieldIsPreservedNotDiscarded exercises the
// unknown-bit-preservation property: LoadoutAttr's Unknown04 field is an
// opaque sub-field read like any other, named and stored rather than
// consumed and thrown away, so its exact bits survive into the decoded
// value.
func TestDecodeLoadout_UnknownFieldIsPreservedNotDiscarded(t *testing.T) {
	const unknownValue = 0xABCD1234
	data := packBits(
		[2]uint64{5, 8}, // version 5: below every trailing-field gate
		[2]uint64{1, 32}, [2]uint64{2, 32}, [2]uint64{3, 32}, [2]uint64{4, 32},
		[2]uint64{5, 32}, [2]uint64{6, 32}, [2]uint64{unknownValue, 32},
	)
	r := bitio.NewReader(data)

	l, err := decodeLoadout(r)
	require.NoError(t, err)
	assert.EqualValues(t, unknownValue, l.Unknown04)
}

// TestDecodeTitle_UnknownFieldsArePreserved covers the same property for
// TitleAttr's several boolean/u32 unknown fields.
func TestDecodeTitle_UnknownFieldsArePreserved(t *testing.T) {
	data := packBits(
		[2]uint64{1, 1},          // unknown1
		[2]uint64{0, 1},          // unknown2
		[2]uint64{7, 32},         // titleID
		[2]uint64{0x1111, 32},    // unknown4
		[2]uint64{0x2222, 32},    // unknown5
		[2]uint64{0x3333, 32},    // unknown6
		[2]uint64{1, 1},          // unknown7
	)
	r := bitio.NewReader(data)

	attr, err := decodeTitle(r)
	require.NoError(t, err)
	title := attr.(TitleAttr)
	assert.True(t, title.Unknown1)
	assert.False(t, title.Unknown2)
	assert.EqualValues(t, 0x1111, title.Unknown4)
	assert.EqualValues(t, 0x2222, title.Unknown5)
	assert.EqualValues(t, 0x3333, title.Unknown6)
	assert.True(t, title.Unknown7)
}
