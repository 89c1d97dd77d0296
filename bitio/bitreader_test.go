package bitio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReader_FillOrder(t *testing.T) {
	r := NewReader([]byte{0x69, 0xC5})

	v, err := r.ReadBits(5)
	require.NoError(t, err)
	assert.EqualValues(t, 9, v)

	v, err = r.ReadBits(8)
	require.NoError(t, err)
	assert.EqualValues(t, 0x8B, v)

	v, err = r.ReadBits(3)
	require.NoError(t, err)
	assert.EqualValues(t, 6, v)
}

func TestReader_RoundTripSingleBits(t *testing.T) {
	original := []byte{0x00, 0xFF, 0x5A, 0x81, 0x10}
	r := NewReader(original)

	var bits []int
	for i := 0; i < len(original)*8; i++ {
		b, err := r.ReadBool()
		require.NoError(t, err)
		if b {
			bits = append(bits, 1)
		} else {
			bits = append(bits, 0)
		}
	}

	rebuilt := make([]byte, len(original))
	for i, bit := range bits {
		if bit == 1 {
			rebuilt[i/8] |= 1 << uint(i%8)
		}
	}
	assert.Equal(t, original, rebuilt)
}

func TestReader_ReadBytesSequential(t *testing.T) {
	r := NewReader([]byte{0x01, 0x02, 0x03, 0x04})
	b, err := r.ReadBytes(4)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, b)
}

func TestReader_ReadU32LittleEndian(t *testing.T) {
	r := NewReader([]byte{0x78, 0x56, 0x34, 0x12})
	v, err := r.ReadU32()
	require.NoError(t, err)
	assert.EqualValues(t, 0x12345678, v)
}

func TestReader_ReadU32AfterUnalignedBits(t *testing.T) {
	// Read 4 bits first to force an unaligned crossing of the byte
	// boundary before the 32-bit read; the fill rule shifts each
	// subsequent source byte in above the leftover nibble.
	r := NewReader([]byte{0x0F, 0x78, 0x56, 0x34, 0x12})
	_, err := r.ReadBits(4)
	require.NoError(t, err)
	v, err := r.ReadU32()
	require.NoError(t, err)
	assert.EqualValues(t, 0x23456780, v)
}

func TestReader_EndOfStream(t *testing.T) {
	r := NewReader([]byte{0x01})
	_, err := r.ReadBits(16)
	assert.ErrorIs(t, err, ErrEndOfStream)
}

func TestReader_BitOffsetAndLen(t *testing.T) {
	r := NewReader([]byte{0xFF, 0xFF})
	assert.EqualValues(t, 16, r.Len())
	_, err := r.ReadBits(5)
	require.NoError(t, err)
	assert.EqualValues(t, 5, r.BitOffset())
	assert.EqualValues(t, 11, r.Len())
}

func TestReader_ReadF32(t *testing.T) {
	// 1.0f => 0x3F800000
	r := NewReader([]byte{0x00, 0x00, 0x80, 0x3F})
	v, err := r.ReadF32()
	require.NoError(t, err)
	assert.Equal(t, float32(1.0), v)
}
