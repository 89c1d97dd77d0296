// Package wire decodes the primitive and geometric value shapes that
// appear throughout a Rocket League replay's network stream: bounded
// integers, compressed floats, length-prefixed strings, tagged lists, and
// compressed vectors/rotations/quaternions. Every decoder here reads its
// fields in order and returns the first error; on error the underlying
// bitio.Reader is left where the failing read stopped and is not rewound.
package wire

import (
	"fmt"

	"github.com/octane-rl/rlreplay/bitio"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// AnomalyLogger receives a message whenever a decoder encounters a
// recognized-but-not-fully-specified wire quirk (open
// question on the String8 length-83886080 bug: log, don't silently
// correct). A nil logger disables logging; SetAnomalyLogger installs one.
type AnomalyLogger func(format string, args ...any)

var anomalyLogger AnomalyLogger

// SetAnomalyLogger installs the sink used for non-fatal format anomalies.
func SetAnomalyLogger(l AnomalyLogger) {
	anomalyLogger = l
}

func logAnomaly(format string, args ...any) {
	if anomalyLogger != nil {
		anomalyLogger(format, args...)
	}
}

// BoundedMagnitudeCode implements the bmc(count, max) coder: read count
// bits as d; let u = d + 2^count. When u > max, return d without reading
// a continuation bit. Otherwise read the continuation bit: return u when it
// is 1, d when it is 0.
func BoundedMagnitudeCode(r *bitio.Reader, count uint, max uint64) (uint64, error) {
	d, err := r.ReadBits(count)
	if err != nil {
		return 0, err
	}
	u := d + (uint64(1) << count)
	if u > max {
		return d, nil
	}
	extend, err := r.ReadBool()
	if err != nil {
		return 0, err
	}
	if extend {
		return u, nil
	}
	return d, nil
}

// CompressedFloat implements cf32: 16 bits as an unsigned integer v;
// value is 1 / ((v + 32768) * 32767). Kept bit-exact even though it
// reads as an unusual formula.
func CompressedFloat(r *bitio.Reader) (float32, error) {
	v, err := r.ReadBits(16)
	if err != nil {
		return 0, err
	}
	return float32(1.0 / (float64(v+32768) * 32767.0)), nil
}

var windows1252Decoder = charmap.Windows1252.NewDecoder()
var utf16LEDecoder = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()

// DecodeWindows1252 decodes raw bytes (e.g. a fixed-width, null-padded
// name field inside a remote-ID shape) as Windows-1252, the same decoder
// String16's positive-length branch uses.
func DecodeWindows1252(b []byte) (string, error) {
	out, err := windows1252Decoder.Bytes(b)
	if err != nil {
		return "", fmt.Errorf("wire: DecodeWindows1252: %w", err)
	}
	return string(out), nil
}

// String8 decodes a length-prefixed, null-terminated UTF-8 string: an i32
// length, that many bytes, with the trailing null byte dropped before
// UTF-8 decoding.
//
// A length of 83886080 (0x05000000) has been observed in exactly one
// known replay and is a source-data bug, not a general rule; it is
// logged rather than silently patched, then treated as length 8.
func String8(r *bitio.Reader) (string, error) {
	n, err := r.ReadI32()
	if err != nil {
		return "", err
	}
	length := n
	if length == 0x05000000 {
		logAnomaly("wire: String8: observed known-bad length 0x05000000 at bit offset %d, substituting 8", r.BitOffset())
		length = 8
	}
	if length < 1 {
		return "", fmt.Errorf("wire: String8: invalid length %d", length)
	}
	b, err := r.ReadBytes(int(length))
	if err != nil {
		return "", err
	}
	b = b[:len(b)-1] // drop null terminator
	return string(b), nil
}

// String16 decodes the variable-shape length-prefixed string: length 0 is
// empty; a negative length n reads -2n bytes and decodes UTF-16LE; a
// positive length reads that many bytes and decodes Windows-1252.
func String16(r *bitio.Reader) (string, error) {
	n, err := r.ReadI32()
	if err != nil {
		return "", err
	}
	switch {
	case n == 0:
		return "", nil
	case n < 0:
		count := int(n) * -2
		b, err := r.ReadBytes(count)
		if err != nil {
			return "", err
		}
		out, err := utf16LEDecoder.Bytes(b)
		if err != nil {
			return "", fmt.Errorf("wire: String16: utf16le decode: %w", err)
		}
		return string(out), nil
	default:
		b, err := r.ReadBytes(int(n))
		if err != nil {
			return "", err
		}
		out, err := windows1252Decoder.Bytes(b)
		if err != nil {
			return "", fmt.Errorf("wire: String16: windows-1252 decode: %w", err)
		}
		return string(out), nil
	}
}

// DecodeList reads an n-bit length (default bit width 32, matching
// List<T>(n=32, default=[])) and decodes that many values
// of T using decode. A zero length returns nil.
func DecodeList[T any](r *bitio.Reader, n uint, decode func(*bitio.Reader) (T, error)) ([]T, error) {
	length, err := r.ReadBits(n)
	if err != nil {
		return nil, err
	}
	if length == 0 {
		return nil, nil
	}
	out := make([]T, length)
	for i := range out {
		v, err := decode(r)
		if err != nil {
			return nil, fmt.Errorf("wire: DecodeList: element %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}
