package wire

import (
	"math"

	"github.com/octane-rl/rlreplay/bitio"
)

// Rotation is three optional byte components, each present only when its
// gating bit is set.
type Rotation struct {
	Yaw, Pitch, Roll *int8
}

// DecodeRotation reads the yaw/pitch/roll presence bits and the byte
// values they gate.
func DecodeRotation(r *bitio.Reader) (Rotation, error) {
	var rot Rotation
	for _, dst := range []**int8{&rot.Yaw, &rot.Pitch, &rot.Roll} {
		present, err := r.ReadBool()
		if err != nil {
			return Rotation{}, err
		}
		if !present {
			continue
		}
		v, err := r.ReadU8()
		if err != nil {
			return Rotation{}, err
		}
		sv := int8(v)
		*dst = &sv
	}
	return rot, nil
}

// Vector3i is a compressed integer 3-vector.
type Vector3i struct {
	X, Y, Z int32
}

func vector3Size(netVersion int32) uint {
	if netVersion >= 7 {
		return 22
	}
	return 20
}

// DecodeVector3i decodes size := bmc(4, M) (M=22 when NET_VERSION>=7, else
// 20), bias := 2^(size+1), each axis := read_bits(size+2) - bias.
func DecodeVector3i(r *bitio.Reader, netVersion int32) (Vector3i, error) {
	m := vector3Size(netVersion)
	size, err := BoundedMagnitudeCode(r, 4, uint64(m))
	if err != nil {
		return Vector3i{}, err
	}
	bias := int64(1) << (size + 1)
	readAxis := func() (int32, error) {
		v, err := r.ReadBits(uint(size) + 2)
		if err != nil {
			return 0, err
		}
		return int32(int64(v) - bias), nil
	}
	x, err := readAxis()
	if err != nil {
		return Vector3i{}, err
	}
	y, err := readAxis()
	if err != nil {
		return Vector3i{}, err
	}
	z, err := readAxis()
	if err != nil {
		return Vector3i{}, err
	}
	return Vector3i{X: x, Y: y, Z: z}, nil
}

// Vector3f is the same compressed shape as Vector3i, with each axis
// divided by 100.
type Vector3f struct {
	X, Y, Z float32
}

// DecodeVector3f decodes a Vector3i and scales each axis by 1/100.
func DecodeVector3f(r *bitio.Reader, netVersion int32) (Vector3f, error) {
	v, err := DecodeVector3i(r, netVersion)
	if err != nil {
		return Vector3f{}, err
	}
	return Vector3f{X: float32(v.X) / 100, Y: float32(v.Y) / 100, Z: float32(v.Z) / 100}, nil
}

// Quaternion is a unit quaternion decoded either as three compressed
// floats (pre NET_VERSION 7, w implicitly 0) or via the smallest-three
// encoding.
type Quaternion struct {
	X, Y, Z, W float32
}

const invSqrt2 = 0.7071067811865476

// DecodeQuaternion decodes below NET_VERSION 7 as three cf32 components
// with w=0, otherwise via a 2-bit "largest" selector followed by three
// 18-bit fields for the other three components, with the omitted
// component reconstructed from the unit-length constraint.
func DecodeQuaternion(r *bitio.Reader, netVersion int32) (Quaternion, error) {
	if netVersion < 7 {
		x, err := CompressedFloat(r)
		if err != nil {
			return Quaternion{}, err
		}
		y, err := CompressedFloat(r)
		if err != nil {
			return Quaternion{}, err
		}
		z, err := CompressedFloat(r)
		if err != nil {
			return Quaternion{}, err
		}
		return Quaternion{X: x, Y: y, Z: z, W: 0}, nil
	}

	largest, err := r.ReadBits(2)
	if err != nil {
		return Quaternion{}, err
	}
	readComponent := func() (float32, error) {
		v, err := r.ReadBits(18)
		if err != nil {
			return 0, err
		}
		const maxVal = (1 << 18) - 1
		return float32((float64(v)/maxVal - 0.5) * 2 * invSqrt2), nil
	}
	a, err := readComponent()
	if err != nil {
		return Quaternion{}, err
	}
	b, err := readComponent()
	if err != nil {
		return Quaternion{}, err
	}
	c, err := readComponent()
	if err != nil {
		return Quaternion{}, err
	}
	sumSq := float64(a)*float64(a) + float64(b)*float64(b) + float64(c)*float64(c)
	remainder := 1 - sumSq
	if remainder < 0 {
		remainder = 0
	}
	extra := float32(math.Sqrt(remainder))

	var vals [4]float32
	slot := 0
	for i := 0; i < 4; i++ {
		if uint64(i) == largest {
			continue
		}
		switch slot {
		case 0:
			vals[i] = a
		case 1:
			vals[i] = b
		case 2:
			vals[i] = c
		}
		slot++
	}
	vals[largest] = extra

	return Quaternion{X: vals[0], Y: vals[1], Z: vals[2], W: vals[3]}, nil
}
