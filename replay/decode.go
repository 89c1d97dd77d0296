package replay

import (
	"fmt"

	"github.com/octane-rl/rlreplay/bitio"
	"github.com/octane-rl/rlreplay/wire"
)

// KeyFrame is one entry of the body block's keyframe index, used by
// seeking tools to jump to a known file position for a given time/frame;
// this package only needs to consume the list to stay aligned with the
// stream that follows it.
type KeyFrame struct {
	Time         float32
	Frame        uint32
	FilePosition uint32
}

func decodeKeyFrame(r *bitio.Reader) (KeyFrame, error) {
	time, err := r.ReadF32()
	if err != nil {
		return KeyFrame{}, err
	}
	frame, err := r.ReadU32()
	if err != nil {
		return KeyFrame{}, err
	}
	pos, err := r.ReadU32()
	if err != nil {
		return KeyFrame{}, err
	}
	return KeyFrame{Time: time, Frame: frame, FilePosition: pos}, nil
}

// DebugString is one footer debug-log line: which frame logged it, which
// subsystem/user tagged it, and the message text.
type DebugString struct {
	Frame uint32
	User  string
	Text  string
}

func decodeDebugString(r *bitio.Reader) (DebugString, error) {
	frame, err := r.ReadU32()
	if err != nil {
		return DebugString{}, err
	}
	user, err := wire.String8(r)
	if err != nil {
		return DebugString{}, err
	}
	text, err := wire.String8(r)
	if err != nil {
		return DebugString{}, err
	}
	return DebugString{Frame: frame, User: user, Text: text}, nil
}

// TickMark is one footer bookmark (e.g. "Goal") pointing at a frame
// number, used by replay UIs to jump to highlights.
type TickMark struct {
	Description string
	Frame       uint32
}

func decodeTickMark(r *bitio.Reader) (TickMark, error) {
	desc, err := wire.String8(r)
	if err != nil {
		return TickMark{}, err
	}
	frame, err := r.ReadU32()
	if err != nil {
		return TickMark{}, err
	}
	return TickMark{Description: desc, Frame: frame}, nil
}

func decodeClassEntry(r *bitio.Reader) (ClassEntry, error) {
	name, err := wire.String8(r)
	if err != nil {
		return ClassEntry{}, err
	}
	index, err := r.ReadU32()
	if err != nil {
		return ClassEntry{}, err
	}
	return ClassEntry{Name: name, ObjectID: int32(index)}, nil
}

func decodeRawProperty(r *bitio.Reader) (RawProperty, error) {
	objectID, err := r.ReadI32()
	if err != nil {
		return RawProperty{}, err
	}
	streamID, err := r.ReadU32()
	if err != nil {
		return RawProperty{}, err
	}
	return RawProperty{ObjectID: objectID, StreamID: streamID}, nil
}

func decodeRawClassNetCacheEntry(r *bitio.Reader) (RawClassNetCacheEntry, error) {
	objectID, err := r.ReadI32()
	if err != nil {
		return RawClassNetCacheEntry{}, err
	}
	parentID, err := r.ReadI32()
	if err != nil {
		return RawClassNetCacheEntry{}, err
	}
	cacheID, err := r.ReadI32()
	if err != nil {
		return RawClassNetCacheEntry{}, err
	}
	props, err := wire.DecodeList(r, 32, decodeRawProperty)
	if err != nil {
		return RawClassNetCacheEntry{}, err
	}
	return RawClassNetCacheEntry{ObjectID: objectID, ParentID: parentID, CacheID: cacheID, Properties: props}, nil
}

// Replay is the fully decoded result of DecodeReplay: the footer metadata
// needed to interpret the frames, plus the frames themselves.
type Replay struct {
	Context Context

	VersionID string
	Header    PropertySet

	Levels    []string
	KeyFrames []KeyFrame

	DebugStrings []DebugString
	TickMarks    []TickMark
	Packages     []string
	Objects      []string
	Names        []string
	Classes      []ClassEntry

	ClassNetCache []RawClassNetCacheEntry
	Dispatch      DispatchTable

	Frames []Frame
}

// headerPropertiesFrom extracts the subset of decoded header properties
// NewContext needs, falling back to Context's own defaults (IS_LAN false,
// ActorIDMax 1023) when a property is absent.
func headerPropertiesFrom(props PropertySet, engine, licensee, net int32) HeaderProperties {
	hp := HeaderProperties{EngineVersion: engine, LicenseeVersion: licensee, NetVersion: net}
	if v, ok := propStr(props, "BuildVersion"); ok {
		hp.BuildVersion = v
	}
	if v, ok := propStr(props, "MatchType"); ok {
		hp.MatchType = v
	}
	if v, ok := propInt(props, "MaxChannels"); ok {
		hp.MaxChannels = int64(v)
	}
	return hp
}

// DecodeReplay runs the header -> body -> footer -> context -> resolver ->
// frame-loop pipeline over a full replay file's bytes. CRC verification
// and any output serialization remain a caller's responsibility; this
// orchestrator exists to drive the network-stream decoder end to end from
// raw bytes, the same way a caller with its own header/footer pipeline
// would assemble the pieces this package exposes individually.
func DecodeReplay(data []byte) (*Replay, error) {
	r := bitio.NewReader(data)

	if _, err := r.ReadU32(); err != nil { // header length; CRC verification is out of scope
		return nil, fmt.Errorf("replay: DecodeReplay: header length: %w", err)
	}
	if _, err := r.ReadU32(); err != nil { // header CRC
		return nil, fmt.Errorf("replay: DecodeReplay: header crc: %w", err)
	}
	engineVersion, err := r.ReadU32()
	if err != nil {
		return nil, fmt.Errorf("replay: DecodeReplay: engine version: %w", err)
	}
	licenseeVersion, err := r.ReadU32()
	if err != nil {
		return nil, fmt.Errorf("replay: DecodeReplay: licensee version: %w", err)
	}
	var netVersion uint32
	if engineVersion >= 866 && licenseeVersion >= 18 {
		netVersion, err = r.ReadU32()
		if err != nil {
			return nil, fmt.Errorf("replay: DecodeReplay: net version: %w", err)
		}
	}
	versionID, err := wire.String16(r)
	if err != nil {
		return nil, fmt.Errorf("replay: DecodeReplay: version id: %w", err)
	}
	headerProps, err := DecodePropertySet(r)
	if err != nil {
		return nil, fmt.Errorf("replay: DecodeReplay: header properties: %w", err)
	}

	if _, err := r.ReadU32(); err != nil { // body+footer length
		return nil, fmt.Errorf("replay: DecodeReplay: body length: %w", err)
	}
	if _, err := r.ReadU32(); err != nil { // body+footer CRC
		return nil, fmt.Errorf("replay: DecodeReplay: body crc: %w", err)
	}
	levels, err := wire.DecodeList(r, 32, wire.String16)
	if err != nil {
		return nil, fmt.Errorf("replay: DecodeReplay: levels: %w", err)
	}
	keyFrames, err := wire.DecodeList(r, 32, decodeKeyFrame)
	if err != nil {
		return nil, fmt.Errorf("replay: DecodeReplay: keyframes: %w", err)
	}
	streamByteLen, err := r.ReadU32()
	if err != nil {
		return nil, fmt.Errorf("replay: DecodeReplay: network stream length: %w", err)
	}
	streamBytes, err := r.ReadBytes(int(streamByteLen))
	if err != nil {
		return nil, fmt.Errorf("replay: DecodeReplay: network stream: %w", err)
	}

	debugStrings, err := wire.DecodeList(r, 32, decodeDebugString)
	if err != nil {
		return nil, fmt.Errorf("replay: DecodeReplay: debug strings: %w", err)
	}
	tickMarks, err := wire.DecodeList(r, 32, decodeTickMark)
	if err != nil {
		return nil, fmt.Errorf("replay: DecodeReplay: tick marks: %w", err)
	}
	packages, err := wire.DecodeList(r, 32, wire.String16)
	if err != nil {
		return nil, fmt.Errorf("replay: DecodeReplay: packages: %w", err)
	}
	objects, err := wire.DecodeList(r, 32, wire.String16)
	if err != nil {
		return nil, fmt.Errorf("replay: DecodeReplay: objects: %w", err)
	}
	names, err := wire.DecodeList(r, 32, wire.String16)
	if err != nil {
		return nil, fmt.Errorf("replay: DecodeReplay: names: %w", err)
	}
	classes, err := wire.DecodeList(r, 32, decodeClassEntry)
	if err != nil {
		return nil, fmt.Errorf("replay: DecodeReplay: classes: %w", err)
	}
	rawCache, err := wire.DecodeList(r, 32, decodeRawClassNetCacheEntry)
	if err != nil {
		return nil, fmt.Errorf("replay: DecodeReplay: class net cache: %w", err)
	}

	hp := headerPropertiesFrom(headerProps, int32(engineVersion), int32(licenseeVersion), int32(netVersion))
	ctx := NewContext(hp)
	dispatch := ResolveClassNetCache(objects, classes, rawCache)

	numFrames, _ := propInt(headerProps, "NumFrames")
	streamReader := bitio.NewReader(streamBytes)
	frames, err := DecodeFrames(ctx, objects, dispatch, streamReader, uint32(numFrames))
	if err != nil {
		return nil, err
	}

	return &Replay{
		Context:       ctx,
		VersionID:     versionID,
		Header:        headerProps,
		Levels:        levels,
		KeyFrames:     keyFrames,
		DebugStrings:  debugStrings,
		TickMarks:     tickMarks,
		Packages:      packages,
		Objects:       objects,
		Names:         names,
		Classes:       classes,
		ClassNetCache: rawCache,
		Dispatch:      dispatch,
		Frames:        frames,
	}, nil
}
