// Package replay decodes a Rocket League replay's network stream into a
// sequence of Frame values. Callers supply the already-decoded header
// property bag, Objects/Names/Classes/ClassNetCache lists, and the raw
// network-stream bytes; this package does not read files, verify CRCs, or
// serialize output.
package replay

import (
	"strconv"
	"strings"
)

// Context is the immutable record of version and mode information read
// once from the replay header and consulted by every decoder.
type Context struct {
	EngineVersion   int32
	LicenseeVersion int32
	NetVersion      int32

	IsRL223           bool
	IsLAN             bool
	ParseActorNameID  bool
	ActorIDMax        uint64
	ActorIDSize       uint
}

// HeaderProperties is the minimal subset of the decoded header property
// bag this package needs. DecodeReplay fills it from a decoded PropertySet
// (headerPropertiesFrom); other callers populate it directly.
type HeaderProperties struct {
	EngineVersion   int32
	LicenseeVersion int32
	NetVersion      int32 // 0 when not present (ENGINE<866 or LICENSEE<18)
	BuildVersion    string
	MatchType       string
	MaxChannels     int64 // 0 means "not present"; ActorIDMax defaults to 1023
}

// minRL223Build is the lexical-over-dotted-integer-triples threshold for
// IS_RL_223.
const minRL223Build = "221120.42953.406184"

// NewContext derives the version-flag Context from decoded header
// properties
func NewContext(h HeaderProperties) Context {
	isRL223 := h.BuildVersion != "" && compareBuildVersions(h.BuildVersion, minRL223Build) >= 0
	isLAN := h.MatchType == "Lan"

	engine, licensee := h.EngineVersion, h.LicenseeVersion
	parseActorNameID := (engine >= 868 && licensee >= 20) ||
		(engine >= 868 && licensee >= 14 && !isLAN)

	actorIDMax := uint64(1023)
	if h.MaxChannels > 0 {
		actorIDMax = uint64(h.MaxChannels)
	}
	actorIDSize := bitLength(actorIDMax)
	if actorIDSize > 0 {
		actorIDSize--
	}

	return Context{
		EngineVersion:    engine,
		LicenseeVersion:  licensee,
		NetVersion:       h.NetVersion,
		IsRL223:          isRL223,
		IsLAN:            isLAN,
		ParseActorNameID: parseActorNameID,
		ActorIDMax:       actorIDMax,
		ActorIDSize:      actorIDSize,
	}
}

// bitLength returns the number of bits needed to represent v (0 for v==0),
// matching the "bit_length" helper used throughout this package for
// deriving widths from a maximum value.
func bitLength(v uint64) uint {
	var n uint
	for v > 0 {
		n++
		v >>= 1
	}
	return n
}

// compareBuildVersions compares two dot-separated numeric-triple build
// version strings component-wise as integers (not lexically as strings,
// and not as semver — Rocket League's BuildVersion has no semver grammar).
// Returns -1, 0, or 1 like strings.Compare. Missing trailing components
// compare as 0.
func compareBuildVersions(a, b string) int {
	ap := strings.Split(a, ".")
	bp := strings.Split(b, ".")
	n := len(ap)
	if len(bp) > n {
		n = len(bp)
	}
	for i := 0; i < n; i++ {
		var av, bv int64
		if i < len(ap) {
			av, _ = strconv.ParseInt(ap[i], 10, 64)
		}
		if i < len(bp) {
			bv, _ = strconv.ParseInt(bp[i], 10, 64)
		}
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
	}
	return 0
}
