package replay

import (
	"fmt"

	"github.com/octane-rl/rlreplay/bitio"
	"github.com/octane-rl/rlreplay/wire"
)

// Attribute is the closed tagged-sum realization of dynamically-typed
// attribute values: every wire shape in the set is a distinct Go type
// implementing this interface, and dispatch is a single switch keyed by
// the pre-resolved AttributeType enum, never a string compare at read
// time.
type Attribute interface {
	AttributeType() AttributeType
}

func (BooleanAttr) AttributeType() AttributeType             { return AttrBoolean }
func (ByteAttr) AttributeType() AttributeType                { return AttrByte }
func (CamSettingsAttr) AttributeType() AttributeType         { return AttrCamSettings }
func (DemolishAttr) AttributeType() AttributeType            { return AttrDemolish }
func (EnumAttr) AttributeType() AttributeType                { return AttrEnum }
func (ExplosionAttr) AttributeType() AttributeType           { return AttrExplosion }
func (ExtendedExplosionAttr) AttributeType() AttributeType   { return AttrExtendedExplosion }
func (FlaggedIntAttr) AttributeType() AttributeType          { return AttrFlaggedInt }
func (FloatAttr) AttributeType() AttributeType               { return AttrFloat }
func (GameModeAttr) AttributeType() AttributeType            { return AttrGameMode }
func (IntAttr) AttributeType() AttributeType                 { return AttrInt }
func (Int64Attr) AttributeType() AttributeType               { return AttrInt64 }
func (LoadoutAttr) AttributeType() AttributeType             { return AttrLoadout }
func (LoadoutOnlineAttr) AttributeType() AttributeType       { return AttrLoadoutOnline }
func (LoadoutsAttr) AttributeType() AttributeType            { return AttrLoadouts }
func (LoadoutsOnlineAttr) AttributeType() AttributeType      { return AttrLoadoutsOnline }
func (LocationAttr) AttributeType() AttributeType            { return AttrLocation }
func (MusicStingerAttr) AttributeType() AttributeType        { return AttrMusicStinger }
func (PartyLeaderAttr) AttributeType() AttributeType         { return AttrPartyLeader }
func (PickupAttr) AttributeType() AttributeType              { return AttrPickup }
func (PickupNewAttr) AttributeType() AttributeType           { return AttrPickupNew }
func (PlayerHistoryKeyAttr) AttributeType() AttributeType    { return AttrPlayerHistoryKey }
func (PrivateMatchSettingsAttr) AttributeType() AttributeType { return AttrPrivateMatchSettings }
func (ProductAttr) AttributeType() AttributeType             { return AttrProduct }
func (ProductsAttr) AttributeType() AttributeType            { return AttrProducts }
func (QWordAttr) AttributeType() AttributeType               { return AttrQWord }
func (QWordStringAttr) AttributeType() AttributeType         { return AttrQWordString }
func (ReservationAttr) AttributeType() AttributeType         { return AttrReservation }
func (RigidBodyAttr) AttributeType() AttributeType           { return AttrRigidBody }
func (RotationAttr) AttributeType() AttributeType            { return AttrRotation }
func (StatEventAttr) AttributeType() AttributeType           { return AttrStatEvent }
func (StringAttr) AttributeType() AttributeType              { return AttrString }
func (TeamPaintAttr) AttributeType() AttributeType           { return AttrTeamPaint }
func (TitleAttr) AttributeType() AttributeType               { return AttrTitle }
func (UniqueIDAttr) AttributeType() AttributeType            { return AttrUniqueID }
func (WeldedInfoAttr) AttributeType() AttributeType          { return AttrWeldedInfo }
func (ByteWeldedInfoAttr) AttributeType() AttributeType      { return AttrByteWeldedInfo }
func (GameServerPingAttr) AttributeType() AttributeType      { return AttrGameServerPing }
func (ActiveActorAttr) AttributeType() AttributeType         { return AttrActiveActor }
func (ClubColorsAttr) AttributeType() AttributeType          { return AttrClubColors }
func (StringInt64PairAttr) AttributeType() AttributeType     { return AttrStringInt64Pair }

// --- concrete attribute value types -----------------------------------

type BooleanAttr struct{ Value bool }
type ByteAttr struct{ Value uint8 }
type FloatAttr struct{ Value float32 }
type IntAttr struct{ Value int32 }
type Int64Attr struct{ Value int64 }
type EnumAttr struct{ Value uint16 }
type QWordAttr struct{ Value uint64 }
type StringAttr struct{ Value string }
type LocationAttr struct{ Value wire.Vector3f }
type RotationAttr struct{ Value wire.Rotation }

type FlaggedIntAttr struct {
	Flag  bool
	Value int32
}

// ActiveActorAttr references another actor by the same variable-width
// encoding the frame loop uses for actor IDs, since it is itself a
// cross-reference to a live actor channel.
type ActiveActorAttr struct {
	Active bool
	Actor  int32
}

type GameModeAttr struct{ Value uint8 }

type CamSettingsAttr struct {
	FOV            float32
	Height         float32
	Angle          float32
	Distance       float32
	Stiffness      float32
	SwivelSpeed    float32
	Transition     *float32
}

type RigidBodyAttr struct {
	Sleeping        bool
	Location        wire.Vector3f
	Rotation        wire.Quaternion
	LinearVelocity  *wire.Vector3f
	AngularVelocity *wire.Vector3f
}

type TeamPaintAttr struct {
	Team           uint8
	PrimaryColor   uint8
	AccentColor    uint8
	PrimaryFinish  uint32
	AccentFinish   uint32
}

type DemolishAttr struct {
	AttackerFlag    bool
	Attacker        int32
	VictimFlag      bool
	Victim          int32
	AttackerVelocity wire.Vector3f
	VictimVelocity   wire.Vector3f
}

type ExplosionAttr struct {
	Flag     bool
	ActorID  int32
	Location wire.Vector3f
}

type ExtendedExplosionAttr struct {
	Explosion ExplosionAttr
	Unknown1  bool
	Secondary ActiveActorAttr
}

type MusicStingerAttr struct {
	Flag    bool
	Cue     uint32
	Trigger uint8
}

type PickupAttr struct {
	InstigatorFlag bool
	Instigator     int32
	PickedUp       bool
}

type PickupNewAttr struct {
	InstigatorFlag bool
	Instigator     int32
	PickedUp       uint8
	Unknown1       uint32
}

type PlayerHistoryKeyAttr struct{ Value uint16 }

type PrivateMatchSettingsAttr struct {
	Mutators           string
	Joinable           bool
	MaxPlayers         int32
	GameName           string
	Password           string
	NoJoinInProgress   bool
}

type StatEventAttr struct {
	Flag     bool
	ObjectID int32
}

type TitleAttr struct {
	Unknown1 bool
	Unknown2 bool
	TitleID  uint32
	Unknown4 uint32
	Unknown5 uint32
	Unknown6 uint32
	Unknown7 bool
}

type WeldedInfoAttr struct {
	Active bool
	Actor  int32
	Offset wire.Vector3f
	Mass   float32
}

type ByteWeldedInfoAttr struct {
	Active bool
	Actor  uint8
	Offset wire.Vector3f
	Mass   float32
}

type GameServerPingAttr struct{ Value uint8 }

type ClubColorsAttr struct {
	BlueFlag    bool
	BlueColor   uint8
	OrangeFlag  bool
	OrangeColor uint8
}

type StringInt64PairAttr struct {
	Name  string
	Value int64
}

// LoadoutAttr field order: version, body, decoration, wheels,
// rocket_trail, antenna, topper, unknown_04 (all u32); then u32 fields
// gated by version thresholds 9, 16 (x2), 17, 19, 22 (x3).
type LoadoutAttr struct {
	Version       uint8
	Body          uint32
	Decoration    uint32
	Wheels        uint32
	RocketTrail   uint32
	Antenna       uint32
	Topper        uint32
	Unknown04     uint32
	EngineAudio   *uint32
	Trail         *uint32
	GoalExplosion *uint32
	Banner        *uint32
	ProductID     *uint32
	Unknown22a    *uint32
	Unknown22b    *uint32
	Unknown22c    *uint32
}

type LoadoutOnlineAttr struct {
	Products []ProductAttr
}

type LoadoutsAttr struct {
	Blue   LoadoutAttr
	Orange LoadoutAttr
}

type LoadoutsOnlineAttr struct {
	Blue    LoadoutOnlineAttr
	Orange  LoadoutOnlineAttr
	Unknown1 bool
	Unknown2 bool
}

// ProductAttr is the Product attribute: a flag bit, an object_id, then a
// value whose shape depends on resolving that object's name against the
// closed set of known product-attribute object kinds.
type ProductAttr struct {
	Flag         bool
	ObjectID     int32
	Kind         productAttributeKind
	UserColor    *uint32
	Painted      *uint32
	SpecialEditionValue *uint32
	TeamEditionValue    *uint32
	TitleIDValue        *string
}

type ProductsAttr struct {
	Products []ProductAttr
}

// QWordStringAttr holds a String16 when IS_RL_223, else a u64.
type QWordStringAttr struct {
	StringValue *string
	QWordValue  *uint64
}

// remoteIDKind is the one-byte UniqueIDAttr system-id dispatch:
// SplitScreen/Steam/PlayStation/Xbox/QQ/Switch/PsyNet/Epic.
type remoteIDKind uint8

const (
	remoteIDSplitScreen remoteIDKind = 0
	remoteIDSteam       remoteIDKind = 1
	remoteIDPlayStation remoteIDKind = 2
	remoteIDXbox        remoteIDKind = 4
	remoteIDQQ          remoteIDKind = 5
	remoteIDSwitch       remoteIDKind = 6
	remoteIDPsyNet      remoteIDKind = 7
	remoteIDEpic        remoteIDKind = 11
)

type UniqueIDAttr struct {
	SystemID remoteIDKind
	// Exactly one of the following is populated, per SystemID.
	SplitScreen uint32
	Steam       uint64
	PlayStation PlayStationRemoteID
	Xbox        uint64
	QQ          uint64
	Switch      SwitchRemoteID
	PsyNet      PsyNetRemoteID
	Epic        string

	LocalID uint8
}

type PlayStationRemoteID struct {
	Name    string
	Unknown []byte
	Online  uint64
}

type SwitchRemoteID struct {
	Unknown [24]byte
}

type PsyNetRemoteID struct {
	Online  uint64
	Unknown []byte
}

type PartyLeaderAttr struct {
	SystemID remoteIDKind
	Value    *UniqueIDAttr
}

type ReservationAttr struct {
	Number         uint8
	UniqueID       UniqueIDAttr
	Name           *string
	Unknown1       bool
	Unknown2       bool
	Trailing6Bits  *uint8
}

// --- dispatch ------------------------------------------------------------

// DecodeAttribute dispatches on the pre-resolved AttributeType and reads
// exactly the bits that type's layout specifies; every branch is total
// given ctx's version predicates.
func DecodeAttribute(r *bitio.Reader, ctx *Context, at AttributeType) (Attribute, error) {
	switch at {
	case AttrBoolean:
		v, err := r.ReadBool()
		return BooleanAttr{Value: v}, err
	case AttrByte:
		v, err := r.ReadU8()
		return ByteAttr{Value: v}, err
	case AttrFloat:
		v, err := r.ReadF32()
		return FloatAttr{Value: v}, err
	case AttrInt:
		v, err := r.ReadI32()
		return IntAttr{Value: v}, err
	case AttrInt64:
		v, err := r.ReadI64()
		return Int64Attr{Value: v}, err
	case AttrEnum:
		v, err := r.ReadBits(16)
		return EnumAttr{Value: uint16(v)}, err
	case AttrQWord:
		v, err := r.ReadU64()
		return QWordAttr{Value: v}, err
	case AttrString:
		v, err := wire.String16(r)
		return StringAttr{Value: v}, err
	case AttrLocation:
		v, err := wire.DecodeVector3f(r, ctx.NetVersion)
		return LocationAttr{Value: v}, err
	case AttrRotation:
		v, err := wire.DecodeRotation(r)
		return RotationAttr{Value: v}, err
	case AttrFlaggedInt:
		return decodeFlaggedInt(r)
	case AttrActiveActor:
		return decodeActiveActor(r, ctx)
	case AttrGameMode:
		return decodeGameMode(r, ctx)
	case AttrCamSettings:
		return decodeCamSettings(r, ctx)
	case AttrRigidBody:
		return decodeRigidBody(r, ctx)
	case AttrTeamPaint:
		return decodeTeamPaint(r)
	case AttrDemolish:
		return decodeDemolish(r, ctx)
	case AttrExplosion:
		return decodeExplosion(r, ctx)
	case AttrExtendedExplosion:
		return decodeExtendedExplosion(r, ctx)
	case AttrMusicStinger:
		return decodeMusicStinger(r)
	case AttrPickup:
		return decodePickup(r)
	case AttrPickupNew:
		return decodePickupNew(r)
	case AttrPlayerHistoryKey:
		v, err := r.ReadBits(14)
		return PlayerHistoryKeyAttr{Value: uint16(v)}, err
	case AttrPrivateMatchSettings:
		return decodePrivateMatchSettings(r)
	case AttrStatEvent:
		return decodeStatEvent(r)
	case AttrTitle:
		return decodeTitle(r)
	case AttrWeldedInfo:
		return decodeWeldedInfo(r, ctx)
	case AttrByteWeldedInfo:
		return decodeByteWeldedInfo(r, ctx)
	case AttrGameServerPing:
		v, err := r.ReadU8()
		return GameServerPingAttr{Value: v}, err
	case AttrClubColors:
		return decodeClubColors(r)
	case AttrStringInt64Pair:
		return decodeStringInt64Pair(r)
	case AttrLoadout:
		v, err := decodeLoadout(r)
		return v, err
	case AttrLoadoutOnline:
		return decodeLoadoutOnline(r)
	case AttrLoadouts:
		return decodeLoadouts(r)
	case AttrLoadoutsOnline:
		return decodeLoadoutsOnline(r)
	case AttrProduct:
		return decodeProduct(r)
	case AttrProducts:
		return decodeProducts(r)
	case AttrQWordString:
		return decodeQWordString(r, ctx)
	case AttrUniqueID:
		return decodeUniqueID(r, ctx, nil)
	case AttrPartyLeader:
		return decodePartyLeader(r, ctx)
	case AttrReservation:
		return decodeReservation(r, ctx)
	default:
		return nil, fmt.Errorf("replay: unknown attribute type %d", int(at))
	}
}

func decodeFlaggedInt(r *bitio.Reader) (Attribute, error) {
	flag, err := r.ReadBool()
	if err != nil {
		return nil, err
	}
	v, err := r.ReadI32()
	if err != nil {
		return nil, err
	}
	return FlaggedIntAttr{Flag: flag, Value: v}, nil
}

func decodeActiveActor(r *bitio.Reader, ctx *Context) (Attribute, error) {
	active, err := r.ReadBool()
	if err != nil {
		return nil, err
	}
	actor, err := wire.BoundedMagnitudeCode(r, ctx.ActorIDSize, ctx.ActorIDMax)
	if err != nil {
		return nil, err
	}
	return ActiveActorAttr{Active: active, Actor: int32(actor)}, nil
}

// decodeGameMode reads the 8-bit game mode value. Both the pre- and
// post-868 branches currently read the same width; the conditional is
// kept rather than collapsed in case a future engine version diverges
// them.
func decodeGameMode(r *bitio.Reader, ctx *Context) (Attribute, error) {
	var v uint64
	var err error
	if ctx.EngineVersion >= 868 {
		v, err = r.ReadBits(8)
	} else {
		v, err = r.ReadBits(8)
	}
	if err != nil {
		return nil, err
	}
	return GameModeAttr{Value: uint8(v)}, nil
}

func decodeCamSettings(r *bitio.Reader, ctx *Context) (Attribute, error) {
	var c CamSettingsAttr
	fields := []*float32{&c.FOV, &c.Height, &c.Angle, &c.Distance, &c.Stiffness, &c.SwivelSpeed}
	for _, f := range fields {
		v, err := r.ReadF32()
		if err != nil {
			return nil, err
		}
		*f = v
	}
	if ctx.EngineVersion >= 868 && ctx.LicenseeVersion >= 20 {
		v, err := r.ReadF32()
		if err != nil {
			return nil, err
		}
		c.Transition = &v
	}
	return c, nil
}

func decodeRigidBody(r *bitio.Reader, ctx *Context) (Attribute, error) {
	sleeping, err := r.ReadBool()
	if err != nil {
		return nil, err
	}
	loc, err := wire.DecodeVector3f(r, ctx.NetVersion)
	if err != nil {
		return nil, err
	}
	rot, err := wire.DecodeQuaternion(r, ctx.NetVersion)
	if err != nil {
		return nil, err
	}
	rb := RigidBodyAttr{Sleeping: sleeping, Location: loc, Rotation: rot}
	if !sleeping {
		lv, err := wire.DecodeVector3f(r, ctx.NetVersion)
		if err != nil {
			return nil, err
		}
		av, err := wire.DecodeVector3f(r, ctx.NetVersion)
		if err != nil {
			return nil, err
		}
		rb.LinearVelocity = &lv
		rb.AngularVelocity = &av
	}
	return rb, nil
}

func decodeTeamPaint(r *bitio.Reader) (Attribute, error) {
	var t TeamPaintAttr
	var err error
	var v uint8
	if v, err = r.ReadU8(); err != nil {
		return nil, err
	}
	t.Team = v
	if v, err = r.ReadU8(); err != nil {
		return nil, err
	}
	t.PrimaryColor = v
	if v, err = r.ReadU8(); err != nil {
		return nil, err
	}
	t.AccentColor = v
	pf, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	t.PrimaryFinish = pf
	af, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	t.AccentFinish = af
	return t, nil
}

func decodeActorRef(r *bitio.Reader, ctx *Context) (bool, int32, error) {
	flag, err := r.ReadBool()
	if err != nil {
		return false, 0, err
	}
	actor, err := wire.BoundedMagnitudeCode(r, ctx.ActorIDSize, ctx.ActorIDMax)
	if err != nil {
		return false, 0, err
	}
	return flag, int32(actor), nil
}

func decodeDemolish(r *bitio.Reader, ctx *Context) (Attribute, error) {
	var d DemolishAttr
	var err error
	d.AttackerFlag, d.Attacker, err = decodeActorRef(r, ctx)
	if err != nil {
		return nil, err
	}
	d.VictimFlag, d.Victim, err = decodeActorRef(r, ctx)
	if err != nil {
		return nil, err
	}
	d.AttackerVelocity, err = wire.DecodeVector3f(r, ctx.NetVersion)
	if err != nil {
		return nil, err
	}
	d.VictimVelocity, err = wire.DecodeVector3f(r, ctx.NetVersion)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func decodeExplosion(r *bitio.Reader, ctx *Context) (Attribute, error) {
	flag, err := r.ReadBool()
	if err != nil {
		return nil, err
	}
	var actorID int32
	if flag {
		v, err := r.ReadI32()
		if err != nil {
			return nil, err
		}
		actorID = v
	}
	loc, err := wire.DecodeVector3f(r, ctx.NetVersion)
	if err != nil {
		return nil, err
	}
	return ExplosionAttr{Flag: flag, ActorID: actorID, Location: loc}, nil
}

func decodeExtendedExplosion(r *bitio.Reader, ctx *Context) (Attribute, error) {
	base, err := decodeExplosion(r, ctx)
	if err != nil {
		return nil, err
	}
	unknown1, err := r.ReadBool()
	if err != nil {
		return nil, err
	}
	secondary, err := decodeActiveActor(r, ctx)
	if err != nil {
		return nil, err
	}
	return ExtendedExplosionAttr{
		Explosion: base.(ExplosionAttr),
		Unknown1:  unknown1,
		Secondary: secondary.(ActiveActorAttr),
	}, nil
}

func decodeMusicStinger(r *bitio.Reader) (Attribute, error) {
	flag, err := r.ReadBool()
	if err != nil {
		return nil, err
	}
	cue, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	trigger, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	return MusicStingerAttr{Flag: flag, Cue: cue, Trigger: trigger}, nil
}

func decodePickup(r *bitio.Reader) (Attribute, error) {
	flag, err := r.ReadBool()
	if err != nil {
		return nil, err
	}
	var instigator int32
	if flag {
		v, err := r.ReadI32()
		if err != nil {
			return nil, err
		}
		instigator = v
	}
	pickedUp, err := r.ReadBool()
	if err != nil {
		return nil, err
	}
	return PickupAttr{InstigatorFlag: flag, Instigator: instigator, PickedUp: pickedUp}, nil
}

func decodePickupNew(r *bitio.Reader) (Attribute, error) {
	flag, err := r.ReadBool()
	if err != nil {
		return nil, err
	}
	var instigator int32
	if flag {
		v, err := r.ReadI32()
		if err != nil {
			return nil, err
		}
		instigator = v
	}
	pickedUp, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	unknown1, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	return PickupNewAttr{InstigatorFlag: flag, Instigator: instigator, PickedUp: pickedUp, Unknown1: unknown1}, nil
}

func decodePrivateMatchSettings(r *bitio.Reader) (Attribute, error) {
	mutators, err := wire.String16(r)
	if err != nil {
		return nil, err
	}
	joinable, err := r.ReadBool()
	if err != nil {
		return nil, err
	}
	maxPlayers, err := r.ReadI32()
	if err != nil {
		return nil, err
	}
	gameName, err := wire.String16(r)
	if err != nil {
		return nil, err
	}
	password, err := wire.String16(r)
	if err != nil {
		return nil, err
	}
	noJoinInProgress, err := r.ReadBool()
	if err != nil {
		return nil, err
	}
	return PrivateMatchSettingsAttr{
		Mutators: mutators, Joinable: joinable, MaxPlayers: maxPlayers,
		GameName: gameName, Password: password, NoJoinInProgress: noJoinInProgress,
	}, nil
}

func decodeStatEvent(r *bitio.Reader) (Attribute, error) {
	flag, err := r.ReadBool()
	if err != nil {
		return nil, err
	}
	objectID, err := r.ReadI32()
	if err != nil {
		return nil, err
	}
	return StatEventAttr{Flag: flag, ObjectID: objectID}, nil
}

func decodeTitle(r *bitio.Reader) (Attribute, error) {
	var t TitleAttr
	var err error
	if t.Unknown1, err = r.ReadBool(); err != nil {
		return nil, err
	}
	if t.Unknown2, err = r.ReadBool(); err != nil {
		return nil, err
	}
	if t.TitleID, err = r.ReadU32(); err != nil {
		return nil, err
	}
	if t.Unknown4, err = r.ReadU32(); err != nil {
		return nil, err
	}
	if t.Unknown5, err = r.ReadU32(); err != nil {
		return nil, err
	}
	if t.Unknown6, err = r.ReadU32(); err != nil {
		return nil, err
	}
	if t.Unknown7, err = r.ReadBool(); err != nil {
		return nil, err
	}
	return t, nil
}

func decodeWeldedInfo(r *bitio.Reader, ctx *Context) (Attribute, error) {
	active, err := r.ReadBool()
	if err != nil {
		return nil, err
	}
	actor, err := r.ReadI32()
	if err != nil {
		return nil, err
	}
	offset, err := wire.DecodeVector3f(r, ctx.NetVersion)
	if err != nil {
		return nil, err
	}
	mass, err := r.ReadF32()
	if err != nil {
		return nil, err
	}
	return WeldedInfoAttr{Active: active, Actor: actor, Offset: offset, Mass: mass}, nil
}

func decodeByteWeldedInfo(r *bitio.Reader, ctx *Context) (Attribute, error) {
	active, err := r.ReadBool()
	if err != nil {
		return nil, err
	}
	actor, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	offset, err := wire.DecodeVector3f(r, ctx.NetVersion)
	if err != nil {
		return nil, err
	}
	mass, err := r.ReadF32()
	if err != nil {
		return nil, err
	}
	return ByteWeldedInfoAttr{Active: active, Actor: actor, Offset: offset, Mass: mass}, nil
}

func decodeClubColors(r *bitio.Reader) (Attribute, error) {
	var c ClubColorsAttr
	var err error
	if c.BlueFlag, err = r.ReadBool(); err != nil {
		return nil, err
	}
	if c.BlueColor, err = r.ReadU8(); err != nil {
		return nil, err
	}
	if c.OrangeFlag, err = r.ReadBool(); err != nil {
		return nil, err
	}
	if c.OrangeColor, err = r.ReadU8(); err != nil {
		return nil, err
	}
	return c, nil
}

func decodeStringInt64Pair(r *bitio.Reader) (Attribute, error) {
	name, err := wire.String16(r)
	if err != nil {
		return nil, err
	}
	v, err := r.ReadI64()
	if err != nil {
		return nil, err
	}
	return StringInt64PairAttr{Name: name, Value: v}, nil
}

func decodeLoadout(r *bitio.Reader) (LoadoutAttr, error) {
	var l LoadoutAttr
	var err error
	if l.Version, err = r.ReadU8(); err != nil {
		return l, err
	}
	for _, f := range []*uint32{&l.Body, &l.Decoration, &l.Wheels, &l.RocketTrail, &l.Antenna, &l.Topper, &l.Unknown04} {
		if *f, err = r.ReadU32(); err != nil {
			return l, err
		}
	}
	readIfVersion := func(min uint8, dst **uint32) error {
		if l.Version < min {
			return nil
		}
		v, err := r.ReadU32()
		if err != nil {
			return err
		}
		*dst = &v
		return nil
	}
	if err = readIfVersion(9, &l.EngineAudio); err != nil {
		return l, err
	}
	if l.Version >= 16 {
		for _, dst := range []**uint32{&l.Trail, &l.GoalExplosion} {
			v, err := r.ReadU32()
			if err != nil {
				return l, err
			}
			*dst = &v
		}
	}
	if err = readIfVersion(17, &l.Banner); err != nil {
		return l, err
	}
	if err = readIfVersion(19, &l.ProductID); err != nil {
		return l, err
	}
	if l.Version >= 22 {
		for _, dst := range []**uint32{&l.Unknown22a, &l.Unknown22b, &l.Unknown22c} {
			v, err := r.ReadU32()
			if err != nil {
				return l, err
			}
			*dst = &v
		}
	}
	return l, nil
}

func decodeLoadoutOnline(r *bitio.Reader) (Attribute, error) {
	products, err := wire.DecodeList(r, 8, func(r *bitio.Reader) (ProductAttr, error) {
		a, err := decodeProduct(r)
		if err != nil {
			return ProductAttr{}, err
		}
		return a.(ProductAttr), nil
	})
	if err != nil {
		return nil, err
	}
	return LoadoutOnlineAttr{Products: products}, nil
}

func decodeLoadouts(r *bitio.Reader) (Attribute, error) {
	blue, err := decodeLoadout(r)
	if err != nil {
		return nil, err
	}
	orange, err := decodeLoadout(r)
	if err != nil {
		return nil, err
	}
	return LoadoutsAttr{Blue: blue, Orange: orange}, nil
}

func decodeLoadoutsOnline(r *bitio.Reader) (Attribute, error) {
	blue, err := decodeLoadoutOnline(r)
	if err != nil {
		return nil, err
	}
	orange, err := decodeLoadoutOnline(r)
	if err != nil {
		return nil, err
	}
	u1, err := r.ReadBool()
	if err != nil {
		return nil, err
	}
	u2, err := r.ReadBool()
	if err != nil {
		return nil, err
	}
	return LoadoutsOnlineAttr{
		Blue: blue.(LoadoutOnlineAttr), Orange: orange.(LoadoutOnlineAttr),
		Unknown1: u1, Unknown2: u2,
	}, nil
}

// decodeProduct decodes the Product attribute's flag and object_id only.
// The object's name, looked up in productAttributeObjectKind, determines
// the shape of the value that follows; unrecognised objects have no value
// bits at all (Kind stays productUnknown, all value fields nil). Products
// decoded as list elements (ProductsAttr, LoadoutOnlineAttr) get no value
// read and keep Kind productUnknown.
func decodeProduct(r *bitio.Reader) (Attribute, error) {
	flag, err := r.ReadBool()
	if err != nil {
		return nil, err
	}
	objectID, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	p := ProductAttr{Flag: flag, ObjectID: int32(objectID)}
	// The object name behind objectID is not locally known to this
	// function -- only the frame state machine has the Objects table, so
	// it resolves the kind and calls DecodeProductValue for the rest.
	return p, nil
}

// DecodeProductValue reads the version-gated value following a Product
// attribute's object_id, once the caller has resolved which of the five
// known product-attribute object kinds objectID names (or
// productUnknown, which reads nothing and leaves every value field nil).
func DecodeProductValue(r *bitio.Reader, kind productAttributeKind, ctx *Context) (ProductAttr, error) {
	p := ProductAttr{Kind: kind}
	switch kind {
	case productUserColor:
		v, err := r.ReadU32()
		if err != nil {
			return p, err
		}
		p.UserColor = &v
	case productPainted:
		var v uint32
		if ctx.EngineVersion >= 868 && ctx.LicenseeVersion >= 12 {
			v64, err := wire.BoundedMagnitudeCode(r, 31, 1<<31-1)
			if err != nil {
				return p, err
			}
			v = uint32(v64)
		} else {
			u32, err := r.ReadU32()
			if err != nil {
				return p, err
			}
			v = u32
		}
		p.Painted = &v
	case productSpecialEdition:
		v, err := r.ReadU32()
		if err != nil {
			return p, err
		}
		p.SpecialEditionValue = &v
	case productTeamEdition:
		v, err := r.ReadU32()
		if err != nil {
			return p, err
		}
		p.TeamEditionValue = &v
	case productTitleID:
		v, err := wire.String8(r)
		if err != nil {
			return p, err
		}
		p.TitleIDValue = &v
	case productUnknown:
		// Absent: no value bits for an unrecognised product object.
	}
	return p, nil
}

func decodeProducts(r *bitio.Reader) (Attribute, error) {
	products, err := wire.DecodeList(r, 8, func(r *bitio.Reader) (ProductAttr, error) {
		a, err := decodeProduct(r)
		if err != nil {
			return ProductAttr{}, err
		}
		return a.(ProductAttr), nil
	})
	if err != nil {
		return nil, err
	}
	return ProductsAttr{Products: products}, nil
}

func decodeQWordString(r *bitio.Reader, ctx *Context) (Attribute, error) {
	if ctx.IsRL223 {
		s, err := wire.String16(r)
		if err != nil {
			return nil, err
		}
		return QWordStringAttr{StringValue: &s}, nil
	}
	v, err := r.ReadU64()
	if err != nil {
		return nil, err
	}
	return QWordStringAttr{QWordValue: &v}, nil
}

func decodePlayStationRemoteID(r *bitio.Reader, ctx *Context) (PlayStationRemoteID, error) {
	nameBytes, err := r.ReadBytes(16)
	if err != nil {
		return PlayStationRemoteID{}, err
	}
	filtered := make([]byte, 0, len(nameBytes))
	for _, b := range nameBytes {
		if b != 0 {
			filtered = append(filtered, b)
		}
	}
	name, err := wire.DecodeWindows1252(filtered)
	if err != nil {
		return PlayStationRemoteID{}, err
	}
	unknownLen := 16
	if ctx.NetVersion < 1 {
		unknownLen = 8
	}
	unknown, err := r.ReadBytes(unknownLen)
	if err != nil {
		return PlayStationRemoteID{}, err
	}
	online, err := r.ReadU64()
	if err != nil {
		return PlayStationRemoteID{}, err
	}
	return PlayStationRemoteID{Name: name, Unknown: unknown, Online: online}, nil
}

func decodePsyNetRemoteID(r *bitio.Reader, ctx *Context) (PsyNetRemoteID, error) {
	online, err := r.ReadU64()
	if err != nil {
		return PsyNetRemoteID{}, err
	}
	if ctx.NetVersion < 10 {
		unknown, err := r.ReadBytes(24)
		if err != nil {
			return PsyNetRemoteID{}, err
		}
		return PsyNetRemoteID{Online: online, Unknown: unknown}, nil
	}
	return PsyNetRemoteID{Online: online}, nil
}

// decodeUniqueID decodes a UniqueIDAttr. If presetSystem is non-nil, the
// one-byte system ID is not read from the stream (the PartyLeaderAttr
// pre-supply case, where a system ID of 0 means there is no unique ID to
// decode at all).
func decodeUniqueID(r *bitio.Reader, ctx *Context, presetSystem *remoteIDKind) (Attribute, error) {
	var systemID remoteIDKind
	if presetSystem != nil {
		systemID = *presetSystem
	} else {
		v, err := r.ReadU8()
		if err != nil {
			return nil, err
		}
		systemID = remoteIDKind(v)
	}

	u := UniqueIDAttr{SystemID: systemID}
	var err error
	switch systemID {
	case remoteIDSplitScreen:
		v, e := r.ReadU32()
		u.SplitScreen, err = v, e
	case remoteIDSteam:
		v, e := r.ReadU64()
		u.Steam, err = v, e
	case remoteIDPlayStation:
		v, e := decodePlayStationRemoteID(r, ctx)
		u.PlayStation, err = v, e
	case remoteIDXbox:
		v, e := r.ReadU64()
		u.Xbox, err = v, e
	case remoteIDQQ:
		v, e := r.ReadU64()
		u.QQ, err = v, e
	case remoteIDSwitch:
		b, e := r.ReadBytes(24)
		if e == nil {
			copy(u.Switch.Unknown[:], b)
		}
		err = e
	case remoteIDPsyNet:
		v, e := decodePsyNetRemoteID(r, ctx)
		u.PsyNet, err = v, e
	case remoteIDEpic:
		v, e := wire.String16(r)
		u.Epic, err = v, e
	default:
		return nil, &DecodeError{Kind: ErrUnknownSystemID, BitOffset: r.BitOffset()}
	}
	if err != nil {
		return nil, err
	}

	localID, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	u.LocalID = localID
	return u, nil
}

func decodePartyLeader(r *bitio.Reader, ctx *Context) (Attribute, error) {
	v, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	systemID := remoteIDKind(v)
	if systemID == 0 {
		return PartyLeaderAttr{SystemID: systemID, Value: nil}, nil
	}
	attr, err := decodeUniqueID(r, ctx, &systemID)
	if err != nil {
		return nil, err
	}
	u := attr.(UniqueIDAttr)
	return PartyLeaderAttr{SystemID: systemID, Value: &u}, nil
}

func decodeReservation(r *bitio.Reader, ctx *Context) (Attribute, error) {
	num, err := r.ReadBits(3)
	if err != nil {
		return nil, err
	}
	attr, err := decodeUniqueID(r, ctx, nil)
	if err != nil {
		return nil, err
	}
	unique := attr.(UniqueIDAttr)

	res := ReservationAttr{Number: uint8(num), UniqueID: unique}
	if unique.SystemID != 0 {
		name, err := wire.String16(r)
		if err != nil {
			return nil, err
		}
		res.Name = &name
	}
	if res.Unknown1, err = r.ReadBool(); err != nil {
		return nil, err
	}
	if res.Unknown2, err = r.ReadBool(); err != nil {
		return nil, err
	}
	if ctx.EngineVersion >= 868 && ctx.LicenseeVersion >= 12 {
		v, err := r.ReadBits(6)
		if err != nil {
			return nil, err
		}
		vv := uint8(v)
		res.Trailing6Bits = &vv
	}
	return res, nil
}
