package replay

// AttributeType is the closed set of attribute wire shapes dispatched by
// DecodeAttribute: a single switch on the pre-resolved attribute-type
// enum, not a string compare at read time.
type AttributeType int

const (
	AttrUnknown AttributeType = iota
	AttrBoolean
	AttrByte
	AttrCamSettings
	AttrDemolish
	AttrEnum
	AttrExplosion
	AttrExtendedExplosion
	AttrFlaggedInt
	AttrFloat
	AttrGameMode
	AttrInt
	AttrInt64
	AttrLoadout
	AttrLoadoutOnline
	AttrLoadouts
	AttrLoadoutsOnline
	AttrLocation
	AttrMusicStinger
	AttrPartyLeader
	AttrPickup
	AttrPickupNew
	AttrPlayerHistoryKey
	AttrPrivateMatchSettings
	AttrProduct
	AttrProducts
	AttrQWord
	AttrQWordString
	AttrReservation
	AttrRigidBody
	AttrRotation
	AttrStatEvent
	AttrString
	AttrTeamPaint
	AttrTitle
	AttrUniqueID
	AttrWeldedInfo
	AttrByteWeldedInfo
	AttrGameServerPing
	AttrActiveActor
	AttrClubColors
	AttrStringInt64Pair
)

// attributeTypeByObject is the static Object:AttributeType map: object
// name -> which of the ~40 attribute shapes its replicated property
// decodes as. Populated with the subset of Rocket League's actual
// replicated properties that this module's attribute decoders
// (attributes.go) implement; an object name missing here that is
// actually updated in a stream resolves to AttrUnknown.
var attributeTypeByObject = map[string]AttributeType{
	"TAGame.RBActor_TA:ReplicatedRBState":                     AttrRigidBody,
	"Engine.Pawn:PlayerReplicationInfo":                       AttrActiveActor,
	"TAGame.PRI_TA:MatchScore":                                AttrInt,
	"TAGame.PRI_TA:ClientLoadout":                             AttrLoadout,
	"TAGame.PRI_TA:ClientLoadoutOnline":                       AttrLoadoutOnline,
	"TAGame.PRI_TA:ClientLoadouts":                            AttrLoadouts,
	"TAGame.PRI_TA:ClientLoadoutsOnline":                      AttrLoadoutsOnline,
	"TAGame.PRI_TA:PartyLeader":                                AttrPartyLeader,
	"TAGame.PRI_TA:UniqueId":                                  AttrUniqueID,
	"TAGame.PRI_TA:Title":                                     AttrTitle,
	"TAGame.PRI_TA:TotalXP":                                   AttrInt,
	"TAGame.PRI_TA:SteeringSensitivity":                       AttrFloat,
	"TAGame.PRI_TA:CameraSettings":                            AttrCamSettings,
	"TAGame.PRI_TA:ClubColors":                                AttrClubColors,
	"TAGame.GameEvent_TA:ReplicatedStateIndex":                AttrByte,
	"TAGame.GameEvent_Soccar_TA:RoundNum":                     AttrInt,
	"TAGame.GameEvent_Team_TA:MaxTeamSize":                    AttrInt,
	"ProjectX.GRI_X:GameServerPing":                           AttrGameServerPing,
	"Engine.GameReplicationInfo:GameClass":                    AttrByte,
	"TAGame.Ball_TA:GameEvent":                                AttrActiveActor,
	"TAGame.Car_TA:TeamPaint":                                 AttrTeamPaint,
	"TAGame.CarComponent_TA:ReplicatedActive":                 AttrByte,
	"TAGame.CarComponent_Boost_TA:ReplicatedBoostAmount":      AttrByte,
	"TAGame.Vehicle_TA:ReplicatedThrottle":                    AttrByte,
	"TAGame.Vehicle_TA:ReplicatedSteer":                       AttrByte,
	"TAGame.VehiclePickup_TA:ReplicatedPickupData":            AttrPickup,
	"TAGame.VehiclePickup_TA:NewReplicatedPickupData":         AttrPickupNew,
	"TAGame.CrowdActor_TA:ModifiedNoise":                      AttrFloat,
	"TAGame.CrowdActor_TA:GameEvent":                          AttrActiveActor,
	"TAGame.CrowdManager_TA:GameEvent":                        AttrActiveActor,
	"TAGame.CrowdManager_TA:ReplicatedOneShotSound":           AttrActiveActor,
	"TAGame.GameEvent_Soccar_TA:ReplicatedMusicStinger":       AttrMusicStinger,
	"TAGame.GameEvent_Soccar_TA:bBallHasBeenHit":               AttrBoolean,
	"TAGame.CameraSettingsActor_TA:PRI":                       AttrActiveActor,
	"TAGame.PRI_TA:PlayerHistoryKey":                          AttrPlayerHistoryKey,
	"TAGame.GameEvent_TA:ReplicatedGameStateTimeRemaining":    AttrInt,
	"TAGame.PRI_TA:MatchGoals":                                AttrInt,
	"TAGame.PRI_TA:MatchAssists":                              AttrInt,
	"TAGame.PRI_TA:MatchSaves":                                AttrInt,
	"TAGame.PRI_TA:MatchShots":                                AttrInt,
	"TAGame.PRI_TA:PersistentCamera":                          AttrActiveActor,
	"TAGame.Default__PRI_TA:PlayerHistoryKey":                 AttrPlayerHistoryKey,
	"TAGame.Car_TA:ClubColors":                                AttrClubColors,
	"TAGame.Car_TA:ReplicatedDemolish":                        AttrDemolish,
	"TAGame.Car_TA:ReplicatedDemolishExtended":                AttrExtendedExplosion,
	"TAGame.CarComponent_Dodge_TA:DodgeTorque":                AttrLocation,
	"TAGame.Ball_TA:ReplicatedExplosionData":                  AttrExplosion,
	"TAGame.Ball_TA:ReplicatedExplosionDataExtended":          AttrExtendedExplosion,
	"TAGame.PRI_TA:ClientLoadoutCosmetics":                    AttrProducts,
	"TAGame.GameEvent_TA:MatchTypeClass":                      AttrActiveActor,
	"TAGame.GameEvent_TA:bMatchEnded":                         AttrBoolean,
	"TAGame.Car_TA:AttachedPickup":                            AttrActiveActor,
	"TAGame.WeldedInfoReplicator_TA:WeldedInfo":                AttrWeldedInfo,
	"TAGame.SpecialPickup_BallVelcro_TA:AttachTime":           AttrFloat,
	"TAGame.GameEvent_TA:GameTime":                            AttrFloat,
	"TAGame.PRI_TA:StatEvents":                                AttrStatEvent,
	"TAGame.GameEvent_TA:ReplicatedServerPerformanceState":    AttrByte,
	"TAGame.Vehicle_TA:ReplicatedEnum":                        AttrEnum,
	"TAGame.PRI_TA:ReplicatedWorldCollisionEffectsTrigger":    AttrStringInt64Pair,
	"TAGame.GameEvent_TA:ReplicatedRoundCountDownNumber":      AttrInt,
	"TAGame.GameEvent_TA:MatchSettings":                       AttrPrivateMatchSettings,
	"TAGame.PRI_TA:ReplicatedGameEvent":                       AttrActiveActor,
	"TAGame.PRI_TA:SpectatorShortcut":                         AttrInt,
	"TAGame.GRI_TA:Reservations":                              AttrReservation,
	"TAGame.PRI_TA:SecondaryTitle":                            AttrTitle,
	"TAGame.Car_TA:QuickChatBlocked":                          AttrQWord,
	"TAGame.PRI_TA:ClientLoadoutUpdate":                       AttrQWordString,
	"TAGame.Ball_TA:HitTeamNum":                                AttrByte,
	"TAGame.PRI_TA:PawnType":                                  AttrByte,
	"TAGame.PRI_TA:ReplicatedRaceRound":                       AttrInt64,
	"ProjectX.GameEvent_Soccar_TA:SubRulesArchetype":          AttrActiveActor,
}

// spawnTrajectoryByObject maps object name -> (hasInitialPosition,
// hasInitialRotation), defaulting to [false,false] for objects absent
// from the table.
var spawnTrajectoryByObject = map[string][2]bool{
	"Archetypes.Ball.Ball_Default":      {true, true},
	"Archetypes.Ball.Ball_BasketBall":   {true, true},
	"Archetypes.Ball.Ball_Puck":         {true, true},
	"Archetypes.Ball.CubeBall":          {true, true},
	"Archetypes.Ball.Ball_Basketball":   {true, true},
	"Archetypes.Car.Car_Default":        {true, true},
	"Archetypes.CarComponents.CarComponent_Boost": {false, false},
}

func lookupSpawnTrajectory(objectName string) (hasPos, hasRot bool) {
	v, ok := spawnTrajectoryByObject[objectName]
	if !ok {
		return false, false
	}
	return v[0], v[1]
}

// staticParentByObject is the static Object:Parent map consulted first by
// the parent-object resolver, before the substring fallback rules.
var staticParentByObject = map[string]string{}

// parentClassByClass is the static Class:ParentClass map consulted by the
// class-net-cache resolver to find an ancestor class's cache entry by
// class name rather than by raw parent_id.
var parentClassByClass = map[string]string{
	"TAGame.PRI_TA":                 "Engine.PlayerReplicationInfo",
	"TAGame.Car_TA":                 "TAGame.Vehicle_TA",
	"TAGame.Vehicle_TA":             "TAGame.RBActor_TA",
	"TAGame.Ball_TA":                "TAGame.RBActor_TA",
	"TAGame.RBActor_TA":             "TAGame.CarComponent_TA",
	"TAGame.CarComponent_Boost_TA":  "TAGame.CarComponent_TA",
	"TAGame.CarComponent_Dodge_TA":  "TAGame.CarComponent_TA",
	"TAGame.CarComponent_FlipCar_TA": "TAGame.CarComponent_TA",
	"TAGame.CarComponent_Jump_TA":   "TAGame.CarComponent_TA",
	"TAGame.GameEvent_Soccar_TA":    "TAGame.GameEvent_Team_TA",
	"TAGame.GameEvent_Team_TA":      "TAGame.GameEvent_TA",
	"TAGame.GRI_TA":                 "Engine.GameReplicationInfo",
}

// productAttributeKind and productAttributeObjectKind are the small closed
// set of object names the Product attribute decoder resolves against
// ("UserColor, Painted, SpecialEdition, TeamEdition, TitleID").
type productAttributeKind int

const (
	productUnknown productAttributeKind = iota
	productUserColor
	productPainted
	productSpecialEdition
	productTeamEdition
	productTitleID
)

var productAttributeObjectKind = map[string]productAttributeKind{
	"TAGame.ProductAttribute_UserColor_TA":       productUserColor,
	"TAGame.ProductAttribute_Painted_TA":         productPainted,
	"TAGame.ProductAttribute_SpecialEdition_TA":  productSpecialEdition,
	"TAGame.ProductAttribute_TeamEdition_TA":     productTeamEdition,
	"TAGame.ProductAttribute_TitleID_TA":         productTitleID,
}
