package replay

import "strings"

// parentSubstringRule is one row of the substring fallback table.
// "same" means the object is its own parent.
type parentSubstringRule struct {
	substring string
	parent    string // "" means "same as the object itself"
}

var parentSubstringRules = []parentSubstringRule{
	{"TheWorld:PersistentLevel.CrowdActor_TA", ""},
	{"TheWorld:PersistentLevel.VehiclePickup_Boost_TA", ""},
	{"TheWorld:PersistentLevel.CrowdManager_TA", ""},
	{"TheWorld:PersistentLevel.BreakOutActor_Platform_TA", ""},
	{"TheWorld:PersistentLevel.InMapScoreboard_TA", ""},
	{"TheWorld:PersistentLevel.HauntedBallTrapTrigger_TA", ""},
	{":GameReplicationInfoArchetype", "TAGame.GRI_TA"},
}

// parentResolver memoises parent-object lookups for one decode. It is
// owned by a Decoder instance, not a package global, so decoders stay
// free of shared mutable state across concurrent decodes.
type parentResolver struct {
	cache map[string]string
}

func newParentResolver() *parentResolver {
	return &parentResolver{cache: make(map[string]string)}
}

// resolve consults the static Object:Parent table first; on miss, it
// applies the substring rules in order, first match wins; if none
// match, the object has no resolvable parent.
func (pr *parentResolver) resolve(objectName string) (string, bool) {
	if v, ok := pr.cache[objectName]; ok {
		return v, true
	}
	if v, ok := staticParentByObject[objectName]; ok {
		pr.cache[objectName] = v
		return v, true
	}
	for _, rule := range parentSubstringRules {
		if strings.Contains(objectName, rule.substring) {
			parent := rule.parent
			if parent == "" {
				parent = objectName
			}
			pr.cache[objectName] = parent
			return parent, true
		}
	}
	return "", false
}
