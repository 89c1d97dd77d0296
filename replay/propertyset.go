package replay

import (
	"fmt"

	"github.com/octane-rl/rlreplay/bitio"
	"github.com/octane-rl/rlreplay/wire"
)

// PropertyType is the closed set of type tags a Property's String8 type
// field can carry.
type PropertyType string

const (
	PropertyInt   PropertyType = "IntProperty"
	PropertyStr   PropertyType = "StrProperty"
	PropertyName  PropertyType = "NameProperty"
	PropertyFloat PropertyType = "FloatProperty"
	PropertyArray PropertyType = "ArrayProperty"
	PropertyByte  PropertyType = "ByteProperty"
	PropertyQWord PropertyType = "QWordProperty"
	PropertyBool  PropertyType = "BoolProperty"
)

// Property is one decoded entry of a PropertySet. Exactly one of the
// value fields is meaningful, selected by Type.
type Property struct {
	Name string
	Type PropertyType

	Int       int32
	Str       string
	Float     float32
	Array     []PropertySet
	ByteKey   string
	ByteValue string // empty when ByteKey is OnlinePlatform_Steam or OnlinePlatform_PS4
	QWord     uint64
	Bool      bool
}

// PropertySet is a decoded run of Property entries keyed by name, as read
// by DecodePropertySet.
type PropertySet map[string]Property

// DecodeProperty reads one Property: a name, and — unless the name is
// literally "None", the terminator — a type tag, an 8-byte filler, and a
// value shaped by the type tag.
func DecodeProperty(r *bitio.Reader) (Property, error) {
	name, err := wire.String8(r)
	if err != nil {
		return Property{}, fmt.Errorf("replay: DecodeProperty: name: %w", err)
	}
	if name == "None" {
		return Property{Name: name}, nil
	}

	typeTag, err := wire.String8(r)
	if err != nil {
		return Property{}, fmt.Errorf("replay: DecodeProperty: type: %w", err)
	}
	if _, err := r.ReadU64(); err != nil {
		return Property{}, fmt.Errorf("replay: DecodeProperty: filler: %w", err)
	}

	p := Property{Name: name, Type: PropertyType(typeTag)}
	switch p.Type {
	case PropertyInt:
		p.Int, err = r.ReadI32()
	case PropertyStr, PropertyName:
		p.Str, err = wire.String16(r)
	case PropertyFloat:
		p.Float, err = r.ReadF32()
	case PropertyArray:
		p.Array, err = wire.DecodeList(r, 32, DecodePropertySet)
	case PropertyByte:
		p.ByteKey, err = wire.String8(r)
		if err == nil && p.ByteKey != "OnlinePlatform_Steam" && p.ByteKey != "OnlinePlatform_PS4" {
			p.ByteValue, err = wire.String8(r)
		}
	case PropertyQWord:
		p.QWord, err = r.ReadU64()
	case PropertyBool:
		p.Bool, err = r.ReadBool()
	default:
		return Property{}, fmt.Errorf("replay: DecodeProperty: unknown type tag %q", typeTag)
	}
	if err != nil {
		return Property{}, fmt.Errorf("replay: DecodeProperty: %s %s: %w", name, typeTag, err)
	}
	return p, nil
}

// DecodePropertySet reads Property entries until one named "None", which
// terminates the set without being added to it.
func DecodePropertySet(r *bitio.Reader) (PropertySet, error) {
	set := make(PropertySet)
	for {
		p, err := DecodeProperty(r)
		if err != nil {
			return nil, err
		}
		if p.Name == "None" {
			return set, nil
		}
		set[p.Name] = p
	}
}

func propInt(set PropertySet, name string) (int32, bool) {
	p, ok := set[name]
	if !ok || p.Type != PropertyInt {
		return 0, false
	}
	return p.Int, true
}

func propStr(set PropertySet, name string) (string, bool) {
	p, ok := set[name]
	if !ok || (p.Type != PropertyStr && p.Type != PropertyName) {
		return "", false
	}
	return p.Str, true
}
