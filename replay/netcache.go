package replay

// ClassEntry is one (class-name, object-index) pair from the replay
// footer's Classes list.
type ClassEntry struct {
	Name      string
	ObjectID  int32
}

// RawProperty is one (object_id, stream_id) pair from a raw class-net-cache
// entry's property list.
type RawProperty struct {
	ObjectID int32
	StreamID uint32
}

// RawClassNetCacheEntry is one footer ClassNetCache row: parent_id
// refers to the cache_id of another entry, resolved against the closest
// prior entry with a matching cache_id (cache_id need not be unique
// across the whole list).
type RawClassNetCacheEntry struct {
	ObjectID   int32
	ParentID   int32
	CacheID    int32
	Properties []RawProperty
}

// propertyEntry is one flattened, fully-resolved (stream_id, object_id,
// attribute_type) triple.
type propertyEntry struct {
	StreamID      uint32
	ObjectID      int32
	AttributeType AttributeType
}

// objectDispatch is the resolved per-object dispatch record: the
// flattened property list plus a dense stream_id -> propertyEntry index
// sized to max_stream_id, so the hot per-attribute-update lookup is O(1)
// rather than a linear scan.
type objectDispatch struct {
	Properties    []propertyEntry
	byStreamID    []*propertyEntry
	MaxStreamID   uint32
	StreamIDWidth uint
}

// lookup returns the propertyEntry for streamID, or ErrDispatchStreamIDOutOfRange
// semantics (nil, false) if streamID is not present in this object's
// flattened property list.
func (d *objectDispatch) lookup(streamID uint32) (*propertyEntry, bool) {
	if streamID >= uint32(len(d.byStreamID)) {
		return nil, false
	}
	p := d.byStreamID[streamID]
	if p == nil {
		return nil, false
	}
	return p, true
}

// DispatchTable maps an ObjectID to its resolved dispatch record.
type DispatchTable map[int32]*objectDispatch

type resolvedEntry struct {
	ObjectID   int32
	CacheID    int32
	ParentID   int32
	Properties []propertyEntry
}

// ResolveClassNetCache resolves the footer's raw class-net-cache entries
// into a per-object dispatch table: a single pass over the
// raw entries builds an ordered arena of resolved entries, each
// inheriting its ancestor's flattened properties via one of two reverse
// scans (by resolved ParentClass object id, or by closest-prior cache_id
// match), then a dense per-entry stream_id index is precomputed.
//
// The resolver never fails: missing parents simply leave an
// entry un-inherited, matching a raw footer whose inheritance chain is
// incomplete.
func ResolveClassNetCache(objects []string, classes []ClassEntry, raw []RawClassNetCacheEntry) DispatchTable {
	classNameByObjectID := make(map[int32]string, len(classes))
	objectIDByClassName := make(map[string]int32, len(classes))
	for _, c := range classes {
		classNameByObjectID[c.ObjectID] = c.Name
		objectIDByClassName[c.Name] = c.ObjectID
	}

	arena := make([]resolvedEntry, 0, len(raw))

	for _, rawEntry := range raw {
		own := make([]propertyEntry, len(rawEntry.Properties))
		for i, p := range rawEntry.Properties {
			own[i] = propertyEntry{
				StreamID:      p.StreamID,
				ObjectID:      p.ObjectID,
				AttributeType: resolveAttributeType(objects, p.ObjectID),
			}
		}

		var inherited []propertyEntry
		className, hasClassName := classNameByObjectID[rawEntry.ObjectID]

		if hasClassName {
			if parentClassName, ok := parentClassByClass[className]; ok {
				if parentObjectID, ok := objectIDByClassName[parentClassName]; ok {
					for i := len(arena) - 1; i >= 0; i-- {
						if arena[i].ObjectID == parentObjectID {
							inherited = arena[i].Properties
							break
						}
					}
				}
			}
		}

		if inherited == nil {
			for i := len(arena) - 1; i >= 0; i-- {
				if arena[i].CacheID == rawEntry.ParentID {
					inherited = arena[i].Properties
					break
				}
			}
		}

		var flattened []propertyEntry
		if inherited != nil {
			// Cap capacity to length before appending so the subsequent
			// append can never write into -- and corrupt -- a sibling
			// entry's backing array that happens to share inherited's
			// storage.
			base := inherited[:len(inherited):len(inherited)]
			flattened = append(base, own...)
		} else {
			flattened = own
		}

		arena = append(arena, resolvedEntry{
			ObjectID:   rawEntry.ObjectID,
			CacheID:    rawEntry.CacheID,
			ParentID:   rawEntry.ParentID,
			Properties: flattened,
		})
	}

	table := make(DispatchTable, len(arena))
	for i := range arena {
		table[arena[i].ObjectID] = buildObjectDispatch(arena[i].Properties)
	}
	return table
}

func buildObjectDispatch(properties []propertyEntry) *objectDispatch {
	maxStreamID := uint32(3)
	if len(properties) > 0 {
		var maxSeen uint32
		for _, p := range properties {
			if p.StreamID > maxSeen {
				maxSeen = p.StreamID
			}
		}
		maxStreamID = maxSeen + 1
	}

	byStreamID := make([]*propertyEntry, maxStreamID)
	props := make([]propertyEntry, len(properties))
	copy(props, properties)
	for i := range props {
		sid := props[i].StreamID
		if sid < maxStreamID {
			byStreamID[sid] = &props[i]
		}
	}

	return &objectDispatch{
		Properties:    props,
		byStreamID:    byStreamID,
		MaxStreamID:   maxStreamID,
		StreamIDWidth: bitLength(uint64(maxStreamID)) - 1,
	}
}

// resolveAttributeType looks up an object's AttributeType by resolving
// its name from the Objects table first, falling back to AttrUnknown when
// the index is out of range or the name is not in the static table; the
// caller (the frame state machine) is responsible for surfacing
// UnknownAttributeType only when an actor actually updated in the stream
// resolves to AttrUnknown
func resolveAttributeType(objects []string, objectID int32) AttributeType {
	if objectID < 0 || int(objectID) >= len(objects) {
		return AttrUnknown
	}
	return attributeTypeByObject[objects[objectID]]
}
