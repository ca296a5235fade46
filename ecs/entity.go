package ecs

// EntityId encodes an entity's archetype ID in its upper 32 bits and its
// slot index within that archetype in the lower 32 bits. An EntityId is only
// stable while the entity's component set is unchanged; AddComponent and
// RemoveComponent move the entity to a different archetype and return a new
// id. Hold an EntityRef when a handle must survive structural changes.
type EntityId uint64

// NewEntityId packs an archetype ID and slot index into an EntityId.
func NewEntityId(archetypeId uint32, index uint32) EntityId {
	return EntityId(uint64(archetypeId)<<32 | uint64(index))
}

// ArchetypeId extracts the archetype ID from the entity ID.
func (e EntityId) ArchetypeId() uint32 {
	return uint32(e >> 32)
}

// Index extracts the slot index from the entity ID.
func (e EntityId) Index() uint32 {
	return uint32(e & 0xFFFFFFFF)
}

// EntityRef is a stable reference to an entity. The storage updates the Id
// field in place when the entity migrates between archetypes, and zeroes it
// when the entity is deleted.
type EntityRef struct {
	Id        EntityId
	Archetype *Archetype
}
