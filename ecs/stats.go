package ecs

import (
	"reflect"
	"sort"
)

// StorageStats is a point-in-time snapshot of storage contents, intended for
// diagnostics and inspection tooling.
type StorageStats struct {
	ArchetypeCount     int
	TotalEntityCount   int
	SingletonCount     int
	ArchetypeBreakdown []ArchetypeStats
	SingletonTypes     []string
}

// ArchetypeStats describes one archetype within a StorageStats snapshot.
type ArchetypeStats struct {
	ID             uint32
	ComponentTypes []reflect.Type
	EntityCount    int
}

// GetArchetypes returns all archetypes, sorted by id for deterministic
// iteration.
func (s *Storage) GetArchetypes() []*Archetype {
	archetypes := make([]*Archetype, 0, len(s.archetypes))
	for _, a := range s.archetypes {
		archetypes = append(archetypes, a)
	}
	sort.Slice(archetypes, func(i, j int) bool {
		return archetypes[i].id < archetypes[j].id
	})
	return archetypes
}

// GetArchetypeById returns the archetype with the given id, or nil.
func (s *Storage) GetArchetypeById(id uint32) *Archetype {
	return s.archetypes[id]
}

// CollectStats walks all archetypes and singletons and returns a snapshot of
// their counts. Cost is linear in the number of live entities.
func (s *Storage) CollectStats() *StorageStats {
	stats := &StorageStats{
		ArchetypeCount: len(s.archetypes),
		SingletonCount: len(s.singletons),
	}

	for _, archetype := range s.GetArchetypes() {
		entityCount := 0
		for range archetype.Iter() {
			entityCount++
		}
		stats.TotalEntityCount += entityCount
		stats.ArchetypeBreakdown = append(stats.ArchetypeBreakdown, ArchetypeStats{
			ID:             archetype.id,
			ComponentTypes: archetype.types,
			EntityCount:    entityCount,
		})
	}

	for t := range s.singletons {
		stats.SingletonTypes = append(stats.SingletonTypes, t.String())
	}
	sort.Strings(stats.SingletonTypes)

	return stats
}
