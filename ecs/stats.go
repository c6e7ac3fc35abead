package ecs

import (
	"sort"
)

// WorldStats is a point-in-time summary of a world's contents.
type WorldStats struct {
	EntityCount        int
	ComponentTypeCount int
	SingletonCount     int
	ComponentBreakdown []ComponentStats
	SingletonTypes     []string
}

// ComponentStats describes one component store.
type ComponentStats struct {
	TypeName string
	Count    int
}

// CollectStats gathers entity, component and singleton counts.
// Component stores are listed largest first, singleton types by name.
func (w *World) CollectStats() WorldStats {
	stats := WorldStats{
		EntityCount:        w.pool.count(),
		ComponentTypeCount: len(w.registry.all()),
		SingletonCount:     len(w.singletons),
	}

	for _, storage := range w.registry.all() {
		stats.ComponentBreakdown = append(stats.ComponentBreakdown, ComponentStats{
			TypeName: storage.Type().String(),
			Count:    storage.Len(),
		})
	}
	sort.SliceStable(stats.ComponentBreakdown, func(i, j int) bool {
		return stats.ComponentBreakdown[i].Count > stats.ComponentBreakdown[j].Count
	})

	for t := range w.singletons {
		stats.SingletonTypes = append(stats.SingletonTypes, t.String())
	}
	sort.Strings(stats.SingletonTypes)

	return stats
}
