package ecs

import "time"

// WorldStats summarizes a world's storage and system execution.
type WorldStats struct {
	ArchetypeCount     int
	TotalEntityCount   int
	QueryCount         int
	SystemCount        int
	TotalExecutions    int64
	ArchetypeBreakdown []ArchetypeStats
	Systems            []SystemStats
}

// ArchetypeStats describes one archetype.
type ArchetypeStats struct {
	ID          string
	Index       uint32
	Components  []ComponentID
	EntityCount int
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	Name           string
	Kind           SystemKind
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type systemStats struct {
	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

func (s *systemStats) record(duration time.Duration) {
	s.executionCount++
	s.lastDuration = duration
	s.totalDuration += duration

	if duration < s.minDuration {
		s.minDuration = duration
	}
	if duration > s.maxDuration {
		s.maxDuration = duration
	}
}

// Stats returns the system's execution statistics.
func (s *System) Stats() SystemStats {
	internal := s.stats

	avgDuration := time.Duration(0)
	minDuration := time.Duration(0)
	if internal.executionCount > 0 {
		avgDuration = internal.totalDuration / time.Duration(internal.executionCount)
		minDuration = internal.minDuration
	}

	return SystemStats{
		Name:           s.name,
		Kind:           s.kind,
		ExecutionCount: internal.executionCount,
		MinDuration:    minDuration,
		MaxDuration:    internal.maxDuration,
		AvgDuration:    avgDuration,
		LastDuration:   internal.lastDuration,
		TotalDuration:  internal.totalDuration,
	}
}

// Stats collects storage and scheduler statistics.
func (w *World) Stats() *WorldStats {
	stats := &WorldStats{
		ArchetypeCount: w.graph.Len(),
		QueryCount:     len(w.queries.Queries()),
		SystemCount:    len(w.systems),
		Systems:        make([]SystemStats, len(w.systems)),
	}

	w.graph.Traverse(func(a *Archetype) {
		stats.TotalEntityCount += a.Len()
		stats.ArchetypeBreakdown = append(stats.ArchetypeBreakdown, ArchetypeStats{
			ID:          a.ID(),
			Index:       a.Index(),
			Components:  a.Components(),
			EntityCount: a.Len(),
		})
	})

	for i, system := range w.systems {
		stats.Systems[i] = system.Stats()
		stats.TotalExecutions += stats.Systems[i].ExecutionCount
	}

	return stats
}
