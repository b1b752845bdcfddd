package debugui

import (
	"github.com/plus3/seele/ecs"
)

type EntityBrowserComponent struct {
	cache              *EntityBrowserCache
	selectedEntityId   ecs.EntityID
	filterText         string
	filterArchetype    *uint32
	maxEntitiesPerPage int
	currentPage        int
}

type ComponentInspectorComponent struct {
	selectedEntityId ecs.EntityID
}

type ArchetypeViewerComponent struct {
	cache             *ArchetypeViewerCache
	selectedArchetype *uint32
	sortColumn        int
	sortAscending     bool
}

type PerformanceStatsComponent struct {
	historyFrames int
	frameHistory  []float32
	frameIndex    int

	// per-system average duration in ms, one ring per system sharing latencyIndex
	latency      map[string][]float32
	latencyIndex int
}

type QueryDebuggerComponent struct {
	selected map[ecs.ComponentID]bool
	cache    *QueryDebuggerCache
}
