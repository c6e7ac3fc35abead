package debugui

import (
	"reflect"

	"github.com/plus3/obelisk/ecs"
)

type EntityBrowserComponent struct {
	cache              *EntityBrowserCache
	selectedEntityId   ecs.EntityId
	filterText         string
	maxEntitiesPerPage int
	currentPage        int
}

type ComponentInspectorComponent struct {
	selectedEntityId ecs.EntityId
}

type PerformanceStatsComponent struct {
	historyFrames int
	frameHistory  []float32
	frameIndex    int
	samples       int
}

type QueryDebuggerComponent struct {
	selected map[reflect.Type]bool
	cache    *QueryDebuggerCache
	maxRows  int
}
