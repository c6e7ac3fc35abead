package debugui

import "github.com/plus3/obelisk/ecs"

// SpawnDebugUI creates the debug windows as entities and the ImguiInputState
// singleton. historyFrames sizes the frame time graph.
func SpawnDebugUI(world *ecs.World, historyFrames int) {
	world.AddSingleton(ImguiInputState{})

	browser := spawnWindow(world, NewEntityBrowserComponent(100), func(eb *EntityBrowserComponent) {
		eb.Render(world)
	})
	spawnWindow(world, NewComponentInspectorComponent(), func(ci *ComponentInspectorComponent) {
		var selected ecs.EntityId
		if eb := ecs.Get[EntityBrowserComponent](world, browser); eb != nil {
			selected = eb.GetSelectedEntity()
		}
		ci.Render(world, selected)
	})
	spawnWindow(world, NewPerformanceStatsComponent(historyFrames), func(ps *PerformanceStatsComponent) {
		ps.Render(world)
	})
	spawnWindow(world, NewQueryDebuggerComponent(), func(qd *QueryDebuggerComponent) {
		qd.Render(world)
	})
}

// spawnWindow stores window state as a component and attaches an ImguiItem
// that renders the stored copy.
func spawnWindow[T any](world *ecs.World, window T, render func(*T)) ecs.EntityId {
	var id ecs.EntityId
	id = world.CreateEntity(window, ImguiItem{
		Render: func() {
			if w := ecs.Get[T](world, id); w != nil {
				render(w)
			}
		},
	})
	return id
}

func RegisterDebugUIComponents(world *ecs.World) {
	ecs.RegisterComponent[ImguiItem](world)
	ecs.RegisterComponent[EntityBrowserComponent](world)
	ecs.RegisterComponent[ComponentInspectorComponent](world)
	ecs.RegisterComponent[PerformanceStatsComponent](world)
	ecs.RegisterComponent[QueryDebuggerComponent](world)
}
