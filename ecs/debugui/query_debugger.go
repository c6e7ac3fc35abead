package debugui

import (
	"fmt"
	"reflect"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/obelisk/ecs"
)

type QueryDebuggerCache struct {
	componentTypes []reflect.Type
	lastTypeCount  int
}

func NewQueryDebuggerComponent() QueryDebuggerComponent {
	return QueryDebuggerComponent{
		selected: make(map[reflect.Type]bool),
		cache: &QueryDebuggerCache{
			lastTypeCount: -1,
		},
		maxRows: 50,
	}
}

func (qd *QueryDebuggerComponent) Render(world *ecs.World) {
	if !imgui.BeginV("Query Debugger", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	qd.rebuildCacheIfNeeded(world)

	imgui.Text("Select Component Types:")
	imgui.Separator()

	if imgui.Button("Clear All") {
		qd.selected = make(map[reflect.Type]bool)
	}

	for _, compType := range qd.cache.componentTypes {
		selected := qd.selected[compType]
		if imgui.Checkbox(compType.String(), &selected) {
			if selected {
				qd.selected[compType] = true
			} else {
				delete(qd.selected, compType)
			}
		}
	}

	imgui.Separator()

	selectedTypes := qd.selectedTypes()
	if len(selectedTypes) == 0 {
		imgui.Text("No component types selected")
		imgui.End()
		return
	}

	total, sample := matchQuery(world, selectedTypes, qd.maxRows)
	imgui.Text(fmt.Sprintf("Matching Entities: %d", total))

	if imgui.TreeNodeStr("Matches") {
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("QueryMatchTable", 2, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("Entity ID")
			imgui.TableSetupColumn("Total Components")
			imgui.TableHeadersRow()

			for _, id := range sample {
				imgui.TableNextRow()

				imgui.TableSetColumnIndex(0)
				imgui.Text(id.String())

				imgui.TableSetColumnIndex(1)
				imgui.Text(fmt.Sprintf("%d", len(world.Components(id))))
			}

			imgui.EndTable()
		}
		if total > len(sample) {
			imgui.Text(fmt.Sprintf("... and %d more", total-len(sample)))
		}
		imgui.TreePop()
	}

	imgui.End()
}

func (qd *QueryDebuggerComponent) rebuildCacheIfNeeded(world *ecs.World) {
	types := world.Registry().Types()
	if qd.cache.lastTypeCount != len(types) {
		qd.cache.componentTypes = types
		qd.cache.lastTypeCount = len(types)
	}
}

// selectedTypes returns the checked types in registry order.
func (qd *QueryDebuggerComponent) selectedTypes() []reflect.Type {
	var types []reflect.Type
	for _, t := range qd.cache.componentTypes {
		if qd.selected[t] {
			types = append(types, t)
		}
	}
	return types
}

// matchQuery counts the entities holding every type and returns up to limit
// of their ids.
func matchQuery(world *ecs.World, types []reflect.Type, limit int) (int, []ecs.EntityId) {
	total := 0
	var sample []ecs.EntityId
	for id := range world.Query(types...) {
		total++
		if len(sample) < limit {
			sample = append(sample, id)
		}
	}
	return total, sample
}
