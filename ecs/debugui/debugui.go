// Package debugui provides immediate-mode GUI integration for ECS applications using Dear ImGui.
// Windows are ordinary entities carrying an ImguiItem; the overlay processor
// queues their render functions to run after the tick's processors.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/obelisk/ecs"
)

// OverlayPriority places the overlay after rendering and before input cleanup.
const OverlayPriority = 950_000

// ImguiItem is a component that holds a Dear ImGui render function.
// Attach this to entities that should render ImGui widgets each frame.
type ImguiItem struct {
	Render func()
}

// ImguiInputState tracks Dear ImGui's input capture state as a singleton component.
// Use this to determine if ImGui is consuming mouse or keyboard input.
type ImguiInputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// OverlayProcessor queries all ImguiItem components and defers their render functions.
// It also updates the ImguiInputState singleton with current input capture state.
type OverlayProcessor struct {
	Items      ecs.Query[struct{ *ImguiItem }]
	InputState ecs.Singleton[ImguiInputState]

	readIO func() ImguiInputState
}

func NewOverlayProcessor() *OverlayProcessor {
	return &OverlayProcessor{readIO: currentIO}
}

func (p *OverlayProcessor) Name() string {
	return "debugui-overlay"
}

func (p *OverlayProcessor) Process(frame *ecs.UpdateFrame) error {
	if state := p.InputState.Get(); state != nil && p.readIO != nil {
		*state = p.readIO()
	}

	for item := range p.Items.Values() {
		if item.Render != nil {
			frame.Commands.Defer(item.Render)
		}
	}
	return nil
}

func currentIO() ImguiInputState {
	io := imgui.CurrentIO()
	return ImguiInputState{
		WantCaptureMouse:    io.WantCaptureMouse(),
		WantCaptureKeyboard: io.WantCaptureKeyboard(),
	}
}
