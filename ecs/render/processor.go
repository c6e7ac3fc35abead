package render

import (
	"github.com/plus3/obelisk/ecs"
)

// Priority runs the render processor after default processors and before
// input cleanup.
const Priority = 900_000

// Processor clears its canvas and redraws every renderable entity each tick.
type Processor struct {
	Renderables ecs.Query[struct {
		*Position
		*Size
		*Image
	}]

	canvas Canvas
}

func NewProcessor(canvas Canvas) *Processor {
	return &Processor{canvas: canvas}
}

func (p *Processor) Name() string {
	return "render"
}

// Canvas returns the canvas this processor draws on.
func (p *Processor) Canvas() Canvas {
	return p.canvas
}

func (p *Processor) Process(*ecs.UpdateFrame) error {
	p.canvas.Clear()
	for item := range p.Renderables.Values() {
		p.canvas.DrawRectangle(*item.Position, *item.Size, item.Image.Source)
	}
	return nil
}
