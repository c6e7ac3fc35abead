package input

import (
	"github.com/plus3/obelisk/ecs"
)

// CleanupProcessor deletes every entity tagged with InputEvent.
type CleanupProcessor struct {
	Events ecs.Query[struct{ *InputEvent }]
}

func NewCleanupProcessor() *CleanupProcessor {
	return &CleanupProcessor{}
}

func (p *CleanupProcessor) Name() string {
	return "input-cleanup"
}

func (p *CleanupProcessor) Process(frame *ecs.UpdateFrame) error {
	for id := range p.Events.Iter() {
		frame.World.DeleteEntity(id)
	}
	return nil
}
