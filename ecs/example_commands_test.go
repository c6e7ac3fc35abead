package ecs_test

import (
	"fmt"

	"github.com/plus3/obelisk/ecs"
)

type Lifetime struct {
	Remaining float64
}

type expiryProcessor struct {
	Entities ecs.Query[struct{ *Lifetime }]
}

func (p *expiryProcessor) Process(frame *ecs.UpdateFrame) error {
	for id, item := range p.Entities.Iter() {
		item.Lifetime.Remaining -= frame.DeltaTime
		if item.Lifetime.Remaining <= 0 {
			frame.Commands.Delete(id)
		}
	}
	return nil
}

// ExampleCommands queues deletions during a tick. The deletions are applied
// once every processor has run.
func ExampleCommands() {
	world := ecs.NewWorld()
	_ = world.AddProcessor(&expiryProcessor{}, ecs.PriorityDefault)

	world.CreateEntity(Lifetime{Remaining: 1})
	world.CreateEntity(Lifetime{Remaining: 3})

	for i := 0; i < 3; i++ {
		_ = world.Tick(1)
		fmt.Printf("after tick %d: %d entities\n", i+1, world.EntityCount())
	}

	// Output:
	// after tick 1: 1 entities
	// after tick 2: 1 entities
	// after tick 3: 0 entities
}
