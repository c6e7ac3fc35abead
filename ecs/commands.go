package ecs

import (
	"fmt"
	"reflect"

	"github.com/rotisserie/eris"
)

// Commands buffers structural changes requested during a tick. They are
// applied after every processor has run successfully, and dropped if the tick
// fails.
type Commands struct {
	spawns  []spawnCommand
	deletes []EntityId
	adds    []addComponentCommand
	removes []removeComponentCommand
	defers  []deferCommand
}

func newCommands() *Commands {
	return &Commands{}
}

type deferCommand struct {
	fn func()
}

type spawnCommand struct {
	components []any
}

type addComponentCommand struct {
	entity    EntityId
	component any
}

type removeComponentCommand struct {
	entity   EntityId
	compType reflect.Type
}

// Defer queues a function to run after the other commands are applied.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, deferCommand{fn: fn})
}

// Spawn queues creation of an entity with the given components.
func (c *Commands) Spawn(components ...any) {
	c.spawns = append(c.spawns, spawnCommand{components: components})
}

// Delete queues an entity deletion.
func (c *Commands) Delete(entity EntityId) {
	c.deletes = append(c.deletes, entity)
}

// AddComponent queues a component addition.
func (c *Commands) AddComponent(entity EntityId, component any) {
	c.adds = append(c.adds, addComponentCommand{
		entity:    entity,
		component: component,
	})
}

// RemoveComponent queues a component removal.
func (c *Commands) RemoveComponent(entity EntityId, compType reflect.Type) {
	c.removes = append(c.removes, removeComponentCommand{
		entity:   entity,
		compType: compType,
	})
}

// Len returns the number of queued commands.
func (c *Commands) Len() int {
	return len(c.spawns) + len(c.deletes) + len(c.adds) + len(c.removes) + len(c.defers)
}

// Flush applies all queued commands to the world in the order deletes,
// removes, adds, spawns, defers, then resets the buffer. Adds and removes
// targeting entities that no longer exist are skipped. The first invalid
// component is reported after the rest of the buffer has been applied. A
// panicking deferred function is reported as ErrProcessorPanic; the buffer is
// reset either way.
func (c *Commands) Flush(w *World) error {
	defer c.reset()
	var firstErr error

	for _, cmd := range c.deletes {
		w.DeleteEntity(cmd)
	}

	for _, cmd := range c.removes {
		w.RemoveComponent(cmd.entity, cmd.compType)
	}

	for _, cmd := range c.adds {
		if !w.EntityExists(cmd.entity) {
			continue
		}
		if err := w.AddComponent(cmd.entity, cmd.component); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	for _, cmd := range c.spawns {
		id := w.CreateEntity()
		for _, component := range cmd.components {
			if err := w.AddComponent(id, component); err != nil && firstErr == nil {
				firstErr = eris.Wrapf(err, "spawn %s", id)
			}
		}
	}

	for _, df := range c.defers {
		if err := runDeferred(df.fn); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

func runDeferred(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = eris.Wrap(ErrProcessorPanic, fmt.Sprintf("deferred command: %v", r))
		}
	}()
	fn()
	return nil
}

func (c *Commands) reset() {
	c.spawns = c.spawns[:0]
	c.deletes = c.deletes[:0]
	c.adds = c.adds[:0]
	c.removes = c.removes[:0]
	c.defers = c.defers[:0]
}
