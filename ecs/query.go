package ecs

import (
	"iter"
)

// Query is the processor-field form of a View. Fields of this type on a
// processor struct are initialised when the processor is added to a world.
//
//	type MoveProcessor struct {
//		Movers ecs.Query[struct {
//			*Position
//			*Velocity
//		}]
//	}
//
// Every call to Iter re-evaluates the match set against the current world.
type Query[T any] struct {
	view  *View[T]
	world *World
}

// NewQuery creates a Query bound to world.
func NewQuery[T any](world *World) *Query[T] {
	q := &Query[T]{}
	q.Init(world)
	return q
}

// Init initializes or re-initializes the Query with a world.
// Called by the pipeline when a processor is added.
func (q *Query[T]) Init(world *World) {
	q.view = NewView[T](world)
	q.world = world
}

func (q *Query[T]) mustView() *View[T] {
	if q.view == nil {
		panic("Query used before Init")
	}
	return q.view
}

// Iter returns an iterator over entity IDs and component data.
func (q *Query[T]) Iter() iter.Seq2[EntityId, T] {
	return q.mustView().Iter()
}

// Values returns an iterator over component data only.
func (q *Query[T]) Values() iter.Seq[T] {
	return q.mustView().Values()
}

// Get returns the view struct for one entity, or nil if it does not match.
func (q *Query[T]) Get(id EntityId) *T {
	return q.mustView().Get(id)
}

// Count returns the number of matching entities right now.
func (q *Query[T]) Count() int {
	n := 0
	for range q.mustView().Iter() {
		n++
	}
	return n
}
