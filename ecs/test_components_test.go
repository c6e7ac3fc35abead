package ecs_test

import "github.com/plus3/obelisk/ecs"

// Common test component types
type Position struct {
	X, Y float32
}

type Velocity struct {
	DX, DY float32
}

type Name struct {
	Value string
}

type Health struct {
	Current int
	Max     int
}

type PlayerController struct{}

// Custom primitive types for testing non-struct components
type Score int32
type Tag string
type Temperature float64

type Inventory struct {
	Items []string
}

type Link struct {
	Next *Position
}

func newTestWorld(opts ...ecs.Option) *ecs.World {
	world := ecs.NewWorld(opts...)
	ecs.RegisterComponent[Position](world)
	ecs.RegisterComponent[Velocity](world)
	ecs.RegisterComponent[Name](world)
	ecs.RegisterComponent[Health](world)
	ecs.RegisterComponent[PlayerController](world)
	ecs.RegisterComponent[Score](world)
	ecs.RegisterComponent[Tag](world)
	return world
}
