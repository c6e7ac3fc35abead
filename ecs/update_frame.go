package ecs

import "go.uber.org/zap"

// UpdateFrame is handed to every processor during a tick.
type UpdateFrame struct {
	DeltaTime float64
	Tick      uint64
	Commands  *Commands
	World     *World
	Logger    *zap.Logger
}

// FrameClock is a singleton maintained by the pipeline before each tick.
type FrameClock struct {
	Tick      uint64
	DeltaTime float64
	Elapsed   float64
}
