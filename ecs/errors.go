package ecs

import "github.com/rotisserie/eris"

var (
	// ErrEntityNotAlive is returned when an operation targets an entity that was
	// never created or has already been deleted.
	ErrEntityNotAlive = eris.New("entity is not alive")
	// ErrInvalidComponent is returned for nil, map, chan, func or pointer-to-pointer components.
	ErrInvalidComponent = eris.New("invalid component")
	// ErrProcessorPanic wraps a panic recovered from a processor.
	ErrProcessorPanic = eris.New("processor panicked")
	// ErrPipelineRunning is returned when the pipeline is modified or re-entered during a tick.
	ErrPipelineRunning = eris.New("pipeline is running")
	ErrNilProcessor    = eris.New("processor is nil")
)
