package ecs

import "go.uber.org/zap"

// Option configures a World.
type Option func(*World)

// WithLogger sets the logger used by the world and handed to processors.
func WithLogger(logger *zap.Logger) Option {
	return func(w *World) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithTickObserver registers an observer notified after each processor and tick.
func WithTickObserver(observer TickObserver) Option {
	return func(w *World) {
		if observer != nil {
			w.scheduler.observers = append(w.scheduler.observers, observer)
		}
	}
}

// WithFaultHandler replaces the handler Run consults when a tick fails.
func WithFaultHandler(handler FaultHandler) Option {
	return func(w *World) {
		if handler != nil {
			w.scheduler.faultHandler = handler
		}
	}
}
