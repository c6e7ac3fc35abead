package ecs

import "reflect"

// Pipeline priorities. Lower values run earlier in a tick.
const (
	PriorityFirst   = -1_000_000
	PriorityDefault = 0
	PriorityLast    = 1_000_000
)

// Processor is a unit of per-tick logic. Returning an error aborts the tick.
//
// Exported fields of type Query[...] and Singleton[...] on a processor struct
// are initialised against the world when the processor is added.
type Processor interface {
	Process(frame *UpdateFrame) error
}

// ProcessorFunc adapts a plain function to the Processor interface.
type ProcessorFunc func(frame *UpdateFrame) error

func (f ProcessorFunc) Process(frame *UpdateFrame) error {
	return f(frame)
}

type namedProcessor struct {
	name string
	fn   ProcessorFunc
}

func (p *namedProcessor) Name() string { return p.name }

func (p *namedProcessor) Process(frame *UpdateFrame) error {
	return p.fn(frame)
}

// NamedProcessor wraps fn in a Processor reporting the given name.
func NamedProcessor(name string, fn ProcessorFunc) Processor {
	return &namedProcessor{name: name, fn: fn}
}

// ProcessorInfo describes one pipeline entry.
type ProcessorInfo struct {
	Name     string
	Priority int
	Order    int
}

// processorName returns p.Name() when available, otherwise the type name.
func processorName(p Processor) string {
	if named, ok := p.(interface{ Name() string }); ok {
		return named.Name()
	}

	t := reflect.TypeOf(p)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Name() == "" {
		return t.String()
	}
	return t.Name()
}

func isNilProcessor(p Processor) bool {
	if p == nil {
		return true
	}
	v := reflect.ValueOf(p)
	switch v.Kind() {
	case reflect.Ptr, reflect.Func, reflect.Map, reflect.Slice, reflect.Interface, reflect.Chan:
		return v.IsNil()
	}
	return false
}
