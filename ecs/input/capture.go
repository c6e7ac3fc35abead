package input

import (
	"slices"
	"sync"

	"github.com/plus3/obelisk/ecs"
	"go.uber.org/zap"
)

// Pipeline priorities for the input processors.
const (
	CapturePriority = ecs.PriorityFirst
	CleanupPriority = ecs.PriorityLast
)

// CaptureProcessor buffers key notifications and turns them into entities at
// the start of each tick. OnKeyDown and OnKeyUp may be called from any
// goroutine.
type CaptureProcessor struct {
	mu      sync.Mutex
	pending []any
}

// NewCaptureProcessor creates an empty capture processor.
func NewCaptureProcessor() *CaptureProcessor {
	return &CaptureProcessor{}
}

func (p *CaptureProcessor) Name() string {
	return "input-capture"
}

// OnKeyDown records a key press. The modifier slice is copied.
func (p *CaptureProcessor) OnKeyDown(key string, scancode int, codepoint string, modifier []string) {
	event := KeyDown{
		Key:       key,
		Scancode:  scancode,
		Codepoint: codepoint,
		Modifier:  slices.Clone(modifier),
	}

	p.mu.Lock()
	p.pending = append(p.pending, event)
	p.mu.Unlock()
}

// OnKeyUp records a key release.
func (p *CaptureProcessor) OnKeyUp(key string, scancode int) {
	event := KeyUp{
		Key:      key,
		Scancode: scancode,
	}

	p.mu.Lock()
	p.pending = append(p.pending, event)
	p.mu.Unlock()
}

// Pending returns the number of buffered notifications.
func (p *CaptureProcessor) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pending)
}

// drain swaps the buffer out under the lock. Notifications that arrive after
// the swap land in the fresh buffer.
func (p *CaptureProcessor) drain() []any {
	p.mu.Lock()
	defer p.mu.Unlock()
	events := p.pending
	p.pending = nil
	return events
}

// Process creates one entity per buffered notification, in arrival order.
func (p *CaptureProcessor) Process(frame *ecs.UpdateFrame) error {
	events := p.drain()
	for _, event := range events {
		frame.World.CreateEntity(event, InputEvent{})
	}

	if len(events) > 0 && frame.Logger != nil {
		frame.Logger.Debug("captured input", zap.Int("events", len(events)))
	}
	return nil
}
