package render

import "sync"

// Canvas is the retained drawing surface the render processor targets.
// Implementations may diff successive frames instead of redrawing.
type Canvas interface {
	Clear()
	DrawRectangle(pos Position, size Size, source string)
}

// DrawCommand is one textured rectangle.
type DrawCommand struct {
	Position Position
	Size     Size
	Source   string
}

// DrawList is a Canvas that records the current frame's draw commands. It is
// safe to read from another goroutine while a tick is writing.
type DrawList struct {
	mu       sync.RWMutex
	commands []DrawCommand
	clears   int
}

func NewDrawList() *DrawList {
	return &DrawList{}
}

func (d *DrawList) Clear() {
	d.mu.Lock()
	d.commands = d.commands[:0]
	d.clears++
	d.mu.Unlock()
}

func (d *DrawList) DrawRectangle(pos Position, size Size, source string) {
	d.mu.Lock()
	d.commands = append(d.commands, DrawCommand{Position: pos, Size: size, Source: source})
	d.mu.Unlock()
}

// Commands returns a copy of the recorded commands.
func (d *DrawList) Commands() []DrawCommand {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]DrawCommand, len(d.commands))
	copy(out, d.commands)
	return out
}

func (d *DrawList) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.commands)
}

// Clears returns how many times Clear has been called.
func (d *DrawList) Clears() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.clears
}
