// Package input turns raw keyboard notifications into short-lived entities.
//
// CaptureProcessor buffers notifications from any goroutine and, once per
// tick, creates one entity per notification carrying the event component and
// the InputEvent marker. CleanupProcessor deletes every InputEvent entity at
// the end of the tick, so processors between the two see each event exactly
// once.
package input

// InputEvent marks an entity as a transient input event.
type InputEvent struct{}

// KeyDown is a key press notification.
type KeyDown struct {
	Key       string
	Scancode  int
	Codepoint string
	Modifier  []string
}

// KeyUp is a key release notification.
type KeyUp struct {
	Key      string
	Scancode int
}
