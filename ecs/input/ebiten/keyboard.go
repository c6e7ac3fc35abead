// Package ebiten feeds Ebitengine keyboard state into an input capture
// processor.
package ebiten

import (
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// KeyHandler receives key notifications. input.CaptureProcessor implements it.
type KeyHandler interface {
	OnKeyDown(key string, scancode int, codepoint string, modifier []string)
	OnKeyUp(key string, scancode int)
}

var keyNames = map[ebiten.Key]string{
	ebiten.KeyArrowLeft:    "left",
	ebiten.KeyArrowRight:   "right",
	ebiten.KeyArrowUp:      "up",
	ebiten.KeyArrowDown:    "down",
	ebiten.KeySpace:        "spacebar",
	ebiten.KeyEnter:        "enter",
	ebiten.KeyEscape:       "escape",
	ebiten.KeyBackspace:    "backspace",
	ebiten.KeyShiftLeft:    "shift",
	ebiten.KeyShiftRight:   "rshift",
	ebiten.KeyControlLeft:  "lctrl",
	ebiten.KeyControlRight: "rctrl",
	ebiten.KeyAltLeft:      "alt",
	ebiten.KeyAltRight:     "alt-gr",
	ebiten.KeyMetaLeft:     "meta",
	ebiten.KeyMetaRight:    "rmeta",
}

// KeyName returns the lower-case name used for KeyDown.Key and KeyUp.Key.
func KeyName(k ebiten.Key) string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	name := strings.ToLower(k.String())
	return strings.TrimPrefix(name, "digit")
}

// Modifiers lists the held modifier keys in a fixed order.
func Modifiers(pressed func(ebiten.Key) bool) []string {
	var mods []string
	if pressed(ebiten.KeyShift) {
		mods = append(mods, "shift")
	}
	if pressed(ebiten.KeyControl) {
		mods = append(mods, "ctrl")
	}
	if pressed(ebiten.KeyAlt) {
		mods = append(mods, "alt")
	}
	if pressed(ebiten.KeyMeta) {
		mods = append(mods, "meta")
	}
	return mods
}

// KeyboardSource polls Ebitengine once per update and reports key edges.
type KeyboardSource struct {
	pressed  []ebiten.Key
	released []ebiten.Key
}

func NewKeyboardSource() *KeyboardSource {
	return &KeyboardSource{}
}

// Poll reports every key pressed or released since the previous update.
// Must be called from the game's Update.
func (s *KeyboardSource) Poll(h KeyHandler) {
	s.pressed = inpututil.AppendJustPressedKeys(s.pressed[:0])
	s.released = inpututil.AppendJustReleasedKeys(s.released[:0])
	dispatch(h, s.pressed, s.released, Modifiers(ebiten.IsKeyPressed), ebiten.KeyName)
}

func dispatch(h KeyHandler, pressed, released []ebiten.Key, mods []string, codepoint func(ebiten.Key) string) {
	for _, k := range pressed {
		h.OnKeyDown(KeyName(k), int(k), codepoint(k), mods)
	}
	for _, k := range released {
		h.OnKeyUp(KeyName(k), int(k))
	}
}
