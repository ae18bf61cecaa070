// keytracker.go - edge detection for keyboard toggles in the swarm demo.
// Tracks any number of keys so each can fire once per press.
package keytracker

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// KeyStateTracker remembers which keys were held on the previous frame.
type KeyStateTracker struct {
	prevPressed map[ebiten.Key]bool
	pressed     func(ebiten.Key) bool
}

// New creates a tracker that polls ebiten for key state.
func New() *KeyStateTracker {
	return NewWithSource(ebiten.IsKeyPressed)
}

// NewWithSource creates a tracker that polls pressed instead of ebiten.
func NewWithSource(pressed func(ebiten.Key) bool) *KeyStateTracker {
	return &KeyStateTracker{
		prevPressed: make(map[ebiten.Key]bool),
		pressed:     pressed,
	}
}

// IsKeyJustPressed returns true if the key was not pressed last poll but is pressed now.
// Call it once per key per frame.
func (k *KeyStateTracker) IsKeyJustPressed(key ebiten.Key) bool {
	pressed := k.pressed(key)
	justPressed := pressed && !k.prevPressed[key]
	k.prevPressed[key] = pressed
	return justPressed
}
