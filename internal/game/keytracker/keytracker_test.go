package keytracker

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestIsKeyJustPressed(t *testing.T) {
	held := map[ebiten.Key]bool{}
	k := NewWithSource(func(key ebiten.Key) bool { return held[key] })

	if k.IsKeyJustPressed(ebiten.KeySpace) {
		t.Fatal("released key reported as pressed")
	}

	held[ebiten.KeySpace] = true
	if !k.IsKeyJustPressed(ebiten.KeySpace) {
		t.Fatal("expected press edge")
	}
	if k.IsKeyJustPressed(ebiten.KeySpace) {
		t.Fatal("held key fired twice")
	}

	// keys are tracked independently
	held[ebiten.KeyP] = true
	if !k.IsKeyJustPressed(ebiten.KeyP) {
		t.Fatal("expected press edge for P")
	}

	held[ebiten.KeySpace] = false
	k.IsKeyJustPressed(ebiten.KeySpace)
	held[ebiten.KeySpace] = true
	if !k.IsKeyJustPressed(ebiten.KeySpace) {
		t.Fatal("expected second press edge after release")
	}
}
