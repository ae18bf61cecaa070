package game

import (
	"errors"

	"entityjobs/internal/threading/core"

	"github.com/hajimehoshi/ebiten/v2"
)

const populationStep = 500

// GameLoop manages the main game update and render cycle
type GameLoop struct {
	game *SwarmGame
	hud  *HUD
}

// NewGameLoop creates a new game loop manager
func NewGameLoop(game *SwarmGame) *GameLoop {
	return &GameLoop{
		game: game,
		hud:  NewHUD(game),
	}
}

// Update handles all game logic updates for one frame
func (gl *GameLoop) Update() error {
	frameTimer := gl.game.threading.CycleMonitor.StartFrame()
	defer frameTimer.EndFrame()

	if err := gl.handleInput(); err != nil {
		return err
	}

	if !gl.game.paused {
		gl.updateEntities()
		gl.replenish()
	}

	gl.maybeLogPerfDrop()
	return nil
}

// handleInput processes the demo's keyboard toggles
func (gl *GameLoop) handleInput() error {
	g := gl.game
	if g.keys.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if g.keys.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if g.keys.IsKeyJustPressed(ebiten.KeyH) {
		g.showHUD = !g.showHUD
	}
	if g.keys.IsKeyJustPressed(ebiten.KeyP) {
		g.perfDebugEnabled = !g.perfDebugEnabled
		g.logger.Info("perf debug toggled", "enabled", g.perfDebugEnabled)
	}
	if g.keys.IsKeyJustPressed(ebiten.KeyUp) {
		g.population += populationStep
	}
	if g.keys.IsKeyJustPressed(ebiten.KeyDown) {
		g.population = max(0, g.population-populationStep)
		gl.trim()
	}
	return nil
}

// updateEntities runs one full scheduler cycle. Failures are logged and
// shown on the HUD; the loop keeps running.
func (gl *GameLoop) updateEntities() {
	g := gl.game
	removed, err := g.threading.EntityUpdater.Update()
	g.despawns += uint64(removed)
	if err != nil {
		g.lastErr = err
		g.logger.Error("entity cycle failed", "error", err)
		if errors.Is(err, core.ErrSchedulerClosed) {
			g.paused = true
		}
	}
}

// replenish spawns entities until the target population is reached
func (gl *GameLoop) replenish() {
	g := gl.game
	if missing := g.population - g.world.Count(); missing > 0 {
		g.world.Populate(g.rng, missing, g.config.Demo.MaxSpeed, g.config.Demo.Lifetime)
	}
}

// trim despawns the newest entities above the target population
func (gl *GameLoop) trim() {
	w := gl.game.world
	items := w.Items()
	for i := len(items) - 1; i >= 0 && w.Count() > gl.game.population; i-- {
		w.Despawn(items[i])
	}
}

// Draw handles all rendering for one frame
func (gl *GameLoop) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)
	gl.hud.DrawEntities(screen)
	if gl.game.showHUD {
		gl.hud.Draw(screen)
	}
}

// Layout returns the screen dimensions
func (gl *GameLoop) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return gl.game.config.GetScreenWidth(), gl.game.config.GetScreenHeight()
}
