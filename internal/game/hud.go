package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	ebitext "github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

var (
	backgroundColor = color.RGBA{12, 14, 22, 255}
	panelColor      = color.RGBA{0, 0, 0, 170}
	textColor       = color.RGBA{220, 220, 220, 255}
	warnColor       = color.RGBA{255, 170, 60, 255}
	errorColor      = color.RGBA{255, 80, 80, 255}
	mainSliceColor  = color.RGBA{240, 240, 240, 255}
)

// workerColors tints each entity by the worker that owns its slice
var workerColors = []color.RGBA{
	{90, 170, 255, 255},
	{120, 230, 140, 255},
	{250, 210, 90, 255},
	{240, 120, 200, 255},
	{160, 130, 255, 255},
	{90, 220, 220, 255},
	{255, 150, 110, 255},
	{190, 190, 120, 255},
}

const entitySize = 2

// HUD draws the swarm and the scheduler overlay
type HUD struct {
	game *SwarmGame
}

// NewHUD creates a new HUD renderer
func NewHUD(game *SwarmGame) *HUD {
	return &HUD{game: game}
}

// DrawEntities draws every live entity, coloured by the slice that moved it
// in the last cycle
func (h *HUD) DrawEntities(screen *ebiten.Image) {
	w := h.game.world
	metrics := h.game.threading.GetPerformanceMetrics()
	items := w.Items()

	workers, jobSize := metrics.ActiveWorkers, metrics.JobSize
	for i, id := range items {
		c := mainSliceColor
		if jobSize > 0 && i < workers*jobSize {
			c = workerColors[(i/jobSize)%len(workerColors)]
		}
		p := w.Positions[id]
		vector.DrawFilledRect(screen, float32(p.X), float32(p.Y), entitySize, entitySize, c, false)
	}
}

// Draw renders the stats panel
func (h *HUD) Draw(screen *ebiten.Image) {
	g := h.game
	m := g.threading.GetPerformanceMetrics()

	vector.DrawFilledRect(screen, 8, 8, 420, 150, panelColor, false)

	lines := []string{
		fmt.Sprintf("FPS %.1f  TPS %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()),
		fmt.Sprintf("Entities %d / %d", g.world.Count(), g.population),
		fmt.Sprintf("Workers %d  job size %d  main %d", m.ActiveWorkers, m.JobSize, m.LastMainItems),
		fmt.Sprintf("Cycle %.2fms  avg %.2fms", ms(m.LastCycleTime.Nanoseconds()), ms(m.AverageCycleTime.Nanoseconds())),
		fmt.Sprintf("Cycles %d  expired %d", m.Cycles, g.despawns),
	}
	for i, line := range lines {
		ebitenutil.DebugPrintAt(screen, line, 16, 16+i*16)
	}

	y := 16 + len(lines)*16 + 4
	if g.paused {
		drawText(screen, "PAUSED", 16, y, warnColor)
		y += 16
	}
	for _, alert := range g.threading.CheckPerformanceAlerts() {
		drawText(screen, alert.Message, 16, y, warnColor)
		y += 16
	}
	if g.lastErr != nil {
		drawText(screen, truncate(g.lastErr.Error(), 40), 16, y, errorColor)
	}

	help := "space pause  up/down population  h hud  p perf log  esc quit"
	drawText(screen, help, g.config.GetScreenWidth()-textWidth(help)-8, g.config.GetScreenHeight()-20, textColor)
}

func drawText(screen *ebiten.Image, s string, x, y int, c color.Color) {
	face := basicfont.Face7x13
	ebitext.Draw(screen, s, face, x, y+face.Ascent, c)
}

func textWidth(s string) int {
	return font.MeasureString(basicfont.Face7x13, s).Round()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func ms(ns int64) float64 {
	return float64(ns) / 1e6
}
