package game

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"entityjobs/internal/config"
	"entityjobs/internal/game/keytracker"
	"entityjobs/internal/threading"
	"entityjobs/internal/threading/entities"

	"github.com/hajimehoshi/ebiten/v2"
)

// SwarmGame is the ebiten host for the entity swarm. Each tick advances every
// entity through the job scheduler and then renders the world.
type SwarmGame struct {
	config    *config.Config
	logger    *slog.Logger
	world     *entities.World
	threading *threading.ThreadingComponents
	loop      *GameLoop
	keys      *keytracker.KeyStateTracker
	rng       *rand.Rand

	// target population; expired entities are replaced up to this count
	population int

	// UI state
	paused           bool
	showHUD          bool
	perfDebugEnabled bool

	// perf debug state
	perfLowFpsSince time.Time
	perfLastPerfLog time.Time

	lastErr  error
	despawns uint64
}

// NewSwarmGame builds the world, populates it and starts the scheduler
func NewSwarmGame(cfg *config.Config, logger *slog.Logger) (*SwarmGame, error) {
	if logger == nil {
		logger = slog.Default()
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	world := entities.NewWorld(float64(cfg.GetScreenWidth()), float64(cfg.GetScreenHeight()))
	world.Populate(rng, cfg.Demo.Entities, cfg.Demo.MaxSpeed, cfg.Demo.Lifetime)

	tc, err := threading.NewThreadingComponents(cfg, world, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to start threading: %w", err)
	}

	g := &SwarmGame{
		config:     cfg,
		logger:     tc.Logger,
		world:      world,
		threading:  tc,
		keys:       keytracker.New(),
		rng:        rng,
		population: cfg.Demo.Entities,
		showHUD:    true,
	}
	g.loop = NewGameLoop(g)
	return g, nil
}

// Update implements ebiten.Game
func (g *SwarmGame) Update() error {
	return g.loop.Update()
}

// Draw implements ebiten.Game
func (g *SwarmGame) Draw(screen *ebiten.Image) {
	g.loop.Draw(screen)
}

// Layout implements ebiten.Game
func (g *SwarmGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.loop.Layout(outsideWidth, outsideHeight)
}

// Close stops the scheduler workers
func (g *SwarmGame) Close() error {
	return g.threading.Shutdown()
}
