package main

import (
	"log"

	"entityjobs/internal/config"
	"entityjobs/internal/game"
	"entityjobs/internal/logging"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	// Load configuration
	cfg := config.MustLoadConfig("config.yaml")
	logger := logging.NewLogger(logging.ParseLevel(cfg.Logging.Level), cfg.Logging.Format)

	// Set window properties from config
	ebiten.SetWindowSize(cfg.GetScreenWidth(), cfg.GetScreenHeight())
	ebiten.SetWindowTitle(cfg.Demo.WindowTitle)

	g, err := game.NewSwarmGame(cfg, logger)
	if err != nil {
		log.Fatal(err)
	}
	runErr := ebiten.RunGame(g)
	if err := g.Close(); err != nil {
		logger.Warn("shutdown incomplete", "error", err)
	}
	if runErr != nil && runErr != ebiten.Termination {
		log.Fatal(runErr)
	}
}
