package main

import (
	"flag"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/rpgcore/arena"
	"github.com/milk9111/rpgcore/config"
	"github.com/milk9111/rpgcore/logger"
	"github.com/milk9111/rpgcore/prefabs"
	"golang.design/x/clipboard"
)

func main() {
	configPath := flag.String("config", "rpgcore.yaml", "config file (optional)")
	arenaName := flag.String("arena", "", "arena prefab, overrides the config")
	seed := flag.Int64("seed", 0, "rng seed, overrides the config when non-zero")
	hot := flag.Bool("hot", false, "reload archetype prefabs from disk while running")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	log := logger.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if err != nil {
		log.WithError(err).Fatal("viewer: config")
	}
	if *arenaName != "" {
		cfg.Arena = *arenaName
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	cfg.HotReload = cfg.HotReload || *hot
	prefabs.SetDiskRoot(cfg.PrefabDir)

	a, err := arena.New(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("viewer: arena")
	}
	defer a.Close()
	if cfg.HotReload {
		if err := a.Watch(); err != nil {
			log.WithError(err).Warn("viewer: hot reload disabled")
		}
	}

	clipboardErr = clipboard.Init()
	if clipboardErr != nil {
		log.WithError(clipboardErr).Warn("viewer: clipboard unavailable")
	}

	ebiten.SetTPS(cfg.TickRate)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("rpgcore")

	game := NewGame(a, logger.Component(log, "viewer").WithField("run_id", a.RunID))
	if err := ebiten.RunGame(game); err != nil {
		log.WithError(err).Fatal("viewer: run")
	}
}
