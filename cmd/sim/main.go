// Command sim runs the arena headless at a fixed step with a simple
// autopilot and prints the final snapshot as YAML.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/milk9111/rpgcore/arena"
	"github.com/milk9111/rpgcore/config"
	"github.com/milk9111/rpgcore/logger"
	"github.com/milk9111/rpgcore/prefabs"
	"github.com/sirupsen/logrus"
)

func main() {
	configPath := flag.String("config", "rpgcore.yaml", "config file (optional)")
	ticks := flag.Int("ticks", 0, "max ticks, overrides the config when positive")
	seed := flag.Int64("seed", 0, "rng seed, overrides the config when non-zero")
	idle := flag.Bool("idle", false, "leave the player standing still")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	log := logger.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if err != nil {
		log.WithError(err).Fatal("sim: config")
	}
	if *ticks > 0 {
		cfg.MaxTicks = *ticks
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	prefabs.SetDiskRoot(cfg.PrefabDir)

	if err := run(cfg, log, !*idle, os.Stdout); err != nil {
		log.WithError(err).Fatal("sim: run")
	}
}

// run plays until the room is cleared, the player is out of lives or
// MaxTicks pass, then writes the snapshot to out.
func run(cfg config.Config, log *logrus.Logger, pilot bool, out io.Writer) error {
	a, err := arena.New(cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	bot := newAutopilot()
	for a.Ticks() < uint64(cfg.MaxTicks) {
		if a.Cleared() || a.Player().GameOver {
			break
		}
		if pilot {
			a.Tick(bot.intent(a))
		} else {
			a.Tick(bot.idle())
		}
	}

	snap := a.Snapshot()
	a.Log().WithFields(logrus.Fields{
		"ticks":     snap.Tick,
		"seconds":   snap.Seconds,
		"enemies":   len(snap.Enemies),
		"kills":     snap.Stats.Kills,
		"game_over": a.Player().GameOver,
	}).Info("sim: finished")

	data, err := snap.YAML()
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("sim: write snapshot: %w", err)
	}
	return nil
}
