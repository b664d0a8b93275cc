// Command termarena plays the arena in a terminal.
//
//	wasd move   space swing   j arrow   k fire bolt   l boomerang
//	b bomb      f shield      u upgrade r restart     q quit
package main

import (
	"flag"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/rpgcore/arena"
	"github.com/milk9111/rpgcore/config"
	"github.com/milk9111/rpgcore/ecs/component"
	"github.com/milk9111/rpgcore/logger"
	"github.com/milk9111/rpgcore/prefabs"
)

// moveHold is how long one key press keeps the player walking. Terminals
// report repeats, not releases.
const moveHold = 0.15

func main() {
	configPath := flag.String("config", "rpgcore.yaml", "config file (optional)")
	logPath := flag.String("log", "termarena.log", "log file")
	flag.Parse()

	cfg, cfgErr := config.Load(*configPath)
	log := logger.Discard()
	if f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
		defer f.Close()
		log = logger.New(cfg.LogLevel, cfg.LogFormat, f)
	}
	if cfgErr != nil {
		log.WithError(cfgErr).Fatal("termarena: config")
	}
	prefabs.SetDiskRoot(cfg.PrefabDir)

	a, err := arena.New(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("termarena: arena")
	}
	defer a.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		log.WithError(err).Fatal("termarena: screen")
	}
	if err := screen.Init(); err != nil {
		log.WithError(err).Fatal("termarena: screen")
	}
	defer screen.Fini()

	events := make(chan tcell.Event, 32)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	c := &controls{aim: cp.Vector{Y: 1}}
	step := cfg.Step()
	ticker := time.NewTicker(time.Duration(step * float64(time.Second)))
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if c.key(ev) {
					return
				}
			case *tcell.EventResize:
				screen.Sync()
			}
		case <-ticker.C:
			if c.restart {
				c.restart = false
				a.Restart()
			}
			a.Tick(c.intent(step))
			render(screen, a)
			screen.Show()
		}
	}
}

// controls turns discrete key events into per-tick intents.
type controls struct {
	move     cp.Vector
	moveLeft float64
	aim      cp.Vector
	shield   bool
	pending  component.Intent
	restart  bool
}

// key records one key event and reports whether to quit.
func (c *controls) key(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
	default:
		return false
	}
	dirs := map[rune]cp.Vector{'w': {Y: -1}, 's': {Y: 1}, 'a': {X: -1}, 'd': {X: 1}}
	r := ev.Rune()
	if d, ok := dirs[r]; ok {
		c.move, c.aim, c.moveLeft = d, d, moveHold
		return false
	}
	switch r {
	case 'q':
		return true
	case ' ':
		c.pending.Swing = true
	case 'j':
		c.pending.Fire = true
	case 'k':
		c.pending.Cast = true
	case 'l':
		c.pending.Throw = true
	case 'b':
		c.pending.Bomb = true
	case 'u':
		c.pending.Upgrade = true
	case 'f':
		c.shield = !c.shield
	case 'r':
		c.restart = true
	}
	return false
}

func (c *controls) intent(dt float64) component.Intent {
	in := c.pending
	c.pending = component.Intent{}
	if c.moveLeft > 0 {
		in.Move = c.move
		c.moveLeft -= dt
	}
	in.Aim = c.aim
	in.Shield = c.shield
	return in
}
