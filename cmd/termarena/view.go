package main

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/rpgcore/arena"
	"github.com/milk9111/rpgcore/ecs"
	"github.com/milk9111/rpgcore/ecs/component"
	"github.com/milk9111/rpgcore/ecs/system"
	"github.com/milk9111/rpgcore/enemy"
	"github.com/milk9111/rpgcore/weapon"
)

// cellsPerUnit is horizontal; terminal cells are about twice as tall as wide.
const cellsPerUnit = 2

var (
	floorStyle  = tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	wallStyle   = tcell.StyleDefault.Foreground(tcell.ColorSlateGray)
	hudStyle    = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	flashStyle  = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	pickupGlyph = map[component.PickupKind]rune{
		component.PickupHeart:          '♥',
		component.PickupHeartContainer: '♡',
		component.PickupRupee:          '$',
		component.PickupArrows:         '↑',
		component.PickupBombs:          'ó',
	}
)

func cell(p cp.Vector) (int, int) {
	return int(p.X * cellsPerUnit), int(p.Y)
}

func rgb(c color.RGBA) tcell.Style {
	return tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B)))
}

// glyph is the first letter of the archetype's last word: goblin_archer is
// 'a', orc_chief 'c'.
func glyph(archetype string) rune {
	parts := strings.Split(archetype, "_")
	last := parts[len(parts)-1]
	if last == "" {
		return 'e'
	}
	return rune(last[0])
}

func put(s tcell.Screen, x, y int, r rune, style tcell.Style) {
	s.SetContent(x, y, r, nil, style)
}

func putString(s tcell.Screen, x, y int, text string, style tcell.Style) {
	for i, r := range []rune(text) {
		put(s, x+i, y, r, style)
	}
}

// render draws the arena with the HUD on the two rows below the room.
func render(s tcell.Screen, a *arena.Arena) {
	s.Clear()
	room := a.Room()
	maxX, maxY := cell(room.Max)
	for y := 0; y < maxY; y++ {
		for x := 0; x < maxX; x++ {
			put(s, x, y, '·', floorStyle)
		}
	}
	for _, bb := range a.Walls() {
		if bb.R <= room.Min.X || bb.L >= room.Max.X || bb.T <= room.Min.Y || bb.B >= room.Max.Y {
			// room boundary
			continue
		}
		l, t := cell(cp.Vector{X: max(bb.L, room.Min.X), Y: max(bb.B, room.Min.Y)})
		r, b := cell(cp.Vector{X: min(bb.R, room.Max.X), Y: min(bb.T, room.Max.Y)})
		for y := t; y < max(b, t+1); y++ {
			for x := l; x < max(r, l+1); x++ {
				put(s, x, y, '#', wallStyle)
			}
		}
	}

	w := a.World()
	ecs.ForEach2(w, system.DestructibleComponent.Kind(), component.BodyComponent.Kind(), func(_ ecs.Entity, d *weapon.Destructible, b *component.Body) {
		if !d.Broken() {
			x, y := cell(b.Pos)
			put(s, x, y, '%', tcell.StyleDefault.Foreground(tcell.ColorSaddleBrown))
		}
	})
	ecs.ForEach2(w, component.PickupComponent.Kind(), component.BodyComponent.Kind(), func(_ ecs.Entity, pk *component.Pickup, b *component.Body) {
		x, y := cell(b.Pos)
		put(s, x, y, pickupGlyph[pk.Kind], tcell.StyleDefault.Foreground(tcell.ColorGreen))
	})
	ecs.ForEach2(w, component.BlastComponent.Kind(), component.BodyComponent.Kind(), func(_ ecs.Entity, _ *component.Blast, b *component.Body) {
		x, y := cell(b.Pos)
		put(s, x, y, '✶', tcell.StyleDefault.Foreground(tcell.ColorOrange))
	})
	ecs.ForEach(w, system.FireTrailComponent.Kind(), func(_ ecs.Entity, f *weapon.FireTrail) {
		x, y := cell(f.Pos)
		put(s, x, y, '^', tcell.StyleDefault.Foreground(tcell.ColorOrangeRed))
	})
	ecs.ForEach(w, system.ProjectileComponent.Kind(), func(_ ecs.Entity, p *weapon.Projectile) {
		x, y := cell(p.Pos)
		put(s, x, y, '*', tcell.StyleDefault.Foreground(tcell.ColorYellow))
	})
	ecs.ForEach(w, system.BoomerangComponent.Kind(), func(_ ecs.Entity, b *weapon.Boomerang) {
		x, y := cell(b.Pos)
		put(s, x, y, ')', tcell.StyleDefault.Foreground(tcell.ColorPeru))
	})
	ecs.ForEach(w, system.BombComponent.Kind(), func(e ecs.Entity, b *weapon.Bomb) {
		x, y := cell(b.Pos)
		style := tcell.StyleDefault.Foreground(tcell.ColorBlue)
		if wf, ok := ecs.Get(w, e, component.WhiteFlashComponent.Kind()); ok && wf.On {
			style = flashStyle
		}
		put(s, x, y, 'o', style)
	})
	ecs.ForEach(w, system.EnemyComponent.Kind(), func(_ ecs.Entity, en *enemy.Enemy) {
		if !en.Alive() {
			return
		}
		x, y := cell(en.Body.Pos)
		style := rgb(en.Tint())
		if en.Flashing() {
			style = flashStyle
		}
		put(s, x, y, glyph(en.Archetype), style)
	})

	p := a.Player()
	if !p.GameOver {
		x, y := cell(p.Body.Pos)
		style := rgb(p.Tint())
		if p.Flashing() || p.Blinking() {
			style = flashStyle
		}
		put(s, x, y, '@', style)
	}

	ammo := p.Ammo()
	stats := a.Stats()
	putString(s, 0, maxY, fmt.Sprintf("HP %d/%d lives %d rupees %d arrows %d bombs %d %s",
		p.Health(), p.MaxHealth(), p.Lives, p.Rupees, ammo.Arrows, ammo.Bombs, p.Class), hudStyle)
	status := fmt.Sprintf("enemies %d hits %d kills %d t %.1fs", a.EnemyCount(), stats.Hits, stats.Kills, a.Seconds())
	if p.GameOver {
		status += "  GAME OVER (r restart, q quit)"
	}
	putString(s, 0, maxY+1, status, hudStyle)
}
