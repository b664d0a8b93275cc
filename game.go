package main

import (
	"fmt"
	"image/color"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/rpgcore/arena"
	"github.com/milk9111/rpgcore/combat"
	"github.com/milk9111/rpgcore/ecs"
	"github.com/milk9111/rpgcore/ecs/component"
	"github.com/milk9111/rpgcore/ecs/system"
	"github.com/milk9111/rpgcore/enemy"
	"github.com/milk9111/rpgcore/weapon"
	"github.com/sirupsen/logrus"
	"golang.org/x/image/colornames"
)

const (
	baseWidth  = 1280
	baseHeight = 720
	hudHeight  = 48
	statusTime = 2.0
)

type Game struct {
	arena  *arena.Arena
	log    *logrus.Entry
	ui     *ebitenui.UI
	paused bool

	status     string
	statusLeft float64
	aim        cp.Vector
}

func NewGame(a *arena.Arena, log *logrus.Entry) *Game {
	g := &Game{arena: a, log: log, aim: cp.Vector{Y: 1}}
	g.ui = NewPauseUI(g)
	return g
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.paused = !g.paused
	}
	if g.statusLeft > 0 {
		g.statusLeft -= 1 / float64(ebiten.TPS())
	}
	if g.paused {
		g.ui.Update()
		return nil
	}
	if g.arena.Player().GameOver && inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.restart()
		return nil
	}
	g.arena.Tick(g.intent())
	return nil
}

func (g *Game) intent() component.Intent {
	var move cp.Vector
	if ebiten.IsKeyPressed(ebiten.KeyA) {
		move.X--
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) {
		move.X++
	}
	if ebiten.IsKeyPressed(ebiten.KeyW) {
		move.Y--
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) {
		move.Y++
	}
	if move != (cp.Vector{}) {
		g.aim = move.Normalize()
	}
	return component.Intent{
		Move:    move,
		Aim:     g.aim,
		Shield:  ebiten.IsKeyPressed(ebiten.KeyShiftLeft),
		Swing:   inpututil.IsKeyJustPressed(ebiten.KeySpace),
		Fire:    inpututil.IsKeyJustPressed(ebiten.KeyJ),
		Cast:    inpututil.IsKeyJustPressed(ebiten.KeyK),
		Throw:   inpututil.IsKeyJustPressed(ebiten.KeyL),
		Bomb:    inpututil.IsKeyJustPressed(ebiten.KeyB),
		Upgrade: inpututil.IsKeyJustPressed(ebiten.KeyU),
	}
}

func (g *Game) restart() {
	g.arena.Restart()
	g.paused = false
	g.setStatus("restarted")
}

func (g *Game) setStatus(msg string) {
	g.status = msg
	g.statusLeft = statusTime
}

// scale maps arena units to screen pixels, fitting the room below the HUD.
func (g *Game) scale() float32 {
	room := g.arena.Room()
	sx := float64(baseWidth) / room.Width()
	sy := float64(baseHeight-hudHeight) / room.Height()
	return float32(min(sx, sy))
}

func (g *Game) toScreen(p cp.Vector) (float32, float32) {
	s := g.scale()
	return float32(p.X) * s, float32(p.Y)*s + hudHeight
}

func (g *Game) circle(screen *ebiten.Image, pos cp.Vector, radius float64, clr color.Color) {
	x, y := g.toScreen(pos)
	vector.DrawFilledCircle(screen, x, y, float32(radius)*g.scale(), clr, true)
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Black)
	room := g.arena.Room()
	x0, y0 := g.toScreen(room.Min)
	x1, y1 := g.toScreen(room.Max)
	vector.DrawFilledRect(screen, x0, y0, x1-x0, y1-y0, color.RGBA{R: 40, G: 44, B: 52, A: 255}, false)

	for _, bb := range g.arena.Walls() {
		l, t := g.toScreen(cp.Vector{X: bb.L, Y: bb.B})
		r, b := g.toScreen(cp.Vector{X: bb.R, Y: bb.T})
		vector.DrawFilledRect(screen, l, t, r-l, b-t, colornames.Slategray, false)
	}

	w := g.arena.World()
	g.drawScenery(screen, w)
	g.drawWeapons(screen, w)

	ecs.ForEach(w, system.EnemyComponent.Kind(), func(_ ecs.Entity, en *enemy.Enemy) {
		if !en.Alive() {
			return
		}
		var clr color.Color = en.Tint()
		if en.Flashing() {
			clr = colornames.White
		}
		g.circle(screen, en.Body.Pos, en.Body.Radius, clr)
		if en.Machine.Stunned() {
			x, y := g.toScreen(en.Body.Pos)
			vector.StrokeCircle(screen, x, y, float32(en.Body.Radius)*g.scale()+3, 2, colornames.Gold, true)
		}
	})

	p := g.arena.Player()
	if !p.GameOver && (!p.Blinking() || (g.arena.Ticks()/4)%2 == 0) {
		var clr color.Color = p.Tint()
		if p.Flashing() {
			clr = colornames.White
		}
		g.circle(screen, p.Body.Pos, p.Body.Radius, clr)
		if p.Melee.Swinging() {
			g.circle(screen, p.Body.Pos.Add(p.Melee.Tip()), weapon.HitboxRadius/2, colornames.Silver)
		}
		if p.Shield().Raised {
			g.circle(screen, p.Body.Pos.Add(p.Aim.Mult(p.Body.Radius)), 0.15, colornames.Steelblue)
		}
	}

	g.drawHUD(screen)
	if g.paused {
		g.ui.Draw(screen)
	}
}

func (g *Game) drawScenery(screen *ebiten.Image, w *ecs.World) {
	ecs.ForEach2(w, system.DestructibleComponent.Kind(), component.BodyComponent.Kind(), func(_ ecs.Entity, d *weapon.Destructible, b *component.Body) {
		if !d.Broken() {
			g.circle(screen, b.Pos, b.Radius, colornames.Saddlebrown)
		}
	})
	ecs.ForEach2(w, component.PickupComponent.Kind(), component.BodyComponent.Kind(), func(_ ecs.Entity, pk *component.Pickup, b *component.Body) {
		g.circle(screen, b.Pos, b.Radius, pickupColor(pk.Kind))
	})
	ecs.ForEach2(w, component.BlastComponent.Kind(), component.BodyComponent.Kind(), func(_ ecs.Entity, bl *component.Blast, b *component.Body) {
		x, y := g.toScreen(b.Pos)
		vector.StrokeCircle(screen, x, y, float32(bl.Radius)*g.scale(), 3, colornames.Orange, true)
	})
}

func (g *Game) drawWeapons(screen *ebiten.Image, w *ecs.World) {
	ecs.ForEach(w, system.ProjectileComponent.Kind(), func(_ ecs.Entity, pr *weapon.Projectile) {
		clr := colornames.Khaki
		switch {
		case pr.Faction == combat.FactionEnemy:
			clr = colornames.Orchid
		case pr.Kind == weapon.TemplarWave:
			clr = colornames.Gold
		case pr.Kind == weapon.FireBolt:
			clr = colornames.Orangered
		}
		g.circle(screen, pr.Pos, pr.Radius, clr)
	})
	ecs.ForEach(w, system.FireTrailComponent.Kind(), func(_ ecs.Entity, f *weapon.FireTrail) {
		g.circle(screen, f.Pos, f.Radius, colornames.Darkorange)
	})
	ecs.ForEach(w, system.BoomerangComponent.Kind(), func(_ ecs.Entity, b *weapon.Boomerang) {
		g.circle(screen, b.Pos, b.Radius, colornames.Peru)
	})
	ecs.ForEach(w, system.BombComponent.Kind(), func(e ecs.Entity, b *weapon.Bomb) {
		var clr color.Color = colornames.Darkslateblue
		if wf, ok := ecs.Get(w, e, component.WhiteFlashComponent.Kind()); ok && wf.On {
			clr = colornames.White
		}
		g.circle(screen, b.Pos, 0.3, clr)
	})
}

func pickupColor(kind component.PickupKind) color.Color {
	switch kind {
	case component.PickupHeart:
		return colornames.Crimson
	case component.PickupHeartContainer:
		return colornames.Hotpink
	case component.PickupRupee:
		return colornames.Limegreen
	case component.PickupArrows:
		return colornames.Burlywood
	case component.PickupBombs:
		return colornames.Slateblue
	}
	return colornames.White
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	p := g.arena.Player()
	ammo := p.Ammo()
	stats := g.arena.Stats()
	line := fmt.Sprintf("HP %d/%d  lives %d  rupees %d  arrows %d  bombs %d  class %s",
		p.Health(), p.MaxHealth(), p.Lives, p.Rupees, ammo.Arrows, ammo.Bombs, p.Class)
	if b := p.Buffs.Active(); b != nil {
		line += fmt.Sprintf("  buff %s %.0fs", b.Kind, b.Remaining)
	}
	ebitenutil.DebugPrintAt(screen, line, 8, 4)
	info := fmt.Sprintf("enemies %d  hits %d  kills %d  blocks %d  t %.1fs  FPS %.0f",
		g.arena.EnemyCount(), stats.Hits, stats.Kills, stats.Blocks, g.arena.Seconds(), ebiten.ActualFPS())
	switch {
	case p.GameOver:
		info += "  GAME OVER - press R"
	case g.arena.Cleared():
		info += "  CLEARED"
	}
	if g.statusLeft > 0 {
		info += "  " + g.status
	}
	ebitenutil.DebugPrintAt(screen, info, 8, 22)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return baseWidth, baseHeight
}
