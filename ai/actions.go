package ai

import (
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/rpgcore/common"
	"github.com/sirupsen/logrus"
)

const defaultWanderInterval = 2.0

var actionRegistry = map[string]func(any) Action{
	"print": func(arg any) Action {
		msg := fmt.Sprint(arg)
		return func(ctx *Context) {
			ctx.debug("ai: "+msg, logrus.Fields{"state": ctx.Machine.State()})
		}
	},
	"stop": func(_ any) Action {
		return func(ctx *Context) {
			if ctx == nil || ctx.Body == nil {
				return
			}
			ctx.Body.Stop()
		}
	},
	// wander drifts in a random direction, picking a new one every
	// wander_interval seconds.
	"wander": wanderAction,
	// patrol wanders but turns back once it strays patrol_radius from home.
	"patrol": func(arg any) Action {
		return func(ctx *Context) {
			if ctx == nil || ctx.Body == nil || ctx.Machine == nil {
				return
			}
			m := ctx.Machine
			radius := ctx.Tuning.Get("patrol_radius")
			if radius > 0 && ctx.Body.Pos.Distance(m.Home) > radius {
				m.wanderDir = common.Direction(ctx.Body.Pos, m.Home)
				m.wanderTimer = ctx.Tuning.Or("wander_interval", defaultWanderInterval)
			}
			wander(ctx, arg)
		}
	},
	"chase": func(arg any) Action {
		return func(ctx *Context) {
			if ctx == nil || ctx.Body == nil {
				return
			}
			if !ctx.Player.Found {
				ctx.Body.Stop()
				return
			}
			move(ctx, ctx.ToPlayer(), ctx.Value(arg))
		}
	},
	"flee": func(arg any) Action {
		return func(ctx *Context) {
			if ctx == nil || ctx.Body == nil || !ctx.Player.Found {
				return
			}
			away := ctx.ToPlayer().Neg()
			ctx.Body.Vel = away.Mult(ctx.Value(arg) * ctx.scale())
			ctx.Body.Face(ctx.ToPlayer())
		}
	},
	"face_player": func(_ any) Action {
		return func(ctx *Context) {
			if ctx == nil || ctx.Body == nil {
				return
			}
			ctx.Body.Face(ctx.ToPlayer())
		}
	},
	// lock_direction captures the aim of a commitment state.
	"lock_direction": func(_ any) Action {
		return func(ctx *Context) {
			if ctx == nil || ctx.Body == nil || ctx.Machine == nil {
				return
			}
			dir := ctx.ToPlayer()
			if dir == (cp.Vector{}) {
				dir = ctx.Body.Facing
			}
			ctx.Machine.Dir = dir
			ctx.Body.Face(dir)
		}
	},
	"move_locked": func(arg any) Action {
		return func(ctx *Context) {
			if ctx == nil || ctx.Body == nil || ctx.Machine == nil {
				return
			}
			ctx.Body.Vel = ctx.Machine.Dir.Mult(ctx.Value(arg) * ctx.scale())
		}
	},
	// drift_locked moves along the locked direction at a speed that decays
	// to zero as the state timer runs out.
	"drift_locked": func(arg any) Action {
		return func(ctx *Context) {
			if ctx == nil || ctx.Body == nil || ctx.Machine == nil {
				return
			}
			m := ctx.Machine
			frac := 0.0
			if m.TimerStart > 0 {
				frac = common.Clamp(m.Timer/m.TimerStart, 0, 1)
			}
			ctx.Body.Vel = m.Dir.Mult(ctx.Value(arg) * frac * ctx.scale())
		}
	},
	// lerp_back backs away from the locked direction, covering arg units over
	// the state timer.
	"lerp_back": func(arg any) Action {
		return func(ctx *Context) {
			if ctx == nil || ctx.Body == nil || ctx.Machine == nil {
				return
			}
			m := ctx.Machine
			if m.TimerStart <= 0 {
				ctx.Body.Stop()
				return
			}
			ctx.Body.Vel = m.Dir.Neg().Mult(ctx.Value(arg) / m.TimerStart)
		}
	},
	"set_home": func(_ any) Action {
		return func(ctx *Context) {
			if ctx == nil || ctx.Body == nil || ctx.Machine == nil {
				return
			}
			ctx.Machine.Home = ctx.Body.Pos
		}
	},
	"start_timer": func(arg any) Action {
		return func(ctx *Context) {
			if ctx == nil || ctx.Machine == nil {
				return
			}
			seconds := ctx.Value(arg)
			ctx.Machine.Timer = seconds
			ctx.Machine.TimerStart = seconds
		}
	},
	"tick_timer": func(_ any) Action {
		return func(ctx *Context) {
			if ctx == nil || ctx.Machine == nil {
				return
			}
			ctx.Machine.Timer -= ctx.Dt
			if ctx.Machine.Timer <= 0 {
				ctx.Machine.Emit(EventTimerExpired)
			}
		}
	},
	"emit_event": func(arg any) Action {
		name := fmt.Sprint(arg)
		return func(ctx *Context) {
			if ctx == nil || ctx.Machine == nil {
				return
			}
			ctx.Machine.Emit(EventID(name))
		}
	},
}

var transitionRegistry = map[string]func(any) TransitionChecker{
	"always": func(_ any) TransitionChecker {
		return func(ctx *Context) bool { return true }
	},
	"player_within": func(arg any) TransitionChecker {
		return func(ctx *Context) bool {
			d, ok := ctx.PlayerDistance()
			return ok && d < ctx.Value(arg)
		}
	},
	"player_beyond": func(arg any) TransitionChecker {
		return func(ctx *Context) bool {
			d, ok := ctx.PlayerDistance()
			return !ok || d > ctx.Value(arg)
		}
	},
	"player_lost": func(_ any) TransitionChecker {
		return func(ctx *Context) bool {
			return ctx == nil || !ctx.Player.Found
		}
	},
	"timer_expired": func(_ any) TransitionChecker {
		return func(ctx *Context) bool {
			return ctx != nil && ctx.Machine != nil && ctx.Machine.Timer <= 0
		}
	},
}

func wanderAction(arg any) Action {
	return func(ctx *Context) {
		wander(ctx, arg)
	}
}

func wander(ctx *Context, arg any) {
	if ctx == nil || ctx.Body == nil || ctx.Machine == nil {
		return
	}
	m := ctx.Machine
	m.wanderTimer -= ctx.Dt
	if m.wanderTimer <= 0 || m.wanderDir == (cp.Vector{}) {
		m.wanderTimer = ctx.Tuning.Or("wander_interval", defaultWanderInterval)
		if ctx.Rand != nil {
			m.wanderDir = common.RandomDirection(ctx.Rand)
		} else {
			m.wanderDir = cp.Vector{X: 1}
		}
	}
	move(ctx, m.wanderDir, ctx.Value(arg))
}

func move(ctx *Context, dir cp.Vector, speed float64) {
	ctx.Body.Vel = dir.Mult(speed * ctx.scale())
	ctx.Body.Face(dir)
}

// Act builds a registered action. It panics on unknown names; use it for
// FSMs assembled in Go where the name is a constant.
func Act(name string, arg any) Action {
	makeAction, ok := actionRegistry[name]
	if !ok {
		panic(fmt.Sprintf("ai: unknown action %q", name))
	}
	return makeAction(arg)
}

// When builds a registered transition checker, panicking on unknown names.
func When(name string, arg any) TransitionChecker {
	makeCheck, ok := transitionRegistry[name]
	if !ok {
		panic(fmt.Sprintf("ai: unknown transition %q", name))
	}
	return makeCheck(arg)
}

// Actions lists registered action names.
func Actions() []string {
	out := make([]string, 0, len(actionRegistry))
	for k := range actionRegistry {
		out = append(out, k)
	}
	return out
}
