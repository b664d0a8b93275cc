package ai

import (
	"math/rand"
	"strconv"
	"strings"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/rpgcore/common"
	"github.com/milk9111/rpgcore/ecs/component"
	"github.com/sirupsen/logrus"
)

// Tuning holds an archetype's named numbers (speeds, ranges, timings).
type Tuning map[string]float64

// Get returns the named value, or 0 when missing.
func (t Tuning) Get(key string) float64 {
	if t == nil {
		return 0
	}
	return t[key]
}

// Or returns the named value, or def when missing.
func (t Tuning) Or(key string, def float64) float64 {
	if v, ok := t[key]; ok {
		return v
	}
	return def
}

// Clone copies t so hot reloads never mutate a live instance's map.
func (t Tuning) Clone() Tuning {
	out := make(Tuning, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// PlayerView is the only outside input an FSM reads.
type PlayerView struct {
	Found bool
	Pos   cp.Vector
}

// Context is rebuilt for every update and passed to every action.
type Context struct {
	Machine *Machine
	Body    *component.Body
	Tuning  Tuning
	Player  PlayerView
	Dt      float64
	Rand    *rand.Rand
	Room    *common.Room
	// SpeedScale multiplies every movement action; buffs change it.
	SpeedScale float64
	Log        *logrus.Entry
}

// PlayerDistance returns the distance to the player, or +Inf semantics via
// ok=false when no player is known.
func (ctx *Context) PlayerDistance() (float64, bool) {
	if ctx == nil || ctx.Body == nil || !ctx.Player.Found {
		return 0, false
	}
	return ctx.Body.Pos.Distance(ctx.Player.Pos), true
}

// ToPlayer is the unit vector towards the player, zero when unknown.
func (ctx *Context) ToPlayer() cp.Vector {
	if ctx == nil || ctx.Body == nil || !ctx.Player.Found {
		return cp.Vector{}
	}
	return common.Direction(ctx.Body.Pos, ctx.Player.Pos)
}

func (ctx *Context) scale() float64 {
	if ctx == nil || ctx.SpeedScale <= 0 {
		return 1
	}
	return ctx.SpeedScale
}

func (ctx *Context) debug(msg string, fields logrus.Fields) {
	if ctx == nil || ctx.Log == nil {
		return
	}
	ctx.Log.WithFields(fields).Debug(msg)
}

// Value resolves an action argument. Numbers are literal; strings name a
// tuning key, optionally scaled as "key*1.5".
func (ctx *Context) Value(arg any) float64 {
	switch v := arg.(type) {
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case float64:
		return v
	case float32:
		return float64(v)
	case string:
		var tuning Tuning
		if ctx != nil {
			tuning = ctx.Tuning
		}
		return resolve(tuning, v)
	default:
		return 0
	}
}

func resolve(t Tuning, expr string) float64 {
	expr = strings.TrimSpace(expr)
	if n, err := strconv.ParseFloat(expr, 64); err == nil {
		return n
	}
	key, factor, scaled := strings.Cut(expr, "*")
	v := t.Get(strings.TrimSpace(key))
	if !scaled {
		return v
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(factor), 64)
	if err != nil {
		return v
	}
	return v * f
}
