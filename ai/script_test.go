package ai

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const lungerScript = `
initial_state := "idle"
commit_states := ["lunge"]
contact := "contact_damage"

onEnter := func(engine, state, current) {
	if is_undefined(state.enters) {
		state.enters = 0
	}
	state.enters = state.enters + 1
	if current == "lunge" {
		engine.lock_direction()
		engine.start_timer(0.25)
	} else {
		engine.stop()
	}
}

update := func(engine, state, current) {
	if current == "idle" {
		if engine.player_within(4) {
			engine.transition("lunge")
		}
	} else if current == "lunge" {
		engine.move_locked(6)
		engine.tick_timer()
		if engine.consume_event("hit_wall") || engine.consume_event("timer_expired") {
			engine.transition("idle")
		}
	}
}

onExit := func(engine, state, current) {}
`

func TestCompileScriptResolvesGlobals(t *testing.T) {
	p, err := CompileScript("lunger", []byte(lungerScript))
	require.NoError(t, err)
	assert.Equal(t, StateID("idle"), p.Initial())

	def := ScriptFSM(p)
	assert.True(t, def.States["lunge"].Commit)
	assert.Equal(t, "contact_damage", def.Contact)
	assert.Equal(t, StateID("idle"), def.Neutral)
}

func TestCompileScriptError(t *testing.T) {
	_, err := CompileScript("broken", []byte("x := "))
	assert.Error(t, err)
}

func TestScriptMachineLifecycle(t *testing.T) {
	p, err := CompileScript("lunger", []byte(lungerScript))
	require.NoError(t, err)

	m := NewScriptMachine(p)
	require.True(t, m.Scripted())
	log := &transitionLog{}
	m.OnTransition = log.record
	ctx := newCtx(cp.Vector{X: 2})

	m.Update(ctx)
	require.Equal(t, StateID("lunge"), m.State())
	assert.InDelta(t, 1, m.Dir.X, 1e-9)

	m.Update(ctx)
	assert.InDelta(t, 6, ctx.Body.Vel.X, 1e-9)

	ctx.Body.HitWall = true
	m.Update(ctx)
	assert.Equal(t, StateID("idle"), m.State())
	assert.Equal(t, 1, log.count("lunge", "idle"))
}

func TestScriptMachineStunsLikeAnyOther(t *testing.T) {
	p, err := CompileScript("lunger", []byte(lungerScript))
	require.NoError(t, err)

	m := NewScriptMachine(p)
	ctx := newCtx(cp.Vector{X: 2})
	m.Update(ctx)
	require.Equal(t, StateID("lunge"), m.State())

	require.True(t, m.Stun(ctx, 0.25))
	m.Update(ctx)
	assert.True(t, m.Stunned())
	ctx.Player.Pos = cp.Vector{X: 50}
	m.Update(ctx)
	assert.Equal(t, StateID("idle"), m.State())
}

func TestScriptInstancesKeepSeparateState(t *testing.T) {
	p, err := CompileScript("lunger", []byte(lungerScript))
	require.NoError(t, err)

	a := NewScriptMachine(p)
	b := NewScriptMachine(p)
	near := newCtx(cp.Vector{X: 2})
	far := newCtx(cp.Vector{X: 50})

	a.Update(near)
	b.Update(far)
	assert.Equal(t, StateID("lunge"), a.State())
	assert.Equal(t, StateID("idle"), b.State())
}
