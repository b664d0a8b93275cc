package ai

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/rpgcore/status"
)

type StateID string

type EventID string

const (
	// StateStunned is provided by the framework and reachable from every
	// state that is not StunImmune.
	StateStunned StateID = "stunned"

	EventTimerExpired EventID = "timer_expired"
	EventHitWall      EventID = "hit_wall"
)

type Action func(ctx *Context)

type StateDef struct {
	OnEnter []Action
	While   []Action
	OnExit  []Action

	// Commit states ignore distance checkers; only events (timers, walls)
	// and stun leave them.
	Commit     bool
	StunImmune bool

	// Contact names the tuning key for touch damage in this state. Empty
	// falls back to FSMDef.Contact; NoContact disables it.
	Contact     string
	ContactOnce bool
	NoContact   bool
}

type TransitionChecker func(ctx *Context) bool

type TransitionCheckerDef struct {
	From  StateID
	Event EventID
	Check TransitionChecker
}

type FSMDef struct {
	Initial     StateID
	Neutral     StateID
	States      map[StateID]StateDef
	Transitions map[StateID]map[EventID]StateID
	Checkers    []TransitionCheckerDef
	Contact     string
}

// ContactFor returns the tuning key for touch damage in state s, and whether
// one hit per state entry is the limit.
func (d *FSMDef) ContactFor(s StateID) (key string, once bool) {
	if d == nil {
		return "", false
	}
	sd, ok := d.States[s]
	if ok && sd.NoContact {
		return "", false
	}
	if ok && sd.Contact != "" {
		return sd.Contact, sd.ContactOnce
	}
	return d.Contact, ok && sd.ContactOnce
}

// Machine is one running instance of an FSMDef. All multi-tick behaviour is
// countdown state advanced by Update.
type Machine struct {
	def     *FSMDef
	script  *ScriptRuntime
	current StateID
	started bool
	events  []EventID

	Timer      float64
	TimerStart float64
	// Dir is the direction a commitment state locked in.
	Dir cp.Vector
	// Home anchors patrols.
	Home   cp.Vector
	HasHit bool

	stun        status.Stun
	wanderDir   cp.Vector
	wanderTimer float64

	OnTransition func(from, to StateID)
}

func NewMachine(def *FSMDef) *Machine {
	return &Machine{def: def}
}

func (m *Machine) Def() *FSMDef {
	if m == nil {
		return nil
	}
	return m.def
}

func (m *Machine) State() StateID {
	if m == nil {
		return ""
	}
	if !m.started && m.def != nil {
		return m.def.Initial
	}
	return m.current
}

func (m *Machine) StateDef() StateDef {
	if m == nil || m.def == nil {
		return StateDef{}
	}
	return m.def.States[m.State()]
}

func (m *Machine) Stunned() bool {
	return m != nil && m.State() == StateStunned
}

// StunRemaining is the seconds left on the current stun.
func (m *Machine) StunRemaining() float64 {
	if m == nil {
		return 0
	}
	return m.stun.Remaining
}

// Committed reports whether the current state is a commitment state.
func (m *Machine) Committed() bool {
	return m.StateDef().Commit
}

// Emit queues an event for the transition phase of the current tick.
func (m *Machine) Emit(ev EventID) {
	if m == nil || ev == "" {
		return
	}
	m.events = append(m.events, ev)
}

func (m *Machine) drain() []EventID {
	out := m.events
	m.events = nil
	return out
}

func (m *Machine) ensureStarted(ctx *Context) {
	if m.started || m.def == nil {
		return
	}
	m.started = true
	m.current = m.def.Initial
	if ctx != nil && ctx.Body != nil {
		m.Home = ctx.Body.Pos
	}
	m.enter(ctx, m.current)
}

// Update advances the machine one tick: stun countdown, or while-actions,
// checkers and at most one transition.
func (m *Machine) Update(ctx *Context) {
	if m == nil || m.def == nil || ctx == nil {
		return
	}
	ctx.Machine = m
	m.ensureStarted(ctx)

	if m.current == StateStunned {
		if ctx.Body != nil {
			ctx.Body.Stop()
			ctx.Body.HitWall = false
		}
		m.events = nil
		if m.stun.Tick(ctx.Dt) {
			m.transition(ctx, m.def.Neutral)
		}
		return
	}

	if ctx.Body != nil && ctx.Body.HitWall {
		ctx.Body.HitWall = false
		m.Emit(EventHitWall)
	}

	if m.script != nil {
		m.script.update(ctx, m)
		return
	}

	sd := m.def.States[m.current]
	run(ctx, sd.While)

	if !sd.Commit {
		for _, ck := range m.def.Checkers {
			if ck.From != m.current || ck.Check == nil {
				continue
			}
			if ck.Check(ctx) {
				m.Emit(ck.Event)
				break
			}
		}
	}

	for _, ev := range m.drain() {
		if to, ok := m.def.Transitions[m.current][ev]; ok {
			m.transition(ctx, to)
			break
		}
	}
}

// Stun forces the stunned state. It refuses in stun-immune states. A second
// stun only resets the countdown.
func (m *Machine) Stun(ctx *Context, duration float64) bool {
	if m == nil || m.def == nil || duration <= 0 {
		return false
	}
	if ctx != nil {
		ctx.Machine = m
	}
	m.ensureStarted(ctx)
	if m.current != StateStunned {
		if m.def.States[m.current].StunImmune {
			return false
		}
		from := m.current
		m.exit(ctx, from)
		m.current = StateStunned
		m.events = nil
		if m.OnTransition != nil {
			m.OnTransition(from, StateStunned)
		}
	}
	m.stun.Start(duration)
	if ctx != nil && ctx.Body != nil {
		ctx.Body.Stop()
	}
	return true
}

// Redirect makes the next wander or patrol step pick a fresh direction.
func (m *Machine) Redirect() {
	if m == nil {
		return
	}
	m.wanderTimer = 0
}

// Force jumps to state to, running exit and enter actions. Archetype hooks
// use it for transitions driven by collisions rather than the tick.
func (m *Machine) Force(ctx *Context, to StateID) {
	if m == nil || m.def == nil || to == "" {
		return
	}
	if ctx != nil {
		ctx.Machine = m
	}
	m.ensureStarted(ctx)
	if m.current == StateStunned {
		return
	}
	m.transition(ctx, to)
}

func (m *Machine) transition(ctx *Context, to StateID) {
	from := m.current
	m.exit(ctx, from)
	m.current = to
	if m.def.States[to].Commit {
		m.HasHit = false
	}
	if m.OnTransition != nil {
		m.OnTransition(from, to)
	}
	m.enter(ctx, to)
}

func (m *Machine) enter(ctx *Context, s StateID) {
	if s == StateStunned {
		return
	}
	if m.script != nil {
		m.script.phase(ctx, m, "enter", s)
		return
	}
	run(ctx, m.def.States[s].OnEnter)
}

func (m *Machine) exit(ctx *Context, s StateID) {
	if s == StateStunned {
		m.stun.Clear()
		return
	}
	if m.script != nil {
		m.script.phase(ctx, m, "exit", s)
		return
	}
	run(ctx, m.def.States[s].OnExit)
}

func run(ctx *Context, actions []Action) {
	for _, a := range actions {
		if a != nil {
			a(ctx)
		}
	}
}
