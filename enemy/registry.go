package enemy

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/rpgcore/ai"
	"github.com/milk9111/rpgcore/combat"
	"github.com/milk9111/rpgcore/ecs/component"
	"github.com/milk9111/rpgcore/prefabs"
	"github.com/milk9111/rpgcore/status"
	"github.com/milk9111/rpgcore/weapon"
	"github.com/sirupsen/logrus"
)

var (
	ErrUnknownArchetype = errors.New("enemy: unknown archetype")
	ErrUnknownBehavior  = errors.New("enemy: unknown behavior")
)

// Archetype is a loaded, compiled enemy kind.
type Archetype struct {
	Spec   prefabs.ArchetypeSpec
	FSM    *ai.FSMDef
	Script *ai.ScriptProgram
}

// Tiers returns how many sizes the archetype comes in; 1 when untiered.
func (a *Archetype) Tiers() int {
	return max(1, len(a.Spec.Tiers))
}

// Registry caches archetypes by name and builds enemies from them.
type Registry struct {
	archetypes map[string]*Archetype
	nextID     int
}

func NewRegistry() *Registry {
	return &Registry{archetypes: map[string]*Archetype{}}
}

// Load returns the cached archetype, compiling it on first use.
func (r *Registry) Load(name string) (*Archetype, error) {
	if a, ok := r.archetypes[name]; ok {
		return a, nil
	}
	return r.Reload(name)
}

// Reload re-reads an archetype from disk or the embedded prefabs and
// replaces the cached copy. Live enemies keep their old machine.
func (r *Registry) Reload(name string) (*Archetype, error) {
	spec, err := prefabs.LoadArchetypeSpec(name)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrUnknownArchetype, name, err)
	}
	if _, ok := factories[spec.Behavior]; !ok {
		return nil, fmt.Errorf("%w %q for archetype %q", ErrUnknownBehavior, spec.Behavior, name)
	}

	a := &Archetype{Spec: spec}
	switch {
	case spec.Script != "":
		a.Script, err = ai.LoadScript(spec.Script)
	case spec.FSM != "":
		a.FSM, err = ai.LoadFSM(spec.FSM)
	default:
		err = errors.New("no fsm or script")
	}
	if err != nil {
		return nil, fmt.Errorf("enemy: archetype %q: %w", name, err)
	}
	r.archetypes[spec.Name] = a
	if spec.Name != name {
		r.archetypes[name] = a
	}
	return a, nil
}

// LoadAll compiles every embedded archetype.
func (r *Registry) LoadAll() error {
	names, err := prefabs.ArchetypeNames()
	if err != nil {
		return err
	}
	var errs []error
	for _, name := range names {
		if _, err := r.Reload(name); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Spawn builds a live enemy of the named archetype at pos. Out of range
// tiers clamp to the nearest valid one.
func (r *Registry) Spawn(name string, tier int, pos cp.Vector, env Env) (*Enemy, error) {
	a, err := r.Load(name)
	if err != nil {
		return nil, err
	}
	spec := a.Spec
	tier = max(0, min(tier, a.Tiers()-1))

	health, radius := spec.Health, spec.Radius
	if len(spec.Tiers) > 0 {
		t := spec.Tiers[tier]
		if t.Health > 0 {
			health = t.Health
		}
		if t.Radius > 0 {
			radius = t.Radius
		}
	}
	if radius <= 0 {
		radius = 0.4
	}

	rng := randOf(env)
	r.nextID++
	e := &Enemy{
		ID:        r.nextID,
		Archetype: spec.Name,
		Tier:      tier,
		Body: component.Body{
			Pos:     pos,
			Facing:  cp.Vector{Y: 1},
			Radius:  radius,
			Solid:   !spec.Flying,
			Bounded: true,
		},
		Tuning:   ai.Tuning(spec.Tuning).Clone(),
		Behavior: factories[spec.Behavior](spec, rng),
		Loot:     weapon.Dropper{Chance: spec.Loot.Chance, Drops: spec.Loot.Drops},
		vitals:   combat.NewVitals(health),
		stats:    status.Stats{MoveSpeed: 1, Tint: spec.Color.RGBA8(DefaultTint)},
		env:      env,
	}
	e.vitals.Armor = spec.Armor

	if a.Script != nil {
		e.Machine = ai.NewScriptMachine(a.Script)
	} else {
		e.Machine = ai.NewMachine(a.FSM)
	}
	if env != nil && env.Log() != nil {
		e.log = env.Log().WithFields(logrus.Fields{"enemy": e.ID, "archetype": spec.Name, "tier": tier})
	}
	e.Machine.OnTransition = func(from, to ai.StateID) {
		if e.log != nil {
			e.log.WithFields(logrus.Fields{"from": from, "to": to}).Debug("enemy: transition")
		}
		e.Behavior.Enter(e, from, to)
	}
	return e, nil
}

// Names lists the archetypes loaded so far.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.archetypes))
	for name, a := range r.archetypes {
		if name == a.Spec.Name {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

func randOf(env Env) *rand.Rand {
	if env == nil {
		return nil
	}
	return env.Rand()
}
