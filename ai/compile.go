package ai

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/milk9111/rpgcore/prefabs"
	"gopkg.in/yaml.v3"
)

var (
	ErrMissingInitial    = errors.New("fsm: missing initial state")
	ErrUnknownAction     = errors.New("fsm: unknown action")
	ErrUnknownTransition = errors.New("fsm: unknown transition")
	ErrUnknownState      = errors.New("fsm: unknown state")
)

type RawFSM struct {
	Initial string              `yaml:"initial"`
	Neutral string              `yaml:"neutral"`
	Contact string              `yaml:"contact"`
	States  map[string]RawState `yaml:"states"`
	// Transitions can be either map[from]map[event]to or
	// map[from][]map[condition]value where condition names are looked up
	// in the transition registry.
	Transitions map[string]any `yaml:"transitions"`
}

type RawState struct {
	OnEnter     []map[string]any `yaml:"on_enter"`
	While       []map[string]any `yaml:"while"`
	OnExit      []map[string]any `yaml:"on_exit"`
	Commit      bool             `yaml:"commit"`
	StunImmune  bool             `yaml:"stun_immune"`
	Contact     string           `yaml:"contact"`
	ContactOnce bool             `yaml:"contact_once"`
	NoContact   bool             `yaml:"no_contact"`
}

func CompileFSM(raw RawFSM) (*FSMDef, error) {
	if raw.Initial == "" {
		return nil, ErrMissingInitial
	}

	states := map[StateID]StateDef{}
	build := func(list []map[string]any) ([]Action, error) {
		if len(list) == 0 {
			return nil, nil
		}
		out := make([]Action, 0, len(list))
		for _, e := range list {
			for _, k := range sortedKeys(e) {
				makeAction, ok := actionRegistry[k]
				if !ok {
					return nil, fmt.Errorf("%w %q", ErrUnknownAction, k)
				}
				out = append(out, makeAction(e[k]))
			}
		}
		return out, nil
	}

	for name, s := range raw.States {
		onEnter, err := build(s.OnEnter)
		if err != nil {
			return nil, err
		}
		while, err := build(s.While)
		if err != nil {
			return nil, err
		}
		onExit, err := build(s.OnExit)
		if err != nil {
			return nil, err
		}
		states[StateID(name)] = StateDef{
			OnEnter:     onEnter,
			While:       while,
			OnExit:      onExit,
			Commit:      s.Commit,
			StunImmune:  s.StunImmune,
			Contact:     s.Contact,
			ContactOnce: s.ContactOnce,
			NoContact:   s.NoContact,
		}
	}

	def := &FSMDef{
		Initial:     StateID(raw.Initial),
		Neutral:     StateID(raw.Neutral),
		States:      states,
		Transitions: map[StateID]map[EventID]StateID{},
		Contact:     raw.Contact,
	}
	if def.Neutral == "" {
		def.Neutral = def.Initial
	}

	froms := make([]string, 0, len(raw.Transitions))
	for from := range raw.Transitions {
		froms = append(froms, from)
	}
	sort.Strings(froms)

	for _, from := range froms {
		fromID := StateID(from)
		def.Transitions[fromID] = map[EventID]StateID{}

		switch v := raw.Transitions[from].(type) {
		case map[string]any:
			for _, key := range sortedKeys(v) {
				// plain strings here are event mappings, even for
				// names that are also conditions (timer_expired)
				if to, isEvent := v[key].(string); isEvent {
					def.Transitions[fromID][EventID(key)] = StateID(to)
					continue
				}
				if err := def.addTransition(fromID, key, key, v[key]); err != nil {
					return nil, err
				}
			}
		case []any:
			for i, item := range v {
				m, ok := item.(map[string]any)
				if !ok {
					return nil, fmt.Errorf("fsm: invalid transition entry %v", item)
				}
				for _, key := range sortedKeys(m) {
					if err := def.addTransition(fromID, key, fmt.Sprint(i), m[key]); err != nil {
						return nil, err
					}
				}
			}
		default:
			return nil, fmt.Errorf("fsm: invalid transitions type for state %s", from)
		}
	}

	if err := def.Validate(); err != nil {
		return nil, err
	}
	return def, nil
}

// addTransition adds either a registry checker (key names a condition) or
// a plain event mapping.
func (d *FSMDef) addTransition(from StateID, key, suffix string, val any) error {
	if maker, ok := transitionRegistry[key]; ok {
		var toState string
		var arg any
		switch tv := val.(type) {
		case map[string]any:
			toState, _ = tv["to"].(string)
			arg = tv["arg"]
		case string:
			toState = tv
		}
		if toState == "" {
			return fmt.Errorf("fsm: missing to state for transition %s.%s", from, key)
		}
		eid := EventID(fmt.Sprintf("__cond_%s_%s", from, suffix))
		d.Transitions[from][eid] = StateID(toState)
		d.Checkers = append(d.Checkers, TransitionCheckerDef{From: from, Event: eid, Check: maker(arg)})
		return nil
	}
	toState, ok := val.(string)
	if !ok {
		if _, isMap := val.(map[string]any); isMap {
			return fmt.Errorf("%w %q", ErrUnknownTransition, key)
		}
		return fmt.Errorf("fsm: invalid transition mapping for %s -> %v", key, val)
	}
	d.Transitions[from][EventID(key)] = StateID(toState)
	return nil
}

// Validate checks that every referenced state is defined.
func (d *FSMDef) Validate() error {
	if d == nil || d.Initial == "" {
		return ErrMissingInitial
	}
	known := func(s StateID) bool {
		if s == StateStunned {
			return true
		}
		_, ok := d.States[s]
		return ok
	}
	if !known(d.Initial) {
		return fmt.Errorf("%w %q (initial)", ErrUnknownState, d.Initial)
	}
	if d.Neutral != "" && !known(d.Neutral) {
		return fmt.Errorf("%w %q (neutral)", ErrUnknownState, d.Neutral)
	}
	for from, evs := range d.Transitions {
		if !known(from) {
			return fmt.Errorf("%w %q", ErrUnknownState, from)
		}
		for ev, to := range evs {
			if !known(to) {
				return fmt.Errorf("%w %q (from %s on %s)", ErrUnknownState, to, from, ev)
			}
		}
	}
	return nil
}

func LoadFSM(name string) (*FSMDef, error) {
	if build, ok := builtinFSMs[name]; ok {
		return build(), nil
	}
	path := name
	if !strings.HasPrefix(path, "fsm/") {
		path = "fsm/" + path
	}
	if !strings.HasSuffix(path, ".yaml") {
		path += ".yaml"
	}
	data, err := prefabs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("fsm: load %s: %w", path, err)
	}
	var raw RawFSM
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("fsm: unmarshal %s: %w", path, err)
	}
	def, err := CompileFSM(raw)
	if err != nil {
		return nil, fmt.Errorf("fsm: compile %s: %w", path, err)
	}
	return def, nil
}

// Builder assembles an FSMDef in Go. Checkers fire in the order they were
// added.
type Builder struct {
	def *FSMDef
	n   int
}

func NewBuilder(initial StateID) *Builder {
	return &Builder{def: &FSMDef{
		Initial:     initial,
		Neutral:     initial,
		States:      map[StateID]StateDef{},
		Transitions: map[StateID]map[EventID]StateID{},
	}}
}

func (b *Builder) Neutral(s StateID) *Builder {
	b.def.Neutral = s
	return b
}

// Contact sets the default touch-damage tuning key.
func (b *Builder) Contact(key string) *Builder {
	b.def.Contact = key
	return b
}

func (b *Builder) State(s StateID, def StateDef) *Builder {
	b.def.States[s] = def
	return b
}

// On maps an event in state from to state to.
func (b *Builder) On(from StateID, ev EventID, to StateID) *Builder {
	if b.def.Transitions[from] == nil {
		b.def.Transitions[from] = map[EventID]StateID{}
	}
	b.def.Transitions[from][ev] = to
	return b
}

// When adds a checker evaluated while in from.
func (b *Builder) When(from StateID, check TransitionChecker, to StateID) *Builder {
	ev := EventID(fmt.Sprintf("__cond_%s_%d", from, b.n))
	b.n++
	b.On(from, ev, to)
	b.def.Checkers = append(b.def.Checkers, TransitionCheckerDef{From: from, Event: ev, Check: check})
	return b
}

func (b *Builder) Build() (*FSMDef, error) {
	if err := b.def.Validate(); err != nil {
		return nil, err
	}
	return b.def, nil
}

// MustBuild is Build for definitions fixed at compile time.
func (b *Builder) MustBuild() *FSMDef {
	def, err := b.Build()
	if err != nil {
		panic(err)
	}
	return def
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
