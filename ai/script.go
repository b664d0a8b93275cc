package ai

import (
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/rpgcore/prefabs"
	"github.com/sirupsen/logrus"
)

const lifecycleDispatchScript = `
if __phase == "enter" {
	onEnter(__engine, __state, __current_state)
} else if __phase == "update" {
	update(__engine, __state, __current_state)
} else if __phase == "exit" {
	onExit(__engine, __state, __current_state)
}
`

// ScriptProgram is a compiled lifecycle script shared by every instance of
// an archetype.
type ScriptProgram struct {
	Name     string
	compiled *tengo.Compiled
	initial  StateID
	commit   []StateID
	contact  string
}

// ScriptRuntime is one instance's copy of a ScriptProgram.
type ScriptRuntime struct {
	name      string
	compiled  *tengo.Compiled
	stateData *tengo.Map
	pending   StateID
}

func LoadScript(name string) (*ScriptProgram, error) {
	src, err := prefabs.LoadScript(name)
	if err != nil {
		return nil, fmt.Errorf("ai: load script %s: %w", name, err)
	}
	return CompileScript(name, src)
}

// CompileScript compiles src with the lifecycle dispatcher appended and
// resolves initial_state. The script must define onEnter, update and onExit.
func CompileScript(name string, src []byte) (*ScriptProgram, error) {
	full := string(src) + "\n" + lifecycleDispatchScript
	script := tengo.NewScript([]byte(full))
	_ = script.Add("__phase", "")
	_ = script.Add("__engine", map[string]any{})
	_ = script.Add("__state", map[string]any{})
	_ = script.Add("__current_state", "")
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("ai: compile script %s: %w", name, err)
	}

	p := &ScriptProgram{Name: name, compiled: compiled, initial: "idle"}
	rt := p.Instance()
	if err := rt.run("noop", p.initial, &tengo.ImmutableMap{Value: map[string]tengo.Object{}}); err != nil {
		return nil, fmt.Errorf("ai: run script %s: %w", name, err)
	}
	if rt.compiled.IsDefined("initial_state") {
		if s := strings.TrimSpace(objectAsString(rt.compiled.Get("initial_state").Object())); s != "" {
			p.initial = StateID(s)
		}
	}
	if rt.compiled.IsDefined("commit_states") {
		if list, ok := objectToAny(rt.compiled.Get("commit_states").Object()).([]any); ok {
			for _, item := range list {
				if s, ok := item.(string); ok && s != "" {
					p.commit = append(p.commit, StateID(s))
				}
			}
		}
	}
	if rt.compiled.IsDefined("contact") {
		p.contact = strings.TrimSpace(objectAsString(rt.compiled.Get("contact").Object()))
	}
	return p, nil
}

func (p *ScriptProgram) Initial() StateID {
	return p.initial
}

func (p *ScriptProgram) Instance() *ScriptRuntime {
	return &ScriptRuntime{
		name:      p.Name,
		compiled:  p.compiled.Clone(),
		stateData: &tengo.Map{Value: map[string]tengo.Object{}},
	}
}

// ScriptFSM describes a script-driven machine to the framework: the script
// owns transitions, the definition only carries the states the framework
// needs to know about.
func ScriptFSM(p *ScriptProgram) *FSMDef {
	def := &FSMDef{
		Initial:     p.initial,
		Neutral:     p.initial,
		States:      map[StateID]StateDef{p.initial: {}},
		Transitions: map[StateID]map[EventID]StateID{},
		Contact:     p.contact,
	}
	for _, s := range p.commit {
		def.States[s] = StateDef{Commit: true}
	}
	return def
}

// NewScriptMachine returns a machine driven by its own instance of p.
func NewScriptMachine(p *ScriptProgram) *Machine {
	m := NewMachine(ScriptFSM(p))
	m.SetScript(p.Instance())
	return m
}

func (m *Machine) SetScript(rt *ScriptRuntime) {
	if m == nil {
		return
	}
	m.script = rt
}

func (m *Machine) Scripted() bool {
	return m != nil && m.script != nil
}

func (rt *ScriptRuntime) update(ctx *Context, m *Machine) {
	events := m.drain()
	eventSet := make(map[string]bool, len(events))
	for _, ev := range events {
		eventSet[string(ev)] = true
	}
	engine := rt.engine(ctx, m, eventSet)
	if err := rt.run("update", m.current, engine); err != nil {
		rt.logError(ctx, "update", err)
		return
	}
	if rt.pending == "" || rt.pending == m.current {
		rt.pending = ""
		return
	}
	to := rt.pending
	rt.pending = ""
	m.transition(ctx, to)
}

func (rt *ScriptRuntime) phase(ctx *Context, m *Machine, phase string, s StateID) {
	engine := rt.engine(ctx, m, map[string]bool{})
	if err := rt.run(phase, s, engine); err != nil {
		rt.logError(ctx, phase, err)
	}
}

func (rt *ScriptRuntime) logError(ctx *Context, phase string, err error) {
	if ctx == nil || ctx.Log == nil {
		return
	}
	ctx.Log.WithFields(logrus.Fields{"script": rt.name, "phase": phase}).WithError(err).Error("ai: script error")
}

func (rt *ScriptRuntime) run(phase string, current StateID, engine *tengo.ImmutableMap) error {
	if rt == nil || rt.compiled == nil {
		return fmt.Errorf("nil script runtime")
	}
	if err := rt.compiled.Set("__phase", phase); err != nil {
		return err
	}
	if err := rt.compiled.Set("__engine", engine); err != nil {
		return err
	}
	if err := rt.compiled.Set("__state", rt.stateData); err != nil {
		return err
	}
	if err := rt.compiled.Set("__current_state", string(current)); err != nil {
		return err
	}
	return rt.compiled.Run()
}

func vec(v cp.Vector) tengo.Object {
	return &tengo.Array{Value: []tengo.Object{&tengo.Float{Value: v.X}, &tengo.Float{Value: v.Y}}}
}

func boolObject(b bool) tengo.Object {
	if b {
		return tengo.TrueValue
	}
	return tengo.FalseValue
}

func (rt *ScriptRuntime) engine(ctx *Context, m *Machine, eventSet map[string]bool) *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	values["transition"] = &tengo.UserFunction{Name: "transition", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		name := strings.TrimSpace(objectAsString(args[0]))
		if name == "" {
			return tengo.FalseValue, nil
		}
		rt.pending = StateID(name)
		return tengo.TrueValue, nil
	}}

	values["emit"] = &tengo.UserFunction{Name: "emit", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		name := strings.TrimSpace(objectAsString(args[0]))
		if name == "" {
			return tengo.FalseValue, nil
		}
		m.Emit(EventID(name))
		return tengo.TrueValue, nil
	}}

	values["event"] = &tengo.UserFunction{Name: "event", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		return boolObject(eventSet[strings.TrimSpace(objectAsString(args[0]))]), nil
	}}

	values["consume_event"] = &tengo.UserFunction{Name: "consume_event", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		name := strings.TrimSpace(objectAsString(args[0]))
		if !eventSet[name] {
			return tengo.FalseValue, nil
		}
		delete(eventSet, name)
		return tengo.TrueValue, nil
	}}

	values["get_position"] = &tengo.UserFunction{Name: "get_position", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if ctx == nil || ctx.Body == nil {
			return vec(cp.Vector{}), nil
		}
		return vec(ctx.Body.Pos), nil
	}}

	values["get_player_position"] = &tengo.UserFunction{Name: "get_player_position", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if ctx == nil {
			return vec(cp.Vector{}), nil
		}
		return vec(ctx.Player.Pos), nil
	}}

	values["player_found"] = &tengo.UserFunction{Name: "player_found", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return boolObject(ctx != nil && ctx.Player.Found), nil
	}}

	values["set_velocity"] = &tengo.UserFunction{Name: "set_velocity", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if ctx == nil || ctx.Body == nil || len(args) < 2 {
			return tengo.FalseValue, nil
		}
		x, _ := tengo.ToFloat64(args[0])
		y, _ := tengo.ToFloat64(args[1])
		ctx.Body.Vel = cp.Vector{X: x, Y: y}.Mult(ctx.scale())
		ctx.Body.Face(ctx.Body.Vel)
		return tengo.TrueValue, nil
	}}

	values["tuning"] = &tengo.UserFunction{Name: "tuning", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if ctx == nil || len(args) < 1 {
			return &tengo.Float{Value: 0}, nil
		}
		return &tengo.Float{Value: ctx.Value(objectAsString(args[0]))}, nil
	}}

	values["dt"] = &tengo.UserFunction{Name: "dt", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if ctx == nil {
			return &tengo.Float{Value: 0}, nil
		}
		return &tengo.Float{Value: ctx.Dt}, nil
	}}

	values["timer"] = &tengo.UserFunction{Name: "timer", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Float{Value: m.Timer}, nil
	}}

	values["action"] = &tengo.UserFunction{Name: "action", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if ctx == nil || len(args) < 1 {
			return tengo.FalseValue, nil
		}
		maker, ok := actionRegistry[strings.TrimSpace(objectAsString(args[0]))]
		if !ok {
			return tengo.FalseValue, nil
		}
		var arg any
		if len(args) > 1 {
			arg = objectToAny(args[1])
		}
		maker(arg)(ctx)
		return tengo.TrueValue, nil
	}}

	for name, maker := range actionRegistry {
		makeAction := maker
		values[name] = &tengo.UserFunction{Name: name, Value: func(args ...tengo.Object) (tengo.Object, error) {
			if ctx == nil {
				return tengo.FalseValue, nil
			}
			var arg any
			if len(args) > 0 {
				arg = objectToAny(args[0])
			}
			makeAction(arg)(ctx)
			return tengo.TrueValue, nil
		}}
	}

	for name, maker := range transitionRegistry {
		makeCheck := maker
		values[name] = &tengo.UserFunction{Name: name, Value: func(args ...tengo.Object) (tengo.Object, error) {
			if ctx == nil {
				return tengo.FalseValue, nil
			}
			var arg any
			if len(args) > 0 {
				arg = objectToAny(args[0])
			}
			return boolObject(makeCheck(arg)(ctx)), nil
		}}
	}

	return &tengo.ImmutableMap{Value: values}
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	default:
		return strings.Trim(v.String(), "\"")
	}
}

func objectToAny(obj tengo.Object) any {
	if obj == nil {
		return nil
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	case *tengo.Int:
		return int(v.Value)
	case *tengo.Float:
		return v.Value
	case *tengo.Bool:
		return !v.IsFalsy()
	case *tengo.Array:
		out := make([]any, 0, len(v.Value))
		for _, item := range v.Value {
			out = append(out, objectToAny(item))
		}
		return out
	case *tengo.ImmutableArray:
		out := make([]any, 0, len(v.Value))
		for _, item := range v.Value {
			out = append(out, objectToAny(item))
		}
		return out
	case *tengo.Map:
		out := make(map[string]any, len(v.Value))
		for k, item := range v.Value {
			out[k] = objectToAny(item)
		}
		return out
	case *tengo.ImmutableMap:
		out := make(map[string]any, len(v.Value))
		for k, item := range v.Value {
			out[k] = objectToAny(item)
		}
		return out
	case *tengo.Undefined:
		return nil
	default:
		return v.String()
	}
}
