package ai

// builtinFSMs are machines assembled in Go. LoadFSM resolves these names
// before looking for a prefab file.
var builtinFSMs = map[string]func() *FSMDef{
	"wander_chase": wanderChase,
}

// wanderChase roams until the player is within chase_range, then chases
// until the player leaves it.
func wanderChase() *FSMDef {
	const (
		stWander StateID = "wander"
		stChase  StateID = "chase"
	)
	return NewBuilder(stWander).
		Contact("contact_damage").
		State(stWander, StateDef{While: []Action{Act("wander", "wander_speed")}}).
		State(stChase, StateDef{While: []Action{Act("chase", "chase_speed")}}).
		When(stWander, When("player_within", "chase_range"), stChase).
		When(stChase, When("player_beyond", "chase_range"), stWander).
		MustBuild()
}
