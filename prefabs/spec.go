package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// ArchetypeSpec is one enemy kind. Behavior picks the Go hooks; FSM or
// Script picks the state machine.
type ArchetypeSpec struct {
	Name     string             `yaml:"name"`
	Behavior string             `yaml:"behavior"`
	Health   int                `yaml:"health"`
	Radius   float64            `yaml:"radius"`
	Armor    bool               `yaml:"armor"`
	Flying   bool               `yaml:"flying"`
	FSM      string             `yaml:"fsm"`
	Script   string             `yaml:"script"`
	Color    *YAMLColor         `yaml:"color"`
	Tuning   map[string]float64 `yaml:"tuning"`
	Loot     LootSpec           `yaml:"loot"`
	Tiers    []TierSpec         `yaml:"tiers"`
}

type LootSpec struct {
	Chance float64  `yaml:"chance"`
	Drops  []string `yaml:"drops"`
}

// TierSpec overrides health and size for one tier of a splitting archetype,
// largest first.
type TierSpec struct {
	Name   string  `yaml:"name"`
	Health int     `yaml:"health"`
	Radius float64 `yaml:"radius"`
}

func LoadArchetypeSpec(name string) (ArchetypeSpec, error) {
	file := name
	if !strings.HasPrefix(file, "archetypes/") {
		file = "archetypes/" + file
	}
	if !strings.HasSuffix(file, ".yaml") {
		file += ".yaml"
	}
	spec, err := LoadSpec[ArchetypeSpec](file)
	if err != nil {
		return ArchetypeSpec{}, err
	}
	if spec.Name == "" {
		spec.Name = strings.TrimSuffix(strings.TrimPrefix(file, "archetypes/"), ".yaml")
	}
	return spec, nil
}

// ArchetypeNames lists the embedded archetypes.
func ArchetypeNames() ([]string, error) {
	return List("archetypes")
}

type PlayerSpec struct {
	Name           string     `yaml:"name"`
	MoveSpeed      float64    `yaml:"move_speed"`
	Radius         float64    `yaml:"radius"`
	MaxHealth      int        `yaml:"max_health"`
	IFrames        float64    `yaml:"iframes"`
	Lives          int        `yaml:"lives"`
	Arrows         int        `yaml:"arrows"`
	Bombs          int        `yaml:"bombs"`
	FireRate       float64    `yaml:"fire_rate"`
	ShieldArc      float64    `yaml:"shield_arc"`
	Class          string     `yaml:"class"`
	Unlocks        []string   `yaml:"unlocks"`
	Color          *YAMLColor `yaml:"color"`
	BeamSpawnAhead float64    `yaml:"beam_spawn_ahead"`
}

func LoadPlayerSpec() (*PlayerSpec, error) {
	spec, err := LoadSpec[PlayerSpec]("player.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// ArenaSpec is one room: bounds, static geometry, clutter and spawns.
type ArenaSpec struct {
	Name         string            `yaml:"name"`
	Width        float64           `yaml:"width"`
	Height       float64           `yaml:"height"`
	PlayerSpawn  PointSpec         `yaml:"player_spawn"`
	Walls        []BoxSpec         `yaml:"walls"`
	CrackedWalls []CrackedWallSpec `yaml:"cracked_walls"`
	Breakables   []BreakableSpec   `yaml:"breakables"`
	Spawns       []SpawnSpec       `yaml:"spawns"`
	Pickups      []PickupSpec      `yaml:"pickups"`
}

type PointSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// BoxSpec is an axis-aligned box from its top-left corner.
type BoxSpec struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type CrackedWallSpec struct {
	BoxSpec `yaml:",inline"`
	Health  int `yaml:"health"`
}

type BreakableSpec struct {
	PointSpec `yaml:",inline"`
	Radius    float64  `yaml:"radius"`
	Health    int      `yaml:"health"`
	Loot      LootSpec `yaml:"loot"`
}

type SpawnSpec struct {
	PointSpec `yaml:",inline"`
	Archetype string `yaml:"archetype"`
	Tier      int    `yaml:"tier"`
}

type PickupSpec struct {
	PointSpec `yaml:",inline"`
	Kind      string `yaml:"kind"`
	Amount    int    `yaml:"amount"`
}

func LoadArenaSpec(name string) (*ArenaSpec, error) {
	if name == "" {
		name = "arena.yaml"
	}
	if !strings.HasSuffix(name, ".yaml") {
		name += ".yaml"
	}
	spec, err := LoadSpec[ArenaSpec](name)
	if err != nil {
		return nil, err
	}
	if spec.Width <= 0 || spec.Height <= 0 {
		return nil, fmt.Errorf("prefabs: arena %s: size must be positive", name)
	}
	return &spec, nil
}

type YAMLColor struct {
	color.Color
}

// RGBA8 converts to color.RGBA, falling back to def when unset.
func (c *YAMLColor) RGBA8(def color.RGBA) color.RGBA {
	if c == nil || c.Color == nil {
		return def
	}
	return color.RGBAModel.Convert(c.Color).(color.RGBA)
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}

func (c YAMLColor) MarshalYAML() (any, error) {
	if c.Color == nil {
		return "", nil
	}
	r := color.NRGBAModel.Convert(c.Color).(color.NRGBA)
	return fmt.Sprintf("#%02x%02x%02x%02x", r.R, r.G, r.B, r.A), nil
}
