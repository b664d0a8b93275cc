package prefabs

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestLoadArchetypeSpec(t *testing.T) {
	spec, err := LoadArchetypeSpec("slime")
	require.NoError(t, err)
	assert.Equal(t, "slime", spec.Name)
	assert.Equal(t, 2, spec.Health)
	assert.Equal(t, 5.0, spec.Tuning["chase_range"])
	assert.Equal(t, []string{"heart", "rupee"}, spec.Loot.Drops)

	same, err := LoadArchetypeSpec("archetypes/slime.yaml")
	require.NoError(t, err)
	assert.Equal(t, spec.Tuning, same.Tuning)

	_, err = LoadArchetypeSpec("dragon")
	assert.Error(t, err)
}

func TestEveryArchetypeHasAStateMachine(t *testing.T) {
	names, err := ArchetypeNames()
	require.NoError(t, err)
	require.NotEmpty(t, names)
	for _, name := range names {
		spec, err := LoadArchetypeSpec(name)
		require.NoError(t, err, name)
		assert.Positive(t, spec.Health, name)
		assert.Positive(t, spec.Radius, name)
		assert.NotEmpty(t, spec.Behavior, name)
		assert.True(t, spec.FSM != "" || spec.Script != "", "%s needs fsm or script", name)
	}
}

func TestSplitterTiers(t *testing.T) {
	spec, err := LoadArchetypeSpec("splitter")
	require.NoError(t, err)
	require.Len(t, spec.Tiers, 3)
	assert.Equal(t, 3, spec.Tiers[0].Health)
	assert.Equal(t, 1, spec.Tiers[2].Health)
	assert.Greater(t, spec.Tiers[0].Radius, spec.Tiers[2].Radius)
}

func TestLoadPlayerAndArena(t *testing.T) {
	p, err := LoadPlayerSpec()
	require.NoError(t, err)
	assert.Equal(t, 3, p.MaxHealth)
	assert.Equal(t, 30, p.Arrows)

	a, err := LoadArenaSpec("")
	require.NoError(t, err)
	assert.Positive(t, a.Width)
	assert.NotEmpty(t, a.Spawns)
	require.NotEmpty(t, a.CrackedWalls)
	assert.Equal(t, 2, a.CrackedWalls[0].Health)
	assert.Positive(t, a.CrackedWalls[0].Height)
}

func TestLoadScript(t *testing.T) {
	for _, name := range []string{"wisp", "wisp.tengo", "scripts/wisp.tengo", "prefabs/scripts/wisp.tengo"} {
		src, err := LoadScript(name)
		require.NoError(t, err, name)
		assert.Contains(t, string(src), "initial_state")
	}
}

func TestDiskOverride(t *testing.T) {
	dir := t.TempDir()
	old := DiskRoot()
	SetDiskRoot(dir)
	t.Cleanup(func() { SetDiskRoot(old) })

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "archetypes"), 0o755))
	override := []byte("name: slime\nbehavior: basic\nfsm: slime\nhealth: 9\nradius: 1\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "archetypes", "slime.yaml"), override, 0o644))

	spec, err := LoadArchetypeSpec("slime")
	require.NoError(t, err)
	assert.Equal(t, 9, spec.Health)

	_, ok := ModTime("archetypes/slime.yaml")
	assert.True(t, ok)
	_, ok = ModTime("archetypes/bat.yaml")
	assert.False(t, ok)

	bat, err := LoadArchetypeSpec("bat")
	require.NoError(t, err)
	assert.Equal(t, 1, bat.Health)

	name, ok := RelativeName(filepath.Join(dir, "archetypes", "slime.yaml"))
	require.True(t, ok)
	assert.Equal(t, "archetypes/slime.yaml", name)
	assert.Equal(t, []string{dir, filepath.Join(dir, "archetypes")}, WatchDirs())
}

func TestYAMLColor(t *testing.T) {
	var c struct {
		Color *YAMLColor `yaml:"color"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(`color: "#ff800080"`), &c))
	assert.Equal(t, color.NRGBA{R: 255, G: 128, B: 0, A: 128}, c.Color.Color)

	out, err := yaml.Marshal(c)
	require.NoError(t, err)
	assert.Contains(t, string(out), "#ff800080")

	assert.Error(t, yaml.Unmarshal([]byte(`color: "#fff"`), &c))

	var unset *YAMLColor
	def := color.RGBA{R: 1, G: 2, B: 3, A: 255}
	assert.Equal(t, def, unset.RGBA8(def))
}

func TestWatcherReportsSpecEdits(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bat.yaml"), []byte("health: 2"), 0o644))

	select {
	case name := <-w.Events:
		assert.Equal(t, "bat.yaml", filepath.Base(name))
	case <-time.After(2 * time.Second):
		t.Fatal("no watcher event")
	}
}
