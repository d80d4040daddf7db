package lightstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testScene = `
lights:
  - id: 1
    name: sun
    kind: directional
    ambient: [0.2, 0.2, 0.2, 1.0]
    diffuse: [1.0, 0.95, 0.9, 1.0]
    specular: [0.6, 0.6, 0.6, 1.0]
  - id: 2
    name: torch
    kind: point
    diffuse: [1.0, 0.6, 0.2, 1.0]
    attenuation: [0.0, 0.1, 0.02]
    range: 12.5
  - id: 3
    kind: spot
    diffuse: [1.0, 1.0, 1.0, 1.0]
    attenuation: [1.0, 0.05, 0.01]
    range: 30
    spot_exp: 8
    inactive: true
`

func writeScene(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestScene_LoadAndApply(t *testing.T) {
	def, err := LoadSceneFile(writeScene(t, testScene))
	require.NoError(t, err)
	require.Len(t, def.Lights, 3)

	store := NewLightStore()
	reg := NewNameRegistry()
	require.NoError(t, def.Apply(store, reg))

	assert.Equal(t, 3, store.Len())
	assert.Equal(t, 1, store.DirCount())
	assert.Equal(t, 1, store.PointCount())
	assert.Equal(t, 1, store.SpotCount())

	id, err := reg.GetIdByName("sun")
	require.NoError(t, err)
	assert.Equal(t, EntityId(1), id)

	// The unnamed spot light got an auto-generated name
	name, err := reg.GetNameById(3)
	require.NoError(t, err)
	assert.NotEmpty(t, name)

	// Attenuation clamp ran at insert
	p, err := store.Point(2)
	require.NoError(t, err)
	assert.Equal(t, mgl32.Vec3{0.01, 0.1, 0.02}, p.Att)
	assert.Equal(t, float32(12.5), p.Range)

	active, err := store.IsActive(3)
	require.NoError(t, err)
	assert.False(t, active, "inactive: true must clear the active flag")
	active, err = store.IsActive(1)
	require.NoError(t, err)
	assert.True(t, active)
}

func TestScene_ApplyRejectsBadKind(t *testing.T) {
	def := &SceneDef{Lights: []LightDef{{Id: 1, Kind: "ambient"}}}
	store := NewLightStore()
	reg := NewNameRegistry()

	require.Error(t, def.Apply(store, reg))
	assert.Equal(t, 0, store.Len())
	assert.Equal(t, 0, reg.Len())
}

func TestScene_ApplyRollsBackOnNameConflict(t *testing.T) {
	store := NewLightStore()
	reg := NewNameRegistry()
	require.NoError(t, reg.BulkAdd([]EntityId{99}, []string{"sun"}))

	def, err := LoadSceneFile(writeScene(t, testScene))
	require.NoError(t, err)

	err = def.Apply(store, reg)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	// Lights added before the registry rejection were rolled back
	assert.Equal(t, 0, store.Len())
	assert.Equal(t, 1, reg.Len())
}

func TestScene_ClearRemovesAppliedLights(t *testing.T) {
	def, err := LoadSceneFile(writeScene(t, testScene))
	require.NoError(t, err)

	store := NewLightStore()
	reg := NewNameRegistry()
	require.NoError(t, def.Apply(store, reg))

	def.Clear(store, reg)
	assert.Equal(t, 0, store.Len())
	assert.Equal(t, 0, reg.Len())
}
