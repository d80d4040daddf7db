package lightstore

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

// SceneDef is the on-disk description of a scene's light setup, consumed by
// editor/tooling code. Loading a scene funnels everything through one
// validated BulkAdd per store, so a bad file never half-applies.
type SceneDef struct {
	Lights []LightDef `yaml:"lights"`
}

// LightDef defines one light instantiation.
type LightDef struct {
	Id       EntityId   `yaml:"id"`
	Name     string     `yaml:"name,omitempty"` // empty: auto-generated
	Kind     string     `yaml:"kind"`           // directional | point | spot
	Ambient  [4]float32 `yaml:"ambient"`
	Diffuse  [4]float32 `yaml:"diffuse"`
	Specular [4]float32 `yaml:"specular"`
	Att      [3]float32 `yaml:"attenuation,omitempty"`
	Range    float32    `yaml:"range,omitempty"`
	SpotExp  float32    `yaml:"spot_exp,omitempty"`
	Inactive bool       `yaml:"inactive,omitempty"`
}

func parseLightKind(s string) (LightKind, error) {
	switch s {
	case "directional":
		return LightDirectional, nil
	case "point":
		return LightPoint, nil
	case "spot":
		return LightSpot, nil
	}
	return 0, fmt.Errorf("unknown light kind %q", s)
}

func LoadSceneFile(path string) (*SceneDef, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var def SceneDef
	if err := yaml.Unmarshal(raw, &def); err != nil {
		return nil, fmt.Errorf("parse scene %s: %w", path, err)
	}
	return &def, nil
}

// Apply inserts every light of the scene into store and registers its name.
// All-or-nothing across both stores: if the registry rejects the names, the
// lights just added are removed again before returning.
func (d *SceneDef) Apply(store *LightStore, reg *NameRegistry) error {
	var batch LightBatch
	names := make([]string, 0, len(d.Lights))

	for i, def := range d.Lights {
		kind, err := parseLightKind(def.Kind)
		if err != nil {
			return fmt.Errorf("light %d: %w", i, err)
		}

		batch.Ids = append(batch.Ids, def.Id)
		batch.Kinds = append(batch.Kinds, kind)

		ambient := mgl32.Vec4(def.Ambient)
		diffuse := mgl32.Vec4(def.Diffuse)
		specular := mgl32.Vec4(def.Specular)
		switch kind {
		case LightDirectional:
			batch.Dir = append(batch.Dir, DirLightParams{
				Ambient:  ambient,
				Diffuse:  diffuse,
				Specular: specular,
			})
		case LightPoint:
			batch.Point = append(batch.Point, PointLightParams{
				Ambient:  ambient,
				Diffuse:  diffuse,
				Specular: specular,
				Att:      mgl32.Vec3(def.Att),
				Range:    def.Range,
			})
		case LightSpot:
			batch.Spot = append(batch.Spot, SpotLightParams{
				Ambient:  ambient,
				Diffuse:  diffuse,
				Specular: specular,
				Att:      mgl32.Vec3(def.Att),
				Range:    def.Range,
				SpotExp:  def.SpotExp,
			})
		}

		name := def.Name
		if name == "" {
			name = reg.UniqueName("light")
		}
		names = append(names, name)
	}

	if err := store.BulkAdd(batch); err != nil {
		return err
	}
	if err := reg.BulkAdd(batch.Ids, names); err != nil {
		for _, id := range batch.Ids {
			_ = store.Remove(id)
		}
		return err
	}

	for _, def := range d.Lights {
		if def.Inactive {
			_ = store.SetActive(def.Id, false)
		}
	}
	return nil
}

// Clear is the inverse of Apply for hot-reload paths: it removes every
// named light from both stores.
func (d *SceneDef) Clear(store *LightStore, reg *NameRegistry) {
	for _, def := range d.Lights {
		_ = store.Remove(def.Id)
		_ = reg.Remove(def.Id)
	}
}
