package lightstore

import (
	"github.com/go-gl/mathgl/mgl32"
)

// EntityId is an opaque handle identifying one entity in the owning ECS.
// It carries no meaning beyond identity.
type EntityId uint64

type LightKind uint32

const (
	LightDirectional LightKind = 0
	LightPoint       LightKind = 1
	LightSpot        LightKind = 2
)

func (k LightKind) String() string {
	switch k {
	case LightDirectional:
		return "directional"
	case LightPoint:
		return "point"
	case LightSpot:
		return "spot"
	}
	return "unknown"
}

func (k LightKind) valid() bool {
	return k <= LightSpot
}

// AttenuationFloor is the minimum value any attenuation coefficient may
// hold. Coefficients at or below the floor are raised to it at insert time
// so the falloff term 1/(a0 + a1*d + a2*d^2) can never blow up downstream.
const AttenuationFloor float32 = 0.01

// DirLightParams describes a directional light. Direction is owned by the
// entity's transform, not stored here.
type DirLightParams struct {
	Ambient  mgl32.Vec4
	Diffuse  mgl32.Vec4
	Specular mgl32.Vec4
}

// PointLightParams describes a point light. Att holds the three attenuation
// coefficients (a0, a1, a2); points farther than Range are not lit.
type PointLightParams struct {
	Ambient  mgl32.Vec4
	Diffuse  mgl32.Vec4
	Specular mgl32.Vec4
	Att      mgl32.Vec3
	Range    float32
}

// SpotLightParams is PointLightParams plus the exponent controlling the
// spotlight cone falloff.
type SpotLightParams struct {
	Ambient  mgl32.Vec4
	Diffuse  mgl32.Vec4
	Specular mgl32.Vec4
	Att      mgl32.Vec3
	Range    float32
	SpotExp  float32
}

// clampAttenuation applies AttenuationFloor to each coefficient. Called
// exactly once, at insert; stored values are never re-clamped on read.
func clampAttenuation(att mgl32.Vec3) mgl32.Vec3 {
	for i := 0; i < 3; i++ {
		if att[i] <= AttenuationFloor {
			att[i] = AttenuationFloor
		}
	}
	return att
}
