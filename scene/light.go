package scene

import (
	"screen-compositor/core"
	"screen-compositor/math"
)

// Light types
const (
	LightTypeDirectional = iota
	LightTypePoint
	LightTypeSpot
)

// directionalBoundsRadius is the influence radius used for directional
// lights, which reach the whole scene. Any finite-range light overlaps it, so
// a shadow-casting directional light always claims a channel of its own.
const directionalBoundsRadius = 1e6

// Light represents a light source. ShadowCaster marks it as a candidate for
// the per-frame shadow-channel allocation; the allocator never mutates the
// light itself.
type Light struct {
	Type         int
	Position     math.Vec3
	Direction    math.Vec3
	Color        core.Color
	Intensity    float32
	Range        float32
	SpotAngle    float32
	ShadowCaster bool
}

// InfluenceBounds returns the world-space volume the light can affect,
// used as the spatial contact test for shadow-channel packing.
func (l *Light) InfluenceBounds() math.Sphere {
	if l.Type == LightTypeDirectional {
		return math.NewSphere(math.Vec3Zero, directionalBoundsRadius)
	}
	return math.NewSphere(l.Position, l.Range)
}

// NewPointLight is a convenience constructor for the common case.
func NewPointLight(pos math.Vec3, color core.Color, intensity, rng float32) *Light {
	return &Light{
		Type:      LightTypePoint,
		Position:  pos,
		Color:     color,
		Intensity: intensity,
		Range:     rng,
	}
}
