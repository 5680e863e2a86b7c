package shadow

import (
	"sort"

	"github.com/chewxy/math32"

	"screen-compositor/scene"
)

// Importance scores how much a light's shadow matters to the given camera.
// Directional lights always score highest; local lights score by intensity
// and range over camera distance.
func Importance(l *scene.Light, cam *scene.Camera) float32 {
	if l.Type == scene.LightTypeDirectional {
		return math32.MaxFloat32
	}
	dist := l.Position.Distance(cam.Position)
	if dist < 1e-3 {
		dist = 1e-3
	}
	return l.Intensity * l.Range / dist
}

// SortByImportance orders lights most-important first, the order Allocate
// consumes so that when bins run out the least important casters are the
// ones dropped. The sort is stable, so equally scored lights keep their
// relative order.
func SortByImportance(lights []*scene.Light, cam *scene.Camera) {
	if cam == nil {
		return
	}
	sort.SliceStable(lights, func(i, j int) bool {
		return Importance(lights[i], cam) > Importance(lights[j], cam)
	})
}
