package shadow

import (
	"screen-compositor/math"
	"screen-compositor/render"
	"screen-compositor/scene"
)

// ChannelsPerMask is the number of independently assignable 8-bit channels
// in one shadow-mask texture.
const ChannelsPerMask = 4

// State tracks a job through its per-frame lifecycle. Nothing survives
// RecycleShadowMasks; assignment is recomputed from scratch every frame.
type State int

const (
	StateUnassigned State = iota
	StateAssigned
	StateRendered
)

func (s State) String() string {
	switch s {
	case StateAssigned:
		return "assigned"
	case StateRendered:
		return "rendered"
	default:
		return "unassigned"
	}
}

// Descriptor carries the per-light shadow parameters the allocator and the
// shadow renderers need. Bounds is the volume used by the contact test.
type Descriptor struct {
	Bounds   math.Sphere
	Softness float32
}

// Job is one shadow-casting draw: a (light, descriptor, renderer) tuple plus
// the channel-bin slot and sort key assigned for this frame. Jobs are the
// nodes handed to the pluggable shadow renderers.
type Job struct {
	Light      *scene.Light
	Descriptor Descriptor

	renderer   render.Renderer
	rendererID uint8
	bin        int
	key        uint32
	state      State
}

// Mask returns the index of the shadow-mask texture the job writes.
func (j *Job) Mask() int {
	return j.bin / ChannelsPerMask
}

// Channel returns the 0..3 channel within the mask.
func (j *Job) Channel() int {
	return j.bin % ChannelsPerMask
}

// ChannelMask returns the device write mask isolating the job's channel.
func (j *Job) ChannelMask() render.ChannelMask {
	return render.MaskForChannel(j.Channel())
}

// Key returns the batching sort key: (maskIndex:8, rendererOrder:8,
// rendererID:8). Sorting by it makes same-mask jobs contiguous and, within a
// mask, same-renderer jobs contiguous.
func (j *Job) Key() uint32 {
	return j.key
}

// State returns the job's position in the per-frame lifecycle.
func (j *Job) State() State {
	return j.state
}

func sortKey(mask int, order int, id uint8) uint32 {
	return uint32(mask&0xff)<<16 | uint32(clampByte(order))<<8 | uint32(id)
}

func clampByte(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
