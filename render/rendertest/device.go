// Package rendertest provides a recording fake render.Device for unit tests.
// It allocates no GPU resources and records the call sequence so tests can
// assert on binding, clearing, masking and copy order.
package rendertest

import (
	"fmt"

	"screen-compositor/core"
	"screen-compositor/render"
)

// Op is one recorded device call.
type Op struct {
	Name   string
	Target *render.RenderTarget // for Bind/Copy/Destroy
	Color  core.Color           // for Clear
	Mask   render.ChannelMask   // for SetChannelMask
	Blend  render.BlendMode     // for SetBlend
}

// Device is an in-memory render.Device. The zero value is not usable; create
// it with NewDevice.
type Device struct {
	Ops []Op

	// NotReady makes Ready report false, simulating a minimized surface or
	// a device mid-reset.
	NotReady bool

	// FailCreate makes CreateTarget return an error, simulating exhaustion.
	FailCreate bool

	width, height int
	nextID        int
	live          map[int]*render.RenderTarget

	bound *render.RenderTarget
	mask  render.ChannelMask
}

func NewDevice(width, height int) *Device {
	return &Device{
		width:  width,
		height: height,
		live:   make(map[int]*render.RenderTarget),
		mask:   render.ChannelAll,
	}
}

func (d *Device) record(op Op) {
	d.Ops = append(d.Ops, op)
}

func (d *Device) Ready() bool { return !d.NotReady }

func (d *Device) CreateTarget(format render.TargetFormat) (*render.RenderTarget, error) {
	if d.FailCreate {
		return nil, fmt.Errorf("rendertest: create target refused")
	}
	d.nextID++
	t := &render.RenderTarget{Format: format, Handle: d.nextID}
	d.live[d.nextID] = t
	d.record(Op{Name: "create", Target: t})
	return t, nil
}

func (d *Device) DestroyTarget(t *render.RenderTarget) {
	if t == nil {
		return
	}
	delete(d.live, t.Handle.(int))
	d.record(Op{Name: "destroy", Target: t})
}

func (d *Device) BindTarget(t *render.RenderTarget, vp core.Viewport) {
	d.bound = t
	d.record(Op{Name: "bind", Target: t})
}

func (d *Device) Clear(c core.Color) {
	d.record(Op{Name: "clear", Target: d.bound, Color: c, Mask: d.mask})
}

func (d *Device) SetChannelMask(m render.ChannelMask) {
	d.mask = m
	d.record(Op{Name: "mask", Mask: m})
}

func (d *Device) SetBlend(m render.BlendMode) {
	d.record(Op{Name: "blend", Blend: m})
}

func (d *Device) Copy(src *render.RenderTarget) error {
	d.record(Op{Name: "copy", Target: src})
	return nil
}

func (d *Device) BackbufferSize() (int, int) {
	return d.width, d.height
}

// Bound returns the currently bound target (nil = backbuffer).
func (d *Device) Bound() *render.RenderTarget { return d.bound }

// LiveTargets returns how many created targets have not been destroyed.
func (d *Device) LiveTargets() int { return len(d.live) }

// CallNames returns the recorded op names in order, a compact way to assert
// on call sequences.
func (d *Device) CallNames() []string {
	names := make([]string, len(d.Ops))
	for i, op := range d.Ops {
		names[i] = op.Name
	}
	return names
}

// Reset clears the recorded ops but keeps live-target bookkeeping.
func (d *Device) Reset() {
	d.Ops = nil
}
