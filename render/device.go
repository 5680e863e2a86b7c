package render

import (
	"screen-compositor/core"
)

// ChannelMask selects which color channels a draw may write. Shadow-mask
// rendering isolates each light to a single channel of a shared texture.
type ChannelMask uint8

const (
	ChannelR ChannelMask = 1 << iota
	ChannelG
	ChannelB
	ChannelA

	ChannelAll = ChannelR | ChannelG | ChannelB | ChannelA
)

// MaskForChannel maps a channel index 0..3 to its write mask.
func MaskForChannel(channel int) ChannelMask {
	return ChannelMask(1) << uint(channel)
}

// BlendMode is the fixed-function blend state a renderer may request.
type BlendMode int

const (
	BlendNone     BlendMode = iota // overwrite
	BlendAlpha                     // classic src-alpha over
	BlendModulate                  // dst *= src; shadow accumulation into a lit mask
)

// Device is the synchronous graphics backend the compositor drives. All
// calls happen on one thread in program order; implementations are not
// required to be safe for concurrent use.
//
// internal/opengl provides the production implementation; rendertest
// provides a recording fake for unit tests.
type Device interface {
	// Ready reports whether the device can accept a frame. False triggers
	// an early frame-skip (minimized window, device lost mid-reset).
	Ready() bool

	// CreateTarget allocates a render target for the resolved format.
	CreateTarget(format TargetFormat) (*RenderTarget, error)

	// DestroyTarget releases the target's GPU resources. Nil is a no-op.
	DestroyTarget(t *RenderTarget)

	// BindTarget makes t the active render target with the given viewport.
	// A nil target binds the backbuffer.
	BindTarget(t *RenderTarget, vp core.Viewport)

	// Clear fills the bound target's color attachment, honoring the current
	// channel mask, and clears any depth attachment to the far plane.
	Clear(c core.Color)

	// SetChannelMask restricts subsequent writes to the masked channels.
	SetChannelMask(m ChannelMask)

	// SetBlend sets the blend state for subsequent draws.
	SetBlend(m BlendMode)

	// Copy draws src into the currently bound target, stretched to the
	// bound viewport. An identity copy when formats and sizes match.
	Copy(src *RenderTarget) error

	// BackbufferSize returns the current output surface dimensions.
	BackbufferSize() (width, height int)
}
