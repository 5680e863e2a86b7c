package render

import "screen-compositor/core"

// RenderTarget is a handle to a device texture that can be rendered into and
// sampled from. A target has exactly one owner at any time: the pool while it
// sits on the free list, otherwise the caller that obtained it. Using a
// handle after recycling it is a caller error.
type RenderTarget struct {
	// Format is the fully resolved format the target was created with.
	Format TargetFormat

	// Handle is the device-specific payload (FBO and texture ids for the GL
	// backend). Only the owning Device interprets it.
	Handle any
}

// Viewport returns the target's full-size viewport.
func (t *RenderTarget) Viewport() core.Viewport {
	return core.NewViewport(t.Format.Width, t.Format.Height)
}

// Width and Height are convenience accessors for the resolved dimensions.
func (t *RenderTarget) Width() int  { return t.Format.Width }
func (t *RenderTarget) Height() int { return t.Format.Height }
