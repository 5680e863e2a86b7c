package render

import (
	"screen-compositor/core"
	"screen-compositor/scene"
)

// Context is the mutable state record threaded through every render call.
// One instance exists per compositor and is reused across frames; the
// per-frame fields are overwritten each Update/Render cycle.
//
// Nested render calls that change Target, Viewport or Source must bracket
// the change with Save/Restore so every exit path (including errors) leaves
// the context as it found it.
type Context struct {
	Device Device
	Pool   *TargetPool

	// Source is the texture a consuming pass reads, or nil. The compositor
	// guarantees Source is nil again after every top-level Render.
	Source *RenderTarget

	// Target is the render target being written; nil means the backbuffer.
	Target   *RenderTarget
	Viewport core.Viewport

	Frame uint64
	Time  float32
	Delta float32

	Camera *scene.Camera
	Lights []*scene.Light

	ext map[string]any
}

func NewContext(device Device, pool *TargetPool) *Context {
	return &Context{
		Device: device,
		Pool:   pool,
	}
}

// ContextState is a saved Target/Viewport/Source snapshot for the push/pop
// discipline of nested render calls.
type ContextState struct {
	target   *RenderTarget
	viewport core.Viewport
	source   *RenderTarget
}

// Save snapshots the routing fields. Pair with a deferred Restore.
func (c *Context) Save() ContextState {
	return ContextState{target: c.Target, viewport: c.Viewport, source: c.Source}
}

// Restore reinstates a snapshot taken by Save and rebinds the device target.
func (c *Context) Restore(s ContextState) {
	c.Source = s.source
	c.SetTarget(s.target, s.viewport)
}

// SetTarget routes subsequent draws to t (nil = backbuffer) and binds it on
// the device.
func (c *Context) SetTarget(t *RenderTarget, vp core.Viewport) {
	c.Target = t
	c.Viewport = vp
	c.Device.BindTarget(t, vp)
}

// TargetViewport returns the full viewport of the current target, falling
// back to the backbuffer size for a nil target.
func (c *Context) TargetViewport() core.Viewport {
	if c.Target != nil {
		return c.Target.Viewport()
	}
	w, h := c.Device.BackbufferSize()
	return core.NewViewport(w, h)
}

// Set stores auxiliary keyed data that decoupled renderers exchange, e.g. a
// shared velocity buffer under an agreed key.
func (c *Context) Set(key string, value any) {
	if c.ext == nil {
		c.ext = make(map[string]any)
	}
	c.ext[key] = value
}

// Value fetches auxiliary data stored with Set.
func (c *Context) Value(key string) (any, bool) {
	v, ok := c.ext[key]
	return v, ok
}

// Delete removes a key set with Set.
func (c *Context) Delete(key string) {
	delete(c.ext, key)
}
