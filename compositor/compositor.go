// Package compositor stacks independent render screens, resolves
// inter-screen texture dependencies through the render-target pool, and
// drives the per-frame Update/Render cycle.
package compositor

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"screen-compositor/core"
	"screen-compositor/render"
)

// ErrRenderBeforeUpdate is returned when Render runs on a compositor whose
// Update has never been called; the per-frame counters and the active screen
// list would be unpopulated.
var ErrRenderBeforeUpdate = errors.New("compositor: Render called before Update")

// FrameCompositor owns the ordered screen stack and the shared render
// context. Screens are stored back-to-front: AddScreen pushes to the front.
//
// Single-threaded by design, like the device it drives.
type FrameCompositor struct {
	ctx  *render.Context
	pool *render.TargetPool
	log  *log.Logger

	screens []Screen // screens[0] is rearmost
	active  []Screen // per-frame working list, front-to-back
	order   []Screen // per-frame render order, back-to-front

	updated bool
	frame   uint64
	elapsed float32
}

// New creates a compositor over ctx; the context's pool bridges screens that
// consume prior output. A nil logger uses log.Default().
func New(ctx *render.Context, logger *log.Logger) *FrameCompositor {
	if logger == nil {
		logger = log.Default()
	}
	return &FrameCompositor{
		ctx:  ctx,
		pool: ctx.Pool,
		log:  logger,
	}
}

// Context returns the compositor's shared render context.
func (fc *FrameCompositor) Context() *render.Context {
	return fc.ctx
}

// AddScreen pushes s in front of all current screens.
func (fc *FrameCompositor) AddScreen(s Screen) {
	fc.screens = append(fc.screens, s)
}

// RemoveScreen detaches s from the stack. The screen itself is untouched;
// its lifetime belongs to the host.
func (fc *FrameCompositor) RemoveScreen(s Screen) {
	for i, cur := range fc.screens {
		if cur == s {
			fc.screens = append(fc.screens[:i], fc.screens[i+1:]...)
			return
		}
	}
}

// Screens returns the stack back-to-front.
func (fc *FrameCompositor) Screens() []Screen {
	return fc.screens
}

// Update advances the frame counter and accumulated time, then updates the
// screens that can contribute to this frame, front-to-back. Screens behind a
// visible, fully covering screen that needs no prior texture are hidden this
// frame, except the one directly beneath it, which stays active (it may be
// mid-transition under the covering screen).
//
// If a screen's update fails, the working list is cleared before the error
// propagates so the next frame retries from a clean state.
func (fc *FrameCompositor) Update(deltaTime float32) (err error) {
	fc.frame++
	fc.elapsed += deltaTime
	fc.ctx.Frame = fc.frame
	fc.ctx.Time = fc.elapsed
	fc.ctx.Delta = deltaTime

	fc.pool.Update()

	fc.active = fc.active[:0]
	defer func() {
		if err != nil {
			fc.active = fc.active[:0]
		}
	}()

	covered := false
	for i := len(fc.screens) - 1; i >= 0; i-- { // front-to-back
		s := fc.screens[i]
		if !s.IsVisible() {
			continue
		}
		fc.active = append(fc.active, s)
		if err := s.OnUpdate(deltaTime); err != nil {
			return fmt.Errorf("compositor: screen update: %w", err)
		}
		if covered {
			break
		}
		if s.Coverage() == CoverageFull && !s.RequiresPreviousAsTexture() {
			covered = true
		}
	}

	fc.updated = true
	return nil
}

// Render walks the active screens back-to-front into target (nil = the
// backbuffer). A single pending-consumer lookahead bridges screens that need
// the prior output as a texture: the screens before the consumer render into
// one pool intermediate, the consumer reads it as ctx.Source, and the
// intermediate is recycled, so at most one bridge buffer is in flight.
//
// Whatever happens, on return ctx.Source is nil, ctx.Target equals target,
// and no pool checkout is leaked.
func (fc *FrameCompositor) Render(target *render.RenderTarget) (err error) {
	if !fc.updated {
		return ErrRenderBeforeUpdate
	}
	if !fc.ctx.Device.Ready() {
		// Output surface invisible or device mid-reset: skip the frame
		// before anything is checked out.
		return nil
	}

	ctx := fc.ctx
	outputViewport := viewportFor(ctx, target)

	var bridge *render.RenderTarget
	defer func() {
		if bridge != nil {
			fc.pool.Recycle(bridge)
			bridge = nil
		}
		if ctx.Source != nil {
			fc.pool.Recycle(ctx.Source)
			ctx.Source = nil
		}
		if err == nil && ctx.Target != target {
			// Internal consistency fault: a screen or effect left the
			// context pointing at the wrong target.
			fc.log.Error("compositor: final render target differs from requested output")
		}
		ctx.Target = target
		ctx.Viewport = outputViewport
		fc.order = fc.order[:0]
	}()

	// The active list is front-to-back; render wants back-to-front.
	fc.order = fc.order[:0]
	for i := len(fc.active) - 1; i >= 0; i-- {
		fc.order = append(fc.order, fc.active[i])
	}

	i := 0
	for i < len(fc.order) {
		// Pending-consumer lookahead: the next screen ahead of i that wants
		// the combined prior output as a texture.
		consumer := -1
		for j := i + 1; j < len(fc.order); j++ {
			if fc.order[j].RequiresPreviousAsTexture() {
				consumer = j
				break
			}
		}

		if consumer < 0 {
			// No consumer ahead: everything remaining renders to the output.
			for ; i < len(fc.order); i++ {
				if err := fc.renderScreen(fc.order[i], target, outputViewport); err != nil {
					return err
				}
			}
			break
		}

		format := fc.order[consumer].SourceTextureFormat()
		bridge, err = fc.pool.Obtain(format)
		if err != nil {
			return fmt.Errorf("compositor: bridge target: %w", err)
		}
		ctx.SetTarget(bridge, bridge.Viewport())
		ctx.Device.Clear(core.ColorTransparent)

		for ; i < consumer; i++ {
			if err := fc.renderScreen(fc.order[i], bridge, bridge.Viewport()); err != nil {
				return err
			}
		}

		// Hand the bridge to the consumer; renderScreen recycles it once
		// the consumer has read it.
		ctx.Source = bridge
		bridge = nil
	}
	return nil
}

// renderScreen binds the target, runs the screen, and recycles the consumed
// source texture if one was attached.
func (fc *FrameCompositor) renderScreen(s Screen, target *render.RenderTarget, vp core.Viewport) error {
	fc.ctx.SetTarget(target, vp)
	if err := s.OnRender(fc.ctx); err != nil {
		return fmt.Errorf("compositor: screen render: %w", err)
	}
	if fc.ctx.Source != nil {
		fc.pool.Recycle(fc.ctx.Source)
		fc.ctx.Source = nil
	}
	return nil
}

func viewportFor(ctx *render.Context, target *render.RenderTarget) core.Viewport {
	if target != nil {
		return target.Viewport()
	}
	w, h := ctx.Device.BackbufferSize()
	return core.NewViewport(w, h)
}
