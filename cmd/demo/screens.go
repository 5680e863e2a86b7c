package main

import (
	"fmt"

	charmlog "github.com/charmbracelet/log"
	"github.com/chewxy/math32"

	"screen-compositor/compositor"
	"screen-compositor/core"
	"screen-compositor/math"
	"screen-compositor/postprocess"
	"screen-compositor/render"
	"screen-compositor/scene"
	"screen-compositor/shadow"
)

// worldScreen is the rearmost, fully covering layer: an animated light rig
// whose shadow masks are allocated, rendered and composited every frame.
type worldScreen struct {
	compositor.ScreenBase
	log *charmlog.Logger

	camera  *scene.Camera
	lights  []*scene.Light
	alloc   *shadow.Allocator
	sky     core.Color
	elapsed float32
}

func newWorldScreen(alloc *shadow.Allocator, logger *charmlog.Logger) *worldScreen {
	lights := demoLights()
	for _, l := range lights {
		l.ShadowCaster = true
	}
	camera := scene.NewCamera(60, 16.0/9.0, 0.1, 100)
	camera.SetPosition(math.Vec3{Y: 2, Z: 6})
	camera.LookAt(math.Vec3{Z: -5})
	return &worldScreen{
		ScreenBase: compositor.ScreenBase{
			Visible: true,
			Cover:   compositor.CoverageFull,
		},
		log:    logger,
		camera: camera,
		lights: lights,
		alloc:  alloc,
		sky:    core.Color{R: 0.35, G: 0.55, B: 0.8, A: 1},
	}
}

func (w *worldScreen) OnUpdate(dt float32) error {
	w.elapsed += dt
	// Orbit the lights so channel assignments shift as bounds separate and
	// collide over time.
	for i, l := range w.lights {
		phase := w.elapsed*0.5 + float32(i)*2.1
		l.Position.X = math32.Cos(phase) * (3 + float32(i))
		l.Position.Z = -5 + math32.Sin(phase)*(3+float32(i))
	}
	return nil
}

func (w *worldScreen) OnRender(ctx *render.Context) error {
	w.camera.UpdateAspectRatio(ctx.Viewport.Width, ctx.Viewport.Height)
	ctx.Camera = w.camera
	ctx.Lights = w.lights

	shadow.SortByImportance(w.lights, w.camera)
	if _, err := w.alloc.Allocate(ctx, w.lights); err != nil {
		return err
	}
	if err := w.alloc.Render(ctx); err != nil {
		return err
	}
	if d := w.alloc.Dropped(); d > 0 {
		w.log.Debug("shadow casters dropped", "count", d)
	}

	// Base pass, then darken it with the finished masks.
	ctx.Device.Clear(w.sky)
	ctx.Device.SetBlend(render.BlendModulate)
	for _, mask := range w.alloc.Masks() {
		if mask == nil {
			continue
		}
		if err := ctx.Device.Copy(mask); err != nil {
			ctx.Device.SetBlend(render.BlendNone)
			return err
		}
	}
	ctx.Device.SetBlend(render.BlendNone)
	return nil
}

// hudScreen is a partial overlay. It owns the frame-rate readout in the
// window title and draws nothing itself.
type hudScreen struct {
	compositor.ScreenBase
	log    *charmlog.Logger
	window *core.Window

	frames    int
	accum     float32
	baseTitle string
}

func newHUDScreen(window *core.Window, logger *charmlog.Logger) *hudScreen {
	return &hudScreen{
		ScreenBase: compositor.ScreenBase{
			Visible: true,
			Cover:   compositor.CoveragePartial,
		},
		log:       logger,
		window:    window,
		baseTitle: window.Title,
	}
}

func (h *hudScreen) OnUpdate(dt float32) error {
	h.frames++
	h.accum += dt
	if h.accum >= 1 {
		fps := float32(h.frames) / h.accum
		h.window.SetTitle(fmt.Sprintf("%s | %.0f fps", h.baseTitle, fps))
		h.log.Debug("frame rate", "fps", fps)
		h.frames = 0
		h.accum = 0
	}
	return nil
}

func (h *hudScreen) OnRender(*render.Context) error { return nil }

// dialogScreen pauses the stack: it covers everything but asks for the
// combined frame beneath it as a texture, runs it through the post chain and
// presents the processed result.
type dialogScreen struct {
	compositor.ScreenBase
	chain *postprocess.Chain
}

func newDialogScreen(chain *postprocess.Chain) *dialogScreen {
	return &dialogScreen{
		ScreenBase: compositor.ScreenBase{
			Visible:     true,
			Cover:       compositor.CoverageFull,
			WantsSource: true,
			SourceFmt:   render.TargetFormat{Surface: render.SurfaceRGBA16F},
		},
		chain: chain,
	}
}

func (d *dialogScreen) OnRender(ctx *render.Context) error {
	return d.chain.Process(ctx)
}
