package main

import (
	"fmt"
	"time"

	charmlog "github.com/charmbracelet/log"

	"screen-compositor/compositor"
	"screen-compositor/config"
	"screen-compositor/core"
	"screen-compositor/internal/opengl"
	"screen-compositor/math"
	"screen-compositor/postprocess"
	"screen-compositor/render"
	"screen-compositor/scene"
	"screen-compositor/shadow"
)

func run(cfg config.Config, logger *charmlog.Logger) error {
	window, err := core.NewWindow(core.WindowConfig{
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Title:      cfg.Window.Title,
		Resizable:  true,
		VSync:      cfg.Window.VSync,
		Fullscreen: cfg.Window.Fullscreen,
	})
	if err != nil {
		return err
	}
	defer window.Destroy()

	device, err := opengl.NewDevice(window)
	if err != nil {
		return err
	}
	defer device.Destroy()

	fbWidth, fbHeight := window.GetFramebufferSize()
	pool := render.NewTargetPool(device, render.TargetFormat{
		Width:   fbWidth,
		Height:  fbHeight,
		Surface: render.SurfaceRGBA8,
		Depth:   render.DepthNone,
		Mipmap:  render.MipmapOff,
	}, logger)
	defer pool.Clear()

	ctx := render.NewContext(device, pool)
	comp := compositor.New(ctx, logger)

	// Shadow pipeline: one pluggable renderer for local lights.
	registry := render.NewRegistry()
	blob, err := opengl.NewBlobShadowRenderer(0)
	if err != nil {
		return err
	}
	defer blob.Destroy()
	if _, err := registry.Register(blob); err != nil {
		return err
	}

	maskFilter, err := opengl.NewBlurEffect()
	if err != nil {
		return err
	}
	defer maskFilter.Destroy()
	maskFilter.Passes = cfg.Shadow.FilterPasses

	allocOpts := []shadow.Option{
		shadow.WithPostFilter(maskFilter),
		shadow.WithLogger(logger),
	}
	var upsampler *opengl.BilateralUpsampleEffect
	if cfg.Shadow.HalfResolution {
		upsampler, err = opengl.NewBilateralUpsampleEffect()
		if err != nil {
			return err
		}
		allocOpts = append(allocOpts,
			shadow.WithHalfResolution(upsampler, cfg.Shadow.BilateralSensitivity))
	}
	if upsampler != nil {
		defer upsampler.Destroy()
	}
	alloc := shadow.NewAllocator(pool, registry, cfg.Shadow.MaxMasks, allocOpts...)
	defer alloc.RecycleShadowMasks()

	// Post chain behind the dialog: optional bloom, then tone mapping.
	chain := postprocess.NewChain(logger)
	bright, err := opengl.NewBrightPassEffect()
	if err != nil {
		return err
	}
	defer bright.Destroy()
	bright.Threshold = cfg.Post.BloomThreshold

	blur, err := opengl.NewBlurEffect()
	if err != nil {
		return err
	}
	defer blur.Destroy()
	blur.Passes = cfg.Post.BlurPasses

	tone, err := opengl.NewToneMapEffect()
	if err != nil {
		return err
	}
	defer tone.Destroy()
	tone.Exposure = cfg.Post.Exposure

	brightStep := chain.Add(bright)
	blurStep := chain.Add(blur)
	chain.Add(tone)
	brightStep.Enabled = cfg.Post.Bloom
	blurStep.Enabled = cfg.Post.Bloom

	world := newWorldScreen(alloc, logger)
	hud := newHUDScreen(window, logger)
	dialog := newDialogScreen(chain)
	dialog.Visible = false

	comp.AddScreen(world) // rearmost
	comp.AddScreen(hud)
	comp.AddScreen(dialog)

	logger.Info("demo starting", "size", fmt.Sprintf("%dx%d", fbWidth, fbHeight),
		"masks", cfg.Shadow.MaxMasks, "bloom", cfg.Post.Bloom)

	keys := newKeyTracker(window)
	last := time.Now()
	for !window.ShouldClose() {
		window.PollEvents()

		now := time.Now()
		dt := float32(now.Sub(last).Seconds())
		last = now

		if keys.pressed(core.KeyEscape) {
			return nil
		}
		if keys.pressed(core.KeySpace) {
			dialog.Visible = !dialog.Visible
			logger.Debug("dialog toggled", "visible", dialog.Visible)
		}
		if keys.pressed(core.KeyH) {
			hud.Visible = !hud.Visible
		}
		if keys.pressed(core.KeyB) {
			brightStep.Enabled = !brightStep.Enabled
			blurStep.Enabled = brightStep.Enabled
			logger.Debug("bloom toggled", "enabled", brightStep.Enabled)
		}

		// Track the framebuffer so pooled intermediates follow resizes.
		w, h := window.GetFramebufferSize()
		def := pool.Defaults()
		if def.Width != w || def.Height != h {
			def.Width, def.Height = w, h
			pool.SetDefaults(def)
		}

		if err := comp.Update(dt); err != nil {
			return err
		}
		if err := comp.Render(nil); err != nil {
			return err
		}
		window.SwapBuffers()
	}
	return nil
}

// keyTracker edge-detects key presses across frames.
type keyTracker struct {
	window *core.Window
	down   map[int]bool
}

func newKeyTracker(w *core.Window) *keyTracker {
	return &keyTracker{window: w, down: make(map[int]bool)}
}

func (k *keyTracker) pressed(key int) bool {
	now := k.window.IsKeyPressed(key)
	was := k.down[key]
	k.down[key] = now
	return now && !was
}

// demoLights builds the orbiting shadow casters of the world screen.
func demoLights() []*scene.Light {
	return []*scene.Light{
		scene.NewPointLight(math.Vec3{X: 2, Y: 3, Z: -4}, core.ColorWhite, 2.0, 6),
		scene.NewPointLight(math.Vec3{X: -3, Y: 2, Z: -6}, core.Color{R: 1, G: 0.8, B: 0.6, A: 1}, 1.5, 5),
		scene.NewPointLight(math.Vec3{X: 0, Y: 4, Z: -8}, core.Color{R: 0.6, G: 0.7, B: 1, A: 1}, 1.2, 7),
	}
}
