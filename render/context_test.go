package render_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"screen-compositor/core"
	"screen-compositor/render"
	"screen-compositor/render/rendertest"
)

func newContext(t *testing.T) (*render.Context, *rendertest.Device) {
	t.Helper()
	pool, dev := newPool(t)
	return render.NewContext(dev, pool), dev
}

func TestSetTargetBindsDevice(t *testing.T) {
	ctx, dev := newContext(t)

	tgt, err := ctx.Pool.Obtain(render.TargetFormat{})
	require.NoError(t, err)

	ctx.SetTarget(tgt, tgt.Viewport())
	assert.Same(t, tgt, ctx.Target)
	assert.Same(t, tgt, dev.Bound())

	ctx.SetTarget(nil, core.NewViewport(1280, 720))
	assert.Nil(t, dev.Bound())
}

func TestSaveRestoreRoundTrip(t *testing.T) {
	ctx, dev := newContext(t)

	tgt, err := ctx.Pool.Obtain(render.TargetFormat{})
	require.NoError(t, err)
	ctx.SetTarget(tgt, tgt.Viewport())

	state := ctx.Save()

	other, err := ctx.Pool.Obtain(render.TargetFormat{Surface: render.SurfaceRGBA16F})
	require.NoError(t, err)
	ctx.SetTarget(other, other.Viewport())
	ctx.Source = other

	ctx.Restore(state)
	assert.Same(t, tgt, ctx.Target)
	assert.Nil(t, ctx.Source)
	assert.Same(t, tgt, dev.Bound(), "restore must rebind the device")
}

func TestExtensionMap(t *testing.T) {
	ctx, _ := newContext(t)

	_, ok := ctx.Value("velocity")
	assert.False(t, ok)

	ctx.Set("velocity", 42)
	v, ok := ctx.Value("velocity")
	require.True(t, ok)
	assert.Equal(t, 42, v)

	ctx.Delete("velocity")
	_, ok = ctx.Value("velocity")
	assert.False(t, ok)
}

func TestTargetViewportFallsBackToBackbuffer(t *testing.T) {
	ctx, _ := newContext(t)

	vp := ctx.TargetViewport()
	assert.Equal(t, float32(1280), vp.Width)
	assert.Equal(t, float32(720), vp.Height)

	tgt, err := ctx.Pool.Obtain(render.TargetFormat{Width: 64, Height: 32})
	require.NoError(t, err)
	ctx.SetTarget(tgt, tgt.Viewport())
	vp = ctx.TargetViewport()
	assert.Equal(t, float32(64), vp.Width)
	assert.Equal(t, float32(32), vp.Height)
}
