package render_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"screen-compositor/render"
	"screen-compositor/render/rendertest"
)

func newPool(t *testing.T) (*render.TargetPool, *rendertest.Device) {
	t.Helper()
	dev := rendertest.NewDevice(1280, 720)
	pool := render.NewTargetPool(dev, render.TargetFormat{
		Width:   1280,
		Height:  720,
		Surface: render.SurfaceRGBA8,
		Depth:   render.DepthNone,
		Mipmap:  render.MipmapOff,
	}, nil)
	return pool, dev
}

func TestObtainIsExclusive(t *testing.T) {
	pool, _ := newPool(t)

	a, err := pool.Obtain(render.TargetFormat{})
	require.NoError(t, err)
	b, err := pool.Obtain(render.TargetFormat{})
	require.NoError(t, err)

	assert.NotSame(t, a, b)
	assert.Equal(t, 2, pool.Stats().Outstanding)
	assert.Equal(t, 2, pool.Stats().Allocated)
}

func TestRecycleThenReuse(t *testing.T) {
	pool, _ := newPool(t)

	a, err := pool.Obtain(render.TargetFormat{})
	require.NoError(t, err)
	pool.Recycle(a)

	b, err := pool.Obtain(render.TargetFormat{})
	require.NoError(t, err)

	assert.Same(t, a, b, "compatible free target should be reused")
	assert.Equal(t, 1, pool.Stats().Allocated)
}

func TestObtainAllocatesOnFormatMismatch(t *testing.T) {
	pool, _ := newPool(t)

	a, err := pool.Obtain(render.TargetFormat{})
	require.NoError(t, err)
	pool.Recycle(a)

	b, err := pool.Obtain(render.TargetFormat{Surface: render.SurfaceRGBA16F})
	require.NoError(t, err)

	assert.NotSame(t, a, b)
	assert.Equal(t, render.SurfaceRGBA16F, b.Format.Surface)
	assert.Equal(t, 2, pool.Stats().Allocated)
}

func TestDoubleRecycleIgnored(t *testing.T) {
	pool, _ := newPool(t)

	a, err := pool.Obtain(render.TargetFormat{})
	require.NoError(t, err)
	pool.Recycle(a)
	pool.Recycle(a)

	assert.Equal(t, 1, pool.Stats().Free, "free list must not double-list a handle")
	assert.Equal(t, 0, pool.Stats().Outstanding)
}

func TestRecycleNilIsNoop(t *testing.T) {
	pool, _ := newPool(t)
	pool.Recycle(nil)
	assert.Equal(t, 0, pool.Stats().Free)
}

func TestClearDestroysFreeTargets(t *testing.T) {
	pool, dev := newPool(t)

	a, err := pool.Obtain(render.TargetFormat{})
	require.NoError(t, err)
	pool.Recycle(a)
	require.Equal(t, 1, dev.LiveTargets())

	pool.Clear()
	assert.Equal(t, 0, dev.LiveTargets())
	assert.Equal(t, 0, pool.Stats().Free)
}

func TestUpdateTrimsIdleTargets(t *testing.T) {
	pool, dev := newPool(t)

	a, err := pool.Obtain(render.TargetFormat{})
	require.NoError(t, err)
	pool.Recycle(a)

	for i := 0; i < 20; i++ {
		pool.Update()
	}
	assert.Equal(t, 0, dev.LiveTargets(), "idle target should age out")
}

func TestUpdateKeepsRecentlyUsed(t *testing.T) {
	pool, dev := newPool(t)

	a, err := pool.Obtain(render.TargetFormat{})
	require.NoError(t, err)
	pool.Recycle(a)

	// Churn the target every frame; it must never be trimmed.
	for i := 0; i < 20; i++ {
		pool.Update()
		got, err := pool.Obtain(render.TargetFormat{})
		require.NoError(t, err)
		require.Same(t, a, got)
		pool.Recycle(got)
	}
	assert.Equal(t, 1, dev.LiveTargets())
}

func TestUpdateNeverTouchesOutstanding(t *testing.T) {
	pool, dev := newPool(t)

	_, err := pool.Obtain(render.TargetFormat{})
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		pool.Update()
	}
	assert.Equal(t, 1, dev.LiveTargets(), "checked-out target must survive trim")
}

func TestObtainWrapsDeviceError(t *testing.T) {
	pool, dev := newPool(t)
	dev.FailCreate = true

	_, err := pool.Obtain(render.TargetFormat{})
	assert.Error(t, err)
}
