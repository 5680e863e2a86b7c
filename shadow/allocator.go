package shadow

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/log"

	"screen-compositor/core"
	"screen-compositor/render"
	"screen-compositor/scene"
)

// ContextKeyMasks is the render.Context extension key under which the
// allocator publishes its finished mask textures for lighting passes.
const ContextKeyMasks = "shadowMasks"

// Filter post-processes one finished shadow mask in place, typically a
// separable blur that softens penumbrae.
type Filter interface {
	Apply(ctx *render.Context, mask *render.RenderTarget) error
}

// Upsampler scales a half-resolution mask up to full resolution. Sensitivity
// controls depth-aware edge rejection; zero degrades to plain bilinear.
type Upsampler interface {
	Upsample(ctx *render.Context, src, dst *render.RenderTarget, sensitivity float32) error
}

// Option configures an Allocator.
type Option func(*Allocator)

// WithMaskFormat overrides the surface/depth/mipmap portion of the mask
// texture format. Size is always taken from the frame.
func WithMaskFormat(f render.TargetFormat) Option {
	return func(a *Allocator) { a.maskFormat = f }
}

// WithPostFilter runs f over every mask once all its channels are written.
func WithPostFilter(f Filter) Option {
	return func(a *Allocator) { a.filter = f }
}

// WithHalfResolution renders masks at half size and upsamples them with u.
func WithHalfResolution(u Upsampler, sensitivity float32) Option {
	return func(a *Allocator) {
		a.upsampler = u
		a.halfRes = true
		a.sensitivity = sensitivity
	}
}

// WithLogger overrides the default logger.
func WithLogger(l *log.Logger) Option {
	return func(a *Allocator) { a.log = l }
}

// Allocator packs shadow-casting lights into the channels of a small fixed
// set of mask textures. Two lights may share a channel bin only if their
// influence bounds do not touch; lights that fit nowhere are dropped for the
// frame rather than failing it.
type Allocator struct {
	pool     *render.TargetPool
	registry *render.Registry
	log      *log.Logger

	maxMasks    int
	maskFormat  render.TargetFormat
	filter      Filter
	upsampler   Upsampler
	halfRes     bool
	sensitivity float32

	bins    [][]*Job
	jobs    []*Job
	masks   []*render.RenderTarget
	dropped int
}

// NewAllocator builds an allocator drawing mask textures from pool and
// resolving per-light renderers from registry. maxMasks caps texture count;
// capacity is maxMasks*4 lights.
func NewAllocator(pool *render.TargetPool, registry *render.Registry, maxMasks int, opts ...Option) *Allocator {
	if maxMasks < 1 {
		maxMasks = 1
	}
	a := &Allocator{
		pool:     pool,
		registry: registry,
		log:      log.Default(),
		maxMasks: maxMasks,
		maskFormat: render.TargetFormat{
			Surface: render.SurfaceRGBA8,
			Depth:   render.DepthNone,
			Mipmap:  render.MipmapOff,
		},
		bins:  make([][]*Job, maxMasks*ChannelsPerMask),
		masks: make([]*render.RenderTarget, maxMasks),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Capacity returns the total number of channel bins.
func (a *Allocator) Capacity() int {
	return a.maxMasks * ChannelsPerMask
}

// Jobs returns the jobs assigned this frame. Allocation order until Render,
// which re-sorts them into batch order.
func (a *Allocator) Jobs() []*Job {
	return a.jobs
}

// Dropped returns how many shadow casters could not be placed this frame.
func (a *Allocator) Dropped() int {
	return a.dropped
}

// Masks returns the mask textures, indexed by mask number. Entries are nil
// until Render touches them.
func (a *Allocator) Masks() []*render.RenderTarget {
	return a.masks
}

// MaskFor reports which mask texture and channel shade the given light, if it
// was assigned this frame.
func (a *Allocator) MaskFor(l *scene.Light) (*render.RenderTarget, int, bool) {
	for _, j := range a.jobs {
		if j.Light == l {
			return a.masks[j.Mask()], j.Channel(), true
		}
	}
	return nil, 0, false
}

// Allocate assigns a channel bin to every shadow-casting light that fits.
// Lights are considered in input order, so callers control priority by
// sorting first (see SortByImportance). Lights with no registered renderer
// or no non-contacting bin are dropped with a warning. Any state from the
// previous frame is recycled first, so calling Allocate at the top of a
// frame is always safe.
func (a *Allocator) Allocate(ctx *render.Context, lights []*scene.Light) ([]*Job, error) {
	if ctx == nil {
		return nil, render.ErrNilContext
	}
	if lights == nil {
		return nil, render.ErrNilNodes
	}
	a.RecycleShadowMasks()

	for _, l := range lights {
		if l == nil || !l.ShadowCaster {
			continue
		}
		job := &Job{
			Light: l,
			Descriptor: Descriptor{
				Bounds:   l.InfluenceBounds(),
				Softness: 1,
			},
		}
		r, id, ok := a.registry.Resolve(job, ctx)
		if !ok {
			a.dropped++
			a.log.Warn("shadow: no renderer accepts light, dropping", "type", l.Type)
			continue
		}
		job.renderer = r
		job.rendererID = id

		bin := a.findBin(job)
		if bin < 0 {
			a.dropped++
			a.log.Warn("shadow: channel bins exhausted, dropping light",
				"type", l.Type, "capacity", a.Capacity())
			continue
		}
		job.bin = bin
		job.key = sortKey(job.Mask(), r.Order(), id)
		job.state = StateAssigned
		a.bins[bin] = append(a.bins[bin], job)
		a.jobs = append(a.jobs, job)
	}
	return a.jobs, nil
}

// findBin returns the first bin whose members all keep their distance from
// the candidate, or -1 when every bin has a contact.
func (a *Allocator) findBin(job *Job) int {
	for i, members := range a.bins {
		clear := true
		for _, m := range members {
			if m.Descriptor.Bounds.Intersects(job.Descriptor.Bounds) {
				clear = false
				break
			}
		}
		if clear {
			return i
		}
	}
	return -1
}

// Render draws every assigned job into its mask channel. Jobs are sorted by
// key so masks bind once each and same-renderer runs batch into a single
// renderer call. Each mask is cleared to opaque white, the fully-lit value,
// before its first write; shadow renderers darken their channel under
// modulate blending. When a mask's last channel is written it is
// post-filtered and, in half-resolution mode, upsampled.
func (a *Allocator) Render(ctx *render.Context) error {
	if ctx == nil {
		return render.ErrNilContext
	}
	if len(a.jobs) == 0 {
		return nil
	}

	sort.SliceStable(a.jobs, func(i, k int) bool {
		return a.jobs[i].key < a.jobs[k].key
	})

	entry := ctx.Save()
	defer func() {
		ctx.Device.SetChannelMask(render.ChannelAll)
		ctx.Device.SetBlend(render.BlendNone)
		ctx.Restore(entry)
	}()

	width := int(ctx.Viewport.Width)
	height := int(ctx.Viewport.Height)
	if width < 1 || height < 1 {
		width, height = ctx.Device.BackbufferSize()
	}

	mask := -1
	for i := 0; i < len(a.jobs); {
		j := a.jobs[i]
		if j.Mask() != mask {
			if mask >= 0 {
				if err := a.finishMask(ctx, mask, width, height); err != nil {
					return err
				}
			}
			mask = j.Mask()
			if err := a.bindMask(ctx, mask, width, height); err != nil {
				return err
			}
		}

		// Batch the contiguous run sharing this job's mask and renderer.
		// Such jobs carry identical keys, so equality is the run test.
		run := i + 1
		for run < len(a.jobs) && a.jobs[run].key == j.key {
			run++
		}
		nodes := make([]render.Node, 0, run-i)
		for k := i; k < run; k++ {
			nodes = append(nodes, a.jobs[k])
		}
		if err := j.renderer.Render(nodes, ctx, j.renderer.Order()); err != nil {
			return fmt.Errorf("shadow: render mask %d: %w", mask, err)
		}
		for k := i; k < run; k++ {
			a.jobs[k].state = StateRendered
		}
		i = run
	}
	if err := a.finishMask(ctx, mask, width, height); err != nil {
		return err
	}

	ctx.Set(ContextKeyMasks, a.Masks())
	return nil
}

// bindMask lazily obtains the mask texture, binds it and clears it to the
// fully-lit sentinel.
func (a *Allocator) bindMask(ctx *render.Context, mask, width, height int) error {
	if a.masks[mask] == nil {
		f := a.maskFormat
		f.Width = width
		f.Height = height
		if a.halfRes {
			f.Width = maxInt(width/2, 1)
			f.Height = maxInt(height/2, 1)
		}
		t, err := a.pool.Obtain(f)
		if err != nil {
			return fmt.Errorf("shadow: obtain mask %d: %w", mask, err)
		}
		a.masks[mask] = t
	}
	t := a.masks[mask]
	ctx.SetTarget(t, t.Viewport())
	ctx.Device.SetChannelMask(render.ChannelAll)
	ctx.Device.SetBlend(render.BlendNone)
	ctx.Device.Clear(core.ColorWhite)
	ctx.Device.SetBlend(render.BlendModulate)
	return nil
}

// finishMask runs the post filter and the half-resolution upsample once all
// of a mask's channels are written.
func (a *Allocator) finishMask(ctx *render.Context, mask, width, height int) error {
	ctx.Device.SetChannelMask(render.ChannelAll)
	ctx.Device.SetBlend(render.BlendNone)

	if a.filter != nil {
		if err := a.filter.Apply(ctx, a.masks[mask]); err != nil {
			return fmt.Errorf("shadow: filter mask %d: %w", mask, err)
		}
	}
	if a.halfRes && a.upsampler != nil {
		f := a.maskFormat
		f.Width = width
		f.Height = height
		full, err := a.pool.Obtain(f)
		if err != nil {
			return fmt.Errorf("shadow: obtain upsample target: %w", err)
		}
		if err := a.upsampler.Upsample(ctx, a.masks[mask], full, a.sensitivity); err != nil {
			a.pool.Recycle(full)
			return fmt.Errorf("shadow: upsample mask %d: %w", mask, err)
		}
		a.pool.Recycle(a.masks[mask])
		a.masks[mask] = full
	}
	return nil
}

// RecycleShadowMasks returns every mask texture to the pool and resets the
// per-frame assignment state. Calling it again before the next Allocate is a
// no-op.
func (a *Allocator) RecycleShadowMasks() {
	for i, t := range a.masks {
		if t != nil {
			a.pool.Recycle(t)
			a.masks[i] = nil
		}
	}
	for _, j := range a.jobs {
		j.state = StateUnassigned
	}
	for i := range a.bins {
		a.bins[i] = a.bins[i][:0]
	}
	a.jobs = a.jobs[:0]
	a.dropped = 0
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
