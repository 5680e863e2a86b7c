package render

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// defaultTrimAfter is how many frames a pooled target may sit unused before
// Update destroys it.
const defaultTrimAfter = 8

type poolEntry struct {
	target   *RenderTarget
	lastUsed uint64
}

// TargetPool hands out reusable render targets keyed by format. Obtain takes
// exclusive ownership of a compatible free target (allocating when none
// fits); Recycle returns it. The pool is single-threaded like the rest of
// the frame loop.
type TargetPool struct {
	device   Device
	log      *log.Logger
	defaults TargetFormat

	free        []poolEntry
	outstanding int
	allocated   int // total targets created over the pool's lifetime
	frame       uint64
	trimAfter   uint64
}

// PoolStats is a snapshot for tests and debug overlays.
type PoolStats struct {
	Free        int
	Outstanding int
	Allocated   int
}

// NewTargetPool creates a pool creating targets on device. defaults supplies
// the fallback width/height/formats applied to unresolved requests; it
// typically tracks the output surface size. A nil logger uses log.Default().
func NewTargetPool(device Device, defaults TargetFormat, logger *log.Logger) *TargetPool {
	if logger == nil {
		logger = log.Default()
	}
	return &TargetPool{
		device:    device,
		log:       logger,
		defaults:  defaults,
		trimAfter: defaultTrimAfter,
	}
}

// SetDefaults replaces the fallback format, e.g. after a window resize.
// Already pooled targets keep their old size and age out via Update.
func (p *TargetPool) SetDefaults(def TargetFormat) {
	p.defaults = def
}

// Defaults returns the current fallback format.
func (p *TargetPool) Defaults() TargetFormat {
	return p.defaults
}

// Obtain returns a free target whose format satisfies the request, resolving
// unset fields against the pool defaults, or allocates a new one. The caller
// owns the result exclusively until it is recycled.
func (p *TargetPool) Obtain(format TargetFormat) (*RenderTarget, error) {
	want := format.Resolve(p.defaults)

	for i, e := range p.free {
		if e.target.Format.Satisfies(want) {
			p.free = append(p.free[:i], p.free[i+1:]...)
			p.outstanding++
			return e.target, nil
		}
	}

	t, err := p.device.CreateTarget(want)
	if err != nil {
		return nil, fmt.Errorf("target pool: create %dx%d %s: %w",
			want.Width, want.Height, want.Surface, err)
	}
	p.allocated++
	p.outstanding++
	return t, nil
}

// Recycle returns ownership of t to the pool. A nil target is a no-op.
// Recycling a target that is already on the free list is a caller error;
// it is detected, logged and ignored so the free list never double-lists
// a handle.
func (p *TargetPool) Recycle(t *RenderTarget) {
	if t == nil {
		return
	}
	for _, e := range p.free {
		if e.target == t {
			p.log.Warn("target pool: double recycle ignored",
				"format", t.Format.Surface, "w", t.Width(), "h", t.Height())
			return
		}
	}
	p.outstanding--
	p.free = append(p.free, poolEntry{target: t, lastUsed: p.frame})
}

// Clear destroys every pooled resource unconditionally. Used on device
// loss/reset; the pool rebuilds lazily on the next Obtain. Checked-out
// targets are not tracked here and are the device reset's concern.
func (p *TargetPool) Clear() {
	for _, e := range p.free {
		p.device.DestroyTarget(e.target)
	}
	p.free = p.free[:0]
}

// Update advances the pool's frame counter and trims free targets that have
// not been reused for trimAfter frames. Checked-out targets are never
// touched.
func (p *TargetPool) Update() {
	p.frame++
	kept := p.free[:0]
	for _, e := range p.free {
		if p.frame-e.lastUsed > p.trimAfter {
			p.log.Debug("target pool: trimming idle target",
				"w", e.target.Width(), "h", e.target.Height(), "format", e.target.Format.Surface)
			p.device.DestroyTarget(e.target)
			continue
		}
		kept = append(kept, e)
	}
	p.free = kept
}

// Stats returns a snapshot of the pool's bookkeeping.
func (p *TargetPool) Stats() PoolStats {
	return PoolStats{
		Free:        len(p.free),
		Outstanding: p.outstanding,
		Allocated:   p.allocated,
	}
}
