// Package postprocess chains fullscreen image effects over at most two
// pool-obtained intermediate targets, ping-ponging between them regardless of
// chain length.
package postprocess

import (
	"fmt"

	"github.com/charmbracelet/log"

	"screen-compositor/render"
)

// Effect is one fullscreen pass: it reads ctx.Source and draws into the
// bound ctx.Target. TargetFormat is the format the effect wants its output
// written to; unset fields resolve against the pool defaults.
type Effect interface {
	Render(ctx *render.Context) error
	TargetFormat() render.TargetFormat
}

// Step wraps an Effect with its enable flag. Disabled steps are skipped
// without affecting the ping-pong bookkeeping.
type Step struct {
	Effect  Effect
	Enabled bool
}

// Chain is an ordered, mutable list of post-process steps.
type Chain struct {
	steps []*Step
	log   *log.Logger
}

func NewChain(logger *log.Logger) *Chain {
	if logger == nil {
		logger = log.Default()
	}
	return &Chain{log: logger}
}

// Add appends an effect as an enabled step and returns the step so callers
// can toggle it.
func (ch *Chain) Add(e Effect) *Step {
	s := &Step{Effect: e, Enabled: true}
	ch.steps = append(ch.steps, s)
	return s
}

// Steps exposes the ordered step list for reordering or toggling.
func (ch *Chain) Steps() []*Step {
	return ch.steps
}

// Process runs the enabled steps over ctx.Source and leaves the final image
// in the context's current target. With no step enabled the input is
// forwarded unchanged (identity copy), so the postcondition "output is a
// processed image of the input" holds unconditionally.
//
// The last enabled step writes the true target directly; every earlier step
// writes a pool intermediate. An intermediate is reused while its format
// still satisfies the next step's request and recycled for a fresh one
// otherwise; at most two intermediates exist at any point.
//
// On return, error or not, both intermediates are recycled and the
// context's target, viewport and source equal their values at entry.
func (ch *Chain) Process(ctx *render.Context) (err error) {
	if ctx == nil {
		return render.ErrNilContext
	}

	entry := ctx.Save()
	finalTarget := ctx.Target
	finalViewport := ctx.Viewport

	var buffers [2]*render.RenderTarget
	defer func() {
		for i, b := range buffers {
			ctx.Pool.Recycle(b)
			buffers[i] = nil
		}
		ctx.Restore(entry)
	}()

	enabled := make([]*Step, 0, len(ch.steps))
	for _, s := range ch.steps {
		if s.Enabled && s.Effect != nil {
			enabled = append(enabled, s)
		}
	}

	if len(enabled) == 0 {
		ctx.SetTarget(finalTarget, finalViewport)
		if err := ctx.Device.Copy(ctx.Source); err != nil {
			return fmt.Errorf("post-process: identity copy: %w", err)
		}
		return nil
	}

	source := ctx.Source
	write := 0 // index of the buffer the next intermediate pass writes

	for i, step := range enabled {
		last := i == len(enabled)-1

		if last {
			ctx.SetTarget(finalTarget, finalViewport)
		} else {
			want := step.Effect.TargetFormat().Resolve(ctx.Pool.Defaults())
			if b := buffers[write]; b != nil && !b.Format.Satisfies(want) {
				ctx.Pool.Recycle(b)
				buffers[write] = nil
			}
			if buffers[write] == nil {
				b, err := ctx.Pool.Obtain(want)
				if err != nil {
					return fmt.Errorf("post-process: intermediate target: %w", err)
				}
				buffers[write] = b
			}
			ctx.SetTarget(buffers[write], buffers[write].Viewport())
		}

		ctx.Source = source
		if err := step.Effect.Render(ctx); err != nil {
			return fmt.Errorf("post-process step %d: %w", i, err)
		}

		if !last {
			source = buffers[write]
			write = 1 - write
		}
	}
	return nil
}
