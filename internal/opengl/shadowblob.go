package opengl

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"screen-compositor/render"
	"screen-compositor/scene"
	"screen-compositor/shadow"
)

// blobFragSrc darkens a radial falloff around the light's projected position
// and leaves the rest fully lit. Written under modulate blending with a
// per-job channel mask, so each job only dims its own mask channel.
const blobFragSrc = `
#version 410 core
in  vec2 fragUV;
out vec4 outColor;

uniform vec2  center;
uniform float radius;
uniform float strength;

void main() {
    float d      = distance(fragUV, center);
    float shade  = mix(1.0 - strength, 1.0, smoothstep(0.0, radius, d));
    outColor     = vec4(shade, shade, shade, shade);
}
` + "\x00"

// BlobShadowRenderer writes an analytic soft blob per local light into the
// light's shadow-mask channel. It stands in for a full occluder depth pass
// and keeps the mask pipeline exercising real draws.
type BlobShadowRenderer struct {
	fsPass
	centerLoc   int32
	radiusLoc   int32
	strengthLoc int32

	// Strength is how dark the fully shadowed core gets, in [0, 1].
	Strength float32

	order int
}

func NewBlobShadowRenderer(order int) (*BlobShadowRenderer, error) {
	p, err := newFSPass(blobFragSrc)
	if err != nil {
		return nil, fmt.Errorf("shadow blob shader: %w", err)
	}
	r := &BlobShadowRenderer{fsPass: p, Strength: 0.75, order: order}
	r.centerLoc = uniform(p.prog, "center")
	r.radiusLoc = uniform(p.prog, "radius")
	r.strengthLoc = uniform(p.prog, "strength")
	return r, nil
}

func (r *BlobShadowRenderer) Order() int { return r.order }

// CanRender accepts shadow jobs for local lights; directional lights need a
// cascaded depth pass this renderer does not provide.
func (r *BlobShadowRenderer) CanRender(node render.Node, _ *render.Context) bool {
	j, ok := node.(*shadow.Job)
	if !ok {
		return false
	}
	return j.Light.Type != scene.LightTypeDirectional
}

// Render draws each job's blob into its own channel of the bound mask. The
// caller has the mask bound with modulate blending active.
func (r *BlobShadowRenderer) Render(nodes []render.Node, ctx *render.Context, _ int) error {
	if ctx == nil {
		return render.ErrNilContext
	}
	if nodes == nil {
		return render.ErrNilNodes
	}

	gl.BindVertexArray(r.quadVAO)
	gl.UseProgram(r.prog)

	for _, n := range nodes {
		j, ok := n.(*shadow.Job)
		if !ok {
			return fmt.Errorf("shadow blob: unexpected node %T", n)
		}
		ctx.Device.SetChannelMask(j.ChannelMask())

		cx, cy, radius := r.project(ctx, j)
		gl.Uniform2f(r.centerLoc, cx, cy)
		gl.Uniform1f(r.radiusLoc, radius)
		gl.Uniform1f(r.strengthLoc, r.Strength)
		gl.DrawArrays(gl.TRIANGLES, 0, 3)
	}

	gl.BindVertexArray(0)
	ctx.Device.SetChannelMask(render.ChannelAll)
	return nil
}

// project maps the job's light to mask UV space and scales its range into a
// UV radius. Without a camera the blob lands center-screen.
func (r *BlobShadowRenderer) project(ctx *render.Context, j *shadow.Job) (float32, float32, float32) {
	if ctx.Camera == nil {
		return 0.5, 0.5, 0.25
	}
	viewProj := ctx.Camera.GetProjectionMatrix().Mul(ctx.Camera.GetViewMatrix())
	ndc := viewProj.TransformPoint(j.Light.Position)

	dist := j.Light.Position.Distance(ctx.Camera.Position)
	if dist < 0.1 {
		dist = 0.1
	}
	radius := j.Descriptor.Bounds.Radius / dist * 0.5
	if radius > 1 {
		radius = 1
	}
	return ndc.X*0.5 + 0.5, ndc.Y*0.5 + 0.5, radius
}

func (r *BlobShadowRenderer) Destroy() { r.destroy() }
