package opengl

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"screen-compositor/render"
)

// ── Fragment shaders ──────────────────────────────────────────────────────────

// toneMapFragSrc — exposure, Reinhard-style mapping, gamma 2.2.
const toneMapFragSrc = `
#version 410 core
in  vec2 fragUV;
out vec4 outColor;

uniform sampler2D hdrBuffer;
uniform float     exposure;

void main() {
    vec3 hdr    = texture(hdrBuffer, fragUV).rgb;
    vec3 mapped = vec3(1.0) - exp(-hdr * exposure);
    mapped      = pow(mapped, vec3(1.0 / 2.2));
    outColor    = vec4(mapped, 1.0);
}
` + "\x00"

// brightPassFragSrc — keeps pixels whose luminance exceeds the threshold.
const brightPassFragSrc = `
#version 410 core
in  vec2 fragUV;
out vec4 outColor;

uniform sampler2D hdrBuffer;
uniform float     threshold;

void main() {
    vec3  color = texture(hdrBuffer, fragUV).rgb;
    float luma  = dot(color, vec3(0.2126, 0.7152, 0.0722));
    outColor = vec4(color * step(threshold, luma), 1.0);
}
` + "\x00"

// blurFragSrc — single-axis 5-tap Gaussian blur.
// texelDir = (1/w, 0) for horizontal, (0, 1/h) for vertical.
const blurFragSrc = `
#version 410 core
in  vec2 fragUV;
out vec4 outColor;

uniform sampler2D blurTex;
uniform vec2      texelDir;

void main() {
    const float w[5] = float[](0.0625, 0.25, 0.375, 0.25, 0.0625);
    vec4 result = vec4(0.0);
    for (int i = -2; i <= 2; i++) {
        result += texture(blurTex, fragUV + float(i) * texelDir) * w[i + 2];
    }
    outColor = result;
}
` + "\x00"

// upsampleFragSrc — bilateral upsample guided by the low-res neighborhood.
// Taps whose value strays from the bilinear estimate are down-weighted by
// sensitivity; sensitivity 0 reduces to plain bilinear.
const upsampleFragSrc = `
#version 410 core
in  vec2 fragUV;
out vec4 outColor;

uniform sampler2D srcTex;
uniform vec2      srcTexel;
uniform float     sensitivity;

void main() {
    vec4 center = texture(srcTex, fragUV);
    if (sensitivity <= 0.0) {
        outColor = center;
        return;
    }
    vec4  sum  = center;
    float wsum = 1.0;
    for (int y = -1; y <= 1; y++) {
        for (int x = -1; x <= 1; x++) {
            if (x == 0 && y == 0) continue;
            vec4  tap  = texture(srcTex, fragUV + vec2(float(x), float(y)) * srcTexel);
            float diff = length(tap - center);
            float w    = exp(-diff * diff * sensitivity);
            sum  += tap * w;
            wsum += w;
        }
    }
    outColor = sum / wsum;
}
` + "\x00"

// ── fsPass ────────────────────────────────────────────────────────────────────

// fsPass owns one fullscreen-triangle program plus its empty VAO. All effects
// below embed it.
type fsPass struct {
	prog    uint32
	quadVAO uint32
}

func newFSPass(fragSrc string) (fsPass, error) {
	prog, err := newProgram(fsVertSrc, fragSrc)
	if err != nil {
		return fsPass{}, err
	}
	p := fsPass{prog: prog}
	gl.GenVertexArrays(1, &p.quadVAO)
	return p, nil
}

// draw runs the pass sampling tex on unit 0 into the bound target.
func (p *fsPass) draw(tex uint32) {
	gl.BindVertexArray(p.quadVAO)
	gl.UseProgram(p.prog)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)
	gl.BindVertexArray(0)
}

func (p *fsPass) destroy() {
	if p.prog != 0 {
		gl.DeleteProgram(p.prog)
		p.prog = 0
	}
	if p.quadVAO != 0 {
		gl.DeleteVertexArrays(1, &p.quadVAO)
		p.quadVAO = 0
	}
}

// ── Copy ──────────────────────────────────────────────────────────────────────

// CopyEffect forwards Source to the bound target unchanged, useful as a
// placeholder step while tuning a chain.
type CopyEffect struct {
	fsPass
}

func NewCopyEffect() (*CopyEffect, error) {
	p, err := newFSPass(copyFragSrc)
	if err != nil {
		return nil, fmt.Errorf("copy shader: %w", err)
	}
	e := &CopyEffect{fsPass: p}
	gl.UseProgram(p.prog)
	gl.Uniform1i(uniform(p.prog, "srcTex"), 0)
	return e, nil
}

func (e *CopyEffect) TargetFormat() render.TargetFormat {
	return render.TargetFormat{}
}

func (e *CopyEffect) Render(ctx *render.Context) error {
	tex := colorTex(ctx.Source)
	if tex == 0 {
		return fmt.Errorf("copy: no source texture")
	}
	e.draw(tex)
	return nil
}

func (e *CopyEffect) Destroy() { e.destroy() }

// ── Tone map ──────────────────────────────────────────────────────────────────

// ToneMapEffect compresses an HDR source to displayable range.
type ToneMapEffect struct {
	fsPass
	expLoc   int32
	Exposure float32
}

func NewToneMapEffect() (*ToneMapEffect, error) {
	p, err := newFSPass(toneMapFragSrc)
	if err != nil {
		return nil, fmt.Errorf("tone-map shader: %w", err)
	}
	e := &ToneMapEffect{fsPass: p, Exposure: 1.0}
	e.expLoc = uniform(p.prog, "exposure")
	gl.UseProgram(p.prog)
	gl.Uniform1i(uniform(p.prog, "hdrBuffer"), 0)
	return e, nil
}

func (e *ToneMapEffect) TargetFormat() render.TargetFormat {
	return render.TargetFormat{Surface: render.SurfaceRGBA8}
}

func (e *ToneMapEffect) Render(ctx *render.Context) error {
	tex := colorTex(ctx.Source)
	if tex == 0 {
		return fmt.Errorf("tone map: no source texture")
	}
	gl.UseProgram(e.prog)
	gl.Uniform1f(e.expLoc, e.Exposure)
	e.draw(tex)
	return nil
}

func (e *ToneMapEffect) Destroy() { e.destroy() }

// ── Bright pass ───────────────────────────────────────────────────────────────

// BrightPassEffect extracts the over-threshold pixels feeding a bloom blur.
type BrightPassEffect struct {
	fsPass
	threshLoc int32
	Threshold float32
}

func NewBrightPassEffect() (*BrightPassEffect, error) {
	p, err := newFSPass(brightPassFragSrc)
	if err != nil {
		return nil, fmt.Errorf("bright-pass shader: %w", err)
	}
	e := &BrightPassEffect{fsPass: p, Threshold: 1.0}
	e.threshLoc = uniform(p.prog, "threshold")
	gl.UseProgram(p.prog)
	gl.Uniform1i(uniform(p.prog, "hdrBuffer"), 0)
	return e, nil
}

func (e *BrightPassEffect) TargetFormat() render.TargetFormat {
	return render.TargetFormat{Surface: render.SurfaceRGBA16F}
}

func (e *BrightPassEffect) Render(ctx *render.Context) error {
	tex := colorTex(ctx.Source)
	if tex == 0 {
		return fmt.Errorf("bright pass: no source texture")
	}
	gl.UseProgram(e.prog)
	gl.Uniform1f(e.threshLoc, e.Threshold)
	e.draw(tex)
	return nil
}

func (e *BrightPassEffect) Destroy() { e.destroy() }

// ── Separable blur ────────────────────────────────────────────────────────────

// BlurEffect is a separable Gaussian. As a post-process effect it blurs
// Source into the bound target; as a shadow mask filter it blurs a mask in
// place through a pooled scratch texture.
type BlurEffect struct {
	fsPass
	texelLoc int32

	// Passes is the number of H+V pairs applied by Apply.
	Passes int
}

func NewBlurEffect() (*BlurEffect, error) {
	p, err := newFSPass(blurFragSrc)
	if err != nil {
		return nil, fmt.Errorf("blur shader: %w", err)
	}
	e := &BlurEffect{fsPass: p, Passes: 1}
	e.texelLoc = uniform(p.prog, "texelDir")
	gl.UseProgram(p.prog)
	gl.Uniform1i(uniform(p.prog, "blurTex"), 0)
	return e, nil
}

func (e *BlurEffect) TargetFormat() render.TargetFormat {
	return render.TargetFormat{}
}

// Render blurs ctx.Source into the bound target: horizontal into a pooled
// scratch, vertical back into the real target.
func (e *BlurEffect) Render(ctx *render.Context) error {
	src := ctx.Source
	tex := colorTex(src)
	if tex == 0 {
		return fmt.Errorf("blur: no source texture")
	}
	scratch, err := ctx.Pool.Obtain(src.Format)
	if err != nil {
		return fmt.Errorf("blur: obtain scratch: %w", err)
	}
	defer ctx.Pool.Recycle(scratch)

	target, vp := ctx.Target, ctx.Viewport

	w := float32(src.Width())
	h := float32(src.Height())

	ctx.SetTarget(scratch, scratch.Viewport())
	gl.UseProgram(e.prog)
	gl.Uniform2f(e.texelLoc, 1.0/w, 0)
	e.draw(tex)

	ctx.SetTarget(target, vp)
	gl.UseProgram(e.prog)
	gl.Uniform2f(e.texelLoc, 0, 1.0/h)
	e.draw(colorTex(scratch))
	return nil
}

// Apply blurs mask in place, Passes H+V pairs through one scratch texture.
func (e *BlurEffect) Apply(ctx *render.Context, mask *render.RenderTarget) error {
	tex := colorTex(mask)
	if tex == 0 {
		return fmt.Errorf("blur: no mask texture")
	}
	scratch, err := ctx.Pool.Obtain(mask.Format)
	if err != nil {
		return fmt.Errorf("blur: obtain scratch: %w", err)
	}
	defer ctx.Pool.Recycle(scratch)

	entry := ctx.Save()
	defer ctx.Restore(entry)

	w := float32(mask.Width())
	h := float32(mask.Height())
	passes := e.Passes
	if passes < 1 {
		passes = 1
	}

	gl.UseProgram(e.prog)
	for i := 0; i < passes; i++ {
		ctx.SetTarget(scratch, scratch.Viewport())
		gl.UseProgram(e.prog)
		gl.Uniform2f(e.texelLoc, 1.0/w, 0)
		e.draw(tex)

		ctx.SetTarget(mask, mask.Viewport())
		gl.UseProgram(e.prog)
		gl.Uniform2f(e.texelLoc, 0, 1.0/h)
		e.draw(colorTex(scratch))
	}
	return nil
}

func (e *BlurEffect) Destroy() { e.destroy() }

// ── Bilateral upsample ────────────────────────────────────────────────────────

// BilateralUpsampleEffect scales half-resolution shadow masks to full size
// without bleeding across value edges.
type BilateralUpsampleEffect struct {
	fsPass
	texelLoc int32
	sensLoc  int32
}

func NewBilateralUpsampleEffect() (*BilateralUpsampleEffect, error) {
	p, err := newFSPass(upsampleFragSrc)
	if err != nil {
		return nil, fmt.Errorf("upsample shader: %w", err)
	}
	e := &BilateralUpsampleEffect{fsPass: p}
	e.texelLoc = uniform(p.prog, "srcTexel")
	e.sensLoc = uniform(p.prog, "sensitivity")
	gl.UseProgram(p.prog)
	gl.Uniform1i(uniform(p.prog, "srcTex"), 0)
	return e, nil
}

func (e *BilateralUpsampleEffect) Upsample(ctx *render.Context, src, dst *render.RenderTarget, sensitivity float32) error {
	tex := colorTex(src)
	if tex == 0 {
		return fmt.Errorf("upsample: no source texture")
	}
	entry := ctx.Save()
	defer ctx.Restore(entry)

	ctx.SetTarget(dst, dst.Viewport())
	gl.UseProgram(e.prog)
	gl.Uniform2f(e.texelLoc, 1.0/float32(src.Width()), 1.0/float32(src.Height()))
	gl.Uniform1f(e.sensLoc, sensitivity)
	e.draw(tex)
	return nil
}

func (e *BilateralUpsampleEffect) Destroy() { e.destroy() }
