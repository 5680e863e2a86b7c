package opengl

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"screen-compositor/core"
	"screen-compositor/render"
)

// copyFragSrc samples the source texture straight through. Used by
// Device.Copy for identity blits of pooled targets.
const copyFragSrc = `
#version 410 core
in  vec2 fragUV;
out vec4 outColor;

uniform sampler2D srcTex;

void main() {
    outColor = texture(srcTex, fragUV);
}
` + "\x00"

// fboTarget is the GL handle bundle stored in RenderTarget.Handle: one FBO,
// its color texture, and either a depth renderbuffer or a sampleable depth
// texture depending on format.
type fboTarget struct {
	fbo      uint32
	color    uint32
	depthRB  uint32
	depthTex uint32
}

// colorTex returns the GL texture name of a pooled target's color attachment.
func colorTex(t *render.RenderTarget) uint32 {
	if t == nil {
		return 0
	}
	h, ok := t.Handle.(*fboTarget)
	if !ok {
		return 0
	}
	return h.color
}

// Device is the OpenGL 4.1 core implementation of render.Device. All calls
// must come from the thread that owns the GL context.
type Device struct {
	window *core.Window

	quadVAO    uint32
	copyProg   uint32
	copySrcLoc int32

	lost bool
}

// NewDevice initializes GL bindings on the window's context and compiles the
// blit program.
func NewDevice(window *core.Window) (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("opengl: init: %w", err)
	}

	d := &Device{window: window}

	prog, err := newProgram(fsVertSrc, copyFragSrc)
	if err != nil {
		return nil, fmt.Errorf("opengl: copy shader: %w", err)
	}
	d.copyProg = prog
	d.copySrcLoc = uniform(prog, "srcTex")
	gl.UseProgram(prog)
	gl.Uniform1i(d.copySrcLoc, 0)

	gl.GenVertexArrays(1, &d.quadVAO)

	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.BLEND)
	return d, nil
}

// Ready reports false while the window is minimized or after MarkLost, which
// makes the compositor skip whole frames instead of drawing into nothing.
func (d *Device) Ready() bool {
	return !d.lost && !d.window.IsIconified()
}

// MarkLost flags the device unusable until Restore. The owner is expected to
// clear its target pool, since every outstanding handle died with the
// context.
func (d *Device) MarkLost() {
	d.lost = true
}

// Restore clears the lost flag after the context is rebuilt.
func (d *Device) Restore() {
	d.lost = false
}

func (d *Device) CreateTarget(format render.TargetFormat) (*render.RenderTarget, error) {
	h := &fboTarget{}
	w, ht := int32(format.Width), int32(format.Height)

	var internal uint32
	var pixFormat, pixType uint32
	switch format.Surface {
	case render.SurfaceRGBA16F:
		internal, pixFormat, pixType = gl.RGBA16F, gl.RGBA, gl.HALF_FLOAT
	case render.SurfaceR8:
		internal, pixFormat, pixType = gl.R8, gl.RED, gl.UNSIGNED_BYTE
	case render.SurfaceRG16F:
		internal, pixFormat, pixType = gl.RG16F, gl.RG, gl.HALF_FLOAT
	default:
		internal, pixFormat, pixType = gl.RGBA8, gl.RGBA, gl.UNSIGNED_BYTE
	}

	gl.GenTextures(1, &h.color)
	gl.BindTexture(gl.TEXTURE_2D, h.color)
	gl.TexImage2D(gl.TEXTURE_2D, 0, int32(internal), w, ht, 0, pixFormat, pixType, nil)
	if format.HasMipmap() {
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	} else {
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	gl.GenFramebuffers(1, &h.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, h.fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, h.color, 0)

	switch format.Depth {
	case render.DepthD24S8:
		gl.GenRenderbuffers(1, &h.depthRB)
		gl.BindRenderbuffer(gl.RENDERBUFFER, h.depthRB)
		gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH24_STENCIL8, w, ht)
		gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_STENCIL_ATTACHMENT,
			gl.RENDERBUFFER, h.depthRB)
		gl.BindRenderbuffer(gl.RENDERBUFFER, 0)
	case render.DepthD32F:
		// Depth as a sampleable texture for depth-aware passes.
		gl.GenTextures(1, &h.depthTex)
		gl.BindTexture(gl.TEXTURE_2D, h.depthTex)
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.DEPTH_COMPONENT32F, w, ht, 0,
			gl.DEPTH_COMPONENT, gl.FLOAT, nil)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
		gl.BindTexture(gl.TEXTURE_2D, 0)
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT,
			gl.TEXTURE_2D, h.depthTex, 0)
	}

	if s := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); s != gl.FRAMEBUFFER_COMPLETE {
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
		d.destroyHandles(h)
		return nil, fmt.Errorf("opengl: framebuffer incomplete (0x%X) for %dx%d %v",
			s, format.Width, format.Height, format.Surface)
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)

	return &render.RenderTarget{Format: format, Handle: h}, nil
}

func (d *Device) DestroyTarget(t *render.RenderTarget) {
	if t == nil {
		return
	}
	if h, ok := t.Handle.(*fboTarget); ok {
		d.destroyHandles(h)
	}
	t.Handle = nil
}

func (d *Device) destroyHandles(h *fboTarget) {
	if h.fbo != 0 {
		gl.DeleteFramebuffers(1, &h.fbo)
		h.fbo = 0
	}
	if h.color != 0 {
		gl.DeleteTextures(1, &h.color)
		h.color = 0
	}
	if h.depthRB != 0 {
		gl.DeleteRenderbuffers(1, &h.depthRB)
		h.depthRB = 0
	}
	if h.depthTex != 0 {
		gl.DeleteTextures(1, &h.depthTex)
		h.depthTex = 0
	}
}

func (d *Device) BindTarget(t *render.RenderTarget, vp core.Viewport) {
	if t == nil {
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	} else if h, ok := t.Handle.(*fboTarget); ok {
		gl.BindFramebuffer(gl.FRAMEBUFFER, h.fbo)
	}
	gl.Viewport(int32(vp.X), int32(vp.Y), int32(vp.Width), int32(vp.Height))
}

func (d *Device) Clear(c core.Color) {
	gl.ClearColor(c.R, c.G, c.B, c.A)
	gl.ClearDepth(1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (d *Device) SetChannelMask(m render.ChannelMask) {
	gl.ColorMask(
		m&render.ChannelR != 0,
		m&render.ChannelG != 0,
		m&render.ChannelB != 0,
		m&render.ChannelA != 0,
	)
}

func (d *Device) SetBlend(m render.BlendMode) {
	switch m {
	case render.BlendAlpha:
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	case render.BlendModulate:
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.ZERO, gl.SRC_COLOR)
	default:
		gl.Disable(gl.BLEND)
	}
}

// Copy stretches src over the bound viewport with the blit program. Mipmaps
// on the source are regenerated first so minified copies sample cleanly.
func (d *Device) Copy(src *render.RenderTarget) error {
	tex := colorTex(src)
	if tex == 0 {
		return fmt.Errorf("opengl: copy from target without GL handle")
	}
	if src.Format.HasMipmap() {
		gl.BindTexture(gl.TEXTURE_2D, tex)
		gl.GenerateMipmap(gl.TEXTURE_2D)
	}

	gl.BindVertexArray(d.quadVAO)
	gl.UseProgram(d.copyProg)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)
	gl.BindVertexArray(0)
	return nil
}

func (d *Device) BackbufferSize() (int, int) {
	return d.window.GetFramebufferSize()
}

// Destroy frees the device's own GL objects. Pooled targets are destroyed
// through DestroyTarget by the pool.
func (d *Device) Destroy() {
	if d.copyProg != 0 {
		gl.DeleteProgram(d.copyProg)
		d.copyProg = 0
	}
	if d.quadVAO != 0 {
		gl.DeleteVertexArrays(1, &d.quadVAO)
		d.quadVAO = 0
	}
}
