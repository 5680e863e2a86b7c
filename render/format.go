package render

// SurfaceFormat selects the color layout of a render target.
// SurfaceUnspecified resolves against the current defaults during format
// negotiation.
type SurfaceFormat int

const (
	SurfaceUnspecified SurfaceFormat = iota
	SurfaceRGBA8                     // 8-bit normalized RGBA, the compositing workhorse
	SurfaceRGBA16F                   // half-float HDR color
	SurfaceR8                        // single 8-bit channel
	SurfaceRG16F                     // two half-float channels (e.g. velocity)
)

func (f SurfaceFormat) String() string {
	switch f {
	case SurfaceRGBA8:
		return "rgba8"
	case SurfaceRGBA16F:
		return "rgba16f"
	case SurfaceR8:
		return "r8"
	case SurfaceRG16F:
		return "rg16f"
	default:
		return "unspecified"
	}
}

// DepthFormat selects the depth-stencil attachment of a render target.
type DepthFormat int

const (
	DepthUnspecified DepthFormat = iota
	DepthNone
	DepthD24S8
	DepthD32F
)

func (f DepthFormat) String() string {
	switch f {
	case DepthNone:
		return "none"
	case DepthD24S8:
		return "d24s8"
	case DepthD32F:
		return "d32f"
	default:
		return "unspecified"
	}
}

// MipmapMode is a tri-state mipmap request so "unset" is distinguishable
// from "explicitly off".
type MipmapMode int

const (
	MipmapUnspecified MipmapMode = iota
	MipmapOff
	MipmapOn
)

// TargetFormat describes a render target. Every field is independently
// overridable; zero values fall back to a caller-supplied default during
// Resolve.
type TargetFormat struct {
	Width   int
	Height  int
	Surface SurfaceFormat
	Depth   DepthFormat
	Mipmap  MipmapMode
}

// baseDefaults are the last-resort values applied when neither the request
// nor the supplied defaults specify a field.
var baseDefaults = TargetFormat{
	Surface: SurfaceRGBA8,
	Depth:   DepthNone,
	Mipmap:  MipmapOff,
}

// Resolve fills unset fields of f from def, then from the package base
// defaults. The result is fully specified.
func (f TargetFormat) Resolve(def TargetFormat) TargetFormat {
	r := f
	if r.Width == 0 {
		r.Width = def.Width
	}
	if r.Height == 0 {
		r.Height = def.Height
	}
	if r.Surface == SurfaceUnspecified {
		r.Surface = def.Surface
	}
	if r.Depth == DepthUnspecified {
		r.Depth = def.Depth
	}
	if r.Mipmap == MipmapUnspecified {
		r.Mipmap = def.Mipmap
	}
	if r.Surface == SurfaceUnspecified {
		r.Surface = baseDefaults.Surface
	}
	if r.Depth == DepthUnspecified {
		r.Depth = baseDefaults.Depth
	}
	if r.Mipmap == MipmapUnspecified {
		r.Mipmap = baseDefaults.Mipmap
	}
	return r
}

// Satisfies reports whether a target of format f can stand in for a request
// of format req. Both formats must already be resolved. Size and surface
// must match exactly; a target that carries mipmaps or a depth buffer also
// satisfies a request that asked for less.
func (f TargetFormat) Satisfies(req TargetFormat) bool {
	if f.Width != req.Width || f.Height != req.Height {
		return false
	}
	if f.Surface != req.Surface {
		return false
	}
	if req.Mipmap == MipmapOn && f.Mipmap != MipmapOn {
		return false
	}
	if req.Depth != DepthNone && f.Depth != req.Depth {
		return false
	}
	return true
}

// HasMipmap reports whether the resolved format requests a mip chain.
func (f TargetFormat) HasMipmap() bool {
	return f.Mipmap == MipmapOn
}
