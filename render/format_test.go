package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveFillsUnsetFields(t *testing.T) {
	def := TargetFormat{Width: 1280, Height: 720, Surface: SurfaceRGBA8, Depth: DepthNone, Mipmap: MipmapOff}

	tests := []struct {
		name string
		req  TargetFormat
		want TargetFormat
	}{
		{
			"empty request takes defaults",
			TargetFormat{},
			def,
		},
		{
			"explicit fields survive",
			TargetFormat{Width: 64, Height: 64, Surface: SurfaceRGBA16F, Depth: DepthD32F, Mipmap: MipmapOn},
			TargetFormat{Width: 64, Height: 64, Surface: SurfaceRGBA16F, Depth: DepthD32F, Mipmap: MipmapOn},
		},
		{
			"partial request mixes",
			TargetFormat{Surface: SurfaceR8},
			TargetFormat{Width: 1280, Height: 720, Surface: SurfaceR8, Depth: DepthNone, Mipmap: MipmapOff},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.req.Resolve(def))
		})
	}
}

func TestResolveBaseDefaults(t *testing.T) {
	// Defaults that are themselves unset fall through to the package base.
	got := TargetFormat{Width: 8, Height: 8}.Resolve(TargetFormat{})
	assert.Equal(t, SurfaceRGBA8, got.Surface)
	assert.Equal(t, DepthNone, got.Depth)
	assert.Equal(t, MipmapOff, got.Mipmap)
}

func TestSatisfies(t *testing.T) {
	base := TargetFormat{Width: 256, Height: 256, Surface: SurfaceRGBA8, Depth: DepthNone, Mipmap: MipmapOff}

	tests := []struct {
		name string
		have TargetFormat
		req  TargetFormat
		want bool
	}{
		{"identical", base, base, true},
		{"size mismatch", base, TargetFormat{Width: 128, Height: 256, Surface: SurfaceRGBA8, Depth: DepthNone, Mipmap: MipmapOff}, false},
		{"surface mismatch", base, TargetFormat{Width: 256, Height: 256, Surface: SurfaceRGBA16F, Depth: DepthNone, Mipmap: MipmapOff}, false},
		{
			"mipmapped target serves flat request",
			TargetFormat{Width: 256, Height: 256, Surface: SurfaceRGBA8, Depth: DepthNone, Mipmap: MipmapOn},
			base,
			true,
		},
		{
			"flat target cannot serve mipmap request",
			base,
			TargetFormat{Width: 256, Height: 256, Surface: SurfaceRGBA8, Depth: DepthNone, Mipmap: MipmapOn},
			false,
		},
		{
			"depth target serves depthless request",
			TargetFormat{Width: 256, Height: 256, Surface: SurfaceRGBA8, Depth: DepthD24S8, Mipmap: MipmapOff},
			base,
			true,
		},
		{
			"depthless target cannot serve depth request",
			base,
			TargetFormat{Width: 256, Height: 256, Surface: SurfaceRGBA8, Depth: DepthD24S8, Mipmap: MipmapOff},
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.have.Satisfies(tt.req))
		})
	}
}
