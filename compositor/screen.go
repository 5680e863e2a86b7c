package compositor

import "screen-compositor/render"

// Coverage states whether a screen occludes everything behind it.
type Coverage int

const (
	CoveragePartial Coverage = iota
	CoverageFull
)

func (c Coverage) String() string {
	if c == CoverageFull {
		return "full"
	}
	return "partial"
}

// Screen is one layer of the compositor stack (3D world, HUD, dialog...).
// The host application owns screen lifetime; the compositor only references
// screens while driving a frame.
//
// A screen that reports RequiresPreviousAsTexture receives the combined
// output of the screens behind it in ctx.Source, already rendered into an
// intermediate target of SourceTextureFormat.
type Screen interface {
	OnUpdate(deltaTime float32) error
	OnRender(ctx *render.Context) error

	IsVisible() bool
	Coverage() Coverage
	RequiresPreviousAsTexture() bool
	SourceTextureFormat() render.TargetFormat
}

// ScreenBase carries the common screen attributes with the usual defaults:
// visible, partial coverage, no source texture. Embed it and override what
// differs.
type ScreenBase struct {
	Visible     bool
	Cover       Coverage
	WantsSource bool
	SourceFmt   render.TargetFormat
}

func (s *ScreenBase) OnUpdate(float32) error { return nil }

func (s *ScreenBase) IsVisible() bool { return s.Visible }

func (s *ScreenBase) Coverage() Coverage { return s.Cover }

func (s *ScreenBase) RequiresPreviousAsTexture() bool { return s.WantsSource }

func (s *ScreenBase) SourceTextureFormat() render.TargetFormat { return s.SourceFmt }
