package post

import "fmt"

// EffectKind names one of the text effects.
type EffectKind string

// Effect kinds.
const (
	EffectShadow    EffectKind = "shadow"
	EffectOutline   EffectKind = "outline"
	EffectGlow      EffectKind = "glow"
	EffectNeon      EffectKind = "neon"
	EffectAdvanced  EffectKind = "advanced"
	EffectAnimation EffectKind = "animation"
)

// EffectKinds lists every effect kind in display order.
var EffectKinds = []EffectKind{
	EffectShadow,
	EffectOutline,
	EffectGlow,
	EffectNeon,
	EffectAdvanced,
	EffectAnimation,
}

// ParseEffectKind parses an effect kind name.
func ParseEffectKind(s string) (EffectKind, error) {
	for _, k := range EffectKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownEffect, s)
}

// Effect is one of the closed set of text effect records.
type Effect interface {
	Kind() EffectKind
	IsEnabled() bool
	withEnabled(on bool) Effect
}

// Shadow is a drop shadow behind the text.
type Shadow struct {
	Enabled bool    `json:"enabled" yaml:"enabled"`
	Color   string  `json:"color" yaml:"color" validate:"required"`
	Blur    float64 `json:"blur" yaml:"blur" validate:"min=0"`
	OffsetX float64 `json:"offsetX" yaml:"offsetX"`
	OffsetY float64 `json:"offsetY" yaml:"offsetY"`
}

// Outline strokes the glyph edges.
type Outline struct {
	Enabled bool    `json:"enabled" yaml:"enabled"`
	Color   string  `json:"color" yaml:"color" validate:"required"`
	Width   float64 `json:"width" yaml:"width" validate:"min=0"`
}

// Glow is a single soft halo.
type Glow struct {
	Enabled bool    `json:"enabled" yaml:"enabled"`
	Color   string  `json:"color" yaml:"color" validate:"required"`
	Blur    float64 `json:"blur" yaml:"blur" validate:"min=0"`
}

// Neon is a layered white-core glow.
type Neon struct {
	Enabled bool    `json:"enabled" yaml:"enabled"`
	Color   string  `json:"color" yaml:"color" validate:"required"`
	Blur    float64 `json:"blur" yaml:"blur" validate:"min=0"`
}

// AnimationType is the entrance animation played by the preview.
type AnimationType string

// Animation types.
const (
	AnimFadeIn       AnimationType = "fadeIn"
	AnimSlideInUp    AnimationType = "slideInUp"
	AnimBounceIn     AnimationType = "bounceIn"
	AnimSlideInLeft  AnimationType = "slideInLeft"
	AnimSlideInRight AnimationType = "slideInRight"
	AnimZoomIn       AnimationType = "zoomIn"
)

// Valid reports whether t is a known animation.
func (t AnimationType) Valid() bool {
	switch t {
	case AnimFadeIn, AnimSlideInUp, AnimBounceIn, AnimSlideInLeft, AnimSlideInRight, AnimZoomIn:
		return true
	}
	return false
}

// Animation is an entrance animation. Duration and Delay are in seconds.
type Animation struct {
	Enabled  bool          `json:"enabled" yaml:"enabled"`
	Type     AnimationType `json:"type" yaml:"type" validate:"oneof=fadeIn slideInUp bounceIn slideInLeft slideInRight zoomIn"`
	Duration float64       `json:"duration" yaml:"duration" validate:"min=0"`
	Delay    float64       `json:"delay" yaml:"delay" validate:"min=0"`
}

// AdvancedType selects the relief effect.
type AdvancedType string

// Advanced effect types.
const (
	AdvancedEmboss       AdvancedType = "emboss"
	AdvancedDeboss       AdvancedType = "deboss"
	AdvancedSubtleBorder AdvancedType = "subtleBorder"
)

// Valid reports whether t is a known advanced effect.
func (t AdvancedType) Valid() bool {
	return t == AdvancedEmboss || t == AdvancedDeboss || t == AdvancedSubtleBorder
}

// Advanced is an emboss, deboss or thin border built from offset shadows.
type Advanced struct {
	Enabled     bool         `json:"enabled" yaml:"enabled"`
	Type        AdvancedType `json:"type" yaml:"type" validate:"oneof=emboss deboss subtleBorder"`
	LightColor  string       `json:"lightColor" yaml:"lightColor" validate:"required"`
	DarkColor   string       `json:"darkColor" yaml:"darkColor" validate:"required"`
	Intensity   float64      `json:"intensity" yaml:"intensity" validate:"min=0"`
	BorderColor string       `json:"borderColor" yaml:"borderColor" validate:"required"`
}

func (Shadow) Kind() EffectKind    { return EffectShadow }
func (Outline) Kind() EffectKind   { return EffectOutline }
func (Glow) Kind() EffectKind      { return EffectGlow }
func (Neon) Kind() EffectKind      { return EffectNeon }
func (Animation) Kind() EffectKind { return EffectAnimation }
func (Advanced) Kind() EffectKind  { return EffectAdvanced }

func (e Shadow) IsEnabled() bool    { return e.Enabled }
func (e Outline) IsEnabled() bool   { return e.Enabled }
func (e Glow) IsEnabled() bool      { return e.Enabled }
func (e Neon) IsEnabled() bool      { return e.Enabled }
func (e Animation) IsEnabled() bool { return e.Enabled }
func (e Advanced) IsEnabled() bool  { return e.Enabled }

func (e Shadow) withEnabled(on bool) Effect    { e.Enabled = on; return e }
func (e Outline) withEnabled(on bool) Effect   { e.Enabled = on; return e }
func (e Glow) withEnabled(on bool) Effect      { e.Enabled = on; return e }
func (e Neon) withEnabled(on bool) Effect      { e.Enabled = on; return e }
func (e Animation) withEnabled(on bool) Effect { e.Enabled = on; return e }
func (e Advanced) withEnabled(on bool) Effect  { e.Enabled = on; return e }

// Effect returns the effect record of the given kind.
func (s StyleOptions) Effect(kind EffectKind) (Effect, bool) {
	switch kind {
	case EffectShadow:
		return s.Shadow, true
	case EffectOutline:
		return s.Outline, true
	case EffectGlow:
		return s.Glow, true
	case EffectNeon:
		return s.Neon, true
	case EffectAdvanced:
		return s.Advanced, true
	case EffectAnimation:
		return s.Animation, true
	}
	return nil, false
}

// WithEffect returns a copy of s with the record of e's kind replaced by e.
func (s StyleOptions) WithEffect(e Effect) StyleOptions {
	switch v := e.(type) {
	case Shadow:
		s.Shadow = v
	case Outline:
		s.Outline = v
	case Glow:
		s.Glow = v
	case Neon:
		s.Neon = v
	case Advanced:
		s.Advanced = v
	case Animation:
		s.Animation = v
	}
	return s
}

// EnabledEffects returns the kinds currently switched on, in display order.
func (s StyleOptions) EnabledEffects() []EffectKind {
	var kinds []EffectKind
	for _, k := range EffectKinds {
		if e, ok := s.Effect(k); ok && e.IsEnabled() {
			kinds = append(kinds, k)
		}
	}
	return kinds
}
