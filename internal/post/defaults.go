package post

// Default background and colours restored by the clear/reset actions.
const (
	DefaultBackground     = "linear-gradient(145deg, #1e3a8a, #4f46e5, #9333ea)"
	ClearedBackground     = "#111827"
	DefaultTextColor      = "#ffffff"
	TransparentText       = "transparent"
	DefaultPostText       = "Your social media post text goes here! ✨\n\nYou can customize everything on the left panel."
	DefaultUsername       = "@username"
	DefaultFontFamily     = "font-poppins"
	DefaultAspectRatio    = "aspect-square"
	DefaultFontSize       = 24
	DefaultPadding        = 48
	filterToggleOnPercent = 100
)

// DefaultFilters returns the neutral filter settings.
func DefaultFilters() Filters {
	return Filters{
		Grayscale:  0,
		Sepia:      0,
		Invert:     0,
		Brightness: 100,
		Contrast:   100,
	}
}

// DefaultGradient returns the initial gradient builder settings.
func DefaultGradient() Gradient {
	return Gradient{
		Start: "#1e3a8a",
		End:   "#4f46e5",
		Angle: 145,
	}
}

// DefaultShadow returns the initial drop shadow.
func DefaultShadow() Shadow {
	return Shadow{Color: "#000000", Blur: 0, OffsetX: 2, OffsetY: 2}
}

// DefaultOutline returns the initial outline.
func DefaultOutline() Outline {
	return Outline{Color: "#000000", Width: 1}
}

// DefaultGlow returns the initial glow.
func DefaultGlow() Glow {
	return Glow{Color: "#00ffff", Blur: 10}
}

// DefaultNeon returns the initial neon.
func DefaultNeon() Neon {
	return Neon{Color: "#ff00ff", Blur: 15}
}

// DefaultAnimation returns the initial animation.
func DefaultAnimation() Animation {
	return Animation{Type: AnimFadeIn, Duration: 1, Delay: 0}
}

// DefaultAdvanced returns the initial advanced effect.
func DefaultAdvanced() Advanced {
	return Advanced{
		Type:        AdvancedEmboss,
		LightColor:  "#ffffff",
		DarkColor:   "#000000",
		Intensity:   1,
		BorderColor: "#ffffff",
	}
}

// DefaultStyle returns the initial style options.
func DefaultStyle() StyleOptions {
	return StyleOptions{
		Background:  DefaultBackground,
		TextColor:   DefaultTextColor,
		FontFamily:  DefaultFontFamily,
		FontSize:    DefaultFontSize,
		Padding:     DefaultPadding,
		AspectRatio: DefaultAspectRatio,
		TextAlign:   AlignLeft,
		Shadow:      DefaultShadow(),
		Outline:     DefaultOutline(),
		Glow:        DefaultGlow(),
		Neon:        DefaultNeon(),
		Animation:   DefaultAnimation(),
		Advanced:    DefaultAdvanced(),
	}
}

// DefaultContentImageOptions returns the initial content image layout.
func DefaultContentImageOptions() ContentImageOptions {
	return ContentImageOptions{
		Position:  PositionBelow,
		ObjectFit: FitContain,
		Rounded:   RoundLG,
	}
}

// Default returns the state a fresh editor starts with.
func Default() State {
	return State{
		PostText:    DefaultPostText,
		Username:    DefaultUsername,
		Style:       DefaultStyle(),
		Filters:     DefaultFilters(),
		Gradient:    DefaultGradient(),
		ImageLayout: DefaultContentImageOptions(),
	}
}
