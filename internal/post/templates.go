package post

import "fmt"

// Template is a named, complete set of style options.
type Template struct {
	Name  string
	Style StyleOptions
}

// templateStyle builds a style with default effects, then applies overrides.
func templateStyle(background, textColor, font string, size, padding int, aspect string, align TextAlign, effects ...Effect) StyleOptions {
	s := StyleOptions{
		Background:  background,
		TextColor:   textColor,
		FontFamily:  font,
		FontSize:    size,
		Padding:     padding,
		AspectRatio: aspect,
		TextAlign:   align,
		Shadow:      DefaultShadow(),
		Outline:     DefaultOutline(),
		Glow:        DefaultGlow(),
		Neon:        DefaultNeon(),
		Animation:   DefaultAnimation(),
		Advanced:    DefaultAdvanced(),
	}
	for _, e := range effects {
		s = s.WithEffect(e)
	}
	return s
}

func shadow(color string, blur, x, y float64) Shadow {
	return Shadow{Enabled: true, Color: color, Blur: blur, OffsetX: x, OffsetY: y}
}

var templates = []Template{
	{"Deep Space", templateStyle("linear-gradient(145deg, #1e3a8a, #4f46e5, #9333ea)", "#ffffff", "font-poppins", 24, 48, "aspect-square", AlignLeft)},
	{"Sunset", templateStyle("linear-gradient(to right, #ff9966, #ff5e62)", "#1f2937", "font-lobster", 36, 64, "aspect-[16/9]", AlignCenter)},
	{"Minimalist", templateStyle("#ffffff", "#111827", "font-inter", 20, 80, "aspect-[9/16]", AlignLeft)},
	{"Terminal", templateStyle("#111827", "#34d399", "font-roboto-mono", 18, 32, "aspect-square", AlignLeft,
		Glow{Color: "#34d399", Blur: 10},
		Neon{Color: "#34d399", Blur: 15},
	)},
	{"Modern Quote", templateStyle("linear-gradient(135deg, #f5f7fa, #eef2f7)", "#374151", "font-lobster", 38, 80, "aspect-square", AlignCenter,
		shadow("rgba(0,0,0,0.1)", 5, 2, 2),
	)},
	{"Bold Announcement", templateStyle("linear-gradient(45deg, #004d7a, #008793)", "#ffffff", "font-poppins", 28, 56, "aspect-[16/9]", AlignLeft,
		shadow("rgba(0,0,0,0.3)", 4, 1, 1),
	)},
	{"Neon Promo", templateStyle("linear-gradient(200deg, #111827, #000000)", "#f472b6", "font-roboto-mono", 32, 64, "aspect-[9/16]", AlignCenter,
		Neon{Enabled: true, Color: "#f472b6", Blur: 20},
	)},
	{"Vintage Paper", templateStyle("linear-gradient(135deg, #fdfbfb, #ebedee)", "#4a4238", "font-lobster", 32, 72, "aspect-square", AlignCenter,
		shadow("rgba(0,0,0,0.15)", 4, 1, 1),
	)},
	{"Corporate Clean", templateStyle("#eef2f7", "#1e3a8a", "font-poppins", 22, 56, "aspect-[16/9]", AlignLeft)},
	{"Party Vibes", templateStyle("linear-gradient(to right, #f857a6, #ff5858)", "#ffffff", "font-poppins", 36, 64, "aspect-[9/16]", AlignCenter,
		shadow("rgba(0,0,0,0.25)", 8, 0, 4),
		Animation{Enabled: true, Type: AnimBounceIn, Duration: 1.2, Delay: 0},
	)},
	{"Cyberpunk Glitch", templateStyle("linear-gradient(180deg, #3a0ca3, #00f5d4)", "#00f5d4", "font-orbitron", 26, 48, "aspect-square", AlignLeft,
		shadow("#f72585", 2, 2, -2),
		Glow{Enabled: true, Color: "#4cc9f0", Blur: 10},
	)},
	{"Elegant Script", templateStyle("#f8f9fa", "#343a40", "font-dancing-script", 40, 80, "aspect-[4/5]", AlignCenter,
		shadow("rgba(0,0,0,0.1)", 10, 0, 5),
	)},
	{"Nature Walk", templateStyle("linear-gradient(135deg, #606c38, #283618)", "#fefae0", "font-playfair-display", 32, 64, "aspect-square", AlignCenter)},
	{"Pop Art", templateStyle("#ffd100", "#003566", "font-bebas-neue", 48, 48, "aspect-square", AlignCenter,
		shadow("#000000", 0, 4, 4),
		Outline{Enabled: true, Color: "#000000", Width: 2},
	)},
	{"Cosmic Dust", templateStyle("linear-gradient(225deg, #000000, #430d4b)", "#e0c3fc", "font-montserrat", 22, 56, "aspect-[9/16]", AlignLeft,
		Glow{Enabled: true, Color: "#e0c3fc", Blur: 15},
	)},
	{"Oceanic Calm", templateStyle("linear-gradient(135deg, #2193b0, #6dd5ed)", "#ffffff", "font-playfair-display", 30, 64, "aspect-square", AlignCenter,
		shadow("rgba(0,0,0,0.2)", 5, 1, 1),
	)},
	{"Gamer Fuel", templateStyle("linear-gradient(315deg, #7f00ff, #e100ff, #00ffc4)", "#ffffff", "font-orbitron", 28, 48, "aspect-[16/9]", AlignLeft,
		Outline{Enabled: true, Color: "#000000", Width: 2},
		Glow{Enabled: true, Color: "#00ffc4", Blur: 15},
	)},
	{"Classic Noir", templateStyle("#1a1a1a", "#f5f5f5", "font-roboto-slab", 24, 72, "aspect-[4/3]", AlignLeft,
		shadow("rgba(255,255,255,0.1)", 1, 0, 1),
	)},
	{"Pastel Dream", templateStyle("linear-gradient(145deg, #ffafbd, #ffc3a0)", "#5e3a4e", "font-pacifico", 34, 64, "aspect-[4/5]", AlignCenter)},
	{"Autumn Warmth", templateStyle("linear-gradient(to right, #d3959b, #bfe6ba)", "#4a2c2a", "font-roboto-slab", 28, 64, "aspect-square", AlignLeft,
		shadow("rgba(255,255,255,0.5)", 2, 1, 1),
	)},
}

// Templates returns the built-in templates in display order.
func Templates() []Template {
	out := make([]Template, len(templates))
	copy(out, templates)
	return out
}

// TemplateByName finds a built-in template.
func TemplateByName(name string) (Template, error) {
	for _, t := range templates {
		if t.Name == name {
			return t, nil
		}
	}
	return Template{}, fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
}
