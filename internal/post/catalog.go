package post

// Option is a selectable value with a display label.
type Option struct {
	Value string
	Label string
}

// Fonts lists the font families the editor offers.
var Fonts = []Option{
	{Value: "font-inter", Label: "Inter"},
	{Value: "font-poppins", Label: "Poppins"},
	{Value: "font-montserrat", Label: "Montserrat"},
	{Value: "font-playfair-display", Label: "Playfair Display"},
	{Value: "font-lobster", Label: "Lobster"},
	{Value: "font-dancing-script", Label: "Dancing Script"},
	{Value: "font-pacifico", Label: "Pacifico"},
	{Value: "font-roboto-slab", Label: "Roboto Slab"},
	{Value: "font-bebas-neue", Label: "Bebas Neue"},
	{Value: "font-orbitron", Label: "Orbitron"},
	{Value: "font-roboto-mono", Label: "Roboto Mono"},
}

// AspectRatios lists the canvas shapes the editor offers.
var AspectRatios = []Option{
	{Value: "aspect-square", Label: "Square (1:1)"},
	{Value: "aspect-[4/5]", Label: "Portrait (4:5)"},
	{Value: "aspect-[2/3]", Label: "Tall Portrait (2:3)"},
	{Value: "aspect-[9/16]", Label: "Story (9:16)"},
	{Value: "aspect-[4/3]", Label: "Landscape (4:3)"},
	{Value: "aspect-[16/9]", Label: "Wide (16:9)"},
	{Value: "aspect-[191/100]", Label: "Social Landscape (1.91:1)"},
}

// Backgrounds lists the background swatches.
var Backgrounds = []Option{
	{Value: "linear-gradient(145deg, #1e3a8a, #4f46e5, #9333ea)", Label: "Default"},
	{Value: "linear-gradient(to right, #0f2027, #203a43, #2c5364)", Label: "Twilight"},
	{Value: "linear-gradient(to right, #ff9966, #ff5e62)", Label: "Sunrise"},
	{Value: "linear-gradient(to right, #43cea2, #185a9d)", Label: "Ocean"},
	{Value: "linear-gradient(to right, #c31432, #240b36)", Label: "Grape"},
	{Value: "linear-gradient(to right, #1d976c, #93f9b9)", Label: "Mojito"},
	{Value: "linear-gradient(to right, #f857a6, #ff5858)", Label: "Passion"},
	{Value: "linear-gradient(to right, #000428, #004e92)", Label: "Deep Sea"},
	{Value: "linear-gradient(to right, #e0eafc, #cfdef3)", Label: "Lavender"},
	{Value: "linear-gradient(to right, #ba5370, #f4e2d8)", Label: "Rose Gold"},
	{Value: "linear-gradient(45deg, #232526, #414345)", Label: "Graphite"},
	{Value: "linear-gradient(to right, #ffafbd, #ffc3a0)", Label: "Blush"},
	{Value: "linear-gradient(to right, #2193b0, #6dd5ed)", Label: "Blue Lagoon"},
	{Value: "linear-gradient(to right, #cc2b5e, #753a88)", Label: "Royal"},
	{Value: "#111827", Label: "Dark"},
	{Value: "#1a1a1a", Label: "Charcoal"},
	{Value: "#ffffff", Label: "White"},
	{Value: "#f3f4f6", Label: "Light Gray"},
	{Value: "#fef9c3", Label: "Lemon"},
	{Value: "#008080", Label: "Teal"},
	{Value: "#ff7f50", Label: "Coral"},
	{Value: "#708090", Label: "Slate"},
}

// LookupOption finds an option by value or by case-sensitive label.
func LookupOption(options []Option, key string) (Option, bool) {
	for _, o := range options {
		if o.Value == key || o.Label == key {
			return o, true
		}
	}
	return Option{}, false
}
