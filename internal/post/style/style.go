// Package style maps post state to the CSS the preview surface renders.
package style

import (
	"math"
	"strconv"
	"strings"

	"github.com/dshills/postforge/internal/post"
)

// Declaration is one CSS property/value pair.
type Declaration struct {
	Property string
	Value    string
}

// String renders the declaration as "property: value".
func (d Declaration) String() string {
	return d.Property + ": " + d.Value
}

// Inline joins declarations into an inline style attribute value.
func Inline(decls []Declaration) string {
	parts := make([]string, len(decls))
	for i, d := range decls {
		parts[i] = d.String()
	}
	return strings.Join(parts, "; ")
}

// Lookup returns the value of the first declaration with the given property.
func Lookup(decls []Declaration, property string) (string, bool) {
	for _, d := range decls {
		if d.Property == property {
			return d.Value, true
		}
	}
	return "", false
}

// px formats a length without a trailing ".0".
func px(v float64) string {
	return num(v) + "px"
}

// num rounds to three decimals so scaled blurs print cleanly.
func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*1000)/1000, 'f', -1, 64)
}

// Container returns the declarations of the outer canvas.
// The background is painted here unless a background image is set.
func Container(s post.State) []Declaration {
	decls := []Declaration{{"padding", strconv.Itoa(s.Style.Padding) + "px"}}
	if s.BackgroundImage == "" {
		decls = append(decls, Declaration{"background", s.Style.Background})
	}
	return decls
}

// Background returns the declarations of the background image layer,
// or nil when there is no background image.
func Background(s post.State) []Declaration {
	if s.BackgroundImage == "" {
		return nil
	}
	return []Declaration{
		{"background-image", "url(" + s.BackgroundImage + ")"},
		{"background-size", "cover"},
		{"background-position", "center"},
		{"background-repeat", "no-repeat"},
		{"filter", Filter(s.Filters)},
	}
}

// Filter renders the image filter chain.
func Filter(f post.Filters) string {
	return "grayscale(" + strconv.Itoa(f.Grayscale) + "%) " +
		"sepia(" + strconv.Itoa(f.Sepia) + "%) " +
		"invert(" + strconv.Itoa(f.Invert) + "%) " +
		"brightness(" + strconv.Itoa(f.Brightness) + "%) " +
		"contrast(" + strconv.Itoa(f.Contrast) + "%)"
}

// Text returns the declarations of the post text block.
func Text(s post.State) []Declaration {
	st := s.Style
	color := st.TextColor
	var decls []Declaration

	if s.TextFillImage != "" {
		color = post.TransparentText
	}
	decls = append(decls,
		Declaration{"color", color},
		Declaration{"font-size", strconv.Itoa(st.FontSize) + "px"},
		Declaration{"line-height", "1.6"},
	)

	if s.TextFillImage != "" {
		decls = append(decls,
			Declaration{"background-image", "url(" + s.TextFillImage + ")"},
			Declaration{"background-size", "cover"},
			Declaration{"background-position", "center"},
			Declaration{"-webkit-background-clip", "text"},
			Declaration{"background-clip", "text"},
		)
	}

	if shadow := TextShadow(st); shadow != "" {
		decls = append(decls, Declaration{"text-shadow", shadow})
	}

	if st.Outline.Enabled {
		decls = append(decls, Declaration{"-webkit-text-stroke", px(st.Outline.Width) + " " + st.Outline.Color})
	}

	if st.Animation.Enabled {
		decls = append(decls,
			Declaration{"animation-name", string(st.Animation.Type)},
			Declaration{"animation-duration", num(st.Animation.Duration) + "s"},
			Declaration{"animation-delay", num(st.Animation.Delay) + "s"},
			Declaration{"animation-fill-mode", "both"},
		)
	}
	return decls
}

// Username returns the declarations of the handle line. A text-fill image
// only applies to the body, so the handle inherits instead.
func Username(s post.State) []Declaration {
	if s.TextFillImage != "" {
		return []Declaration{{"color", "inherit"}}
	}
	return []Declaration{{"color", s.Style.TextColor}}
}

// TextShadow composes every enabled shadow-based effect into one
// text-shadow value: drop shadow, glow, neon layers, then the advanced relief.
func TextShadow(st post.StyleOptions) string {
	var layers []string

	if sh := st.Shadow; sh.Enabled {
		layers = append(layers, px(sh.OffsetX)+" "+px(sh.OffsetY)+" "+px(sh.Blur)+" "+sh.Color)
	}

	if g := st.Glow; g.Enabled {
		layers = append(layers, "0 0 "+px(g.Blur)+" "+g.Color)
	}

	if n := st.Neon; n.Enabled {
		layers = append(layers,
			"0 0 "+px(n.Blur*0.2)+" #fff",
			"0 0 "+px(n.Blur*0.4)+" #fff",
			"0 0 "+px(n.Blur*0.6)+" "+n.Color,
			"0 0 "+px(n.Blur)+" "+n.Color,
		)
	}

	if a := st.Advanced; a.Enabled {
		o := px(a.Intensity)
		switch a.Type {
		case post.AdvancedEmboss:
			layers = append(layers,
				"-"+o+" -"+o+" "+o+" "+a.LightColor,
				o+" "+o+" "+o+" "+a.DarkColor,
			)
		case post.AdvancedDeboss:
			layers = append(layers,
				o+" "+o+" "+o+" "+a.LightColor,
				"-"+o+" -"+o+" "+o+" "+a.DarkColor,
			)
		case post.AdvancedSubtleBorder:
			layers = append(layers,
				"-"+o+" -"+o+" 0 "+a.BorderColor,
				o+" -"+o+" 0 "+a.BorderColor,
				"-"+o+" "+o+" 0 "+a.BorderColor,
				o+" "+o+" 0 "+a.BorderColor,
			)
		}
	}

	return strings.Join(layers, ", ")
}

var alignClass = map[post.TextAlign]string{
	post.AlignLeft:    "text-left",
	post.AlignCenter:  "text-center",
	post.AlignRight:   "text-right",
	post.AlignJustify: "text-justify",
}

var roundedClass = map[post.Rounding]string{
	post.RoundNone: "rounded-none",
	post.RoundLG:   "rounded-lg",
	post.Round2XL:  "rounded-2xl",
	post.RoundFull: "rounded-full",
}

// Classes returns the utility classes of the canvas and text block.
func Classes(s post.State) (canvas, text []string) {
	canvas = []string{s.Style.AspectRatio}
	text = []string{"whitespace-pre-wrap", "break-words", s.Style.FontFamily}
	if c, ok := alignClass[s.Style.TextAlign]; ok {
		text = append(text, c)
	}
	return canvas, text
}

// ImageClasses returns the classes of the content image and its frame.
func ImageClasses(opts post.ContentImageOptions) (frame, img []string) {
	frame = []string{"overflow-hidden"}
	if c, ok := roundedClass[opts.Rounded]; ok {
		frame = append(frame, c)
	}
	img = []string{"w-full"}
	if opts.ObjectFit == post.FitCover {
		frame = append(frame, "h-80")
		img = append(img, "object-cover", "h-full")
	} else {
		img = append(img, "object-contain", "h-auto", "max-h-80")
	}
	return frame, img
}
