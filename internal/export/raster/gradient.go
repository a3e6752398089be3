package raster

import (
	"context"
	"fmt"
	"image"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Stop is a gradient colour stop. Pos is in [0, 1].
type Stop struct {
	Color colorful.Color
	Pos   float64
}

// LinearGradient is a parsed CSS linear-gradient.
type LinearGradient struct {
	// Angle in degrees; 0 points up, 90 points right.
	Angle float64
	Stops []Stop
}

var directions = map[string]float64{
	"to top":          0,
	"to top right":    45,
	"to right top":    45,
	"to right":        90,
	"to bottom right": 135,
	"to right bottom": 135,
	"to bottom":       180,
	"to bottom left":  225,
	"to left bottom":  225,
	"to left":         270,
	"to top left":     315,
	"to left top":     315,
}

// ParseLinearGradient parses values such as
// "linear-gradient(145deg, #1e3a8a, #4f46e5 40%, #9333ea)".
func ParseLinearGradient(value string) (LinearGradient, error) {
	inner, ok := strings.CutPrefix(strings.TrimSpace(value), "linear-gradient(")
	if ok {
		inner, ok = strings.CutSuffix(inner, ")")
	}
	if !ok {
		return LinearGradient{}, fmt.Errorf("%w: %q", ErrBackground, value)
	}

	args := splitArgs(inner)
	g := LinearGradient{Angle: 180}

	if len(args) > 0 {
		first := strings.ToLower(args[0])
		if a, ok := directions[first]; ok {
			g.Angle = a
			args = args[1:]
		} else if deg, ok := strings.CutSuffix(first, "deg"); ok {
			a, err := strconv.ParseFloat(deg, 64)
			if err != nil {
				return LinearGradient{}, fmt.Errorf("%w: angle %q", ErrBackground, args[0])
			}
			g.Angle = a
			args = args[1:]
		}
	}
	if len(args) < 2 {
		return LinearGradient{}, fmt.Errorf("%w: gradient needs two colours: %q", ErrBackground, value)
	}

	g.Stops = make([]Stop, len(args))
	known := make([]bool, len(args))
	for i, arg := range args {
		colour, pos, hasPos := strings.Cut(arg, " ")
		c, err := parseColor(colour)
		if err != nil {
			return LinearGradient{}, err
		}
		g.Stops[i].Color = c
		if hasPos {
			p, ok := strings.CutSuffix(strings.TrimSpace(pos), "%")
			if !ok {
				return LinearGradient{}, fmt.Errorf("%w: stop %q", ErrBackground, arg)
			}
			v, err := strconv.ParseFloat(p, 64)
			if err != nil {
				return LinearGradient{}, fmt.Errorf("%w: stop %q", ErrBackground, arg)
			}
			g.Stops[i].Pos = v / 100
			known[i] = true
		}
	}
	fillPositions(g.Stops, known)
	return g, nil
}

// splitArgs splits on commas outside parentheses.
func splitArgs(s string) []string {
	var (
		args  []string
		depth int
		start int
	)
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				args = append(args, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	if rest := strings.TrimSpace(s[start:]); rest != "" {
		args = append(args, rest)
	}
	return args
}

// fillPositions spaces unpositioned stops evenly between their positioned
// neighbours. The first and last default to 0 and 1.
func fillPositions(stops []Stop, known []bool) {
	n := len(stops)
	if !known[0] {
		stops[0].Pos, known[0] = 0, true
	}
	if !known[n-1] {
		stops[n-1].Pos, known[n-1] = 1, true
	}

	prev := 0
	for i := 1; i < n; i++ {
		if !known[i] {
			continue
		}
		gap := i - prev
		for j := prev + 1; j < i; j++ {
			t := float64(j-prev) / float64(gap)
			stops[j].Pos = stops[prev].Pos + t*(stops[i].Pos-stops[prev].Pos)
		}
		if stops[i].Pos < stops[prev].Pos {
			stops[i].Pos = stops[prev].Pos
		}
		prev = i
	}
}

// At returns the colour at offset t along the gradient line.
func (g LinearGradient) At(t float64) colorful.Color {
	stops := g.Stops
	if t <= stops[0].Pos {
		return stops[0].Color
	}
	last := stops[len(stops)-1]
	if t >= last.Pos {
		return last.Color
	}
	for i := 1; i < len(stops); i++ {
		a, b := stops[i-1], stops[i]
		if t > b.Pos {
			continue
		}
		span := b.Pos - a.Pos
		if span <= 0 {
			return b.Color
		}
		return a.Color.BlendRgb(b.Color, (t-a.Pos)/span)
	}
	return last.Color
}

// Paint fills dst along the gradient line, sized the way CSS sizes it for
// the box.
func (g LinearGradient) Paint(ctx context.Context, dst *image.RGBA) error {
	b := dst.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())

	rad := g.Angle * math.Pi / 180
	dx, dy := math.Sin(rad), -math.Cos(rad)
	length := math.Abs(w*dx) + math.Abs(h*dy)
	if length == 0 {
		length = 1
	}
	cx, cy := w/2, h/2

	for y := b.Min.Y; y < b.Max.Y; y++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		py := float64(y-b.Min.Y) + 0.5 - cy
		for x := b.Min.X; x < b.Max.X; x++ {
			px := float64(x-b.Min.X) + 0.5 - cx
			t := (px*dx+py*dy)/length + 0.5
			dst.Set(x, y, g.At(t).Clamped())
		}
	}
	return nil
}
