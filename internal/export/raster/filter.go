package raster

import (
	"context"
	"image"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/dshills/postforge/internal/post"
)

// applyFilters runs the CSS filter chain grayscale, sepia, invert,
// brightness, contrast over dst in place.
func applyFilters(ctx context.Context, dst *image.RGBA, f post.Filters) error {
	if f == post.DefaultFilters() {
		return nil
	}
	b := dst.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		for x := b.Min.X; x < b.Max.X; x++ {
			c, ok := colorful.MakeColor(dst.At(x, y))
			if !ok {
				continue
			}
			c = grayscale(c, pct(f.Grayscale))
			c = sepia(c, pct(f.Sepia))
			c = invert(c, pct(f.Invert))
			c = scale(c, pct(f.Brightness))
			c = contrast(c, pct(f.Contrast))
			dst.Set(x, y, c.Clamped())
		}
	}
	return nil
}

func pct(v int) float64 {
	return float64(v) / 100
}

func grayscale(c colorful.Color, a float64) colorful.Color {
	if a <= 0 {
		return c
	}
	s := 1 - min(a, 1)
	return colorful.Color{
		R: (0.2126+0.7874*s)*c.R + (0.7152-0.7152*s)*c.G + (0.0722-0.0722*s)*c.B,
		G: (0.2126-0.2126*s)*c.R + (0.7152+0.2848*s)*c.G + (0.0722-0.0722*s)*c.B,
		B: (0.2126-0.2126*s)*c.R + (0.7152-0.7152*s)*c.G + (0.0722+0.9278*s)*c.B,
	}
}

func sepia(c colorful.Color, a float64) colorful.Color {
	if a <= 0 {
		return c
	}
	s := 1 - min(a, 1)
	return colorful.Color{
		R: (0.393+0.607*s)*c.R + (0.769-0.769*s)*c.G + (0.189-0.189*s)*c.B,
		G: (0.349-0.349*s)*c.R + (0.686+0.314*s)*c.G + (0.168-0.168*s)*c.B,
		B: (0.272-0.272*s)*c.R + (0.534-0.534*s)*c.G + (0.131+0.869*s)*c.B,
	}
}

func invert(c colorful.Color, a float64) colorful.Color {
	if a <= 0 {
		return c
	}
	a = min(a, 1)
	return colorful.Color{
		R: a*(1-c.R) + (1-a)*c.R,
		G: a*(1-c.G) + (1-a)*c.G,
		B: a*(1-c.B) + (1-a)*c.B,
	}
}

func scale(c colorful.Color, k float64) colorful.Color {
	return colorful.Color{R: c.R * k, G: c.G * k, B: c.B * k}
}

func contrast(c colorful.Color, k float64) colorful.Color {
	return colorful.Color{
		R: (c.R-0.5)*k + 0.5,
		G: (c.G-0.5)*k + 0.5,
		B: (c.B-0.5)*k + 0.5,
	}
}
