// Package raster is the built-in export.Capturer. It paints the post
// canvas at its aspect ratio: solid and linear-gradient backgrounds, or a
// background image scaled to cover with the post's filters applied.
package raster

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"math"
	"strconv"
	"strings"

	// Decoders for background data URLs.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/dshills/postforge/internal/export"
	"github.com/dshills/postforge/internal/post"
)

// DefaultBaseWidth is the canvas width in CSS pixels.
const DefaultBaseWidth = 600

var (
	// ErrAspectRatio indicates an aspect ratio class that cannot be sized.
	ErrAspectRatio = errors.New("unsupported aspect ratio")

	// ErrBackground indicates a background value that cannot be painted.
	ErrBackground = errors.New("unsupported background")

	// ErrImage indicates a background image that cannot be decoded.
	ErrImage = errors.New("invalid background image")
)

// Painter paints posts into RGBA images.
type Painter struct {
	BaseWidth int
}

// NewPainter creates a painter with the default base width.
func NewPainter() *Painter {
	return &Painter{BaseWidth: DefaultBaseWidth}
}

// Capture implements export.Capturer.
func (p *Painter) Capture(ctx context.Context, s post.State, opts export.Options) (image.Image, error) {
	base := p.BaseWidth
	if base <= 0 {
		base = DefaultBaseWidth
	}
	ratio := opts.PixelRatio
	if ratio <= 0 {
		ratio = export.DefaultPixelRatio
	}

	w, h, err := Size(s.Style.AspectRatio, base, ratio)
	if err != nil {
		return nil, err
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))

	if s.BackgroundImage != "" {
		src, err := DecodeDataURL(s.BackgroundImage)
		if err != nil {
			return nil, err
		}
		if err := cover(ctx, dst, src); err != nil {
			return nil, err
		}
		if err := applyFilters(ctx, dst, s.Filters); err != nil {
			return nil, err
		}
		return dst, nil
	}

	if err := PaintBackground(ctx, dst, s.Style.Background); err != nil {
		return nil, err
	}
	return dst, nil
}

// Size returns the pixel size of a canvas with the given aspect ratio
// class, base width and pixel ratio.
func Size(aspect string, base int, pixelRatio float64) (int, int, error) {
	num, den, err := parseAspect(aspect)
	if err != nil {
		return 0, 0, err
	}
	w := int(math.Round(float64(base) * pixelRatio))
	h := int(math.Round(float64(w) * den / num))
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("%w: %q at ratio %v", ErrAspectRatio, aspect, pixelRatio)
	}
	return w, h, nil
}

// parseAspect reads "aspect-square", "aspect-video" or "aspect-[w/h]".
func parseAspect(aspect string) (float64, float64, error) {
	switch aspect {
	case "aspect-square":
		return 1, 1, nil
	case "aspect-video":
		return 16, 9, nil
	}

	inner, ok := strings.CutPrefix(aspect, "aspect-[")
	if ok {
		inner, ok = strings.CutSuffix(inner, "]")
	}
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", ErrAspectRatio, aspect)
	}
	a, b, ok := strings.Cut(inner, "/")
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", ErrAspectRatio, aspect)
	}
	num, err1 := strconv.ParseFloat(a, 64)
	den, err2 := strconv.ParseFloat(b, 64)
	if err1 != nil || err2 != nil || num <= 0 || den <= 0 {
		return 0, 0, fmt.Errorf("%w: %q", ErrAspectRatio, aspect)
	}
	return num, den, nil
}

// PaintBackground fills dst with a hex colour or a linear-gradient value.
func PaintBackground(ctx context.Context, dst *image.RGBA, value string) error {
	value = strings.TrimSpace(value)
	if strings.HasPrefix(value, "linear-gradient(") {
		g, err := ParseLinearGradient(value)
		if err != nil {
			return err
		}
		return g.Paint(ctx, dst)
	}

	c, err := parseColor(value)
	if err != nil {
		return err
	}
	draw.Draw(dst, dst.Bounds(), image.NewUniform(c.Clamped()), image.Point{}, draw.Src)
	return nil
}

func parseColor(s string) (colorful.Color, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "white":
		return colorful.Color{R: 1, G: 1, B: 1}, nil
	case "black":
		return colorful.Color{}, nil
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("%w: colour %q", ErrBackground, s)
	}
	return c, nil
}

// DecodeDataURL decodes a base64 image data URL.
func DecodeDataURL(dataURL string) (image.Image, error) {
	meta, payload, ok := strings.Cut(dataURL, ",")
	if !ok || !strings.HasPrefix(meta, "data:") {
		return nil, fmt.Errorf("%w: not a data URL", ErrImage)
	}
	if !strings.HasSuffix(meta, ";base64") {
		return nil, fmt.Errorf("%w: data URL is not base64", ErrImage)
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImage, err)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImage, err)
	}
	return img, nil
}

// cover scales src to fill dst, cropping the overflow evenly.
func cover(ctx context.Context, dst *image.RGBA, src image.Image) error {
	sb := src.Bounds()
	db := dst.Bounds()
	if sb.Empty() {
		return fmt.Errorf("%w: empty image", ErrImage)
	}

	scale := math.Max(float64(db.Dx())/float64(sb.Dx()), float64(db.Dy())/float64(sb.Dy()))
	offX := (float64(db.Dx()) - float64(sb.Dx())*scale) / 2
	offY := (float64(db.Dy()) - float64(sb.Dy())*scale) / 2

	for y := db.Min.Y; y < db.Max.Y; y++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		sy := sb.Min.Y + clampInt(int((float64(y)+0.5-offY)/scale), 0, sb.Dy()-1)
		for x := db.Min.X; x < db.Max.X; x++ {
			sx := sb.Min.X + clampInt(int((float64(x)+0.5-offX)/scale), 0, sb.Dx()-1)
			dst.Set(x, y, src.At(sx, sy))
		}
	}
	return nil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
