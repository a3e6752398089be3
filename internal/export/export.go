// Package export renders a post to a PNG file.
package export

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dshills/postforge/internal/post"
)

// DefaultPixelRatio is the capture scale used when none is configured.
const DefaultPixelRatio = 2

var (
	// ErrNoSurface indicates there is nothing to capture from.
	ErrNoSurface = errors.New("preview surface is not available")

	// ErrBusy indicates an export is already running.
	ErrBusy = errors.New("export already in progress")
)

// Options controls a capture.
type Options struct {
	// PixelRatio scales the base canvas size. Zero means DefaultPixelRatio.
	PixelRatio float64
}

func (o Options) withDefaults() Options {
	if o.PixelRatio <= 0 {
		o.PixelRatio = DefaultPixelRatio
	}
	return o
}

// Capturer turns a post into pixels.
type Capturer interface {
	Capture(ctx context.Context, s post.State, opts Options) (image.Image, error)
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithPixelRatio sets the capture scale.
func WithPixelRatio(r float64) Option {
	return func(e *Exporter) {
		e.opts.PixelRatio = r
	}
}

// WithClock sets the time source used for file names.
func WithClock(now func() time.Time) Option {
	return func(e *Exporter) {
		if now != nil {
			e.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Exporter) {
		if l != nil {
			e.logger = l
		}
	}
}

// OnBusy registers a callback for the in-progress indicator.
func OnBusy(fn func(busy bool)) Option {
	return func(e *Exporter) {
		e.onBusy = fn
	}
}

// Exporter writes captured posts to a directory. One export runs at a time.
type Exporter struct {
	capturer Capturer
	dir      string
	opts     Options
	now      func() time.Time
	logger   *slog.Logger
	onBusy   func(bool)

	mu   sync.Mutex
	busy bool
}

// New creates an exporter writing into dir. A nil capturer is allowed;
// Export then fails with ErrNoSurface.
func New(c Capturer, dir string, opts ...Option) *Exporter {
	e := &Exporter{
		capturer: c,
		dir:      dir,
		now:      time.Now,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.opts = e.opts.withDefaults()
	return e
}

// Dir returns the output directory.
func (e *Exporter) Dir() string {
	return e.dir
}

// Busy reports whether an export is running.
func (e *Exporter) Busy() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.busy
}

// FileName returns the name used for an export taken at t.
func FileName(t time.Time) string {
	return fmt.Sprintf("social-post-%d.png", t.UnixMilli())
}

// Export captures s and writes it as a PNG. It returns the file path.
//
// The busy indicator is cleared on every return path and a failed export
// leaves no file behind.
func (e *Exporter) Export(ctx context.Context, s post.State) (string, error) {
	if e.capturer == nil {
		return "", ErrNoSurface
	}
	if !e.begin() {
		return "", ErrBusy
	}
	defer e.end()

	img, err := e.capturer.Capture(ctx, s, e.opts)
	if err != nil {
		e.logger.Error("failed to generate image", "error", err)
		return "", fmt.Errorf("capture: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := filepath.Join(e.dir, FileName(e.now()))
	if err := writePNG(path, img); err != nil {
		e.logger.Error("failed to write image", "path", path, "error", err)
		return "", err
	}

	b := img.Bounds()
	e.logger.Info("image exported", "path", path, "width", b.Dx(), "height", b.Dy())
	return path, nil
}

func (e *Exporter) begin() bool {
	e.mu.Lock()
	if e.busy {
		e.mu.Unlock()
		return false
	}
	e.busy = true
	fn := e.onBusy
	e.mu.Unlock()

	if fn != nil {
		fn(true)
	}
	return true
}

func (e *Exporter) end() {
	e.mu.Lock()
	e.busy = false
	fn := e.onBusy
	e.mu.Unlock()

	if fn != nil {
		fn(false)
	}
}

// writePNG encodes into a temp file in the target directory and renames
// it into place.
func writePNG(path string, img image.Image) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".social-post-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = png.Encode(tmp, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename export: %w", err)
	}
	return nil
}
