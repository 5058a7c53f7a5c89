/*
Package pixelart is a library for compressing pixel art into a compact text
literal.

Each label of a bitmap is split into the fewest rectangles that tile its
cells exactly. The rectangles of every label are then sorted and written as
a single run string, next to a palette string holding the packed color of
every label.
*/
package pixelart

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"runtime"

	"github.com/RuralAir/pixelart/rectrun"
	"go.uber.org/zap"
)

var (
	// ErrMalformedInput is returned for bitmaps or palettes that cannot be
	// encoded, such as rows of different lengths.
	ErrMalformedInput = errors.New("pixelart: malformed input")
	// ErrUnknownLabel is returned when the bitmap uses a label that is not
	// in the palette.
	ErrUnknownLabel = errors.New("pixelart: unknown label")
	// ErrInvalidColor is returned when a palette color cannot be resolved.
	ErrInvalidColor = errors.New("pixelart: invalid color")
)

// ErrorLiteral returns the value written in place of the literal when
// compression fails.
func ErrorLiteral(err error) string {
	return "// ERROR: " + err.Error()
}

// Resolver turns a color specification, such as a CSS color string, into a
// color.
type Resolver interface {
	Resolve(spec string) (color.NRGBA, error)
}

// Compressor compresses bitmaps. Compress may be called concurrently, but
// SetWorkers must not be called while any Compress is running.
type Compressor struct {
	resolver Resolver
	logger   *zap.Logger
	workers  int
}

// New returns a Compressor resolving palette colors with resolver.
func New(resolver Resolver, logger *zap.Logger) *Compressor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Compressor{
		resolver: resolver,
		logger:   logger,
		workers:  runtime.GOMAXPROCS(0),
	}
}

// SetWorkers sets how many labels are decomposed concurrently. It must be
// called before the Compressor is shared.
func (c *Compressor) SetWorkers(n int) {
	if n < 1 {
		n = 1
	}
	c.workers = n
}

func (c *Compressor) resolvePalette(b *Bitmap, p Palette) ([]rectrun.Entry, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	for _, label := range b.Labels() {
		if rectrun.Blank(label) {
			continue
		}
		if _, ok := p.Lookup(label); !ok {
			x, y := b.find(label)
			return nil, fmt.Errorf("%w: %q at (%d,%d) has no palette entry", ErrUnknownLabel, label, x, y)
		}
	}

	entries := make([]rectrun.Entry, 0, len(p))
	for _, s := range p {
		if rectrun.Blank(s.Label) {
			continue
		}
		rgba, err := c.resolver.Resolve(s.Color)
		if err != nil {
			return nil, fmt.Errorf("%w: %q for label %q: %w", ErrInvalidColor, s.Color, s.Label, err)
		}
		entries = append(entries, rectrun.Entry{Label: s.Label, Color: rgba})
	}

	return entries, nil
}

// Compress partitions every label of b into rectangles and encodes the
// result together with the colors of p.
func (c *Compressor) Compress(ctx context.Context, b *Bitmap, p Palette) (*rectrun.Art, error) {
	entries, err := c.resolvePalette(b, p)
	if err != nil {
		return nil, err
	}

	rects, err := c.decompose(ctx, b)
	if err != nil {
		return nil, err
	}

	art := &rectrun.Art{
		Runs:    rectrun.EncodeRects(rects),
		Palette: rectrun.EncodePalette(entries),
		Width:   b.Width(),
		Height:  b.Height(),
		Scale:   rectrun.Scale(b.Width(), b.Height()),
	}

	c.logger.Info("Compressed bitmap",
		zap.Int("width", art.Width),
		zap.Int("height", art.Height),
		zap.Int("labels", len(b.Labels())),
		zap.Int("rects", len(rects)),
		zap.Int("bytes", len(art.Runs)+len(art.Palette)))

	return art, nil
}

// CompressSource validates the rows of src and compresses them.
func (c *Compressor) CompressSource(ctx context.Context, src *Source) (*rectrun.Art, error) {
	b, err := NewBitmap(src.Rows)
	if err != nil {
		return nil, err
	}
	return c.Compress(ctx, b, src.Palette)
}
