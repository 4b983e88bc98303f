// Package text paints node captions with an OpenType face.
package text

import (
	"image"
	"image/color"
	"image/draw"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/matzehuels/sankey/pkg/errors"
	"github.com/matzehuels/sankey/pkg/fonts"
)

// Defaults for [Options].
const (
	DefaultSize = 18
	DefaultDPI  = 72
)

// Options configure a [Renderer].
type Options struct {
	Font  string      // built-in family or font file, see fonts.Resolve
	Size  float64     // in points
	DPI   float64     // zero means DefaultDPI
	Color color.Color // nil means white
}

// Renderer draws single-line text. It is safe for concurrent use.
type Renderer struct {
	mu     sync.Mutex // guards face, which keeps internal glyph buffers
	face   font.Face
	src    image.Image
	ascent int
	height int
}

// New creates a Renderer from opts.
func New(opts Options) (*Renderer, error) {
	if opts.Size == 0 {
		opts.Size = DefaultSize
	}
	if opts.Size < 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "font size must be positive, got %v", opts.Size)
	}
	if opts.DPI == 0 {
		opts.DPI = DefaultDPI
	}
	if opts.Color == nil {
		opts.Color = color.White
	}

	f, err := fonts.Resolve(opts.Font)
	if err != nil {
		return nil, err
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    opts.Size,
		DPI:     opts.DPI,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "create %vpt face", opts.Size)
	}

	m := face.Metrics()
	return &Renderer{
		face:   face,
		src:    image.NewUniform(opts.Color),
		ascent: m.Ascent.Ceil(),
		height: (m.Ascent + m.Descent).Ceil(),
	}, nil
}

// Measure returns the advance width and line height of text in pixels.
func (r *Renderer) Measure(text string) (width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return font.MeasureString(r.face, text).Ceil(), r.height
}

// Paint draws text with its line box vertically centered on y. Glyph coverage
// is composited over what is already in dst.
func (r *Renderer) Paint(dst draw.Image, text string, x, y int, rightAligned bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rightAligned {
		x -= font.MeasureString(r.face, text).Ceil()
	}
	d := &font.Drawer{
		Dst:  dst,
		Src:  r.src,
		Face: r.face,
		Dot:  fixed.P(x, y-r.height/2+r.ascent),
	}
	d.DrawString(text)
}

// Close releases the face.
func (r *Renderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.face.Close()
}
