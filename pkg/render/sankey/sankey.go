package sankey

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/matzehuels/sankey/pkg/flow"
	"github.com/matzehuels/sankey/pkg/render/sankey/band"
	"github.com/matzehuels/sankey/pkg/render/sankey/label"
	"github.com/matzehuels/sankey/pkg/render/sankey/layout"
)

// Default canvas geometry.
const (
	DefaultWidth     = 600
	DefaultHeight    = 600
	DefaultPadding   = 14
	DefaultNodeWidth = 10
)

// Default colors.
var (
	DefaultBandColor = color.RGBA{125, 190, 255, 255}
	DefaultNodeColor = color.RGBA{0, 127, 255, 255}
)

// Options control a render. Geometry fields are used as given; start from
// [DefaultOptions] to get the standard canvas.
type Options struct {
	Width     int
	Height    int
	Padding   int
	NodeWidth int
	LabelGap  int // distance between a node and its caption, 0 means NodeWidth

	BandColor  color.Color // nil means DefaultBandColor
	NodeColor  color.Color // nil means DefaultNodeColor
	Background color.Color // nil leaves the canvas transparent

	Painter   label.Painter    // nil disables captions
	Formatter *label.Formatter // nil prints plain numbers
}

// DefaultOptions returns the standard 600x600 canvas without captions.
func DefaultOptions() Options {
	return Options{
		Width:     DefaultWidth,
		Height:    DefaultHeight,
		Padding:   DefaultPadding,
		NodeWidth: DefaultNodeWidth,
		BandColor: DefaultBandColor,
		NodeColor: DefaultNodeColor,
	}
}

func (o Options) layoutOptions() layout.Options {
	return layout.Options{Width: o.Width, Height: o.Height, Padding: o.Padding, NodeWidth: o.NodeWidth}
}

// Result is a finished render together with the geometry it was drawn from.
type Result struct {
	Image  *image.RGBA
	Layout *layout.Layout
	Bands  []band.Band
}

// Render draws g and returns the image.
func Render(g flow.Graph, opts Options) (*image.RGBA, error) {
	res, err := RenderWithLayout(g, opts)
	if err != nil {
		return nil, err
	}
	return res.Image, nil
}

// RenderWithLayout draws g and also returns the computed layout and bands.
func RenderWithLayout(g flow.Graph, opts Options) (*Result, error) {
	l, err := Plan(g, opts)
	if err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	if opts.Background != nil {
		draw.Draw(img, img.Bounds(), image.NewUniform(opts.Background), image.Point{}, draw.Src)
	}

	bands, err := band.Compose(img, g.Edges, l, orDefault(opts.BandColor, DefaultBandColor))
	if err != nil {
		return nil, err
	}
	fillNodes(img, l, orDefault(opts.NodeColor, DefaultNodeColor))
	if opts.Painter != nil {
		drawLabels(img, l, opts)
	}
	return &Result{Image: img, Layout: l, Bands: bands}, nil
}

// Plan validates g and computes its layout without allocating a canvas.
func Plan(g flow.Graph, opts Options) (*layout.Layout, error) {
	if err := flow.Validate(g); err != nil {
		return nil, err
	}
	return layout.Build(g.Nodes, opts.layoutOptions())
}

// fillNodes paints every node rectangle, edges inclusive, in input order.
func fillNodes(img *image.RGBA, l *layout.Layout, c color.Color) {
	src := image.NewUniform(c)
	for _, n := range l.Nodes() {
		r := image.Rect(n.X1, n.Y1, n.X2+1, n.Y2+1)
		draw.Draw(img, r, src, image.Point{}, draw.Src)
	}
}

func drawLabels(img *image.RGBA, l *layout.Layout, opts Options) {
	gap := opts.LabelGap
	if gap == 0 {
		gap = opts.NodeWidth
	}
	for i := range l.Len() {
		n := l.Node(layout.Handle(i))
		a := label.Place(n, opts.Width, opts.Padding, gap)
		opts.Painter.Paint(img, opts.Formatter.Text(n.Node), a.X, a.Y, a.RightAligned)
	}
}

func orDefault(c, fallback color.Color) color.Color {
	if c == nil {
		return fallback
	}
	return c
}
