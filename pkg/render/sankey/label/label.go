// Package label decides where a node's caption goes and what it says.
//
// Glyph rendering is left to a [Painter]; this package only computes anchors
// and caption text, so layouts can be checked without loading a font.
package label

import (
	"image"
	"image/draw"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/matzehuels/sankey/pkg/flow"
	"github.com/matzehuels/sankey/pkg/render/sankey/layout"
)

// Painter measures and draws a single line of text.
//
// Paint treats y as the vertical center of the line. With rightAligned the
// text ends at x, otherwise it starts there.
type Painter interface {
	Measure(text string) (width, height int)
	Paint(dst draw.Image, text string, x, y int, rightAligned bool)
}

// Anchor is where a caption is attached.
type Anchor struct {
	X, Y         int
	RightAligned bool
}

// Place returns the anchor for n's caption.
//
// Captions sit gap pixels beside the node, vertically centered. A node whose
// right edge is within two paddings of the canvas edge gets its caption on the
// left instead, ending gap pixels before the node.
func Place(n *layout.PositionedNode, canvasWidth, padding, gap int) Anchor {
	a := Anchor{Y: n.MidY()}
	if n.X2+2*padding > canvasWidth {
		a.X = n.X1 - gap
		a.RightAligned = true
	} else {
		a.X = n.X2 + gap
	}
	return a
}

// Rect returns the box a caption of the given size occupies at a.
func (a Anchor) Rect(width, height int) image.Rectangle {
	y0 := a.Y - height/2
	if a.RightAligned {
		return image.Rect(a.X-width, y0, a.X, y0+height)
	}
	return image.Rect(a.X, y0, a.X+width, y0+height)
}

// Formatter builds caption text.
// The zero value prints values with the shortest exact decimal representation.
type Formatter struct {
	printer *message.Printer
}

// NewFormatter returns a Formatter that groups digits the way locale does,
// for example "2,000" for English or "2.000" for German. An empty or
// unparseable locale yields the plain zero-value Formatter.
func NewFormatter(locale string) *Formatter {
	if locale == "" {
		return &Formatter{}
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return &Formatter{}
	}
	return &Formatter{printer: message.NewPrinter(tag)}
}

// Text returns the caption for n, "<name>: <value>".
func (f *Formatter) Text(n flow.Node) string {
	if f == nil || f.printer == nil {
		return n.Name + ": " + strconv.FormatFloat(n.Value, 'f', -1, 64)
	}
	return f.printer.Sprintf("%s: %v", n.Name, number.Decimal(n.Value))
}
