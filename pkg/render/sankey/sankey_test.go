package sankey

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/matzehuels/sankey/pkg/errors"
	"github.com/matzehuels/sankey/pkg/flow"
	"github.com/matzehuels/sankey/pkg/render/sankey/label"
)

type paintCall struct {
	text         string
	x, y         int
	rightAligned bool
}

// recorder is a label.Painter that remembers what it was asked to draw.
type recorder struct{ calls []paintCall }

func (r *recorder) Measure(text string) (int, int) { return len(text) * 8, 16 }

func (r *recorder) Paint(_ draw.Image, text string, x, y int, rightAligned bool) {
	r.calls = append(r.calls, paintCall{text, x, y, rightAligned})
}

func TestRenderSampleBudget(t *testing.T) {
	img, err := Render(flow.SampleBudget(), DefaultOptions())
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if got := img.Bounds(); got != image.Rect(0, 0, 600, 600) {
		t.Fatalf("bounds = %v, want 600x600", got)
	}

	tests := []struct {
		name string
		p    image.Point
		want color.RGBA
	}{
		{"corner", image.Pt(0, 0), color.RGBA{}},
		{"wages top-left", image.Pt(14, 14), DefaultNodeColor},
		{"wages bottom-right", image.Pt(24, 508), DefaultNodeColor},
		{"budget", image.Pt(300, 300), DefaultNodeColor},
		{"other necessities bottom", image.Pt(586, 585), DefaultNodeColor},
		{"below other necessities", image.Pt(586, 586), color.RGBA{}},
		{"wages band", image.Pt(160, 260), DefaultBandColor},
		{"below interest band", image.Pt(160, 590), color.RGBA{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := img.RGBAAt(tt.p.X, tt.p.Y); got != tt.want {
				t.Errorf("pixel %v = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestRenderDeterministic(t *testing.T) {
	opts := DefaultOptions()
	opts.Painter = &recorder{}
	a, err := Render(flow.SampleBudget(), opts)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	b, err := Render(flow.SampleBudget(), opts)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Error("two renders of the same graph differ")
	}
}

func TestRenderZeroValueNode(t *testing.T) {
	g := flow.Graph{
		Nodes: []flow.Node{
			{Name: "src", Value: 10, Col: 0},
			{Name: "empty", Value: 0, Col: 1, Row: 0},
			{Name: "dst", Value: 10, Col: 1, Row: 1},
		},
		Edges: []flow.Edge{
			{Source: "src", Target: "dst", Value: 10},
			{Source: "src", Target: "empty", Value: 0},
		},
	}
	res, err := RenderWithLayout(g, DefaultOptions())
	if err != nil {
		t.Fatalf("RenderWithLayout() error: %v", err)
	}
	h, _ := res.Layout.Lookup("empty")
	n := res.Layout.Node(h)
	if n.Y1 != n.Y2 {
		t.Errorf("zero-value node spans %d..%d, want a single row", n.Y1, n.Y2)
	}
	if got := res.Image.RGBAAt(n.X1, n.Y1); got != DefaultNodeColor {
		t.Errorf("zero-value node pixel = %v, want node color", got)
	}
	if got := res.Image.RGBAAt(n.X1, n.Y1+1); got == DefaultNodeColor {
		t.Error("zero-value node painted more than one row")
	}
	for _, b := range res.Bands {
		if b.Edge.Value == 0 && b.Thickness() != 0 {
			t.Errorf("zero-value band has thickness %d", b.Thickness())
		}
	}
}

func TestRenderErrors(t *testing.T) {
	base := flow.SampleBudget()
	tests := []struct {
		name   string
		mutate func(*flow.Graph, *Options)
		code   errors.Code
	}{
		{
			name:   "dangling edge",
			mutate: func(g *flow.Graph, _ *Options) { g.Edges[0].Target = "Savings" },
			code:   errors.ErrCodeDanglingEdge,
		},
		{
			name:   "empty",
			mutate: func(g *flow.Graph, _ *Options) { *g = flow.Graph{} },
			code:   errors.ErrCodeEmptyInput,
		},
		{
			name:   "zero canvas",
			mutate: func(_ *flow.Graph, o *Options) { o.Width = 0 },
			code:   errors.ErrCodeInvalidCanvas,
		},
		{
			name:   "canvas too short",
			mutate: func(_ *flow.Graph, o *Options) { o.Height = 50 },
			code:   errors.ErrCodeInvalidCanvas,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := base.Clone()
			opts := DefaultOptions()
			tt.mutate(&g, &opts)
			img, err := Render(g, opts)
			if !errors.Is(err, tt.code) {
				t.Fatalf("Render() error = %v, want %s", err, tt.code)
			}
			if img != nil {
				t.Error("Render() returned an image alongside an error")
			}
		})
	}
}

func TestRenderLabels(t *testing.T) {
	rec := &recorder{}
	opts := DefaultOptions()
	opts.Painter = rec
	opts.Formatter = label.NewFormatter("en")

	if _, err := Render(flow.SampleBudget(), opts); err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if len(rec.calls) != 9 {
		t.Fatalf("painted %d labels, want 9", len(rec.calls))
	}

	want := map[string]paintCall{
		"Wages":             {"Wages: 2,000", 34, 261, false},
		"Budget":            {"Budget: 2,025", 315, 264, false},
		"Other Necessities": {"Other Necessities: 160", 566, 566, true},
	}
	names := flow.SampleBudget().Nodes
	for i, c := range rec.calls {
		w, ok := want[names[i].Name]
		if !ok {
			continue
		}
		if c != w {
			t.Errorf("%s: label %+v, want %+v", names[i].Name, c, w)
		}
	}
}

func TestRenderBackgroundAndColors(t *testing.T) {
	opts := DefaultOptions()
	opts.Background = color.RGBA{0, 0, 0, 255}
	opts.NodeColor = color.RGBA{255, 0, 0, 255}
	opts.BandColor = nil

	img, err := Render(flow.SampleBudget(), opts)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if got := img.RGBAAt(0, 0); got != (color.RGBA{0, 0, 0, 255}) {
		t.Errorf("background = %v, want opaque black", got)
	}
	if got := img.RGBAAt(300, 300); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("node = %v, want red", got)
	}
	if got := img.RGBAAt(160, 260); got != DefaultBandColor {
		t.Errorf("band = %v, want default band color", got)
	}
}
