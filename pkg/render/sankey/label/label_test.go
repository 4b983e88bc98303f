package label

import (
	"image"
	"testing"

	"github.com/matzehuels/sankey/pkg/flow"
	"github.com/matzehuels/sankey/pkg/render/sankey/layout"
)

func TestPlace(t *testing.T) {
	tests := []struct {
		name string
		node layout.PositionedNode
		want Anchor
	}{
		{
			name: "left column",
			node: layout.PositionedNode{X1: 14, Y1: 14, X2: 24, Y2: 508},
			want: Anchor{X: 34, Y: 261},
		},
		{
			name: "middle column",
			node: layout.PositionedNode{X1: 295, Y1: 14, X2: 305, Y2: 515},
			want: Anchor{X: 315, Y: 264},
		},
		{
			name: "right column",
			node: layout.PositionedNode{X1: 576, Y1: 546, X2: 586, Y2: 586},
			want: Anchor{X: 566, Y: 566, RightAligned: true},
		},
		{
			name: "zero height",
			node: layout.PositionedNode{X1: 14, Y1: 100, X2: 24, Y2: 100},
			want: Anchor{X: 34, Y: 100},
		},
		{
			name: "exactly two paddings from the edge",
			node: layout.PositionedNode{X1: 562, Y1: 0, X2: 572, Y2: 10},
			want: Anchor{X: 582, Y: 5},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Place(&tt.node, 600, 14, 10); got != tt.want {
				t.Errorf("Place() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestAnchorRect(t *testing.T) {
	left := Anchor{X: 34, Y: 50}
	if got, want := left.Rect(100, 20), image.Rect(34, 40, 134, 60); got != want {
		t.Errorf("left Rect() = %v, want %v", got, want)
	}
	right := Anchor{X: 566, Y: 50, RightAligned: true}
	if got, want := right.Rect(100, 20), image.Rect(466, 40, 566, 60); got != want {
		t.Errorf("right Rect() = %v, want %v", got, want)
	}
}

func TestPlaceStaysOnCanvas(t *testing.T) {
	g := flow.SampleBudget()
	l, err := layout.Build(g.Nodes, layout.Options{Width: 600, Height: 600, Padding: 14, NodeWidth: 10})
	if err != nil {
		t.Fatalf("layout.Build() error: %v", err)
	}
	for i := range l.Len() {
		n := l.Node(layout.Handle(i))
		a := Place(n, l.Width, l.Padding, l.NodeWidth)
		// Right-column captions grow leftwards, away from the edge.
		if a.RightAligned && a.X > n.X1 {
			t.Errorf("%s: right-aligned caption starts right of node", n.Name)
		}
		if !a.RightAligned && a.X < n.X2 {
			t.Errorf("%s: left-aligned caption overlaps node", n.Name)
		}
		if n.Col == 2 && !a.RightAligned {
			t.Errorf("%s: last column caption should be right-aligned", n.Name)
		}
	}
}

func TestFormatterText(t *testing.T) {
	n := flow.Node{Name: "Wages", Value: 2000}
	tests := []struct {
		name string
		f    *Formatter
		node flow.Node
		want string
	}{
		{"nil", nil, n, "Wages: 2000"},
		{"zero", &Formatter{}, n, "Wages: 2000"},
		{"fraction", &Formatter{}, flow.Node{Name: "x", Value: 0.25}, "x: 0.25"},
		{"empty locale", NewFormatter(""), n, "Wages: 2000"},
		{"bad locale", NewFormatter("not a locale!"), n, "Wages: 2000"},
		{"english", NewFormatter("en"), n, "Wages: 2,000"},
		{"german", NewFormatter("de"), n, "Wages: 2.000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.f.Text(tt.node); got != tt.want {
				t.Errorf("Text() = %q, want %q", got, tt.want)
			}
		})
	}
}
