// Package band stacks flow edges against their endpoint nodes and rasterizes
// each one as a filled band between two straight boundary lines.
//
// Edges are processed in a fixed order: by the top of their source node, then
// by the top of their target node, keeping input order for ties. Each edge
// claims the next free stretch of its source's right side and its target's left
// side, so bands leaving or entering the same node sit flush against each other
// without overlapping.
package band

import (
	"cmp"
	"image"
	"image/color"
	"image/draw"
	"slices"

	"github.com/matzehuels/sankey/pkg/errors"
	"github.com/matzehuels/sankey/pkg/flow"
	"github.com/matzehuels/sankey/pkg/geom/bresenham"
	"github.com/matzehuels/sankey/pkg/render/sankey/layout"
)

// Band is the resolved geometry of one edge.
type Band struct {
	Edge           flow.Edge
	Source, Target layout.Handle

	// X1 is the first column right of the source node, X2 the last column left
	// of the target node.
	X1, X2 int

	SourceTop, SourceBottom int
	TargetTop, TargetBottom int
}

// Thickness returns the band's pixel thickness at its source end.
func (b Band) Thickness() int { return b.SourceBottom - b.SourceTop }

// Plan resolves edges against l and computes every band's vertical spans,
// advancing the UsedLeft/UsedRight counters of the nodes involved.
//
// Plan fails with DANGLING_EDGE_REFERENCE before touching any counter if an edge
// names an unknown node, and with CAPACITY_OVERFLOW if an edge would stack past
// its node's value. On error every counter is restored to its value on entry.
func Plan(edges []flow.Edge, l *layout.Layout) ([]Band, error) {
	bands := make([]Band, len(edges))
	for i, e := range edges {
		src, ok := l.Lookup(e.Source)
		if !ok {
			return nil, errors.New(errors.ErrCodeDanglingEdge, "edge %s->%s: unknown source %q", e.Source, e.Target, e.Source)
		}
		dst, ok := l.Lookup(e.Target)
		if !ok {
			return nil, errors.New(errors.ErrCodeDanglingEdge, "edge %s->%s: unknown target %q", e.Source, e.Target, e.Target)
		}
		bands[i] = Band{Edge: e, Source: src, Target: dst}
	}

	slices.SortStableFunc(bands, func(a, b Band) int {
		return cmp.Or(
			cmp.Compare(l.Node(a.Source).Y1, l.Node(b.Source).Y1),
			cmp.Compare(l.Node(a.Target).Y1, l.Node(b.Target).Y1),
		)
	})

	saved := saveUsage(l)
	for i := range bands {
		b := &bands[i]
		src, dst := l.Node(b.Source), l.Node(b.Target)
		v := b.Edge.Value

		if flow.Exceeds(src.UsedRight+v, src.Value) {
			restoreUsage(l, saved)
			return nil, errors.New(errors.ErrCodeCapacityOverflow, "edge %s->%s: %q has %v of %v already claimed on its right side", b.Edge.Source, b.Edge.Target, src.Name, src.UsedRight, src.Value)
		}
		if flow.Exceeds(dst.UsedLeft+v, dst.Value) {
			restoreUsage(l, saved)
			return nil, errors.New(errors.ErrCodeCapacityOverflow, "edge %s->%s: %q has %v of %v already claimed on its left side", b.Edge.Source, b.Edge.Target, dst.Name, dst.UsedLeft, dst.Value)
		}

		b.SourceTop, b.SourceBottom = l.SpanY(b.Source, src.UsedRight, v)
		src.UsedRight += v

		b.TargetTop, b.TargetBottom = l.SpanY(b.Target, dst.UsedLeft, v)
		dst.UsedLeft += v

		b.X1 = src.X2 + 1
		b.X2 = dst.X1 - 1
	}
	return bands, nil
}

type usage struct{ left, right float64 }

func saveUsage(l *layout.Layout) []usage {
	u := make([]usage, l.Len())
	for i := range u {
		n := l.Node(layout.Handle(i))
		u[i] = usage{n.UsedLeft, n.UsedRight}
	}
	return u
}

func restoreUsage(l *layout.Layout, u []usage) {
	for i, v := range u {
		n := l.Node(layout.Handle(i))
		n.UsedLeft, n.UsedRight = v.left, v.right
	}
}

// Compose plans every edge and paints the resulting bands into dst with fill.
// Nothing is painted unless planning succeeds for all edges.
func Compose(dst draw.Image, edges []flow.Edge, l *layout.Layout, fill color.Color) ([]Band, error) {
	bands, err := Plan(edges, l)
	if err != nil {
		return nil, err
	}
	for _, b := range bands {
		Fill(dst, b, fill)
	}
	return bands, nil
}

// Fill paints b into dst.
//
// The top and bottom boundaries are rasterized independently and walked in
// lockstep by x. Where both lines sit on the same column the vertical run
// between them is painted; where one line is behind, its pixel is painted alone
// and only that line advances. A band with no horizontal room is skipped.
func Fill(dst draw.Image, b Band, fill color.Color) {
	if b.X2 < b.X1 {
		return
	}
	top := bresenham.Line(image.Pt(b.X1, b.SourceTop), image.Pt(b.X2, b.TargetTop))
	bot := bresenham.Line(image.Pt(b.X1, b.SourceBottom), image.Pt(b.X2, b.TargetBottom))

	i, j := 0, 0
	for i < len(top) || j < len(bot) {
		switch {
		case i == len(top) || (j < len(bot) && bot[j].X < top[i].X):
			dst.Set(bot[j].X, bot[j].Y, fill)
			j++
		case j == len(bot) || top[i].X < bot[j].X:
			dst.Set(top[i].X, top[i].Y, fill)
			i++
		default:
			x := top[i].X
			lo, hi := min(top[i].Y, bot[j].Y), max(top[i].Y, bot[j].Y)
			for y := lo; y <= hi; y++ {
				dst.Set(x, y, fill)
			}
			i++
			j++
		}
	}
}
