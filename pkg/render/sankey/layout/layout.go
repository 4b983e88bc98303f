package layout

import (
	"cmp"
	"math"
	"slices"

	"github.com/matzehuels/sankey/pkg/errors"
	"github.com/matzehuels/sankey/pkg/flow"
)

// fullTolerance is the relative slack under which a stacked span counts as
// reaching the end of its node.
const fullTolerance = 1e-9

// Handle addresses a positioned node inside a [Layout].
type Handle int

// Options are the canvas dimensions and fixed margins a layout is built for.
type Options struct {
	Width     int // canvas width in pixels
	Height    int // canvas height in pixels
	Padding   int // gap between nodes and around the canvas edge
	NodeWidth int // fixed width of every node rectangle
}

// PositionedNode is a flow node with its pixel rectangle and the running totals
// of edge value already stacked against its left and right sides.
type PositionedNode struct {
	flow.Node
	X1, Y1, X2, Y2 int

	UsedLeft  float64 // value claimed by incoming edges so far
	UsedRight float64 // value claimed by outgoing edges so far
}

// Height returns the pixel height of the node rectangle.
func (n *PositionedNode) Height() int { return n.Y2 - n.Y1 }

// MidY returns the vertical center of the node rectangle.
func (n *PositionedNode) MidY() int { return n.Y1 + (n.Y2-n.Y1)/2 }

// Layout is the result of [Build].
type Layout struct {
	Options

	HeightPerValue float64 // pixels per unit of value
	ColSeparation  int     // horizontal distance between adjacent columns
	ReferenceCol   int     // column the scale was derived from
	MaxCol         int     // largest column index

	nodes  []PositionedNode
	byName map[string]Handle
}

// Build positions nodes on a canvas described by opts.
//
// Nodes must have unique names; duplicates are rejected rather than silently
// overwriting each other. Build does not validate edges, see [flow.Validate].
func Build(nodes []flow.Node, opts Options) (*Layout, error) {
	if len(nodes) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyInput, "layout needs at least one node")
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}

	l := &Layout{
		Options: opts,
		nodes:   make([]PositionedNode, len(nodes)),
		byName:  make(map[string]Handle, len(nodes)),
	}
	for i, n := range nodes {
		if _, dup := l.byName[n.Name]; dup {
			return nil, errors.New(errors.ErrCodeDuplicateNode, "node %q is declared more than once", n.Name)
		}
		l.byName[n.Name] = Handle(i)
		l.nodes[i] = PositionedNode{Node: n}
		l.MaxCol = max(l.MaxCol, n.Col)
	}

	cols := l.columns()
	scale, ref, err := deriveScale(l.nodes, cols, opts)
	if err != nil {
		return nil, err
	}
	l.HeightPerValue = scale
	l.ReferenceCol = ref

	l.placeColumns(cols)
	return l, nil
}

func (o Options) validate() error {
	switch {
	case o.Width <= 0 || o.Height <= 0:
		return errors.New(errors.ErrCodeInvalidCanvas, "canvas must be positive, got %dx%d", o.Width, o.Height)
	case o.Padding < 0:
		return errors.New(errors.ErrCodeInvalidCanvas, "padding must be non-negative, got %d", o.Padding)
	case o.NodeWidth <= 0:
		return errors.New(errors.ErrCodeInvalidCanvas, "node width must be positive, got %d", o.NodeWidth)
	case o.Width < 2*o.Padding+o.NodeWidth:
		return errors.New(errors.ErrCodeInvalidCanvas, "canvas width %d cannot fit padding %d and node width %d", o.Width, o.Padding, o.NodeWidth)
	}
	return nil
}

// columns groups handles by column, each column ordered by row. Ties keep
// input order. Columns with no nodes are absent.
func (l *Layout) columns() map[int][]Handle {
	cols := make(map[int][]Handle)
	for i := range l.nodes {
		c := l.nodes[i].Col
		cols[c] = append(cols[c], Handle(i))
	}
	for _, hs := range cols {
		slices.SortStableFunc(hs, func(a, b Handle) int {
			return cmp.Compare(l.nodes[a].Row, l.nodes[b].Row)
		})
	}
	return cols
}

// deriveScale returns the largest pixels-per-value ratio at which every column
// fits the canvas height, and the column that limits it.
func deriveScale(nodes []PositionedNode, cols map[int][]Handle, opts Options) (float64, int, error) {
	scale := math.Inf(1)
	ref := -1
	for _, c := range sortedKeys(cols) {
		hs := cols[c]
		var total float64
		for _, h := range hs {
			total += nodes[h].Value + 1
		}
		free := float64(opts.Height - opts.Padding*(len(hs)-1+2))
		if s := free / total; s < scale {
			scale, ref = s, c
		}
	}
	if scale <= 0 {
		return 0, 0, errors.New(errors.ErrCodeInvalidCanvas,
			"canvas height %d cannot fit %d nodes of column %d with padding %d", opts.Height, len(cols[ref]), ref, opts.Padding)
	}
	return scale, ref, nil
}

func (l *Layout) placeColumns(cols map[int][]Handle) {
	x0 := l.Padding
	if l.MaxCol == 0 {
		// Single column: nothing to spread, center it.
		x0 = (l.Width - l.NodeWidth) / 2
	} else {
		l.ColSeparation = (l.Width - 2*l.Padding - l.NodeWidth) / l.MaxCol
	}

	// Positions come from the running value total so rounding never
	// accumulates down a column.
	for c, hs := range cols {
		var sum float64
		for k, h := range hs {
			n := &l.nodes[h]
			base := (k + 1) * l.Padding
			n.X1 = x0 + c*l.ColSeparation
			n.X2 = n.X1 + l.NodeWidth
			n.Y1 = base + l.Pixels(sum)
			sum += n.Value
			n.Y2 = base + l.Pixels(sum)
		}
	}
}

// Pixels converts a value to a pixel extent at the layout's scale, rounding
// half up.
func (l *Layout) Pixels(value float64) int {
	return int(math.Floor(value*l.HeightPerValue + 0.5))
}

// Lookup resolves a node name to its handle.
func (l *Layout) Lookup(name string) (Handle, bool) {
	h, ok := l.byName[name]
	return h, ok
}

// Node returns the positioned node for h. The pointer stays valid for the
// lifetime of the layout and may be used to update the Used counters.
func (l *Layout) Node(h Handle) *PositionedNode {
	return &l.nodes[h]
}

// Len returns the number of positioned nodes.
func (l *Layout) Len() int { return len(l.nodes) }

// Nodes returns the positioned nodes in input order.
func (l *Layout) Nodes() []PositionedNode { return l.nodes }

// SpanY returns the vertical pixel span that value occupies on node h when
// stacked after start units of already claimed value. The span never leaves
// the node rectangle, and a span that exhausts the node ends on Y2.
func (l *Layout) SpanY(h Handle, start, value float64) (top, bottom int) {
	n := &l.nodes[h]
	top = min(n.Y1+l.Pixels(start), n.Y2)
	if value == 0 {
		return top, top
	}
	bottom = min(n.Y1+l.Pixels(start+value), n.Y2)
	if n.Value-(start+value) <= fullTolerance*math.Max(1, n.Value) {
		bottom = n.Y2
	}
	return top, bottom
}

// Columns returns the distinct occupied column indices in ascending order.
func (l *Layout) Columns() []int {
	return sortedKeys(l.columns())
}

// Column returns the handles of column c in row order.
func (l *Layout) Column(c int) []Handle {
	var hs []Handle
	for i := range l.nodes {
		if l.nodes[i].Col == c {
			hs = append(hs, Handle(i))
		}
	}
	slices.SortStableFunc(hs, func(a, b Handle) int {
		return cmp.Compare(l.nodes[a].Row, l.nodes[b].Row)
	})
	return hs
}

// ResetUsage clears every node's Used counters so the layout can be composited
// again.
func (l *Layout) ResetUsage() {
	for i := range l.nodes {
		l.nodes[i].UsedLeft = 0
		l.nodes[i].UsedRight = 0
	}
}

func sortedKeys(m map[int][]Handle) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
