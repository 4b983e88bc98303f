// Package layout converts flow nodes into pixel rectangles.
//
// # Scale
//
// Every node height and every band thickness is value × [Layout.HeightPerValue].
// The scale is derived once per render from the column with the largest
// occupied height, counting each node as value+1 so zero-value nodes keep a
// slot:
//
//	HeightPerValue = (Height - Padding*(n+1)) / Σ(value+1)
//
// where n is the node count of that column. The scale is evaluated for every
// column and the smallest result wins, so no column can overflow the canvas.
//
// # Placement
//
// Columns are spread evenly between the left and right padding, each node is
// NodeWidth pixels wide, and nodes within a column stack top-down in row order
// separated by Padding. A graph with a single column is centered horizontally.
//
// # Arena
//
// Positioned nodes live in a slice indexed by [Handle] in input order. Callers
// resolve names once with [Layout.Lookup] and address nodes by handle after
// that; the band compositor mutates the per-node UsedLeft/UsedRight counters
// through [Layout.Node].
package layout
