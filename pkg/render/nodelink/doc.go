// Package nodelink renders flow graphs as traditional node-link diagrams.
//
// # Overview
//
// Where the sankey package scales every node and band by value, this package
// draws the same graph as boxes and arrows through Graphviz. It is useful for
// checking the structure of an input before worrying about proportions.
//
// # Usage
//
// Convert a graph to DOT, then render it to SVG:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # DOT Format
//
// [ToDOT] lays columns out left to right, one rank per column, and labels
// each edge with its value. The DOT source is itself a pipeline output format.
package nodelink
