// Package render groups the visualizations a flow graph can be turned into.
//
// # Sankey Diagrams
//
// The [sankey] subpackage draws value-proportional nodes and bands into an
// RGBA buffer. It is split by pass:
//
//   - [sankey/layout]: node rectangles and the pixels-per-value scale
//   - [sankey/band]: edge stacking and band rasterization
//   - [sankey/label]: caption placement and text
//   - [sankey/text]: OpenType caption painter
//   - [sankey/sink]: PNG, BMP, TIFF and JSON output
//
// # Node-Link Diagrams
//
// The [nodelink] subpackage renders the same graph as a directed box-and-arrow
// diagram using Graphviz.
//
//	dot := nodelink.ToDOT(g, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [sankey]: github.com/matzehuels/sankey/pkg/render/sankey
// [sankey/layout]: github.com/matzehuels/sankey/pkg/render/sankey/layout
// [sankey/band]: github.com/matzehuels/sankey/pkg/render/sankey/band
// [sankey/label]: github.com/matzehuels/sankey/pkg/render/sankey/label
// [sankey/text]: github.com/matzehuels/sankey/pkg/render/sankey/text
// [sankey/sink]: github.com/matzehuels/sankey/pkg/render/sankey/sink
// [nodelink]: github.com/matzehuels/sankey/pkg/render/nodelink
package render
