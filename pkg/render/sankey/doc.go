// Package sankey renders a flow graph as a raster Sankey diagram.
//
// # Overview
//
// Rendering runs four passes over one RGBA buffer:
//
//	flow.Graph → flow.Validate → layout.Build → band.Compose → node fill → labels
//
// [layout] turns column/row/value hints into pixel rectangles at a single
// pixels-per-value scale. [band] stacks every edge against the sides of its
// endpoint nodes and fills the band between them. Nodes are painted over the
// band ends, and captions are placed by [label] and drawn by a [label.Painter]
// such as the one in the text subpackage.
//
// # Usage
//
//	opts := sankey.DefaultOptions()
//	opts.Painter, _ = text.New(text.Options{})
//	img, err := sankey.Render(flow.SampleBudget(), opts)
//
// Rendering is deterministic: the same graph and options always produce the
// same pixels. Any validation error aborts the call before a pixel is written.
//
// [layout]: github.com/matzehuels/sankey/pkg/render/sankey/layout
// [band]: github.com/matzehuels/sankey/pkg/render/sankey/band
// [label]: github.com/matzehuels/sankey/pkg/render/sankey/label
package sankey
