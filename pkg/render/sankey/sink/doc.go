// Package sink encodes finished Sankey renders.
//
// Raster sinks write the RGBA buffer as PNG, BMP or TIFF. The JSON sink
// exports the geometry behind the image (node rectangles, band spans and the
// scale) for external tools and for inspecting layouts without decoding
// pixels.
//
//	img, _ := sankey.Render(g, opts)
//	err := sink.EncodePNG(w, img, sink.WithCompression(png.BestCompression))
package sink
