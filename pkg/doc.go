// Package pkg provides the libraries behind the sankey renderer.
//
// # Overview
//
// Sankey lays out weighted flow graphs in columns and rasterizes them as
// Sankey diagrams. The pkg directory is organized into these areas:
//
//  1. [flow] - The input model (nodes pinned to column/row, weighted edges) and its validation
//  2. [io] - Reading and writing flow graphs as CSV, JSON and TOML
//  3. [render] - Layout, band compositing, captions and encoders
//  4. [pipeline] - Orchestration (parse → layout → render) with caching
//  5. [cache] - File, Redis and no-op caches for rendered artifacts
//
// # Architecture
//
// The typical data flow:
//
//	CSV/JSON/TOML file
//	         ↓
//	    [io] package (decode a flow.Graph)
//	         ↓
//	    [flow] package (validate)
//	         ↓
//	    [render/sankey] package (layout, bands, nodes, captions)
//	         ↓
//	    PNG/BMP/TIFF/JSON output
//
// # Quick Start
//
//	g, err := io.Import("budget.csv")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	img, err := sankey.Render(g, sankey.DefaultOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	sink.EncodePNG(os.Stdout, img)
//
// Supporting packages: [errors] (structured error codes), [fonts] (caption
// faces), [observability] (pipeline, cache and server hooks) and [buildinfo].
package pkg
