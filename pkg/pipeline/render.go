package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"time"

	"github.com/matzehuels/sankey/pkg/errors"
	"github.com/matzehuels/sankey/pkg/flow"
	"github.com/matzehuels/sankey/pkg/observability"
	"github.com/matzehuels/sankey/pkg/render/nodelink"
	"github.com/matzehuels/sankey/pkg/render/sankey"
	"github.com/matzehuels/sankey/pkg/render/sankey/label"
	"github.com/matzehuels/sankey/pkg/render/sankey/sink"
	"github.com/matzehuels/sankey/pkg/render/sankey/text"
)

// Render generates output artifacts in the requested formats.
// opts must have passed ValidateAndSetDefaults.
func Render(ctx context.Context, g flow.Graph, opts Options) (map[string][]byte, error) {
	if opts.IsNodelink() {
		return renderNodelink(ctx, g, opts)
	}
	return renderSankey(ctx, g, opts)
}

// =============================================================================
// Sankey Rendering
// =============================================================================

func renderSankey(ctx context.Context, g flow.Graph, opts Options) (map[string][]byte, error) {
	hooks := observability.Pipeline()

	var painter label.Painter
	if !opts.NoLabels {
		to, err := opts.TextOptions()
		if err != nil {
			return nil, err
		}
		r, err := text.New(to)
		if err != nil {
			return nil, err
		}
		defer r.Close()
		painter = r
	}
	so, err := opts.SankeyOptions(painter)
	if err != nil {
		return nil, err
	}

	hooks.OnLayoutStart(ctx, VizTypeSankey, g.NodeCount())
	start := time.Now()
	res, err := sankey.RenderWithLayout(g, so)
	hooks.OnLayoutComplete(ctx, VizTypeSankey, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	hooks.OnRenderStart(ctx, opts.Formats)
	start = time.Now()
	artifacts, err := encodeSankey(res, opts.Formats)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	return artifacts, err
}

func encodeSankey(res *sankey.Result, formats []string) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(formats))
	for _, format := range formats {
		data, err := encodeSankeyFormat(res, format)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func encodeSankeyFormat(res *sankey.Result, format string) ([]byte, error) {
	if format == FormatJSON {
		return sink.RenderJSON(res.Layout, sink.WithJSONBands(res.Bands), sink.WithJSONIndent())
	}
	var encode func(*bytes.Buffer, image.Image) error
	switch format {
	case FormatPNG:
		encode = func(b *bytes.Buffer, img image.Image) error { return sink.EncodePNG(b, img) }
	case FormatBMP:
		encode = func(b *bytes.Buffer, img image.Image) error { return sink.EncodeBMP(b, img) }
	case FormatTIFF:
		encode = func(b *bytes.Buffer, img image.Image) error { return sink.EncodeTIFF(b, img, sink.WithDeflate()) }
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported sankey format: %s", format)
	}
	var buf bytes.Buffer
	if err := encode(&buf, res.Image); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// =============================================================================
// Nodelink Rendering
// =============================================================================

func renderNodelink(ctx context.Context, g flow.Graph, opts Options) (map[string][]byte, error) {
	hooks := observability.Pipeline()

	hooks.OnLayoutStart(ctx, VizTypeNodelink, g.NodeCount())
	start := time.Now()
	err := validate(ctx, g)
	var dot string
	if err == nil {
		dot = nodelink.ToDOT(g, nodelink.Options{Detailed: opts.Detailed})
	}
	hooks.OnLayoutComplete(ctx, VizTypeNodelink, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	hooks.OnRenderStart(ctx, opts.Formats)
	start = time.Now()
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		switch format {
		case FormatDOT:
			artifacts[format] = []byte(dot)
		case FormatSVG:
			svg, serr := nodelink.RenderSVG(ctx, dot)
			if serr != nil {
				err = serr
				break
			}
			artifacts[format] = svg
		default:
			err = errors.New(errors.ErrCodeInvalidFormat, "unsupported nodelink format: %s", format)
		}
		if err != nil {
			break
		}
	}
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return artifacts, nil
}
