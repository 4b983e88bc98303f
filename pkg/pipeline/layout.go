package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/sankey/pkg/flow"
	"github.com/matzehuels/sankey/pkg/observability"
	"github.com/matzehuels/sankey/pkg/render/sankey"
	"github.com/matzehuels/sankey/pkg/render/sankey/band"
	"github.com/matzehuels/sankey/pkg/render/sankey/sink"
)

// ComputeLayout validates g and resolves node rectangles and band spans
// without drawing anything. Only layout options are consulted.
func ComputeLayout(ctx context.Context, g flow.Graph, opts Options) (sink.Document, error) {
	opts.SetLayoutDefaults()

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, VizTypeSankey, g.NodeCount())
	start := time.Now()

	doc, err := computeLayout(g, opts)
	hooks.OnLayoutComplete(ctx, VizTypeSankey, time.Since(start), err)
	return doc, err
}

func computeLayout(g flow.Graph, opts Options) (sink.Document, error) {
	so := sankey.Options{
		Width:     opts.Width,
		Height:    opts.Height,
		Padding:   opts.PaddingValue(),
		NodeWidth: opts.NodeWidth,
	}
	l, err := sankey.Plan(g, so)
	if err != nil {
		return sink.Document{}, err
	}
	bands, err := band.Plan(g.Edges, l)
	if err != nil {
		return sink.Document{}, err
	}
	return sink.NewDocument(l, bands), nil
}
