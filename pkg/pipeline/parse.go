package pipeline

import (
	"context"
	"io"
	"time"

	"github.com/matzehuels/sankey/pkg/flow"
	sankeyio "github.com/matzehuels/sankey/pkg/io"
	"github.com/matzehuels/sankey/pkg/observability"
)

// Parse decodes a flow graph in the given format and validates it.
func Parse(ctx context.Context, r io.Reader, format sankeyio.Format) (flow.Graph, error) {
	g, err := sankeyio.Read(r, format)
	if err != nil {
		return flow.Graph{}, err
	}
	return g, validate(ctx, g)
}

// ParseFile reads and validates a flow graph file. The format is taken from
// the file extension.
func ParseFile(ctx context.Context, path string) (flow.Graph, error) {
	g, err := sankeyio.Import(path)
	if err != nil {
		return flow.Graph{}, err
	}
	return g, validate(ctx, g)
}

func validate(ctx context.Context, g flow.Graph) error {
	start := time.Now()
	err := flow.Validate(g)
	observability.Pipeline().OnValidateComplete(ctx, g.NodeCount(), g.EdgeCount(), time.Since(start), err)
	return err
}
