package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sankey/pkg/pipeline"
	"github.com/matzehuels/sankey/pkg/render/sankey/sink"
)

// layoutCommand creates the layout command for inspecting node geometry.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		padding int
	)
	var opts pipeline.Options

	cmd := &cobra.Command{
		Use:   "layout [graph.csv|graph.json|graph.toml]",
		Short: "Compute and print the Sankey layout of a flow graph",
		Long: `Compute the Sankey layout of a flow graph without drawing it.

Prints the scale, column spacing and a table of node rectangles. With
--output the full layout, including band spans, is written as JSON (the same
document as 'render -f json').

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Padding = &padding
			return c.runLayout(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the layout as JSON to this file")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().IntVar(&opts.Width, "width", pipeline.DefaultWidth, "canvas width in pixels")
	cmd.Flags().IntVar(&opts.Height, "height", pipeline.DefaultHeight, "canvas height in pixels")
	cmd.Flags().IntVar(&padding, "padding", pipeline.DefaultPadding, "gap between nodes and around the canvas")
	cmd.Flags().IntVar(&opts.NodeWidth, "node-width", pipeline.DefaultNodeWidth, "node rectangle width")

	return cmd
}

// runLayout loads the graph, computes the layout, and prints or writes it.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	g, err := pipeline.ParseFile(ctx, input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	doc, cacheHit, err := runner.Layout(ctx, g, opts)
	if err != nil {
		return err
	}

	if output != "" {
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("encode layout: %w", err)
		}
		if err := writeArtifact(output, data); err != nil {
			return err
		}
		printSuccess("Layout complete")
		printFile(output)
		printStats(g.NodeCount(), g.EdgeCount(), cacheHit)
		printNewline()
		printNextStep("Render", "sankey render "+input)
		return nil
	}

	printLayout(doc)
	printStats(g.NodeCount(), g.EdgeCount(), cacheHit)
	return nil
}

// printLayout prints the layout summary and the node table.
func printLayout(doc sink.Document) {
	fmt.Fprintln(stdout, StyleTitle.Render("Layout"))
	printKeyValue("canvas", fmt.Sprintf("%dx%d", doc.Width, doc.Height))
	printKeyValue("height/value", strconv.FormatFloat(doc.HeightPerValue, 'g', 6, 64))
	printKeyValue("column spacing", strconv.Itoa(doc.ColSeparation))
	printKeyValue("reference col", strconv.Itoa(doc.ReferenceCol))
	printNewline()

	rows := make([][]string, 0, len(doc.Nodes))
	for _, n := range doc.Nodes {
		rows = append(rows, []string{
			n.Name,
			strconv.FormatFloat(n.Value, 'f', -1, 64),
			strconv.Itoa(n.Col),
			strconv.Itoa(n.Row),
			strconv.Itoa(n.X1),
			strconv.Itoa(n.Y1),
			strconv.Itoa(n.X2),
			strconv.Itoa(n.Y2),
		})
	}
	fmt.Fprintln(stdout, renderTable([]string{"node", "value", "col", "row", "x1", "y1", "x2", "y2"}, rows))
}
