package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sankey/pkg/errors"
	"github.com/matzehuels/sankey/pkg/pipeline"
)

// renderFlags holds the render command's flags. Only flags the user set
// override values from --config.
type renderFlags struct {
	config   string
	output   string
	formats  string
	noCache  bool
	opts     pipeline.Options
	padding  int
	noLabels bool
}

// renderCommand creates the render command for generating diagrams.
func (c *CLI) renderCommand() *cobra.Command {
	var f renderFlags

	cmd := &cobra.Command{
		Use:   "render [graph.csv|graph.json|graph.toml]",
		Short: "Render a flow graph to PNG, BMP, TIFF, JSON, SVG or DOT",
		Long: `Render a flow graph as a Sankey diagram.

The input is a flow graph in CSV, JSON or TOML (chosen by extension). Nodes
are pinned to a column and a row; edges carry a value from one column to a
later one. The sankey type rasterizes the diagram (png, bmp, tiff) or writes
the resolved geometry (json). The nodelink type draws the same graph with
Graphviz (svg, dot).

Options can be read from a TOML file with --config; flags override it.

Results are cached locally for faster subsequent runs.`,
		Example: `  sankey render budget.csv
  sankey render budget.csv -f png,json -o out/budget
  sankey render budget.toml --width 1200 --height 800 --locale en
  sankey render budget.csv -t nodelink -f svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := f.resolve(cmd)
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], f.output, opts, f.noCache)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.output, "output", "o", "", "output file (single format) or base path (multiple)")
	fl.StringVarP(&f.config, "config", "c", "", "TOML file with render options")
	fl.StringVarP(&f.formats, "format", "f", "", "output format(s), comma-separated: png (default), bmp, tiff, json; svg (default), dot for nodelink")
	fl.BoolVar(&f.noCache, "no-cache", false, "disable caching")
	fl.BoolVar(&f.opts.Refresh, "refresh", false, "re-render even if cached")

	fl.StringVarP(&f.opts.VizType, "type", "t", pipeline.DefaultVizType, "visualization type: sankey, nodelink")
	fl.IntVar(&f.opts.Width, "width", pipeline.DefaultWidth, "canvas width in pixels")
	fl.IntVar(&f.opts.Height, "height", pipeline.DefaultHeight, "canvas height in pixels")
	fl.IntVar(&f.padding, "padding", pipeline.DefaultPadding, "gap between nodes and around the canvas")
	fl.IntVar(&f.opts.NodeWidth, "node-width", pipeline.DefaultNodeWidth, "node rectangle width")
	fl.IntVar(&f.opts.LabelGap, "label-gap", 0, "distance between a node and its caption (default: node width)")
	fl.StringVar(&f.opts.BandColor, "band-color", pipeline.DefaultBandColor, "band fill (#rrggbb or #rrggbbaa)")
	fl.StringVar(&f.opts.NodeColor, "node-color", pipeline.DefaultNodeColor, "node fill")
	fl.StringVar(&f.opts.TextColor, "text-color", pipeline.DefaultTextColor, "caption color")
	fl.StringVar(&f.opts.Background, "background", "", "canvas background (default: transparent)")
	fl.StringVar(&f.opts.Font, "font", "", "caption font: goregular, gobold, gomono or a .ttf path")
	fl.Float64Var(&f.opts.FontSize, "font-size", pipeline.DefaultFontSize, "caption size in points")
	fl.BoolVar(&f.noLabels, "no-labels", false, "omit node captions")
	fl.StringVar(&f.opts.Locale, "locale", "", "BCP 47 locale for caption numbers, e.g. en or de")
	fl.BoolVar(&f.opts.Detailed, "detailed", false, "show column, row and value in node labels (nodelink)")

	return cmd
}

// resolve merges --config with the flags the user set.
func (f *renderFlags) resolve(cmd *cobra.Command) (pipeline.Options, error) {
	var opts pipeline.Options
	if f.config != "" {
		var err error
		if opts, err = pipeline.LoadConfig(f.config); err != nil {
			return pipeline.Options{}, err
		}
	}

	changed := cmd.Flags().Changed
	set := func(name string, apply func()) {
		if changed(name) || f.config == "" {
			apply()
		}
	}
	set("type", func() { opts.VizType = f.opts.VizType })
	set("width", func() { opts.Width = f.opts.Width })
	set("height", func() { opts.Height = f.opts.Height })
	set("padding", func() { p := f.padding; opts.Padding = &p })
	set("node-width", func() { opts.NodeWidth = f.opts.NodeWidth })
	set("label-gap", func() { opts.LabelGap = f.opts.LabelGap })
	set("band-color", func() { opts.BandColor = f.opts.BandColor })
	set("node-color", func() { opts.NodeColor = f.opts.NodeColor })
	set("text-color", func() { opts.TextColor = f.opts.TextColor })
	set("background", func() { opts.Background = f.opts.Background })
	set("font", func() { opts.Font = f.opts.Font })
	set("font-size", func() { opts.FontSize = f.opts.FontSize })
	set("no-labels", func() { opts.NoLabels = f.noLabels })
	set("locale", func() { opts.Locale = f.opts.Locale })
	set("detailed", func() { opts.Detailed = f.opts.Detailed })
	if formats := parseFormats(f.formats); formats != nil {
		opts.Formats = formats
	}
	opts.Refresh = f.opts.Refresh

	if err := opts.ValidateAndSetDefaults(); err != nil {
		return pipeline.Options{}, err
	}
	return opts, nil
}

// runRender loads the graph, runs the pipeline and writes one file per format.
func (c *CLI) runRender(ctx context.Context, input, output string, opts pipeline.Options, noCache bool) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	g, err := pipeline.ParseFile(ctx, input)
	if err != nil {
		return err
	}
	logger.Debug("loaded graph", "path", input, "nodes", g.NodeCount(), "edges", g.EdgeCount())

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = logger
	result, err := runner.Execute(ctx, g, opts)
	if err != nil {
		return err
	}

	paths := outputPaths(input, output, opts.Formats)
	for _, format := range opts.Formats {
		if err := writeArtifact(paths[format], result.Artifacts[format]); err != nil {
			return err
		}
	}
	prog.done(fmt.Sprintf("Rendered %s", filepath.Base(input)))

	printSuccess("Render complete")
	for _, format := range opts.Formats {
		printFile(paths[format])
	}
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheHit)
	return nil
}

// outputPaths maps each format to its destination. A single format with an
// explicit output writes exactly there; otherwise files are named
// <base>.<format>, where base is output (minus a known format extension) or
// input minus its extension.
func outputPaths(input, output string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" && filepath.Ext(output) != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

// basePath derives the base output path from the output and input file paths.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := strings.TrimPrefix(filepath.Ext(output), ".")
	if isKnownFormat(ext) {
		return strings.TrimSuffix(output, "."+ext)
	}
	return output
}

func isKnownFormat(ext string) bool {
	for _, formats := range pipeline.ValidFormats {
		if slices.Contains(formats, ext) {
			return true
		}
	}
	return false
}

func writeArtifact(path string, data []byte) error {
	if err := errors.ValidateOutputPath(path); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", dir)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
	}
	return nil
}
