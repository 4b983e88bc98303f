package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/sankey/pkg/errors"
	"github.com/matzehuels/sankey/pkg/flow"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes column, row and value in node labels.
	// When false, only the node name is shown.
	Detailed bool

	// MaxPenWidth is the stroke width of the heaviest edge. Zero means 8.
	MaxPenWidth float64
}

const defaultMaxPenWidth = 8

// ToDOT converts a flow graph to Graphviz DOT format. Nodes of one column
// share a rank so the diagram reads left to right like the Sankey layout.
// Edges are labeled with their value and drawn with a pen width proportional
// to it.
func ToDOT(g flow.Graph, opts Options) string {
	maxPen := opts.MaxPenWidth
	if maxPen <= 0 {
		maxPen = defaultMaxPenWidth
	}
	var heaviest float64
	for _, e := range g.Edges {
		heaviest = max(heaviest, e.Value)
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=\"#007fff\", fontcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [color=\"#7dbeff\", fontsize=12];\n")
	buf.WriteString("  ranksep=1.2;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	byCol := make(map[int][]string)
	for _, n := range g.Nodes {
		fmt.Fprintf(&buf, "  %q [label=%q];\n", n.Name, fmtLabel(n, opts.Detailed))
		byCol[n.Col] = append(byCol[n.Col], n.Name)
	}

	buf.WriteString("\n")
	for _, c := range g.Columns() {
		names := make([]string, len(byCol[c]))
		for i, name := range byCol[c] {
			names[i] = strconv.Quote(name)
		}
		fmt.Fprintf(&buf, "  { rank=same; %s; }\n", strings.Join(names, "; "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges {
		pen := 1.0
		if heaviest > 0 {
			pen = max(1, maxPen*e.Value/heaviest)
		}
		fmt.Fprintf(&buf, "  %q -> %q [label=%q, penwidth=%.2f];\n", e.Source, e.Target, fmtValue(e.Value), pen)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n flow.Node, detailed bool) string {
	if !detailed {
		return n.Name
	}
	return fmt.Sprintf("%s\nvalue: %s\ncol: %d, row: %d", n.Name, fmtValue(n.Value), n.Col, n.Row)
}

func fmtValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a
// pixel-sized one anchored at the origin.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
