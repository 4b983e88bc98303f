package io

import (
	"encoding/csv"
	stderrors "errors"
	"io"
	"strconv"
	"strings"

	"github.com/matzehuels/sankey/pkg/errors"
	"github.com/matzehuels/sankey/pkg/flow"
)

// CSVOption configures [ReadCSV] and [WriteCSV].
type CSVOption func(*csvOptions)

type csvOptions struct {
	delimiter rune
}

// WithDelimiter sets the field separator. The default is a comma.
func WithDelimiter(r rune) CSVOption { return func(o *csvOptions) { o.delimiter = r } }

func newCSVOptions(opts []CSVOption) csvOptions {
	o := csvOptions{delimiter: ','}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// ReadCSV decodes node and edge records from r.
func ReadCSV(r io.Reader, opts ...CSVOption) (flow.Graph, error) {
	o := newCSVOptions(opts)
	cr := csv.NewReader(r)
	cr.Comma = o.delimiter
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var g flow.Graph
	for {
		rec, err := cr.Read()
		if stderrors.Is(err, io.EOF) {
			return g, nil
		}
		if err != nil {
			return flow.Graph{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "read csv")
		}
		line, _ := cr.FieldPos(0)

		switch kind := strings.ToLower(strings.TrimSpace(rec[0])); kind {
		case "node":
			n, err := parseNode(rec)
			if err != nil {
				return flow.Graph{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "line %d", line)
			}
			g.Nodes = append(g.Nodes, n)
		case "edge":
			e, err := parseEdge(rec)
			if err != nil {
				return flow.Graph{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "line %d", line)
			}
			g.Edges = append(g.Edges, e)
		case "":
			// blank first field, e.g. a line of only separators
		default:
			return flow.Graph{}, errors.New(errors.ErrCodeInvalidInput, "line %d: unknown record kind %q (want node or edge)", line, kind)
		}
	}
}

func parseNode(rec []string) (flow.Node, error) {
	if len(rec) != 4 && len(rec) != 5 {
		return flow.Node{}, stderrors.New("node record needs name, value, col and an optional row")
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(rec[2]), 64)
	if err != nil {
		return flow.Node{}, err
	}
	col, err := strconv.Atoi(strings.TrimSpace(rec[3]))
	if err != nil {
		return flow.Node{}, err
	}
	var row int
	if len(rec) == 5 {
		if row, err = strconv.Atoi(strings.TrimSpace(rec[4])); err != nil {
			return flow.Node{}, err
		}
	}
	return flow.Node{Name: rec[1], Value: value, Col: col, Row: row}, nil
}

func parseEdge(rec []string) (flow.Edge, error) {
	if len(rec) != 4 {
		return flow.Edge{}, stderrors.New("edge record needs source, target and value")
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(rec[3]), 64)
	if err != nil {
		return flow.Edge{}, err
	}
	return flow.Edge{Source: rec[1], Target: rec[2], Value: value}, nil
}

// WriteCSV encodes g as node and edge records.
func WriteCSV(g flow.Graph, w io.Writer, opts ...CSVOption) error {
	o := newCSVOptions(opts)
	cw := csv.NewWriter(w)
	cw.Comma = o.delimiter

	for _, n := range g.Nodes {
		rec := []string{"node", n.Name, formatFloat(n.Value), strconv.Itoa(n.Col), strconv.Itoa(n.Row)}
		if err := cw.Write(rec); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "write csv")
		}
	}
	for _, e := range g.Edges {
		rec := []string{"edge", e.Source, e.Target, formatFloat(e.Value)}
		if err := cw.Write(rec); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "write csv")
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write csv")
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
