package sink

import (
	"encoding/json"

	"github.com/matzehuels/sankey/pkg/errors"
	"github.com/matzehuels/sankey/pkg/render/sankey/band"
	"github.com/matzehuels/sankey/pkg/render/sankey/layout"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	indent bool
	bands  []band.Band
}

// WithJSONBands includes the band spans in the output. Bands come from
// [band.Plan] or [band.Compose] run against the same layout.
func WithJSONBands(bands []band.Band) JSONOption {
	return func(r *jsonRenderer) { r.bands = bands }
}

// WithJSONIndent pretty-prints the output.
func WithJSONIndent() JSONOption { return func(r *jsonRenderer) { r.indent = true } }

// Document is the JSON form of a layout.
type Document struct {
	Width          int        `json:"width"`
	Height         int        `json:"height"`
	Padding        int        `json:"padding"`
	NodeWidth      int        `json:"node_width"`
	HeightPerValue float64    `json:"height_per_value"`
	ColSeparation  int        `json:"col_separation"`
	ReferenceCol   int        `json:"reference_col"`
	Nodes          []NodeJSON `json:"nodes"`
	Bands          []BandJSON `json:"bands,omitempty"`
}

// NodeJSON is one positioned node.
type NodeJSON struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Col   int     `json:"col"`
	Row   int     `json:"row"`
	X1    int     `json:"x1"`
	Y1    int     `json:"y1"`
	X2    int     `json:"x2"`
	Y2    int     `json:"y2"`
}

// BandJSON is one edge's resolved spans.
type BandJSON struct {
	Source       string  `json:"source"`
	Target       string  `json:"target"`
	Value        float64 `json:"value"`
	X1           int     `json:"x1"`
	X2           int     `json:"x2"`
	SourceTop    int     `json:"source_top"`
	SourceBottom int     `json:"source_bottom"`
	TargetTop    int     `json:"target_top"`
	TargetBottom int     `json:"target_bottom"`
}

// NewDocument converts l and bands to their JSON form.
func NewDocument(l *layout.Layout, bands []band.Band) Document {
	doc := Document{
		Width:          l.Width,
		Height:         l.Height,
		Padding:        l.Padding,
		NodeWidth:      l.NodeWidth,
		HeightPerValue: l.HeightPerValue,
		ColSeparation:  l.ColSeparation,
		ReferenceCol:   l.ReferenceCol,
		Nodes:          make([]NodeJSON, 0, l.Len()),
	}
	for _, n := range l.Nodes() {
		doc.Nodes = append(doc.Nodes, NodeJSON{
			Name: n.Name, Value: n.Value, Col: n.Col, Row: n.Row,
			X1: n.X1, Y1: n.Y1, X2: n.X2, Y2: n.Y2,
		})
	}
	for _, b := range bands {
		doc.Bands = append(doc.Bands, BandJSON{
			Source: b.Edge.Source, Target: b.Edge.Target, Value: b.Edge.Value,
			X1: b.X1, X2: b.X2,
			SourceTop: b.SourceTop, SourceBottom: b.SourceBottom,
			TargetTop: b.TargetTop, TargetBottom: b.TargetBottom,
		})
	}
	return doc
}

// RenderJSON serializes l, and optionally its bands, as JSON.
func RenderJSON(l *layout.Layout, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}
	doc := NewDocument(l, r.bands)

	var (
		data []byte
		err  error
	)
	if r.indent {
		data, err = json.MarshalIndent(doc, "", "  ")
	} else {
		data, err = json.Marshal(doc)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "marshal layout")
	}
	return data, nil
}
