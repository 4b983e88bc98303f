package cache

// Keyer derives cache keys for pipeline outputs.
type Keyer interface {
	// LayoutKey identifies the geometry computed for a graph.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string
	// ArtifactKey identifies one encoded output of a graph.
	ArtifactKey(graphHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts are the options that change a layout.
type LayoutKeyOpts struct {
	Width     int `json:"width"`
	Height    int `json:"height"`
	Padding   int `json:"padding"`
	NodeWidth int `json:"node_width"`
}

// ArtifactKeyOpts are the options that change an encoded artifact.
type ArtifactKeyOpts struct {
	LayoutKeyOpts
	VizType    string  `json:"viz_type"`
	Format     string  `json:"format"`
	LabelGap   int     `json:"label_gap,omitempty"`
	BandColor  string  `json:"band_color,omitempty"`
	NodeColor  string  `json:"node_color,omitempty"`
	TextColor  string  `json:"text_color,omitempty"`
	Background string  `json:"background,omitempty"`
	Font       string  `json:"font,omitempty"`
	FontSize   float64 `json:"font_size,omitempty"`
	NoLabels   bool    `json:"no_labels,omitempty"`
	Locale     string  `json:"locale,omitempty"`
	Detailed   bool    `json:"detailed,omitempty"`
}

// DefaultKeyer hashes the graph hash and options into "layout:<sha256>" and
// "artifact:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(graphHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", graphHash, opts)
}
