// Package pipeline provides the render pipeline shared by the CLI and the
// HTTP server.
//
// This package implements the complete parse → layout → render pipeline. By
// centralizing it, both entry points apply the same defaults, the same
// validation, and the same cache keys.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: Decode a flow graph from JSON, TOML or CSV and validate it
//  2. Layout: Compute node rectangles and band spans
//  3. Render: Encode the requested formats (PNG, BMP, TIFF, JSON, SVG, DOT)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	g, err := pipeline.ParseFile(ctx, "budget.csv")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := runner.Execute(ctx, g, pipeline.Options{Formats: []string{"png"}})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	png := result.Artifacts["png"]
package pipeline

import (
	"image/color"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/sankey/pkg/cache"
	"github.com/matzehuels/sankey/pkg/errors"
	"github.com/matzehuels/sankey/pkg/render/sankey"
	"github.com/matzehuels/sankey/pkg/render/sankey/label"
	"github.com/matzehuels/sankey/pkg/render/sankey/text"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultWidth is the default canvas width in pixels.
	DefaultWidth = sankey.DefaultWidth

	// DefaultHeight is the default canvas height in pixels.
	DefaultHeight = sankey.DefaultHeight

	// DefaultPadding is the default gap between nodes and around the canvas.
	DefaultPadding = sankey.DefaultPadding

	// DefaultNodeWidth is the default width of a node rectangle.
	DefaultNodeWidth = sankey.DefaultNodeWidth

	// DefaultFontSize is the default caption size in points.
	DefaultFontSize = text.DefaultSize

	// DefaultBandColor is the default fill of edge bands.
	DefaultBandColor = "#7dbeff"

	// DefaultNodeColor is the default fill of node rectangles.
	DefaultNodeColor = "#007fff"

	// DefaultTextColor is the default caption color.
	DefaultTextColor = "#ffffff"
)

// Visualization types.
const (
	VizTypeSankey   = "sankey"
	VizTypeNodelink = "nodelink"
)

// DefaultVizType is the default visualization type.
const DefaultVizType = VizTypeSankey

// Format constants for output formats.
const (
	FormatPNG  = "png"
	FormatBMP  = "bmp"
	FormatTIFF = "tiff"
	FormatJSON = "json"
	FormatSVG  = "svg"
	FormatDOT  = "dot"
)

// ValidFormats lists the supported output formats per visualization type.
var ValidFormats = map[string][]string{
	VizTypeSankey:   {FormatPNG, FormatBMP, FormatTIFF, FormatJSON},
	VizTypeNodelink: {FormatSVG, FormatDOT},
}

// DefaultFormat returns the format rendered when none is requested.
func DefaultFormat(vizType string) string {
	if vizType == VizTypeNodelink {
		return FormatSVG
	}
	return FormatPNG
}

// ContentType returns the MIME type of an artifact format.
func ContentType(format string) string {
	switch format {
	case FormatPNG:
		return "image/png"
	case FormatBMP:
		return "image/bmp"
	case FormatTIFF:
		return "image/tiff"
	case FormatJSON:
		return "application/json"
	case FormatSVG:
		return "image/svg+xml"
	case FormatDOT:
		return "text/vnd.graphviz"
	default:
		return "application/octet-stream"
	}
}

// TTLArtifact is how long rendered artifacts stay cached.
const TTLArtifact = 7 * 24 * time.Hour

// TTLLayout is how long computed layouts stay cached.
const TTLLayout = 7 * 24 * time.Hour

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the render pipeline.
// This struct supports JSON serialization for API requests and TOML for
// config files.
type Options struct {
	// Layout options
	VizType   string `json:"viz_type,omitempty" toml:"viz_type"`
	Width     int    `json:"width,omitempty" toml:"width"`
	Height    int    `json:"height,omitempty" toml:"height"`
	Padding   *int   `json:"padding,omitempty" toml:"padding"` // nil means DefaultPadding; zero is valid
	NodeWidth int    `json:"node_width,omitempty" toml:"node_width"`

	// Render options
	Formats    []string `json:"formats,omitempty" toml:"formats"`
	LabelGap   int      `json:"label_gap,omitempty" toml:"label_gap"`
	BandColor  string   `json:"band_color,omitempty" toml:"band_color"`
	NodeColor  string   `json:"node_color,omitempty" toml:"node_color"`
	TextColor  string   `json:"text_color,omitempty" toml:"text_color"`
	Background string   `json:"background,omitempty" toml:"background"` // empty means transparent
	Font       string   `json:"font,omitempty" toml:"font"`
	FontSize   float64  `json:"font_size,omitempty" toml:"font_size"`
	NoLabels   bool     `json:"no_labels,omitempty" toml:"no_labels"`
	Locale     string   `json:"locale,omitempty" toml:"locale"`
	Detailed   bool     `json:"detailed,omitempty" toml:"detailed"` // nodelink only
	Refresh    bool     `json:"refresh,omitempty" toml:"-"`         // ignore cached artifacts

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-" toml:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// ID identifies the run in logs and API responses.
	ID uuid.UUID

	// GraphHash is the content hash of the canonical graph JSON.
	GraphHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheHit is true when every artifact came from the cache.
	CacheHit bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateVizType checks that a visualization type is valid.
func ValidateVizType(vizType string) error {
	if _, ok := ValidFormats[vizType]; !ok {
		return errors.New(errors.ErrCodeInvalidVizType, "invalid viz_type: %q (must be one of: sankey, nodelink)", vizType)
	}
	return nil
}

// ValidateFormat checks that a format is valid for the visualization type.
func ValidateFormat(vizType, format string) error {
	valid := ValidFormats[vizType]
	if !slices.Contains(valid, format) {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format for %s: %q (must be one of: %s)", vizType, format, strings.Join(valid, ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid for the visualization type.
func ValidateFormats(vizType string, formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(vizType, f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults applies defaults and checks every field.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetLayoutDefaults()
	o.SetRenderDefaults()
	if err := o.validate(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

func (o *Options) validate() error {
	if err := ValidateVizType(o.VizType); err != nil {
		return err
	}
	if err := ValidateFormats(o.VizType, o.Formats); err != nil {
		return err
	}
	switch {
	case o.Width <= 0 || o.Height <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "width and height must be positive, got %dx%d", o.Width, o.Height)
	case *o.Padding < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "padding must be non-negative, got %d", *o.Padding)
	case o.NodeWidth <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "node width must be positive, got %d", o.NodeWidth)
	case o.LabelGap < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "label gap must be non-negative, got %d", o.LabelGap)
	case o.FontSize <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "font size must be positive, got %v", o.FontSize)
	}
	for name, hex := range map[string]string{
		"band_color": o.BandColor, "node_color": o.NodeColor,
		"text_color": o.TextColor, "background": o.Background,
	} {
		if hex == "" {
			continue
		}
		if _, err := ParseColor(hex); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", name)
		}
	}
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.VizType == "" {
		o.VizType = DefaultVizType
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Padding == nil {
		p := DefaultPadding
		o.Padding = &p
	}
	if o.NodeWidth == 0 {
		o.NodeWidth = DefaultNodeWidth
	}
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat(o.VizType)}
	}
	if o.BandColor == "" {
		o.BandColor = DefaultBandColor
	}
	if o.NodeColor == "" {
		o.NodeColor = DefaultNodeColor
	}
	if o.TextColor == "" {
		o.TextColor = DefaultTextColor
	}
	if o.FontSize == 0 {
		o.FontSize = DefaultFontSize
	}
}

// IsSankey returns true if this is a Sankey visualization.
func (o *Options) IsSankey() bool {
	return o.VizType == "" || o.VizType == VizTypeSankey
}

// IsNodelink returns true if this is a nodelink visualization.
func (o *Options) IsNodelink() bool {
	return o.VizType == VizTypeNodelink
}

// PaddingValue returns the configured padding or the default.
func (o *Options) PaddingValue() int {
	if o.Padding == nil {
		return DefaultPadding
	}
	return *o.Padding
}

// SankeyOptions converts o to renderer options. Captions are only painted
// when painter is non-nil.
func (o *Options) SankeyOptions(painter label.Painter) (sankey.Options, error) {
	so := sankey.Options{
		Width:     o.Width,
		Height:    o.Height,
		Padding:   o.PaddingValue(),
		NodeWidth: o.NodeWidth,
		LabelGap:  o.LabelGap,
		Painter:   painter,
		Formatter: label.NewFormatter(o.Locale),
	}
	var err error
	if so.BandColor, err = parseOptionalColor(o.BandColor); err != nil {
		return sankey.Options{}, err
	}
	if so.NodeColor, err = parseOptionalColor(o.NodeColor); err != nil {
		return sankey.Options{}, err
	}
	if so.Background, err = parseOptionalColor(o.Background); err != nil {
		return sankey.Options{}, err
	}
	return so, nil
}

// TextOptions converts o to caption painter options.
func (o *Options) TextOptions() (text.Options, error) {
	c, err := parseOptionalColor(o.TextColor)
	if err != nil {
		return text.Options{}, err
	}
	return text.Options{Font: o.Font, Size: o.FontSize, Color: c}, nil
}

func parseOptionalColor(hex string) (color.Color, error) {
	if hex == "" {
		return nil, nil
	}
	c, err := ParseColor(hex)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "color %q", hex)
	}
	return c, nil
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Width:     o.Width,
		Height:    o.Height,
		Padding:   o.PaddingValue(),
		NodeWidth: o.NodeWidth,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		LayoutKeyOpts: o.LayoutKeyOpts(),
		VizType:       o.VizType,
		Format:        format,
		LabelGap:      o.LabelGap,
		BandColor:     o.BandColor,
		NodeColor:     o.NodeColor,
		TextColor:     o.TextColor,
		Background:    o.Background,
		Font:          o.Font,
		FontSize:      o.FontSize,
		NoLabels:      o.NoLabels,
		Locale:        o.Locale,
		Detailed:      o.Detailed,
	}
}
