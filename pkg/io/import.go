package io

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/sankey/pkg/errors"
	"github.com/matzehuels/sankey/pkg/flow"
)

// Format names an input or output encoding.
type Format string

// Supported graph encodings.
const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatCSV  Format = "csv"
	FormatTSV  Format = "tsv"
)

// FormatFromPath returns the format implied by path's extension.
func FormatFromPath(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	case ".csv":
		return FormatCSV, nil
	case ".tsv":
		return FormatTSV, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat, "cannot infer graph format from extension %q (want .json, .toml, .csv or .tsv)", ext)
	}
}

// Read decodes a graph in the given format from r.
func Read(r io.Reader, format Format) (flow.Graph, error) {
	switch format {
	case FormatJSON:
		return ReadJSON(r)
	case FormatTOML:
		return ReadTOML(r)
	case FormatCSV:
		return ReadCSV(r)
	case FormatTSV:
		return ReadCSV(r, WithDelimiter('\t'))
	default:
		return flow.Graph{}, errors.New(errors.ErrCodeInvalidFormat, "unknown graph format %q", format)
	}
}

// ReadJSON decodes a JSON graph from r. ReadJSON does not close r.
func ReadJSON(r io.Reader) (flow.Graph, error) {
	var g flow.Graph
	if err := json.NewDecoder(r).Decode(&g); err != nil {
		return flow.Graph{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode json")
	}
	return g, nil
}

// ReadTOML decodes a TOML graph from r. Unknown keys are rejected so typos
// such as "vaule" do not silently produce zero values.
func ReadTOML(r io.Reader) (flow.Graph, error) {
	var g flow.Graph
	md, err := toml.NewDecoder(r).Decode(&g)
	if err != nil {
		return flow.Graph{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode toml")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return flow.Graph{}, errors.New(errors.ErrCodeInvalidInput, "decode toml: unknown key %q", undecoded[0].String())
	}
	return g, nil
}

// Import reads the graph file at path, choosing the decoder by extension.
func Import(path string) (flow.Graph, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return flow.Graph{}, err
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return flow.Graph{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return flow.Graph{}, errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s", path)
	}
	defer f.Close()
	return Read(f, format)
}
