package io

import (
	"encoding/json"
	"io"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/sankey/pkg/errors"
	"github.com/matzehuels/sankey/pkg/flow"
)

// WriteJSON encodes g as indented JSON and writes it to w.
// The output can be re-imported with [ReadJSON].
func WriteJSON(g flow.Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(g); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode json")
	}
	return nil
}

// WriteTOML encodes g as TOML and writes it to w.
func WriteTOML(g flow.Graph, w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(g); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode toml")
	}
	return nil
}

// Write encodes g in the given format.
func Write(g flow.Graph, w io.Writer, format Format) error {
	switch format {
	case FormatJSON:
		return WriteJSON(g, w)
	case FormatTOML:
		return WriteTOML(g, w)
	case FormatCSV:
		return WriteCSV(g, w)
	case FormatTSV:
		return WriteCSV(g, w, WithDelimiter('\t'))
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unknown graph format %q", format)
	}
}

// Export writes g to a file at path, choosing the encoder by extension.
func Export(g flow.Graph, path string) error {
	if err := errors.ValidateOutputPath(path); err != nil {
		return err
	}
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", path)
	}
	if err := Write(g, f, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
