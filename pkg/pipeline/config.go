package pipeline

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/sankey/pkg/errors"
)

// LoadConfig reads render options from a TOML file:
//
//	width = 800
//	height = 600
//	padding = 20
//	band_color = "#7dbeff80"
//	formats = ["png", "json"]
//
// Unknown keys are rejected. Defaults are not applied.
func LoadConfig(path string) (Options, error) {
	var opts Options
	md, err := toml.DecodeFile(path, &opts)
	if os.IsNotExist(err) {
		return Options{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
	}
	if err != nil {
		return Options{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Options{}, errors.New(errors.ErrCodeInvalidConfig, "config %s: unknown key %q", path, undecoded[0].String())
	}
	return opts, nil
}
