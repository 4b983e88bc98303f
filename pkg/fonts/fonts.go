// Package fonts resolves the TrueType data used to paint node labels.
//
// The Go font family ships inside golang.org/x/image and is always available,
// so rendering never depends on fonts installed on the host. A path to any
// TTF or OTF file can be given instead.
package fonts

import (
	"os"
	"sort"
	"strings"
	"sync"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/matzehuels/sankey/pkg/errors"
)

// DefaultFamily is the family used when no font is configured.
const DefaultFamily = "goregular"

var builtin = map[string][]byte{
	"goregular": goregular.TTF,
	"gobold":    gobold.TTF,
	"gomono":    gomono.TTF,
}

// Families returns the names of the embedded font families, sorted.
func Families() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Default returns the data of [DefaultFamily].
func Default() []byte {
	return goregular.TTF
}

// Cache for parsed fonts (parsed once per name or path).
var (
	parsedMu sync.Mutex
	parsed   = map[string]*opentype.Font{}
)

// Resolve returns the parsed font for name, which is either an embedded family
// name, a path to a font file, or empty for the default family.
func Resolve(name string) (*opentype.Font, error) {
	if name == "" {
		name = DefaultFamily
	}

	parsedMu.Lock()
	defer parsedMu.Unlock()
	if f, ok := parsed[name]; ok {
		return f, nil
	}

	data, err := load(name)
	if err != nil {
		return nil, err
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse font %s", name)
	}
	parsed[name] = f
	return f, nil
}

func load(name string) ([]byte, error) {
	if data, ok := builtin[strings.ToLower(name)]; ok {
		return data, nil
	}
	data, err := os.ReadFile(name)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeFileNotFound, "font %q is neither a built-in family (%s) nor an existing file", name, strings.Join(Families(), ", "))
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read font %s", name)
	}
	return data, nil
}
