package sink

import (
	"image"
	"image/png"
	"io"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/matzehuels/sankey/pkg/errors"
)

// PNGOption configures PNG encoding.
type PNGOption func(*png.Encoder)

// WithCompression sets the zlib compression level.
func WithCompression(level png.CompressionLevel) PNGOption {
	return func(e *png.Encoder) { e.CompressionLevel = level }
}

// EncodePNG writes img as PNG.
func EncodePNG(w io.Writer, img image.Image, opts ...PNGOption) error {
	enc := &png.Encoder{CompressionLevel: png.DefaultCompression}
	for _, opt := range opts {
		opt(enc)
	}
	if err := enc.Encode(w, img); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return nil
}

// EncodeBMP writes img as a 32-bit BMP.
func EncodeBMP(w io.Writer, img image.Image) error {
	if err := bmp.Encode(w, img); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode bmp")
	}
	return nil
}

// TIFFOption configures TIFF encoding.
type TIFFOption func(*tiff.Options)

// WithDeflate compresses TIFF output with Deflate.
func WithDeflate() TIFFOption {
	return func(o *tiff.Options) { o.Compression = tiff.Deflate }
}

// EncodeTIFF writes img as TIFF, uncompressed unless configured otherwise.
func EncodeTIFF(w io.Writer, img image.Image, opts ...TIFFOption) error {
	o := &tiff.Options{Compression: tiff.Uncompressed}
	for _, opt := range opts {
		opt(o)
	}
	if err := tiff.Encode(w, img, o); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode tiff")
	}
	return nil
}
