package sink

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/matzehuels/sankey/pkg/flow"
	"github.com/matzehuels/sankey/pkg/render/sankey"
)

func testImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 8, 4))
	img.SetRGBA(1, 2, color.RGBA{0, 127, 255, 255})
	img.SetRGBA(7, 3, color.RGBA{125, 190, 255, 255})
	return img
}

func TestRasterEncoders(t *testing.T) {
	tests := []struct {
		name   string
		encode func(*bytes.Buffer, image.Image) error
		decode func(*bytes.Reader) (image.Image, error)
	}{
		{
			name:   "png",
			encode: func(b *bytes.Buffer, img image.Image) error { return EncodePNG(b, img) },
			decode: func(r *bytes.Reader) (image.Image, error) { return png.Decode(r) },
		},
		{
			name: "png best compression",
			encode: func(b *bytes.Buffer, img image.Image) error {
				return EncodePNG(b, img, WithCompression(png.BestCompression))
			},
			decode: func(r *bytes.Reader) (image.Image, error) { return png.Decode(r) },
		},
		{
			name:   "bmp",
			encode: func(b *bytes.Buffer, img image.Image) error { return EncodeBMP(b, img) },
			decode: func(r *bytes.Reader) (image.Image, error) { return bmp.Decode(r) },
		},
		{
			name:   "tiff",
			encode: func(b *bytes.Buffer, img image.Image) error { return EncodeTIFF(b, img) },
			decode: func(r *bytes.Reader) (image.Image, error) { return tiff.Decode(r) },
		},
		{
			name:   "tiff deflate",
			encode: func(b *bytes.Buffer, img image.Image) error { return EncodeTIFF(b, img, WithDeflate()) },
			decode: func(r *bytes.Reader) (image.Image, error) { return tiff.Decode(r) },
		},
	}
	src := testImage()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := tt.encode(&buf, src); err != nil {
				t.Fatalf("encode error: %v", err)
			}
			got, err := tt.decode(bytes.NewReader(buf.Bytes()))
			if err != nil {
				t.Fatalf("decode error: %v", err)
			}
			if got.Bounds() != src.Bounds() {
				t.Fatalf("bounds = %v, want %v", got.Bounds(), src.Bounds())
			}
			for _, p := range []image.Point{{1, 2}, {7, 3}} {
				want := src.RGBAAt(p.X, p.Y)
				r, g, b, a := got.At(p.X, p.Y).RGBA()
				if uint8(r>>8) != want.R || uint8(g>>8) != want.G || uint8(b>>8) != want.B || uint8(a>>8) != want.A {
					t.Errorf("pixel %v = %v, want %v", p, got.At(p.X, p.Y), want)
				}
			}
		})
	}
}

func TestRenderJSON(t *testing.T) {
	res, err := sankey.RenderWithLayout(flow.SampleBudget(), sankey.DefaultOptions())
	if err != nil {
		t.Fatalf("RenderWithLayout() error: %v", err)
	}

	data, err := RenderJSON(res.Layout, WithJSONBands(res.Bands), WithJSONIndent())
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if doc.Width != 600 || doc.ColSeparation != 281 || doc.ReferenceCol != 2 {
		t.Errorf("header = %+v", doc)
	}
	if len(doc.Nodes) != 9 || len(doc.Bands) != 8 {
		t.Fatalf("got %d nodes and %d bands, want 9 and 8", len(doc.Nodes), len(doc.Bands))
	}
	if n := doc.Nodes[2]; n.Name != "Budget" || n.X1 != 295 || n.Y2 != 515 {
		t.Errorf("Budget = %+v", n)
	}
	if b := doc.Bands[0]; b.Source != "Wages" || b.TargetBottom != 508 {
		t.Errorf("first band = %+v", b)
	}
}

func TestRenderJSONWithoutBands(t *testing.T) {
	res, err := sankey.RenderWithLayout(flow.SampleBudget(), sankey.DefaultOptions())
	if err != nil {
		t.Fatalf("RenderWithLayout() error: %v", err)
	}
	data, err := RenderJSON(res.Layout)
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}
	if bytes.Contains(data, []byte(`"bands"`)) {
		t.Error("bands present without WithJSONBands")
	}
	if bytes.Contains(data, []byte("\n")) {
		t.Error("output indented without WithJSONIndent")
	}
}
