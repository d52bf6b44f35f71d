package output

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/echoflaresat/pathtracer/colors"
)

// gradient returns a small opaque test image.
func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 40), G: uint8(y * 60), B: 200, A: 255})
		}
	}
	return img
}

func imagesEqual(a, b image.Image) bool {
	if a.Bounds() != b.Bounds() {
		return false
	}
	bounds := a.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r1, g1, b1, a1 := a.At(x, y).RGBA()
			r2, g2, b2, a2 := b.At(x, y).RGBA()
			if r1 != r2 || g1 != g2 || b1 != b2 || a1 != a2 {
				return false
			}
		}
	}
	return true
}

func TestImageSink(t *testing.T) {
	s := NewImageSink()
	if s.Image() != nil {
		t.Fatal("Image before Begin should be nil")
	}
	if err := s.Begin(2, 2); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	sums := []colors.Color{
		colors.New(1, 0, 0),
		colors.New(0, 1, 0),
		colors.New(0, 0, 1),
		colors.New(0.25, 0.25, 0.25),
	}
	for _, sum := range sums {
		if err := s.WritePixel(sum, 1); err != nil {
			t.Fatalf("WritePixel: %v", err)
		}
	}
	if err := s.WritePixel(colors.White(), 1); err == nil {
		t.Error("expected an error for a fifth pixel")
	}
	if err := s.End(); err != nil {
		t.Fatalf("End: %v", err)
	}

	img := s.Image()
	want := map[image.Point]color.NRGBA{
		{0, 0}: {R: 255, A: 255},
		{1, 0}: {G: 255, A: 255},
		{0, 1}: {B: 255, A: 255},
		{1, 1}: {R: 128, G: 128, B: 128, A: 255},
	}
	for p, c := range want {
		if got := img.NRGBAAt(p.X, p.Y); got != c {
			t.Errorf("pixel %v = %v, want %v", p, got, c)
		}
	}
}

func TestImageSinkWriteBeforeBegin(t *testing.T) {
	if err := NewImageSink().WritePixel(colors.White(), 1); err == nil {
		t.Error("expected an error for WritePixel before Begin")
	}
}

func TestFormatFromPath(t *testing.T) {
	cases := map[string]Format{
		"out.ppm":       PPM,
		"out.png":       PNG,
		"a/b/OUT.PNG":   PNG,
		"shot.jpg":      JPEG,
		"shot.jpeg":     JPEG,
		"scan.tif":      TIFF,
		"scan.tiff":     TIFF,
		"legacy.bmp":    BMP,
		"dir.v2/x.bmp":  BMP,
		"render.v1.ppm": PPM,
	}
	for path, want := range cases {
		got, err := FormatFromPath(path)
		if err != nil || got != want {
			t.Errorf("FormatFromPath(%q) = %q, %v; want %q", path, got, err, want)
		}
	}

	for _, path := range []string{"noext", "image.gif", "image."} {
		if _, err := FormatFromPath(path); !errors.Is(err, ErrUnknownFormat) {
			t.Errorf("FormatFromPath(%q) error = %v, want ErrUnknownFormat", path, err)
		}
	}
}

func TestEncodeLossless(t *testing.T) {
	src := gradient(5, 4)
	decoders := map[Format]func(*bytes.Reader) (image.Image, error){
		PNG:  func(r *bytes.Reader) (image.Image, error) { return png.Decode(r) },
		TIFF: func(r *bytes.Reader) (image.Image, error) { return tiff.Decode(r) },
		BMP:  func(r *bytes.Reader) (image.Image, error) { return bmp.Decode(r) },
	}
	for format, decode := range decoders {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Encode(&buf, src, format); err != nil {
				t.Fatalf("Encode: %v", err)
			}
			got, err := decode(bytes.NewReader(buf.Bytes()))
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if !imagesEqual(src, got) {
				t.Error("decoded image differs from source")
			}
		})
	}
}

func TestEncodeJPEG(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, gradient(8, 8), JPEG); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte{0xFF, 0xD8}) {
		t.Error("missing JPEG SOI marker")
	}
}

func TestEncodePPM(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 1, G: 2, B: 3, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{R: 255, G: 128, B: 0, A: 255})

	var buf bytes.Buffer
	if err := Encode(&buf, img, PPM); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if want := "P3\n2 1\n255\n1 2 3\n255 128 0\n"; buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestEncodeUnknownFormat(t *testing.T) {
	if err := Encode(&bytes.Buffer{}, gradient(1, 1), Format("gif")); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Encode error = %v, want ErrUnknownFormat", err)
	}
}

func TestEncodePPMDropsAlpha(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 200, G: 100, B: 50, A: 128})

	var buf bytes.Buffer
	if err := EncodePPM(&buf, img); err != nil {
		t.Fatalf("EncodePPM: %v", err)
	}
	if want := "P3\n1 1\n255\n200 100 50\n"; buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}
