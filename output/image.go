package output

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/echoflaresat/pathtracer/colors"
)

// ImageSink collects a render into an in-memory NRGBA image.
type ImageSink struct {
	img  *image.NRGBA
	next int
}

func NewImageSink() *ImageSink {
	return &ImageSink{}
}

func (s *ImageSink) Begin(width, height int) error {
	s.img = image.NewNRGBA(image.Rect(0, 0, width, height))
	s.next = 0
	return nil
}

func (s *ImageSink) WritePixel(sum colors.Color, samples int) error {
	if s.img == nil {
		return errors.New("image sink: WritePixel before Begin")
	}
	w := s.img.Bounds().Dx()
	if s.next >= w*s.img.Bounds().Dy() {
		return errors.New("image sink: too many pixels")
	}
	s.img.SetNRGBA(s.next%w, s.next/w, colors.Encode(sum, samples))
	s.next++
	return nil
}

func (s *ImageSink) End() error {
	return nil
}

// Image returns the collected image, or nil before Begin.
func (s *ImageSink) Image() *image.NRGBA {
	return s.img
}

type Format string

const (
	PPM  Format = "ppm"
	PNG  Format = "png"
	JPEG Format = "jpeg"
	TIFF Format = "tiff"
	BMP  Format = "bmp"
)

var ErrUnknownFormat = errors.New("unknown image format")

// FormatFromPath picks an output format by file extension.
func FormatFromPath(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".ppm":
		return PPM, nil
	case ".png":
		return PNG, nil
	case ".jpg", ".jpeg":
		return JPEG, nil
	case ".tif", ".tiff":
		return TIFF, nil
	case ".bmp":
		return BMP, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}
}

// Encode writes img to w in the given format.
func Encode(w io.Writer, img image.Image, format Format) error {
	switch format {
	case PNG:
		return (&png.Encoder{CompressionLevel: png.BestSpeed}).Encode(w, img)
	case JPEG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
	case TIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	case BMP:
		return bmp.Encode(w, img)
	case PPM:
		return EncodePPM(w, img)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// EncodePPM writes an already quantized image as P3 PPM. Alpha is dropped
// without premultiplying the color channels.
func EncodePPM(w io.Writer, img image.Image) error {
	p := NewPPMWriter(w)
	b := img.Bounds()
	if err := p.Begin(b.Dx(), b.Dy()); err != nil {
		return err
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if _, err := fmt.Fprintf(p.w, "%d %d %d\n", c.R, c.G, c.B); err != nil {
				return err
			}
			p.written++
		}
	}
	return p.End()
}
