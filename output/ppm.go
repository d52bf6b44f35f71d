package output

import (
	"bufio"
	"fmt"
	"io"

	"github.com/echoflaresat/pathtracer/colors"
)

// PPMWriter streams a plain-text (P3) PPM image.
type PPMWriter struct {
	w       *bufio.Writer
	width   int
	height  int
	written int
}

func NewPPMWriter(w io.Writer) *PPMWriter {
	return &PPMWriter{w: bufio.NewWriter(w)}
}

// Begin writes the header: "P3", the dimensions and the 255 channel maximum.
func (p *PPMWriter) Begin(width, height int) error {
	p.width, p.height = width, height
	_, err := fmt.Fprintf(p.w, "P3\n%d %d\n255\n", width, height)
	return err
}

// WritePixel encodes one accumulated sample sum as "r g b".
func (p *PPMWriter) WritePixel(sum colors.Color, samples int) error {
	c := colors.Encode(sum, samples)
	p.written++
	_, err := fmt.Fprintf(p.w, "%d %d %d\n", c.R, c.G, c.B)
	return err
}

// End flushes buffered output and checks the pixel count.
func (p *PPMWriter) End() error {
	if err := p.w.Flush(); err != nil {
		return err
	}
	if want := p.width * p.height; p.written != want {
		return fmt.Errorf("ppm: wrote %d pixels, header declares %d", p.written, want)
	}
	return nil
}
