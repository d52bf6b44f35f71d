package output

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // register JPEG format with image.Decode
	_ "image/png"  // register PNG format with image.Decode
	"io"
	"log/slog"
	"os"

	"github.com/echoflaresat/tiff"
	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/exp/mmap"
)

var ErrNotPPM = errors.New("not a P3 PPM file")

// rowCacheSize bounds how many decoded rows a PPM image keeps in memory.
const rowCacheSize = 256

// LoadImage opens a rendered image. P3 PPM files are memory-mapped and
// decoded lazily; a malformed P3 file is reported as such. Anything else goes
// through the TIFF decoder and then the registered image codecs.
func LoadImage(path string) (image.Image, error) {
	ppm, err := LoadPPM(path)
	if err == nil {
		return ppm, nil
	}
	if !errors.Is(err, ErrNotPPM) {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := tiff.Decode(f)
	if err == nil {
		return img, nil
	}
	slog.Debug("not a TIFF, trying registered codecs", "path", path, "error", err)

	// fallback to image codecs
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	img, _, err = image.Decode(f)
	return img, err
}

// PPMImage is a P3 image backed by a memory-mapped file. Rows are parsed on
// first access and kept in an LRU cache.
type PPMImage struct {
	reader  *mmap.ReaderAt
	width   int
	height  int
	maxVal  int
	rowOffs []int // byte offset of the first token of each row
	cache   *lru.Cache
}

// LoadPPM maps path and indexes its rows. It returns ErrNotPPM when the
// file does not start with the P3 magic.
func LoadPPM(path string) (*PPMImage, error) {
	reader, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}
	img, err := indexPPM(reader)
	if err != nil {
		reader.Close()
		return nil, err
	}
	return img, nil
}

func indexPPM(reader *mmap.ReaderAt) (*PPMImage, error) {
	s := &scanner{r: reader}
	if magic := s.token(); magic != "P3" {
		return nil, ErrNotPPM
	}

	var header [3]int
	for k := range header {
		v, ok := s.number()
		if !ok {
			return nil, fmt.Errorf("ppm: bad header field %d at offset %d", k, s.pos)
		}
		header[k] = v
	}
	width, height, maxVal := header[0], header[1], header[2]
	if width <= 0 || height <= 0 || maxVal <= 0 {
		return nil, fmt.Errorf("ppm: invalid header %dx%d max %d", width, height, maxVal)
	}

	rowOffs := make([]int, height)
	for y := 0; y < height; y++ {
		s.skipSpace()
		rowOffs[y] = s.pos
		for n := 0; n < width*3; n++ {
			if _, ok := s.number(); !ok {
				return nil, fmt.Errorf("ppm: truncated at row %d, value %d", y, n)
			}
		}
	}

	cache, err := lru.New(rowCacheSize)
	if err != nil {
		return nil, err
	}
	return &PPMImage{
		reader:  reader,
		width:   width,
		height:  height,
		maxVal:  maxVal,
		rowOffs: rowOffs,
		cache:   cache,
	}, nil
}

func (p *PPMImage) ColorModel() color.Model {
	return color.NRGBAModel
}

func (p *PPMImage) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.width, p.height)
}

func (p *PPMImage) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}.In(p.Bounds())) {
		return color.NRGBA{}
	}

	var row []uint8
	if val, ok := p.cache.Get(y); ok {
		row = val.([]uint8)
	} else {
		row = p.loadRow(y)
		p.cache.Add(y, row)
	}
	i := x * 3
	return color.NRGBA{R: row[i], G: row[i+1], B: row[i+2], A: 255}
}

// Close releases the mapping.
func (p *PPMImage) Close() error {
	return p.reader.Close()
}

// loadRow decodes row y, rescaling values to 8 bits. The file was fully
// validated by indexPPM, so tokens are known to be present.
func (p *PPMImage) loadRow(y int) []uint8 {
	s := &scanner{r: p.reader, pos: p.rowOffs[y]}
	row := make([]uint8, p.width*3)
	for i := range row {
		v, _ := s.number()
		if v > p.maxVal {
			v = p.maxVal
		}
		row[i] = uint8(v * 255 / p.maxVal)
	}
	return row
}

// scanner tokenizes PPM text directly from the mapping, skipping
// whitespace and '#' comments.
type scanner struct {
	r   *mmap.ReaderAt
	pos int
}

func (s *scanner) skipSpace() {
	for s.pos < s.r.Len() {
		switch b := s.r.At(s.pos); {
		case b == '#':
			for s.pos < s.r.Len() && s.r.At(s.pos) != '\n' {
				s.pos++
			}
		case b == ' ' || b == '\t' || b == '\n' || b == '\r':
			s.pos++
		default:
			return
		}
	}
}

func (s *scanner) token() string {
	s.skipSpace()
	start := s.pos
	for s.pos < s.r.Len() {
		b := s.r.At(s.pos)
		if b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '#' {
			break
		}
		s.pos++
	}
	buf := make([]byte, s.pos-start)
	for i := range buf {
		buf[i] = s.r.At(start + i)
	}
	return string(buf)
}

func (s *scanner) number() (int, bool) {
	s.skipSpace()
	n, digits := 0, 0
	for s.pos < s.r.Len() {
		b := s.r.At(s.pos)
		if b < '0' || b > '9' {
			break
		}
		n = n*10 + int(b-'0')
		digits++
		s.pos++
	}
	return n, digits > 0
}
