// Command convert re-encodes rendered images. Given several inputs and a
// -grid it lays them out as tiles of one contact sheet.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/draw"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/echoflaresat/pathtracer/output"
)

func main() {
	grid := flag.String("grid", "1x1", "Tile layout <cols>x<rows> when merging several inputs")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [-grid <cols>x<rows>] <output> <input1> [input2 ...]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 2 {
		flag.Usage()
		os.Exit(1)
	}

	cols, rows, err := parseGrid(*grid)
	if err != nil {
		log.Fatal(err)
	}

	outPath := flag.Arg(0)
	inputs := flag.Args()[1:]
	if len(inputs) != cols*rows {
		log.Fatalf("Expected %d input files for a %dx%d grid, got %d", cols*rows, cols, rows, len(inputs))
	}

	canvas, err := merge(inputs, cols)
	if err != nil {
		log.Fatal(err)
	}
	if err := save(outPath, canvas); err != nil {
		log.Fatal(err)
	}
}

func parseGrid(s string) (cols, rows int, err error) {
	parts := strings.Split(s, "x")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid grid %q (expected NxM)", s)
	}
	if cols, err = strconv.Atoi(parts[0]); err != nil || cols <= 0 {
		return 0, 0, fmt.Errorf("invalid cols in grid %q", s)
	}
	if rows, err = strconv.Atoi(parts[1]); err != nil || rows <= 0 {
		return 0, 0, fmt.Errorf("invalid rows in grid %q", s)
	}
	return cols, rows, nil
}

// merge draws each input into its tile position. All tiles must share the
// size of the first one.
func merge(inputs []string, cols int) (*image.NRGBA, error) {
	rows := (len(inputs) + cols - 1) / cols

	var canvas *image.NRGBA
	var tileW, tileH int
	for idx, path := range inputs {
		fmt.Fprintf(os.Stderr, "Processing %s\n", path)
		tile, err := output.LoadImage(path)
		if err != nil {
			return nil, fmt.Errorf("could not load %q: %w", path, err)
		}

		if canvas == nil {
			tileW = tile.Bounds().Dx()
			tileH = tile.Bounds().Dy()
			canvas = image.NewNRGBA(image.Rect(0, 0, cols*tileW, rows*tileH))
		} else if tileW != tile.Bounds().Dx() || tileH != tile.Bounds().Dy() {
			return nil, fmt.Errorf("tile size mismatch for %q: expected %dx%d, got %dx%d",
				path, tileW, tileH, tile.Bounds().Dx(), tile.Bounds().Dy())
		}

		x := (idx % cols) * tileW
		y := (idx / cols) * tileH
		draw.Draw(canvas, image.Rect(x, y, x+tileW, y+tileH), tile, tile.Bounds().Min, draw.Src)

		if c, ok := tile.(interface{ Close() error }); ok {
			c.Close()
		}
	}
	return canvas, nil
}

func save(path string, img image.Image) error {
	format, err := output.FormatFromPath(path)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "-> creating %s\n", path)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := output.Encode(f, img, format); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", format, err)
	}
	return f.Close()
}
