package render

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/echoflaresat/pathtracer/colors"
	"github.com/echoflaresat/pathtracer/geom"
	"github.com/echoflaresat/pathtracer/vectors"
)

// Sink receives a rendered image as a strictly ordered stream: Begin once,
// then WritePixel for every pixel in row-major order, top row first, then End.
// WritePixel gets the unaveraged sample sum.
type Sink interface {
	Begin(width, height int) error
	WritePixel(sum colors.Color, samples int) error
	End() error
}

// hitRange starts slightly above zero so a bounce does not re-hit the
// surface it just left.
var hitRange = vectors.Interval{Min: 0.001, Max: math.Inf(1)}

// Background is the sky seen by rays that escape the scene: a vertical
// blend from white at the bottom to sky blue at the top.
func Background(r vectors.Ray) colors.Color {
	unit := r.Direction.Unit()
	a := 0.5 * (unit.Y + 1.0)
	return colors.Mix(colors.White(), colors.SkyBlue(), a)
}

// RayColor traces r through world for at most depth bounces and returns the
// gathered radiance. Attenuations multiply along the path; an exhausted depth
// or an absorbing material yields black.
func (c *Camera) RayColor(r vectors.Ray, depth int, world geom.Hittable, rng *rand.Rand) colors.Color {
	throughput := colors.White()
	for ; depth > 0; depth-- {
		rec, ok := world.Hit(r, hitRange)
		if !ok {
			return throughput.Mul(Background(r))
		}
		if c.ShadeNormals {
			return throughput.Mul(rec.Normal.Add(colors.White()).Scale(0.5))
		}
		if rec.Material == nil {
			return colors.Black()
		}
		attenuation, scattered, ok := rec.Material.Scatter(r, rec, rng)
		if !ok {
			return colors.Black()
		}
		throughput = throughput.Mul(attenuation)
		r = scattered
	}
	return colors.Black()
}

// Render traces every pixel in raster order and streams the sample sums to
// sink. Samples of one pixel are spread over a bounded pool of goroutines;
// pixels themselves stay sequential because the sink is an ordered stream.
// Render returns the first error reported by sink.
func (c *Camera) Render(world geom.Hittable, sink Sink, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	width, height := c.Width(), c.Height()

	seed := c.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	samples := c.SamplesPerPixel
	if samples < 1 {
		samples = 1
	}
	workers := c.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > samples {
		workers = samples
	}

	if err := sink.Begin(width, height); err != nil {
		return fmt.Errorf("render: begin: %w", err)
	}

	start := time.Now()
	results := make([]colors.Color, samples)
	for j := 0; j < height; j++ {
		logger.Info("scanlines remaining", "rows", height-j)
		for i := 0; i < width; i++ {
			pixel := uint64(j*width + i)
			if err := c.samplePixel(world, i, j, seed, pixel, workers, results); err != nil {
				return fmt.Errorf("render: sample pixel (%d,%d): %w", i, j, err)
			}
			if err := sink.WritePixel(vectors.Sum(results...), samples); err != nil {
				return fmt.Errorf("render: pixel (%d,%d): %w", i, j, err)
			}
		}
	}

	if err := sink.End(); err != nil {
		return fmt.Errorf("render: end: %w", err)
	}
	logger.Info("done rendering", "width", width, "height", height, "samples", samples, "elapsed", time.Since(start))
	return nil
}

// samplePixel fills results[s] with the color of sample s of pixel (i, j).
// Each sample draws from its own generator keyed by (seed, pixel, s), so the
// outcome does not depend on scheduling or the number of workers.
func (c *Camera) samplePixel(world geom.Hittable, i, j int, seed, pixel uint64, workers int, results []colors.Color) error {
	n := len(results)
	trace := func(s int) {
		rng := rand.New(rand.NewPCG(seed, pixel*uint64(n)+uint64(s)))
		results[s] = c.RayColor(c.Ray(i, j, rng), c.MaxDepth, world, rng)
	}

	if workers <= 1 {
		for s := 0; s < n; s++ {
			trace(s)
		}
		return nil
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for s := 0; s < n; s++ {
		g.Go(func() error {
			trace(s)
			return nil
		})
	}
	return g.Wait()
}
