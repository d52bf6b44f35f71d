package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/echoflaresat/pathtracer/output"
	"github.com/echoflaresat/pathtracer/render"
	"github.com/echoflaresat/pathtracer/scenes"
	"github.com/echoflaresat/pathtracer/vectors"
)

type config struct {
	scene                 *string
	width, samples, depth *int
	aspect, vfov          *float64
	from, at, up          *vecFlag
	defocus, focus        *float64
	noJitter, normals     *bool
	workers               *int
	seed                  *uint64
	out                   *string
	quiet, showHelp       *bool
}

func defineFlags() config {
	cfg := config{
		scene: flag.String("scene", "basic", "Built-in scene: "+strings.Join(scenes.Names(), ", ")),

		width:   flag.Int("width", 400, "Image width in pixels"),
		aspect:  flag.Float64("aspect", 16.0/9.0, "Aspect ratio (width / height)"),
		samples: flag.Int("samples", 10, "Samples per pixel"),
		depth:   flag.Int("depth", 10, "Maximum ray bounces"),

		vfov:    flag.Float64("vfov", 90, "Vertical field of view in degrees"),
		from:    &vecFlag{},
		at:      &vecFlag{},
		up:      &vecFlag{},
		defocus: flag.Float64("defocus", 0, "Defocus angle in degrees (0 disables depth of field)"),
		focus:   flag.Float64("focus", 10, "Focus distance"),

		noJitter: flag.Bool("nojitter", false, "Trace every sample through the pixel center"),
		normals:  flag.Bool("normals", false, "Shade by surface normal (debug)"),
		workers:  flag.Int("workers", 0, "Sample workers per pixel (0 = GOMAXPROCS)"),
		seed:     flag.Uint64("seed", 0, "Random seed (0 = random)"),

		out:      flag.String("out", "-", "Output path; '-' writes PPM to stdout, extension selects format"),
		quiet:    flag.Bool("q", false, "Suppress progress output"),
		showHelp: flag.Bool("h", false, "Show this help message"),
	}
	flag.Var(cfg.from, "from", "Camera position x,y,z")
	flag.Var(cfg.at, "at", "Point the camera looks at x,y,z")
	flag.Var(cfg.up, "up", "Camera up hint x,y,z")
	return cfg
}

func printHelp() {
	fmt.Fprintf(os.Stderr, `Path Tracer - Monte-Carlo sphere renderer

Usage:
  %[1]s [options] > image.ppm
  %[1]s [options] -out image.png

`, os.Args[0])

	printGroup("Scene", []string{"scene", "seed"})
	printGroup("Camera Options", []string{"vfov", "from", "at", "up", "defocus", "focus"})
	printGroup("Rendering Options", []string{"width", "aspect", "samples", "depth", "nojitter", "normals", "workers"})
	printGroup("Output", []string{"out", "q"})
	printGroup("Misc", []string{"h"})
}

func printGroup(title string, keys []string) {
	fmt.Fprintf(os.Stderr, "%s:\n", title)
	for _, name := range keys {
		if f := flag.Lookup(name); f != nil {
			fmt.Fprintf(os.Stderr, "  -%-9s %s (default %q)\n", f.Name, f.Usage, f.DefValue)
		}
	}
	fmt.Fprintln(os.Stderr)
}

func main() {
	cfg := defineFlags()
	flag.Usage = printHelp
	flag.Parse()

	if *cfg.showHelp {
		printHelp()
		return
	}

	var logOut io.Writer = os.Stderr
	if *cfg.quiet {
		logOut = io.Discard
	}
	logger := slog.New(slog.NewTextHandler(logOut, nil))

	scene, err := scenes.Build(*cfg.scene, *cfg.seed)
	if err != nil {
		log.Fatal(err)
	}
	camCfg := applyFlags(scene.Camera, cfg, setFlags())

	if err := renderTo(*cfg.out, scene, camCfg, logger); err != nil {
		log.Fatalf("Render failed: %v", err)
	}
}

// setFlags returns the names of flags given on the command line.
func setFlags() map[string]bool {
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

// applyFlags overrides the scene's camera preset with explicitly set flags.
func applyFlags(c render.Config, cfg config, set map[string]bool) render.Config {
	if set["width"] {
		c.ImageWidth = *cfg.width
	}
	if set["aspect"] {
		c.AspectRatio = *cfg.aspect
	}
	if set["samples"] {
		c.SamplesPerPixel = *cfg.samples
	}
	if set["depth"] {
		c.MaxDepth = *cfg.depth
	}
	if set["vfov"] {
		c.VFOV = *cfg.vfov
	}
	if set["from"] {
		c.LookFrom = cfg.from.v
	}
	if set["at"] {
		c.LookAt = cfg.at.v
	}
	if set["up"] {
		c.VUp = cfg.up.v
	}
	if set["defocus"] {
		c.DefocusAngle = *cfg.defocus
	}
	if set["focus"] {
		c.FocusDist = *cfg.focus
	}
	if *cfg.noJitter {
		c.Jitter = false
	}
	c.ShadeNormals = *cfg.normals
	c.Workers = *cfg.workers
	c.Seed = *cfg.seed
	return c
}

// renderTo renders scene and writes it to path. PPM output streams pixel by
// pixel; other formats are collected in memory and encoded at the end.
func renderTo(path string, scene scenes.Scene, c render.Config, logger *slog.Logger) error {
	camera := render.NewCamera(c)

	if path == "-" {
		return camera.Render(scene.World, output.NewPPMWriter(os.Stdout), logger)
	}

	format, err := output.FormatFromPath(path)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := renderFile(f, format, scene, camera, logger); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func renderFile(w io.Writer, format output.Format, scene scenes.Scene, camera *render.Camera, logger *slog.Logger) error {
	if format == output.PPM {
		return camera.Render(scene.World, output.NewPPMWriter(w), logger)
	}

	sink := output.NewImageSink()
	if err := camera.Render(scene.World, sink, logger); err != nil {
		return err
	}
	return output.Encode(w, sink.Image(), format)
}

// vecFlag parses "x,y,z" into a vector.
type vecFlag struct {
	v vectors.Vec3
}

func (f *vecFlag) String() string {
	if f == nil {
		return ""
	}
	return fmt.Sprintf("%g,%g,%g", f.v.X, f.v.Y, f.v.Z)
}

func (f *vecFlag) Set(s string) error {
	v, err := parseVec(s)
	if err != nil {
		return err
	}
	f.v = v
	return nil
}

func parseVec(s string) (vectors.Vec3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return vectors.Vec3{}, fmt.Errorf("expected x,y,z, got %q", s)
	}
	var xyz [3]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return vectors.Vec3{}, fmt.Errorf("component %d of %q: %w", i, s, err)
		}
		xyz[i] = v
	}
	return vectors.New(xyz[0], xyz[1], xyz[2]), nil
}
