package render

import (
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/echoflaresat/pathtracer/vectors"
)

// Config holds everything a caller chooses about a render.
type Config struct {
	AspectRatio     float64 // image width over height
	ImageWidth      int     // rendered image width in pixels
	SamplesPerPixel int     // random samples per pixel
	MaxDepth        int     // maximum number of ray bounces

	VFOV     float64 // vertical field of view in degrees
	LookFrom vectors.Point3
	LookAt   vectors.Point3
	VUp      vectors.Vec3 // camera-relative "up" hint

	DefocusAngle float64 // variation angle of rays through each pixel, degrees
	FocusDist    float64 // distance from LookFrom to the plane of perfect focus

	Jitter       bool // randomize the sample position within each pixel
	ShadeNormals bool // color hits by surface normal instead of tracing

	Workers int    // sample workers per pixel; <= 0 uses GOMAXPROCS
	Seed    uint64 // 0 draws a fresh seed per render
}

// DefaultConfig returns the stock camera: 16:9, 400px wide, 10 samples,
// depth 10, 90° vertical FOV looking from (0,0,-1) toward the origin.
func DefaultConfig() Config {
	return Config{
		AspectRatio:     16.0 / 9.0,
		ImageWidth:      400,
		SamplesPerPixel: 10,
		MaxDepth:        10,
		VFOV:            90,
		LookFrom:        vectors.New(0, 0, -1),
		LookAt:          vectors.New(0, 0, 0),
		VUp:             vectors.New(0, 1, 0),
		DefocusAngle:    0,
		FocusDist:       10,
		Jitter:          true,
	}
}

// Camera is a thin-lens camera. All derived geometry is computed once by
// NewCamera; a Camera is read-only afterwards and safe to share.
type Camera struct {
	Config

	ImageHeight int
	center      vectors.Point3
	pixel00     vectors.Point3 // center of pixel (0,0)
	pixelDeltaU vectors.Vec3   // offset to the pixel on the right
	pixelDeltaV vectors.Vec3   // offset to the pixel below
	u, v, w     vectors.Vec3   // camera frame basis
	defocusU    vectors.Vec3   // defocus disk horizontal radius
	defocusV    vectors.Vec3   // defocus disk vertical radius
}

// NewCamera derives the viewport, orthonormal basis and defocus disk from cfg.
// Degenerate inputs (LookFrom == LookAt, VUp parallel to the view axis)
// produce NaN geometry rather than an error.
func NewCamera(cfg Config) *Camera {
	c := &Camera{Config: cfg}

	c.ImageHeight = int(float64(cfg.ImageWidth) / cfg.AspectRatio)
	if c.ImageHeight < 1 {
		c.ImageHeight = 1
	}
	c.center = cfg.LookFrom

	theta := mgl64.DegToRad(cfg.VFOV)
	h := math.Tan(theta / 2)
	viewportHeight := 2 * h * cfg.FocusDist
	viewportWidth := viewportHeight * (float64(cfg.ImageWidth) / float64(c.ImageHeight))

	c.w = cfg.LookFrom.Sub(cfg.LookAt).Unit()
	c.u = cfg.VUp.Cross(c.w).Unit()
	c.v = c.w.Cross(c.u)

	// Viewport edges: u runs left to right, v runs top to bottom.
	viewportU := c.u.Scale(viewportWidth)
	viewportV := c.v.Neg().Scale(viewportHeight)

	c.pixelDeltaU = viewportU.Div(float64(cfg.ImageWidth))
	c.pixelDeltaV = viewportV.Div(float64(c.ImageHeight))

	upperLeft := c.center.
		Sub(c.w.Scale(cfg.FocusDist)).
		Sub(viewportU.Scale(0.5)).
		Sub(viewportV.Scale(0.5))
	c.pixel00 = upperLeft.Add(c.pixelDeltaU.Add(c.pixelDeltaV).Scale(0.5))

	if cfg.DefocusAngle > 0 {
		radius := cfg.FocusDist * math.Tan(mgl64.DegToRad(cfg.DefocusAngle/2))
		c.defocusU = c.u.Scale(radius)
		c.defocusV = c.v.Scale(radius)
	}
	return c
}

// Width returns the image width in pixels.
func (c *Camera) Width() int {
	return c.ImageWidth
}

// Height returns the derived image height in pixels.
func (c *Camera) Height() int {
	return c.ImageHeight
}

// Ray returns a camera ray through pixel (i, j). With Jitter the sample point
// is displaced uniformly within [-0.5, 0.5) pixels; with a positive
// DefocusAngle the origin is drawn from the defocus disk.
func (c *Camera) Ray(i, j int, rng *rand.Rand) vectors.Ray {
	var dx, dy float64
	if c.Jitter {
		dx, dy = rng.Float64()-0.5, rng.Float64()-0.5
	}
	sample := c.pixel00.
		Add(c.pixelDeltaU.Scale(float64(i) + dx)).
		Add(c.pixelDeltaV.Scale(float64(j) + dy))

	origin := c.center
	if c.DefocusAngle > 0 {
		origin = c.defocusDiskSample(rng)
	}
	return vectors.NewRay(origin, sample.Sub(origin))
}

func (c *Camera) defocusDiskSample(rng *rand.Rand) vectors.Point3 {
	p := vectors.RandomInUnitDisk(rng)
	return c.center.Add(c.defocusU.Scale(p.X)).Add(c.defocusV.Scale(p.Y))
}
