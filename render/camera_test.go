package render

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/echoflaresat/pathtracer/vectors"
)

const epsilon = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func vecEqual(a, b vectors.Vec3) bool {
	return almostEqual(a.X, b.X) && almostEqual(a.Y, b.Y) && almostEqual(a.Z, b.Z)
}

// squareConfig looks down -z from the origin through a 2x2 image whose
// viewport spans [-1,1] on the focus plane z=-1.
func squareConfig() Config {
	cfg := DefaultConfig()
	cfg.ImageWidth = 2
	cfg.AspectRatio = 1
	cfg.LookFrom = vectors.New(0, 0, 0)
	cfg.LookAt = vectors.New(0, 0, -1)
	cfg.FocusDist = 1
	cfg.Jitter = false
	return cfg
}

func TestImageHeight(t *testing.T) {
	cases := []struct {
		width  int
		aspect float64
		want   int
	}{
		{400, 16.0 / 9.0, 225},
		{20, 16.0 / 9.0, 11},
		{100, 1, 100},
		{1, 16.0 / 9.0, 1},
	}
	for _, c := range cases {
		cfg := DefaultConfig()
		cfg.ImageWidth = c.width
		cfg.AspectRatio = c.aspect
		if got := NewCamera(cfg).Height(); got != c.want {
			t.Errorf("width %d aspect %v: height = %d, want %d", c.width, c.aspect, got, c.want)
		}
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.ImageWidth != 400 || cfg.SamplesPerPixel != 10 || cfg.MaxDepth != 10 || cfg.VFOV != 90 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if !almostEqual(cfg.AspectRatio, 16.0/9.0) {
		t.Errorf("AspectRatio = %v", cfg.AspectRatio)
	}
	if cfg.LookFrom != vectors.New(0, 0, -1) || cfg.LookAt != vectors.Zero() || cfg.VUp != vectors.New(0, 1, 0) {
		t.Errorf("unexpected default orientation: %+v", cfg)
	}
	if cfg.DefocusAngle != 0 || !cfg.Jitter {
		t.Errorf("unexpected default lens settings: %+v", cfg)
	}
}

func TestCameraBasisIsOrthonormal(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LookFrom = vectors.New(13, 2, 3)
	cfg.LookAt = vectors.New(0, 0, 0)
	c := NewCamera(cfg)

	for name, v := range map[string]vectors.Vec3{"u": c.u, "v": c.v, "w": c.w} {
		if !almostEqual(v.Length(), 1) {
			t.Errorf("|%s| = %v", name, v.Length())
		}
	}
	if !almostEqual(c.u.Dot(c.v), 0) || !almostEqual(c.v.Dot(c.w), 0) || !almostEqual(c.u.Dot(c.w), 0) {
		t.Errorf("basis not orthogonal: u=%v v=%v w=%v", c.u, c.v, c.w)
	}
	if want := cfg.LookFrom.Unit(); !vecEqual(c.w, want) {
		t.Errorf("w = %v, want %v", c.w, want)
	}
}

func TestCameraGeometry(t *testing.T) {
	c := NewCamera(squareConfig())

	if !vecEqual(c.pixelDeltaU, vectors.New(1, 0, 0)) {
		t.Errorf("pixelDeltaU = %v", c.pixelDeltaU)
	}
	if !vecEqual(c.pixelDeltaV, vectors.New(0, -1, 0)) {
		t.Errorf("pixelDeltaV = %v", c.pixelDeltaV)
	}
	if !vecEqual(c.pixel00, vectors.New(-0.5, 0.5, -1)) {
		t.Errorf("pixel00 = %v", c.pixel00)
	}
	if c.defocusU != (vectors.Vec3{}) || c.defocusV != (vectors.Vec3{}) {
		t.Errorf("defocus disk set without a defocus angle")
	}
}

func TestRayThroughPixelCenters(t *testing.T) {
	c := NewCamera(squareConfig())
	rng := rand.New(rand.NewPCG(1, 1))

	cases := []struct {
		i, j int
		want vectors.Vec3
	}{
		{0, 0, vectors.New(-0.5, 0.5, -1)},
		{1, 0, vectors.New(0.5, 0.5, -1)},
		{0, 1, vectors.New(-0.5, -0.5, -1)},
		{1, 1, vectors.New(0.5, -0.5, -1)},
	}
	for _, tc := range cases {
		r := c.Ray(tc.i, tc.j, rng)
		if r.Origin != vectors.Zero() {
			t.Errorf("pixel (%d,%d): origin = %v, want camera center", tc.i, tc.j, r.Origin)
		}
		if !vecEqual(r.Direction, tc.want) {
			t.Errorf("pixel (%d,%d): direction = %v, want %v", tc.i, tc.j, r.Direction, tc.want)
		}
	}
}

func TestRayJitterStaysInPixel(t *testing.T) {
	cfg := squareConfig()
	cfg.Jitter = true
	c := NewCamera(cfg)
	rng := rand.New(rand.NewPCG(2, 3))

	varied := false
	first := c.Ray(0, 0, rng).Direction
	for n := 0; n < 500; n++ {
		d := c.Ray(0, 0, rng).Direction
		if d.X < -1-epsilon || d.X > 0+epsilon || d.Y < 0-epsilon || d.Y > 1+epsilon {
			t.Fatalf("jittered direction %v left pixel (0,0)", d)
		}
		if d != first {
			varied = true
		}
	}
	if !varied {
		t.Error("jitter produced identical rays")
	}
}

func TestRayDefocusDisk(t *testing.T) {
	cfg := squareConfig()
	cfg.DefocusAngle = 10
	cfg.FocusDist = 2
	c := NewCamera(cfg)
	rng := rand.New(rand.NewPCG(4, 5))

	radius := cfg.FocusDist * math.Tan(5*math.Pi/180)
	if !almostEqual(c.defocusU.Length(), radius) || !almostEqual(c.defocusV.Length(), radius) {
		t.Fatalf("defocus radius = %v/%v, want %v", c.defocusU.Length(), c.defocusV.Length(), radius)
	}

	focusPoint := c.pixel00
	moved := false
	for n := 0; n < 500; n++ {
		r := c.Ray(0, 0, rng)
		offset := r.Origin.Sub(c.center)
		if offset.Length() > radius+epsilon {
			t.Fatalf("lens sample %v outside disk of radius %v", r.Origin, radius)
		}
		if !almostEqual(offset.Dot(c.w), 0) {
			t.Fatalf("lens sample %v off the lens plane", r.Origin)
		}
		if offset != (vectors.Vec3{}) {
			moved = true
		}
		// Every lens ray converges on the same point of the focus plane.
		if end := r.At(1); !vecEqual(end, focusPoint) {
			t.Fatalf("ray ends at %v, want %v", end, focusPoint)
		}
	}
	if !moved {
		t.Error("defocus never moved the ray origin")
	}
}
