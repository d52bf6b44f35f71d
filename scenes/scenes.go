package scenes

import (
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/echoflaresat/pathtracer/colors"
	"github.com/echoflaresat/pathtracer/geom"
	"github.com/echoflaresat/pathtracer/material"
	"github.com/echoflaresat/pathtracer/render"
	"github.com/echoflaresat/pathtracer/vectors"
)

// Scene is a populated world plus the camera it was composed for.
type Scene struct {
	World  *geom.List
	Camera render.Config
}

type builder func(seed uint64) Scene

var registry = map[string]builder{
	"basic":     Basic,
	"materials": Materials,
	"final":     Final,
}

// Names lists the built-in scenes in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build constructs the named scene. seed only affects procedurally placed
// geometry.
func Build(name string, seed uint64) (Scene, error) {
	b, ok := registry[name]
	if !ok {
		return Scene{}, fmt.Errorf("unknown scene %q (available: %v)", name, Names())
	}
	return b(seed), nil
}

// Basic is a single diffuse sphere resting on a large ground sphere.
func Basic(uint64) Scene {
	ground := material.NewLambertian(colors.New(0.5, 0.5, 0.5))
	center := material.NewLambertian(colors.New(0.1, 0.2, 0.5))

	world := geom.NewList(
		geom.NewSphere(vectors.New(0, 0, -1), 0.5, center),
		geom.NewSphere(vectors.New(0, -100.5, -1), 100, ground),
	)

	cfg := render.DefaultConfig()
	cfg.LookFrom = vectors.New(0, 0, 0)
	cfg.LookAt = vectors.New(0, 0, -1)
	cfg.FocusDist = 1
	return Scene{World: world, Camera: cfg}
}

// Materials shows one sphere of each material: diffuse in the middle, a
// hollow glass bubble on the left and fuzzed metal on the right.
func Materials(uint64) Scene {
	ground := material.NewLambertian(colors.New(0.8, 0.8, 0.0))
	center := material.NewLambertian(colors.New(0.1, 0.2, 0.5))
	glass := material.NewDielectric(1.5)
	metal := material.NewMetal(colors.New(0.8, 0.6, 0.2), 0.3)

	world := geom.NewList(
		geom.NewSphere(vectors.New(0, -100.5, -1), 100, ground),
		geom.NewSphere(vectors.New(0, 0, -1), 0.5, center),
		geom.NewSphere(vectors.New(-1, 0, -1), 0.5, glass),
		geom.NewSphere(vectors.New(-1, 0, -1), -0.4, glass),
		geom.NewSphere(vectors.New(1, 0, -1), 0.5, metal),
	)

	cfg := render.DefaultConfig()
	cfg.VFOV = 20
	cfg.LookFrom = vectors.New(-2, 2, 1)
	cfg.LookAt = vectors.New(0, 0, -1)
	cfg.DefocusAngle = 10
	cfg.FocusDist = 3.4
	return Scene{World: world, Camera: cfg}
}

// Final scatters small random spheres around three large ones.
func Final(seed uint64) Scene {
	rng := rand.New(rand.NewPCG(seed, 0x5eed))
	world := geom.NewList()

	world.Add(geom.NewSphere(vectors.New(0, -1000, 0), 1000, material.NewLambertian(colors.New(0.5, 0.5, 0.5))))

	for a := -11; a < 11; a++ {
		for b := -11; b < 11; b++ {
			chooseMat := rng.Float64()
			center := vectors.New(float64(a)+0.9*rng.Float64(), 0.2, float64(b)+0.9*rng.Float64())
			if vectors.Distance(center, vectors.New(4, 0.2, 0)) <= 0.9 {
				continue
			}

			var mat geom.Material
			switch {
			case chooseMat < 0.8:
				albedo := vectors.Random(rng).Mul(vectors.Random(rng))
				mat = material.NewLambertian(albedo)
			case chooseMat < 0.95:
				albedo := vectors.RandomIn(rng, vectors.NewInterval(0.5, 1))
				fuzz := vectors.RandomFloat(rng, vectors.NewInterval(0, 0.5))
				mat = material.NewMetal(albedo, fuzz)
			default:
				mat = material.NewDielectric(1.5)
			}
			world.Add(geom.NewSphere(center, 0.2, mat))
		}
	}

	world.Add(geom.NewSphere(vectors.New(0, 1, 0), 1.0, material.NewDielectric(1.5)))
	world.Add(geom.NewSphere(vectors.New(-4, 1, 0), 1.0, material.NewLambertian(colors.New(0.4, 0.2, 0.1))))
	world.Add(geom.NewSphere(vectors.New(4, 1, 0), 1.0, material.NewMetal(colors.New(0.7, 0.6, 0.5), 0.0)))

	cfg := render.DefaultConfig()
	cfg.ImageWidth = 1200
	cfg.SamplesPerPixel = 500
	cfg.MaxDepth = 50
	cfg.VFOV = 20
	cfg.LookFrom = vectors.New(13, 2, 3)
	cfg.LookAt = vectors.New(0, 0, 0)
	cfg.DefocusAngle = 0.6
	cfg.FocusDist = 10.0
	return Scene{World: world, Camera: cfg}
}
