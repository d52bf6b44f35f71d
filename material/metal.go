package material

import (
	"fmt"
	"math/rand/v2"

	"github.com/echoflaresat/pathtracer/colors"
	"github.com/echoflaresat/pathtracer/geom"
	"github.com/echoflaresat/pathtracer/vectors"
)

// Metal is a specular reflector. Fuzz in [0,1] blurs the reflection.
type Metal struct {
	Albedo colors.Color
	Fuzz   float64
}

// NewMetal panics if fuzz lies outside [0,1].
func NewMetal(albedo colors.Color, fuzz float64) Metal {
	if fuzz < 0 || fuzz > 1 {
		panic(fmt.Sprintf("material: metal fuzz %v outside [0,1]", fuzz))
	}
	return Metal{Albedo: albedo, Fuzz: fuzz}
}

// Scatter reflects the incoming direction and perturbs it by Fuzz. Rays
// perturbed below the surface are still returned.
func (m Metal) Scatter(in vectors.Ray, hit geom.HitRecord, rng *rand.Rand) (colors.Color, vectors.Ray, bool) {
	reflected := in.Direction.Unit().Reflect(hit.Normal)
	if m.Fuzz > 0 {
		reflected = reflected.Add(vectors.RandomUnitVector(rng).Scale(m.Fuzz))
	}
	return m.Albedo, vectors.NewRay(hit.Point, reflected), true
}
