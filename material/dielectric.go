package material

import (
	"math"
	"math/rand/v2"

	"github.com/echoflaresat/pathtracer/colors"
	"github.com/echoflaresat/pathtracer/geom"
	"github.com/echoflaresat/pathtracer/vectors"
)

// Dielectric is a clear refractive material such as glass or water.
type Dielectric struct {
	RefractiveIndex float64
}

func NewDielectric(ir float64) Dielectric {
	return Dielectric{RefractiveIndex: ir}
}

// Scatter reflects on total internal reflection or when a uniform draw falls
// below the Schlick reflectance, and refracts otherwise. Glass absorbs nothing.
func (d Dielectric) Scatter(in vectors.Ray, hit geom.HitRecord, rng *rand.Rand) (colors.Color, vectors.Ray, bool) {
	ratio := d.RefractiveIndex
	if hit.FrontFace {
		ratio = 1.0 / d.RefractiveIndex
	}

	unitDirection := in.Direction.Unit()
	cosTheta := math.Min(unitDirection.Neg().Dot(hit.Normal), 1.0)

	var direction vectors.Vec3
	if cannotRefract(ratio, cosTheta) || reflectance(cosTheta, d.RefractiveIndex) > rng.Float64() {
		direction = unitDirection.Reflect(hit.Normal)
	} else {
		direction = unitDirection.Refract(hit.Normal, ratio)
	}
	return colors.White(), vectors.NewRay(hit.Point, direction), true
}

// cannotRefract reports total internal reflection under Snell's law.
func cannotRefract(ratio, cosTheta float64) bool {
	sinTheta := math.Sqrt(1.0 - cosTheta*cosTheta)
	return ratio*sinTheta > 1.0
}

// reflectance is Schlick's approximation of the Fresnel term.
func reflectance(cosine, ir float64) float64 {
	r0 := (1 - ir) / (1 + ir)
	r0 = r0 * r0
	return r0 + (1-r0)*math.Pow(1-cosine, 5)
}
