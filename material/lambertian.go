package material

import (
	"math/rand/v2"

	"github.com/echoflaresat/pathtracer/colors"
	"github.com/echoflaresat/pathtracer/geom"
	"github.com/echoflaresat/pathtracer/vectors"
)

// Lambertian is an ideal diffuse surface.
type Lambertian struct {
	Albedo colors.Color
}

func NewLambertian(albedo colors.Color) Lambertian {
	return Lambertian{Albedo: albedo}
}

// Scatter sends the ray along normal + a random unit vector, which gives a
// cosine-weighted distribution. It always scatters.
func (l Lambertian) Scatter(_ vectors.Ray, hit geom.HitRecord, rng *rand.Rand) (colors.Color, vectors.Ray, bool) {
	direction := hit.Normal.Add(vectors.RandomUnitVector(rng))

	// The random vector can cancel the normal almost exactly.
	if direction.NearZero() {
		direction = hit.Normal
	}
	return l.Albedo, vectors.NewRay(hit.Point, direction), true
}
