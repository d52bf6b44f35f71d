package geom

import (
	"math/rand/v2"

	"github.com/echoflaresat/pathtracer/colors"
	"github.com/echoflaresat/pathtracer/vectors"
)

// Material decides how a ray that reached a surface continues.
// ok=false means the ray is absorbed.
type Material interface {
	Scatter(in vectors.Ray, hit HitRecord, rng *rand.Rand) (attenuation colors.Color, scattered vectors.Ray, ok bool)
}

// HitRecord describes the nearest intersection of a ray with geometry.
type HitRecord struct {
	Point     vectors.Point3
	Normal    vectors.Vec3 // unit length, facing against the incoming ray
	Material  Material
	T         float64
	FrontFace bool
}

// SetFaceNormal stores outwardNormal oriented against r and records which
// side of the surface was hit. outwardNormal must be unit length.
func (h *HitRecord) SetFaceNormal(r vectors.Ray, outwardNormal vectors.Vec3) {
	h.FrontFace = r.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Neg()
	}
}

// Hittable is implemented by anything a ray can intersect. Hit returns the
// nearest intersection with parameter strictly inside rayT.
type Hittable interface {
	Hit(r vectors.Ray, rayT vectors.Interval) (HitRecord, bool)
}
