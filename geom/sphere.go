package geom

import (
	"math"

	"github.com/echoflaresat/pathtracer/vectors"
)

// Sphere is a closed-form sphere primitive. A negative Radius flips the
// outward normal, which models the inner wall of a hollow shell.
type Sphere struct {
	Center   vectors.Point3
	Radius   float64
	Material Material
}

func NewSphere(center vectors.Point3, radius float64, mat Material) Sphere {
	return Sphere{Center: center, Radius: radius, Material: mat}
}

// Hit solves |r.At(t) - center|² = radius² with the half-b form of the
// quadratic and accepts the nearest root that rayT surrounds.
func (s Sphere) Hit(r vectors.Ray, rayT vectors.Interval) (HitRecord, bool) {
	oc := r.Origin.Sub(s.Center)
	a := r.Direction.LengthSquared()
	halfB := oc.Dot(r.Direction)
	c := oc.LengthSquared() - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return HitRecord{}, false
	}
	sqrtD := math.Sqrt(discriminant)

	root := (-halfB - sqrtD) / a
	if !rayT.Surrounds(root) {
		root = (-halfB + sqrtD) / a
		if !rayT.Surrounds(root) {
			return HitRecord{}, false
		}
	}

	rec := HitRecord{
		T:        root,
		Point:    r.At(root),
		Material: s.Material,
	}
	outwardNormal := rec.Point.Sub(s.Center).Div(s.Radius)
	rec.SetFaceNormal(r, outwardNormal)
	return rec, true
}
