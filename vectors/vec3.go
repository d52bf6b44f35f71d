package vectors

import "math"

// Vec3 is a simple 3D vector with float64 components.
type Vec3 struct {
	X, Y, Z float64
}

// Point3 is a position in world space.
type Point3 = Vec3

func New(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

func Zero() Vec3 {
	return Vec3{X: 0.0, Y: 0.0, Z: 0.0}
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Mul returns the component-wise product of v and o.
func (v Vec3) Mul(o Vec3) Vec3 {
	return Vec3{v.X * o.X, v.Y * o.Y, v.Z * o.Z}
}

// Scale returns v * s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Div returns v / s.
func (v Vec3) Div(s float64) Vec3 {
	return v.Scale(1.0 / s)
}

func (v Vec3) Neg() Vec3 {
	return Vec3{-v.X, -v.Y, -v.Z}
}

// Dot returns the dot product v · o.
func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Cross returns the cross product v × o.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

func (v Vec3) LengthSquared() float64 {
	return v.Dot(v)
}

// Length returns the Euclidean length ||v||.
func (v Vec3) Length() float64 {
	return math.Sqrt(v.LengthSquared())
}

// Unit returns v / ||v||. A zero vector yields NaN components; callers
// must not normalize degenerate vectors.
func (v Vec3) Unit() Vec3 {
	return v.Div(v.Length())
}

// NearZero reports whether every component is below 1e-8 in magnitude.
func (v Vec3) NearZero() bool {
	const s = 1e-8
	return math.Abs(v.X) < s && math.Abs(v.Y) < s && math.Abs(v.Z) < s
}

// Reflect mirrors v about the unit normal n: v - 2(v·n)n.
func (v Vec3) Reflect(n Vec3) Vec3 {
	return v.Sub(n.Scale(2 * v.Dot(n)))
}

// Refract bends the unit vector v through a surface with unit normal n,
// where etaRatio is the ratio of refractive indices (incident over transmitted).
func (v Vec3) Refract(n Vec3, etaRatio float64) Vec3 {
	cosTheta := math.Min(v.Neg().Dot(n), 1.0)
	perp := v.Add(n.Scale(cosTheta)).Scale(etaRatio)
	parallel := n.Scale(-math.Sqrt(math.Abs(1.0 - perp.LengthSquared())))
	return perp.Add(parallel)
}

// Lerp returns v*(1-t) + o*t.
func (v Vec3) Lerp(o Vec3, t float64) Vec3 {
	return v.Scale(1.0 - t).Add(o.Scale(t))
}

// Sum adds all vectors in order.
func Sum(vs ...Vec3) Vec3 {
	var out Vec3
	for _, v := range vs {
		out = out.Add(v)
	}
	return out
}

func Distance(v1, v2 Vec3) float64 {
	return v1.Sub(v2).Length()
}
