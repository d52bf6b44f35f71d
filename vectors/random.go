package vectors

import "math/rand/v2"

var unitRange = Interval{Min: -1, Max: 1}

// RandomFloat returns a uniform value in [i.Min, i.Max).
func RandomFloat(rng *rand.Rand, i Interval) float64 {
	return i.Min + i.Size()*rng.Float64()
}

// Random returns a vector with components uniform in [0,1).
func Random(rng *rand.Rand) Vec3 {
	return Vec3{rng.Float64(), rng.Float64(), rng.Float64()}
}

// RandomIn returns a vector with components uniform in i.
func RandomIn(rng *rand.Rand, i Interval) Vec3 {
	return Vec3{RandomFloat(rng, i), RandomFloat(rng, i), RandomFloat(rng, i)}
}

// RandomInUnitDisk rejection-samples a point with z=0 and x²+y² < 1.
func RandomInUnitDisk(rng *rand.Rand) Vec3 {
	for {
		p := Vec3{RandomFloat(rng, unitRange), RandomFloat(rng, unitRange), 0}
		if p.LengthSquared() < 1 {
			return p
		}
	}
}

// RandomInUnitSphere rejection-samples a point strictly inside the unit sphere.
func RandomInUnitSphere(rng *rand.Rand) Vec3 {
	for {
		p := RandomIn(rng, unitRange)
		if p.LengthSquared() < 1 {
			return p
		}
	}
}

// RandomUnitVector returns a uniformly distributed direction.
func RandomUnitVector(rng *rand.Rand) Vec3 {
	return RandomInUnitSphere(rng).Unit()
}

// RandomOnHemisphere returns a unit vector in the hemisphere around normal.
func RandomOnHemisphere(rng *rand.Rand, normal Vec3) Vec3 {
	v := RandomUnitVector(rng)
	if v.Dot(normal) > 0 {
		return v
	}
	return v.Neg()
}
