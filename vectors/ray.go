package vectors

// Ray is a half-line starting at Origin and extending along Direction.
type Ray struct {
	Origin    Point3
	Direction Vec3
}

func NewRay(origin Point3, direction Vec3) Ray {
	return Ray{Origin: origin, Direction: direction}
}

// At returns Origin + t*Direction. t is not validated.
func (r Ray) At(t float64) Point3 {
	return r.Origin.Add(r.Direction.Scale(t))
}
