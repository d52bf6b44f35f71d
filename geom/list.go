package geom

import "github.com/echoflaresat/pathtracer/vectors"

// List is an ordered scene aggregate. Hit returns the globally nearest
// intersection regardless of insertion order.
type List struct {
	Objects []Hittable
}

func NewList(objects ...Hittable) *List {
	return &List{Objects: objects}
}

func (l *List) Add(obj Hittable) {
	l.Objects = append(l.Objects, obj)
}

func (l *List) Clear() {
	l.Objects = nil
}

func (l *List) Len() int {
	return len(l.Objects)
}

// Hit tests every object, shrinking the upper bound to the closest hit so
// far so later objects cannot report anything farther away.
func (l *List) Hit(r vectors.Ray, rayT vectors.Interval) (HitRecord, bool) {
	var closest HitRecord
	hitAnything := false
	closestSoFar := rayT.Max

	for _, obj := range l.Objects {
		if rec, ok := obj.Hit(r, vectors.Interval{Min: rayT.Min, Max: closestSoFar}); ok {
			hitAnything = true
			closestSoFar = rec.T
			closest = rec
		}
	}
	return closest, hitAnything
}
