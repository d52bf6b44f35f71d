package vectors

import "math"

// Interval is a numeric range [Min, Max]. Min <= Max is expected but not enforced.
type Interval struct {
	Min, Max float64
}

var (
	Empty    = Interval{Min: math.Inf(1), Max: math.Inf(-1)}
	Universe = Interval{Min: math.Inf(-1), Max: math.Inf(1)}
)

func NewInterval(min, max float64) Interval {
	return Interval{Min: min, Max: max}
}

func (i Interval) Size() float64 {
	return i.Max - i.Min
}

// Contains reports min <= x <= max.
func (i Interval) Contains(x float64) bool {
	return i.Min <= x && x <= i.Max
}

// Surrounds reports min < x < max.
func (i Interval) Surrounds(x float64) bool {
	return i.Min < x && x < i.Max
}

// Clamp saturates x into [Min, Max].
func (i Interval) Clamp(x float64) float64 {
	if x < i.Min {
		return i.Min
	}
	if x > i.Max {
		return i.Max
	}
	return x
}
