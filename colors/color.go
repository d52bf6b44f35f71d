package colors

import (
	"image/color"
	"math"

	"github.com/echoflaresat/pathtracer/vectors"
)

// Color is a linear RGB triple stored in a Vec3 (X=R, Y=G, Z=B).
type Color = vectors.Vec3

// Intensity is the range channels are clamped to before quantization.
var Intensity = vectors.Interval{Min: 0.000, Max: 0.999}

func New(r, g, b float64) Color {
	return Color{X: r, Y: g, Z: b}
}

func White() Color {
	return Color{X: 1, Y: 1, Z: 1}
}

func Black() Color {
	return Color{X: 0, Y: 0, Z: 0}
}

func SkyBlue() Color {
	return Color{X: 0.5, Y: 0.7, Z: 1.0}
}

// Mix returns lerp(c, o, t) = c*(1-t) + o*t.
func Mix(c, o Color, t float64) Color {
	return c.Lerp(o, t)
}

// LinearToGamma applies gamma 2.0. Non-positive and NaN inputs map to 0.
func LinearToGamma(linear float64) float64 {
	if linear > 0 {
		return math.Sqrt(linear)
	}
	return 0
}

// Average divides an accumulated sample sum by the sample count.
func Average(sum Color, samples int) Color {
	if samples <= 0 {
		return Black()
	}
	return sum.Div(float64(samples))
}

// Encode averages sum over samples, gamma-corrects, clamps to Intensity and
// quantizes each channel to 8 bits by scaling with 256 and truncating.
func Encode(sum Color, samples int) color.NRGBA {
	c := Average(sum, samples)
	return color.NRGBA{
		R: to8bit(c.X),
		G: to8bit(c.Y),
		B: to8bit(c.Z),
		A: 255,
	}
}

// to8bit truncates toward zero. NaN fails the positivity test in
// LinearToGamma and encodes as 0.
func to8bit(linear float64) uint8 {
	return uint8(256 * Intensity.Clamp(LinearToGamma(linear)))
}
