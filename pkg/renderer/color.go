package renderer

import (
	"image/color"
	"math"

	"github.com/df07/go-sky-raytracer/pkg/core"
)

// intensity is the range a gamma-corrected channel is clamped to before quantization
var intensity = core.NewInterval(0.000, 0.999)

// LinearToGamma applies gamma-2 correction. Non-positive (and NaN) values map to 0.
func LinearToGamma(linear float64) float64 {
	if linear > 0 {
		return math.Sqrt(linear)
	}
	return 0
}

// QuantizeChannel converts a linear channel value to an 8-bit integer in [0, 255]
func QuantizeChannel(linear float64) uint8 {
	return uint8(256 * intensity.Clamp(LinearToGamma(linear)))
}

// ToRGBA converts a linear color to an opaque 8-bit RGBA pixel
func ToRGBA(c core.Vec3) color.RGBA {
	return color.RGBA{
		R: QuantizeChannel(c.X),
		G: QuantizeChannel(c.Y),
		B: QuantizeChannel(c.Z),
		A: 255,
	}
}
