package lights

import (
	"github.com/df07/go-sky-raytracer/pkg/core"
)

// GradientInfiniteLight is a procedural sky: a vertical blend between a
// bottom (horizon) color and a top (zenith) color
type GradientInfiniteLight struct {
	TopColor    core.Vec3 // Color looking straight up
	BottomColor core.Vec3 // Color looking straight down
}

// NewGradientInfiniteLight creates a new gradient infinite light
func NewGradientInfiniteLight(topColor, bottomColor core.Vec3) *GradientInfiniteLight {
	return &GradientInfiniteLight{
		TopColor:    topColor,
		BottomColor: bottomColor,
	}
}

// NewSky returns the default white-to-blue sky
func NewSky() *GradientInfiniteLight {
	return NewGradientInfiniteLight(
		core.NewVec3(0.5, 0.7, 1.0), // topColor (blue sky)
		core.NewVec3(1.0, 1.0, 1.0), // bottomColor (white)
	)
}

// Emit implements Background. The blend depends only on the vertical
// component of the ray direction.
func (gil *GradientInfiniteLight) Emit(ray core.Ray) core.Vec3 {
	direction := ray.Direction.Normalize()
	a := 0.5 * (direction.Y + 1.0) // Map Y from [-1,1] to [0,1]
	return gil.BottomColor.Multiply(1.0 - a).Add(gil.TopColor.Multiply(a))
}
