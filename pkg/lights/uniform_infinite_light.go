package lights

import (
	"github.com/df07/go-sky-raytracer/pkg/core"
)

// UniformInfiniteLight is a background with constant emission in all directions
type UniformInfiniteLight struct {
	Emission core.Vec3
}

// NewUniformInfiniteLight creates a new uniform infinite light
func NewUniformInfiniteLight(emission core.Vec3) *UniformInfiniteLight {
	return &UniformInfiniteLight{Emission: emission}
}

// Emit implements Background
func (uil *UniformInfiniteLight) Emit(ray core.Ray) core.Vec3 {
	return uil.Emission
}
