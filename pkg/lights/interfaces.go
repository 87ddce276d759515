package lights

import "github.com/df07/go-sky-raytracer/pkg/core"

// Background supplies the radiance seen by rays that escape the scene.
// It is the only light source: surfaces do not emit.
type Background interface {
	// Emit evaluates the background radiance in the direction of the given ray
	Emit(ray core.Ray) core.Vec3
}
