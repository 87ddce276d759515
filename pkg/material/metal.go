package material

import (
	"github.com/df07/go-sky-raytracer/pkg/core"
)

// Metal represents a metallic material with specular reflection
type Metal struct {
	Albedo core.Vec3 // Metal color
	Fuzz   float64   // 0.0 = perfect mirror; conventionally at most 1.0
}

// NewMetal creates a new metal material. Fuzz is stored as given.
func NewMetal(albedo core.Vec3, fuzz float64) *Metal {
	return &Metal{Albedo: albedo, Fuzz: fuzz}
}

// Scatter implements the Material interface for metal scattering
func (m *Metal) Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	reflected := reflect(rayIn.Direction, hit.Normal).Normalize()
	reflected = reflected.Add(core.RandomUnitVector(sampler).Multiply(m.Fuzz))

	scattered := core.NewRay(hit.Point, reflected)

	// Fuzz can push the ray below the surface, which absorbs it
	scatters := scattered.Direction.Dot(hit.Normal) > 0

	return ScatterResult{
		Scattered:   scattered,
		Attenuation: m.Albedo,
	}, scatters
}
