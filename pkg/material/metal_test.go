package material

import (
	"testing"

	"github.com/df07/go-sky-raytracer/pkg/core"
)

func TestNewMetal_KeepsFuzz(t *testing.T) {
	albedo := core.NewVec3(0.8, 0.8, 0.8)
	for _, fuzz := range []float64{0.0, 0.5, 1.0, 1.5} {
		metal := NewMetal(albedo, fuzz)
		if metal.Fuzz != fuzz {
			t.Errorf("Expected fuzz %f, got %f", fuzz, metal.Fuzz)
		}
	}
}

func TestMetal_PerfectReflection(t *testing.T) {
	albedo := core.NewVec3(0.9, 0.9, 0.9)
	metal := NewMetal(albedo, 0.0)
	sampler := core.NewSeededSampler(42, 0)

	// Ray hitting surface at 45 degrees
	rayIn := core.NewRay(core.NewVec3(0, 1, 1), core.NewVec3(0, -1, -1))
	hit := HitRecord{
		Point:     core.NewVec3(0, 0, 0),
		Normal:    core.NewVec3(0, 0, 1),
		FrontFace: true,
	}

	scatter, didScatter := metal.Scatter(rayIn, hit, sampler)
	if !didScatter {
		t.Fatal("Metal should scatter")
	}

	expected := core.NewVec3(0, -1, 1).Normalize()
	actual := scatter.Scattered.Direction

	tolerance := 1e-10
	if actual.Subtract(expected).Length() > tolerance {
		t.Errorf("Perfect reflection failed: expected %v, got %v", expected, actual)
	}
	if scatter.Attenuation != albedo {
		t.Errorf("Attenuation should equal albedo: expected %v, got %v", albedo, scatter.Attenuation)
	}
}

func TestMetal_ZeroFuzzAlwaysReflectsOutward(t *testing.T) {
	metal := NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.0)
	sampler := core.NewSeededSampler(1, 2)
	normal := core.NewVec3(0, 1, 0)
	hit := HitRecord{Point: core.NewVec3(0, 0, 0), Normal: normal, FrontFace: true}

	for i := 0; i < 500; i++ {
		// Any direction coming from above the surface
		d := core.RandomUnitVector(sampler)
		if d.Dot(normal) >= 0 {
			d = d.Negate()
		}
		if d.Dot(normal) == 0 {
			continue
		}

		scatter, didScatter := metal.Scatter(core.NewRay(d.Negate(), d), hit, sampler)
		if !didScatter {
			t.Fatalf("Zero-fuzz metal absorbed an incoming ray %v", d)
		}
		if scatter.Scattered.Direction.Dot(normal) <= 0 {
			t.Fatalf("Reflection of %v should point outward, got %v", d, scatter.Scattered.Direction)
		}
	}
}

func TestMetal_FuzzCanAbsorb(t *testing.T) {
	metal := NewMetal(core.NewVec3(0.8, 0.8, 0.8), 1.0)
	normal := core.NewVec3(0, 0, 1)
	hit := HitRecord{Point: core.NewVec3(0, 0, 0), Normal: normal, FrontFace: true}

	// Grazing incidence: the reflection sits just above the surface
	rayIn := core.NewRay(core.NewVec3(-1, 0, 0.01), core.NewVec3(1, 0, -0.01))

	// Sample (1, 0) perturbs the reflection straight down by the full fuzz
	scatter, didScatter := metal.Scatter(rayIn, hit, fixedSampler{pair: core.NewVec2(1, 0)})
	if didScatter {
		t.Errorf("Expected absorption, got scattered direction %v", scatter.Scattered.Direction)
	}
}

func TestMetal_FuzzyReflection(t *testing.T) {
	metal := NewMetal(core.NewVec3(0.8, 0.8, 0.8), 0.5)
	sampler := core.NewSeededSampler(42, 0)

	rayIn := core.NewRay(core.NewVec3(0, 0, 1), core.NewVec3(0, 0, -1))
	hit := HitRecord{
		Point:     core.NewVec3(0, 0, 0),
		Normal:    core.NewVec3(0, 0, 1),
		FrontFace: true,
	}

	perfect := core.NewVec3(0, 0, 1)
	for i := 0; i < 100; i++ {
		scatter, didScatter := metal.Scatter(rayIn, hit, sampler)
		if !didScatter {
			t.Fatal("Head-on ray with fuzz 0.5 should never be absorbed")
		}
		deviation := scatter.Scattered.Direction.Subtract(perfect).Length()
		if deviation > 0.5+1e-9 {
			t.Errorf("Deviation %f exceeds fuzz radius", deviation)
		}
	}
}
