package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-sky-raytracer/pkg/core"
	"github.com/df07/go-sky-raytracer/pkg/material"
)

func TestHittableList_Empty(t *testing.T) {
	list := NewHittableList()
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	if _, isHit := list.Hit(ray, hitRange); isHit {
		t.Error("Empty list should never report a hit")
	}
}

func TestHittableList_ClosestHit(t *testing.T) {
	near := NewSphere(core.NewVec3(0, 0, -2), 0.5, material.NewLambertian(core.NewVec3(1, 0, 0)))
	far := NewSphere(core.NewVec3(0, 0, -5), 0.5, material.NewLambertian(core.NewVec3(0, 1, 0)))
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	for _, order := range [][]Shape{{near, far}, {far, near}} {
		list := NewHittableList(order...)
		hit, isHit := list.Hit(ray, hitRange)
		if !isHit {
			t.Fatal("Expected hit, but got miss")
		}
		if math.Abs(hit.T-1.5) > 1e-9 {
			t.Errorf("Expected closest hit at t=1.5, got t=%f", hit.T)
		}
		if hit.Material != near.Material {
			t.Error("Expected the near sphere's material")
		}
	}
}

func TestHittableList_MatchesMinimumOfIndividualHits(t *testing.T) {
	sampler := core.NewSeededSampler(42, 0)

	var shapes []Shape
	for i := 0; i < 12; i++ {
		center := core.RandomInUnitCube(sampler).Multiply(4).Add(core.NewVec3(0, 0, -6))
		shapes = append(shapes, NewSphere(center, 0.2+sampler.Get1D(), nil))
	}
	forward := NewHittableList(shapes...)

	reversed := NewHittableList()
	for i := len(shapes) - 1; i >= 0; i-- {
		reversed.Add(shapes[i])
	}

	for i := 0; i < 300; i++ {
		ray := core.NewRay(core.NewVec3(0, 0, 0), core.RandomUnitVector(sampler))

		bestT := math.Inf(1)
		found := false
		for _, shape := range shapes {
			if hit, isHit := shape.Hit(ray, hitRange); isHit && hit.T < bestT {
				bestT = hit.T
				found = true
			}
		}

		for name, list := range map[string]*HittableList{"forward": forward, "reversed": reversed} {
			hit, isHit := list.Hit(ray, hitRange)
			if isHit != found {
				t.Fatalf("%s: hit=%t, expected %t", name, isHit, found)
			}
			if found && hit.T != bestT {
				t.Fatalf("%s: t=%f, expected minimum %f", name, hit.T, bestT)
			}
		}
	}
}

func TestHittableList_TieGoesToFirstShape(t *testing.T) {
	first := material.NewLambertian(core.NewVec3(1, 0, 0))
	second := material.NewLambertian(core.NewVec3(0, 1, 0))
	list := NewHittableList(
		NewSphere(core.NewVec3(0, 0, -1), 0.5, first),
		NewSphere(core.NewVec3(0, 0, -1), 0.5, second),
	)

	hit, isHit := list.Hit(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)), hitRange)
	if !isHit {
		t.Fatal("Expected hit, but got miss")
	}
	if hit.Material != material.Material(first) {
		t.Error("Expected the first shape to win an exact tie")
	}
}

func TestHittableList_AddAndClear(t *testing.T) {
	list := NewHittableList()
	list.Add(NewSphere(core.NewVec3(0, 0, -1), 0.5, nil))
	list.Add(NewSphere(core.NewVec3(0, -100.5, -1), 100, nil))

	if list.Len() != 2 {
		t.Errorf("Expected 2 shapes, got %d", list.Len())
	}

	list.Clear()
	if list.Len() != 0 {
		t.Errorf("Expected empty list after Clear, got %d", list.Len())
	}
}
