package material

import (
	"testing"

	"github.com/df07/go-sky-raytracer/pkg/core"
)

func TestHitRecord_SetFaceNormal(t *testing.T) {
	outward := core.NewVec3(0, 0, 1)

	tests := []struct {
		name           string
		direction      core.Vec3
		expectedFront  bool
		expectedNormal core.Vec3
	}{
		{"ray opposes normal", core.NewVec3(0, 0, -1), true, outward},
		{"ray along normal", core.NewVec3(0, 0, 1), false, outward.Negate()},
		{"oblique from outside", core.NewVec3(3, 1, -0.5), true, outward},
		{"tangent counts as back face", core.NewVec3(1, 0, 0), false, outward.Negate()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var hit HitRecord
			hit.SetFaceNormal(core.NewRay(core.NewVec3(0, 0, 0), tt.direction), outward)

			if hit.FrontFace != tt.expectedFront {
				t.Errorf("Expected front face %t, got %t", tt.expectedFront, hit.FrontFace)
			}
			if hit.Normal != tt.expectedNormal {
				t.Errorf("Expected normal %v, got %v", tt.expectedNormal, hit.Normal)
			}
		})
	}
}

func TestHitRecord_SetFaceNormalPanicsOnNonUnitNormal(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Expected panic for non-unit outward normal")
		}
	}()

	var hit HitRecord
	hit.SetFaceNormal(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)), core.NewVec3(0, 0, 2))
}
