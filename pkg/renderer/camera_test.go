package renderer

import (
	"math"
	"testing"

	"github.com/df07/go-sky-raytracer/pkg/core"
)

// fixedSampler returns the same values for every draw
type fixedSampler struct {
	value float64
	pair  core.Vec2
}

func (f fixedSampler) Get1D() float64   { return f.value }
func (f fixedSampler) Get2D() core.Vec2 { return f.pair }
func (f fixedSampler) Get3D() core.Vec3 { return core.NewVec3(f.pair.X, f.pair.Y, f.value) }

// sequenceSampler replays a fixed list of 2D samples
type sequenceSampler struct {
	pairs []core.Vec2
	next  int
}

func (s *sequenceSampler) Get2D() core.Vec2 {
	pair := s.pairs[s.next%len(s.pairs)]
	s.next++
	return pair
}
func (s *sequenceSampler) Get1D() float64 { return s.Get2D().X }
func (s *sequenceSampler) Get3D() core.Vec3 {
	p := s.Get2D()
	return core.NewVec3(p.X, p.Y, 0)
}

// centered draws a zero pixel offset
var centered = fixedSampler{value: 0.5, pair: core.NewVec2(0.5, 0.5)}

func vecNear(a, b core.Vec3, tolerance float64) bool {
	return a.Subtract(b).Length() <= tolerance
}

func TestCameraImageHeight(t *testing.T) {
	tests := []struct {
		name        string
		width       int
		aspectRatio float64
		expected    int
	}{
		{"16:9", 400, 16.0 / 9.0, 225},
		{"square", 100, 1.0, 100},
		{"floored", 10, 3.0, 3},
		{"clamped to one", 1, 16.0 / 9.0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultCameraConfig()
			config.ImageWidth = tt.width
			config.AspectRatio = tt.aspectRatio

			camera := NewCamera(config)
			if camera.ImageHeight() != tt.expected {
				t.Errorf("Expected height %d, got %d", tt.expected, camera.ImageHeight())
			}
			if camera.ImageWidth() != tt.width {
				t.Errorf("Expected width %d, got %d", tt.width, camera.ImageWidth())
			}
		})
	}
}

func TestCameraCenterPixelLooksForward(t *testing.T) {
	config := DefaultCameraConfig()
	config.ImageWidth = 3

	camera := NewCamera(config)
	ray := camera.GetRay(1, 1, centered)

	if ray.Origin != config.LookFrom {
		t.Errorf("Expected origin %v, got %v", config.LookFrom, ray.Origin)
	}
	// Direction reaches the focus plane and is not normalized
	expected := core.NewVec3(0, 0, -config.FocusDistance)
	if !vecNear(ray.Direction, expected, 1e-9) {
		t.Errorf("Expected direction %v, got %v", expected, ray.Direction)
	}
}

func TestCameraPixelLayout(t *testing.T) {
	config := DefaultCameraConfig()
	config.ImageWidth = 4

	camera := NewCamera(config)

	// Row 0 is the top of the image, column 0 its left edge
	topLeft := camera.GetRay(0, 0, centered).Direction
	bottomRight := camera.GetRay(3, 3, centered).Direction

	if !(topLeft.X < 0 && topLeft.Y > 0) {
		t.Errorf("Expected top-left pixel up and to the left, got %v", topLeft)
	}
	if !(bottomRight.X > 0 && bottomRight.Y < 0) {
		t.Errorf("Expected bottom-right pixel down and to the right, got %v", bottomRight)
	}

	// With vfov 90 the viewport half-height equals the focus distance
	corner := core.NewVec3(-10, 10, -10)
	halfPixel := core.NewVec3(2.5, -2.5, 0)
	if !vecNear(topLeft, corner.Add(halfPixel), 1e-9) {
		t.Errorf("Expected top-left pixel center %v, got %v", corner.Add(halfPixel), topLeft)
	}
}

func TestCameraJitterReusesHorizontalOffset(t *testing.T) {
	config := DefaultCameraConfig()
	config.ImageWidth = 10

	camera := NewCamera(config)
	base := camera.GetRay(4, 4, centered).Direction
	jittered := camera.GetRay(4, 4, fixedSampler{pair: core.NewVec2(0.9, 0.1)}).Direction

	// Offset x = 0.4 moves right and down by the same pixel fraction
	delta := jittered.Subtract(base)
	pixel := 20.0 / 10.0
	expected := core.NewVec3(0.4*pixel, -0.4*pixel, 0)
	if !vecNear(delta, expected, 1e-9) {
		t.Errorf("Expected jitter %v along the pixel diagonal, got %v", expected, delta)
	}
}

func TestCameraDefocus(t *testing.T) {
	t.Run("pinhole", func(t *testing.T) {
		config := DefaultCameraConfig()
		camera := NewCamera(config)
		sampler := core.NewSeededSampler(42, 0)

		for i := 0; i < 50; i++ {
			if ray := camera.GetRay(10, 20, sampler); ray.Origin != config.LookFrom {
				t.Fatalf("Expected origin %v without defocus, got %v", config.LookFrom, ray.Origin)
			}
		}
	})

	t.Run("thin lens", func(t *testing.T) {
		config := DefaultCameraConfig()
		config.DefocusAngle = 10.0
		config.FocusDistance = 3.4
		camera := NewCamera(config)
		sampler := core.NewSeededSampler(42, 0)

		radius := config.FocusDistance * math.Tan(5.0*math.Pi/180.0)
		moved := false
		for i := 0; i < 200; i++ {
			ray := camera.GetRay(50, 50, sampler)
			offset := ray.Origin.Subtract(config.LookFrom)
			if offset.Length() >= radius {
				t.Fatalf("Origin %v outside defocus disk of radius %f", ray.Origin, radius)
			}
			if math.Abs(offset.Z) > 1e-12 {
				t.Fatalf("Origin %v left the lens plane", ray.Origin)
			}
			if offset.Length() > 0 {
				moved = true
			}
		}
		if !moved {
			t.Error("Expected origins sampled across the defocus disk")
		}
	})

	t.Run("focus plane is sharp", func(t *testing.T) {
		config := DefaultCameraConfig()
		config.DefocusAngle = 10.0
		camera := NewCamera(config)

		// Rays through the same pixel sample meet at the focus plane
		// wherever they leave the lens
		focusPoint := camera.GetRay(50, 50, centered).At(1)
		lensSamples := []core.Vec2{{X: 0.1, Y: 0.5}, {X: 0.8, Y: 0.3}, {X: 0.5, Y: 0.9}}
		for _, lens := range lensSamples {
			sampler := &sequenceSampler{pairs: []core.Vec2{{X: 0.5, Y: 0.5}, lens}}
			ray := camera.GetRay(50, 50, sampler)
			if ray.Origin == config.LookFrom {
				t.Fatalf("Expected lens sample %v to move the origin", lens)
			}
			if !vecNear(ray.At(1), focusPoint, 1e-9) {
				t.Fatalf("Expected ray to pass through %v, got %v", focusPoint, ray.At(1))
			}
		}
	})
}

func TestCameraInitializeIsIdempotent(t *testing.T) {
	camera := &Camera{config: DefaultCameraConfig()}
	camera.Initialize()
	first := camera.GetRay(3, 7, centered)

	camera.Initialize()
	if second := camera.GetRay(3, 7, centered); second != first {
		t.Errorf("Expected identical rays after re-initialization, got %v and %v", first, second)
	}
}

func TestCameraInvalidConfigPanics(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*CameraConfig)
	}{
		{"zero width", func(c *CameraConfig) { c.ImageWidth = 0 }},
		{"negative samples", func(c *CameraConfig) { c.SamplesPerPixel = -1 }},
		{"zero aspect ratio", func(c *CameraConfig) { c.AspectRatio = 0 }},
		{"negative depth", func(c *CameraConfig) { c.MaxDepth = -2 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultCameraConfig()
			tt.modify(&config)

			if err := config.Validate(); err == nil {
				t.Error("Expected validation error")
			}

			defer func() {
				if recover() == nil {
					t.Error("Expected NewCamera to panic")
				}
			}()
			NewCamera(config)
		})
	}
}

func TestMergeCameraConfig(t *testing.T) {
	base := DefaultCameraConfig()
	merged := MergeCameraConfig(base, CameraConfig{
		ImageWidth: 400,
		LookFrom:   core.NewVec3(-2, 2, 1),
		Seed:       7,
	})

	if merged.ImageWidth != 400 {
		t.Errorf("Expected width 400, got %d", merged.ImageWidth)
	}
	if merged.LookFrom != core.NewVec3(-2, 2, 1) {
		t.Errorf("Expected LookFrom override, got %v", merged.LookFrom)
	}
	if merged.Seed != 7 {
		t.Errorf("Expected seed 7, got %d", merged.Seed)
	}
	if merged.SamplesPerPixel != base.SamplesPerPixel || merged.VFov != base.VFov || merged.LookAt != base.LookAt {
		t.Errorf("Expected zero-valued fields to keep base values, got %+v", merged)
	}
}
