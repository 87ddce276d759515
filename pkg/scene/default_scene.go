package scene

import (
	"github.com/df07/go-sky-raytracer/pkg/core"
	"github.com/df07/go-sky-raytracer/pkg/material"
	"github.com/df07/go-sky-raytracer/pkg/renderer"
)

// defaultCameraConfig frames the default scene from above and to the left
func defaultCameraConfig() renderer.CameraConfig {
	config := renderer.DefaultCameraConfig()
	config.AspectRatio = 16.0 / 9.0
	config.ImageWidth = 400
	config.SamplesPerPixel = 100
	config.MaxDepth = 50
	config.VFov = 20.0
	config.LookFrom = core.NewVec3(-2, 2, 1)
	config.LookAt = core.NewVec3(0, 0, -1)
	config.Up = core.NewVec3(0, 1, 0)
	return config
}

// NewDefaultScene creates the default scene: a ground sphere, a diffuse
// center sphere, a hollow glass sphere and a fuzzy gold sphere
func NewDefaultScene(cameraOverrides ...renderer.CameraConfig) *Scene {
	s := NewScene("default", applyCameraOverrides(defaultCameraConfig(), cameraOverrides))
	addDefaultSpheres(s)
	return s
}

// NewDefocusScene renders the default spheres through a thin lens focused
// on the center sphere
func NewDefocusScene(cameraOverrides ...renderer.CameraConfig) *Scene {
	config := defaultCameraConfig()
	config.DefocusAngle = 10.0
	config.FocusDistance = 3.4

	s := NewScene("defocus", applyCameraOverrides(config, cameraOverrides))
	addDefaultSpheres(s)
	return s
}

// NewEmptyScene creates a scene with no geometry; every pixel sees the sky
func NewEmptyScene(cameraOverrides ...renderer.CameraConfig) *Scene {
	return NewScene("empty", applyCameraOverrides(renderer.DefaultCameraConfig(), cameraOverrides))
}

func addDefaultSpheres(s *Scene) {
	materialGround := material.NewLambertian(core.NewVec3(0.8, 0.8, 0.0))
	materialCenter := material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5))
	materialLeft := material.NewDielectric(1.5)
	materialBubble := material.NewDielectric(1.0 / 1.5)
	materialRight := material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.9)

	s.AddSphere(core.NewVec3(0.0, -100.5, -1.0), 100.0, materialGround)
	s.AddSphere(core.NewVec3(0.0, 0.0, -1.2), 0.5, materialCenter)
	s.AddSphere(core.NewVec3(-1.0, 0.0, -1.0), 0.5, materialLeft)
	s.AddSphere(core.NewVec3(-1.0, 0.0, -1.0), 0.4, materialBubble) // Air bubble inside the glass
	s.AddSphere(core.NewVec3(1.0, 0.0, -1.0), 0.5, materialRight)
}
