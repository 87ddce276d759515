package scene

import (
	"fmt"
	"sort"

	"github.com/df07/go-sky-raytracer/pkg/core"
	"github.com/df07/go-sky-raytracer/pkg/geometry"
	"github.com/df07/go-sky-raytracer/pkg/lights"
	"github.com/df07/go-sky-raytracer/pkg/material"
	"github.com/df07/go-sky-raytracer/pkg/renderer"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Name         string
	World        *geometry.HittableList // Objects in the scene
	CameraConfig renderer.CameraConfig
	Background   lights.Background // Light seen by rays that leave the scene
}

// NewScene creates an empty scene lit by the default sky
func NewScene(name string, cameraConfig renderer.CameraConfig) *Scene {
	return &Scene{
		Name:         name,
		World:        geometry.NewHittableList(),
		CameraConfig: cameraConfig,
		Background:   lights.NewSky(),
	}
}

// AddSphere adds a sphere to the scene and returns it
func (s *Scene) AddSphere(center core.Vec3, radius float64, mat material.Material) *geometry.Sphere {
	sphere := geometry.NewSphere(center, radius, mat)
	s.World.Add(sphere)
	return sphere
}

// GetWorld returns the scene geometry
func (s *Scene) GetWorld() geometry.Shape { return s.World }

// GetCameraConfig returns the camera configuration
func (s *Scene) GetCameraConfig() renderer.CameraConfig { return s.CameraConfig }

// GetBackground returns the background light
func (s *Scene) GetBackground() lights.Background { return s.Background }

// applyCameraOverrides merges the first override, if any, onto defaults
func applyCameraOverrides(defaults renderer.CameraConfig, cameraOverrides []renderer.CameraConfig) renderer.CameraConfig {
	if len(cameraOverrides) > 0 {
		return renderer.MergeCameraConfig(defaults, cameraOverrides[0])
	}
	return defaults
}

// Builder creates a built-in scene
type Builder func(cameraOverrides ...renderer.CameraConfig) *Scene

// builtIns maps scene names to their builders
var builtIns = map[string]Builder{
	"default":    NewDefaultScene,
	"defocus":    NewDefocusScene,
	"spheregrid": NewSphereGridScene,
	"empty":      NewEmptyScene,
}

// Names returns the names of the built-in scenes in sorted order
func Names() []string {
	names := make([]string, 0, len(builtIns))
	for name := range builtIns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Create builds the named built-in scene
func Create(name string, cameraOverrides ...renderer.CameraConfig) (*Scene, error) {
	build, ok := builtIns[name]
	if !ok {
		return nil, fmt.Errorf("unknown scene %q (available: %v)", name, Names())
	}
	return build(cameraOverrides...), nil
}

// Load builds a scene from a JSON scene file
func Load(path string, cameraOverrides ...renderer.CameraConfig) (*Scene, error) {
	return NewJSONScene(path, cameraOverrides...)
}
