package scene

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/df07/go-sky-raytracer/pkg/lights"
	"github.com/df07/go-sky-raytracer/pkg/loaders"
	"github.com/df07/go-sky-raytracer/pkg/material"
	"github.com/df07/go-sky-raytracer/pkg/renderer"
)

// NewJSONScene creates a scene from a JSON scene file
func NewJSONScene(filename string, cameraOverrides ...renderer.CameraConfig) (*Scene, error) {
	sceneFile, err := loaders.LoadSceneFile(filename)
	if err != nil {
		return nil, err
	}

	name := sceneFile.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	}

	s, err := NewSceneFromFile(name, sceneFile, cameraOverrides...)
	if err != nil {
		return nil, fmt.Errorf("failed to build scene from %s: %w", filename, err)
	}
	return s, nil
}

// NewSceneFromFile converts parsed scene file data into a scene
func NewSceneFromFile(name string, sceneFile *loaders.SceneFile, cameraOverrides ...renderer.CameraConfig) (*Scene, error) {
	cameraConfig := cameraConfigFromSpec(renderer.DefaultCameraConfig(), sceneFile.Camera)
	s := NewScene(name, applyCameraOverrides(cameraConfig, cameraOverrides))

	if sceneFile.Background != nil {
		s.Background = backgroundFromSpec(*sceneFile.Background)
	}

	materials := make(map[string]material.Material, len(sceneFile.Materials))
	for materialName, spec := range sceneFile.Materials {
		mat, err := materialFromSpec(spec)
		if err != nil {
			return nil, fmt.Errorf("material %q: %w", materialName, err)
		}
		materials[materialName] = mat
	}

	for i, sphere := range sceneFile.Spheres {
		mat, ok := materials[sphere.Material]
		if !ok {
			return nil, fmt.Errorf("sphere %d: undefined material %q", i, sphere.Material)
		}
		s.AddSphere(sphere.Center.Vec3(), sphere.Radius, mat)
	}

	return s, nil
}

// cameraConfigFromSpec applies every field present in the file to base,
// including explicit zeros such as a look-at point at the origin
func cameraConfigFromSpec(base renderer.CameraConfig, spec loaders.CameraSpec) renderer.CameraConfig {
	config := base
	setIfPresent(&config.AspectRatio, spec.AspectRatio)
	setIfPresent(&config.ImageWidth, spec.ImageWidth)
	setIfPresent(&config.SamplesPerPixel, spec.SamplesPerPixel)
	setIfPresent(&config.MaxDepth, spec.MaxDepth)
	setIfPresent(&config.VFov, spec.VFov)
	setIfPresent(&config.DefocusAngle, spec.DefocusAngle)
	setIfPresent(&config.FocusDistance, spec.FocusDistance)
	setIfPresent(&config.Seed, spec.Seed)

	if spec.LookFrom != nil {
		config.LookFrom = spec.LookFrom.Vec3()
	}
	if spec.LookAt != nil {
		config.LookAt = spec.LookAt.Vec3()
	}
	if spec.Up != nil {
		config.Up = spec.Up.Vec3()
	}
	return config
}

func setIfPresent[T any](dst *T, value *T) {
	if value != nil {
		*dst = *value
	}
}

func backgroundFromSpec(spec loaders.BackgroundSpec) lights.Background {
	switch spec.Type {
	case loaders.BackgroundGradient:
		return lights.NewGradientInfiniteLight(spec.Top.Vec3(), spec.Bottom.Vec3())
	case loaders.BackgroundUniform:
		return lights.NewUniformInfiniteLight(spec.Emission.Vec3())
	default:
		return lights.NewSky()
	}
}

func materialFromSpec(spec loaders.MaterialSpec) (material.Material, error) {
	switch spec.Type {
	case loaders.MaterialLambertian:
		return material.NewLambertian(spec.Albedo.Vec3()), nil
	case loaders.MaterialMetal:
		return material.NewMetal(spec.Albedo.Vec3(), spec.Fuzz), nil
	case loaders.MaterialDielectric:
		return material.NewDielectric(spec.RefractionIndex), nil
	default:
		return nil, fmt.Errorf("unknown material type %q", spec.Type)
	}
}
