package loaders

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/df07/go-sky-raytracer/pkg/core"
)

// Material types understood in scene files
const (
	MaterialLambertian = "lambertian"
	MaterialMetal      = "metal"
	MaterialDielectric = "dielectric"
)

// Background types understood in scene files
const (
	BackgroundSky      = "sky"
	BackgroundGradient = "gradient"
	BackgroundUniform  = "uniform"
)

// SceneFile contains all parsed scene file data
type SceneFile struct {
	Name        string                  `json:"name,omitempty"`
	Description string                  `json:"description,omitempty"`
	Group       string                  `json:"group,omitempty"`
	Camera      CameraSpec              `json:"camera"`
	Background  *BackgroundSpec         `json:"background,omitempty"`
	Materials   map[string]MaterialSpec `json:"materials"`
	Spheres     []SphereSpec            `json:"spheres"`
}

// Triple is a JSON array of three numbers
type Triple []float64

// Vec3 converts a validated triple to a vector
func (t Triple) Vec3() core.Vec3 {
	if len(t) != 3 {
		return core.Vec3{}
	}
	return core.NewVec3(t[0], t[1], t[2])
}

// CameraSpec holds camera settings. A nil field was omitted from the file and
// keeps its default; an explicit zero is kept as zero.
type CameraSpec struct {
	AspectRatio     *float64 `json:"aspectRatio,omitempty"`
	ImageWidth      *int     `json:"imageWidth,omitempty"`
	SamplesPerPixel *int     `json:"samplesPerPixel,omitempty"`
	MaxDepth        *int     `json:"maxDepth,omitempty"`
	VFov            *float64 `json:"vfov,omitempty"`
	LookFrom        Triple   `json:"lookFrom,omitempty"`
	LookAt          Triple   `json:"lookAt,omitempty"`
	Up              Triple   `json:"up,omitempty"`
	DefocusAngle    *float64 `json:"defocusAngle,omitempty"`
	FocusDistance   *float64 `json:"focusDistance,omitempty"`
	Seed            *uint64  `json:"seed,omitempty"`
}

// BackgroundSpec describes the light seen by rays leaving the scene
type BackgroundSpec struct {
	Type     string `json:"type"`
	Top      Triple `json:"top,omitempty"`      // gradient only
	Bottom   Triple `json:"bottom,omitempty"`   // gradient only
	Emission Triple `json:"emission,omitempty"` // uniform only
}

// MaterialSpec describes a named material
type MaterialSpec struct {
	Type            string  `json:"type"`
	Albedo          Triple  `json:"albedo,omitempty"`
	Fuzz            float64 `json:"fuzz,omitempty"`
	RefractionIndex float64 `json:"refractionIndex,omitempty"`
}

// SphereSpec describes a sphere bound to a named material
type SphereSpec struct {
	Center   Triple  `json:"center"`
	Radius   float64 `json:"radius"`
	Material string  `json:"material"`
}

// ParseSceneFile parses and validates scene JSON from an io.Reader
func ParseSceneFile(reader io.Reader) (*SceneFile, error) {
	decoder := json.NewDecoder(reader)
	decoder.DisallowUnknownFields()

	var sceneFile SceneFile
	if err := decoder.Decode(&sceneFile); err != nil {
		return nil, fmt.Errorf("failed to parse scene JSON: %w", err)
	}
	if err := sceneFile.Validate(); err != nil {
		return nil, err
	}

	return &sceneFile, nil
}

// LoadSceneFile loads and parses a JSON scene file
func LoadSceneFile(filename string) (*SceneFile, error) {
	if err := validateFilePath(filename); err != nil {
		return nil, err
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene file: %w", err)
	}
	defer file.Close()

	sceneFile, err := ParseSceneFile(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return sceneFile, nil
}

// Validate checks that every material, sphere and vector in the file is usable
func (s *SceneFile) Validate() error {
	var errs []error

	for name, triple := range map[string]Triple{
		"camera.lookFrom": s.Camera.LookFrom,
		"camera.lookAt":   s.Camera.LookAt,
		"camera.up":       s.Camera.Up,
	} {
		if triple != nil && len(triple) != 3 {
			errs = append(errs, fmt.Errorf("%s must have 3 components, got %d", name, len(triple)))
		}
	}
	for name, value := range map[string]*int{
		"camera.imageWidth":      s.Camera.ImageWidth,
		"camera.samplesPerPixel": s.Camera.SamplesPerPixel,
	} {
		if value != nil && *value <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %d", name, *value))
		}
	}
	if s.Camera.AspectRatio != nil && !(*s.Camera.AspectRatio > 0) {
		errs = append(errs, fmt.Errorf("camera.aspectRatio must be positive, got %g", *s.Camera.AspectRatio))
	}
	if s.Camera.MaxDepth != nil && *s.Camera.MaxDepth < 0 {
		errs = append(errs, fmt.Errorf("camera.maxDepth must not be negative, got %d", *s.Camera.MaxDepth))
	}

	if s.Background != nil {
		errs = append(errs, s.Background.validate())
	}

	for name, mat := range s.Materials {
		if err := mat.validate(); err != nil {
			errs = append(errs, fmt.Errorf("material %q: %w", name, err))
		}
	}

	for i, sphere := range s.Spheres {
		if len(sphere.Center) != 3 {
			errs = append(errs, fmt.Errorf("sphere %d: center must have 3 components", i))
		}
		if !(sphere.Radius > 0) {
			errs = append(errs, fmt.Errorf("sphere %d: radius must be positive, got %g", i, sphere.Radius))
		}
		if _, ok := s.Materials[sphere.Material]; !ok {
			errs = append(errs, fmt.Errorf("sphere %d: unknown material %q", i, sphere.Material))
		}
	}

	return errors.Join(errs...)
}

func (m MaterialSpec) validate() error {
	switch m.Type {
	case MaterialLambertian, MaterialMetal:
		if len(m.Albedo) != 3 {
			return errors.New("albedo must have 3 components")
		}
	case MaterialDielectric:
		if !(m.RefractionIndex > 0) {
			return fmt.Errorf("refraction index must be positive, got %g", m.RefractionIndex)
		}
	default:
		return fmt.Errorf("unknown material type %q", m.Type)
	}
	return nil
}

func (b *BackgroundSpec) validate() error {
	switch b.Type {
	case BackgroundSky:
	case BackgroundGradient:
		if len(b.Top) != 3 || len(b.Bottom) != 3 {
			return errors.New("gradient background needs 3-component top and bottom colors")
		}
	case BackgroundUniform:
		if len(b.Emission) != 3 {
			return errors.New("uniform background needs a 3-component emission")
		}
	default:
		return fmt.Errorf("unknown background type %q", b.Type)
	}
	return nil
}

// validateFilePath rejects empty names and files that are not .json
func validateFilePath(filename string) error {
	if filename == "" {
		return errors.New("filename cannot be empty")
	}
	if !strings.EqualFold(filepath.Ext(filename), ".json") {
		return fmt.Errorf("invalid file type %q: only .json scene files are allowed", filepath.Ext(filename))
	}
	return nil
}
