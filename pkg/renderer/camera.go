package renderer

import (
	"fmt"
	"math"

	"github.com/df07/go-sky-raytracer/pkg/core"
)

// CameraConfig contains all camera and sampling parameters
type CameraConfig struct {
	AspectRatio     float64   // Image width over image height
	ImageWidth      int       // Rendered image width in pixels
	SamplesPerPixel int       // Number of rays per pixel
	MaxDepth        int       // Maximum ray bounce depth
	VFov            float64   // Vertical field of view in degrees
	LookFrom        core.Vec3 // Camera position
	LookAt          core.Vec3 // Point the camera looks at
	Up              core.Vec3 // Camera-relative up direction
	DefocusAngle    float64   // Variation angle of rays through each pixel, in degrees
	FocusDistance   float64   // Distance from camera to plane of perfect focus
	Seed            uint64    // Seed for the per-pixel random streams
}

// DefaultCameraConfig returns the default camera configuration
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		AspectRatio:     1.0,
		ImageWidth:      100,
		SamplesPerPixel: 10,
		MaxDepth:        10,
		VFov:            90.0,
		LookFrom:        core.NewVec3(0, 0, 0),
		LookAt:          core.NewVec3(0, 0, -1),
		Up:              core.NewVec3(0, 1, 0),
		DefocusAngle:    0.0,
		FocusDistance:   10.0,
		Seed:            42,
	}
}

// MergeCameraConfig returns base with every non-zero field of override applied.
// Zero values in override leave the base value untouched.
func MergeCameraConfig(base, override CameraConfig) CameraConfig {
	result := base

	if override.AspectRatio != 0 {
		result.AspectRatio = override.AspectRatio
	}
	if override.ImageWidth != 0 {
		result.ImageWidth = override.ImageWidth
	}
	if override.SamplesPerPixel != 0 {
		result.SamplesPerPixel = override.SamplesPerPixel
	}
	if override.MaxDepth != 0 {
		result.MaxDepth = override.MaxDepth
	}
	if override.VFov != 0 {
		result.VFov = override.VFov
	}
	if override.LookFrom != (core.Vec3{}) {
		result.LookFrom = override.LookFrom
	}
	if override.LookAt != (core.Vec3{}) {
		result.LookAt = override.LookAt
	}
	if override.Up != (core.Vec3{}) {
		result.Up = override.Up
	}
	if override.DefocusAngle != 0 {
		result.DefocusAngle = override.DefocusAngle
	}
	if override.FocusDistance != 0 {
		result.FocusDistance = override.FocusDistance
	}
	if override.Seed != 0 {
		result.Seed = override.Seed
	}

	return result
}

// Validate reports configuration values that cannot produce an image
func (c CameraConfig) Validate() error {
	if c.ImageWidth <= 0 {
		return fmt.Errorf("image width must be positive, got %d", c.ImageWidth)
	}
	if c.SamplesPerPixel <= 0 {
		return fmt.Errorf("samples per pixel must be positive, got %d", c.SamplesPerPixel)
	}
	if !(c.AspectRatio > 0) {
		return fmt.Errorf("aspect ratio must be positive, got %g", c.AspectRatio)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("max depth must not be negative, got %d", c.MaxDepth)
	}
	return nil
}

// Camera generates rays for rendering
type Camera struct {
	config CameraConfig

	imageHeight   int
	center        core.Vec3
	pixel00Loc    core.Vec3
	pixelDeltaU   core.Vec3
	pixelDeltaV   core.Vec3
	u, v, w       core.Vec3
	defocusDiskU  core.Vec3
	defocusDiskV  core.Vec3
	samplesScale  float64
	isInitialized bool
}

// NewCamera creates an initialized camera from the given configuration
func NewCamera(config CameraConfig) *Camera {
	c := &Camera{config: config}
	c.Initialize()
	return c
}

// Config returns the camera configuration
func (c *Camera) Config() CameraConfig {
	return c.config
}

// Initialize derives the viewport and defocus geometry from the configuration.
// It is idempotent. An unusable configuration is a caller bug and panics.
func (c *Camera) Initialize() {
	if c.isInitialized {
		return
	}
	if err := c.config.Validate(); err != nil {
		panic(fmt.Sprintf("renderer: invalid camera configuration: %v", err))
	}

	cfg := c.config

	c.imageHeight = max(1, int(float64(cfg.ImageWidth)/cfg.AspectRatio))
	c.samplesScale = 1.0 / float64(cfg.SamplesPerPixel)
	c.center = cfg.LookFrom

	// Determine viewport dimensions
	theta := degreesToRadians(cfg.VFov)
	h := math.Tan(theta / 2)
	viewportHeight := 2 * h * cfg.FocusDistance
	viewportWidth := viewportHeight * (float64(cfg.ImageWidth) / float64(c.imageHeight))

	// Orthonormal basis for the camera coordinate frame
	c.w = cfg.LookFrom.Subtract(cfg.LookAt).Normalize()
	c.u = cfg.Up.Cross(c.w).Normalize()
	c.v = c.w.Cross(c.u)

	// Vectors across the horizontal and down the vertical viewport edges
	viewportU := c.u.Multiply(viewportWidth)
	viewportV := c.v.Negate().Multiply(viewportHeight)

	c.pixelDeltaU = viewportU.Multiply(1.0 / float64(cfg.ImageWidth))
	c.pixelDeltaV = viewportV.Multiply(1.0 / float64(c.imageHeight))

	viewportUpperLeft := c.center.
		Subtract(c.w.Multiply(cfg.FocusDistance)).
		Subtract(viewportU.Multiply(0.5)).
		Subtract(viewportV.Multiply(0.5))
	c.pixel00Loc = viewportUpperLeft.Add(c.pixelDeltaU.Add(c.pixelDeltaV).Multiply(0.5))

	defocusRadius := cfg.FocusDistance * math.Tan(degreesToRadians(cfg.DefocusAngle/2))
	c.defocusDiskU = c.u.Multiply(defocusRadius)
	c.defocusDiskV = c.v.Multiply(defocusRadius)

	c.isInitialized = true
}

// ImageWidth returns the image width in pixels
func (c *Camera) ImageWidth() int {
	return c.config.ImageWidth
}

// ImageHeight returns the derived image height in pixels
func (c *Camera) ImageHeight() int {
	return c.imageHeight
}

// SamplesScale returns the factor that turns a sum of pixel samples into their mean
func (c *Camera) SamplesScale() float64 {
	return c.samplesScale
}

// GetRay returns a ray towards a jittered point inside pixel (i, j), where i
// is the column and j the row counted from the top. The ray starts at the
// camera center, or on the defocus disk when DefocusAngle > 0. The direction
// is not normalized.
func (c *Camera) GetRay(i, j int, sampler core.Sampler) core.Ray {
	offset := sampleSquare(sampler)

	// The x offset is applied to both axes, so pixel samples lie on the
	// pixel's diagonal. Drawing a separate y offset would change the image.
	pixelSample := c.pixel00Loc.
		Add(c.pixelDeltaU.Multiply(float64(i) + offset.X)).
		Add(c.pixelDeltaV.Multiply(float64(j) + offset.X))

	rayOrigin := c.center
	if c.config.DefocusAngle > 0 {
		rayOrigin = c.defocusDiskSample(sampler)
	}

	return core.NewRay(rayOrigin, pixelSample.Subtract(rayOrigin))
}

// sampleSquare returns a random point in the [-0.5, 0.5]² square
func sampleSquare(sampler core.Sampler) core.Vec2 {
	s := sampler.Get2D()
	return core.NewVec2(s.X-0.5, s.Y-0.5)
}

// defocusDiskSample returns a random point on the camera defocus disk
func (c *Camera) defocusDiskSample(sampler core.Sampler) core.Vec3 {
	p := core.RandomInUnitDisk(sampler)
	return c.center.Add(c.defocusDiskU.Multiply(p.X)).Add(c.defocusDiskV.Multiply(p.Y))
}

func degreesToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180.0
}
