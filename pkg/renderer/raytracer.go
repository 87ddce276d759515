package renderer

import (
	"image"

	"github.com/df07/go-sky-raytracer/pkg/core"
	"github.com/df07/go-sky-raytracer/pkg/geometry"
	"github.com/df07/go-sky-raytracer/pkg/integrator"
	"github.com/df07/go-sky-raytracer/pkg/lights"
)

// Scene interface to avoid circular imports
type Scene interface {
	GetWorld() geometry.Shape
	GetCameraConfig() CameraConfig
	GetBackground() lights.Background
}

// Raytracer renders a scene on a single goroutine in raster order
type Raytracer struct {
	scene        Scene
	camera       *Camera
	integrator   integrator.Integrator
	tileRenderer *TileRenderer
	logger       core.Logger
}

// NewRaytracer creates a new sequential raytracer. The camera is initialized
// from the scene's configuration, so an invalid configuration panics here.
func NewRaytracer(scene Scene, logger core.Logger) *Raytracer {
	camera := NewCamera(scene.GetCameraConfig())
	integratorInst := integrator.NewPathTracingIntegrator(camera.Config().MaxDepth, scene.GetBackground())

	return &Raytracer{
		scene:        scene,
		camera:       camera,
		integrator:   integratorInst,
		tileRenderer: NewTileRenderer(camera, scene.GetWorld(), integratorInst),
		logger:       orDiscard(logger),
	}
}

// Camera returns the initialized camera
func (rt *Raytracer) Camera() *Camera {
	return rt.camera
}

// Render renders every pixel top-to-bottom, left-to-right, reporting the
// number of remaining scanlines before each row
func (rt *Raytracer) Render() (*image.RGBA, RenderStats) {
	width := rt.camera.ImageWidth()
	height := rt.camera.ImageHeight()
	samples := rt.camera.Config().SamplesPerPixel

	pixelStats := newPixelStatsGrid(width, height)

	for j := 0; j < height; j++ {
		rt.logger.Printf("\rScanlines remaining: %d ", height-j)
		rt.tileRenderer.RenderTileBounds(image.Rect(0, j, width, j+1), pixelStats, samples)
	}
	rt.logger.Printf("\rDone.                 \n")

	return assembleImage(pixelStats, width, height, samples)
}
