package renderer

import (
	"image"

	"github.com/df07/go-sky-raytracer/pkg/core"
	"github.com/df07/go-sky-raytracer/pkg/geometry"
	"github.com/df07/go-sky-raytracer/pkg/integrator"
)

// TileRenderer handles the actual rendering of individual tiles using an integrator
type TileRenderer struct {
	camera     *Camera
	world      geometry.Shape
	integrator integrator.Integrator
	seed       uint64
}

// NewTileRenderer creates a new tile renderer for the given camera, world and integrator
func NewTileRenderer(camera *Camera, world geometry.Shape, integratorInst integrator.Integrator) *TileRenderer {
	return &TileRenderer{
		camera:     camera,
		world:      world,
		integrator: integratorInst,
		seed:       camera.Config().Seed,
	}
}

// RenderTileBounds brings every pixel within bounds up to targetSamples
// samples. pixelStats is indexed in global image coordinates; only the
// entries inside bounds are touched.
func (tr *TileRenderer) RenderTileBounds(bounds image.Rectangle, pixelStats [][]PixelStats, targetSamples int) RenderStats {
	stats := tr.initRenderStatsForBounds(bounds, targetSamples)

	for j := bounds.Min.Y; j < bounds.Max.Y; j++ {
		for i := bounds.Min.X; i < bounds.Max.X; i++ {
			samplesUsed := tr.samplePixel(i, j, &pixelStats[j][i], targetSamples)
			tr.updateStats(&stats, samplesUsed)
		}
	}

	tr.finalizeStats(&stats)
	return stats
}

// samplePixel takes samples for pixel (i, j) until it holds targetSamples
func (tr *TileRenderer) samplePixel(i, j int, ps *PixelStats, targetSamples int) int {
	if ps.Sampler == nil {
		ps.Sampler = core.NewPixelSampler(tr.seed, i, j)
	}

	initialSampleCount := ps.SampleCount
	for ps.SampleCount < targetSamples {
		ray := tr.camera.GetRay(i, j, ps.Sampler)
		ps.AddSample(tr.integrator.RayColor(ray, tr.world, ps.Sampler))
	}

	return ps.SampleCount - initialSampleCount
}

// initRenderStatsForBounds initializes the render statistics tracking for specific bounds
func (tr *TileRenderer) initRenderStatsForBounds(bounds image.Rectangle, maxSamples int) RenderStats {
	return RenderStats{
		TotalPixels: bounds.Dx() * bounds.Dy(),
		MaxSamples:  maxSamples,
		MinSamples:  maxSamples, // Start with max, will be reduced
	}
}

// updateStats updates the render statistics with data from a single pixel
func (tr *TileRenderer) updateStats(stats *RenderStats, samplesUsed int) {
	stats.TotalSamples += samplesUsed
	stats.MinSamples = min(stats.MinSamples, samplesUsed)
	stats.MaxSamplesUsed = max(stats.MaxSamplesUsed, samplesUsed)
}

// finalizeStats calculates final statistics after all pixels are rendered
func (tr *TileRenderer) finalizeStats(stats *RenderStats) {
	if stats.TotalPixels > 0 {
		stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)
	}
}

// assembleImage quantizes the accumulated pixel colors into an image and
// gathers statistics over the whole grid
func assembleImage(pixelStats [][]PixelStats, width, height, targetSamples int) (*image.RGBA, RenderStats) {
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	stats := RenderStats{
		TotalPixels: width * height,
		MaxSamples:  targetSamples,
		MinSamples:  targetSamples,
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			pixel := &pixelStats[y][x]
			img.SetRGBA(x, y, ToRGBA(pixel.GetColor()))

			stats.TotalSamples += pixel.SampleCount
			stats.MinSamples = min(stats.MinSamples, pixel.SampleCount)
			stats.MaxSamplesUsed = max(stats.MaxSamplesUsed, pixel.SampleCount)
		}
	}

	if stats.TotalPixels > 0 {
		stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)
	}
	stats.AverageLuminance = CalculateAverageLuminance(img)

	return img, stats
}
