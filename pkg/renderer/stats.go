package renderer

import (
	"image"

	"gonum.org/v1/gonum/stat"

	"github.com/df07/go-sky-raytracer/pkg/core"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels      int     // Total number of pixels rendered
	TotalSamples     int     // Total number of samples taken
	AverageSamples   float64 // Average samples per pixel
	MaxSamples       int     // Target samples per pixel
	MinSamples       int     // Minimum samples taken by any pixel
	MaxSamplesUsed   int     // Maximum samples taken by any pixel
	AverageLuminance float64 // Mean luminance of the quantized image
}

// PixelStats accumulates the samples of a single pixel. Each pixel owns the
// random stream its samples are drawn from, so sample k of a pixel is the
// same no matter which pass, tile or goroutine produces it.
type PixelStats struct {
	ColorAccum  core.Vec3    // RGB accumulator for final result
	SampleCount int          // Number of samples taken
	Sampler     core.Sampler // Private random stream of this pixel
}

// AddSample adds a new color sample to the pixel statistics
func (ps *PixelStats) AddSample(color core.Vec3) {
	ps.ColorAccum = ps.ColorAccum.Add(color)
	ps.SampleCount++
}

// GetColor returns the current average color for this pixel
func (ps *PixelStats) GetColor() core.Vec3 {
	if ps.SampleCount == 0 {
		return core.Vec3{}
	}
	return ps.ColorAccum.Multiply(1.0 / float64(ps.SampleCount))
}

// newPixelStatsGrid allocates a height x width grid of empty pixel statistics
func newPixelStatsGrid(width, height int) [][]PixelStats {
	pixelStats := make([][]PixelStats, height)
	for y := range pixelStats {
		pixelStats[y] = make([]PixelStats, width)
	}
	return pixelStats
}

// CalculateAverageLuminance returns the mean Rec. 709 luminance of img with
// channels scaled to [0, 1]
func CalculateAverageLuminance(img *image.RGBA) float64 {
	bounds := img.Bounds()
	if bounds.Empty() {
		return 0
	}

	luminances := make([]float64, 0, bounds.Dx()*bounds.Dy())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := img.RGBAAt(x, y)
			pixel := core.NewVec3(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0)
			luminances = append(luminances, pixel.Luminance())
		}
	}

	return stat.Mean(luminances, nil)
}
