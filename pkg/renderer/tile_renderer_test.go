package renderer

import (
	"image"
	"testing"

	"github.com/df07/go-sky-raytracer/pkg/core"
	"github.com/df07/go-sky-raytracer/pkg/geometry"
)

// MockIntegrator returns a constant color for every ray
type MockIntegrator struct {
	returnColor core.Vec3
	callCount   int
}

func (m *MockIntegrator) RayColor(ray core.Ray, world geometry.Shape, sampler core.Sampler) core.Vec3 {
	m.callCount++
	return m.returnColor
}

func createTestTileRenderer(width int, integratorInst *MockIntegrator) *TileRenderer {
	config := DefaultCameraConfig()
	config.ImageWidth = width
	return NewTileRenderer(NewCamera(config), geometry.NewHittableList(), integratorInst)
}

func TestTileRenderer_ReachesTargetSamples(t *testing.T) {
	mock := &MockIntegrator{returnColor: core.NewVec3(0.2, 0.4, 0.6)}
	tr := createTestTileRenderer(8, mock)
	pixelStats := newPixelStatsGrid(8, 8)
	bounds := image.Rect(2, 3, 6, 5)

	stats := tr.RenderTileBounds(bounds, pixelStats, 3)

	if stats.TotalPixels != 8 {
		t.Errorf("Expected 8 pixels, got %d", stats.TotalPixels)
	}
	if stats.TotalSamples != 24 || mock.callCount != 24 {
		t.Errorf("Expected 24 samples, got %d (calls %d)", stats.TotalSamples, mock.callCount)
	}
	if stats.AverageSamples != 3 || stats.MinSamples != 3 || stats.MaxSamplesUsed != 3 {
		t.Errorf("Unexpected stats %+v", stats)
	}

	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			ps := pixelStats[y][x]
			inside := image.Pt(x, y).In(bounds)
			if inside && (ps.SampleCount != 3 || !vecNear(ps.GetColor(), mock.returnColor, 1e-12)) {
				t.Errorf("Pixel (%d, %d): expected 3 samples of %v, got %d of %v", x, y, mock.returnColor, ps.SampleCount, ps.GetColor())
			}
			if !inside && (ps.SampleCount != 0 || ps.Sampler != nil) {
				t.Errorf("Pixel (%d, %d) outside bounds was touched", x, y)
			}
		}
	}
}

func TestTileRenderer_ResumesAccumulation(t *testing.T) {
	mock := &MockIntegrator{returnColor: core.NewVec3(1, 1, 1)}
	tr := createTestTileRenderer(4, mock)
	pixelStats := newPixelStatsGrid(4, 4)
	bounds := image.Rect(0, 0, 4, 4)

	tr.RenderTileBounds(bounds, pixelStats, 2)
	sampler := pixelStats[1][1].Sampler

	stats := tr.RenderTileBounds(bounds, pixelStats, 5)
	if stats.TotalSamples != 16*3 {
		t.Errorf("Expected 48 new samples, got %d", stats.TotalSamples)
	}
	if pixelStats[1][1].SampleCount != 5 {
		t.Errorf("Expected 5 accumulated samples, got %d", pixelStats[1][1].SampleCount)
	}
	if pixelStats[1][1].Sampler != sampler {
		t.Error("Expected the pixel to keep its random stream across calls")
	}

	// Already at target: nothing to do
	if stats := tr.RenderTileBounds(bounds, pixelStats, 5); stats.TotalSamples != 0 {
		t.Errorf("Expected no new samples, got %d", stats.TotalSamples)
	}
}

func TestNewTileGrid_CoversImageOnce(t *testing.T) {
	tests := []struct {
		width, height, tileSize int
		expectedTiles           int
	}{
		{64, 64, 64, 1},
		{100, 50, 32, 8},
		{7, 5, 3, 6},
		{1, 1, 64, 1},
	}

	for _, tt := range tests {
		tiles := NewTileGrid(tt.width, tt.height, tt.tileSize)
		if len(tiles) != tt.expectedTiles {
			t.Errorf("%dx%d/%d: expected %d tiles, got %d", tt.width, tt.height, tt.tileSize, tt.expectedTiles, len(tiles))
		}

		coverage := make([]int, tt.width*tt.height)
		for id, tile := range tiles {
			if tile.ID != id {
				t.Errorf("Expected tile ID %d, got %d", id, tile.ID)
			}
			for y := tile.Bounds.Min.Y; y < tile.Bounds.Max.Y; y++ {
				for x := tile.Bounds.Min.X; x < tile.Bounds.Max.X; x++ {
					coverage[y*tt.width+x]++
				}
			}
		}
		for i, count := range coverage {
			if count != 1 {
				t.Fatalf("%dx%d/%d: pixel %d covered %d times", tt.width, tt.height, tt.tileSize, i, count)
			}
		}
	}
}
