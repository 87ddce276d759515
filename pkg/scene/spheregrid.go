package scene

import (
	"math"

	"github.com/df07/go-sky-raytracer/pkg/core"
	"github.com/df07/go-sky-raytracer/pkg/material"
	"github.com/df07/go-sky-raytracer/pkg/renderer"
)

// Stream used for scene layout, separate from any pixel stream
const sphereGridLayoutStream = math.MaxUint64

// oklchToRGB converts OKLCH color values to RGB
// L: lightness (0-1), C: chroma (0-0.4+), H: hue (0-360 degrees)
func oklchToRGB(l, c, h float64) core.Vec3 {
	hRad := h * math.Pi / 180.0

	// OKLCH to OKLAB
	a := c * math.Cos(hRad)
	b := c * math.Sin(hRad)

	// OKLAB to LMS, then cube
	lc := l + 0.3963377774*a + 0.2158037573*b
	mc := l - 0.1055613458*a - 0.0638541728*b
	sc := l - 0.0894841775*a - 1.2914855480*b
	lc, mc, sc = lc*lc*lc, mc*mc*mc, sc*sc*sc

	// LMS to linear RGB
	r := +4.0767416621*lc - 3.3077115913*mc + 0.2309699292*sc
	g := -1.2684380046*lc + 2.6097574011*mc - 0.3413193965*sc
	blue := -0.0041960863*lc - 0.7034186147*mc + 1.7076147010*sc

	unit := core.NewInterval(0, 1)
	return core.NewVec3(unit.Clamp(r), unit.Clamp(g), unit.Clamp(blue))
}

// NewSphereGridScene creates a field of small spheres around three large
// feature spheres. The layout is drawn from the camera seed, so the same
// seed always produces the same scene.
func NewSphereGridScene(cameraOverrides ...renderer.CameraConfig) *Scene {
	defaultCameraConfig := renderer.CameraConfig{
		AspectRatio:     16.0 / 9.0,
		ImageWidth:      400,
		SamplesPerPixel: 50,
		MaxDepth:        20,
		VFov:            20.0,
		LookFrom:        core.NewVec3(13, 2, 3),
		LookAt:          core.NewVec3(0, 0, 0),
		Up:              core.NewVec3(0, 1, 0),
		DefocusAngle:    0.6,
		FocusDistance:   10.0,
		Seed:            renderer.DefaultCameraConfig().Seed,
	}

	s := NewScene("spheregrid", applyCameraOverrides(defaultCameraConfig, cameraOverrides))
	sampler := core.NewSeededSampler(s.CameraConfig.Seed, sphereGridLayoutStream)

	// Ground
	s.AddSphere(core.NewVec3(0, -1000, 0), 1000, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)))

	const gridHalf = 5
	featurePoint := core.NewVec3(4, 0.2, 0)

	for a := -gridHalf; a <= gridHalf; a++ {
		for b := -gridHalf; b <= gridHalf; b++ {
			jitter := sampler.Get2D()
			center := core.NewVec3(float64(a)+0.9*jitter.X, 0.2, float64(b)+0.9*jitter.Y)
			if center.Subtract(featurePoint).Length() <= 0.9 {
				continue
			}

			// Hue sweeps along x, chroma along z
			hue := float64(a+gridHalf) / float64(2*gridHalf) * 360.0
			chroma := 0.05 + float64(b+gridHalf)/float64(2*gridHalf)*0.2
			color := oklchToRGB(0.7, chroma, hue)

			var mat material.Material
			switch choose := sampler.Get1D(); {
			case choose < 0.7:
				mat = material.NewLambertian(color)
			case choose < 0.9:
				mat = material.NewMetal(color, 0.5*sampler.Get1D())
			default:
				mat = material.NewDielectric(1.5)
			}
			s.AddSphere(center, 0.2, mat)
		}
	}

	s.AddSphere(core.NewVec3(0, 1, 0), 1.0, material.NewDielectric(1.5))
	s.AddSphere(core.NewVec3(-4, 1, 0), 1.0, material.NewLambertian(core.NewVec3(0.4, 0.2, 0.1)))
	s.AddSphere(core.NewVec3(4, 1, 0), 1.0, material.NewMetal(core.NewVec3(0.7, 0.6, 0.5), 0.0))

	return s
}
