package core

import (
	"math"
	"math/rand/v2"
)

// Vec2 holds a pair of sample values
type Vec2 struct {
	X, Y float64
}

// NewVec2 creates a new Vec2
func NewVec2(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// Sampler provides random sampling for rendering algorithms
// Can be swapped out for deterministic testing or different sampling patterns
type Sampler interface {
	Get1D() float64
	Get2D() Vec2
	Get3D() Vec3
}

// RandomSampler wraps a Go random generator
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// NewSeededSampler creates a sampler with its own PCG stream
func NewSeededSampler(seed, stream uint64) *RandomSampler {
	return NewRandomSampler(rand.New(rand.NewPCG(seed, stream)))
}

// PixelStream returns the PCG stream key for pixel (x, y)
func PixelStream(x, y int) uint64 {
	return uint64(uint32(y))<<32 | uint64(uint32(x))
}

// NewPixelSampler creates the private random stream for pixel (x, y).
// The stream depends only on the seed and the pixel coordinates, never on
// which goroutine renders the pixel or in what order.
func NewPixelSampler(seed uint64, x, y int) *RandomSampler {
	return NewSeededSampler(seed, PixelStream(x, y))
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// Get2D returns two random float64 values in [0, 1)
func (r *RandomSampler) Get2D() Vec2 {
	return NewVec2(r.random.Float64(), r.random.Float64())
}

// Get3D returns three random float64 values in [0, 1)
func (r *RandomSampler) Get3D() Vec3 {
	return NewVec3(r.random.Float64(), r.random.Float64(), r.random.Float64())
}

// RandomInUnitCube returns a point uniformly distributed in [-1, 1)³
func RandomInUnitCube(sampler Sampler) Vec3 {
	s := sampler.Get3D()
	return NewVec3(2*s.X-1, 2*s.Y-1, 2*s.Z-1)
}

// SampleOnUnitSphere generates a uniform random direction on the unit sphere
func SampleOnUnitSphere(sample Vec2) Vec3 {
	z := 1.0 - 2.0*sample.X // z ∈ [-1, 1]
	r := math.Sqrt(math.Max(0, 1.0-z*z))
	phi := 2.0 * math.Pi * sample.Y
	x := r * math.Cos(phi)
	y := r * math.Sin(phi)
	return NewVec3(x, y, z)
}

// RandomUnitVector returns a uniformly distributed unit vector
func RandomUnitVector(sampler Sampler) Vec3 {
	return SampleOnUnitSphere(sampler.Get2D())
}

// RandomInUnitDisk returns a point uniformly distributed in the unit disk on z = 0
func RandomInUnitDisk(sampler Sampler) Vec3 {
	for {
		s := sampler.Get2D()
		p := NewVec3(2*s.X-1, 2*s.Y-1, 0)
		if p.LengthSquared() < 1.0 {
			return p
		}
	}
}
