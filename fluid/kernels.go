package fluid

import "math"

// Kernels holds the precomputed normalization constants for the three
// smoothing kernels used by the solver, all with compact support of
// radius H in two dimensions.
//
// Density uses a poly6-style kernel, pressure uses the gradient of a
// spiky kernel and viscosity uses a Laplacian kernel. The normalization
// constants depend only on H and the dimension.
type Kernels struct {
	H  float32 // support radius
	H2 float32 // H squared

	poly6     float32 // 4 / (pi * H^8)
	spikyGrad float32 // -10 / (pi * H^5)
	viscLap   float32 // 40 / (pi * H^5)
}

// NewKernels precomputes kernel constants for support radius h.
func NewKernels(h float32) Kernels {
	h64 := float64(h)
	return Kernels{
		H:         h,
		H2:        h * h,
		poly6:     float32(4.0 / (math.Pi * math.Pow(h64, 8))),
		spikyGrad: float32(-10.0 / (math.Pi * math.Pow(h64, 5))),
		viscLap:   float32(40.0 / (math.Pi * math.Pow(h64, 5))),
	}
}

// Weight returns the poly6 density weight for a pair at squared
// distance r2. Pairs at or beyond the support radius contribute zero.
func (k Kernels) Weight(r2 float32) float32 {
	if r2 >= k.H2 {
		return 0
	}
	d := k.H2 - r2
	return k.poly6 * d * d * d
}

// Gradient returns the spiky pressure-gradient magnitude for a pair at
// distance r. The value is negative inside the support and zero outside.
func (k Kernels) Gradient(r float32) float32 {
	if r >= k.H {
		return 0
	}
	d := k.H - r
	return k.spikyGrad * d * d * d
}

// Laplacian returns the viscosity Laplacian weight for a pair at
// distance r, zero outside the support.
func (k Kernels) Laplacian(r float32) float32 {
	if r >= k.H {
		return 0
	}
	return k.viscLap * (k.H - r)
}
