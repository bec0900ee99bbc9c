package fluid

import (
	"math"
	"testing"
)

func TestKernelSupport(t *testing.T) {
	k := NewKernels(16)

	tests := []struct {
		name string
		r    float32
		zero bool
	}{
		{"origin", 0, false},
		{"inside support", 8, false},
		{"just inside", 15.9, false},
		{"at support boundary", 16, true},
		{"beyond support", 20, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := k.Weight(tt.r * tt.r)
			g := k.Gradient(tt.r)
			l := k.Laplacian(tt.r)

			if tt.zero {
				if w != 0 || g != 0 || l != 0 {
					t.Errorf("r=%v: weight=%v gradient=%v laplacian=%v, want all zero", tt.r, w, g, l)
				}
				return
			}
			if w <= 0 {
				t.Errorf("r=%v: weight = %v, want > 0", tt.r, w)
			}
			if g >= 0 {
				t.Errorf("r=%v: gradient = %v, want < 0", tt.r, g)
			}
			if l <= 0 {
				t.Errorf("r=%v: laplacian = %v, want > 0", tt.r, l)
			}
		})
	}
}

// TestKernelWeightAtOrigin checks the closed-form peak value
// 4/(pi*H^8) * H^6 = 4/(pi*H^2).
func TestKernelWeightAtOrigin(t *testing.T) {
	h := 16.0
	k := NewKernels(float32(h))

	got := float64(k.Weight(0))
	want := 4.0 / (math.Pi * h * h)

	if math.Abs(got-want)/want > 1e-5 {
		t.Errorf("Weight(0) = %v, want %v", got, want)
	}
}

// TestKernelWeightMonotonic checks that density weight decreases with
// distance inside the support.
func TestKernelWeightMonotonic(t *testing.T) {
	k := NewKernels(16)

	prev := k.Weight(0)
	for r := float32(1); r < 16; r++ {
		w := k.Weight(r * r)
		if w >= prev {
			t.Errorf("Weight(%v^2) = %v, not below Weight at previous step %v", r, w, prev)
		}
		prev = w
	}
}

// TestKernelGradientSteepensNearContact checks that the pressure
// gradient magnitude grows as pairs approach each other.
func TestKernelGradientSteepensNearContact(t *testing.T) {
	k := NewKernels(16)

	near := k.Gradient(2)
	far := k.Gradient(10)
	if !(near < far && far < 0) {
		t.Errorf("Gradient(2) = %v, Gradient(10) = %v, want Gradient(2) < Gradient(10) < 0", near, far)
	}
}

func TestKernelLaplacianLinear(t *testing.T) {
	h := 16.0
	k := NewKernels(float32(h))

	// viscLap * (H - r), with viscLap = 40/(pi*H^5)
	c := 40.0 / (math.Pi * math.Pow(h, 5))
	for _, r := range []float64{0, 4, 8, 12, 15} {
		got := float64(k.Laplacian(float32(r)))
		want := c * (h - r)
		if math.Abs(got-want)/want > 1e-4 {
			t.Errorf("Laplacian(%v) = %v, want %v", r, got, want)
		}
	}
}
