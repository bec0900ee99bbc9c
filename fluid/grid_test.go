package fluid

import (
	"math/rand"
	"sort"
	"testing"
)

func insertAll(g *Grid, particles []Particle) {
	for i := range particles {
		g.Insert(int32(i), particles[i].X, particles[i].Y)
	}
}

func bruteRadius(particles []Particle, x, y, radius float32) []int32 {
	var out []int32
	r2 := radius * radius
	for i := range particles {
		dx := particles[i].X - x
		dy := particles[i].Y - y
		if dx*dx+dy*dy <= r2 {
			out = append(out, int32(i))
		}
	}
	return out
}

func TestGridQueryRadius(t *testing.T) {
	particles := []Particle{
		{X: 50, Y: 50},
		{X: 60, Y: 50},  // 10 away
		{X: 50, Y: 66},  // 16 away, on the boundary
		{X: 80, Y: 80},  // well outside
		{X: 50, Y: 50},  // coincident with the first
	}

	g := NewGrid(1000, 1000, 16)
	insertAll(g, particles)

	got := g.QueryRadiusInto(nil, 50, 50, 16, particles)

	var indices []int32
	for _, n := range got {
		indices = append(indices, n.Index)
	}
	sort.Slice(indices, func(i, j int) bool { return indices[i] < indices[j] })

	want := []int32{0, 1, 2, 4}
	if len(indices) != len(want) {
		t.Fatalf("got %d neighbors %v, want %v", len(indices), indices, want)
	}
	for i := range want {
		if indices[i] != want[i] {
			t.Errorf("neighbor %d = %d, want %d", i, indices[i], want[i])
		}
	}
}

func TestGridIncludesSelf(t *testing.T) {
	particles := []Particle{{X: 100, Y: 100}}
	g := NewGrid(1000, 1000, 16)
	insertAll(g, particles)

	got := g.QueryRadiusInto(nil, 100, 100, 16, particles)
	if len(got) != 1 {
		t.Fatalf("got %d neighbors, want 1 (the query particle itself)", len(got))
	}
	if got[0].DistSq != 0 {
		t.Errorf("self distance = %v, want 0", got[0].DistSq)
	}
}

// TestGridMatchesBruteForce cross-checks the grid against an all-pairs
// scan on a random population, including positions near the domain edges.
func TestGridMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	const n = 300
	const w, h = 500.0, 400.0
	const radius = 16.0

	particles := make([]Particle, n)
	for i := range particles {
		particles[i] = Particle{
			X: rng.Float32() * w,
			Y: rng.Float32() * h,
		}
	}

	g := NewGrid(w, h, radius)
	insertAll(g, particles)

	var scratch []Neighbor
	for i := 0; i < n; i += 7 {
		x, y := particles[i].X, particles[i].Y

		scratch = g.QueryRadiusInto(scratch[:0], x, y, radius, particles)
		gridIdx := make([]int32, 0, len(scratch))
		for _, nb := range scratch {
			gridIdx = append(gridIdx, nb.Index)
		}
		sort.Slice(gridIdx, func(a, b int) bool { return gridIdx[a] < gridIdx[b] })

		wantIdx := bruteRadius(particles, x, y, radius)

		if len(gridIdx) != len(wantIdx) {
			t.Fatalf("query at (%v,%v): grid found %d, brute force found %d",
				x, y, len(gridIdx), len(wantIdx))
		}
		for j := range wantIdx {
			if gridIdx[j] != wantIdx[j] {
				t.Errorf("query at (%v,%v): index %d = %d, want %d",
					x, y, j, gridIdx[j], wantIdx[j])
			}
		}
	}
}

func TestGridClear(t *testing.T) {
	particles := []Particle{{X: 10, Y: 10}, {X: 12, Y: 10}}
	g := NewGrid(100, 100, 16)
	insertAll(g, particles)

	g.Clear()

	got := g.QueryRadiusInto(nil, 10, 10, 16, particles)
	if len(got) != 0 {
		t.Errorf("got %d neighbors after Clear, want 0", len(got))
	}
}

// TestGridClampsOutOfRange checks that positions outside the domain are
// bucketed into edge cells instead of panicking.
func TestGridClampsOutOfRange(t *testing.T) {
	particles := []Particle{{X: -5, Y: 2000}}
	g := NewGrid(1000, 1000, 16)
	insertAll(g, particles) // must not panic

	got := g.QueryRadiusInto(nil, 500, 500, 16, particles)
	if len(got) != 0 {
		t.Errorf("got %d neighbors, want 0", len(got))
	}
}
