package collision

import (
	"math/rand"
	"testing"
)

// =============================================================================
// BENCHMARK SUITE: NAIVE VS SPATIAL HASH SCALING
// Run with: go test -bench=. -benchmem ./internal/collision/...
// =============================================================================

// benchScene spreads n boxes of roughly cell-sized extents over an area that
// grows with n, keeping density constant so per-object cost is comparable
// across sizes.
func benchScene(n int) []AABB {
	rng := rand.New(rand.NewSource(int64(n)))
	extent := 60.0 * float64(n) / 4
	objects := make([]AABB, n)
	for i := range objects {
		objects[i] = AABB{
			X:      rng.Float64() * extent,
			Y:      rng.Float64() * extent,
			Width:  10 + rng.Float64()*40,
			Height: 10 + rng.Float64()*40,
		}
	}
	return objects
}

func BenchmarkNaive_50(b *testing.B)  { benchmarkPath(b, 50, false) }
func BenchmarkNaive_100(b *testing.B) { benchmarkPath(b, 100, false) }
func BenchmarkNaive_200(b *testing.B) { benchmarkPath(b, 200, false) }
func BenchmarkNaive_400(b *testing.B) { benchmarkPath(b, 400, false) }

func BenchmarkSpatialHash_50(b *testing.B)  { benchmarkPath(b, 50, true) }
func BenchmarkSpatialHash_100(b *testing.B) { benchmarkPath(b, 100, true) }
func BenchmarkSpatialHash_200(b *testing.B) { benchmarkPath(b, 200, true) }
func BenchmarkSpatialHash_400(b *testing.B) { benchmarkPath(b, 400, true) }

func benchmarkPath(b *testing.B, n int, optimized bool) {
	objects := benchScene(n)
	cfg := DefaultConfig()
	cfg.EnableOptimization = optimized
	d := NewDetector()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_ = d.Detect(objects, cfg)
	}
}

// BenchmarkBatchDetect measures the public entry point including validation
// and the pooled-detector round trip.
func BenchmarkBatchDetect_200(b *testing.B) {
	objects := benchScene(200)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := BatchDetect(objects, nil); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDetectorReuse_200(b *testing.B) {
	// Reused detector: the per-frame steady state a pooled caller sees.
	objects := benchScene(200)
	cfg := DefaultConfig()
	d := NewDetector()
	d.Detect(objects, cfg) // warm buffers

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_ = d.Detect(objects, cfg)
	}
}
