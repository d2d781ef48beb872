package collision

import (
	"testing"
	"time"
)

// =============================================================================
// SCALING GUARD: the spatial hash path must grow sub-quadratically relative
// to the naive path. A regression guard with generous margins, not an exact
// complexity bound.
// Run with: go test -v -run=TestScaling ./internal/collision/...
// =============================================================================

func medianDetectTime(d *Detector, objects []AABB, cfg Config, samples int) time.Duration {
	times := make([]time.Duration, 0, samples)
	for i := 0; i < samples; i++ {
		start := time.Now()
		_ = d.Detect(objects, cfg)
		times = append(times, time.Since(start))
	}
	// Insertion sort; samples is tiny.
	for i := 1; i < len(times); i++ {
		for j := i; j > 0 && times[j] < times[j-1]; j-- {
			times[j], times[j-1] = times[j-1], times[j]
		}
	}
	return times[len(times)/2]
}

func TestScalingSubQuadratic(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping timing-sensitive scaling guard in short mode")
	}

	const samples = 21
	counts := []int{50, 100, 200, 400}

	naiveCfg := DefaultConfig()
	naiveCfg.EnableOptimization = false
	gridCfg := DefaultConfig()

	d := NewDetector()
	naiveTimes := make([]time.Duration, len(counts))
	gridTimes := make([]time.Duration, len(counts))

	for i, n := range counts {
		objects := benchScene(n)
		// Warm up buffers and caches before sampling.
		d.Detect(objects, naiveCfg)
		d.Detect(objects, gridCfg)
		naiveTimes[i] = medianDetectTime(d, objects, naiveCfg, samples)
		gridTimes[i] = medianDetectTime(d, objects, gridCfg, samples)
		t.Logf("n=%3d: naive=%v spatial_hash=%v", n, naiveTimes[i], gridTimes[i])
	}

	// Compare growth over the full 8x range of n. The naive path should grow
	// roughly 64x; the grid path roughly 8x. Requiring the grid's growth
	// factor to stay under half the naive's leaves a wide margin for noisy
	// CI machines.
	first, last := 0, len(counts)-1
	naiveGrowth := float64(naiveTimes[last]) / float64(naiveTimes[first])
	gridGrowth := float64(gridTimes[last]) / float64(gridTimes[first])
	t.Logf("growth over %dx objects: naive=%.1fx spatial_hash=%.1fx",
		counts[last]/counts[first], naiveGrowth, gridGrowth)

	if gridGrowth >= naiveGrowth/2 {
		t.Errorf("spatial hash growth %.1fx not sub-quadratic relative to naive %.1fx",
			gridGrowth, naiveGrowth)
	}
}
