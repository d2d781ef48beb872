// Command bench measures how broad-phase detection scales with object count,
// comparing the naive pairwise scan against the spatial hash on identical
// scenes. It prints a table, dumps JSON results, and renders a chart.
package main

import (
	"encoding/json"
	"image/color"
	"log"
	"os"
	"sort"
	"time"

	"github.com/joho/godotenv"

	"collider/internal/collision"
	"collider/internal/config"
	"collider/internal/render"
	"collider/internal/scene"
)

// result holds the measurements for one object count.
type result struct {
	Objects      int     `json:"objects"`
	Pairs        int     `json:"pairs"`
	Candidates   int     `json:"candidates"`
	NaiveMs      float64 `json:"naiveMs"`
	SpatialMs    float64 `json:"spatialMs"`
	SpeedupRatio float64 `json:"speedup"`
}

func main() {
	if err := godotenv.Load(".env"); err == nil {
		log.Println("✅ Loaded environment from .env")
	}

	appConfig := config.Load()
	benchCfg := appConfig.Bench
	sceneCfg := appConfig.Scene
	detectCfg := appConfig.Detection

	log.Println("📊 Broad-phase scaling benchmark")
	log.Printf("   counts=%v samples=%d cellSize=%v", benchCfg.Counts, benchCfg.Samples, detectCfg.CellSize)

	naiveCfg := collision.Config{
		EnableOptimization: false,
		CellSize:           detectCfg.CellSize,
		MaxObjectsPerCell:  detectCfg.MaxObjectsPerCell,
	}
	spatialCfg := naiveCfg
	spatialCfg.EnableOptimization = true

	results := make([]result, 0, len(benchCfg.Counts))
	for _, n := range benchCfg.Counts {
		params := scene.Params{
			WorldWidth:  sceneCfg.WorldWidth,
			WorldHeight: sceneCfg.WorldHeight,
			ObjectCount: n,
			MinSize:     sceneCfg.MinSize,
			MaxSize:     sceneCfg.MaxSize,
			MaxSpeed:    sceneCfg.MaxSpeed,
			Seed:        sceneCfg.Seed,
		}
		objects := scene.New(params).Snapshot()

		naivePairs, _, err := collision.BatchDetectWithStats(objects, &naiveCfg)
		if err != nil {
			log.Fatalf("❌ Naive detection failed for n=%d: %v", n, err)
		}
		spatialPairs, stats, err := collision.BatchDetectWithStats(objects, &spatialCfg)
		if err != nil {
			log.Fatalf("❌ Spatial detection failed for n=%d: %v", n, err)
		}

		// Both strategies must agree on every scene before we time anything.
		if !equalPairs(naivePairs, spatialPairs) {
			log.Fatalf("❌ Strategy mismatch for n=%d: naive found %d pairs, spatial found %d",
				n, len(naivePairs), len(spatialPairs))
		}

		r := result{
			Objects:    n,
			Pairs:      len(spatialPairs),
			Candidates: stats.Candidates,
			NaiveMs:    medianMs(objects, &naiveCfg, benchCfg.Samples),
			SpatialMs:  medianMs(objects, &spatialCfg, benchCfg.Samples),
		}
		if r.SpatialMs > 0 {
			r.SpeedupRatio = r.NaiveMs / r.SpatialMs
		}
		results = append(results, r)

		log.Printf("   n=%4d  pairs=%4d  naive=%8.3fms  spatial=%8.3fms  speedup=%.1fx",
			r.Objects, r.Pairs, r.NaiveMs, r.SpatialMs, r.SpeedupRatio)
	}

	if benchCfg.ResultsPath != "" {
		if err := writeResults(benchCfg.ResultsPath, results); err != nil {
			log.Printf("⚠️ Failed to write results: %v", err)
		} else {
			log.Printf("💾 Results written to %s", benchCfg.ResultsPath)
		}
	}

	if benchCfg.ChartPath != "" {
		if err := writeChart(benchCfg.ChartPath, results); err != nil {
			log.Printf("⚠️ Failed to render chart: %v", err)
		} else {
			log.Printf("📈 Chart written to %s", benchCfg.ChartPath)
		}
	}
}

// medianMs times detection samples times and returns the median in
// milliseconds. The median shrugs off scheduler noise better than the mean.
func medianMs(objects []collision.AABB, cfg *collision.Config, samples int) float64 {
	if samples < 1 {
		samples = 1
	}
	durations := make([]time.Duration, 0, samples)
	for i := 0; i < samples; i++ {
		start := time.Now()
		if _, err := collision.BatchDetect(objects, cfg); err != nil {
			log.Fatalf("❌ Detection failed during timing: %v", err)
		}
		durations = append(durations, time.Since(start))
	}
	sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })
	return float64(durations[len(durations)/2].Nanoseconds()) / 1e6
}

func equalPairs(a, b []collision.CollisionPair) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func writeResults(path string, results []result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

func writeChart(path string, results []result) error {
	naive := render.ChartSeries{
		Label: "naive O(n^2)",
		Color: color.RGBA{200, 60, 60, 255},
	}
	spatial := render.ChartSeries{
		Label: "spatial hash",
		Color: color.RGBA{60, 120, 200, 255},
	}
	for _, r := range results {
		naive.Points = append(naive.Points, render.ChartPoint{N: r.Objects, Millis: r.NaiveMs})
		spatial.Points = append(spatial.Points, render.ChartPoint{N: r.Objects, Millis: r.SpatialMs})
	}

	img := render.ScalingChart([]render.ChartSeries{naive, spatial}, 800, 500)
	return render.SavePNG(path, img)
}
