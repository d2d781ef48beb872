// Package config provides centralized configuration management.
// This is the SINGLE SOURCE OF TRUTH for server, scene, detection and
// benchmark settings.
//
// Environment variables override the defaults; all other parts of the
// codebase should reference these values instead of reading the environment
// themselves.
package config

import (
	"os"
	"strconv"
	"strings"
)

// =============================================================================
// SERVER CONFIGURATION
// =============================================================================

// ServerConfig holds HTTP server and demo loop settings.
type ServerConfig struct {
	Port     int // HTTP listen port
	TickRate int // Scene ticks (and detection calls) per second
}

// DefaultServer returns the default server configuration.
func DefaultServer() ServerConfig {
	return ServerConfig{
		Port:     3000,
		TickRate: 30,
	}
}

// ServerFromEnv returns server configuration with environment overrides.
func ServerFromEnv() ServerConfig {
	cfg := DefaultServer()

	if p := getEnvInt("PORT", 0); p > 0 {
		cfg.Port = p
	}
	if tr := getEnvInt("TICK_RATE", 0); tr > 0 {
		cfg.TickRate = tr
	}

	return cfg
}

// =============================================================================
// SCENE CONFIGURATION
// =============================================================================

// SceneConfig holds the simulated demo world settings.
type SceneConfig struct {
	WorldWidth  float64 // World extent in units
	WorldHeight float64
	ObjectCount int     // Boxes in the scene
	MinSize     float64 // Box extent range
	MaxSize     float64
	MaxSpeed    float64 // Units per second
	Seed        int64   // RNG seed for reproducible scenes
}

// DefaultScene returns the default scene configuration.
func DefaultScene() SceneConfig {
	return SceneConfig{
		WorldWidth:  1280,
		WorldHeight: 720,
		ObjectCount: 200,
		MinSize:     10,
		MaxSize:     60,
		MaxSpeed:    120,
		Seed:        1,
	}
}

// SceneFromEnv returns scene configuration with environment overrides.
func SceneFromEnv() SceneConfig {
	cfg := DefaultScene()

	if w := getEnvFloat("WORLD_WIDTH", 0); w > 0 {
		cfg.WorldWidth = w
	}
	if h := getEnvFloat("WORLD_HEIGHT", 0); h > 0 {
		cfg.WorldHeight = h
	}
	if n := getEnvInt("OBJECT_COUNT", 0); n > 0 {
		cfg.ObjectCount = n
	}
	if s := getEnvFloat("OBJECT_MIN_SIZE", 0); s > 0 {
		cfg.MinSize = s
	}
	if s := getEnvFloat("OBJECT_MAX_SIZE", 0); s > 0 {
		cfg.MaxSize = s
	}
	if s := getEnvFloat("OBJECT_MAX_SPEED", 0); s > 0 {
		cfg.MaxSpeed = s
	}
	if seed := getEnvInt("SCENE_SEED", 0); seed > 0 {
		cfg.Seed = int64(seed)
	}

	return cfg
}

// =============================================================================
// DETECTION CONFIGURATION
// =============================================================================

// DetectionConfig holds the broad-phase tuning knobs.
type DetectionConfig struct {
	EnableOptimization bool    // Spatial hash vs naive pairwise scan
	CellSize           float64 // Grid cell edge, roughly median object size
	MaxObjectsPerCell  int     // Advisory per-cell occupancy for tuning signals
}

// DefaultDetection returns the default detection configuration.
func DefaultDetection() DetectionConfig {
	return DetectionConfig{
		EnableOptimization: true,
		CellSize:           50,
		MaxObjectsPerCell:  10,
	}
}

// DetectionFromEnv returns detection configuration with environment overrides.
func DetectionFromEnv() DetectionConfig {
	cfg := DefaultDetection()

	if os.Getenv("ENABLE_OPTIMIZATION") == "false" {
		cfg.EnableOptimization = false
	}
	if cs := getEnvFloat("CELL_SIZE", 0); cs > 0 {
		cfg.CellSize = cs
	}
	if m := getEnvInt("MAX_OBJECTS_PER_CELL", 0); m > 0 {
		cfg.MaxObjectsPerCell = m
	}

	return cfg
}

// =============================================================================
// BENCHMARK CONFIGURATION
// =============================================================================

// BenchConfig holds scaling-harness settings for cmd/bench.
type BenchConfig struct {
	Counts      []int  // Object counts to measure
	Samples     int    // Timed samples per count (median reported)
	ChartPath   string // Output PNG; empty disables the chart
	ResultsPath string // Output JSON; empty disables the dump
}

// DefaultBench returns the default benchmark configuration.
func DefaultBench() BenchConfig {
	return BenchConfig{
		Counts:      []int{50, 100, 200, 400},
		Samples:     21,
		ChartPath:   "bench_scaling.png",
		ResultsPath: "bench_results.json",
	}
}

// BenchFromEnv returns benchmark configuration with environment overrides.
func BenchFromEnv() BenchConfig {
	cfg := DefaultBench()

	if counts := getEnvInts("BENCH_COUNTS"); len(counts) > 0 {
		cfg.Counts = counts
	}
	if s := getEnvInt("BENCH_SAMPLES", 0); s > 0 {
		cfg.Samples = s
	}
	if p := os.Getenv("BENCH_CHART_PATH"); p != "" {
		cfg.ChartPath = p
	}
	if p := os.Getenv("BENCH_RESULTS_PATH"); p != "" {
		cfg.ResultsPath = p
	}

	return cfg
}

// =============================================================================
// COMPLETE APP CONFIGURATION
// =============================================================================

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Server    ServerConfig
	Scene     SceneConfig
	Detection DetectionConfig
	Bench     BenchConfig
}

// Load returns the complete configuration with environment overrides.
func Load() AppConfig {
	return AppConfig{
		Server:    ServerFromEnv(),
		Scene:     SceneFromEnv(),
		Detection: DetectionFromEnv(),
		Bench:     BenchFromEnv(),
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

// getEnvInts parses a comma-separated list, e.g. BENCH_COUNTS=50,100,200,400.
func getEnvInts(key string) []int {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	var out []int
	for _, part := range strings.Split(v, ",") {
		i, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || i <= 0 {
			return nil
		}
		out = append(out, i)
	}
	return out
}
