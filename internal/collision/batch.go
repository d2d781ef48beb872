package collision

import "sync"

// Defaults applied when the caller passes a nil config.
const (
	DefaultCellSize          = 50.0
	DefaultMaxObjectsPerCell = 10
)

// Config tunes one detection call.
type Config struct {
	// EnableOptimization selects the spatial hash path. When false every
	// pair is tested directly.
	EnableOptimization bool `json:"enableOptimization"`

	// CellSize is the grid cell edge length. Best tuned to roughly the
	// median object size; must be positive.
	CellSize float64 `json:"cellSize"`

	// MaxObjectsPerCell is the advisory occupancy limit. Exceeding it never
	// aborts detection, it only surfaces in Stats for tuning.
	MaxObjectsPerCell int `json:"maxObjectsPerCell"`
}

// DefaultConfig returns the configuration used when none is supplied.
func DefaultConfig() Config {
	return Config{
		EnableOptimization: true,
		CellSize:           DefaultCellSize,
		MaxObjectsPerCell:  DefaultMaxObjectsPerCell,
	}
}

// Validate checks the configuration, returning a *ConfigError naming the
// offending field.
func (c Config) Validate() error {
	if c.CellSize <= 0 {
		return &ConfigError{Field: "cellSize", Value: c.CellSize}
	}
	if c.MaxObjectsPerCell <= 0 {
		return &ConfigError{Field: "maxObjectsPerCell", Value: float64(c.MaxObjectsPerCell)}
	}
	return nil
}

// validateObjects rejects the whole batch on the first malformed AABB.
func validateObjects(objects []AABB) error {
	for i, box := range objects {
		if box.Width < 0 {
			return &InputError{Index: i, Field: "width", Value: box.Width}
		}
		if box.Height < 0 {
			return &InputError{Index: i, Field: "height", Value: box.Height}
		}
	}
	return nil
}

// detectorPool recycles Detectors so the package-level entry points allocate
// nothing steady-state under a per-frame call pattern.
var detectorPool = sync.Pool{
	New: func() any { return NewDetector() },
}

// BatchDetect is the public entry point: validate, dispatch, collect.
//
// A nil cfg applies DefaultConfig. Empty and single-object batches return an
// empty pair list. On error no partial results are returned.
func BatchDetect(objects []AABB, cfg *Config) ([]CollisionPair, error) {
	pairs, _, err := BatchDetectWithStats(objects, cfg)
	return pairs, err
}

// BatchDetectWithStats is BatchDetect plus the diagnostics secondary output.
func BatchDetectWithStats(objects []AABB, cfg *Config) ([]CollisionPair, Stats, error) {
	conf := DefaultConfig()
	if cfg != nil {
		conf = *cfg
	}

	if err := conf.Validate(); err != nil {
		return nil, Stats{}, err
	}
	if err := validateObjects(objects); err != nil {
		return nil, Stats{}, err
	}

	d := detectorPool.Get().(*Detector)
	scratch, stats := d.DetectWithStats(objects, conf)

	// Copy out of the detector-owned buffer before pooling.
	pairs := make([]CollisionPair, len(scratch))
	copy(pairs, scratch)
	detectorPool.Put(d)

	return pairs, stats, nil
}
