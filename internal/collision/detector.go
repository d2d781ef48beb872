package collision

import (
	"sort"

	"collider/internal/collision/spatial"
)

// Detection path names. Bounded set, safe as a metrics label.
const (
	PathNaive       = "naive"
	PathSpatialHash = "spatial_hash"
)

// naiveCutoff is the batch size below which the pairwise scan beats the grid
// even when optimization is enabled: building and hashing buckets for a
// handful of objects costs more than testing every pair outright.
const naiveCutoff = 16

// Stats is the optional diagnostics output of one detection call, meant for
// tuning and monitoring. It never affects the pair set.
type Stats struct {
	Path       string            `json:"path"`       // which strategy ran
	Objects    int               `json:"objects"`    // input size
	Candidates int               `json:"candidates"` // pairs actually tested
	Pairs      int               `json:"pairs"`      // overlapping pairs found
	Grid       spatial.GridStats `json:"grid"`       // zero value on the naive path
}

// Detector runs broad-phase detection, reusing its grid and output buffers
// across calls. A Detector is not safe for concurrent use; distinct Detectors
// share nothing and may run in parallel.
type Detector struct {
	grid  *spatial.Grid
	pairs []CollisionPair
}

// NewDetector creates a reusable detector.
func NewDetector() *Detector {
	return &Detector{
		grid: spatial.NewGrid(DefaultCellSize, DefaultMaxObjectsPerCell),
	}
}

// Detect returns the overlapping pairs for objects under cfg, sorted
// ascending by (A, B).
//
// The returned slice is owned by the Detector and valid until the next call;
// BatchDetect copies it out before pooling. cfg is assumed validated.
func (d *Detector) Detect(objects []AABB, cfg Config) []CollisionPair {
	pairs, _ := d.DetectWithStats(objects, cfg)
	return pairs
}

// DetectWithStats is Detect plus per-call diagnostics.
func (d *Detector) DetectWithStats(objects []AABB, cfg Config) ([]CollisionPair, Stats) {
	d.pairs = d.pairs[:0]
	n := len(objects)
	stats := Stats{Objects: n}

	if !cfg.EnableOptimization || n < naiveCutoff {
		stats.Path = PathNaive
		stats.Candidates = n * (n - 1) / 2
		d.pairs = naivePairs(objects, d.pairs)
		stats.Pairs = len(d.pairs)
		return d.pairs, stats
	}

	stats.Path = PathSpatialHash
	d.grid.Reset(cfg.CellSize, cfg.MaxObjectsPerCell)
	for i, box := range objects {
		d.grid.Insert(int32(i), box.X, box.Y, box.X+box.Width, box.Y+box.Height)
	}

	// The grid deduplicates candidates across shared cells; the overlap test
	// itself stays here so both paths apply the one Intersects predicate.
	candidates := d.grid.Candidates()
	stats.Candidates = len(candidates)
	for _, c := range candidates {
		i, j := int(c[0]), int(c[1])
		if objects[i].Intersects(objects[j]) {
			d.pairs = append(d.pairs, CollisionPair{A: i, B: j})
		}
	}

	// Bucket iteration order is randomized by the map; sort for the
	// deterministic output ordering both paths guarantee.
	sort.Slice(d.pairs, func(a, b int) bool {
		if d.pairs[a].A != d.pairs[b].A {
			return d.pairs[a].A < d.pairs[b].A
		}
		return d.pairs[a].B < d.pairs[b].B
	})

	stats.Pairs = len(d.pairs)
	stats.Grid = d.grid.Stats()
	return d.pairs, stats
}
