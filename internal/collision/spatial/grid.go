// Package spatial provides the uniform hash grid backing the accelerated
// broad-phase path.
//
// Buckets are keyed by a packed 64-bit cell coordinate (no string keys on the
// hot path) and all internal storage survives Reset, so a pooled grid does no
// steady-state allocation when reused frame after frame.
package spatial

import "math"

// Grid buckets object indices by the cells their bounds overlap.
// An object larger than one cell is inserted into every cell it touches.
//
// The zero value is not usable; construct with NewGrid.
type Grid struct {
	cellSize    float64
	invCellSize float64 // 1/cellSize for faster division
	maxPerCell  int     // advisory occupancy limit, never enforced

	cells      map[uint64][]int32
	seen       map[uint64]struct{}
	candidates [][2]int32
	inserted   int
}

// NewGrid creates a grid. cellSize must be positive; the caller validates.
// maxPerCell is the advisory per-cell occupancy used by Stats.
func NewGrid(cellSize float64, maxPerCell int) *Grid {
	g := &Grid{
		cells: make(map[uint64][]int32, 64),
		seen:  make(map[uint64]struct{}, 64),
	}
	g.Reset(cellSize, maxPerCell)
	return g
}

// Reset clears all buckets and reconfigures the grid without releasing the
// underlying storage. O(number of buckets), not number of objects.
func (g *Grid) Reset(cellSize float64, maxPerCell int) {
	g.cellSize = cellSize
	g.invCellSize = 1.0 / cellSize
	g.maxPerCell = maxPerCell
	g.inserted = 0
	g.candidates = g.candidates[:0]
	clear(g.cells)
	clear(g.seen)
}

// Insert adds object id to every cell overlapped by the bounds
// [minX, maxX] x [minY, maxY].
func (g *Grid) Insert(id int32, minX, minY, maxX, maxY float64) {
	minCX, minCY := g.cellCoord(minX), g.cellCoord(minY)
	maxCX, maxCY := g.cellCoord(maxX), g.cellCoord(maxY)

	for cy := minCY; cy <= maxCY; cy++ {
		for cx := minCX; cx <= maxCX; cx++ {
			k := cellKey(cx, cy)
			g.cells[k] = append(g.cells[k], id)
		}
	}
	g.inserted++
}

// Candidates returns every unordered index pair sharing at least one cell,
// each pair reported exactly once with the smaller index first. Pair order is
// unspecified; callers needing determinism sort after filtering.
//
// The returned slice is reused by the next Reset.
func (g *Grid) Candidates() [][2]int32 {
	for _, bucket := range g.cells {
		if len(bucket) < 2 {
			continue
		}
		for i := 0; i < len(bucket); i++ {
			for j := i + 1; j < len(bucket); j++ {
				a, b := bucket[i], bucket[j]
				if a == b {
					continue
				}
				if a > b {
					a, b = b, a
				}
				k := pairKey(a, b)
				if _, dup := g.seen[k]; dup {
					continue
				}
				g.seen[k] = struct{}{}
				g.candidates = append(g.candidates, [2]int32{a, b})
			}
		}
	}
	return g.candidates
}

// Stats reports bucket occupancy for diagnostics. Overloaded counts buckets
// above the advisory maxPerCell limit; detection results are unaffected.
func (g *Grid) Stats() GridStats {
	s := GridStats{Inserted: g.inserted}
	for _, bucket := range g.cells {
		n := len(bucket)
		if n == 0 {
			continue
		}
		s.NonEmptyCells++
		s.Entries += n
		if n > s.MaxInCell {
			s.MaxInCell = n
		}
		if g.maxPerCell > 0 && n > g.maxPerCell {
			s.OverloadedCells++
		}
	}
	return s
}

// CellSize returns the configured cell size.
func (g *Grid) CellSize() float64 {
	return g.cellSize
}

// GridStats describes grid occupancy after one build.
type GridStats struct {
	Inserted        int `json:"inserted"`        // objects inserted
	Entries         int `json:"entries"`         // total (object, cell) entries
	NonEmptyCells   int `json:"nonEmptyCells"`   // buckets holding >= 1 object
	MaxInCell       int `json:"maxInCell"`       // largest bucket
	OverloadedCells int `json:"overloadedCells"` // buckets above the advisory limit
}

func (g *Grid) cellCoord(v float64) int {
	return int(math.Floor(v * g.invCellSize))
}

// cellKey packs signed cell coordinates into one map key. Negative
// coordinates round-trip through the uint32 truncation unambiguously.
func cellKey(cx, cy int) uint64 {
	return uint64(uint32(cx))<<32 | uint64(uint32(cy))
}

// pairKey packs an ordered index pair (a < b) for the seen-pairs set.
func pairKey(a, b int32) uint64 {
	return uint64(uint32(a))<<32 | uint64(uint32(b))
}
