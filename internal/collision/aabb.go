// Package collision implements broad-phase 2D collision detection over
// axis-aligned bounding boxes: given a batch of AABBs it reports which index
// pairs currently overlap, via either an O(n²) pairwise scan or a spatial
// hash grid, with both paths guaranteed to produce the identical pair set.
//
// The engine is stateless across calls. It borrows the input slice read-only
// for the duration of one call and retains no reference to it afterwards, so
// independent calls may run concurrently as long as each gets its own input.
package collision

// AABB is an axis-aligned bounding box with a top-left origin.
// Width and Height must be non-negative; negative extents are rejected by the
// batch API as input errors.
type AABB struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Intersects reports whether two boxes strictly overlap.
//
// The test is open-interval: boxes that merely touch at an edge or corner
// (zero-area intersection) do not collide. Degenerate boxes (zero width or
// height) are rejected outright before the interval checks; the raw formula
// alone would report a zero-extent box lying strictly inside another as a
// collision. Both detection paths use this exact predicate, which is what
// makes their outputs equivalent.
func (a AABB) Intersects(b AABB) bool {
	if a.Width <= 0 || a.Height <= 0 || b.Width <= 0 || b.Height <= 0 {
		return false
	}
	return a.X < b.X+b.Width && a.X+a.Width > b.X &&
		a.Y < b.Y+b.Height && a.Y+a.Height > b.Y
}

// CollisionPair references two overlapping objects by their positions in the
// input slice, always with A < B. A returned pair list contains no duplicates
// and is sorted ascending by (A, B).
type CollisionPair struct {
	A int `json:"index1"`
	B int `json:"index2"`
}
