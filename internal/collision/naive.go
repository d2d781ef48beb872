package collision

// naivePairs appends every overlapping pair to out, testing each unordered
// pair exactly once in ascending (i, j) order. O(n²) time, no extra space
// beyond the output.
//
// This is the correctness oracle for the grid path and the selected path for
// small batches where grid setup would cost more than it saves.
func naivePairs(objects []AABB, out []CollisionPair) []CollisionPair {
	for i := 0; i < len(objects); i++ {
		for j := i + 1; j < len(objects); j++ {
			if objects[i].Intersects(objects[j]) {
				out = append(out, CollisionPair{A: i, B: j})
			}
		}
	}
	return out
}
