package collision

import "testing"

func TestIntersects(t *testing.T) {
	tests := []struct {
		name string
		a, b AABB
		want bool
	}{
		{"clear overlap", AABB{0, 0, 10, 10}, AABB{5, 5, 10, 10}, true},
		{"disjoint", AABB{0, 0, 10, 10}, AABB{100, 100, 10, 10}, false},
		{"contained", AABB{0, 0, 100, 100}, AABB{40, 40, 10, 10}, true},
		{"identical", AABB{3, 3, 7, 7}, AABB{3, 3, 7, 7}, true},
		{"touching right edge", AABB{0, 0, 10, 10}, AABB{10, 0, 10, 10}, false},
		{"touching bottom edge", AABB{0, 0, 10, 10}, AABB{0, 10, 10, 10}, false},
		{"touching corner", AABB{0, 0, 10, 10}, AABB{10, 10, 10, 10}, false},
		{"one pixel past edge", AABB{0, 0, 10, 10}, AABB{9, 0, 10, 10}, true},
		{"sub-unit overlap", AABB{0, 0, 10, 10}, AABB{9.5, 9.5, 10, 10}, true},
		{"zero width never collides", AABB{5, 5, 0, 10}, AABB{0, 0, 10, 10}, false},
		{"zero height never collides", AABB{5, 5, 10, 0}, AABB{0, 0, 10, 10}, false},
		{"negative coordinates", AABB{-10, -10, 15, 15}, AABB{0, 0, 10, 10}, true},
		{"negative disjoint", AABB{-20, -20, 5, 5}, AABB{0, 0, 10, 10}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Intersects(tt.b); got != tt.want {
				t.Errorf("Intersects(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			// Symmetric by construction; check anyway.
			if got := tt.b.Intersects(tt.a); got != tt.want {
				t.Errorf("Intersects(%v, %v) = %v, want %v", tt.b, tt.a, got, tt.want)
			}
		})
	}
}
