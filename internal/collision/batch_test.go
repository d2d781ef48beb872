package collision

import (
	"errors"
	"testing"
)

func TestBatchDetectDefaults(t *testing.T) {
	// nil config applies defaults and succeeds.
	objects := []AABB{
		{0, 0, 10, 10},
		{5, 5, 10, 10},
		{100, 100, 10, 10},
	}

	pairs, stats, err := BatchDetectWithStats(objects, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pairs) != 1 || pairs[0] != (CollisionPair{0, 1}) {
		t.Errorf("expected single pair {0 1}, got %v", pairs)
	}
	if stats.Objects != 3 {
		t.Errorf("expected 3 objects in stats, got %d", stats.Objects)
	}

	cfg := DefaultConfig()
	if !cfg.EnableOptimization || cfg.CellSize != 50 || cfg.MaxObjectsPerCell != 10 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestBatchDetectEmptyAndSingle(t *testing.T) {
	pairs, err := BatchDetect(nil, nil)
	if err != nil {
		t.Fatalf("empty input must not error: %v", err)
	}
	if pairs == nil || len(pairs) != 0 {
		t.Errorf("expected empty non-nil pair list, got %v", pairs)
	}

	pairs, err = BatchDetect([]AABB{{0, 0, 10, 10}}, nil)
	if err != nil {
		t.Fatalf("single object must not error: %v", err)
	}
	if len(pairs) != 0 {
		t.Errorf("expected no pairs for single object, got %v", pairs)
	}
}

func TestBatchDetectConfigValidation(t *testing.T) {
	objects := []AABB{{0, 0, 10, 10}, {5, 5, 10, 10}}

	tests := []struct {
		name  string
		cfg   Config
		field string
	}{
		{"zero cell size", Config{EnableOptimization: true, CellSize: 0, MaxObjectsPerCell: 10}, "cellSize"},
		{"negative cell size", Config{EnableOptimization: true, CellSize: -5, MaxObjectsPerCell: 10}, "cellSize"},
		{"zero max per cell", Config{EnableOptimization: true, CellSize: 50, MaxObjectsPerCell: 0}, "maxObjectsPerCell"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pairs, err := BatchDetect(objects, &tt.cfg)
			if err == nil {
				t.Fatal("expected ConfigError, got nil")
			}
			var cerr *ConfigError
			if !errors.As(err, &cerr) {
				t.Fatalf("expected *ConfigError, got %T: %v", err, err)
			}
			if cerr.Field != tt.field {
				t.Errorf("expected field %q, got %q", tt.field, cerr.Field)
			}
			if pairs != nil {
				t.Errorf("no partial results on error, got %v", pairs)
			}
		})
	}

	// Config is validated even when the naive path would run.
	bad := Config{EnableOptimization: false, CellSize: 0, MaxObjectsPerCell: 10}
	if _, err := BatchDetect(objects, &bad); err == nil {
		t.Error("expected ConfigError with optimization disabled too")
	}
}

func TestBatchDetectInputValidation(t *testing.T) {
	objects := []AABB{
		{0, 0, 10, 10},
		{5, 5, -1, 10}, // negative width
		{6, 6, 10, 10},
	}

	pairs, err := BatchDetect(objects, nil)
	if err == nil {
		t.Fatal("expected InputError, got nil")
	}
	var ierr *InputError
	if !errors.As(err, &ierr) {
		t.Fatalf("expected *InputError, got %T: %v", err, err)
	}
	if ierr.Index != 1 || ierr.Field != "width" {
		t.Errorf("expected index 1 field width, got index %d field %q", ierr.Index, ierr.Field)
	}
	if pairs != nil {
		t.Errorf("whole batch must be rejected, got %v", pairs)
	}

	// Negative height as well.
	objects[1] = AABB{5, 5, 10, -0.5}
	if _, err := BatchDetect(objects, nil); err == nil {
		t.Error("expected InputError for negative height")
	}

	// Zero extents are degenerate but valid input.
	objects[1] = AABB{5, 5, 0, 0}
	pairs, err = BatchDetect(objects, nil)
	if err != nil {
		t.Fatalf("zero-extent box must be accepted: %v", err)
	}
	for _, p := range pairs {
		if p.A == 1 || p.B == 1 {
			t.Errorf("degenerate box must not collide, got pair %v", p)
		}
	}
}

func TestBatchDetectCopiesOutput(t *testing.T) {
	// Results must stay valid after the pooled detector is reused.
	objects := []AABB{{0, 0, 10, 10}, {5, 5, 10, 10}}

	first, err := BatchDetect(objects, nil)
	if err != nil {
		t.Fatal(err)
	}

	// Churn the pool with a different scene.
	other := []AABB{{0, 0, 5, 5}, {100, 100, 5, 5}}
	if _, err := BatchDetect(other, nil); err != nil {
		t.Fatal(err)
	}

	if len(first) != 1 || first[0] != (CollisionPair{0, 1}) {
		t.Errorf("earlier result was clobbered by pooled reuse: %v", first)
	}
}
