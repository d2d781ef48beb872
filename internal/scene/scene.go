// Package scene hosts the caller side of the collision engine: a simulated
// world of moving boxes and a ticker-driven loop that snapshots it and runs
// batch detection once per tick. All scene mutation happens here; the engine
// only ever sees an immutable copy.
package scene

import (
	"math/rand"

	"collider/internal/collision"
)

// Params configures a simulated scene.
type Params struct {
	WorldWidth  float64 `json:"worldWidth"`
	WorldHeight float64 `json:"worldHeight"`
	ObjectCount int     `json:"objectCount"`
	MinSize     float64 `json:"minSize"`
	MaxSize     float64 `json:"maxSize"`
	MaxSpeed    float64 `json:"maxSpeed"` // units per second
	Seed        int64   `json:"seed"`
}

// DefaultParams returns a scene comparable to the interactive demo: a few
// hundred mid-sized boxes drifting in a 1280x720 world.
func DefaultParams() Params {
	return Params{
		WorldWidth:  1280,
		WorldHeight: 720,
		ObjectCount: 200,
		MinSize:     10,
		MaxSize:     60,
		MaxSpeed:    120,
		Seed:        1,
	}
}

// Scene is a set of boxes with velocities, bouncing inside world bounds.
// Not safe for concurrent use; the owning Engine serializes access.
type Scene struct {
	params Params
	boxes  []collision.AABB
	vels   [][2]float64
}

// New creates a scene with deterministic positions and velocities for the
// given seed, so demo runs and tests are reproducible.
func New(params Params) *Scene {
	s := &Scene{}
	s.Reset(params)
	return s
}

// Reset repopulates the scene from params, reusing storage where possible.
func (s *Scene) Reset(params Params) {
	s.params = params
	rng := rand.New(rand.NewSource(params.Seed))

	s.boxes = s.boxes[:0]
	s.vels = s.vels[:0]
	for i := 0; i < params.ObjectCount; i++ {
		w := params.MinSize + rng.Float64()*(params.MaxSize-params.MinSize)
		h := params.MinSize + rng.Float64()*(params.MaxSize-params.MinSize)
		s.boxes = append(s.boxes, collision.AABB{
			X:      rng.Float64() * (params.WorldWidth - w),
			Y:      rng.Float64() * (params.WorldHeight - h),
			Width:  w,
			Height: h,
		})
		s.vels = append(s.vels, [2]float64{
			(rng.Float64()*2 - 1) * params.MaxSpeed,
			(rng.Float64()*2 - 1) * params.MaxSpeed,
		})
	}
}

// Step advances every box by dt seconds, bouncing off the world edges.
func (s *Scene) Step(dt float64) {
	for i := range s.boxes {
		b := &s.boxes[i]
		v := &s.vels[i]

		b.X += v[0] * dt
		b.Y += v[1] * dt

		if b.X < 0 {
			b.X = 0
			v[0] = -v[0]
		} else if b.X+b.Width > s.params.WorldWidth {
			b.X = s.params.WorldWidth - b.Width
			v[0] = -v[0]
		}
		if b.Y < 0 {
			b.Y = 0
			v[1] = -v[1]
		} else if b.Y+b.Height > s.params.WorldHeight {
			b.Y = s.params.WorldHeight - b.Height
			v[1] = -v[1]
		}
	}
}

// Snapshot copies the current boxes out. The engine requires a borrowed
// immutable view per call; handing it a copy means the next Step can never
// race a detection in flight.
func (s *Scene) Snapshot() []collision.AABB {
	out := make([]collision.AABB, len(s.boxes))
	copy(out, s.boxes)
	return out
}

// Count returns the number of boxes.
func (s *Scene) Count() int {
	return len(s.boxes)
}

// Params returns the parameters the scene was last reset with.
func (s *Scene) Params() Params {
	return s.params
}
