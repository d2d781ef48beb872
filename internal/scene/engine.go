package scene

import (
	"log"
	"sync"
	"sync/atomic"
	"time"

	"collider/internal/collision"
)

// Frame is the immutable result of one tick: the scene snapshot that was
// detected against and everything the detection returned. Readers get the
// whole frame or none of it, never a torn view.
type Frame struct {
	Tick    int64                     `json:"tick"`
	Objects []collision.AABB          `json:"objects"`
	Pairs   []collision.CollisionPair `json:"pairs"`
	Stats   collision.Stats           `json:"stats"`
	Elapsed time.Duration             `json:"elapsedNs"`
}

// Engine drives the demo loop: step scene, snapshot, detect, publish frame.
// It is the only writer of scene state; frames are published lock-free.
type Engine struct {
	mu       sync.Mutex
	scene    *Scene
	cfg      collision.Config
	tickRate int
	running  bool
	ticker   *time.Ticker
	stopChan chan struct{}

	tickCount int64
	frame     atomic.Pointer[Frame]

	// OnFrame, when set before Start, is invoked after each tick with the
	// published frame (feeds the websocket hub). Must not block.
	OnFrame func(*Frame)
}

// NewEngine creates an engine over a fresh scene.
func NewEngine(params Params, cfg collision.Config, tickRate int) *Engine {
	return &Engine{
		scene:    New(params),
		cfg:      cfg,
		tickRate: tickRate,
		stopChan: make(chan struct{}),
	}
}

// Start begins the tick loop. Safe to call once.
func (e *Engine) Start() {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return
	}
	e.running = true
	e.mu.Unlock()

	e.ticker = time.NewTicker(time.Second / time.Duration(e.tickRate))

	go func() {
		for {
			select {
			case <-e.ticker.C:
				e.tick()
			case <-e.stopChan:
				return
			}
		}
	}()

	log.Printf("🎮 Scene engine started at %d TPS with %d objects", e.tickRate, e.scene.Count())
}

// Stop halts the tick loop. Safe to call more than once.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.running {
		return
	}
	e.running = false
	if e.ticker != nil {
		e.ticker.Stop()
	}
	close(e.stopChan)
	log.Println("🛑 Scene engine stopped")
}

// tick advances the scene one step and runs detection on a snapshot.
func (e *Engine) tick() {
	e.mu.Lock()
	e.tickCount++
	tick := e.tickCount

	e.scene.Step(1.0 / float64(e.tickRate))
	objects := e.scene.Snapshot()
	cfg := e.cfg
	e.mu.Unlock()

	// Detection runs outside the lock on the snapshot copy.
	start := time.Now()
	pairs, stats, err := collision.BatchDetectWithStats(objects, &cfg)
	elapsed := time.Since(start)
	if err != nil {
		// Config is validated on the way in, so this indicates a bug.
		log.Printf("⚠️ Detection failed on tick %d: %v", tick, err)
		return
	}

	frame := &Frame{
		Tick:    tick,
		Objects: objects,
		Pairs:   pairs,
		Stats:   stats,
		Elapsed: elapsed,
	}
	e.frame.Store(frame)

	if e.OnFrame != nil {
		e.OnFrame(frame)
	}
}

// Frame returns the most recently published frame, or nil before the first
// tick completes. Lock-free.
func (e *Engine) Frame() *Frame {
	return e.frame.Load()
}

// TickCount returns the number of completed ticks.
func (e *Engine) TickCount() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tickCount
}

// Config returns the detection configuration used on each tick.
func (e *Engine) Config() collision.Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg
}

// SetConfig swaps the detection configuration, rejecting invalid values
// before they can reach the hot path.
func (e *Engine) SetConfig(cfg collision.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	e.mu.Lock()
	e.cfg = cfg
	e.mu.Unlock()
	log.Printf("🔧 Detection config updated: optimization=%v cellSize=%v maxPerCell=%d",
		cfg.EnableOptimization, cfg.CellSize, cfg.MaxObjectsPerCell)
	return nil
}

// ResetScene rebuilds the scene in place with new parameters.
func (e *Engine) ResetScene(params Params) {
	e.mu.Lock()
	e.scene.Reset(params)
	e.mu.Unlock()
	log.Printf("🔄 Scene reset: %d objects, seed %d", params.ObjectCount, params.Seed)
}

// SceneParams returns the parameters of the current scene.
func (e *Engine) SceneParams() Params {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scene.Params()
}
