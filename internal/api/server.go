package api

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"collider/internal/scene"
)

// Server is the HTTP API server with WebSocket support.
// It combines the HTTP router with the WebSocket hub for real-time frames.
type Server struct {
	engine      *scene.Engine
	router      *chi.Mux
	wsHub       *WebSocketHub
	rateLimiter *IPRateLimiter
}

// NewServer creates a new API server with default production configuration.
//
// IMPORTANT: Background workers do NOT start until Start() is called.
// This enables testing by allowing the server to be constructed without
// starting goroutines or opening network listeners.
//
// For testing HTTP endpoints without WebSocket support, use NewRouter() directly.
func NewServer(engine *scene.Engine) *Server {
	s := &Server{
		engine: engine,
		wsHub:  NewWebSocketHub(),
	}

	// Create rate limiter (we track it for cleanup on Stop)
	s.rateLimiter = NewIPRateLimiter(DefaultRateLimitConfig)

	s.router = NewRouter(RouterConfig{
		Engine:      engine,
		RateLimiter: s.rateLimiter,
		WSHandler:   s.wsHub.HandleWebSocket,
	})

	return s
}

// Start begins the HTTP server AND starts background workers.
// This is the ONLY method that starts goroutines or opens network listeners.
//
// Call this method only once. To stop the server, signal the process.
func (s *Server) Start(addr string) error {
	// Start background workers NOW, not in constructor.
	go s.wsHub.Run()

	// Every published frame goes out over the hub and into metrics.
	s.engine.OnFrame = func(f *scene.Frame) {
		RecordDetection(f.Stats, f.Elapsed)
		s.wsHub.BroadcastFrame(f)
	}
	s.engine.Start()

	log.Printf("🌐 API server starting on %s", addr)
	log.Printf("   - state:  http://localhost%s/api/state", addr)
	log.Printf("   - frame:  http://localhost%s/api/frame.png", addr)

	return http.ListenAndServe(addr, s.router)
}

// Router returns the HTTP handler for use with httptest.
// Use this in integration tests instead of calling Start().
func (s *Server) Router() http.Handler {
	return s.router
}

// Hub returns the WebSocket hub (for stats endpoints and tests).
func (s *Server) Hub() *WebSocketHub {
	return s.wsHub
}

// Stop performs graceful shutdown of background workers.
// Call this before process exit to ensure clean cleanup.
func (s *Server) Stop() {
	s.engine.Stop()
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	// WebSocket connections close when the process exits.
}
