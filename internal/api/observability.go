package api

import (
	"log"
	"net/http"
	"net/http/pprof"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"collider/internal/collision"
)

// Metrics with bounded cardinality (the path label is a fixed two-value set)
var (
	detectionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "collision_detection_duration_seconds",
		Help:    "Time spent in one batch detection call",
		Buckets: []float64{0.00005, 0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025},
	}, []string{"path"}) // Bounded: "naive", "spatial_hash"

	sceneObjects = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "collision_scene_objects",
		Help: "Objects in the last detected frame",
	})

	collisionPairs = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "collision_pairs_current",
		Help: "Overlapping pairs in the last detected frame",
	})

	candidatePairs = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "collision_candidate_pairs",
		Help: "Pairs actually tested in the last detection call",
	})

	gridNonEmptyCells = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "collision_grid_nonempty_cells",
		Help: "Occupied grid cells in the last spatial hash build",
	})

	gridMaxInCell = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "collision_grid_max_objects_per_cell",
		Help: "Largest bucket in the last spatial hash build",
	})

	cellOverloads = promauto.NewCounter(prometheus.CounterOpts{
		Name: "collision_cell_overload_total",
		Help: "Cells observed above the advisory occupancy limit (tuning signal)",
	})

	// HTTP metrics with bounded labels
	requestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "endpoint"}) // endpoint is path pattern, not full URL

	requestTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "endpoint", "status"})

	// WebSocket metrics
	wsConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "websocket_connections_active",
		Help: "Currently active WebSocket connections",
	})

	connectionRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "connection_rejected_total",
		Help: "Connections rejected by rate limiter or connection caps",
	}, []string{"reason"}) // Bounded: "rate_limit", "origin", "ws_total_limit", "ws_ip_limit"

	wsMessagesSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "websocket_messages_sent_total",
		Help: "Total frames broadcast over WebSocket",
	})
)

// ObservabilityConfig configures the debug server
type ObservabilityConfig struct {
	Enabled       bool
	ListenAddr    string // MUST stay on localhost in production
	BasicAuthUser string // Optional basic auth
	BasicAuthPass string
}

// DefaultObservabilityConfig returns safe defaults
func DefaultObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		Enabled:    true,
		ListenAddr: "127.0.0.1:6060", // Localhost only - NEVER expose externally
	}
}

// StartDebugServer starts the internal observability server with pprof,
// prometheus metrics and a health check. Binds to localhost unless
// explicitly overridden via ALLOW_DEBUG_EXTERNAL.
func StartDebugServer(cfg ObservabilityConfig) error {
	if !cfg.Enabled {
		log.Println("📊 Debug server disabled")
		return nil
	}

	if cfg.ListenAddr != "127.0.0.1:6060" && cfg.ListenAddr != "localhost:6060" {
		if os.Getenv("ALLOW_DEBUG_EXTERNAL") != "true" {
			log.Println("⚠️ Debug server forced to localhost for security")
			cfg.ListenAddr = "127.0.0.1:6060"
		}
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	var handler http.Handler = mux
	if cfg.BasicAuthUser != "" {
		handler = basicAuthMiddleware(cfg.BasicAuthUser, cfg.BasicAuthPass, mux)
	}

	go func() {
		log.Printf("📊 Debug server starting on %s", cfg.ListenAddr)
		log.Printf("   - pprof:   http://%s/debug/pprof/", cfg.ListenAddr)
		log.Printf("   - metrics: http://%s/metrics", cfg.ListenAddr)

		if err := http.ListenAndServe(cfg.ListenAddr, handler); err != nil {
			log.Printf("⚠️ Debug server error: %v", err)
		}
	}()

	return nil
}

// basicAuthMiddleware adds basic authentication to the handler
func basicAuthMiddleware(user, pass string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, p, ok := r.BasicAuth()
		if !ok || u != user || p != pass {
			w.Header().Set("WWW-Authenticate", `Basic realm="debug"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RecordDetection records one detection call's stats and timing.
// Called once per tick from the frame callback, off the detection hot path.
func RecordDetection(stats collision.Stats, duration time.Duration) {
	detectionDuration.WithLabelValues(stats.Path).Observe(duration.Seconds())
	sceneObjects.Set(float64(stats.Objects))
	collisionPairs.Set(float64(stats.Pairs))
	candidatePairs.Set(float64(stats.Candidates))

	if stats.Path == collision.PathSpatialHash {
		gridNonEmptyCells.Set(float64(stats.Grid.NonEmptyCells))
		gridMaxInCell.Set(float64(stats.Grid.MaxInCell))
		if stats.Grid.OverloadedCells > 0 {
			cellOverloads.Add(float64(stats.Grid.OverloadedCells))
		}
	}
}

// RecordRequest records HTTP request metrics
func RecordRequest(method, endpoint string, status int, duration time.Duration) {
	requestLatency.WithLabelValues(method, endpoint).Observe(duration.Seconds())
	requestTotal.WithLabelValues(method, endpoint, http.StatusText(status)).Inc()
}

// UpdateWSConnections updates WebSocket connection count
func UpdateWSConnections(count int) {
	wsConnectionsActive.Set(float64(count))
}

// RecordConnectionRejected increments the rejection counter.
// reason must be one of: "rate_limit", "origin", "ws_total_limit", "ws_ip_limit"
func RecordConnectionRejected(reason string) {
	connectionRejected.WithLabelValues(reason).Inc()
}

// IncrementWSMessages counts one broadcast to all clients
func IncrementWSMessages() {
	wsMessagesSent.Inc()
}
