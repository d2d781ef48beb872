package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"log"
	"net/http"

	"collider/internal/collision"
	"collider/internal/render"
)

// Handler methods for routerHandlers
// These are used by both the standalone router (for testing) and the full Server.

// detectRequest is the body of POST /api/detect. Config is optional;
// omitted fields keep their defaults.
type detectRequest struct {
	Objects []collision.AABB  `json:"objects"`
	Config  *collision.Config `json:"config"`
}

func (h *routerHandlers) handleDetect(w http.ResponseWriter, r *http.Request) {
	req := detectRequest{}

	// Pre-fill so a partial config overrides only the supplied fields.
	defaults := collision.DefaultConfig()
	req.Config = &defaults

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	pairs, stats, err := collision.BatchDetectWithStats(req.Objects, req.Config)
	if err != nil {
		var cfgErr *collision.ConfigError
		var inErr *collision.InputError
		switch {
		case errors.As(err, &cfgErr):
			writeError(w, fmt.Sprintf("Invalid config: %s must be positive (got %v)", cfgErr.Field, cfgErr.Value), http.StatusBadRequest)
		case errors.As(err, &inErr):
			writeError(w, fmt.Sprintf("Invalid object at index %d: %s is %v", inErr.Index, inErr.Field, inErr.Value), http.StatusBadRequest)
		default:
			writeError(w, err.Error(), http.StatusBadRequest)
		}
		return
	}

	writeJSON(w, map[string]interface{}{
		"pairs": pairs,
		"stats": stats,
	})
}

func (h *routerHandlers) handleGetState(w http.ResponseWriter, r *http.Request) {
	frame := h.engine.Frame()
	if frame == nil {
		writeError(w, "No frame yet", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, frame)
}

func (h *routerHandlers) handleGetStats(w http.ResponseWriter, r *http.Request) {
	frame := h.engine.Frame()

	stats := map[string]interface{}{
		"tickCount": h.engine.TickCount(),
		"config":    h.engine.Config(),
		"scene":     h.engine.SceneParams(),
		"rateLimit": h.limiter.Stats(),
	}
	if frame != nil {
		stats["detection"] = frame.Stats
		stats["elapsedUs"] = frame.Elapsed.Microseconds()
	}
	writeJSON(w, stats)
}

func (h *routerHandlers) handleGetFramePNG(w http.ResponseWriter, r *http.Request) {
	frame := h.engine.Frame()
	if frame == nil {
		writeError(w, "No frame yet", http.StatusServiceUnavailable)
		return
	}

	params := h.engine.SceneParams()
	img := render.Frame(frame, int(params.WorldWidth), int(params.WorldHeight), h.engine.Config().CellSize)

	w.Header().Set("Content-Type", "image/png")
	if err := png.Encode(w, img); err != nil {
		log.Printf("⚠️ Frame PNG encode failed: %v", err)
	}
}

func (h *routerHandlers) handleSceneReset(w http.ResponseWriter, r *http.Request) {
	// Pre-fill with the live params so a partial body tweaks one knob.
	params := h.engine.SceneParams()
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if params.ObjectCount < 0 || params.WorldWidth <= 0 || params.WorldHeight <= 0 {
		writeError(w, "Invalid scene parameters", http.StatusBadRequest)
		return
	}

	h.engine.ResetScene(params)
	writeJSON(w, map[string]interface{}{
		"success": true,
		"scene":   params,
	})
}

func (h *routerHandlers) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.engine.Config())
}

func (h *routerHandlers) handleSetConfig(w http.ResponseWriter, r *http.Request) {
	cfg := h.engine.Config()
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.engine.SetConfig(cfg); err != nil {
		var cfgErr *collision.ConfigError
		if errors.As(err, &cfgErr) {
			writeError(w, fmt.Sprintf("Invalid config: %s must be positive (got %v)", cfgErr.Field, cfgErr.Value), http.StatusBadRequest)
			return
		}
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, map[string]interface{}{
		"success": true,
		"config":  cfg,
	})
}

// Helper functions (package-level for reuse)

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
