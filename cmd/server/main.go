package main

import (
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"collider/internal/api"
	"collider/internal/collision"
	"collider/internal/config"
	"collider/internal/scene"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if present
	if err := godotenv.Load(".env"); err != nil {
		log.Println("💡 No .env file found, using environment variables only")
	} else {
		log.Println("✅ Loaded environment from .env")
	}

	log.Println("📦 ================================")
	log.Println("📦  COLLIDER - BROAD-PHASE ENGINE")
	log.Println("📦  Spatial hash demo server")
	log.Println("📦 ================================")

	// Load centralized configuration (SSOT - Single Source of Truth)
	appConfig := config.Load()
	serverCfg := appConfig.Server
	sceneCfg := appConfig.Scene
	detectCfg := appConfig.Detection

	log.Printf("🎮 Config: %d TPS, %dx%d world, %d objects",
		serverCfg.TickRate, int(sceneCfg.WorldWidth), int(sceneCfg.WorldHeight), sceneCfg.ObjectCount)
	log.Printf("🔧 Detection: optimization=%v cellSize=%v maxPerCell=%d",
		detectCfg.EnableOptimization, detectCfg.CellSize, detectCfg.MaxObjectsPerCell)

	collisionCfg := collision.Config{
		EnableOptimization: detectCfg.EnableOptimization,
		CellSize:           detectCfg.CellSize,
		MaxObjectsPerCell:  detectCfg.MaxObjectsPerCell,
	}
	if err := collisionCfg.Validate(); err != nil {
		log.Fatalf("❌ Invalid detection config: %v", err)
	}

	engine := scene.NewEngine(scene.Params{
		WorldWidth:  sceneCfg.WorldWidth,
		WorldHeight: sceneCfg.WorldHeight,
		ObjectCount: sceneCfg.ObjectCount,
		MinSize:     sceneCfg.MinSize,
		MaxSize:     sceneCfg.MaxSize,
		MaxSpeed:    sceneCfg.MaxSpeed,
		Seed:        sceneCfg.Seed,
	}, collisionCfg, serverCfg.TickRate)

	// Start debug server (pprof + prometheus)
	if os.Getenv("DISABLE_DEBUG_SERVER") != "true" {
		if err := api.StartDebugServer(api.DefaultObservabilityConfig()); err != nil {
			log.Printf("⚠️ Debug server disabled: %v", err)
		}
	}

	server := api.NewServer(engine)

	// Start API server in goroutine; Start also launches the engine loop.
	addr := ":" + strconv.Itoa(serverCfg.Port)
	go func() {
		if err := server.Start(addr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	log.Println("✅ Server ready! Press Ctrl+C to stop.")
	<-quit

	log.Println("🛑 Shutting down...")
	server.Stop()
	log.Println("👋 Goodbye!")
}
