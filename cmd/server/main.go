// Package main provides the regrid HTTP server.
package main

import (
	"flag"
	"fmt"
	"log"

	"go.ngs.io/regrid/internal/adapter/cache"
	"go.ngs.io/regrid/internal/adapter/store"
	csvstore "go.ngs.io/regrid/internal/adapter/store/csv"
	"go.ngs.io/regrid/internal/adapter/store/ncfile"
	"go.ngs.io/regrid/internal/config"
	httpHandler "go.ngs.io/regrid/internal/http"
	"go.ngs.io/regrid/internal/logger"
	"go.ngs.io/regrid/internal/usecase"
)

const version = "0.1.0"

func main() {
	// Parse command-line flags.
	showHelp := flag.Bool("help", false, "Show usage information")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showHelp {
		printUsage()
		return
	}

	if *showVersion {
		fmt.Printf("regrid-api version %s\n", version)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	l := logger.Setup()

	log.Printf("Starting regrid API server...")
	log.Printf("Port: %s", cfg.Port)
	log.Printf("Data directory: %s", cfg.DataDir)
	log.Printf("Sphere radius: %g", cfg.EarthRadius)

	// Initialize stores.
	fields := store.NewMux(ncfile.NewStore(cfg.DataDir)).
		Handle(".csv", csvstore.NewStore(cfg.DataDir))

	indexes, err := cache.NewIndexCache(cfg.IndexCacheSize)
	if err != nil {
		log.Fatalf("Failed to create index cache: %v", err)
	}
	log.Printf("Index cache size: %d", cfg.IndexCacheSize)

	// Result cache is optional.
	results := cache.NewResultCache(cache.OpenRedis(cfg.RedisHost, cfg.RedisPort, cfg.RedisPass, cfg.RedisDB), cfg.ResultCacheTTL)
	if results != nil {
		log.Printf("Result cache: redis %s:%s (ttl %s)", cfg.RedisHost, cfg.RedisPort, results.TTL())
	} else {
		log.Printf("Result cache disabled (REDIS_HOST not set)")
	}

	// Initialize use case.
	remapUC := usecase.NewRemapUseCase(fields, fields, indexes, cfg.EarthRadius)

	// Setup router.
	router := httpHandler.SetupRouter(remapUC, results, cfg.AllowedOrigins, l)

	// Start server.
	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Server listening on %s", addr)
	log.Printf("Health check: http://localhost:%s/health", cfg.Port)
	log.Printf("API endpoints:")
	log.Printf("  - GET  /v1/methods")
	log.Printf("  - POST /v1/remap")
	log.Printf("  - GET  /metrics")

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// printUsage prints usage information.
func printUsage() {
	fmt.Printf("Regrid API Server v%s\n\n", version)
	fmt.Println("USAGE:")
	fmt.Println("  regrid-api [flags]")
	fmt.Println()
	fmt.Println("FLAGS:")
	fmt.Println("  -help          Show this help message")
	fmt.Println("  -version       Show version information")
	fmt.Println()
	fmt.Println("ENVIRONMENT VARIABLES (also read from .env):")
	fmt.Println("  PORT                    Server port (default: 8080)")
	fmt.Println("  DATA_DIR                Data directory; request paths are relative to it (default: ./data)")
	fmt.Println("  INDEX_CACHE_SIZE        Spatial indexes kept in memory, 0 disables (default: 32)")
	fmt.Println("  EARTH_RADIUS            Sphere radius used for projection (default: 1)")
	fmt.Println("  CORS_ALLOWED_ORIGINS    Comma-separated list of allowed origins (default: all origins)")
	fmt.Println("  REDIS_HOST              Redis host for the result cache (optional)")
	fmt.Println("  REDIS_PORT              Redis port (default: 6379)")
	fmt.Println("  REDIS_PASS              Redis password")
	fmt.Println("  REDIS_DB                Redis database (default: 0)")
	fmt.Println("  RESULT_CACHE_TTL        Result cache expiry (default: 10m)")
	fmt.Println("  LOG_LEVEL               debug, info, warn or error (default: info)")
	fmt.Println("  LOG_FORMAT              text or json (default: text)")
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("  # Start server with default settings")
	fmt.Println("  regrid-api")
	fmt.Println()
	fmt.Println("  # Remap sst.nc onto the grid of model.nc")
	fmt.Println(`  curl -X POST localhost:8080/v1/remap -d '{"source":{"path":"sst.nc","variable":"sst","t":"time"},` +
		`"target":{"path":"model.nc","variable":"mask"},"method":"distance_weighted","k":4}'`)
	fmt.Println()
	fmt.Println("  # Sample the same field at station points listed in stations.csv (lon,lat columns)")
	fmt.Println(`  curl -X POST localhost:8080/v1/remap -d '{"source":{"path":"sst.nc","variable":"sst"},` +
		`"target":{"path":"stations.csv","variable":"lat"},"output":"sst_at_stations.csv"}'`)
	fmt.Println()
	fmt.Println("API ENDPOINTS:")
	fmt.Println("  GET  /health                   Health check")
	fmt.Println("  GET  /v1/methods               List remap methods")
	fmt.Println("  POST /v1/remap                 Remap a variable onto another grid")
	fmt.Println("  GET  /metrics                  Prometheus metrics")
	fmt.Println()
}
