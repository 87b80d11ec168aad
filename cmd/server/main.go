// Command server runs the tide-prediction core behind a thin,
// read-only HTTP façade backed by a bundled CSV station corpus.
package main

import (
	"flag"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/tidewatch/tidecore/internal/cache"
	"github.com/tidewatch/tidecore/internal/config"
	"github.com/tidewatch/tidecore/internal/domain"
	httpapi "github.com/tidewatch/tidecore/internal/http"
	"github.com/tidewatch/tidecore/internal/station/csv"
	"github.com/tidewatch/tidecore/internal/usecase"
)

const version = "0.1.0"

func main() {
	showHelp := flag.Bool("help", false, "Show usage information")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showHelp {
		printUsage()
		return
	}
	if *showVersion {
		fmt.Printf("tidecore-server version %s\n", version)
		return
	}

	cfg := config.LoadFromEnv()
	cfg.InitializeLogging()

	log.Info().
		Str("env", cfg.Environment).
		Str("port", cfg.HTTPPort).
		Str("data_dir", cfg.DataDir).
		Msg("starting tidecore server")

	store, err := csv.NewStore(cfg.DataDir)
	if err != nil {
		log.Fatal().Err(err).Str("data_dir", cfg.DataDir).Msg("failed to load station corpus")
	}

	engine := domain.NewEngine(
		domain.WithSlackEpsilon(cfg.SlackEpsilon),
		domain.WithNewtonEpsilon(cfg.NewtonEpsilon),
	)
	tideUC := usecase.NewTideUseCase(engine, store)
	extremaCache := cache.NewExtremaCache(
		tideUC,
		cache.WithWindowDays(cfg.CacheWindowDays),
		cache.WithCapacity(cfg.CacheCapacity),
	)

	router := httpapi.SetupRouter(tideUC, extremaCache, log.Logger)

	addr := fmt.Sprintf(":%s", cfg.HTTPPort)
	log.Info().Str("addr", addr).Msg("listening")
	if err := router.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func printUsage() {
	fmt.Printf("tidecore-server v%s\n\n", version)
	fmt.Println("USAGE:")
	fmt.Println("  tidecore-server [flags]")
	fmt.Println()
	fmt.Println("FLAGS:")
	fmt.Println("  -help          Show this help message")
	fmt.Println("  -version       Show version information")
	fmt.Println()
	fmt.Println("ENVIRONMENT VARIABLES:")
	fmt.Println("  ENV                     Deployment environment (default: production)")
	fmt.Println("  LOG_LEVEL               zerolog level (default: info)")
	fmt.Println("  HTTP_PORT               Server port (default: 8080)")
	fmt.Println("  DATA_DIR                CSV station corpus directory (default: ./testdata/stations)")
	fmt.Println("  CORS_ALLOWED_ORIGINS    Comma-separated list of allowed origins (default: all origins)")
	fmt.Println("  CACHE_WINDOW_DAYS       Extrema cache rolling window, days (default: 7)")
	fmt.Println("  CACHE_CAPACITY          Extrema cache LRU capacity (default: 512)")
	fmt.Println("  SLACK_EPSILON           Slack-rate threshold (default: 0.05)")
	fmt.Println("  NEWTON_EPSILON          Newton convergence threshold (default: 0.001)")
	fmt.Println()
	fmt.Println("API ENDPOINTS:")
	fmt.Println("  GET /health                          Health check")
	fmt.Println("  GET /v1/constituents                 List tidal constituents")
	fmt.Println("  GET /v1/stations/:id/height           Height/rate/direction at an instant")
	fmt.Println("  GET /v1/stations/:id/extrema          Cached extrema in a range")
	fmt.Println("  GET /v1/stations/:id/curve             Sampled height curve")
	fmt.Println()
}
