// Command match-backfill downloads the full public Omeda match history into
// per-batch JSON files and packages them as a single zip archive.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/omeda-tools/match-backfill/pkg/backfill"
	"github.com/omeda-tools/match-backfill/pkg/cache"
	"github.com/omeda-tools/match-backfill/pkg/logging"
	"github.com/omeda-tools/match-backfill/pkg/omeda"
	"github.com/omeda-tools/match-backfill/pkg/storage"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const defaultBaseURL = "https://backend.production.omeda-aws.com/api/public/get-matches-since"

// Exit codes: 0 completed clean, 1 aborted (configuration, persistence, or
// archive failure), 2 completed with one or more failed windows.
const (
	exitOK      = 0
	exitAborted = 1
	exitPartial = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	// .env is optional; real environment always wins.
	_ = godotenv.Load()

	// LOG_PRETTY is read before Setup; a bad value warns via the
	// bootstrap global logger.
	logging.Setup(logging.Config{
		Level:  logging.LogLevel(getEnv("LOG_LEVEL", "info")),
		Pretty: getEnvBool(log.Logger, "LOG_PRETTY", false),
		Output: os.Stderr,
	})
	logger := logging.NewLogger("main")

	engineCfg := backfill.DefaultConfig()
	engineCfg.FirstEpoch = getEnvUint(logger, "FIRST_EPOCH", engineCfg.FirstEpoch)
	engineCfg.WindowSize = getEnvUint(logger, "WINDOW_SIZE", engineCfg.WindowSize)
	engineCfg.PoolSize = int(getEnvUint(logger, "POOL_SIZE", uint64(engineCfg.PoolSize)))

	outDir := getEnv("OUTPUT_DIR", "matches")
	archivePath := getEnv("ARCHIVE_PATH", "matches.zip")

	if addr := os.Getenv("METRICS_ADDR"); addr != "" {
		go serveMetrics(logger, addr)
	}

	clientCfg := omeda.DefaultConfig(
		getEnv("OMEDA_BASE_URL", defaultBaseURL),
		getEnv("USER_AGENT", "match-backfill/0.1.0"),
	)
	clientCfg.Cache = setupPageCache(logger)

	apiClient, err := omeda.New(clientCfg)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create API client")
		return exitAborted
	}

	sink := storage.NewDirSink(outDir)
	if err := sink.Reset(); err != nil {
		logger.Error().Err(err).Msg("Failed to prepare output directory")
		return exitAborted
	}
	archiver := storage.NewZipArchiver(outDir, archivePath)

	// The signal watcher is the flag's only writer. Workers observe it
	// between requests; an in-flight request is allowed to finish.
	flag := backfill.NewFlag()
	go watchSignals(logger, flag)

	runner, err := backfill.NewRunner(engineCfg, apiClient, sink, archiver, flag)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create runner")
		return exitAborted
	}

	summary, err := runner.Run(context.Background())
	if err != nil {
		logger.Error().Err(err).Msg("Backfill aborted")
		return exitAborted
	}

	logger.Info().
		Int("windows", summary.Windows).
		Int("exhausted", summary.Exhausted).
		Int("cancelled", summary.Cancelled).
		Int("failed", summary.Failed).
		Bool("archived", summary.Archived).
		Msg("Backfill finished")

	if summary.Failed > 0 {
		return exitPartial
	}
	return exitOK
}

// watchSignals sets the cancellation flag on the first interrupt and
// returns. Workers finish their open requests and drain.
func watchSignals(logger zerolog.Logger, flag *backfill.Flag) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	<-ch
	logger.Info().Msg("Interrupt received, finishing open requests and draining")
	flag.Set()
}

// setupPageCache connects the optional Redis page cache. A missing or
// unreachable Redis only disables caching; the run proceeds without it.
func setupPageCache(logger zerolog.Logger) *cache.Manager {
	addr := os.Getenv("REDIS_URL")
	if addr == "" {
		return nil
	}

	redisClient := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn().Err(err).Str("addr", addr).Msg("Redis unreachable, page cache disabled")
		return nil
	}

	ttl := getEnvDuration(logger, "CACHE_TTL", 24*time.Hour)
	logger.Info().Str("addr", addr).Dur("ttl", ttl).Msg("Page cache enabled")
	return cache.NewManager(redisClient, ttl)
}

func serveMetrics(logger zerolog.Logger, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	logger.Info().Str("addr", addr).Msg("Serving Prometheus metrics")
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Warn().Err(err).Msg("Metrics listener stopped")
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(logger zerolog.Logger, key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		logger.Warn().Str("key", key).Str("value", value).Msg("Invalid boolean, using default")
		return defaultValue
	}
	return parsed
}

func getEnvUint(logger zerolog.Logger, key string, defaultValue uint64) uint64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		logger.Warn().Str("key", key).Str("value", value).Msg("Invalid integer, using default")
		return defaultValue
	}
	return parsed
}

func getEnvDuration(logger zerolog.Logger, key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		logger.Warn().Str("key", key).Str("value", value).Msg("Invalid duration, using default")
		return defaultValue
	}
	return parsed
}
