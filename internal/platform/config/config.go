package config

import (
	"os"
	"strconv"
	"time"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr           string
	Environment    string
	CatalogDir     string
	EvalWorkers    int
	RequestTimeout time.Duration
	Redis          RedisConfig
}

// RedisConfig configures the optional summary cache. An empty URL disables it.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	SummaryTTL   time.Duration
}

// Defaults used when the matching variable is unset or unparsable.
var (
	DefaultEvalWorkers    = 8
	DefaultRequestTimeout = 30 * time.Second
	DefaultSummaryTTL     = 10 * time.Minute
)

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("BENEFICIOS_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	catalogDir := os.Getenv("CATALOG_DIR")
	if catalogDir == "" {
		catalogDir = "catalog"
	}
	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "dev"
	}

	return Server{
		Addr:           addr,
		Environment:    env,
		CatalogDir:     catalogDir,
		EvalWorkers:    intFromEnv("EVAL_WORKERS", DefaultEvalWorkers),
		RequestTimeout: durationFromEnv("REQUEST_TIMEOUT", DefaultRequestTimeout),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     intFromEnv("REDIS_POOL_SIZE", 10),
			MinIdleConns: intFromEnv("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  durationFromEnv("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  durationFromEnv("REDIS_READ_TIMEOUT", 500*time.Millisecond),
			WriteTimeout: durationFromEnv("REDIS_WRITE_TIMEOUT", 500*time.Millisecond),
			SummaryTTL:   durationFromEnv("SUMMARY_CACHE_TTL", DefaultSummaryTTL),
		},
	}
}

// IsProduction reports whether the process runs with ENVIRONMENT=production.
func (s Server) IsProduction() bool {
	return s.Environment == "production" || s.Environment == "prod"
}

func intFromEnv(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func durationFromEnv(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}
