package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env  string
	Port int

	// persistence backend: memory | file | redis | postgres
	StorageBackend string
	DataDir        string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	RedisPrefix    string
	DBURL          string

	CatalogSeedFile string

	// simulated latency for login/signup
	AuthDelay time.Duration

	RegisterSignups             bool
	LegacyEnrollmentPersistence bool

	CatalogCacheTTL time.Duration

	CORSOrigins    []string
	AuthRateLimit  int
	AuthRateWindow time.Duration
	MaxBodyBytes   int64
	TracingEnabled bool
	OTLPEndpoint   string
	ServiceName    string
}

func Load() Config {
	// .env is optional, real environment wins
	_ = godotenv.Load()

	return Config{
		Env:  getEnv("APP_ENV", "dev"),
		Port: getEnvInt("PORT", 8080),

		StorageBackend: strings.ToLower(getEnv("STORAGE_BACKEND", "file")),
		DataDir:        getEnv("DATA_DIR", "./data"),
		RedisAddr:      getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisDB:        getEnvInt("REDIS_DB", 0),
		RedisPrefix:    getEnv("REDIS_PREFIX", "coursehub:"),
		DBURL:          buildDBURL(),

		CatalogSeedFile: getEnv("CATALOG_SEED_FILE", ""),

		AuthDelay: getEnvDuration("AUTH_DELAY", time.Second),

		RegisterSignups:             getEnvBool("REGISTER_SIGNUPS", true),
		LegacyEnrollmentPersistence: getEnvBool("LEGACY_ENROLLMENT_PERSISTENCE", false),

		CatalogCacheTTL: getEnvDuration("CATALOG_CACHE_TTL", 30*time.Second),

		CORSOrigins:    getEnvList("CORS_ORIGINS", []string{"http://localhost:5173"}),
		AuthRateLimit:  getEnvInt("AUTH_RATE_LIMIT", 10),
		AuthRateWindow: getEnvDuration("AUTH_RATE_WINDOW", time.Minute),
		MaxBodyBytes:   int64(getEnvInt("MAX_BODY_BYTES", 1<<20)),
		TracingEnabled: getEnvBool("TRACING_ENABLED", false),
		OTLPEndpoint:   getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		ServiceName:    getEnv("SERVICE_NAME", "coursehub-api"),
	}
}

func buildDBURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}

	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "coursehub")
	pass := getEnv("DB_PASSWORD", "coursehub")
	name := getEnv("DB_NAME", "coursehub")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			fmt.Printf("config: %s=%q is not an int, using %d\n", key, v, fallback)
			return fallback
		}

		return num
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)

		if err != nil {
			fmt.Printf("config: %s=%q is not a bool, using %t\n", key, v, fallback)
			return fallback
		}

		return b
	}
	return fallback
}

// accepts Go durations ("1s", "250ms")
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)

		if err != nil {
			fmt.Printf("config: %s=%q is not a duration, using %s\n", key, v, fallback)
			return fallback
		}

		return d
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}

	out := make([]string, 0)
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
