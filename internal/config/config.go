package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Env     string `validate:"required,oneof=dev test prod"`
	Port    int    `validate:"required,min=1,max=65535"`
	Storage string `validate:"required,oneof=postgres memory"`
	DBURL   string `validate:"required_if=Storage postgres"`

	// DBMaxConns bounds the pgx pool.
	DBMaxConns int `validate:"min=1,max=1000"`

	RedisAddr     string
	RedisPassword string
	RedisDB       int           `validate:"min=0"`
	CacheTTL      time.Duration `validate:"gt=0"`

	OTelEndpoint string
	ServiceName  string `validate:"required"`

	CORSAllowedOrigins  []string
	RateLimitPerMinute  int   `validate:"min=1"`
	MaxBodyBytes        int64 `validate:"min=1"`
	RejectUnknownFields bool
}

var validate = validator.New()

// Load reads configuration from the environment. A .env file in the working
// directory is honoured when present; real environment variables win over it.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Env:     getEnv("APP_ENV", "dev"),
		Port:    getEnvInt("PORT", 8080),
		Storage: getEnv("STORAGE", "postgres"),
		DBURL:   buildDBURL(),

		DBMaxConns: getEnvInt("DB_MAX_CONNS", 5),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		CacheTTL:      time.Duration(getEnvInt("CACHE_TTL_SECONDS", 30)) * time.Second,

		OTelEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		ServiceName:  getEnv("OTEL_SERVICE_NAME", "events-api"),

		CORSAllowedOrigins:  getEnvList("CORS_ALLOWED_ORIGINS"),
		RateLimitPerMinute:  getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
		MaxBodyBytes:        int64(getEnvInt("MAX_BODY_BYTES", 1<<20)),
		RejectUnknownFields: getEnvBool("REJECT_UNKNOWN_FIELDS", true),
	}

	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func buildDBURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}

	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "events")
	pass := getEnv("DB_PASSWORD", "events")
	name := getEnv("DB_NAME", "events")
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
			return fallback
		}
		return b
	}
	return fallback
}

func getEnvList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}

	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
