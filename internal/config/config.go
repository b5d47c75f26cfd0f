package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Token stores the session manager can persist to.
const (
	TokenStoreMemory   = "memory"
	TokenStoreRedis    = "redis"
	TokenStorePostgres = "postgres"
)

type AppConfig struct {
	Env string

	// Local surface
	HTTPAddr         string
	CORSAllowOrigins []string
	LoginPath        string
	ShutdownTimeout  time.Duration
	NoticeBoardSize  int

	// Remote backend
	APIBaseURL         string
	APITimeout         time.Duration
	BreakerMaxFailures uint32
	BreakerOpenTimeout time.Duration

	// Token storage
	TokenStore     string
	TokenKeyPrefix string
	RedisAddr      string
	RedisPass      string
	RedisDB        int
	DatabaseURL    string

	// Cart
	CartUndoWindow         time.Duration
	CartSerializeMutations bool
}

// Load loads environment variables into AppConfig.
func Load() AppConfig {
	return AppConfig{
		Env: getEnv("APP_ENV", "production"),

		HTTPAddr:         getEnv("HTTP_ADDR", ":8000"),
		CORSAllowOrigins: getEnvSlice("CORS_ALLOW_ORIGINS", []string{"http://localhost:5173"}),
		LoginPath:        getEnv("LOGIN_PATH", "/login"),
		ShutdownTimeout:  getEnvDuration("SHUTDOWN_TIMEOUT", 5*time.Second),
		NoticeBoardSize:  getEnvInt("NOTICE_BOARD_SIZE", 20),

		APIBaseURL:         getEnv("API_BASE_URL", "http://localhost:8080/api"),
		APITimeout:         getEnvDuration("API_TIMEOUT", 10*time.Second),
		BreakerMaxFailures: uint32(getEnvInt("API_BREAKER_MAX_FAILURES", 5)),
		BreakerOpenTimeout: getEnvDuration("API_BREAKER_OPEN_TIMEOUT", 30*time.Second),

		TokenStore:     strings.ToLower(getEnv("TOKEN_STORE", TokenStoreMemory)),
		TokenKeyPrefix: getEnv("TOKEN_KEY_PREFIX", "storefront"),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:      getEnv("REDIS_PASS", ""),
		RedisDB:        getEnvInt("REDIS_DB", 0),
		DatabaseURL:    getEnv("DATABASE_URL", ""),

		CartUndoWindow:         getEnvDuration("CART_UNDO_WINDOW", 5*time.Second),
		CartSerializeMutations: getEnvBool("CART_SERIALIZE_MUTATIONS", false),
	}
}

func (c AppConfig) IsDevelopment() bool {
	return c.Env == "development"
}

// --- Helper functions ---

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnvInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}
