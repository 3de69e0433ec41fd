package config

import (
	"log"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds runtime configuration for the API server.
// Values are sourced from environment variables with sensible defaults.
type Config struct {
	ServiceName       string
	Port              string
	AllowOrigins      []string
	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	RequestTimeout    time.Duration
	ShutdownTimeout   time.Duration

	// DB
	DB_URL      string
	DB_Host     string
	DB_Port     int
	DB_User     string
	DB_Password string
	DB_Name     string
	DB_SSLMode  string
	DB_MaxConns int32

	// Redis
	RedisHost     string
	RedisPort     int
	RedisPassword string
	RedisDB       int

	// Startup readiness
	ReadinessMaxAttempts int
	ReadinessDelay       time.Duration

	// Logging
	LogLevel  string
	LogFormat string
}

func Load() Config {
	// Load .env file if it exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Note: .env file could not be loaded (will use environment variables or defaults): %v", err)
	}

	return Config{
		ServiceName:       getenv("SERVICE_NAME", "statusapi"),
		Port:              getenv("PORT", "3000"),
		AllowOrigins:      splitAndClean(getenv("CORS_ALLOW_ORIGINS", "*")),
		ReadHeaderTimeout: durationEnv("READ_HEADER_TIMEOUT", 5*time.Second),
		ReadTimeout:       durationEnv("READ_TIMEOUT", 30*time.Second),
		WriteTimeout:      durationEnv("WRITE_TIMEOUT", 30*time.Second),
		IdleTimeout:       durationEnv("IDLE_TIMEOUT", 120*time.Second),
		RequestTimeout:    durationEnv("REQUEST_TIMEOUT", 0),
		ShutdownTimeout:   durationEnv("SHUTDOWN_TIMEOUT", 10*time.Second),

		DB_URL:      getenv("DATABASE_URL", ""),
		DB_Host:     getenv("DB_HOST", "localhost"),
		DB_Port:     intEnv("DB_PORT", 5432),
		DB_User:     getenv("DB_USER", "postgres"),
		DB_Password: getenv("DB_PASSWORD", "postgres"),
		DB_Name:     getenv("DB_NAME", "postgres"),
		DB_SSLMode:  getenv("DB_SSLMODE", "disable"),
		DB_MaxConns: int32Env("DB_MAX_CONNS", 10),

		RedisHost:     getenv("REDIS_HOST", "localhost"),
		RedisPort:     intEnv("REDIS_PORT", 6379),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
		RedisDB:       intEnv("REDIS_DB", 0),

		ReadinessMaxAttempts: intEnv("READINESS_MAX_ATTEMPTS", 30),
		ReadinessDelay:       durationEnv("READINESS_DELAY", time.Second),

		LogLevel:  strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogFormat: strings.ToLower(getenv("LOG_FORMAT", "json")),
	}
}

// DSN returns the Postgres connection string. DATABASE_URL wins over the
// individual DB_* settings.
func (c Config) DSN() string {
	if c.DB_URL != "" {
		return c.DB_URL
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.DB_User, c.DB_Password),
		Host:   net.JoinHostPort(c.DB_Host, strconv.Itoa(c.DB_Port)),
		Path:   "/" + c.DB_Name,
	}
	if c.DB_SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": {c.DB_SSLMode}}.Encode()
	}
	return u.String()
}

// RedisAddr returns host:port for the cache.
func (c Config) RedisAddr() string {
	return net.JoinHostPort(c.RedisHost, strconv.Itoa(c.RedisPort))
}

// Addr is the listen address of the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func intEnv(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func int32Env(key string, def int32) int32 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 32); err == nil {
			return int32(n)
		}
	}
	return def
}

func durationEnv(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitAndClean(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
