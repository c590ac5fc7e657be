package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config captures all runtime configuration derived from environment variables.
type Config struct {
	Port               string
	SiteBaseURL        string
	JWTSecret          string
	DBURL              string
	MailRelayURL       string
	MailRelayAPIKey    string
	MailFrom           string
	MailTimeoutSecs    int
	LogLevel           string
	LogFormat          string
	CORSAllowedOrigins string
	AnonWriteRPM       int
	ReadTimeoutSecs    int
	WriteTimeoutSecs   int
	IdleTimeoutSecs    int
	DBMaxConns         int
	DBMinConns         int
	DBMaxIdleSecs      int
	DBMaxLifeSecs      int
	DBConnTimeoutSecs  int
	DBStatementCache   int
}

// Load reads configuration from the environment, applying defaults and
// validation. A .env file in the working directory is honoured when present.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:               getEnv("PORT", "8080"),
		SiteBaseURL:        getEnv("SITE_BASE_URL", "http://localhost:8080"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		DBURL:              os.Getenv("DB_URL"),
		MailRelayURL:       os.Getenv("MAIL_RELAY_URL"),
		MailRelayAPIKey:    os.Getenv("MAIL_RELAY_API_KEY"),
		MailFrom:           getEnv("MAIL_FROM", "no-reply@plateful.local"),
		MailTimeoutSecs:    getEnvInt("MAIL_TIMEOUT_SECS", 5),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "json"),
		CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		AnonWriteRPM:       getEnvInt("ANON_WRITE_RPM", 10),
		ReadTimeoutSecs:    getEnvInt("SERVER_READ_TIMEOUT", 15),
		WriteTimeoutSecs:   getEnvInt("SERVER_WRITE_TIMEOUT", 15),
		IdleTimeoutSecs:    getEnvInt("SERVER_IDLE_TIMEOUT", 60),
		DBMaxConns:         getEnvInt("DB_MAX_CONNS", 20),
		DBMinConns:         getEnvInt("DB_MIN_CONNS", 2),
		DBMaxIdleSecs:      getEnvInt("DB_MAX_CONN_IDLE_SECS", 300),
		DBMaxLifeSecs:      getEnvInt("DB_MAX_CONN_LIFETIME_SECS", 3600),
		DBConnTimeoutSecs:  getEnvInt("DB_CONN_TIMEOUT_SECS", 10),
		DBStatementCache:   getEnvInt("DB_STATEMENT_CACHE_CAPACITY", 256),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.DBURL == "" {
		return Config{}, fmt.Errorf("DB_URL is required")
	}
	if cfg.MailRelayURL == "" {
		return Config{}, fmt.Errorf("MAIL_RELAY_URL is required")
	}
	if cfg.MailRelayAPIKey == "" {
		return Config{}, fmt.Errorf("MAIL_RELAY_API_KEY is required")
	}
	if cfg.MailTimeoutSecs <= 0 {
		return Config{}, fmt.Errorf("MAIL_TIMEOUT_SECS must be positive")
	}
	if cfg.AnonWriteRPM <= 0 {
		return Config{}, fmt.Errorf("ANON_WRITE_RPM must be positive")
	}
	if cfg.DBMaxConns <= 0 {
		return Config{}, fmt.Errorf("DB_MAX_CONNS must be positive")
	}
	if cfg.DBMinConns < 0 {
		return Config{}, fmt.Errorf("DB_MIN_CONNS must be non-negative")
	}
	if cfg.DBMaxConns > 0 && cfg.DBMinConns > cfg.DBMaxConns {
		return Config{}, fmt.Errorf("DB_MIN_CONNS cannot exceed DB_MAX_CONNS")
	}
	if cfg.DBStatementCache < 0 {
		return Config{}, fmt.Errorf("DB_STATEMENT_CACHE_CAPACITY must be non-negative")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}
