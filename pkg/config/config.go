package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database (optional: research sessions are persisted only when set)
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// Rate limiting
	RateLimit RateLimitConfig

	// Scoring rules (YAML). Empty path means built-in defaults.
	ScoringConfigPath string

	// Research defaults for CLI and scheduled snapshots
	Research ResearchConfig

	// Scheduler
	Scheduler SchedulerConfig

	// Logging
	LogLevel  string
	LogFormat string

	// Monitoring
	MetricsEnabled bool
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
	Prefix   string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// Enabled reports whether a database URL was configured
func (d DatabaseConfig) Enabled() bool {
	return d.URL != ""
}

// RateLimitConfig holds API throttling configuration
type RateLimitConfig struct {
	Enabled     bool
	Requests    int           // per client per window
	Window      time.Duration // sliding window length
	GlobalRPS   float64       // process-wide ceiling
	GlobalBurst int
}

// ResearchConfig holds defaults for research runs
type ResearchConfig struct {
	Seed       int64
	Location   string
	DateStart  string // YYYY-MM-DD
	DateEnd    string
	TimeStart  string // HH:MM
	TimeEnd    string
	TopN       int
	MaxSymbols int
	Horizon    int // trading days for the backtest comparison
}

// SchedulerConfig holds scheduled snapshot configuration
type SchedulerConfig struct {
	SnapshotSchedule string
	SnapshotSymbols  []string
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			Prefix:   getEnv("REDIS_PREFIX", "astroquant"),
		},

		RateLimit: RateLimitConfig{
			Enabled:     getEnvAsBool("RATE_LIMIT_ENABLED", true),
			Requests:    getEnvAsInt("RATE_LIMIT_REQUESTS", 100),
			Window:      getEnvAsDuration("RATE_LIMIT_WINDOW", "1m"),
			GlobalRPS:   getEnvAsFloat("RATE_LIMIT_GLOBAL_RPS", 200),
			GlobalBurst: getEnvAsInt("RATE_LIMIT_GLOBAL_BURST", 400),
		},

		ScoringConfigPath: getEnv("SCORING_CONFIG", ""),

		Research: ResearchConfig{
			Seed:       int64(getEnvAsInt("RESEARCH_SEED", 42)),
			Location:   getEnv("RESEARCH_LOCATION", "Mumbai"),
			DateStart:  getEnv("RESEARCH_DATE_START", "2024-01-01"),
			DateEnd:    getEnv("RESEARCH_DATE_END", "2024-12-31"),
			TimeStart:  getEnv("RESEARCH_TIME_START", "09:15"),
			TimeEnd:    getEnv("RESEARCH_TIME_END", "15:30"),
			TopN:       getEnvAsInt("RESEARCH_TOP_N", 10),
			MaxSymbols: getEnvAsInt("RESEARCH_MAX_SYMBOLS", 200),
			Horizon:    getEnvAsInt("RESEARCH_HORIZON", 20),
		},

		Scheduler: SchedulerConfig{
			SnapshotSchedule: getEnv("SNAPSHOT_SCHEDULE", "0 0 18 * * 1-5"),
			SnapshotSymbols:  getEnvAsList("SNAPSHOT_SYMBOLS", []string{"RELIANCE", "TCS", "INFY", "HDFCBANK", "ICICIBANK"}),
		},

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if configuration values are usable
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.RateLimit.Enabled {
		if c.RateLimit.Requests <= 0 {
			return fmt.Errorf("RATE_LIMIT_REQUESTS must be > 0")
		}
		if c.RateLimit.Window <= 0 {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be > 0")
		}
	}

	if c.Research.TopN <= 0 {
		return fmt.Errorf("RESEARCH_TOP_N must be > 0")
	}
	if c.Research.MaxSymbols <= 0 {
		return fmt.Errorf("RESEARCH_MAX_SYMBOLS must be > 0")
	}

	return nil
}

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{".env"}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	value, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}

// getEnvAsList splits a comma separated value, dropping blanks
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, strings.ToUpper(p))
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
