package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	DatabaseURL      string
	GoogleMapsAPIKey string
	OpenAIAPIKey     string

	// Enhancement engine settings
	WorkerCount  int
	MaxRetries   int
	RetryDelay   time.Duration
	JobTimeout   time.Duration
	GeocodeRPS   int
	GeocodeBurst int

	// Crawler settings
	CrawlDelay    time.Duration
	CrawlTimeout  time.Duration
	UserAgent     string
	CrawlKeywords []string
	CrawlRect     string // "lat1,lng1,lat2,lng2" search bounding box

	// Database performance settings
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime int // minutes
	DBReadTimeout     time.Duration
	DBWriteTimeout    time.Duration

	// OpenAI category suggestion settings
	OpenAIModel       string
	OpenAITemperature float64
	OpenAITimeout     time.Duration

	// Logging settings
	LogLevel  string
	LogFormat string // "json" or "text"

	// Health check settings
	HealthPort string

	// Category mapping overrides
	CategoryRulesPath string // path to external rules YAML; empty = built-in rules
}

func Load() *Config {
	workerCount, _ := strconv.Atoi(getEnv("WORKER_COUNT", "8"))
	maxRetries, _ := strconv.Atoi(getEnv("MAX_RETRIES", "3"))
	retryDelay, _ := time.ParseDuration(getEnv("RETRY_DELAY", "5s"))
	jobTimeout, _ := time.ParseDuration(getEnv("JOB_TIMEOUT", "60s"))
	geocodeRPS, _ := strconv.Atoi(getEnv("GEOCODE_RPS", "10"))
	geocodeBurst, _ := strconv.Atoi(getEnv("GEOCODE_BURST", "20"))

	crawlDelay, _ := time.ParseDuration(getEnv("CRAWL_DELAY", "500ms"))
	crawlTimeout, _ := time.ParseDuration(getEnv("CRAWL_TIMEOUT", "15s"))

	dbMaxOpenConns, _ := strconv.Atoi(getEnv("DB_MAX_OPEN_CONNS", "25"))
	dbMaxIdleConns, _ := strconv.Atoi(getEnv("DB_MAX_IDLE_CONNS", "10"))
	dbConnMaxLifetime, _ := strconv.Atoi(getEnv("DB_CONN_MAX_LIFETIME_MINUTES", "10"))
	dbReadTO, _ := time.ParseDuration(getEnv("DB_READ_TIMEOUT", "8s"))
	dbWriteTO, _ := time.ParseDuration(getEnv("DB_WRITE_TIMEOUT", "6s"))

	openAITemp, _ := strconv.ParseFloat(getEnv("OPENAI_TEMPERATURE", "0.1"), 64)
	openAITimeoutSec, _ := strconv.Atoi(getEnv("OPENAI_REQUEST_TIMEOUT_SECONDS", "30"))

	return &Config{
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		GoogleMapsAPIKey: getEnv("GOOGLE_MAPS_API_KEY", ""),
		OpenAIAPIKey:     getEnv("OPENAI_API_KEY", ""),

		WorkerCount:  workerCount,
		MaxRetries:   maxRetries,
		RetryDelay:   retryDelay,
		JobTimeout:   jobTimeout,
		GeocodeRPS:   geocodeRPS,
		GeocodeBurst: geocodeBurst,

		CrawlDelay:    crawlDelay,
		CrawlTimeout:  crawlTimeout,
		UserAgent:     getEnv("CRAWL_USER_AGENT", "seoul-store-crawler/1.0"),
		CrawlKeywords: splitList(getEnv("CRAWL_KEYWORDS", "서울 강남 무한리필,강남 고기무한리필,강남 뷔페")),
		CrawlRect:     getEnv("CRAWL_RECT", "37.4979,127.0276,37.5279,127.0576"),

		DBMaxOpenConns:    dbMaxOpenConns,
		DBMaxIdleConns:    dbMaxIdleConns,
		DBConnMaxLifetime: dbConnMaxLifetime,
		DBReadTimeout:     dbReadTO,
		DBWriteTimeout:    dbWriteTO,

		OpenAIModel:       getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAITemperature: openAITemp,
		OpenAITimeout:     time.Duration(openAITimeoutSec) * time.Second,

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		HealthPort: getEnv("HEALTH_PORT", "8090"),

		CategoryRulesPath: getEnv("CATEGORY_RULES_PATH", ""),
	}
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
