package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoURI    string
	DBName      string
	Port        string
	GinMode     string
	CORSOrigins []string

	// Redis configuration (embedding cache, rate limiting, task queue)
	RedisURL      string
	RedisPassword string
	RedisDB       int

	// Gemini configuration
	GeminiAPIKey    string
	GeminiTier      string
	EmbeddingModel  string
	GenerationModel string

	// Scraping configuration
	SerpAPIKey      string
	CrawlMaxPages   int
	CrawlTimeoutSec int
	RenderJS        bool

	// Retrieval tunables
	ChunkTargetSize   int
	ChunkOverlap      int
	TopK              int
	DistanceThreshold float64

	// Periodic re-ingest
	ReingestCron string

	// Rate limiting
	RateLimitReqs   int
	RateLimitWindow int

	// Telemetry
	OTLPEndpoint string
}

func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("error loading .env file: %v", err)
		}
	}

	cfg := &Config{
		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017/website_chatbot"),
		DBName:      getEnv("DB_NAME", "website_chatbot"),
		Port:        getEnv("PORT", "8080"),
		GinMode:     getEnv("GIN_MODE", "debug"),
		CORSOrigins: strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000"), ","),

		RedisURL:      getEnv("REDIS_URL", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
		GeminiTier:      getEnv("GEMINI_TIER", "free"),
		EmbeddingModel:  getEnv("EMBEDDING_MODEL", "text-embedding-004"),
		GenerationModel: getEnv("GENERATION_MODEL", "gemini-2.0-flash"),

		SerpAPIKey:      getEnv("SERPAPI_KEY", ""),
		CrawlMaxPages:   getEnvInt("CRAWL_MAX_PAGES", 25),
		CrawlTimeoutSec: getEnvInt("CRAWL_TIMEOUT_SECONDS", 60),
		RenderJS:        getEnvBool("CRAWL_RENDER_JS", false),

		ChunkTargetSize:   getEnvInt("CHUNK_TARGET_SIZE", 1000),
		ChunkOverlap:      getEnvInt("CHUNK_OVERLAP", 250),
		TopK:              getEnvInt("TOP_K", 3),
		DistanceThreshold: getEnvFloat64("DISTANCE_THRESHOLD", 0.8),

		ReingestCron: getEnv("REINGEST_CRON", "0 4 * * *"),

		RateLimitReqs:   getEnvInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow: getEnvInt("RATE_LIMIT_WINDOW", 60),

		OTLPEndpoint: getEnv("OTLP_ENDPOINT", ""),
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
