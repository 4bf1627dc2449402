package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
//
// Retrieval thresholds and round ordering are deliberately configuration, not
// constants: historical deployments disagreed on the values (news similarity
// 0.3–0.45, report score 0.5–0.8) and the defaults below follow the most
// recent production variant.
type Config struct {
	LLMBaseURL          string
	LLMModel            string
	LLMAPIKey           string
	LLMTimeout          time.Duration
	EmbeddingBaseURL    string
	EmbeddingModel      string
	EmbeddingVectorSize int
	EmbeddingPageSize   int

	TranslateBaseURL string
	TranslateAPIKey  string

	SearchBaseURL        string
	SearchAPIKey         string
	SearchEngineDomestic string
	SearchEngineForeign  string
	SearchWindowDays     int

	QdrantURL string
	// Namespaces are qdrant collections, one per evidence domain.
	NamespaceDomesticAnalyst string
	NamespaceForeignSummary  string
	NamespaceForeignContent  string
	NamespaceInstitutional   string

	NewsSimilarityThreshold float64
	NewsTopN                int
	ReportScoreThreshold    float64
	SummaryScoreThreshold   float64
	ReportTopN              int
	FetchConcurrency        int
	FetchPerSecond          float64

	ChunkSize    int
	ChunkOverlap int

	DBPath    string
	APIPort   string
	LogLevel  slog.Level
	LogFormat string
}

// Load reads configuration from environment variables and returns a Config struct.
// A .env file in the working directory or a parent directory is loaded first;
// real environment variables take precedence over .env values.
// Missing credentials are a fatal configuration error, never retried.
func Load() (*Config, error) {
	_ = godotenv.Load()

	// Walk up from the working directory so `go run ./cmd/api` works from anywhere
	// inside the repo.
	if wd, err := os.Getwd(); err == nil {
		dir := wd
		for i := 0; i < 5; i++ {
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	cfg := &Config{
		LLMBaseURL:       getEnv("LLM_BASE_URL", "https://api.openai.com"),
		LLMModel:         getEnv("LLM_MODEL", "gpt-4-1106-preview"),
		LLMAPIKey:        getEnv("LLM_API_KEY", ""),
		EmbeddingBaseURL: getEnv("EMBEDDING_BASE_URL", "https://api.openai.com"),
		EmbeddingModel:   getEnv("EMBEDDING_MODEL", "text-embedding-3-large"),

		TranslateBaseURL: getEnv("TRANSLATE_BASE_URL", ""),
		TranslateAPIKey:  getEnv("TRANSLATE_API_KEY", ""),

		SearchBaseURL:        getEnv("SEARCH_BASE_URL", "https://www.googleapis.com/customsearch/v1"),
		SearchAPIKey:         getEnv("SEARCH_API_KEY", ""),
		SearchEngineDomestic: getEnv("SEARCH_ENGINE_DOMESTIC", ""),
		SearchEngineForeign:  getEnv("SEARCH_ENGINE_FOREIGN", ""),

		QdrantURL:                getEnv("QDRANT_URL", "http://localhost:6333"),
		NamespaceDomesticAnalyst: getEnv("NAMESPACE_DOMESTIC_ANALYST", "domestic-analyst"),
		NamespaceForeignSummary:  getEnv("NAMESPACE_FOREIGN_SUMMARY", "foreign-analyst-summary"),
		NamespaceForeignContent:  getEnv("NAMESPACE_FOREIGN_CONTENT", "foreign-analyst-content"),
		NamespaceInstitutional:   getEnv("NAMESPACE_INSTITUTIONAL", "institutional"),

		DBPath:  getEnv("DB_PATH", "./data/market-octopus.db"),
		APIPort: getEnv("API_PORT", "9000"),
	}

	var err error
	if cfg.LLMTimeout, err = getDuration("LLM_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.EmbeddingVectorSize, err = getInt("EMBEDDING_VECTOR_SIZE", 0); err != nil {
		return nil, err
	}
	if cfg.EmbeddingVectorSize <= 0 {
		return nil, fmt.Errorf("EMBEDDING_VECTOR_SIZE is required and must be greater than 0")
	}
	if cfg.EmbeddingPageSize, err = getInt("EMBEDDING_PAGE_SIZE", 5); err != nil {
		return nil, err
	}
	if cfg.SearchWindowDays, err = getInt("SEARCH_WINDOW_DAYS", 7); err != nil {
		return nil, err
	}
	if cfg.NewsSimilarityThreshold, err = getFloat("NEWS_SIMILARITY_THRESHOLD", 0.45); err != nil {
		return nil, err
	}
	if cfg.NewsTopN, err = getInt("NEWS_TOP_N", 3); err != nil {
		return nil, err
	}
	if cfg.ReportScoreThreshold, err = getFloat("REPORT_SCORE_THRESHOLD", 0.5); err != nil {
		return nil, err
	}
	if cfg.SummaryScoreThreshold, err = getFloat("SUMMARY_SCORE_THRESHOLD", 0.8); err != nil {
		return nil, err
	}
	if cfg.ReportTopN, err = getInt("REPORT_TOP_N", 3); err != nil {
		return nil, err
	}
	if cfg.FetchConcurrency, err = getInt("FETCH_CONCURRENCY", 10); err != nil {
		return nil, err
	}
	if cfg.FetchPerSecond, err = getFloat("FETCH_PER_SECOND", 5); err != nil {
		return nil, err
	}
	if cfg.ChunkSize, err = getInt("CHUNK_SIZE", 1500); err != nil {
		return nil, err
	}
	if cfg.ChunkOverlap, err = getInt("CHUNK_OVERLAP", 20); err != nil {
		return nil, err
	}

	if cfg.LLMAPIKey == "" {
		return nil, fmt.Errorf("LLM_API_KEY is required")
	}
	if cfg.SearchAPIKey == "" {
		return nil, fmt.Errorf("SEARCH_API_KEY is required")
	}
	if cfg.SearchEngineDomestic == "" || cfg.SearchEngineForeign == "" {
		return nil, fmt.Errorf("SEARCH_ENGINE_DOMESTIC and SEARCH_ENGINE_FOREIGN are required")
	}

	cfg.LogLevel = parseLogLevel(getEnv("LOG_LEVEL", "info"))
	cfg.LogFormat = getEnv("LOG_FORMAT", "text")

	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	return v, nil
}

func getFloat(key string, defaultValue float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid number: %w", key, err)
	}
	return v, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid duration: %w", key, err)
	}
	return v, nil
}

func parseLogLevel(raw string) slog.Level {
	switch raw {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
