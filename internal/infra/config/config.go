package config

import (
	"log"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// AppConfig describes the service configuration.
type AppConfig struct {
	AppEnv string `envconfig:"APP_ENV" default:"dev"`
	Port   int    `envconfig:"PORT" default:"8080"`

	MetricsAddr string `envconfig:"METRICS_ADDR" default:":9090"`

	PGDSN string `envconfig:"PG_DSN"`

	// RedisAddr is optional; the detail cache is disabled when empty.
	RedisAddr string `envconfig:"REDIS_ADDR"`

	Congress struct {
		APIKey     string        `envconfig:"CONGRESS_API_KEY"`
		BaseURL    string        `envconfig:"CONGRESS_BASE_URL" default:"https://api.congress.gov/v3"`
		Timeout    time.Duration `envconfig:"CONGRESS_TIMEOUT" default:"10s"`
		FetchLimit int           `envconfig:"CONGRESS_FETCH_LIMIT" default:"250"`
	} `envconfig:""`

	OpenAI struct {
		APIKey         string        `envconfig:"OPENAI_API_KEY"`
		BaseURL        string        `envconfig:"OPENAI_BASE_URL"`
		EmbeddingModel string        `envconfig:"EMBEDDING_MODEL" default:"text-embedding-3-small"`
		SummaryModel   string        `envconfig:"SUMMARY_MODEL" default:"gpt-4.1-mini"`
		Timeout        time.Duration `envconfig:"OPENAI_TIMEOUT" default:"60s"`
	} `envconfig:""`

	Search struct {
		TopK           int           `envconfig:"SEARCH_TOP_K" default:"12"`
		PerPage        int           `envconfig:"SEARCH_PER_PAGE" default:"6"`
		DetailCacheTTL time.Duration `envconfig:"DETAIL_CACHE_TTL" default:"15m"`
	} `envconfig:""`

	// SummarizerMode selects the summarizer implementation: "openai" or "extractive".
	SummarizerMode string `envconfig:"SUMMARIZER_MODE" default:"openai"`
}

// Load reads the config from the environment. The Congress API key has no
// baked-in fallback: the process refuses to start without it.
func Load() AppConfig {
	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg.Congress.APIKey == "" {
		log.Fatal("CONGRESS_API_KEY is required")
	}
	return cfg
}
