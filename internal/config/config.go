package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the gateway configuration.
type Config struct {
	Host string
	Port int

	BaseURL      string // local inference backend
	CloudBaseURL string // authenticated remote backend
	APIKey       string // empty disables cloud routing
	AuthScheme   string
	DefaultModel string
	KeepAlive    string

	RequestTimeout time.Duration
	Retries        int

	CatalogURL     string // empty uses the public listing page
	EmbeddingModel string // used for catalog semantic search
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Host:           "0.0.0.0",
		Port:           8080,
		BaseURL:        "http://localhost:11434",
		CloudBaseURL:   "https://ollama.com",
		AuthScheme:     "Bearer",
		DefaultModel:   "llama3",
		KeepAlive:      "5m",
		RequestTimeout: 60 * time.Second,
		Retries:        2,
		EmbeddingModel: "nomic-embed-text",
	}
}

// FromEnv returns DefaultConfig overridden by environment variables.
func FromEnv() (*Config, error) {
	cfg := DefaultConfig()

	if v := getenv("OLLAMA_BASE_URL"); v != "" {
		cfg.BaseURL = strings.TrimRight(v, "/")
	}
	if v := getenv("OLLAMA_CLOUD_URL"); v != "" {
		cfg.CloudBaseURL = strings.TrimRight(v, "/")
	}
	cfg.APIKey = getenv("OLLAMA_API_KEY")
	if v := getenv("OLLAMA_AUTH_SCHEME"); v != "" {
		cfg.AuthScheme = v
	}
	if v := getenv("OLLAMA_DEFAULT_MODEL"); v != "" {
		cfg.DefaultModel = v
	}
	if v := getenv("OLLAMA_KEEP_ALIVE"); v != "" {
		cfg.KeepAlive = v
	}
	if v := getenv("CATALOG_URL"); v != "" {
		cfg.CatalogURL = v
	}
	if v := getenv("OLLAMA_EMBEDDING_MODEL"); v != "" {
		cfg.EmbeddingModel = v
	}

	if v := getenv("REQUEST_TIMEOUT_SECONDS"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("REQUEST_TIMEOUT_SECONDS must be an integer: %w", err)
		}
		cfg.RequestTimeout = time.Duration(secs) * time.Second
	}
	if v := getenv("REQUEST_RETRIES"); v != "" {
		retries, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("REQUEST_RETRIES must be an integer: %w", err)
		}
		cfg.Retries = retries
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks configuration bounds.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL cannot be empty")
	}
	if c.RequestTimeout < 5*time.Second {
		return fmt.Errorf("request timeout must be at least 5s")
	}
	if c.Retries < 0 {
		return fmt.Errorf("retries must be >= 0")
	}
	if c.KeepAlive == "" {
		return fmt.Errorf("keep_alive cannot be empty")
	}
	if c.AuthScheme == "" {
		return fmt.Errorf("auth scheme cannot be empty")
	}
	return nil
}

func getenv(name string) string {
	return strings.TrimSpace(os.Getenv(name))
}
