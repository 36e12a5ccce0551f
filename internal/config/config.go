// Package config loads the worker proxy configuration from environment
// variables.
package config

import (
	"fmt"
	"os"
)

// Config holds the worker proxy configuration.
type Config struct {
	// Addr is the listen address, e.g. ":8787".
	Addr string

	// GoogleVisionAPIKey authenticates the Vision OCR upstream.
	GoogleVisionAPIKey string

	// OpenAIAPIKey authenticates the OpenAI translation upstream.
	OpenAIAPIKey string

	// VisionURL and OpenAIURL override the upstream endpoints. Empty means
	// the public APIs.
	VisionURL string
	OpenAIURL string
}

// Load reads the configuration from the environment. Both upstream keys are
// required; the worker cannot proxy without them.
func Load() (*Config, error) {
	cfg := &Config{
		Addr:               getEnv("WORKER_ADDR", ":"+getEnv("PORT", "8787")),
		GoogleVisionAPIKey: os.Getenv("GOOGLE_VISION_API_KEY"),
		OpenAIAPIKey:       os.Getenv("OPENAI_API_KEY"),
		VisionURL:          os.Getenv("VISION_API_URL"),
		OpenAIURL:          os.Getenv("OPENAI_API_URL"),
	}
	if cfg.GoogleVisionAPIKey == "" {
		return nil, fmt.Errorf("missing required env GOOGLE_VISION_API_KEY")
	}
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("missing required env OPENAI_API_KEY")
	}
	return cfg, nil
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
