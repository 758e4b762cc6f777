// Package config provides application configuration management.
package config

import (
	"log"
	"os"
	"strings"
	"time"

	"sigs.k8s.io/yaml"
)

// Config holds all application configuration.
type Config struct {
	// Server configuration
	ServerPort string `json:"serverPort,omitempty"`
	StaticDir  string `json:"staticDir,omitempty"`

	// Upstream provider configuration. The API key is intentionally not
	// file-loadable; it comes from the environment only.
	OpenAIAPIKey  string `json:"-"`
	OpenAIBaseURL string `json:"openaiBaseURL,omitempty"`
	OpenAIModel   string `json:"openaiModel,omitempty"`

	// Demo endpoints stream a canned paragraph at this cadence.
	DemoCadence time.Duration `json:"-"`

	// DemoCadenceMS is the file-facing form of DemoCadence.
	DemoCadenceMS int `json:"demoCadenceMS,omitempty"`

	// Debug keeps the HTTP engine in debug mode.
	Debug bool `json:"debug,omitempty"`
}

// Load builds configuration from an optional YAML file (RELAY_CONFIG_FILE)
// with environment variables taking precedence over file values.
func Load() *Config {
	cfg := &Config{}

	if path := os.Getenv("RELAY_CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Fatalf("Failed to read config file %s: %v", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			log.Fatalf("Failed to parse config file %s: %v", path, err)
		}
	}

	cfg.ServerPort = getEnv("SERVER_PORT", fallback(cfg.ServerPort, "8080"))
	cfg.StaticDir = getEnv("STATIC_DIR", fallback(cfg.StaticDir, "static"))
	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	cfg.OpenAIBaseURL = getEnv("OPENAI_BASE_URL", cfg.OpenAIBaseURL)
	cfg.OpenAIModel = getEnv("OPENAI_MODEL", cfg.OpenAIModel)

	fileCadence := 200 * time.Millisecond
	if cfg.DemoCadenceMS > 0 {
		fileCadence = time.Duration(cfg.DemoCadenceMS) * time.Millisecond
	}
	cfg.DemoCadence = getEnvDuration("DEMO_CADENCE", fileCadence)
	cfg.Debug = getEnvBool("RELAY_DEBUG", cfg.Debug)

	return cfg
}

func fallback(value, defaultValue string) string {
	if value != "" {
		return value
	}
	return defaultValue
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Printf("Invalid duration for %s: %s, using default %s", key, value, defaultValue)
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		switch strings.ToLower(value) {
		case "1", "true", "yes", "y":
			return true
		case "0", "false", "no", "n":
			return false
		default:
			log.Printf("Invalid bool for %s: %s, using default %t", key, value, defaultValue)
		}
	}
	return defaultValue
}
