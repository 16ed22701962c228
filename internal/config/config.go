// internal/config/config.go
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Tuning holds the calibration constants of the inference pipelines.
// They have no measured basis per deployed model, so they stay
// overridable through the environment instead of being hardcoded.
type Tuning struct {
	// DetectionThreshold is the confidence (0-100) above which a text
	// is classified as AI-generated.
	DetectionThreshold float64

	// TokensPerWord converts a requested word budget into a sampling
	// token budget.
	TokensPerWord float64

	// MaxTokenWindow is the encoder truncation window for both oracles.
	MaxTokenWindow int

	// MinDetectionChars is the minimum trimmed input length accepted by
	// the detection pipeline.
	MinDetectionChars int
}

// Config stores the application configuration.
type Config struct {
	Port      string
	DataDir   string
	DebugMode bool

	// Oracle backend
	OracleProvider string
	OracleConfig   map[string]string

	// Results store backend: "sqlite" or "jsondb"
	StoreBackend string

	Tuning Tuning
}

// Load reads the configuration from environment variables.
// A .env file is loaded first when present.
func Load() (*Config, error) {
	godotenv.Load()

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		DataDir:        getEnvPath("DATA_DIR", "data"),
		DebugMode:      getEnvBool("DEBUG_MODE", true),
		OracleProvider: getEnv("ORACLE_PROVIDER", "modelserver"),
		OracleConfig: map[string]string{
			"base_url":         getEnv("ORACLE_BASE_URL", "http://localhost:9090"),
			"api_key":          getEnv("ORACLE_API_KEY", ""),
			"classifier_model": getEnv("CLASSIFIER_MODEL", "roberta-base-ai-detector"),
			"generator_model":  getEnv("GENERATOR_MODEL", "gpt2"),
		},
		StoreBackend: getEnv("STORE_BACKEND", "sqlite"),
		Tuning: Tuning{
			DetectionThreshold: getEnvFloat("DETECTION_THRESHOLD", 50.0),
			TokensPerWord:      getEnvFloat("TOKENS_PER_WORD", 1.3),
			MaxTokenWindow:     getEnvInt("MAX_TOKEN_WINDOW", 512),
			MinDetectionChars:  getEnvInt("MIN_DETECTION_CHARS", 50),
		},
	}

	if cfg.OracleProvider == "hfapi" && cfg.OracleConfig["api_key"] == "" {
		log.Println("warning: ORACLE_API_KEY is not set, Hugging Face API calls will be rejected")
	}

	return cfg, nil
}

// getEnv returns the environment variable value or a default.
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvPath returns a path from the environment and makes sure it exists.
func getEnvPath(key, defaultValue string) string {
	path := getEnv(key, defaultValue)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.MkdirAll(path, 0755); err != nil {
			fmt.Printf("warning: failed to create directory %s: %v\n", path, err)
		}
	}

	return path
}

// getEnvBool parses a boolean environment variable.
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	return value == "true" || value == "1" || value == "yes"
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return v
}
