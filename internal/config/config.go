package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderEndpoint  = "endpoint"
)

type Config struct {
	// HTTP Server
	Port        string
	Environment string
	LogLevel    string

	// Text generation
	TextGenProvider    string
	TextGenModel       string
	TextGenEndpointURL string
	OpenAIAPIKey       string
	AnthropicAPIKey    string
	TextGenTemperature float64
	TextGenMaxTokens   int
	TextGenTimeout     time.Duration

	// Caching
	FirestoreProject string
	CacheTTL         time.Duration

	// Submissions
	SubmissionHistoryLimit int
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "production"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		TextGenProvider:    getEnv("TEXTGEN_PROVIDER", ProviderOpenAI),
		TextGenModel:       getEnv("TEXTGEN_MODEL", "gpt-4o-mini"),
		TextGenEndpointURL: getEnv("TEXTGEN_ENDPOINT_URL", ""),
		OpenAIAPIKey:       getEnv("OPENAI_API_KEY", ""),
		AnthropicAPIKey:    getEnv("ANTHROPIC_API_KEY", ""),
		TextGenTemperature: getEnvFloat("TEXTGEN_TEMPERATURE", 0.2),
		TextGenMaxTokens:   getEnvInt("TEXTGEN_MAX_TOKENS", 1024),
		TextGenTimeout:     getEnvDuration("TEXTGEN_TIMEOUT", 20*time.Second),

		FirestoreProject: getEnv("FIRESTORE_PROJECT_ID", ""),
		CacheTTL:         getEnvDuration("CACHE_TTL", time.Hour),

		SubmissionHistoryLimit: getEnvInt("SUBMISSION_HISTORY_LIMIT", 100),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.TextGenProvider {
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			errors = append(errors, "OPENAI_API_KEY is required when using the openai provider")
		}
	case ProviderAnthropic:
		if c.AnthropicAPIKey == "" {
			errors = append(errors, "ANTHROPIC_API_KEY is required when using the anthropic provider")
		}
	case ProviderEndpoint:
		if c.TextGenEndpointURL == "" {
			errors = append(errors, "TEXTGEN_ENDPOINT_URL is required when using the endpoint provider")
		} else if parsedURL, err := url.Parse(c.TextGenEndpointURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid endpoint URL '%s': %v", c.TextGenEndpointURL, err))
		} else if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
			errors = append(errors, fmt.Sprintf("invalid endpoint URL scheme '%s': must be 'http' or 'https'", parsedURL.Scheme))
		}
	default:
		errors = append(errors, fmt.Sprintf("invalid text generation provider '%s': must be one of [%s %s %s]",
			c.TextGenProvider, ProviderOpenAI, ProviderAnthropic, ProviderEndpoint))
	}

	if c.TextGenModel == "" && c.TextGenProvider != ProviderEndpoint {
		errors = append(errors, "TEXTGEN_MODEL cannot be empty")
	}

	if c.TextGenTemperature < 0 || c.TextGenTemperature > 2 {
		errors = append(errors, fmt.Sprintf("invalid temperature %v: must be between 0 and 2", c.TextGenTemperature))
	}

	if c.TextGenMaxTokens < 1 {
		errors = append(errors, fmt.Sprintf("invalid max tokens %d: must be at least 1", c.TextGenMaxTokens))
	}

	if c.TextGenTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid timeout %v: must be at least 1 second", c.TextGenTimeout))
	} else if c.TextGenTimeout > 5*time.Minute {
		errors = append(errors, fmt.Sprintf("invalid timeout %v: must be at most 5 minutes", c.TextGenTimeout))
	}

	if c.CacheTTL < 0 {
		errors = append(errors, fmt.Sprintf("invalid cache TTL %v: must not be negative", c.CacheTTL))
	}

	if c.SubmissionHistoryLimit < 1 {
		errors = append(errors, fmt.Sprintf("invalid submission history limit %d: must be at least 1", c.SubmissionHistoryLimit))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
