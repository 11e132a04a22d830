package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const StdStream = "-"

type Config struct {
	InputPath  string
	OutputPath string

	LogLevel       string
	LogDevelopment bool

	ServiceName      string
	ServiceVersion   string
	OTelCollectorURL string
	OTelSampleRatio  float64

	DefaultCurrency        string
	DefaultCountry         string
	DefaultOrganizationURL string
	PostingValidFor        time.Duration

	Strict bool
}

// LoadConfig reads an optional .env file from the working directory, then the
// environment. Variables already set in the environment win over the file.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	config := &Config{
		InputPath:  getEnvString("INPUT_PATH", StdStream),
		OutputPath: getEnvString("OUTPUT_PATH", StdStream),

		LogLevel:       getEnvString("LOG_LEVEL", "info"),
		LogDevelopment: getEnvBool("LOG_DEVELOPMENT", false),

		ServiceName:      getEnvString("SERVICE_NAME", "shenanigigs-render"),
		ServiceVersion:   getEnvString("SERVICE_VERSION", "1.0.0"),
		OTelCollectorURL: getEnvString("OTEL_COLLECTOR_URL", ""),
		OTelSampleRatio:  getEnvFloat("OTEL_SAMPLE_RATIO", 1),

		DefaultCurrency:        getEnvString("DEFAULT_CURRENCY", "USD"),
		DefaultCountry:         getEnvString("DEFAULT_COUNTRY", "US"),
		DefaultOrganizationURL: getEnvString("DEFAULT_ORGANIZATION_URL", ""),
		PostingValidFor:        getEnvDuration("POSTING_VALID_FOR", 30*24*time.Hour),

		Strict: getEnvBool("STRICT", false),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.InputPath) == "" {
		return fmt.Errorf("input path is required")
	}
	if strings.TrimSpace(c.OutputPath) == "" {
		return fmt.Errorf("output path is required")
	}
	if _, err := zap.ParseAtomicLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	if c.OTelSampleRatio < 0 || c.OTelSampleRatio > 1 {
		return fmt.Errorf("sample ratio must be between 0 and 1, got %v", c.OTelSampleRatio)
	}
	if c.DefaultCurrency == "" {
		return fmt.Errorf("default currency is required")
	}
	if c.PostingValidFor <= 0 {
		return fmt.Errorf("posting validity must be positive")
	}
	return nil
}

func getEnvString(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
