package config

import (
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	CMS  CMSConfig
	Log  LogConfig
	OTEL OTELConfig
}

// CMSConfig holds CMS data source configuration
type CMSConfig struct {
	// PFSSearchURL is the Physician Fee Schedule search page
	PFSSearchURL string

	// DataAPIBaseURL is the base URL of the CMS open data API
	DataAPIBaseURL string

	// QueryTimeoutSeconds applies to every data source request
	QueryTimeoutSeconds int

	// ConnectTimeoutSeconds applies to connectivity smoke tests
	ConnectTimeoutSeconds int
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	return &Config{
		CMS: CMSConfig{
			PFSSearchURL:          getEnv("CMS_PFS_SEARCH_URL", "https://www.cms.gov/medicare/physician-fee-schedule/search"),
			DataAPIBaseURL:        getEnv("CMS_DATA_API_BASE_URL", "https://data.cms.gov"),
			QueryTimeoutSeconds:   getEnvAsInt("CMS_QUERY_TIMEOUT_SECONDS", 30),
			ConnectTimeoutSeconds: getEnvAsInt("CMS_CONNECT_TIMEOUT_SECONDS", 10),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "medicare-coverage-checker"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
