// Package config reads application configuration from environment
// variables. DATASET_SOURCE is the only required setting; everything
// else carries a working default.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config represents the complete application configuration
type Config struct {
	Data      DataConfig
	Server    ServerConfig
	Database  DatabaseConfig
	Profiling ProfilingConfig
}

// DataConfig holds dataset source settings
type DataConfig struct {
	// Source is a local CSV path, an http(s) CSV URL, or a local
	// Excel workbook.
	Source string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
}

// DatabaseConfig holds PostgreSQL settings. Persistence is optional:
// an empty URL disables it.
type DatabaseConfig struct {
	URL string
}

// ProfilingConfig holds column profiling settings
type ProfilingConfig struct {
	// Workers caps concurrent column profiling. Zero means one
	// worker per CPU.
	Workers int
	// SkipRun disables the step sequence and only profiles columns.
	SkipRun bool
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	source := os.Getenv("DATASET_SOURCE")
	if source == "" {
		return nil, fmt.Errorf("DATASET_SOURCE is required")
	}

	return &Config{
		Data: DataConfig{Source: source},
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
		Database: DatabaseConfig{
			URL: getEnvOrDefault("DATABASE_URL", ""),
		},
		Profiling: ProfilingConfig{
			Workers: getEnvIntOrDefault("PROFILE_WORKERS", 0),
			SkipRun: getEnvBoolOrDefault("PROFILE_ONLY", false),
		},
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
