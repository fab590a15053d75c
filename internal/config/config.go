// Package config reads runtime settings from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds the server settings.
type Config struct {
	// LogLevel is a zerolog level name: debug, info, warn, error, disabled.
	LogLevel string

	// LogFormat is "console", "json" or "auto". Auto picks console output
	// when stderr is a terminal.
	LogFormat string

	// Profile is the detection profile used when a request names none.
	Profile string

	// CacheSize is the number of decoded images kept by path. Zero means
	// no limit.
	CacheSize int
}

// Environment variables read by Load.
const (
	EnvLogLevel  = "SHAPE_MCP_LOG_LEVEL"
	EnvLogFormat = "SHAPE_MCP_LOG_FORMAT"
	EnvProfile   = "SHAPE_MCP_PROFILE"
	EnvCacheSize = "SHAPE_MCP_CACHE_SIZE"
)

// DefaultCacheSize is used when EnvCacheSize is unset or not a
// non-negative integer.
const DefaultCacheSize = 16

// Load reads the configuration, falling back to defaults for unset variables.
func Load() *Config {
	return &Config{
		LogLevel:  strings.ToLower(getEnv(EnvLogLevel, "info")),
		LogFormat: strings.ToLower(getEnv(EnvLogFormat, "auto")),
		Profile:   getEnv(EnvProfile, "camera"),
		CacheSize: getEnvInt(EnvCacheSize, DefaultCacheSize),
	}
}

func getEnv(key, defaultVal string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil || n < 0 {
		return defaultVal
	}
	return n
}
