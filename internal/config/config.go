// Package config reads runtime settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig
	Parser  ParserConfig
	Logging LoggingConfig
	Metrics MetricsConfig
}

type ServerConfig struct {
	Host        string
	Port        int
	MaxUploadMB int
}

// Addr returns host:port for the listener.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type ParserConfig struct {
	Workers int
}

type LoggingConfig struct {
	Level  string
	Format string
}

type MetricsConfig struct {
	Enabled bool
}

// Load reads configuration from environment variables, after loading a .env
// file from the working directory when one exists.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	return FromEnv()
}

// FromEnv reads configuration from the process environment only.
func FromEnv() (*Config, error) {
	var errs []error

	cfg := &Config{
		Server: ServerConfig{
			Host:        getEnv("TITULOS_HOST", "0.0.0.0"),
			Port:        getEnvAsInt("TITULOS_PORT", 8080, &errs),
			MaxUploadMB: getEnvAsInt("TITULOS_MAX_UPLOAD_MB", 32, &errs),
		},
		Parser: ParserConfig{
			Workers: getEnvAsInt("TITULOS_WORKERS", runtime.NumCPU(), &errs),
		},
		Logging: LoggingConfig{
			Level:  strings.ToLower(getEnv("TITULOS_LOG_LEVEL", "info")),
			Format: strings.ToLower(getEnv("TITULOS_LOG_FORMAT", "json")),
		},
		Metrics: MetricsConfig{
			Enabled: getEnvAsBool("TITULOS_METRICS_ENABLED", true, &errs),
		},
	}

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("TITULOS_PORT out of range: %d", cfg.Server.Port))
	}
	if cfg.Server.MaxUploadMB <= 0 {
		errs = append(errs, fmt.Errorf("TITULOS_MAX_UPLOAD_MB must be positive: %d", cfg.Server.MaxUploadMB))
	}
	if cfg.Parser.Workers <= 0 {
		errs = append(errs, fmt.Errorf("TITULOS_WORKERS must be positive: %d", cfg.Parser.Workers))
	}
	switch cfg.Logging.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("TITULOS_LOG_FORMAT must be json or console: %q", cfg.Logging.Format))
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int, errs *[]error) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: invalid integer %q", key, valueStr))
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool, errs *[]error) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: invalid boolean %q", key, valueStr))
		return defaultValue
	}
	return value
}
