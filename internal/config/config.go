package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the static site server
type Config struct {
	// Server Configuration
	Server ServerConfig

	// Logging Configuration
	Logging LoggingConfig

	// Telemetry Configuration
	Telemetry TelemetryConfig

	// Site is the declarative site config the server settings were derived from
	Site *SiteConfig
}

// ServerConfig holds HTTP listener and asset settings
type ServerConfig struct {
	Host     string
	Port     int
	BuildDir string
	Compress bool
	Headers  map[string]string
}

// Addr returns the host:port pair to listen on
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string
	Format string // json, console
}

// TelemetryConfig holds OTLP exporter settings. An empty endpoint disables export.
type TelemetryConfig struct {
	Endpoint string
	Insecure bool
}

// Load loads configuration from the site config file and environment variables.
// Environment variables win over the site config.
func Load() (*Config, error) {
	// Load .env files (fails silently if files don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	site, err := loadSiteFromEnv()
	if err != nil {
		return nil, err
	}

	host := os.Getenv("HOST")
	if host == "" {
		host = site.Server.Host
	}

	port := site.Server.Port
	if raw := os.Getenv("PORT"); raw != "" {
		port, err = strconv.Atoi(raw)
		if err != nil || port < 1 || port > 65535 {
			return nil, fmt.Errorf("invalid PORT %q", raw)
		}
	}

	buildDir := os.Getenv("BUILD_DIR")
	if buildDir == "" {
		buildDir = site.GenerateBuildPath
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	logFormat := os.Getenv("LOG_FORMAT")
	if logFormat == "" {
		logFormat = "json"
	}

	return &Config{
		Server: ServerConfig{
			Host:     host,
			Port:     port,
			BuildDir: buildDir,
			Compress: site.Server.Serve.Compress,
			Headers:  site.Server.Serve.Headers,
		},
		Logging: LoggingConfig{
			Level:  logLevel,
			Format: logFormat,
		},
		Telemetry: TelemetryConfig{
			Endpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
			Insecure: os.Getenv("OTEL_EXPORTER_OTLP_INSECURE") == "true",
		},
		Site: site,
	}, nil
}

// loadSiteFromEnv reads SITE_CONFIG, or the default file when present.
// A missing default file falls back to built-in defaults; a missing explicit file is an error.
func loadSiteFromEnv() (*SiteConfig, error) {
	path := os.Getenv("SITE_CONFIG")
	if path != "" {
		return LoadSite(path)
	}

	if _, err := os.Stat(DefaultSiteConfigFile); errors.Is(err, fs.ErrNotExist) {
		return DefaultSite(), nil
	}
	return LoadSite(DefaultSiteConfigFile)
}
