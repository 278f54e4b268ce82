// SPDX-License-Identifier: MIT

// Package config loads daemon configuration with precedence ENV > file > defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrMissingCredentials is returned when neither the TMDB read access token
// nor the TMDB API key is configured. The daemon must not serve traffic in
// this state.
var ErrMissingCredentials = errors.New("config: TMDB credentials not found, set TMDB_API_READ_ACCESS_TOKEN or TMDB_API_KEY")

// Cache backend selectors.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheOff    = "off"
)

// Config holds the full daemon configuration.
type Config struct {
	ListenAddr string `yaml:"listenAddr"`
	LogLevel   string `yaml:"logLevel"`

	// Upstream TMDB settings. Credentials are env-only, never file-backed.
	TMDBBaseURL     string        `yaml:"tmdbBaseURL"`
	TMDBToken       string        `yaml:"-"`
	TMDBAPIKey      string        `yaml:"-"`
	UpstreamTimeout time.Duration `yaml:"upstreamTimeout"`

	CacheBackend  string        `yaml:"cacheBackend"`
	CacheSweep    time.Duration `yaml:"cacheSweep"`
	RedisAddr     string        `yaml:"redisAddr"`
	RedisPassword string        `yaml:"-"`
	RedisDB       int           `yaml:"redisDB"`

	DefaultRegion   string        `yaml:"defaultRegion"`
	RateLimitRPM    int           `yaml:"rateLimitRPM"`
	AllowedOrigins  []string      `yaml:"allowedOrigins"`
	MetricsEnabled  bool          `yaml:"metricsEnabled"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

func defaults() Config {
	return Config{
		ListenAddr:      ":8080",
		LogLevel:        "info",
		TMDBBaseURL:     "https://api.themoviedb.org/3",
		UpstreamTimeout: 15 * time.Second,
		CacheBackend:    CacheMemory,
		CacheSweep:      5 * time.Minute,
		RedisAddr:       "localhost:6379",
		DefaultRegion:   "US",
		RateLimitRPM:    600,
		MetricsEnabled:  true,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Load builds the configuration with precedence ENV > file > defaults.
// The file path is optional; an empty path skips the file layer entirely.
func Load(path string) (Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path) // #nosec G304 -- path comes from the operator
		if err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
		dec := yaml.NewDecoder(strings.NewReader(string(data)))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return cfg, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	cfg.ListenAddr = ParseString("TRENDSD_LISTEN", cfg.ListenAddr)
	cfg.LogLevel = ParseString("TRENDSD_LOG_LEVEL", cfg.LogLevel)
	cfg.TMDBBaseURL = ParseString("TRENDSD_TMDB_BASE_URL", cfg.TMDBBaseURL)
	cfg.TMDBToken = ParseString("TMDB_API_READ_ACCESS_TOKEN", "")
	cfg.TMDBAPIKey = ParseString("TMDB_API_KEY", "")
	cfg.UpstreamTimeout = ParseDuration("TRENDSD_UPSTREAM_TIMEOUT", cfg.UpstreamTimeout)
	cfg.CacheBackend = ParseString("TRENDSD_CACHE", cfg.CacheBackend)
	cfg.CacheSweep = ParseDuration("TRENDSD_CACHE_SWEEP", cfg.CacheSweep)
	cfg.RedisAddr = ParseString("TRENDSD_REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisPassword = ParseString("TRENDSD_REDIS_PASSWORD", "")
	cfg.RedisDB = ParseInt("TRENDSD_REDIS_DB", cfg.RedisDB)
	cfg.DefaultRegion = ParseString("TRENDSD_REGION", cfg.DefaultRegion)
	cfg.RateLimitRPM = ParseInt("TRENDSD_RATE_LIMIT", cfg.RateLimitRPM)
	if origins := ParseString("TRENDSD_CORS_ORIGINS", ""); origins != "" {
		cfg.AllowedOrigins = splitCSV(origins)
	}
	cfg.MetricsEnabled = ParseBool("TRENDSD_METRICS", cfg.MetricsEnabled)
	cfg.ShutdownTimeout = ParseDuration("TRENDSD_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks invariants that must hold before the daemon serves traffic.
func (c Config) Validate() error {
	if c.TMDBToken == "" && c.TMDBAPIKey == "" {
		return ErrMissingCredentials
	}
	switch c.CacheBackend {
	case CacheMemory, CacheRedis, CacheOff:
	default:
		return fmt.Errorf("config: unknown cache backend %q", c.CacheBackend)
	}
	if c.RateLimitRPM <= 0 {
		return fmt.Errorf("config: rate limit must be positive, got %d", c.RateLimitRPM)
	}
	return nil
}

func splitCSV(csv string) []string {
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
