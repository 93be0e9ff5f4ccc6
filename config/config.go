package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Location LocationConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	// Driver selects the location store backend: "mysql" for the indexed
	// production store, "memory" for ephemeral deployments.
	Driver          string
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	AccessSecret string
	AccessExpiry time.Duration
	Issuer       string
}

type LocationConfig struct {
	// StaleAfter is the freshness window: records older than this are
	// excluded from discovery results as ghosts.
	StaleAfter time.Duration
	// JitterMinMeters/JitterMaxMeters bound the radial offset applied to
	// static-mode coordinates before disclosure.
	JitterMinMeters float64
	JitterMaxMeters float64
	// MaxRadiusKm caps the requested discovery radius at the API boundary.
	MaxRadiusKm float64
	// StoreTimeout bounds each discovery query's store I/O so a stalled
	// backend surfaces as unavailable instead of hanging the request.
	StoreTimeout time.Duration
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			Env:          getEnv("APP_ENV", "development"),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:          getEnv("STORE_DRIVER", "memory"),
			DSN:             getEnv("MYSQL_DSN", "kickabout:kickabout@tcp(localhost:3306)/kickabout?charset=utf8mb4&parseTime=True&loc=Local"),
			MaxIdleConns:    10,
			MaxOpenConns:    100,
			ConnMaxLifetime: time.Hour,
		},
		JWT: JWTConfig{
			AccessSecret: getEnv("JWT_ACCESS_SECRET", "change-me-in-production"),
			AccessExpiry: 24 * time.Hour,
			Issuer:       "kickabout",
		},
		Location: LocationConfig{
			StaleAfter:      getEnvDuration("LOCATION_STALE_AFTER", 60*time.Minute),
			JitterMinMeters: getEnvFloat("LOCATION_JITTER_MIN_M", 100),
			JitterMaxMeters: getEnvFloat("LOCATION_JITTER_MAX_M", 500),
			MaxRadiusKm:     getEnvFloat("DISCOVERY_MAX_RADIUS_KM", 50),
			StoreTimeout:    getEnvDuration("DISCOVERY_STORE_TIMEOUT", 5*time.Second),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
