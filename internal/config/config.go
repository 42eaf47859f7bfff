// Package config loads service configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port        string
	DatabaseURL string
	// debug, info, warn or error.
	LogLevel string
	// Sent as the User-Agent of outbound geocoding calls.
	AppName     string
	CORSOrigins []string

	// Store location that every shipping distance is measured from.
	OriginLat float64
	OriginLon float64

	ViaCEPBaseURL    string
	NominatimBaseURL string
	GeocodeCountry   string
	// Minimum spacing between Nominatim requests. Zero disables throttling.
	NominatimMinInterval time.Duration
	RegistryTimeout      time.Duration
	GeocoderTimeout      time.Duration

	// Empty disables the settings cache.
	RedisURL         string
	SettingsCacheTTL time.Duration

	SeedPath string
}

// Load reads the environment. Missing required variables are reported
// together; malformed numbers and durations are errors.
func Load() (Config, error) {
	cfg := Config{
		Port:             getEnv("PORT", "8080"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		AppName:          getEnv("APP_NAME", "basket-shipping-service/1.0"),
		CORSOrigins:      splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		ViaCEPBaseURL:    getEnv("VIACEP_BASE_URL", "https://viacep.com.br"),
		NominatimBaseURL: getEnv("NOMINATIM_BASE_URL", "https://nominatim.openstreetmap.org"),
		GeocodeCountry:   getEnv("GEOCODE_COUNTRY", "Brasil"),
		RedisURL:         os.Getenv("REDIS_URL"),
		SeedPath:         getEnv("SEED_PATH", "data/seeds/shipping.json"),
	}

	var missing []string
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	var errs []error
	cfg.OriginLat = getFloat("ORIGIN_LAT", -21.1775, &errs)
	cfg.OriginLon = getFloat("ORIGIN_LON", -47.8103, &errs)
	cfg.NominatimMinInterval = getDuration("NOMINATIM_MIN_INTERVAL", time.Second, &errs)
	cfg.RegistryTimeout = getDuration("REGISTRY_TIMEOUT", 5*time.Second, &errs)
	cfg.GeocoderTimeout = getDuration("GEOCODER_TIMEOUT", 6*time.Second, &errs)
	cfg.SettingsCacheTTL = getDuration("SETTINGS_CACHE_TTL", time.Minute, &errs)

	if cfg.OriginLat < -90 || cfg.OriginLat > 90 || cfg.OriginLon < -180 || cfg.OriginLon > 180 {
		errs = append(errs, fmt.Errorf("ORIGIN_LAT/ORIGIN_LON out of range: %v,%v", cfg.OriginLat, cfg.OriginLon))
	}
	if _, err := parseLevel(cfg.LogLevel); err != nil {
		errs = append(errs, err)
	}

	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// SlogLevel returns the slog level named by LogLevel.
func (c Config) SlogLevel() slog.Level {
	level, _ := parseLevel(c.LogLevel)
	return level
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return level, nil
}

// getEnv returns the value of key, or fallback if it is unset or empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getFloat(key string, fallback float64, errs *[]error) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return f
}

func getDuration(key string, fallback time.Duration, errs *[]error) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	if d < 0 {
		*errs = append(*errs, fmt.Errorf("%s: must not be negative", key))
		return fallback
	}
	return d
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
