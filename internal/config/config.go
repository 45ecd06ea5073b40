// Package config loads the service configuration from the environment,
// with an optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the service needs to run.
type Config struct {
	Port          string        // HTTP listen port
	DetectorURL   string        // base URL of the remote detection API
	StaticDir     string        // directory served for everything outside /api
	DemoDir       string        // directory holding the bundled demo images
	MinConfidence float64       // detections at or below this are dropped
	MaxUploadMB   int64         // multipart upload cap in megabytes
	JPEGQuality   int           // quality for annotated and demo JPEGs
	DetectTimeout time.Duration // per-attempt timeout for detection calls
	Debug         bool          // verbose logging
}

// Load reads configuration from the environment. A .env file is honored when
// present and silently skipped otherwise.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		DetectorURL: getEnv("DETECTOR_URL", "http://localhost:5000"),
		StaticDir:   getEnv("STATIC_DIR", "./static"),
		DemoDir:     getEnv("DEMO_DIR", "./static/demo"),
	}

	var err error
	if cfg.MinConfidence, err = getEnvFloat("MIN_CONFIDENCE", 0.3); err != nil {
		return nil, err
	}
	if cfg.MaxUploadMB, err = getEnvInt("MAX_UPLOAD_MB", 50); err != nil {
		return nil, err
	}
	quality, err := getEnvInt("JPEG_QUALITY", 95)
	if err != nil {
		return nil, err
	}
	cfg.JPEGQuality = int(quality)
	if cfg.DetectTimeout, err = getEnvDuration("DETECT_TIMEOUT", 60*time.Second); err != nil {
		return nil, err
	}
	cfg.Debug = getEnv("DEBUG", "") != ""

	if cfg.JPEGQuality < 1 || cfg.JPEGQuality > 100 {
		return nil, fmt.Errorf("JPEG_QUALITY must be within 1-100, got %d", cfg.JPEGQuality)
	}
	if cfg.MaxUploadMB < 1 {
		return nil, fmt.Errorf("MAX_UPLOAD_MB must be positive, got %d", cfg.MaxUploadMB)
	}
	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) (float64, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

func getEnvInt(key string, defaultVal int64) (int64, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
