package config

import (
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Input  string
	Output string
	Pretty bool
	DBPath string

	Addr    string
	DataURL string

	LogLevel string
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Input:  getEnv("XLGALLERY_INPUT", "realdata.xlsx"),
		Output: getEnv("XLGALLERY_OUTPUT", "data.json"),
		Pretty: getEnvBool("XLGALLERY_PRETTY", true),
		DBPath: getEnv("XLGALLERY_DB_PATH", ""),

		Addr:    getEnv("XLGALLERY_ADDR", ":8080"),
		DataURL: getEnv("XLGALLERY_DATA_URL", ""),

		LogLevel: getEnv("XLGALLERY_LOG_LEVEL", "info"),
	}

	return cfg, nil
}

// Level maps LogLevel to a slog level, falling back to info.
func (c Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return slog.LevelInfo
	}
	return level
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(key, "")))
	if value == "" {
		return fallback
	}
	if value == "1" || value == "true" || value == "yes" || value == "on" {
		return true
	}
	if value == "0" || value == "false" || value == "no" || value == "off" {
		return false
	}
	return fallback
}
