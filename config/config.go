package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/Uranury/sensor-output/output"
)

type Config struct {
	Format      output.Format
	LogLevel    slog.Level
	HTTPAddr    string
	Measurement string
}

// Load reads .env files (if any) and then the environment. Unset variables
// fall back to defaults that print one text line and exit.
func Load(envFiles ...string) (*Config, error) {
	// a missing .env is fine; a broken one is not
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf(".env: %w", err)
	}

	format, err := output.ParseFormat(getEnv("SENSOR_OUTPUT_FORMAT", "text"))
	if err != nil {
		return nil, fmt.Errorf("SENSOR_OUTPUT_FORMAT: %w", err)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(getEnv("SENSOR_LOG_LEVEL", "warn"))); err != nil {
		return nil, fmt.Errorf("SENSOR_LOG_LEVEL: %w", err)
	}

	measurement := getEnv("SENSOR_MEASUREMENT", "climate_sensor")
	if strings.TrimSpace(measurement) == "" {
		return nil, errors.New("SENSOR_MEASUREMENT: must not be blank")
	}

	return &Config{
		Format:      format,
		LogLevel:    level,
		HTTPAddr:    getEnv("SENSOR_HTTP_ADDR", ""),
		Measurement: measurement,
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
