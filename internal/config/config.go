// Package config
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type TempProvider string

const (
	ProviderNative      TempProvider = "native"
	ProviderThermalZone TempProvider = "thermal_zone"
	ProviderExternal    TempProvider = "external"
)

type Config struct {
	Address string

	MetricsInterval  time.Duration
	NoClientInterval time.Duration
	HardwareInterval time.Duration
	ProcessInterval  time.Duration

	AllowCrossNetwork bool
	AdaptiveInterval  bool

	Provider TempProvider

	LogLevel  string
	LogFormat string
}

func Load() *Config {
	godotenv.Load()

	provider := ProviderNative
	switch TempProvider(os.Getenv("TEMP_PROVIDER")) {
	case ProviderThermalZone:
		provider = ProviderThermalZone
	case ProviderExternal:
		provider = ProviderExternal
	}

	return &Config{
		Address: ":" + strconv.Itoa(envInt("PORT", 8787)),

		MetricsInterval:  envMillis("METRICS_INTERVAL_MS", 1000),
		NoClientInterval: envMillis("NO_CLIENT_INTERVAL_MS", 2000),
		HardwareInterval: envMillis("HARDWARE_POLL_INTERVAL_MS", 2000),
		ProcessInterval:  envMillis("PROCESS_REFRESH_MS", 5000),

		AllowCrossNetwork: envBool("ALLOW_CROSS_NETWORK", false),
		AdaptiveInterval:  envBool("ADAPTIVE_NO_CLIENT_INTERVAL", false),

		Provider: provider,

		LogLevel:  envString("LOG_LEVEL", "info"),
		LogFormat: envString("LOG_FORMAT", "text"),
	}
}

func envString(key, fallback string) string {
	if raw := os.Getenv(key); raw != "" {
		return raw
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if raw := os.Getenv(key); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			return parsed
		}
	}
	return fallback
}

func envMillis(key string, fallback int) time.Duration {
	return time.Duration(envInt(key, fallback)) * time.Millisecond
}

func envBool(key string, fallback bool) bool {
	if raw := os.Getenv(key); raw != "" {
		if parsed, err := strconv.ParseBool(raw); err == nil {
			return parsed
		}
	}
	return fallback
}
