package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ServiceConfig holds all configuration for the booking service.
type ServiceConfig struct {
	Port     string
	AppEnv   string
	Store    StoreConfig
	Fallback FallbackConfig
	Kafka    KafkaConfig
	CORS     CORSConfig
}

// StoreConfig points the service at the hosted data API that persists
// bookings and the taxi catalog.
type StoreConfig struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}

// FallbackConfig controls the local write-through store used while the
// remote store is unreachable. An empty path disables it.
type FallbackConfig struct {
	Path string
}

func (c FallbackConfig) Enabled() bool {
	return c.Path != ""
}

// KafkaConfig lists the brokers for event publishing and consumption.
// No brokers means eventing is disabled.
type KafkaConfig struct {
	Brokers     []string
	GroupPrefix string
}

func (c KafkaConfig) Enabled() bool {
	return len(c.Brokers) > 0
}

type CORSConfig struct {
	AllowedOrigins []string
}

// Load reads configuration from BOOKING_-prefixed environment variables,
// applying defaults for everything except the store credentials.
func Load() (*ServiceConfig, error) {
	v := viper.New()
	v.SetEnvPrefix("BOOKING")
	v.AutomaticEnv()

	v.SetDefault("service_port", "8080")
	v.SetDefault("store_timeout", "10s")
	v.SetDefault("kafka_group_prefix", "swiftcab.")
	v.SetDefault("cors_origins", "*")

	_ = v.BindEnv("app_env", "APP_ENV")
	v.SetDefault("app_env", "development")

	storeURL := v.GetString("store_url")
	if storeURL == "" {
		return nil, fmt.Errorf("BOOKING_STORE_URL is required")
	}
	apiKey := v.GetString("store_api_key")
	if apiKey == "" {
		return nil, fmt.Errorf("BOOKING_STORE_API_KEY is required")
	}

	return &ServiceConfig{
		Port:   ":" + strings.TrimPrefix(v.GetString("service_port"), ":"),
		AppEnv: v.GetString("app_env"),
		Store: StoreConfig{
			URL:     strings.TrimRight(storeURL, "/"),
			APIKey:  apiKey,
			Timeout: v.GetDuration("store_timeout"),
		},
		Fallback: FallbackConfig{
			Path: v.GetString("fallback_path"),
		},
		Kafka: KafkaConfig{
			Brokers:     splitList(v.GetString("kafka_brokers")),
			GroupPrefix: v.GetString("kafka_group_prefix"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("cors_origins")),
		},
	}, nil
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
