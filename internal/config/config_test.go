package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_RequiresStoreCredentials(t *testing.T) {
	t.Setenv("BOOKING_STORE_URL", "")
	t.Setenv("BOOKING_STORE_API_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BOOKING_STORE_URL")

	t.Setenv("BOOKING_STORE_URL", "https://xyz.supabase.co/rest/v1")
	_, err = Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BOOKING_STORE_API_KEY")
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("BOOKING_STORE_URL", "https://xyz.supabase.co/rest/v1")
	t.Setenv("BOOKING_STORE_API_KEY", "public-anon-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Port)
	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, 10*time.Second, cfg.Store.Timeout)
	assert.False(t, cfg.Fallback.Enabled())
	assert.False(t, cfg.Kafka.Enabled())
	assert.Equal(t, "swiftcab.", cfg.Kafka.GroupPrefix)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_FullConfig(t *testing.T) {
	t.Setenv("BOOKING_SERVICE_PORT", "9090")
	t.Setenv("APP_ENV", "production")
	t.Setenv("BOOKING_STORE_URL", "https://xyz.supabase.co/rest/v1/")
	t.Setenv("BOOKING_STORE_API_KEY", "public-anon-key")
	t.Setenv("BOOKING_STORE_TIMEOUT", "3s")
	t.Setenv("BOOKING_FALLBACK_PATH", "/var/lib/swiftcab/fallback.db")
	t.Setenv("BOOKING_KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092")
	t.Setenv("BOOKING_CORS_ORIGINS", "https://app.swiftcab.my,https://admin.swiftcab.my")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Port)
	assert.Equal(t, "production", cfg.AppEnv)
	assert.Equal(t, "https://xyz.supabase.co/rest/v1", cfg.Store.URL, "trailing slash is trimmed")
	assert.Equal(t, 3*time.Second, cfg.Store.Timeout)
	assert.True(t, cfg.Fallback.Enabled())
	require.True(t, cfg.Kafka.Enabled())
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, []string{"https://app.swiftcab.my", "https://admin.swiftcab.my"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_PortMayCarryColon(t *testing.T) {
	t.Setenv("BOOKING_SERVICE_PORT", ":7000")
	t.Setenv("BOOKING_STORE_URL", "https://xyz.supabase.co/rest/v1")
	t.Setenv("BOOKING_STORE_API_KEY", "public-anon-key")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Port)
}
