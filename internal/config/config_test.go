package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"ENV", "HOST", "ALLOWED_ORIGINS", "FRONTEND_URL", "STORE_DRIVER", "KAFKA_BROKERS", "DASHBOARD_CACHE_TTL", "TRUST_PROXY", "RATE_LIMIT_REQUESTS", "RATE_LIMIT_WINDOW"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "development", cfg.Environment)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
	assert.False(t, cfg.UseSQLite())
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, 10*time.Minute, cfg.DashboardCacheTTL)
	assert.False(t, cfg.CloudinaryConfigured())
	assert.False(t, cfg.TrustProxy)
	assert.Equal(t, 25, cfg.RateLimitRequests)
	assert.Equal(t, 120*time.Second, cfg.RateLimitWindow)
	assert.Empty(t, cfg.AllowedHost())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ENV", " Production ")
	t.Setenv("HOST", "https://api.serenify.app")
	t.Setenv("ALLOWED_ORIGINS", "https://app.example.com, ,https://WWW.serenify.app")
	t.Setenv("STORE_DRIVER", "SQLite")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092")
	t.Setenv("EMOTION_TIMEOUT", "3")
	t.Setenv("MESSAGE_TIMEOUT", "1500ms")
	t.Setenv("TRUST_PROXY", "true")
	t.Setenv("RATE_LIMIT_REQUESTS", "100")

	cfg := Load()

	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.UseSQLite())
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 3*time.Second, cfg.EmotionTimeout)
	assert.Equal(t, 1500*time.Millisecond, cfg.MessageTimeout)
	assert.True(t, cfg.TrustProxy)
	assert.Equal(t, 100, cfg.RateLimitRequests)
	assert.Equal(t, "api.serenify.app", cfg.AllowedHost())
	assert.Equal(t, []string{
		"https://app.example.com",
		"https://WWW.serenify.app",
		"https://serenify.app",
	}, cfg.AllowedOrigins)
}

func TestSiblingOrigins(t *testing.T) {
	assert.Nil(t, siblingOrigins("http://localhost:8080"))
	assert.Nil(t, siblingOrigins("https://serenify.app"))
	assert.Equal(t, []string{"https://serenify.app", "https://www.serenify.app"}, siblingOrigins("https://api.serenify.app:443/v1"))
}
