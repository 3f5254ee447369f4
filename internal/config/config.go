package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Environment string // ENV: production, development, etc.
	Port        string
	Host        string // Raw HOST env (e.g. https://api.serenify.app)

	AllowedOrigins []string // CORS: from ALLOWED_ORIGINS or FRONTEND_URL(s)

	// TrustProxy makes rate limiting key on X-Forwarded-For instead of RemoteAddr
	TrustProxy bool
	// Redis fixed-window limit used outside production
	RateLimitRequests int
	RateLimitWindow   time.Duration

	MongoURI    string
	PostgresURI string
	RedisURI    string

	// StoreDriver selects where activity records live: "mongo" or "sqlite"
	StoreDriver string
	SQLitePath  string

	EncryptionKey string

	EmotionAPIURL  string
	EmotionAPIKey  string
	EmotionTimeout time.Duration
	MessageAPIURL  string
	MessageAPIKey  string
	MessageTimeout time.Duration

	KafkaBrokers       []string
	KafkaActivityTopic string

	DashboardCacheTTL time.Duration

	CloudinaryName      string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
}

func Load() *Config {
	env := strings.ToLower(strings.TrimSpace(getEnv("ENV", "development")))
	host := getEnv("HOST", "http://localhost:8080")

	allowedOrigins := splitAndTrim(getEnv("ALLOWED_ORIGINS", ""))
	if len(allowedOrigins) == 0 {
		for _, u := range []string{getEnv("FRONTEND_URL", "http://localhost:3000"), getEnv("FRONTEND_URL_2", ""), getEnv("FRONTEND_URL_3", "")} {
			u = strings.TrimSpace(u)
			if u != "" {
				allowedOrigins = append(allowedOrigins, u)
			}
		}
	}
	// When HOST is a backend subdomain (api.serenify.app), also allow
	// https://serenify.app and https://www.serenify.app
	for _, origin := range siblingOrigins(host) {
		if !containsOrigin(allowedOrigins, origin) {
			allowedOrigins = append(allowedOrigins, origin)
		}
	}
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}

	return &Config{
		Environment:         env,
		Port:                getEnv("PORT", "8080"),
		Host:                host,
		AllowedOrigins:      allowedOrigins,
		TrustProxy:          getBoolEnv("TRUST_PROXY", false),
		RateLimitRequests:   getIntEnv("RATE_LIMIT_REQUESTS", 25),
		RateLimitWindow:     getDurationEnv("RATE_LIMIT_WINDOW", 120*time.Second),
		MongoURI:            getEnv("MONGODB_URI", getEnv("MONGO_URI", "mongodb://localhost:27017/serenify")),
		PostgresURI:         getEnv("POSTGRES_URI", "postgres://localhost:5432/serenify?sslmode=disable"),
		RedisURI:            getEnv("REDIS_URI", "redis://localhost:6379/0"),
		StoreDriver:         strings.ToLower(getEnv("STORE_DRIVER", "mongo")),
		SQLitePath:          getEnv("SQLITE_PATH", "data/serenify.db"),
		EncryptionKey:       getEnv("ENCRYPTION_KEY", ""),
		EmotionAPIURL:       getEnv("EMOTION_API_URL", ""),
		EmotionAPIKey:       getEnv("EMOTION_API_KEY", ""),
		EmotionTimeout:      getDurationEnv("EMOTION_TIMEOUT", 8*time.Second),
		MessageAPIURL:       getEnv("MESSAGE_API_URL", ""),
		MessageAPIKey:       getEnv("MESSAGE_API_KEY", ""),
		MessageTimeout:      getDurationEnv("MESSAGE_TIMEOUT", 10*time.Second),
		KafkaBrokers:        splitAndTrim(getEnv("KAFKA_BROKERS", "")),
		KafkaActivityTopic:  getEnv("KAFKA_ACTIVITY_TOPIC", "serenify.activity.recorded"),
		DashboardCacheTTL:   getDurationEnv("DASHBOARD_CACHE_TTL", 10*time.Minute),
		CloudinaryName:      getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: getEnv("CLOUDINARY_API_SECRET", ""),
	}
}

// IsProduction returns true when ENV is set to "production".
func (c *Config) IsProduction() bool {
	return strings.ToLower(strings.TrimSpace(c.Environment)) == "production"
}

// AllowedHost is the bare hostname requests must be addressed to in production.
func (c *Config) AllowedHost() string {
	h := hostname(c.Host)
	if h == "localhost" {
		return ""
	}
	return h
}

// UseSQLite reports whether activity records are kept in the local SQLite file.
func (c *Config) UseSQLite() bool {
	return c.StoreDriver == "sqlite"
}

// CloudinaryConfigured reports whether all three Cloudinary credentials are set.
func (c *Config) CloudinaryConfigured() bool {
	return c.CloudinaryName != "" && c.CloudinaryAPIKey != "" && c.CloudinaryAPISecret != ""
}

// hostname strips scheme, path and port from a HOST value.
func hostname(host string) string {
	for _, prefix := range []string{"https://", "http://"} {
		host = strings.TrimPrefix(host, prefix)
	}
	if idx := strings.Index(host, "/"); idx != -1 {
		host = host[:idx]
	}
	if idx := strings.Index(host, ":"); idx != -1 {
		host = host[:idx]
	}
	return strings.TrimSpace(host)
}

func siblingOrigins(host string) []string {
	h := hostname(host)
	if h == "" || h == "localhost" {
		return nil
	}
	parts := strings.Split(h, ".")
	if len(parts) < 3 {
		return nil
	}
	domain := strings.Join(parts[1:], ".")
	return []string{"https://" + domain, "https://www." + domain}
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func containsOrigin(list []string, o string) bool {
	o = strings.TrimSpace(strings.ToLower(o))
	for _, v := range list {
		if strings.TrimSpace(strings.ToLower(v)) == o {
			return true
		}
	}
	return false
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}

// getDurationEnv accepts Go durations ("8s") or a bare number of seconds.
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
