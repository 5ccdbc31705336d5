package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Environment
	Env string // "development", "production", etc.

	// Server
	ServerAddr string
	BaseURL    string

	// Data
	DataDir    string // Root directory that dataset paths in the layout are resolved against
	ConfigFile string // Dashboard layout YAML; the built-in layout is used when missing
	WarmCache  bool   // Load every dataset at startup instead of on first request

	// Rendering
	ChartWidth      int
	ChartHeight     int
	WordCloudWidth  int
	WordCloudHeight int

	// Database (optional, enables persisted panel view counts)
	DatabaseURL        string
	StatsFlushInterval time.Duration

	// Redis (optional, shares sessions between replicas)
	RedisURL string

	// TLS/mTLS
	TLSEnabled  bool
	TLSCertFile string
	TLSKeyFile  string
	TLSCAFile   string // CA for verifying client certs (mTLS)

	// Client cert via header (for ingress-terminated TLS)
	ClientCertHeader string // Header name containing client cert CN, e.g. "X-Client-CN"

	// OIDC (optional login gate)
	OIDCIssuer       string
	OIDCClientID     string
	OIDCClientSecret string
	OIDCRedirectURL  string

	// Session
	SessionSecret string // Used for signing cookies (min 32 chars)

	// CORS
	CORSOrigins string // Comma-separated allowed origins, e.g. "https://example.com,https://app.example.com"

	// Rate limiting
	RateLimitMax int // Requests per minute per IP

	// Logging
	LogLevel  string
	LogFormat string // "json" or "text"

	// Site Branding
	SiteTitle   string // env: SITE_TITLE, default: "PLTS & PLTB Media Coverage"
	SiteTagline string // env: SITE_TAGLINE
	SiteFooter  string // env: SITE_FOOTER
	SiteLogoURL string // env: SITE_LOGO_URL, default: "" (no logo, text only)
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Env:                getEnv("ENV", "development"),
		ServerAddr:         getEnv("SERVER_ADDR", ":3000"),
		BaseURL:            getEnv("BASE_URL", "http://localhost:3000"),
		DataDir:            getEnv("DATA_DIR", "./data"),
		ConfigFile:         getEnv("CONFIG_FILE", "dashboard.yaml"),
		WarmCache:          getEnv("WARM_CACHE", "") != "",
		ChartWidth:         getEnvInt("CHART_WIDTH", 800),
		ChartHeight:        getEnvInt("CHART_HEIGHT", 420),
		WordCloudWidth:     getEnvInt("WORDCLOUD_WIDTH", 800),
		WordCloudHeight:    getEnvInt("WORDCLOUD_HEIGHT", 400),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		StatsFlushInterval: getEnvDuration("STATS_FLUSH_INTERVAL", 30*time.Second),
		RedisURL:           getEnv("REDIS_URL", ""),
		TLSEnabled:         getEnv("TLS_ENABLED", "") != "",
		TLSCertFile:        getEnv("TLS_CERT_FILE", ""),
		TLSKeyFile:         getEnv("TLS_KEY_FILE", ""),
		TLSCAFile:          getEnv("TLS_CA_FILE", ""),
		ClientCertHeader:   getEnv("CLIENT_CERT_HEADER", ""),
		OIDCIssuer:         getEnv("OIDC_ISSUER", ""),
		OIDCClientID:       getEnv("OIDC_CLIENT_ID", ""),
		OIDCClientSecret:   getEnv("OIDC_CLIENT_SECRET", ""),
		OIDCRedirectURL:    getEnv("OIDC_REDIRECT_URL", "http://localhost:3000/auth/callback"),
		SessionSecret:      getEnv("SESSION_SECRET", "change-me-in-production-min-32-chars"),
		CORSOrigins:        getEnv("CORS_ORIGINS", ""),
		RateLimitMax:       getEnvInt("RATE_LIMIT_MAX", 120),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "json"),

		SiteTitle:   getEnv("SITE_TITLE", "PLTS & PLTB Media Coverage"),
		SiteTagline: getEnv("SITE_TAGLINE", "How Detik, CNBC Indonesia and Tribunnews cover solar and wind power in Indonesia"),
		SiteFooter:  getEnv("SITE_FOOTER", "PLTS & PLTB Media Coverage Dashboard"),
		SiteLogoURL: getEnv("SITE_LOGO_URL", ""),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil && n > 0 {
		return n
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil && d > 0 {
		return d
	}
	return fallback
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}

// IsMTLSEnabled returns true if mTLS is configured with a CA file.
func (c *Config) IsMTLSEnabled() bool {
	return c.TLSEnabled && c.TLSCAFile != ""
}

// AuthEnabled returns true if the dashboard sits behind an OIDC login.
func (c *Config) AuthEnabled() bool {
	return c.OIDCIssuer != ""
}

// StatsEnabled returns true if panel view counts are persisted to a database.
func (c *Config) StatsEnabled() bool {
	return c.DatabaseURL != ""
}
