package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Catalog & feed
	CatalogFile        string        // path to the catalog.yaml file
	BaseURL            string        // public site root, ex: https://www.domain.ext
	Languages          []string      // languages published by the site, ex: en,fr,de
	DefaultLang        string        // language served without a path prefix (default: first of Languages)
	ReloadInterval     time.Duration // interval to reload the catalog (default: 1h)
	RegenerateInterval time.Duration // interval to regenerate the feed (default: 6h)
	GCInterval         time.Duration // interval to run garbage collection (default: 24h)
	GCThreshold        time.Duration // how long a material stays disabled before deletion (default: 30d)
	Workers            int           // generation workers per kind (default: 4)
	SkipFailed         bool          // skip materials that fail instead of aborting the run
	RobotsFile         string        // optional robots.txt used to drop disallowed pages
	UserAgent          string        // robots.txt group to apply (default: sitemapd)
	FeedTTL            time.Duration // TTL of the feed cached in redis (default: 24h)
	HistoryDSN         string        // optional, sqlite path or postgres:// URL (empty = history disabled)

	// Redis
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	AllowedHosts []string // restrict access to specific Host headers
	AllowedCIDRS []string // optional, restrict admin endpoints to specific IP (e.g. "1.2.3.4, 5.6.7.8")
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)

	RateLimitBurst  int           // sitemap requests allowed in a burst per client (default: 30)
	RateLimitRefill time.Duration // time to regain one request (default: 1s)
}

func Load() *Config {
	languages := splitAndTrim(getenv("SITEMAPD_LANGUAGES", ""))

	cfg := &Config{
		// Server settings
		ListenPort:      getenv("SITEMAPD_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("SITEMAPD_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("SITEMAPD_LOG_LEVEL", "info"),
		PrettyLog: mustBool("SITEMAPD_PRETTY_LOG", true),

		// Catalog & feed
		CatalogFile:        getenv("SITEMAPD_CATALOG_FILE", "/app/catalog.yaml"),
		BaseURL:            mustBaseURL("SITEMAPD_BASE_URL"),
		Languages:          languages,
		DefaultLang:        getenv("SITEMAPD_DEFAULT_LANG", firstOr(languages, "en")),
		ReloadInterval:     mustDuration("SITEMAPD_RELOAD_INTERVAL", time.Hour),
		RegenerateInterval: mustDuration("SITEMAPD_REGENERATE_INTERVAL", 6*time.Hour),
		GCInterval:         mustDuration("SITEMAPD_GC_INTERVAL", 24*time.Hour),
		GCThreshold:        mustDuration("SITEMAPD_GC_THRESHOLD", 30*24*time.Hour),
		Workers:            getenvInt("SITEMAPD_WORKERS", 4),
		SkipFailed:         mustBool("SITEMAPD_SKIP_FAILED", false),
		RobotsFile:         getenv("SITEMAPD_ROBOTS_FILE", ""),
		UserAgent:          getenv("SITEMAPD_USER_AGENT", "sitemapd"),
		FeedTTL:            mustDuration("SITEMAPD_FEED_TTL", 24*time.Hour),
		HistoryDSN:         getenv("SITEMAPD_HISTORY_DSN", ""),

		// Redis settings
		RedisAddr:             requireEnv("SITEMAPD_REDIS_ADDR"),
		RedisUser:             getenv("SITEMAPD_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("SITEMAPD_REDIS_PASSWORD_REQUIRED", true),
		RedisPassword:         getenv("SITEMAPD_REDIS_PASSWORD", ""),
		RedisDB:               requireEnvInt("SITEMAPD_REDIS_DB"),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Access restrictions
		AllowedHosts: requireEnvSlice("SITEMAPD_ALLOWED_HOSTS"),
		AllowedCIDRS: parseAllowedIPs(getenv("SITEMAPD_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("SITEMAPD_TRUST_PROXY", true),

		RateLimitBurst:  getenvInt("SITEMAPD_RATE_LIMIT_BURST", 30),
		RateLimitRefill: mustDuration("SITEMAPD_RATE_LIMIT_REFILL", time.Second),
	}

	// Validate Redis password configuration
	if cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: SITEMAPD_REDIS_PASSWORD is required when SITEMAPD_REDIS_PASSWORD_REQUIRED=true")
	}
	if cfg.Workers < 1 {
		panic(fmt.Sprintf("❌ FATAL: SITEMAPD_WORKERS must be >= 1, got %d", cfg.Workers))
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		log.Printf("[DEBUG] cfg: %+v\n", cfg.Redacted())
	}

	return cfg
}

// Redacted returns a copy safe to print.
func (c Config) Redacted() Config {
	c.RedisPassword = "***REDACTED***"
	if c.RedisUser != "" {
		c.RedisUser = "***REDACTED***"
	}
	if strings.Contains(c.HistoryDSN, "@") {
		c.HistoryDSN = "***REDACTED***"
	}
	return c
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func requireEnvInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		panic(fmt.Sprintf("❌ FATAL: Invalid integer value for %s: %s", key, v))
	}
	return i
}

func requireEnvSlice(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return splitAndTrim(v)
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

// mustBaseURL requires an absolute http(s) URL and strips the trailing
// slash. Example: "https://www.domain.ext/" -> "https://www.domain.ext"
func mustBaseURL(key string) string {
	v := requireEnv(key)
	base, err := NormalizeBaseURL(v)
	if err != nil {
		panic(fmt.Sprintf("❌ FATAL: Invalid %s: %v", key, err))
	}
	return base
}

// NormalizeBaseURL validates a site root URL.
func NormalizeBaseURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("missing host in %q", raw)
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return "", fmt.Errorf("base URL must not carry a query or fragment: %q", raw)
	}
	return strings.TrimRight(u.String(), "/"), nil
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}

func firstOr(values []string, def string) string {
	if len(values) > 0 {
		return values[0]
	}
	return def
}
