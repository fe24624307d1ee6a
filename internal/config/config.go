// Package config loads the aggregator's process configuration from
// environment variables, following the teacher's per-service Load()
// idiom (required fields fail fast, optional fields fall back to a
// sane default).
package config

import (
	"errors"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

// AddonConfig is one configured stream-provider addon.
type AddonConfig struct {
	Name    string
	BaseURL string
	Timeout time.Duration
}

type RetryConfig struct {
	MaxRetries     int
	RetryBaseDelay time.Duration
}

type CircuitBreakerConfig struct {
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold uint32
}

type Config struct {
	ServiceName string
	LogLevel    string
	HTTPAddr    string

	Addons []AddonConfig

	MetadataBaseURL string
	SeaDexBaseURL   string
	UserAgent       string

	Retry          RetryConfig
	CircuitBreaker CircuitBreakerConfig

	RedisURL string
	CacheTTL time.Duration

	AIDBDataDir     string
	AIDBDetailLevel string

	SigningSecret string
}

// Load reads the aggregator's configuration from the environment.
// SERVICE_NAME, at least one STREAMWEAVE_ADDON_*, and SIGNING_SECRET
// are required; everything else falls back to a documented default.
func Load() (Config, error) {
	serviceName := strings.TrimSpace(os.Getenv("SERVICE_NAME"))
	if serviceName == "" {
		return Config{}, errors.New("SERVICE_NAME is required")
	}

	signingSecret := strings.TrimSpace(os.Getenv("SIGNING_SECRET"))
	if signingSecret == "" {
		return Config{}, errors.New("SIGNING_SECRET is required")
	}

	addons, err := parseAddons()
	if err != nil {
		return Config{}, err
	}
	if len(addons) == 0 {
		return Config{}, errors.New("at least one STREAMWEAVE_ADDON_<NAME>_URL is required")
	}

	logLevel := strings.TrimSpace(os.Getenv("LOG_LEVEL"))
	if logLevel == "" {
		logLevel = "info"
	}
	httpAddr := strings.TrimSpace(os.Getenv("HTTP_ADDR"))
	if httpAddr == "" {
		httpAddr = ":8080"
	}

	userAgent := strings.TrimSpace(os.Getenv("STREAMWEAVE_USER_AGENT"))
	if userAgent == "" {
		userAgent = "streamweave/1.0"
	}

	redisURL := strings.TrimSpace(os.Getenv("REDIS_URL"))
	if redisURL == "" {
		redisURL = "redis://redis:6379/0"
	}

	dataDir := strings.TrimSpace(os.Getenv("AIDB_DATA_DIR"))
	if dataDir == "" {
		dataDir = "/var/lib/streamweave/aidb"
	}
	detailLevel := strings.TrimSpace(os.Getenv("AIDB_DETAIL_LEVEL"))
	if detailLevel == "" {
		detailLevel = "required"
	}

	return Config{
		ServiceName:     serviceName,
		LogLevel:        logLevel,
		HTTPAddr:        httpAddr,
		Addons:          addons,
		MetadataBaseURL: strings.TrimSpace(os.Getenv("METADATA_BASE_URL")),
		SeaDexBaseURL:   strings.TrimSpace(os.Getenv("SEADEX_BASE_URL")),
		UserAgent:       userAgent,
		Retry: RetryConfig{
			MaxRetries:     envInt("STREAMWEAVE_MAX_RETRIES", 2),
			RetryBaseDelay: envDuration("STREAMWEAVE_RETRY_BASE_DELAY", 300*time.Millisecond),
		},
		CircuitBreaker: CircuitBreakerConfig{
			MaxRequests:      uint32(envInt("CB_MAX_REQUESTS", 5)),
			Interval:         envDuration("CB_INTERVAL", 60*time.Second),
			Timeout:          envDuration("CB_TIMEOUT", 30*time.Second),
			FailureThreshold: uint32(envInt("CB_FAILURE_THRESHOLD", 5)),
		},
		RedisURL:        redisURL,
		CacheTTL:        envDuration("CACHE_TTL", 6*time.Hour),
		AIDBDataDir:     dataDir,
		AIDBDetailLevel: detailLevel,
		SigningSecret:   signingSecret,
	}, nil
}

// parseAddons reads every STREAMWEAVE_ADDON_<NAME>_URL variable into an
// AddonConfig, sorted by name for a deterministic fan-out order.
func parseAddons() ([]AddonConfig, error) {
	const prefix = "STREAMWEAVE_ADDON_"
	const suffix = "_URL"

	names := make([]string, 0)
	urls := map[string]string{}
	for _, kv := range os.Environ() {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, prefix) || !strings.HasSuffix(key, suffix) {
			continue
		}
		name := strings.TrimSuffix(strings.TrimPrefix(key, prefix), suffix)
		value = strings.TrimSpace(value)
		if name == "" || value == "" {
			continue
		}
		names = append(names, name)
		urls[name] = value
	}
	sort.Strings(names)

	timeout := envDuration("STREAMWEAVE_ADDON_TIMEOUT", 8*time.Second)
	addons := make([]AddonConfig, 0, len(names))
	for _, name := range names {
		addons = append(addons, AddonConfig{Name: name, BaseURL: urls[name], Timeout: timeout})
	}
	return addons, nil
}

func envInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
