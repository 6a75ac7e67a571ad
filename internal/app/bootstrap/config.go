package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the resolved runtime configuration for the posting worker.
// It merges file defaults and environment overrides to support both local and deployed runs.
type Config struct {
	ServiceID string

	DatabaseURL   string
	RedisURL      string
	KafkaBrokers  []string
	EncryptionKey string

	DefaultDailyPostLimit int
	DefaultMaxAttempts    int
	CancelFlagTTL         time.Duration
	StuckJobCeiling       time.Duration

	ProxyProbeURL      string
	ProxyProbeTimeout  time.Duration
	ProxyCheckInterval time.Duration
	ProxyCheckMaxAge   time.Duration
	ProxyCheckBatch    int

	MaxDBConns         int32
	OutboxPollInterval time.Duration
	OutboxBatchSize    int
	OutboxClaimTTL     time.Duration
	OutboxMaxRetries   int
}

// configFile mirrors the YAML schema used by configs/default.yaml.
// It is intentionally separate from Config so runtime-only fields stay internal.
type configFile struct {
	Service struct {
		ID string `yaml:"id"`
	} `yaml:"service"`
	Dependencies struct {
		PostgresURL  string   `yaml:"postgres_url"`
		RedisURL     string   `yaml:"redis_url"`
		KafkaBrokers []string `yaml:"kafka_brokers"`
	} `yaml:"dependencies"`
	Posting struct {
		DailyPostLimit int `yaml:"daily_post_limit"`
		MaxAttempts    int `yaml:"max_attempts"`
	} `yaml:"posting"`
	Proxies struct {
		ProbeURL string `yaml:"probe_url"`
	} `yaml:"proxies"`
}

// LoadConfig resolves configuration in priority order: defaults -> file -> env.
// This order keeps local bootstrap simple while allowing environment-specific overrides.
func LoadConfig(path string) (Config, error) {
	cfg := Config{
		ServiceID:             "autopost-worker",
		DefaultDailyPostLimit: 3,
		DefaultMaxAttempts:    3,
		CancelFlagTTL:         24 * time.Hour,
		StuckJobCeiling:       30 * time.Minute,
		ProxyProbeURL:         "https://www.google.com/generate_204",
		ProxyProbeTimeout:     10 * time.Second,
		ProxyCheckInterval:    time.Minute,
		ProxyCheckMaxAge:      5 * time.Minute,
		ProxyCheckBatch:       50,
		MaxDBConns:            20,
		OutboxPollInterval:    2 * time.Second,
		OutboxBatchSize:       100,
		OutboxClaimTTL:        30 * time.Second,
		OutboxMaxRetries:      5,
	}

	raw, err := os.ReadFile(path)
	if err == nil {
		var f configFile
		if unmarshalErr := yaml.Unmarshal(raw, &f); unmarshalErr != nil {
			return Config{}, fmt.Errorf("parse config file: %w", unmarshalErr)
		}
		if f.Service.ID != "" {
			cfg.ServiceID = f.Service.ID
		}
		if f.Dependencies.PostgresURL != "" {
			cfg.DatabaseURL = f.Dependencies.PostgresURL
		}
		if f.Dependencies.RedisURL != "" {
			cfg.RedisURL = f.Dependencies.RedisURL
		}
		if len(f.Dependencies.KafkaBrokers) > 0 {
			cfg.KafkaBrokers = f.Dependencies.KafkaBrokers
		}
		if f.Posting.DailyPostLimit > 0 {
			cfg.DefaultDailyPostLimit = f.Posting.DailyPostLimit
		}
		if f.Posting.MaxAttempts > 0 {
			cfg.DefaultMaxAttempts = f.Posting.MaxAttempts
		}
		if f.Proxies.ProbeURL != "" {
			cfg.ProxyProbeURL = f.Proxies.ProbeURL
		}
	}

	cfg.DatabaseURL = envOrDefault("DB_URL", envOrDefault("POSTGRES_URL", cfg.DatabaseURL))
	cfg.RedisURL = envOrDefault("REDIS_URL", cfg.RedisURL)
	cfg.KafkaBrokers = envCSV("KAFKA_BROKERS", cfg.KafkaBrokers)
	cfg.EncryptionKey = envOrDefault("ENCRYPTION_KEY", cfg.EncryptionKey)

	cfg.DefaultDailyPostLimit = envInt("DAILY_POST_LIMIT", cfg.DefaultDailyPostLimit)
	cfg.DefaultMaxAttempts = envInt("JOB_MAX_ATTEMPTS", cfg.DefaultMaxAttempts)
	cfg.MaxDBConns = int32(envInt("DB_MAX_CONNS", int(cfg.MaxDBConns)))

	cfg.CancelFlagTTL = time.Duration(envInt("CANCEL_FLAG_TTL_HOURS", int(cfg.CancelFlagTTL.Hours()))) * time.Hour
	cfg.StuckJobCeiling = time.Duration(envInt("STUCK_JOB_MINUTES", int(cfg.StuckJobCeiling.Minutes()))) * time.Minute

	cfg.ProxyProbeURL = envOrDefault("PROXY_PROBE_URL", cfg.ProxyProbeURL)
	cfg.ProxyProbeTimeout = time.Duration(envInt("PROXY_PROBE_TIMEOUT_SECONDS", int(cfg.ProxyProbeTimeout.Seconds()))) * time.Second
	cfg.ProxyCheckInterval = time.Duration(envInt("PROXY_CHECK_INTERVAL_SECONDS", int(cfg.ProxyCheckInterval.Seconds()))) * time.Second
	cfg.ProxyCheckMaxAge = time.Duration(envInt("PROXY_CHECK_MAX_AGE_SECONDS", int(cfg.ProxyCheckMaxAge.Seconds()))) * time.Second
	cfg.ProxyCheckBatch = envInt("PROXY_CHECK_BATCH_SIZE", cfg.ProxyCheckBatch)

	cfg.OutboxPollInterval = time.Duration(envInt("OUTBOX_POLL_SECONDS", int(cfg.OutboxPollInterval.Seconds()))) * time.Second
	cfg.OutboxBatchSize = envInt("OUTBOX_BATCH_SIZE", cfg.OutboxBatchSize)
	cfg.OutboxClaimTTL = time.Duration(envInt("OUTBOX_CLAIM_TTL_SECONDS", int(cfg.OutboxClaimTTL.Seconds()))) * time.Second
	cfg.OutboxMaxRetries = envInt("OUTBOX_MAX_RETRIES", cfg.OutboxMaxRetries)

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("missing DB_URL/POSTGRES_URL")
	}
	if cfg.RedisURL == "" {
		return Config{}, fmt.Errorf("missing REDIS_URL")
	}
	if cfg.EncryptionKey == "" {
		return Config{}, fmt.Errorf("missing ENCRYPTION_KEY")
	}

	return cfg, nil
}

// envOrDefault returns an env var when present, otherwise the provided fallback.
func envOrDefault(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

// envInt parses integer env vars with safe fallback on empty/invalid values.
func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

// envCSV parses comma-separated env vars and removes empty segments.
func envCSV(name string, fallback []string) []string {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	parts := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		parts = append(parts, trimmed)
	}
	if len(parts) == 0 {
		return fallback
	}
	return parts
}
