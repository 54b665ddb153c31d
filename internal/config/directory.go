package config

import "fmt"

// DirectoryConfig configures directoryd: the RPC listener, the HMAC secret
// shared with every registered bucket, default quota policy, and the
// connections the reaper/notify subsystems need.
type DirectoryConfig struct {
	Port int

	AuthSecret string // shared HMAC secret, must be authtoken.MinSecretLen bytes

	DefaultQuotaBytes uint64
	SessionTTL        string // read from SESSION_TTL; nothing reads it, upload sessions always last vaulttypes.SessionTTLNs (1 hour)

	RedisURL          string // backs the reaper job-queue and chunk-report pub/sub
	WorkerConcurrency int

	AdminPrincipalsHex []string // comma-separated in DIRECTORY_ADMINS; may provision buckets and set quotas

	Environment string
	LogLevel    string
}

// LoadDirectoryConfig reads DirectoryConfig from the environment, applying
// the same defaults-with-override pattern as the teacher's Load().
func LoadDirectoryConfig() (*DirectoryConfig, error) {
	cfg := &DirectoryConfig{}

	cfg.Port = getEnvInt("DIRECTORY_PORT", 8090)

	cfg.AuthSecret = getEnvString("VAULT_AUTH_SECRET", "")
	if cfg.AuthSecret == "" {
		return nil, fmt.Errorf("VAULT_AUTH_SECRET is required")
	}

	cfg.DefaultQuotaBytes = getEnvUint64("DEFAULT_QUOTA_BYTES", 10*1024*1024*1024)
	cfg.SessionTTL = getEnvString("SESSION_TTL", "1h")

	cfg.RedisURL = getEnvString("REDIS_URL", "redis://localhost:6379/0")
	cfg.WorkerConcurrency = getEnvInt("REAPER_WORKER_CONCURRENCY", 2)

	cfg.AdminPrincipalsHex = splitNonEmpty(getEnvString("DIRECTORY_ADMINS", ""))

	cfg.Environment = getEnvString("ENVIRONMENT", "development")
	cfg.LogLevel = getEnvString("LOG_LEVEL", "info")

	return cfg, nil
}

// Validate checks invariants Load doesn't already enforce via required
// env vars.
func (c *DirectoryConfig) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if len(c.AuthSecret) < 32 {
		return fmt.Errorf("VAULT_AUTH_SECRET must be at least 32 bytes, got %d", len(c.AuthSecret))
	}
	if c.WorkerConcurrency < 1 {
		return fmt.Errorf("invalid worker concurrency: %d", c.WorkerConcurrency)
	}
	return nil
}
