package config

import "fmt"

// BucketConfig configures bucketd: the RPC listener, this bucket's own
// principal identity, its capacity limits, and the shared HMAC secret it
// uses to validate tokens a Directory minted.
type BucketConfig struct {
	Port int

	BucketPrincipalHex string

	AuthSecret string

	SoftLimitBytes uint64
	HardLimitBytes uint64

	DirectoryBaseURL string // read from DIRECTORY_BASE_URL; bucketd does not use it, chunk reports go over Redis pub/sub (REDIS_URL, bucket/notify)

	AdminPrincipalsHex []string // comma-separated in BUCKET_ADMINS; may admin_set_read_only/admin_withdraw

	Environment string
	LogLevel    string
}

// LoadBucketConfig reads BucketConfig from the environment.
func LoadBucketConfig() (*BucketConfig, error) {
	cfg := &BucketConfig{}

	cfg.Port = getEnvInt("BUCKET_PORT", 8091)

	cfg.BucketPrincipalHex = getEnvString("BUCKET_PRINCIPAL", "")
	if cfg.BucketPrincipalHex == "" {
		return nil, fmt.Errorf("BUCKET_PRINCIPAL is required")
	}

	cfg.AuthSecret = getEnvString("VAULT_AUTH_SECRET", "")
	if cfg.AuthSecret == "" {
		return nil, fmt.Errorf("VAULT_AUTH_SECRET is required")
	}

	cfg.SoftLimitBytes = getEnvUint64("BUCKET_SOFT_LIMIT_BYTES", 80*1024*1024*1024)
	cfg.HardLimitBytes = getEnvUint64("BUCKET_HARD_LIMIT_BYTES", 100*1024*1024*1024)

	cfg.DirectoryBaseURL = getEnvString("DIRECTORY_BASE_URL", "http://localhost:8090")

	cfg.AdminPrincipalsHex = splitNonEmpty(getEnvString("BUCKET_ADMINS", ""))

	cfg.Environment = getEnvString("ENVIRONMENT", "development")
	cfg.LogLevel = getEnvString("LOG_LEVEL", "info")

	return cfg, nil
}

func (c *BucketConfig) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if len(c.AuthSecret) < 32 {
		return fmt.Errorf("VAULT_AUTH_SECRET must be at least 32 bytes, got %d", len(c.AuthSecret))
	}
	if c.SoftLimitBytes > c.HardLimitBytes {
		return fmt.Errorf("soft limit %d exceeds hard limit %d", c.SoftLimitBytes, c.HardLimitBytes)
	}
	return nil
}
