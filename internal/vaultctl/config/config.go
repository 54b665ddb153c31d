// Package config persists vaultctl's local settings: which Directory to
// talk to and which principal to act as.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is vaultctl's on-disk configuration, stored as YAML under
// ~/.config/vaultctl/config.yaml.
type Config struct {
	DirectoryURL string `yaml:"directory_url,omitempty"`
	PrincipalHex string `yaml:"principal_hex,omitempty"`
	AuthSecret   string `yaml:"auth_secret,omitempty"`

	// BucketURLs maps a bucket's hex principal to the base URL vaultctl
	// dials directly for put_chunk/get_chunk, since the Directory's RPCs
	// only ever name a bucket by principal, never by address.
	BucketURLs map[string]string `yaml:"bucket_urls,omitempty"`
}

// BucketURL looks up a known bucket's base URL by hex principal.
func (c *Config) BucketURL(bucketHex string) (string, bool) {
	url, ok := c.BucketURLs[bucketHex]
	return url, ok
}

// SetBucketURL records a bucket's base URL for future lookups.
func (c *Config) SetBucketURL(bucketHex, url string) error {
	if c.BucketURLs == nil {
		c.BucketURLs = make(map[string]string)
	}
	c.BucketURLs[bucketHex] = url
	return c.Save()
}

const (
	DefaultDirectoryURL = "http://localhost:8080"

	EnvDirectoryURL = "VAULTCTL_DIRECTORY_URL"
	EnvPrincipal    = "VAULTCTL_PRINCIPAL"
	EnvAuthSecret   = "VAULTCTL_AUTH_SECRET"
)

func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "vaultctl"), nil
}

func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

func Load() (*Config, error) {
	cfg := &Config{DirectoryURL: DefaultDirectoryURL}

	path, err := Path()
	if err != nil {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if cfg.DirectoryURL == "" {
		cfg.DirectoryURL = DefaultDirectoryURL
	}

	if v := os.Getenv(EnvDirectoryURL); v != "" {
		cfg.DirectoryURL = v
	}
	if v := os.Getenv(EnvPrincipal); v != "" {
		cfg.PrincipalHex = v
	}
	if v := os.Getenv(EnvAuthSecret); v != "" {
		cfg.AuthSecret = v
	}

	return cfg, nil
}

func (c *Config) Save() error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}
	path, err := Path()
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

func (c *Config) IsConfigured() bool {
	return c.PrincipalHex != ""
}
