package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadReturnsDefaultsWhenNoFileExists(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(EnvDirectoryURL, "")
	t.Setenv(EnvPrincipal, "")
	t.Setenv(EnvAuthSecret, "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultDirectoryURL, cfg.DirectoryURL)
	assert.False(t, cfg.IsConfigured())
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg := &Config{DirectoryURL: "http://dir.local", PrincipalHex: "ab12", AuthSecret: "shh"}
	require.NoError(t, cfg.Save())

	path, err := Path()
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(path))

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://dir.local", loaded.DirectoryURL)
	assert.Equal(t, "ab12", loaded.PrincipalHex)
	assert.True(t, loaded.IsConfigured())
}

func TestEnvVarsOverrideSavedConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg := &Config{DirectoryURL: "http://dir.local", PrincipalHex: "ab12"}
	require.NoError(t, cfg.Save())

	t.Setenv(EnvDirectoryURL, "http://override.local")
	t.Setenv(EnvPrincipal, "ff")

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://override.local", loaded.DirectoryURL)
	assert.Equal(t, "ff", loaded.PrincipalHex)
}

func TestSetBucketURLPersists(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg := &Config{}

	require.NoError(t, cfg.SetBucketURL("aabbcc", "http://bucket.local"))

	url, ok := cfg.BucketURL("aabbcc")
	require.True(t, ok)
	assert.Equal(t, "http://bucket.local", url)

	loaded, err := Load()
	require.NoError(t, err)
	gotURL, ok := loaded.BucketURL("aabbcc")
	require.True(t, ok)
	assert.Equal(t, "http://bucket.local", gotURL)
}

func TestBucketURLMissingReportsNotOK(t *testing.T) {
	cfg := &Config{}
	_, ok := cfg.BucketURL("missing")
	assert.False(t, ok)
}
