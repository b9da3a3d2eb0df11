package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	cfg.Database.User = "adsforge"
	cfg.Auth.JWTSecret = "0123456789abcdef0123456789abcdef"
	cfg.LLM.APIKey = "test-key"
	return cfg
}

func TestValidateAcceptsDefaults(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidateRejectsMissingSecrets(t *testing.T) {
	cfg := validConfig()
	cfg.Auth.JWTSecret = ""
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Auth.JWTSecret = "short"
	assert.Error(t, cfg.Validate(), "jwt secret must have minimum length")

	cfg = validConfig()
	cfg.LLM.APIKey = ""
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsBadPort(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = 0
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Server.Port = 70000
	assert.Error(t, cfg.Validate())
}

func TestDefaultLockTTLCoversJobTimeout(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	assert.GreaterOrEqual(t, cfg.Worker.LockTTL, cfg.Worker.JobTimeout,
		"a lock expiring mid-job would let a second worker pick it up")

	// A custom timeout still gets a covering lock TTL.
	cfg = &Config{}
	cfg.Worker.JobTimeout = time.Hour
	ApplyDefaults(cfg)
	assert.GreaterOrEqual(t, cfg.Worker.LockTTL, time.Hour)
}

func TestValidateRejectsLockTTLBelowJobTimeout(t *testing.T) {
	cfg := validConfig()
	cfg.Worker.LockTTL = 5 * time.Minute
	cfg.Worker.JobTimeout = 15 * time.Minute
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsBadLogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.Log.Level = "verbose"
	assert.Error(t, cfg.Validate())
}

func TestApplyDefaultsDoesNotOverride(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Port = 9999
	cfg.Redis.KeyPrefix = "custom:"
	ApplyDefaults(cfg)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "custom:", cfg.Redis.KeyPrefix)
	assert.Equal(t, DefaultDBName, cfg.Database.DBName)
	assert.Equal(t, DefaultWorkerQueue, cfg.Worker.QueueName)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  port: 9090
  mode: release
database:
  user: adsforge
auth:
  jwt_secret: "0123456789abcdef0123456789abcdef"
llm:
  api_key: "test-key"
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, DefaultRedisAddr, cfg.Redis.Addr, "defaults fill unset sections")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	assert.Error(t, err)
}

func TestLoadInvalidConfigFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	// Missing jwt secret and llm key.
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 8080\n"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}
