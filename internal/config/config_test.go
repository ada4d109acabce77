package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, 5*time.Minute, cfg.Access.CodeTTL)
	assert.Equal(t, 5, cfg.Access.MaxAttempts)
	assert.Equal(t, "log", cfg.SMS.Provider)
	assert.Equal(t, "MZ", cfg.SMS.DefaultRegion)
	assert.Empty(t, cfg.Database.DSN)
	assert.True(t, cfg.Seed.Enabled)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("PORTAL_SERVER_ADDR", ":9090")
	t.Setenv("PORTAL_ACCESS_MAX_ATTEMPTS", "3")
	t.Setenv("PORTAL_ACCESS_DEV_CODE", "123456")
	t.Setenv("PORTAL_ACCESS_CODE_TTL", "90s")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 3, cfg.Access.MaxAttempts)
	assert.Equal(t, "123456", cfg.Access.DevCode)
	assert.Equal(t, 90*time.Second, cfg.Access.CodeTTL)
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":7070"
logging:
  level: debug
  format: console
sms:
  provider: webhook
  webhook_url: "http://localhost:9999/codes"
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "webhook", cfg.SMS.Provider)
	// lo que no está en el archivo queda con default
	assert.Equal(t, 12*time.Hour, cfg.Auth.TokenTTL)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate_Production(t *testing.T) {
	t.Setenv("PORTAL_SERVER_ENVIRONMENT", "production")
	t.Setenv("PORTAL_ACCESS_DEV_CODE", "123456")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt_secret")
	assert.Contains(t, err.Error(), "dev_code")
}

func TestValidate_SMSProvider(t *testing.T) {
	t.Setenv("PORTAL_SMS_PROVIDER", "carrier-pigeon")
	_, err := Load("")
	assert.Error(t, err)

	t.Setenv("PORTAL_SMS_PROVIDER", "smsir")
	_, err = Load("")
	assert.Error(t, err)
}
