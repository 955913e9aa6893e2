package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"smartcity/libs/backend"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_ENV", "GATEWAY_ADDR", "PUBLIC_BASE_URL", "BACKEND_BASE_URL", "BACKEND_TIMEOUT", "FANOUT_TIMEOUT",
		"TOKEN_STORE", "TOKEN_FILE_PATH", "TOKEN_SQLITE_PATH", "DATABASE_URL", "REDIS_ADDR", "REDIS_KEY_PREFIX",
		"TOKEN_SEALING_SECRET", "RESEND_API_KEY", "DIGEST_RECIPIENTS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "http://localhost:8081/api", cfg.BackendBaseURL)
	assert.Equal(t, backend.DefaultTimeout, cfg.BackendTimeout)
	assert.Equal(t, 8*time.Second, cfg.FanoutTimeout)
	assert.Equal(t, "file", cfg.TokenStore)
	assert.Empty(t, cfg.DigestRecipients)
}

func TestLoadConfigReadsOverrides(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("BACKEND_BASE_URL", "https://city.example/api/")
	t.Setenv("FANOUT_TIMEOUT", "3s")
	t.Setenv("TOKEN_STORE", "SQLite")
	t.Setenv("DIGEST_RECIPIENTS", " ops@city.test, ,chief@city.test")

	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, "https://city.example/api", cfg.BackendBaseURL)
	assert.Equal(t, 3*time.Second, cfg.FanoutTimeout)
	assert.Equal(t, "sqlite", cfg.TokenStore)
	assert.Equal(t, []string{"ops@city.test", "chief@city.test"}, cfg.DigestRecipients)
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown store", env: map[string]string{"TOKEN_STORE": "etcd"}},
		{name: "postgres without url", env: map[string]string{"TOKEN_STORE": "postgres"}},
		{name: "redis without addr", env: map[string]string{"TOKEN_STORE": "redis"}},
		{name: "short sealing secret", env: map[string]string{"TOKEN_SEALING_SECRET": "short"}},
		{name: "bad backend url", env: map[string]string{"BACKEND_BASE_URL": "ftp://city"}},
		{name: "bad timeout", env: map[string]string{"BACKEND_TIMEOUT": "soon"}},
		{name: "negative fanout", env: map[string]string{"FANOUT_TIMEOUT": "-1s"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearConfigEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := loadConfig()
			assert.Error(t, err)
		})
	}
}

func TestLoadDotEnvFileDoesNotOverrideEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "# gateway\nBACKEND_BASE_URL=\"http://from-file\"\nGATEWAY_ADDR=:9999\ninvalid line\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("BACKEND_BASE_URL", "http://from-env")
	t.Setenv("GATEWAY_ADDR", "")

	require.NoError(t, loadDotEnvFile(path))

	assert.Equal(t, "http://from-env", os.Getenv("BACKEND_BASE_URL"))
	assert.Equal(t, ":9999", os.Getenv("GATEWAY_ADDR"))
	require.NoError(t, loadDotEnvFile(filepath.Join(t.TempDir(), "missing.env")))
}
