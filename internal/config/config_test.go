package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("VERIFY_SERVER_PORT", "")
	t.Setenv("VERIFY_CLASSIFIER", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, ClassifierSimulated, cfg.Analysis.Classifier)
	assert.Equal(t, 2*time.Second, cfg.Analysis.Delay)
	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.Equal(t, "web", cfg.UI.Tenant)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_File(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("VERIFY_SERVER_PORT", "")
	t.Setenv("VERIFY_CLASSIFIER", "")

	path := writeConfig(t, `
server:
  port: 9000
analysis:
  classifier: simulated
  delay: 500ms
  fetchURLs: true
database:
  driver: mysql
  host: db
  port: 3306
  user: u
  password: p
  name: news
auth:
  apiKeys:
    acme: secret
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 500*time.Millisecond, cfg.Analysis.Delay)
	assert.True(t, cfg.Analysis.FetchURLs)
	assert.Equal(t, "secret", cfg.Auth.APIKeys["acme"])
	assert.Equal(t, "u:p@tcp(db:3306)/news?parseTime=true&charset=utf8mb4&loc=UTC", cfg.MySQLDSN())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("VERIFY_SERVER_PORT", "7070")
	t.Setenv("VERIFY_CLASSIFIER", "openai")

	cfg, err := Load(writeConfig(t, "server:\n  port: 9000\n"))
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, ClassifierOpenAI, cfg.Analysis.Classifier)
	assert.Equal(t, "sk-test", cfg.OpenAI.APIKey)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("VERIFY_SERVER_PORT", "")
	t.Setenv("VERIFY_CLASSIFIER", "")

	tests := map[string]string{
		"unknown classifier": "analysis:\n  classifier: oracle\n",
		"openai without key": "analysis:\n  classifier: openai\n",
		"unknown driver":     "database:\n  driver: sqlite\n",
		"redis without addr": "redis:\n  enabled: true\n",
		"bad yaml":           "server: [",
	}
	for name, body := range tests {
		_, err := Load(writeConfig(t, body))
		assert.Error(t, err, name)
	}
}
