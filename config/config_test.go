package config

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = base64.StdEncoding.EncodeToString([]byte("a signing secret for tests"))

func env(vars map[string]string) func(string) (string, bool) {
	return func(name string) (string, bool) {
		v, ok := vars[name]
		return v, ok
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	err := cfg.ApplyEnv(env(map[string]string{
		"PORT":               "9000",
		"DB_DRIVER":          "postgres",
		"DSN":                "host=db user=app",
		"DB_MAX_CONNECTIONS": "25",
		"TOKEN_TTL":          "30m",
		"SIGNING_SECRET":     secret,
		"SLACK_BOT_TOKEN":    "xoxb-1",
		"SECURE_COOKIE":      "true",
		"CDN_ORIGINS":        "https://cdn.example.com, https://models.example.com",
	}))
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9000", cfg.Server.Addr)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "host=db user=app", cfg.Database.DSN)
	assert.Equal(t, 25, cfg.Database.MaxConnections)
	assert.Equal(t, 30*time.Minute, cfg.Auth.TokenTTL)
	assert.Equal(t, "xoxb-1", cfg.Slack.Token)
	assert.True(t, cfg.Auth.SecureCookie)
	assert.Equal(t, []string{"https://cdn.example.com", "https://models.example.com"}, cfg.Server.CDNOrigins)
	assert.Equal(t, "staffhub", cfg.Mongo.Database, "untouched defaults stay")
}

func TestApplyEnvReportsBadValues(t *testing.T) {
	err := Default().ApplyEnv(env(map[string]string{
		"DB_MAX_CONNECTIONS": "many",
		"JANITOR_INTERVAL":   "soon",
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_MAX_CONNECTIONS")
	assert.Contains(t, err.Error(), "JANITOR_INTERVAL")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "Valid", mutate: func(c *Config) {}},
		{name: "Missing secret", mutate: func(c *Config) { c.Auth.SigningSecret = "" }, wantErr: "signingSecret"},
		{name: "Zero ttl", mutate: func(c *Config) { c.Auth.TokenTTL = 0 }, wantErr: "tokenTTL"},
		{name: "Smtp without host", mutate: func(c *Config) { c.Mail.Provider = "smtp" }, wantErr: "smtpHost"},
		{name: "Unknown mail provider", mutate: func(c *Config) { c.Mail.Provider = "pigeon" }, wantErr: "pigeon"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Auth.SigningSecret = secret
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, []byte("a signing secret for tests"), cfg.Secret())
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "staffhub.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: 127.0.0.1:8080
database:
  driver: postgres
  logLevel: info
auth:
  signingSecret: `+secret+`
  tokenTTL: 2h
timeZone: Australia/Brisbane
janitorInterval: 30s
`), 0o600))

	t.Setenv("DSN", "from-env")
	t.Setenv("SSM_PARAMETER", "")

	cfg, err := Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Addr)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "from-env", cfg.Database.DSN)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 30*time.Second, cfg.JanitorInterval)
	assert.Equal(t, "Australia/Brisbane", cfg.TimeZone)
	assert.Equal(t, 10, cfg.Database.MaxConnections)
	assert.Equal(t, []string{"https://cdn.jsdelivr.net"}, cfg.Server.CDNOrigins)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
