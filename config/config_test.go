package config

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig(nil, zap.NewNop())

	require.Equal(t, 8080, cfg.ServerPort)
	require.Equal(t, "https://pch.tncourts.gov", cfg.CourtBaseURL)
	require.Equal(t, "courtwatch.sqlite", cfg.DatabasePath)
	require.Equal(t, 3, cfg.AttachmentFetchCap)
	require.Equal(t, 30, cfg.Mailgun.TimeoutSecs)

	// No creds configured: auth disabled outside production.
	require.Empty(t, cfg.GetCreds())
}

func TestNewConfigFromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("COURT_BASE_URL", "https://court.example.org")
	t.Setenv("ATTACHMENT_FETCH_CAP", "5")
	t.Setenv("BASIC_AUTH_CREDS", "admin:secret, ops:hunter2")

	cfg := NewConfig(nil, zap.NewNop())

	require.Equal(t, 9090, cfg.ServerPort)
	require.Equal(t, "https://court.example.org", cfg.CourtBaseURL)
	require.Equal(t, 5, cfg.AttachmentFetchCap)
	require.Equal(t, map[string]string{"admin": "secret", "ops": "hunter2"}, cfg.GetCreds())
}

func TestParseCredsMalformed(t *testing.T) {
	cfg := &Config{BasicAuthCreds: "admin"}
	_, err := cfg.parseCreds()
	require.Error(t, err)
}
