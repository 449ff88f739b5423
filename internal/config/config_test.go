package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 3000, cfg.ServerPort)
	require.Equal(t, "admin", cfg.AdminUsername)
	require.Equal(t, 24*time.Hour, cfg.SessionTTL)
	require.Equal(t, "*/15 * * * *", cfg.SweepSchedule)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("ADMIN_USERNAME", "root")
	t.Setenv("SESSION_TTL_HOURS", "1")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 9999, cfg.ServerPort)
	require.Equal(t, "root", cfg.AdminUsername)
	require.Equal(t, time.Hour, cfg.SessionTTL)
}

func TestLoadRejectsBadPort(t *testing.T) {
	t.Setenv("PORT", "not-a-port")

	_, err := Load()
	require.Error(t, err)
}
