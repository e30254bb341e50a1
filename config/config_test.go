package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "test")

	cfg, err := load()
	require.NoError(t, err)

	assert.Equal(t, 0.0002, cfg.MinPayout)
	assert.Equal(t, 0.0045, cfg.MaxPayout)
	assert.Equal(t, 100000, cfg.DrawUpper)
	assert.Equal(t, 50000, cfg.HitWindowLow)
	assert.Equal(t, 100000, cfg.HitWindowHigh)
	assert.Equal(t, 2*time.Second, cfg.WarmupDelay)
	assert.Equal(t, 3*time.Second, cfg.SettleDelay)
	assert.Equal(t, 30*time.Second, cfg.CooldownDelay)
	assert.Equal(t, 0.003, cfg.WithdrawMinEarning)
	assert.Equal(t, 0.05, cfg.WithdrawFeeRate)
}

func TestLoad_RequiresTokenOutsideTests(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("TELEGRAM_TOKEN", "")
	t.Setenv("DATABASE_URL", "")

	_, err := load()
	assert.Error(t, err)
}

func TestLoad_RejectsBadHitWindow(t *testing.T) {
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("HIT_WINDOW_LOW", "90000")
	t.Setenv("HIT_WINDOW_HIGH", "50000")

	_, err := load()
	assert.Error(t, err)
}

func TestConfig_IsAdmin(t *testing.T) {
	cfg := &Config{AdminIDs: []int64{1, 2}}
	assert.True(t, cfg.IsAdmin(1))
	assert.False(t, cfg.IsAdmin(3))
}
