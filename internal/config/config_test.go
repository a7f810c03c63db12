package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseInt64CSV(t *testing.T) {
	ids, err := parseInt64CSV("123, 456,789")
	require.NoError(t, err)
	require.Equal(t, []int64{123, 456, 789}, ids)

	ids, err = parseInt64CSV("   ")
	require.NoError(t, err)
	require.Nil(t, ids)

	_, err = parseInt64CSV("123,abc")
	require.Error(t, err)
}

func TestIsAdminID(t *testing.T) {
	cfg := &Config{AdminIDs: []int64{10, 20}}
	require.True(t, cfg.IsAdminID(10))
	require.False(t, cfg.IsAdminID(30))
}

func TestDailyCooldown(t *testing.T) {
	cfg := &Config{DailyCooldownHours: 24}
	require.Equal(t, 24*time.Hour, cfg.DailyCooldown())
}

func TestValidate(t *testing.T) {
	valid := Config{
		BotMaxInflight:          64,
		BotUpdateTimeoutSeconds: 60,
		DBMaxConns:              25,
		DBMinConns:              5,
		DailyCooldownHours:      24,
		DailyMaxAmount:          100,
		MinTransfer:             1,
	}
	require.NoError(t, valid.Validate())

	bad := valid
	bad.MinTransfer = 0
	require.Error(t, bad.Validate())

	bad = valid
	bad.DBMinConns = 30
	require.Error(t, bad.Validate())
}
