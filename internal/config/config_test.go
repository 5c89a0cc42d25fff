package config_test

import (
	"testing"
	"time"

	"hris-payroll/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PAYROLL_STANDARD_WORK_DAYS", "")
	t.Setenv("PAYROLL_BLOCK_LOCKED_REGENERATION", "")
	t.Setenv("PAYROLL_LEGACY_FALLBACK", "")
	t.Setenv("LEAVE_ALLOW_TERMINAL_REDECIDE", "")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 26, cfg.Payroll.StandardWorkDays)
	assert.True(t, cfg.Payroll.BlockLockedRegeneration)
	assert.False(t, cfg.Payroll.LegacyFallback)
	assert.False(t, cfg.Leave.AllowTerminalRedecide)
	assert.Equal(t, 5*time.Minute, cfg.Payroll.PayslipTokenTTL)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PAYROLL_STANDARD_WORK_DAYS", "22")
	t.Setenv("PAYROLL_BLOCK_LOCKED_REGENERATION", "false")
	t.Setenv("PAYROLL_LEGACY_FALLBACK", "true")
	t.Setenv("LEAVE_ALLOW_TERMINAL_REDECIDE", "true")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("PAYROLL_GENERATE_TIMEOUT", "30s")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 22, cfg.Payroll.StandardWorkDays)
	assert.False(t, cfg.Payroll.BlockLockedRegeneration)
	assert.True(t, cfg.Payroll.LegacyFallback)
	assert.True(t, cfg.Leave.AllowTerminalRedecide)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 30*time.Second, cfg.Payroll.GenerateTimeout)
}

func TestLoad_RejectsNonPositiveWorkDays(t *testing.T) {
	t.Setenv("PAYROLL_STANDARD_WORK_DAYS", "0")

	_, err := config.Load()
	assert.Error(t, err)
}
