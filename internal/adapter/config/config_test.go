package config

import (
	"flag"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := parse(flag.NewFlagSet("test", flag.ContinueOnError), nil)
	require.NoError(t, err)

	assert.Equal(t, "localhost:8080", cfg.HTTP.HostString)
	assert.Equal(t, AppModeDevelop, cfg.App.Mode)
	assert.Equal(t, 120*time.Second, cfg.Dispatch.PendingTTL)
	assert.Equal(t, 10*time.Minute, cfg.Dispatch.ClaimWindow)
	assert.Equal(t, time.Second, cfg.Dispatch.RepeatDelay)
	assert.Equal(t, 60*time.Second, cfg.Dispatch.AddressDelay)
	assert.Equal(t, 30*time.Second, cfg.Dispatch.DefaultDelay)
	assert.Equal(t, 2, cfg.Mail.Workers)
	assert.Empty(t, cfg.Redis.Addr)
}

func TestParse_EnvOverridesFlags(t *testing.T) {
	t.Setenv("RUN_ADDRESS", ":9090")
	t.Setenv("ORDER_PENDING_TTL", "90s")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("MAIL_WORKERS", "4")

	cfg, err := parse(flag.NewFlagSet("test", flag.ContinueOnError),
		[]string{"-a", ":7070", "-pending-ttl", "3m", "-m", "PROD"})
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTP.HostString)
	assert.Equal(t, 90*time.Second, cfg.Dispatch.PendingTTL)
	assert.Equal(t, AppModeProduction, cfg.App.Mode)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, 4, cfg.Mail.Workers)
}

func TestParse_BadEnv(t *testing.T) {
	t.Setenv("ORDER_CLAIM_WINDOW", "ten minutes")

	_, err := parse(flag.NewFlagSet("test", flag.ContinueOnError), nil)
	assert.Error(t, err)
}
