package app

import (
	"context"
	"testing"
	"time"

	"barstock/internal/config"
	"barstock/internal/core"
	"barstock/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBootstrap_NoProviderNoBroker(t *testing.T) {
	cfg := &config.Config{AI: config.AIConfig{Provider: config.ProviderNone}}
	svc, cleanup, err := Bootstrap(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	defer cleanup()

	list, err := svc.ListLocations(context.Background())
	require.NoError(t, err)
	require.Len(t, list.Locations, 1)
	assert.Equal(t, core.CentralLocationID, list.ActiveID)

	res, err := svc.RunAudit(context.Background(), core.CentralLocationID)
	require.NoError(t, err)
	assert.True(t, res.Fallback)
	assert.ErrorIs(t, res.Err, ErrAuditorDisabled)
}

func TestNewAuditor(t *testing.T) {
	a, err := newAuditor(context.Background(), config.AIConfig{Provider: config.ProviderAuto})
	require.NoError(t, err)
	assert.Nil(t, a)

	a, err = newAuditor(context.Background(), config.AIConfig{OpenAIAPIKey: "sk-test", Timeout: time.Second})
	require.NoError(t, err)
	assert.NotNil(t, a)
}
