package server

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/deppfellow/locallibrary/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Primary:       config.Primary{Env: "test"},
		Server:        config.ServerConfig{Port: "0", ReadTimeout: 5, WriteTimeout: 5, IdleTimeout: 5},
		Database:      config.DatabaseConfig{Driver: config.DriverMemory},
		Upload:        config.UploadConfig{Dir: t.TempDir()},
		Observability: config.DefaultObservabilityConfig(),
	}
}

func TestNewMemoryServer(t *testing.T) {
	logger := zerolog.Nop()

	s, err := New(testConfig(t), &logger, nil)
	require.NoError(t, err)

	assert.Nil(t, s.DB)
	assert.Nil(t, s.Mongo)
	assert.Nil(t, s.Redis)
	assert.Nil(t, s.Job)
	assert.NotNil(t, s.Uploads)
	assert.Nil(t, s.notifier())
	assert.Nil(t, s.mirror())

	assert.Error(t, s.Start())
	assert.NoError(t, s.Shutdown(context.Background()))
}

func TestNewWithRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	logger := zerolog.Nop()
	cfg := testConfig(t)
	cfg.Redis.Address = mr.Addr()

	s, err := New(cfg, &logger, nil)
	require.NoError(t, err)
	require.NotNil(t, s.Redis)

	assert.NoError(t, s.Redis.Ping(context.Background()).Err())
	assert.NoError(t, s.Shutdown(context.Background()))
}

func TestJobsRequireRedis(t *testing.T) {
	logger := zerolog.Nop()
	cfg := testConfig(t)
	cfg.Jobs.Enabled = true

	_, err := New(cfg, &logger, nil)
	assert.ErrorContains(t, err, "redis")
}
