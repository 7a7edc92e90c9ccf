package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"culinary-quest/internal/config"
)

func TestParseConfig_Defaults(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Host:     "db.local",
		Port:     5433,
		User:     "chef",
		Password: "secret",
		Name:     "kitchen",
		PoolSize: 8,
	}

	pc, err := ParseConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, "db.local", pc.ConnConfig.Host)
	assert.Equal(t, uint16(5433), pc.ConnConfig.Port)
	assert.Equal(t, "kitchen", pc.ConnConfig.Database)
	assert.Equal(t, int32(8), pc.MaxConns)
	assert.Equal(t, int32(2), pc.MinConns)
	assert.Equal(t, defaultConnectTimeout, pc.ConnConfig.ConnectTimeout)
	assert.Equal(t, defaultMaxConnLifetime, pc.MaxConnLifetime)
	assert.Equal(t, defaultMaxConnIdleTime, pc.MaxConnIdleTime)
	assert.Equal(t, applicationName, pc.ConnConfig.RuntimeParams["application_name"])
}

func TestParseConfig_Overrides(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Host:            "localhost",
		Port:            5432,
		User:            "chef",
		Name:            "kitchen",
		PoolSize:        2,
		ConnectTimeout:  3 * time.Second,
		MaxConnLifetime: 5 * time.Minute,
		MaxConnIdleTime: time.Minute,
	}

	pc, err := ParseConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, int32(1), pc.MinConns)
	assert.Equal(t, 3*time.Second, pc.ConnConfig.ConnectTimeout)
	assert.Equal(t, 5*time.Minute, pc.MaxConnLifetime)
	assert.Equal(t, time.Minute, pc.MaxConnIdleTime)
}

func TestMigrations_AreIdempotent(t *testing.T) {
	for _, m := range migrations {
		assert.Contains(t, m.sql, "IF NOT EXISTS", m.name)
	}
}
