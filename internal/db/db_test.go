package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"homevisit/config"
	"homevisit/internal/model"
)

func TestInit_SQLite(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Driver:   "sqlite",
		DSN:      filepath.Join(t.TempDir(), "homevisit.db"),
		LogLevel: "silent",
	}

	gormDB, err := Init(cfg)
	require.NoError(t, err)
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	defer sqlDB.Close()

	for _, table := range []any{
		&model.MeetingGroup{}, &model.Meeting{}, &model.Household{},
		&model.Person{}, &model.Feedback{}, &model.PushSubscription{},
	} {
		assert.True(t, gormDB.Migrator().HasTable(table))
	}
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
}

func TestInit_UnknownDriver(t *testing.T) {
	_, err := Init(&config.DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
}

func TestLogLevel(t *testing.T) {
	assert.Equal(t, logger.Silent, logLevel("SILENT"))
	assert.Equal(t, logger.Info, logLevel("info"))
	assert.Equal(t, logger.Warn, logLevel(""))
}
