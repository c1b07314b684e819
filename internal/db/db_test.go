package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"hourmeter-backend/config"
	"hourmeter-backend/internal/model"
)

func TestInit_SQLiteMigratesAllTables(t *testing.T) {
	gormDB, err := Init(&config.DatabaseConfig{
		Driver:       "sqlite",
		DSN:          "file:db_init_test?mode=memory&cache=shared",
		MaxOpenConns: 1,
		LogLevel:     "silent",
	})
	require.NoError(t, err)
	sqlDB, _ := gormDB.DB()
	defer sqlDB.Close()

	for _, m := range []any{&model.Client{}, &model.Machine{}, &model.WorkRecord{}, &model.PushSubscription{}} {
		assert.True(t, gormDB.Migrator().HasTable(m), "expected table for %T", m)
	}
	assert.True(t, gormDB.Migrator().HasTable("subscription_machine_mapping"))
	assert.True(t, gormDB.Migrator().HasIndex(&model.Machine{}, "idx_machines_brand_model"))
}

func TestInit_StampsUTC(t *testing.T) {
	gormDB, err := Init(&config.DatabaseConfig{
		Driver:       "sqlite",
		DSN:          "file:db_utc_test?mode=memory&cache=shared",
		MaxOpenConns: 1,
		LogLevel:     "silent",
	})
	require.NoError(t, err)
	sqlDB, _ := gormDB.DB()
	defer sqlDB.Close()

	assert.Equal(t, time.UTC, gormDB.Config.NowFunc().Location())

	c := &model.Client{Name: "ACME", TaxID: "1", Address: "x"}
	require.NoError(t, gormDB.Create(c).Error)
	assert.Equal(t, time.UTC, c.CreatedAt.Location())
}

func TestDialectorFor(t *testing.T) {
	_, err := dialectorFor(&config.DatabaseConfig{Driver: "postgres"})
	assert.Error(t, err, "postgres without a DSN must be rejected")

	_, err = dialectorFor(&config.DatabaseConfig{Driver: "mysql", DSN: "x"})
	assert.Error(t, err)

	d, err := dialectorFor(&config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:"})
	require.NoError(t, err)
	assert.Equal(t, "sqlite", d.Name())
}

func TestLogLevel(t *testing.T) {
	assert.Equal(t, logger.Silent, logLevel("silent"))
	assert.Equal(t, logger.Info, logLevel("info"))
	assert.Equal(t, logger.Warn, logLevel("bogus"))
}
