// Package testutil opens throwaway databases for package tests.
package testutil

import (
	"testing"

	"salonbiz-backend/config"
	"salonbiz-backend/models"
	"salonbiz-backend/utils"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB returns a migrated in-memory sqlite database. A single connection
// keeps every query on the same in-memory schema.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	utils.BcryptCost = 4

	db, err := config.ConnectDB(config.DatabaseOptions{
		Driver:       "sqlite",
		DSN:          ":memory:",
		MaxOpenConns: 1,
		LogLevel:     logger.Silent,
	})
	require.NoError(t, err)
	require.NoError(t, models.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}
