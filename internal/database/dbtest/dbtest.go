// Package dbtest opens throwaway migrated sqlite databases for tests.
package dbtest

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"ventaspro/config"
	"ventaspro/internal/database"
)

var counter atomic.Int64

// Open returns a fresh in-memory database shared by every connection of its pool.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:ventaspro_test_%d?mode=memory&cache=shared&_foreign_keys=1", counter.Add(1))
	db, err := database.NewConnection(config.DBConfig{Driver: "sqlite", DSN: dsn, MaxOpenConns: 1})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}
