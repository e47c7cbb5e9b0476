// Package testutils provides common testing utilities and infrastructure setup
package testutils

import (
	"testing"

	"github.com/larderly/planner/internal/infrastructure/persistence/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB returns a migrated in-memory SQLite database closed at the
// end of the test
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := sqlite.SetupDatabase(":memory:", logger.Silent)
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}
