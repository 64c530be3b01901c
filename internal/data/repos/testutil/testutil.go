package testutil

import (
	"os"
	"strings"
	"sync"
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/kanoon-backend/internal/data/db"
	"github.com/yungbote/kanoon-backend/internal/platform/logger"
)

var (
	logOnce sync.Once
	testLog *logger.Logger

	dbOnce sync.Once
	testDB *gorm.DB
	dbErr  error
)

func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	logOnce.Do(func() {
		testLog = logger.NewNop()
	})
	return testLog
}

// DB opens TEST_POSTGRES_DSN when set, otherwise a shared in-memory sqlite
// database. Both are migrated once per test binary.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()
	dbOnce.Do(func() {
		cfg := &gorm.Config{
			Logger:                                   gormLogger.Default.LogMode(gormLogger.Silent),
			DisableForeignKeyConstraintWhenMigrating: true,
			TranslateError:                           true,
		}
		dsn := strings.TrimSpace(os.Getenv("TEST_POSTGRES_DSN"))
		var dialector gorm.Dialector
		if dsn != "" {
			dialector = postgres.Open(dsn)
		} else {
			dialector = sqlite.Open("file:kanoon_test?mode=memory&cache=shared")
		}
		testDB, dbErr = gorm.Open(dialector, cfg)
		if dbErr != nil {
			return
		}
		dbErr = db.AutoMigrateAll(testDB)
	})
	if dbErr != nil {
		tb.Fatalf("test db: %v", dbErr)
	}
	return testDB
}

// Tx begins a transaction that is rolled back when the test ends.
func Tx(tb testing.TB, db *gorm.DB) *gorm.DB {
	tb.Helper()
	tx := db.Begin()
	if tx.Error != nil {
		tb.Fatalf("begin tx: %v", tx.Error)
	}
	tb.Cleanup(func() {
		_ = tx.Rollback().Error
	})
	return tx
}
