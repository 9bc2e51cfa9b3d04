// Package testutil 测试辅助：SQLite 测试库、静默日志与记录构造
package testutil

import (
	"path/filepath"
	"testing"

	"FightSync/internal/repository"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenTestDB 在 t.TempDir() 中创建开启外键的 SQLite 库并完成迁移
func OpenTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := repository.SQLiteDSN(filepath.Join(t.TempDir(), "fightsync_test.db"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err, "Failed to open test database")
	require.NoError(t, repository.Migrate(db), "Failed to migrate test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// 单连接，保证事务与外键设置作用于同一连接
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// NewTestLogger 返回不输出的 logger 及可断言日志条目的 hook
func NewTestLogger() (*logrus.Logger, *test.Hook) {
	l, hook := test.NewNullLogger()
	l.SetLevel(logrus.DebugLevel)
	return l, hook
}

// CountRows 统计表中行数
func CountRows(t *testing.T, db *gorm.DB, m interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(m).Count(&n).Error)
	return n
}
