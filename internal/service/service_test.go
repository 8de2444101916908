package service

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/keeslam/CarRentalManager-sub003/internal/database"
)

// testDB 每个测试用独立的 SQLite 内存库
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

// captureNotifier 记录广播事件的 Notifier 测试替身
type captureNotifier struct {
	events []string
}

func (n *captureNotifier) Notify(event string, _ interface{}) {
	n.events = append(n.events, event)
}
