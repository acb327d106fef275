package repository

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newDryRunDB builds statements with the postgres dialect without
// touching a server so the generated SQL can be asserted on. The
// registered callback records each query after it is built.
func newDryRunDB(t *testing.T, captured *[]string) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=pos dbname=pos",
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.Callback().Query().After("gorm:query").Register("capture_sql", func(tx *gorm.DB) {
		*captured = append(*captured, tx.Statement.SQL.String())
	})
	require.NoError(t, err)
	return db
}

func TestLockForUpdateEmitsRowLock(t *testing.T) {
	var captured []string
	db := newDryRunDB(t, &captured)

	repo := NewProductRepo(db)
	_, _ = repo.LockForUpdate(db, uuid.New())

	require.NotEmpty(t, captured)
	assert.Contains(t, captured[len(captured)-1], "FOR UPDATE")
}

func TestLockDebtForUpdateEmitsRowLock(t *testing.T) {
	var captured []string
	db := newDryRunDB(t, &captured)

	repo := NewDebtRepo(db)
	_, _ = repo.LockDebtForUpdate(db, uuid.New())

	require.NotEmpty(t, captured)
	assert.Contains(t, captured[len(captured)-1], "FOR UPDATE")
}
