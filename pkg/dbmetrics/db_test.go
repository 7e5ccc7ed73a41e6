package dbmetrics

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubTx struct {
	DBExecutor
}

func (stubTx) Commit() error   { return nil }
func (stubTx) Rollback() error { return nil }

func TestGetExecutor(t *testing.T) {
	db := &sql.DB{}

	t.Run("no transaction", func(t *testing.T) {
		ctx := context.Background()
		assert.Same(t, db, GetExecutor(ctx, db))
		assert.False(t, IsInTransaction(ctx))
	})

	t.Run("transaction in context", func(t *testing.T) {
		tx := &stubTx{}
		ctx := WithTx(context.Background(), tx)
		assert.Same(t, tx, GetExecutor(ctx, db))
		assert.True(t, IsInTransaction(ctx))
	})
}

func TestOperationOf(t *testing.T) {
	assert.Equal(t, "SELECT", operationOf("  select id FROM bookings"))
	assert.Equal(t, "INSERT", operationOf("INSERT INTO bookings"))
	assert.Equal(t, "UNKNOWN", operationOf(""))
}
